// Package timeouts defines shared timeout constants used across the service
// and the CLI.
package timeouts

import "time"

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 30 * time.Second

// AssetFetch caps downloading a remote logo or badge image.
const AssetFetch = 12 * time.Second

// Telemetry caps flushing pending spans on exit.
const Telemetry = 5 * time.Second
