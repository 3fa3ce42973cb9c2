package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/youruser/tradingcard/internal/config"
	"github.com/youruser/tradingcard/internal/server"
	"github.com/youruser/tradingcard/internal/telemetry"
)

func main() {
	log.SetPrefix("[CARDS] ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := telemetry.RunWithTelemetry(ctx, telemetry.ServiceName, cfg.Telemetry, func(ctx context.Context) error {
		return server.Run(ctx, cfg)
	}); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
