package util

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/youruser/tradingcard/internal/timeouts"
)

// maxDownloadBytes bounds remote asset downloads.
const maxDownloadBytes = 20 << 20

// GetBytes fetches url with client, or http.DefaultClient when client is nil.
func GetBytes(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.AssetFetch)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
}
