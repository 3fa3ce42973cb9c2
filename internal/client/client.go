// Package client talks to the card service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/youruser/tradingcard/internal/cards"
	"github.com/youruser/tradingcard/internal/util"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("card service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("card service returned %d: %s", e.StatusCode, e.Message)
}

// ErrEmptyImage is returned when the service answers without an image.
var ErrEmptyImage = errors.New("response contains no image")

// Client calls the card service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the service at baseURL. A nil httpClient uses
// http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// GenerateCard posts the request to /generate and returns the parsed response.
func (c *Client) GenerateCard(ctx context.Context, req *cards.GenerateCardRequest) (*cards.GenerateCardResponse, error) {
	body, err := c.post(ctx, "/generate", req)
	if err != nil {
		return nil, err
	}
	var out cards.GenerateCardResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode generate response: %w", err)
	}
	if out.Image == "" {
		return nil, ErrEmptyImage
	}
	return &out, nil
}

// RenderCard returns the composed card front as PNG bytes.
func (c *Client) RenderCard(ctx context.Context, req *cards.RenderCardRequest) ([]byte, error) {
	return c.post(ctx, "/cards/render", req)
}

// PrintCard returns the two-page card PDF.
func (c *Client) PrintCard(ctx context.Context, req *cards.RenderCardRequest) ([]byte, error) {
	return c.post(ctx, "/cards/print", req)
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

// EncodeBase64 encodes raw bytes for a request field.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DataURL wraps a base64 payload in a data URL; mime defaults to image/png.
func DataURL(b64, mime string) string {
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + b64
}

// StripDataURL returns the base64 payload of a data URL, or s unchanged.
func StripDataURL(s string) string {
	payload, _ := util.StripDataURL(s)
	return payload
}
