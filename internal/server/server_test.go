package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"github.com/youruser/tradingcard/internal/cards"
	"github.com/youruser/tradingcard/internal/config"
	imagepkg "github.com/youruser/tradingcard/internal/image"
)

type stubEditor struct{ out []byte }

func (s stubEditor) EditImage(context.Context, []byte, string, string, string) ([]byte, error) {
	return s.out, nil
}

func pngData(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.New(w, h, color.NRGBA{B: 255, A: 255})); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	var cfg config.Config
	if err := config.ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	cfg.StaticDir = t.TempDir()
	return cfg
}

func TestServerGeneratesCard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv, err := New(testConfig(t), stubEditor{out: pngData(t, 32, 32)})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	body, _ := json.Marshal(cards.GenerateCardRequest{
		Sport:  cards.Sport{Type: "Basketball"},
		Team:   cards.Team{Name: "Daemon Dogs", Color: "red"},
		Player: cards.Player{Photo: base64.StdEncoding.EncodeToString(pngData(t, 40, 56))},
	})
	resp, err := http.Post(ts.URL+"/generate", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	var out cards.GenerateCardResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	img, _ := base64.StdEncoding.DecodeString(out.Image)
	if sw, err := imagepkg.ReadSoftware(img); err != nil || sw != imagepkg.WatermarkText {
		t.Fatalf("expected watermark on generated image, got %q (%v)", sw, err)
	}
}

func TestNewErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.CatalogFile = filepath.Join(t.TempDir(), "missing.toml")
	if _, err := New(cfg, stubEditor{}); err == nil {
		t.Fatal("expected catalog error")
	}

	cfg = testConfig(t)
	cfg.VIPFile = filepath.Join(t.TempDir(), "missing.json")
	if _, err := New(cfg, stubEditor{}); err == nil {
		t.Fatal("expected vip error")
	}

	cfg = testConfig(t)
	cfg.Model.Endpoint = ""
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected model error for azure without endpoint")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestMaxBodyBytes(t *testing.T) {
	if got := maxBodyBytes(0); got != 0 {
		t.Fatalf("expected no limit, got %d", got)
	}
	if got := maxBodyBytes(3); got != 4+bodySlack {
		t.Fatalf("unexpected limit %d", got)
	}
	if got := maxBodyBytes(4); got != 8+bodySlack {
		t.Fatalf("unexpected limit %d", got)
	}
}
