// Package server wires configuration, the generator and the HTTP handlers
// into a running card service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/youruser/tradingcard/internal/api"
	"github.com/youruser/tradingcard/internal/cards"
	"github.com/youruser/tradingcard/internal/config"
	"github.com/youruser/tradingcard/internal/generator"
	"github.com/youruser/tradingcard/internal/render"
	"github.com/youruser/tradingcard/internal/timeouts"
	"github.com/youruser/tradingcard/internal/vip"
)

// bodySlack covers the JSON around the base64 photo.
const bodySlack = 64 << 10

// New builds the HTTP server for cfg. editor may be nil, in which case the
// configured model provider is used.
func New(cfg config.Config, editor generator.ImageEditor) (*http.Server, error) {
	catalog, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	directory, err := loadVIP(cfg.VIPFile)
	if err != nil {
		return nil, err
	}
	if editor == nil {
		if editor, err = generator.NewOpenAIEditor(cfg.Model); err != nil {
			return nil, fmt.Errorf("init image model: %w", err)
		}
	}

	gen, err := generator.New(editor, cfg)
	if err != nil {
		return nil, err
	}
	h := &api.Handlers{
		Generator:    gen,
		Renderer:     render.New(cfg, catalog),
		Catalog:      catalog,
		VIP:          directory,
		QRText:       cfg.CardBackURL,
		MaxBodyBytes: maxBodyBytes(cfg.MaxPhotoBytes),
	}
	router := api.NewRouter(h, api.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      cfg.StaticDir,
	})
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg config.Config) error {
	srv, err := New(cfg, nil)
	if err != nil {
		return err
	}
	return serve(ctx, srv)
}

func serve(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}

func loadCatalog(path string) (*cards.Catalog, error) {
	if path == "" {
		return cards.DefaultCatalog()
	}
	c, err := cards.LoadCatalogFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	log.Printf("loaded catalog from %s", path)
	return c, nil
}

func loadVIP(path string) (*vip.Directory, error) {
	if path == "" {
		return vip.Default()
	}
	d, err := vip.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load vip list: %w", err)
	}
	log.Printf("loaded %d vip names from %s", d.Len(), path)
	return d, nil
}

// maxBodyBytes is the largest request body that can carry a photo of
// maxPhoto bytes as base64.
func maxBodyBytes(maxPhoto int64) int64 {
	if maxPhoto <= 0 {
		return 0
	}
	return (maxPhoto+2)/3*4 + bodySlack
}
