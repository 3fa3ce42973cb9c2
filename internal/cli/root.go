// Package cli implements cardctl, the command line companion of the card
// service.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/youruser/tradingcard/internal/cards"
	"github.com/youruser/tradingcard/internal/client"
	"github.com/youruser/tradingcard/internal/config"
	"github.com/youruser/tradingcard/internal/generator"
	"github.com/youruser/tradingcard/internal/render"
	"github.com/youruser/tradingcard/internal/vip"
)

// app carries the global flags and lazily loaded configuration shared by
// the subcommands.
type app struct {
	serverURL string
	staticDir string

	cfg    *config.Config
	editor generator.ImageEditor
}

// NewRootCmd builds the cardctl command tree.
func NewRootCmd() *cobra.Command {
	return newRoot(&app{})
}

func newRoot(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "cardctl",
		Short: "Generate, compose and print AI trading cards",
		Long: `cardctl works with the trading card service from the command line.

Commands that produce cards run locally using the service configuration
(.env and TRADINGCARD_* variables), or against a running service when
--server is given.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&a.serverURL, "server", os.Getenv("TRADINGCARD_SERVER_URL"), "base URL of a running card service")
	root.PersistentFlags().StringVar(&a.staticDir, "static", "", "static asset directory (overrides TRADINGCARD_STATIC_DIR)")

	root.AddCommand(
		newGenerateCmd(a),
		newComposeCmd(a),
		newPrintCmd(a),
		newBackCmd(a),
		newCaptureCmd(),
		newExifCmd(),
		newTeamsCmd(a),
		newSportsCmd(a),
		newVIPCmd(a),
	)
	return root
}

// Execute runs cardctl with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) loadConfig() (config.Config, error) {
	if a.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return config.Config{}, err
		}
		if a.staticDir != "" {
			cfg.StaticDir = a.staticDir
		}
		a.cfg = &cfg
	}
	return *a.cfg, nil
}

func (a *app) catalog() (*cards.Catalog, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.CatalogFile != "" {
		return cards.LoadCatalogFile(cfg.CatalogFile)
	}
	return cards.DefaultCatalog()
}

func (a *app) vipDirectory() (*vip.Directory, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.VIPFile != "" {
		return vip.LoadFile(cfg.VIPFile)
	}
	return vip.Default()
}

func (a *app) renderer() (*render.Renderer, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	catalog, err := a.catalog()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return render.New(cfg, catalog), nil
}

func (a *app) apiClient() *client.Client {
	if a.serverURL == "" {
		return nil
	}
	return client.New(a.serverURL, nil)
}

// generatorService returns a local generation service using the configured model.
func (a *app) generatorService() (*generator.Service, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	editor := a.editor
	if editor == nil {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		if editor, err = generator.NewOpenAIEditor(cfg.Model); err != nil {
			return nil, err
		}
	}
	return generator.New(editor, cfg)
}
