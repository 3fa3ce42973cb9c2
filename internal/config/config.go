package config

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Model providers understood by the generator.
const (
	ProviderAzure  = "azure"
	ProviderOpenAI = "openai"
)

// ModelConfig points at the external image-editing model.
type ModelConfig struct {
	Provider   string        `env:"PROVIDER" envDefault:"azure"`
	Endpoint   string        `env:"ENDPOINT"`
	APIKey     string        `env:"API_KEY"`
	ImageModel string        `env:"IMAGE_MODEL" envDefault:"gpt-image-1"`
	APIVersion string        `env:"API_VERSION" envDefault:"2025-04-01-preview"`
	Size       string        `env:"SIZE" envDefault:"1024x1024"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"120s"`
}

// TelemetryConfig controls OTLP trace export.
type TelemetryConfig struct {
	Endpoint    string  `env:"ENDPOINT"`
	Enabled     bool    `env:"ENABLED" envDefault:"true"`
	SampleRatio float64 `env:"SAMPLE_RATIO" envDefault:"1"`
}

// Active reports whether traces should be exported.
func (t TelemetryConfig) Active() bool {
	return t.Enabled && strings.TrimSpace(t.Endpoint) != ""
}

// Config is the card service configuration.
type Config struct {
	Port           string      `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string    `env:"TRADINGCARD_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,https://localhost:3000"`
	StaticDir      string      `env:"TRADINGCARD_STATIC_DIR" envDefault:"public"`
	AssetHosts     []string    `env:"TRADINGCARD_ASSET_HOSTS" envSeparator:","`
	CardBack       string      `env:"TRADINGCARD_CARD_BACK" envDefault:"tradingcard-back.png"`
	CardBackURL    string      `env:"TRADINGCARD_CARD_BACK_URL" envDefault:"https://www.infosupport.com"`
	CatalogFile    string      `env:"TRADINGCARD_CATALOG_FILE"`
	VIPFile        string      `env:"TRADINGCARD_VIP_FILE"`
	PromptFile     string      `env:"TRADINGCARD_PROMPT_FILE"`
	MaxPhotoBytes  int64       `env:"TRADINGCARD_MAX_PHOTO_BYTES" envDefault:"10485760"`
	InjectMetadata bool        `env:"TRADINGCARD_INJECT_METADATA" envDefault:"true"`
	Model          ModelConfig `envPrefix:"TRADINGCARD_MODEL_"`

	Telemetry TelemetryConfig `envPrefix:"TRADINGCARD_OTEL_"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. A missing file is logged and ignored; system variables win.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			log.Printf("%s not loaded, using system environment", f)
		}
	}
}

// Load reads .env (when present) and then parses the environment into a Config.
func Load() (Config, error) {
	LoadDotEnv()
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Model.Provider) {
	case ProviderAzure:
		if strings.TrimSpace(c.Model.Endpoint) == "" {
			errs = append(errs, errors.New("model endpoint is required for azure"))
		}
	case ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("unknown model provider %q", c.Model.Provider))
	}
	if strings.TrimSpace(c.Model.APIKey) == "" {
		errs = append(errs, errors.New("model api key is required"))
	}
	if strings.TrimSpace(c.Model.ImageModel) == "" {
		errs = append(errs, errors.New("image model is required"))
	}
	if c.MaxPhotoBytes <= 0 {
		errs = append(errs, errors.New("max photo bytes must be positive"))
	}
	if c.Model.Timeout <= 0 {
		errs = append(errs, errors.New("model timeout must be positive"))
	}
	if r := c.Telemetry.SampleRatio; r < 0 || r > 1 {
		errs = append(errs, fmt.Errorf("otel sample ratio %v is outside [0, 1]", r))
	}
	return errors.Join(errs...)
}

// CardBackPath resolves the card back template inside the static directory.
func (c Config) CardBackPath() string {
	if c.CardBack == "" || filepath.IsAbs(c.CardBack) {
		return c.CardBack
	}
	return filepath.Join(c.StaticDir, c.CardBack)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
