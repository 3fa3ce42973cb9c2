package cards

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed catalog.toml
var defaultCatalogTOML string

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultCatalog returns the embedded reference data, parsed once.
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = ParseCatalog(defaultCatalogTOML)
	})
	return defaultCatalog, defaultErr
}

// MustDefaultCatalog is DefaultCatalog for callers that cannot proceed without it.
func MustDefaultCatalog() *Catalog {
	c, err := DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadCatalogFile reads a catalog from a TOML file on disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	c, err := ParseCatalog(string(b))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes a TOML catalog and fills the derived team fields.
func ParseCatalog(src string) (*Catalog, error) {
	var c Catalog
	if _, err := toml.Decode(src, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(c.Groups) == 0 {
		return nil, fmt.Errorf("catalog has no team groups")
	}
	seen := map[string]bool{}
	for gi := range c.Groups {
		g := &c.Groups[gi]
		g.Key = strings.ToLower(strings.TrimSpace(g.Key))
		if g.Key == "" {
			return nil, fmt.Errorf("catalog group %d has no key", gi)
		}
		for ti := range g.Teams {
			t := &g.Teams[ti]
			t.Name = strings.TrimSpace(t.Name)
			key := strings.ToLower(t.Name)
			if seen[key] {
				return nil, fmt.Errorf("duplicate team %q", t.Name)
			}
			seen[key] = true
			t.Group = g.Key
			t.Color = g.Color
		}
	}
	return &c, nil
}
