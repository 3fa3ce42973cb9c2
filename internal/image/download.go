package imagepkg

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/youruser/tradingcard/internal/util"
)

var (
	// ErrNoAsset is returned when an empty asset reference is loaded.
	ErrNoAsset = errors.New("asset reference is empty")
	// ErrRemoteAsset is returned for URLs whose host is not allowed.
	ErrRemoteAsset = errors.New("remote asset host is not allowed")
)

// AssetLoader resolves the asset references used for logos and badges: a
// file name under StaticDir, a data URL, raw base64, or an http(s) URL on one
// of AllowedHosts. Without AllowedHosts no URL is fetched.
type AssetLoader struct {
	StaticDir    string
	AllowedHosts []string // host or host:port
}

// Load decodes the image behind ref.
func (l AssetLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, ErrNoAsset
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return l.download(ctx, ref)
	case strings.HasPrefix(ref, "data:"):
		return decodeBase64Image(ref)
	}

	if l.StaticDir != "" {
		path := StaticPath(l.StaticDir, ref)
		b, err := os.ReadFile(path)
		if err == nil {
			img, _, err := Decode(b)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", ref, err)
			}
			return img, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", ref, err)
		}
	}
	if looksLikeFileName(ref) {
		return nil, fmt.Errorf("load %s: %w", ref, os.ErrNotExist)
	}
	return decodeBase64Image(ref)
}

// Allowed reports whether raw is an http(s) URL on an allowed host.
func (l AssetLoader) Allowed(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	return slices.ContainsFunc(l.AllowedHosts, func(h string) bool {
		h = strings.TrimSpace(h)
		return h != "" && (strings.EqualFold(h, u.Host) || strings.EqualFold(h, u.Hostname()))
	})
}

func (l AssetLoader) download(ctx context.Context, ref string) (image.Image, error) {
	if !l.Allowed(ref) {
		return nil, fmt.Errorf("load %s: %w", ref, ErrRemoteAsset)
	}
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			if !l.Allowed(req.URL.String()) {
				return ErrRemoteAsset
			}
			return nil
		},
	}
	body, err := util.GetBytes(ctx, client, ref)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ref, err)
	}
	img, _, err := Decode(body)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ref, err)
	}
	return img, nil
}

// StaticPath joins name under dir without letting it escape dir.
func StaticPath(dir, name string) string {
	return filepath.Join(dir, filepath.Clean("/"+strings.TrimPrefix(name, "/")))
}

func decodeBase64Image(s string) (image.Image, error) {
	b, err := util.DecodeBase64(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64 asset: %w", err)
	}
	img, _, err := Decode(b)
	return img, err
}

func looksLikeFileName(ref string) bool {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return true
	}
	return false
}
