// Package render turns card requests into the downloadable front PNG, the
// card back and the printable PDF.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/youruser/tradingcard/internal/cards"
	"github.com/youruser/tradingcard/internal/config"
	imagepkg "github.com/youruser/tradingcard/internal/image"
	"github.com/youruser/tradingcard/internal/printout"
	"github.com/youruser/tradingcard/internal/util"
)

var (
	ErrInvalidImage    = errors.New("card image is not a valid image")
	ErrInvalidColor    = errors.New("invalid team color")
	ErrUnknownProperty = errors.New("unknown special property")
	ErrAsset           = errors.New("card asset could not be loaded")
)

// AssetError reports a logo or badge that could not be loaded. It matches
// ErrAsset and the underlying load error.
type AssetError struct {
	Asset string
	Err   error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrAsset, e.Asset, e.Err)
}

func (e *AssetError) Unwrap() []error { return []error{ErrAsset, e.Err} }

// Renderer draws cards using the static catalog and assets.
type Renderer struct {
	Catalog        *cards.Catalog
	Assets         imagepkg.AssetLoader
	CardBackPath   string
	CardBackURL    string
	InjectMetadata bool
}

// New builds a Renderer from the server configuration.
func New(cfg config.Config, catalog *cards.Catalog) *Renderer {
	return &Renderer{
		Catalog:        catalog,
		Assets:         imagepkg.AssetLoader{StaticDir: cfg.StaticDir, AllowedHosts: cfg.AssetHosts},
		CardBackPath:   cfg.CardBackPath(),
		CardBackURL:    cfg.CardBackURL,
		InjectMetadata: cfg.InjectMetadata,
	}
}

// Spec resolves the request into everything ComposeCard draws. Any asset that
// fails to load rejects the whole card.
func (r *Renderer) Spec(ctx context.Context, req *cards.RenderCardRequest) (imagepkg.CardSpec, error) {
	if req.Image == "" {
		return imagepkg.CardSpec{}, imagepkg.ErrNoImage
	}
	img, err := decodeImage(req.Image)
	if err != nil {
		return imagepkg.CardSpec{}, err
	}
	bg, err := r.background(req.TeamColor)
	if err != nil {
		return imagepkg.CardSpec{}, err
	}
	spec := imagepkg.CardSpec{Image: img, PlayerName: req.Name(), Background: bg}

	if req.TeamLogo != "" {
		ref := req.TeamLogo
		if t, ok := r.catalog().FindTeam(ref); ok {
			ref = t.Logo
		}
		if spec.Logo, err = r.Assets.Load(ctx, ref); err != nil {
			return imagepkg.CardSpec{}, &AssetError{Asset: "team logo", Err: err}
		}
	}

	if id := strings.TrimSpace(req.SpecialProperty); id != "" && !strings.EqualFold(id, "none") {
		prop, ok := r.catalog().SpecialProperty(id)
		if !ok {
			return imagepkg.CardSpec{}, fmt.Errorf("%w: %q", ErrUnknownProperty, id)
		}
		// Emoji icons only exist in the browser; the printed badge needs an image.
		if prop.HasImageIcon() {
			if spec.Badge, err = r.Assets.Load(ctx, prop.Icon); err != nil {
				return imagepkg.CardSpec{}, &AssetError{Asset: prop.ID + " badge", Err: err}
			}
		}
	}
	return spec, nil
}

// Front renders the card front as PNG, stamped with the generator metadata
// when enabled.
func (r *Renderer) Front(ctx context.Context, req *cards.RenderCardRequest) ([]byte, error) {
	spec, err := r.Spec(ctx, req)
	if err != nil {
		return nil, err
	}
	card, err := imagepkg.ComposeCard(spec)
	if err != nil {
		return nil, err
	}
	out, err := imagepkg.EncodePNG(card)
	if err != nil {
		return nil, err
	}
	if r.InjectMetadata {
		return imagepkg.WithSoftwareTag(out, imagepkg.WatermarkText)
	}
	return out, nil
}

// Back renders the card back for a team color as PNG.
func (r *Renderer) Back(teamColor string) ([]byte, error) {
	bg, err := r.background(teamColor)
	if err != nil {
		return nil, err
	}
	back, err := imagepkg.CardBack(r.CardBackPath, imagepkg.BackOptions{Background: bg, URL: r.CardBackURL})
	if err != nil {
		return nil, err
	}
	return imagepkg.EncodePNG(back)
}

// Print renders the two-page PDF. req.Back, when set, replaces the default back.
func (r *Renderer) Print(ctx context.Context, req *cards.RenderCardRequest) ([]byte, error) {
	front, err := r.Front(ctx, req)
	if err != nil {
		return nil, err
	}
	var back []byte
	if req.Back != "" {
		img, err := decodeImage(req.Back)
		if err != nil {
			return nil, err
		}
		if back, err = imagepkg.EncodePNG(img); err != nil {
			return nil, err
		}
	} else if back, err = r.Back(req.TeamColor); err != nil {
		return nil, err
	}
	return printout.Build(front, back)
}

func (r *Renderer) catalog() *cards.Catalog {
	if r.Catalog == nil {
		return cards.MustDefaultCatalog()
	}
	return r.Catalog
}

func (r *Renderer) background(teamColor string) (color.Color, error) {
	c, err := imagepkg.ParseHexColor(r.catalog().ColorHex(teamColor))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidColor, err)
	}
	return c, nil
}

func decodeImage(encoded string) (image.Image, error) {
	b, err := util.DecodeBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	img, _, err := imagepkg.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	return img, nil
}
