package imagepkg

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

const minFontSize = 24

var (
	boldOnce sync.Once
	boldFont *opentype.Font
	boldErr  error
)

func loadBold() (*opentype.Font, error) {
	boldOnce.Do(func() {
		boldFont, boldErr = opentype.Parse(gobold.TTF)
	})
	return boldFont, boldErr
}

func boldFace(size float64) (font.Face, error) {
	f, err := loadBold()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// fitFace returns the largest bold face not above size whose rendering of s
// fits in maxWidth, stopping at minFontSize.
func fitFace(s string, size float64, maxWidth int) (font.Face, error) {
	for {
		face, err := boldFace(size)
		if err != nil {
			return nil, err
		}
		if size <= minFontSize || font.MeasureString(face, s).Ceil() <= maxWidth {
			return face, nil
		}
		face.Close()
		size -= 4
	}
}

// drawCenteredText draws s centred on (cx, cy) in bold at up to size points.
func drawCenteredText(dc *gg.Context, s string, cx, cy int, size float64, maxWidth int, c color.Color) error {
	if s == "" {
		return nil
	}
	face, err := fitFace(s, size, maxWidth)
	if err != nil {
		return err
	}
	defer face.Close()

	dc.SetFontFace(face)
	dc.SetColor(c)
	dc.DrawStringAnchored(s, float64(cx), float64(cy), 0.5, 0.35)
	return nil
}
