package imagepkg

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// newCanvas returns a card sized drawing context filled with bg.
func newCanvas(bg color.Color) *gg.Context {
	dc := gg.NewContext(CardWidth, CardHeight)
	dc.SetColor(bg)
	dc.Clear()
	return dc
}

func toNRGBA(dc *gg.Context) *image.NRGBA {
	return imaging.Clone(dc.Image())
}

func roundedRectPath(dc *gg.Context, r image.Rectangle, radius float64) {
	dc.DrawRoundedRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()), radius)
}

func fillRoundedRect(dc *gg.Context, r image.Rectangle, radius float64, c color.Color) {
	roundedRectPath(dc, r, radius)
	dc.SetColor(c)
	dc.Fill()
}

func fillCircle(dc *gg.Context, cx, cy, radius float64, c color.Color) {
	dc.DrawCircle(cx, cy, radius)
	dc.SetColor(c)
	dc.Fill()
}

// strokeCircle draws a ring of the given width centred on radius.
func strokeCircle(dc *gg.Context, cx, cy, radius, width float64, c color.Color) {
	dc.DrawCircle(cx, cy, radius)
	dc.SetLineWidth(width)
	dc.SetColor(c)
	dc.Stroke()
}

// drawInRoundedRect draws img at r.Min clipped to r with rounded corners.
func drawInRoundedRect(dc *gg.Context, img image.Image, r image.Rectangle, radius float64) {
	roundedRectPath(dc, r, radius)
	dc.Clip()
	dc.DrawImage(img, r.Min.X, r.Min.Y)
	dc.ResetClip()
}

// drawInCircle draws img with its top-left corner at `at`, clipped to a disc.
func drawInCircle(dc *gg.Context, img image.Image, at image.Point, cx, cy, radius float64) {
	dc.DrawCircle(cx, cy, radius)
	dc.Clip()
	dc.DrawImage(img, at.X, at.Y)
	dc.ResetClip()
}
