package imagepkg

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Card layout in pixels. The preview shown in the browser is half this size.
const (
	CardWidth  = 750
	CardHeight = 1150

	frameMargin = 16
	frameHeight = 800
	frameRadius = 32

	photoSize   = 680
	photoTop    = frameMargin + 16
	photoRadius = 32

	nameFontSize = 64

	logoSize   = 200
	logoBorder = 4

	badgeSize   = 96
	badgeInset  = 32
	badgeIcon   = 64
	badgeBorder = 4
)

var (
	FrameColor      = color.NRGBA{R: 0xf1, G: 0xe4, B: 0xce, A: 0xff}
	LogoBorderColor = color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	BadgeColor      = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	BadgeRingColor  = color.NRGBA{R: 0xfa, G: 0xcc, B: 0x15, A: 0xff}
)

// ErrNoImage is returned when a card is composed without a generated image.
var ErrNoImage = errors.New("generated image is required")

// CardSpec holds everything drawn on the front of a card.
type CardSpec struct {
	Image      image.Image
	PlayerName string
	Background color.Color
	Logo       image.Image // optional
	Badge      image.Image // optional special property icon
}

// ComposeCard draws the fixed card front layout: team color background,
// rounded frame, the generated photo, the player name, and a circular logo
// badge below the frame.
func ComposeCard(spec CardSpec) (*image.NRGBA, error) {
	if spec.Image == nil {
		return nil, ErrNoImage
	}
	bg := spec.Background
	if bg == nil {
		bg = MustParseHexColor(defaultBackground)
	}

	dc := newCanvas(bg)

	frame := image.Rect(frameMargin, frameMargin, CardWidth-frameMargin, frameMargin+frameHeight)
	fillRoundedRect(dc, frame, frameRadius, FrameColor)

	photoX := (CardWidth - photoSize) / 2
	photo := imaging.Fill(spec.Image, photoSize, photoSize, imaging.Center, imaging.Lanczos)
	photoRect := image.Rect(photoX, photoTop, photoX+photoSize, photoTop+photoSize)
	drawInRoundedRect(dc, photo, photoRect, photoRadius)

	// Name sits midway between the photo and the bottom of the frame.
	textY := photoRect.Max.Y + (frame.Max.Y-photoRect.Max.Y)/2
	maxTextWidth := frame.Dx() - 2*frameRadius
	if err := drawCenteredText(dc, spec.PlayerName, CardWidth/2, textY, nameFontSize, maxTextWidth, bg); err != nil {
		return nil, err
	}

	if spec.Logo != nil {
		drawLogo(dc, spec.Logo, frame.Max.Y)
	}
	if spec.Badge != nil {
		drawBadge(dc, spec.Badge, frame)
	}
	return toNRGBA(dc), nil
}

func drawLogo(dc *gg.Context, logo image.Image, frameBottom int) {
	available := CardHeight - frameBottom - frameMargin
	x := (CardWidth - logoSize) / 2
	y := frameBottom + (available-logoSize)/2
	cx := float64(x) + logoSize/2
	cy := float64(y) + logoSize/2
	r := float64(logoSize) / 2

	fillCircle(dc, cx, cy, r, FrameColor)
	drawInCircle(dc, containIn(logo, logoSize), image.Pt(x, y), cx, cy, r-logoBorder/2)
	strokeCircle(dc, cx, cy, r, logoBorder, LogoBorderColor)
}

func drawBadge(dc *gg.Context, icon image.Image, frame image.Rectangle) {
	cx := float64(frame.Max.X - badgeInset - badgeSize/2)
	cy := float64(frame.Min.Y + badgeInset + badgeSize/2)
	r := float64(badgeSize) / 2

	fillCircle(dc, cx, cy, r, BadgeColor)
	at := image.Pt(int(cx)-badgeIcon/2, int(cy)-badgeIcon/2)
	drawInCircle(dc, containIn(icon, badgeIcon), at, cx, cy, r-badgeBorder)
	strokeCircle(dc, cx, cy, r-badgeBorder/2, badgeBorder, BadgeRingColor)
}

// containIn scales img up or down to fit a size x size square, preserving
// aspect ratio, and centres it on a transparent square.
func containIn(img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	scale := math.Min(float64(size)/float64(b.Dx()), float64(size)/float64(b.Dy()))
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))
	fit := imaging.Resize(img, w, h, imaging.Lanczos)
	out := imaging.New(size, size, color.NRGBA{})
	off := image.Pt((size-fit.Bounds().Dx())/2, (size-fit.Bounds().Dy())/2)
	return imaging.Paste(out, fit, off)
}
