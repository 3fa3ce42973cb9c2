package imagepkg

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	qrSize         = 400
	backCaptionY   = 900
	backCaptionPt  = 56
	defaultCaption = "AI TRADING CARD"
)

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	return qrcode.Encode(text, qrcode.Medium, size)
}

// GenerateQRImage returns a QR code as an image for further composition.
func GenerateQRImage(text string, size int) (image.Image, error) {
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	return q.Image(size), nil
}

// BackOptions controls the generated card back.
type BackOptions struct {
	Background color.Color
	URL        string
	Caption    string
}

// CardBack returns the printed back of the card. A template image at
// templatePath wins; without one a default back is rendered.
func CardBack(templatePath string, opts BackOptions) (image.Image, error) {
	if templatePath != "" {
		img, err := imaging.Open(templatePath)
		switch {
		case err == nil:
			return img, nil
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("card back template: %w", err)
		}
	}
	return RenderDefaultBack(opts)
}

// RenderDefaultBack draws a back in the same frame style as the front with a
// QR code to opts.URL and a caption.
func RenderDefaultBack(opts BackOptions) (*image.NRGBA, error) {
	bg := opts.Background
	if bg == nil {
		bg = MustParseHexColor(defaultBackground)
	}
	caption := opts.Caption
	if caption == "" {
		caption = defaultCaption
	}

	dc := newCanvas(bg)
	frame := image.Rect(frameMargin, frameMargin, CardWidth-frameMargin, CardHeight-frameMargin)
	fillRoundedRect(dc, frame, frameRadius, FrameColor)

	if opts.URL != "" {
		qr, err := GenerateQRImage(opts.URL, qrSize)
		if err != nil {
			return nil, err
		}
		dc.DrawImage(qr, (CardWidth-qrSize)/2, 240)
	}

	if err := drawCenteredText(dc, caption, CardWidth/2, backCaptionY, backCaptionPt, frame.Dx()-2*frameRadius, bg); err != nil {
		return nil, err
	}
	return toNRGBA(dc), nil
}
