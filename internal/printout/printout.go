// Package printout assembles the two-page PDF used to print a card: the
// front on page one and the back on page two, both on CR80 sized pages.
package printout

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/go-pdf/fpdf"
)

// CR80 card (2.125" x 3.375") in points, portrait.
const (
	PageWidth  = 638.0
	PageHeight = 1013.0
)

const creator = "Info Support AI Trading Card Generator"

var ErrEmptyPage = errors.New("page image is empty")

// Build returns a PDF with front and back each scaled to fit and centred on
// its own page.
func Build(front, back []byte) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(creator, true)
	pdf.SetTitle("Trading card", true)

	for i, page := range [][]byte{front, back} {
		name := fmt.Sprintf("page-%d", i+1)
		if err := addImagePage(pdf, name, page); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func addImagePage(pdf *fpdf.Fpdf, name string, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyPage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: imageType(format)}

	pdf.AddPage()
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if err := pdf.Error(); err != nil {
		return err
	}

	x, y, w, h := fit(float64(cfg.Width), float64(cfg.Height))
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return pdf.Error()
}

// fit scales a w x h image (one pixel per point) to fit the page and centres it.
func fit(w, h float64) (x, y, fw, fh float64) {
	scale := min(PageWidth/w, PageHeight/h)
	fw, fh = w*scale, h*scale
	return (PageWidth - fw) / 2, (PageHeight - fh) / 2, fw, fh
}

func imageType(format string) string {
	if format == "jpeg" {
		return "JPG"
	}
	return "PNG"
}
