package imagepkg

import (
	"bytes"
	"errors"
	"fmt"

	exifv3 "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	pis "github.com/dsoprea/go-png-image-structure/v2"
	"github.com/rwcarlsen/goexif/exif"
)

// WatermarkText is written to the EXIF Software tag of every generated card.
const WatermarkText = "Generated with the Info Support AI Trading Card Generator"

const exifChunkType = "eXIf"

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

var (
	ErrNotPNG     = errors.New("not a png stream")
	ErrNoMetadata = errors.New("image has no exif metadata")
)

// InjectMetadata decodes an image, re-encodes it as PNG and stores
// WatermarkText in the Software tag of an eXIf chunk. Any existing eXIf chunk
// is replaced. Pixel dimensions are unchanged.
func InjectMetadata(data []byte) ([]byte, error) {
	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	encoded, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return WithSoftwareTag(encoded, WatermarkText)
}

// WithSoftwareTag stores software in the eXIf chunk of an encoded PNG.
func WithSoftwareTag(pngData []byte, software string) ([]byte, error) {
	cs, err := parsePNG(pngData)
	if err != nil {
		return nil, err
	}

	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return nil, fmt.Errorf("exif mapping: %w", err)
	}
	ib := exifv3.NewIfdBuilder(im, exifv3.NewTagIndex(), exifcommon.IfdStandardIfdIdentity, exifcommon.EncodeDefaultByteOrder)
	if err := ib.AddStandardWithName("Software", software); err != nil {
		return nil, fmt.Errorf("exif software tag: %w", err)
	}
	if err := cs.SetExif(ib); err != nil {
		return nil, fmt.Errorf("set exif: %w", err)
	}

	var out bytes.Buffer
	out.Grow(len(pngData) + len(software) + 64)
	if err := cs.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("write png: %w", err)
	}
	return out.Bytes(), nil
}

// ReadSoftware returns the EXIF Software tag of a PNG (eXIf chunk) or JPEG.
func ReadSoftware(data []byte) (string, error) {
	raw := data
	if bytes.HasPrefix(data, pngSignature) {
		cs, err := parsePNG(data)
		if err != nil {
			return "", err
		}
		chunks := cs.Index()[exifChunkType]
		if len(chunks) == 0 {
			return "", ErrNoMetadata
		}
		raw = chunks[0].Data
	}
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode exif: %w", err)
	}
	tag, err := x.Get(exif.Software)
	if err != nil {
		return "", ErrNoMetadata
	}
	return tag.StringVal()
}

func parsePNG(data []byte) (*pis.ChunkSlice, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, ErrNotPNG
	}
	mc, err := pis.NewPngMediaParser().ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse png: %w", err)
	}
	cs, ok := mc.(*pis.ChunkSlice)
	if !ok {
		return nil, ErrNotPNG
	}
	return cs, nil
}
