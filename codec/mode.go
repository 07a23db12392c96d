package codec

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

var ErrUnsupportedMode = errors.New("unsupported color mode")

type ColorMode string

const (
	ModeRGB     ColorMode = "rgb"
	ModeRGBA    ColorMode = "rgba"
	ModePalette ColorMode = "palette"
	ModeGray    ColorMode = "gray"
	ModeCMYK    ColorMode = "cmyk"
	ModeUnknown ColorMode = "unknown"
)

// ModeOf classifies the pixel representation of img. RGB-family buffers whose
// alpha is fully opaque count as ModeRGB.
func ModeOf(img image.Image) ColorMode {
	switch img.(type) {
	case *image.Paletted:
		return ModePalette
	case *image.Gray, *image.Gray16:
		return ModeGray
	case *image.CMYK:
		return ModeCMYK
	case *image.YCbCr:
		return ModeRGB
	case *image.NYCbCrA, *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
			return ModeRGB
		}
		return ModeRGBA
	default:
		return ModeUnknown
	}
}

// Normalize returns an image the encoder accepts for the given mode. Palette
// and alpha-bearing images are flattened to opaque RGB; alpha is discarded,
// not composited.
func Normalize(img image.Image, mode ColorMode) (image.Image, error) {
	switch mode {
	case ModeRGB, ModeGray, ModeCMYK:
		return img, nil
	case ModePalette, ModeRGBA:
		return toRGB(img), nil
	default:
		return nil, fmt.Errorf("%w: %s (%T)", ErrUnsupportedMode, mode, img)
	}
}

func toRGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
