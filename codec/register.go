// Package codec wraps the image decoders and the lossless WEBP encoder.
//
// JPEG, PNG and BMP decoding come from the standard library and imaging.
// HEIC/HEIF decoding is only available after Register has been called.
package codec

import (
	"image"
	"sync"

	"github.com/gen2brain/heic"
)

// ISO-BMFF brands produced by cameras and phones for HEIC/HEIF stills.
var heifBrands = []string{"heic", "heix", "hevc", "hevx", "heim", "heis", "mif1", "msf1"}

var registerOnce sync.Once

// Register makes HEIC/HEIF decodable through image.Decode. It is safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		for _, brand := range heifBrands {
			image.RegisterFormat("heic", "????ftyp"+brand, heic.Decode, heic.DecodeConfig)
		}
	})
}
