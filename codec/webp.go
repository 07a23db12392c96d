package codec

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
)

// WebP decodes any registered source format and writes lossless WEBP.
// The output never carries EXIF, ICC or XMP chunks.
type WebP struct {
	// AutoOrient applies the EXIF orientation tag of JPEG sources to the
	// pixels before the tag is dropped.
	AutoOrient bool
}

func NewWebP(autoOrient bool) *WebP {
	return &WebP{AutoOrient: autoOrient}
}

func (w *WebP) Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(w.AutoOrient))
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() < 1 || b.Dy() < 1 {
		return nil, fmt.Errorf("empty image: %dx%d", b.Dx(), b.Dy())
	}
	return img, nil
}

// Encode compresses img in memory first so that encoder failures never touch
// path; only the final write can leave a partial file behind.
func (w *WebP) Encode(img image.Image, path string) error {
	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	return nil
}
