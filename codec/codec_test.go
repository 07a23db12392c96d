package codec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

func gradientRGBA(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8((x * 255) / width)
			g := uint8((y * 255) / height)
			b := uint8((x + y) % 256)
			img.Set(x, y, color.RGBA{r, g, b, 255})
		}
	}
	return img
}

func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer file.Close()

	switch filepath.Ext(path) {
	case ".png":
		err = png.Encode(file, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	case ".bmp":
		err = bmp.Encode(file, img)
	default:
		t.Fatalf("No encoder for %s", path)
	}
	if err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
}

func decodeWebP(t *testing.T, path string) image.Image {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output file: %v", err)
	}
	defer file.Close()

	img, err := webp.Decode(file)
	if err != nil {
		t.Fatalf("Failed to decode output as WEBP: %v", err)
	}
	return img
}

func TestModeOf(t *testing.T) {
	rect := image.Rect(0, 0, 2, 2)

	translucent := image.NewNRGBA(rect)
	translucent.Set(0, 0, color.NRGBA{10, 20, 30, 128})

	tests := []struct {
		name string
		img  image.Image
		want ColorMode
	}{
		{"paletted", image.NewPaletted(rect, palette.Plan9), ModePalette},
		{"gray", image.NewGray(rect), ModeGray},
		{"gray16", image.NewGray16(rect), ModeGray},
		{"cmyk", image.NewCMYK(rect), ModeCMYK},
		{"ycbcr", image.NewYCbCr(rect, image.YCbCrSubsampleRatio420), ModeRGB},
		{"opaque rgba", gradientRGBA(2, 2), ModeRGB},
		{"translucent nrgba", translucent, ModeRGBA},
		{"zero rgba", image.NewRGBA(rect), ModeRGBA},
		{"uniform", image.NewUniform(color.White), ModeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModeOf(tt.img); got != tt.want {
				t.Errorf("ModeOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNormalize_FlattensAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.NRGBA{200, 100, 50, 0})
	src.Set(1, 0, color.NRGBA{10, 20, 30, 255})

	out, err := Normalize(src, ModeRGBA)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if ModeOf(out) != ModeRGB {
		t.Errorf("Expected normalized image to be RGB, got %s", ModeOf(out))
	}

	got := color.NRGBAModel.Convert(out.At(1, 0)).(color.NRGBA)
	if got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("Expected opaque pixel to keep its color, got %v", got)
	}
}

func TestNormalize_Palette(t *testing.T) {
	pal := color.Palette{color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 0, 255, 0}}
	src := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
	src.SetColorIndex(1, 1, 1)

	out, err := Normalize(src, ModePalette)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if _, ok := out.(*image.Paletted); ok {
		t.Fatal("Expected palette image to be converted")
	}
	if ModeOf(out) != ModeRGB {
		t.Errorf("Expected normalized image to be RGB, got %s", ModeOf(out))
	}

	got := color.NRGBAModel.Convert(out.At(0, 0)).(color.NRGBA)
	if got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("Expected red pixel, got %v", got)
	}
}

func TestNormalize_PassThrough(t *testing.T) {
	src := gradientRGBA(4, 4)

	out, err := Normalize(src, ModeRGB)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if out != image.Image(src) {
		t.Error("Expected RGB image to be returned unchanged")
	}
}

func TestNormalize_Unknown(t *testing.T) {
	_, err := Normalize(image.NewUniform(color.White), ModeUnknown)
	if !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("Expected ErrUnsupportedMode, got %v", err)
	}
}

func TestWebP_RoundTripLossless(t *testing.T) {
	tmpDir := t.TempDir()
	inputPath := filepath.Join(tmpDir, "input.png")
	outputPath := filepath.Join(tmpDir, "output.webp")

	src := gradientRGBA(64, 48)
	writeImage(t, inputPath, src)

	codec := NewWebP(false)
	img, err := codec.Decode(inputPath)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if err := codec.Encode(img, outputPath); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	out := decodeWebP(t, outputPath)
	if out.Bounds().Dx() != 64 || out.Bounds().Dy() != 48 {
		t.Fatalf("Expected dimensions 64x48, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}

	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			want := color.NRGBAModel.Convert(src.At(x, y))
			got := color.NRGBAModel.Convert(out.At(out.Bounds().Min.X+x, out.Bounds().Min.Y+y))
			if want != got {
				t.Fatalf("Pixel (%d,%d) differs: want %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestWebP_DecodeFormats(t *testing.T) {
	tmpDir := t.TempDir()
	codec := NewWebP(false)

	for _, name := range []string{"a.png", "b.jpg", "c.bmp"} {
		path := filepath.Join(tmpDir, name)
		writeImage(t, path, gradientRGBA(16, 16))

		img, err := codec.Decode(path)
		if err != nil {
			t.Errorf("Decode(%s) failed: %v", name, err)
			continue
		}
		if img.Bounds().Dx() != 16 {
			t.Errorf("Decode(%s): expected width 16, got %d", name, img.Bounds().Dx())
		}
	}
}

func TestWebP_DecodeCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("definitely not a png"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if _, err := NewWebP(false).Decode(path); err == nil {
		t.Fatal("Expected error for corrupt input, got nil")
	}
}

func TestWebP_EncodeNoExtendedChunks(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "output.webp")

	if err := NewWebP(false).Encode(gradientRGBA(8, 8), outputPath); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) || string(data[8:16]) != "WEBPVP8L" {
		t.Errorf("Expected a plain lossless WEBP container, got header %q", data[:16])
	}
	if bytes.Contains(data, []byte("EXIF")) {
		t.Error("Expected output without EXIF chunk")
	}
}

func TestWebP_EncodeInvalidPath(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "missing", "output.webp")

	if err := NewWebP(false).Encode(gradientRGBA(8, 8), outputPath); err == nil {
		t.Fatal("Expected error for missing output directory, got nil")
	}
}

func ftypHeader(brand string) []byte {
	return append([]byte{0x00, 0x00, 0x00, 0x18}, []byte("ftyp"+brand+"\x00\x00\x00\x00mif1heic")...)
}

func TestRegister_HEIC(t *testing.T) {
	Register()
	Register()

	for _, brand := range heifBrands {
		t.Run(brand, func(t *testing.T) {
			_, format, _ := image.DecodeConfig(bytes.NewReader(ftypHeader(brand)))
			if format != "heic" {
				t.Errorf("Expected %s brand to sniff as heic, got %q", brand, format)
			}
		})
	}
}

func TestRegister_UnknownBrand(t *testing.T) {
	Register()

	if _, format, _ := image.DecodeConfig(bytes.NewReader(ftypHeader("qt  "))); format == "heic" {
		t.Error("Expected a QuickTime brand not to sniff as heic")
	}
}
