package watermark

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeRoundtrip(t *testing.T) {
	src := solidRaster(17, 11, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	decoded, err := Decode(encodePNG(t, src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() != 17 || bounds.Dy() != 11 {
		t.Errorf("decoded size = %dx%d, want 17x11", bounds.Dx(), bounds.Dy())
	}
	if got := decoded.RGBAAt(5, 5); got != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("pixel = %v, want 1,2,3,255", got)
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte("not an image at all"))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}

	_, err = Decode(nil)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("empty input err = %v, want ErrDecode", err)
	}
}

func TestEncodeJPEG(t *testing.T) {
	src := solidRaster(20, 10, color.RGBA{R: 100, G: 150, B: 200, A: 255})

	data, err := EncodeJPEG(src, 90)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Width != 20 || cfg.Height != 10 {
		t.Errorf("encoded size = %dx%d, want 20x10", cfg.Width, cfg.Height)
	}
}

func TestEncodeJPEGClampsQuality(t *testing.T) {
	src := solidRaster(8, 8, color.RGBA{A: 255})

	for _, q := range []int{-5, 0, 101, 1000} {
		if _, err := EncodeJPEG(src, q); err != nil {
			t.Errorf("quality %d: %v", q, err)
		}
	}
}
