package raw

import (
	"path/filepath"
	"testing"
)

func TestFillAndSetPixel(t *testing.T) {
	img := New(8, 4)
	if img.Width() != 8 || img.Height() != 4 {
		t.Fatalf("unexpected size %dx%d", img.Width(), img.Height())
	}

	img.Fill(0x102030)
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			if img.Pixel(x, y) != 0x102030 {
				t.Fatalf("pixel (%d, %d) = %06x after fill", x, y, img.Pixel(x, y))
			}
		}
	}

	img.SetPixel(3, 2, 0xABCDEF)
	if img.Pixel(3, 2) != 0xABCDEF {
		t.Errorf("pixel (3, 2) = %06x, want abcdef", img.Pixel(3, 2))
	}
	if img.Image().RGBAAt(3, 2).A != 255 {
		t.Error("expected opaque pixel")
	}

	// Out of bounds writes are ignored
	img.SetPixel(8, 0, 0xFFFFFF)
	img.SetPixel(-1, 0, 0xFFFFFF)
	if img.Pixel(8, 0) != 0 {
		t.Error("expected 0 outside the image")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"jpeg", JPEG},
		{"JPG", JPEG},
		{"", JPEG},
		{"png", PNG},
		{"bmp", BMP},
		{"tif", TIFF},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.name)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Error("expected error for gif")
	}
}

func TestEncodeToFileRoundTrip(t *testing.T) {
	img := New(10, 6)
	img.Fill(0)
	img.SetPixel(4, 3, 0xFFFFFF)

	// Lossless formats must give the exact pixels back
	for _, format := range []Format{PNG, BMP, TIFF} {
		path := filepath.Join(t.TempDir(), "frame."+format.Extension())
		if err := img.EncodeToFile(path, format, 0); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		decoded, err := Decode(path)
		if err != nil {
			t.Fatalf("%s: decode: %v", format, err)
		}
		if decoded.Bounds().Dx() != 10 || decoded.Bounds().Dy() != 6 {
			t.Fatalf("%s: unexpected bounds %v", format, decoded.Bounds())
		}
		r, g, b, _ := decoded.At(4, 3).RGBA()
		if r>>8 != 0xFF || g>>8 != 0xFF || b>>8 != 0xFF {
			t.Errorf("%s: pixel (4, 3) lost, got %d %d %d", format, r>>8, g>>8, b>>8)
		}
		r, g, b, _ = decoded.At(0, 0).RGBA()
		if r != 0 || g != 0 || b != 0 {
			t.Errorf("%s: pixel (0, 0) should be black", format)
		}
	}
}

func TestEncodeToFileJPEG(t *testing.T) {
	img := New(16, 16)
	img.Fill(0xFFFFFF)
	path := filepath.Join(t.TempDir(), "mandel1.jpg")
	if err := img.EncodeToFile(path, JPEG, DefaultQuality); err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	r, _, _, _ := decoded.At(8, 8).RGBA()
	if r>>8 < 240 {
		t.Errorf("expected near white center, got red %d", r>>8)
	}
}

func TestEncodeToFileBadPath(t *testing.T) {
	img := New(2, 2)
	if err := img.EncodeToFile(filepath.Join(t.TempDir(), "missing", "x.png"), PNG, 0); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
