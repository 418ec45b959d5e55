// Package raw is the in-memory pixel buffer a frame is rendered into and the encoders that write it to disk.
package raw

import (
	"fmt"
	gimage "image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"MandelbrotMovie/mandelbrot"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type Format int

const (
	JPEG Format = iota
	PNG
	BMP
	TIFF
)

const DefaultQuality = jpeg.DefaultQuality

func (f Format) String() string {
	return []string{
		"jpeg", "png", "bmp", "tiff",
	}[f]
}

// Extension is the file extension written for the format, without the dot
func (f Format) Extension() string {
	return []string{
		"jpg", "png", "bmp", "tiff",
	}[f]
}

func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "jpeg", "jpg", "":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tiff", "tif":
		return TIFF, nil
	}
	return JPEG, fmt.Errorf("unknown image format: %s", name)
}

// Image is a width x height grid of RGB pixels. SetPixel writes straight into the backing slice, so concurrent writers
// are safe as long as they never share a pixel.
type Image struct {
	rgba *gimage.RGBA
}

func New(width int, height int) *Image {
	return &Image{
		rgba: gimage.NewRGBA(gimage.Rect(0, 0, width, height)),
	}
}

func (i *Image) Width() int {
	return i.rgba.Rect.Dx()
}

func (i *Image) Height() int {
	return i.rgba.Rect.Dy()
}

// Fill paints every pixel with the packed 0xRRGGBB color
func (i *Image) Fill(packed uint32) {
	c := mandelbrot.RGBA(packed)
	pix := i.rgba.Pix
	for o := 0; o+3 < len(pix); o += 4 {
		pix[o] = c.R
		pix[o+1] = c.G
		pix[o+2] = c.B
		pix[o+3] = c.A
	}
}

func (i *Image) SetPixel(x int, y int, packed uint32) {
	if !(gimage.Point{X: x, Y: y}.In(i.rgba.Rect)) {
		return
	}
	i.rgba.SetRGBA(x, y, mandelbrot.RGBA(packed))
}

// Pixel returns the packed 0xRRGGBB color at (x, y), or 0 outside the image
func (i *Image) Pixel(x int, y int) uint32 {
	if !(gimage.Point{X: x, Y: y}.In(i.rgba.Rect)) {
		return 0
	}
	return mandelbrot.Pack(i.rgba.RGBAAt(x, y))
}

func (i *Image) Image() *gimage.RGBA {
	return i.rgba
}

func (i *Image) Encode(w io.Writer, format Format, quality int) error {
	switch format {
	case JPEG:
		if quality < 1 || quality > 100 {
			quality = DefaultQuality
		}
		return jpeg.Encode(w, i.rgba, &jpeg.Options{Quality: quality})
	case PNG:
		return png.Encode(w, i.rgba)
	case BMP:
		return bmp.Encode(w, i.rgba)
	case TIFF:
		return tiff.Encode(w, i.rgba, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unknown image format: %d", format)
}

func (i *Image) EncodeToFile(path string, format Format, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create image %s - %w", path, err)
	}
	if err := i.Encode(f, format, quality); err != nil {
		f.Close()
		return fmt.Errorf("unable to encode image %s - %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to close image %s - %w", path, err)
	}
	return nil
}

// Decode reads an image written by EncodeToFile back, in any of the supported formats
func Decode(path string) (gimage.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := gimage.Decode(f)
	return img, err
}
