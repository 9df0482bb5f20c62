package image

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/nfnt/resize"
)

// LP 2844 print head, in dots.
const DefaultMaxWidth = 832

var (
	ErrNoImage     = errors.New("no image")
	ErrOutsideHead = errors.New("graphic starts outside the print head")
)

type Converter struct {
	// The maximum graphic width, in dots
	MaxWidth int

	// The threshold between white and black dots
	Threshold float64
}

// NewConverter returns a converter sized for the LP 2844 head.
func NewConverter() *Converter {
	return &Converter{MaxWidth: DefaultMaxWidth, Threshold: 0.5}
}

// Load decodes a PNG, JPEG or GIF file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Fit scales img down to MaxWidth, keeping the aspect ratio.
func (c *Converter) Fit(img image.Image) image.Image {
	return fitWidth(img, c.MaxWidth)
}

func fitWidth(img image.Image, width int) image.Image {
	if width > 0 && img.Bounds().Dx() > width {
		return resize.Resize(uint(width), 0, img, resize.Lanczos3)
	}
	return img
}

// Print fits img into the head width left of x and hands the raster to
// target at x, y.
func (c *Converter) Print(img image.Image, x, y int, target Target) error {
	if img == nil {
		return ErrNoImage
	}
	width := c.MaxWidth
	if width > 0 {
		width -= x
		if x < 0 || width <= 0 {
			return fmt.Errorf("%w: x=%d, head is %d dots", ErrOutsideHead, x, c.MaxWidth)
		}
	}
	img = fitWidth(img, width)
	data, _, bw := c.ToRaster(img)
	return target.Graphic(x, y, bw, img.Bounds().Dy(), data)
}

// ToRaster packs img into rows of bytesWidth bytes, MSB first. EPL graphics
// are inverted: a set bit leaves the paper white, a clear bit prints.
func (c *Converter) ToRaster(img image.Image) (data []byte, imageWidth, bytesWidth int) {
	b := img.Bounds()
	sz := b.Size()

	imageWidth = sz.X
	if c.MaxWidth > 0 && imageWidth > c.MaxWidth {
		// truncate if image is too large
		imageWidth = c.MaxWidth
	}

	bytesWidth = imageWidth / 8
	if imageWidth%8 != 0 {
		bytesWidth++
	}

	data = make([]byte, bytesWidth*sz.Y)
	for i := range data {
		data[i] = 0xFF
	}

	for y := 0; y < sz.Y; y++ {
		for x := 0; x < imageWidth; x++ {
			if lightness(img.At(b.Min.X+x, b.Min.Y+y)) <= c.Threshold {
				data[y*bytesWidth+x/8] &^= 0x80 >> uint(x%8)
			}
		}
	}

	return
}

// Command formats the EPL GW (direct graphic write) command.
func Command(x, y, bytesWidth, height int, data []byte) []byte {
	head := fmt.Sprintf("GW%d,%d,%d,%d,", x, y, bytesWidth, height)
	out := make([]byte, 0, len(head)+len(data)+1)
	out = append(out, head...)
	out = append(out, data...)
	return append(out, '\n')
}

const lumR, lumG, lumB = 55, 182, 18

func lightness(c color.Color) float64 {
	r, g, b, _ := c.RGBA()

	return float64(lumR*r+lumG*g+lumB*b) / float64(0xffff*(lumR+lumG+lumB))
}
