package image

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordTarget struct {
	x, y, bw, h int
	data        []byte
}

func (r *recordTarget) Graphic(x, y, bytesWidth, height int, data []byte) error {
	r.x, r.y, r.bw, r.h, r.data = x, y, bytesWidth, height, data
	return nil
}

func checker(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func TestToRasterPolarity(t *testing.T) {
	c := NewConverter()
	data, w, bw := c.ToRaster(checker(10, 2))

	assert.Equal(t, 10, w)
	assert.Equal(t, 2, bw)
	require.Len(t, data, 4)
	// black dots clear bits, padding stays white
	assert.Equal(t, []byte{0x55, 0x7F, 0xAA, 0xBF}, data)
}

func TestToRasterTruncates(t *testing.T) {
	c := &Converter{MaxWidth: 8, Threshold: 0.5}
	data, w, bw := c.ToRaster(image.NewGray(image.Rect(0, 0, 20, 1)))
	assert.Equal(t, 8, w)
	assert.Equal(t, 1, bw)
	assert.Equal(t, []byte{0x00}, data)
}

func TestPrintFitsWideImages(t *testing.T) {
	c := &Converter{MaxWidth: 16, Threshold: 0.5}
	target := &recordTarget{}

	require.NoError(t, c.Print(checker(64, 32), 10, 20, target))
	assert.Equal(t, 10, target.x)
	assert.Equal(t, 20, target.y)
	assert.Equal(t, 2, target.bw)
	assert.Equal(t, 8, target.h)
	assert.Len(t, target.data, 16)
}

func TestPrintFitsRemainingWidth(t *testing.T) {
	c := NewConverter()
	target := &recordTarget{}

	// 600 + 232 ends at the edge of the head
	require.NoError(t, c.Print(checker(464, 64), 600, 5, target))
	assert.Equal(t, 29, target.bw)
	assert.Equal(t, 32, target.h)
	assert.LessOrEqual(t, target.x+8*target.bw, DefaultMaxWidth)
}

func TestPrintRejects(t *testing.T) {
	c := NewConverter()
	target := &recordTarget{}

	assert.ErrorIs(t, c.Print(nil, 0, 0, target), ErrNoImage)
	assert.ErrorIs(t, c.Print(checker(8, 8), DefaultMaxWidth, 0, target), ErrOutsideHead)
	assert.ErrorIs(t, c.Print(checker(8, 8), -1, 0, target), ErrOutsideHead)
	assert.Nil(t, target.data)
}

func TestCommand(t *testing.T) {
	out := Command(50, 5, 1, 2, []byte{0x00, 0xFF})
	assert.Equal(t, append([]byte("GW50,5,1,2,"), 0x00, 0xFF, '\n'), out)
}
