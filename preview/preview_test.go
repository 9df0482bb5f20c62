package preview

import (
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexStarov/epl-label-GoLang-lib/label"
)

func dark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r+g+b < 3*0x8000
}

func countDark(img image.Image, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if dark(img.At(x, y)) {
				n++
			}
		}
	}
	return n
}

func TestRenderDrawsText(t *testing.T) {
	img, err := Render(label.New("HELLO", "", "WORLD"))
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, Width, b.Dx())
	assert.Greater(t, countDark(img, image.Rect(label.StartX, label.StartY, Width, label.StartY+40)), 0)
	// nothing left of the text block
	assert.Zero(t, countDark(img, image.Rect(0, 0, label.StartX-1, b.Dy())))
}

func TestRenderReverse(t *testing.T) {
	l := label.New("X")
	normal, err := Render(l)
	require.NoError(t, err)

	l.Options.Reverse = true
	reverse, err := Render(l)
	require.NoError(t, err)

	area := image.Rect(label.StartX, label.StartY, label.StartX+20, label.StartY+38)
	assert.Greater(t, countDark(reverse, area), countDark(normal, area))
}

func TestRenderRejectsEmpty(t *testing.T) {
	_, err := Render(label.New())
	assert.ErrorIs(t, err, label.ErrNoData)
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label.png")
	require.NoError(t, SavePNG(label.New("ok"), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}
