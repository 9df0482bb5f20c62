// Package preview draws an approximation of a label as an image, so texts
// and options can be checked without wasting stock.
package preview

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/AlexStarov/epl-label-GoLang-lib/label"
)

// Width of the LP 2844 print head: 4 in at 203 dpi.
const Width = 832

// Cell sizes of the resident fonts at 203 dpi, in dots.
var cells = map[int]struct{ w, h float64 }{
	1: {8, 12},
	2: {10, 16},
	3: {12, 20},
	4: {14, 24},
	5: {32, 48},
}

// base face metrics
const faceW, faceH = 7.0, 13.0

// Render draws the label the way the printer would lay it out.
func Render(l *label.Label) (image.Image, error) {
	if _, err := l.Build(); err != nil {
		return nil, err
	}
	return draw(l).Image(), nil
}

// SavePNG renders the label into a PNG file.
func SavePNG(l *label.Label, path string) error {
	if _, err := l.Build(); err != nil {
		return err
	}
	return draw(l).SavePNG(path)
}

func draw(l *label.Label) *gg.Context {
	o := l.Options
	cell := cells[o.Font]
	cw := cell.w * float64(o.Horizontal)
	ch := cell.h * float64(o.Vertical)

	height := label.StartY
	for _, line := range l.Lines {
		if line != "" {
			height += label.LineStep
		}
	}
	if o.Rotation%2 == 1 {
		height = Width
	}
	for _, g := range l.Graphics {
		if b := g.Y + g.Img.Bounds().Dy(); b > height {
			height = b
		}
	}
	height += int(ch)

	dc := gg.NewContext(Width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, g := range l.Graphics {
		dc.DrawImage(g.Img, g.X, g.Y)
	}

	dc.SetFontFace(basicfont.Face7x13)
	y := float64(label.StartY)
	for _, line := range l.Lines {
		if line == "" {
			continue
		}
		x := float64(label.StartX)
		tw := cw * float64(len([]rune(line)))

		dc.Push()
		dc.RotateAbout(gg.Radians(float64(90*o.Rotation)), x, y)
		if o.Reverse {
			dc.SetRGB(0, 0, 0)
			dc.DrawRectangle(x, y, tw, ch)
			dc.Fill()
			dc.SetRGB(1, 1, 1)
		} else {
			dc.SetRGB(0, 0, 0)
		}
		dc.Translate(x, y)
		dc.Scale(cw/faceW, ch/faceH)
		dc.DrawStringAnchored(line, 0, 0, 0, 1)
		dc.Pop()

		y += label.LineStep
	}
	return dc
}
