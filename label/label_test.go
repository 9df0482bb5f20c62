package label

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	imgInternal "github.com/AlexStarov/epl-label-GoLang-lib/image"
)

func TestBuildSkipsEmptyLines(t *testing.T) {
	l := New("ELCO", "", "Lote 42", "", "")

	out, err := l.Build()
	require.NoError(t, err)

	want := "N\n" +
		"A50,5,0,3,2,2,N,\"ELCO\"\n" +
		"A50,55,0,3,2,2,N,\"Lote 42\"\n" +
		"P1\n"
	assert.Equal(t, want, string(out))
}

func TestBuildAllOptions(t *testing.T) {
	l := New("a", "b", "c", "d", "e")
	l.Options = Options{Font: 1, Rotation: 1, Horizontal: 8, Vertical: 9, Reverse: true, Copies: 12}

	out, err := l.Build()
	require.NoError(t, err)

	want := "N\n" +
		"A50,5,1,1,8,9,R,\"a\"\n" +
		"A50,55,1,1,8,9,R,\"b\"\n" +
		"A50,105,1,1,8,9,R,\"c\"\n" +
		"A50,155,1,1,8,9,R,\"d\"\n" +
		"A50,205,1,1,8,9,R,\"e\"\n" +
		"P12\n"
	assert.Equal(t, want, string(out))
}

func TestBuildErrors(t *testing.T) {
	_, err := New("", "", "", "", "").Build()
	assert.ErrorIs(t, err, ErrNoData)

	_, err = New().Build()
	assert.ErrorIs(t, err, ErrNoData)

	_, err = New("1", "2", "3", "4", "5", "6").Build()
	assert.ErrorIs(t, err, ErrTooManyLines)

	l := New("x")
	l.Options.Horizontal = 7
	_, err = l.Build()
	assert.ErrorIs(t, err, ErrInvalidOption)

	l = New("x")
	l.Options.Copies = 0
	_, err = l.Build()
	assert.ErrorIs(t, err, ErrInvalidOption)

	_, err = New("two\nlines").Build()
	assert.ErrorIs(t, err, ErrInvalidText)

	l = New("x")
	l.Options.CodePage = "utf8"
	_, err = l.Build()
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestBuildEscapesQuotes(t *testing.T) {
	out, err := New(`5" \ tall`).Build()
	require.NoError(t, err)
	assert.Contains(t, string(out), `,N,"5\" \\ tall"`+"\n")
}

func TestBuildCodePage(t *testing.T) {
	l := New("Año")
	l.Options.CodePage = "850"

	out, err := l.Build()
	require.NoError(t, err)

	want := []byte("I8,1,001\nN\nA50,5,0,3,2,2,N,\"A")
	want = append(want, 0xA4)
	want = append(want, "o\"\nP1\n"...)
	assert.Equal(t, want, out)

	l = New("日本")
	l.Options.CodePage = "1252"
	_, err = l.Build()
	assert.ErrorIs(t, err, ErrInvalidText)
}

func TestBuildGraphic(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 1))
	img.SetGray(0, 0, color.Gray{Y: 255})

	l := New("x")
	l.Graphics = []Graphic{{X: 600, Y: 10, Img: img}}

	out, err := l.Build()
	require.NoError(t, err)

	want := append([]byte("N\nGW600,10,1,1,"), 0x80, '\n')
	want = append(want, "A50,5,0,3,2,2,N,\"x\"\nP1\n"...)
	assert.Equal(t, want, out)
}

func TestBuildGraphicErrors(t *testing.T) {
	l := New("x")
	l.Graphics = []Graphic{{X: 10, Y: 10}}
	_, err := l.Build()
	assert.ErrorIs(t, err, ErrInvalidOption)

	l.Graphics = []Graphic{{X: imgInternal.DefaultMaxWidth, Y: 10, Img: image.NewGray(image.Rect(0, 0, 8, 1))}}
	_, err = l.Build()
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.ErrorIs(t, err, imgInternal.ErrOutsideHead)
}

func TestBuildGraphicFitsBesideX(t *testing.T) {
	l := New("x")
	l.Graphics = []Graphic{{X: 600, Y: 5, Img: image.NewGray(image.Rect(0, 0, 800, 100))}}

	out, err := l.Build()
	require.NoError(t, err)
	// 832 - 600 = 232 dots, 29 bytes per row
	assert.Contains(t, string(out), "GW600,5,29,")
}

func TestOptionsImage(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, byte('N'), o.ImageCode())
	assert.Equal(t, "Normal", o.FormatImage())

	require.NoError(t, o.ParseImage("Reverse"))
	assert.True(t, o.Reverse)
	assert.Equal(t, byte('R'), o.ImageCode())

	require.NoError(t, o.ParseImage("n"))
	assert.False(t, o.Reverse)

	assert.ErrorIs(t, o.ParseImage("inverted"), ErrInvalidOption)
	assert.ErrorIs(t, o.ParseImage(""), ErrInvalidOption)
}

func TestDefaultOptionsValid(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())
}
