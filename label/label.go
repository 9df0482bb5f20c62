// Package label assembles EPL2 label programs for Zebra LP 2844 class
// printers.
//
// A label is cleared with "N", filled with one "A" (ASCII text) command per
// non-empty line and printed with "P<copies>":
//
//	N
//	A50,5,0,3,2,2,N,"first line"
//	A50,55,0,3,2,2,N,"second line"
//	P1
package label

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	imgInternal "github.com/AlexStarov/epl-label-GoLang-lib/image"
	"github.com/AlexStarov/epl-label-GoLang-lib/util"
)

// Layout of the text block, in dots.
const (
	MaxLines = 5
	StartX   = 50
	StartY   = 5
	LineStep = 50
)

var (
	ErrNoData        = errors.New("no data to print")
	ErrTooManyLines  = fmt.Errorf("label holds at most %d lines", MaxLines)
	ErrInvalidOption = errors.New("invalid label option")
	ErrInvalidText   = errors.New("invalid label text")
)

// Graphic places an image on the label with the GW command.
type Graphic struct {
	X, Y int
	Img  image.Image
}

// Label is the content of one label plus the options shared by every line.
type Label struct {
	Lines    []string
	Options  Options
	Graphics []Graphic
}

// New returns a label with the default options.
func New(lines ...string) *Label {
	return &Label{Lines: lines, Options: DefaultOptions()}
}

// Empty reports whether there is no text to print.
func (l *Label) Empty() bool {
	for _, line := range l.Lines {
		if line != "" {
			return false
		}
	}
	return true
}

// Build renders the label as an EPL program.
func (l *Label) Build() ([]byte, error) {
	if len(l.Lines) > MaxLines {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyLines, len(l.Lines))
	}
	if l.Empty() {
		return nil, ErrNoData
	}
	if err := l.Options.Validate(); err != nil {
		return nil, err
	}

	var cp *util.CodePage
	if l.Options.CodePage != "" {
		c, err := util.LookupCodePage(l.Options.CodePage)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
		}
		cp = &c
	}

	var buf bytes.Buffer
	if cp != nil {
		buf.WriteString(CodePageCommand(*cp))
	}
	buf.WriteString(ClearCommand)

	conv := imgInternal.NewConverter()
	for i, g := range l.Graphics {
		if g.Img == nil {
			return nil, fmt.Errorf("%w: graphic %d has no image", ErrInvalidOption, i+1)
		}
		if err := conv.Print(g.Img, g.X, g.Y, graphicWriter{&buf}); err != nil {
			return nil, fmt.Errorf("%w: graphic %d: %w", ErrInvalidOption, i+1, err)
		}
	}

	y := StartY
	for i, line := range l.Lines {
		if line == "" {
			continue
		}
		cmd, err := TextCommand(StartX, y, l.Options, line, cp)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		buf.Write(cmd)
		y += LineStep
	}

	buf.WriteString(PrintCommand(l.Options.Copies))
	return buf.Bytes(), nil
}

type graphicWriter struct{ buf *bytes.Buffer }

func (w graphicWriter) Graphic(x, y, bytesWidth, height int, data []byte) error {
	w.buf.Write(imgInternal.Command(x, y, bytesWidth, height, data))
	return nil
}

// ClearCommand clears the image buffer before a new label.
const ClearCommand = "N\n"

// PrintCommand prints the buffered label copies times.
func PrintCommand(copies int) string {
	return "P" + strconv.Itoa(copies) + "\n"
}

// CodePageCommand selects 8-bit data in the given code page, USA layout.
func CodePageCommand(cp util.CodePage) string {
	return "I8," + cp.Param + ",001\n"
}

// TextCommand formats one "A" command. cp may be nil, in which case the text
// is sent as is.
func TextCommand(x, y int, o Options, text string, cp *util.CodePage) ([]byte, error) {
	if strings.ContainsAny(text, "\r\n") {
		return nil, fmt.Errorf("%w: line breaks are not allowed", ErrInvalidText)
	}

	raw := []byte(escape(text))
	if cp != nil {
		enc, err := cp.Encode(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidText, err)
		}
		raw = enc
	}

	head := fmt.Sprintf("A%d,%d,%d,%d,%d,%d,%c,\"", x, y, o.Rotation, o.Font, o.Horizontal, o.Vertical, o.ImageCode())
	out := make([]byte, 0, len(head)+len(raw)+2)
	out = append(out, head...)
	out = append(out, raw...)
	return append(out, '"', '\n'), nil
}

// escape protects the characters EPL treats specially inside quoted data.
func escape(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
