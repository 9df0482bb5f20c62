package main

import (
	"fmt"

	"github.com/spf13/cobra"

	imgInternal "github.com/AlexStarov/epl-label-GoLang-lib/image"
	"github.com/AlexStarov/epl-label-GoLang-lib/label"
)

// labelFlags are the label options shared by print, preview and the form.
// Unset flags keep the configured defaults.
type labelFlags struct {
	lines      []string
	font       int
	rotation   int
	horizontal int
	vertical   int
	image      string
	copies     int
	codePage   string

	logo         string
	logoX, logoY int
}

func (f *labelFlags) register(cmd *cobra.Command, withLines bool) {
	d := label.DefaultOptions()
	fs := cmd.Flags()
	if withLines {
		fs.StringArrayVarP(&f.lines, "line", "l", nil, "text line, repeat up to 5 times")
		fs.StringVar(&f.logo, "logo", "", "PNG/JPEG image printed with the GW command")
		fs.IntVar(&f.logoX, "logo-x", 600, "logo x position in dots")
		fs.IntVar(&f.logoY, "logo-y", label.StartY, "logo y position in dots")
	}
	fs.IntVarP(&f.font, "font", "f", d.Font, "font size 1-5")
	fs.IntVarP(&f.rotation, "rotation", "r", d.Rotation, "rotation 0-3, in steps of 90 degrees")
	fs.IntVarP(&f.horizontal, "horizontal", "x", d.Horizontal, "horizontal expansion 1-6 or 8")
	fs.IntVarP(&f.vertical, "vertical", "y", d.Vertical, "vertical expansion 1-9")
	fs.StringVarP(&f.image, "image", "i", d.FormatImage(), "Normal or Reverse")
	fs.IntVarP(&f.copies, "copies", "n", d.Copies, "number of copies")
	fs.StringVar(&f.codePage, "code-page", "", "encode text in code page 437, 850, 852 or 1252")
}

// options overlays the flags the user set on base.
func (f *labelFlags) options(cmd *cobra.Command, base label.Options) (label.Options, error) {
	o := base
	fs := cmd.Flags()
	if fs.Changed("font") {
		o.Font = f.font
	}
	if fs.Changed("rotation") {
		o.Rotation = f.rotation
	}
	if fs.Changed("horizontal") {
		o.Horizontal = f.horizontal
	}
	if fs.Changed("vertical") {
		o.Vertical = f.vertical
	}
	if fs.Changed("image") {
		if err := o.ParseImage(f.image); err != nil {
			return label.Options{}, err
		}
	}
	if fs.Changed("copies") {
		o.Copies = f.copies
	}
	if fs.Changed("code-page") {
		o.CodePage = f.codePage
	}
	if err := o.Validate(); err != nil {
		return label.Options{}, err
	}
	return o, nil
}

// label builds the label from --line flags followed by positional args.
func (f *labelFlags) label(cmd *cobra.Command, args []string, base label.Options) (*label.Label, error) {
	o, err := f.options(cmd, base)
	if err != nil {
		return nil, err
	}
	lines := append(append([]string{}, f.lines...), args...)
	if len(lines) > label.MaxLines {
		return nil, fmt.Errorf("%w: got %d", label.ErrTooManyLines, len(lines))
	}

	l := &label.Label{Lines: lines, Options: o}
	if f.logo != "" {
		img, err := imgInternal.Load(f.logo)
		if err != nil {
			return nil, err
		}
		l.Graphics = append(l.Graphics, label.Graphic{X: f.logoX, Y: f.logoY, Img: img})
	}
	return l, nil
}
