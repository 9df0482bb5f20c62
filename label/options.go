package label

import (
	"fmt"
	"slices"
	"strings"

	"github.com/AlexStarov/epl-label-GoLang-lib/util"
)

// Selectable values, in the order a form offers them.
var (
	Fonts       = []int{1, 2, 3, 4, 5}
	Rotations   = []int{0, 1, 2, 3}
	Horizontals = []int{1, 2, 3, 4, 5, 6, 8}
	Verticals   = []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
)

// MaxCopies is the largest quantity the P command accepts.
const MaxCopies = 65535

// Options are the formatting fields of the A command plus the copy count.
type Options struct {
	Font       int
	Rotation   int
	Horizontal int
	Vertical   int
	Reverse    bool
	Copies     int
	CodePage   string
}

// DefaultOptions returns font 3, no rotation, double expansion, normal
// image and one copy.
func DefaultOptions() Options {
	return Options{
		Font:       3,
		Rotation:   0,
		Horizontal: 2,
		Vertical:   2,
		Copies:     1,
	}
}

// Validate checks every field against the values EPL accepts.
func (o Options) Validate() error {
	switch {
	case !slices.Contains(Fonts, o.Font):
		return fmt.Errorf("%w: font %d", ErrInvalidOption, o.Font)
	case !slices.Contains(Rotations, o.Rotation):
		return fmt.Errorf("%w: rotation %d", ErrInvalidOption, o.Rotation)
	case !slices.Contains(Horizontals, o.Horizontal):
		return fmt.Errorf("%w: horizontal expansion %d", ErrInvalidOption, o.Horizontal)
	case !slices.Contains(Verticals, o.Vertical):
		return fmt.Errorf("%w: vertical expansion %d", ErrInvalidOption, o.Vertical)
	case o.Copies < 1 || o.Copies > MaxCopies:
		return fmt.Errorf("%w: copies %d", ErrInvalidOption, o.Copies)
	}
	return nil
}

// ImageCode is N for normal and R for reverse image.
func (o Options) ImageCode() byte {
	if o.Reverse {
		return 'R'
	}
	return 'N'
}

// FormatImage names the image mode.
func (o Options) FormatImage() string {
	if o.Reverse {
		return "Reverse"
	}
	return "Normal"
}

// ParseImage sets Reverse from "Normal"/"Reverse" or their initials.
func (o *Options) ParseImage(s string) error {
	c, err := util.FirstChar(s)
	if err != nil {
		return fmt.Errorf("%w: image: %v", ErrInvalidOption, err)
	}
	switch c {
	case 'N':
		o.Reverse = false
	case 'R':
		o.Reverse = true
	default:
		return fmt.Errorf("%w: image %q", ErrInvalidOption, strings.TrimSpace(s))
	}
	return nil
}
