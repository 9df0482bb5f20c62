package util

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// CodePage pairs a text encoding with the p2 parameter of the EPL "I" command.
type CodePage struct {
	Name     string
	Param    string
	Encoding encoding.Encoding
}

var codePages = map[string]CodePage{
	"437":  {Name: "437", Param: "0", Encoding: charmap.CodePage437},
	"850":  {Name: "850", Param: "1", Encoding: charmap.CodePage850},
	"852":  {Name: "852", Param: "2", Encoding: charmap.CodePage852},
	"1252": {Name: "1252", Param: "A", Encoding: charmap.Windows1252},
}

// LookupCodePage returns the code page registered under name. "cp850" and
// "CP850" are accepted as well as "850".
func LookupCodePage(name string) (CodePage, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "cp")
	cp, ok := codePages[key]
	if !ok {
		return CodePage{}, fmt.Errorf("unknown code page %q", name)
	}
	return cp, nil
}

// Encode converts s from UTF-8 to the code page. Runes the code page cannot
// represent are reported as an error.
func (c CodePage) Encode(s string) ([]byte, error) {
	out, err := c.Encoding.NewEncoder().String(s)
	if err != nil {
		return nil, fmt.Errorf("code page %s: %w", c.Name, err)
	}
	return []byte(out), nil
}

// FirstChar returns the upper-cased first byte of s. It mirrors how option
// lists like "0-No rotation" or "Reverse" are reduced to their command letter.
func FirstChar(s string) (byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return c, nil
}
