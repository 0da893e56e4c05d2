// Package keymap translates host keys into Chip-8 keypad keys.
//
// The Chip-8 keypad is laid out like this and is usually mapped to the left
// hand side of a QWERTY keyboard:
//
//	Keypad       Keyboard
//	|1|2|3|C|    |1|2|3|4|
//	|4|5|6|D|    |Q|W|E|R|
//	|7|8|9|E|    |A|S|D|F|
//	|A|0|B|F|    |Z|X|C|V|
package keymap

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default is the QWERTY layout shown in the package documentation.
const Default = "1234qwerasdfzxcv"

// keypad lists the Chip-8 keys in the order they appear on the physical
// keypad, left to right and top to bottom.
var keypad = [16]uint8{
	0x1, 0x2, 0x3, 0xc,
	0x4, 0x5, 0x6, 0xd,
	0x7, 0x8, 0x9, 0xe,
	0xa, 0x0, 0xb, 0xf,
}

// Layout maps host characters to Chip-8 keys.
type Layout struct {
	keys  map[rune]uint8
	runes [16]rune // indexed by Chip-8 key
}

// Parse builds a Layout from 16 characters given in keypad order, as in
// Default. Letters are case insensitive.
func Parse(s string) (*Layout, error) {
	if n := utf8.RuneCountInString(s); n != len(keypad) {
		return nil, fmt.Errorf("keymap: layout %q has %d keys, want %d", s, n, len(keypad))
	}
	l := &Layout{keys: make(map[rune]uint8, len(keypad))}
	i := 0
	for _, r := range strings.ToLower(s) {
		if _, ok := l.keys[r]; ok {
			return nil, fmt.Errorf("keymap: layout %q uses %q twice", s, r)
		}
		l.keys[r] = keypad[i]
		l.runes[keypad[i]] = r
		i++
	}
	return l, nil
}

// MustParse is like Parse but panics on error. For use with constants.
func MustParse(s string) *Layout {
	l, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return l
}

// Lookup returns the Chip-8 key for r.
func (l *Layout) Lookup(r rune) (uint8, bool) {
	k, ok := l.keys[unicode.ToLower(r)]
	return k, ok
}

// Rune returns the host character for a Chip-8 key.
func (l *Layout) Rune(key uint8) rune {
	return l.runes[key&0xf]
}

// String returns the layout in the form accepted by Parse.
func (l *Layout) String() string {
	var s strings.Builder
	for _, k := range keypad {
		s.WriteRune(l.runes[k])
	}
	return s.String()
}
