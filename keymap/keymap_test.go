package keymap_test

import (
	"testing"

	"github.com/inrick/chip8-go/internal/test"
	"github.com/inrick/chip8-go/keymap"
)

func TestDefault(t *testing.T) {
	l := keymap.MustParse(keymap.Default)

	tests := []struct {
		r   rune
		key uint8
	}{
		{'1', 0x1}, {'2', 0x2}, {'3', 0x3}, {'4', 0xc},
		{'q', 0x4}, {'w', 0x5}, {'e', 0x6}, {'r', 0xd},
		{'a', 0x7}, {'s', 0x8}, {'d', 0x9}, {'f', 0xe},
		{'z', 0xa}, {'x', 0x0}, {'c', 0xb}, {'v', 0xf},
		{'Q', 0x4}, {'V', 0xf},
	}
	for _, tt := range tests {
		k, ok := l.Lookup(tt.r)
		test.ExpectSuccess(t, ok, string(tt.r))
		test.ExpectEquality(t, k, tt.key, string(tt.r))
	}

	_, ok := l.Lookup('p')
	test.ExpectFailure(t, ok)

	test.ExpectEquality(t, l.Rune(0x0), 'x')
	test.ExpectEquality(t, l.String(), keymap.Default)
}

func TestParse(t *testing.T) {
	l, err := keymap.Parse("1234QWERASDFZXCV")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, l.String(), keymap.Default)

	// AZERTY
	l, err = keymap.Parse("1234azerqsdfwxcv")
	test.DemandSuccess(t, err)
	k, _ := l.Lookup('w')
	test.ExpectEquality(t, k, uint8(0xa))

	_, err = keymap.Parse("123")
	test.ExpectFailure(t, err)

	_, err = keymap.Parse("1234qwerasdfzxcc")
	test.ExpectFailure(t, err)
}
