package main

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/term"

	"github.com/inrick/chip8-go/chip8"
	"github.com/inrick/chip8-go/keymap"
)

// terminals only report key presses, so a key counts as held for this long
// after the last byte for it arrived. auto-repeat refreshes it.
const termHoldTime = 150 * time.Millisecond

const (
	ansiClear      = "\x1b[2J"
	ansiHome       = "\x1b[H"
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
)

// termFrontend draws the display with block characters, two Chip-8 rows per
// line of text, and reads keys from the controlling terminal in raw mode.
type termFrontend struct {
	tty    *term.Term
	out    *bufio.Writer
	keys   *chip8.Keypad
	layout *keymap.Layout

	mu   sync.Mutex
	held map[uint8]time.Time

	quit    atomic.Bool
	readErr atomic.Value // error
}

func newTermFrontend(kp *chip8.Keypad, layout *keymap.Layout) (*termFrontend, error) {
	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	fe := &termFrontend{
		tty:    tty,
		out:    bufio.NewWriter(os.Stdout),
		keys:   kp,
		layout: layout,
		held:   make(map[uint8]time.Time),
	}
	fe.out.WriteString(ansiClear + ansiHideCursor)
	fe.out.Flush()

	go fe.read()

	log.Debugf("terminal frontend, keys %s, escape to quit", layout)
	return fe, nil
}

// read runs in its own goroutine until the terminal is closed.
func (fe *termFrontend) read() {
	buf := make([]byte, 64)
	for {
		n, err := fe.tty.Read(buf)
		if err != nil {
			if !fe.quit.Load() {
				fe.readErr.Store(err)
			}
			return
		}
		for _, b := range buf[:n] {
			fe.input(b)
		}
	}
}

func (fe *termFrontend) input(b byte) {
	switch b {
	case 0x1b, 0x03: // escape, ctrl-c
		fe.quit.Store(true)
		return
	}
	k, ok := fe.layout.Lookup(rune(b))
	if !ok {
		return
	}
	fe.mu.Lock()
	fe.held[k] = time.Now()
	fe.mu.Unlock()
	if err := fe.keys.Set(k, true); err != nil {
		log.Warningf("%s", err.Error())
	}
}

// release lets go of keys that have not been seen for termHoldTime.
func (fe *termFrontend) release(now time.Time) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	for k, t := range fe.held {
		if now.Sub(t) >= termHoldTime {
			delete(fe.held, k)
			_ = fe.keys.Set(k, false)
		}
	}
}

func (fe *termFrontend) Poll() (bool, error) {
	if err, ok := fe.readErr.Load().(error); ok && err != nil {
		return true, fmt.Errorf("terminal: %w", err)
	}
	fe.release(time.Now())
	return fe.quit.Load(), nil
}

func (fe *termFrontend) Render(fb chip8.Framebuffer) error {
	fe.out.WriteString(ansiHome)
	fe.out.WriteString(renderBlocks(&fb))
	return fe.out.Flush()
}

// renderBlocks draws fb inside a box using half block characters.
func renderBlocks(fb *chip8.Framebuffer) string {
	var s []rune
	s = append(s, '╔')
	for x := 0; x < chip8.DisplayWidth; x++ {
		s = append(s, '═')
	}
	s = append(s, '╗', '\r', '\n')

	for y := 0; y < chip8.DisplayHeight; y += 2 {
		s = append(s, '║')
		for x := 0; x < chip8.DisplayWidth; x++ {
			top, bottom := fb[y][x], fb[y+1][x]
			switch {
			case top && bottom:
				s = append(s, '█')
			case top:
				s = append(s, '▀')
			case bottom:
				s = append(s, '▄')
			default:
				s = append(s, ' ')
			}
		}
		s = append(s, '║', '\r', '\n')
	}

	s = append(s, '╚')
	for x := 0; x < chip8.DisplayWidth; x++ {
		s = append(s, '═')
	}
	s = append(s, '╝', '\r', '\n')
	return string(s)
}

func (fe *termFrontend) Sound(active bool) {
	if active {
		fe.out.WriteString("\a")
		fe.out.Flush()
	}
}

func (fe *termFrontend) Close() {
	fe.quit.Store(true)
	fe.out.WriteString(ansiShowCursor + "\r\n")
	fe.out.Flush()
	_ = fe.tty.Restore()
	_ = fe.tty.Close()
}
