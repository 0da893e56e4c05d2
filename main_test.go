package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/inrick/chip8-go/chip8"
	"github.com/inrick/chip8-go/config"
	"github.com/inrick/chip8-go/internal/test"
	"github.com/inrick/chip8-go/keymap"
)

func TestUsage(t *testing.T) {
	var out strings.Builder
	test.ExpectEquality(t, run(nil, &out), 2)
	test.ExpectSuccess(t, strings.Contains(out.String(), "Usage"))

	out.Reset()
	test.ExpectEquality(t, run([]string{"-cps", "5", "rom.ch8"}, &out), 2)
	test.ExpectSuccess(t, strings.Contains(out.String(), "cycles_per_second"))

	out.Reset()
	test.ExpectEquality(t, run([]string{"-quirks", "xo-chip", "rom.ch8"}, &out), 2)
}

func TestWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	var out strings.Builder
	test.DemandEquality(t, run([]string{"-writeconfig", path, "-cps", "1000", "-quirks", "cosmac"}, &out), 0)

	cfg, err := config.Load(path)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.CyclesPerSecond, 1000)
	q, err := cfg.ChipQuirks()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q, chip8.QuirksCOSMAC)
}

func TestSetup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rom.ch8")
	test.DemandSuccess(t, os.WriteFile(path, []byte{0x60, 0x2a}, 0o644))

	cfg := config.Default()
	cfg.Seed = 5
	c8, err := setup(cfg, path)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, c8.Step())
	test.ExpectEquality(t, c8.State().V[0], uint8(0x2a))

	_, err = setup(cfg, filepath.Join(dir, "missing.ch8"))
	test.ExpectFailure(t, err)

	big := filepath.Join(dir, "big.ch8")
	test.DemandSuccess(t, os.WriteFile(big, make([]byte, chip8.MaxRomSize+1), 0o644))
	_, err = setup(cfg, big)
	test.ExpectError(t, err, chip8.ErrProgramTooLarge)
}

func TestRenderBlocks(t *testing.T) {
	var fb chip8.Framebuffer
	fb[0][0] = true
	fb[1][0] = true
	fb[0][1] = true
	fb[3][2] = true

	lines := strings.Split(renderBlocks(&fb), "\r\n")
	// border, 16 rows, border, empty string after the last newline
	test.DemandEquality(t, len(lines), chip8.DisplayHeight/2+3)
	row := []rune(lines[1])
	test.DemandEquality(t, len(row), chip8.DisplayWidth+2)
	test.ExpectEquality(t, row[1], '█')
	test.ExpectEquality(t, row[2], '▀')
	test.ExpectEquality(t, row[3], ' ')
	row = []rune(lines[2])
	test.ExpectEquality(t, row[3], '▄')
}

func TestTermInput(t *testing.T) {
	kp := chip8.NewKeypad()
	fe := &termFrontend{
		keys:   kp,
		layout: keymap.MustParse(keymap.Default),
		held:   make(map[uint8]time.Time),
	}

	fe.input('w')
	test.ExpectEquality(t, kp.Down(0x5), true)
	fe.input('p')
	test.ExpectEquality(t, fe.quit.Load(), false)

	// not yet released
	fe.release(time.Now())
	test.ExpectEquality(t, kp.Down(0x5), true)

	fe.release(time.Now().Add(termHoldTime))
	test.ExpectEquality(t, kp.Down(0x5), false)

	fe.input(0x1b)
	test.ExpectEquality(t, fe.quit.Load(), true)
}

func TestDumpState(t *testing.T) {
	c8 := chip8.New()
	test.DemandSuccess(t, c8.Load([]byte{0x22, 0x00}))
	test.DemandSuccess(t, c8.Step())

	path := filepath.Join(t.TempDir(), "state.dot")
	test.DemandSuccess(t, dumpState(path, c8.State()))
	b, err := os.ReadFile(path)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(string(b), "digraph"))
}
