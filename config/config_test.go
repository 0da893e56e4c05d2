package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inrick/chip8-go/chip8"
	"github.com/inrick/chip8-go/config"
	"github.com/inrick/chip8-go/internal/test"
)

func write(t *testing.T, s string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chip8.toml")
	test.DemandSuccess(t, os.WriteFile(path, []byte(s), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	test.ExpectSuccess(t, cfg.Validate())
	test.ExpectEquality(t, cfg.CyclesPerSecond, 700)
	test.ExpectEquality(t, cfg.Frontend, "gl")

	q, err := cfg.ChipQuirks()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, q, chip8.QuirksCowgod)
}

func TestLoad(t *testing.T) {
	path := write(t, `
cycles_per_second = 1000
frontend = "term"
keys = "1234azerqsdfwxcv"

[quirks]
preset = "cosmac"
shift_uses_vy = false
wrap_sprites = true
`)
	cfg, err := config.Load(path)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.CyclesPerSecond, 1000)
	test.ExpectEquality(t, cfg.Frontend, "term")

	// unset values keep their defaults
	test.ExpectEquality(t, cfg.Scale, 15)

	q, err := cfg.ChipQuirks()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.ShiftUsesVY, false)
	test.ExpectEquality(t, q.LoadStoreIncrementsI, true)
	test.ExpectEquality(t, q.ResetVFOnLogic, true)
	test.ExpectEquality(t, q.WrapSprites, true)
	test.ExpectEquality(t, q.JumpUsesVX, false)

	l, err := cfg.Layout()
	test.DemandSuccess(t, err)
	k, _ := l.Lookup('a')
	test.ExpectEquality(t, k, uint8(0x4))
}

func TestLoadInvalid(t *testing.T) {
	for _, s := range []string{
		`cycles_per_second = 10`,
		`frontend = "sdl"`,
		`scale = 0`,
		`keys = "abc"`,
		"[quirks]\npreset = \"xo-chip\"",
		`cycles_per_second = "fast"`,
	} {
		_, err := config.Load(write(t, s))
		test.ExpectFailure(t, err, s)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	test.ExpectFailure(t, err)
}

func TestSave(t *testing.T) {
	cfg := config.Default()
	cfg.Frontend = "term"
	wrap := true
	cfg.Quirks.WrapSprites = &wrap

	path := filepath.Join(t.TempDir(), "saved.toml")
	test.DemandSuccess(t, cfg.Save(path))

	loaded, err := config.Load(path)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, loaded.Frontend, "term")
	q, _ := loaded.ChipQuirks()
	test.ExpectEquality(t, q.WrapSprites, true)
	test.ExpectEquality(t, loaded.Quirks.ShiftUsesVY == nil, true)
}
