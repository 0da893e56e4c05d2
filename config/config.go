// Package config handles the chip8.toml configuration file.
//
// Every field has a default, so the file is optional and may contain only
// the settings that differ from it. Command line flags are applied on top of
// the file by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"

	"github.com/inrick/chip8-go/chip8"
	"github.com/inrick/chip8-go/keymap"
)

// DefaultFile is the file read when no path is given.
const DefaultFile = "chip8.toml"

var log = commonlog.GetLogger("chip8.config")

// Config represents a chip8.toml file.
type Config struct {
	// Instructions executed per second. Timers always run at 60Hz.
	CyclesPerSecond int `toml:"cycles_per_second"`

	// "gl" or "term".
	Frontend string `toml:"frontend"`

	// Window pixels per Chip-8 pixel. Only used by the gl frontend.
	Scale int `toml:"scale"`

	Verbosity int `toml:"verbosity"`

	// 16 host keys in keypad order. See package keymap.
	Keys string `toml:"keys"`

	// Seed for the random number generator. 0 seeds from the clock.
	Seed int64 `toml:"seed"`

	Quirks Quirks `toml:"quirks"`
}

// Quirks selects a preset and optionally overrides single quirks. An unset
// override keeps the preset's value.
type Quirks struct {
	Preset               string `toml:"preset"`
	ShiftUsesVY          *bool  `toml:"shift_uses_vy"`
	LoadStoreIncrementsI *bool  `toml:"load_store_increments_i"`
	JumpUsesVX           *bool  `toml:"jump_uses_vx"`
	ResetVFOnLogic       *bool  `toml:"reset_vf_on_logic"`
	WrapSprites          *bool  `toml:"wrap_sprites"`
}

// Default returns the configuration used when there is no file.
func Default() Config {
	return Config{
		CyclesPerSecond: 700,
		Frontend:        "gl",
		Scale:           15,
		Verbosity:       1,
		Keys:            keymap.Default,
		Quirks:          Quirks{Preset: "cowgod"},
	}
}

// Load reads the file at path over the defaults. A missing file is not an
// error when path is DefaultFile.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultFile {
			log.Debugf("no %s, using defaults", DefaultFile)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse error in %s: %w", path, err)
	}
	for _, k := range md.Undecoded() {
		log.Warningf("%s: unknown setting %q", path, k.String())
	}
	log.Infof("loaded %s", path)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that settings are in range.
func (cfg Config) Validate() error {
	if cfg.CyclesPerSecond < chip8.TimerHz || cfg.CyclesPerSecond > 100000 {
		return fmt.Errorf("cycles_per_second %d out of range (%d-100000)", cfg.CyclesPerSecond, chip8.TimerHz)
	}
	switch cfg.Frontend {
	case "gl", "term":
	default:
		return fmt.Errorf("unknown frontend %q (want gl or term)", cfg.Frontend)
	}
	if cfg.Scale < 1 || cfg.Scale > 64 {
		return fmt.Errorf("scale %d out of range (1-64)", cfg.Scale)
	}
	if _, err := keymap.Parse(cfg.Keys); err != nil {
		return err
	}
	if _, err := cfg.ChipQuirks(); err != nil {
		return err
	}
	return nil
}

// ChipQuirks resolves the preset and overrides into chip8.Quirks.
func (cfg Config) ChipQuirks() (chip8.Quirks, error) {
	q, err := chip8.QuirksByName(cfg.Quirks.Preset)
	if err != nil {
		return chip8.Quirks{}, err
	}
	override(&q.ShiftUsesVY, cfg.Quirks.ShiftUsesVY)
	override(&q.LoadStoreIncrementsI, cfg.Quirks.LoadStoreIncrementsI)
	override(&q.JumpUsesVX, cfg.Quirks.JumpUsesVX)
	override(&q.ResetVFOnLogic, cfg.Quirks.ResetVFOnLogic)
	override(&q.WrapSprites, cfg.Quirks.WrapSprites)
	return q, nil
}

// Layout returns the parsed key layout.
func (cfg Config) Layout() (*keymap.Layout, error) {
	return keymap.Parse(cfg.Keys)
}

// Save writes cfg to path in TOML.
func (cfg Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

func override(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
