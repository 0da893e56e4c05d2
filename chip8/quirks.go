package chip8

import (
	"fmt"
	"sort"
	"strings"
)

// Quirks selects between behaviours that differ across historical Chip-8
// interpreters. The zero value is the behaviour described in Cowgod's
// technical reference.
type Quirks struct {
	// 8xy6 and 8xyE shift Vy into Vx instead of shifting Vx in place.
	ShiftUsesVY bool

	// Fx55 and Fx65 leave I pointing past the last register transferred.
	LoadStoreIncrementsI bool

	// Bnnn is read as Bxnn and jumps to xnn + Vx.
	JumpUsesVX bool

	// 8xy1, 8xy2 and 8xy3 set VF to 0.
	ResetVFOnLogic bool

	// Sprite pixels past the right or bottom edge wrap to the opposite side
	// instead of being clipped.
	WrapSprites bool
}

var (
	QuirksCowgod = Quirks{}

	// The original COSMAC VIP interpreter.
	QuirksCOSMAC = Quirks{
		ShiftUsesVY:          true,
		LoadStoreIncrementsI: true,
		ResetVFOnLogic:       true,
	}

	// SUPER-CHIP 1.1 as found on the HP-48.
	QuirksSCHIP = Quirks{
		JumpUsesVX: true,
	}
)

var presets = map[string]Quirks{
	"cowgod": QuirksCowgod,
	"cosmac": QuirksCOSMAC,
	"schip":  QuirksSCHIP,
}

// QuirksByName returns a preset by name. Names are case insensitive.
func QuirksByName(name string) (Quirks, error) {
	q, ok := presets[strings.ToLower(name)]
	if !ok {
		return Quirks{}, fmt.Errorf("unknown quirks preset %q (want one of %s)", name, strings.Join(QuirksNames(), ", "))
	}
	return q, nil
}

// QuirksNames lists the preset names accepted by QuirksByName.
func QuirksNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
