package chip8

import (
	"fmt"
	"sync"
)

// Keypad is the hexadecimal keypad latch. Input code writes to it from
// whatever goroutine receives host events while the interpreter reads it
// during Step, so every access goes through the mutex.
type Keypad struct {
	mu      sync.Mutex
	down    [NumKeys]bool
	pressed [NumKeys]bool // press edges not yet consumed by Fx0A
}

func NewKeypad() *Keypad {
	return &Keypad{}
}

// Set records the state of key. A transition from released to pressed is
// remembered until Fx0A consumes it.
func (kp *Keypad) Set(key uint8, down bool) error {
	if key >= NumKeys {
		return fmt.Errorf("%w: 0x%x", ErrInvalidKeyIndex, key)
	}
	kp.mu.Lock()
	defer kp.mu.Unlock()
	if down && !kp.down[key] {
		kp.pressed[key] = true
	}
	kp.down[key] = down
	return nil
}

// Down reports whether key is held. Only the low nibble of key is used.
func (kp *Keypad) Down(key uint8) bool {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	return kp.down[key&0xf]
}

// Snapshot returns the state of all keys at once.
func (kp *Keypad) Snapshot() [NumKeys]bool {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	return kp.down
}

// takePress consumes the lowest numbered outstanding key press.
func (kp *Keypad) takePress() (uint8, bool) {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	for k := range kp.pressed {
		if kp.pressed[k] {
			kp.pressed[k] = false
			return uint8(k), true
		}
	}
	return 0, false
}

func (kp *Keypad) clearPresses() {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	kp.pressed = [NumKeys]bool{}
}

func (kp *Keypad) reset() {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	kp.down = [NumKeys]bool{}
	kp.pressed = [NumKeys]bool{}
}
