// Package chip8 implements a Chip-8 interpreter.
// Follows description in Cowgod's Chip-8 Technical Reference v1.0 [1] and
// How to write an emulator [2].
//
//	[1] http://devernay.free.fr/hacks/chip8/C8TECH10.HTM
//	[2] http://www.multigesture.net/articles/how-to-write-an-emulator-chip-8-interpreter/
//
// A Chip8 value owns the whole machine state. Step executes one instruction
// and TickTimers decays the timers; both must be driven from a single
// goroutine at their own rates (see package runner). The only state that may
// be touched from another goroutine is the keypad, through SetKey.
package chip8

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	DisplayWidth  = 64
	DisplayHeight = 32

	MemorySize   = 0x1000
	ProgramStart = 0x200
	MaxRomSize   = MemorySize - ProgramStart
	StackSize    = 0x10
	NumKeys      = 0x10

	// TimerHz is the rate at which TickTimers is expected to be called.
	TimerHz = 60

	fontStart  = 0x50
	fontHeight = 5
)

var fontset = [...]uint8{
	0xf0, 0x90, 0x90, 0x90, 0xf0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xf0, 0x10, 0xf0, 0x80, 0xf0, // 2
	0xf0, 0x10, 0xf0, 0x10, 0xf0, // 3
	0x90, 0x90, 0xf0, 0x10, 0x10, // 4
	0xf0, 0x80, 0xf0, 0x10, 0xf0, // 5
	0xf0, 0x80, 0xf0, 0x90, 0xf0, // 6
	0xf0, 0x10, 0x20, 0x40, 0x40, // 7
	0xf0, 0x90, 0xf0, 0x90, 0xf0, // 8
	0xf0, 0x90, 0xf0, 0x10, 0xf0, // 9
	0xf0, 0x90, 0xf0, 0x90, 0x90, // A
	0xe0, 0x90, 0xe0, 0x90, 0xe0, // B
	0xf0, 0x80, 0x80, 0x80, 0xf0, // C
	0xe0, 0x90, 0x90, 0x90, 0xe0, // D
	0xf0, 0x80, 0xf0, 0x80, 0xf0, // E
	0xf0, 0x80, 0xf0, 0x80, 0x80, // F
}

type Chip8 struct {
	mem    [MemorySize]uint8
	v      [0x10]uint8
	stack  [StackSize]uint16
	i, pc  uint16
	sp     uint8
	dt, st uint8 // Delay timer & sound timer
	gfx    Framebuffer
	keys   *Keypad

	quirks Quirks
	rng    *rand.Rand

	// Set while parked on Fx0A.
	waiting bool

	// Incremented whenever gfx is modified.
	frame uint64
}

// Option configures a Chip8 at construction.
type Option func(*Chip8)

// WithQuirks selects the variant semantics used by the interpreter.
func WithQuirks(q Quirks) Option {
	return func(c8 *Chip8) {
		c8.quirks = q
	}
}

// WithRand sets the random source used by Cxkk. Tests use a fixed seed.
func WithRand(rng *rand.Rand) Option {
	return func(c8 *Chip8) {
		c8.rng = rng
	}
}

// WithSeed is shorthand for WithRand with a new source seeded by seed.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

func New(opts ...Option) *Chip8 {
	c8 := &Chip8{
		keys:   NewKeypad(),
		quirks: QuirksCowgod,
	}
	for _, opt := range opts {
		opt(c8)
	}
	if c8.rng == nil {
		c8.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	c8.reset()
	return c8
}

func (c8 *Chip8) reset() {
	c8.mem = [MemorySize]uint8{}
	copy(c8.mem[fontStart:], fontset[:])
	c8.v = [0x10]uint8{}
	c8.stack = [StackSize]uint16{}
	c8.i = 0
	c8.pc = ProgramStart
	c8.sp = 0
	c8.dt, c8.st = 0, 0
	c8.gfx = Framebuffer{}
	c8.keys.reset()
	c8.waiting = false
	c8.frame++
}

// Load resets the machine and copies rom into memory at ProgramStart. A rom
// that does not fit leaves the machine untouched.
func (c8 *Chip8) Load(rom []byte) error {
	if len(rom) > MaxRomSize {
		return fmt.Errorf("%w: %d bytes (maximum %d)", ErrProgramTooLarge, len(rom), MaxRomSize)
	}
	c8.reset()
	copy(c8.mem[ProgramStart:], rom)
	return nil
}

// Step fetches, decodes and executes one instruction.
//
// PC is advanced past the fetched instruction before it executes, so after
// an error PC points at the instruction following the faulty one.
func (c8 *Chip8) Step() error {
	pc := c8.pc
	if int(pc)+1 >= MemorySize {
		return &ExecError{PC: pc, Err: fmt.Errorf("%w: fetch at 0x%03x", ErrMemoryOutOfRange, pc)}
	}
	op := uint16(c8.mem[pc])<<8 | uint16(c8.mem[pc+1])
	c8.pc += 2

	in, err := Decode(op)
	if err == nil {
		err = c8.execute(in)
	}
	if err != nil {
		return &ExecError{PC: pc, Opcode: op, Err: err}
	}
	return nil
}

// TickTimers decrements the delay and sound timers, stopping at zero. It
// should be called TimerHz times a second, however many instructions run in
// between.
func (c8 *Chip8) TickTimers() {
	if c8.dt > 0 {
		c8.dt--
	}
	if c8.st > 0 {
		c8.st--
	}
}

// SetKey marks a key as pressed or released. Keys outside 0x0-0xF are
// rejected with ErrInvalidKeyIndex. Safe to call from any goroutine.
func (c8 *Chip8) SetKey(key uint8, pressed bool) error {
	return c8.keys.Set(key, pressed)
}

// Keypad returns the key latch, for input code that wants to hold onto it
// rather than the whole machine.
func (c8 *Chip8) Keypad() *Keypad {
	return c8.keys
}

// Framebuffer returns a copy of the display.
func (c8 *Chip8) Framebuffer() Framebuffer {
	return c8.gfx
}

// Frame returns a counter that changes every time the display is modified.
func (c8 *Chip8) Frame() uint64 {
	return c8.frame
}

// SoundActive is true while the sound timer is nonzero.
func (c8 *Chip8) SoundActive() bool {
	return c8.st > 0
}

// Waiting is true while the interpreter is parked on Fx0A waiting for a key.
func (c8 *Chip8) Waiting() bool {
	return c8.waiting
}

// Quirks returns the variant semantics in use.
func (c8 *Chip8) Quirks() Quirks {
	return c8.quirks
}

// State is a copy of the CPU-visible registers.
type State struct {
	V          [0x10]uint8
	I          uint16
	PC         uint16
	SP         uint8
	Stack      []uint16
	DelayTimer uint8
	SoundTimer uint8
}

func (s State) String() string {
	return fmt.Sprintf("PC=%03x I=%03x SP=%d DT=%d ST=%d V=% x", s.PC, s.I, s.SP, s.DelayTimer, s.SoundTimer, s.V[:])
}

// State returns a snapshot of the registers, stack and timers.
func (c8 *Chip8) State() State {
	s := State{
		V:          c8.v,
		I:          c8.i,
		PC:         c8.pc,
		SP:         c8.sp,
		Stack:      make([]uint16, c8.sp),
		DelayTimer: c8.dt,
		SoundTimer: c8.st,
	}
	copy(s.Stack, c8.stack[:c8.sp])
	return s
}

// Peek returns the byte at addr. It is meant for debuggers and tests.
func (c8 *Chip8) Peek(addr uint16) (uint8, error) {
	if int(addr) >= MemorySize {
		return 0, fmt.Errorf("%w: 0x%x", ErrMemoryOutOfRange, addr)
	}
	return c8.mem[addr], nil
}
