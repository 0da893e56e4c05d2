package runner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inrick/chip8-go/chip8"
	"github.com/inrick/chip8-go/internal/test"
	"github.com/inrick/chip8-go/runner"
)

func rom(words ...uint16) []byte {
	b := make([]byte, 0, len(words)*2)
	for _, w := range words {
		b = append(b, uint8(w>>8), uint8(w))
	}
	return b
}

func machine(t *testing.T, words ...uint16) *chip8.Chip8 {
	t.Helper()
	c8 := chip8.New(chip8.WithSeed(1))
	test.DemandSuccess(t, c8.Load(rom(words...)))
	return c8
}

// spin is a program that loops forever
var spin = []uint16{0x1200}

func TestAdvanceRates(t *testing.T) {
	for _, cps := range []int{60, 500, 700, 1000, 12345} {
		r, err := runner.New(machine(t, spin...), cps)
		test.DemandSuccess(t, err)
		test.DemandSuccess(t, r.Advance(time.Second))
		steps, ticks := r.Stats()
		test.ExpectEquality(t, steps, uint64(cps), cps)
		test.ExpectEquality(t, ticks, uint64(chip8.TimerHz), cps)
	}
}

func TestAdvanceInSlices(t *testing.T) {
	r, err := runner.New(machine(t, spin...), 700)
	test.DemandSuccess(t, err)

	// uneven slices add up to three seconds
	var total time.Duration
	for total < 3*time.Second {
		d := 3*time.Millisecond + 7*time.Microsecond
		if total+d > 3*time.Second {
			d = 3*time.Second - total
		}
		test.DemandSuccess(t, r.Advance(d))
		total += d
	}
	steps, ticks := r.Stats()
	test.ExpectEquality(t, steps, uint64(2100))
	test.ExpectEquality(t, ticks, uint64(180))
}

func TestAdvanceShort(t *testing.T) {
	r, err := runner.New(machine(t, spin...), 700)
	test.DemandSuccess(t, err)

	// less than one timer period
	test.DemandSuccess(t, r.Advance(10*time.Millisecond))
	steps, ticks := r.Stats()
	test.ExpectEquality(t, steps, uint64(7))
	test.ExpectEquality(t, ticks, uint64(0))

	test.DemandSuccess(t, r.Advance(7*time.Millisecond))
	_, ticks = r.Stats()
	test.ExpectEquality(t, ticks, uint64(1))
}

func TestTimersDecayWhileWaiting(t *testing.T) {
	// DT = 120 then wait for a key
	c8 := machine(t, 0x6078, 0xf015, 0xf10a, 0x1206)
	r, err := runner.New(c8, 700)
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, r.Advance(time.Second))
	s := c8.State()
	test.ExpectEquality(t, s.DelayTimer, uint8(60))
	test.ExpectEquality(t, s.PC, uint16(0x204))
	test.ExpectEquality(t, c8.Waiting(), true)

	test.DemandSuccess(t, c8.SetKey(3, true))
	test.DemandSuccess(t, r.Advance(10*time.Millisecond))
	s = c8.State()
	test.ExpectEquality(t, s.V[1], uint8(3))
	test.ExpectEquality(t, s.PC, uint16(0x206))
}

func TestAdvanceHalts(t *testing.T) {
	c8 := machine(t, 0x6001, 0x5001)
	r, err := runner.New(c8, 700)
	test.DemandSuccess(t, err)

	err = r.Advance(time.Second)
	test.ExpectError(t, err, chip8.ErrUnknownInstruction)
	steps, _ := r.Stats()
	test.ExpectEquality(t, steps, uint64(2))

	// stays halted
	err = r.Advance(time.Second)
	test.ExpectError(t, err, chip8.ErrUnknownInstruction)
	steps, _ = r.Stats()
	test.ExpectEquality(t, steps, uint64(2))
}

func TestNewInvalid(t *testing.T) {
	_, err := runner.New(machine(t, spin...), 0)
	test.ExpectFailure(t, err)
}

type frontend struct {
	polls   int
	quitAt  int
	renders int
	sound   []bool
	lit     int
	pollErr error
}

func (fe *frontend) Render(fb chip8.Framebuffer) error {
	fe.renders++
	fe.lit = fb.Lit()
	return nil
}

func (fe *frontend) Sound(active bool) {
	fe.sound = append(fe.sound, active)
}

func (fe *frontend) Poll() (bool, error) {
	fe.polls++
	if fe.pollErr != nil {
		return false, fe.pollErr
	}
	return fe.polls >= fe.quitAt, nil
}

func TestRun(t *testing.T) {
	// draw the font glyph for 0, start the sound timer and spin
	c8 := machine(t, 0xa050, 0xd005, 0x6010, 0xf018, 0x1208)
	r, err := runner.New(c8, 700)
	test.DemandSuccess(t, err)

	fe := &frontend{quitAt: 4}
	test.ExpectSuccess(t, r.Run(context.Background(), fe))
	test.ExpectEquality(t, fe.polls, 4)

	// the initial render plus the one after the draw
	test.ExpectEquality(t, fe.renders, 2)
	test.ExpectEquality(t, fe.lit, 14)
	test.DemandEquality(t, len(fe.sound) > 0, true)
	test.ExpectEquality(t, fe.sound[0], true)
}

func TestRunHalts(t *testing.T) {
	c8 := machine(t, 0x00ee)
	r, err := runner.New(c8, 700)
	test.DemandSuccess(t, err)

	fe := &frontend{quitAt: 1000}
	err = r.Run(context.Background(), fe)
	test.ExpectError(t, err, chip8.ErrStackUnderflow)
}

func TestRunCancel(t *testing.T) {
	r, err := runner.New(machine(t, spin...), 700)
	test.DemandSuccess(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fe := &frontend{quitAt: 1000}
	test.ExpectSuccess(t, r.Run(ctx, fe))
	test.ExpectEquality(t, fe.polls, 1)
}

func TestRunPollError(t *testing.T) {
	r, err := runner.New(machine(t, spin...), 700)
	test.DemandSuccess(t, err)

	pollErr := errors.New("window lost")
	err = r.Run(context.Background(), &frontend{pollErr: pollErr})
	test.ExpectError(t, err, pollErr)
}
