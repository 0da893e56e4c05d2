// Package runner drives a Chip-8 interpreter in real time.
//
// Instructions and timers run on independent clocks. The runner keeps an
// emulated clock and, for every stretch of wall-clock time it is given,
// executes each instruction and timer tick that falls due in that stretch, in
// the order they fall due. Everything happens on the calling goroutine so
// Step and TickTimers never overlap.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/tliron/commonlog"

	"github.com/inrick/chip8-go/chip8"
)

var log = commonlog.GetLogger("chip8.runner")

// Machine is the part of *chip8.Chip8 used by the runner.
type Machine interface {
	Step() error
	TickTimers()
	Framebuffer() chip8.Framebuffer
	Frame() uint64
	SoundActive() bool
	Waiting() bool
}

// Frontend presents the machine to the user. All methods are called from the
// goroutine that called Run.
type Frontend interface {
	// Render is called with the display whenever it has changed.
	Render(fb chip8.Framebuffer) error

	// Sound is called when the sound timer starts or stops.
	Sound(active bool)

	// Poll processes pending input once per frame. Returning true stops Run.
	Poll() (quit bool, err error)
}

// FrameRate is the rate at which Run polls the frontend and renders.
const FrameRate = chip8.TimerHz

// maxLag caps the time Run hands to Advance in one go. If the host stalls,
// eg. a window being dragged, the emulation slows down instead of racing to
// catch up.
const maxLag = 250 * time.Millisecond

type Runner struct {
	vm              Machine
	cyclesPerSecond int

	// emulated time and the number of steps and ticks run since it was last
	// rebased. rebasing happens on whole seconds, when both schedules line up
	clock time.Duration
	steps int
	ticks int

	totalSteps uint64
	totalTicks uint64

	halted error
}

func New(vm Machine, cyclesPerSecond int) (*Runner, error) {
	if cyclesPerSecond <= 0 {
		return nil, fmt.Errorf("runner: cycles per second must be positive (%d)", cyclesPerSecond)
	}
	log.Debugf("%d instructions per second, timers at %dHz", cyclesPerSecond, chip8.TimerHz)
	return &Runner{
		vm:              vm,
		cyclesPerSecond: cyclesPerSecond,
	}, nil
}

func (r *Runner) stepAt(n int) time.Duration {
	return time.Duration(n) * time.Second / time.Duration(r.cyclesPerSecond)
}

func tickAt(n int) time.Duration {
	return time.Duration(n) * time.Second / chip8.TimerHz
}

// Advance moves the emulated clock on by elapsed, running every instruction
// and timer tick due in that time. The first error from the machine halts
// the runner and is returned by this and every later call.
func (r *Runner) Advance(elapsed time.Duration) error {
	if r.halted != nil {
		return r.halted
	}

	target := r.clock + elapsed
	for {
		nextStep := r.stepAt(r.steps + 1)
		nextTick := tickAt(r.ticks + 1)

		if nextTick <= nextStep {
			if nextTick > target {
				break
			}
			r.vm.TickTimers()
			r.ticks++
			r.totalTicks++
			continue
		}

		if nextStep > target {
			break
		}
		r.steps++
		r.totalSteps++
		if err := r.vm.Step(); err != nil {
			r.halted = err
			return err
		}
	}
	r.clock = target

	for r.clock >= time.Second && r.steps >= r.cyclesPerSecond && r.ticks >= chip8.TimerHz {
		r.clock -= time.Second
		r.steps -= r.cyclesPerSecond
		r.ticks -= chip8.TimerHz
	}
	return nil
}

// Stats returns the number of instructions and timer ticks run so far.
func (r *Runner) Stats() (steps, ticks uint64) {
	return r.totalSteps, r.totalTicks
}

// Run drives the machine and frontend at FrameRate until the frontend asks
// to quit, ctx is cancelled or the machine fails. Only a machine or frontend
// error is returned.
func (r *Runner) Run(ctx context.Context, fe Frontend) error {
	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()

	frame := r.vm.Frame()
	if err := fe.Render(r.vm.Framebuffer()); err != nil {
		return err
	}
	sound := false
	waiting := false
	last := time.Now()

	for {
		quit, err := fe.Poll()
		if err != nil {
			return fmt.Errorf("runner: %w", err)
		}
		if quit {
			steps, ticks := r.Stats()
			log.Infof("quit after %d instructions and %d timer ticks", steps, ticks)
			return nil
		}

		now := time.Now()
		elapsed := now.Sub(last)
		last = now
		if elapsed > maxLag {
			log.Debugf("running %v behind, dropping time", elapsed-maxLag)
			elapsed = maxLag
		}

		if err := r.Advance(elapsed); err != nil {
			log.Errorf("halted: %s", err.Error())
			return err
		}

		if f := r.vm.Frame(); f != frame {
			frame = f
			if err := fe.Render(r.vm.Framebuffer()); err != nil {
				return fmt.Errorf("runner: %w", err)
			}
		}
		if s := r.vm.SoundActive(); s != sound {
			sound = s
			fe.Sound(s)
		}
		if w := r.vm.Waiting(); w != waiting {
			waiting = w
			if w {
				log.Debug("waiting for key")
			}
		}

		select {
		case <-ctx.Done():
			log.Info("stopped")
			return nil
		case <-ticker.C:
		}
	}
}
