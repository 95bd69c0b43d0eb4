// Package runner drives a CHIP-8 machine in real time and connects it to
// display, input and sound frontends.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// FrameRate is the number of frames per second. The timers of the machine
// are decremented once per cycle, the frame rate only controls how often
// input is polled and output is produced.
const FrameRate = 60

var (
	// ErrQuit can be returned by an input to stop the runner.
	ErrQuit = errors.New("quit requested")

	// ErrBudgetExhausted is returned by Frame after the configured number
	// of cycles was executed.
	ErrBudgetExhausted = errors.New("cycle budget exhausted")
)

// KeyPanel receives key state changes from an input.
type KeyPanel interface {
	SetKey(index int, pressed bool) error
}

// Display renders the frame buffer.
type Display interface {
	Render(fb chip8.FrameBuffer) error
}

// Input updates the key panel with the current key states.
type Input interface {
	Poll(keys KeyPanel) error
}

// Sound plays a tone while it is active.
type Sound interface {
	SetActive(active bool)
}

// Frontend bundles the collaborators of a runner. Nil members are ignored.
type Frontend struct {
	Display Display
	Input   Input
	Sound   Sound
}

// Runner executes a machine in frames.
type Runner struct {
	logger   *log.Logger
	machine  *chip8.Machine
	frontend Frontend

	cyclesPerFrame int
	budget         uint64 // 0 is unlimited
	executed       uint64
	soundActive    bool
}

// New returns a runner for the machine using the clock rate and cycle
// budget of the options.
func New(logger *log.Logger, machine *chip8.Machine, opts options.Program, frontend Frontend) *Runner {
	return &Runner{
		logger:         logger,
		machine:        machine,
		frontend:       frontend,
		cyclesPerFrame: config.CyclesPerFrame(opts.Clock, FrameRate),
		budget:         opts.Cycles,
	}
}

// Frame polls the input, executes the cycles of one frame and updates
// sound and display.
func (r *Runner) Frame() error {
	if r.Done() {
		return ErrBudgetExhausted
	}

	if r.frontend.Input != nil {
		if err := r.frontend.Input.Poll(r.machine); err != nil {
			return fmt.Errorf("polling input: %w", err)
		}
	}

	for range r.cyclesPerFrame {
		if r.Done() {
			break
		}
		if err := r.machine.Cycle(); err != nil {
			return fmt.Errorf("running machine: %w", err)
		}
		r.executed++
	}

	r.updateSound()

	if r.frontend.Display != nil && r.machine.FrameChanged() {
		if err := r.frontend.Display.Render(r.machine.FrameBuffer()); err != nil {
			return fmt.Errorf("rendering frame: %w", err)
		}
	}
	return nil
}

// Run executes frames at the frame rate until the context is cancelled,
// the machine halts, an input requests to quit or the cycle budget is
// exhausted.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()
	return r.run(ctx, ticker.C)
}

// RunUnpaced executes frames without waiting between them. It stops under
// the same conditions as Run.
func (r *Runner) RunUnpaced(ctx context.Context) error {
	return r.run(ctx, nil)
}

func (r *Runner) run(ctx context.Context, tick <-chan time.Time) error {
	defer r.silence()

	r.logger.Debug("Starting runner",
		log.Int("cycles_per_frame", r.cyclesPerFrame))

	for {
		err := r.Frame()
		switch {
		case errors.Is(err, ErrBudgetExhausted):
			r.logger.Debug("Cycle budget exhausted", log.Int("cycles", int(r.executed)))
			return nil
		case errors.Is(err, ErrQuit):
			return nil
		case err != nil:
			return err
		}

		if tick == nil {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("running: %w", err)
			}
			continue
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("running: %w", ctx.Err())
		case <-tick:
		}
	}
}

// Done returns whether the cycle budget is exhausted.
func (r *Runner) Done() bool {
	return r.budget > 0 && r.executed >= r.budget
}

// Executed returns the number of executed cycles.
func (r *Runner) Executed() uint64 {
	return r.executed
}

func (r *Runner) updateSound() {
	active := r.machine.SoundTimer() > 0
	if active == r.soundActive {
		return
	}
	r.soundActive = active
	if r.frontend.Sound != nil {
		r.frontend.Sound.SetActive(active)
	}
}

func (r *Runner) silence() {
	if r.soundActive && r.frontend.Sound != nil {
		r.frontend.Sound.SetActive(false)
	}
	r.soundActive = false
}
