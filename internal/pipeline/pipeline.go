// Package pipeline orchestrates the emulation workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/retroenv/retrochip8/internal/app"
	"github.com/retroenv/retrochip8/internal/audio"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/frontend/headless"
	"github.com/retroenv/retrochip8/internal/frontend/terminal"
	"github.com/retroenv/retrochip8/internal/frontend/window"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete emulation workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader

	stdin  io.Reader
	stdout io.Writer
}

// New creates a new emulation pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
		stdin:    os.Stdin,
		stdout:   os.Stdout,
	}
}

// Execute loads the program of the input file and runs it with the
// selected frontend.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, emulatorOpts options.Emulator) error {
	machine, err := p.Prepare(opts, emulatorOpts)
	if err != nil {
		return err
	}
	return p.Run(ctx, opts, machine)
}

// Prepare loads the program and returns a machine with the program in
// memory.
func (p *Pipeline) Prepare(opts options.Program, emulatorOpts options.Emulator) (*chip8.Machine, error) {
	image, err := p.load(opts)
	if err != nil {
		return nil, err
	}

	machine := chip8.New(p.logger, emulatorOpts)
	if err := machine.Load(image, chip8.ProgramStart); err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}
	return machine, nil
}

// load detects the input format and returns the program image.
func (p *Pipeline) load(opts options.Program) ([]byte, error) {
	format, err := p.detector.Detect(opts)
	if err != nil {
		return nil, fmt.Errorf("detecting input format: %w", err)
	}

	image, err := p.loader.Load(opts, format)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	app.PrintInfo(p.logger, opts, format, len(image))
	return image, nil
}

// Run executes the machine with the frontend selected by the options.
func (p *Pipeline) Run(ctx context.Context, opts options.Program, machine *chip8.Machine) error {
	switch opts.Frontend {
	case options.FrontendHeadless:
		return p.runHeadless(ctx, opts, machine)
	case options.FrontendTerminal:
		return p.runTerminal(ctx, opts, machine)
	case options.FrontendWindow:
		return p.runWindow(ctx, opts, machine)
	default:
		return fmt.Errorf("unsupported frontend '%s'", opts.Frontend)
	}
}

// runHeadless runs without sound and writes the final frame to the output.
// With a cycle budget the frames are executed without pacing.
func (p *Pipeline) runHeadless(ctx context.Context, opts options.Program, machine *chip8.Machine) error {
	frontend := headless.New()
	r := runner.New(p.logger, machine, opts, runner.Frontend{
		Display: frontend,
		Input:   frontend,
	})

	var err error
	if opts.Cycles > 0 {
		err = r.RunUnpaced(ctx)
	} else {
		err = r.Run(ctx)
	}

	p.logger.Debug("Headless run finished",
		log.Int("frames", frontend.Frames()),
		log.Int("executed", int(r.Executed())))

	// show the display the machine stopped with, even within a frame
	_ = frontend.Render(machine.FrameBuffer())
	if _, writeErr := frontend.WriteTo(p.stdout); writeErr != nil && err == nil {
		err = writeErr
	}
	return err
}

func (p *Pipeline) runTerminal(ctx context.Context, opts options.Program, machine *chip8.Machine) error {
	term := terminal.New(p.stdin, p.stdout)
	if err := term.Start(); err != nil {
		return fmt.Errorf("starting terminal: %w", err)
	}
	defer term.Stop()

	sound := audio.Open(p.logger, opts.Mute)
	defer func() { _ = sound.Close() }()

	r := runner.New(p.logger, machine, opts, runner.Frontend{
		Display: term,
		Input:   term,
		Sound:   sound,
	})
	return r.Run(ctx)
}

func (p *Pipeline) runWindow(ctx context.Context, opts options.Program, machine *chip8.Machine) error {
	win := window.New(p.logger, opts.Scale, filepath.Base(opts.Input))

	sound := audio.Open(p.logger, opts.Mute)
	defer func() { _ = sound.Close() }()

	r := runner.New(p.logger, machine, opts, runner.Frontend{
		Display: win,
		Input:   win,
		Sound:   sound,
	})
	if err := win.Run(ctx, r); err != nil {
		return fmt.Errorf("running window frontend: %w", err)
	}
	return nil
}
