//go:build headless

package window

import (
	"context"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// Window is the stub used in headless builds.
type Window struct {
	title  string
	pixels []byte
}

// New returns a window stub.
func New(_ *log.Logger, _ int, program string) *Window {
	return &Window{
		title:  windowTitle(program),
		pixels: make([]byte, 4*chip8.DisplayWidth*chip8.DisplayHeight),
	}
}

// Run returns ErrUnavailable.
func (w *Window) Run(context.Context, *runner.Runner) error {
	return ErrUnavailable
}

// Render implements runner.Display.
func (w *Window) Render(fb chip8.FrameBuffer) error {
	fillPixels(w.pixels, fb)
	return nil
}

// Poll implements runner.Input.
func (w *Window) Poll(runner.KeyPanel) error {
	return nil
}
