//go:build !headless

package window

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// keyLayout maps the hex key panel to the left side of a QWERTY keyboard.
var keyLayout = [chip8.KeyCount]ebiten.Key{
	0x1: ebiten.KeyDigit1, 0x2: ebiten.KeyDigit2, 0x3: ebiten.KeyDigit3, 0xC: ebiten.KeyDigit4,
	0x4: ebiten.KeyQ, 0x5: ebiten.KeyW, 0x6: ebiten.KeyE, 0xD: ebiten.KeyR,
	0x7: ebiten.KeyA, 0x8: ebiten.KeyS, 0x9: ebiten.KeyD, 0xE: ebiten.KeyF,
	0xA: ebiten.KeyZ, 0x0: ebiten.KeyX, 0xB: ebiten.KeyC, 0xF: ebiten.KeyV,
}

// Window is an ebiten game that displays the frame buffer and reads the
// key panel from the keyboard.
type Window struct {
	logger *log.Logger
	scale  int
	title  string

	ctx    context.Context
	runner *runner.Runner
	err    error

	pixels []byte
	image  *ebiten.Image
}

// New returns a window that scales every pixel by the given factor.
func New(logger *log.Logger, scale int, program string) *Window {
	return &Window{
		logger: logger,
		scale:  scale,
		title:  windowTitle(program),
		pixels: make([]byte, 4*chip8.DisplayWidth*chip8.DisplayHeight),
	}
}

// Run opens the window and executes a frame of the runner on every update
// until the window is closed, the context is cancelled or the runner stops.
// It has to be called from the main goroutine.
func (w *Window) Run(ctx context.Context, r *runner.Runner) error {
	w.ctx = ctx
	w.runner = r
	fillPixels(w.pixels, chip8.FrameBuffer{})

	ebiten.SetWindowSize(chip8.DisplayWidth*w.scale, chip8.DisplayHeight*w.scale)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetTPS(runner.FrameRate)

	if err := ebiten.RunGame(w); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	return w.err
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if err := w.ctx.Err(); err != nil {
		w.err = fmt.Errorf("running: %w", err)
		return ebiten.Termination
	}
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	err := w.runner.Frame()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, runner.ErrBudgetExhausted), errors.Is(err, runner.ErrQuit):
		w.logger.Debug("Closing window", log.Err(err))
	default:
		w.err = err
	}
	return ebiten.Termination
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.image == nil {
		w.image = ebiten.NewImage(chip8.DisplayWidth, chip8.DisplayHeight)
	}
	w.image.WritePixels(w.pixels)
	screen.DrawImage(w.image, nil)
}

// Layout implements ebiten.Game. The logical screen has the display
// resolution and is scaled to the window by ebiten.
func (w *Window) Layout(_, _ int) (int, int) {
	return chip8.DisplayWidth, chip8.DisplayHeight
}

// Render implements runner.Display.
func (w *Window) Render(fb chip8.FrameBuffer) error {
	fillPixels(w.pixels, fb)
	return nil
}

// Poll implements runner.Input.
func (w *Window) Poll(keys runner.KeyPanel) error {
	for index, key := range keyLayout {
		if err := keys.SetKey(index, ebiten.IsKeyPressed(key)); err != nil {
			return fmt.Errorf("setting key %X: %w", index, err)
		}
	}
	return nil
}
