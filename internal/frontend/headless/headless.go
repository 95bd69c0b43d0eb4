// Package headless implements a frontend without window or terminal that
// keeps the last rendered frame in memory.
package headless

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/runner"
)

const (
	pixelOn  = '#'
	pixelOff = '.'
)

// Frontend records rendered frames. It never reports pressed keys.
type Frontend struct {
	last   chip8.FrameBuffer
	frames int
}

// New returns a new headless frontend.
func New() *Frontend {
	return &Frontend{}
}

// Render stores the frame buffer.
func (f *Frontend) Render(fb chip8.FrameBuffer) error {
	f.last = fb
	f.frames++
	return nil
}

// Poll implements runner.Input, no keys are ever pressed.
func (f *Frontend) Poll(runner.KeyPanel) error {
	return nil
}

// Frames returns the number of rendered frames.
func (f *Frontend) Frames() int {
	return f.frames
}

// WriteTo writes the last rendered frame as text.
func (f *Frontend) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, Format(f.last))
	if err != nil {
		return int64(n), fmt.Errorf("writing frame: %w", err)
	}
	return int64(n), nil
}

// Format returns the frame buffer as text, one line per row with '#' for
// lit and '.' for unlit pixels.
func Format(fb chip8.FrameBuffer) string {
	var sb strings.Builder
	sb.Grow(chip8.DisplayHeight * (chip8.DisplayWidth + 1))

	for y := range chip8.DisplayHeight {
		for x := range chip8.DisplayWidth {
			if fb.Pixel(x, y) {
				sb.WriteByte(pixelOn)
			} else {
				sb.WriteByte(pixelOff)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
