// Package window implements a desktop window frontend. Builds with the
// headless tag replace it with a stub that fails to run.
package window

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// ErrUnavailable is returned by Run in builds without window support.
var ErrUnavailable = errors.New("window frontend is not available in this build")

const title = "retrochip8"

var (
	colorOn  = color.RGBA{R: 0xE8, G: 0xE8, B: 0xE8, A: 0xFF}
	colorOff = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xFF}
)

// windowTitle returns the title for the window showing the given program.
func windowTitle(program string) string {
	if program == "" {
		return title
	}
	return fmt.Sprintf("%s - %s", title, program)
}

// fillPixels converts the frame buffer to RGBA pixel data.
func fillPixels(pix []byte, fb chip8.FrameBuffer) {
	for y := range chip8.DisplayHeight {
		for x := range chip8.DisplayWidth {
			c := colorOff
			if fb[y][x] {
				c = colorOn
			}
			i := 4 * (y*chip8.DisplayWidth + x)
			pix[i] = c.R
			pix[i+1] = c.G
			pix[i+2] = c.B
			pix[i+3] = c.A
		}
	}
}
