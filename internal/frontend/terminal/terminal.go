// Package terminal implements a frontend that renders to an ANSI terminal
// and reads keys from a raw mode standard input.
//
// Terminals do not report key releases. A key counts as pressed until no
// repeat of it was received within the hold timeout.
package terminal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/runner"
	"golang.org/x/term"
)

// HoldTimeout is the time a key stays pressed after it was received.
const HoldTimeout = 200 * time.Millisecond

const (
	keyEscape = 0x1B
	keyCtrlC  = 0x03

	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// keyMap maps the left side of a QWERTY keyboard to the hex key panel.
var keyMap = map[byte]int{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Terminal renders frames as half block characters and maps typed keys to
// the key panel.
type Terminal struct {
	in  io.Reader
	out io.Writer

	fd       int
	oldState *term.State

	input   chan byte
	stopCh  chan struct{}
	stopped sync.Once

	received [chip8.KeyCount]time.Time // time a key was last received
	now      func() time.Time
	buf      bytes.Buffer
}

// New returns a terminal frontend reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:     in,
		out:    out,
		input:  make(chan byte, 64),
		stopCh: make(chan struct{}),
		now:    time.Now,
	}
}

// Start switches the input to raw mode if it is a terminal and begins
// reading keys in a goroutine. Call Stop to restore the terminal.
func (t *Terminal) Start() error {
	if f, ok := t.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.fd = int(f.Fd())
		oldState, err := term.MakeRaw(t.fd)
		if err != nil {
			return fmt.Errorf("setting raw mode: %w", err)
		}
		t.oldState = oldState
	}

	if _, err := io.WriteString(t.out, clearScreen+hideCursor); err != nil {
		t.restore()
		return fmt.Errorf("initializing screen: %w", err)
	}

	go t.read()
	return nil
}

// Stop ends the key reading and restores the terminal state. The reading
// goroutine exits after its pending read returns.
func (t *Terminal) Stop() {
	t.stopped.Do(func() {
		close(t.stopCh)
		_, _ = io.WriteString(t.out, showCursor+"\r\n")
		t.restore()
	})
}

func (t *Terminal) restore() {
	if t.oldState != nil {
		_ = term.Restore(t.fd, t.oldState)
		t.oldState = nil
	}
}

func (t *Terminal) read() {
	buf := make([]byte, 16)
	for {
		n, err := t.in.Read(buf)
		for _, b := range buf[:n] {
			select {
			case t.input <- b:
			case <-t.stopCh:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// Poll implements runner.Input. It returns runner.ErrQuit after Escape or
// Ctrl+C was typed.
func (t *Terminal) Poll(keys runner.KeyPanel) error {
	now := t.now()

	for {
		var b byte
		select {
		case b = <-t.input:
		default:
			return t.updateKeys(keys, now)
		}

		if b == keyEscape || b == keyCtrlC {
			return runner.ErrQuit
		}
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		if key, ok := keyMap[b]; ok {
			t.received[key] = now
		}
	}
}

func (t *Terminal) updateKeys(keys runner.KeyPanel, now time.Time) error {
	for key, received := range t.received {
		pressed := !received.IsZero() && now.Sub(received) < HoldTimeout
		if err := keys.SetKey(key, pressed); err != nil {
			return fmt.Errorf("setting key %X: %w", key, err)
		}
	}
	return nil
}

// Render implements runner.Display. Two rows of pixels are combined into
// one line of half block characters.
func (t *Terminal) Render(fb chip8.FrameBuffer) error {
	t.buf.Reset()
	t.buf.WriteString(cursorHome)

	for y := 0; y < chip8.DisplayHeight; y += 2 {
		for x := range chip8.DisplayWidth {
			t.buf.WriteString(halfBlock(fb.Pixel(x, y), fb.Pixel(x, y+1)))
		}
		t.buf.WriteString("\r\n")
	}

	if _, err := t.out.Write(t.buf.Bytes()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

func halfBlock(top, bottom bool) string {
	switch {
	case top && bottom:
		return "█"
	case top:
		return "▀"
	case bottom:
		return "▄"
	default:
		return " "
	}
}
