// Package loader handles program image loading operations.
package loader

import (
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/asm"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
)

const maxImageSize = chip8.MemorySize - chip8.ProgramStart

var errImagePadding = errors.New("image exceeds program space")

// Loader handles loading program images from disk.
type Loader struct{}

// New creates a new program loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the input file and returns the program image to place at the
// program start address. Binary files are loaded as raw buffer, assembly
// files are assembled first.
func (l *Loader) Load(opts options.Program, format string) ([]byte, error) {
	switch format {
	case options.FormatBinary:
		return l.loadBinary(opts.Input)
	case options.FormatAssembly:
		return l.loadAssembly(opts.Input)
	default:
		return nil, fmt.Errorf("unsupported input format '%s'", format)
	}
}

func (l *Loader) loadBinary(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	cart, err := cartridge.LoadBuffer(file)
	if err != nil {
		return nil, fmt.Errorf("loading buffer: %w", err)
	}

	image, err := trimPadding(cart.PRG)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return image, nil
}

func (l *Loader) loadAssembly(path string) ([]byte, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	image, err := asm.Assemble(path, string(source))
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", path, err)
	}
	return image, nil
}

// trimPadding drops zero padding that extends beyond the program space.
// Non zero bytes beyond the program space are an error.
func trimPadding(data []byte) ([]byte, error) {
	if len(data) <= maxImageSize {
		return data, nil
	}

	for i, b := range data[maxImageSize:] {
		if b != 0 {
			return nil, fmt.Errorf("%w: non zero byte at offset %d", errImagePadding, maxImageSize+i)
		}
	}
	return data[:maxImageSize], nil
}
