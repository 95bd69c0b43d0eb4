// Package detector handles input format detection.
package detector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// Detector handles system validation and input format detection from file
// extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new input detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect validates the requested system and determines the input format.
// An explicitly requested format takes precedence over the format detected
// from the input filename extension.
func (d *Detector) Detect(opts options.Program) (string, error) {
	if err := validateSystem(opts.System); err != nil {
		return "", err
	}

	if opts.Format != "" {
		return opts.Format, nil
	}

	format := detectFromFile(opts.Input)
	d.logger.Debug("Auto-detected input format",
		log.String("format", format),
		log.String("file", opts.Input))
	return format, nil
}

// validateSystem checks that the requested system, if any, is CHIP-8.
func validateSystem(name string) error {
	if name == "" {
		return nil
	}
	system, _ := arch.SystemFromString(name)
	if system != arch.CHIP8System {
		return fmt.Errorf("unsupported system '%s', only %s is supported", name, arch.CHIP8System)
	}
	return nil
}

// detectFromFile determines the input format based on file extension.
func detectFromFile(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".asm", ".s":
		return options.FormatAssembly
	default:
		// .ch8, .c8, .rom and unknown extensions are raw program images
		return options.FormatBinary
	}
}
