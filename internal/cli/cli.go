// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses command line flags and returns program and emulator options
func ParseFlags() (options.Program, options.Emulator, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, options.Emulator{}, &UsageError{flags: flags}
	}

	if err := validateArgs(flags, args); err != nil {
		return opts, options.Emulator{}, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, options.Emulator{}, err
	}

	if len(args) > 0 {
		opts.Input = args[0]
	}

	flags.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			opts.FixedSeed = true
		}
	})

	if err := validateOptionCombinations(opts); err != nil {
		return opts, options.Emulator{}, err
	}

	return opts, options.NewEmulator(opts), nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	if e.msg == "" {
		return "invalid usage"
	}
	return e.msg
}

// ShowUsage prints the error message, if any, followed by the flag defaults.
func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("%s\n\n", e.msg)
	}
	fmt.Printf("usage: retrochip8 [options] <ROM or assembly file>\n\n")
	e.flags.SetOutput(os.Stdout)
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(flags *flag.FlagSet, args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				flags: flags,
				msg:   fmt.Sprintf("Potential argument %s found after file to run, please pass the file to run as last argument", arg),
			}
		}
	}
	if len(args) > 1 {
		return &UsageError{flags: flags, msg: "only a single file can be run"}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Frontend = strings.ToLower(opts.Frontend)
	opts.Format = strings.ToLower(opts.Format)
	opts.System = strings.ToLower(opts.System)

	validFrontends := []string{options.FrontendWindow, options.FrontendTerminal, options.FrontendHeadless}
	if !slices.Contains(validFrontends, opts.Frontend) {
		return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
			opts.Frontend, strings.Join(validFrontends, ", "))
	}

	validFormats := []string{"", options.FormatBinary, options.FormatAssembly}
	if !slices.Contains(validFormats, opts.Format) {
		return fmt.Errorf("unsupported input format: %s. Valid options: %s",
			opts.Format, strings.Join(validFormats[1:], ", "))
	}

	switch {
	case opts.Clock <= 0:
		return fmt.Errorf("invalid clock rate %d, must be positive", opts.Clock)
	case opts.Scale <= 0:
		return fmt.Errorf("invalid scale %d, must be positive", opts.Scale)
	case opts.StackLimit < 0:
		return fmt.Errorf("invalid stack limit %d, must not be negative", opts.StackLimit)
	}
	return nil
}

// validateOptionCombinations checks for options that can not be used together
func validateOptionCombinations(opts options.Program) error {
	if opts.Trace && opts.Quiet {
		return errors.New("-trace can not be combined with -q")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM or assembly source file")
	flags.StringVar(&opts.Format, "format", "", "input format (binary/asm), detected from the file extension if not given")
	flags.StringVar(&opts.System, "s", "", "system to emulate, only chip8 is supported")
	flags.StringVar(&opts.Frontend, "ui", options.FrontendWindow, "frontend to use (window/terminal/headless)")
	flags.IntVar(&opts.Clock, "hz", options.DefaultClock, "instructions executed per second")
	flags.Uint64Var(&opts.Cycles, "cycles", 0, "stop after executing this many instructions, 0 runs until interrupted")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, seeded from the current time if not given")
	flags.IntVar(&opts.StackLimit, "stack", 0, "maximum call stack depth, 0 leaves it unbounded")
	flags.IntVar(&opts.Scale, "scale", options.DefaultScale, "window pixels per emulated pixel")
	flags.BoolVar(&opts.Mute, "mute", false, "disable sound output")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
