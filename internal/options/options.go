// Package options contains the program options.
package options

// Frontend names.
const (
	FrontendHeadless = "headless"
	FrontendTerminal = "terminal"
	FrontendWindow   = "window"
)

// Input format names.
const (
	FormatBinary   = "binary"
	FormatAssembly = "asm"
)

// Defaults used when an option is not set.
const (
	DefaultClock = 700 // instructions per second
	DefaultScale = 10  // window pixels per CHIP-8 pixel
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM or assembly source file"`
	Format string `flag:"format" usage:"input format: binary, asm (default: auto-detect)"`
}

// Flags contains behavior options.
type Flags struct {
	System     string `flag:"s" usage:"target system (default: chip8)"`
	Frontend   string `flag:"ui" usage:"frontend: window, terminal, headless" default:"window"`
	Clock      int    `flag:"hz" usage:"instructions executed per second" default:"700"`
	Cycles     uint64 `flag:"cycles" usage:"stop after executing this many instructions (0: unlimited)"`
	Seed       uint64 `flag:"seed" usage:"seed of the random number generator (default: time based)"`
	StackLimit int    `flag:"stack" usage:"maximum call stack depth (0: unlimited)"`
	Scale      int    `flag:"scale" usage:"window scale factor" default:"10"`
	Mute       bool   `flag:"mute" usage:"disable sound output"`
	Trace      bool   `flag:"trace" usage:"log every executed instruction"`
	Debug      bool   `flag:"debug" usage:"enable debug logging"`
	Quiet      bool   `flag:"q" usage:"quiet mode"`

	FixedSeed bool // set when a seed was given, including 0
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
}

// Emulator defines options to control the emulated machine.
type Emulator struct {
	Seed       uint64 // seed of the random number generator
	FixedSeed  bool   // use Seed even if it is 0, otherwise 0 seeds from the clock
	StackLimit int    // maximum call stack depth, 0 is unbounded
	Trace      bool   // log every executed instruction at debug level
}

// NewEmulator returns the emulator options derived from the program options.
func NewEmulator(opts Program) Emulator {
	return Emulator{
		Seed:       opts.Seed,
		FixedSeed:  opts.FixedSeed,
		StackLimit: opts.StackLimit,
		Trace:      opts.Trace,
	}
}
