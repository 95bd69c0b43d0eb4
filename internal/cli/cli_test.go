package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func parseArgs(t *testing.T, args ...string) (options.Program, options.Emulator, error) {
	t.Helper()
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = append([]string{"prog"}, args...)
	return ParseFlags()
}

func TestParseFlags_Defaults(t *testing.T) {
	opts, emulator, err := parseArgs(t, "game.ch8")
	assert.NoError(t, err)

	assert.Equal(t, "game.ch8", opts.Input)
	assert.Equal(t, options.FrontendWindow, opts.Frontend)
	assert.Equal(t, options.DefaultClock, opts.Clock)
	assert.Equal(t, options.DefaultScale, opts.Scale)
	assert.Equal(t, uint64(0), opts.Cycles)
	assert.Equal(t, options.Emulator{}, emulator)
}

func TestParseFlags_EmulatorOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Emulator
	}{
		{
			name: "seed flag",
			args: []string{"-seed", "42", "game.ch8"},
			want: options.Emulator{Seed: 42, FixedSeed: true},
		},
		{
			name: "zero seed flag",
			args: []string{"-seed", "0", "game.ch8"},
			want: options.Emulator{FixedSeed: true},
		},
		{
			name: "stack flag",
			args: []string{"-stack", "16", "game.ch8"},
			want: options.Emulator{StackLimit: 16},
		},
		{
			name: "trace flag",
			args: []string{"-trace", "game.ch8"},
			want: options.Emulator{Trace: true},
		},
		{
			name: "all emulator flags",
			args: []string{"-seed", "7", "-stack", "12", "-trace", "game.ch8"},
			want: options.Emulator{Seed: 7, FixedSeed: true, StackLimit: 12, Trace: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got, err := parseArgs(t, tt.args...)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlags_Normalization(t *testing.T) {
	opts, _, err := parseArgs(t, "-ui", "Headless", "-format", "ASM", "-s", "CHIP8", "-cycles", "100", "prog.asm")
	assert.NoError(t, err)
	assert.Equal(t, options.FrontendHeadless, opts.Frontend)
	assert.Equal(t, options.FormatAssembly, opts.Format)
	assert.Equal(t, "chip8", opts.System)
	assert.Equal(t, uint64(100), opts.Cycles)
}

func TestParseFlags_InputFlag(t *testing.T) {
	opts, _, err := parseArgs(t, "-i", "game.ch8")
	assert.NoError(t, err)
	assert.Equal(t, "game.ch8", opts.Input)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		usageError bool
		errContain string
	}{
		{"no input", nil, true, ""},
		{"unknown flag", []string{"-unknown", "game.ch8"}, true, ""},
		{"listing flag", []string{"-list", "game.ch8"}, true, ""},
		{"flag after file", []string{"game.ch8", "-q"}, true, "found after file"},
		{"multiple files", []string{"a.ch8", "b.ch8"}, true, "single file"},
		{"invalid frontend", []string{"-ui", "vr", "game.ch8"}, false, "unsupported frontend"},
		{"invalid format", []string{"-format", "elf", "game.ch8"}, false, "unsupported input format"},
		{"invalid clock", []string{"-hz", "0", "game.ch8"}, false, "invalid clock"},
		{"invalid scale", []string{"-scale", "-1", "game.ch8"}, false, "invalid scale"},
		{"invalid stack", []string{"-stack", "-1", "game.ch8"}, false, "invalid stack"},
		{"trace and quiet", []string{"-trace", "-q", "game.ch8"}, false, "-trace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseArgs(t, tt.args...)
			assert.Error(t, err)

			var usageErr *UsageError
			assert.Equal(t, tt.usageError, errors.As(err, &usageErr))
			if tt.errContain != "" {
				assert.ErrorContains(t, err, tt.errContain)
			}
		})
	}
}

func TestValidateOptionCombinations(t *testing.T) {
	tests := []struct {
		name        string
		opts        options.Program
		expectError bool
	}{
		{
			name:        "no conflict",
			opts:        options.Program{},
			expectError: false,
		},
		{
			name:        "trace only",
			opts:        options.Program{Flags: options.Flags{Trace: true}},
			expectError: false,
		},
		{
			name:        "trace and debug",
			opts:        options.Program{Flags: options.Flags{Trace: true, Debug: true}},
			expectError: false,
		},
		{
			name:        "trace and quiet conflict",
			opts:        options.Program{Flags: options.Flags{Trace: true, Quiet: true}},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOptionCombinations(tt.opts)
			if tt.expectError {
				assert.True(t, err != nil)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
