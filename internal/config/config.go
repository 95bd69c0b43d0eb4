// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings.
// Instruction tracing is logged at debug level and therefore enables it.
func CreateLogger(opts options.Program) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case opts.Debug, opts.Trace:
		cfg.Level = log.DebugLevel
	case opts.Quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CyclesPerFrame returns the number of instructions to execute for every
// frame of the given rate, executing at least one instruction per frame.
func CyclesPerFrame(clock, framesPerSecond int) int {
	if framesPerSecond <= 0 {
		return clock
	}
	cycles := clock / framesPerSecond
	if cycles < 1 {
		return 1
	}
	return cycles
}
