// Package app provides the main application helpers of the emulator.
package app

import (
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// Name of the application.
const Name = "retrochip8"

// PrintBanner prints the application version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info(Name, log.String("version", buildinfo.Version(version, commit, date)))
}

// PrintInfo prints the information about the loaded program.
func PrintInfo(logger *log.Logger, opts options.Program, format string, imageSize int) {
	if opts.Quiet {
		return
	}

	logger.Info("Loaded program",
		log.String("file", opts.Input),
		log.String("format", format),
		log.Int("size", imageSize),
		log.String("frontend", opts.Frontend))
}
