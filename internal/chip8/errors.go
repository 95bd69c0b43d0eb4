package chip8

import "errors"

// Errors returned by the machine. Callers should compare using errors.Is,
// as returned errors are wrapped with the failing address and opcode.
var (
	// ErrStackUnderflow is returned when a return executes on an empty call stack.
	ErrStackUnderflow = errors.New("call stack underflow")

	// ErrStackOverflow is returned when a call executes while the call stack
	// holds the configured maximum number of return addresses.
	ErrStackOverflow = errors.New("call stack overflow")

	// ErrInvalidKey is returned when a key index outside of 0-F is set.
	ErrInvalidKey = errors.New("invalid key index")

	// ErrImageTooLarge is returned when a program image does not fit into
	// memory at the requested base address.
	ErrImageTooLarge = errors.New("program image does not fit into memory")

	// ErrHalted is returned by cycles executed after a fatal error.
	ErrHalted = errors.New("machine is halted")
)
