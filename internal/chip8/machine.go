package chip8

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Machine is a CHIP-8 virtual machine. It owns the machine state and the
// interpreter and drives them one instruction per cycle.
// A Machine is not safe for concurrent use.
type Machine struct {
	logger  *log.Logger
	options options.Emulator

	state       *State
	interpreter *Interpreter

	halted error // fatal error that stopped the machine
}

// New returns a freshly initialized machine. Unless a seed is configured,
// the random number generator is seeded from the current time. A zero seed
// counts as configured only if FixedSeed is set.
func New(logger *log.Logger, opts options.Emulator) *Machine {
	seed := opts.Seed
	if seed == 0 && !opts.FixedSeed {
		seed = timeSeed()
	}

	return &Machine{
		logger:      logger,
		options:     opts,
		state:       NewState(),
		interpreter: NewInterpreter(NewRandomSource(seed), opts.StackLimit),
	}
}

// SetRandomSource replaces the source of bytes for the random instruction.
func (m *Machine) SetRandomSource(random RandomSource) {
	m.interpreter.random = random
}

// State returns the machine state. It is intended for hosts that need to
// inspect registers or memory, the state must not be modified while the
// machine is cycling.
func (m *Machine) State() *State {
	return m.state
}

// Reset restores the state that the machine had after construction and
// clears a halt. The random source and options are kept.
func (m *Machine) Reset() {
	m.state.reset()
	m.halted = nil
}

// Load copies a program image into memory starting at the base address.
// The content of the image is not validated.
func (m *Machine) Load(image []byte, base uint16) error {
	if int(base)+len(image) > MemorySize {
		return fmt.Errorf("%w: %d bytes at address %03X", ErrImageTooLarge, len(image), base)
	}
	copy(m.state.Memory[base:], image)
	return nil
}

// SetKey sets the pressed state of a key of the key panel.
func (m *Machine) SetKey(index int, pressed bool) error {
	if index < 0 || index >= KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, index)
	}
	m.state.Keys[index] = pressed
	return nil
}

// Cycle fetches the instruction at the program counter, executes it and
// decrements the timers. After an instruction failed, the machine is halted
// and every further cycle returns ErrHalted until Reset is called.
func (m *Machine) Cycle() error {
	if m.halted != nil {
		return fmt.Errorf("%w: %w", ErrHalted, m.halted)
	}

	s := m.state
	pc := s.PC
	word := decodeWord(s.Read(pc), s.Read(pc+1))
	s.PC += opcodeSize

	ins := Decode(word)
	if m.options.Trace {
		m.trace(pc, ins)
	}

	if err := m.interpreter.Execute(s, ins); err != nil {
		m.halted = fmt.Errorf("executing %s at %03X: %w", ins, pc, err)
		m.logger.Error("Machine halted",
			log.Hex("address", pc),
			log.Hex("opcode", word),
			log.Err(err))
		return m.halted
	}

	if s.DelayTimer > 0 {
		s.DelayTimer--
	}
	if s.SoundTimer > 0 {
		s.SoundTimer--
	}
	return nil
}

// Halted returns the error that halted the machine or nil if it is running.
func (m *Machine) Halted() error {
	return m.halted
}

// FrameBuffer returns a snapshot of the display.
func (m *Machine) FrameBuffer() FrameBuffer {
	return m.state.Display
}

// FrameChanged returns whether the display was cleared or drawn to since the
// last call.
func (m *Machine) FrameChanged() bool {
	changed := m.state.DisplayDirty
	m.state.DisplayDirty = false
	return changed
}

// SoundTimer returns the current value of the sound timer. A tone should be
// played while it is nonzero.
func (m *Machine) SoundTimer() uint8 {
	return m.state.SoundTimer
}

// DelayTimer returns the current value of the delay timer.
func (m *Machine) DelayTimer() uint8 {
	return m.state.DelayTimer
}
