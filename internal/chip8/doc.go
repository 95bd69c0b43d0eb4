// Package chip8 implements a CHIP-8 virtual machine.
//
// # Machine Overview
//
// CHIP-8 is an interpreted programming language developed in the 1970s for
// simple games on early microcomputers. The virtual machine consists of:
//   - 4KB of memory, programs are loaded at ProgramStart (0x200)
//   - 16 general-purpose 8-bit registers (V0-VF), VF doubles as flag register
//   - a 16-bit index register I and a program counter
//   - a call stack of return addresses
//   - delay and sound timers, decremented once per cycle
//   - a 64x32 monochrome frame buffer
//   - a hexadecimal key panel with 16 keys
//
// # Components
//
// State holds all mutable data. The Interpreter decodes an instruction word
// into an Instruction and applies the matching opcode handler to a State.
// Machine is the cycle driver: it fetches the instruction at the program
// counter, advances the counter, executes the instruction and then
// decrements the timers.
//
// # Addressing
//
// All memory accesses wrap around at MemorySize, so an index register that
// was moved past the end of memory by an add continues at address 0.
//
// # Usage Example
//
//	m := chip8.New(logger, options.Emulator{Seed: 1})
//	if err := m.Load(image, chip8.ProgramStart); err != nil {
//		return err
//	}
//	for {
//		if err := m.Cycle(); err != nil {
//			return err
//		}
//	}
//
// The machine performs no I/O itself. Rendering the frame buffer, setting
// key states, producing a tone while the sound timer is nonzero and pacing
// the cycles are the responsibility of the host.
package chip8
