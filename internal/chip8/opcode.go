package chip8

import (
	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// execFunc applies a decoded instruction to the machine state.
type execFunc func(ip *Interpreter, s *State, ins Instruction) error

// Opcode describes one instruction encoding. An instruction word matches the
// opcode when the bits selected by Mask equal Value.
type Opcode struct {
	Mask  uint16
	Value uint16

	ins    *chip8cpu.Instruction
	exec   execFunc
	syntax string // operand template of the trace log
}

// Name returns the mnemonic of the opcode.
func (o Opcode) Name() string {
	if o.ins == nil {
		return ""
	}
	return o.ins.Name
}

// Instruction returns the instruction descriptor of the opcode.
func (o Opcode) Instruction() *chip8cpu.Instruction {
	return o.ins
}

// Matches returns whether the instruction word is an encoding of the opcode.
func (o Opcode) Matches(word uint16) bool {
	return word&o.Mask == o.Value
}

// Masks used for the opcode groups. Group 0 only contains exact encodings,
// group 8 selects by the low nibble and groups E and F by the low byte.
const (
	exactMask    = 0xFFFF
	groupMask    = 0xF000
	lowNibble    = 0xF00F
	lowByteMask  = 0xF0FF
	opcodeGroups = 16
)

// opcodes contains all supported opcodes, indexed by the top nibble of
// the instruction word.
var opcodes = [opcodeGroups][]Opcode{
	0x0: {
		{Mask: exactMask, Value: 0x00E0, ins: chip8cpu.Cls, exec: clearScreen},
		{Mask: exactMask, Value: 0x00EE, ins: chip8cpu.Ret, exec: returnFromSubroutine},
	},
	0x1: {{Mask: groupMask, Value: 0x1000, ins: chip8cpu.Jp, exec: jump, syntax: "${nnn}"}},
	0x2: {{Mask: groupMask, Value: 0x2000, ins: chip8cpu.Call, exec: call, syntax: "${nnn}"}},
	0x3: {{Mask: groupMask, Value: 0x3000, ins: chip8cpu.Se, exec: skipEqualImmediate, syntax: "V{x}, ${nn}"}},
	0x4: {{Mask: groupMask, Value: 0x4000, ins: chip8cpu.Sne, exec: skipNotEqualImmediate, syntax: "V{x}, ${nn}"}},
	0x5: {{Mask: groupMask, Value: 0x5000, ins: chip8cpu.Se, exec: skipEqualRegister, syntax: "V{x}, V{y}"}},
	0x6: {{Mask: groupMask, Value: 0x6000, ins: chip8cpu.Ld, exec: loadImmediate, syntax: "V{x}, ${nn}"}},
	0x7: {{Mask: groupMask, Value: 0x7000, ins: chip8cpu.Add, exec: addImmediate, syntax: "V{x}, ${nn}"}},
	0x8: {
		{Mask: lowNibble, Value: 0x8000, ins: chip8cpu.Ld, exec: copyRegister, syntax: "V{x}, V{y}"},
		{Mask: lowNibble, Value: 0x8001, ins: chip8cpu.Or, exec: or, syntax: "V{x}, V{y}"},
		{Mask: lowNibble, Value: 0x8002, ins: chip8cpu.And, exec: and, syntax: "V{x}, V{y}"},
		{Mask: lowNibble, Value: 0x8003, ins: chip8cpu.Xor, exec: xor, syntax: "V{x}, V{y}"},
		{Mask: lowNibble, Value: 0x8004, ins: chip8cpu.Add, exec: addRegister, syntax: "V{x}, V{y}"},
		{Mask: lowNibble, Value: 0x8005, ins: chip8cpu.Sub, exec: subtract, syntax: "V{x}, V{y}"},
		{Mask: lowNibble, Value: 0x8006, ins: chip8cpu.Shr, exec: shiftRight, syntax: "V{x}, V{y}"},
		{Mask: lowNibble, Value: 0x8007, ins: chip8cpu.Subn, exec: subtractReverse, syntax: "V{x}, V{y}"},
		{Mask: lowNibble, Value: 0x800E, ins: chip8cpu.Shl, exec: shiftLeft, syntax: "V{x}, V{y}"},
	},
	0x9: {{Mask: groupMask, Value: 0x9000, ins: chip8cpu.Sne, exec: skipNotEqualRegister, syntax: "V{x}, V{y}"}},
	0xA: {{Mask: groupMask, Value: 0xA000, ins: chip8cpu.Ld, exec: loadIndex, syntax: "I, ${nnn}"}},
	0xB: {{Mask: groupMask, Value: 0xB000, ins: chip8cpu.Jp, exec: jumpOffset, syntax: "V0, ${nnn}"}},
	0xC: {{Mask: groupMask, Value: 0xC000, ins: chip8cpu.Rnd, exec: randomAnd, syntax: "V{x}, ${nn}"}},
	0xD: {{Mask: groupMask, Value: 0xD000, ins: chip8cpu.Drw, exec: draw, syntax: "V{x}, V{y}, {n}"}},
	0xE: {
		{Mask: lowByteMask, Value: 0xE09E, ins: chip8cpu.Skp, exec: skipKeyPressed, syntax: "V{x}"},
		{Mask: lowByteMask, Value: 0xE0A1, ins: chip8cpu.Sknp, exec: skipKeyReleased, syntax: "V{x}"},
	},
	0xF: {
		{Mask: lowByteMask, Value: 0xF007, ins: chip8cpu.Ld, exec: readDelayTimer, syntax: "V{x}, DT"},
		{Mask: lowByteMask, Value: 0xF00A, ins: chip8cpu.Ld, exec: awaitKey, syntax: "V{x}, K"},
		{Mask: lowByteMask, Value: 0xF015, ins: chip8cpu.Ld, exec: writeDelayTimer, syntax: "DT, V{x}"},
		{Mask: lowByteMask, Value: 0xF018, ins: chip8cpu.Ld, exec: writeSoundTimer, syntax: "ST, V{x}"},
		{Mask: lowByteMask, Value: 0xF01E, ins: chip8cpu.Add, exec: addIndex, syntax: "I, V{x}"},
		{Mask: lowByteMask, Value: 0xF029, ins: chip8cpu.Ld, exec: fontAddress, syntax: "F, V{x}"},
		{Mask: lowByteMask, Value: 0xF033, ins: chip8cpu.Ld, exec: storeBCD, syntax: "B, V{x}"},
		{Mask: lowByteMask, Value: 0xF055, ins: chip8cpu.Ld, exec: storeRegisters, syntax: "[I], V{x}"},
		{Mask: lowByteMask, Value: 0xF065, ins: chip8cpu.Ld, exec: loadRegisters, syntax: "V{x}, [I]"},
	},
}

// Lookup returns the opcode that the instruction word is an encoding of.
// Words that do not match any opcode return false.
func Lookup(word uint16) (Opcode, bool) {
	for _, op := range opcodes[word>>12] {
		if op.Matches(word) {
			return op, true
		}
	}
	return Opcode{}, false
}
