package chip8

import "fmt"

// opcodeSize is the size of CHIP-8 instructions in bytes.
const opcodeSize = 2

// Instruction is a decoded CHIP-8 instruction word with all of its
// operand fields extracted.
type Instruction struct {
	Word  uint16 // full instruction word
	Group uint8  // top nibble, selects the opcode group
	X     uint8  // register index in bits 8-11
	Y     uint8  // register index in bits 4-7
	N     uint8  // low nibble
	NN    uint8  // low byte
	NNN   uint16 // low 12 bits, an address
}

// Decode extracts the operand fields of an instruction word.
// Every possible word decodes successfully.
func Decode(word uint16) Instruction {
	return Instruction{
		Word:  word,
		Group: uint8(word >> 12),
		X:     uint8(word>>8) & 0x0F,
		Y:     uint8(word>>4) & 0x0F,
		N:     uint8(word) & 0x0F,
		NN:    uint8(word),
		NNN:   word & 0x0FFF,
	}
}

// String returns the instruction word as 4 hex digits.
func (i Instruction) String() string {
	return fmt.Sprintf("%04X", i.Word)
}

// decodeWord combines the two bytes of an instruction into a word.
func decodeWord(high, low byte) uint16 {
	return uint16(high)<<8 | uint16(low)
}
