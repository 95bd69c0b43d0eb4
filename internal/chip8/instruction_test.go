package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		word     uint16
		expected Instruction
	}{
		{"zero word", 0x0000, Instruction{}},
		{"all bits set", 0xFFFF, Instruction{Word: 0xFFFF, Group: 0xF, X: 0xF, Y: 0xF, N: 0xF, NN: 0xFF, NNN: 0xFFF}},
		{"draw", 0xD123, Instruction{Word: 0xD123, Group: 0xD, X: 0x1, Y: 0x2, N: 0x3, NN: 0x23, NNN: 0x123}},
		{"load immediate", 0x6A55, Instruction{Word: 0x6A55, Group: 0x6, X: 0xA, Y: 0x5, N: 0x5, NN: 0x55, NNN: 0xA55}},
		{"jump", 0x1ABC, Instruction{Word: 0x1ABC, Group: 0x1, X: 0xA, Y: 0xB, N: 0xC, NN: 0xBC, NNN: 0xABC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Decode(tt.word))
		})
	}
}

func TestDecode_AllWords(t *testing.T) {
	for w := range 0x10000 {
		word := uint16(w)
		ins := Decode(word)

		rebuilt := uint16(ins.Group)<<12 | uint16(ins.X)<<8 | uint16(ins.Y)<<4 | uint16(ins.N)
		if rebuilt != word {
			t.Fatalf("decoding %04X rebuilt as %04X", word, rebuilt)
		}
		if ins.NN != uint8(word) || ins.NNN != word&0x0FFF {
			t.Fatalf("decoding %04X returned wrong immediates %02X %03X", word, ins.NN, ins.NNN)
		}
	}
}

func TestInstruction_String(t *testing.T) {
	assert.Equal(t, "00E0", Decode(0x00E0).String())
	assert.Equal(t, "F165", Decode(0xF165).String())
}
