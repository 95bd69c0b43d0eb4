package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// fixedRandom returns the same byte for every request.
type fixedRandom uint8

func (f fixedRandom) Byte() uint8 {
	return uint8(f)
}

func execute(t *testing.T, s *State, word uint16) {
	t.Helper()
	ip := NewInterpreter(fixedRandom(0x42), 0)
	assert.NoError(t, ip.Execute(s, Decode(word)))
}

func TestExecute_AddRegister(t *testing.T) {
	for a := range 256 {
		for b := range 256 {
			s := NewState()
			s.V[1] = uint8(a)
			s.V[2] = uint8(b)
			execute(t, s, 0x8124)

			sum := a + b
			if s.V[1] != uint8(sum) {
				t.Fatalf("%d + %d: expected %d, got %d", a, b, uint8(sum), s.V[1])
			}
			if s.V[FlagRegister] != boolToFlag(sum > 255) {
				t.Fatalf("%d + %d: expected carry %v, got %d", a, b, sum > 255, s.V[FlagRegister])
			}
		}
	}
}

func TestExecute_Subtract(t *testing.T) {
	for a := range 256 {
		for b := range 256 {
			s := NewState()
			s.V[3] = uint8(a)
			s.V[4] = uint8(b)
			execute(t, s, 0x8345)

			if s.V[3] != uint8(a-b) {
				t.Fatalf("%d - %d: expected %d, got %d", a, b, uint8(a-b), s.V[3])
			}
			if s.V[FlagRegister] != boolToFlag(a >= b) {
				t.Fatalf("%d - %d: expected no borrow flag %v, got %d", a, b, a >= b, s.V[FlagRegister])
			}
		}
	}
}

func TestExecute_SubtractReverse(t *testing.T) {
	tests := []struct {
		name     string
		vx, vy   uint8
		expected uint8
		flag     uint8
	}{
		{"no borrow", 0x10, 0x30, 0x20, 1},
		{"equal", 0x30, 0x30, 0x00, 1},
		{"borrow", 0x30, 0x10, 0xE0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.V[1] = tt.vx
			s.V[2] = tt.vy
			execute(t, s, 0x8127)
			assert.Equal(t, tt.expected, s.V[1])
			assert.Equal(t, tt.flag, s.V[FlagRegister])
		})
	}
}

func TestExecute_Shifts(t *testing.T) {
	for v := range 256 {
		s := NewState()
		s.V[5] = uint8(v)
		execute(t, s, 0x8506)
		if s.V[5] != uint8(v)>>1 || s.V[FlagRegister] != uint8(v)&1 {
			t.Fatalf("shift right %02X: got %02X flag %d", v, s.V[5], s.V[FlagRegister])
		}

		s = NewState()
		s.V[5] = uint8(v)
		execute(t, s, 0x850E)
		if s.V[5] != uint8(v)<<1 || s.V[FlagRegister] != uint8(v)>>7 {
			t.Fatalf("shift left %02X: got %02X flag %d", v, s.V[5], s.V[FlagRegister])
		}
	}
}

func TestExecute_FlagRegisterAsOperand(t *testing.T) {
	s := NewState()
	s.V[FlagRegister] = 0xFF
	s.V[1] = 0x02
	execute(t, s, 0x8F14)
	assert.Equal(t, uint8(0x01), s.V[FlagRegister])

	s = NewState()
	s.V[FlagRegister] = 0x81
	execute(t, s, 0x8F06)
	assert.Equal(t, uint8(0x40), s.V[FlagRegister])
}

func TestExecute_Logic(t *testing.T) {
	tests := []struct {
		name     string
		word     uint16
		expected uint8
	}{
		{"copy", 0x8120, 0x3C},
		{"or", 0x8121, 0xFC},
		{"and", 0x8122, 0x0C},
		{"xor", 0x8123, 0xF0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.V[1] = 0xCC
			s.V[2] = 0x3C
			s.V[FlagRegister] = 0x07
			execute(t, s, tt.word)
			assert.Equal(t, tt.expected, s.V[1])
			assert.Equal(t, uint8(0x3C), s.V[2])
			assert.Equal(t, uint8(0x07), s.V[FlagRegister])
		})
	}
}

func TestExecute_Immediates(t *testing.T) {
	s := NewState()
	execute(t, s, 0x6155)
	assert.Equal(t, uint8(0x55), s.V[1])

	execute(t, s, 0x71F0)
	assert.Equal(t, uint8(0x45), s.V[1])
	assert.Equal(t, uint8(0), s.V[FlagRegister])

	execute(t, s, 0xA123)
	assert.Equal(t, uint16(0x123), s.I)
}

func TestExecute_Skips(t *testing.T) {
	tests := []struct {
		name    string
		word    uint16
		vx, vy  uint8
		skipped bool
	}{
		{"skip equal immediate taken", 0x3155, 0x55, 0, true},
		{"skip equal immediate not taken", 0x3155, 0x54, 0, false},
		{"skip not equal immediate taken", 0x4144, 0x55, 0, true},
		{"skip not equal immediate not taken", 0x4155, 0x55, 0, false},
		{"skip equal register taken", 0x5120, 0x55, 0x55, true},
		{"skip equal register not taken", 0x5120, 0x55, 0x56, false},
		{"skip not equal register taken", 0x9120, 0x55, 0x56, true},
		{"skip not equal register not taken", 0x9120, 0x55, 0x55, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.PC = 0x200
			s.V[1] = tt.vx
			s.V[2] = tt.vy
			execute(t, s, tt.word)

			expected := uint16(0x200)
			if tt.skipped {
				expected += 2
			}
			assert.Equal(t, expected, s.PC)
		})
	}
}

func TestExecute_Keys(t *testing.T) {
	tests := []struct {
		name    string
		word    uint16
		pressed bool
		skipped bool
	}{
		{"skip pressed with key down", 0xE39E, true, true},
		{"skip pressed with key up", 0xE39E, false, false},
		{"skip released with key down", 0xE3A1, true, false},
		{"skip released with key up", 0xE3A1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.V[3] = 0xB
			s.Keys[0xB] = tt.pressed
			execute(t, s, tt.word)

			expected := uint16(ProgramStart)
			if tt.skipped {
				expected += 2
			}
			assert.Equal(t, expected, s.PC)
		})
	}
}

func TestExecute_ControlFlow(t *testing.T) {
	s := NewState()
	execute(t, s, 0x1ABC)
	assert.Equal(t, uint16(0xABC), s.PC)

	s.V[0] = 0x10
	execute(t, s, 0xB300)
	assert.Equal(t, uint16(0x310), s.PC)

	s.PC = 0x250
	execute(t, s, 0x2ABC)
	assert.Equal(t, uint16(0xABC), s.PC)
	assert.Len(t, s.Stack, 1)
	assert.Equal(t, uint16(0x250), s.Stack[0])

	execute(t, s, 0x00EE)
	assert.Equal(t, uint16(0x250), s.PC)
	assert.Empty(t, s.Stack)
}

func TestExecute_ReturnOnEmptyStack(t *testing.T) {
	s := NewState()
	ip := NewInterpreter(fixedRandom(0), 0)
	err := ip.Execute(s, Decode(0x00EE))
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint16(ProgramStart), s.PC)
}

func TestExecute_StackLimit(t *testing.T) {
	s := NewState()
	ip := NewInterpreter(fixedRandom(0), 2)
	assert.NoError(t, ip.Execute(s, Decode(0x2300)))
	assert.NoError(t, ip.Execute(s, Decode(0x2400)))

	err := ip.Execute(s, Decode(0x2500))
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Len(t, s.Stack, 2)
	assert.Equal(t, uint16(0x400), s.PC)
}

func TestExecute_UnboundedStack(t *testing.T) {
	s := NewState()
	for range 1000 {
		execute(t, s, 0x2300)
	}
	assert.Len(t, s.Stack, 1000)
}

func TestExecute_Random(t *testing.T) {
	s := NewState()
	ip := NewInterpreter(fixedRandom(0xA5), 0)
	assert.NoError(t, ip.Execute(s, Decode(0xC10F)))
	assert.Equal(t, uint8(0x05), s.V[1])

	seeded := func() []uint8 {
		state := NewState()
		ip := NewInterpreter(NewRandomSource(1234), 0)
		var values []uint8
		for range 16 {
			assert.NoError(t, ip.Execute(state, Decode(0xC2FF)))
			values = append(values, state.V[2])
		}
		return values
	}
	assert.Equal(t, seeded(), seeded())
}

func TestExecute_ClearScreen(t *testing.T) {
	s := NewState()
	for y := range s.Display {
		for x := range s.Display[y] {
			s.Display[y][x] = (x+y)%3 == 0
		}
	}

	execute(t, s, 0x00E0)
	assert.Equal(t, 0, s.Display.Lit())
	assert.True(t, s.DisplayDirty)
}

func TestExecute_Draw(t *testing.T) {
	t.Run("draws and detects collision", func(t *testing.T) {
		s := NewState()
		s.I = 0x300
		s.Memory[0x300] = 0xF0
		s.Memory[0x301] = 0x90
		s.V[1] = 2
		s.V[2] = 3

		execute(t, s, 0xD122)
		assert.Equal(t, uint8(0), s.V[FlagRegister])
		assert.Equal(t, 6, s.Display.Lit())
		assert.True(t, s.Display.Pixel(2, 3))
		assert.True(t, s.Display.Pixel(5, 3))
		assert.False(t, s.Display.Pixel(6, 3))
		assert.True(t, s.Display.Pixel(2, 4))
		assert.False(t, s.Display.Pixel(3, 4))

		execute(t, s, 0xD122)
		assert.Equal(t, uint8(1), s.V[FlagRegister])
		assert.Equal(t, 0, s.Display.Lit())
	})

	t.Run("wraps the origin", func(t *testing.T) {
		s := NewState()
		s.I = 0x300
		s.Memory[0x300] = 0x80
		s.V[1] = DisplayWidth + 1
		s.V[2] = DisplayHeight + 2

		execute(t, s, 0xD121)
		assert.True(t, s.Display.Pixel(1, 2))
		assert.Equal(t, 1, s.Display.Lit())
	})

	t.Run("clips at the right edge", func(t *testing.T) {
		s := NewState()
		s.I = 0x300
		s.Memory[0x300] = 0xFF
		s.V[1] = DisplayWidth - 3
		s.V[2] = 0

		execute(t, s, 0xD121)
		assert.Equal(t, 3, s.Display.Lit())
		assert.False(t, s.Display.Pixel(0, 0))
		assert.True(t, s.Display.Pixel(DisplayWidth-1, 0))
	})

	t.Run("clips at the bottom edge", func(t *testing.T) {
		s := NewState()
		s.I = 0x300
		for i := range 15 {
			s.Memory[0x300+i] = 0x80
		}
		s.V[1] = 0
		s.V[2] = DisplayHeight - 2

		execute(t, s, 0xD12F)
		assert.Equal(t, 2, s.Display.Lit())
		assert.False(t, s.Display.Pixel(0, 0))
	})

	t.Run("collision flag stays set", func(t *testing.T) {
		s := NewState()
		s.I = 0x300
		s.Memory[0x300] = 0xC0
		s.Display[0][0] = true
		s.V[FlagRegister] = 0

		execute(t, s, 0xD011)
		assert.Equal(t, uint8(1), s.V[FlagRegister])
		assert.False(t, s.Display.Pixel(0, 0))
		assert.True(t, s.Display.Pixel(1, 0))
	})

	t.Run("zero rows resets the flag", func(t *testing.T) {
		s := NewState()
		s.V[FlagRegister] = 1
		execute(t, s, 0xD120)
		assert.Equal(t, uint8(0), s.V[FlagRegister])
		assert.Equal(t, 0, s.Display.Lit())
	})
}

func TestExecute_AwaitKey(t *testing.T) {
	s := NewState()
	s.PC = 0x202 // already advanced past the instruction
	execute(t, s, 0xF50A)
	assert.Equal(t, uint16(0x200), s.PC)

	s.PC = 0x202
	s.Keys[0x9] = true
	s.Keys[0x4] = true
	execute(t, s, 0xF50A)
	assert.Equal(t, uint16(0x202), s.PC)
	assert.Equal(t, uint8(0x4), s.V[5])
}

func TestExecute_Timers(t *testing.T) {
	s := NewState()
	s.V[1] = 0x30
	execute(t, s, 0xF115)
	execute(t, s, 0xF118)
	assert.Equal(t, uint8(0x30), s.DelayTimer)
	assert.Equal(t, uint8(0x30), s.SoundTimer)

	s.DelayTimer = 0x12
	execute(t, s, 0xF207)
	assert.Equal(t, uint8(0x12), s.V[2])
}

func TestExecute_Index(t *testing.T) {
	s := NewState()
	s.I = 0xFF0
	s.V[1] = 0x20
	execute(t, s, 0xF11E)
	assert.Equal(t, uint16(0x1010), s.I)
	assert.Equal(t, uint8(0), s.V[FlagRegister])

	s.V[2] = 0xA
	execute(t, s, 0xF229)
	assert.Equal(t, uint16(FontBase+50), s.I)
	assert.Equal(t, uint8(0xF0), s.Read(s.I))
}

func TestExecute_StoreBCD(t *testing.T) {
	tests := []struct {
		value    uint8
		expected []byte
	}{
		{123, []byte{1, 2, 3}},
		{0, []byte{0, 0, 0}},
		{255, []byte{2, 5, 5}},
		{7, []byte{0, 0, 7}},
	}

	for _, tt := range tests {
		s := NewState()
		s.I = 0x300
		s.V[6] = tt.value
		execute(t, s, 0xF633)
		assert.Equal(t, tt.expected, s.Memory[0x300:0x303])
		assert.Equal(t, uint16(0x300), s.I)
	}
}

func TestExecute_RegisterBlocks(t *testing.T) {
	for k := range RegisterCount {
		s := NewState()
		s.I = 0x400
		for i := range s.V {
			s.V[i] = uint8(0x10*i + 3)
		}
		original := s.V

		execute(t, s, 0xF055|uint16(k)<<8)
		assert.Equal(t, uint16(0x400), s.I)
		if k < RegisterCount-1 {
			assert.Equal(t, byte(0), s.Memory[0x400+k+1])
		}

		s.V = [RegisterCount]uint8{}
		execute(t, s, 0xF065|uint16(k)<<8)
		for i := 0; i <= k; i++ {
			assert.Equal(t, original[i], s.V[i])
		}
		for i := k + 1; i < RegisterCount; i++ {
			assert.Equal(t, uint8(0), s.V[i])
		}
	}
}

func TestExecute_AddressWrapping(t *testing.T) {
	s := NewState()
	s.I = 0xFFE
	s.V[0], s.V[1], s.V[2] = 1, 2, 3
	execute(t, s, 0xF255)
	assert.Equal(t, byte(1), s.Memory[0xFFE])
	assert.Equal(t, byte(2), s.Memory[0xFFF])
	assert.Equal(t, byte(3), s.Memory[0x000])

	s.V = [RegisterCount]uint8{}
	s.I = 0x1FFE
	execute(t, s, 0xF265)
	assert.Equal(t, uint8(1), s.V[0])
	assert.Equal(t, uint8(2), s.V[1])
	assert.Equal(t, uint8(3), s.V[2])
}

func TestExecute_UnknownOpcodeIsIgnored(t *testing.T) {
	for _, word := range []uint16{0x0000, 0x0123, 0x8008, 0x800F, 0xE000, 0xF0FF} {
		s := NewState()
		s.V[1] = 0x11
		before := *s
		execute(t, s, word)
		assert.Equal(t, before.V, s.V)
		assert.Equal(t, before.PC, s.PC)
		assert.Equal(t, before.I, s.I)
		assert.Equal(t, before.Memory, s.Memory)
	}
}
