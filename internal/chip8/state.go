package chip8

// CHIP-8 memory layout and hardware constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x04F: Interpreter area
//	0x050-0x09F: Hexadecimal glyph table (16 glyphs, 5 bytes each)
//	0x0A0-0x1FF: Interpreter area
//	0x200-0xFFF: User program space
//
// The display buffer (64x32 pixels) and the call stack are maintained
// separately from the 4KB main memory address space.
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000

	// ProgramStart is the memory address where CHIP-8 programs are loaded
	// and where execution begins.
	ProgramStart = 0x200

	// FontBase is the memory address of the first glyph of the glyph table.
	FontBase = 0x50

	// GlyphSize is the number of bytes of a single glyph sprite.
	GlyphSize = 5

	// DisplayWidth is the width of the frame buffer in pixels.
	DisplayWidth = 64

	// DisplayHeight is the height of the frame buffer in pixels.
	DisplayHeight = 32

	// RegisterCount is the number of general purpose registers V0-VF.
	RegisterCount = 16

	// KeyCount is the number of keys of the hexadecimal key panel.
	KeyCount = 16

	// FlagRegister is the index of the register that receives carry,
	// borrow, shifted out bits and draw collisions.
	FlagRegister = 0xF

	addressMask = MemorySize - 1
)

// glyphs contains the sprites for the hexadecimal digits 0-F.
var glyphs = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// FrameBuffer is the monochrome display, indexed by row and then column.
type FrameBuffer [DisplayHeight][DisplayWidth]bool

// Pixel returns whether the pixel at the given position is lit.
// Positions outside of the display are reported as unlit.
func (f *FrameBuffer) Pixel(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	return f[y][x]
}

// Clear sets all pixels to unlit.
func (f *FrameBuffer) Clear() {
	*f = FrameBuffer{}
}

// Lit returns the number of lit pixels.
func (f *FrameBuffer) Lit() int {
	count := 0
	for y := range f {
		for x := range f[y] {
			if f[y][x] {
				count++
			}
		}
	}
	return count
}

// State contains the complete mutable state of a CHIP-8 machine.
// It carries no behavior beyond memory access helpers that apply the
// address wrapping policy.
type State struct {
	Memory [MemorySize]byte
	V      [RegisterCount]uint8 // general purpose registers, VF doubles as flag
	I      uint16               // index register, wrapped on memory access
	PC     uint16               // program counter
	Stack  []uint16             // return addresses, last element is the top

	DelayTimer uint8
	SoundTimer uint8

	Display      FrameBuffer
	DisplayDirty bool // set by clear and draw

	Keys [KeyCount]bool
}

// NewState returns a freshly initialized state with the glyph table loaded.
func NewState() *State {
	s := &State{}
	s.reset()
	return s
}

func (s *State) reset() {
	*s = State{
		PC:    ProgramStart,
		Stack: s.Stack[:0],
	}
	copy(s.Memory[FontBase:], glyphs[:])
}

// Read returns the memory byte at the given address, wrapping addresses
// beyond the memory size.
func (s *State) Read(address uint16) byte {
	return s.Memory[address&addressMask]
}

// Write sets the memory byte at the given address, wrapping addresses
// beyond the memory size.
func (s *State) Write(address uint16, value byte) {
	s.Memory[address&addressMask] = value
}

// push adds a return address on top of the call stack.
func (s *State) push(address uint16) {
	s.Stack = append(s.Stack, address)
}

// pop removes the return address on top of the call stack.
func (s *State) pop() (uint16, bool) {
	if len(s.Stack) == 0 {
		return 0, false
	}
	top := len(s.Stack) - 1
	address := s.Stack[top]
	s.Stack = s.Stack[:top]
	return address, true
}
