package chip8

// Interpreter applies decoded instructions to a machine state.
// It holds no machine state itself, only the collaborators that the
// instruction semantics depend on.
type Interpreter struct {
	random     RandomSource
	stackLimit int // 0 means unbounded
}

// NewInterpreter returns an interpreter that uses the given random source
// for the random instruction. A stack limit of 0 leaves the call stack
// depth unbounded.
func NewInterpreter(random RandomSource, stackLimit int) *Interpreter {
	return &Interpreter{
		random:     random,
		stackLimit: stackLimit,
	}
}

// Execute applies the instruction to the state. The program counter is
// expected to already point past the instruction. Instructions that do not
// encode a known opcode are ignored.
func (ip *Interpreter) Execute(s *State, ins Instruction) error {
	op, ok := Lookup(ins.Word)
	if !ok {
		return nil
	}
	return op.exec(ip, s, ins)
}

func clearScreen(_ *Interpreter, s *State, _ Instruction) error {
	s.Display.Clear()
	s.DisplayDirty = true
	return nil
}

func returnFromSubroutine(_ *Interpreter, s *State, _ Instruction) error {
	address, ok := s.pop()
	if !ok {
		return ErrStackUnderflow
	}
	s.PC = address
	return nil
}

func jump(_ *Interpreter, s *State, ins Instruction) error {
	s.PC = ins.NNN
	return nil
}

func call(ip *Interpreter, s *State, ins Instruction) error {
	if ip.stackLimit > 0 && len(s.Stack) >= ip.stackLimit {
		return ErrStackOverflow
	}
	s.push(s.PC)
	s.PC = ins.NNN
	return nil
}

// skipIf advances the program counter over the next instruction.
func skipIf(s *State, condition bool) {
	if condition {
		s.PC += opcodeSize
	}
}

func skipEqualImmediate(_ *Interpreter, s *State, ins Instruction) error {
	skipIf(s, s.V[ins.X] == ins.NN)
	return nil
}

func skipNotEqualImmediate(_ *Interpreter, s *State, ins Instruction) error {
	skipIf(s, s.V[ins.X] != ins.NN)
	return nil
}

func skipEqualRegister(_ *Interpreter, s *State, ins Instruction) error {
	skipIf(s, s.V[ins.X] == s.V[ins.Y])
	return nil
}

func skipNotEqualRegister(_ *Interpreter, s *State, ins Instruction) error {
	skipIf(s, s.V[ins.X] != s.V[ins.Y])
	return nil
}

func loadImmediate(_ *Interpreter, s *State, ins Instruction) error {
	s.V[ins.X] = ins.NN
	return nil
}

func addImmediate(_ *Interpreter, s *State, ins Instruction) error {
	s.V[ins.X] += ins.NN
	return nil
}

func copyRegister(_ *Interpreter, s *State, ins Instruction) error {
	s.V[ins.X] = s.V[ins.Y]
	return nil
}

func or(_ *Interpreter, s *State, ins Instruction) error {
	s.V[ins.X] |= s.V[ins.Y]
	return nil
}

func and(_ *Interpreter, s *State, ins Instruction) error {
	s.V[ins.X] &= s.V[ins.Y]
	return nil
}

func xor(_ *Interpreter, s *State, ins Instruction) error {
	s.V[ins.X] ^= s.V[ins.Y]
	return nil
}

// The arithmetic and shift instructions read both operands before writing
// the flag and write the result last, so for x = F the result wins over the
// flag.

func addRegister(_ *Interpreter, s *State, ins Instruction) error {
	sum := uint16(s.V[ins.X]) + uint16(s.V[ins.Y])
	s.V[FlagRegister] = boolToFlag(sum > 0xFF)
	s.V[ins.X] = uint8(sum)
	return nil
}

func subtract(_ *Interpreter, s *State, ins Instruction) error {
	vx, vy := s.V[ins.X], s.V[ins.Y]
	s.V[FlagRegister] = boolToFlag(vx >= vy)
	s.V[ins.X] = vx - vy
	return nil
}

func subtractReverse(_ *Interpreter, s *State, ins Instruction) error {
	vx, vy := s.V[ins.X], s.V[ins.Y]
	s.V[FlagRegister] = boolToFlag(vy >= vx)
	s.V[ins.X] = vy - vx
	return nil
}

func shiftRight(_ *Interpreter, s *State, ins Instruction) error {
	vx := s.V[ins.X]
	s.V[FlagRegister] = vx & 0x01
	s.V[ins.X] = vx >> 1
	return nil
}

func shiftLeft(_ *Interpreter, s *State, ins Instruction) error {
	vx := s.V[ins.X]
	s.V[FlagRegister] = vx >> 7
	s.V[ins.X] = vx << 1
	return nil
}

func loadIndex(_ *Interpreter, s *State, ins Instruction) error {
	s.I = ins.NNN
	return nil
}

func jumpOffset(_ *Interpreter, s *State, ins Instruction) error {
	s.PC = ins.NNN + uint16(s.V[0])
	return nil
}

func randomAnd(ip *Interpreter, s *State, ins Instruction) error {
	s.V[ins.X] = ip.random.Byte() & ins.NN
	return nil
}

// draw XORs an n byte sprite read from memory at I onto the display.
// Sprites are clipped at the right and bottom edges.
func draw(_ *Interpreter, s *State, ins Instruction) error {
	originX := int(s.V[ins.X]) % DisplayWidth
	originY := int(s.V[ins.Y]) % DisplayHeight
	s.V[FlagRegister] = 0

	for row := range int(ins.N) {
		y := originY + row
		if y >= DisplayHeight {
			break
		}

		sprite := s.Read(s.I + uint16(row))
		for col := range 8 {
			x := originX + col
			if x >= DisplayWidth {
				break
			}
			if sprite&(0x80>>col) == 0 {
				continue
			}
			if s.Display[y][x] {
				s.V[FlagRegister] = 1
			}
			s.Display[y][x] = !s.Display[y][x]
		}
	}

	s.DisplayDirty = true
	return nil
}

func skipKeyPressed(_ *Interpreter, s *State, ins Instruction) error {
	skipIf(s, s.Keys[s.V[ins.X]&0x0F])
	return nil
}

func skipKeyReleased(_ *Interpreter, s *State, ins Instruction) error {
	skipIf(s, !s.Keys[s.V[ins.X]&0x0F])
	return nil
}

func readDelayTimer(_ *Interpreter, s *State, ins Instruction) error {
	s.V[ins.X] = s.DelayTimer
	return nil
}

// awaitKey stores the lowest pressed key. Without a pressed key the program
// counter is moved back so that the instruction executes again on the next
// cycle.
func awaitKey(_ *Interpreter, s *State, ins Instruction) error {
	for key, pressed := range s.Keys {
		if pressed {
			s.V[ins.X] = uint8(key)
			return nil
		}
	}
	s.PC -= opcodeSize
	return nil
}

func writeDelayTimer(_ *Interpreter, s *State, ins Instruction) error {
	s.DelayTimer = s.V[ins.X]
	return nil
}

func writeSoundTimer(_ *Interpreter, s *State, ins Instruction) error {
	s.SoundTimer = s.V[ins.X]
	return nil
}

func addIndex(_ *Interpreter, s *State, ins Instruction) error {
	s.I += uint16(s.V[ins.X])
	return nil
}

func fontAddress(_ *Interpreter, s *State, ins Instruction) error {
	s.I = FontBase + uint16(s.V[ins.X])*GlyphSize
	return nil
}

func storeBCD(_ *Interpreter, s *State, ins Instruction) error {
	value := s.V[ins.X]
	s.Write(s.I, value/100)
	s.Write(s.I+1, value/10%10)
	s.Write(s.I+2, value%10)
	return nil
}

func storeRegisters(_ *Interpreter, s *State, ins Instruction) error {
	for i := range uint16(ins.X) + 1 {
		s.Write(s.I+i, s.V[i])
	}
	return nil
}

func loadRegisters(_ *Interpreter, s *State, ins Instruction) error {
	for i := range uint16(ins.X) + 1 {
		s.V[i] = s.Read(s.I + i)
	}
	return nil
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
