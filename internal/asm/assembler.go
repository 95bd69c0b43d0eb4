package asm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

var (
	// ErrInvalidOperands is returned for operands that do not match any
	// encoding of the instruction.
	ErrInvalidOperands = errors.New("invalid operands")

	// ErrUnknownMnemonic is returned for instructions that are not part of
	// the CHIP-8 instruction set.
	ErrUnknownMnemonic = errors.New("unknown mnemonic")
)

// encodeFunc returns the instruction word for the given operands.
type encodeFunc func(a *assembler, ops []operand) (uint16, error)

var encoders = map[*chip8cpu.Instruction]encodeFunc{
	chip8cpu.Cls:  fixed(0x00E0),
	chip8cpu.Ret:  fixed(0x00EE),
	chip8cpu.Jp:   encodeJp,
	chip8cpu.Call: encodeCall,
	chip8cpu.Se:   compare(0x3000, 0x5000),
	chip8cpu.Sne:  compare(0x4000, 0x9000),
	chip8cpu.Ld:   encodeLd,
	chip8cpu.Add:  encodeAdd,
	chip8cpu.Or:   registerPair(0x8001),
	chip8cpu.And:  registerPair(0x8002),
	chip8cpu.Xor:  registerPair(0x8003),
	chip8cpu.Sub:  registerPair(0x8005),
	chip8cpu.Subn: registerPair(0x8007),
	chip8cpu.Shr:  shift(0x8006),
	chip8cpu.Shl:  shift(0x800E),
	chip8cpu.Rnd:  encodeRnd,
	chip8cpu.Drw:  encodeDrw,
	chip8cpu.Skp:  keySkip(0xE09E),
	chip8cpu.Sknp: keySkip(0xE0A1),
}

// mnemonics maps lowercase mnemonics to their instruction descriptor.
var mnemonics = func() map[string]*chip8cpu.Instruction {
	m := make(map[string]*chip8cpu.Instruction, len(encoders))
	for ins := range encoders {
		m[strings.ToLower(ins.Name)] = ins
	}
	return m
}()

type assembler struct {
	labels map[string]uint16
	memory [chip8.MemorySize]byte
	end    int // address after the highest emitted byte
}

// Assemble translates assembly source into a program image. The image
// starts at chip8.ProgramStart, gaps between .org sections are zero filled.
func Assemble(filename, source string) ([]byte, error) {
	src, err := Parse(filename, source)
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}

	a := &assembler{
		labels: make(map[string]uint16),
		end:    chip8.ProgramStart,
	}
	if err := a.collectLabels(src); err != nil {
		return nil, err
	}
	if err := a.emit(src); err != nil {
		return nil, err
	}

	image := make([]byte, a.end-chip8.ProgramStart)
	copy(image, a.memory[chip8.ProgramStart:a.end])
	return image, nil
}

// collectLabels assigns addresses to all labels.
func (a *assembler) collectLabels(src *Source) error {
	address := uint16(chip8.ProgramStart)

	for _, line := range src.Lines {
		if line.Label != nil {
			name := *line.Label
			if _, ok := a.labels[name]; ok {
				return fmt.Errorf("%s: label '%s' defined twice", line.Pos, name)
			}
			a.labels[name] = address
		}

		switch {
		case line.Directive != nil:
			next, err := a.directiveEnd(line.Directive, address)
			if err != nil {
				return fmt.Errorf("%s: %w", line.Pos, err)
			}
			address = next

		case line.Instruction != nil:
			address += 2
		}
	}
	return nil
}

// directiveEnd returns the address following the directive.
func (a *assembler) directiveEnd(dir *Directive, address uint16) (uint16, error) {
	switch strings.ToLower(dir.Name) {
	case ".org":
		if len(dir.Values) != 1 || dir.Values[0].Number == nil {
			return 0, errors.New(".org expects a single number")
		}
		return parseNumber(*dir.Values[0].Number)

	case ".byte", ".db":
		return address + uint16(len(dir.Values)), nil

	case ".word", ".dw":
		return address + 2*uint16(len(dir.Values)), nil

	default:
		return 0, fmt.Errorf("unsupported directive '%s'", dir.Name)
	}
}

// emit encodes all instructions and data into memory.
func (a *assembler) emit(src *Source) error {
	address := uint16(chip8.ProgramStart)

	for _, line := range src.Lines {
		var err error
		switch {
		case line.Directive != nil:
			address, err = a.emitDirective(line.Directive, address)
		case line.Instruction != nil:
			address, err = a.emitInstruction(line.Instruction, address)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", line.Pos, err)
		}
	}
	return nil
}

func (a *assembler) emitDirective(dir *Directive, address uint16) (uint16, error) {
	name := strings.ToLower(dir.Name)
	if name == ".org" {
		return a.directiveEnd(dir, address)
	}

	for _, value := range dir.Values {
		op, err := classify(value)
		if err != nil {
			return 0, err
		}
		if op.kind != kindValue {
			return 0, fmt.Errorf("%s expects values, got %s", name, op.kind)
		}

		if name == ".byte" || name == ".db" {
			b, err := a.resolve(op, 0xFF)
			if err != nil {
				return 0, err
			}
			if err := a.write(address, byte(b)); err != nil {
				return 0, err
			}
			address++
			continue
		}

		w, err := a.resolve(op, 0xFFFF)
		if err != nil {
			return 0, err
		}
		if err := a.writeWord(address, w); err != nil {
			return 0, err
		}
		address += 2
	}
	return address, nil
}

func (a *assembler) emitInstruction(ins *Instruction, address uint16) (uint16, error) {
	descriptor, ok := mnemonics[strings.ToLower(ins.Mnemonic)]
	if !ok {
		return 0, fmt.Errorf("%w '%s'", ErrUnknownMnemonic, ins.Mnemonic)
	}

	ops := make([]operand, 0, len(ins.Operands))
	for _, o := range ins.Operands {
		op, err := classify(o)
		if err != nil {
			return 0, err
		}
		ops = append(ops, op)
	}

	name := strings.ToLower(descriptor.Name)
	word, err := encoders[descriptor](a, ops)
	if err != nil {
		if errors.Is(err, ErrInvalidOperands) {
			return 0, fmt.Errorf("%w for %s: %s", ErrInvalidOperands, name, describe(ops))
		}
		return 0, fmt.Errorf("encoding %s: %w", name, err)
	}

	if err := a.writeWord(address, word); err != nil {
		return 0, err
	}
	return address + 2, nil
}

func (a *assembler) write(address uint16, value byte) error {
	if address < chip8.ProgramStart || int(address) >= chip8.MemorySize {
		return fmt.Errorf("address $%04X is outside of the program space", address)
	}
	a.memory[address] = value
	a.end = max(a.end, int(address)+1)
	return nil
}

func (a *assembler) writeWord(address, value uint16) error {
	if err := a.write(address, byte(value>>8)); err != nil {
		return err
	}
	return a.write(address+1, byte(value))
}

// resolve returns the value of a number or label operand and checks that it
// does not exceed the given maximum.
func (a *assembler) resolve(op operand, maximum uint16) (uint16, error) {
	value := op.value
	if op.label != "" {
		address, ok := a.labels[op.label]
		if !ok {
			return 0, fmt.Errorf("undefined label '%s'", op.label)
		}
		value = address
	}
	if value > maximum {
		return 0, fmt.Errorf("value $%X exceeds maximum $%X", value, maximum)
	}
	return value, nil
}

// describe lists the operand kinds for error messages.
func describe(ops []operand) string {
	if len(ops) == 0 {
		return "none"
	}
	kinds := make([]string, len(ops))
	for i, op := range ops {
		kinds[i] = op.kind.String()
	}
	return strings.Join(kinds, ", ")
}

// match returns whether the operands have exactly the given kinds.
func match(ops []operand, kinds ...operandKind) bool {
	if len(ops) != len(kinds) {
		return false
	}
	for i, kind := range kinds {
		if ops[i].kind != kind {
			return false
		}
	}
	return true
}

func regX(op operand) uint16 {
	return uint16(op.register) << 8
}

func regY(op operand) uint16 {
	return uint16(op.register) << 4
}

func fixed(word uint16) encodeFunc {
	return func(_ *assembler, ops []operand) (uint16, error) {
		if len(ops) != 0 {
			return 0, ErrInvalidOperands
		}
		return word, nil
	}
}

func encodeJp(a *assembler, ops []operand) (uint16, error) {
	switch {
	case match(ops, kindValue):
		address, err := a.resolve(ops[0], 0xFFF)
		return 0x1000 | address, err

	case match(ops, kindRegister, kindValue) && ops[0].register == 0:
		address, err := a.resolve(ops[1], 0xFFF)
		return 0xB000 | address, err
	}
	return 0, ErrInvalidOperands
}

func encodeCall(a *assembler, ops []operand) (uint16, error) {
	if !match(ops, kindValue) {
		return 0, ErrInvalidOperands
	}
	address, err := a.resolve(ops[0], 0xFFF)
	return 0x2000 | address, err
}

// compare encodes se and sne, which compare a register with either an
// immediate byte or another register.
func compare(immediate, register uint16) encodeFunc {
	return func(a *assembler, ops []operand) (uint16, error) {
		switch {
		case match(ops, kindRegister, kindValue):
			value, err := a.resolve(ops[1], 0xFF)
			return immediate | regX(ops[0]) | value, err

		case match(ops, kindRegister, kindRegister):
			return register | regX(ops[0]) | regY(ops[1]), nil
		}
		return 0, ErrInvalidOperands
	}
}

func encodeLd(a *assembler, ops []operand) (uint16, error) {
	switch {
	case match(ops, kindRegister, kindValue):
		value, err := a.resolve(ops[1], 0xFF)
		return 0x6000 | regX(ops[0]) | value, err
	case match(ops, kindRegister, kindRegister):
		return 0x8000 | regX(ops[0]) | regY(ops[1]), nil
	case match(ops, kindIndex, kindValue):
		address, err := a.resolve(ops[1], 0xFFF)
		return 0xA000 | address, err
	case match(ops, kindRegister, kindDelay):
		return 0xF007 | regX(ops[0]), nil
	case match(ops, kindRegister, kindKey):
		return 0xF00A | regX(ops[0]), nil
	case match(ops, kindDelay, kindRegister):
		return 0xF015 | regX(ops[1]), nil
	case match(ops, kindSound, kindRegister):
		return 0xF018 | regX(ops[1]), nil
	case match(ops, kindFont, kindRegister):
		return 0xF029 | regX(ops[1]), nil
	case match(ops, kindBCD, kindRegister):
		return 0xF033 | regX(ops[1]), nil
	case match(ops, kindIndirect, kindRegister):
		return 0xF055 | regX(ops[1]), nil
	case match(ops, kindRegister, kindIndirect):
		return 0xF065 | regX(ops[0]), nil
	}
	return 0, ErrInvalidOperands
}

func encodeAdd(a *assembler, ops []operand) (uint16, error) {
	switch {
	case match(ops, kindRegister, kindValue):
		value, err := a.resolve(ops[1], 0xFF)
		return 0x7000 | regX(ops[0]) | value, err
	case match(ops, kindRegister, kindRegister):
		return 0x8004 | regX(ops[0]) | regY(ops[1]), nil
	case match(ops, kindIndex, kindRegister):
		return 0xF01E | regX(ops[1]), nil
	}
	return 0, ErrInvalidOperands
}

func registerPair(word uint16) encodeFunc {
	return func(_ *assembler, ops []operand) (uint16, error) {
		if !match(ops, kindRegister, kindRegister) {
			return 0, ErrInvalidOperands
		}
		return word | regX(ops[0]) | regY(ops[1]), nil
	}
}

// shift encodes shr and shl, the second register is optional.
func shift(word uint16) encodeFunc {
	return func(_ *assembler, ops []operand) (uint16, error) {
		switch {
		case match(ops, kindRegister):
			return word | regX(ops[0]), nil
		case match(ops, kindRegister, kindRegister):
			return word | regX(ops[0]) | regY(ops[1]), nil
		}
		return 0, ErrInvalidOperands
	}
}

func encodeRnd(a *assembler, ops []operand) (uint16, error) {
	if !match(ops, kindRegister, kindValue) {
		return 0, ErrInvalidOperands
	}
	value, err := a.resolve(ops[1], 0xFF)
	return 0xC000 | regX(ops[0]) | value, err
}

func encodeDrw(a *assembler, ops []operand) (uint16, error) {
	if !match(ops, kindRegister, kindRegister, kindValue) {
		return 0, ErrInvalidOperands
	}
	rows, err := a.resolve(ops[2], 0xF)
	return 0xD000 | regX(ops[0]) | regY(ops[1]) | rows, err
}

func keySkip(word uint16) encodeFunc {
	return func(_ *assembler, ops []operand) (uint16, error) {
		if !match(ops, kindRegister) {
			return 0, ErrInvalidOperands
		}
		return word | regX(ops[0]), nil
	}
}
