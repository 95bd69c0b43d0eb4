package asm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// operandKind classifies an operand by the syntax it was written with.
type operandKind int

const (
	kindValue    operandKind = iota // number or label reference
	kindRegister                    // V0-VF
	kindIndex                       // I
	kindIndirect                    // [I]
	kindDelay                       // DT
	kindSound                       // ST
	kindKey                         // K
	kindFont                        // F
	kindBCD                         // B
)

var kindNames = map[operandKind]string{
	kindValue:    "value",
	kindRegister: "register",
	kindIndex:    "I",
	kindIndirect: "[I]",
	kindDelay:    "DT",
	kindSound:    "ST",
	kindKey:      "K",
	kindFont:     "F",
	kindBCD:      "B",
}

func (k operandKind) String() string {
	return kindNames[k]
}

var specialOperands = map[string]operandKind{
	"i":  kindIndex,
	"dt": kindDelay,
	"st": kindSound,
	"k":  kindKey,
	"f":  kindFont,
	"b":  kindBCD,
}

// operand is a classified operand. Label references are resolved by the
// assembler when the value is needed.
type operand struct {
	kind     operandKind
	register uint8
	value    uint16
	label    string
}

// classify determines the kind of a parsed operand.
func classify(op *Operand) (operand, error) {
	switch {
	case op.Indirect != nil:
		if !strings.EqualFold(*op.Indirect, "i") {
			return operand{}, fmt.Errorf("unsupported indirect operand [%s]", *op.Indirect)
		}
		return operand{kind: kindIndirect}, nil

	case op.Number != nil:
		value, err := parseNumber(*op.Number)
		if err != nil {
			return operand{}, err
		}
		return operand{kind: kindValue, value: value}, nil

	case op.Name != nil:
		name := *op.Name
		if register, ok := parseRegister(name); ok {
			return operand{kind: kindRegister, register: register}, nil
		}
		if kind, ok := specialOperands[strings.ToLower(name)]; ok {
			return operand{kind: kind}, nil
		}
		return operand{kind: kindValue, label: name}, nil
	}

	return operand{}, errors.New("empty operand")
}

// parseRegister parses a register name V0-VF.
func parseRegister(name string) (uint8, bool) {
	if len(name) != 2 || (name[0] != 'V' && name[0] != 'v') {
		return 0, false
	}
	value, err := strconv.ParseUint(name[1:], 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(value), true
}

// parseNumber parses a number literal in $hex, 0xhex, %binary or decimal
// notation.
func parseNumber(s string) (uint16, error) {
	base := 10
	digits := s
	switch {
	case strings.HasPrefix(s, "$"):
		base, digits = 16, s[1:]
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base, digits = 16, s[2:]
	case strings.HasPrefix(s, "%"):
		base, digits = 2, s[1:]
	}

	value, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s': %w", s, err)
	}
	return uint16(value), nil
}
