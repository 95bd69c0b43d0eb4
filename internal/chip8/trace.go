package chip8

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/log"
)

func (m *Machine) trace(pc uint16, ins Instruction) {
	m.logger.Debug("Executing instruction",
		log.Hex("address", pc),
		log.Hex("opcode", ins.Word),
		log.String("instruction", instructionText(ins.Word)),
		log.Uint8("x", ins.X),
		log.Uint8("y", ins.Y))
}

// instructionText returns the assembly text of an instruction word, or
// "unknown" for words that are no instruction.
func instructionText(word uint16) string {
	op, ok := Lookup(word)
	if !ok {
		return "unknown"
	}

	name := strings.ToLower(op.Name())
	if op.syntax == "" {
		return name
	}

	ins := Decode(word)
	replacer := strings.NewReplacer(
		"{nnn}", fmt.Sprintf("%03X", ins.NNN),
		"{nn}", fmt.Sprintf("%02X", ins.NN),
		"{n}", fmt.Sprintf("%d", ins.N),
		"{x}", fmt.Sprintf("%X", ins.X),
		"{y}", fmt.Sprintf("%X", ins.Y),
	)
	return name + " " + replacer.Replace(op.syntax)
}
