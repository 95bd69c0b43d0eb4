// Package asm implements an assembler for CHIP-8 assembly source.
//
// The accepted syntax matches the CHIP-8 output of retroasm style
// disassemblers:
//
//	; comment
//	.org $200
//	Start:
//	  ld V1, $05
//	  ld DT, V1
//	  jp Start
//	Data:
//	  .byte $F0, $90, %11110000
//
// Numbers are written as $hex, 0xhex, %binary or decimal.
package asm

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Source is the top-level AST node of an assembly source.
type Source struct {
	Lines []*Line `@@*`
}

// Line is a single source line with an optional label and an optional
// directive or instruction.
type Line struct {
	Pos lexer.Position

	Label       *string      `( @Ident ":" )?`
	Directive   *Directive   `( @@`
	Instruction *Instruction `| @@ )?`
	EOL         string       `@EOL`
}

// Directive is an assembler directive like .org or .byte.
type Directive struct {
	Name   string     `@Directive`
	Values []*Operand `( @@ ( "," @@ )* )?`
}

// Instruction is a mnemonic with its operands.
type Instruction struct {
	Mnemonic string     `@Ident`
	Operands []*Operand `( @@ ( "," @@ )* )?`
}

// Operand is a single instruction or directive operand.
type Operand struct {
	Pos lexer.Position

	Indirect *string `  "[" @Ident "]"`
	Number   *string `| @Number`
	Name     *string `| @Ident`
}

var sourceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "EOL", Pattern: `[\r\n]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},

	{Name: "Directive", Pattern: `\.[a-zA-Z]+`},
	{Name: "Number", Pattern: `\$[0-9a-fA-F]+|0[xX][0-9a-fA-F]+|%[01]+|[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[,:\[\]]`},
})

var parser = participle.MustBuild[Source](
	participle.Lexer(sourceLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// Parse parses assembly source into its AST. The filename is only used
// for error positions.
func Parse(filename, source string) (*Source, error) {
	if len(source) > 0 && source[len(source)-1] != '\n' {
		source += "\n"
	}
	return parser.ParseString(filename, source)
}
