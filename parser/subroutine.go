package parser

import (
	"github.com/bloofirephoenix/BreadLang/ast"
	"github.com/bloofirephoenix/BreadLang/diag"
	"github.com/bloofirephoenix/BreadLang/token"
)

// parseSubroutine parses `<identifier> ':' NL (indent instruction NL)*`.
func (p *parser) parseSubroutine() *ast.Subroutine {
	nameTok := p.advance()
	file := nameTok.Pos.File
	if _, ok := p.expect(token.Colon, "':'"); !ok {
		p.skipToNewLine()
		return nil
	}
	p.skipNewLines()

	sub := &ast.Subroutine{Name: nameTok.Text, File: file}
	sub.Instructions = p.parseInstructionList()

	if len(sub.Instructions) == 0 {
		p.bag.Add(diag.New(file, nameTok.Pos.Line, diag.ExpectedButFound,
			"subroutine \""+sub.Name+"\" is empty", diag.NonCritical))
	} else if !endsInHaltOrJump(sub.Instructions[len(sub.Instructions)-1]) {
		p.bag.Add(diag.New(file, nameTok.Pos.Line, diag.ExpectedButFound,
			"subroutine \""+sub.Name+"\" does not end in HLT or JMP", diag.NonCritical))
	}
	return sub
}

func endsInHaltOrJump(instr ast.Instruction) bool {
	switch instr.(type) {
	case ast.Hlt, ast.Jmp:
		return true
	default:
		return false
	}
}

// parseInstructionList consumes `(indent instruction NL)*`, stopping at
// the first non-indented, non-blank token — the universal terminator
// for subroutine bodies, macro bodies, and macro-body-token capture.
func (p *parser) parseInstructionList() []ast.Instruction {
	var out []ast.Instruction
	for {
		for p.cur().Kind == token.NewLine {
			p.advance()
		}
		if p.cur().Kind != token.Indent {
			break
		}
		p.advance() // consume indent
		if p.cur().Kind == token.NewLine || p.cur().Kind == token.EOF {
			p.advance()
			continue
		}
		instr := p.parseInstruction()
		if instr != nil {
			out = append(out, instr)
		}
		p.finishLine()
	}
	return out
}

// finishLine consumes any stray tokens before the next newline, warning
// once per extra token, then consumes the newline itself (if present).
func (p *parser) finishLine() {
	for p.cur().Kind != token.NewLine && p.cur().Kind != token.EOF {
		p.bag.Add(diag.Expected("newline", p.cur(), diag.NonCritical))
		p.advance()
	}
	if p.cur().Kind == token.NewLine {
		p.advance()
	}
}
