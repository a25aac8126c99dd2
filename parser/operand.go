package parser

import (
	"github.com/bloofirephoenix/BreadLang/ast"
	"github.com/bloofirephoenix/BreadLang/diag"
	"github.com/bloofirephoenix/BreadLang/isa"
	"github.com/bloofirephoenix/BreadLang/token"
)

// looksLikeOperand reports whether the current token can start a
// 16-bit address operand (a number or a placeholder identifier) — used
// to decide whether an "optional addr16" slot (LW/SW/JMP/JZ/JC) is
// present.
func (p *parser) looksLikeOperand() bool {
	k := p.cur().Kind
	return k == token.Number || k == token.Identifier
}

// parseAddr16 consumes one operand token as a 16-bit address: either a
// number literal or a placeholder identifier.
func (p *parser) parseAddr16() ast.Addr16 {
	tok := p.advance()
	if tok.Kind == token.Identifier {
		return ast.Addr16{Placeholder: tok.Text}
	}
	if tok.Kind == token.Number {
		if tok.Value < 0 || tok.Value > 0xFFFF {
			p.bag.Add(diag.FromToken(diag.NumberTooBig, tok, diag.NonCritical))
		}
		return ast.Addr16{Literal: uint16(tok.Value)}
	}
	p.bag.Add(diag.Expected("number or identifier", tok, diag.NonCritical))
	return ast.Addr16{}
}

// parseOptAddr16 returns a non-nil *Addr16 only if the current token can
// start one.
func (p *parser) parseOptAddr16() *ast.Addr16 {
	if !p.looksLikeOperand() {
		return nil
	}
	addr := p.parseAddr16()
	return &addr
}

// parseImm8 consumes one operand token as an 8-bit immediate: either a
// number literal or a placeholder identifier (whose low byte is used at
// emit time).
func (p *parser) parseImm8() ast.Imm8 {
	tok := p.advance()
	if tok.Kind == token.Identifier {
		return ast.Imm8{Placeholder: tok.Text}
	}
	if tok.Kind == token.Number {
		if tok.Value < 0 || tok.Value > 0xFF {
			p.bag.Add(diag.FromToken(diag.NumberTooBig, tok, diag.NonCritical))
		}
		return ast.Imm8{Literal: uint8(tok.Value)}
	}
	p.bag.Add(diag.Expected("register or immediate", tok, diag.NonCritical))
	return ast.Imm8{}
}

// parseRegister consumes a Register token.
func (p *parser) parseRegister() isa.Register {
	tok, ok := p.expect(token.Register, "register")
	if !ok {
		return isa.A
	}
	reg, _ := isa.RegisterByName(tok.Text)
	return reg
}

// parseRegOrImm8 consumes either a register or an 8-bit immediate,
// deciding on the current token's kind.
func (p *parser) parseRegOrImm8() ast.RegOrImm8 {
	if p.cur().Kind == token.Register {
		return ast.RegOrImm8{IsRegister: true, Register: p.parseRegister()}
	}
	if p.cur().Kind == token.Number || p.cur().Kind == token.Identifier {
		return ast.RegOrImm8{Immediate: p.parseImm8()}
	}
	p.bag.Add(diag.Expected("register or immediate", p.cur(), diag.NonCritical))
	p.advance()
	return ast.RegOrImm8{}
}
