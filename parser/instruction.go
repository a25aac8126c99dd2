package parser

import (
	"github.com/bloofirephoenix/BreadLang/ast"
	"github.com/bloofirephoenix/BreadLang/diag"
	"github.com/bloofirephoenix/BreadLang/isa"
	"github.com/bloofirephoenix/BreadLang/token"
)

// parseInstruction dispatches on the leading token of one instruction
// line: a recognized mnemonic, the DEF keyword, or (falling through) an
// identifier that names a macro call.
func (p *parser) parseInstruction() ast.Instruction {
	tok := p.cur()
	switch tok.Kind {
	case token.Def:
		p.advance()
		name, ok := p.expect(token.Identifier, "identifier")
		if !ok {
			return nil
		}
		return ast.Def{Name: name.Text}
	case token.Mnemonic:
		return p.parseMnemonicInstruction(tok.Text)
	case token.Identifier:
		return p.parseMacroCall()
	default:
		p.bag.Add(diag.Expected("instruction", tok, diag.NonCritical))
		p.advance()
		return nil
	}
}

func (p *parser) parseMnemonicInstruction(mnemonic string) ast.Instruction {
	p.advance() // consume the mnemonic token
	op, _ := isa.OpcodeByMnemonic(mnemonic)
	switch op {
	case isa.NOP:
		return ast.Nop{}
	case isa.HLT:
		return ast.Hlt{}
	case isa.LW:
		reg := p.parseRegister()
		return ast.Lw{Reg: reg, Addr: p.parseOptAddr16()}
	case isa.SW:
		reg := p.parseRegister()
		return ast.Sw{Reg: reg, Addr: p.parseOptAddr16()}
	case isa.MW:
		reg := p.parseRegister()
		return ast.Mw{Reg: reg, Src: p.parseRegOrImm8()}
	case isa.PUSH:
		return ast.Push{Src: p.parseRegOrImm8()}
	case isa.POP:
		return ast.Pop{Reg: p.parseRegister()}
	case isa.LDA:
		return ast.Lda{Addr: p.parseAddr16()}
	case isa.JMP:
		return ast.Jmp{Addr: p.parseOptAddr16()}
	case isa.JZ:
		reg := p.parseRegister()
		return ast.Jz{Reg: reg, Addr: p.parseOptAddr16()}
	case isa.JC:
		return ast.Jc{Addr: p.parseOptAddr16()}
	case isa.ADD:
		reg := p.parseRegister()
		return ast.Add{Reg: reg, Src: p.parseRegOrImm8()}
	case isa.SUB:
		reg := p.parseRegister()
		return ast.Sub{Reg: reg, Src: p.parseRegOrImm8()}
	case isa.OUT:
		return ast.Out{Src: p.parseRegOrImm8()}
	default:
		p.bag.Add(diag.New("", 0, diag.ExpectedButFound, "unreachable mnemonic "+mnemonic, diag.Critical))
		return nil
	}
}

// parseMacroCall captures every remaining token on the line as the
// macro call's raw argument tokens, to be substituted in once the
// macro table is known (macros may be defined after they are called).
func (p *parser) parseMacroCall() ast.Instruction {
	nameTok := p.advance()
	var args []token.Token
	for p.cur().Kind != token.NewLine && p.cur().Kind != token.EOF {
		args = append(args, p.advance())
	}
	return ast.MacroCall{Name: nameTok.Text, Args: args, Pos: nameTok.Pos}
}
