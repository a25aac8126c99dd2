// Package emit lowers a laid-out Program AST into the big-endian byte
// image the bread computer loads at address 0.
//
// Where db47h-ngaro's asm package interleaves emission with parsing
// (parser.write appends bytes as each token is recognized), BreadLang's
// placeholder resolution depends on addresses computed by a prior
// layout pass, so emission is its own package operating over the
// finished AST — closer to how vm/image.go treats a finished Image as
// a value to encode/decode than to asm's single-pass approach.
package emit

import (
	"fmt"

	"github.com/bloofirephoenix/BreadLang/ast"
	"github.com/bloofirephoenix/BreadLang/isa"
)

// Program emits the full byte image for prog, which must already have
// been through layout.Resolve. Returns an error if any placeholder
// fails to resolve in its active scope.
func Program(prog *ast.Program) ([]byte, error) {
	var buf []byte
	for _, sub := range prog.Subroutines {
		e := &emitter{scope: sub.Placeholders}
		for _, instr := range sub.Instructions {
			if err := e.instruction(instr); err != nil {
				return nil, fmt.Errorf("subroutine %q: %w", sub.Name, err)
			}
		}
		buf = append(buf, e.bytes...)
	}
	return buf, nil
}

type emitter struct {
	bytes []byte
	scope map[string]uint16
}

func (e *emitter) byte(b byte) {
	e.bytes = append(e.bytes, b)
}

func (e *emitter) imm16(v uint16) {
	e.byte(byte(v >> 8))
	e.byte(byte(v))
}

func (e *emitter) resolveAddr16(a ast.Addr16) (uint16, error) {
	if !a.IsPlaceholder() {
		return a.Literal, nil
	}
	v, ok := e.scope[a.Placeholder]
	if !ok {
		return 0, fmt.Errorf("placeholder %q does not exist", a.Placeholder)
	}
	return v, nil
}

func (e *emitter) resolveImm8(v ast.Imm8) (uint8, error) {
	if !v.IsPlaceholder() {
		return v.Literal, nil
	}
	full, ok := e.scope[v.Placeholder]
	if !ok {
		return 0, fmt.Errorf("placeholder %q does not exist", v.Placeholder)
	}
	return uint8(full), nil
}

func (e *emitter) resolveRegOrImm8(r ast.RegOrImm8) (immediate bool, reg isa.Register, imm uint8, err error) {
	if r.IsRegister {
		return false, r.Register, 0, nil
	}
	imm, err = e.resolveImm8(r.Immediate)
	return true, 0, imm, err
}

// instruction emits one instruction node per its encoding rule.
func (e *emitter) instruction(instr ast.Instruction) error {
	switch n := instr.(type) {
	case ast.Nop:
		e.byte(isa.EncodeFirstByte(isa.NOP, false, isa.A))
	case ast.Hlt:
		e.byte(isa.EncodeFirstByte(isa.HLT, false, isa.A))
	case ast.Lw:
		return e.loadStore(isa.LW, n.Reg, n.Addr)
	case ast.Sw:
		return e.loadStore(isa.SW, n.Reg, n.Addr)
	case ast.Mw:
		return e.regImm2(isa.MW, n.Reg, n.Src)
	case ast.Push:
		return e.regOrImm1(isa.PUSH, n.Src)
	case ast.Pop:
		e.byte(isa.EncodeFirstByte(isa.POP, false, n.Reg))
	case ast.Lda:
		addr, err := e.resolveAddr16(n.Addr)
		if err != nil {
			return err
		}
		e.byte(isa.EncodeFirstByte(isa.LDA, true, isa.A))
		e.imm16(addr)
	case ast.Jmp:
		return e.jump(isa.JMP, isa.A, n.Addr, false)
	case ast.Jz:
		return e.jump(isa.JZ, n.Reg, n.Addr, true)
	case ast.Jc:
		return e.jump(isa.JC, isa.A, n.Addr, false)
	case ast.Add:
		return e.regImm2(isa.ADD, n.Reg, n.Src)
	case ast.Sub:
		return e.regImm2(isa.SUB, n.Reg, n.Src)
	case ast.Out:
		return e.regOrImm1(isa.OUT, n.Src)
	case ast.Def:
		// emits nothing
	case ast.MacroExpansion:
		inner := &emitter{scope: n.Placeholders}
		for _, child := range n.Instructions {
			if err := inner.instruction(child); err != nil {
				return fmt.Errorf("macro %q: %w", n.Name, err)
			}
		}
		e.bytes = append(e.bytes, inner.bytes...)
	case ast.MacroCall:
		return fmt.Errorf("internal error: unresolved macro call %q reached the emitter", n.Name)
	default:
		return fmt.Errorf("internal error: unhandled instruction node %T", instr)
	}
	return nil
}

func (e *emitter) loadStore(op isa.Opcode, reg isa.Register, addr *ast.Addr16) error {
	if addr == nil {
		e.byte(isa.EncodeFirstByte(op, false, reg))
		return nil
	}
	resolved, err := e.resolveAddr16(*addr)
	if err != nil {
		return err
	}
	e.byte(isa.EncodeFirstByte(op, true, reg))
	e.imm16(resolved)
	return nil
}

// regImm2 handles MW/ADD/SUB: register-register uses the two-byte form,
// register-immediate uses first_byte + imm8.
func (e *emitter) regImm2(op isa.Opcode, reg isa.Register, src ast.RegOrImm8) error {
	if src.IsRegister {
		e.byte(isa.EncodeFirstByte(op, false, reg))
		e.byte(isa.EncodeSecondByte(src.Register))
		return nil
	}
	imm, err := e.resolveImm8(src.Immediate)
	if err != nil {
		return err
	}
	e.byte(isa.EncodeFirstByte(op, true, reg))
	e.byte(imm)
	return nil
}

// regOrImm1 handles PUSH/OUT: register form is a single byte, immediate
// form is first_byte(imm=true, reg=0) followed by the immediate byte.
func (e *emitter) regOrImm1(op isa.Opcode, src ast.RegOrImm8) error {
	if src.IsRegister {
		e.byte(isa.EncodeFirstByte(op, false, src.Register))
		return nil
	}
	imm, err := e.resolveImm8(src.Immediate)
	if err != nil {
		return err
	}
	e.byte(isa.EncodeFirstByte(op, true, isa.A))
	e.byte(imm)
	return nil
}

// jump handles JMP/JC/JZ: with an address operand, first_byte(imm=true)
// followed by imm16; without one, first_byte(imm=false) alone (uses H:L
// at runtime). usesReg selects whether reg carries meaning in the
// register field (only JZ's condition register does).
func (e *emitter) jump(op isa.Opcode, reg isa.Register, addr *ast.Addr16, usesReg bool) error {
	effectiveReg := isa.A
	if usesReg {
		effectiveReg = reg
	}
	if addr == nil {
		e.byte(isa.EncodeFirstByte(op, false, effectiveReg))
		return nil
	}
	resolved, err := e.resolveAddr16(*addr)
	if err != nil {
		return err
	}
	e.byte(isa.EncodeFirstByte(op, true, effectiveReg))
	e.imm16(resolved)
	return nil
}
