// Package ast defines BreadLang's parsed program representation: a
// Program of Subroutines, each a sequence of Instruction nodes.
//
// Rather than transliterating the source language's tagged Node enum
// (one variant per instruction shape, dispatched through a shared
// trait), this follows Go's usual idiom for small closed node sets: one
// concrete struct per instruction kind, all implementing the narrow
// Instruction interface, with the emitter and layout pass switching on
// concrete type. This is the same shape lookbusy1344's parser package
// uses for its own Instruction/Directive nodes, adapted here to a
// closed, typed operand set instead of raw operand strings.
package ast

import (
	"github.com/bloofirephoenix/BreadLang/isa"
	"github.com/bloofirephoenix/BreadLang/token"
)

// Instruction is any node that occupies space in the emitted image.
// DEF labels occupy zero space of their own; a resolved MacroExpansion
// reports the summed size of its body; an unresolved MacroCall has no
// size (its Size panics).
type Instruction interface {
	// Size returns the number of bytes this instruction occupies once
	// emitted.
	Size() int
}

// Addr16 is a 16-bit address operand: either a literal value or a
// reference to a label (subroutine name or DEF name) resolved by the
// layout pass.
type Addr16 struct {
	Placeholder string // label name; empty if Literal is used
	Literal     uint16
}

// IsPlaceholder reports whether this operand refers to a label rather
// than carrying a literal value.
func (a Addr16) IsPlaceholder() bool { return a.Placeholder != "" }

// Imm8 is an 8-bit immediate operand: either a literal byte or a
// reference to a label, truncated to its low byte when resolved.
type Imm8 struct {
	Placeholder string
	Literal     uint8
}

// IsPlaceholder reports whether this operand refers to a label.
func (i Imm8) IsPlaceholder() bool { return i.Placeholder != "" }

// RegOrImm8 is the operand shape shared by MW's source, PUSH/OUT's
// single operand, and ADD/SUB's right-hand operand: either a register
// or an 8-bit immediate.
type RegOrImm8 struct {
	IsRegister bool
	Register   isa.Register
	Immediate  Imm8
}

// --- instruction nodes ---

// Nop is the no-operation instruction; also the opcode the microcode
// generator falls back to for any unassigned instruction slot.
type Nop struct{}

// Size implements Instruction.
func (Nop) Size() int { return 1 }

// Hlt halts execution.
type Hlt struct{}

// Size implements Instruction.
func (Hlt) Size() int { return 1 }

// Lw loads Reg from memory at Addr (literal/placeholder addr16) or, if
// Addr is nil, from the address held in H:L.
type Lw struct {
	Reg  isa.Register
	Addr *Addr16
}

// Size implements Instruction.
func (n Lw) Size() int {
	if n.Addr != nil {
		return 3
	}
	return 1
}

// Sw stores Reg to memory at Addr, or to the address in H:L if Addr is nil.
type Sw struct {
	Reg  isa.Register
	Addr *Addr16
}

// Size implements Instruction.
func (n Sw) Size() int {
	if n.Addr != nil {
		return 3
	}
	return 1
}

// Mw moves Src (a register or an 8-bit immediate) into Reg.
type Mw struct {
	Reg isa.Register
	Src RegOrImm8
}

// Size implements Instruction.
func (Mw) Size() int { return 2 }

// Push pushes Src onto the hardware stack.
type Push struct {
	Src RegOrImm8
}

// Size implements Instruction.
func (n Push) Size() int {
	if n.Src.IsRegister {
		return 1
	}
	return 2
}

// Pop pops the hardware stack into Reg.
type Pop struct {
	Reg isa.Register
}

// Size implements Instruction.
func (Pop) Size() int { return 1 }

// Lda loads a 16-bit literal/placeholder value into H (high byte) and L
// (low byte).
type Lda struct {
	Addr Addr16
}

// Size implements Instruction.
func (Lda) Size() int { return 3 }

// Jmp jumps unconditionally to Addr, or to the address in H:L if Addr is nil.
type Jmp struct {
	Addr *Addr16
}

// Size implements Instruction.
func (n Jmp) Size() int {
	if n.Addr != nil {
		return 3
	}
	return 1
}

// Jz jumps to Addr (or H:L) if Reg is zero.
type Jz struct {
	Reg  isa.Register
	Addr *Addr16
}

// Size implements Instruction.
func (n Jz) Size() int {
	if n.Addr != nil {
		return 3
	}
	return 1
}

// Jc jumps to Addr (or H:L) if the overflow flag is set.
type Jc struct {
	Addr *Addr16
}

// Size implements Instruction.
func (n Jc) Size() int {
	if n.Addr != nil {
		return 3
	}
	return 1
}

// Add adds Src to Reg, setting the overflow flag on carry.
type Add struct {
	Reg isa.Register
	Src RegOrImm8
}

// Size implements Instruction.
func (Add) Size() int { return 2 }

// Sub subtracts Src from Reg (via two's complement add), setting the
// overflow flag on carry out, i.e. when no borrow occurs.
type Sub struct {
	Reg isa.Register
	Src RegOrImm8
}

// Size implements Instruction.
func (Sub) Size() int { return 2 }

// Out writes Src to the output/display port.
type Out struct {
	Src RegOrImm8
}

// Size implements Instruction.
func (n Out) Size() int {
	if n.Src.IsRegister {
		return 1
	}
	return 2
}

// MacroCall is an unresolved reference to a @macro, as first parsed.
// The parser replaces every MacroCall with its resolved MacroExpansion
// before the layout pass runs; Size must never be called on one still
// standing in a subroutine's instruction list.
type MacroCall struct {
	Name string
	Args []token.Token
	Pos  token.Position
}

// Size implements Instruction but always panics: an unresolved
// MacroCall has no defined size, the same invariant the source
// language's own macro nodes enforce.
func (m MacroCall) Size() int {
	panic("ast: Size called on unresolved MacroCall " + m.Name)
}

// Def declares a local label Name at the address of the instruction
// immediately following it. It occupies no space of its own.
type Def struct {
	Name string
}

// Size implements Instruction.
func (Def) Size() int { return 0 }

// MacroExpansion is the fully resolved body of one macro invocation,
// substituted in place of the MacroCall that requested it.
type MacroExpansion struct {
	Name         string
	Instructions []Instruction
	// Placeholders holds this expansion's own DEF labels, filled in by
	// the layout pass. Each expansion gets an independent label scope
	// the way a subroutine does.
	Placeholders map[string]uint16
}

// Size implements Instruction: the sum of the expansion's body.
func (m MacroExpansion) Size() int {
	total := 0
	for _, instr := range m.Instructions {
		total += instr.Size()
	}
	return total
}

// Subroutine is a named, addressable block of instructions.
type Subroutine struct {
	Name         string
	File         string
	Instructions []Instruction
	// Placeholders holds this subroutine's DEF labels, filled in by the
	// layout pass's second phase.
	Placeholders map[string]uint16
}

// Size sums the subroutine's instructions.
func (s *Subroutine) Size() int {
	total := 0
	for _, instr := range s.Instructions {
		total += instr.Size()
	}
	return total
}

// MacroDef is a @macro definition: a name, its formal parameters, and
// its body captured as raw tokens. The body is re-parsed into
// instruction nodes once per call site, after substituting each
// parameter's formal-name tokens with that call's actual argument
// tokens — the same late-binding shape as the source language's own
// Macro/MacroNode pair, which avoids needing a separate "parameter
// reference" instruction node.
type MacroDef struct {
	Name   string
	Params []string
	Body   []token.Token
}

// Program is a whole compiled unit: every subroutine reachable from the
// entry file (by file order then @include order), plus the named
// macros available for expansion. Subroutines[0] is always "main".
type Program struct {
	Subroutines []*Subroutine
	Macros      map[string]*MacroDef
	// Placeholders holds every subroutine's start address, filled in by
	// the layout pass's first phase.
	Placeholders map[string]uint16
}
