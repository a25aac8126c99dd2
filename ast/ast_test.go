package ast

import (
	"testing"

	"github.com/bloofirephoenix/BreadLang/isa"
)

func addr() *Addr16 { return &Addr16{Literal: 0x1234} }

func TestInstructionSizes(t *testing.T) {
	cases := []struct {
		name string
		inst Instruction
		want int
	}{
		{"Nop", Nop{}, 1},
		{"Hlt", Hlt{}, 1},
		{"Lw with address", Lw{Reg: isa.A, Addr: addr()}, 3},
		{"Lw implicit H:L", Lw{Reg: isa.A}, 1},
		{"Sw with address", Sw{Reg: isa.A, Addr: addr()}, 3},
		{"Sw implicit H:L", Sw{Reg: isa.A}, 1},
		{"Mw", Mw{Reg: isa.A, Src: RegOrImm8{IsRegister: true, Register: isa.B}}, 2},
		{"Push register", Push{Src: RegOrImm8{IsRegister: true, Register: isa.A}}, 1},
		{"Push immediate", Push{Src: RegOrImm8{IsRegister: false}}, 2},
		{"Pop", Pop{Reg: isa.A}, 1},
		{"Lda", Lda{Addr: Addr16{Literal: 1}}, 3},
		{"Jmp with address", Jmp{Addr: addr()}, 3},
		{"Jmp implicit H:L", Jmp{}, 1},
		{"Jz with address", Jz{Reg: isa.A, Addr: addr()}, 3},
		{"Jc implicit", Jc{}, 1},
		{"Add", Add{Reg: isa.A, Src: RegOrImm8{IsRegister: true, Register: isa.B}}, 2},
		{"Sub", Sub{Reg: isa.A, Src: RegOrImm8{IsRegister: true, Register: isa.B}}, 2},
		{"Out register", Out{Src: RegOrImm8{IsRegister: true, Register: isa.A}}, 1},
		{"Out immediate", Out{Src: RegOrImm8{IsRegister: false}}, 2},
		{"Def", Def{Name: "loop"}, 0},
	}
	for _, c := range cases {
		if got := c.inst.Size(); got != c.want {
			t.Errorf("%s.Size() = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestMacroCallSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MacroCall.Size() to panic")
		}
	}()
	MacroCall{Name: "double"}.Size()
}

func TestMacroExpansionSize(t *testing.T) {
	exp := MacroExpansion{
		Name: "double",
		Instructions: []Instruction{
			Mw{Reg: isa.A, Src: RegOrImm8{IsRegister: true, Register: isa.B}},
			Hlt{},
		},
	}
	if got, want := exp.Size(), 3; got != want {
		t.Errorf("MacroExpansion.Size() = %d, want %d", got, want)
	}
}

func TestSubroutineSize(t *testing.T) {
	sub := &Subroutine{
		Name: "main",
		Instructions: []Instruction{
			Add{Reg: isa.A, Src: RegOrImm8{IsRegister: true, Register: isa.B}},
			Hlt{},
		},
	}
	if got, want := sub.Size(), 3; got != want {
		t.Errorf("Subroutine.Size() = %d, want %d", got, want)
	}
}

func TestAddr16IsPlaceholder(t *testing.T) {
	if (Addr16{Literal: 5}).IsPlaceholder() {
		t.Error("literal Addr16 reported as placeholder")
	}
	if !(Addr16{Placeholder: "loop"}).IsPlaceholder() {
		t.Error("named Addr16 not reported as placeholder")
	}
}
