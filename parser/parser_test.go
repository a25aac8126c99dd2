package parser

import (
	"testing"

	"github.com/bloofirephoenix/BreadLang/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	files := map[string]string{"main.bread": src}
	reader := func(path string) (string, error) { return files[path], nil }
	prog, bag := Parse("main.bread", reader)
	if bag.HasCritical() {
		t.Fatalf("unexpected critical diagnostics: %v", bag.Items())
	}
	return prog
}

func TestParseMainHalt(t *testing.T) {
	prog := mustParse(t, "main:\n    HLT\n")
	if len(prog.Subroutines) != 1 {
		t.Fatalf("got %d subroutines, want 1", len(prog.Subroutines))
	}
	sub := prog.Subroutines[0]
	if sub.Name != "main" {
		t.Fatalf("Subroutines[0].Name = %q, want main", sub.Name)
	}
	if len(sub.Instructions) != 1 {
		t.Fatalf("got %d instructions, want 1", len(sub.Instructions))
	}
	if _, ok := sub.Instructions[0].(ast.Hlt); !ok {
		t.Fatalf("instruction = %#v, want ast.Hlt", sub.Instructions[0])
	}
}

func TestParseAddRegisters(t *testing.T) {
	prog := mustParse(t, "main:\n    ADD A B\n    HLT\n")
	sub := prog.Subroutines[0]
	if len(sub.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2", len(sub.Instructions))
	}
	add, ok := sub.Instructions[0].(ast.Add)
	if !ok {
		t.Fatalf("instruction 0 = %#v, want ast.Add", sub.Instructions[0])
	}
	if add.Reg != 0 || !add.Src.IsRegister || add.Src.Register != 1 {
		t.Fatalf("ADD operands = %#v, want Reg=A Src=register B", add)
	}
}

func TestParseNoMainSubroutine(t *testing.T) {
	files := map[string]string{"main.bread": "other:\n    HLT\n"}
	reader := func(path string) (string, error) { return files[path], nil }
	_, bag := Parse("main.bread", reader)
	if !bag.HasCritical() {
		t.Fatal("expected a critical diagnostic when no main subroutine exists")
	}
}

func TestParseConstSharesNamespace(t *testing.T) {
	prog := mustParse(t, "@const LIMIT 10\nmain:\n    MW A LIMIT\n    HLT\n")
	if prog.Placeholders["LIMIT"] != 10 {
		t.Fatalf("Placeholders[LIMIT] = %d, want 10", prog.Placeholders["LIMIT"])
	}
}

func TestParseInclude(t *testing.T) {
	files := map[string]string{
		"main.bread":  "@include helper\nmain:\n    HLT\n",
		"helper.bread": "",
	}
	reader := func(path string) (string, error) {
		text, ok := files[path]
		if !ok {
			text, ok = files[path+".bread"]
		}
		if !ok {
			return "", errNotFound
		}
		return text, nil
	}
	_, bag := Parse("main.bread", reader)
	if bag.HasCritical() {
		t.Fatalf("unexpected critical diagnostics: %v", bag.Items())
	}
}

func TestParseMacroExpansion(t *testing.T) {
	// Scenario S5 from the spec.
	src := "@macro\nload(x):\n    MW A x\nmain:\n    load 7\n    HLT\n"
	prog := mustParse(t, src)
	sub := prog.Subroutines[0]
	if len(sub.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2 (expansion + HLT): %#v", len(sub.Instructions), sub.Instructions)
	}
	exp, ok := sub.Instructions[0].(ast.MacroExpansion)
	if !ok {
		t.Fatalf("instruction 0 = %#v, want ast.MacroExpansion", sub.Instructions[0])
	}
	if len(exp.Instructions) != 1 {
		t.Fatalf("expansion has %d instructions, want 1", len(exp.Instructions))
	}
	mw, ok := exp.Instructions[0].(ast.Mw)
	if !ok {
		t.Fatalf("expansion instruction = %#v, want ast.Mw", exp.Instructions[0])
	}
	if mw.Src.IsRegister || mw.Src.Immediate.Literal != 7 {
		t.Fatalf("expanded MW operand = %#v, want immediate 7", mw.Src)
	}
}

func TestParseMacroCallsMacroRejected(t *testing.T) {
	src := "@macro\nouter(x):\n    inner x\n@macro\ninner(y):\n    MW A y\nmain:\n    outer 1\n    HLT\n"
	files := map[string]string{"main.bread": src}
	reader := func(path string) (string, error) { return files[path], nil }
	_, bag := Parse("main.bread", reader)
	found := false
	for _, d := range bag.Items() {
		if d.Message == "a macro cannot call another macro" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a MacroCallsMacro diagnostic, got %v", bag.Items())
	}
}

func TestParseNoSuchMacro(t *testing.T) {
	src := "main:\n    frobnicate\n    HLT\n"
	files := map[string]string{"main.bread": src}
	reader := func(path string) (string, error) { return files[path], nil }
	_, bag := Parse("main.bread", reader)
	found := false
	for _, d := range bag.Items() {
		if d.Message == `No such macro "frobnicate"` {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a NoSuchMacro diagnostic, got %v", bag.Items())
	}
}

type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var errNotFound = notFoundError{}
