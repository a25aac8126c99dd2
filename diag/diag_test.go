package diag

import (
	"strings"
	"testing"

	"github.com/bloofirephoenix/BreadLang/token"
)

func TestDiagnosticIsCritical(t *testing.T) {
	crit := New("main.bread", 3, NoMainSubroutine, "msg", Critical)
	warn := New("main.bread", 3, NumberTooBig, "msg", NonCritical)
	if !crit.IsCritical() {
		t.Error("Critical diagnostic reported as non-critical")
	}
	if warn.IsCritical() {
		t.Error("NonCritical diagnostic reported as critical")
	}
}

func TestDiagnosticString(t *testing.T) {
	d := New("main.bread", 12, InvalidNumber, "bad number", Critical)
	want := "main.bread:12: bad number"
	if got := d.String(); got != want {
		t.Errorf("Diagnostic.String() = %q, want %q", got, want)
	}
	if got := d.Error(); got != want {
		t.Errorf("Diagnostic.Error() = %q, want %q", got, want)
	}
}

func TestExpected(t *testing.T) {
	tok := token.Token{Kind: token.Comma, Pos: token.Position{File: "a.bread", Line: 4}}
	d := Expected("a register", tok, Critical)
	if d.Code != ExpectedButFound {
		t.Errorf("Expected() code = %v, want ExpectedButFound", d.Code)
	}
	if !strings.Contains(d.Message, "a register") || !strings.Contains(d.Message, "','") {
		t.Errorf("Expected() message = %q missing expected substrings", d.Message)
	}
}

func TestFromTokenMessages(t *testing.T) {
	tok := token.Token{Text: "frobnicate", Pos: token.Position{File: "a.bread", Line: 1}}
	cases := []struct {
		code Code
		want string
	}{
		{NoSuchMacro, `No such macro "frobnicate"`},
		{NoSuchFile, `No such file "frobnicate"`},
		{MacroCallsMacro, "A macro cannot call another macro"},
		{NoMainSubroutine, `A "main" subroutine is required`},
	}
	for _, c := range cases {
		d := FromToken(c.code, tok, Critical)
		if d.Message != c.want {
			t.Errorf("FromToken(%v) message = %q, want %q", c.code, d.Message, c.want)
		}
	}
}

func TestBagHasCritical(t *testing.T) {
	var bag Bag
	bag.Addf("a.bread", 1, NumberTooBig, NonCritical, "warning %d", 1)
	if bag.HasCritical() {
		t.Fatal("bag with only non-critical diagnostics reports HasCritical")
	}
	bag.Addf("a.bread", 2, NoMainSubroutine, Critical, "no main")
	if !bag.HasCritical() {
		t.Fatal("bag with a critical diagnostic does not report HasCritical")
	}
	if bag.Len() != 2 {
		t.Fatalf("bag.Len() = %d, want 2", bag.Len())
	}
}

func TestBagError(t *testing.T) {
	var bag Bag
	bag.Add(New("a.bread", 1, InvalidNumber, "first", Critical))
	bag.Add(New("a.bread", 2, InvalidNumber, "second", Critical))
	want := "a.bread:1: first\na.bread:2: second"
	if got := bag.Error(); got != want {
		t.Errorf("Bag.Error() = %q, want %q", got, want)
	}
}
