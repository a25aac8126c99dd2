// Package parser builds a Program AST out of a BreadLang token stream.
//
// The shape mirrors the source language's own parser: a flat token
// cursor shared by every sub-parser (program, subroutine, instruction,
// macro, operand), "insert" splicing for @include, and a two-stage
// macro resolution (collect raw bodies while walking the program, then
// substitute and re-parse each call site once the whole program is
// known). None of this needs db47h-ngaro's text/scanner-based
// approach (asm/parser.go): that parser lexes straight into an
// instruction stream with no AST at all, because ngaro's assembly has
// no subroutines, macros or indentation to track. BreadLang's richer
// grammar calls for an actual tree, built the way
// lookbusy1344-arm_emulator/parser/parser.go structures its own
// Parser/Program/Instruction types.
package parser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bloofirephoenix/BreadLang/ast"
	"github.com/bloofirephoenix/BreadLang/diag"
	"github.com/bloofirephoenix/BreadLang/lexer"
	"github.com/bloofirephoenix/BreadLang/token"
)

// FileReader resolves a BreadLang source path to its contents. Tests
// pass an in-memory implementation; the CLI passes one backed by
// os.ReadFile.
type FileReader func(path string) (string, error)

// OSReader reads source files directly from disk.
func OSReader(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// parser is the shared mutable state every sub-parser operates on.
type parser struct {
	tokens  []token.Token
	pos     int
	bag     *diag.Bag
	loaded  map[string]bool
	read    FileReader
	macros  map[string]*ast.MacroDef
	program *ast.Program
}

// Parse lexes entryFile and every file it @includes, then parses the
// resulting token stream into a Program. The returned diagnostics bag
// should be checked with HasCritical before trusting the Program.
func Parse(entryFile string, read FileReader) (*ast.Program, *diag.Bag) {
	p := &parser{
		bag:    &diag.Bag{},
		loaded: map[string]bool{},
		read:   read,
		macros: map[string]*ast.MacroDef{},
		program: &ast.Program{
			Macros:       map[string]*ast.MacroDef{},
			Placeholders: map[string]uint16{},
		},
	}

	text, err := read(entryFile)
	if err != nil {
		p.bag.Add(diag.New(entryFile, 0, diag.NoSuchFile, "No such file \""+entryFile+"\"", diag.Critical))
		return p.program, p.bag
	}
	p.loaded[canonical(entryFile)] = true
	toks, lexErrs := lexer.Scan(text, entryFile)
	p.appendDiag(lexErrs)
	p.tokens = stripTrailingEOF(toks)

	var mainSub *ast.Subroutine
	for !p.atEnd() {
		p.skipBlank()
		if p.atEnd() {
			break
		}
		tok := p.cur()
		switch tok.Kind {
		case token.KwMacro:
			p.parseMacroDef()
		case token.KwInclude:
			p.parseInclude(filepath.Dir(entryFile))
		case token.KwConst:
			p.parseConst()
		case token.Identifier:
			sub := p.parseSubroutine()
			if sub != nil {
				if sub.Name == "main" && sub.File == entryFile {
					mainSub = sub
				} else {
					p.program.Subroutines = append(p.program.Subroutines, sub)
				}
			}
		default:
			p.bag.Add(diag.Expected("macro, subroutine, include, or const", tok, diag.NonCritical))
			p.advance()
		}
	}

	if mainSub == nil {
		p.bag.Add(diag.New(entryFile, 0, diag.NoMainSubroutine, `A "main" subroutine is required`, diag.Critical))
		return p.program, p.bag
	}
	p.program.Subroutines = append([]*ast.Subroutine{mainSub}, p.program.Subroutines...)
	p.program.Macros = p.macros

	if p.bag.HasCritical() {
		return p.program, p.bag
	}

	p.resolveMacroCalls()

	return p.program, p.bag
}

func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func stripTrailingEOF(toks []token.Token) []token.Token {
	if len(toks) > 0 && toks[len(toks)-1].Kind == token.EOF {
		return toks[:len(toks)-1]
	}
	return toks
}

func (p *parser) appendDiag(b *diag.Bag) {
	for _, d := range b.Items() {
		p.bag.Add(d)
	}
}

// --- cursor primitives ---

func (p *parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) cur() token.Token {
	if p.atEnd() {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) peek(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[idx]
}

func (p *parser) advance() token.Token {
	t := p.cur()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

// insert splices toks (caller strips any trailing EOF) at the cursor.
func (p *parser) insert(toks []token.Token) {
	head := append([]token.Token{}, p.tokens[:p.pos]...)
	tail := append([]token.Token{}, p.tokens[p.pos:]...)
	p.tokens = append(append(head, toks...), tail...)
}

func (p *parser) skipNewLines() {
	for p.cur().Kind == token.NewLine {
		p.advance()
	}
}

// skipBlank skips newlines and stray indents that appear outside of any
// instruction list (blank or whitespace-only lines between top-level items).
func (p *parser) skipBlank() {
	for p.cur().Kind == token.NewLine || p.cur().Kind == token.Indent {
		p.advance()
	}
}

func (p *parser) expect(kind token.Kind, what string) (token.Token, bool) {
	if p.cur().Kind == kind {
		return p.advance(), true
	}
	p.bag.Add(diag.Expected(what, p.cur(), diag.NonCritical))
	return token.Token{}, false
}

// --- @include ---

func (p *parser) parseInclude(relativeTo string) {
	incTok := p.advance() // consume @include
	var sb strings.Builder
	for p.cur().Kind == token.Identifier {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(p.advance().Text)
	}
	path := sb.String()
	if path == "" {
		p.bag.Add(diag.Expected("file path", p.cur(), diag.Critical))
		return
	}
	full := filepath.Join(relativeTo, path)
	if p.loaded[canonical(full)] {
		// Scenario 10: including twice is silently ignored; the token
		// stream produced by the first inclusion already stands.
		p.skipToNewLine()
		return
	}
	text, err := p.read(full)
	if err != nil {
		p.bag.Add(diag.New(incTok.Pos.File, incTok.Pos.Line, diag.NoSuchFile, "No such file \""+full+"\"", diag.Critical))
		return
	}
	p.loaded[canonical(full)] = true
	toks, lexErrs := lexer.Scan(text, full)
	p.appendDiag(lexErrs)
	p.insert(stripTrailingEOF(toks))
}

func (p *parser) skipToNewLine() {
	for p.cur().Kind != token.NewLine && p.cur().Kind != token.EOF {
		p.advance()
	}
}

// --- @const ---

func (p *parser) parseConst() {
	p.advance() // @const
	name, ok := p.expect(token.Identifier, "identifier")
	if !ok {
		p.skipToNewLine()
		return
	}
	num, ok := p.expect(token.Number, "number")
	if !ok {
		p.skipToNewLine()
		return
	}
	if num.Value < 0 || num.Value > 0xFFFF {
		p.bag.Add(diag.FromToken(diag.NumberTooBig, num, diag.NonCritical))
	}
	p.program.Placeholders[name.Text] = uint16(num.Value)
	p.skipToNewLine()
}
