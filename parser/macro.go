package parser

import (
	"github.com/bloofirephoenix/BreadLang/ast"
	"github.com/bloofirephoenix/BreadLang/diag"
	"github.com/bloofirephoenix/BreadLang/token"
)

// parseMacroDef parses `@macro NL name(params) ':' NL (indent tokens)*`
// and registers the result in p.macros. The body is captured as raw
// tokens, not parsed instructions: it is re-parsed once per call site
// after parameter substitution (see resolveMacroCalls).
func (p *parser) parseMacroDef() {
	p.advance() // @macro
	p.skipNewLines()
	nameTok, ok := p.expect(token.Identifier, "macro name")
	if !ok {
		p.skipToNewLine()
		return
	}
	if _, ok := p.expect(token.OpenParen, "'('"); !ok {
		p.skipToNewLine()
		return
	}
	var params []string
	seen := map[string]bool{}
	for p.cur().Kind != token.CloseParen && p.cur().Kind != token.EOF {
		pt, ok := p.expect(token.Identifier, "parameter name")
		if !ok {
			break
		}
		if seen[pt.Text] {
			p.bag.Add(diag.New(pt.Pos.File, pt.Pos.Line, diag.ExpectedButFound,
				"duplicate macro parameter \""+pt.Text+"\"", diag.Critical))
		}
		seen[pt.Text] = true
		params = append(params, pt.Text)
		if p.cur().Kind == token.Comma {
			p.advance()
		}
	}
	if _, ok := p.expect(token.CloseParen, "')'"); !ok {
		p.skipToNewLine()
		return
	}
	if _, ok := p.expect(token.Colon, "':'"); !ok {
		p.skipToNewLine()
		return
	}
	p.skipNewLines()

	body := p.captureIndentedBody()
	p.macros[nameTok.Text] = &ast.MacroDef{Name: nameTok.Text, Params: params, Body: body}
}

// captureIndentedBody collects the raw tokens of every indented line
// that follows, stopping at the first non-indented, non-blank token.
// Each line's Indent token and its trailing NewLine are kept in the
// captured body so it can be re-parsed later as if it were its own
// instruction list.
func (p *parser) captureIndentedBody() []token.Token {
	var body []token.Token
	for {
		for p.cur().Kind == token.NewLine {
			p.advance()
		}
		if p.cur().Kind != token.Indent {
			break
		}
		indentTok := p.advance()
		body = append(body, token.Token{Kind: token.Indent, Text: indentTok.Text, Pos: indentTok.Pos})
		for p.cur().Kind != token.NewLine && p.cur().Kind != token.EOF {
			body = append(body, p.advance())
		}
		if p.cur().Kind == token.NewLine {
			body = append(body, p.advance())
		}
	}
	return body
}

// resolveMacroCalls walks every subroutine's instruction list, replacing
// each MacroCall with its expanded MacroExpansion.
func (p *parser) resolveMacroCalls() {
	for _, sub := range p.program.Subroutines {
		sub.Instructions = p.resolveInstructions(sub.Instructions)
	}
}

func (p *parser) resolveInstructions(instrs []ast.Instruction) []ast.Instruction {
	out := make([]ast.Instruction, len(instrs))
	for i, instr := range instrs {
		call, ok := instr.(ast.MacroCall)
		if !ok {
			out[i] = instr
			continue
		}
		out[i] = p.expandMacroCall(call)
	}
	return out
}

func (p *parser) expandMacroCall(call ast.MacroCall) ast.Instruction {
	def, ok := p.macros[call.Name]
	if !ok {
		p.bag.Add(diag.FromToken(diag.NoSuchMacro, token.Token{Kind: token.Identifier, Text: call.Name, Pos: call.Pos}, diag.NonCritical))
		return ast.MacroExpansion{Name: call.Name}
	}

	substituted := substituteParams(def, call.Args)
	substituted = append(substituted, token.Token{Kind: token.EOF, Pos: call.Pos})

	child := &parser{
		tokens: substituted,
		bag:    p.bag,
		loaded: p.loaded,
		read:   p.read,
		macros: p.macros,
	}
	instructions := child.parseInstructionList()

	clean := instructions[:0:0]
	for _, instr := range instructions {
		if _, isCall := instr.(ast.MacroCall); isCall {
			p.bag.Add(diag.New(call.Pos.File, call.Pos.Line, diag.MacroCallsMacro,
				"a macro cannot call another macro", diag.NonCritical))
			continue
		}
		clean = append(clean, instr)
	}

	return ast.MacroExpansion{Name: call.Name, Instructions: clean}
}

// substituteParams replaces every occurrence of a formal parameter name
// inside def.Body with the corresponding positional argument token from
// args, leaving every other token untouched.
func substituteParams(def *ast.MacroDef, args []token.Token) []token.Token {
	index := map[string]int{}
	for i, name := range def.Params {
		index[name] = i
	}
	out := make([]token.Token, 0, len(def.Body))
	for _, tok := range def.Body {
		if tok.Kind == token.Identifier {
			if i, isParam := index[tok.Text]; isParam && i < len(args) {
				out = append(out, args[i])
				continue
			}
		}
		out = append(out, tok)
	}
	return out
}
