// Package lexer turns BreadLang source text into a token stream.
//
// It is a small hand-written, byte-at-a-time scanner rather than a
// wrapper around text/scanner: BreadLang's indentation carries meaning
// (subroutine and macro bodies are recognized by their leading
// whitespace, not by a block delimiter), which db47h-ngaro's own
// text/scanner-based asm/parser.go does not need to express. The
// structure — a cursor over the source runes, one method per token
// class, errors recorded rather than returned immediately — follows
// the source language's own lexer module.
package lexer

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/bloofirephoenix/BreadLang/diag"
	"github.com/bloofirephoenix/BreadLang/isa"
	"github.com/bloofirephoenix/BreadLang/token"
)

// Lexer scans one file's worth of BreadLang source into tokens.
type Lexer struct {
	src      []rune
	start    int
	current  int
	line     int
	file     string
	tokens   []token.Token
	errs     diag.Bag
	lastKind token.Kind // kind of the previously emitted token, for indent handling
}

// New creates a Lexer over text, attributing every token to file.
func New(text, file string) *Lexer {
	return &Lexer{
		src:      []rune(text),
		line:     1,
		file:     file,
		lastKind: token.NewLine, // so leading whitespace on line 1 counts as indent
	}
}

// Scan tokenizes the whole source and returns the resulting tokens (always
// terminated by a single EOF token) together with any diagnostics raised
// along the way. The caller should check errs.HasCritical() before using
// the token stream for parsing.
func Scan(text, file string) ([]token.Token, *diag.Bag) {
	l := New(text, file)
	for !l.atEnd() {
		l.start = l.current
		l.scanOne()
	}
	l.emit(token.EOF, "")
	return l.tokens, &l.errs
}

func (l *Lexer) atEnd() bool {
	return l.current >= len(l.src)
}

func (l *Lexer) advance() rune {
	r := l.src[l.current]
	l.current++
	return r
}

func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	return l.src[l.current]
}

func (l *Lexer) peekNext() rune {
	if l.current+1 >= len(l.src) {
		return 0
	}
	return l.src[l.current+1]
}

func (l *Lexer) emit(kind token.Kind, text string) {
	l.tokens = append(l.tokens, token.Token{Kind: kind, Text: text, Pos: token.Position{File: l.file, Line: l.line}})
	l.lastKind = kind
}

func (l *Lexer) emitValue(kind token.Kind, text string, value int64) {
	l.tokens = append(l.tokens, token.Token{Kind: kind, Text: text, Value: value, Pos: token.Position{File: l.file, Line: l.line}})
	l.lastKind = kind
}

func (l *Lexer) errorf(code diag.Code, severity diag.Severity, format string, args ...interface{}) {
	l.errs.Addf(l.file, l.line, code, severity, format, args...)
}

func (l *Lexer) scanOne() {
	r := l.advance()
	switch r {
	case ',':
		l.emit(token.Comma, ",")
	case ':':
		l.emit(token.Colon, ":")
	case '(':
		l.emit(token.OpenParen, "(")
	case ')':
		l.emit(token.CloseParen, ")")
	case ';':
		for l.peek() != '\n' && !l.atEnd() {
			l.advance()
		}
	case ' ', '\t':
		// Leading whitespace right after a newline (or at the very start
		// of the file) is an Indent token; whitespace in the middle of a
		// line is simply discarded, matching the source lexer's own
		// policy of only caring about indentation at line starts.
		if l.lastKind == token.NewLine {
			l.indent(r)
		}
	case '\r':
		// ignored
	case '\n':
		l.emit(token.NewLine, "\n")
		l.line++
	case '@':
		l.atKeyword()
	default:
		switch {
		case unicode.IsDigit(r):
			l.number(r)
		case isIdentStart(r):
			l.identifier(r)
		default:
			l.errorf(diag.UnexpectedChar, diag.Critical, "Unexpected character %q", r)
		}
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '.' || r == '\\' || r == '/'
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// indent consumes a run of spaces/tabs starting with the already
// consumed rune first, emitting a single Indent token carrying the raw
// whitespace text.
func (l *Lexer) indent(first rune) {
	var sb strings.Builder
	sb.WriteRune(first)
	for l.peek() == ' ' || l.peek() == '\t' {
		sb.WriteRune(l.advance())
	}
	l.emit(token.Indent, sb.String())
}

func (l *Lexer) atKeyword() {
	start := l.current
	for isIdentCont(l.peek()) {
		l.advance()
	}
	text := string(l.src[start:l.current])
	switch text {
	case "macro":
		l.emit(token.KwMacro, "@macro")
	case "include":
		l.emit(token.KwInclude, "@include")
	case "const":
		l.emit(token.KwConst, "@const")
	default:
		// Not a recognized directive: report but keep lexing so later
		// errors in the same file are still surfaced.
		l.errorf(diag.UnexpectedChar, diag.Critical, "Unknown directive @%s", text)
	}
}

func (l *Lexer) number(first rune) {
	var sb strings.Builder
	sb.WriteRune(first)
	consume := func() {
		for isHexDigitOrSep(l.peek()) {
			sb.WriteRune(l.advance())
		}
	}
	if first == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		sb.WriteRune(l.advance())
		consume()
	} else if first == '0' && (l.peek() == 'b' || l.peek() == 'B') {
		sb.WriteRune(l.advance())
		consume()
	} else {
		for unicode.IsDigit(l.peek()) || l.peek() == '_' {
			sb.WriteRune(l.advance())
		}
	}
	text := sb.String()
	value, ok := parseNumber(text)
	if !ok {
		l.errorf(diag.InvalidNumber, diag.Critical, "Invalid Number: only positive decimal, hexadecimal, and binary numbers are allowed")
		l.emitValue(token.Number, text, 0)
		return
	}
	l.emitValue(token.Number, text, value)
}

func isHexDigitOrSep(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') || r == '_'
}

// parseNumber decodes a BreadLang numeric literal: 0x/0X hex, 0b/0B
// binary, or plain decimal, each optionally '_'-separated.
func parseNumber(text string) (int64, bool) {
	clean := strings.ReplaceAll(text, "_", "")
	var base int
	switch {
	case strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X"):
		base = 16
		clean = clean[2:]
	case strings.HasPrefix(clean, "0b") || strings.HasPrefix(clean, "0B"):
		base = 2
		clean = clean[2:]
	default:
		base = 10
	}
	if clean == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(clean, base, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (l *Lexer) identifier(first rune) {
	start := l.current - 1
	for isIdentCont(l.peek()) {
		l.advance()
	}
	text := string(l.src[start:l.current])
	switch text {
	case "DEF":
		l.emit(token.Def, text)
		return
	}
	if reg, ok := isa.RegisterByName(text); ok {
		l.emitValue(token.Register, text, int64(reg))
		return
	}
	if isa.IsMnemonic(text) {
		l.emit(token.Mnemonic, text)
		return
	}
	l.emit(token.Identifier, text)
}
