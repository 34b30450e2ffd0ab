// Package frontend - Lexer for the Quanta circuit language
// Design: Hand-written scanner, newline-terminated statements
package frontend

import (
	"fmt"
	"unicode"
)

type TokenType int

const (
	EOF TokenType = iota
	NEWLINE

	// Literals
	NUMBER
	IDENT

	// Keywords
	CIRCUIT
	QUBIT
	REG
	MEASURE

	// Delimiters
	LBRACE
	RBRACE
	COMMA
	ARROW

	ILLEGAL
)

func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case NEWLINE:
		return "NEWLINE"
	case NUMBER:
		return "NUMBER"
	case IDENT:
		return "IDENT"
	case CIRCUIT:
		return "circuit"
	case QUBIT:
		return "qubit"
	case REG:
		return "reg"
	case MEASURE:
		return "measure"
	case LBRACE:
		return "{"
	case RBRACE:
		return "}"
	case COMMA:
		return ","
	case ARROW:
		return "->"
	case ILLEGAL:
		return "ILLEGAL"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

var keywords = map[string]TokenType{
	"circuit": CIRCUIT,
	"qubit":   QUBIT,
	"reg":     REG,
	"measure": MEASURE,
}

type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Col    int
}

type Lexer struct {
	source []rune
	pos    int
	line   int
	col    int
}

func NewLexer(source string) *Lexer {
	return &Lexer{
		source: []rune(source),
		line:   1,
		col:    1,
	}
}

// Tokenize scans the whole input, returning every token up to and
// including EOF. Illegal runes surface as ILLEGAL tokens so the parser
// can report positioned diagnostics.
func (l *Lexer) Tokenize() []Token {
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func (l *Lexer) Next() Token {
	l.skipSpacesAndComments()

	if l.pos >= len(l.source) {
		return l.token(EOF, "")
	}

	ch := l.source[l.pos]
	switch {
	case ch == '\n':
		tok := l.token(NEWLINE, "\\n")
		l.advance()
		l.line++
		l.col = 1
		return tok
	case ch == '{':
		tok := l.token(LBRACE, "{")
		l.advance()
		return tok
	case ch == '}':
		tok := l.token(RBRACE, "}")
		l.advance()
		return tok
	case ch == ',':
		tok := l.token(COMMA, ",")
		l.advance()
		return tok
	case ch == '-' && l.peek(1) == '>':
		tok := l.token(ARROW, "->")
		l.advance()
		l.advance()
		return tok
	case ch == '-' || ch == '.' || unicode.IsDigit(ch):
		return l.number()
	case ch == '_' || unicode.IsLetter(ch):
		return l.ident()
	default:
		tok := l.token(ILLEGAL, string(ch))
		l.advance()
		return tok
	}
}

func (l *Lexer) number() Token {
	start := l.pos
	startCol := l.col
	if l.source[l.pos] == '-' {
		l.advance()
	}
	seenDot := false
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == '.' && !seenDot {
			seenDot = true
			l.advance()
			continue
		}
		if ch == 'e' || ch == 'E' {
			l.advance()
			if l.pos < len(l.source) && (l.source[l.pos] == '-' || l.source[l.pos] == '+') {
				l.advance()
			}
			continue
		}
		if !unicode.IsDigit(ch) {
			break
		}
		l.advance()
	}
	lexeme := string(l.source[start:l.pos])
	if lexeme == "-" || lexeme == "." {
		return Token{Type: ILLEGAL, Lexeme: lexeme, Line: l.line, Col: startCol}
	}
	return Token{Type: NUMBER, Lexeme: lexeme, Line: l.line, Col: startCol}
}

func (l *Lexer) ident() Token {
	start := l.pos
	startCol := l.col
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch != '_' && !unicode.IsLetter(ch) && !unicode.IsDigit(ch) {
			break
		}
		l.advance()
	}
	lexeme := string(l.source[start:l.pos])
	if kw, ok := keywords[lexeme]; ok {
		return Token{Type: kw, Lexeme: lexeme, Line: l.line, Col: startCol}
	}
	return Token{Type: IDENT, Lexeme: lexeme, Line: l.line, Col: startCol}
}

func (l *Lexer) skipSpacesAndComments() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.advance()
			continue
		}
		if ch == '/' && l.peek(1) == '/' {
			for l.pos < len(l.source) && l.source[l.pos] != '\n' {
				l.advance()
			}
			continue
		}
		return
	}
}

func (l *Lexer) token(t TokenType, lexeme string) Token {
	return Token{Type: t, Lexeme: lexeme, Line: l.line, Col: l.col}
}

func (l *Lexer) advance() {
	l.pos++
	l.col++
}

func (l *Lexer) peek(n int) rune {
	if l.pos+n >= len(l.source) {
		return 0
	}
	return l.source[l.pos+n]
}
