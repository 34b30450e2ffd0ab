// Package frontend - Recursive descent parser for the Quanta circuit language
package frontend

import (
	"strconv"

	"github.com/GriffinCanCode/quanta-compiler/pkg/diag"
)

type Parser struct {
	file  string
	toks  []Token
	pos   int
	diags diag.List
}

// NewParser wraps a token stream produced by the lexer
func NewParser(file string, toks []Token) *Parser {
	return &Parser{file: file, toks: toks}
}

// Parse consumes the token stream and returns the AST plus any syntax
// diagnostics. Parsing recovers at statement boundaries so one bad line
// does not hide later errors.
func (p *Parser) Parse() (*File, diag.List) {
	f := &File{Path: p.file}

	for !p.at(EOF) {
		if p.at(NEWLINE) {
			p.next()
			continue
		}
		if p.at(CIRCUIT) {
			if c := p.circuit(); c != nil {
				f.Circuits = append(f.Circuits, c)
			}
			continue
		}
		p.errorf(p.cur(), "expected 'circuit', got %s", p.cur().Type)
		p.syncToNewline()
	}

	if len(f.Circuits) == 0 && !p.diags.HasErrors() {
		p.diags = append(p.diags, diag.Errorf(diag.ClassSyntax, p.file, 1, 1, "no circuit definitions"))
	}
	return f, p.diags
}

func (p *Parser) circuit() *Circuit {
	kw := p.next() // circuit keyword

	name := p.expect(IDENT, "circuit name")
	if name == nil {
		p.syncToNewline()
		return nil
	}
	c := &Circuit{Name: name.Lexeme, Line: kw.Line, Col: kw.Col}

	if p.expect(LBRACE, "'{'") == nil {
		p.syncToNewline()
		return nil
	}
	p.skipNewlines()

	for !p.at(RBRACE) && !p.at(EOF) {
		if stmt := p.statement(); stmt != nil {
			c.Stmts = append(c.Stmts, stmt)
		}
		p.skipNewlines()
	}

	if p.expect(RBRACE, "'}'") == nil {
		return c
	}
	return c
}

func (p *Parser) statement() Stmt {
	switch p.cur().Type {
	case QUBIT:
		return p.declStmt(true)
	case REG:
		return p.declStmt(false)
	case MEASURE:
		return p.measureStmt()
	case IDENT:
		return p.gateStmt()
	default:
		p.errorf(p.cur(), "expected statement, got %s", p.cur().Type)
		p.syncToNewline()
		return nil
	}
}

func (p *Parser) declStmt(qubits bool) Stmt {
	kw := p.next()

	var names []string
	for {
		id := p.expect(IDENT, "declaration name")
		if id == nil {
			p.syncToNewline()
			return nil
		}
		names = append(names, id.Lexeme)
		if !p.at(COMMA) {
			break
		}
		p.next()
	}

	if qubits {
		return &QubitDecl{Names: names, Line: kw.Line, Col: kw.Col}
	}
	return &RegDecl{Names: names, Line: kw.Line, Col: kw.Col}
}

func (p *Parser) gateStmt() Stmt {
	mnemonic := p.next()
	stmt := &GateStmt{Mnemonic: mnemonic.Lexeme, Line: mnemonic.Line, Col: mnemonic.Col}

	for !p.at(NEWLINE) && !p.at(RBRACE) && !p.at(EOF) {
		switch p.cur().Type {
		case IDENT:
			tok := p.next()
			stmt.Args = append(stmt.Args, IdentArg{Name: tok.Lexeme, Line: tok.Line, Col: tok.Col})
		case NUMBER:
			tok := p.next()
			val, err := strconv.ParseFloat(tok.Lexeme, 64)
			if err != nil {
				p.errorf(tok, "malformed number %q", tok.Lexeme)
				p.syncToNewline()
				return nil
			}
			stmt.Args = append(stmt.Args, NumberArg{Value: val, Line: tok.Line, Col: tok.Col})
		default:
			p.errorf(p.cur(), "expected gate argument, got %s", p.cur().Type)
			p.syncToNewline()
			return nil
		}
		if p.at(COMMA) {
			p.next()
		}
	}
	return stmt
}

func (p *Parser) measureStmt() Stmt {
	kw := p.next()

	q := p.expect(IDENT, "qubit name")
	if q == nil {
		p.syncToNewline()
		return nil
	}
	if p.expect(ARROW, "'->'") == nil {
		p.syncToNewline()
		return nil
	}
	r := p.expect(IDENT, "register name")
	if r == nil {
		p.syncToNewline()
		return nil
	}
	return &MeasureStmt{Qubit: q.Lexeme, Reg: r.Lexeme, Line: kw.Line, Col: kw.Col}
}

func (p *Parser) cur() Token {
	return p.toks[p.pos]
}

func (p *Parser) at(t TokenType) bool {
	return p.cur().Type == t
}

func (p *Parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Type != EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(t TokenType, what string) *Token {
	if !p.at(t) {
		p.errorf(p.cur(), "expected %s, got %s", what, p.cur().Type)
		return nil
	}
	tok := p.next()
	return &tok
}

func (p *Parser) skipNewlines() {
	for p.at(NEWLINE) {
		p.next()
	}
}

func (p *Parser) syncToNewline() {
	for !p.at(NEWLINE) && !p.at(RBRACE) && !p.at(EOF) {
		p.next()
	}
}

func (p *Parser) errorf(tok Token, format string, args ...interface{}) {
	p.diags = append(p.diags, diag.Errorf(diag.ClassSyntax, p.file, tok.Line, tok.Col, format, args...))
}
