package jstype

import (
	"fmt"
	"unicode"
)

// SyntaxError describes a malformed type expression. Offset counts runes
// from the start of Input.
type SyntaxError struct {
	Input  string
	Offset int
	Near   string
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("malformed type expression %q at offset %d: %s", e.Input, e.Offset, e.Msg)
	}
	return fmt.Sprintf("malformed type expression %q at offset %d near %q: %s", e.Input, e.Offset, e.Near, e.Msg)
}

// Parser is a recursive-descent parser for Closure type expressions.
type Parser struct {
	input []rune
	pos   int
	len   int
	err   *SyntaxError
}

// Parse parses a complete type expression as it appears between the braces
// of a JSDoc tag. A leading ... and a trailing = are accepted at the top
// level only.
func Parse(text string) (Expr, error) {
	p := &Parser{input: []rune(text)}
	p.len = len(p.input)

	p.skipWhitespace()
	if p.pos >= p.len {
		p.fail("empty type expression")
		return nil, p.err
	}

	e := p.parseTop(true)
	p.skipWhitespace()
	if p.err == nil && p.pos < p.len {
		p.fail("unexpected %q", string(p.peek()))
	}
	if p.err != nil {
		return nil, p.err
	}
	return e, nil
}

// parseTop parses ['...'] union ['='].
func (p *Parser) parseTop(allowVariadic bool) Expr {
	p.skipWhitespace()
	var e Expr
	if allowVariadic && p.match("...") {
		p.advance(3)
		var inner Expr = Unknown{}
		if !p.atTerminator() {
			inner = p.parseUnion()
		}
		e = Variadic{Inner: inner}
	} else {
		e = p.parseUnion()
	}

	p.skipWhitespace()
	if p.err == nil && p.peek() == '=' {
		p.advance(1)
		e = Optional{Inner: e}
	}
	return e
}

func (p *Parser) parseUnion() Expr {
	first := p.parseTypeExpr()
	p.skipWhitespace()
	if p.peek() != '|' {
		return first
	}

	members := []Expr{first}
	for p.err == nil && p.peek() == '|' {
		p.advance(1)
		members = append(members, p.parseTypeExpr())
		p.skipWhitespace()
	}
	return Union{Members: members}
}

// parseTypeExpr parses a single non-union type and applies the ambient
// nullability of bare object names.
func (p *Parser) parseTypeExpr() Expr {
	p.skipWhitespace()
	switch p.peek() {
	case '!':
		p.advance(1)
		return NonNullable{Inner: p.parseOperand()}
	case '?':
		p.advance(1)
		if p.atTerminator() {
			return Unknown{}
		}
		return Nullable{Inner: p.parseOperand()}
	}

	t := p.parseOperand()
	return implicit(t)
}

func implicit(t Expr) Expr {
	if n, ok := t.(Named); ok && implicitlyNullable(n.Name) {
		return Nullable{Inner: n, Implicit: true}
	}
	return t
}

// parseOperand parses a type without ambient nullability.
func (p *Parser) parseOperand() Expr {
	p.skipWhitespace()
	if p.err != nil {
		return Unknown{}
	}

	ch := p.peek()
	switch {
	case ch == '!' || ch == '?':
		return p.parseTypeExpr()
	case ch == '(':
		p.advance(1)
		e := p.parseUnion()
		p.expect(')')
		return e
	case ch == '{':
		return p.parseRecord()
	case ch == '*':
		p.advance(1)
		return p.parseArraySuffix(Named{Name: "*"})
	case isNameStart(ch):
		name := p.readName()
		if name == "function" && p.peekNonSpace() == '(' {
			return p.parseFunction()
		}
		n := Named{Name: name}
		if p.match(".<") {
			p.advance(2)
			n.Args = p.parseTypeArgs()
		} else if p.peek() == '<' {
			p.advance(1)
			n.Args = p.parseTypeArgs()
		}
		return p.parseArraySuffix(n)
	case ch == 0:
		p.fail("unexpected end of type expression")
	default:
		p.fail("unexpected %q", string(ch))
	}
	return Unknown{}
}

func (p *Parser) parseTypeArgs() []Expr {
	var args []Expr
	for p.err == nil {
		args = append(args, p.parseUnion())
		p.skipWhitespace()
		if p.peek() != ',' {
			break
		}
		p.advance(1)
	}
	p.expect('>')
	return args
}

// parseArraySuffix rewrites T[] as Array.<T>.
func (p *Parser) parseArraySuffix(t Named) Expr {
	var e Expr = t
	for p.err == nil && p.peek() == '[' && p.peekAt(1) == ']' {
		p.advance(2)
		e = Named{Name: "Array", Args: []Expr{implicit(e)}}
	}
	return e
}

func (p *Parser) parseFunction() Expr {
	p.expect('(')
	fn := Function{}

	p.skipWhitespace()
	save := p.pos
	if word := p.readName(); word == "this" || word == "new" {
		p.skipWhitespace()
		if p.peek() == ':' {
			p.advance(1)
			fn.This = p.parseTypeExpr()
			fn.New = word == "new"
			p.skipWhitespace()
			if p.peek() == ',' {
				p.advance(1)
			}
		} else {
			p.pos = save
		}
	} else {
		p.pos = save
	}

	for p.err == nil {
		p.skipWhitespace()
		if p.peek() == ')' {
			break
		}
		fn.Params = append(fn.Params, p.parseTop(true))
		p.skipWhitespace()
		if p.peek() != ',' {
			break
		}
		p.advance(1)
	}
	p.expect(')')

	p.skipWhitespace()
	if p.err == nil && p.peek() == ':' {
		p.advance(1)
		ret := p.parseTypeExpr()
		if n, ok := ret.(Named); !ok || n.Name != "void" || len(n.Args) > 0 {
			fn.Return = ret
		}
	}
	return fn
}

func (p *Parser) parseRecord() Expr {
	p.advance(1)
	rec := Record{}
	for p.err == nil {
		p.skipWhitespace()
		if p.peek() == '}' {
			break
		}

		var key string
		if p.peek() == '\'' || p.peek() == '"' {
			key = p.readQuoted()
		} else {
			key = p.readIdentifier()
		}
		if key == "" {
			p.fail("expected record field name")
			break
		}

		var t Expr = Unknown{}
		p.skipWhitespace()
		if p.peek() == ':' {
			p.advance(1)
			t = p.parseTop(false)
		}
		rec.Fields = append(rec.Fields, Field{Name: key, Type: t})

		p.skipWhitespace()
		if p.peek() != ',' {
			break
		}
		p.advance(1)
	}
	p.expect('}')
	return rec
}

// atTerminator reports whether the next significant rune ends the current
// type, which makes a preceding ? the unknown type.
func (p *Parser) atTerminator() bool {
	switch p.peekNonSpace() {
	case 0, ',', ')', '>', '|', '=', '}', ']':
		return true
	}
	return false
}

func (p *Parser) fail(format string, args ...any) {
	if p.err != nil {
		return
	}
	end := p.pos + 16
	if end > p.len {
		end = p.len
	}
	p.err = &SyntaxError{
		Input:  string(p.input),
		Offset: p.pos,
		Near:   string(p.input[p.pos:end]),
		Msg:    fmt.Sprintf(format, args...),
	}
}

func (p *Parser) expect(ch rune) {
	p.skipWhitespace()
	if p.err != nil {
		return
	}
	if p.peek() != ch {
		if p.peek() == 0 {
			p.fail("expected %q, found end of input", string(ch))
		} else {
			p.fail("expected %q", string(ch))
		}
		return
	}
	p.advance(1)
}

func (p *Parser) peek() rune {
	if p.pos >= p.len {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) peekAt(offset int) rune {
	pos := p.pos + offset
	if pos >= p.len || pos < 0 {
		return 0
	}
	return p.input[pos]
}

func (p *Parser) peekNonSpace() rune {
	i := p.pos
	for i < p.len && unicode.IsSpace(p.input[i]) {
		i++
	}
	if i >= p.len {
		return 0
	}
	return p.input[i]
}

func (p *Parser) advance(n int) {
	p.pos += n
	if p.pos > p.len {
		p.pos = p.len
	}
}

func (p *Parser) match(s string) bool {
	i := p.pos
	for _, ch := range s {
		if i >= p.len || p.input[i] != ch {
			return false
		}
		i++
	}
	return true
}

func (p *Parser) skipWhitespace() {
	for p.pos < p.len && unicode.IsSpace(p.input[p.pos]) {
		p.advance(1)
	}
}

func (p *Parser) readIdentifier() string {
	start := p.pos
	for p.pos < p.len && isNamePart(p.peek()) {
		p.advance(1)
	}
	return string(p.input[start:p.pos])
}

// readName reads a dotted name, stopping before a .< type argument list.
func (p *Parser) readName() string {
	start := p.pos
	if !isNameStart(p.peek()) {
		return ""
	}
	for p.pos < p.len {
		ch := p.peek()
		if isNamePart(ch) {
			p.advance(1)
			continue
		}
		if ch == '.' && isNameStart(p.peekAt(1)) {
			p.advance(1)
			continue
		}
		break
	}
	return string(p.input[start:p.pos])
}

func (p *Parser) readQuoted() string {
	quote := p.peek()
	p.advance(1)
	start := p.pos
	for p.pos < p.len && p.peek() != quote {
		p.advance(1)
	}
	s := string(p.input[start:p.pos])
	if p.peek() == quote {
		p.advance(1)
	}
	return s
}

func isNameStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_' || ch == '$'
}

func isNamePart(ch rune) bool {
	return isNameStart(ch) || unicode.IsDigit(ch)
}
