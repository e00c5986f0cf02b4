// Package js finds documented top-level declarations in annotated
// JavaScript sources.
package js

import (
	"strconv"
	"strings"

	"github.com/dhamidi/jsdocgen/jsdoc"
)

// RHSKind is the shape of the right-hand side of a declaration.
type RHSKind int

const (
	// RHSNone is a bare statement: a.b.c;
	RHSNone RHSKind = iota
	// RHSFunction is a function expression with a body.
	RHSFunction
	// RHSObject is an object literal.
	RHSObject
	// RHSExpr is any other expression, kept as raw text.
	RHSExpr
)

func (k RHSKind) String() string {
	switch k {
	case RHSNone:
		return "none"
	case RHSFunction:
		return "function"
	case RHSObject:
		return "object"
	case RHSExpr:
		return "expr"
	}
	return "rhs(" + strconv.Itoa(int(k)) + ")"
}

// Entry is one key of an object literal right-hand side.
type Entry struct {
	Key   string
	Value string
	// Doc is the comment directly before the key, or nil.
	Doc *jsdoc.DocComment
	Pos Position
}

// Declaration is a documented statement of the form
//
//	/** doc */ a.b.c = rhs;
type Declaration struct {
	Doc     *jsdoc.DocComment
	DocText string
	DocPos  Position

	Target string
	RHS    RHSKind
	// Params holds the formal parameter names of an RHSFunction.
	Params []string
	// Entries holds the keys of an RHSObject in source order.
	Entries []Entry
	// Value is the raw text of the right-hand side.
	Value string
	Pos   Position
}

// Path splits the target into its dotted segments.
func (d *Declaration) Path() []string {
	return strings.Split(d.Target, ".")
}

// TagPosition maps a type payload of the doc comment back to the source.
func (d *Declaration) TagPosition(ann jsdoc.TypeAnnotation) Position {
	pos := Position{File: d.DocPos.File, Line: d.DocPos.Line + ann.Line, Column: ann.Column}
	if ann.Line == 0 {
		pos.Column = d.DocPos.Column + ann.Column - 1
	}
	return pos
}

type Option func(*scanner)

// WithFile sets the file name recorded in positions.
func WithFile(name string) Option {
	return func(s *scanner) {
		s.file = name
	}
}

type scanner struct {
	file   string
	src    []byte
	tokens []Token
	pos    int
}

// Scan returns the documented top-level declarations of src in source
// order. Statements without a doc comment and doc comments not followed
// by an assignable name are skipped.
func Scan(src []byte, opts ...Option) []Declaration {
	s := &scanner{src: src}
	for _, opt := range opts {
		opt(s)
	}
	lexer := NewLexer(src, s.file)
	for _, tok := range lexer.All() {
		switch tok.Kind {
		case TokenComment, TokenLineComment:
			continue
		}
		s.tokens = append(s.tokens, tok)
	}
	return s.scan()
}

// Pair is a documentation block and the declaration text that follows it.
type Pair struct {
	Doc  string
	Decl string
}

// FromPairs builds declarations from already separated comment and
// statement texts. Pairs whose statement is not a declaration are dropped.
func FromPairs(pairs []Pair, opts ...Option) []Declaration {
	var out []Declaration
	for _, p := range pairs {
		src := p.Doc + "\n" + p.Decl
		decls := Scan([]byte(src), opts...)
		if len(decls) > 0 {
			out = append(out, decls[0])
		}
	}
	return out
}

func (s *scanner) scan() []Declaration {
	var decls []Declaration
	depth := 0
	for s.pos < len(s.tokens) {
		tok := s.tokens[s.pos]
		switch tok.Kind {
		case TokenEOF:
			return decls
		case TokenLBrace, TokenLParen, TokenLBracket:
			depth++
		case TokenRBrace, TokenRParen, TokenRBracket:
			if depth > 0 {
				depth--
			}
		case TokenDocComment:
			if depth == 0 {
				if decl, ok := s.declaration(tok); ok {
					decls = append(decls, decl)
					continue
				}
			}
		}
		s.pos++
	}
	return decls
}

func (s *scanner) peek() Token {
	if s.pos >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1]
	}
	return s.tokens[s.pos]
}

func (s *scanner) peekN(n int) Token {
	if s.pos+n >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1]
	}
	return s.tokens[s.pos+n]
}

func (s *scanner) next() Token {
	tok := s.peek()
	if s.pos < len(s.tokens) {
		s.pos++
	}
	return tok
}

// declaration recognizes the statement following doc. On failure the
// cursor is left where it was.
func (s *scanner) declaration(doc Token) (Declaration, bool) {
	start := s.pos
	s.pos++

	decl := Declaration{
		Doc:     jsdoc.Parse(doc.Literal),
		DocText: doc.Literal,
		DocPos:  doc.Span.Start,
	}

	if tok := s.peek(); tok.Kind == TokenKeyword {
		switch tok.Literal {
		case "var", "let", "const":
			s.next()
		}
	}

	first := s.peek()
	name, ok := s.qualifiedName()
	if !ok {
		s.pos = start
		return Declaration{}, false
	}
	decl.Target = name
	decl.Pos = first.Span.Start

	tok := s.peek()
	switch {
	case tok.Kind == TokenAssign:
		s.next()
		s.rhs(&decl)
	case tok.Kind == TokenSemicolon:
		s.next()
		decl.RHS = RHSNone
	case tok.Kind == TokenEOF || tok.Kind == TokenRBrace || tok.Kind == TokenDocComment || tok.NewlineBefore:
		decl.RHS = RHSNone
	default:
		s.pos = start
		return Declaration{}, false
	}
	return decl, true
}

func (s *scanner) qualifiedName() (string, bool) {
	tok := s.peek()
	if tok.Kind != TokenIdent && !tok.Is(TokenKeyword, "this") {
		return "", false
	}
	var sb strings.Builder
	sb.WriteString(s.next().Literal)
	for s.peek().Kind == TokenDot {
		part := s.peekN(1)
		if part.Kind != TokenIdent && part.Kind != TokenKeyword {
			return "", false
		}
		s.next()
		s.next()
		sb.WriteByte('.')
		sb.WriteString(part.Literal)
	}
	return sb.String(), true
}

func (s *scanner) rhs(decl *Declaration) {
	rhsStart := s.pos
	tok := s.peek()

	switch {
	case tok.Is(TokenKeyword, "function"),
		tok.Is(TokenKeyword, "async") && s.peekN(1).Is(TokenKeyword, "function"):
		if s.function(decl) && s.endsAfterBlock() {
			return
		}
	case tok.Kind == TokenLParen || tok.Kind == TokenIdent || tok.Is(TokenKeyword, "async"):
		if s.arrowFunction(decl) && s.endsAfterBlock() {
			return
		}
	case tok.Kind == TokenLBrace:
		if s.object(decl) && s.endsAfterBlock() {
			return
		}
	}

	s.pos = rhsStart
	decl.Params = nil
	decl.Entries = nil
	s.expression(decl)
}

// endsAfterBlock reports whether the statement ends after a closing brace
// and consumes an optional semicolon.
func (s *scanner) endsAfterBlock() bool {
	tok := s.peek()
	switch {
	case tok.Kind == TokenSemicolon:
		s.next()
		return true
	case tok.Kind == TokenEOF, tok.Kind == TokenRBrace, tok.Kind == TokenDocComment:
		return true
	case tok.NewlineBefore:
		return !continuesExpression(tok)
	}
	return false
}

func (s *scanner) function(decl *Declaration) bool {
	start := s.peek().Span.Start
	if s.peek().Is(TokenKeyword, "async") {
		s.next()
	}
	s.next()
	if s.peek().Kind == TokenOperator && s.peek().Literal == "*" {
		s.next()
	}
	if s.peek().Kind == TokenIdent {
		s.next()
	}
	if s.peek().Kind != TokenLParen {
		return false
	}
	params, ok := s.params()
	if !ok || s.peek().Kind != TokenLBrace {
		return false
	}
	end, ok := s.skipBalanced()
	if !ok {
		return false
	}
	decl.RHS = RHSFunction
	decl.Params = params
	decl.Value = s.text(start, end)
	return true
}

func (s *scanner) arrowFunction(decl *Declaration) bool {
	start := s.peek().Span.Start
	if s.peek().Is(TokenKeyword, "async") {
		s.next()
	}
	var params []string
	switch s.peek().Kind {
	case TokenIdent:
		params = []string{s.next().Literal}
	case TokenLParen:
		var ok bool
		if params, ok = s.params(); !ok {
			return false
		}
	default:
		return false
	}
	if s.peek().Kind != TokenArrow {
		return false
	}
	s.next()
	if s.peek().Kind != TokenLBrace {
		return false
	}
	end, ok := s.skipBalanced()
	if !ok {
		return false
	}
	decl.RHS = RHSFunction
	decl.Params = params
	decl.Value = s.text(start, end)
	return true
}

// params reads a parenthesized formal parameter list. Default values are
// skipped; destructuring patterns get positional names.
func (s *scanner) params() ([]string, bool) {
	s.next()
	var params []string
	for {
		tok := s.peek()
		if tok.Kind == TokenRParen {
			s.next()
			return params, true
		}
		if tok.Kind == TokenEOF {
			return nil, false
		}
		if tok.Kind == TokenEllipsis {
			s.next()
			tok = s.peek()
		}
		name := "p" + strconv.Itoa(len(params))
		if tok.Kind == TokenIdent {
			name = tok.Literal
		}
		params = append(params, name)

		depth := 0
	skip:
		for {
			tok := s.peek()
			switch tok.Kind {
			case TokenEOF:
				return nil, false
			case TokenLParen, TokenLBrace, TokenLBracket:
				depth++
			case TokenRBrace, TokenRBracket:
				depth--
			case TokenRParen:
				if depth == 0 {
					break skip
				}
				depth--
			case TokenComma:
				if depth == 0 {
					s.next()
					break skip
				}
			}
			s.next()
		}
	}
}

func (s *scanner) object(decl *Declaration) bool {
	start := s.next().Span.Start
	var entries []Entry
	for {
		var doc *jsdoc.DocComment
		for s.peek().Kind == TokenDocComment {
			doc = jsdoc.Parse(s.next().Literal)
		}

		tok := s.peek()
		if tok.Kind == TokenRBrace {
			end := s.next().Span.End
			decl.RHS = RHSObject
			decl.Entries = entries
			decl.Value = s.text(start, end)
			return true
		}

		entry := Entry{Doc: doc, Pos: tok.Span.Start}
		switch tok.Kind {
		case TokenIdent, TokenKeyword, TokenNumber:
			entry.Key = tok.Literal
		case TokenString:
			entry.Key = unquote(tok.Literal)
		default:
			entry.Key = ""
		}
		if entry.Key != "" {
			s.next()
			if s.peek().Kind == TokenColon {
				s.next()
			}
		}

		valueStart := s.peek()
		valueEnd, ok := s.skipValue()
		if !ok {
			return false
		}
		if valueEnd.Offset > valueStart.Span.Start.Offset {
			entry.Value = s.text(valueStart.Span.Start, valueEnd)
		}
		if entry.Key != "" {
			entries = append(entries, entry)
		}
		if s.peek().Kind == TokenComma {
			s.next()
		}
	}
}

// skipValue advances to the next comma or closing brace at the current
// nesting level and returns the end of the last consumed token.
func (s *scanner) skipValue() (Position, bool) {
	depth := 0
	end := s.peek().Span.Start
	for {
		tok := s.peek()
		switch tok.Kind {
		case TokenEOF:
			return end, false
		case TokenLParen, TokenLBrace, TokenLBracket:
			depth++
		case TokenRParen, TokenRBracket:
			depth--
		case TokenRBrace:
			if depth == 0 {
				return end, true
			}
			depth--
		case TokenComma:
			if depth == 0 {
				return end, true
			}
		}
		end = s.next().Span.End
	}
}

// skipBalanced consumes a bracketed group starting at the cursor and
// returns the end of its closing token.
func (s *scanner) skipBalanced() (Position, bool) {
	depth := 0
	for {
		tok := s.next()
		switch tok.Kind {
		case TokenEOF:
			return tok.Span.End, false
		case TokenLParen, TokenLBrace, TokenLBracket:
			depth++
		case TokenRParen, TokenRBrace, TokenRBracket:
			depth--
			if depth == 0 {
				return tok.Span.End, true
			}
		}
	}
}

// expression consumes an expression statement, applying semicolon
// insertion at line breaks.
func (s *scanner) expression(decl *Declaration) {
	start := s.peek().Span.Start
	end := start
	depth := 0
	var prev Token
	started := false
loop:
	for {
		tok := s.peek()
		if tok.Kind == TokenEOF {
			break
		}
		if depth == 0 {
			if tok.Kind == TokenSemicolon {
				s.next()
				break
			}
			if tok.Kind == TokenDocComment {
				break
			}
			if started && tok.NewlineBefore && endsExpression(prev) && !continuesExpression(tok) {
				break
			}
		}
		switch tok.Kind {
		case TokenLParen, TokenLBrace, TokenLBracket:
			depth++
		case TokenRParen, TokenRBrace, TokenRBracket:
			if depth == 0 {
				break loop
			}
			depth--
		}
		prev = s.next()
		end = prev.Span.End
		started = true
	}
	decl.RHS = RHSExpr
	decl.Value = s.text(start, end)
}

func endsExpression(tok Token) bool {
	switch tok.Kind {
	case TokenIdent, TokenNumber, TokenString, TokenTemplate, TokenRegExp,
		TokenRParen, TokenRBracket, TokenRBrace, TokenIncrement, TokenDecrement:
		return true
	case TokenKeyword:
		switch tok.Literal {
		case "this", "super", "true", "false", "null":
			return true
		}
	}
	return false
}

func continuesExpression(tok Token) bool {
	switch tok.Kind {
	case TokenDot, TokenLParen, TokenLBracket, TokenComma, TokenQuestion,
		TokenColon, TokenAssign, TokenTemplate, TokenArrow:
		return true
	case TokenOperator:
		return tok.Literal != "!" && tok.Literal != "~"
	case TokenKeyword:
		return tok.Literal == "instanceof" || tok.Literal == "in"
	}
	return false
}

func (s *scanner) text(start, end Position) string {
	if start.Offset >= end.Offset || end.Offset > len(s.src) {
		return ""
	}
	return strings.TrimSpace(string(s.src[start.Offset:end.Offset]))
}

func unquote(lit string) string {
	if len(lit) >= 2 {
		return lit[1 : len(lit)-1]
	}
	return lit
}
