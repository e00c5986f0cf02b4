package js

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int

	// newline is set when a line break was skipped since the last token.
	newline bool
	last    Token
	seen    bool
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else if ch&0xC0 != 0x80 {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.peek()
		switch {
		case ch == '\n':
			l.newline = true
			l.advance()
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v':
			l.advance()
		case ch >= utf8.RuneSelf:
			r, size := utf8.DecodeRune(l.input[l.pos:])
			if r == '\u2028' || r == '\u2029' {
				l.newline = true
			} else if !unicode.IsSpace(r) && r != '\uFEFF' {
				return
			}
			l.advanceN(size)
		default:
			return
		}
	}
}

// NextToken returns the next token, comments included. Whitespace is
// skipped and only recorded through Token.NewlineBefore.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	tok := l.scan()
	tok.NewlineBefore = l.newline
	l.newline = false

	switch tok.Kind {
	case TokenComment, TokenDocComment:
		if strings.Contains(tok.Literal, "\n") {
			l.newline = true
		}
	case TokenLineComment:
	default:
		l.last = tok
		l.seen = true
	}
	return tok
}

// All lexes the remaining input. The final token is always TokenEOF.
func (l *Lexer) All() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

func (l *Lexer) scan() Token {
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}
	if ch == '#' && l.peekN(1) == '!' && l.pos == 0 {
		return l.scanLineComment(startPos)
	}

	if isIdentStart(ch) {
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))) {
		return l.scanNumber(startPos)
	}

	if ch == '\'' || ch == '"' {
		return l.scanStringLiteral(startPos, ch)
	}

	if ch == '`' {
		return l.scanTemplate(startPos)
	}

	if ch == '/' && canPrecedeRegExp(l.last, l.seen) {
		return l.scanRegExp(startPos)
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenLineComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	kind := TokenComment
	if l.peekN(2) == '*' && l.peekN(3) != '/' {
		kind = TokenDocComment
	}
	l.advanceN(2)
	for {
		if l.pos >= len(l.input) {
			break
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(kind, start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for l.pos < len(l.input) && isIdentPart(l.peek()) {
		l.advance()
	}
	end := l.Position()
	literal := string(l.input[start.Offset:end.Offset])

	kind := TokenIdent
	if IsKeyword(literal) {
		kind = TokenKeyword
	}
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: literal,
	}
}

func (l *Lexer) scanNumber(start Position) Token {
	if l.peek() == '0' {
		switch l.peekN(1) {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			l.advanceN(2)
			for isHexDigit(l.peek()) || l.peek() == '_' {
				l.advance()
			}
			if l.peek() == 'n' {
				l.advance()
			}
			return l.token(TokenNumber, start)
		}
	}

	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	if l.peek() == '.' {
		l.advance()
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}
	if l.peek() == 'n' {
		l.advance()
	}
	return l.token(TokenNumber, start)
}

func (l *Lexer) scanStringLiteral(start Position, quote byte) Token {
	l.advance()
	for l.peek() != 0 && l.peek() != quote && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.peek() != quote {
		return l.token(TokenError, start)
	}
	l.advance()
	return l.token(TokenString, start)
}

func (l *Lexer) scanTemplate(start Position) Token {
	l.advance()
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '`' {
			l.advance()
			return l.token(TokenTemplate, start)
		}
		if ch == '\\' {
			l.advanceN(2)
			continue
		}
		if ch == '$' && l.peekN(1) == '{' {
			l.advanceN(2)
			l.skipEmbeddedExpression()
			if l.peek() == '}' {
				l.advance()
			}
			continue
		}
		l.advance()
	}
	return l.token(TokenError, start)
}

// skipEmbeddedExpression skips a ${...} substitution up to, but not
// including, its closing brace.
func (l *Lexer) skipEmbeddedExpression() {
	depth := 1
	for l.peek() != 0 && depth > 0 {
		ch := l.peek()
		switch ch {
		case '{':
			depth++
			l.advance()
		case '}':
			depth--
			if depth > 0 {
				l.advance()
			}
		case '"', '\'':
			l.scanStringLiteral(l.Position(), ch)
		case '`':
			l.scanTemplate(l.Position())
		case '/':
			if l.peekN(1) == '/' {
				l.scanLineComment(l.Position())
			} else if l.peekN(1) == '*' {
				l.scanBlockComment(l.Position())
			} else {
				l.advance()
			}
		default:
			l.advance()
		}
	}
}

func (l *Lexer) scanRegExp(start Position) Token {
	l.advance()
	inClass := false
	for {
		ch := l.peek()
		if ch == 0 || ch == '\n' {
			return l.token(TokenError, start)
		}
		if ch == '\\' {
			l.advanceN(2)
			continue
		}
		if ch == '[' {
			inClass = true
		} else if ch == ']' {
			inClass = false
		} else if ch == '/' && !inClass {
			l.advance()
			break
		}
		l.advance()
	}
	for isIdentPart(l.peek()) {
		l.advance()
	}
	return l.token(TokenRegExp, start)
}

// punctuators lists multi-byte operators, longest first.
var punctuators = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>",
}

func (l *Lexer) scanOperator(start Position) Token {
	rest := l.input[l.pos:]
	for _, p := range punctuators {
		if len(rest) >= len(p) && string(rest[:len(p)]) == p {
			if p == "?." && len(rest) > 2 && isDigit(rest[2]) {
				continue
			}
			l.advanceN(len(p))
			switch p {
			case "...":
				return l.token(TokenEllipsis, start)
			case "=>":
				return l.token(TokenArrow, start)
			case "++":
				return l.token(TokenIncrement, start)
			case "--":
				return l.token(TokenDecrement, start)
			}
			return l.token(TokenOperator, start)
		}
	}

	ch := l.peek()
	kind := TokenOperator
	switch ch {
	case '(':
		kind = TokenLParen
	case ')':
		kind = TokenRParen
	case '{':
		kind = TokenLBrace
	case '}':
		kind = TokenRBrace
	case '[':
		kind = TokenLBracket
	case ']':
		kind = TokenRBracket
	case ';':
		kind = TokenSemicolon
	case ',':
		kind = TokenComma
	case '.':
		kind = TokenDot
	case ':':
		kind = TokenColon
	case '?':
		kind = TokenQuestion
	case '=':
		kind = TokenAssign
	case '+', '-', '*', '/', '%', '<', '>', '!', '~', '&', '|', '^', '@', '#':
	default:
		kind = TokenError
	}
	if ch >= utf8.RuneSelf {
		_, size := utf8.DecodeRune(rest)
		l.advanceN(size)
	} else {
		l.advance()
	}
	return l.token(kind, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// Non-ASCII bytes are accepted as identifier characters so that Unicode
// identifiers lex as one token.
func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$' || ch >= utf8.RuneSelf
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
