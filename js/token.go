package js

import (
	"github.com/dhamidi/jsdocgen/diag"
)

// Position is a location in a source file. Offset is a byte offset; Line
// and Column are 1-based, Column counting runes.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

// Diag converts p to the position type used by diagnostics.
func (p Position) Diag() diag.Position {
	return diag.Position{File: p.File, Line: p.Line, Column: p.Column}
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenComment
	TokenDocComment
	TokenLineComment

	TokenIdent
	TokenKeyword
	TokenNumber
	TokenString
	TokenTemplate
	TokenRegExp

	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenColon
	TokenQuestion
	TokenAssign
	TokenArrow
	TokenIncrement
	TokenDecrement

	// TokenOperator covers every other punctuator (+, ===, ||=, ...).
	TokenOperator
)

var tokenNames = map[TokenKind]string{
	TokenEOF:         "EOF",
	TokenError:       "Error",
	TokenComment:     "Comment",
	TokenDocComment:  "DocComment",
	TokenLineComment: "LineComment",
	TokenIdent:       "Ident",
	TokenKeyword:     "Keyword",
	TokenNumber:      "Number",
	TokenString:      "String",
	TokenTemplate:    "Template",
	TokenRegExp:      "RegExp",
	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenLBrace:      "{",
	TokenRBrace:      "}",
	TokenLBracket:    "[",
	TokenRBracket:    "]",
	TokenSemicolon:   ";",
	TokenComma:       ",",
	TokenDot:         ".",
	TokenEllipsis:    "...",
	TokenColon:       ":",
	TokenQuestion:    "?",
	TokenAssign:      "=",
	TokenArrow:       "=>",
	TokenIncrement:   "++",
	TokenDecrement:   "--",
	TokenOperator:    "Operator",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Token is a lexical token. NewlineBefore records whether a line break
// separates it from the previous token, which drives semicolon insertion.
type Token struct {
	Kind          TokenKind
	Span          Span
	Literal       string
	NewlineBefore bool
}

func (t Token) Is(kind TokenKind, literal string) bool {
	return t.Kind == kind && t.Literal == literal
}

var keywords = map[string]bool{
	"async":      true,
	"await":      true,
	"break":      true,
	"case":       true,
	"catch":      true,
	"class":      true,
	"const":      true,
	"continue":   true,
	"debugger":   true,
	"default":    true,
	"delete":     true,
	"do":         true,
	"else":       true,
	"export":     true,
	"extends":    true,
	"false":      true,
	"finally":    true,
	"for":        true,
	"function":   true,
	"if":         true,
	"import":     true,
	"in":         true,
	"instanceof": true,
	"let":        true,
	"new":        true,
	"null":       true,
	"return":     true,
	"super":      true,
	"switch":     true,
	"this":       true,
	"throw":      true,
	"true":       true,
	"try":        true,
	"typeof":     true,
	"var":        true,
	"void":       true,
	"while":      true,
	"with":       true,
	"yield":      true,
}

func IsKeyword(ident string) bool {
	return keywords[ident]
}

// canPrecedeRegExp reports whether a '/' after tok starts a regular
// expression rather than a division.
func canPrecedeRegExp(tok Token, seen bool) bool {
	if !seen {
		return true
	}
	switch tok.Kind {
	case TokenIdent, TokenNumber, TokenString, TokenTemplate, TokenRegExp,
		TokenRParen, TokenRBracket, TokenIncrement, TokenDecrement:
		return false
	case TokenKeyword:
		switch tok.Literal {
		case "this", "super", "true", "false", "null":
			return false
		}
	}
	return true
}
