// Package diag holds the diagnostics produced while compiling annotated
// JavaScript. Diagnostics never abort a run; callers inspect the list when
// the run is over.
package diag

import (
	"fmt"
	"strconv"
)

type Severity int

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "severity(" + strconv.Itoa(int(s)) + ")"
}

type Kind string

const (
	// MalformedTypeExpression: a tag payload does not follow the type grammar.
	MalformedTypeExpression Kind = "MalformedTypeExpression"
	// SignatureMismatch: @param tags disagree with the formal parameter list.
	SignatureMismatch Kind = "SignatureMismatch"
	// OverloadCollision: two generated overloads erase to the same signature.
	OverloadCollision Kind = "OverloadCollision"
	// UnresolvedReference: a referenced name has no declaration.
	UnresolvedReference Kind = "UnresolvedReference"
	// MalformedSignature: optional or variadic parameters in illegal positions.
	MalformedSignature Kind = "MalformedSignature"
	// SymbolConflict: one qualified name declared with two different kinds.
	SymbolConflict Kind = "SymbolConflict"
)

// Severity returns the default severity for diagnostics of kind k.
func (k Kind) Severity() Severity {
	switch k {
	case OverloadCollision:
		return SevInfo
	case SymbolConflict:
		return SevError
	}
	return SevWarning
}

// Position locates a diagnostic in a source file. Line and Column are
// 1-based; zero means unknown.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	s := p.File
	if p.IsValid() {
		if s != "" {
			s += ":"
		}
		s += strconv.Itoa(p.Line)
		if p.Column > 0 {
			s += ":" + strconv.Itoa(p.Column)
		}
	}
	if s == "" {
		s = "-"
	}
	return s
}

type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Pos      Position
	// Symbol is the qualified name the diagnostic is about, if any.
	Symbol  string
	Message string
}

// New creates a diagnostic with the default severity for kind.
func New(kind Kind, pos Position, symbol string, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Severity: kind.Severity(),
		Pos:      pos,
		Symbol:   symbol,
		Message:  fmt.Sprintf(format, args...),
	}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Pos, d.Severity, d.Kind, d.Message)
}
