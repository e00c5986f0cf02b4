// Package jstype parses Closure Compiler type expressions, the payloads found
// inside the braces of JSDoc tags such as @param {Array.<string>=} or
// @return {function(this:T, number): boolean}.
package jstype

import (
	"strings"
)

// Expr is the interface implemented by all type expression nodes.
type Expr interface {
	// String re-serializes the expression in Closure syntax.
	// Parsing the result yields a tree equal to the receiver.
	String() string
	expr()
}

// Named is a reference to a type by name, optionally with type arguments
// (Array.<string>, Object.<string, number>, nl.test.SomeClass).
type Named struct {
	Name string
	Args []Expr
}

func (Named) expr() {}

func (t Named) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Name + ".<" + strings.Join(args, ",") + ">"
}

// Union is an ordered list of alternatives (A|B|C).
type Union struct {
	Members []Expr
}

func (Union) expr() {}

func (t Union) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		if _, ok := m.(Union); ok {
			parts[i] = "(" + m.String() + ")"
			continue
		}
		parts[i] = m.String()
	}
	return strings.Join(parts, "|")
}

// Nullable is ?T. Implicit is set for the wrapper the parser adds around
// bare object type names, which print without the question mark.
type Nullable struct {
	Inner    Expr
	Implicit bool
}

func (Nullable) expr() {}

func (t Nullable) String() string {
	if t.Implicit {
		return t.Inner.String()
	}
	return "?" + prefixOperand(t.Inner)
}

// NonNullable is !T.
type NonNullable struct {
	Inner Expr
}

func (NonNullable) expr() {}

func (t NonNullable) String() string {
	return "!" + prefixOperand(t.Inner)
}

// Optional is T=, used for optional parameters and record fields.
type Optional struct {
	Inner Expr
}

func (Optional) expr() {}

func (t Optional) String() string {
	return t.Inner.String() + "="
}

// Variadic is ...T, legal only as the last parameter.
type Variadic struct {
	Inner Expr
}

func (Variadic) expr() {}

func (t Variadic) String() string {
	return "..." + t.Inner.String()
}

// Function is function(this:T, P1, P2): R. Return is nil when the function
// returns nothing. New marks a new:T receiver instead of this:T.
type Function struct {
	This   Expr
	New    bool
	Params []Expr
	Return Expr
}

func (Function) expr() {}

func (t Function) String() string {
	var sb strings.Builder
	sb.WriteString("function(")
	var parts []string
	if t.This != nil {
		if t.New {
			parts = append(parts, "new:"+tight(t.This))
		} else {
			parts = append(parts, "this:"+tight(t.This))
		}
	}
	for _, p := range t.Params {
		parts = append(parts, p.String())
	}
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteString(")")
	if t.Return != nil {
		sb.WriteString(": ")
		sb.WriteString(tight(t.Return))
	}
	return sb.String()
}

// Field is one entry of a record type.
type Field struct {
	Name string
	Type Expr
}

// Record is a structural object type {a: T, b: U}. Fields keep source order.
type Record struct {
	Fields []Field
}

func (Record) expr() {}

func (t Record) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		name := f.Name
		if !isIdentifier(name) {
			name = "'" + name + "'"
		}
		parts[i] = name + ": " + f.Type.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Unknown is the ? type, and the stand-in for types that failed to parse.
type Unknown struct{}

func (Unknown) expr() {}

func (Unknown) String() string {
	return "?"
}

// tight renders an operand that must not be a bare union.
func tight(e Expr) string {
	if u, ok := e.(Union); ok {
		return "(" + u.String() + ")"
	}
	return e.String()
}

// prefixOperand renders the operand of ? and !, which bind tighter than |
// and would otherwise absorb an implicit wrapper on reparse.
func prefixOperand(e Expr) string {
	switch t := e.(type) {
	case Union:
		return "(" + t.String() + ")"
	case Nullable:
		if t.Implicit {
			return "(" + t.String() + ")"
		}
	}
	return e.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if !isNamePart(ch) {
			return false
		}
	}
	return true
}

var primitives = map[string]bool{
	"number":  true,
	"boolean": true,
	"string":  true,
	"int":     true,
}

var keywords = map[string]bool{
	"*":         true,
	"null":      true,
	"undefined": true,
	"void":      true,
}

// IsPrimitive reports whether name is one of the value types that are
// not nullable unless marked with ?.
func IsPrimitive(name string) bool {
	return primitives[name]
}

// IsKeyword reports whether name is one of the special non-object types
// (*, null, undefined, void).
func IsKeyword(name string) bool {
	return keywords[name]
}

// implicitlyNullable reports whether a bare reference to name defaults to
// nullable.
func implicitlyNullable(name string) bool {
	return !primitives[name] && !keywords[name]
}
