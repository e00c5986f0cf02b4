// Package jsdoc parses Closure-style JSDoc comments into structured tags.
package jsdoc

import (
	"github.com/dhamidi/jsdocgen/jstype"
)

// Node is the interface implemented by all block tags.
type Node interface {
	// Tag returns the tag name without the leading @.
	Tag() string
	node()
}

// DocComment is a parsed /** ... */ block.
type DocComment struct {
	Description string
	Tags        []Node
}

// TypeAnnotation is the {...} payload of a tag. Expr is Unknown when the
// payload is absent or malformed; Err then holds the *jstype.SyntaxError.
// Line is the 0-based line of the payload within the comment and Column
// the 1-based rune column of its first character.
type TypeAnnotation struct {
	Raw    string
	Expr   jstype.Expr
	Err    error
	Line   int
	Column int
}

// HasType reports whether a payload was written.
func (a TypeAnnotation) HasType() bool {
	return a.Raw != ""
}

// Constructor is @constructor.
type Constructor struct{}

func (Constructor) Tag() string { return "constructor" }
func (Constructor) node()       {}

// Interface is @interface.
type Interface struct{}

func (Interface) Tag() string { return "interface" }
func (Interface) node()       {}

// Record is @record, a structural interface.
type Record struct{}

func (Record) Tag() string { return "record" }
func (Record) node()       {}

type Extends struct {
	TypeAnnotation
}

func (Extends) Tag() string { return "extends" }
func (Extends) node()       {}

type Implements struct {
	TypeAnnotation
}

func (Implements) Tag() string { return "implements" }
func (Implements) node()       {}

// Param is @param {T} name description. Bracket is set for the [name] and
// [name=default] spellings of an optional parameter.
type Param struct {
	TypeAnnotation
	Name        string
	Bracket     bool
	Default     string
	Description string
}

func (Param) Tag() string { return "param" }
func (Param) node()       {}

// Optional reports whether the parameter may be omitted.
func (p Param) Optional() bool {
	if p.Bracket {
		return true
	}
	_, ok := p.Expr.(jstype.Optional)
	return ok
}

type Return struct {
	TypeAnnotation
	Description string
}

func (Return) Tag() string { return "return" }
func (Return) node()       {}

type Type struct {
	TypeAnnotation
}

func (Type) Tag() string { return "type" }
func (Type) node()       {}

// Enum is @enum {T}; the backing type defaults to number.
type Enum struct {
	TypeAnnotation
}

func (Enum) Tag() string { return "enum" }
func (Enum) node()       {}

// Const is @const, optionally carrying the type.
type Const struct {
	TypeAnnotation
}

func (Const) Tag() string { return "const" }
func (Const) node()       {}

// Define is @define {T} description, a compile-time constant.
type Define struct {
	TypeAnnotation
	Description string
}

func (Define) Tag() string { return "define" }
func (Define) node()       {}

type Typedef struct {
	TypeAnnotation
}

func (Typedef) Tag() string { return "typedef" }
func (Typedef) node()       {}

type This struct {
	TypeAnnotation
}

func (This) Tag() string { return "this" }
func (This) node()       {}

// Template is @template T, U.
type Template struct {
	Names []string
}

func (Template) Tag() string { return "template" }
func (Template) node()       {}

type Struct struct{}

func (Struct) Tag() string { return "struct" }
func (Struct) node()       {}

// Function is @function, marking a bodiless method declaration.
type Function struct{}

func (Function) Tag() string { return "function" }
func (Function) node()       {}

type Fires struct {
	Event string
}

func (Fires) Tag() string { return "fires" }
func (Fires) node()       {}

// API is @api with its stability level (e.g. stable, experimental).
type API struct {
	Stability string
}

func (API) Tag() string { return "api" }
func (API) node()       {}

type ClassDesc struct {
	Description string
}

func (ClassDesc) Tag() string { return "classdesc" }
func (ClassDesc) node()       {}

type Private struct{}

func (Private) Tag() string { return "private" }
func (Private) node()       {}

type Protected struct{}

func (Protected) Tag() string { return "protected" }
func (Protected) node()       {}

// Override is @override or @inheritDoc.
type Override struct {
	InheritDoc bool
}

func (o Override) Tag() string {
	if o.InheritDoc {
		return "inheritDoc"
	}
	return "override"
}
func (Override) node() {}

type Deprecated struct {
	Description string
}

func (Deprecated) Tag() string { return "deprecated" }
func (Deprecated) node()       {}

// Unknown is any tag without a dedicated node.
type Unknown struct {
	Name    string
	Content string
}

func (u Unknown) Tag() string { return u.Name }
func (Unknown) node()         {}
