// Package model builds the declaration model of a set of annotated
// JavaScript sources: classes, enums and typedefs keyed by qualified name,
// with members attached and overloads expanded.
package model

import (
	"github.com/dhamidi/jsdocgen/diag"
	"github.com/dhamidi/jsdocgen/jstype"
)

type ClassKind int

const (
	KindClass ClassKind = iota
	KindInterface
	// KindData is a class generated from a record @typedef.
	KindData
	// KindGlobals holds the statics declared directly on a namespace.
	KindGlobals
)

func (k ClassKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindData:
		return "data"
	case KindGlobals:
		return "globals"
	}
	return "unknown"
}

type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Protected:
		return "protected"
	case Private:
		return "private"
	}
	return "public"
}

// Meta holds tags that are recorded but do not change the emitted shape.
type Meta struct {
	API        string
	Fires      []string
	Struct     bool
	Deprecated bool
}

// Param is one parameter. Type never carries the Optional or Variadic
// wrapper; those are the flags.
type Param struct {
	Name     string
	Type     jstype.Expr
	Optional bool
	Variadic bool
	Doc      string
}

type Field struct {
	Name     string
	Type     jstype.Expr
	IsConst  bool
	IsStatic bool
	// HasInitializer records whether a value was assigned; Initializer is
	// its raw text. Values are never evaluated.
	HasInitializer bool
	Initializer    string
	Visibility     Visibility
	Doc            string
	Pos            diag.Position
}

// Method is one overload. Return is nil when nothing is returned.
type Method struct {
	Name       string
	Params     []Param
	Return     jstype.Expr
	IsAbstract bool
	IsStatic   bool
	Visibility Visibility
	Template   []string
	Doc        string
	ReturnDoc  string
	Pos        diag.Position
}

type Class struct {
	Name QualifiedName
	Kind ClassKind
	// Super is the single @extends edge; "" when absent.
	Super      QualifiedName
	Interfaces []QualifiedName
	IsAbstract bool
	// Opaque classes are forward declarations synthesized for references
	// that have no declaration of their own.
	Opaque bool

	// ConstructorParams is the declared parameter list; Constructors the
	// expanded overloads.
	ConstructorParams []Param
	Constructors      [][]Param

	Fields  []*Field
	fields  map[string]*Field
	methods map[string][]*Method
	order   []string

	Template []string
	Doc      string
	Summary  string
	Meta     Meta
	Pos      diag.Position
}

func NewClass(name QualifiedName, kind ClassKind) *Class {
	return &Class{
		Name:    name,
		Kind:    kind,
		fields:  make(map[string]*Field),
		methods: make(map[string][]*Method),
	}
}

// AddField appends f unless a field of the same name exists.
func (c *Class) AddField(f *Field) bool {
	if _, ok := c.fields[f.Name]; ok {
		return false
	}
	c.fields[f.Name] = f
	c.Fields = append(c.Fields, f)
	return true
}

func (c *Class) Field(name string) *Field {
	return c.fields[name]
}

// AddMethod appends m to the overload group of its name.
func (c *Class) AddMethod(m *Method) {
	if _, ok := c.methods[m.Name]; !ok {
		c.order = append(c.order, m.Name)
	}
	c.methods[m.Name] = append(c.methods[m.Name], m)
	if m.IsAbstract {
		c.IsAbstract = true
	}
}

// Methods returns the overload group of name in generation order.
func (c *Class) Methods(name string) []*Method {
	return c.methods[name]
}

// MethodNames returns the method names in declaration order.
func (c *Class) MethodNames() []string {
	return c.order
}

// AllMethods returns every overload of every method in declaration order.
func (c *Class) AllMethods() []*Method {
	var out []*Method
	for _, name := range c.order {
		out = append(out, c.methods[name]...)
	}
	return out
}

// IsEmpty reports whether the class has no members and no constructor.
func (c *Class) IsEmpty() bool {
	return len(c.Fields) == 0 && len(c.order) == 0 && len(c.Constructors) == 0
}

type EnumValue struct {
	Name string
	// Literal is the raw right-hand side, e.g. 'brightness'.
	Literal string
	Doc     string
}

type Enum struct {
	Name    QualifiedName
	Backing jstype.Expr
	Values  []EnumValue
	Doc     string
	Pos     diag.Position
}

// Typedef is a @typedef alias other than a record.
type Typedef struct {
	Name QualifiedName
	Type jstype.Expr
	Doc  string
	Pos  diag.Position
}

// Model is the finished result of a build. It is read-only.
type Model struct {
	Symbols *SymbolTable
}

// Classes returns the classes in registration order, opaque ones included
// and conflicting names excluded.
func (m *Model) Classes() []*Class {
	return m.Symbols.Classes()
}

func (m *Model) Enums() []*Enum {
	return m.Symbols.Enums()
}

func (m *Model) Typedefs() []*Typedef {
	return m.Symbols.Typedefs()
}

func (m *Model) Class(name QualifiedName) *Class {
	return m.Symbols.Class(name)
}

func (m *Model) Enum(name QualifiedName) *Enum {
	return m.Symbols.Enum(name)
}
