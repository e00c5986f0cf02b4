// Package java holds the Java declaration model generated from a
// JavaScript declaration model, and the type mapping between the two.
package java

import (
	"strings"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

type ClassKind string

const (
	ClassKindClass     ClassKind = "class"
	ClassKindInterface ClassKind = "interface"
	ClassKindEnum      ClassKind = "enum"
)

// GlobalNamespace is the JsType namespace of types that live on the global
// object.
const GlobalNamespace = "<global>"

type ClassModel struct {
	Name       string
	SimpleName string
	Package    string
	// Namespace and JSName locate the native JavaScript type.
	Namespace      string
	JSName         string
	SuperClass     string
	Interfaces     []string
	Visibility     Visibility
	Kind           ClassKind
	IsAbstract     bool
	IsStatic       bool
	IsDeprecated   bool
	Javadoc        string
	SourceFile     string
	Annotations    []AnnotationModel
	EnclosingClass string
	InnerClasses   []*ClassModel
	EnumConstants  []EnumConstantModel
	Fields         []FieldModel
	Constructors   []MethodModel
	Methods        []MethodModel
	TypeParameters []TypeParameterModel
}

// IsTopLevel reports whether the class gets a file of its own.
func (c *ClassModel) IsTopLevel() bool {
	return c.EnclosingClass == ""
}

// Path returns the slash-separated output path of a top-level class, e.g.
// nl/test/SomeClass.java.
func (c *ClassModel) Path() string {
	if c.Package == "" {
		return c.SimpleName + ".java"
	}
	return strings.ReplaceAll(c.Package, ".", "/") + "/" + c.SimpleName + ".java"
}

// Walk calls fn for c and every class nested in it, outermost first.
func (c *ClassModel) Walk(fn func(*ClassModel)) {
	fn(c)
	for _, inner := range c.InnerClasses {
		inner.Walk(fn)
	}
}

type EnumConstantModel struct {
	Name      string
	Arguments []string
	Javadoc   string
}

type FieldModel struct {
	Name          string
	Type          TypeModel
	Visibility    Visibility
	IsStatic      bool
	IsFinal       bool
	IsDeprecated  bool
	Javadoc       string
	Annotations   []AnnotationModel
	ConstantValue string
}

type MethodModel struct {
	Name           string
	ReturnType     TypeModel
	Parameters     []ParameterModel
	Visibility     Visibility
	IsConstructor  bool
	IsStatic       bool
	IsAbstract     bool
	IsNative       bool
	IsVarargs      bool
	IsDeprecated   bool
	Javadoc        string
	Annotations    []AnnotationModel
	TypeParameters []TypeParameterModel
}

// Signature returns the erased form name(T1,T2) used to compare overloads.
func (m MethodModel) Signature() string {
	parts := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		parts[i] = p.Type.String()
		if m.IsVarargs && i == len(m.Parameters)-1 {
			parts[i] += "..."
		}
	}
	return m.Name + "(" + strings.Join(parts, ",") + ")"
}

type ParameterModel struct {
	Name    string
	Type    TypeModel
	Javadoc string
}

type TypeModel struct {
	Name          string
	ArrayDepth    int
	TypeArguments []TypeArgumentModel
	// Unmapped marks the opaque stand-in for a type without a Java analog.
	Unmapped bool
}

func (t TypeModel) String() string {
	var sb strings.Builder
	sb.WriteString(t.Name)
	if len(t.TypeArguments) > 0 {
		sb.WriteString("<")
		for i, a := range t.TypeArguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteString(">")
	}
	for i := 0; i < t.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

func (t TypeModel) IsPrimitive() bool {
	if t.ArrayDepth > 0 {
		return false
	}
	switch t.Name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double":
		return true
	}
	return false
}

func (t TypeModel) IsArray() bool {
	return t.ArrayDepth > 0
}

func (t TypeModel) IsVoid() bool {
	return t.Name == "void" && t.ArrayDepth == 0
}

var boxes = map[string]string{
	"boolean": "java.lang.Boolean",
	"byte":    "java.lang.Byte",
	"char":    "java.lang.Character",
	"short":   "java.lang.Short",
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
	"void":    "java.lang.Void",
}

// Boxed returns the wrapper type of a primitive or void; other types are
// returned unchanged.
func (t TypeModel) Boxed() TypeModel {
	if t.ArrayDepth > 0 {
		return t
	}
	if box, ok := boxes[t.Name]; ok {
		return TypeModel{Name: box}
	}
	return t
}

// Names returns every type name referenced by t, t's own name first.
func (t TypeModel) Names() []string {
	names := []string{t.Name}
	for _, a := range t.TypeArguments {
		if a.Type != nil {
			names = append(names, a.Type.Names()...)
		}
		if a.Bound != nil {
			names = append(names, a.Bound.Names()...)
		}
	}
	return names
}

type TypeArgumentModel struct {
	Type       *TypeModel
	IsWildcard bool
	BoundKind  string // "extends", "super", or "" for unbounded
	Bound      *TypeModel
}

func (a TypeArgumentModel) String() string {
	if !a.IsWildcard {
		if a.Type == nil {
			return "?"
		}
		return a.Type.String()
	}
	if a.Bound == nil || a.BoundKind == "" {
		return "?"
	}
	return "? " + a.BoundKind + " " + a.Bound.String()
}

func typeArg(t TypeModel) TypeArgumentModel {
	return TypeArgumentModel{Type: &t}
}

type TypeParameterModel struct {
	Name   string
	Bounds []TypeModel
}

type AnnotationModel struct {
	Type     string
	Elements []ElementValuePairModel
}

type ElementValuePairModel struct {
	Name  string
	Value interface{}
}

// Element returns the value of the named element, or nil.
func (a AnnotationModel) Element(name string) interface{} {
	for _, e := range a.Elements {
		if e.Name == name {
			return e.Value
		}
	}
	return nil
}
