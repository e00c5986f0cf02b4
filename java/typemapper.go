package java

import (
	"sort"
	"strconv"
	"sync"

	"github.com/dhamidi/jsdocgen/jstype"
	"github.com/dhamidi/jsdocgen/model"
)

// Position is where a type occurs. It decides boxing, void and varargs
// handling.
type Position int

const (
	PositionField Position = iota
	PositionParam
	PositionReturn
	PositionTypeArg
)

func (p Position) String() string {
	switch p {
	case PositionField:
		return "field"
	case PositionParam:
		return "param"
	case PositionReturn:
		return "return"
	case PositionTypeArg:
		return "typearg"
	}
	return "unknown"
}

const (
	DefaultOpaqueType      = "java.lang.Object"
	DefaultFunctionPackage = "jsdocgen.fn"
)

// Resolver looks up declared names. *model.SymbolTable implements it.
type Resolver interface {
	Class(model.QualifiedName) *model.Class
	Enum(model.QualifiedName) *model.Enum
	Typedef(model.QualifiedName) *model.Typedef
}

// builtins maps JavaScript built-in object types to their elemental2 and
// jsinterop counterparts.
var builtins = map[string]string{
	"Array":                    "elemental2.core.JsArray",
	"ArrayBuffer":              "elemental2.core.ArrayBuffer",
	"ArrayBufferView":          "elemental2.core.ArrayBufferView",
	"Date":                     "elemental2.core.JsDate",
	"Error":                    "elemental2.core.JsError",
	"Float32Array":             "elemental2.core.Float32Array",
	"Float64Array":             "elemental2.core.Float64Array",
	"Function":                 "elemental2.core.Function",
	"Int32Array":               "elemental2.core.Int32Array",
	"RegExp":                   "elemental2.core.JsRegExp",
	"Uint8Array":               "elemental2.core.Uint8Array",
	"Uint8ClampedArray":        "elemental2.core.Uint8ClampedArray",
	"Promise":                  "elemental2.promise.Promise",
	"Blob":                     "elemental2.dom.Blob",
	"CanvasRenderingContext2D": "elemental2.dom.CanvasRenderingContext2D",
	"Document":                 "elemental2.dom.Document",
	"Element":                  "elemental2.dom.Element",
	"Event":                    "elemental2.dom.Event",
	"EventTarget":              "elemental2.dom.EventTarget",
	"HTMLCanvasElement":        "elemental2.dom.HTMLCanvasElement",
	"HTMLElement":              "elemental2.dom.HTMLElement",
	"HTMLImageElement":         "elemental2.dom.HTMLImageElement",
	"HTMLInputElement":         "elemental2.dom.HTMLInputElement",
	"HTMLVideoElement":         "elemental2.dom.HTMLVideoElement",
	"Image":                    "elemental2.dom.HTMLImageElement",
	"KeyboardEvent":            "elemental2.dom.KeyboardEvent",
	"MouseEvent":               "elemental2.dom.MouseEvent",
	"Node":                     "elemental2.dom.Node",
	"Touch":                    "elemental2.dom.Touch",
	"TouchEvent":               "elemental2.dom.TouchEvent",
	"WebGLRenderingContext":    "elemental2.webgl.WebGLRenderingContext",
	"Window":                   "elemental2.dom.Window",
	"XMLHttpRequest":           "elemental2.dom.XMLHttpRequest",
}

const (
	jsArray       = "elemental2.core.JsArray"
	jsPropertyMap = "jsinterop.base.JsPropertyMap"
)

// FunctionShape identifies one generated @JsFunction interface.
type FunctionShape struct {
	Arity    int
	BindThis bool
}

func (s FunctionShape) SimpleName() string {
	if s.BindThis {
		return "ThisFn" + strconv.Itoa(s.Arity)
	}
	return "Fn" + strconv.Itoa(s.Arity)
}

type MapperOption func(*TypeMapper)

// WithTypeMappings adds explicit JavaScript to Java mappings. Keys are
// matched against the full type expression first, then the bare name.
func WithTypeMappings(mappings map[string]string) MapperOption {
	return func(tm *TypeMapper) {
		for k, v := range mappings {
			tm.mappings[k] = v
		}
	}
}

func WithOpaqueType(name string) MapperOption {
	return func(tm *TypeMapper) {
		if name != "" {
			tm.opaque = name
		}
	}
}

func WithFunctionPackage(pkg string) MapperOption {
	return func(tm *TypeMapper) {
		if pkg != "" {
			tm.fnPackage = pkg
		}
	}
}

// WithBindThis keeps function(this:T, ...) receivers as a leading type
// parameter instead of dropping them.
func WithBindThis(bind bool) MapperOption {
	return func(tm *TypeMapper) {
		tm.bindThis = bind
	}
}

// TypeMapper maps JavaScript type expressions to Java types. Apart from
// recording the function shapes it has produced, mapping has no effects.
type TypeMapper struct {
	resolver  Resolver
	mappings  map[string]string
	opaque    string
	fnPackage string
	bindThis  bool

	mu     sync.Mutex
	shapes map[FunctionShape]bool
}

func NewTypeMapper(resolver Resolver, opts ...MapperOption) *TypeMapper {
	tm := &TypeMapper{
		resolver:  resolver,
		mappings:  make(map[string]string),
		opaque:    DefaultOpaqueType,
		fnPackage: DefaultFunctionPackage,
		shapes:    make(map[FunctionShape]bool),
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

func (tm *TypeMapper) FunctionPackage() string {
	return tm.fnPackage
}

// FunctionShapes returns every function interface used so far, plain ones
// first, by arity.
func (tm *TypeMapper) FunctionShapes() []FunctionShape {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	out := make([]FunctionShape, 0, len(tm.shapes))
	for s := range tm.shapes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BindThis != out[j].BindThis {
			return !out[i].BindThis
		}
		return out[i].Arity < out[j].Arity
	})
	return out
}

// Map maps e in position pos.
func (tm *TypeMapper) Map(e jstype.Expr, pos Position) TypeModel {
	if e == nil {
		if pos == PositionReturn {
			return TypeModel{Name: "void"}
		}
		return tm.opaqueType(false)
	}
	return tm.mapExpr(jstype.Normalize(e), pos, nil)
}

// Erase returns the parameter-position Java type of e as a string; two
// parameters erase alike when their Java types are the same.
func (tm *TypeMapper) Erase(e jstype.Expr) string {
	return tm.Map(e, PositionParam).String()
}

// ClassName maps a declared name as it appears in extends and implements
// clauses. ok is false when it maps to the opaque type.
func (tm *TypeMapper) ClassName(name model.QualifiedName) (string, bool) {
	t := tm.mapNamed(jstype.Named{Name: string(name)}, PositionField, nil)
	if t.Name == tm.opaque || t.IsPrimitive() {
		return "", false
	}
	return t.Name, true
}

func (tm *TypeMapper) opaqueType(unmapped bool) TypeModel {
	return TypeModel{Name: tm.opaque, Unmapped: unmapped}
}

func (tm *TypeMapper) mapExpr(e jstype.Expr, pos Position, seen map[string]bool) TypeModel {
	switch t := e.(type) {
	case jstype.Named:
		return tm.mapNamed(t, pos, seen)
	case jstype.Nullable:
		inner := tm.mapExpr(t.Inner, pos, seen)
		if inner.IsPrimitive() {
			return inner.Boxed()
		}
		return inner
	case jstype.NonNullable:
		return tm.mapExpr(t.Inner, pos, seen)
	case jstype.Optional:
		return tm.mapExpr(t.Inner, pos, seen)
	case jstype.Variadic:
		if pos == PositionParam {
			return tm.mapExpr(t.Inner, pos, seen)
		}
		return TypeModel{Name: jsArray, TypeArguments: []TypeArgumentModel{typeArg(tm.mapExpr(t.Inner, PositionTypeArg, seen))}}
	case jstype.Function:
		return tm.mapFunction(t, seen)
	case jstype.Union:
		return tm.mapUnion(t, pos, seen)
	case jstype.Record:
		return tm.opaqueType(true)
	}
	return tm.opaqueType(false)
}

func (tm *TypeMapper) position(t TypeModel, pos Position) TypeModel {
	if pos == PositionTypeArg && (t.IsPrimitive() || t.IsVoid()) {
		return t.Boxed()
	}
	if pos != PositionReturn && t.IsVoid() {
		return t.Boxed()
	}
	return t
}

func (tm *TypeMapper) args(args []jstype.Expr, seen map[string]bool) []TypeArgumentModel {
	if len(args) == 0 {
		return nil
	}
	out := make([]TypeArgumentModel, len(args))
	for i, a := range args {
		out[i] = typeArg(tm.mapExpr(a, PositionTypeArg, seen))
	}
	return out
}

func (tm *TypeMapper) mapNamed(t jstype.Named, pos Position, seen map[string]bool) TypeModel {
	if target, ok := tm.mappings[t.String()]; ok {
		return tm.position(TypeModel{Name: target}, pos)
	}
	if target, ok := tm.mappings[t.Name]; ok {
		return tm.position(TypeModel{Name: target, TypeArguments: tm.args(t.Args, seen)}, pos)
	}

	switch t.Name {
	case "number":
		return tm.position(TypeModel{Name: "double"}, pos)
	case "boolean":
		return tm.position(TypeModel{Name: "boolean"}, pos)
	case "int":
		return tm.position(TypeModel{Name: "int"}, pos)
	case "string":
		return TypeModel{Name: "java.lang.String"}
	case "void", "undefined":
		return tm.position(TypeModel{Name: "void"}, pos)
	case "*", "?", "null", "object":
		return tm.opaqueType(false)
	case "Object":
		if len(t.Args) == 0 {
			return tm.opaqueType(false)
		}
		value := t.Args[len(t.Args)-1]
		return TypeModel{Name: jsPropertyMap, TypeArguments: tm.args([]jstype.Expr{value}, seen)}
	case "Array":
		args := tm.args(t.Args, seen)
		if len(args) == 0 {
			args = []TypeArgumentModel{typeArg(tm.opaqueType(false))}
		}
		return TypeModel{Name: jsArray, TypeArguments: args[:1]}
	}
	if target, ok := builtins[t.Name]; ok {
		return TypeModel{Name: target, TypeArguments: tm.args(t.Args, seen)}
	}

	name := model.QualifiedName(t.Name)
	if td := tm.resolver.Typedef(name); td != nil {
		if seen[t.Name] || td.Type == nil {
			return tm.opaqueType(false)
		}
		next := make(map[string]bool, len(seen)+1)
		for k := range seen {
			next[k] = true
		}
		next[t.Name] = true
		return tm.mapExpr(jstype.Normalize(td.Type), pos, next)
	}
	return TypeModel{Name: t.Name, TypeArguments: tm.args(t.Args, seen)}
}

func (tm *TypeMapper) mapFunction(fn jstype.Function, seen map[string]bool) TypeModel {
	shape := FunctionShape{Arity: len(fn.Params), BindThis: tm.bindThis && fn.This != nil}
	var args []TypeArgumentModel
	if shape.BindThis {
		args = append(args, typeArg(tm.mapExpr(fn.This, PositionTypeArg, seen)))
	}
	for _, p := range fn.Params {
		args = append(args, typeArg(tm.mapExpr(p, PositionTypeArg, seen)))
	}
	ret := TypeModel{Name: "java.lang.Void"}
	if fn.Return != nil {
		ret = tm.mapExpr(fn.Return, PositionTypeArg, seen)
	}
	args = append(args, typeArg(ret))

	tm.mu.Lock()
	tm.shapes[shape] = true
	tm.mu.Unlock()
	return TypeModel{Name: tm.fnPackage + "." + shape.SimpleName(), TypeArguments: args}
}

// mapUnion maps a union that cannot be split into overloads: members that
// map alike collapse, classes meet at their nearest common superclass, and
// anything else becomes the opaque type.
func (tm *TypeMapper) mapUnion(u jstype.Union, pos Position, seen map[string]bool) TypeModel {
	if len(u.Members) == 0 {
		return tm.opaqueType(false)
	}
	mapped := make([]TypeModel, len(u.Members))
	for i, m := range u.Members {
		mapped[i] = tm.mapExpr(m, pos, seen)
	}
	same := true
	for _, m := range mapped[1:] {
		if m.String() != mapped[0].String() {
			same = false
			break
		}
	}
	if same {
		return mapped[0]
	}

	var chains [][]model.QualifiedName
	for _, m := range u.Members {
		named, ok := jstype.Strip(m).(jstype.Named)
		if !ok || tm.resolver.Class(model.QualifiedName(named.Name)) == nil {
			return tm.opaqueType(false)
		}
		chains = append(chains, tm.ancestors(model.QualifiedName(named.Name)))
	}
	for _, candidate := range chains[0] {
		shared := true
		for _, chain := range chains[1:] {
			if !containsName(chain, candidate) {
				shared = false
				break
			}
		}
		if shared {
			return tm.mapNamed(jstype.Named{Name: string(candidate)}, pos, seen)
		}
	}
	return tm.opaqueType(false)
}

// ancestors returns name followed by its superclasses, nearest first.
func (tm *TypeMapper) ancestors(name model.QualifiedName) []model.QualifiedName {
	var chain []model.QualifiedName
	for name != "" && !containsName(chain, name) {
		chain = append(chain, name)
		c := tm.resolver.Class(name)
		if c == nil {
			break
		}
		name = c.Super
	}
	return chain
}

func containsName(names []model.QualifiedName, name model.QualifiedName) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
