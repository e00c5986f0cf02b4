package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/jsdocgen/diag"
	"github.com/dhamidi/jsdocgen/js"
	"github.com/dhamidi/jsdocgen/jstype"
)

type source struct {
	name string
	text string
}

func fixture(t *testing.T, name string) source {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	return source{name: name, text: string(data)}
}

func build(t *testing.T, opts []Option, sources ...source) (*Model, *diag.List) {
	t.Helper()
	var units []Unit
	for _, src := range sources {
		units = append(units, Unit{
			Path:  src.name,
			Decls: js.Scan([]byte(src.text), js.WithFile(src.name)),
		})
	}
	return NewBuilder(opts...).Build(units)
}

func javaUtil() []Option {
	return []Option{WithKnownNames("java.util.*")}
}

func mustClass(t *testing.T, m *Model, name QualifiedName) *Class {
	t.Helper()
	c := m.Class(name)
	if c == nil {
		t.Fatalf("class %s not in model; have %v", name, m.Symbols.Names())
	}
	return c
}

func typeName(e jstype.Expr) string {
	if named, ok := jstype.Strip(e).(jstype.Named); ok {
		return named.Name
	}
	return e.String()
}

func TestBuildClassFixture(t *testing.T) {
	m, diags := build(t, javaUtil(), fixture(t, "class.js"))
	c := mustClass(t, m, "nl.test.SomeClass")

	t.Run("header", func(t *testing.T) {
		if c.Super != "java.util.ArrayList" {
			t.Errorf("Super = %q", c.Super)
		}
		if c.Doc != "Complete JavaScript class example" {
			t.Errorf("Doc = %q", c.Doc)
		}
		if c.Meta.API != "stable" {
			t.Errorf("Meta.API = %q", c.Meta.API)
		}
		if len(c.Meta.Fires) != 1 || c.Meta.Fires[0] != "nl.test.Event" {
			t.Errorf("Meta.Fires = %v", c.Meta.Fires)
		}
		if c.IsAbstract {
			t.Error("class without abstract methods marked abstract")
		}
	})

	t.Run("constructor", func(t *testing.T) {
		if len(c.ConstructorParams) != 1 || !c.ConstructorParams[0].Optional {
			t.Fatalf("ConstructorParams = %+v", c.ConstructorParams)
		}
		if len(c.Constructors) != 2 {
			t.Fatalf("got %d constructors, want 2", len(c.Constructors))
		}
		if len(c.Constructors[0]) != 0 || len(c.Constructors[1]) != 1 {
			t.Errorf("constructor arities = %d, %d", len(c.Constructors[0]), len(c.Constructors[1]))
		}
		if c.Constructors[1][0].Name != "opt_options" {
			t.Errorf("param name = %q", c.Constructors[1][0].Name)
		}
	})

	t.Run("static const", func(t *testing.T) {
		f := c.Field("SOME_ID")
		if f == nil {
			t.Fatal("SOME_ID missing")
		}
		if !f.IsStatic || !f.IsConst {
			t.Errorf("IsStatic = %v, IsConst = %v", f.IsStatic, f.IsConst)
		}
		if typeName(f.Type) != "number" || f.Initializer != "1" {
			t.Errorf("Type = %v, Initializer = %q", f.Type, f.Initializer)
		}
	})

	t.Run("bodiless member excluded", func(t *testing.T) {
		if got := c.Methods("getSomething"); len(got) != 0 {
			t.Errorf("getSomething produced %d methods", len(got))
		}
		if c.Field("getSomething") != nil {
			t.Error("getSomething produced a field")
		}
	})

	t.Run("optional truncation", func(t *testing.T) {
		got := c.Methods("setSomeFunction3")
		if len(got) != 2 {
			t.Fatalf("got %d overloads, want 2", len(got))
		}
		if len(got[0].Params) != 2 || len(got[1].Params) != 3 {
			t.Errorf("arities = %d, %d", len(got[0].Params), len(got[1].Params))
		}
		for _, p := range got[1].Params {
			if p.Optional {
				t.Errorf("overload param %s still optional", p.Name)
			}
		}
	})

	t.Run("union expansion", func(t *testing.T) {
		got := c.Methods("setSomeFunction2Double")
		want := [][2]string{
			{"number", "Array"},
			{"number", "java.util.Properties"},
			{"string", "Array"},
			{"string", "java.util.Properties"},
		}
		if len(got) != len(want) {
			t.Fatalf("got %d overloads, want %d", len(got), len(want))
		}
		for i, w := range want {
			ps := got[i].Params
			if len(ps) != 4 {
				t.Fatalf("overload %d has %d params", i, len(ps))
			}
			if typeName(ps[0].Type) != w[0] || typeName(ps[1].Type) != w[1] {
				t.Errorf("overload %d = (%s, %s), want (%s, %s)",
					i, typeName(ps[0].Type), typeName(ps[1].Type), w[0], w[1])
			}
			if typeName(ps[3].Type) != "Array" {
				t.Errorf("overload %d fourth = %v", i, ps[3].Type)
			}
		}
	})

	t.Run("return", func(t *testing.T) {
		got := c.Methods("getSomeField")
		if len(got) != 1 {
			t.Fatalf("got %d overloads", len(got))
		}
		if !jstype.IsNullable(got[0].Return) || typeName(got[0].Return) != "number" {
			t.Errorf("Return = %v", got[0].Return)
		}
	})

	t.Run("trailing variadic", func(t *testing.T) {
		got := c.Methods("getSomeVagArgMethod")
		if len(got) != 1 || len(got[0].Params) != 1 {
			t.Fatalf("got %+v", got)
		}
		p := got[0].Params[0]
		if !p.Variadic || p.Name != "returns" || typeName(p.Type) != "number" {
			t.Errorf("param = %+v", p)
		}
		if got[0].Return != nil {
			t.Errorf("Return = %v, want nil", got[0].Return)
		}
	})

	t.Run("diagnostics", func(t *testing.T) {
		for _, kind := range []diag.Kind{diag.SignatureMismatch, diag.MalformedSignature, diag.UnresolvedReference, diag.SymbolConflict} {
			if n := diags.Count(kind); n != 0 {
				t.Errorf("%d %s diagnostics: %v", n, kind, diags.ByKind(kind))
			}
		}
	})
}

func TestBuildAbstractSentinel(t *testing.T) {
	t.Run("with owner", func(t *testing.T) {
		m, diags := build(t, javaUtil(), fixture(t, "class.js"), fixture(t, "abstract_class.js"))

		abs := mustClass(t, m, "nl.test.SomeClassAbstract")
		got := abs.Methods("callSomething")
		if len(got) != 1 {
			t.Fatalf("got %d methods, want exactly 1", len(got))
		}
		if !got[0].IsAbstract || len(got[0].Params) != 2 {
			t.Errorf("method = %+v", got[0])
		}
		if !abs.IsAbstract {
			t.Error("class with abstract method not abstract")
		}
		if !abs.Meta.Struct {
			t.Error("@struct not recorded")
		}

		some := mustClass(t, m, "nl.test.SomeClass")
		if len(some.Methods("setSomeActractMethod")) != 1 || !some.IsAbstract {
			t.Errorf("abstract member on SomeClass not attached")
		}
		if n := diags.Count(diag.UnresolvedReference); n != 0 {
			t.Errorf("unexpected unresolved references: %v", diags.ByKind(diag.UnresolvedReference))
		}
	})

	t.Run("unresolved owner", func(t *testing.T) {
		m, diags := build(t, nil, fixture(t, "abstract_class.js"))
		some := mustClass(t, m, "nl.test.SomeClass")
		if !some.Opaque {
			t.Error("synthesized owner not opaque")
		}
		if len(some.Methods("setSomeActractMethod")) != 1 {
			t.Error("member not attached to opaque owner")
		}
		if n := diags.Count(diag.UnresolvedReference); n != 1 {
			t.Errorf("got %d unresolved references, want 1", n)
		}
	})
}

func TestBuildEnum(t *testing.T) {
	m, _ := build(t, nil, fixture(t, "enum.js"))
	e := m.Enum("nl.test.SomeProperty")
	if e == nil {
		t.Fatal("enum missing")
	}
	if typeName(e.Backing) != "string" {
		t.Errorf("Backing = %v", e.Backing)
	}
	if len(e.Values) != 10 {
		t.Fatalf("got %d values, want 10", len(e.Values))
	}
	if e.Values[0].Name != "BRIGHTNESS" || e.Values[0].Literal != "'brightness'" {
		t.Errorf("first value = %+v", e.Values[0])
	}
	if last := e.Values[9]; last.Name != "SOURCE" {
		t.Errorf("last value = %+v", last)
	}
}

func TestBuildGlobals(t *testing.T) {
	m, _ := build(t, nil, fixture(t, "globals.js"))
	c := mustClass(t, m, "nl.test.Test")
	if c.Kind != KindGlobals {
		t.Errorf("Kind = %v", c.Kind)
	}

	f1 := c.Field("SOME_STATIC_1")
	if f1 == nil || !f1.IsStatic || f1.IsConst || typeName(f1.Type) != "boolean" {
		t.Errorf("SOME_STATIC_1 = %+v", f1)
	}
	f2 := c.Field("SOME_STATIC_2")
	if f2 == nil || !f2.IsConst || typeName(f2.Type) != "number" {
		t.Errorf("SOME_STATIC_2 = %+v", f2)
	}
	if f2 != nil && f2.Initializer != "goog.global.devicePixelRatio || 1" {
		t.Errorf("Initializer = %q", f2.Initializer)
	}

	t.Run("top level", func(t *testing.T) {
		m, _ := build(t, nil, source{"top.js", "/** @type {string} */\nvar VERSION = '1';\n"})
		c := mustClass(t, m, "Globals")
		if c.Field("VERSION") == nil {
			t.Error("VERSION missing")
		}
	})
}

func TestExpand(t *testing.T) {
	num := jstype.Named{Name: "number"}
	str := jstype.Named{Name: "string"}
	union := jstype.Union{Members: []jstype.Expr{num, str}}

	tests := []struct {
		name   string
		params []Param
		want   []int
	}{
		{"no params", nil, []int{0}},
		{"required", []Param{{Name: "a", Type: num}, {Name: "b", Type: str}}, []int{2}},
		{
			"optional suffix",
			[]Param{{Name: "a", Type: num}, {Name: "b", Type: num, Optional: true}, {Name: "c", Type: num, Optional: true}},
			[]int{1, 2, 3},
		},
		{"union product", []Param{{Name: "a", Type: union}, {Name: "b", Type: union}}, []int{2, 2, 2, 2}},
		{"optional union", []Param{{Name: "a", Type: union, Optional: true}}, []int{0, 1, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(tt.params)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d overloads, want %d", len(got), len(tt.want))
			}
			for i, n := range tt.want {
				if len(got[i]) != n {
					t.Errorf("overload %d has %d params, want %d", i, len(got[i]), n)
				}
			}
		})
	}

	t.Run("does not share types", func(t *testing.T) {
		params := []Param{{Name: "a", Type: jstype.Named{Name: "Array", Args: []jstype.Expr{num}}}}
		got := Expand(params)
		got[0][0].Type.(jstype.Named).Args[0] = str
		if typeName(params[0].Type.(jstype.Named).Args[0]) != "number" {
			t.Error("overload shares its type tree with the declaration")
		}
	})
}

func TestBuildOverloadCollision(t *testing.T) {
	src := source{"a.js", `/** @constructor */
a.B = function() {};

/** @param {(number|string)=} x */
a.B.prototype.f = function(x) {};
`}

	t.Run("optional union", func(t *testing.T) {
		m, diags := build(t, nil, src)
		got := mustClass(t, m, "a.B").Methods("f")
		if len(got) != 3 {
			t.Fatalf("got %d overloads, want 3", len(got))
		}
		if n := diags.Count(diag.OverloadCollision); n != 1 {
			t.Errorf("got %d collisions, want 1", n)
		}
		if diags.HasErrors() {
			t.Error("collisions must not be errors")
		}
	})

	t.Run("custom eraser", func(t *testing.T) {
		eraseAll := WithEraser(func(*SymbolTable) Eraser { return objectEraser{} })
		m, diags := build(t, []Option{eraseAll}, src)
		got := mustClass(t, m, "a.B").Methods("f")
		if len(got) != 2 {
			t.Fatalf("got %d overloads, want 2", len(got))
		}
		if n := diags.Count(diag.OverloadCollision); n != 2 {
			t.Errorf("got %d collisions, want 2", n)
		}
	})
}

type objectEraser struct{}

func (objectEraser) Erase(jstype.Expr) string { return "Object" }

func TestBuildSymbolConflict(t *testing.T) {
	m, diags := build(t, nil, source{"a.js", `/** @constructor */
a.B = function() {};

/** @enum {string} */
a.B = {X: 'x'};

/** @return {number} */
a.B.prototype.f = function() {};
`})
	if m.Class("a.B") != nil || m.Enum("a.B") != nil {
		t.Error("conflicting name still present")
	}
	if n := diags.Count(diag.SymbolConflict); n != 1 {
		t.Errorf("got %d conflicts, want 1", n)
	}
	if !diags.HasErrors() {
		t.Error("conflict is not an error")
	}
	for _, c := range m.Classes() {
		if len(c.Methods("f")) != 0 {
			t.Errorf("member of conflicting class attached to %s", c.Name)
		}
	}
}

func TestBuildForwardExtends(t *testing.T) {
	m, diags := build(t, nil, source{"a.js", `/**
 * @constructor
 * @extends {a.Base}
 */
a.Sub = function() {};

/** @constructor */
a.Base = function() {};
`})
	if sub := mustClass(t, m, "a.Sub"); sub.Super != "a.Base" {
		t.Errorf("Super = %q", sub.Super)
	}
	if mustClass(t, m, "a.Base").Opaque {
		t.Error("declared base marked opaque")
	}
	if diags.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", diags.Items())
	}
}

func TestBuildUnresolvedReference(t *testing.T) {
	m, diags := build(t, nil, source{"a.js", `/**
 * @constructor
 * @extends {x.Missing}
 */
a.B = function() {};

/** @param {x.Missing} m */
a.B.prototype.f = function(m) {};
`})
	if mustClass(t, m, "a.B").Super != "x.Missing" {
		t.Error("super not kept")
	}
	if !mustClass(t, m, "x.Missing").Opaque {
		t.Error("missing class not synthesized as opaque")
	}
	got := diags.ByKind(diag.UnresolvedReference)
	if len(got) != 1 {
		t.Fatalf("got %d unresolved references, want 1: %v", len(got), got)
	}
	if got[0].Pos.Line != 3 {
		t.Errorf("reported at %s, want line 3", got[0].Pos)
	}
}

func TestBuildSignatureMismatch(t *testing.T) {
	m, diags := build(t, nil, source{"a.js", `/** @constructor */
a.B = function() {};

/** @param {string} first */
a.B.prototype.f = function(first, second) {};
`})
	if n := diags.Count(diag.SignatureMismatch); n != 1 {
		t.Fatalf("got %d mismatches, want 1", n)
	}
	got := mustClass(t, m, "a.B").Methods("f")
	if len(got) != 1 || len(got[0].Params) != 2 {
		t.Fatalf("got %+v", got)
	}
	if _, ok := got[0].Params[1].Type.(jstype.Unknown); !ok || got[0].Params[1].Name != "second" {
		t.Errorf("undocumented param = %+v", got[0].Params[1])
	}
}

func TestBuildMalformedSignature(t *testing.T) {
	t.Run("variadic not last", func(t *testing.T) {
		m, diags := build(t, nil, source{"a.js", `/** @constructor */
a.B = function() {};

/**
 * @param {...number} a
 * @param {string} b
 */
a.B.prototype.f = function(a, b) {};
`})
		if n := diags.Count(diag.MalformedSignature); n != 1 {
			t.Fatalf("got %d, want 1", n)
		}
		p := mustClass(t, m, "a.B").Methods("f")[0].Params[0]
		if p.Variadic || typeName(p.Type) != "Array" {
			t.Errorf("param = %+v", p)
		}
	})

	t.Run("optional before required", func(t *testing.T) {
		m, diags := build(t, nil, source{"a.js", `/** @constructor */
a.B = function() {};

/**
 * @param {number=} a
 * @param {number=} b
 * @param {string} c
 */
a.B.prototype.f = function(a, b, c) {};
`})
		if n := diags.Count(diag.MalformedSignature); n != 1 {
			t.Fatalf("got %d, want 1", n)
		}
		got := mustClass(t, m, "a.B").Methods("f")
		if len(got) != 1 || len(got[0].Params) != 3 {
			t.Errorf("got %+v", got)
		}
	})
}

func TestBuildBodilessConstructorRefined(t *testing.T) {
	m, diags := build(t, nil, source{"a.js", `/** @constructor */
a.B;

/**
 * @constructor
 * @param {string} x
 */
a.B = function(x) {};
`})
	c := mustClass(t, m, "a.B")
	if len(c.ConstructorParams) != 1 || c.ConstructorParams[0].Name != "x" {
		t.Errorf("ConstructorParams = %+v", c.ConstructorParams)
	}
	if diags.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", diags.Items())
	}
}

func TestBuildTypedefs(t *testing.T) {
	m, _ := build(t, nil, source{"a.js", `/** @typedef {{x: number, y: string}} */
a.Point;

/** @typedef {string|number} */
a.Id;
`})
	p := mustClass(t, m, "a.Point")
	if p.Kind != KindData || len(p.Fields) != 2 {
		t.Fatalf("Point = %v with %d fields", p.Kind, len(p.Fields))
	}
	if p.Fields[0].Name != "x" || typeName(p.Fields[0].Type) != "number" {
		t.Errorf("first field = %+v", p.Fields[0])
	}

	tds := m.Typedefs()
	if len(tds) != 1 || tds[0].Name != "a.Id" {
		t.Fatalf("typedefs = %+v", tds)
	}
	if _, ok := tds[0].Type.(jstype.Union); !ok {
		t.Errorf("Type = %v", tds[0].Type)
	}
}

func TestBuildInterfaces(t *testing.T) {
	m, _ := build(t, nil, source{"a.js", `/** @interface */
a.Named = function() {};

/** @return {string} */
a.Named.prototype.getName = function() {};

/**
 * @interface
 * @extends {a.Named}
 */
a.Titled = function() {};

/**
 * @constructor
 * @implements {a.Titled}
 */
a.Book = function() {};
`})
	titled := mustClass(t, m, "a.Titled")
	if titled.Kind != KindInterface || len(titled.Interfaces) != 1 || titled.Interfaces[0] != "a.Named" {
		t.Errorf("Titled = %v %v", titled.Kind, titled.Interfaces)
	}
	if titled.Super != "" {
		t.Errorf("interface Super = %q", titled.Super)
	}
	book := mustClass(t, m, "a.Book")
	if len(book.Interfaces) != 1 || book.Interfaces[0] != "a.Titled" {
		t.Errorf("Book.Interfaces = %v", book.Interfaces)
	}
	if got := mustClass(t, m, "a.Named").Methods("getName"); len(got) != 1 {
		t.Errorf("getName overloads = %d", len(got))
	}
}

func TestBuildStaticMembers(t *testing.T) {
	m, _ := build(t, nil, source{"a.js", `/** @constructor */
a.B = function() {};

/**
 * @param {string} s
 * @return {number}
 */
a.B.parse = goog.nullFunction;

/** @return {a.B} */
a.B.create = function() {};

/** @const */
a.B.LIMIT = 10;
`})
	c := mustClass(t, m, "a.B")

	parse := c.Methods("parse")
	if len(parse) != 1 || !parse[0].IsStatic || len(parse[0].Params) != 1 || typeName(parse[0].Return) != "number" {
		t.Errorf("parse = %+v", parse)
	}
	create := c.Methods("create")
	if len(create) != 1 || !create[0].IsStatic || typeName(create[0].Return) != "a.B" {
		t.Errorf("create = %+v", create)
	}
	limit := c.Field("LIMIT")
	if limit == nil || !limit.IsConst || typeName(limit.Type) != "number" {
		t.Errorf("LIMIT = %+v", limit)
	}
}

func TestBuildTemplates(t *testing.T) {
	m, diags := build(t, nil, source{"a.js", `/**
 * @constructor
 * @template T
 */
a.Box = function() {};

/**
 * @param {function(T): R} fn
 * @return {a.Box.<R>}
 * @template R
 */
a.Box.prototype.map = function(fn) {};
`})
	got := mustClass(t, m, "a.Box").Methods("map")
	if len(got) != 1 || len(got[0].Template) != 1 || got[0].Template[0] != "R" {
		t.Fatalf("map = %+v", got)
	}
	if diags.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", diags.Items())
	}
}

func TestClassify(t *testing.T) {
	decl := func(t *testing.T, src string) *js.Declaration {
		t.Helper()
		decls := js.Scan([]byte(src))
		if len(decls) != 1 {
			t.Fatalf("scanned %d declarations", len(decls))
		}
		return &decls[0]
	}

	tests := []struct {
		name     string
		opts     []Option
		src      string
		instance bool
		want     Shape
	}{
		{"function", nil, "/** @return {number} */\na.B.prototype.f = function() {};", true, ShapeConcrete},
		{"bodiless", nil, "/** @return {number} */\na.B.prototype.f;", true, ShapeExcluded},
		{"bodiless typed", nil, "/** @type {number} */\na.B.prototype.f;", true, ShapeConcrete},
		{"bodiless static with tags", nil, "/** @return {number} */\na.B.f;", false, ShapeConcrete},
		{"bodiless static", nil, "/** @const */\na.B.f;", false, ShapeExcluded},
		{"sentinel", nil, "/** @return {number} */\na.B.prototype.f = goog.abstractMethod;", true, ShapeAbstract},
		{"custom sentinel", []Option{WithAbstractSentinels("abstract")}, "/** */\na.B.prototype.f = abstract;", true, ShapeAbstract},
		{"default sentinel replaced", []Option{WithAbstractSentinels("abstract")}, "/** */\na.B.prototype.f = goog.abstractMethod;", true, ShapeConcrete},
		{"private", nil, "/** @private */\na.B.prototype.f = function() {};", true, ShapeExcluded},
		{"private kept", []Option{WithSkipPrivate(false)}, "/** @private */\na.B.prototype.f = function() {};", true, ShapeConcrete},
		{"override", nil, "/** @override */\na.B.prototype.f = function() {};", true, ShapeExcluded},
		{"override kept", []Option{WithSkipOverrides(false)}, "/** @override */\na.B.prototype.f = function() {};", true, ShapeConcrete},
		{"ignored", nil, "/** @return {string} */\na.B.prototype.toString = function() {};", true, ShapeExcluded},
		{"ignored by class", []Option{WithIgnore("B$f")}, "/** */\na.B.prototype.f = function() {};", true, ShapeExcluded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decl(t, tt.src)
			b := NewBuilder(tt.opts...)
			name := QualifiedName(d.Target).SimpleName()
			got := b.Classify(d, "a.B", name, tt.instance)
			if got.Shape != tt.want {
				t.Errorf("Classify = %v (%s), want %v", got.Shape, got.Reason, tt.want)
			}
		})
	}
}

func TestBuildSomeClassScenario(t *testing.T) {
	m, diags := build(t, nil, source{"some.js", `/** @constructor */
nl.test.SomeClassAbstract = function() {};

/**
 * @constructor
 * @extends {nl.test.SomeClassAbstract}
 */
nl.test.SomeClass = function() {};

/**
 * @const
 * @type {number}
 */
nl.test.SomeClass.SOME_ID = 1;

/**
 * @param {number} first
 * @param {number} second
 * @param {number=} third
 */
nl.test.SomeClass.prototype.setSomeFunction3 = function(first, second, third) {};

/**
 * @param {number|string} first
 * @param {number|string} second
 */
nl.test.SomeClass.prototype.setSomeFunction2Double = function(first, second) {};
`})
	c := mustClass(t, m, "nl.test.SomeClass")
	if c.Super != "nl.test.SomeClassAbstract" {
		t.Errorf("Super = %q", c.Super)
	}
	if len(c.Fields) != 1 || !c.Fields[0].IsConst || c.Fields[0].Name != "SOME_ID" {
		t.Errorf("Fields = %+v", c.Fields)
	}
	if got := c.Methods("setSomeFunction3"); len(got) != 2 || len(got[0].Params) != 2 || len(got[1].Params) != 3 {
		t.Errorf("setSomeFunction3 = %d overloads", len(got))
	}

	got := c.Methods("setSomeFunction2Double")
	if len(got) != 4 {
		t.Fatalf("setSomeFunction2Double = %d overloads, want 4", len(got))
	}
	seen := map[string]bool{}
	for _, m := range got {
		for _, p := range m.Params {
			if _, ok := jstype.Strip(p.Type).(jstype.Union); ok {
				t.Errorf("union left in %s", p.Type)
			}
		}
		seen[typeName(m.Params[0].Type)+","+typeName(m.Params[1].Type)] = true
	}
	if len(seen) != 4 {
		t.Errorf("combinations = %v", seen)
	}
	if diags.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", diags.Items())
	}
}
