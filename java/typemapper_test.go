package java

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/dhamidi/jsdocgen/js"
	"github.com/dhamidi/jsdocgen/jstype"
	"github.com/dhamidi/jsdocgen/model"
)

func buildModel(t *testing.T, sources map[string]string, opts ...model.Option) *model.Model {
	t.Helper()
	var units []model.Unit
	for _, name := range sortedKeys(sources) {
		units = append(units, model.Unit{
			Path:  name,
			Decls: js.Scan([]byte(sources[name]), js.WithFile(name)),
		})
	}
	m, _ := model.NewBuilder(opts...).Build(units)
	return m
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "model", "testdata", name))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	return string(data)
}

func mustParse(t *testing.T, src string) jstype.Expr {
	t.Helper()
	e, err := jstype.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return e
}

const hierarchy = `/** @constructor */
a.Base = function() {};

/**
 * @constructor
 * @extends {a.Base}
 */
a.Left = function() {};

/**
 * @constructor
 * @extends {a.Left}
 */
a.LeftLeaf = function() {};

/**
 * @constructor
 * @extends {a.Base}
 */
a.Right = function() {};

/** @constructor */
a.Other = function() {};

/** @typedef {string} */
a.Id;

/** @typedef {a.Loop2} */
a.Loop1;

/** @typedef {a.Loop1} */
a.Loop2;

/** @typedef {{x: number}} */
a.Point;

/** @enum {string} */
a.Color = {RED: 'red'};
`

func TestTypeMapperMap(t *testing.T) {
	m := buildModel(t, map[string]string{"a.js": hierarchy})
	tm := NewTypeMapper(m.Symbols, WithTypeMappings(map[string]string{
		"goog.Uri":       "java.net.URI",
		"Array.<string>": "java.lang.String[]",
	}))

	tests := []struct {
		expr string
		pos  Position
		want string
	}{
		{"number", PositionField, "double"},
		{"number", PositionTypeArg, "java.lang.Double"},
		{"boolean", PositionParam, "boolean"},
		{"int", PositionTypeArg, "java.lang.Integer"},
		{"string", PositionParam, "java.lang.String"},
		{"void", PositionReturn, "void"},
		{"undefined", PositionTypeArg, "java.lang.Void"},
		{"*", PositionField, "java.lang.Object"},
		{"?", PositionParam, "java.lang.Object"},
		{"Object", PositionField, "java.lang.Object"},
		{"number|undefined", PositionReturn, "java.lang.Double"},
		{"?number", PositionField, "java.lang.Double"},
		{"!number", PositionField, "double"},
		{"!Array.<Array.<Array.<number>>>", PositionParam,
			"elemental2.core.JsArray<elemental2.core.JsArray<elemental2.core.JsArray<java.lang.Double>>>"},
		{"Array", PositionField, "elemental2.core.JsArray<java.lang.Object>"},
		{"Object.<string, number>", PositionField, "jsinterop.base.JsPropertyMap<java.lang.Double>"},
		{"Element", PositionField, "elemental2.dom.Element"},
		{"Promise.<string>", PositionReturn, "elemental2.promise.Promise<java.lang.String>"},
		{"a.Base", PositionParam, "a.Base"},
		{"a.Color", PositionField, "a.Color"},
		{"x.Undeclared", PositionField, "x.Undeclared"},
		{"goog.Uri", PositionField, "java.net.URI"},
		{"Array.<string>", PositionField, "java.lang.String[]"},
		{"a.Id", PositionField, "java.lang.String"},
		{"a.Loop1", PositionField, "java.lang.Object"},
		{"a.Left|a.Right", PositionReturn, "a.Base"},
		{"a.LeftLeaf|a.Left", PositionField, "a.Left"},
		{"a.LeftLeaf|a.Right", PositionField, "a.Base"},
		{"a.Left|a.Other", PositionField, "java.lang.Object"},
		{"number|string", PositionField, "java.lang.Object"},
		{"...number", PositionParam, "double"},
		{"...number", PositionField, "elemental2.core.JsArray<java.lang.Double>"},
		{"function(a.Base): number", PositionParam, "jsdocgen.fn.Fn1<a.Base, java.lang.Double>"},
		{"function()", PositionField, "jsdocgen.fn.Fn0<java.lang.Void>"},
		{"function(this:a.Base, string)", PositionParam, "jsdocgen.fn.Fn1<java.lang.String, java.lang.Void>"},
		{"T", PositionReturn, "T"},
	}
	for _, tt := range tests {
		t.Run(tt.expr+"/"+tt.pos.String(), func(t *testing.T) {
			got := tm.Map(mustParse(t, tt.expr), tt.pos)
			if got.String() != tt.want {
				t.Errorf("Map(%q, %v) = %s, want %s", tt.expr, tt.pos, got, tt.want)
			}
		})
	}

	t.Run("record is unmapped", func(t *testing.T) {
		got := tm.Map(mustParse(t, "{x: number}"), PositionField)
		if !got.Unmapped || got.Name != DefaultOpaqueType {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("nil return", func(t *testing.T) {
		if got := tm.Map(nil, PositionReturn); !got.IsVoid() {
			t.Errorf("got %s", got)
		}
	})
}

func TestTypeMapperOptions(t *testing.T) {
	m := buildModel(t, map[string]string{"a.js": hierarchy})
	tm := NewTypeMapper(m.Symbols,
		WithOpaqueType("jsinterop.base.Any"),
		WithFunctionPackage("app.fn"),
		WithBindThis(true),
	)

	if got := tm.Map(jstype.Unknown{}, PositionField).String(); got != "jsinterop.base.Any" {
		t.Errorf("opaque = %s", got)
	}
	got := tm.Map(mustParse(t, "function(this:a.Base, string): boolean"), PositionParam).String()
	if want := "app.fn.ThisFn1<a.Base, java.lang.String, java.lang.Boolean>"; got != want {
		t.Errorf("bound function = %s, want %s", got, want)
	}
	shapes := tm.FunctionShapes()
	if len(shapes) != 1 || !shapes[0].BindThis || shapes[0].Arity != 1 {
		t.Errorf("shapes = %+v", shapes)
	}
}

func TestTypeMapperFunctionShapes(t *testing.T) {
	tm := NewTypeMapper(model.NewSymbolTable())
	for _, src := range []string{"function(number, number)", "function()", "function(string)", "function(number)"} {
		tm.Map(mustParse(t, src), PositionParam)
	}
	shapes := tm.FunctionShapes()
	want := []int{0, 1, 2}
	if len(shapes) != len(want) {
		t.Fatalf("shapes = %+v", shapes)
	}
	for i, arity := range want {
		if shapes[i].Arity != arity {
			t.Errorf("shape %d arity = %d, want %d", i, shapes[i].Arity, arity)
		}
	}
}

func TestTypeMapperErase(t *testing.T) {
	tm := NewTypeMapper(model.NewSymbolTable())
	if a, b := tm.Erase(mustParse(t, "number")), tm.Erase(mustParse(t, "!number")); a != b {
		t.Errorf("number and !number erase differently: %s, %s", a, b)
	}
	if a, b := tm.Erase(mustParse(t, "Array.<string>")), tm.Erase(mustParse(t, "Array.<number>")); a == b {
		t.Errorf("distinct arrays erase alike: %s", a)
	}
}

func TestTypeMapperIdempotent(t *testing.T) {
	m := buildModel(t, map[string]string{
		"class.js":    readFixture(t, "class.js"),
		"abstract.js": readFixture(t, "abstract_class.js"),
		"globals.js":  readFixture(t, "globals.js"),
		"enum.js":     readFixture(t, "enum.js"),
	}, model.WithKnownNames("java.util.*"))

	var exprs []jstype.Expr
	for _, c := range m.Classes() {
		for _, f := range c.Fields {
			exprs = append(exprs, f.Type)
		}
		for _, meth := range c.AllMethods() {
			exprs = append(exprs, meth.Return)
			for _, p := range meth.Params {
				exprs = append(exprs, p.Type)
			}
		}
	}
	if len(exprs) == 0 {
		t.Fatal("no types collected")
	}

	tm := NewTypeMapper(m.Symbols)
	for _, pos := range []Position{PositionField, PositionParam, PositionReturn, PositionTypeArg} {
		for _, e := range exprs {
			first := tm.Map(e, pos)
			second := tm.Map(e, pos)
			if first.String() != second.String() || first.Unmapped != second.Unmapped {
				t.Errorf("Map(%v, %v) not idempotent: %s then %s", e, pos, first, second)
			}
		}
	}
}
