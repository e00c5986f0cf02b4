package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/jsdocgen/java"
)

func jsType(namespace, name string) java.AnnotationModel {
	return java.AnnotationModel{
		Type: "jsinterop.annotations.JsType",
		Elements: []java.ElementValuePairModel{
			{Name: "isNative", Value: true},
			{Name: "namespace", Value: namespace},
			{Name: "name", Value: name},
		},
	}
}

func someClass() *java.ClassModel {
	arrayList := java.TypeModel{Name: "java.util.ArrayList"}
	double := java.TypeModel{Name: "double"}
	return &java.ClassModel{
		Name:        "nl.test.SomeClass",
		SimpleName:  "SomeClass",
		Package:     "nl.test",
		Namespace:   "nl.test",
		JSName:      "SomeClass",
		SuperClass:  "java.util.ArrayList",
		Visibility:  java.VisibilityPublic,
		Kind:        java.ClassKindClass,
		Javadoc:     "Complete JavaScript class example",
		Annotations: []java.AnnotationModel{jsType("nl.test", "SomeClass")},
		Constructors: []java.MethodModel{
			{Name: "SomeClass", Visibility: java.VisibilityPublic, IsConstructor: true},
			{
				Name:          "SomeClass",
				Visibility:    java.VisibilityPublic,
				IsConstructor: true,
				Parameters:    []java.ParameterModel{{Name: "opt_options", Type: arrayList}},
			},
		},
		Methods: []java.MethodModel{
			{
				Name:       "getSOME_ID",
				ReturnType: double,
				Visibility: java.VisibilityPublic,
				IsStatic:   true,
				IsNative:   true,
				Annotations: []java.AnnotationModel{{
					Type:     "jsinterop.annotations.JsProperty",
					Elements: []java.ElementValuePairModel{{Name: "name", Value: "SOME_ID"}},
				}},
			},
			{
				Name:       "setSomeFunction3",
				ReturnType: java.TypeModel{Name: "void"},
				Visibility: java.VisibilityPublic,
				IsNative:   true,
				Parameters: []java.ParameterModel{
					{Name: "first", Type: double, Javadoc: "first parameter."},
					{Name: "second", Type: double},
				},
			},
		},
	}
}

func someEnum() *java.ClassModel {
	str := java.TypeModel{Name: "java.lang.String"}
	return &java.ClassModel{
		Name:       "nl.test.SomeProperty",
		SimpleName: "SomeProperty",
		Package:    "nl.test",
		Namespace:  "nl.test",
		JSName:     "SomeProperty",
		Visibility: java.VisibilityPublic,
		Kind:       java.ClassKindEnum,
		Annotations: []java.AnnotationModel{{
			Type: "jsinterop.annotations.JsEnum",
			Elements: []java.ElementValuePairModel{
				{Name: "isNative", Value: true},
				{Name: "namespace", Value: "nl.test"},
				{Name: "name", Value: "SomeProperty"},
				{Name: "hasCustomValue", Value: true},
			},
		}},
		EnumConstants: []java.EnumConstantModel{
			{Name: "BRIGHTNESS", Arguments: []string{`"brightness"`}},
			{Name: "CONTRAST", Arguments: []string{`"contrast"`}},
		},
		Fields: []java.FieldModel{{Name: "value", Type: str, Visibility: java.VisibilityPrivate, IsFinal: true}},
		Constructors: []java.MethodModel{{
			Name:          "SomeProperty",
			Visibility:    java.VisibilityPackage,
			IsConstructor: true,
			Parameters:    []java.ParameterModel{{Name: "value", Type: str}},
		}},
	}
}

func encodeJava(t *testing.T, c *java.ClassModel) string {
	t.Helper()
	var buf bytes.Buffer
	if err := NewJavaEncoder(&buf).Encode(c); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.String()
}

func TestJavaEncoder(t *testing.T) {
	tests := []struct {
		name  string
		class *java.ClassModel
		want  string
	}{
		{
			name:  "class",
			class: someClass(),
			want: `package nl.test;

import java.util.ArrayList;
import jsinterop.annotations.JsProperty;
import jsinterop.annotations.JsType;

/**
 * Complete JavaScript class example
 */
@JsType(isNative = true, namespace = "nl.test", name = "SomeClass")
public class SomeClass extends ArrayList {
    public SomeClass() {}

    public SomeClass(ArrayList opt_options) {}

    @JsProperty(name = "SOME_ID")
    public static native double getSOME_ID();

    /**
     * @param first first parameter.
     */
    public native void setSomeFunction3(double first, double second);
}
`,
		},
		{
			name:  "enum",
			class: someEnum(),
			want: `package nl.test;

import jsinterop.annotations.JsEnum;

@JsEnum(isNative = true, namespace = "nl.test", name = "SomeProperty", hasCustomValue = true)
public enum SomeProperty {
    BRIGHTNESS("brightness"),
    CONTRAST("contrast");

    private final String value;

    SomeProperty(String value) {
        this.value = value;
    }
}
`,
		},
		{
			name: "global namespace",
			class: &java.ClassModel{
				Name:        "Globals",
				SimpleName:  "Globals",
				Namespace:   java.GlobalNamespace,
				JSName:      "window",
				Visibility:  java.VisibilityPublic,
				Kind:        java.ClassKindClass,
				Annotations: []java.AnnotationModel{jsType(java.GlobalNamespace, "window")},
				Fields: []java.FieldModel{{
					Name:       "LIMIT",
					Type:       java.TypeModel{Name: "double"},
					Visibility: java.VisibilityPublic,
					IsStatic:   true,
				}},
			},
			want: `import jsinterop.annotations.JsPackage;
import jsinterop.annotations.JsType;

@JsType(isNative = true, namespace = JsPackage.GLOBAL, name = "window")
public class Globals {
    public static double LIMIT;
}
`,
		},
		{
			name: "function interface",
			class: &java.ClassModel{
				Name:           "jsdocgen.fn.Fn1",
				SimpleName:     "Fn1",
				Package:        "jsdocgen.fn",
				Visibility:     java.VisibilityPublic,
				Kind:           java.ClassKindInterface,
				Annotations:    []java.AnnotationModel{{Type: "jsinterop.annotations.JsFunction"}},
				TypeParameters: []java.TypeParameterModel{{Name: "P1"}, {Name: "R"}},
				Methods: []java.MethodModel{{
					Name:       "apply",
					ReturnType: java.TypeModel{Name: "R"},
					Parameters: []java.ParameterModel{{Name: "p1", Type: java.TypeModel{Name: "P1"}}},
					Visibility: java.VisibilityPublic,
					IsAbstract: true,
				}},
			},
			want: `package jsdocgen.fn;

import jsinterop.annotations.JsFunction;

@JsFunction
public interface Fn1<P1, R> {
    R apply(P1 p1);
}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encodeJava(t, tt.class); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestJavaEncoderTypes(t *testing.T) {
	jsArray := func(arg java.TypeModel) java.TypeModel {
		return java.TypeModel{Name: "elemental2.core.JsArray", TypeArguments: []java.TypeArgumentModel{{Type: &arg}}}
	}
	c := &java.ClassModel{
		Name:       "a.Date",
		SimpleName: "Date",
		Package:    "a",
		Visibility: java.VisibilityPublic,
		Kind:       java.ClassKindClass,
		IsAbstract: true,
		Fields: []java.FieldModel{
			{Name: "when", Type: java.TypeModel{Name: "java.util.Date"}, Visibility: java.VisibilityPublic},
			{Name: "x", Type: java.TypeModel{Name: "x.Foo"}, Visibility: java.VisibilityPublic},
			{Name: "y", Type: java.TypeModel{Name: "y.Foo"}, Visibility: java.VisibilityPublic},
			{Name: "nested", Type: jsArray(jsArray(java.TypeModel{Name: "java.lang.Double"})), Visibility: java.VisibilityPublic},
			{Name: "names", Type: java.TypeModel{Name: "java.lang.String[]"}, Visibility: java.VisibilityPublic},
		},
		Methods: []java.MethodModel{
			{
				Name:       "sum",
				ReturnType: java.TypeModel{Name: "double"},
				Visibility: java.VisibilityPublic,
				IsNative:   true,
				IsVarargs:  true,
				Parameters: []java.ParameterModel{{Name: "values", Type: java.TypeModel{Name: "double"}}},
			},
			{
				Name:       "draw",
				ReturnType: java.TypeModel{Name: "void"},
				Visibility: java.VisibilityProtected,
				IsAbstract: true,
			},
		},
		InnerClasses: []*java.ClassModel{{
			Name:           "a.Date.Part",
			SimpleName:     "Part",
			Package:        "a",
			Visibility:     java.VisibilityPublic,
			Kind:           java.ClassKindClass,
			IsStatic:       true,
			EnclosingClass: "a.Date",
			Fields: []java.FieldModel{
				{Name: "owner", Type: java.TypeModel{Name: "a.Date"}, Visibility: java.VisibilityPublic},
			},
		}},
	}
	got := encodeJava(t, c)

	for _, want := range []string{
		"public abstract class Date {",
		"public java.util.Date when;",
		"public Foo x;",
		"public y.Foo y;",
		"import x.Foo;",
		"import elemental2.core.JsArray;",
		"public JsArray<JsArray<Double>> nested;",
		"public String[] names;",
		"public native double sum(double... values);",
		"protected abstract void draw();",
		"    public static class Part {\n        public Date owner;\n    }\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output lacks %q:\n%s", want, got)
		}
	}
	for _, unwanted := range []string{"import java.util.Date;", "import y.Foo;", "import java.lang."} {
		if strings.Contains(got, unwanted) {
			t.Errorf("output contains %q:\n%s", unwanted, got)
		}
	}
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(someClass()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var got jsonClass
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got.Name != "nl.test.SomeClass" || got.SuperClass != "java.util.ArrayList" || got.Kind != "class" {
		t.Errorf("header = %+v", got)
	}
	if len(got.Constructors) != 2 || got.Constructors[0].ReturnType != nil {
		t.Errorf("constructors = %+v", got.Constructors)
	}
	if len(got.Methods) != 2 || got.Methods[0].ReturnType.Java != "double" {
		t.Fatalf("methods = %+v", got.Methods)
	}
	if mods := strings.Join(got.Methods[0].Modifiers, ","); mods != "static,native" {
		t.Errorf("getSOME_ID modifiers = %s", mods)
	}
	if len(got.Annotations) != 1 || got.Annotations[0].Elements["namespace"] != "nl.test" {
		t.Errorf("annotations = %+v", got.Annotations)
	}
}

func TestLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewLineEncoder(&buf).Encode(someEnum()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "enum\tnl.test.SomeProperty\tpublic\tnl.test.SomeProperty\n" +
		"constant\tBRIGHTNESS\t\"brightness\"\n" +
		"constant\tCONTRAST\t\"contrast\"\n" +
		"field\tvalue\tjava.lang.String\tprivate\tfinal\n" +
		"constructor\tSomeProperty\tjava.lang.String\tpackage\n"
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	t.Run("class", func(t *testing.T) {
		text, err := (&LineEncoder{class: someClass()}).MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSpace(string(text)), "\n")
		if len(lines) != 5 {
			t.Fatalf("got %d lines:\n%s", len(lines), text)
		}
		if lines[4] != "method\tsetSomeFunction3\tvoid\tdouble,double\tpublic\tnative" {
			t.Errorf("last line = %q", lines[4])
		}
	})
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		if _, err := New(name, &bytes.Buffer{}); err != nil {
			t.Errorf("New(%q): %v", name, err)
		}
	}
	_, err := New("yaml", &bytes.Buffer{})
	if err == nil {
		t.Fatal("New(yaml) succeeded")
	}
	if hint := errors.FlattenHints(err); !strings.Contains(hint, "java") {
		t.Errorf("hint = %q", hint)
	}
}

func TestEncodeNil(t *testing.T) {
	for _, name := range Names() {
		enc, _ := New(name, &bytes.Buffer{})
		if _, err := enc.MarshalText(); err == nil {
			t.Errorf("%s: MarshalText without a class succeeded", name)
		}
	}
}
