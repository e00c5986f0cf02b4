package compiler

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/jsdocgen/config"
	"github.com/dhamidi/jsdocgen/diag"
	"github.com/dhamidi/jsdocgen/format"
	"github.com/dhamidi/jsdocgen/java"
	"github.com/dhamidi/jsdocgen/js"
)

const fixtures = "../model/testdata"

func findClass(classes []*java.ClassModel, name string) *java.ClassModel {
	var found *java.ClassModel
	for _, c := range classes {
		c.Walk(func(cm *java.ClassModel) {
			if cm.Name == name {
				found = cm
			}
		})
	}
	return found
}

func render(t *testing.T, r *Result) string {
	t.Helper()
	var buf bytes.Buffer
	enc := format.NewJavaEncoder(&buf)
	for _, c := range r.Classes {
		if err := enc.Encode(c); err != nil {
			t.Fatalf("Encode(%s): %v", c.Name, err)
		}
	}
	for _, d := range r.Diagnostics.Sorted() {
		buf.WriteString(d.String())
		buf.WriteString("\n")
	}
	return buf.String()
}

func TestCompileFiles(t *testing.T) {
	r, err := New(nil).CompileFiles(context.Background(), []string{fixtures})
	if err != nil {
		t.Fatalf("CompileFiles: %v", err)
	}
	if r.Diagnostics.HasErrors() {
		t.Errorf("unexpected errors: %v", r.Diagnostics.Items())
	}
	for _, name := range []string{
		"nl.test.SomeClass",
		"nl.test.SomeClassAbstract",
		"nl.test.SomeProperty",
		"nl.test.Test",
		java.DefaultFunctionPackage + ".Fn1",
	} {
		if findClass(r.Classes, name) == nil {
			t.Errorf("%s not generated", name)
		}
	}
	c := findClass(r.Classes, "nl.test.SomeClass")
	if c != nil && c.SuperClass != "java.util.ArrayList" {
		t.Errorf("SuperClass = %q", c.SuperClass)
	}
	if n := r.Diagnostics.Count(diag.UnresolvedReference); n != 0 {
		t.Errorf("%d unresolved references: %v", n, r.Diagnostics.ByKind(diag.UnresolvedReference))
	}
}

func TestCompileDeterministic(t *testing.T) {
	var outputs []string
	for _, jobs := range []int{1, 2, 8} {
		cfg := config.New()
		cfg.Jobs = jobs
		r, err := New(cfg).CompileFiles(context.Background(), []string{fixtures, "testdata/forward"})
		if err != nil {
			t.Fatalf("jobs=%d: %v", jobs, err)
		}
		outputs = append(outputs, render(t, r))
	}
	for i := 1; i < len(outputs); i++ {
		if outputs[i] != outputs[0] {
			t.Errorf("output with run %d differs from run 0", i)
		}
	}
}

func TestCompileForwardExtends(t *testing.T) {
	r, err := New(nil).CompileFiles(context.Background(), []string{"testdata/forward"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Diagnostics.Len() != 0 {
		t.Errorf("diagnostics: %v", r.Diagnostics.Items())
	}
	d := findClass(r.Classes, "app.Derived")
	if d == nil {
		t.Fatal("app.Derived missing")
	}
	if d.SuperClass != "app.Base" {
		t.Errorf("SuperClass = %q", d.SuperClass)
	}
	var overlaps int
	for _, m := range d.Methods {
		if m.Name == "overlaps" {
			overlaps++
		}
	}
	if overlaps != 2 {
		t.Errorf("got %d overlaps overloads, want 2", overlaps)
	}
	if d.Constructors[0].Javadoc != "" || d.Constructors[0].Parameters[0].Javadoc != "The shape name." {
		t.Errorf("constructor = %+v", d.Constructors[0])
	}
}

func TestCompileSymbolConflict(t *testing.T) {
	units := []Unit{
		{Path: "a.js", Source: []byte("/** @constructor */\napp.X = function() {};\n")},
		{Path: "b.js", Source: []byte("/** @enum {string} */\napp.X = {A: 'a'};\n")},
	}
	r, err := New(nil).Compile(context.Background(), units)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Diagnostics.HasErrors() || r.Diagnostics.Count(diag.SymbolConflict) != 1 {
		t.Errorf("diagnostics: %v", r.Diagnostics.Items())
	}
	if findClass(r.Classes, "app.X") != nil {
		t.Error("conflicting symbol was generated")
	}
}

func TestCompilePairs(t *testing.T) {
	r := New(nil).CompilePairs("pairs.js", []js.Pair{
		{Doc: "/** @constructor */", Decl: "app.P = function() {};"},
		{Doc: "/** @return {number} */", Decl: "app.P.prototype.size = function() {};"},
	})
	c := findClass(r.Classes, "app.P")
	if c == nil || len(c.Methods) != 1 || c.Methods[0].ReturnType.String() != "double" {
		t.Errorf("app.P = %+v", c)
	}
}

func TestCompileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(nil).CompileFiles(ctx, []string{fixtures}); err == nil {
		t.Fatal("CompileFiles succeeded with a cancelled context")
	}
}

func TestCompileFilesMissing(t *testing.T) {
	_, err := New(nil).CompileFiles(context.Background(), []string{"testdata/absent.js"})
	if err == nil || !strings.Contains(err.Error(), "absent.js") {
		t.Fatalf("err = %v", err)
	}
}

func TestExpand(t *testing.T) {
	files, err := Expand([]string{"testdata/forward", filepath.Join(fixtures, "enum.js")})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join("testdata", "forward", "a_derived.js"),
		filepath.Join("testdata", "forward", "b_base.js"),
		filepath.Join(fixtures, "enum.js"),
	}
	if strings.Join(files, "|") != strings.Join(want, "|") {
		t.Errorf("Expand = %v, want %v", files, want)
	}
}

func TestWriteFiles(t *testing.T) {
	r, err := New(nil).CompileFiles(context.Background(), []string{fixtures})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	written, err := WriteFiles(dir, "java", r.Classes)
	if err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	if len(written) != len(r.Classes) {
		t.Errorf("wrote %d files for %d classes", len(written), len(r.Classes))
	}
	data, err := os.ReadFile(filepath.Join(dir, "nl", "test", "SomeClass.java"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"package nl.test;", "class SomeClass extends ArrayList {", "getSOME_ID()"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("SomeClass.java lacks %q", want)
		}
	}

	t.Run("json", func(t *testing.T) {
		written, err := WriteFiles(dir, "json", r.Classes[:1])
		if err != nil {
			t.Fatal(err)
		}
		if len(written) != 1 || filepath.Ext(written[0]) != ".json" {
			t.Errorf("written = %v", written)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := WriteFiles(dir, "xml", r.Classes); err == nil {
			t.Error("WriteFiles succeeded")
		}
	})
}
