package model

import "testing"

func TestQualifiedName(t *testing.T) {
	tests := []struct {
		name      QualifiedName
		simple    string
		parent    QualifiedName
		namespace string
	}{
		{"nl.test.SomeClass", "SomeClass", "nl.test", "nl.test"},
		{"nl.test.SomeClass.Inner", "Inner", "nl.test.SomeClass", "nl.test"},
		{"Globals", "Globals", "", ""},
		{"goog", "goog", "", ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			if got := tt.name.SimpleName(); got != tt.simple {
				t.Errorf("SimpleName() = %q, want %q", got, tt.simple)
			}
			if got := tt.name.Parent(); got != tt.parent {
				t.Errorf("Parent() = %q, want %q", got, tt.parent)
			}
			if got := tt.name.Namespace(); got != tt.namespace {
				t.Errorf("Namespace() = %q, want %q", got, tt.namespace)
			}
		})
	}
}

func TestGlobalsName(t *testing.T) {
	tests := map[QualifiedName]QualifiedName{
		"nl.test": "nl.test.Test",
		"ol":      "ol.Ol",
		"":        "Globals",
	}
	for ns, want := range tests {
		if got := globalsName(ns); got != want {
			t.Errorf("globalsName(%q) = %q, want %q", ns, got, want)
		}
	}
}
