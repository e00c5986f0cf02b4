// Package config provides configuration handling for jsdocgen.
package config

import (
	"github.com/dhamidi/jsdocgen/java"
	"github.com/dhamidi/jsdocgen/model"
)

// DefaultTypeMappings returns Closure library types with a known Java
// counterpart. Built-in JavaScript and DOM types are mapped by the type
// mapper itself.
func DefaultTypeMappings() map[string]string {
	return map[string]string{
		"goog.Promise":             "elemental2.promise.Promise",
		"goog.Thenable":            "elemental2.promise.IThenable",
		"goog.events.EventTarget":  "elemental2.dom.EventTarget",
		"goog.events.Event":        "elemental2.dom.Event",
		"goog.events.BrowserEvent": "elemental2.dom.Event",
		"goog.Uri":                 "java.lang.String",
	}
}

// DefaultExterns returns the names that resolve without a declaration.
func DefaultExterns() []string {
	return []string{"java.*"}
}

// DefaultTarget returns the default Java target settings.
func DefaultTarget() Target {
	return Target{
		OpaqueType:      java.DefaultOpaqueType,
		FunctionPackage: java.DefaultFunctionPackage,
	}
}

// DefaultOutput returns the default output settings.
func DefaultOutput() Output {
	return Output{
		Dir:    "out",
		Format: "java",
	}
}

func defaultSentinels() []string {
	return append([]string(nil), model.DefaultAbstractSentinels...)
}

func defaultIgnore() []string {
	return append([]string(nil), model.DefaultIgnore...)
}
