package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// QualifiedName is a dot-separated global path such as nl.test.SomeClass.
type QualifiedName string

func (q QualifiedName) String() string {
	return string(q)
}

func (q QualifiedName) Parts() []string {
	if q == "" {
		return nil
	}
	return strings.Split(string(q), ".")
}

// SimpleName returns the last segment.
func (q QualifiedName) SimpleName() string {
	s := string(q)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Parent returns the path without its last segment, or "" for a
// single-segment name.
func (q QualifiedName) Parent() QualifiedName {
	s := string(q)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return QualifiedName(s[:i])
	}
	return ""
}

func (q QualifiedName) Child(name string) QualifiedName {
	if q == "" {
		return QualifiedName(name)
	}
	return q + "." + QualifiedName(name)
}

// Namespace returns the leading segments that start with a lower-case
// letter: the namespace of nl.test.SomeClass.Inner is nl.test.
func (q QualifiedName) Namespace() string {
	parts := q.Parts()
	n := 0
	for n < len(parts)-1 && !isTypeName(parts[n]) {
		n++
	}
	return strings.Join(parts[:n], ".")
}

// IsDotted reports whether q has more than one segment.
func (q QualifiedName) IsDotted() bool {
	return strings.IndexByte(string(q), '.') >= 0
}

func isTypeName(segment string) bool {
	r, _ := utf8.DecodeRuneInString(segment)
	return unicode.IsUpper(r)
}

// globalsName returns the holder class for statics declared directly on a
// namespace, e.g. nl.test.Test for nl.test.
func globalsName(namespace QualifiedName) QualifiedName {
	simple := namespace.SimpleName()
	if simple == "" {
		return "Globals"
	}
	r, size := utf8.DecodeRuneInString(simple)
	return namespace.Child(string(unicode.ToUpper(r)) + simple[size:])
}
