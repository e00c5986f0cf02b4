package jsdoc

import (
	"strings"
)

func first[T Node](tags []Node) (T, bool) {
	for _, t := range tags {
		if v, ok := t.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func all[T Node](tags []Node) []T {
	var out []T
	for _, t := range tags {
		if v, ok := t.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// Has reports whether a tag with the given name is present.
func (d *DocComment) Has(tag string) bool {
	for _, t := range d.Tags {
		if t.Tag() == tag {
			return true
		}
	}
	return false
}

func (d *DocComment) Params() []Param {
	return all[Param](d.Tags)
}

func (d *DocComment) Return() (Return, bool) {
	return first[Return](d.Tags)
}

func (d *DocComment) Type() (Type, bool) {
	return first[Type](d.Tags)
}

func (d *DocComment) Enum() (Enum, bool) {
	return first[Enum](d.Tags)
}

func (d *DocComment) Typedef() (Typedef, bool) {
	return first[Typedef](d.Tags)
}

func (d *DocComment) Define() (Define, bool) {
	return first[Define](d.Tags)
}

func (d *DocComment) Extends() []Extends {
	return all[Extends](d.Tags)
}

func (d *DocComment) Implements() []Implements {
	return all[Implements](d.Tags)
}

func (d *DocComment) API() (API, bool) {
	return first[API](d.Tags)
}

// Templates returns the names declared by every @template tag.
func (d *DocComment) Templates() []string {
	var names []string
	for _, t := range all[Template](d.Tags) {
		names = append(names, t.Names...)
	}
	return names
}

func (d *DocComment) Fires() []string {
	var events []string
	for _, f := range all[Fires](d.Tags) {
		if f.Event != "" {
			events = append(events, f.Event)
		}
	}
	return events
}

// IsConst reports whether the value is marked @const or @define.
func (d *DocComment) IsConst() bool {
	return d.Has("const") || d.Has("define")
}

// IsConstructorLike reports whether the comment declares a type with
// members: @constructor, @interface or @record.
func (d *DocComment) IsConstructorLike() bool {
	return d.Has("constructor") || d.Has("interface") || d.Has("record")
}

// ClassDescription returns the @classdesc text, falling back to the
// description.
func (d *DocComment) ClassDescription() string {
	if c, ok := first[ClassDesc](d.Tags); ok && c.Description != "" {
		return c.Description
	}
	return d.Description
}

// Summary returns the first sentence of the description.
func (d *DocComment) Summary() string {
	text := d.Description
	if i := strings.Index(text, ". "); i >= 0 {
		text = text[:i+1]
	}
	if i := strings.Index(text, "\n\n"); i >= 0 {
		text = text[:i]
	}
	return strings.Join(strings.Fields(text), " ")
}

// TaggedType pairs a type payload with the name of its tag.
type TaggedType struct {
	Tag string
	TypeAnnotation
}

// Annotations returns every type payload in tag order.
func (d *DocComment) Annotations() []TaggedType {
	var out []TaggedType
	for _, t := range d.Tags {
		var ann TypeAnnotation
		switch v := t.(type) {
		case Param:
			ann = v.TypeAnnotation
		case Return:
			ann = v.TypeAnnotation
		case Type:
			ann = v.TypeAnnotation
		case Enum:
			ann = v.TypeAnnotation
		case Const:
			ann = v.TypeAnnotation
		case Define:
			ann = v.TypeAnnotation
		case Typedef:
			ann = v.TypeAnnotation
		case Extends:
			ann = v.TypeAnnotation
		case Implements:
			ann = v.TypeAnnotation
		case This:
			ann = v.TypeAnnotation
		default:
			continue
		}
		if ann.HasType() {
			out = append(out, TaggedType{Tag: t.Tag(), TypeAnnotation: ann})
		}
	}
	return out
}
