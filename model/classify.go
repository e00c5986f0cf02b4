package model

import (
	"github.com/dhamidi/jsdocgen/js"
)

// Shape is the explicit classification of a member declaration.
type Shape int

const (
	// ShapeConcrete members have a body or a value.
	ShapeConcrete Shape = iota
	// ShapeAbstract members are assigned an abstract sentinel.
	ShapeAbstract
	// ShapeExcluded members produce nothing.
	ShapeExcluded
)

func (s Shape) String() string {
	switch s {
	case ShapeConcrete:
		return "concrete"
	case ShapeAbstract:
		return "abstract"
	case ShapeExcluded:
		return "excluded"
	}
	return "unknown"
}

// Classification is a Shape plus, for excluded members, the reason.
type Classification struct {
	Shape  Shape
	Reason string
}

// Classify decides the shape of a member declaration. owner is the class
// the member attaches to and name its simple name.
func (b *Builder) Classify(d *js.Declaration, owner QualifiedName, name string, instance bool) Classification {
	doc := d.Doc
	switch {
	case b.ignored(owner, name):
		return Classification{ShapeExcluded, "ignored"}
	case b.skipPrivate && doc.Has("private"):
		return Classification{ShapeExcluded, "private"}
	case b.skipOverrides && (doc.Has("override") || doc.Has("inheritDoc")):
		return Classification{ShapeExcluded, "override"}
	}

	switch d.RHS {
	case js.RHSNone:
		if _, ok := doc.Type(); !ok && instance {
			return Classification{ShapeExcluded, "bodiless"}
		}
		if _, ok := doc.Type(); !ok && !hasSignatureTags(d) {
			return Classification{ShapeExcluded, "bodiless"}
		}
	case js.RHSExpr:
		if b.sentinels[d.Value] {
			return Classification{Shape: ShapeAbstract}
		}
	}
	return Classification{Shape: ShapeConcrete}
}

func (b *Builder) ignored(owner QualifiedName, name string) bool {
	return b.ignore[name] ||
		b.ignore[string(owner)+"$"+name] ||
		b.ignore[owner.SimpleName()+"$"+name]
}

func hasSignatureTags(d *js.Declaration) bool {
	if len(d.Doc.Params()) > 0 {
		return true
	}
	_, ok := d.Doc.Return()
	return ok
}
