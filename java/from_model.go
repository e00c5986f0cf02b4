package java

import (
	"strconv"
	"strings"

	"github.com/dhamidi/jsdocgen/jstype"
	"github.com/dhamidi/jsdocgen/model"
)

const (
	annotationJsType     = "jsinterop.annotations.JsType"
	annotationJsEnum     = "jsinterop.annotations.JsEnum"
	annotationJsFunction = "jsinterop.annotations.JsFunction"
	annotationJsProperty = "jsinterop.annotations.JsProperty"
	annotationJsMethod   = "jsinterop.annotations.JsMethod"
	annotationDeprecated = "java.lang.Deprecated"
)

type ModelOption func(*fromModel)

// WithReplacements overrides parameter types. Keys have the form
// Class$method$param, the class given by qualified or simple name; use
// "constructor" as the method name for constructor parameters.
func WithReplacements(replacements map[string]string) ModelOption {
	return func(b *fromModel) {
		for k, v := range replacements {
			b.replace[k] = v
		}
	}
}

type fromModel struct {
	tm      *TypeMapper
	replace map[string]string
}

// ClassModelsFromModel converts every class and enum of m. Classes whose
// parent path is itself a class become static inner classes of it; only
// top-level classes are returned. Opaque classes are converted only when
// members were attached to them.
func ClassModelsFromModel(m *model.Model, tm *TypeMapper, opts ...ModelOption) []*ClassModel {
	b := &fromModel{tm: tm, replace: make(map[string]string)}
	for _, opt := range opts {
		opt(b)
	}

	byName := make(map[model.QualifiedName]*ClassModel)
	var order []model.QualifiedName
	for _, sym := range m.Symbols.Symbols() {
		if sym.Conflict {
			continue
		}
		var cm *ClassModel
		switch sym.Kind {
		case model.SymbolClass:
			if sym.Class.Opaque && sym.Class.IsEmpty() {
				continue
			}
			cm = b.class(sym.Class)
		case model.SymbolEnum:
			cm = b.enum(sym.Enum)
		default:
			continue
		}
		byName[sym.Name] = cm
		order = append(order, sym.Name)
	}

	var out []*ClassModel
	for _, name := range order {
		cm := byName[name]
		outer, ok := byName[name.Parent()]
		if ok && outer.Kind != ClassKindEnum {
			cm.IsStatic = true
			cm.EnclosingClass = outer.Name
			outer.InnerClasses = append(outer.InnerClasses, cm)
			continue
		}
		out = append(out, cm)
	}
	return out
}

func jsNamespace(name model.QualifiedName) (namespace, jsName string) {
	parent := name.Parent()
	if parent == "" {
		return GlobalNamespace, name.SimpleName()
	}
	return string(parent), name.SimpleName()
}

func jsTypeAnnotation(namespace, name string) AnnotationModel {
	return AnnotationModel{
		Type: annotationJsType,
		Elements: []ElementValuePairModel{
			{Name: "isNative", Value: true},
			{Name: "namespace", Value: namespace},
			{Name: "name", Value: name},
		},
	}
}

func visibility(v model.Visibility) Visibility {
	switch v {
	case model.Protected:
		return VisibilityProtected
	case model.Private:
		return VisibilityPrivate
	}
	return VisibilityPublic
}

func typeParameters(names []string) []TypeParameterModel {
	var out []TypeParameterModel
	for _, n := range names {
		out = append(out, TypeParameterModel{Name: n})
	}
	return out
}

func (b *fromModel) class(c *model.Class) *ClassModel {
	pkg, _ := SplitName(string(c.Name))
	cm := &ClassModel{
		Name:           string(c.Name),
		SimpleName:     c.Name.SimpleName(),
		Package:        pkg,
		Visibility:     VisibilityPublic,
		Kind:           ClassKindClass,
		IsDeprecated:   c.Meta.Deprecated,
		Javadoc:        c.Doc,
		SourceFile:     c.Pos.File,
		TypeParameters: typeParameters(c.Template),
	}
	cm.Namespace, cm.JSName = jsNamespace(c.Name)

	switch c.Kind {
	case model.KindInterface:
		cm.Kind = ClassKindInterface
	case model.KindData:
		cm.Namespace, cm.JSName = GlobalNamespace, "Object"
	case model.KindGlobals:
		if c.Name.Parent() != "" {
			cm.Namespace, cm.JSName = jsNamespace(c.Name.Parent())
		} else {
			cm.Namespace, cm.JSName = GlobalNamespace, "window"
		}
	default:
		cm.IsAbstract = c.IsAbstract
	}
	cm.Annotations = append(cm.Annotations, jsTypeAnnotation(cm.Namespace, cm.JSName))
	if c.Meta.Deprecated {
		cm.Annotations = append(cm.Annotations, AnnotationModel{Type: annotationDeprecated})
	}

	if c.Super != "" {
		if name, ok := b.tm.ClassName(c.Super); ok {
			if cm.Kind == ClassKindInterface {
				cm.Interfaces = append(cm.Interfaces, name)
			} else {
				cm.SuperClass = name
			}
		}
	}
	for _, iface := range c.Interfaces {
		if name, ok := b.tm.ClassName(iface); ok {
			cm.Interfaces = append(cm.Interfaces, name)
		}
	}

	for _, f := range c.Fields {
		b.field(cm, c, f)
	}
	if cm.Kind == ClassKindClass && c.Kind == model.KindClass {
		for _, ps := range c.Constructors {
			cm.Constructors = append(cm.Constructors, MethodModel{
				Name:          cm.SimpleName,
				Visibility:    VisibilityPublic,
				IsConstructor: true,
				Parameters:    b.params(c, "constructor", ps),
				IsVarargs:     isVarargs(ps),
			})
		}
	}
	for _, m := range c.AllMethods() {
		if cm.Kind == ClassKindInterface && m.IsStatic {
			continue
		}
		cm.Methods = append(cm.Methods, b.method(cm, c, m))
	}
	return cm
}

func (b *fromModel) field(cm *ClassModel, c *model.Class, f *model.Field) {
	t := b.tm.Map(f.Type, PositionField)
	name := Identifier(f.Name)
	var anns []AnnotationModel
	if name != f.Name || (f.IsConst && f.IsStatic) {
		anns = append(anns, AnnotationModel{
			Type:     annotationJsProperty,
			Elements: []ElementValuePairModel{{Name: "name", Value: f.Name}},
		})
	}

	if cm.Kind == ClassKindInterface {
		if f.IsStatic {
			return
		}
		b.accessors(cm, f, t)
		return
	}
	if f.IsConst && f.IsStatic {
		cm.Methods = append(cm.Methods, MethodModel{
			Name:        accessor("get", f.Name),
			ReturnType:  t,
			Visibility:  visibility(f.Visibility),
			IsStatic:    true,
			IsNative:    true,
			Javadoc:     f.Doc,
			Annotations: anns,
		})
		return
	}
	fm := FieldModel{
		Name:        name,
		Type:        t,
		Visibility:  visibility(f.Visibility),
		IsStatic:    f.IsStatic,
		Javadoc:     f.Doc,
		Annotations: anns,
	}
	if c.Kind == model.KindData {
		fm.Visibility = VisibilityPublic
	}
	cm.Fields = append(cm.Fields, fm)
}

func accessor(prefix, name string) string {
	return prefix + strings.ToUpper(name[:1]) + name[1:]
}

// accessors renders an interface property as a @JsProperty getter and,
// unless it is const, a setter.
func (b *fromModel) accessors(cm *ClassModel, f *model.Field, t TypeModel) {
	prop := []AnnotationModel{{
		Type:     annotationJsProperty,
		Elements: []ElementValuePairModel{{Name: "name", Value: f.Name}},
	}}
	cm.Methods = append(cm.Methods, MethodModel{
		Name:        accessor("get", f.Name),
		ReturnType:  t,
		Visibility:  VisibilityPublic,
		IsAbstract:  true,
		Javadoc:     f.Doc,
		Annotations: prop,
	})
	if f.IsConst {
		return
	}
	cm.Methods = append(cm.Methods, MethodModel{
		Name:        accessor("set", f.Name),
		ReturnType:  TypeModel{Name: "void"},
		Parameters:  []ParameterModel{{Name: Identifier(f.Name), Type: t}},
		Visibility:  VisibilityPublic,
		IsAbstract:  true,
		Annotations: prop,
	})
}

func (b *fromModel) method(cm *ClassModel, c *model.Class, m *model.Method) MethodModel {
	mm := MethodModel{
		Name:           Identifier(m.Name),
		ReturnType:     b.tm.Map(m.Return, PositionReturn),
		Parameters:     b.params(c, m.Name, m.Params),
		Visibility:     visibility(m.Visibility),
		IsStatic:       m.IsStatic,
		IsVarargs:      isVarargs(m.Params),
		Javadoc:        m.Doc,
		TypeParameters: typeParameters(m.Template),
	}
	if mm.Name != m.Name {
		mm.Annotations = append(mm.Annotations, AnnotationModel{
			Type:     annotationJsMethod,
			Elements: []ElementValuePairModel{{Name: "name", Value: m.Name}},
		})
	}
	switch {
	case cm.Kind == ClassKindInterface:
		mm.IsAbstract = !m.IsStatic
	case m.IsAbstract && cm.IsAbstract:
		mm.IsAbstract = true
	default:
		mm.IsNative = true
	}
	return mm
}

func isVarargs(params []model.Param) bool {
	return len(params) > 0 && params[len(params)-1].Variadic
}

func (b *fromModel) params(c *model.Class, method string, params []model.Param) []ParameterModel {
	out := make([]ParameterModel, len(params))
	for i, p := range params {
		t := b.tm.Map(p.Type, PositionParam)
		if target, ok := b.replacement(c, method, p.Name); ok {
			t = TypeModel{Name: target}
		}
		out[i] = ParameterModel{Name: Identifier(p.Name), Type: t, Javadoc: p.Doc}
	}
	return out
}

func (b *fromModel) replacement(c *model.Class, method, param string) (string, bool) {
	for _, class := range []string{string(c.Name), c.Name.SimpleName()} {
		if target, ok := b.replace[class+"$"+method+"$"+param]; ok {
			return target, true
		}
	}
	return "", false
}

func (b *fromModel) enum(e *model.Enum) *ClassModel {
	pkg, _ := SplitName(string(e.Name))
	cm := &ClassModel{
		Name:       string(e.Name),
		SimpleName: e.Name.SimpleName(),
		Package:    pkg,
		Visibility: VisibilityPublic,
		Kind:       ClassKindEnum,
		Javadoc:    e.Doc,
		SourceFile: e.Pos.File,
	}
	cm.Namespace, cm.JSName = jsNamespace(e.Name)

	literals := make([]string, len(e.Values))
	custom := len(e.Values) > 0
	for i, v := range e.Values {
		lit, ok := literal(v.Literal)
		if !ok {
			custom = false
		}
		literals[i] = lit
	}

	for i, v := range e.Values {
		constant := EnumConstantModel{Name: Identifier(v.Name), Javadoc: v.Doc}
		if custom {
			constant.Arguments = []string{literals[i]}
		}
		cm.EnumConstants = append(cm.EnumConstants, constant)
	}

	ann := AnnotationModel{
		Type: annotationJsEnum,
		Elements: []ElementValuePairModel{
			{Name: "isNative", Value: true},
			{Name: "namespace", Value: cm.Namespace},
			{Name: "name", Value: cm.JSName},
		},
	}
	if custom {
		ann.Elements = append(ann.Elements, ElementValuePairModel{Name: "hasCustomValue", Value: true})
		backing := e.Backing
		if backing == nil {
			backing = jstype.Named{Name: "number"}
		}
		value := b.tm.Map(backing, PositionField)
		cm.Fields = append(cm.Fields, FieldModel{
			Name:       "value",
			Type:       value,
			Visibility: VisibilityPrivate,
			IsFinal:    true,
		})
		cm.Constructors = append(cm.Constructors, MethodModel{
			Name:          cm.SimpleName,
			Visibility:    VisibilityPackage,
			IsConstructor: true,
			Parameters:    []ParameterModel{{Name: "value", Type: value}},
		})
	}
	cm.Annotations = append(cm.Annotations, ann)
	return cm
}

// FunctionInterfaces returns a @JsFunction interface for every function
// shape tm has produced so far. Call it after all other mapping is done.
func FunctionInterfaces(tm *TypeMapper) []*ClassModel {
	var out []*ClassModel
	for _, shape := range tm.FunctionShapes() {
		name := shape.SimpleName()
		cm := &ClassModel{
			Name:        tm.FunctionPackage() + "." + name,
			SimpleName:  name,
			Package:     tm.FunctionPackage(),
			Visibility:  VisibilityPublic,
			Kind:        ClassKindInterface,
			Annotations: []AnnotationModel{{Type: annotationJsFunction}},
		}
		apply := MethodModel{
			Name:       "apply",
			ReturnType: TypeModel{Name: "R"},
			Visibility: VisibilityPublic,
			IsAbstract: true,
		}
		if shape.BindThis {
			cm.TypeParameters = append(cm.TypeParameters, TypeParameterModel{Name: "T"})
			apply.Parameters = append(apply.Parameters, ParameterModel{Name: "self", Type: TypeModel{Name: "T"}})
		}
		for i := 1; i <= shape.Arity; i++ {
			p := "P" + strconv.Itoa(i)
			cm.TypeParameters = append(cm.TypeParameters, TypeParameterModel{Name: p})
			apply.Parameters = append(apply.Parameters, ParameterModel{Name: "p" + strconv.Itoa(i), Type: TypeModel{Name: p}})
		}
		cm.TypeParameters = append(cm.TypeParameters, TypeParameterModel{Name: "R"})
		cm.Methods = []MethodModel{apply}
		out = append(out, cm)
	}
	return out
}
