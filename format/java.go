package format

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/jsdocgen/java"
)

const (
	indentUnit = "    "
	jsPackage  = "jsinterop.annotations.JsPackage"
)

// JavaEncoder prints a top-level class model, with its inner classes, as a
// JsInterop Java compilation unit.
type JavaEncoder struct {
	w       io.Writer
	class   *java.ClassModel
	imports *importSet
}

func NewJavaEncoder(w io.Writer) *JavaEncoder {
	return &JavaEncoder{w: w}
}

func (e *JavaEncoder) Encode(class *java.ClassModel) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JavaEncoder) MarshalText() ([]byte, error) {
	c := e.class
	if c == nil {
		return nil, errors.New("no class to encode")
	}
	e.imports = newImportSet(c)

	var body strings.Builder
	e.writeClass(&body, c, "")

	var sb strings.Builder
	if c.Package != "" {
		sb.WriteString("package ")
		sb.WriteString(c.Package)
		sb.WriteString(";\n\n")
	}
	if len(e.imports.imports) > 0 {
		for _, imp := range e.imports.imports {
			sb.WriteString("import ")
			sb.WriteString(imp)
			sb.WriteString(";\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(body.String())
	return []byte(sb.String()), nil
}

func (e *JavaEncoder) writeClass(sb *strings.Builder, c *java.ClassModel, indent string) {
	writeJavadoc(sb, c.Javadoc, nil, indent)
	e.writeAnnotations(sb, c.Annotations, indent)

	sb.WriteString(indent)
	if c.Visibility != java.VisibilityPackage && c.Visibility != "" {
		sb.WriteString(string(c.Visibility))
		sb.WriteString(" ")
	}
	if c.IsStatic && c.Kind == java.ClassKindClass {
		sb.WriteString("static ")
	}
	if c.IsAbstract && c.Kind == java.ClassKindClass {
		sb.WriteString("abstract ")
	}
	sb.WriteString(string(c.Kind))
	sb.WriteString(" ")
	sb.WriteString(c.SimpleName)
	e.writeTypeParameters(sb, c.TypeParameters)

	if c.SuperClass != "" && c.Kind == java.ClassKindClass {
		sb.WriteString(" extends ")
		sb.WriteString(e.imports.name(c.SuperClass))
	}
	if len(c.Interfaces) > 0 {
		if c.Kind == java.ClassKindInterface {
			sb.WriteString(" extends ")
		} else {
			sb.WriteString(" implements ")
		}
		for i, iface := range c.Interfaces {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.imports.name(iface))
		}
	}
	sb.WriteString(" {\n")

	inner := indent + indentUnit
	first := true
	sep := func() {
		if !first {
			sb.WriteString("\n")
		}
		first = false
	}

	if c.Kind == java.ClassKindEnum && len(c.EnumConstants) > 0 {
		sep()
		e.writeEnumConstants(sb, c.EnumConstants, inner)
	}
	if len(c.Fields) > 0 {
		sep()
		for _, f := range c.Fields {
			e.writeField(sb, f, inner)
		}
	}
	for _, ctor := range c.Constructors {
		sep()
		e.writeMethod(sb, c, ctor, inner)
	}
	for _, m := range c.Methods {
		sep()
		e.writeMethod(sb, c, m, inner)
	}
	for _, ic := range c.InnerClasses {
		sep()
		e.writeClass(sb, ic, inner)
	}

	sb.WriteString(indent)
	sb.WriteString("}\n")
}

func (e *JavaEncoder) writeEnumConstants(sb *strings.Builder, constants []java.EnumConstantModel, indent string) {
	for i, k := range constants {
		writeJavadoc(sb, k.Javadoc, nil, indent)
		sb.WriteString(indent)
		sb.WriteString(k.Name)
		if len(k.Arguments) > 0 {
			sb.WriteString("(")
			sb.WriteString(strings.Join(k.Arguments, ", "))
			sb.WriteString(")")
		}
		if i < len(constants)-1 {
			sb.WriteString(",\n")
		} else {
			sb.WriteString(";\n")
		}
	}
}

func (e *JavaEncoder) writeField(sb *strings.Builder, f java.FieldModel, indent string) {
	writeJavadoc(sb, f.Javadoc, nil, indent)
	e.writeAnnotations(sb, f.Annotations, indent)
	sb.WriteString(indent)
	if f.Visibility != java.VisibilityPackage && f.Visibility != "" {
		sb.WriteString(string(f.Visibility))
		sb.WriteString(" ")
	}
	if f.IsStatic {
		sb.WriteString("static ")
	}
	if f.IsFinal {
		sb.WriteString("final ")
	}
	sb.WriteString(e.typeString(f.Type))
	sb.WriteString(" ")
	sb.WriteString(f.Name)
	if f.ConstantValue != "" {
		sb.WriteString(" = ")
		sb.WriteString(f.ConstantValue)
	}
	sb.WriteString(";\n")
}

func (e *JavaEncoder) writeMethod(sb *strings.Builder, c *java.ClassModel, m java.MethodModel, indent string) {
	writeJavadoc(sb, m.Javadoc, m.Parameters, indent)
	e.writeAnnotations(sb, m.Annotations, indent)
	sb.WriteString(indent)

	iface := c.Kind == java.ClassKindInterface
	if !iface && m.Visibility != java.VisibilityPackage && m.Visibility != "" {
		sb.WriteString(string(m.Visibility))
		sb.WriteString(" ")
	}
	if m.IsStatic {
		sb.WriteString("static ")
	}
	if m.IsAbstract && !iface {
		sb.WriteString("abstract ")
	}
	if m.IsNative {
		sb.WriteString("native ")
	}
	if len(m.TypeParameters) > 0 {
		e.writeTypeParameters(sb, m.TypeParameters)
		sb.WriteString(" ")
	}

	if m.IsConstructor {
		sb.WriteString(c.SimpleName)
	} else {
		sb.WriteString(e.typeString(m.ReturnType))
		sb.WriteString(" ")
		sb.WriteString(m.Name)
	}

	sb.WriteString("(")
	for i, p := range m.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.typeString(p.Type))
		if m.IsVarargs && i == len(m.Parameters)-1 {
			sb.WriteString("...")
		}
		sb.WriteString(" ")
		sb.WriteString(p.Name)
	}
	sb.WriteString(")")

	switch {
	case m.IsConstructor:
		e.writeConstructorBody(sb, c, m, indent)
	case m.IsAbstract || m.IsNative:
		sb.WriteString(";\n")
	default:
		sb.WriteString(" {}\n")
	}
}

// writeConstructorBody assigns every parameter that names a field of c;
// native constructors are otherwise empty.
func (e *JavaEncoder) writeConstructorBody(sb *strings.Builder, c *java.ClassModel, m java.MethodModel, indent string) {
	fields := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		fields[f.Name] = true
	}
	var assign []string
	for _, p := range m.Parameters {
		if fields[p.Name] {
			assign = append(assign, "this."+p.Name+" = "+p.Name+";")
		}
	}
	if len(assign) == 0 {
		sb.WriteString(" {}\n")
		return
	}
	sb.WriteString(" {\n")
	for _, line := range assign {
		sb.WriteString(indent)
		sb.WriteString(indentUnit)
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString(indent)
	sb.WriteString("}\n")
}

func (e *JavaEncoder) writeTypeParameters(sb *strings.Builder, params []java.TypeParameterModel) {
	if len(params) == 0 {
		return
	}
	sb.WriteString("<")
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		for j, b := range p.Bounds {
			if j == 0 {
				sb.WriteString(" extends ")
			} else {
				sb.WriteString(" & ")
			}
			sb.WriteString(e.typeString(b))
		}
	}
	sb.WriteString(">")
}

func (e *JavaEncoder) typeString(t java.TypeModel) string {
	var sb strings.Builder
	sb.WriteString(e.imports.name(t.Name))
	if len(t.TypeArguments) > 0 {
		sb.WriteString("<")
		for i, a := range t.TypeArguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.typeArgString(a))
		}
		sb.WriteString(">")
	}
	for i := 0; i < t.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

func (e *JavaEncoder) typeArgString(a java.TypeArgumentModel) string {
	if !a.IsWildcard {
		if a.Type == nil {
			return "?"
		}
		return e.typeString(*a.Type)
	}
	if a.Bound == nil || a.BoundKind == "" {
		return "?"
	}
	return "? " + a.BoundKind + " " + e.typeString(*a.Bound)
}

func (e *JavaEncoder) writeAnnotations(sb *strings.Builder, anns []java.AnnotationModel, indent string) {
	for _, a := range anns {
		sb.WriteString(indent)
		sb.WriteString("@")
		sb.WriteString(e.imports.name(a.Type))
		if len(a.Elements) > 0 {
			sb.WriteString("(")
			for i, p := range a.Elements {
				if i > 0 {
					sb.WriteString(", ")
				}
				if len(a.Elements) == 1 && p.Name == "value" {
					e.writeAnnotationValue(sb, p.Name, p.Value)
				} else {
					sb.WriteString(p.Name)
					sb.WriteString(" = ")
					e.writeAnnotationValue(sb, p.Name, p.Value)
				}
			}
			sb.WriteString(")")
		}
		sb.WriteString("\n")
	}
}

func (e *JavaEncoder) writeAnnotationValue(sb *strings.Builder, name string, v interface{}) {
	switch val := v.(type) {
	case string:
		if name == "namespace" && val == java.GlobalNamespace {
			sb.WriteString(e.imports.name(jsPackage))
			sb.WriteString(".GLOBAL")
			return
		}
		sb.WriteString(strconv.Quote(val))
	case bool:
		sb.WriteString(strconv.FormatBool(val))
	case int:
		sb.WriteString(strconv.Itoa(val))
	case []string:
		sb.WriteString("{")
		for i, s := range val {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(s))
		}
		sb.WriteString("}")
	default:
		sb.WriteString("?")
	}
}

func writeJavadoc(sb *strings.Builder, text string, params []java.ParameterModel, indent string) {
	var lines []string
	if text = strings.TrimSpace(text); text != "" {
		lines = strings.Split(text, "\n")
	}
	var tags []string
	for _, p := range params {
		if p.Javadoc != "" {
			tags = append(tags, "@param "+p.Name+" "+strings.Join(strings.Fields(p.Javadoc), " "))
		}
	}
	if len(lines) > 0 && len(tags) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines, tags...)
	if len(lines) == 0 {
		return
	}

	sb.WriteString(indent)
	sb.WriteString("/**\n")
	for _, line := range lines {
		line = strings.TrimRight(strings.ReplaceAll(line, "*/", "*&#47;"), " \t")
		sb.WriteString(indent)
		if line == "" {
			sb.WriteString(" *\n")
			continue
		}
		sb.WriteString(" * ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString(indent)
	sb.WriteString(" */\n")
}

// importSet decides which qualified names of a compilation unit print
// in simple form and which of them need an import.
type importSet struct {
	pkg     string
	simple  map[string]bool // by qualified top-level class
	imports []string
}

func newImportSet(c *java.ClassModel) *importSet {
	s := &importSet{pkg: c.Package, simple: make(map[string]bool)}

	// Own and member class names shadow imports.
	taken := map[string]string{c.SimpleName: c.Name}
	c.Walk(func(cm *java.ClassModel) {
		if cm != c {
			taken[cm.SimpleName] = cm.Name
		}
	})

	names := referencedNames(c)
	sort.Strings(names)
	for _, name := range names {
		pkg, top, ok := topLevel(name)
		if !ok {
			continue
		}
		key := top
		if pkg != "" {
			key = pkg + "." + top
		}
		if s.simple[key] {
			continue
		}
		if owner, ok := taken[top]; ok && owner != key {
			continue
		}
		taken[top] = key
		s.simple[key] = true
		if pkg != "java.lang" && pkg != s.pkg {
			s.imports = append(s.imports, key)
		}
	}
	sort.Strings(s.imports)
	return s
}

// name returns qualified as it should be printed in the unit.
func (s *importSet) name(qualified string) string {
	base := qualified
	dims := ""
	for strings.HasSuffix(base, "[]") {
		base = strings.TrimSuffix(base, "[]")
		dims += "[]"
	}
	pkg, top, ok := topLevel(base)
	if !ok || pkg == "" {
		return qualified
	}
	if !s.simple[pkg+"."+top] {
		return qualified
	}
	_, cls := java.SplitName(base)
	return cls + dims
}

// topLevel splits a qualified type name into its package and outermost
// class. ok is false for primitives and type variables.
func topLevel(name string) (pkg, top string, ok bool) {
	name = strings.TrimRight(name, "[]")
	if !strings.Contains(name, ".") {
		return "", "", false
	}
	pkg, cls := java.SplitName(name)
	top, _, _ = strings.Cut(cls, ".")
	return pkg, top, true
}

func referencedNames(c *java.ClassModel) []string {
	var names []string
	addType := func(t java.TypeModel) {
		names = append(names, t.Names()...)
	}
	addParams := func(params []java.TypeParameterModel) {
		for _, p := range params {
			for _, b := range p.Bounds {
				addType(b)
			}
		}
	}
	addAnnotations := func(anns []java.AnnotationModel) {
		for _, a := range anns {
			names = append(names, a.Type)
			if a.Element("namespace") == java.GlobalNamespace {
				names = append(names, jsPackage)
			}
		}
	}

	c.Walk(func(cm *java.ClassModel) {
		if cm != c {
			names = append(names, cm.Name)
		}
		if cm.SuperClass != "" {
			names = append(names, cm.SuperClass)
		}
		names = append(names, cm.Interfaces...)
		addAnnotations(cm.Annotations)
		addParams(cm.TypeParameters)
		for _, f := range cm.Fields {
			addType(f.Type)
			addAnnotations(f.Annotations)
		}
		for _, group := range [][]java.MethodModel{cm.Constructors, cm.Methods} {
			for _, m := range group {
				addType(m.ReturnType)
				addAnnotations(m.Annotations)
				addParams(m.TypeParameters)
				for _, p := range m.Parameters {
					addType(p.Type)
				}
			}
		}
	})
	return names
}
