package codebase

import (
	"strings"

	"github.com/dhamidi/jsdocgen/java"
	"github.com/dhamidi/jsdocgen/model"
)

type CompletionKind int

const (
	CompletionKindClass CompletionKind = iota
	CompletionKindEnum
	CompletionKindTypedef
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}

// Hover describes the Java generated for the declaration at line of path
// as a Markdown code block. It returns "" when nothing was generated.
func (c *Codebase) Hover(path string, line int) string {
	d := c.DeclarationAt(path, line)
	if d == nil || d.Target == "" {
		return ""
	}
	lines := c.signatures(d.Target)
	if len(lines) == 0 {
		return ""
	}
	return "```java\n" + strings.Join(lines, "\n") + "\n```"
}

// signatures returns the Java declarations generated for the JavaScript
// name target: a class header with its constructors, or the matching
// members of the owning class.
func (c *Codebase) signatures(target string) []string {
	classes := c.AllClasses()
	if cm := findClass(classes, func(cm *java.ClassModel) bool { return cm.Name == target }); cm != nil {
		out := []string{classHeader(cm)}
		for _, m := range cm.Constructors {
			out = append(out, methodSignature(m))
		}
		return out
	}

	owner, member := splitMember(target)
	cm := findClass(classes, func(cm *java.ClassModel) bool {
		return jsLocation(cm) == owner
	})
	if cm == nil {
		cm = findClass(classes, func(cm *java.ClassModel) bool { return cm.Name == owner })
	}
	if cm == nil {
		return nil
	}

	var out []string
	for _, f := range cm.Fields {
		if f.Name == java.Identifier(member) || jsMemberName(f.Annotations) == member {
			out = append(out, fieldSignature(f))
		}
	}
	for _, m := range cm.Methods {
		if m.Name == member || jsMemberName(m.Annotations) == member {
			out = append(out, methodSignature(m))
		}
	}
	return out
}

// splitMember splits a.B.prototype.m and a.B.m into the owner a.B and the
// member m. Top-level names are owned by the global object.
func splitMember(target string) (owner, member string) {
	target = strings.Replace(target, ".prototype.", ".", 1)
	i := strings.LastIndex(target, ".")
	if i < 0 {
		return "window", target
	}
	return target[:i], target[i+1:]
}

func jsLocation(cm *java.ClassModel) string {
	if cm.Namespace == "" || cm.Namespace == java.GlobalNamespace {
		return cm.JSName
	}
	return cm.Namespace + "." + cm.JSName
}

// jsMemberName returns the JavaScript name given by a @JsProperty or
// @JsMethod annotation.
func jsMemberName(anns []java.AnnotationModel) string {
	for _, a := range anns {
		if a.Type != "jsinterop.annotations.JsProperty" && a.Type != "jsinterop.annotations.JsMethod" {
			continue
		}
		if name, ok := a.Element("name").(string); ok {
			return name
		}
	}
	return ""
}

func classHeader(cm *java.ClassModel) string {
	parts := modifiers(cm.Visibility, cm.IsStatic, cm.IsAbstract && cm.Kind == java.ClassKindClass, false)
	parts = append(parts, string(cm.Kind), cm.Name)
	if cm.SuperClass != "" {
		parts = append(parts, "extends", cm.SuperClass)
	}
	if len(cm.Interfaces) > 0 {
		keyword := "implements"
		if cm.Kind == java.ClassKindInterface {
			keyword = "extends"
		}
		parts = append(parts, keyword, strings.Join(cm.Interfaces, ", "))
	}
	return strings.Join(parts, " ")
}

func fieldSignature(f java.FieldModel) string {
	parts := modifiers(f.Visibility, f.IsStatic, false, false)
	if f.IsFinal {
		parts = append(parts, "final")
	}
	return strings.Join(append(parts, f.Type.String(), f.Name), " ")
}

func methodSignature(m java.MethodModel) string {
	parts := modifiers(m.Visibility, m.IsStatic, m.IsAbstract, m.IsNative)
	if !m.IsConstructor {
		parts = append(parts, m.ReturnType.String())
	}
	var params []string
	for i, p := range m.Parameters {
		t := p.Type.String()
		if m.IsVarargs && i == len(m.Parameters)-1 {
			t += "..."
		}
		params = append(params, t+" "+p.Name)
	}
	return strings.Join(append(parts, m.Name+"("+strings.Join(params, ", ")+")"), " ")
}

func modifiers(v java.Visibility, static, abstract, native bool) []string {
	var parts []string
	if v != java.VisibilityPackage && v != "" {
		parts = append(parts, string(v))
	}
	if static {
		parts = append(parts, "static")
	}
	if abstract {
		parts = append(parts, "abstract")
	}
	if native {
		parts = append(parts, "native")
	}
	return parts
}

// CompletionsAtPoint completes the dotted name that ends at column of line
// with the names declared anywhere in the codebase. Column is 0-based.
func (c *Codebase) CompletionsAtPoint(path string, line, column int) []CompletionItem {
	file := c.GetFile(path)
	if file == nil {
		return nil
	}
	prefix := nameBefore(file.Content, line, column)
	if prefix == "" {
		return nil
	}

	var items []CompletionItem
	for _, sym := range c.Result().Model.Symbols.Symbols() {
		name := string(sym.Name)
		if sym.Conflict || name == prefix || !strings.HasPrefix(name, prefix) {
			continue
		}
		if sym.Kind == model.SymbolClass && sym.Class.Opaque {
			continue
		}
		items = append(items, CompletionItem{
			Label:      name,
			Kind:       completionKind(sym.Kind),
			Detail:     sym.Kind.String(),
			InsertText: name[len(prefix):],
		})
	}
	return items
}

func completionKind(k model.SymbolKind) CompletionKind {
	switch k {
	case model.SymbolEnum:
		return CompletionKindEnum
	case model.SymbolTypedef:
		return CompletionKindTypedef
	}
	return CompletionKindClass
}

// nameBefore returns the run of identifier characters and dots that ends
// at column of the 1-based line.
func nameBefore(content []byte, line, column int) string {
	lines := strings.Split(string(content), "\n")
	if line <= 0 || line > len(lines) {
		return ""
	}
	text := []rune(lines[line-1])
	end := min(column, len(text))
	start := end
	for start > 0 && isNameRune(text[start-1]) {
		start--
	}
	return string(text[start:end])
}

func isNameRune(r rune) bool {
	return r == '.' || r == '_' || r == '$' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
