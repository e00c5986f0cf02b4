package format

import (
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/jsdocgen/java"
)

type JSONEncoder struct {
	w     io.Writer
	class *java.ClassModel
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *java.ClassModel) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = e.w.Write([]byte("\n"))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	if e.class == nil {
		return nil, errors.New("no class to encode")
	}
	return json.MarshalIndent(buildClass(e.class), "", "  ")
}

type jsonClass struct {
	Name           string             `json:"name"`
	SimpleName     string             `json:"simpleName"`
	Package        string             `json:"package,omitempty"`
	Namespace      string             `json:"namespace"`
	JSName         string             `json:"jsName"`
	SuperClass     string             `json:"superClass,omitempty"`
	Interfaces     []string           `json:"interfaces,omitempty"`
	Visibility     string             `json:"visibility"`
	Kind           string             `json:"kind"`
	Modifiers      []string           `json:"modifiers,omitempty"`
	TypeParameters []string           `json:"typeParameters,omitempty"`
	Source         string             `json:"source,omitempty"`
	Annotations    []jsonAnnotation   `json:"annotations,omitempty"`
	Constants      []jsonEnumConstant `json:"constants,omitempty"`
	Fields         []jsonField        `json:"fields,omitempty"`
	Constructors   []jsonMethod       `json:"constructors,omitempty"`
	Methods        []jsonMethod       `json:"methods,omitempty"`
	InnerClasses   []jsonClass        `json:"innerClasses,omitempty"`
}

type jsonAnnotation struct {
	Type     string                 `json:"type"`
	Elements map[string]interface{} `json:"elements,omitempty"`
}

type jsonEnumConstant struct {
	Name      string   `json:"name"`
	Arguments []string `json:"arguments,omitempty"`
}

type jsonField struct {
	Name        string           `json:"name"`
	Type        jsonType         `json:"type"`
	Visibility  string           `json:"visibility"`
	Modifiers   []string         `json:"modifiers,omitempty"`
	Annotations []jsonAnnotation `json:"annotations,omitempty"`
}

type jsonMethod struct {
	Name           string           `json:"name"`
	ReturnType     *jsonType        `json:"returnType,omitempty"`
	Parameters     []jsonParameter  `json:"parameters,omitempty"`
	Visibility     string           `json:"visibility"`
	Modifiers      []string         `json:"modifiers,omitempty"`
	TypeParameters []string         `json:"typeParameters,omitempty"`
	Annotations    []jsonAnnotation `json:"annotations,omitempty"`
}

type jsonParameter struct {
	Name string   `json:"name,omitempty"`
	Type jsonType `json:"type"`
}

type jsonType struct {
	Name       string `json:"name"`
	ArrayDepth int    `json:"arrayDepth,omitempty"`
	Unmapped   bool   `json:"unmapped,omitempty"`
	// Java is the full rendered form, type arguments included.
	Java string `json:"java"`
}

func buildClass(c *java.ClassModel) jsonClass {
	data := jsonClass{
		Name:           c.Name,
		SimpleName:     c.SimpleName,
		Package:        c.Package,
		Namespace:      c.Namespace,
		JSName:         c.JSName,
		SuperClass:     c.SuperClass,
		Interfaces:     c.Interfaces,
		Visibility:     string(c.Visibility),
		Kind:           string(c.Kind),
		Modifiers:      classModifiers(c),
		TypeParameters: typeParameterNames(c.TypeParameters),
		Source:         c.SourceFile,
		Annotations:    buildAnnotations(c.Annotations),
	}
	for _, k := range c.EnumConstants {
		data.Constants = append(data.Constants, jsonEnumConstant{Name: k.Name, Arguments: k.Arguments})
	}
	for _, f := range c.Fields {
		data.Fields = append(data.Fields, jsonField{
			Name:        f.Name,
			Type:        buildType(f.Type),
			Visibility:  string(f.Visibility),
			Modifiers:   fieldModifiers(f),
			Annotations: buildAnnotations(f.Annotations),
		})
	}
	for _, m := range c.Constructors {
		data.Constructors = append(data.Constructors, buildMethod(m))
	}
	for _, m := range c.Methods {
		data.Methods = append(data.Methods, buildMethod(m))
	}
	for _, ic := range c.InnerClasses {
		data.InnerClasses = append(data.InnerClasses, buildClass(ic))
	}
	return data
}

func buildMethod(m java.MethodModel) jsonMethod {
	out := jsonMethod{
		Name:           m.Name,
		Visibility:     string(m.Visibility),
		Modifiers:      methodModifiers(m),
		TypeParameters: typeParameterNames(m.TypeParameters),
		Annotations:    buildAnnotations(m.Annotations),
	}
	if !m.IsConstructor {
		rt := buildType(m.ReturnType)
		out.ReturnType = &rt
	}
	for _, p := range m.Parameters {
		out.Parameters = append(out.Parameters, jsonParameter{Name: p.Name, Type: buildType(p.Type)})
	}
	return out
}

func buildType(t java.TypeModel) jsonType {
	return jsonType{
		Name:       t.Name,
		ArrayDepth: t.ArrayDepth,
		Unmapped:   t.Unmapped,
		Java:       t.String(),
	}
}

func buildAnnotations(anns []java.AnnotationModel) []jsonAnnotation {
	var out []jsonAnnotation
	for _, a := range anns {
		ja := jsonAnnotation{Type: a.Type}
		if len(a.Elements) > 0 {
			ja.Elements = make(map[string]interface{}, len(a.Elements))
			for _, p := range a.Elements {
				ja.Elements[p.Name] = p.Value
			}
		}
		out = append(out, ja)
	}
	return out
}

func typeParameterNames(params []java.TypeParameterModel) []string {
	var out []string
	for _, p := range params {
		out = append(out, p.Name)
	}
	return out
}

func classModifiers(c *java.ClassModel) []string {
	var mods []string
	if c.IsStatic {
		mods = append(mods, "static")
	}
	if c.IsAbstract {
		mods = append(mods, "abstract")
	}
	if c.IsDeprecated {
		mods = append(mods, "deprecated")
	}
	return mods
}

func fieldModifiers(f java.FieldModel) []string {
	var mods []string
	if f.IsStatic {
		mods = append(mods, "static")
	}
	if f.IsFinal {
		mods = append(mods, "final")
	}
	if f.IsDeprecated {
		mods = append(mods, "deprecated")
	}
	return mods
}

func methodModifiers(m java.MethodModel) []string {
	var mods []string
	if m.IsStatic {
		mods = append(mods, "static")
	}
	if m.IsAbstract {
		mods = append(mods, "abstract")
	}
	if m.IsNative {
		mods = append(mods, "native")
	}
	if m.IsVarargs {
		mods = append(mods, "varargs")
	}
	if m.IsDeprecated {
		mods = append(mods, "deprecated")
	}
	return mods
}
