package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/jsdocgen/java"
)

// LineEncoder writes one tab-separated record per declaration, inner
// classes after their members.
type LineEncoder struct {
	w     io.Writer
	class *java.ClassModel
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(class *java.ClassModel) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	if e.class == nil {
		return nil, errors.New("no class to encode")
	}
	var sb strings.Builder
	e.class.Walk(func(c *java.ClassModel) {
		writeLines(&sb, c)
	})
	return []byte(sb.String()), nil
}

func writeLines(sb *strings.Builder, c *java.ClassModel) {
	fmt.Fprintf(sb, "%s\t%s\t%s\t%s\n", c.Kind, c.Name, classModifiersStr(c), jsLocation(c))

	for _, k := range c.EnumConstants {
		args := "-"
		if len(k.Arguments) > 0 {
			args = strings.Join(k.Arguments, ",")
		}
		fmt.Fprintf(sb, "constant\t%s\t%s\n", k.Name, args)
	}

	for _, f := range c.Fields {
		fmt.Fprintf(sb, "field\t%s\t%s\t%s\t%s\n",
			f.Name,
			f.Type.String(),
			f.Visibility,
			joinOrDash(fieldModifiers(f)),
		)
	}

	for _, m := range c.Constructors {
		fmt.Fprintf(sb, "constructor\t%s\t%s\t%s\n",
			c.SimpleName,
			parametersStr(m.Parameters),
			m.Visibility,
		)
	}

	for _, m := range c.Methods {
		fmt.Fprintf(sb, "method\t%s\t%s\t%s\t%s\t%s\n",
			m.Name,
			m.ReturnType.String(),
			parametersStr(m.Parameters),
			m.Visibility,
			joinOrDash(methodModifiers(m)),
		)
	}
}

func jsLocation(c *java.ClassModel) string {
	if c.JSName == "" {
		return "-"
	}
	if c.Namespace == "" || c.Namespace == java.GlobalNamespace {
		return c.JSName
	}
	return c.Namespace + "." + c.JSName
}

func classModifiersStr(c *java.ClassModel) string {
	mods := []string{string(c.Visibility)}
	mods = append(mods, classModifiers(c)...)
	return strings.Join(mods, ",")
}

func joinOrDash(mods []string) string {
	if len(mods) == 0 {
		return "-"
	}
	return strings.Join(mods, ",")
}

func parametersStr(params []java.ParameterModel) string {
	if len(params) == 0 {
		return "-"
	}
	var parts []string
	for _, p := range params {
		parts = append(parts, p.Type.String())
	}
	return strings.Join(parts, ",")
}
