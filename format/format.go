// Package format renders generated Java class models as Java source, JSON
// or tab-separated lines.
package format

import (
	"encoding"
	"io"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/jsdocgen/java"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *java.ClassModel) error
}

var encoders = map[string]func(io.Writer) Encoder{
	"java": func(w io.Writer) Encoder { return NewJavaEncoder(w) },
	"json": func(w io.Writer) Encoder { return NewJSONEncoder(w) },
	"line": func(w io.Writer) Encoder { return NewLineEncoder(w) },
}

// Names returns the accepted format names.
func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the encoder registered under name.
func New(name string, w io.Writer) (Encoder, error) {
	mk, ok := encoders[name]
	if !ok {
		return nil, errors.WithHintf(errors.Newf("unknown format %q", name),
			"use one of %v", Names())
	}
	return mk(w), nil
}

// Extension returns the file extension for output written in the named
// format.
func Extension(name string) string {
	switch name {
	case "json":
		return ".json"
	case "line":
		return ".txt"
	}
	return ".java"
}
