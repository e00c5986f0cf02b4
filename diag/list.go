package diag

import (
	"sort"
)

// List is an ordered sequence of diagnostics. The zero value is ready to use.
type List struct {
	items []Diagnostic
}

func (l *List) Add(d Diagnostic) {
	l.items = append(l.items, d)
}

func (l *List) Addf(kind Kind, pos Position, symbol string, format string, args ...any) {
	l.Add(New(kind, pos, symbol, format, args...))
}

// Merge appends the diagnostics of other, keeping their order.
func (l *List) Merge(other *List) {
	if other == nil {
		return
	}
	l.items = append(l.items, other.items...)
}

// Items returns the diagnostics in emission order. The slice must not be
// modified.
func (l *List) Items() []Diagnostic {
	if l == nil {
		return nil
	}
	return l.items
}

func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// HasErrors reports whether any diagnostic has error severity.
func (l *List) HasErrors() bool {
	for _, d := range l.Items() {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

func (l *List) Count(kind Kind) int {
	n := 0
	for _, d := range l.Items() {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

func (l *List) ByKind(kind Kind) []Diagnostic {
	var out []Diagnostic
	for _, d := range l.Items() {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

func (l *List) ForFile(file string) []Diagnostic {
	var out []Diagnostic
	for _, d := range l.Items() {
		if d.Pos.File == file {
			out = append(out, d)
		}
	}
	return out
}

// Sorted returns a copy ordered by file, line, column and then severity
// (errors first). Diagnostics at the same location keep emission order.
func (l *List) Sorted() []Diagnostic {
	out := make([]Diagnostic, l.Len())
	copy(out, l.Items())
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Pos, out[j].Pos
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return out[i].Severity > out[j].Severity
	})
	return out
}
