package model

import (
	"github.com/dhamidi/jsdocgen/diag"
)

type SymbolKind int

const (
	SymbolClass SymbolKind = iota
	SymbolEnum
	SymbolTypedef
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolClass:
		return "class"
	case SymbolEnum:
		return "enum"
	case SymbolTypedef:
		return "typedef"
	}
	return "unknown"
}

// Symbol is one entry of the symbol table. Exactly one of Class, Enum and
// Typedef is set, according to Kind.
type Symbol struct {
	Name    QualifiedName
	Kind    SymbolKind
	Class   *Class
	Enum    *Enum
	Typedef *Typedef
	// Conflict marks a name declared with two different kinds. Conflicting
	// symbols are excluded from every listing.
	Conflict bool
	Pos      diag.Position
}

// SymbolTable owns every declared entity by qualified name. It remembers
// registration order so that listings are deterministic.
type SymbolTable struct {
	symbols map[QualifiedName]*Symbol
	order   []QualifiedName
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[QualifiedName]*Symbol)}
}

func (st *SymbolTable) Lookup(name QualifiedName) (*Symbol, bool) {
	sym, ok := st.symbols[name]
	return sym, ok
}

// Register adds a symbol. An existing symbol of the same name is returned
// unchanged together with false.
func (st *SymbolTable) Register(sym *Symbol) (*Symbol, bool) {
	if existing, ok := st.symbols[sym.Name]; ok {
		return existing, false
	}
	st.symbols[sym.Name] = sym
	st.order = append(st.order, sym.Name)
	return sym, true
}

// Has reports whether name is declared and not in conflict.
func (st *SymbolTable) Has(name QualifiedName) bool {
	sym, ok := st.symbols[name]
	return ok && !sym.Conflict
}

func (st *SymbolTable) Class(name QualifiedName) *Class {
	if sym, ok := st.symbols[name]; ok && !sym.Conflict && sym.Kind == SymbolClass {
		return sym.Class
	}
	return nil
}

func (st *SymbolTable) Enum(name QualifiedName) *Enum {
	if sym, ok := st.symbols[name]; ok && !sym.Conflict && sym.Kind == SymbolEnum {
		return sym.Enum
	}
	return nil
}

func (st *SymbolTable) Typedef(name QualifiedName) *Typedef {
	if sym, ok := st.symbols[name]; ok && !sym.Conflict && sym.Kind == SymbolTypedef {
		return sym.Typedef
	}
	return nil
}

// Names returns every registered name, conflicting ones included.
func (st *SymbolTable) Names() []QualifiedName {
	return st.order
}

func (st *SymbolTable) Symbols() []*Symbol {
	out := make([]*Symbol, 0, len(st.order))
	for _, name := range st.order {
		out = append(out, st.symbols[name])
	}
	return out
}

func (st *SymbolTable) Classes() []*Class {
	var out []*Class
	for _, sym := range st.Symbols() {
		if !sym.Conflict && sym.Kind == SymbolClass {
			out = append(out, sym.Class)
		}
	}
	return out
}

func (st *SymbolTable) Enums() []*Enum {
	var out []*Enum
	for _, sym := range st.Symbols() {
		if !sym.Conflict && sym.Kind == SymbolEnum {
			out = append(out, sym.Enum)
		}
	}
	return out
}

func (st *SymbolTable) Typedefs() []*Typedef {
	var out []*Typedef
	for _, sym := range st.Symbols() {
		if !sym.Conflict && sym.Kind == SymbolTypedef {
			out = append(out, sym.Typedef)
		}
	}
	return out
}
