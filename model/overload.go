package model

import (
	"strings"

	"github.com/dhamidi/jsdocgen/diag"
	"github.com/dhamidi/jsdocgen/jstype"
)

// Expand returns the overloads of a declared parameter list. Union typed
// parameters are multiplied out first, earlier parameters varying slowest;
// each variant is then cut at every position from its first optional
// parameter to its full length. The returned overloads carry no Optional
// flags and share no type trees with params.
func Expand(params []Param) [][]Param {
	variants := [][]Param{nil}
	for _, p := range params {
		alts := jstype.Alternatives(jstype.Normalize(p.Type))
		next := make([][]Param, 0, len(variants)*len(alts))
		for _, v := range variants {
			for _, alt := range alts {
				q := p
				q.Type = jstype.Clone(alt)
				next = append(next, append(append(make([]Param, 0, len(params)), v...), q))
			}
		}
		variants = next
	}

	var out [][]Param
	for _, v := range variants {
		out = append(out, truncate(v)...)
	}
	return out
}

func truncate(params []Param) [][]Param {
	first := len(params)
	for i, p := range params {
		if p.Optional {
			first = i
			break
		}
	}
	out := make([][]Param, 0, len(params)-first+1)
	for n := first; n <= len(params); n++ {
		ps := make([]Param, n)
		for i := range ps {
			ps[i] = params[i]
			ps[i].Optional = false
			ps[i].Type = jstype.Clone(params[i].Type)
		}
		out = append(out, ps)
	}
	return out
}

// dedupe drops overloads whose erased signature equals an earlier one,
// reporting each drop. existing seeds the signatures already taken.
func (r *run) dedupe(owner QualifiedName, name string, existing, overloads [][]Param, pos diag.Position) [][]Param {
	seen := make(map[string]bool, len(existing)+len(overloads))
	for _, ps := range existing {
		seen[r.erasure(ps)] = true
	}
	var out [][]Param
	for _, ps := range overloads {
		key := r.erasure(ps)
		if seen[key] {
			r.diags.Addf(diag.OverloadCollision, pos, string(owner)+"."+name,
				"%s.%s(%s) erases to an earlier overload; dropped", owner, name, key)
			continue
		}
		seen[key] = true
		out = append(out, ps)
	}
	return out
}

func (r *run) erasure(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = r.eraser.Erase(p.Type)
		if p.Variadic {
			parts[i] += "..."
		}
	}
	return strings.Join(parts, ",")
}
