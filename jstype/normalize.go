package jstype

// Normalize returns an equivalent expression in canonical form:
// nested unions are flattened, duplicate members are removed, and null or
// undefined members are folded into a Nullable wrapper around the rest.
// Normalize is idempotent.
func Normalize(e Expr) Expr {
	switch t := e.(type) {
	case Named:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]Expr, len(t.Args))
		for i, a := range t.Args {
			args[i] = Normalize(a)
		}
		return Named{Name: t.Name, Args: args}
	case Union:
		return normalizeUnion(t)
	case Nullable:
		inner := Normalize(t.Inner)
		if n, ok := inner.(Nullable); ok {
			return Nullable{Inner: n.Inner, Implicit: t.Implicit && n.Implicit}
		}
		return Nullable{Inner: inner, Implicit: t.Implicit}
	case NonNullable:
		inner := Normalize(t.Inner)
		if n, ok := inner.(Nullable); ok && n.Implicit {
			inner = n.Inner
		}
		if n, ok := inner.(NonNullable); ok {
			return n
		}
		return NonNullable{Inner: inner}
	case Optional:
		return Optional{Inner: Normalize(t.Inner)}
	case Variadic:
		return Variadic{Inner: Normalize(t.Inner)}
	case Function:
		fn := Function{New: t.New}
		if t.This != nil {
			fn.This = Normalize(t.This)
		}
		for _, p := range t.Params {
			fn.Params = append(fn.Params, Normalize(p))
		}
		if t.Return != nil {
			fn.Return = Normalize(t.Return)
		}
		return fn
	case Record:
		rec := Record{}
		for _, f := range t.Fields {
			rec.Fields = append(rec.Fields, Field{Name: f.Name, Type: Normalize(f.Type)})
		}
		return rec
	}
	return e
}

func normalizeUnion(u Union) Expr {
	var members []Expr
	seen := make(map[string]bool)
	nullable := false

	var add func(e Expr)
	add = func(e Expr) {
		switch t := e.(type) {
		case Union:
			for _, m := range t.Members {
				add(m)
			}
			return
		case Named:
			if len(t.Args) == 0 && (t.Name == "null" || t.Name == "undefined") {
				nullable = true
				return
			}
		case Nullable:
			if !t.Implicit {
				nullable = true
				if inner, ok := t.Inner.(Union); ok {
					add(inner)
					return
				}
				e = implicit(t.Inner)
			}
		}
		key := e.String()
		if seen[key] {
			return
		}
		seen[key] = true
		members = append(members, e)
	}
	for _, m := range u.Members {
		add(Normalize(m))
	}

	var result Expr
	switch len(members) {
	case 0:
		return Named{Name: "null"}
	case 1:
		result = members[0]
	default:
		result = Union{Members: members}
	}
	if !nullable {
		return result
	}
	if n, ok := result.(Nullable); ok {
		return Nullable{Inner: n.Inner}
	}
	return Nullable{Inner: result}
}

// Strip removes nullability wrappers from the top of e.
func Strip(e Expr) Expr {
	for {
		switch t := e.(type) {
		case Nullable:
			e = t.Inner
		case NonNullable:
			e = t.Inner
		default:
			return e
		}
	}
}

// IsNullable reports whether e is explicitly or implicitly nullable at the
// top level.
func IsNullable(e Expr) bool {
	_, ok := e.(Nullable)
	return ok
}

// Alternatives returns the members of a union type, carrying an enclosing
// nullability wrapper onto each member. Any other type is its own single
// alternative.
func Alternatives(e Expr) []Expr {
	switch t := e.(type) {
	case Union:
		return t.Members
	case Nullable:
		if u, ok := t.Inner.(Union); ok {
			out := make([]Expr, len(u.Members))
			for i, m := range u.Members {
				out[i] = Nullable{Inner: Strip(m)}
			}
			return out
		}
	case NonNullable:
		if u, ok := t.Inner.(Union); ok {
			out := make([]Expr, len(u.Members))
			for i, m := range u.Members {
				out[i] = NonNullable{Inner: Strip(m)}
			}
			return out
		}
	}
	return []Expr{e}
}

// Clone returns a deep copy of e.
func Clone(e Expr) Expr {
	switch t := e.(type) {
	case Named:
		n := Named{Name: t.Name}
		for _, a := range t.Args {
			n.Args = append(n.Args, Clone(a))
		}
		return n
	case Union:
		u := Union{Members: make([]Expr, len(t.Members))}
		for i, m := range t.Members {
			u.Members[i] = Clone(m)
		}
		return u
	case Nullable:
		return Nullable{Inner: Clone(t.Inner), Implicit: t.Implicit}
	case NonNullable:
		return NonNullable{Inner: Clone(t.Inner)}
	case Optional:
		return Optional{Inner: Clone(t.Inner)}
	case Variadic:
		return Variadic{Inner: Clone(t.Inner)}
	case Function:
		fn := Function{New: t.New}
		if t.This != nil {
			fn.This = Clone(t.This)
		}
		for _, p := range t.Params {
			fn.Params = append(fn.Params, Clone(p))
		}
		if t.Return != nil {
			fn.Return = Clone(t.Return)
		}
		return fn
	case Record:
		rec := Record{}
		for _, f := range t.Fields {
			rec.Fields = append(rec.Fields, Field{Name: f.Name, Type: Clone(f.Type)})
		}
		return rec
	}
	return e
}

// Walk calls fn for e and every nested expression in pre-order. Returning
// false from fn skips the children of that node.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch t := e.(type) {
	case Named:
		for _, a := range t.Args {
			Walk(a, fn)
		}
	case Union:
		for _, m := range t.Members {
			Walk(m, fn)
		}
	case Nullable:
		Walk(t.Inner, fn)
	case NonNullable:
		Walk(t.Inner, fn)
	case Optional:
		Walk(t.Inner, fn)
	case Variadic:
		Walk(t.Inner, fn)
	case Function:
		Walk(t.This, fn)
		for _, p := range t.Params {
			Walk(p, fn)
		}
		Walk(t.Return, fn)
	case Record:
		for _, f := range t.Fields {
			Walk(f.Type, fn)
		}
	}
}
