package model

import (
	"strconv"

	"github.com/dhamidi/jsdocgen/diag"
	"github.com/dhamidi/jsdocgen/js"
	"github.com/dhamidi/jsdocgen/jsdoc"
	"github.com/dhamidi/jsdocgen/jstype"
)

// signature returns the validated parameter list of a function
// declaration. When formal is set the function's own parameter names are
// authoritative and the @param tags supply types positionally; otherwise
// the tags alone define the list.
func (r *run) signature(d *js.Declaration, c *Class, name string, formal bool, scope []string) []Param {
	var params []Param
	if formal {
		params = r.align(d, c, name, scope)
	} else {
		params = r.fromTags(d, scope)
	}
	return r.validate(d, c, name, params)
}

func (r *run) align(d *js.Declaration, c *Class, name string, scope []string) []Param {
	tags := d.Doc.Params()
	n := len(d.Params)
	trailing := len(tags) == n+1 && isVariadicTag(tags[n])
	if len(tags) != n && !trailing {
		r.diags.Addf(diag.SignatureMismatch, d.Pos.Diag(), string(c.Name)+"."+name,
			"%s.%s has %d formal parameters but %d @param tags", c.Name, name, n, len(tags))
	}

	params := make([]Param, 0, len(tags))
	for i, formalName := range d.Params {
		if i >= len(tags) {
			params = append(params, Param{Name: formalName, Type: jstype.Unknown{}})
			continue
		}
		p := r.param(d, tags[i], scope)
		p.Name = formalName
		params = append(params, p)
	}
	if trailing {
		p := r.param(d, tags[n], scope)
		if p.Name == "" {
			p.Name = "var_args"
		}
		params = append(params, p)
	}
	return params
}

func (r *run) fromTags(d *js.Declaration, scope []string) []Param {
	tags := d.Doc.Params()
	params := make([]Param, 0, len(tags))
	for i, tag := range tags {
		p := r.param(d, tag, scope)
		if p.Name == "" {
			p.Name = "p" + strconv.Itoa(i)
		}
		params = append(params, p)
	}
	return params
}

func isVariadicTag(tag jsdoc.Param) bool {
	_, ok := tag.Expr.(jstype.Variadic)
	return ok
}

// param converts a @param tag, moving the = and ... markers of its type
// onto the flags.
func (r *run) param(d *js.Declaration, tag jsdoc.Param, scope []string) Param {
	p := Param{Name: tag.Name, Optional: tag.Bracket, Doc: tag.Description}
	expr := r.typeOf(d, tag.TypeAnnotation, scope)
	for {
		switch t := expr.(type) {
		case jstype.Optional:
			p.Optional = true
			expr = t.Inner
			continue
		case jstype.Variadic:
			p.Variadic = true
			expr = t.Inner
			continue
		}
		break
	}
	p.Type = jstype.Normalize(expr)
	return p
}

// validate repairs parameter lists that cannot be expressed: a variadic
// that is not last becomes an array, and optionals followed by a required
// parameter become required.
func (r *run) validate(d *js.Declaration, c *Class, name string, params []Param) []Param {
	symbol := string(c.Name) + "." + name
	last := len(params) - 1
	for i := range params {
		if params[i].Variadic && i != last {
			r.diags.Addf(diag.MalformedSignature, d.Pos.Diag(), symbol,
				"variadic parameter %s of %s is not last; treated as an array", params[i].Name, symbol)
			params[i].Variadic = false
			params[i].Type = jstype.Nullable{
				Inner:    jstype.Named{Name: "Array", Args: []jstype.Expr{params[i].Type}},
				Implicit: true,
			}
		}
	}

	lastRequired := -1
	for i, p := range params {
		if !p.Optional && !p.Variadic {
			lastRequired = i
		}
	}
	reported := false
	for i := 0; i < lastRequired; i++ {
		if !params[i].Optional {
			continue
		}
		if !reported {
			r.diags.Addf(diag.MalformedSignature, d.Pos.Diag(), symbol,
				"optional parameter %s of %s precedes required parameter %s; treated as required",
				params[i].Name, symbol, params[lastRequired].Name)
			reported = true
		}
		params[i].Optional = false
	}
	return params
}
