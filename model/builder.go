package model

import (
	"strconv"
	"strings"

	"github.com/dhamidi/jsdocgen/diag"
	"github.com/dhamidi/jsdocgen/js"
	"github.com/dhamidi/jsdocgen/jsdoc"
	"github.com/dhamidi/jsdocgen/jstype"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("jsdocgen.model")

var (
	DefaultAbstractSentinels = []string{"goog.abstractMethod"}
	DefaultIgnore            = []string{"toString", "clone"}
)

// Unit is the scanned content of one source file.
type Unit struct {
	Path  string
	Decls []js.Declaration
}

// Eraser maps a parameter type to the string that identifies it in an
// erased signature.
type Eraser interface {
	Erase(jstype.Expr) string
}

type exprEraser struct{}

func (exprEraser) Erase(e jstype.Expr) string {
	return jstype.Strip(jstype.Normalize(e)).String()
}

type Option func(*Builder)

// WithEraser installs the signature eraser used for overload
// de-duplication. It is constructed once per build with the symbol table
// being built.
func WithEraser(newEraser func(*SymbolTable) Eraser) Option {
	return func(b *Builder) {
		b.newEraser = newEraser
	}
}

// WithAbstractSentinels replaces the right-hand sides that mark a method
// abstract.
func WithAbstractSentinels(names ...string) Option {
	return func(b *Builder) {
		b.sentinels = toSet(names)
	}
}

// WithIgnore replaces the ignored members. Entries are member names or
// Class$member pairs, the class given by qualified or simple name.
func WithIgnore(names ...string) Option {
	return func(b *Builder) {
		b.ignore = toSet(names)
	}
}

// WithKnownNames adds names that resolve without a declaration. A name
// ending in .* makes every name below that prefix known.
func WithKnownNames(names ...string) Option {
	return func(b *Builder) {
		for _, name := range names {
			if prefix, ok := strings.CutSuffix(name, ".*"); ok {
				b.knownPrefixes = append(b.knownPrefixes, prefix+".")
				continue
			}
			b.known[name] = true
		}
	}
}

// WithSkipOverrides controls whether @override and @inheritDoc members are
// excluded. They are by default.
func WithSkipOverrides(skip bool) Option {
	return func(b *Builder) {
		b.skipOverrides = skip
	}
}

// WithSkipPrivate controls whether @private members are excluded. They are
// by default.
func WithSkipPrivate(skip bool) Option {
	return func(b *Builder) {
		b.skipPrivate = skip
	}
}

// Builder builds a Model from scanned units. A Builder holds only
// configuration and may be reused.
type Builder struct {
	sentinels     map[string]bool
	ignore        map[string]bool
	known         map[string]bool
	knownPrefixes []string
	skipOverrides bool
	skipPrivate   bool
	newEraser     func(*SymbolTable) Eraser
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		sentinels:     toSet(DefaultAbstractSentinels),
		ignore:        toSet(DefaultIgnore),
		known:         make(map[string]bool),
		skipOverrides: true,
		skipPrivate:   true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

type member struct {
	decl   *js.Declaration
	owner  *Class
	name   string
	static bool
}

// run is the state of a single Build.
type run struct {
	*Builder
	symbols  *SymbolTable
	diags    diag.List
	eraser   Eraser
	defs     map[QualifiedName]*js.Declaration
	reported map[QualifiedName]bool
	members  []member
}

// Build registers every declaration (pass 1) and then attaches members
// (pass 2). It never fails: problems are reported as diagnostics and the
// affected declaration is degraded or excluded.
func (b *Builder) Build(units []Unit) (*Model, *diag.List) {
	r := &run{
		Builder:  b,
		symbols:  NewSymbolTable(),
		eraser:   exprEraser{},
		defs:     make(map[QualifiedName]*js.Declaration),
		reported: make(map[QualifiedName]bool),
	}
	if b.newEraser != nil {
		r.eraser = b.newEraser(r.symbols)
	}

	var decls []*js.Declaration
	for ui := range units {
		log.Debugf("%s: %d declarations", units[ui].Path, len(units[ui].Decls))
		for di := range units[ui].Decls {
			decls = append(decls, &units[ui].Decls[di])
		}
	}

	r.register(decls)
	r.resolve()
	r.assign(decls)
	r.attach()

	log.Infof("built %d classes, %d enums, %d typedefs with %d diagnostics",
		len(r.symbols.Classes()), len(r.symbols.Enums()), len(r.symbols.Typedefs()), r.diags.Len())
	return &Model{Symbols: r.symbols}, &r.diags
}

// declKind returns the symbol kind a declaration introduces, if any.
func declKind(d *js.Declaration) (SymbolKind, bool) {
	doc := d.Doc
	switch {
	case doc.IsConstructorLike():
		return SymbolClass, true
	case doc.Has("enum"):
		return SymbolEnum, true
	case doc.Has("typedef"):
		td, _ := doc.Typedef()
		if _, ok := td.Expr.(jstype.Record); ok {
			return SymbolClass, true
		}
		return SymbolTypedef, true
	}
	return 0, false
}

// register is pass 1: every class, enum and typedef name is entered into
// the symbol table so that forward references resolve.
func (r *run) register(decls []*js.Declaration) {
	for _, d := range decls {
		kind, ok := declKind(d)
		if !ok {
			continue
		}
		name := QualifiedName(d.Target)
		sym := &Symbol{Name: name, Kind: kind, Pos: d.Pos.Diag()}
		switch kind {
		case SymbolClass:
			sym.Class = NewClass(name, KindClass)
		case SymbolEnum:
			sym.Enum = &Enum{Name: name}
		case SymbolTypedef:
			sym.Typedef = &Typedef{Name: name}
		}

		existing, added := r.symbols.Register(sym)
		if added {
			r.defs[name] = d
			continue
		}
		if existing.Kind != kind {
			existing.Conflict = true
			r.diags.Addf(diag.SymbolConflict, d.Pos.Diag(), string(name),
				"%s is declared as both %s and %s; its declarations are excluded", name, existing.Kind, kind)
			continue
		}
		if prev := r.defs[name]; kind == SymbolClass && prev.RHS != js.RHSFunction && d.RHS == js.RHSFunction {
			log.Debugf("%s: %s refines the bodiless declaration at %s", d.Pos.Diag(), name, prev.Pos.Diag())
			r.defs[name] = d
			continue
		}
		log.Debugf("%s: duplicate declaration of %s merged into %s", d.Pos.Diag(), name, existing.Pos)
	}
}

// resolve fills in class headers, enums and typedefs from their defining
// declarations.
func (r *run) resolve() {
	for _, sym := range r.symbols.Symbols() {
		if sym.Conflict {
			continue
		}
		d := r.defs[sym.Name]
		if d == nil {
			continue
		}
		switch sym.Kind {
		case SymbolClass:
			r.classHeader(sym.Class, d)
		case SymbolEnum:
			r.enum(sym.Enum, d)
		case SymbolTypedef:
			r.typedef(sym.Typedef, d)
		}
	}
}

func (r *run) classHeader(c *Class, d *js.Declaration) {
	doc := d.Doc
	switch {
	case doc.Has("interface") || doc.Has("record"):
		c.Kind = KindInterface
		c.IsAbstract = true
	case doc.Has("typedef"):
		c.Kind = KindData
	}
	c.Doc = doc.ClassDescription()
	c.Summary = doc.Summary()
	c.Template = doc.Templates()
	c.Pos = d.Pos.Diag()
	api, _ := doc.API()
	c.Meta = Meta{
		API:        api.Stability,
		Fires:      doc.Fires(),
		Struct:     doc.Has("struct"),
		Deprecated: doc.Has("deprecated"),
	}

	for _, ext := range doc.Extends() {
		target, ok := r.referenceName(d, ext.TypeAnnotation)
		if !ok {
			continue
		}
		pos := d.TagPosition(ext.TypeAnnotation).Diag()
		if c.Kind == KindInterface {
			c.Interfaces = append(c.Interfaces, target)
			r.requireClass(target, pos)
			continue
		}
		if c.Super != "" {
			log.Debugf("%s: %s already extends %s; ignoring %s", pos, c.Name, c.Super, target)
			continue
		}
		c.Super = target
		r.requireClass(target, pos)
	}
	for _, impl := range doc.Implements() {
		target, ok := r.referenceName(d, impl.TypeAnnotation)
		if !ok {
			continue
		}
		c.Interfaces = append(c.Interfaces, target)
		r.requireClass(target, d.TagPosition(impl.TypeAnnotation).Diag())
	}
}

func (r *run) enum(e *Enum, d *js.Declaration) {
	doc := d.Doc
	e.Doc = doc.Description
	e.Pos = d.Pos.Diag()

	tag, _ := doc.Enum()
	e.Backing = jstype.Named{Name: "number"}
	if tag.Err != nil {
		r.malformed(d, tag.TypeAnnotation)
	} else if tag.Expr != nil {
		e.Backing = jstype.Normalize(tag.Expr)
	}

	if d.RHS != js.RHSObject {
		log.Debugf("%s: enum %s has no object literal", e.Pos, e.Name)
		return
	}
	for _, entry := range d.Entries {
		v := EnumValue{Name: entry.Key, Literal: entry.Value}
		if entry.Doc != nil {
			v.Doc = entry.Doc.Description
		}
		e.Values = append(e.Values, v)
	}
}

func (r *run) typedef(t *Typedef, d *js.Declaration) {
	t.Doc = d.Doc.Description
	t.Pos = d.Pos.Diag()
	tag, _ := d.Doc.Typedef()
	t.Type = jstype.Normalize(r.typeOf(d, tag.TypeAnnotation, nil))
}

// referenceName extracts the class name of an @extends or @implements
// payload.
func (r *run) referenceName(d *js.Declaration, ann jsdoc.TypeAnnotation) (QualifiedName, bool) {
	if ann.Err != nil {
		r.malformed(d, ann)
		return "", false
	}
	named, ok := jstype.Strip(ann.Expr).(jstype.Named)
	if !ok {
		return "", false
	}
	return QualifiedName(named.Name), true
}

func (r *run) isKnown(name QualifiedName) bool {
	if r.known[string(name)] {
		return true
	}
	for _, prefix := range r.knownPrefixes {
		if strings.HasPrefix(string(name), prefix) {
			return true
		}
	}
	return false
}

// requireClass makes sure name resolves to a class, synthesizing an opaque
// one when it has no declaration.
func (r *run) requireClass(name QualifiedName, pos diag.Position) {
	if r.symbols.Class(name) != nil || r.isKnown(name) {
		return
	}
	if sym, ok := r.symbols.Lookup(name); ok {
		if !sym.Conflict && !r.reported[name] {
			r.reported[name] = true
			r.diags.Addf(diag.UnresolvedReference, pos, string(name), "%s is a %s, not a class", name, sym.Kind)
		}
		return
	}
	r.unresolved(name, pos)
}

// unresolved reports name once and registers an opaque class for it.
func (r *run) unresolved(name QualifiedName, pos diag.Position) *Class {
	if !r.reported[name] {
		r.reported[name] = true
		r.diags.Addf(diag.UnresolvedReference, pos, string(name), "%s is not declared; assuming an opaque class", name)
	}
	if c := r.symbols.Class(name); c != nil {
		return c
	}
	if _, ok := r.symbols.Lookup(name); ok {
		return nil
	}
	c := NewClass(name, KindClass)
	c.Opaque = true
	c.Pos = pos
	r.symbols.Register(&Symbol{Name: name, Kind: SymbolClass, Class: c, Pos: pos})
	return c
}

func (r *run) malformed(d *js.Declaration, ann jsdoc.TypeAnnotation) {
	pos := d.TagPosition(ann).Diag()
	r.diags.Addf(diag.MalformedTypeExpression, pos, d.Target, "%v", ann.Err)
}

// typeOf returns the expression of a payload, reporting malformed payloads
// and unresolved qualified names. scope lists the @template names in
// effect.
func (r *run) typeOf(d *js.Declaration, ann jsdoc.TypeAnnotation, scope []string) jstype.Expr {
	if ann.Err != nil {
		r.malformed(d, ann)
		return jstype.Unknown{}
	}
	if !ann.HasType() || ann.Expr == nil {
		return jstype.Unknown{}
	}
	r.checkRefs(ann.Expr, d.TagPosition(ann).Diag(), scope)
	return ann.Expr
}

// checkRefs reports qualified names in e that resolve to nothing.
// Undotted names are left to the type mapper, which knows the built-ins.
func (r *run) checkRefs(e jstype.Expr, pos diag.Position, scope []string) {
	jstype.Walk(e, func(x jstype.Expr) bool {
		named, ok := x.(jstype.Named)
		if !ok {
			return true
		}
		name := QualifiedName(named.Name)
		if !name.IsDotted() || r.symbols.Has(name) || r.isKnown(name) || contains(scope, named.Name) {
			return true
		}
		if _, ok := r.symbols.Lookup(name); ok {
			return true
		}
		r.unresolved(name, pos)
		return true
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// assign computes the owner class of every member declaration.
func (r *run) assign(decls []*js.Declaration) {
	for _, d := range decls {
		if _, ok := declKind(d); ok {
			continue
		}
		if _, ok := r.symbols.Lookup(QualifiedName(d.Target)); ok {
			log.Debugf("%s: %s redeclared without a kind tag; skipped", d.Pos.Diag(), d.Target)
			continue
		}
		m, ok := r.owner(d)
		if !ok {
			continue
		}
		r.members = append(r.members, m)
	}
}

func (r *run) owner(d *js.Declaration) (member, bool) {
	pos := d.Pos.Diag()
	path := d.Target

	if i := strings.Index(path, ".prototype."); i >= 0 {
		ownerName := QualifiedName(path[:i])
		name := path[i+len(".prototype."):]
		if strings.Contains(name, ".") {
			log.Debugf("%s: nested prototype member %s skipped", pos, path)
			return member{}, false
		}
		if sym, ok := r.symbols.Lookup(ownerName); ok && (sym.Conflict || sym.Kind != SymbolClass) {
			return member{}, false
		}
		c := r.symbols.Class(ownerName)
		if c == nil {
			c = r.unresolved(ownerName, pos)
		}
		if c == nil {
			return member{}, false
		}
		return member{decl: d, owner: c, name: name}, true
	}
	if strings.HasSuffix(path, ".prototype") {
		log.Debugf("%s: prototype assignment %s skipped", pos, path)
		return member{}, false
	}

	q := QualifiedName(path)
	parent, name := q.Parent(), q.SimpleName()
	if sym, ok := r.symbols.Lookup(parent); ok {
		if sym.Conflict || sym.Kind != SymbolClass {
			return member{}, false
		}
		return member{decl: d, owner: sym.Class, name: name, static: true}, true
	}
	if parent != "" && isTypeName(parent.SimpleName()) {
		c := r.unresolved(parent, pos)
		if c == nil {
			return member{}, false
		}
		return member{decl: d, owner: c, name: name, static: true}, true
	}

	holder := globalsName(parent)
	c := r.symbols.Class(holder)
	if c == nil {
		if _, ok := r.symbols.Lookup(holder); ok {
			return member{}, false
		}
		c = NewClass(holder, KindGlobals)
		c.Doc = "Static members of the " + string(parent) + " namespace."
		c.Pos = pos
		r.symbols.Register(&Symbol{Name: holder, Kind: SymbolClass, Class: c, Pos: pos})
	}
	return member{decl: d, owner: c, name: name, static: true}, true
}

// attach is pass 2.
func (r *run) attach() {
	for _, sym := range r.symbols.Symbols() {
		if sym.Conflict || sym.Kind != SymbolClass {
			continue
		}
		d := r.defs[sym.Name]
		if d == nil {
			continue
		}
		switch sym.Class.Kind {
		case KindClass:
			r.constructor(sym.Class, d)
		case KindData:
			r.dataFields(sym.Class, d)
		}
	}
	for _, sym := range r.symbols.Symbols() {
		if sym.Kind == SymbolTypedef && !sym.Conflict && sym.Typedef.Type != nil {
			r.checkRefs(sym.Typedef.Type, sym.Typedef.Pos, nil)
		}
	}
	for _, m := range r.members {
		r.member(m)
	}
}

func (r *run) constructor(c *Class, d *js.Declaration) {
	params := r.signature(d, c, "constructor", d.RHS == js.RHSFunction, c.Template)
	c.ConstructorParams = params
	c.Constructors = r.dedupe(c.Name, "constructor", nil, Expand(params), d.Pos.Diag())
}

func (r *run) dataFields(c *Class, d *js.Declaration) {
	tag, _ := d.Doc.Typedef()
	rec, _ := tag.Expr.(jstype.Record)
	pos := d.TagPosition(tag.TypeAnnotation).Diag()
	for _, f := range rec.Fields {
		r.checkRefs(f.Type, pos, c.Template)
		c.AddField(&Field{Name: f.Name, Type: jstype.Normalize(f.Type), Pos: pos})
	}
}

func (r *run) member(m member) {
	d, c := m.decl, m.owner
	pos := d.Pos.Diag()

	class := r.Classify(d, c.Name, m.name, !m.static)
	switch class.Shape {
	case ShapeExcluded:
		log.Debugf("%s: %s.%s excluded (%s)", pos, c.Name, m.name, class.Reason)
		return
	case ShapeAbstract:
		r.method(c, m, true)
		return
	}

	doc := d.Doc
	_, hasType := doc.Type()
	switch {
	case d.RHS == js.RHSFunction:
		r.method(c, m, false)
	case hasType:
		r.field(c, m)
	case d.RHS == js.RHSObject, isNamespaceValue(d.Value):
		log.Debugf("%s: namespace %s skipped", pos, d.Target)
	case hasSignatureTags(d) && !doc.IsConst():
		r.method(c, m, false)
	default:
		r.field(c, m)
	}
}

func isNamespaceValue(v string) bool {
	v = strings.Join(strings.Fields(v), "")
	return v == "{}" || strings.HasSuffix(v, "||{}")
}

func visibility(doc *jsdoc.DocComment) Visibility {
	switch {
	case doc.Has("private"):
		return Private
	case doc.Has("protected"):
		return Protected
	}
	return Public
}

func (r *run) field(c *Class, m member) {
	d := m.decl
	doc := d.Doc
	f := &Field{
		Name:           m.name,
		IsConst:        doc.IsConst(),
		IsStatic:       m.static,
		HasInitializer: d.RHS != js.RHSNone,
		Initializer:    d.Value,
		Visibility:     visibility(doc),
		Doc:            doc.Description,
		Pos:            d.Pos.Diag(),
	}
	if ann, ok := declaredType(doc); ok {
		f.Type = jstype.Normalize(r.typeOf(d, ann, c.Template))
	} else {
		f.Type = literalType(d.Value)
	}
	if !c.AddField(f) {
		log.Debugf("%s: duplicate field %s.%s ignored", f.Pos, c.Name, f.Name)
	}
}

// declaredType returns the payload of @type, @const or @define, in that
// order of preference.
func declaredType(doc *jsdoc.DocComment) (jsdoc.TypeAnnotation, bool) {
	anns := doc.Annotations()
	for _, tag := range []string{"type", "const", "define"} {
		for _, a := range anns {
			if a.Tag == tag {
				return a.TypeAnnotation, true
			}
		}
	}
	return jsdoc.TypeAnnotation{}, false
}

// literalType infers a primitive type from an initializer literal.
func literalType(v string) jstype.Expr {
	switch {
	case v == "true" || v == "false":
		return jstype.Named{Name: "boolean"}
	case strings.HasPrefix(v, "'") || strings.HasPrefix(v, "\"") || strings.HasPrefix(v, "`"):
		return jstype.Named{Name: "string"}
	}
	if _, err := strconv.ParseFloat(strings.TrimPrefix(v, "-"), 64); err == nil {
		return jstype.Named{Name: "number"}
	}
	return jstype.Unknown{}
}

func (r *run) method(c *Class, m member, abstract bool) {
	d := m.decl
	doc := d.Doc
	pos := d.Pos.Diag()
	scope := append(append([]string{}, c.Template...), doc.Templates()...)

	params := r.signature(d, c, m.name, d.RHS == js.RHSFunction && !abstract, scope)
	base := Method{
		Name:       m.name,
		IsAbstract: abstract,
		IsStatic:   m.static,
		Visibility: visibility(doc),
		Template:   doc.Templates(),
		Doc:        doc.Description,
		Pos:        pos,
	}
	if ret, ok := doc.Return(); ok {
		base.ReturnDoc = ret.Description
		if ret.HasType() || ret.Err != nil {
			base.Return = jstype.Normalize(r.typeOf(d, ret.TypeAnnotation, scope))
			if named, ok := base.Return.(jstype.Named); ok && named.Name == "void" {
				base.Return = nil
			}
		}
	}

	if abstract {
		mm := base
		mm.Params = cloneParams(params)
		c.AddMethod(&mm)
		return
	}

	var existing [][]Param
	for _, prev := range c.Methods(m.name) {
		if prev.IsStatic == m.static {
			existing = append(existing, prev.Params)
		}
	}
	for _, ps := range r.dedupe(c.Name, m.name, existing, Expand(params), pos) {
		mm := base
		mm.Params = ps
		if base.Return != nil {
			mm.Return = jstype.Clone(base.Return)
		}
		c.AddMethod(&mm)
	}
}

func cloneParams(params []Param) []Param {
	out := make([]Param, len(params))
	for i, p := range params {
		p.Type = jstype.Clone(p.Type)
		out[i] = p
	}
	return out
}
