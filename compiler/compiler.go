// Package compiler drives a complete run: it scans JavaScript sources,
// builds the declaration model, converts it to Java class models and
// writes the generated files.
package compiler

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/jsdocgen/config"
	"github.com/dhamidi/jsdocgen/diag"
	"github.com/dhamidi/jsdocgen/format"
	"github.com/dhamidi/jsdocgen/java"
	"github.com/dhamidi/jsdocgen/js"
	"github.com/dhamidi/jsdocgen/model"
)

var log = commonlog.GetLogger("jsdocgen.compiler")

// Unit is one JavaScript source file.
type Unit struct {
	Path   string
	Source []byte
}

type Result struct {
	Model *model.Model
	// Classes are the top-level Java classes, followed by the @JsFunction
	// interfaces the mapped types refer to.
	Classes     []*java.ClassModel
	Diagnostics *diag.List
}

type Compiler struct {
	cfg *config.Config
}

// New returns a compiler for cfg; a nil cfg means the defaults.
func New(cfg *config.Config) *Compiler {
	if cfg == nil {
		cfg = config.New()
	}
	return &Compiler{cfg: cfg}
}

func (c *Compiler) Config() *config.Config {
	return c.cfg
}

// Compile scans units concurrently and builds them in unit order, so the
// result does not depend on the number of jobs. The error is non-nil only
// when ctx is cancelled.
func (c *Compiler) Compile(ctx context.Context, units []Unit) (*Result, error) {
	scanned := make([]model.Unit, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(c.cfg.Concurrency(), len(units))))
	for i := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			u := units[i]
			decls := js.Scan(u.Source, js.WithFile(u.Path))
			log.Debugf("scanned %s: %d declarations", u.Path, len(decls))
			scanned[i] = model.Unit{Path: u.Path, Decls: decls}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "scanning sources")
	}
	return c.Build(scanned), nil
}

// CompilePairs builds already separated comment and declaration texts as
// a single unit named path.
func (c *Compiler) CompilePairs(path string, pairs []js.Pair) *Result {
	return c.Build([]model.Unit{{Path: path, Decls: js.FromPairs(pairs, js.WithFile(path))}})
}

// CompileFiles reads paths concurrently and compiles them. Directories are
// searched for .js files.
func (c *Compiler) CompileFiles(ctx context.Context, paths []string) (*Result, error) {
	files, err := Expand(paths)
	if err != nil {
		return nil, err
	}
	units, err := c.read(ctx, files)
	if err != nil {
		return nil, err
	}
	return c.Compile(ctx, units)
}

func (c *Compiler) read(ctx context.Context, files []string) ([]Unit, error) {
	units := make([]Unit, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(c.cfg.Concurrency(), len(files))))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "reading %s", path)
			}
			units[i] = Unit{Path: filepath.ToSlash(path), Source: src}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

// Build resolves already scanned units into a result.
func (c *Compiler) Build(units []model.Unit) *Result {
	builder := model.NewBuilder(append(c.cfg.BuilderOptions(),
		model.WithEraser(func(st *model.SymbolTable) model.Eraser {
			return java.NewTypeMapper(st, c.cfg.MapperOptions()...)
		}))...)
	m, diags := builder.Build(units)

	tm := java.NewTypeMapper(m.Symbols, c.cfg.MapperOptions()...)
	classes := java.ClassModelsFromModel(m, tm, c.cfg.ModelOptions()...)
	functions := java.FunctionInterfaces(tm)
	log.Infof("compiled %d files into %d classes and %d function interfaces (%d diagnostics)",
		len(units), len(classes), len(functions), diags.Len())

	return &Result{
		Model:       m,
		Classes:     append(classes, functions...),
		Diagnostics: diags,
	}
}

// Expand replaces every directory in paths with the .js files below it, in
// lexical order. Other paths are kept as given.
func Expand(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		var found []string
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, ".js") {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walking %s", path)
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// WriteFiles writes every class to dir in the named format, one file per
// top-level class at its package path. It returns the written paths.
func WriteFiles(dir, formatName string, classes []*java.ClassModel) ([]string, error) {
	if _, err := format.New(formatName, nil); err != nil {
		return nil, err
	}
	var written []string
	for _, class := range classes {
		rel := strings.TrimSuffix(class.Path(), ".java") + format.Extension(formatName)
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := writeFile(path, formatName, class); err != nil {
			return written, err
		}
		log.Infof("wrote %s", path)
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path, formatName string, class *java.ClassModel) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "closing %s", path)
		}
	}()
	enc, err := format.New(formatName, f)
	if err != nil {
		return err
	}
	if err := enc.Encode(class); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
