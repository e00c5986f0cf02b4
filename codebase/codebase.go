// Package codebase keeps a set of JavaScript files that are compiled
// together and serves them to editors over the Language Server Protocol.
package codebase

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jsdocgen/compiler"
	"github.com/dhamidi/jsdocgen/config"
	"github.com/dhamidi/jsdocgen/diag"
	"github.com/dhamidi/jsdocgen/java"
	"github.com/dhamidi/jsdocgen/js"
	"github.com/dhamidi/jsdocgen/model"
)

var log = commonlog.GetLogger("jsdocgen.codebase")

type FileInfo struct {
	Path    string
	Content []byte
	Decls   []js.Declaration
}

// Codebase compiles every file it holds as one program. Each change
// rebuilds the whole result, since a declaration in one file can complete
// a class declared in another.
type Codebase struct {
	mu       sync.RWMutex
	rootDir  string
	compiler *compiler.Compiler
	files    map[string]*FileInfo
	result   *compiler.Result
}

func New(rootDir string, cfg *config.Config) *Codebase {
	c := &Codebase{
		rootDir:  rootDir,
		compiler: compiler.New(cfg),
		files:    make(map[string]*FileInfo),
	}
	c.rebuildLocked()
	return c
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// ScanAll reads every .js file below the root directory, skipping hidden
// directories, and rebuilds once at the end.
func (c *Codebase) ScanAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := filepath.WalkDir(c.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != c.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".js" {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			log.Debugf("skipping %s: %s", path, err)
			return nil
		}
		c.updateFileLocked(path, content)
		return nil
	})
	c.rebuildLocked()
	if err != nil {
		return errors.Wrapf(err, "scanning %s", c.rootDir)
	}
	return nil
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	c.UpdateFile(path, content)
	return nil
}

func (c *Codebase) UpdateFile(path string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateFileLocked(path, content)
	c.rebuildLocked()
}

func (c *Codebase) updateFileLocked(path string, content []byte) {
	c.files[path] = &FileInfo{
		Path:    path,
		Content: content,
		Decls:   js.Scan(content, js.WithFile(path)),
	}
}

func (c *Codebase) rebuildLocked() {
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	units := make([]model.Unit, len(paths))
	for i, path := range paths {
		units[i] = model.Unit{Path: path, Decls: c.files[path].Decls}
	}
	c.result = c.compiler.Build(units)
	log.Debugf("rebuilt %d files", len(units))
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.files[path]; !ok {
		return
	}
	delete(c.files, path)
	c.rebuildLocked()
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files returns the paths of all files in lexical order.
func (c *Codebase) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Result returns the result of the latest build. It must not be modified.
func (c *Codebase) Result() *compiler.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// Diagnostics returns the diagnostics of the latest build located in path.
func (c *Codebase) Diagnostics(path string) []diag.Diagnostic {
	return c.Result().Diagnostics.ForFile(path)
}

func (c *Codebase) AllClasses() []*java.ClassModel {
	return c.Result().Classes
}

// FindClass returns the generated class with the given Java name, inner
// classes included.
func (c *Codebase) FindClass(name string) *java.ClassModel {
	return findClass(c.AllClasses(), func(cm *java.ClassModel) bool {
		return cm.Name == name
	})
}

func findClass(classes []*java.ClassModel, match func(*java.ClassModel) bool) *java.ClassModel {
	var found *java.ClassModel
	for _, class := range classes {
		class.Walk(func(cm *java.ClassModel) {
			if found == nil && match(cm) {
				found = cm
			}
		})
	}
	return found
}

// DeclarationAt returns the declaration covering line of path: the last one
// whose doc comment or statement starts at or before line.
func (c *Codebase) DeclarationAt(path string, line int) *js.Declaration {
	file := c.GetFile(path)
	if file == nil {
		return nil
	}
	var found *js.Declaration
	for i := range file.Decls {
		d := &file.Decls[i]
		start := d.Pos.Line
		if d.Doc != nil && d.DocPos.Line > 0 {
			start = d.DocPos.Line
		}
		if start > line {
			break
		}
		found = d
	}
	return found
}
