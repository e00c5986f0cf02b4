package codebase

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// FileWatcher polls the root directory of a codebase for added, changed
// and removed .js files.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	doneCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
	onChange     func()
}

// NewFileWatcher returns a watcher for c. onChange, if not nil, runs after
// every poll that changed the codebase, the first one included.
func NewFileWatcher(c *Codebase, onChange func()) *FileWatcher {
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
		onChange:     onChange,
	}
}

func (w *FileWatcher) Start() {
	go w.run()
}

// Stop ends polling and waits for a running poll to finish.
func (w *FileWatcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *FileWatcher) run() {
	defer close(w.doneCh)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.poll()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *FileWatcher) poll() {
	if w.scan() && w.onChange != nil {
		w.onChange()
	}
}

// scan updates the codebase from disk and reports whether anything changed.
func (w *FileWatcher) scan() bool {
	changed := false
	currentFiles := make(map[string]bool)
	root := w.codebase.RootDir()

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".js" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}

		currentFiles[path] = true

		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			if err := w.codebase.ScanFile(path); err != nil {
				log.Warningf("%s", err)
				return nil
			}
			log.Debugf("rescanned %s", path)
			changed = true
		}
		return nil
	})

	for path := range w.modTimes {
		if !currentFiles[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			log.Debugf("removed %s", path)
			changed = true
		}
	}
	return changed
}
