// Package workspace keeps every stekin source file under a root directory
// parsed in memory, along with the diagnostics each one produced.
package workspace

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/stekin/ast"
	"github.com/dhamidi/stekin/stekin/parser"
	"github.com/tliron/commonlog"
)

// Ext is the file extension of stekin source files.
const Ext = ".stkn"

var log = commonlog.GetLogger("stekin.workspace")

type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*File
}

// File is the parsed state of one source file. A File is never modified
// after it is stored; an update replaces it.
type File struct {
	Path        string
	Content     []byte
	Root        *ast.Block
	Diagnostics []diag.Diagnostic
}

func (f *File) HasErrors() bool {
	return len(f.Diagnostics) > 0
}

func New(rootDir string) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		files:   make(map[string]*File),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// IsSource reports whether path names a stekin source file.
func IsSource(path string) bool {
	return filepath.Ext(path) == Ext
}

// ScanAll parses every source file below the root directory. Hidden
// directories are skipped. Files that cannot be read are logged and left out.
func (w *Workspace) ScanAll() error {
	if _, err := os.Stat(w.rootDir); err != nil {
		return fmt.Errorf("scan workspace: %w", err)
	}
	count := 0
	err := filepath.WalkDir(w.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Errorf("walk %s: %s", path, err)
			return nil
		}
		if d.IsDir() {
			if path != w.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsSource(path) {
			return nil
		}
		if _, err := w.ScanFile(path); err != nil {
			log.Errorf("%s", err)
			return nil
		}
		count++
		return nil
	})
	log.Infof("scanned %d files in %s", count, w.rootDir)
	return err
}

// ScanFile reads path from disk and parses it.
func (w *Workspace) ScanFile(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return w.UpdateFile(path, content), nil
}

// UpdateFile parses content as the new text of path.
func (w *Workspace) UpdateFile(path string, content []byte) *File {
	root, diags := parser.ParseBytes(content, parser.WithFile(path))
	f := &File{
		Path:        path,
		Content:     content,
		Root:        root,
		Diagnostics: diags.Sorted(),
	}
	log.Debugf("parsed %s: %d diagnostics", path, len(f.Diagnostics))

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = f
	return f
}

// Unchanged reports whether content matches what is stored for path.
func (w *Workspace) Unchanged(path string, content []byte) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	f := w.files[path]
	return f != nil && bytes.Equal(f.Content, content)
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) File(path string) *File {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Files returns all files sorted by path.
func (w *Workspace) Files() []*File {
	w.mu.RLock()
	files := make([]*File, 0, len(w.files))
	for _, f := range w.files {
		files = append(files, f)
	}
	w.mu.RUnlock()

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Diagnostics returns the diagnostics of every file, ordered by file and
// position.
func (w *Workspace) Diagnostics() []diag.Diagnostic {
	var all []diag.Diagnostic
	for _, f := range w.Files() {
		all = append(all, f.Diagnostics...)
	}
	return all
}
