package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher keeps a Workspace in sync with the files on disk.
type Watcher struct {
	workspace *Workspace
	w         *fsnotify.Watcher

	// OnChange is called after a source file was reparsed or dropped. f is
	// nil when the file went away. It runs on the watcher's goroutine.
	OnChange func(path string, f *File)

	// Skip reports source files whose text is owned by someone else, such as
	// an editor buffer. Disk events for them leave the workspace alone.
	Skip func(path string) bool
}

func NewWatcher(ws *Workspace) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	watcher := &Watcher{workspace: ws, w: w}
	if err := watcher.addTree(ws.RootDir()); err != nil {
		w.Close()
		return nil, err
	}
	return watcher, nil
}

// addTree watches dir and every directory below it that is not hidden.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run processes file system events until ctx is done or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch: %s", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	log.Debugf("event %s", ev)

	if ev.Op&fsnotify.Create != 0 && !IsSource(ev.Name) {
		// A new directory may already contain files.
		if err := w.addTree(ev.Name); err == nil {
			w.scanTree(ev.Name)
		}
		return
	}
	if !IsSource(ev.Name) || w.skipped(ev.Name) {
		return
	}

	switch {
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if w.workspace.File(ev.Name) == nil {
			return
		}
		w.workspace.RemoveFile(ev.Name)
		log.Infof("removed %s", ev.Name)
		w.changed(ev.Name, nil)
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		f, err := w.workspace.ScanFile(ev.Name)
		if err != nil {
			log.Errorf("%s", err)
			return
		}
		log.Infof("updated %s", ev.Name)
		w.changed(ev.Name, f)
	}
}

func (w *Watcher) scanTree(dir string) {
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !IsSource(path) || w.skipped(path) {
			return nil
		}
		if f, err := w.workspace.ScanFile(path); err == nil {
			w.changed(path, f)
		}
		return nil
	})
}

func (w *Watcher) skipped(path string) bool {
	if w.Skip != nil && w.Skip(path) {
		log.Debugf("skip %s", path)
		return true
	}
	return false
}

func (w *Watcher) changed(path string, f *File) {
	if w.OnChange != nil {
		w.OnChange(path, f)
	}
}

func (w *Watcher) Close() error {
	return w.w.Close()
}
