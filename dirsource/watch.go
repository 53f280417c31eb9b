package dirsource

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"github.com/fsnotify/fsnotify"
)

// Watch keeps the listing in sync with the folder until Close or the next
// Load. Only local folders can be watched.
func (m *Model) Watch() error {
	if m.dir == nil || m.dir.Scheme() != "file" {
		return ErrNotWatchable
	}
	m.stopWatch()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(m.dir.Path()); err != nil {
		w.Close()
		return fmt.Errorf("watching %s: %w", m.dir.Path(), err)
	}
	m.watcher = w
	go m.watch(w)
	return nil
}

// Watching reports whether a watch is running.
func (m *Model) Watching() bool {
	return m.watcher != nil
}

// Close stops watching the folder.
func (m *Model) Close() {
	m.stopWatch()
}

func (m *Model) stopWatch() {
	if m.watcher == nil {
		return
	}
	if err := m.watcher.Close(); err != nil {
		fyne.LogError("could not stop watching "+m.dir.Path(), err)
	}
	m.watcher = nil
}

func (m *Model) watch(w *fsnotify.Watcher) {
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			m.do(func() {
				// Events still queued for a replaced watcher are stale.
				if m.watcher == w {
					m.handle(ev)
				}
			})
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			fyne.LogError("directory watch failed", err)
		}
	}
}

// handle applies one file system event to the listing. A rename arrives as
// Rename for the old name and Create for the new one.
func (m *Model) handle(ev fsnotify.Event) {
	if m.dir == nil || filepath.Dir(ev.Name) != filepath.Clean(m.dir.Path()) {
		return
	}
	name := filepath.Base(ev.Name)
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		m.removeEntry(name)
	case ev.Has(fsnotify.Create):
		m.addEntry(storage.NewFileURI(ev.Name))
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Chmod):
		m.changeEntry(name)
	}
}
