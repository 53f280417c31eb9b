// Package dirsource exposes a folder listing as an iconview row source.
package dirsource

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"slices"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"github.com/FyshOS/fancyfs"
	"github.com/fsnotify/fsnotify"

	"github.com/alexballas/xiconview/iconview"
)

// Row attributes served by Model.
const (
	AttrName    = "name"
	AttrURI     = "uri"
	AttrIsDir   = "is-dir"
	AttrIcon    = "icon"
	AttrPreview = "preview"
)

var (
	// ErrNotListable is returned when a location is not a folder.
	ErrNotListable = errors.New("location is not listable")
	// ErrNotWatchable is returned by Watch for folders outside the local
	// file system.
	ErrNotWatchable = errors.New("location cannot be watched")
)

type thumbState int

const (
	thumbNone thumbState = iota
	thumbPending
	thumbDone
	thumbFailed
)

type entry struct {
	uri  fyne.URI
	name string
	dir  bool

	artLoaded   bool
	artResource fyne.Resource
	artURI      fyne.URI

	thumb      image.Image
	thumbState thumbState
}

func newEntry(u fyne.URI) *entry {
	dir, _ := storage.CanList(u)
	return &entry{uri: u, name: u.Name(), dir: dir}
}

// compareEntries sorts folders first, then by case insensitive name.
func compareEntries(a, b *entry) int {
	if a.dir != b.dir {
		if a.dir {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(strings.ToLower(a.name), strings.ToLower(b.name)); c != 0 {
		return c
	}
	return cmp.Compare(a.name, b.name)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Model lists the children of one folder. It must only be used from the
// fyne goroutine; watcher events and finished thumbnails are handed back to
// it through fyne.Do.
type Model struct {
	dir     fyne.ListableURI
	entries []*entry

	showHidden bool
	thumbs     *Thumbnailer
	watcher    *fsnotify.Watcher
	listeners  []iconview.RowListener

	do func(func())
}

var _ iconview.ObservableRowSource = (*Model)(nil)

// NewModel creates an empty model. thumbs may be nil to disable previews.
func NewModel(thumbs *Thumbnailer) *Model {
	return &Model{thumbs: thumbs, do: fyne.Do}
}

// Load replaces the listing with the children of dir. Listeners are not
// told about the swap, so views need the model set again afterwards. A
// running watch is stopped.
func (m *Model) Load(dir fyne.URI) error {
	lister, err := storage.ListerForURI(dir)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotListable, dir)
	}
	children, err := lister.List()
	if err != nil {
		return fmt.Errorf("listing %s: %w", dir, err)
	}

	m.stopWatch()
	entries := make([]*entry, 0, len(children))
	for _, u := range children {
		if !m.showHidden && isHidden(u.Name()) {
			continue
		}
		entries = append(entries, newEntry(u))
	}
	slices.SortFunc(entries, compareEntries)

	m.dir = lister
	m.entries = entries
	return nil
}

// Dir is the folder currently listed, or nil.
func (m *Model) Dir() fyne.ListableURI {
	return m.dir
}

// ShowHidden reports whether dot files are listed.
func (m *Model) ShowHidden() bool {
	return m.showHidden
}

// SetShowHidden changes the hidden file filter and reloads the folder. As
// with Load, views need the model set again.
func (m *Model) SetShowHidden(show bool) error {
	if m.showHidden == show {
		return nil
	}
	m.showHidden = show
	if m.dir == nil {
		return nil
	}
	watching := m.watcher != nil
	if err := m.Load(m.dir); err != nil {
		return err
	}
	if watching {
		return m.Watch()
	}
	return nil
}

func (m *Model) Len() int {
	return len(m.entries)
}

// URI returns the location of row, or nil.
func (m *Model) URI(row int) fyne.URI {
	if row < 0 || row >= len(m.entries) {
		return nil
	}
	return m.entries[row].uri
}

func (m *Model) Attr(row int, name string) any {
	if row < 0 || row >= len(m.entries) {
		return nil
	}
	e := m.entries[row]
	switch name {
	case AttrName:
		return e.name
	case AttrURI:
		return e.uri
	case AttrIsDir:
		return e.dir
	case AttrIcon:
		return m.icon(e)
	case AttrPreview:
		return m.preview(e)
	}
	return nil
}

func (m *Model) AddRowListener(l iconview.RowListener) {
	m.listeners = append(m.listeners, l)
}

func (m *Model) RemoveRowListener(l iconview.RowListener) {
	if i := slices.Index(m.listeners, l); i >= 0 {
		m.listeners = slices.Delete(m.listeners, i, i+1)
	}
}

// loadFolderArt reads the custom folder background, if any, the first time
// it is needed.
func (m *Model) loadFolderArt(e *entry) {
	if !e.dir || e.artLoaded {
		return
	}
	e.artLoaded = true
	if details, err := fancyfs.DetailsForFolder(e.uri); err == nil && details != nil {
		e.artResource = details.BackgroundResource
		e.artURI = details.BackgroundURI
	}
}

func (m *Model) icon(e *entry) fyne.Resource {
	if e.dir {
		m.loadFolderArt(e)
		if e.artResource != nil {
			return e.artResource
		}
		return theme.FolderIcon()
	}
	if isImageFile(e.name) {
		return theme.FileImageIcon()
	}
	return theme.FileIcon()
}

// thumbSource is the local image a preview of e is made from.
func (m *Model) thumbSource(e *entry) (string, bool) {
	if e.dir {
		m.loadFolderArt(e)
		if e.artURI != nil && e.artURI.Scheme() == "file" {
			return e.artURI.Path(), true
		}
		return "", false
	}
	if e.uri.Scheme() != "file" || !isImageFile(e.name) {
		return "", false
	}
	return e.uri.Path(), true
}

// preview is the thumbnail of e once it is ready and the icon until then.
func (m *Model) preview(e *entry) any {
	if e.thumb != nil {
		return e.thumb
	}
	if m.thumbs == nil || e.thumbState != thumbNone {
		return m.icon(e)
	}
	path, ok := m.thumbSource(e)
	if !ok {
		e.thumbState = thumbFailed
		return m.icon(e)
	}
	if img := m.thumbs.Cached(path); img != nil {
		e.thumb, e.thumbState = img, thumbDone
		return img
	}

	e.thumbState = thumbPending
	m.thumbs.Request(path, func(img image.Image, err error) {
		m.do(func() {
			m.thumbnailReady(e, img, err)
		})
	})
	return m.icon(e)
}

func (m *Model) thumbnailReady(e *entry, img image.Image, err error) {
	i := slices.Index(m.entries, e)
	if i < 0 || e.thumbState != thumbPending {
		return
	}
	if errors.Is(err, ErrThumbnailDropped) {
		// Asked for again the next time the row is drawn.
		e.thumbState = thumbNone
		return
	}
	if img == nil {
		e.thumbState = thumbFailed
		return
	}
	e.thumb, e.thumbState = img, thumbDone
	m.notify(func(l iconview.RowListener) { l.RowChanged(i) })
}

func (m *Model) notify(f func(iconview.RowListener)) {
	for _, l := range slices.Clone(m.listeners) {
		f(l)
	}
}

func (m *Model) indexOf(name string) int {
	return slices.IndexFunc(m.entries, func(e *entry) bool {
		return e.name == name
	})
}

func (m *Model) addEntry(u fyne.URI) {
	if !m.showHidden && isHidden(u.Name()) {
		return
	}
	if m.indexOf(u.Name()) >= 0 {
		m.changeEntry(u.Name())
		return
	}
	e := newEntry(u)
	i, _ := slices.BinarySearchFunc(m.entries, e, compareEntries)
	m.entries = slices.Insert(m.entries, i, e)
	m.notify(func(l iconview.RowListener) { l.RowInserted(i) })
}

func (m *Model) removeEntry(name string) {
	i := m.indexOf(name)
	if i < 0 {
		return
	}
	e := m.entries[i]
	m.entries = slices.Delete(m.entries, i, i+1)
	if m.thumbs != nil && e.uri.Scheme() == "file" {
		m.thumbs.Forget(e.uri.Path())
	}
	m.notify(func(l iconview.RowListener) { l.RowDeleted(i) })
}

func (m *Model) changeEntry(name string) {
	i := m.indexOf(name)
	if i < 0 {
		return
	}
	old := m.entries[i]
	if m.thumbs != nil && old.uri.Scheme() == "file" {
		m.thumbs.Forget(old.uri.Path())
	}
	// A folder may have become a file or the other way round.
	e := newEntry(old.uri)
	if e.dir != old.dir {
		m.removeEntry(name)
		m.addEntry(e.uri)
		return
	}
	m.entries[i] = e
	m.notify(func(l iconview.RowListener) { l.RowChanged(i) })
}

// Rename gives row a new name on disk and moves it to its sorted place.
func (m *Model) Rename(row int, name string) error {
	src := m.URI(row)
	if src == nil {
		return fmt.Errorf("rename: no row %d", row)
	}
	name = strings.TrimSpace(name)
	if name == "" || name == src.Name() || strings.ContainsRune(name, filepath.Separator) {
		return nil
	}
	parent, err := storage.Parent(src)
	if err != nil {
		return fmt.Errorf("rename %s: %w", src.Name(), err)
	}
	dst, err := storage.Child(parent, name)
	if err != nil {
		return fmt.Errorf("rename %s: %w", src.Name(), err)
	}
	if err := storage.Move(src, dst); err != nil {
		return fmt.Errorf("rename %s: %w", src.Name(), err)
	}

	m.removeEntry(src.Name())
	m.addEntry(dst)
	return nil
}

// MoveInto moves rows into the folder at dirRow. Rows that fail to move
// stay listed and the first error is returned.
func (m *Model) MoveInto(rows []int, dirRow int) error {
	if dirRow < 0 || dirRow >= len(m.entries) || !m.entries[dirRow].dir {
		return fmt.Errorf("move: %w", ErrNotListable)
	}
	dir := m.entries[dirRow]

	var moving []*entry
	for _, row := range rows {
		if row >= 0 && row < len(m.entries) && row != dirRow {
			moving = append(moving, m.entries[row])
		}
	}

	var firstErr error
	for _, e := range moving {
		dst, err := storage.Child(dir.uri, e.name)
		if err == nil {
			err = storage.Move(e.uri, dst)
		}
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("move %s: %w", e.name, err)
			}
			continue
		}
		m.removeEntry(e.name)
	}
	return firstErr
}
