package dirsource

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/test"
	"github.com/fsnotify/fsnotify"

	"github.com/alexballas/xiconview/iconview"
)

type recorder struct {
	events []string
}

func (r *recorder) RowInserted(row int) {
	r.events = append(r.events, fmt.Sprintf("insert %d", row))
}

func (r *recorder) RowDeleted(row int) {
	r.events = append(r.events, fmt.Sprintf("delete %d", row))
}

func (r *recorder) RowChanged(row int) {
	r.events = append(r.events, fmt.Sprintf("change %d", row))
}

func (r *recorder) RowsReordered(newOrder []int) {
	r.events = append(r.events, fmt.Sprintf("reorder %v", newOrder))
}

func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		path := filepath.Join(dir, name)
		if name[len(name)-1] == '/' {
			if err := os.Mkdir(path, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func names(m *Model) []string {
	var out []string
	for row := range m.Len() {
		out = append(out, m.Attr(row, AttrName).(string))
	}
	return out
}

func loadModel(t *testing.T, dir string) (*Model, *recorder) {
	t.Helper()
	m := NewModel(nil)
	m.do = func(f func()) { f() }
	if err := m.Load(storage.NewFileURI(dir)); err != nil {
		t.Fatalf("Failed to load %s: %v", dir, err)
	}
	rec := &recorder{}
	m.AddRowListener(rec)
	return m, rec
}

func TestModel_LoadSortsFoldersFirst(t *testing.T) {
	test.NewApp()
	dir := makeTree(t, "b.txt", "A.txt", "zoo/", "Docs/", ".hidden")
	m, _ := loadModel(t, dir)

	want := []string{"Docs", "zoo", "A.txt", "b.txt"}
	if got := names(m); !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if m.Attr(0, AttrIsDir) != true || m.Attr(2, AttrIsDir) != false {
		t.Error("Expected folders to be flagged")
	}
	if m.Attr(9, AttrName) != nil || m.URI(-1) != nil {
		t.Error("Expected nothing for rows out of range")
	}

	if err := m.SetShowHidden(true); err != nil {
		t.Fatal(err)
	}
	if got := names(m); !slices.Contains(got, ".hidden") {
		t.Errorf("Expected hidden files after SetShowHidden, got %v", got)
	}
}

func TestModel_LoadNotListable(t *testing.T) {
	test.NewApp()
	dir := makeTree(t, "file.txt")
	m := NewModel(nil)
	err := m.Load(storage.NewFileURI(filepath.Join(dir, "file.txt")))
	if !errors.Is(err, ErrNotListable) {
		t.Errorf("Expected ErrNotListable, got %v", err)
	}
	if m.Len() != 0 {
		t.Error("Expected a failed load to leave the model empty")
	}
}

func TestModel_ReloadIntoView(t *testing.T) {
	test.NewApp()
	first := makeTree(t, "a.txt", "b.txt", ".hidden")
	m := NewModel(nil)
	e := iconview.New(iconview.DefaultConfig())
	e.SetScheduler(nil)
	e.SetModel(m)

	if err := m.Load(storage.NewFileURI(first)); err != nil {
		t.Fatal(err)
	}
	e.SetModel(m)
	if n := e.ItemCount(); n != 2 {
		t.Errorf("Expected 2 items after loading, got %d", n)
	}

	if err := m.SetShowHidden(true); err != nil {
		t.Fatal(err)
	}
	e.SetModel(m)
	if n := e.ItemCount(); n != 3 {
		t.Errorf("Expected 3 items with hidden files shown, got %d", n)
	}

	second := makeTree(t, "c.txt")
	if err := m.Load(storage.NewFileURI(second)); err != nil {
		t.Fatal(err)
	}
	e.SetModel(m)
	if n := e.ItemCount(); n != 1 {
		t.Errorf("Expected 1 item after opening another folder, got %d", n)
	}
}

func TestModel_HandleEvents(t *testing.T) {
	test.NewApp()
	dir := makeTree(t, "a.txt", "c.txt", "sub/")
	m, rec := loadModel(t, dir)

	create := func(name string) {
		_ = os.WriteFile(filepath.Join(dir, name), nil, 0o644)
		m.handle(fsnotify.Event{Name: filepath.Join(dir, name), Op: fsnotify.Create})
	}

	create("b.txt")
	create(".swap")
	m.handle(fsnotify.Event{Name: filepath.Join(dir, "c.txt"), Op: fsnotify.Write})
	m.handle(fsnotify.Event{Name: filepath.Join(dir, "a.txt"), Op: fsnotify.Remove})
	m.handle(fsnotify.Event{Name: filepath.Join(dir, "missing"), Op: fsnotify.Remove})
	m.handle(fsnotify.Event{Name: filepath.Join(dir, "sub", "deep.txt"), Op: fsnotify.Create})

	want := []string{"insert 2", "change 3", "delete 1"}
	if !slices.Equal(rec.events, want) {
		t.Errorf("Expected %v, got %v", want, rec.events)
	}
	if got := names(m); !slices.Equal(got, []string{"sub", "b.txt", "c.txt"}) {
		t.Errorf("Unexpected listing %v", got)
	}
}

func TestModel_Rename(t *testing.T) {
	test.NewApp()
	dir := makeTree(t, "a.txt", "b.txt", "c.txt")
	m, rec := loadModel(t, dir)

	if err := m.Rename(0, "d.txt"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if got := names(m); !slices.Equal(got, []string{"b.txt", "c.txt", "d.txt"}) {
		t.Errorf("Expected the renamed file to move to the end, got %v", got)
	}
	if !slices.Equal(rec.events, []string{"delete 0", "insert 2"}) {
		t.Errorf("Unexpected notifications %v", rec.events)
	}
	if _, err := os.Stat(filepath.Join(dir, "d.txt")); err != nil {
		t.Errorf("Expected d.txt on disk: %v", err)
	}

	// Empty and unchanged names are ignored.
	rec.events = nil
	if err := m.Rename(0, "  "); err != nil || len(rec.events) != 0 {
		t.Errorf("Expected a blank name to do nothing, got %v / %v", err, rec.events)
	}
}

func TestModel_MoveInto(t *testing.T) {
	test.NewApp()
	dir := makeTree(t, "target/", "a.txt", "b.txt", "c.txt")
	m, _ := loadModel(t, dir)

	if err := m.MoveInto([]int{1, 3, 0}, 0); err != nil {
		t.Fatalf("MoveInto failed: %v", err)
	}
	if got := names(m); !slices.Equal(got, []string{"target", "b.txt"}) {
		t.Errorf("Unexpected listing %v", got)
	}
	for _, name := range []string{"a.txt", "c.txt"} {
		if _, err := os.Stat(filepath.Join(dir, "target", name)); err != nil {
			t.Errorf("Expected %s inside target: %v", name, err)
		}
	}

	if err := m.MoveInto([]int{0}, 1); !errors.Is(err, ErrNotListable) {
		t.Errorf("Expected moving into a file to fail, got %v", err)
	}
}

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestModel_PreviewLoadsThumbnail(t *testing.T) {
	test.NewApp()
	dir := makeTree(t, "notes.txt")
	writePNG(t, filepath.Join(dir, "photo.png"), 40, 20, color.White)

	thumbs := NewThumbnailer(32, 1, "")
	defer thumbs.Close()
	m := NewModel(thumbs)
	calls := make(chan func(), 4)
	m.do = func(f func()) { calls <- f }
	if err := m.Load(storage.NewFileURI(dir)); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	m.AddRowListener(rec)

	if _, ok := m.Attr(0, AttrPreview).(fyne.Resource); !ok {
		t.Error("Expected text files to preview as their icon")
	}
	if _, ok := m.Attr(1, AttrPreview).(fyne.Resource); !ok {
		t.Error("Expected the icon while the thumbnail is pending")
	}

	select {
	case f := <-calls:
		f()
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for thumbnail")
	}

	if !slices.Equal(rec.events, []string{"change 1"}) {
		t.Errorf("Expected the row to be reported changed, got %v", rec.events)
	}
	img, ok := m.Attr(1, AttrPreview).(image.Image)
	if !ok {
		t.Fatal("Expected the thumbnail once it is ready")
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("Expected a 32x32 thumbnail, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestModel_DroppedThumbnailRequestedAgain(t *testing.T) {
	test.NewApp()
	var files []string
	for i := range maxPendingThumbnails + 1 {
		files = append(files, fmt.Sprintf("%03d.png", i))
	}
	dir := makeTree(t, files...)
	m, _ := loadModel(t, dir)
	thumbs := idleThumbnailer()
	m.thumbs = thumbs

	for row := range m.Len() {
		m.Attr(row, AttrPreview)
	}
	if got := m.entries[0].thumbState; got != thumbNone {
		t.Errorf("Expected the dropped row to be reset, got state %d", got)
	}
	if got := m.entries[1].thumbState; got != thumbPending {
		t.Errorf("Expected queued rows to stay pending, got state %d", got)
	}

	m.Attr(0, AttrPreview)
	last := thumbs.pending[len(thumbs.pending)-1].path
	if want := m.URI(0).Path(); last != want {
		t.Errorf("Expected %s to be requested again, got %s", want, last)
	}
	if got := m.entries[1].thumbState; got != thumbNone {
		t.Errorf("Expected the next oldest row to be dropped in turn, got state %d", got)
	}

	thumbs.Close()
	for i, e := range m.entries {
		if e.thumbState != thumbNone {
			t.Errorf("Row %d: expected closing to reset pending thumbnails, got state %d", i, e.thumbState)
		}
	}
}

func TestModel_Watch(t *testing.T) {
	test.NewApp()
	dir := makeTree(t, "a.txt")
	m := NewModel(nil)
	calls := make(chan func(), 16)
	m.do = func(f func()) { calls <- f }
	if err := m.Load(storage.NewFileURI(dir)); err != nil {
		t.Fatal(err)
	}
	if err := m.Watch(); err != nil {
		t.Skipf("file watching unavailable: %v", err)
	}
	defer m.Close()

	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for m.Len() != 2 {
		select {
		case f := <-calls:
			f()
		case <-deadline:
			t.Fatalf("Timeout waiting for the new file, listing %v", names(m))
		}
	}

	m.Close()
	if m.Watching() {
		t.Error("Expected Close to stop the watch")
	}
}
