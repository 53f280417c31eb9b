package dirsource

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"golang.org/x/image/draw"
)

const (
	// DefaultThumbnailSize is the edge of the square thumbnails, twice a 64
	// unit icon for high density screens.
	DefaultThumbnailSize = 128

	maxPendingThumbnails = 100
)

var (
	MaxCacheSize  int64 = 500 * 1024 * 1024
	MaxCacheFiles       = 10000
)

var (
	// ErrThumbnailDropped is reported for requests discarded before a worker
	// got to them, because the queue overflowed or the Thumbnailer closed.
	// Asking again later may succeed.
	ErrThumbnailDropped = errors.New("thumbnail request dropped")
	// ErrNotImage is reported for files that cannot be thumbnailed.
	ErrNotImage = errors.New("not a supported image")
)

type thumbnailRequest struct {
	path string
	done func(image.Image, error)
}

// Thumbnailer scales images down to square thumbnails on a pool of
// background workers. The most recent request is served first and the oldest
// pending ones are dropped when the queue is full, so scrolling quickly
// through a large folder only pays for what is on screen.
type Thumbnailer struct {
	size     int
	cacheDir string

	memory sync.Map // path -> image.Image

	lock    sync.Mutex
	cond    *sync.Cond
	pending []thumbnailRequest
	closed  bool
}

// NewThumbnailer starts workers goroutines. When cacheDir is not empty
// generated thumbnails are also kept there as JPEG files.
func NewThumbnailer(size, workers int, cacheDir string) *Thumbnailer {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	if workers <= 0 {
		workers = 1
	}
	t := &Thumbnailer{size: size, cacheDir: cacheDir}
	t.cond = sync.NewCond(&t.lock)

	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			fyne.LogError("could not create thumbnail cache", err)
			t.cacheDir = ""
		} else {
			go t.pruneDiskCache()
		}
	}

	for range workers {
		go t.worker()
	}
	return t
}

// DefaultCacheDir is the per user thumbnail folder, or "" if the platform has
// no cache location.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "xiconview")
}

// Cached returns the thumbnail for path if it is already in memory.
func (t *Thumbnailer) Cached(path string) image.Image {
	if img, ok := t.memory.Load(path); ok {
		return img.(image.Image)
	}
	return nil
}

// Forget drops the memory copy of path, for example after the file changed.
func (t *Thumbnailer) Forget(path string) {
	t.memory.Delete(path)
}

// Request queues path for thumbnailing. done is called exactly once, usually
// on a worker goroutine, with the thumbnail or with the reason there is none.
// Unsupported files fail with ErrNotImage and requests that are never served
// with ErrThumbnailDropped.
func (t *Thumbnailer) Request(path string, done func(image.Image, error)) {
	if !isImageFile(path) {
		done(nil, fmt.Errorf("%w: %s", ErrNotImage, path))
		return
	}
	if img := t.Cached(path); img != nil {
		done(img, nil)
		return
	}

	t.lock.Lock()
	if t.closed {
		t.lock.Unlock()
		done(nil, ErrThumbnailDropped)
		return
	}
	var dropped func(image.Image, error)
	if len(t.pending) >= maxPendingThumbnails {
		dropped = t.pending[0].done
		t.pending = t.pending[1:]
	}
	t.pending = append(t.pending, thumbnailRequest{path: path, done: done})
	t.cond.Signal()
	t.lock.Unlock()

	if dropped != nil {
		dropped(nil, ErrThumbnailDropped)
	}
}

// Close stops the workers once they finish their current image. Pending
// requests are dropped.
func (t *Thumbnailer) Close() {
	t.lock.Lock()
	t.closed = true
	pending := t.pending
	t.pending = nil
	t.lock.Unlock()
	t.cond.Broadcast()

	for _, req := range pending {
		req.done(nil, ErrThumbnailDropped)
	}
}

func (t *Thumbnailer) next() (thumbnailRequest, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()
	for len(t.pending) == 0 && !t.closed {
		t.cond.Wait()
	}
	if t.closed {
		return thumbnailRequest{}, false
	}
	last := len(t.pending) - 1
	req := t.pending[last]
	t.pending = t.pending[:last]
	return req, true
}

func (t *Thumbnailer) worker() {
	for {
		req, ok := t.next()
		if !ok {
			return
		}
		req.done(t.thumbnail(req.path))
	}
}

func (t *Thumbnailer) thumbnail(path string) (image.Image, error) {
	if img := t.Cached(path); img != nil {
		return img, nil
	}

	key := ""
	if t.cacheDir != "" {
		if k, err := cacheKey(path); err == nil {
			key = k
			if img, err := decodeFile(filepath.Join(t.cacheDir, key+".jpg")); err == nil {
				t.memory.Store(path, img)
				return img, nil
			}
		}
	}

	src, err := decodeFile(path)
	if err != nil {
		fyne.LogError("could not decode "+path, err)
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	img := scaleToFit(src, t.size)
	if img == nil {
		return nil, fmt.Errorf("%s: empty image", path)
	}
	t.memory.Store(path, img)

	if key != "" {
		if err := writeJPEG(filepath.Join(t.cacheDir, key+".jpg"), img); err != nil {
			fyne.LogError("could not store thumbnail", err)
		}
	}
	return img, nil
}

// scaleToFit letterboxes img into a black square of the given edge,
// keeping its aspect ratio. It returns nil for empty images.
func scaleToFit(img image.Image, size int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)

	sw, sh := size, size
	if ratio := float64(w) / float64(h); ratio > 1 {
		sh = int(float64(size) / ratio)
	} else {
		sw = int(float64(size) * ratio)
	}
	x, y := (size-sw)/2, (size-sh)/2
	draw.ApproxBiLinear.Scale(dst, image.Rect(x, y, x+sw, y+sh), img, b, draw.Over, nil)
	return dst
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

func writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// cacheKey identifies a file version by its path, size, modification time
// and first 32KiB.
func cacheKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d", abs, info.ModTime().UTC().Format(time.RFC3339Nano), info.Size())
	if f, err := os.Open(abs); err == nil {
		buf := make([]byte, 32*1024)
		n, _ := f.Read(buf)
		h.Write(buf[:n])
		f.Close()
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// pruneDiskCache deletes the oldest cached thumbnails until the cache is
// back under 80% of both limits.
func (t *Thumbnailer) pruneDiskCache() {
	entries, err := os.ReadDir(t.cacheDir)
	if err != nil {
		return
	}

	type cached struct {
		name string
		size int64
		mod  time.Time
	}
	var files []cached
	var total int64
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jpg" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, cached{name: e.Name(), size: info.Size(), mod: info.ModTime()})
		total += info.Size()
	}
	if total <= MaxCacheSize && len(files) <= MaxCacheFiles {
		return
	}

	slices.SortFunc(files, func(a, b cached) int {
		return a.mod.Compare(b.mod)
	})
	sizeGoal, countGoal := MaxCacheSize*8/10, MaxCacheFiles*8/10
	for len(files) > 0 && (total > sizeGoal || len(files) > countGoal) {
		_ = os.Remove(filepath.Join(t.cacheDir, files[0].name))
		total -= files[0].size
		files = files[1:]
	}
}

func isImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}
