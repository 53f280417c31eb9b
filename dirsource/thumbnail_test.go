package dirsource

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestScaleToFit_Letterbox(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 320, 180))
	for y := range 180 {
		for x := range 320 {
			src.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	dst := scaleToFit(src, 128)
	if b := dst.Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Fatalf("Expected 128x128, got %dx%d", b.Dx(), b.Dy())
	}

	// 16:9 fits as 128x72, leaving 28 rows of black above.
	r, g, b, _ := dst.At(64, 5).RGBA()
	if r > 1000 || g > 1000 || b > 1000 {
		t.Errorf("Expected black top bar, got R:%d G:%d B:%d", r, g, b)
	}
	r, g, b, _ = dst.At(64, 64).RGBA()
	if r < 50000 || g > 10000 || b > 10000 {
		t.Errorf("Expected red center, got R:%d G:%d B:%d", r, g, b)
	}

	if scaleToFit(image.NewRGBA(image.Rect(0, 0, 0, 10)), 128) != nil {
		t.Error("Expected nil for an empty image")
	}
}

func TestCacheKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.png")
	_ = os.WriteFile(path, make([]byte, 100*1024), 0o644)

	key1, err := cacheKey(path)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	key2, _ := cacheKey(path)
	if key1 != key2 {
		t.Errorf("Keys should be identical for same file: %s != %s", key1, key2)
	}

	later := time.Now().Add(time.Hour)
	_ = os.Chtimes(path, later, later)
	if key3, _ := cacheKey(path); key3 == key1 {
		t.Error("Key should change when modification time changes")
	}

	if _, err := cacheKey(path + ".missing"); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestThumbnailer_DiskCache(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "photo.png")
	writePNG(t, photo, 10, 10, color.White)
	cache := filepath.Join(dir, "cache")

	th := NewThumbnailer(16, 1, cache)
	done := make(chan image.Image, 1)
	th.Request(photo, func(img image.Image, _ error) { done <- img })
	select {
	case img := <-done:
		if img == nil {
			t.Fatal("Thumbnail generation failed")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for thumbnail")
	}
	th.Close()

	key, _ := cacheKey(photo)
	if _, err := os.Stat(filepath.Join(cache, key+".jpg")); err != nil {
		t.Errorf("Expected the thumbnail on disk: %v", err)
	}

	// A new thumbnailer finds it without decoding the source again.
	fresh := &Thumbnailer{size: 16, cacheDir: cache}
	if img, err := fresh.thumbnail(photo); err != nil || img.Bounds().Dx() != 16 {
		t.Error("Expected the cached thumbnail to be reused")
	}
	if fresh.Cached(photo) == nil {
		t.Error("Expected the disk hit to be kept in memory")
	}
}

func TestThumbnailer_RejectsOtherFiles(t *testing.T) {
	th := NewThumbnailer(16, 1, "")
	defer th.Close()
	var got error
	th.Request("/tmp/readme.txt", func(_ image.Image, err error) { got = err })
	if !errors.Is(got, ErrNotImage) {
		t.Errorf("Expected ErrNotImage, got %v", got)
	}
	if len(th.pending) != 0 {
		t.Error("Expected non-image files not to be queued")
	}
}

// idleThumbnailer has no workers, so requests stay queued.
func idleThumbnailer() *Thumbnailer {
	th := &Thumbnailer{size: 16}
	th.cond = sync.NewCond(&th.lock)
	return th
}

func TestThumbnailer_DropsOldestRequest(t *testing.T) {
	th := idleThumbnailer()
	results := map[string]error{}
	var mu sync.Mutex
	request := func(path string) {
		th.Request(path, func(_ image.Image, err error) {
			mu.Lock()
			results[path] = err
			mu.Unlock()
		})
	}

	for i := range maxPendingThumbnails + 1 {
		request(fmt.Sprintf("/photos/%03d.png", i))
	}
	if len(th.pending) != maxPendingThumbnails {
		t.Errorf("Expected %d queued requests, got %d", maxPendingThumbnails, len(th.pending))
	}
	if err, ok := results["/photos/000.png"]; !ok || !errors.Is(err, ErrThumbnailDropped) {
		t.Errorf("Expected the oldest request to be dropped, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected one answered request, got %d", len(results))
	}

	th.Close()
	if len(results) != maxPendingThumbnails+1 {
		t.Errorf("Expected Close to answer every queued request, got %d", len(results))
	}
	for path, err := range results {
		if !errors.Is(err, ErrThumbnailDropped) {
			t.Errorf("%s: expected ErrThumbnailDropped, got %v", path, err)
		}
	}

	request("/photos/late.png")
	if err := results["/photos/late.png"]; !errors.Is(err, ErrThumbnailDropped) {
		t.Errorf("Expected requests after Close to be dropped, got %v", err)
	}
}
