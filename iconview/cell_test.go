package iconview

import (
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
)

func TestShortenText(t *testing.T) {
	test.NewApp()
	size := float32(14)
	style := fyne.TextStyle{}
	measure := func(s string) float32 {
		return fyne.MeasureText(s, size, style).Width
	}

	if got := shortenText("short.txt", 1000, size, style); got != "short.txt" {
		t.Errorf("Expected short text to be untouched, got %q", got)
	}

	long := "a_really_long_file_name_for_testing.txt"
	limit := measure("a_really..txt")
	got := shortenText(long, limit, size, style)
	if !strings.HasSuffix(got, "..txt") {
		t.Errorf("Expected the extension to be kept, got %q", got)
	}
	if !strings.HasPrefix(got, "a_") {
		t.Errorf("Expected the start of the name to be kept, got %q", got)
	}
	if measure(got) > limit {
		t.Errorf("Expected %q to fit in %v, got %v", got, limit, measure(got))
	}

	// Dotfiles have no extension to keep.
	if got := shortenText(".a_really_long_hidden_name", measure(".a_re.."), size, style); !strings.HasSuffix(got, "..") {
		t.Errorf("Expected a hidden name to be shortened, got %q", got)
	}
}

func TestTextCell_Measure(t *testing.T) {
	test.NewApp()
	src := newTestSource(2, fyne.Size{})
	src.labels[1] = ""
	c := &TextCell{Attr: "label"}

	full := c.Measure(src, 0)
	if full.Width <= 0 || full.Height <= 0 {
		t.Errorf("Expected a positive size, got %v", full)
	}
	empty := c.Measure(src, 1)
	if empty.Width != 0 || empty.Height != full.Height {
		t.Errorf("Expected an empty label to keep one line of height, got %v", empty)
	}

	c.MaxWidth = full.Width / 2
	if capped := c.Measure(src, 0); capped.Width != full.Width/2 {
		t.Errorf("Expected the width to be capped at %v, got %v", full.Width/2, capped.Width)
	}

	obj := c.CreateObject()
	c.UpdateObject(obj, src, 0)
	if text := obj.(*canvas.Text).Text; !strings.HasSuffix(text, "..") {
		t.Errorf("Expected the label to be shortened, got %q", text)
	}
}
