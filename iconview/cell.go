package iconview

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
)

// RowSource is the ordered collection of records the view displays.
type RowSource interface {
	Len() int
	// Attr returns the named attribute of a row, or nil when it has none.
	Attr(row int, name string) any
}

// RowListener receives change notifications from a row source.
type RowListener interface {
	RowInserted(row int)
	RowDeleted(row int)
	RowChanged(row int)
	// RowsReordered reports a permutation where newOrder[newIndex] is the
	// row's previous index.
	RowsReordered(newOrder []int)
}

// ObservableRowSource is a RowSource that pushes change notifications.
type ObservableRowSource interface {
	RowSource
	AddRowListener(l RowListener)
	RemoveRowListener(l RowListener)
}

// Cell measures one renderable region of an item.
type Cell interface {
	Measure(src RowSource, row int) fyne.Size
}

// TextCell displays a string attribute on one line.
type TextCell struct {
	Attr      string
	TextSize  float32
	Style     fyne.TextStyle
	Alignment fyne.TextAlign
	// MaxWidth caps the cell width; longer text is shortened with "..".
	// 0 disables the cap.
	MaxWidth float32
}

func (c *TextCell) Measure(src RowSource, row int) fyne.Size {
	text := attrText(src.Attr(row, c.Attr))
	size := c.textSize()
	if text == "" {
		// Empty labels still reserve a line so rows stay aligned.
		line := fyne.MeasureText("M", size, c.Style)
		return fyne.NewSize(0, line.Height)
	}

	s := fyne.MeasureText(text, size, c.Style)
	if c.MaxWidth > 0 && s.Width > c.MaxWidth {
		s.Width = c.MaxWidth
	}
	return s
}

func (c *TextCell) CreateObject() fyne.CanvasObject {
	t := canvas.NewText("", theme.Color(theme.ColorNameForeground))
	t.TextSize = c.textSize()
	t.TextStyle = c.Style
	t.Alignment = c.Alignment
	return t
}

func (c *TextCell) UpdateObject(obj fyne.CanvasObject, src RowSource, row int) {
	t, ok := obj.(*canvas.Text)
	if !ok {
		return
	}
	text := attrText(src.Attr(row, c.Attr))
	if c.MaxWidth > 0 {
		text = shortenText(text, c.MaxWidth, c.textSize(), c.Style)
	}
	t.Text = text
	t.Color = theme.Color(theme.ColorNameForeground)
	t.Refresh()
}

// shortenText cuts the middle of text so it fits limit, keeping any file
// extension visible.
func shortenText(text string, limit, size float32, style fyne.TextStyle) string {
	measure := func(s string) float32 {
		return fyne.MeasureText(s, size, style).Width
	}
	if measure(text) <= limit {
		return text
	}

	const dots = ".."
	ext := filepath.Ext(text)
	if len(ext) == len(text) {
		ext = ""
	}
	head := limit - measure(dots) - measure(ext)
	if head <= 0 {
		return dots + ext
	}

	base := []rune(strings.TrimSuffix(text, ext))
	low, high, best := 0, len(base), 0
	for low <= high {
		mid := (low + high) / 2
		if measure(string(base[:mid])) <= head {
			best = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return string(base[:best]) + dots + ext
}

func (c *TextCell) textSize() float32 {
	if c.TextSize > 0 {
		return c.TextSize
	}
	return theme.TextSize()
}

// ImageCell displays an image.Image or fyne.Resource attribute.
type ImageCell struct {
	Attr string
	// Size fixes the cell size; when zero the image's own bounds are used.
	Size fyne.Size
}

func (c *ImageCell) Measure(src RowSource, row int) fyne.Size {
	if !c.Size.IsZero() {
		return c.Size
	}
	switch img := src.Attr(row, c.Attr).(type) {
	case image.Image:
		b := img.Bounds()
		return fyne.NewSize(float32(b.Dx()), float32(b.Dy()))
	case fyne.Resource:
		return fyne.NewSquareSize(theme.IconInlineSize() * 2)
	}
	return fyne.Size{}
}

func (c *ImageCell) CreateObject() fyne.CanvasObject {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	return img
}

func (c *ImageCell) UpdateObject(obj fyne.CanvasObject, src RowSource, row int) {
	img, ok := obj.(*canvas.Image)
	if !ok {
		return
	}
	img.Image, img.Resource = nil, nil
	switch v := src.Attr(row, c.Attr).(type) {
	case image.Image:
		img.Image = v
	case fyne.Resource:
		img.Resource = v
	}
	img.Refresh()
}

// CustomCell leaves measuring, and optionally drawing, to the caller.
type CustomCell struct {
	MeasureFunc func(src RowSource, row int) fyne.Size
	CreateFunc  func() fyne.CanvasObject
	UpdateFunc  func(obj fyne.CanvasObject, src RowSource, row int)
}

func (c *CustomCell) Measure(src RowSource, row int) fyne.Size {
	if c.MeasureFunc == nil {
		return fyne.Size{}
	}
	return c.MeasureFunc(src, row)
}

func (c *CustomCell) CreateObject() fyne.CanvasObject {
	if c.CreateFunc == nil {
		return nil
	}
	return c.CreateFunc()
}

func (c *CustomCell) UpdateObject(obj fyne.CanvasObject, src RowSource, row int) {
	if c.UpdateFunc != nil && obj != nil {
		c.UpdateFunc(obj, src, row)
	}
}

// CellRenderer is implemented by cells that can draw themselves. The view
// creates one object per visible item and cell and updates it whenever the
// item it shows changes. CreateObject may return nil to draw nothing.
type CellRenderer interface {
	CreateObject() fyne.CanvasObject
	UpdateObject(obj fyne.CanvasObject, src RowSource, row int)
}

var (
	_ CellRenderer = (*TextCell)(nil)
	_ CellRenderer = (*ImageCell)(nil)
	_ CellRenderer = (*CustomCell)(nil)
)

// CellMode decides what a press on a cell does.
type CellMode int

const (
	CellModeInert CellMode = iota
	CellModeActivatable
	CellModeEditable
)

// PackType places a cell at the start or end of an item.
type PackType int

const (
	PackStart PackType = iota
	PackEnd
)

// CellDescriptor binds a Cell into the view.
type CellDescriptor struct {
	Cell   Cell
	Pack   PackType
	Expand bool
	Mode   CellMode
	Hidden bool
	// OnActivate runs when an activatable cell is clicked or activated
	// from the keyboard.
	OnActivate func(index int)

	position int
}

// Position is the descriptor's index in the view's cell list.
func (d *CellDescriptor) Position() int {
	return d.position
}

func (d *CellDescriptor) focusable() bool {
	return !d.Hidden && d.Mode != CellModeInert
}

func attrText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}
