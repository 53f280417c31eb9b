package iconview

import (
	"image/color"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
)

const scrollIndicatorWidth = 4

type itemObjects struct {
	bg    *canvas.Rectangle
	cells []fyne.CanvasObject
}

type viewRenderer struct {
	view *View

	pool      []*itemObjects
	shown     int
	poolCells []*CellDescriptor

	focus     *canvas.Rectangle
	band      *canvas.Rectangle
	indicator *canvas.Rectangle
	searchBg  *canvas.Rectangle
	search    *canvas.Text

	objects []fyne.CanvasObject
}

func newViewRenderer(v *View) *viewRenderer {
	r := &viewRenderer{
		view:      v,
		focus:     canvas.NewRectangle(color.Transparent),
		band:      canvas.NewRectangle(color.Transparent),
		indicator: canvas.NewRectangle(theme.Color(theme.ColorNameScrollBar)),
		searchBg:  canvas.NewRectangle(theme.Color(theme.ColorNameOverlayBackground)),
		search:    canvas.NewText("", theme.Color(theme.ColorNameForeground)),
	}
	r.focus.StrokeWidth = 1
	r.band.StrokeWidth = 2
	r.indicator.CornerRadius = scrollIndicatorWidth / 2
	r.searchBg.CornerRadius = theme.InputRadiusSize()
	r.searchBg.StrokeWidth = 1
	r.applyTheme()

	r.focus.Hide()
	r.band.Hide()
	r.indicator.Hide()
	r.searchBg.Hide()
	r.search.Hide()
	r.update()
	return r
}

func (r *viewRenderer) applyTheme() {
	r.focus.StrokeColor = theme.Color(theme.ColorNameFocus)

	r.band.StrokeColor = theme.Color(theme.ColorNamePrimary)
	cr, cg, cb, _ := theme.Color(theme.ColorNameFocus).RGBA()
	r.band.FillColor = color.RGBA{R: uint8(cr >> 8), G: uint8(cg >> 8), B: uint8(cb >> 8), A: 64}

	r.indicator.FillColor = theme.Color(theme.ColorNameScrollBar)
	r.searchBg.FillColor = theme.Color(theme.ColorNameOverlayBackground)
	r.searchBg.StrokeColor = theme.Color(theme.ColorNamePrimary)
	r.search.Color = theme.Color(theme.ColorNameForeground)
}

func (r *viewRenderer) Layout(size fyne.Size) {
	r.view.engine.SetViewport(size)
	r.view.engine.Layout()
	r.update()
}

func (r *viewRenderer) MinSize() fyne.Size {
	e := r.view.engine
	m := e.Config().Margin
	if it := e.Item(0); it != nil && !it.needsLayout() {
		return it.Box.Size().AddWidthHeight(2*m, 2*m)
	}
	return fyne.NewSquareSize(2*m + theme.IconInlineSize())
}

func (r *viewRenderer) Refresh() {
	r.view.engine.Layout()
	r.applyTheme()
	r.update()
	canvas.Refresh(r.view)
}

func (r *viewRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *viewRenderer) Destroy() {}

// update positions one set of objects per visible item, reusing a pool that
// is rebuilt only when the cell list changes.
func (r *viewRenderer) update() {
	e := r.view.engine
	cells := e.cells
	if !slices.Equal(cells, r.poolCells) {
		r.pool = nil
		r.poolCells = append([]*CellDescriptor(nil), cells...)
	}

	visible := e.VisibleItems()
	for len(r.pool) < len(visible) {
		r.pool = append(r.pool, r.newItemObjects(cells))
	}

	off := e.ScrollOffset()
	prelit := e.Prelit()
	for i, index := range visible {
		it := e.Item(index)
		objs := r.pool[i]

		box := it.Box
		objs.bg.Move(box.Position().Subtract(off))
		objs.bg.Resize(box.Size())
		switch {
		case it.Selected:
			objs.bg.FillColor = theme.Color(theme.ColorNameSelection)
			objs.bg.Show()
		case index == prelit:
			objs.bg.FillColor = theme.Color(theme.ColorNameHover)
			objs.bg.Show()
		default:
			objs.bg.Hide()
		}

		for pos, obj := range objs.cells {
			if obj == nil {
				continue
			}
			if pos >= len(it.Cells) || !it.Cells[pos].Visible || cells[pos].Hidden {
				obj.Hide()
				continue
			}
			cb := it.Cells[pos]
			if cr, ok := cells[pos].Cell.(CellRenderer); ok && e.src != nil {
				cr.UpdateObject(obj, e.src, index)
			}
			obj.Move(cb.Position().Subtract(off))
			obj.Resize(cb.Size())
			obj.Show()
		}
	}
	r.shown = len(visible)

	r.updateFocus(off)
	r.updateBand(off)
	r.updateIndicator()
	r.updateSearch()
	r.updateEditor(off)
	r.collect()
}

func (r *viewRenderer) newItemObjects(cells []*CellDescriptor) *itemObjects {
	objs := &itemObjects{
		bg:    canvas.NewRectangle(theme.Color(theme.ColorNameSelection)),
		cells: make([]fyne.CanvasObject, len(cells)),
	}
	objs.bg.CornerRadius = theme.SelectionRadiusSize()
	for pos, d := range cells {
		if cr, ok := d.Cell.(CellRenderer); ok {
			objs.cells[pos] = cr.CreateObject()
		}
	}
	return objs
}

func (r *viewRenderer) updateFocus(off fyne.Position) {
	e := r.view.engine
	index, cell := e.Cursor()
	if !r.view.focused || index < 0 {
		r.focus.Hide()
		return
	}
	box, ok := e.CellBounds(index, cell)
	if !ok {
		box, ok = e.ItemBounds(index)
	}
	if !ok {
		r.focus.Hide()
		return
	}
	r.focus.Move(box.Position().Subtract(off))
	r.focus.Resize(box.Size())
	r.focus.Show()
}

func (r *viewRenderer) updateBand(off fyne.Position) {
	band, ok := r.view.engine.RubberbandRect()
	if !ok {
		r.band.Hide()
		return
	}
	r.band.Move(band.Position().Subtract(off))
	r.band.Resize(band.Size())
	r.band.Show()
}

// updateIndicator draws a thin bar showing the scroll position along the
// axis the content grows in.
func (r *viewRenderer) updateIndicator() {
	e := r.view.engine
	view, content, off := e.Viewport(), e.ContentSize(), e.ScrollOffset()

	if e.Config().LayoutMode == LayoutColumns {
		if content.Width <= view.Width || view.Width <= 0 {
			r.indicator.Hide()
			return
		}
		length := max32(view.Width*view.Width/content.Width, theme.ScrollBarSize())
		x := off.X / (content.Width - view.Width) * (view.Width - length)
		r.indicator.Move(fyne.NewPos(x, view.Height-scrollIndicatorWidth))
		r.indicator.Resize(fyne.NewSize(length, scrollIndicatorWidth))
		r.indicator.Show()
		return
	}

	if content.Height <= view.Height || view.Height <= 0 {
		r.indicator.Hide()
		return
	}
	length := max32(view.Height*view.Height/content.Height, theme.ScrollBarSize())
	y := off.Y / (content.Height - view.Height) * (view.Height - length)
	r.indicator.Move(fyne.NewPos(view.Width-scrollIndicatorWidth, y))
	r.indicator.Resize(fyne.NewSize(scrollIndicatorWidth, length))
	r.indicator.Show()
}

func (r *viewRenderer) updateSearch() {
	e := r.view.engine
	if !e.SearchActive() {
		r.search.Hide()
		r.searchBg.Hide()
		return
	}
	pad := theme.Padding()
	r.search.Text = e.SearchText()
	r.search.TextSize = theme.TextSize()
	text := r.search.MinSize()
	size := fyne.NewSize(max32(text.Width, theme.IconInlineSize()*4)+2*pad, text.Height+2*pad)
	view := e.Viewport()
	pos := fyne.NewPos(view.Width-size.Width-2*pad, view.Height-size.Height-2*pad)

	r.searchBg.Move(pos)
	r.searchBg.Resize(size)
	r.search.Move(pos.AddXY(pad, pad))
	r.search.Resize(text)
	r.searchBg.Show()
	r.search.Show()
}

func (r *viewRenderer) updateEditor(off fyne.Position) {
	ed := r.view.editor
	if !ed.active {
		return
	}
	box, ok := r.view.engine.CellBounds(ed.index, ed.cell)
	if !ok {
		return
	}
	ms := ed.MinSize()
	w := max32(box.Width, ms.Width)
	pos := box.Position().Subtract(off).SubtractXY((w-box.Width)/2, (ms.Height-box.Height)/2)
	ed.Move(pos)
	ed.Resize(fyne.NewSize(w, ms.Height))
}

func (r *viewRenderer) collect() {
	r.objects = make([]fyne.CanvasObject, 0, len(r.objects))
	for _, objs := range r.pool[:r.shown] {
		r.objects = append(r.objects, objs.bg)
		for _, obj := range objs.cells {
			if obj != nil {
				r.objects = append(r.objects, obj)
			}
		}
	}
	r.objects = append(r.objects, r.focus, r.band, r.indicator, r.searchBg, r.search, r.view.editor)
}
