package iconview

import (
	"fyne.io/fyne/v2"
)

// itemAt finds the item under p in content coordinates. Gaps between items
// count towards the nearest item. With restrictToCell the point must also
// fall inside one of the item's visible cells. The returned cell is -1 when
// the point is on the item but outside every cell.
func (e *Engine) itemAt(p fyne.Position, restrictToCell bool) (*Item, int) {
	hx := e.cfg.ColumnSpacing / 2
	hy := e.cfg.RowSpacing / 2
	columns := e.cfg.LayoutMode == LayoutColumns

	for _, it := range e.items.order {
		if it.needsLayout() {
			continue
		}
		area := it.Box.Inset(hx, hy)
		// Items are stored line by line, so once a line starts past the
		// point no later item can match.
		if (columns && area.X > p.X) || (!columns && area.Y > p.Y) {
			break
		}
		if !area.Contains(p) {
			continue
		}

		for pos, cb := range it.Cells {
			if cb.Visible && cb.Contains(p) {
				return it, pos
			}
		}
		if restrictToCell {
			return nil, -1
		}
		return it, -1
	}
	return nil, -1
}

// ItemAtPos resolves a point in viewport coordinates to an item index and
// the cell under it (-1 for none).
func (e *Engine) ItemAtPos(pos fyne.Position) (index, cell int, ok bool) {
	it, cell := e.itemAt(e.toContent(pos), false)
	if it == nil {
		return -1, -1, false
	}
	return it.index, cell, true
}

// CellAtPos is ItemAtPos restricted to points inside a visible cell.
func (e *Engine) CellAtPos(pos fyne.Position) (index, cell int, ok bool) {
	it, cell := e.itemAt(e.toContent(pos), true)
	if it == nil {
		return -1, -1, false
	}
	return it.index, cell, true
}

// ItemsInRect lists, in order, the items intersecting r in content
// coordinates.
func (e *Engine) ItemsInRect(r Rect) []int {
	var out []int
	for _, it := range e.items.order {
		if !it.needsLayout() && it.Box.Intersects(r) {
			out = append(out, it.index)
		}
	}
	return out
}

// VisibleItems lists the items intersecting the viewport.
func (e *Engine) VisibleItems() []int {
	return e.ItemsInRect(Rect{X: e.offset.X, Y: e.offset.Y, Width: e.viewport.Width, Height: e.viewport.Height})
}
