package iconview

import (
	"fyne.io/fyne/v2"
)

// ScrollOffset is the content position shown at the viewport origin.
func (e *Engine) ScrollOffset() fyne.Position {
	return e.offset
}

// ScrollTo moves the viewport, clamped to the content.
func (e *Engine) ScrollTo(offset fyne.Position) {
	e.beginOp()
	defer e.endOp()
	e.scrollTo(offset)
}

// ScrollBy moves the viewport by a delta, clamped to the content.
func (e *Engine) ScrollBy(dx, dy float32) {
	e.ScrollTo(e.offset.AddXY(dx, dy))
}

// ScrollToItem brings the item at index fully into view when possible.
func (e *Engine) ScrollToItem(index int) {
	it := e.items.at(index)
	if it == nil {
		return
	}
	e.beginOp()
	defer e.endOp()
	e.scrollToItem(it)
}

func (e *Engine) scrollToItem(it *Item) {
	if it.needsLayout() {
		return
	}
	off := e.offset
	b := it.Box
	if b.X < off.X {
		off.X = b.X
	} else if b.X+b.Width > off.X+e.viewport.Width {
		off.X = b.X + b.Width - e.viewport.Width
	}
	if b.Y < off.Y {
		off.Y = b.Y
	} else if b.Y+b.Height > off.Y+e.viewport.Height {
		off.Y = b.Y + b.Height - e.viewport.Height
	}
	e.scrollTo(off)
}

func (e *Engine) scrollTo(offset fyne.Position) {
	offset = e.clampOffset(offset)
	if offset == e.offset {
		return
	}
	e.offset = offset
	e.queue(Event{Kind: EventScrolled, Index: -1, Cell: -1})
}

func (e *Engine) maxOffset() fyne.Position {
	return fyne.NewPos(
		max32(e.content.Width-e.viewport.Width, 0),
		max32(e.content.Height-e.viewport.Height, 0),
	)
}

func (e *Engine) clampOffset(p fyne.Position) fyne.Position {
	m := e.maxOffset()
	p.X = max32(min32(p.X, m.X), 0)
	p.Y = max32(min32(p.Y, m.Y), 0)
	return p
}

func (e *Engine) clampScroll() {
	e.scrollTo(e.offset)
}

func (e *Engine) toContent(pos fyne.Position) fyne.Position {
	return pos.Add(e.offset)
}
