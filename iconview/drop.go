package iconview

import (
	"fyne.io/fyne/v2"
)

// dropPositionIn splits box into outer quarter bands: left and right take
// precedence over above and below, and the middle is "into".
func dropPositionIn(box Rect, p fyne.Position) DropPosition {
	switch {
	case p.X < box.X+box.Width/4:
		return DropLeft
	case p.X > box.X+box.Width*3/4:
		return DropRight
	case p.Y < box.Y+box.Height/4:
		return DropAbove
	case p.Y > box.Y+box.Height*3/4:
		return DropBelow
	}
	return DropInto
}

// DropPosition classifies pos, in viewport coordinates, against the item at
// index.
func (e *Engine) DropPosition(index int, pos fyne.Position) (DropPosition, bool) {
	it := e.items.at(index)
	if it == nil || it.needsLayout() {
		return DropInto, false
	}
	return dropPositionIn(it.Box, e.toContent(pos)), true
}

// DestItemAtPos finds the item a drop at pos would land on.
func (e *Engine) DestItemAtPos(pos fyne.Position) (index int, dp DropPosition, ok bool) {
	p := e.toContent(pos)
	it, _ := e.itemAt(p, false)
	if it == nil {
		return -1, DropInto, false
	}
	return it.index, dropPositionIn(it.Box, p), true
}

// DropDestination turns a drop at pos into an insertion index. Drops to the
// right of or below an item insert after it; after the last item appendMode
// is set instead and index stays on that item.
func (e *Engine) DropDestination(pos fyne.Position) (index int, dp DropPosition, appendMode, ok bool) {
	index, dp, ok = e.DestItemAtPos(pos)
	if !ok {
		return -1, DropInto, false, false
	}
	index, appendMode = e.dropDestination(e.items.at(index), dp)
	return index, dp, appendMode, true
}

func (e *Engine) dropDestination(target *Item, dp DropPosition) (int, bool) {
	if dp != DropRight && dp != DropBelow {
		return target.index, false
	}
	if target.index == e.items.len()-1 {
		return target.index, true
	}
	return target.index + 1, false
}
