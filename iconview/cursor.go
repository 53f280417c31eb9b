package iconview

import (
	"fyne.io/fyne/v2"
)

// MoveCursor moves the keyboard cursor count steps; negative counts move
// left, up or towards the start. Within an item the cursor first walks the
// focusable cells lying along the movement axis and only then crosses to the
// neighbouring item. Shift extends the selection from the anchor, Control
// moves the cursor alone and plain moves select the new cursor item and make
// it the anchor. It reports whether the cursor moved.
func (e *Engine) MoveCursor(step MovementStep, count int, mods fyne.KeyModifier) bool {
	if count == 0 || e.items.len() == 0 {
		return false
	}
	e.beginOp()
	defer e.endOp()

	e.StopEditing(false)
	// Line neighbours come from the geometry.
	e.Layout()
	cur := e.items.get(e.cursor)
	if cur == nil {
		first := e.items.at(0)
		e.applyCursorMove(first, e.firstFocusableCell(1), mods)
		return true
	}

	target, cell := cur, e.cursorCell
	switch step {
	case MoveHorizontal, MoveVertical:
		target, cell = e.stepCells(cur, cell, step, count)
	case MovePages:
		target = e.pageTarget(cur, count)
		cell = -1
	case MoveEnds:
		if count < 0 {
			target = e.items.at(0)
		} else {
			target = e.items.at(e.items.len() - 1)
		}
		cell = -1
	}

	if target == cur && cell == e.cursorCell {
		return false
	}
	e.applyCursorMove(target, cell, mods)
	return true
}

func (e *Engine) stepCells(cur *Item, cell int, step MovementStep, count int) (*Item, int) {
	dir := 1
	if count < 0 {
		dir, count = -1, -count
	}
	cellAxis := (step == MoveHorizontal) == (e.cfg.Orientation == OrientationHorizontal)

	target := cur
	for i := 0; i < count; i++ {
		if cellAxis {
			if next := e.nextFocusableCell(cell, dir); next >= 0 {
				cell = next
				continue
			}
		}
		next := e.adjacentItem(target, step, dir)
		if next == nil {
			break
		}
		target = next
		if cellAxis {
			cell = e.firstFocusableCell(dir)
		} else if d := e.cell(cell); d == nil || !d.focusable() {
			cell = -1
		}
	}
	return target, cell
}

// nextFocusableCell walks the cells in placement order from cell in
// direction dir. From -1 it enters at the first or last focusable cell.
func (e *Engine) nextFocusableCell(cell, dir int) int {
	order := e.visualCells()
	at := -1
	for i, c := range order {
		if c.position == cell {
			at = i
			break
		}
	}
	if at < 0 {
		if cell >= 0 {
			return -1
		}
		return e.firstFocusableCell(dir)
	}
	for i := at + dir; i >= 0 && i < len(order); i += dir {
		if order[i].focusable() {
			return order[i].position
		}
	}
	return -1
}

// firstFocusableCell is the focusable cell an item is entered at when
// moving in direction dir, or -1.
func (e *Engine) firstFocusableCell(dir int) int {
	order := e.visualCells()
	if dir > 0 {
		for _, c := range order {
			if c.focusable() {
				return c.position
			}
		}
		return -1
	}
	for i := len(order) - 1; i >= 0; i-- {
		if order[i].focusable() {
			return order[i].position
		}
	}
	return -1
}

// adjacentItem is the neighbour of it one step in direction dir. Along the
// wrap axis that is the next item in list order; across it, the item in the
// same slot of the neighbouring line, or the last item of a shorter line.
func (e *Engine) adjacentItem(it *Item, step MovementStep, dir int) *Item {
	alongLine := (step == MoveHorizontal) == (e.cfg.LayoutMode == LayoutRows)
	if alongLine {
		return e.items.at(it.index + dir)
	}
	return e.itemInLine(e.line(it)+dir, e.slot(it))
}

func (e *Engine) itemInLine(line, slot int) *Item {
	if line < 0 {
		return nil
	}
	var last *Item
	for _, it := range e.items.order {
		if it.needsLayout() {
			continue
		}
		l := e.line(it)
		if l < line {
			continue
		}
		if l > line {
			break
		}
		s := e.slot(it)
		if slot >= s && slot < s+max(it.Span, 1) {
			return it
		}
		last = it
	}
	return last
}

// pageTarget moves by as many lines as fit in the viewport, stopping at the
// first and last line.
func (e *Engine) pageTarget(cur *Item, count int) *Item {
	lines := e.Lines()
	if lines == 0 || cur.needsLayout() {
		return cur
	}
	extent, lineExtent := e.viewport.Height, cur.Box.Height+e.cfg.RowSpacing
	if e.cfg.LayoutMode == LayoutColumns {
		extent, lineExtent = e.viewport.Width, cur.Box.Width+e.cfg.ColumnSpacing
	}
	perPage := 1
	if lineExtent > 0 && extent > lineExtent {
		perPage = int(extent / lineExtent)
	}

	line := e.line(cur) + count*perPage
	if line < 0 {
		line = 0
	}
	if line >= lines {
		line = lines - 1
	}
	if it := e.itemInLine(line, e.slot(cur)); it != nil {
		return it
	}
	return cur
}

func (e *Engine) applyCursorMove(target *Item, cell int, mods fyne.KeyModifier) {
	multiple := e.cfg.SelectionMode == SelectionMultiple
	switch {
	case multiple && hasControl(mods):
	case multiple && hasShift(mods):
		anchor := e.items.get(e.anchor)
		if anchor == nil {
			anchor = e.items.get(e.cursor)
			if anchor == nil {
				anchor = target
			}
			e.anchor = anchor.id
		}
		e.unselectAllInternal()
		e.selectRange(anchor, target)
	default:
		e.selectOnly(target)
		e.anchor = target.id
	}
	e.setCursorItem(target, cell)
	e.scrollToItem(target)
}

// ActivateCursor activates the cursor's cell when it is activatable, or the
// cursor item otherwise.
func (e *Engine) ActivateCursor() bool {
	it := e.items.get(e.cursor)
	if it == nil {
		return false
	}
	e.beginOp()
	defer e.endOp()

	if d := e.cell(e.cursorCell); d != nil {
		switch d.Mode {
		case CellModeActivatable:
			if d.OnActivate != nil {
				d.OnActivate(it.index)
			}
			return true
		case CellModeEditable:
			e.startEditing(it, e.cursorCell)
			return true
		}
	}
	e.queue(Event{Kind: EventItemActivated, Index: it.index, Cell: e.cursorCell})
	return true
}

// SelectCursor selects the cursor item, or toggles it with Control in
// multiple selection mode.
func (e *Engine) SelectCursor(mods fyne.KeyModifier) bool {
	it := e.items.get(e.cursor)
	if it == nil {
		return false
	}
	e.beginOp()
	defer e.endOp()

	if hasControl(mods) && e.cfg.SelectionMode == SelectionMultiple {
		if it.Selected {
			e.unselectItem(it)
		} else {
			e.selectItem(it)
		}
	} else {
		e.selectItem(it)
	}
	e.anchor = it.id
	return true
}
