package iconview

// SelectionMode returns the active selection mode.
func (e *Engine) SelectionMode() SelectionMode {
	return e.cfg.SelectionMode
}

// SetSelectionMode switches modes. Leaving multiple selection keeps at most
// the cursor item selected; entering browse mode selects the cursor.
func (e *Engine) SetSelectionMode(mode SelectionMode) {
	e.beginOp()
	defer e.endOp()
	e.setSelectionMode(mode)
}

func (e *Engine) setSelectionMode(mode SelectionMode) {
	if e.cfg.SelectionMode == mode {
		return
	}
	old := e.cfg.SelectionMode
	e.clickTimer.cancel()
	if mode == SelectionNone || old == SelectionMultiple {
		e.unselectAllInternal()
	}
	e.cfg.SelectionMode = mode
	if mode == SelectionBrowse {
		if it := e.items.get(e.cursor); it != nil {
			e.selectItem(it)
		}
	}
}

// selectItem selects it, first dropping the rest of the selection unless
// multiple items may be selected.
func (e *Engine) selectItem(it *Item) {
	if it.Selected || e.cfg.SelectionMode == SelectionNone {
		return
	}
	if e.cfg.SelectionMode != SelectionMultiple {
		e.unselectAllInternal()
	}
	it.Selected = true
	e.selectionChanged()
}

func (e *Engine) unselectItem(it *Item) {
	if !it.Selected {
		return
	}
	if e.cfg.SelectionMode == SelectionNone || e.cfg.SelectionMode == SelectionBrowse {
		return
	}
	it.Selected = false
	e.selectionChanged()
}

func (e *Engine) unselectAllInternal() bool {
	if e.cfg.SelectionMode == SelectionNone {
		return false
	}
	changed := false
	for _, it := range e.items.order {
		if it.Selected {
			it.Selected = false
			changed = true
		}
	}
	if changed {
		e.selectionChanged()
	}
	return changed
}

// selectOnly leaves it as the single selected item.
func (e *Engine) selectOnly(it *Item) {
	if e.cfg.SelectionMode == SelectionNone {
		return
	}
	for _, other := range e.items.order {
		if other != it && other.Selected {
			other.Selected = false
			e.selectionChanged()
		}
	}
	if !it.Selected {
		it.Selected = true
		e.selectionChanged()
	}
}

// selectRange selects every item between a and b inclusive, in either order.
func (e *Engine) selectRange(a, b *Item) bool {
	if a == nil || b == nil || e.cfg.SelectionMode == SelectionNone {
		return false
	}
	start, end := a.index, b.index
	if start > end {
		start, end = end, start
	}
	changed := false
	for i := start; i <= end; i++ {
		it := e.items.order[i]
		if !it.Selected {
			it.Selected = true
			changed = true
		}
	}
	if changed {
		e.selectionChanged()
	}
	return changed
}

// Select selects the item at index.
func (e *Engine) Select(index int) {
	it := e.items.at(index)
	if it == nil {
		return
	}
	e.beginOp()
	defer e.endOp()
	e.selectItem(it)
}

// Unselect deselects the item at index. Browse mode never deselects.
func (e *Engine) Unselect(index int) {
	it := e.items.at(index)
	if it == nil {
		return
	}
	e.beginOp()
	defer e.endOp()
	e.unselectItem(it)
}

// ToggleSelected flips the selection of the item at index.
func (e *Engine) ToggleSelected(index int) {
	it := e.items.at(index)
	if it == nil {
		return
	}
	e.beginOp()
	defer e.endOp()
	if it.Selected {
		e.unselectItem(it)
	} else {
		e.selectItem(it)
	}
}

// UnselectAll clears the selection and reports whether anything changed.
// It does nothing in browse mode.
func (e *Engine) UnselectAll() bool {
	if e.cfg.SelectionMode == SelectionBrowse {
		return false
	}
	e.beginOp()
	defer e.endOp()
	return e.unselectAllInternal()
}

// SelectAll selects every item in multiple selection mode.
func (e *Engine) SelectAll() bool {
	if e.cfg.SelectionMode != SelectionMultiple || e.items.len() == 0 {
		return false
	}
	e.beginOp()
	defer e.endOp()
	return e.selectRange(e.items.at(0), e.items.at(e.items.len()-1))
}

// SelectRange adds the items from a to b inclusive to the selection.
func (e *Engine) SelectRange(a, b int) bool {
	start, end := e.items.at(a), e.items.at(b)
	if start == nil || end == nil {
		return false
	}
	e.beginOp()
	defer e.endOp()
	return e.selectRange(start, end)
}

// IsSelected reports whether the item at index is selected.
func (e *Engine) IsSelected(index int) bool {
	it := e.items.at(index)
	return it != nil && it.Selected
}

// SelectedIndices lists the selected items in order.
func (e *Engine) SelectedIndices() []int {
	var out []int
	for _, it := range e.items.order {
		if it.Selected {
			out = append(out, it.index)
		}
	}
	return out
}

// Cursor returns the keyboard focused item and cell, or -1.
func (e *Engine) Cursor() (index, cell int) {
	it := e.items.get(e.cursor)
	if it == nil {
		return -1, -1
	}
	return it.index, e.cursorCell
}

// SetCursor moves the cursor to an item and optionally starts editing the
// given cell. cell may be -1.
func (e *Engine) SetCursor(index, cell int, startEditing bool) {
	it := e.items.at(index)
	if it == nil {
		return
	}
	if d := e.cell(cell); cell >= 0 && (d == nil || d.Hidden) {
		return
	}
	e.beginOp()
	defer e.endOp()

	e.StopEditing(false)
	e.setCursorItem(it, cell)
	e.scrollToItem(it)
	if startEditing && cell >= 0 && e.cells[cell].Mode == CellModeEditable {
		e.startEditing(it, cell)
	}
}

// Anchor is the fixed end of range selections, or -1.
func (e *Engine) Anchor() int {
	return e.indexOf(e.anchor)
}

// Prelit is the item under the pointer, or -1.
func (e *Engine) Prelit() int {
	return e.indexOf(e.prelit)
}

// Edited is the item with an open inline editor, or -1.
func (e *Engine) Edited() (index, cell int) {
	if it := e.items.get(e.edited); it != nil {
		return it.index, e.editedCell
	}
	return -1, -1
}

func (e *Engine) indexOf(id ItemID) int {
	if it := e.items.get(id); it != nil {
		return it.index
	}
	return -1
}

func (e *Engine) setCursorItem(it *Item, cell int) {
	if e.cursor == it.id && e.cursorCell == cell {
		return
	}
	e.cursor = it.id
	e.cursorCell = cell
	e.cursorDirty = true
}

func (e *Engine) startEditing(it *Item, cell int) {
	if it.id == e.edited && cell == e.editedCell {
		return
	}
	e.StopEditing(false)
	e.edited = it.id
	e.editedCell = cell
	e.queue(Event{Kind: EventEditStarted, Index: it.index, Cell: cell})
}

// StopEditing closes the inline editor, committing unless cancel is set.
func (e *Engine) StopEditing(cancel bool) {
	it := e.items.get(e.edited)
	cell := e.editedCell
	e.edited = ItemID{}
	e.editedCell = -1
	if it == nil {
		return
	}
	e.queue(Event{Kind: EventEditDone, Index: it.index, Cell: cell, Canceled: cancel})
}
