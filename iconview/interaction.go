package iconview

import (
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// PointerPress handles a button press at pos in viewport coordinates.
// clicks is 2 for the second press of a double click.
func (e *Engine) PointerPress(pos fyne.Position, button desktop.MouseButton, mods fyne.KeyModifier, clicks int) {
	e.beginOp()
	defer e.endOp()

	e.clickTimer.cancel()
	p := e.toContent(pos)
	e.lastPointer = pos
	it, cell := e.itemAt(p, false)

	if it == nil || it.id != e.edited || cell != e.editedCell {
		e.StopEditing(false)
	}

	if button == desktop.MouseButtonSecondary {
		// Context menus act on the item under the pointer, so make sure it
		// is part of the selection without disturbing a larger one.
		if it != nil && !it.Selected {
			e.selectOnly(it)
			e.anchor = it.id
			e.setCursorItem(it, -1)
		}
		return
	}
	if button != desktop.MouseButtonPrimary {
		return
	}

	if it == nil {
		e.pressed = true
		e.pressItem = ItemID{}
		e.pressPos = p
		e.lastClicked = ItemID{}
		if e.cfg.SelectionMode != SelectionBrowse && !hasShift(mods) && !hasControl(mods) {
			e.unselectAllInternal()
		}
		if e.cfg.SelectionMode == SelectionMultiple {
			e.startRubberband(p, mods)
		}
		return
	}

	if clicks >= 2 && !hasShift(mods) && !hasControl(mods) {
		e.pressed = false
		e.lastClicked = ItemID{}
		e.queue(Event{Kind: EventItemActivated, Index: it.index, Cell: cell})
		return
	}

	e.pressed = true
	e.pressItem = it.id
	e.pressPos = p

	if d := e.cell(cell); d != nil {
		switch d.Mode {
		case CellModeActivatable:
			e.setCursorItem(it, cell)
			if d.OnActivate != nil {
				d.OnActivate(it.index)
			}
			return
		case CellModeEditable:
			e.setCursorItem(it, cell)
			e.startEditing(it, cell)
			return
		}
	}

	switch {
	case e.cfg.SelectionMode == SelectionMultiple && hasControl(mods):
		if it.Selected {
			e.unselectItem(it)
		} else {
			e.selectItem(it)
		}
		e.anchor = it.id
	case e.cfg.SelectionMode == SelectionMultiple && hasShift(mods):
		anchor := e.items.get(e.anchor)
		if anchor == nil {
			anchor = it
			e.anchor = it.id
		}
		e.unselectAllInternal()
		e.selectRange(anchor, it)
	case e.cfg.SelectionMode == SelectionSingle && hasControl(mods) && it.Selected:
		e.unselectItem(it)
	default:
		// A press on an already selected item keeps the rest of the
		// selection so it can be dragged; the release collapses it.
		if !it.Selected {
			e.unselectAllInternal()
			e.selectItem(it)
		}
		e.anchor = it.id
		if !hasShift(mods) && !hasControl(mods) {
			e.lastClicked = it.id
		}
	}
	e.setCursorItem(it, -1)
}

// PointerRelease ends a press. Releasing without modifiers on the item that
// was just clicked leaves it as the only selected item.
func (e *Engine) PointerRelease(pos fyne.Position, button desktop.MouseButton, mods fyne.KeyModifier) {
	if button != desktop.MouseButtonPrimary || !e.pressed {
		return
	}
	e.beginOp()
	defer e.endOp()

	p := e.toContent(pos)
	e.pressed = false
	e.scrollTimer.cancel()

	if e.dragging {
		e.dragging = false
		if target := e.items.get(e.dropTarget); target != nil {
			dest, appendMode := e.dropDestination(target, e.dropPos)
			e.queue(Event{Kind: EventDrop, Index: dest, Cell: -1, Drop: e.dropPos, Append: appendMode})
		}
		e.dropTarget = ItemID{}
	} else if !e.rubber.active && !hasShift(mods) && !hasControl(mods) {
		if it, _ := e.itemAt(p, false); it != nil && it.id == e.lastClicked {
			e.selectOnly(it)
		}
	}

	e.lastClicked = ItemID{}
	e.pressItem = ItemID{}
	e.stopRubberband()
}

// PointerMotion tracks the pointer in viewport coordinates: it grows the
// band while rubber-banding, detects drags, and otherwise updates the prelit
// item.
func (e *Engine) PointerMotion(pos fyne.Position, mods fyne.KeyModifier) {
	e.beginOp()
	defer e.endOp()

	e.lastPointer = pos
	p := e.toContent(pos)

	if e.rubber.active {
		e.updateRubberband(p)
		e.updateAutoscroll()
		return
	}

	if e.pressed && !e.pressItem.IsZero() {
		if !e.dragging && distance(p, e.pressPos) > e.cfg.DragThreshold {
			if it := e.items.get(e.pressItem); it != nil {
				e.dragging = true
				e.lastClicked = ItemID{}
				e.clickTimer.cancel()
				e.queue(Event{Kind: EventDragBegin, Index: it.index, Cell: -1})
			}
		}
		if e.dragging {
			if it, _ := e.itemAt(p, false); it != nil {
				e.dropTarget = it.id
				e.dropPos = dropPositionIn(it.Box, p)
			} else {
				e.dropTarget = ItemID{}
			}
			e.updateAutoscroll()
		}
		return
	}

	it, _ := e.itemAt(p, false)
	var id ItemID
	if it != nil {
		id = it.id
	}
	if id != e.prelit {
		e.prelit = id
		e.queue(Event{Kind: EventPrelitChanged, Index: e.indexOf(id), Cell: -1})
	}

	if !e.cfg.SingleClick || it == nil {
		e.clickTimer.cancel()
		return
	}
	e.clickTimer.arm(e.sched, e.cfg.SingleClickTimeout, func() {
		e.singleClickTimeout(id)
	})
}

// singleClickTimeout selects the hovered item, provided the pointer is still
// on it and no gesture has started since the timer was armed.
func (e *Engine) singleClickTimeout(id ItemID) {
	it := e.items.get(id)
	if it == nil || e.prelit != id || e.pressed || e.rubber.active || !e.cfg.SingleClick {
		return
	}
	e.beginOp()
	defer e.endOp()

	e.selectOnly(it)
	e.anchor = it.id
	e.setCursorItem(it, -1)
}

// PointerLeave clears the hover state when the pointer leaves the view.
func (e *Engine) PointerLeave() {
	e.beginOp()
	defer e.endOp()

	e.clickTimer.cancel()
	if !e.prelit.IsZero() {
		e.prelit = ItemID{}
		e.queue(Event{Kind: EventPrelitChanged, Index: -1, Cell: -1})
	}
}

// FocusLost cancels hover selection and any gesture in progress.
func (e *Engine) FocusLost() {
	e.beginOp()
	defer e.endOp()

	e.clickTimer.cancel()
	e.cancelGesture()
}

func (e *Engine) cancelGesture() {
	e.pressed = false
	e.dragging = false
	e.pressItem = ItemID{}
	e.dropTarget = ItemID{}
	e.lastClicked = ItemID{}
	e.stopRubberband()
}

// Dragging reports whether an item drag is in progress, and the current drop
// target.
func (e *Engine) Dragging() (target int, pos DropPosition, ok bool) {
	if !e.dragging {
		return -1, DropInto, false
	}
	return e.indexOf(e.dropTarget), e.dropPos, true
}

// updateAutoscroll scrolls while the pointer sits in the edge zone of the
// viewport during a band selection or a drag. Scrolling runs along the
// direction the content grows in, faster the deeper the pointer is.
func (e *Engine) updateAutoscroll() {
	if !e.rubber.active && !e.dragging {
		e.scrollTimer.cancel()
		return
	}

	pos, extent := e.lastPointer.Y, e.viewport.Height
	if e.cfg.LayoutMode == LayoutColumns {
		pos, extent = e.lastPointer.X, e.viewport.Width
	}
	if extent <= 0 {
		e.scrollTimer.cancel()
		return
	}

	zone := min32(e.cfg.AutoscrollZone, extent/2)
	var dir, intensity float32
	if pos < zone {
		dir = -1
		intensity = (zone - pos) / zone
	} else if pos > extent-zone {
		dir = 1
		intensity = (pos - (extent - zone)) / zone
	}
	intensity = min32(intensity, 1)
	if dir == 0 || intensity <= 0 {
		e.scrollTimer.cancel()
		e.scrollStep = 0
		return
	}

	e.scrollStep = dir * intensity * e.autoscrollMaxStep()
	if !e.scrollTimer.active() {
		e.scrollTimer.arm(e.sched, e.cfg.AutoscrollInterval, e.autoscrollTick)
	}
}

func (e *Engine) autoscrollMaxStep() float32 {
	step := float32(12)
	if it := e.items.at(0); it != nil && !it.needsLayout() {
		if e.cfg.LayoutMode == LayoutColumns {
			step = it.Box.Width / 2
		} else {
			step = it.Box.Height / 2
		}
	}
	return max32(min32(step, 80), 12)
}

func (e *Engine) autoscrollTick() {
	if (!e.rubber.active && !e.dragging) || e.scrollStep == 0 {
		return
	}
	e.beginOp()
	defer e.endOp()

	before := e.offset
	if e.cfg.LayoutMode == LayoutColumns {
		e.scrollTo(before.AddXY(e.scrollStep, 0))
	} else {
		e.scrollTo(before.AddXY(0, e.scrollStep))
	}
	if e.offset == before {
		// Hit the end, no need to keep ticking.
		return
	}

	// The pointer has not moved but the content under it has.
	p := e.toContent(e.lastPointer)
	if e.rubber.active {
		e.updateRubberband(p)
	} else if it, _ := e.itemAt(p, false); it != nil {
		e.dropTarget = it.id
		e.dropPos = dropPositionIn(it.Box, p)
	}
	e.scrollTimer.arm(e.sched, e.cfg.AutoscrollInterval, e.autoscrollTick)
}

func distance(a, b fyne.Position) float32 {
	dx, dy := float64(a.X-b.X), float64(a.Y-b.Y)
	return float32(math.Hypot(dx, dy))
}
