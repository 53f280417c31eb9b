package iconview

import (
	"fyne.io/fyne/v2"
)

type rubberband struct {
	active  bool
	origin  fyne.Position
	current fyne.Position
	mods    fyne.KeyModifier
}

func (r rubberband) rect() Rect {
	return NewRect(r.origin, r.current)
}

// RubberbandRect is the band being drawn, in content coordinates.
func (e *Engine) RubberbandRect() (Rect, bool) {
	if !e.rubber.active {
		return Rect{}, false
	}
	return e.rubber.rect(), true
}

// Rubberbanding reports whether a band selection is in progress.
func (e *Engine) Rubberbanding() bool {
	return e.rubber.active
}

func (e *Engine) startRubberband(p fyne.Position, mods fyne.KeyModifier) {
	if e.rubber.active {
		return
	}
	for _, it := range e.items.order {
		it.selectedBeforeRubberband = it.Selected
	}
	e.rubber = rubberband{active: true, origin: p, current: p, mods: mods}
}

// updateRubberband re-evaluates every item against the band. An item is
// selected when it was selected before the drag or lies in the band, but
// not both, so sweeping back over items restores them.
func (e *Engine) updateRubberband(p fyne.Position) {
	if !e.rubber.active {
		return
	}
	e.rubber.current = p
	band := e.rubber.rect()

	var last *Item
	for _, it := range e.items.order {
		if it.needsLayout() {
			continue
		}
		inside := it.Box.Intersects(band)
		if inside {
			last = it
		}
		selected := inside != it.selectedBeforeRubberband
		if selected != it.Selected {
			it.Selected = selected
			e.selectionChanged()
		}
	}
	if last != nil {
		e.setCursorItem(last, -1)
	}
}

func (e *Engine) stopRubberband() {
	e.rubber = rubberband{}
	e.scrollTimer.cancel()
}
