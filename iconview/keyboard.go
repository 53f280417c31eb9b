package iconview

import (
	"unicode"

	"fyne.io/fyne/v2"
)

// KeyPressed handles a navigation or command key and reports whether it was
// consumed.
func (e *Engine) KeyPressed(key fyne.KeyName, mods fyne.KeyModifier) bool {
	if e.search.active {
		switch key {
		case fyne.KeyUp:
			return e.SearchAdvance(-1)
		case fyne.KeyDown:
			return e.SearchAdvance(1)
		case fyne.KeyBackspace:
			text := []rune(e.search.text)
			if len(text) > 0 {
				e.SetSearchText(string(text[:len(text)-1]))
			}
			return true
		case fyne.KeyEscape, fyne.KeyReturn, fyne.KeyEnter, fyne.KeyTab:
			e.EndSearch()
			return key == fyne.KeyEscape
		}
		e.EndSearch()
	}

	switch key {
	case fyne.KeyLeft:
		return e.MoveCursor(MoveHorizontal, -1, mods)
	case fyne.KeyRight:
		return e.MoveCursor(MoveHorizontal, 1, mods)
	case fyne.KeyUp:
		return e.MoveCursor(MoveVertical, -1, mods)
	case fyne.KeyDown:
		return e.MoveCursor(MoveVertical, 1, mods)
	case fyne.KeyPageUp:
		return e.MoveCursor(MovePages, -1, mods)
	case fyne.KeyPageDown:
		return e.MoveCursor(MovePages, 1, mods)
	case fyne.KeyHome:
		return e.MoveCursor(MoveEnds, -1, mods)
	case fyne.KeyEnd:
		return e.MoveCursor(MoveEnds, 1, mods)
	case fyne.KeyReturn, fyne.KeyEnter:
		if !e.edited.IsZero() {
			e.StopEditing(false)
			return true
		}
		return e.ActivateCursor()
	case fyne.KeySpace:
		return e.SelectCursor(mods)
	case fyne.KeyEscape:
		if !e.edited.IsZero() {
			e.StopEditing(true)
			return true
		}
		if e.rubber.active || e.dragging {
			e.FocusLost()
			return true
		}
		return false
	case fyne.KeyA:
		if hasControl(mods) {
			return e.SelectAll()
		}
	}
	return false
}

// TypedRune feeds typeahead search, opening it on the first printable rune.
func (e *Engine) TypedRune(r rune) bool {
	if !e.edited.IsZero() || !unicode.IsPrint(r) {
		return false
	}
	if !e.search.active && (r == ' ' || !e.StartSearch()) {
		return false
	}
	e.SetSearchText(e.search.text + string(r))
	return true
}
