package iconview

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// editEntry is the inline editor placed over an editable text cell.
type editEntry struct {
	widget.Entry

	view        *View
	index, cell int
	active      bool
}

func newEditEntry(v *View) *editEntry {
	e := &editEntry{view: v, index: -1, cell: -1}
	e.ExtendBaseWidget(e)
	e.OnSubmitted = func(string) {
		v.engine.StopEditing(false)
	}
	e.Hide()
	return e
}

func (e *editEntry) open(index, cell int) {
	e.index, e.cell = index, cell
	e.active = true

	text := ""
	if d := e.view.engine.cell(cell); d != nil {
		if tc, ok := d.Cell.(*TextCell); ok && e.view.engine.src != nil {
			text = attrText(e.view.engine.src.Attr(index, tc.Attr))
		}
	}
	e.SetText(text)
	e.CursorColumn = len([]rune(text))
	e.Show()

	if c := fyne.CurrentApp().Driver().CanvasForObject(e.view); c != nil {
		c.Focus(e)
	}
}

func (e *editEntry) close(canceled bool) {
	if !e.active {
		return
	}
	e.active = false
	e.Hide()
	index, cell, text := e.index, e.cell, e.Text
	e.index, e.cell = -1, -1

	if !canceled && e.view.OnEdited != nil {
		e.view.OnEdited(index, cell, text)
	}
	e.view.requestFocus()
}

func (e *editEntry) TypedKey(k *fyne.KeyEvent) {
	if k.Name == fyne.KeyEscape {
		e.view.engine.StopEditing(true)
		return
	}
	e.Entry.TypedKey(k)
}

// FocusLost commits the edit when focus moves elsewhere.
func (e *editEntry) FocusLost() {
	e.Entry.FocusLost()
	if e.active {
		e.view.engine.StopEditing(false)
	}
}
