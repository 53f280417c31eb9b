package iconview

import (
	"math"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// View is a fyne widget that shows a RowSource as a grid of icons. It
// scrolls its content itself and forwards pointer and keyboard input to its
// Engine.
type View struct {
	widget.BaseWidget

	// OnItemActivated runs on double click or Return.
	OnItemActivated func(index int)
	// OnSelectionChanged receives the selected indices after every change.
	OnSelectionChanged func(selected []int)
	// OnDrop runs when items dragged inside the view are released on an item.
	// index is the insertion index, or the last item when appendMode is set.
	OnDrop func(index int, pos DropPosition, appendMode bool)
	// OnEdited receives the text of a committed inline edit.
	OnEdited func(index, cell int, text string)
	// OnSecondaryTapped runs after the item under a right click, if any, has
	// been selected. index is -1 over empty space.
	OnSecondaryTapped func(index int, pos fyne.Position)
	// OnZoom receives whole wheel notches scrolled while Control or the
	// platform shortcut modifier is held. Positive steps zoom in.
	OnZoom func(steps int)

	engine *Engine

	focused   bool
	lastPos   fyne.Position
	lastPress time.Time
	pressItem int
	zoomAcc   float32

	editor *editEntry
}

// NewView creates a view over src using cfg.
func NewView(src RowSource, cfg Config) *View {
	v := &View{engine: New(cfg), pressItem: -1}
	v.ExtendBaseWidget(v)
	v.editor = newEditEntry(v)
	v.engine.OnEvent(v.handleEvent)
	v.engine.SetModel(src)
	return v
}

// Engine exposes the layout and selection state behind the view.
func (v *View) Engine() *Engine {
	return v.engine
}

// SetModel replaces the rows shown.
func (v *View) SetModel(src RowSource) {
	v.engine.SetModel(src)
	v.Refresh()
}

// AddCell appends a cell to every item.
func (v *View) AddCell(d *CellDescriptor) {
	v.engine.AddCell(d)
	v.Refresh()
}

func (v *View) CreateRenderer() fyne.WidgetRenderer {
	return newViewRenderer(v)
}

func (v *View) Resize(size fyne.Size) {
	v.BaseWidget.Resize(size)
	v.engine.SetViewport(size)
}

func (v *View) handleEvent(ev Event) {
	switch ev.Kind {
	case EventItemActivated:
		if v.OnItemActivated != nil {
			v.OnItemActivated(ev.Index)
		}
	case EventSelectionChanged:
		if v.OnSelectionChanged != nil {
			v.OnSelectionChanged(v.engine.SelectedIndices())
		}
	case EventDrop:
		if v.OnDrop != nil {
			v.OnDrop(ev.Index, ev.Drop, ev.Append)
		}
	case EventEditStarted:
		v.editor.open(ev.Index, ev.Cell)
	case EventEditDone:
		v.editor.close(ev.Canceled)
	}
	v.Refresh()
}

func (v *View) MouseDown(e *desktop.MouseEvent) {
	v.requestFocus()
	v.lastPos = e.Position

	clicks := 1
	index, _, _ := v.engine.ItemAtPos(e.Position)
	if e.Button == desktop.MouseButtonPrimary {
		now := time.Now()
		if index >= 0 && index == v.pressItem && now.Sub(v.lastPress) < v.doubleTapDelay() {
			clicks = 2
			now = time.Time{}
		}
		v.lastPress = now
		v.pressItem = index
	}
	v.engine.PointerPress(e.Position, e.Button, e.Modifier, clicks)

	if e.Button == desktop.MouseButtonSecondary && v.OnSecondaryTapped != nil {
		v.OnSecondaryTapped(index, e.Position)
	}
}

func (v *View) MouseUp(e *desktop.MouseEvent) {
	v.lastPos = e.Position
	v.engine.PointerRelease(e.Position, e.Button, e.Modifier)
}

func (v *View) MouseIn(e *desktop.MouseEvent) {
	v.MouseMoved(e)
}

func (v *View) MouseMoved(e *desktop.MouseEvent) {
	v.lastPos = e.Position
	v.engine.PointerMotion(e.Position, e.Modifier)
}

func (v *View) MouseOut() {
	v.engine.PointerLeave()
}

// Dragged replaces MouseMoved while a button is held.
func (v *View) Dragged(e *fyne.DragEvent) {
	v.lastPos = e.Position
	v.engine.PointerMotion(e.Position, currentModifiers())
}

func (v *View) DragEnd() {
	v.engine.PointerRelease(v.lastPos, desktop.MouseButtonPrimary, currentModifiers())
}

func (v *View) Scrolled(e *fyne.ScrollEvent) {
	if v.OnZoom != nil && hasControl(currentModifiers()) {
		v.zoomScroll(e.Scrolled.DY)
		return
	}
	dx, dy := -e.Scrolled.DX, -e.Scrolled.DY
	if v.engine.Config().LayoutMode == LayoutColumns && dx == 0 {
		dx, dy = dy, 0
	}
	v.engine.ScrollBy(dx, dy)
}

// zoomScroll accumulates wheel deltas so touchpads do not zoom on every
// tiny movement. A mouse wheel notch is about 40 units.
func (v *View) zoomScroll(dy float32) {
	const notch = 40
	if math.IsNaN(float64(dy)) || math.IsInf(float64(dy), 0) {
		return
	}
	v.zoomAcc += dy
	if steps := int(v.zoomAcc / notch); steps != 0 {
		v.zoomAcc -= float32(steps) * notch
		v.OnZoom(steps)
	}
}

func (v *View) FocusGained() {
	v.focused = true
	v.Refresh()
}

func (v *View) FocusLost() {
	v.focused = false
	v.engine.FocusLost()
	v.engine.EndSearch()
	v.Refresh()
}

func (v *View) TypedRune(r rune) {
	v.engine.TypedRune(r)
}

func (v *View) TypedKey(e *fyne.KeyEvent) {
	v.engine.KeyPressed(e.Name, currentModifiers())
}

func (v *View) TypedShortcut(s fyne.Shortcut) {
	if _, ok := s.(*fyne.ShortcutSelectAll); ok {
		v.engine.SelectAll()
	}
}

func (v *View) requestFocus() {
	if c := fyne.CurrentApp().Driver().CanvasForObject(v); c != nil && c.Focused() != v {
		c.Focus(v)
	}
}

func (v *View) doubleTapDelay() time.Duration {
	if app := fyne.CurrentApp(); app != nil {
		return app.Driver().DoubleTapDelay()
	}
	return 300 * time.Millisecond
}

func currentModifiers() fyne.KeyModifier {
	app := fyne.CurrentApp()
	if app == nil {
		return 0
	}
	if d, ok := app.Driver().(desktop.Driver); ok {
		return d.CurrentKeyModifiers()
	}
	return 0
}

var (
	_ desktop.Mouseable = (*View)(nil)
	_ desktop.Hoverable = (*View)(nil)
	_ fyne.Draggable    = (*View)(nil)
	_ fyne.Scrollable   = (*View)(nil)
	_ fyne.Focusable    = (*View)(nil)
	_ fyne.Shortcutable = (*View)(nil)
)
