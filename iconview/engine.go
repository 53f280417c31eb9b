package iconview

import (
	"fmt"

	"fyne.io/fyne/v2"
)

// Engine is the layout, selection and interaction core of an icon view. It
// is not safe for concurrent use; every method must be called from the
// goroutine that delivers the Scheduler's callbacks.
type Engine struct {
	cfg   Config
	sched Scheduler
	src   RowSource
	items itemStore
	cells []*CellDescriptor

	viewport fyne.Size
	offset   fyne.Position
	content  fyne.Size

	layoutDirty bool
	inLayout    bool
	layoutTimer timerSlot
	// firstLine is the slot count of the first line of the previous layout
	// and overflowed whether that layout was taller than the viewport.
	firstLine  int
	overflowed bool
	// capAvail is the wrap axis room a column cap was applied at, or 0.
	capAvail float32

	anchor      ItemID
	cursor      ItemID
	cursorCell  int
	prelit      ItemID
	edited      ItemID
	editedCell  int
	lastClicked ItemID

	rubber rubberband

	pressed     bool
	pressPos    fyne.Position
	pressItem   ItemID
	dragging    bool
	dropTarget  ItemID
	dropPos     DropPosition
	lastPointer fyne.Position
	clickTimer  timerSlot
	scrollTimer timerSlot
	scrollStep  float32

	search searchState

	listeners      []func(Event)
	opDepth        int
	queued         []Event
	selectionDirty bool
	cursorDirty    bool
}

// New creates an engine with the given settings and a fyne backed scheduler.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:        cfg,
		sched:      FyneScheduler{},
		cursorCell: -1,
		editedCell: -1,
		search:     searchState{match: DefaultMatch},
	}
}

// SetScheduler replaces the scheduler used for deferred work. Pending timers
// are cancelled.
func (e *Engine) SetScheduler(s Scheduler) {
	e.layoutTimer.cancel()
	e.clickTimer.cancel()
	e.scrollTimer.cancel()
	e.search.timer.cancel()
	e.sched = s
	if e.layoutDirty {
		e.queueLayout()
	}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// SetConfig replaces every setting at once and lays out again.
func (e *Engine) SetConfig(cfg Config) {
	e.beginOp()
	defer e.endOp()

	mode := cfg.SelectionMode
	cfg.SelectionMode = e.cfg.SelectionMode
	e.cfg = cfg
	e.setSelectionMode(mode)
	e.invalidateAll()
}

// SetModel binds the engine to src, dropping every item and reference.
// Setting the same source again reloads it.
func (e *Engine) SetModel(src RowSource) {
	e.beginOp()
	defer e.endOp()

	if obs, ok := e.src.(ObservableRowSource); ok {
		obs.RemoveRowListener(e)
	}
	e.StopEditing(true)
	e.EndSearch()
	e.cancelGesture()

	hadSelection := len(e.SelectedIndices()) > 0
	hadCursor := !e.cursor.IsZero()
	e.src = src
	n := 0
	if src != nil {
		n = src.Len()
	}
	e.items.reset(n)
	e.anchor, e.cursor, e.prelit, e.lastClicked = ItemID{}, ItemID{}, ItemID{}, ItemID{}
	e.search.last = ItemID{}
	e.cursorCell = -1
	e.firstLine, e.overflowed, e.capAvail = 0, false, 0
	if hadSelection {
		e.selectionChanged()
	}
	if hadCursor {
		e.cursorDirty = true
	}

	if obs, ok := src.(ObservableRowSource); ok {
		obs.AddRowListener(e)
	}
	e.queueLayout()
}

func (e *Engine) Model() RowSource {
	return e.src
}

// ItemCount is the number of items currently in the view.
func (e *Engine) ItemCount() int {
	return e.items.len()
}

// Item returns the item at index, or nil.
func (e *Engine) Item(index int) *Item {
	return e.items.at(index)
}

// ItemByID resolves id, returning nil once the item has been destroyed.
func (e *Engine) ItemByID(id ItemID) *Item {
	return e.items.get(id)
}

// ItemBounds is the laid out box of the item at index.
func (e *Engine) ItemBounds(index int) (Rect, bool) {
	it := e.items.at(index)
	if it == nil || it.needsLayout() {
		return Rect{}, false
	}
	return it.Box, true
}

// CellBounds is the box of one cell of the item at index.
func (e *Engine) CellBounds(index, cell int) (Rect, bool) {
	it := e.items.at(index)
	if it == nil || it.needsLayout() || cell < 0 || cell >= len(it.Cells) || !it.Cells[cell].Visible {
		return Rect{}, false
	}
	return it.Cells[cell].Rect, true
}

// Cells returns the cell list in position order.
func (e *Engine) Cells() []*CellDescriptor {
	return append([]*CellDescriptor(nil), e.cells...)
}

// AddCell appends d to the cell list.
func (e *Engine) AddCell(d *CellDescriptor) {
	if d == nil || d.Cell == nil {
		return
	}
	e.cells = append(e.cells, d)
	e.cellsChanged()
}

// RemoveCell drops d from the cell list.
func (e *Engine) RemoveCell(d *CellDescriptor) {
	for i, c := range e.cells {
		if c == d {
			e.cells = append(e.cells[:i], e.cells[i+1:]...)
			e.cellsChanged()
			return
		}
	}
}

// ReorderCell moves d to position pos in the cell list.
func (e *Engine) ReorderCell(d *CellDescriptor, pos int) {
	from := -1
	for i, c := range e.cells {
		if c == d {
			from = i
			break
		}
	}
	if from < 0 {
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos >= len(e.cells) {
		pos = len(e.cells) - 1
	}
	if pos == from {
		return
	}
	e.cells = append(e.cells[:from], e.cells[from+1:]...)
	e.cells = append(e.cells[:pos], append([]*CellDescriptor{d}, e.cells[pos:]...)...)
	e.cellsChanged()
}

// ClearCells empties the cell list.
func (e *Engine) ClearCells() {
	e.cells = nil
	e.cellsChanged()
}

func (e *Engine) cellsChanged() {
	for i, c := range e.cells {
		c.position = i
	}
	if e.cursorCell >= len(e.cells) {
		e.cursorCell = -1
	}
	if e.editedCell >= len(e.cells) {
		e.StopEditing(true)
	}
	e.invalidateAll()
}

func (e *Engine) cell(pos int) *CellDescriptor {
	if pos < 0 || pos >= len(e.cells) {
		return nil
	}
	return e.cells[pos]
}

// visualCells lists the visible cells in the order they are placed: start
// packed cells first, then end packed ones.
func (e *Engine) visualCells() []*CellDescriptor {
	out := make([]*CellDescriptor, 0, len(e.cells))
	for _, pack := range []PackType{PackStart, PackEnd} {
		for _, c := range e.cells {
			if c.Pack == pack && !c.Hidden {
				out = append(out, c)
			}
		}
	}
	return out
}

func (e *Engine) SetLayoutMode(mode LayoutMode) {
	if e.cfg.LayoutMode == mode {
		return
	}
	e.cfg.LayoutMode = mode
	e.firstLine, e.overflowed, e.capAvail = 0, false, 0
	e.invalidateAll()
}

func (e *Engine) SetOrientation(o Orientation) {
	if e.cfg.Orientation == o {
		return
	}
	e.cfg.Orientation = o
	e.invalidateAll()
}

func (e *Engine) SetSpacing(spacing float32) {
	if e.cfg.Spacing == spacing {
		return
	}
	e.cfg.Spacing = spacing
	e.invalidateAll()
}

func (e *Engine) SetRowSpacing(spacing float32) {
	if e.cfg.RowSpacing == spacing {
		return
	}
	e.cfg.RowSpacing = spacing
	e.invalidateAll()
}

func (e *Engine) SetColumnSpacing(spacing float32) {
	if e.cfg.ColumnSpacing == spacing {
		return
	}
	e.cfg.ColumnSpacing = spacing
	e.invalidateAll()
}

func (e *Engine) SetMargin(margin float32) {
	if e.cfg.Margin == margin {
		return
	}
	e.cfg.Margin = margin
	e.invalidateAll()
}

func (e *Engine) SetItemPadding(padding float32) {
	if e.cfg.ItemPadding == padding {
		return
	}
	e.cfg.ItemPadding = padding
	e.invalidateAll()
}

func (e *Engine) SetItemWidth(width float32) {
	if e.cfg.ItemWidth == width {
		return
	}
	e.cfg.ItemWidth = width
	e.invalidateAll()
}

func (e *Engine) SetColumns(columns int) {
	if e.cfg.Columns == columns {
		return
	}
	e.cfg.Columns = columns
	e.invalidateAll()
}

// SetSingleClick toggles hover selection. Disabling it drops a pending timer.
func (e *Engine) SetSingleClick(enabled bool) {
	e.cfg.SingleClick = enabled
	if !enabled {
		e.clickTimer.cancel()
	}
}

// SetViewport tells the engine how much room it has. A change of extent
// along the wrap axis re-lays the items out.
func (e *Engine) SetViewport(size fyne.Size) {
	if e.viewport == size {
		return
	}
	e.viewport = size
	e.queueLayout()
}

func (e *Engine) Viewport() fyne.Size {
	return e.viewport
}

// ContentSize is the extent of all laid out items, margins included.
func (e *Engine) ContentSize() fyne.Size {
	return e.content
}

func (e *Engine) invalidateAll() {
	e.items.invalidateAll()
	e.queueLayout()
}

// RowInserted creates an item for a new row.
func (e *Engine) RowInserted(row int) {
	if row < 0 || row > e.items.len() {
		fyne.LogError("icon view row insert ignored", fmt.Errorf("row %d outside 0..%d", row, e.items.len()))
		return
	}
	e.items.insert(row)
	e.queueLayout()
}

// RowDeleted destroys the item of a removed row. A cursor on it moves to the
// next item, or the previous one when it was last. Every other reference to
// it is dropped.
func (e *Engine) RowDeleted(row int) {
	it := e.items.at(row)
	if it == nil {
		return
	}
	e.beginOp()
	defer e.endOp()

	id := it.id
	if e.edited == id {
		e.StopEditing(true)
	}
	if e.cursor == id {
		next := e.items.at(row + 1)
		if next == nil {
			next = e.items.at(row - 1)
		}
		if next != nil {
			e.setCursorItem(next, -1)
		} else {
			e.cursor = ItemID{}
			e.cursorCell = -1
			e.cursorDirty = true
		}
	}
	if e.anchor == id {
		e.anchor = ItemID{}
	}
	if e.prelit == id {
		e.prelit = ItemID{}
		e.clickTimer.cancel()
	}
	if e.lastClicked == id {
		e.lastClicked = ItemID{}
	}
	if e.pressItem == id {
		e.pressItem = ItemID{}
		e.dragging = false
	}
	if e.dropTarget == id {
		e.dropTarget = ItemID{}
	}
	if e.search.last == id {
		e.search.last = ItemID{}
	}
	if it.Selected {
		e.selectionChanged()
	}

	e.items.remove(row)
	e.queueLayout()
}

// RowChanged drops the cached geometry of one item.
func (e *Engine) RowChanged(row int) {
	it := e.items.at(row)
	if it == nil {
		return
	}
	it.invalidate()
	e.queueLayout()
}

// RowsReordered permutes the items to follow the row source.
func (e *Engine) RowsReordered(newOrder []int) {
	if err := e.items.reorder(newOrder); err != nil {
		fyne.LogError("icon view reorder ignored", err)
		return
	}
	e.queueLayout()
}

var _ RowListener = (*Engine)(nil)
