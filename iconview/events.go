package iconview

// EventKind identifies an Event.
type EventKind int

const (
	EventItemActivated EventKind = iota
	EventSelectionChanged
	EventCursorMoved
	EventSearchStarted
	EventSearchEnded
	EventEditStarted
	EventEditDone
	EventDragBegin
	EventDrop
	EventLayoutChanged
	EventScrolled
	EventPrelitChanged
)

func (k EventKind) String() string {
	switch k {
	case EventItemActivated:
		return "item-activated"
	case EventSelectionChanged:
		return "selection-changed"
	case EventCursorMoved:
		return "cursor-moved"
	case EventSearchStarted:
		return "search-started"
	case EventSearchEnded:
		return "search-ended"
	case EventEditStarted:
		return "edit-started"
	case EventEditDone:
		return "edit-done"
	case EventDragBegin:
		return "drag-begin"
	case EventDrop:
		return "drop"
	case EventLayoutChanged:
		return "layout-changed"
	case EventScrolled:
		return "scrolled"
	case EventPrelitChanged:
		return "prelit-changed"
	}
	return "unknown"
}

// Event is emitted to listeners at the end of the operation that caused it.
// Index is -1 when the event does not refer to an item.
type Event struct {
	Kind  EventKind
	Index int
	Cell  int

	// Drop and Append describe the destination of an EventDrop.
	Drop   DropPosition
	Append bool
	// Canceled is set on an EventEditDone that discarded the edit.
	Canceled bool
}

// OnEvent registers a listener. Listeners run synchronously on the
// engine's goroutine.
func (e *Engine) OnEvent(f func(Event)) {
	if f != nil {
		e.listeners = append(e.listeners, f)
	}
}

// beginOp and endOp bracket a public operation. Selection and cursor changes
// made inside collapse into a single event each, emitted after every other
// queued event when the outermost operation ends.
func (e *Engine) beginOp() {
	e.opDepth++
}

func (e *Engine) endOp() {
	e.opDepth--
	if e.opDepth > 0 {
		return
	}

	queued := e.queued
	e.queued = nil
	selection := e.selectionDirty
	cursor := e.cursorDirty
	e.selectionDirty = false
	e.cursorDirty = false

	for _, ev := range queued {
		e.emit(ev)
	}
	if selection {
		e.emit(Event{Kind: EventSelectionChanged, Index: -1, Cell: -1})
	}
	if cursor {
		index, cell := e.Cursor()
		e.emit(Event{Kind: EventCursorMoved, Index: index, Cell: cell})
	}
}

func (e *Engine) queue(ev Event) {
	if e.opDepth == 0 {
		e.emit(ev)
		return
	}
	e.queued = append(e.queued, ev)
}

func (e *Engine) emit(ev Event) {
	for _, f := range e.listeners {
		f(ev)
	}
}

func (e *Engine) selectionChanged() {
	e.selectionDirty = true
}
