package iconview

import (
	"math"

	"fyne.io/fyne/v2"
)

// Layout runs a pass synchronously when geometry is out of date.
func (e *Engine) Layout() {
	if !e.layoutDirty {
		return
	}
	e.layout()
}

// LayoutPending reports whether geometry is waiting for the next pass.
func (e *Engine) LayoutPending() bool {
	return e.layoutDirty
}

// queueLayout marks geometry dirty and arranges for one pass on the next
// idle tick, however many times it is called before then.
func (e *Engine) queueLayout() {
	e.layoutDirty = true
	if e.inLayout || e.layoutTimer.active() || e.sched == nil {
		return
	}
	e.layoutTimer.arm(e.sched, 0, func() {
		if e.layoutDirty {
			e.layout()
		}
	})
}

// lineItem is an item being placed, in wrap axis local coordinates where the
// line always runs along X.
type lineItem struct {
	it      *Item
	natural fyne.Size
	box     Rect
	cells   []fyne.Size
	span    int
}

// flow carries the layout parameters rotated into local coordinates so the
// columns mode can reuse the rows algorithm.
type flow struct {
	transposed bool
	// cellsAlong is set when cells run along the line direction.
	cellsAlong bool

	avail       float32
	crossAvail  float32
	lineSpacing float32
	lineGap     float32
	margin      float32
	padding     float32
	spacing     float32
	slot        float32
	columns     int
	capColumns  int
}

func (e *Engine) newFlow() flow {
	f := flow{
		transposed: e.cfg.LayoutMode == LayoutColumns,
		margin:     e.cfg.Margin,
		padding:    e.cfg.ItemPadding,
		spacing:    e.cfg.Spacing,
		columns:    e.cfg.Columns,
	}
	f.cellsAlong = (e.cfg.Orientation == OrientationHorizontal) != f.transposed
	if f.transposed {
		f.avail, f.crossAvail = e.viewport.Height, e.viewport.Width
		f.lineSpacing, f.lineGap = e.cfg.RowSpacing, e.cfg.ColumnSpacing
	} else {
		f.avail, f.crossAvail = e.viewport.Width, e.viewport.Height
		f.lineSpacing, f.lineGap = e.cfg.ColumnSpacing, e.cfg.RowSpacing
	}
	return f
}

func (e *Engine) layout() {
	if e.inLayout {
		e.layoutDirty = true
		return
	}
	e.inLayout = true
	e.layoutDirty = false
	e.layoutTimer.cancel()

	e.beginOp()
	e.layoutPass()
	e.queue(Event{Kind: EventLayoutChanged, Index: -1, Cell: -1})
	e.inLayout = false
	e.clampScroll()
	e.endOp()

	if e.layoutDirty {
		e.layoutDirty = false
		e.queueLayout()
	}
}

func (e *Engine) layoutPass() {
	f := e.newFlow()
	measured := e.measureAll(f)
	if len(measured) == 0 {
		e.content = e.fromLocalSize(f, fyne.NewSize(2*f.margin, 2*f.margin))
		e.firstLine, e.overflowed, e.capAvail = 0, false, 0
		return
	}

	f.slot = e.cfg.ItemWidth
	if f.slot <= 0 {
		for _, m := range measured {
			f.slot = max32(f.slot, m.natural.Width)
		}
	}

	first, size := e.flowLines(f, measured)
	// Growing by one slot when the content used to fit but now overflows the
	// cross axis means a scrollbar would appear and take away the room that
	// justified the extra slot. The cap holds until the wrap axis room changes.
	capped := false
	if e.firstLine > 0 && first == e.firstLine+1 && e.overflows(f, size) {
		capped = !e.overflowed || e.capAvail == f.avail
	}
	if capped {
		f.capColumns = e.firstLine
		first, size = e.flowLines(f, measured)
		e.capAvail = f.avail
	} else {
		e.capAvail = 0
	}
	e.firstLine = first
	e.overflowed = e.overflows(f, size)

	for _, m := range measured {
		e.storeItem(f, m)
	}
	e.content = e.fromLocalSize(f, size)
}

func (e *Engine) overflows(f flow, size fyne.Size) bool {
	return f.crossAvail > 0 && size.Height > f.crossAvail
}

// measureAll returns the natural local size of every item, reusing cached
// measurements of items that were not invalidated.
func (e *Engine) measureAll(f flow) []*lineItem {
	out := make([]*lineItem, 0, e.items.len())
	cells := e.visualCells()
	for _, it := range e.items.order {
		if it.cellSizes == nil || len(it.cellSizes) != len(e.cells) {
			it.cellSizes = make([]fyne.Size, len(e.cells))
			for _, c := range cells {
				var s fyne.Size
				if e.src != nil {
					s = c.Cell.Measure(e.src, it.index)
				}
				it.cellSizes[c.position] = fyne.NewSize(max32(s.Width, 0), max32(s.Height, 0))
			}
		}

		li := &lineItem{it: it, cells: make([]fyne.Size, len(it.cellSizes))}
		for i, s := range it.cellSizes {
			if f.transposed {
				s = transposeSize(s)
			}
			li.cells[i] = s
		}

		var along, across float32
		n := 0
		for _, c := range cells {
			s := li.cells[c.position]
			if f.cellsAlong {
				along += s.Width
				across = max32(across, s.Height)
			} else {
				along = max32(along, s.Width)
				across += s.Height
			}
			n++
		}
		if n > 1 {
			if f.cellsAlong {
				along += f.spacing * float32(n-1)
			} else {
				across += f.spacing * float32(n-1)
			}
		}
		li.natural = fyne.NewSize(max32(along+2*f.padding, 1), max32(across+2*f.padding, 1))
		it.natural = li.natural
		out = append(out, li)
	}
	return out
}

// flowLines breaks the items into lines and aligns their cells. It returns
// the slot count of the first line and the local extent of the content.
func (e *Engine) flowLines(f flow, items []*lineItem) (int, fyne.Size) {
	cells := e.visualCells()
	y := f.margin
	maxRight := float32(0)
	first := 0

	for line, idx := 0, 0; idx < len(items); line++ {
		start := idx
		running := 2 * f.margin
		x := f.margin
		col := 0

		for idx < len(items) {
			li := items[idx]
			span := 1
			if f.slot > 0 {
				span = int(math.Ceil(float64(li.natural.Width / (f.slot + f.lineSpacing))))
				if span < 1 {
					span = 1
				}
			}
			width := max32(float32(span)*f.slot+float32(span-1)*f.lineSpacing, 1)

			running += width
			if idx > start {
				if f.columns <= 0 && running > f.avail {
					break
				}
				if f.columns > 0 && col+span > f.columns {
					break
				}
				if f.capColumns > 0 && col+span > f.capColumns {
					break
				}
			}
			running += f.lineSpacing

			li.span = span
			li.box.X = x
			li.box.Y = y
			li.box.Width = width
			li.it.Row, li.it.Col = line, col
			x += width + f.lineSpacing
			col += span
			idx++
		}
		if line == 0 {
			first = col
		}
		maxRight = max32(maxRight, x-f.lineSpacing)

		maxCross := make([]float32, len(e.cells))
		for _, li := range items[start:idx] {
			for _, c := range cells {
				maxCross[c.position] = max32(maxCross[c.position], li.cells[c.position].Height)
			}
		}

		lineHeight := float32(0)
		for _, li := range items[start:idx] {
			e.alignCells(f, li, cells, maxCross)
			lineHeight = max32(lineHeight, li.box.Height)
		}
		y += lineHeight + f.lineGap
	}

	height := y - f.lineGap + f.margin
	return first, fyne.NewSize(maxRight+f.margin, height)
}

// alignCells places the cells of one item so that every item in the line
// gives the same cell position the same cross extent.
func (e *Engine) alignCells(f flow, li *lineItem, cells []*CellDescriptor, maxCross []float32) {
	boxes := make([]CellBox, len(e.cells))
	inner := li.box.Width - 2*f.padding

	if f.cellsAlong {
		height := float32(0)
		natural := float32(0)
		expanders := 0
		for i, c := range cells {
			height = max32(height, maxCross[c.position])
			natural += li.cells[c.position].Width
			if i > 0 {
				natural += f.spacing
			}
			if c.Expand {
				expanders++
			}
		}
		li.box.Height = max32(height+2*f.padding, 1)

		extra := max32(inner-natural, 0)
		share := float32(0)
		cx := li.box.X + f.padding
		if expanders > 0 {
			share = extra / float32(expanders)
		} else {
			cx += extra / 2
		}
		for _, c := range cells {
			s := li.cells[c.position]
			w := s.Width
			if c.Expand {
				w += share
			}
			area := Rect{X: cx, Y: li.box.Y + f.padding, Width: w, Height: height}
			box := fitCell(s, area)
			boxes[c.position] = CellBox{
				Rect:    box,
				Before:  box.X - area.X,
				After:   area.X + area.Width - (box.X + box.Width),
				Visible: true,
			}
			cx += w + f.spacing
		}
	} else {
		height := float32(0)
		for i, c := range cells {
			height += maxCross[c.position]
			if i > 0 {
				height += f.spacing
			}
		}
		li.box.Height = max32(height+2*f.padding, 1)

		cy := li.box.Y + f.padding
		for _, c := range cells {
			s := li.cells[c.position]
			area := Rect{X: li.box.X + f.padding, Y: cy, Width: max32(inner, 0), Height: maxCross[c.position]}
			box := fitCell(s, area)
			boxes[c.position] = CellBox{
				Rect:    box,
				Before:  box.Y - area.Y,
				After:   area.Y + area.Height - (box.Y + box.Height),
				Visible: true,
			}
			cy += maxCross[c.position] + f.spacing
		}
	}
	li.it.Cells = boxes
}

// fitCell centres a cell of natural size s inside area, shrinking it to fit.
func fitCell(s fyne.Size, area Rect) Rect {
	w := min32(s.Width, area.Width)
	h := min32(s.Height, area.Height)
	return Rect{
		X:      area.X + (area.Width-w)/2,
		Y:      area.Y + (area.Height-h)/2,
		Width:  w,
		Height: h,
	}
}

func (e *Engine) storeItem(f flow, li *lineItem) {
	it := li.it
	it.Span = li.span
	it.Box = li.box
	if !f.transposed {
		return
	}
	it.Box = it.Box.transpose()
	it.Row, it.Col = it.Col, it.Row
	for i := range it.Cells {
		it.Cells[i].Rect = it.Cells[i].Rect.transpose()
	}
}

func (e *Engine) fromLocalSize(f flow, s fyne.Size) fyne.Size {
	if f.transposed {
		return transposeSize(s)
	}
	return s
}

// line and slot are an item's coordinates along and across the wrap axis.
func (e *Engine) line(it *Item) int {
	if e.cfg.LayoutMode == LayoutColumns {
		return it.Col
	}
	return it.Row
}

func (e *Engine) slot(it *Item) int {
	if e.cfg.LayoutMode == LayoutColumns {
		return it.Row
	}
	return it.Col
}

// Lines is the number of lines in the current layout.
func (e *Engine) Lines() int {
	n := e.items.len()
	if n == 0 {
		return 0
	}
	last := e.items.at(n - 1)
	if last.needsLayout() {
		return 0
	}
	return e.line(last) + 1
}
