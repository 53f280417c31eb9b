package iconview

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
)

// ItemID is a stable reference to an item. It stays valid across inserts,
// deletes and reorders of other rows, and never resolves again once its item
// has been destroyed. The zero value references nothing.
type ItemID struct {
	slot int32
	gen  uint32
}

// IsZero reports whether id references nothing.
func (id ItemID) IsZero() bool {
	return id.gen == 0
}

// CellBox is the geometry of one cell inside an item. Before and After are the
// padding around Rect along the direction cells flow in.
type CellBox struct {
	Rect
	Before, After float32
	Visible       bool
}

// Item is one row of the row source as laid out in the grid.
type Item struct {
	id    ItemID
	index int

	// Box is the bounding box in content coordinates. A negative width means
	// the item has not been laid out since it was created or invalidated.
	Box Rect
	// Cells is indexed by cell position.
	Cells    []CellBox
	Row, Col int
	Span     int

	Selected bool

	selectedBeforeRubberband bool
	natural                  fyne.Size
	cellSizes                []fyne.Size
}

func (it *Item) ID() ItemID {
	return it.id
}

// Index is the item's current position in the row source.
func (it *Item) Index() int {
	return it.index
}

func (it *Item) needsLayout() bool {
	return it.Box.Width < 0
}

func (it *Item) invalidate() {
	it.Box = Rect{Width: -1, Height: -1}
	it.Cells = nil
	it.cellSizes = nil
}

// itemStore keeps items in an arena addressed by generational IDs plus an
// ordered view mirroring the row source.
type itemStore struct {
	slots []*Item
	gens  []uint32
	free  []int32
	order []*Item
}

func (s *itemStore) len() int {
	return len(s.order)
}

func (s *itemStore) at(index int) *Item {
	if index < 0 || index >= len(s.order) {
		return nil
	}
	return s.order[index]
}

func (s *itemStore) get(id ItemID) *Item {
	if id.IsZero() || int(id.slot) >= len(s.slots) {
		return nil
	}
	it := s.slots[id.slot]
	if it == nil || s.gens[id.slot] != id.gen {
		return nil
	}
	return it
}

func (s *itemStore) alloc() *Item {
	var slot int32
	if n := len(s.free); n > 0 {
		slot = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		slot = int32(len(s.slots))
		s.slots = append(s.slots, nil)
		s.gens = append(s.gens, 0)
	}
	s.gens[slot]++
	it := &Item{id: ItemID{slot: slot, gen: s.gens[slot]}}
	it.invalidate()
	s.slots[slot] = it
	return it
}

func (s *itemStore) insert(index int) *Item {
	if index < 0 {
		index = 0
	}
	if index > len(s.order) {
		index = len(s.order)
	}
	it := s.alloc()
	s.order = append(s.order, nil)
	copy(s.order[index+1:], s.order[index:])
	s.order[index] = it
	s.renumber(index)
	return it
}

func (s *itemStore) remove(index int) *Item {
	it := s.at(index)
	if it == nil {
		return nil
	}
	s.order = append(s.order[:index], s.order[index+1:]...)
	s.slots[it.id.slot] = nil
	s.free = append(s.free, it.id.slot)
	s.renumber(index)
	return it
}

// reorder permutes the items so that newOrder[newIndex] == oldIndex.
func (s *itemStore) reorder(newOrder []int) error {
	if len(newOrder) != len(s.order) {
		return fmt.Errorf("reorder: got %d positions for %d items", len(newOrder), len(s.order))
	}
	seen := make([]bool, len(newOrder))
	for _, old := range newOrder {
		if old < 0 || old >= len(newOrder) {
			return fmt.Errorf("reorder: position %d out of range", old)
		}
		if seen[old] {
			return errors.New("reorder: not a permutation")
		}
		seen[old] = true
	}

	order := make([]*Item, len(s.order))
	for i, old := range newOrder {
		order[i] = s.order[old]
	}
	s.order = order
	s.renumber(0)
	return nil
}

// reset drops every item and creates n fresh ones. Generations survive so
// IDs handed out before the reset stay dead.
func (s *itemStore) reset(n int) {
	s.free = s.free[:0]
	for slot := len(s.slots) - 1; slot >= 0; slot-- {
		s.slots[slot] = nil
		s.free = append(s.free, int32(slot))
	}
	s.order = nil
	for i := 0; i < n; i++ {
		it := s.alloc()
		it.index = i
		s.order = append(s.order, it)
	}
}

func (s *itemStore) renumber(from int) {
	for i := from; i < len(s.order); i++ {
		s.order[i].index = i
	}
}

func (s *itemStore) invalidateAll() {
	for _, it := range s.order {
		it.invalidate()
	}
}
