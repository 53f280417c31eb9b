package iconview

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const primary = desktop.MouseButtonPrimary

// manualTimer and manualScheduler replace wall clock timers so tests decide
// when deferred work runs.
type manualTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	pending := !t.stopped && !t.fired
	t.stopped = true
	return pending
}

type manualScheduler struct {
	now    time.Duration
	timers []*manualTimer
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward, firing due timers in order, including
// ones armed by the callbacks themselves.
func (s *manualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		var next *manualTimer
		for _, t := range s.timers {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			break
		}
		s.now = next.at
		next.fired = true
		next.f()
	}
	s.now = target
}

func (s *manualScheduler) pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type testSource struct {
	labels    []string
	sizes     []fyne.Size
	listeners []RowListener
}

func newTestSource(n int, size fyne.Size) *testSource {
	s := &testSource{}
	for i := 0; i < n; i++ {
		s.labels = append(s.labels, fmt.Sprintf("item %d", i))
		s.sizes = append(s.sizes, size)
	}
	return s
}

func (s *testSource) Len() int {
	return len(s.labels)
}

func (s *testSource) Attr(row int, name string) any {
	if row < 0 || row >= len(s.labels) {
		return nil
	}
	switch name {
	case "label":
		return s.labels[row]
	case "size":
		return s.sizes[row]
	}
	return nil
}

func (s *testSource) AddRowListener(l RowListener) {
	s.listeners = append(s.listeners, l)
}

func (s *testSource) RemoveRowListener(l RowListener) {
	for i, other := range s.listeners {
		if other == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

func (s *testSource) insert(row int, label string, size fyne.Size) {
	s.labels = slices.Insert(s.labels, row, label)
	s.sizes = slices.Insert(s.sizes, row, size)
	for _, l := range s.listeners {
		l.RowInserted(row)
	}
}

func (s *testSource) delete(row int) {
	s.labels = slices.Delete(s.labels, row, row+1)
	s.sizes = slices.Delete(s.sizes, row, row+1)
	for _, l := range s.listeners {
		l.RowDeleted(row)
	}
}

func (s *testSource) setSize(row int, size fyne.Size) {
	s.sizes[row] = size
	for _, l := range s.listeners {
		l.RowChanged(row)
	}
}

var sizeCell = &CustomCell{MeasureFunc: func(src RowSource, row int) fyne.Size {
	if s, ok := src.Attr(row, "size").(fyne.Size); ok {
		return s
	}
	return fyne.Size{}
}}

// gridConfig lays 100x100 items out with 6 units of margin and spacing, so
// a 324 wide viewport holds exactly 3 items per line.
func gridConfig() Config {
	cfg := DefaultConfig()
	cfg.ItemPadding = 0
	cfg.Spacing = 0
	cfg.Margin = 6
	cfg.RowSpacing = 6
	cfg.ColumnSpacing = 6
	cfg.SearchAttr = "label"
	return cfg
}

type testEngine struct {
	*Engine
	src    *testSource
	sched  *manualScheduler
	events []Event
}

func newTestEngine(t *testing.T, n int, cfg Config, viewport fyne.Size) *testEngine {
	t.Helper()
	te := &testEngine{
		Engine: New(cfg),
		src:    newTestSource(n, fyne.NewSize(100, 100)),
		sched:  &manualScheduler{},
	}
	te.SetScheduler(te.sched)
	te.AddCell(&CellDescriptor{Cell: sizeCell})
	te.SetModel(te.src)
	te.SetViewport(viewport)
	te.Layout()
	te.OnEvent(func(ev Event) {
		te.events = append(te.events, ev)
	})
	return te
}

func (te *testEngine) count(kind EventKind) int {
	n := 0
	for _, ev := range te.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (te *testEngine) last(kind EventKind) (Event, bool) {
	for i := len(te.events) - 1; i >= 0; i-- {
		if te.events[i].Kind == kind {
			return te.events[i], true
		}
	}
	return Event{}, false
}

func (te *testEngine) center(index int) fyne.Position {
	it := te.Item(index)
	return it.Box.Center().Subtract(te.ScrollOffset())
}

func assertSelection(t *testing.T, e *Engine, want ...int) {
	t.Helper()
	got := e.SelectedIndices()
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !slices.Equal(got, want) {
		t.Errorf("Expected selection %v, got %v", want, got)
	}
}

// assertLiveReferences checks that every item reference resolves.
func assertLiveReferences(t *testing.T, e *Engine) {
	t.Helper()
	for name, id := range map[string]ItemID{
		"anchor":      e.anchor,
		"cursor":      e.cursor,
		"prelit":      e.prelit,
		"edited":      e.edited,
		"lastClicked": e.lastClicked,
	} {
		if !id.IsZero() && e.items.get(id) == nil {
			t.Errorf("%s references a destroyed item", name)
		}
	}
}
