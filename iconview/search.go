package iconview

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MatchFunc reports whether a row's search value matches the typed key.
type MatchFunc func(value, key string) bool

// DefaultMatch is a case-insensitive prefix match on NFKC normalized text.
func DefaultMatch(value, key string) bool {
	if key == "" {
		return false
	}
	fold := cases.Fold()
	v := fold.String(norm.NFKC.String(value))
	k := fold.String(norm.NFKC.String(key))
	return strings.HasPrefix(v, k)
}

type searchState struct {
	active bool
	text   string
	// ordinal is the 1-based match currently selected, 0 for none.
	ordinal int
	last    ItemID
	timer   timerSlot
	match   MatchFunc
}

// SetSearchMatch replaces the predicate used by typeahead search. nil
// restores DefaultMatch.
func (e *Engine) SetSearchMatch(f MatchFunc) {
	if f == nil {
		f = DefaultMatch
	}
	e.search.match = f
}

// SearchActive reports whether a typeahead search is open.
func (e *Engine) SearchActive() bool {
	return e.search.active
}

// SearchText is the text typed since the search started.
func (e *Engine) SearchText() string {
	return e.search.text
}

// StartSearch opens a typeahead search. It fails when search is disabled or
// there is nothing to search.
func (e *Engine) StartSearch() bool {
	if !e.cfg.EnableSearch || e.cfg.SearchAttr == "" || e.src == nil {
		return false
	}
	if e.search.active {
		e.touchSearch()
		return true
	}
	e.beginOp()
	defer e.endOp()

	e.StopEditing(false)
	e.search.active = true
	e.search.text = ""
	e.search.ordinal = 0
	e.queue(Event{Kind: EventSearchStarted, Index: -1, Cell: -1})
	e.touchSearch()
	return true
}

// EndSearch closes the search, keeping whatever it selected.
func (e *Engine) EndSearch() {
	if !e.search.active {
		return
	}
	e.beginOp()
	defer e.endOp()

	e.search.timer.cancel()
	e.search.active = false
	e.search.text = ""
	e.search.ordinal = 0
	e.queue(Event{Kind: EventSearchEnded, Index: -1, Cell: -1})
}

// SetSearchText replaces the typed text and jumps to the first match. When
// nothing matches the previous match stays selected.
func (e *Engine) SetSearchText(text string) bool {
	if !e.search.active && !e.StartSearch() {
		return false
	}
	e.beginOp()
	defer e.endOp()

	e.search.text = text
	e.touchSearch()
	if e.selectMatch(1) {
		e.search.ordinal = 1
		return true
	}
	e.reselectLastMatch()
	return false
}

// SearchAdvance moves dir matches forward or backward from the current one,
// wrapping around at either end.
func (e *Engine) SearchAdvance(dir int) bool {
	if !e.search.active || dir == 0 {
		return false
	}
	e.beginOp()
	defer e.endOp()

	e.touchSearch()
	n := e.countMatches()
	if n == 0 {
		e.reselectLastMatch()
		return false
	}
	ord := e.search.ordinal
	if ord == 0 && dir < 0 {
		ord = 1
	}
	ord = ((ord-1+dir)%n+n)%n + 1
	if !e.selectMatch(ord) {
		return false
	}
	e.search.ordinal = ord
	return true
}

func (e *Engine) touchSearch() {
	timeout := e.cfg.SearchTimeout
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}
	e.search.timer.arm(e.sched, timeout, func() {
		if e.search.active {
			e.EndSearch()
		}
	})
}

func (e *Engine) matches(row int) bool {
	if e.src == nil || row >= e.src.Len() {
		return false
	}
	match := e.search.match
	if match == nil {
		match = DefaultMatch
	}
	return match(attrText(e.src.Attr(row, e.cfg.SearchAttr)), e.search.text)
}

func (e *Engine) countMatches() int {
	n := 0
	for i := range e.items.order {
		if e.matches(i) {
			n++
		}
	}
	return n
}

// selectMatch selects the nth match, counting from the first row.
func (e *Engine) selectMatch(nth int) bool {
	count := 0
	for i, it := range e.items.order {
		if !e.matches(i) {
			continue
		}
		count++
		if count == nth {
			e.moveToMatch(it)
			return true
		}
	}
	return false
}

func (e *Engine) reselectLastMatch() {
	if it := e.items.get(e.search.last); it != nil {
		e.moveToMatch(it)
	}
}

func (e *Engine) moveToMatch(it *Item) {
	e.selectOnly(it)
	e.anchor = it.id
	e.setCursorItem(it, -1)
	e.scrollToItem(it)
	e.search.last = it.id
}
