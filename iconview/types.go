package iconview

import (
	"fyne.io/fyne/v2"
)

// LayoutMode selects the direction items wrap in.
type LayoutMode int

const (
	// LayoutRows fills items left to right and grows downwards.
	LayoutRows LayoutMode = iota
	// LayoutColumns fills items top to bottom and grows to the right.
	LayoutColumns
)

// Orientation is the direction cells are placed in within a single item.
type Orientation int

const (
	// OrientationVertical stacks cells, e.g. an icon above its label.
	OrientationVertical Orientation = iota
	// OrientationHorizontal places cells side by side.
	OrientationHorizontal
)

// SelectionMode controls how many items may be selected.
type SelectionMode int

const (
	SelectionNone SelectionMode = iota
	SelectionSingle
	// SelectionBrowse behaves like SelectionSingle but never allows an
	// empty selection through user interaction.
	SelectionBrowse
	SelectionMultiple
)

// DropPosition is where a dragged payload lands relative to an item.
type DropPosition int

const (
	DropInto DropPosition = iota
	DropLeft
	DropRight
	DropAbove
	DropBelow
)

func (d DropPosition) String() string {
	switch d {
	case DropLeft:
		return "left"
	case DropRight:
		return "right"
	case DropAbove:
		return "above"
	case DropBelow:
		return "below"
	default:
		return "into"
	}
}

// MovementStep is the granularity of a keyboard cursor movement.
type MovementStep int

const (
	// MoveHorizontal moves left (negative count) or right.
	MoveHorizontal MovementStep = iota
	// MoveVertical moves up (negative count) or down.
	MoveVertical
	// MovePages moves by the number of lines visible in the viewport.
	MovePages
	// MoveEnds jumps to the first (negative count) or last item.
	MoveEnds
)

// Rect is an axis aligned box in content coordinates.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// NewRect returns the box spanning the two corner points in any order.
func NewRect(a, b fyne.Position) Rect {
	x1, x2 := a.X, b.X
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	y1, y2 := a.Y, b.Y
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive so that adjacent boxes never both contain a point.
func (r Rect) Contains(p fyne.Position) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersects reports whether r and o overlap with a positive area.
func (r Rect) Intersects(o Rect) bool {
	if r.Width <= 0 || r.Height <= 0 || o.Width <= 0 || o.Height <= 0 {
		return false
	}
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

func (r Rect) Center() fyne.Position {
	return fyne.NewPos(r.X+r.Width/2, r.Y+r.Height/2)
}

func (r Rect) Position() fyne.Position {
	return fyne.NewPos(r.X, r.Y)
}

func (r Rect) Size() fyne.Size {
	return fyne.NewSize(r.Width, r.Height)
}

// Inset grows r by dx on the left and right and dy on the top and bottom.
// Negative values shrink it.
func (r Rect) Inset(dx, dy float32) Rect {
	return Rect{X: r.X - dx, Y: r.Y - dy, Width: r.Width + 2*dx, Height: r.Height + 2*dy}
}

func (r Rect) transpose() Rect {
	return Rect{X: r.Y, Y: r.X, Width: r.Height, Height: r.Width}
}

func transposeSize(s fyne.Size) fyne.Size {
	return fyne.NewSize(s.Height, s.Width)
}

func hasShift(mods fyne.KeyModifier) bool {
	return mods&fyne.KeyModifierShift != 0
}

func hasControl(mods fyne.KeyModifier) bool {
	return mods&(fyne.KeyModifierControl|fyne.KeyModifierShortcutDefault) != 0
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
