package iconview

import (
	"testing"

	"fyne.io/fyne/v2"
)

func TestDropPosition_Zones(t *testing.T) {
	e := newTestEngine(t, 4, gridConfig(), fyne.NewSize(1000, 1000))
	box, _ := e.ItemBounds(1)

	zones := []struct {
		name string
		p    fyne.Position
		want DropPosition
	}{
		{"left 20%", fyne.NewPos(box.X+box.Width*0.2, box.Y+box.Height/2), DropLeft},
		{"center", box.Center(), DropInto},
		{"right", fyne.NewPos(box.X+box.Width*0.9, box.Y+box.Height/2), DropRight},
		{"above", fyne.NewPos(box.X+box.Width/2, box.Y+box.Height*0.1), DropAbove},
		{"below", fyne.NewPos(box.X+box.Width/2, box.Y+box.Height*0.9), DropBelow},
		{"top left corner", fyne.NewPos(box.X+1, box.Y+1), DropLeft},
	}
	for _, z := range zones {
		got, ok := e.DropPosition(1, z.p)
		if !ok || got != z.want {
			t.Errorf("%s: expected %v, got %v", z.name, z.want, got)
		}
	}

	if _, ok := e.DropPosition(12, box.Center()); ok {
		t.Error("Expected an invalid index to report no position")
	}
}

func TestDropDestination(t *testing.T) {
	e := newTestEngine(t, 4, gridConfig(), fyne.NewSize(1000, 1000))

	at := func(index int, fx, fy float32) fyne.Position {
		b, _ := e.ItemBounds(index)
		return fyne.NewPos(b.X+b.Width*fx, b.Y+b.Height*fy)
	}

	dests := []struct {
		name       string
		p          fyne.Position
		wantIndex  int
		wantAppend bool
	}{
		{"left of 1", at(1, 0.1, 0.5), 1, false},
		{"into 1", at(1, 0.5, 0.5), 1, false},
		{"right of 1", at(1, 0.9, 0.5), 2, false},
		{"below 2", at(2, 0.5, 0.9), 3, false},
		{"right of last", at(3, 0.9, 0.5), 3, true},
		{"above last", at(3, 0.5, 0.1), 3, false},
	}
	for _, d := range dests {
		index, _, appendMode, ok := e.DropDestination(d.p)
		if !ok || index != d.wantIndex || appendMode != d.wantAppend {
			t.Errorf("%s: expected %d append=%v, got %d append=%v ok=%v", d.name, d.wantIndex, d.wantAppend, index, appendMode, ok)
		}
	}

	if _, _, _, ok := e.DropDestination(fyne.NewPos(900, 900)); ok {
		t.Error("Expected no destination over empty space")
	}
}
