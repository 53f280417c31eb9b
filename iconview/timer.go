package iconview

import (
	"time"

	"fyne.io/fyne/v2"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler arms deferred callbacks. Callbacks must be delivered on the
// goroutine that drives the Engine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// FyneScheduler delivers callbacks on the fyne UI thread.
type FyneScheduler struct{}

func (FyneScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, func() {
		fyne.Do(f)
	})
}

// timerSlot owns at most one pending timer. Arming tears down the previous
// instance, and a callback that was already queued when it got cancelled is
// dropped on delivery. Without a scheduler nothing is armed.
type timerSlot struct {
	t   Timer
	seq uint64
}

func (s *timerSlot) arm(sched Scheduler, d time.Duration, f func()) {
	s.cancel()
	if sched == nil {
		return
	}
	seq := s.seq
	s.t = sched.AfterFunc(d, func() {
		if s.seq != seq {
			return
		}
		s.t = nil
		s.seq++
		f()
	})
}

func (s *timerSlot) cancel() {
	if s.t != nil {
		s.t.Stop()
		s.t = nil
	}
	s.seq++
}

func (s *timerSlot) active() bool {
	return s.t != nil
}
