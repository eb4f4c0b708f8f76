package suggest

import (
	"sync"
	"time"
)

// Debouncer delays an action until input has been quiet for the given
// interval. Scheduling a new action replaces any pending one, so at most
// the most recently scheduled action ever fires.
//
// Safe for concurrent use. The action runs on the timer goroutine.
type Debouncer struct {
	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

// Schedule arranges for fn to run after delay, replacing any action that
// is scheduled but has not fired yet.
func (d *Debouncer) Schedule(fn func(), delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	// The generation check closes the race where the timer fires while
	// a replacement is being scheduled: Stop can miss a timer that has
	// already started, so the stale closure must notice on its own.
	d.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		live := gen == d.gen
		d.mu.Unlock()
		if live {
			fn()
		}
	})
}

// Cancel unconditionally suppresses any scheduled action.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
