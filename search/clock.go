package search

import "time"

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// deadline tracks the time budget for one move request. Once it has been
// seen to expire it stays expired until restarted.
type deadline struct {
	now     Clock
	budget  time.Duration
	start   time.Time
	expired bool
}

func (d *deadline) restart() {
	d.start = d.now()
	d.expired = false
}

// timeUp samples the clock unless the budget is already known to be spent.
// A non-positive budget never expires.
func (d *deadline) timeUp() bool {
	if d.expired {
		return true
	}
	if d.budget <= 0 {
		return false
	}
	if d.now().Sub(d.start) >= d.budget {
		d.expired = true
	}
	return d.expired
}

func (d *deadline) elapsed() time.Duration {
	return d.now().Sub(d.start)
}
