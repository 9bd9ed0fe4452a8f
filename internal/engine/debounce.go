package engine

import "time"

// Debounce collapses a burst of values into a single downstream delivery:
// every Signal restarts the quiet window, and only the last value observed
// before delay of quiescence is handed to fire.
//
// All state lives on the loop; Signal may be called from any goroutine but
// the bookkeeping and the fire callback both execute on loop tasks.
type Debounce struct {
	lp    *Loop
	delay time.Duration
	fire  func(string)

	// seq is touched only on the loop goroutine.
	seq     uint64
	pending string
}

// NewDebounce builds a gate that delivers to fire after delay of quiet.
func NewDebounce(lp *Loop, delay time.Duration, fire func(string)) *Debounce {
	if delay <= 0 {
		delay = 250 * time.Millisecond
	}
	return &Debounce{lp: lp, delay: delay, fire: fire}
}

// Signal submits a new value, restarting the quiet window. A value is
// only ever delivered if no newer Signal arrives within the delay.
func (d *Debounce) Signal(value string) {
	_ = d.lp.Post(func() {
		d.seq++
		d.pending = value
		token := d.seq
		d.lp.PostDelayed(func() {
			// A newer Signal moved seq past our token; this
			// delivery is stale and simply evaporates.
			if token != d.seq {
				return
			}
			d.fire(d.pending)
		}, d.delay)
	})
}
