package selection

import (
	"sync"
	"time"
)

// DefaultClickDelay separates a single click from a double click.
const DefaultClickDelay = 200 * time.Millisecond

// Handle cancels a scheduled callback.
type Handle interface {
	// Stop prevents the callback from running and reports whether it was still pending.
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Handle
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Handle {
	return time.AfterFunc(d, f)
}

// TimeScheduler schedules callbacks with [time.AfterFunc].
var TimeScheduler Scheduler = timeScheduler{}

// ClickDebouncer turns raw clicks on one surface into single or double clicks.
//
// The first click is held for the delay. A second click before the delay
// elapses cancels it and resolves as a double click on the second click's
// item, even when that is a different item. Exactly one of the two callbacks
// runs for each pair.
type ClickDebouncer struct {
	mu          sync.Mutex
	scheduler   Scheduler
	delay       time.Duration
	pending     Handle
	generation  uint64
	onClick     func(Click)
	onDoubleClk func(DoubleClick)
}

// NewClickDebouncer creates a debouncer. A nil scheduler uses [TimeScheduler]
// and a non-positive delay uses [DefaultClickDelay].
func NewClickDebouncer(scheduler Scheduler, delay time.Duration, onClick func(Click), onDoubleClick func(DoubleClick)) *ClickDebouncer {
	if scheduler == nil {
		scheduler = TimeScheduler
	}
	if delay <= 0 {
		delay = DefaultClickDelay
	}
	return &ClickDebouncer{
		scheduler:   scheduler,
		delay:       delay,
		onClick:     onClick,
		onDoubleClk: onDoubleClick,
	}
}

// Click records a raw click.
func (d *ClickDebouncer) Click(c Click) {
	d.mu.Lock()

	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
		d.generation++
		d.mu.Unlock()

		d.onDoubleClk(DoubleClick{ID: c.ID})
		return
	}

	d.generation++
	gen := d.generation
	d.pending = d.scheduler.AfterFunc(d.delay, func() { d.fire(gen, c) })
	d.mu.Unlock()
}

// Cancel drops a pending single click.
func (d *ClickDebouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
		d.generation++
	}
}

// Pending reports whether a single click is waiting for the delay.
func (d *ClickDebouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// fire runs the single click unless a later click or Cancel superseded it.
func (d *ClickDebouncer) fire(gen uint64, c Click) {
	d.mu.Lock()
	if gen != d.generation {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	d.mu.Unlock()

	d.onClick(c)
}
