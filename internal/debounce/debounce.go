// Package debounce delays propagation of a rapidly changing value until the
// input has been quiet for a fixed window.
package debounce

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc is the default.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Option func(*options)

type options struct {
	afterFunc AfterFunc
}

// WithAfterFunc replaces the timer factory, mainly for tests.
func WithAfterFunc(fn AfterFunc) Option {
	return func(o *options) {
		o.afterFunc = fn
	}
}

// Debouncer delivers the latest value passed to Set once no newer value has
// arrived for the whole delay. Values superseded inside the window are never
// delivered. Deliveries happen on the timer goroutine.
type Debouncer[T any] struct {
	delay     time.Duration
	fn        func(T)
	afterFunc AfterFunc

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	stopped bool
	last    T
	hasLast bool
	// delivering counts callbacks currently running.
	delivering int

	running sync.WaitGroup
}

func New[T any](delay time.Duration, fn func(T), opts ...Option) *Debouncer[T] {
	o := options{afterFunc: realAfterFunc}
	for _, opt := range opts {
		opt(&o)
	}
	return &Debouncer[T]{delay: delay, fn: fn, afterFunc: o.afterFunc}
}

// Set records v as the pending value and restarts the window.
// It is a no-op after Stop.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.afterFunc(d.delay, func() { d.fire(gen, v) })
}

func (d *Debouncer[T]) fire(gen uint64, v T) {
	d.mu.Lock()
	// A timer whose Stop lost the race still runs; the generation check
	// drops it.
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.last = v
	d.hasLast = true
	d.delivering++
	d.running.Add(1)
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.delivering--
		d.mu.Unlock()
		d.running.Done()
	}()
	d.fn(v)
}

// Value returns the last delivered value.
func (d *Debouncer[T]) Value() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last, d.hasLast
}

// Pending reports whether a value is waiting for its window to elapse or
// is being delivered.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil || d.delivering > 0
}

// Stop cancels the pending value, if any, and waits for a delivery already
// in progress to return. Nothing is delivered after Stop returns. Stop must
// not be called from the delivery callback.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		d.gen++
		if d.timer != nil {
			d.timer.Stop()
			d.timer = nil
		}
	}
	d.mu.Unlock()

	d.running.Wait()
}
