package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock hands out timers that fire only when advanced.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

type recorder[T any] struct {
	mu  sync.Mutex
	got []T
}

func (r *recorder[T]) add(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, v)
}

func (r *recorder[T]) values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.got...)
}

func TestDebouncer_OnlyLastValueDeliveredOnce(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder[string]{}
	d := New(200*time.Millisecond, rec.add, WithAfterFunc(clock.AfterFunc))

	for _, v := range []string{"a", "ab", "abc", "abcd"} {
		d.Set(v)
		clock.Advance(150 * time.Millisecond)
	}
	assert.Empty(t, rec.values(), "nothing fires while input keeps changing")
	assert.True(t, d.Pending())

	clock.Advance(49 * time.Millisecond)
	assert.Empty(t, rec.values())

	clock.Advance(time.Millisecond)
	assert.Equal(t, []string{"abcd"}, rec.values())
	assert.False(t, d.Pending())

	clock.Advance(time.Second)
	assert.Equal(t, []string{"abcd"}, rec.values(), "delivered exactly once")

	v, ok := d.Value()
	require.True(t, ok)
	assert.Equal(t, "abcd", v)
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder[int]{}
	d := New(100*time.Millisecond, rec.add, WithAfterFunc(clock.AfterFunc))

	d.Set(1)
	d.Stop()
	clock.Advance(time.Second)
	assert.Empty(t, rec.values())

	d.Set(2)
	clock.Advance(time.Second)
	assert.Empty(t, rec.values(), "Set after Stop is ignored")

	d.Stop()
}

func TestDebouncer_StaleTimerIsDropped(t *testing.T) {
	// A timer that already fired cannot be stopped; its callback must still
	// be ignored once a newer value was set.
	rec := &recorder[int]{}
	var fire []func()
	after := func(_ time.Duration, f func()) Timer {
		fire = append(fire, f)
		return stuckTimer{}
	}
	d := New(time.Millisecond, rec.add, WithAfterFunc(after))

	d.Set(1)
	d.Set(2)
	require.Len(t, fire, 2)

	fire[0]()
	assert.Empty(t, rec.values())

	fire[1]()
	assert.Equal(t, []int{2}, rec.values())
}

type stuckTimer struct{}

func (stuckTimer) Stop() bool { return false }

func TestDebouncer_RealTimer(t *testing.T) {
	got := make(chan int, 4)
	d := New(20*time.Millisecond, func(v int) { got <- v })
	t.Cleanup(d.Stop)

	d.Set(1)
	d.Set(2)
	d.Set(3)

	select {
	case v := <-got:
		assert.Equal(t, 3, v)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced value was not delivered")
	}

	select {
	case v := <-got:
		t.Fatalf("unexpected extra delivery %d", v)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_StopWaitsForRunningDelivery(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	clock := &fakeClock{}
	d := New(time.Millisecond, func(int) {
		close(started)
		<-release
	}, WithAfterFunc(clock.AfterFunc))

	d.Set(1)
	go clock.Advance(time.Millisecond)
	<-started

	go func() {
		d.Stop()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Stop returned while delivery was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after delivery finished")
	}
}
