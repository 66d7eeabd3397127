package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

/*********** fakes for deterministic testing ***********/

type fakeTimer struct {
	ch      chan time.Time
	stopped bool
}

func newFakeTimer() *fakeTimer {
	return &fakeTimer{ch: make(chan time.Time, 1)}
}

func (ft *fakeTimer) C() <-chan time.Time { return ft.ch }
func (ft *fakeTimer) Stop() bool {
	ft.stopped = true
	return true
}

// fire pushes a single event if not stopped.
func (ft *fakeTimer) fire(now time.Time) {
	if !ft.stopped {
		select {
		case ft.ch <- now:
		default:
		}
	}
}

// fakeClock only moves when told to. With autoFire every new timer advances
// logical time by its duration and fires immediately.
type fakeClock struct {
	mu       sync.Mutex
	now      time.Time
	autoFire bool
	timers   []*fakeTimer
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) NewTimer(d time.Duration) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	ft := newFakeTimer()
	f.timers = append(f.timers, ft)
	if f.autoFire {
		f.now = f.now.Add(d)
		ft.fire(f.now)
	}
	return ft
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// schedClock fires one pending timer at a time, earliest deadline first
// (ties by creation order), moving logical time to that deadline.
type schedClock struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	pending []*schedTimer
	armed   []time.Duration
}

type schedTimer struct {
	clock    *schedClock
	ch       chan time.Time
	deadline time.Time
	seq      int
}

func (st *schedTimer) C() <-chan time.Time { return st.ch }
func (st *schedTimer) Stop() bool {
	st.clock.mu.Lock()
	defer st.clock.mu.Unlock()
	return st.clock.removeLocked(st)
}

func (c *schedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *schedClock) NewTimer(d time.Duration) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	st := &schedTimer{clock: c, ch: make(chan time.Time, 1), deadline: c.now.Add(d), seq: c.seq}
	c.pending = append(c.pending, st)
	c.armed = append(c.armed, d)
	return st
}

func (c *schedClock) removeLocked(st *schedTimer) bool {
	for i, p := range c.pending {
		if p == st {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return true
		}
	}
	return false
}

func (c *schedClock) pendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *schedClock) fireNext() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		return
	}
	next := c.pending[0]
	for _, p := range c.pending[1:] {
		if p.deadline.Before(next.deadline) || (p.deadline.Equal(next.deadline) && p.seq < next.seq) {
			next = p
		}
	}
	c.removeLocked(next)
	if next.deadline.After(c.now) {
		c.now = next.deadline
	}
	next.ch <- c.now
}

func (c *schedClock) armedDurations() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.armed...)
}

/*********** tests ***********/

func newTestDriver(total float64) (*Driver, *fakeClock) {
	fc := &fakeClock{now: time.Unix(0, 0)}
	return NewDriver(NewPlan(total)).WithClock(fc), fc
}

func TestStart_DelayedWithPlannedDelay(t *testing.T) {
	d, fc := newTestDriver(6)

	delay, err := d.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if delay != time.Minute {
		t.Fatalf("expected 1m delay, got %v", delay)
	}
	st := d.State()
	if st.Phase != PhaseDelayed {
		t.Fatalf("expected DELAYED, got %v", st.Phase)
	}
	if !st.EndsAt.Equal(fc.Now().Add(6 * time.Minute)) {
		t.Fatalf("expected countdown to end after 6m, got %v", st.EndsAt.Sub(fc.Now()))
	}
	if d.Progress() != 0 {
		t.Fatalf("marker must not move while delayed")
	}
}

func TestTransitions_FullLifecycle(t *testing.T) {
	d, fc := newTestDriver(3)

	var seen []Phase
	d.SetOnAdvance(func(st State) { seen = append(seen, st.Phase) })

	if _, err := d.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := d.BeginMoving(); err != nil {
		t.Fatalf("begin moving: %v", err)
	}
	if !d.State().MouthOpen {
		t.Fatalf("mouth should start open")
	}

	fc.advance(90 * time.Second)
	if p := d.Progress(); p < 0.49 || p > 0.51 {
		t.Fatalf("expected progress ~0.5, got %v", p)
	}
	if st := d.Poll(); st.Phase != PhaseMoving {
		t.Fatalf("expected MOVING before deadline, got %v", st.Phase)
	}

	fc.advance(90 * time.Second)
	if st := d.Poll(); st.Phase != PhaseFinished {
		t.Fatalf("expected FINISHED at deadline, got %v", st.Phase)
	}
	if d.Progress() != 1 || d.Remaining() != 0 {
		t.Fatalf("finished driver should report full progress and no time left")
	}

	want := []Phase{PhaseDelayed, PhaseMoving, PhaseFinished}
	if len(seen) != len(want) {
		t.Fatalf("expected transitions %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected transitions %v, got %v", want, seen)
		}
	}
}

func TestInvalidTransitions(t *testing.T) {
	d, _ := newTestDriver(1)

	if err := d.BeginMoving(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from Idle, got %v", err)
	}
	if _, err := d.ToggleMouth(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("mouth must not toggle before moving, got %v", err)
	}
	if _, err := d.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := d.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second start should fail, got %v", err)
	}
}

func TestToggleMouth_AlternatesOncePerCall(t *testing.T) {
	d, _ := newTestDriver(1)
	d.Start()
	d.BeginMoving()

	prev := d.State().MouthOpen
	for i := 0; i < 10; i++ {
		open, err := d.ToggleMouth()
		if err != nil {
			t.Fatalf("toggle: %v", err)
		}
		if open == prev {
			t.Fatalf("toggle %d did not flip the mouth", i)
		}
		prev = open
	}
	if got := d.State().Toggles; got != 10 {
		t.Fatalf("expected 10 toggles, got %d", got)
	}
}

func TestRun_CompletesAndAlternatesMouth(t *testing.T) {
	d, fc := newTestDriver(0.05) // 3s countdown, no delay
	fc.autoFire = true

	var (
		moving   int
		finished int
		mouth    []bool
		lastProg float64
	)
	err := d.Run(context.Background(), Hooks{
		OnMoving: func(State) { moving++ },
		OnMouth:  func(open bool) { mouth = append(mouth, open) },
		OnPoll: func(_ State, p float64) {
			if p < lastProg {
				t.Fatalf("progress went backwards: %v -> %v", lastProg, p)
			}
			lastProg = p
		},
		OnFinish: func(State) { finished++ },
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if moving != 1 || finished != 1 {
		t.Fatalf("expected one moving and one finish event, got %d/%d", moving, finished)
	}
	if d.State().Phase != PhaseFinished {
		t.Fatalf("expected FINISHED, got %v", d.State().Phase)
	}
	// mouth starts open, so the first toggle closes it
	for i, open := range mouth {
		if open != (i%2 == 1) {
			t.Fatalf("mouth toggle %d out of sequence: %v", i, mouth)
		}
	}
}

func TestRun_CancelStopsLoop(t *testing.T) {
	d, _ := newTestDriver(20)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := d.Run(ctx, Hooks{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if d.State().Phase != PhaseDelayed {
		t.Fatalf("cancelled run should stay DELAYED, got %v", d.State().Phase)
	}
}

func TestRun_MouthCadence(t *testing.T) {
	clock := &schedClock{now: time.Unix(0, 0)}
	d := NewDriver(NewPlan(0.05)).WithClock(clock) // 3s animation, no delay

	var toggledAt []time.Time
	done := make(chan error, 1)
	go func() {
		done <- d.Run(context.Background(), Hooks{
			OnMouth: func(bool) { toggledAt = append(toggledAt, clock.Now()) },
		})
	}()

	// the loop is idle once it has re-armed: one timer while delayed, two while moving
	want := 1
	deadline := time.Now().Add(5 * time.Second)
loop:
	for {
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			break loop
		default:
		}
		if time.Now().After(deadline) {
			t.Fatal("timeout driving the run loop")
		}
		if clock.pendingCount() == want {
			clock.fireNext()
			want = 2
			continue
		}
		time.Sleep(time.Millisecond)
	}

	span := d.Plan().AnimationDuration()
	if got, want := len(toggledAt), int(span/MouthInterval); got != want {
		t.Fatalf("expected %d mouth toggles over %v, got %d", want, span, got)
	}
	start := d.State().MovingAt
	for i, at := range toggledAt {
		if gap := at.Sub(start); gap != MouthInterval {
			t.Fatalf("toggle %d came %v after the previous one, want %v", i, gap, MouthInterval)
		}
		start = at
	}

	armed := clock.armedDurations()
	if armed[0] != d.Plan().StartDelay() {
		t.Fatalf("first timer should be the start delay, got %v", armed[0])
	}
	var mouthTimers int
	for _, dur := range armed[1:] {
		switch dur {
		case MouthInterval:
			mouthTimers++
		case PollInterval:
		default:
			t.Fatalf("unexpected timer interval %v", dur)
		}
	}
	// one armed at moving start plus one re-arm per toggle
	if mouthTimers != len(toggledAt)+1 {
		t.Fatalf("expected %d mouth timers, got %d", len(toggledAt)+1, mouthTimers)
	}
}
