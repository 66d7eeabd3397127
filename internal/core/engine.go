package core

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

// Fixed cadences of the moving phase.
const (
	MouthInterval = 500 * time.Millisecond
	PollInterval  = 100 * time.Millisecond
)

var ErrInvalidTransition = errors.New("invalid phase transition")

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDelayed
	PhaseMoving
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseDelayed:
		return "DELAYED"
	case PhaseMoving:
		return "MOVING"
	case PhaseFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
}

type realTimer struct{ t *time.Timer }

func (r realTimer) C() <-chan time.Time { return r.t.C }
func (r realTimer) Stop() bool          { return r.t.Stop() }

type realClock struct{}

func (realClock) Now() time.Time                  { return time.Now() }
func (realClock) NewTimer(d time.Duration) Timer { return realTimer{time.NewTimer(d)} }

type State struct {
	Phase     Phase
	StartedAt time.Time
	MovingAt  time.Time
	EndsAt    time.Time
	MouthOpen bool
	Toggles   int
}

// Driver owns the countdown lifecycle. Transitions are explicit method calls
// so any frontend with a single event loop can drive it.
type Driver struct {
	mu    sync.RWMutex
	plan  Plan
	state State
	clock Clock

	// optional subscriber, called after every phase change
	onAdvance func(State)
}

func NewDriver(plan Plan) *Driver {
	return &Driver{
		plan:  plan,
		clock: realClock{},
		state: State{Phase: PhaseIdle},
	}
}

// WithClock swaps the time source. Must be called before Start.
func (d *Driver) WithClock(c Clock) *Driver {
	d.clock = c
	return d
}

func (d *Driver) Plan() Plan { return d.plan }

func (d *Driver) SetOnAdvance(fn func(State)) {
	d.mu.Lock()
	d.onAdvance = fn
	d.mu.Unlock()
}

// Snapshot of current state (thread-safe)
func (d *Driver) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Start leaves Idle and returns how long to wait before the marker moves.
func (d *Driver) Start() (time.Duration, error) {
	d.mu.Lock()
	if err := d.expectLocked(PhaseIdle, PhaseDelayed); err != nil {
		d.mu.Unlock()
		return 0, err
	}
	now := d.clock.Now()
	delay := d.plan.StartDelay()
	d.state.Phase = PhaseDelayed
	d.state.StartedAt = now
	d.state.MovingAt = now.Add(delay)
	d.state.EndsAt = d.state.MovingAt.Add(d.plan.AnimationDuration())
	st, fn := d.state, d.onAdvance
	d.mu.Unlock()

	notify(fn, st)
	return delay, nil
}

// BeginMoving shows the marker. The animation is anchored to the moment the
// delay timer actually fired.
func (d *Driver) BeginMoving() error {
	d.mu.Lock()
	if err := d.expectLocked(PhaseDelayed, PhaseMoving); err != nil {
		d.mu.Unlock()
		return err
	}
	now := d.clock.Now()
	d.state.Phase = PhaseMoving
	d.state.MovingAt = now
	d.state.EndsAt = now.Add(d.plan.AnimationDuration())
	d.state.MouthOpen = true
	d.state.Toggles = 0
	st, fn := d.state, d.onAdvance
	d.mu.Unlock()

	notify(fn, st)
	return nil
}

// ToggleMouth flips the mouth once. Only legal while moving.
func (d *Driver) ToggleMouth() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Phase != PhaseMoving {
		return d.state.MouthOpen, fmt.Errorf("%w: toggle mouth in %s", ErrInvalidTransition, d.state.Phase)
	}
	d.state.MouthOpen = !d.state.MouthOpen
	d.state.Toggles++
	return d.state.MouthOpen, nil
}

// Poll finishes the countdown once the animation deadline has passed.
func (d *Driver) Poll() State {
	d.mu.Lock()
	if d.state.Phase != PhaseMoving || d.clock.Now().Before(d.state.EndsAt) {
		st := d.state
		d.mu.Unlock()
		return st
	}
	d.state.Phase = PhaseFinished
	d.state.MouthOpen = false
	st, fn := d.state, d.onAdvance
	d.mu.Unlock()

	notify(fn, st)
	return st
}

// Progress of the marker across the strip, 0 before moving and 1 once finished.
func (d *Driver) Progress() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	switch d.state.Phase {
	case PhaseMoving:
	case PhaseFinished:
		return 1
	default:
		return 0
	}
	total := d.state.EndsAt.Sub(d.state.MovingAt)
	if total <= 0 {
		return 1
	}
	done := d.clock.Now().Sub(d.state.MovingAt)
	return math.Min(1, math.Max(0, float64(done)/float64(total)))
}

// Helper: Remaining time of the whole countdown (non-negative)
func (d *Driver) Remaining() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	switch d.state.Phase {
	case PhaseIdle:
		return d.plan.Total()
	case PhaseFinished:
		return 0
	}
	rem := d.state.EndsAt.Sub(d.clock.Now())
	if rem < 0 {
		return 0
	}
	return rem
}

func (d *Driver) expectLocked(from, to Phase) error {
	if d.state.Phase != from {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.state.Phase, to)
	}
	return nil
}

func notify(fn func(State), st State) {
	if fn != nil {
		fn(st)
	}
}
