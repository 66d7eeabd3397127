package core

import (
	"context"
	"time"
)

// Hooks are invoked from the Run loop goroutine, one at a time.
type Hooks struct {
	OnMoving func(State)
	OnMouth  func(open bool)
	OnPoll   func(st State, progress float64)
	OnFinish func(State)
}

// Run drives the whole countdown on a single loop: a one-shot delay timer,
// then the mouth and poll timers until the animation completes.
func (d *Driver) Run(ctx context.Context, h Hooks) error {
	delay, err := d.Start()
	if err != nil {
		return err
	}

	delayT := d.clock.NewTimer(delay)
	var mouthT, pollT Timer
	defer func() {
		for _, t := range []Timer{delayT, mouthT, pollT} {
			if t != nil {
				t.Stop()
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-chanOf(delayT):
			delayT = nil
			if err := d.BeginMoving(); err != nil {
				return err
			}
			if h.OnMoving != nil {
				h.OnMoving(d.State())
			}
			mouthT = d.clock.NewTimer(MouthInterval)
			pollT = d.clock.NewTimer(PollInterval)

		case <-chanOf(mouthT):
			open, err := d.ToggleMouth()
			if err != nil {
				return err
			}
			if h.OnMouth != nil {
				h.OnMouth(open)
			}
			mouthT = d.clock.NewTimer(MouthInterval)

		case <-chanOf(pollT):
			st := d.Poll()
			if h.OnPoll != nil {
				h.OnPoll(st, d.Progress())
			}
			if st.Phase == PhaseFinished {
				if h.OnFinish != nil {
					h.OnFinish(st)
				}
				return nil
			}
			pollT = d.clock.NewTimer(PollInterval)
		}
	}
}

// chanOf returns nil for a nil timer so its select case never fires.
func chanOf(t Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C()
}
