package core

import (
	"math"
	"time"
)

// Animation tiers, in minutes.
const (
	LongThresholdMinutes  = 15.0
	ShortThresholdMinutes = 5.0
	LongAnimationMinutes  = 10.0
	ShortAnimationMinutes = 5.0
	// MinAnimationMinutes keeps the animation strictly positive for zero input.
	MinAnimationMinutes = 0.01
)

const msPerMinute = 60 * 1000

// MaxMinutes is the longest countdown a time.Duration can hold.
const MaxMinutes = float64(math.MaxInt64) / float64(time.Minute)

// Plan is derived once from the countdown length and never mutated.
type Plan struct {
	TotalMinutes     float64
	AnimationMinutes float64
	StartDelayMs     float64
}

// NewPlan sizes the visible animation to the final slice of the countdown.
func NewPlan(totalMinutes float64) Plan {
	var anim float64
	switch {
	case totalMinutes > LongThresholdMinutes:
		anim = LongAnimationMinutes
	case totalMinutes > ShortThresholdMinutes:
		anim = ShortAnimationMinutes
	case totalMinutes > 0:
		anim = totalMinutes
	default:
		anim = MinAnimationMinutes
	}
	if anim < MinAnimationMinutes {
		anim = MinAnimationMinutes
	}

	delay := (totalMinutes - anim) * msPerMinute
	if delay < 0 {
		delay = 0
	}
	return Plan{
		TotalMinutes:     totalMinutes,
		AnimationMinutes: anim,
		StartDelayMs:     delay,
	}
}

func (p Plan) AnimationDuration() time.Duration {
	return minutesToDuration(p.AnimationMinutes)
}

func (p Plan) StartDelay() time.Duration {
	return saturate(p.StartDelayMs * float64(time.Millisecond))
}

// Total is the whole countdown, never shorter than the animation itself.
func (p Plan) Total() time.Duration {
	delay, anim := p.StartDelay(), p.AnimationDuration()
	if delay > math.MaxInt64-anim {
		return math.MaxInt64
	}
	return delay + anim
}

func minutesToDuration(m float64) time.Duration {
	return saturate(m * float64(time.Minute))
}

// saturate converts nanoseconds, pinning values past the int64 range to the maximum.
func saturate(ns float64) time.Duration {
	if ns >= math.MaxInt64 {
		return math.MaxInt64
	}
	return time.Duration(ns)
}
