// Package pills tracks the pills laid along the strip and which of them the
// marker has already eaten.
package pills

import "sort"

// DefaultSpacing is the gap, in cells, between two pills.
const DefaultSpacing = 4

type pill struct {
	x        int
	consumed bool
}

// Track is an ordered sequence of pills. A consumed pill never comes back.
type Track struct {
	pills  []pill
	active int
}

// NewTrack lays pills at spacing, 2*spacing, ... up to (excluding) width.
func NewTrack(width, spacing int) *Track {
	if spacing <= 0 {
		spacing = DefaultSpacing
	}
	t := &Track{}
	for x := spacing; x < width; x += spacing {
		t.pills = append(t.pills, pill{x: x})
	}
	t.active = len(t.pills)
	return t
}

// Consume eats every active pill at or behind the marker's leading edge and
// returns the positions eaten by this call.
func (t *Track) Consume(leadingEdge int) []int {
	var eaten []int
	// pills are sorted by x
	i := sort.Search(len(t.pills), func(i int) bool { return t.pills[i].x > leadingEdge })
	for j := 0; j < i; j++ {
		if t.pills[j].consumed {
			continue
		}
		t.pills[j].consumed = true
		t.active--
		eaten = append(eaten, t.pills[j].x)
	}
	return eaten
}

// Drain eats whatever is left; used when the countdown finishes.
func (t *Track) Drain() []int {
	if len(t.pills) == 0 {
		return nil
	}
	return t.Consume(t.pills[len(t.pills)-1].x)
}

// Trim eats pills from the left until at most limit remain. A track rebuilt
// for a new width uses it so no eaten pill comes back.
func (t *Track) Trim(limit int) []int {
	var eaten []int
	for i := range t.pills {
		if t.active <= max(0, limit) {
			break
		}
		if t.pills[i].consumed {
			continue
		}
		t.pills[i].consumed = true
		t.active--
		eaten = append(eaten, t.pills[i].x)
	}
	return eaten
}

func (t *Track) Remaining() int { return t.active }

func (t *Track) Len() int { return len(t.pills) }

// Active returns the positions not eaten yet, in order.
func (t *Track) Active() []int {
	out := make([]int, 0, t.active)
	for _, p := range t.pills {
		if !p.consumed {
			out = append(out, p.x)
		}
	}
	return out
}

// At reports whether an uneaten pill sits at x.
func (t *Track) At(x int) bool {
	i := sort.Search(len(t.pills), func(i int) bool { return t.pills[i].x >= x })
	return i < len(t.pills) && t.pills[i].x == x && !t.pills[i].consumed
}

func (t *Track) Consumed(x int) bool {
	i := sort.Search(len(t.pills), func(i int) bool { return t.pills[i].x >= x })
	return i < len(t.pills) && t.pills[i].x == x && t.pills[i].consumed
}
