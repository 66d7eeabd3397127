package ui

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/ezchuang/GoPacTimer/internal/strip"
)

const (
	engulfFPS       = 60
	engulfMaxFrames = 4 * engulfFPS
	// cells are roughly twice as tall as wide
	cellAspect = 2.0
)

// Engulf grows a disc of the marker from the centre of the screen until it
// covers everything. The radius follows a spring towards the screen corner.
type Engulf struct {
	spring   harmonica.Spring
	radius   float64
	velocity float64
	target   float64
	width    int
	height   int
	frames   int
}

func NewEngulf(width, height int) Engulf {
	corner := math.Hypot(float64(width)/2/cellAspect, float64(height)/2)
	return Engulf{
		spring: harmonica.NewSpring(harmonica.FPS(engulfFPS), 6.0, 0.7),
		target: corner + 1,
		width:  width,
		height: height,
	}
}

func (e Engulf) Step() Engulf {
	e.radius, e.velocity = e.spring.Update(e.radius, e.velocity, e.target)
	e.frames++
	return e
}

func (e Engulf) Settled() bool {
	if e.frames >= engulfMaxFrames {
		return true
	}
	return math.Abs(e.target-e.radius) < 0.25 && math.Abs(e.velocity) < 0.25
}

func (e Engulf) Covers(col, row int) bool {
	dx := (float64(col) - float64(e.width)/2) / cellAspect
	dy := float64(row) - float64(e.height)/2
	return math.Hypot(dx, dy) <= e.radius
}

func (e Engulf) View(color lipgloss.Color) string {
	fill := lipgloss.NewStyle().Foreground(color).Render(strip.GlyphClosed)
	rows := make([]string, e.height)
	for r := range rows {
		var b strings.Builder
		for c := 0; c < e.width; c++ {
			if e.Covers(c, r) {
				b.WriteString(fill)
			} else {
				b.WriteByte(' ')
			}
		}
		rows[r] = b.String()
	}
	return strings.Join(rows, "\n")
}

func frameDuration() time.Duration {
	return time.Second / engulfFPS
}
