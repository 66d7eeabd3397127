// Package strip maps countdown progress onto the thin band drawn at the top
// of the terminal and renders it.
package strip

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/ezchuang/GoPacTimer/internal/pills"
)

const (
	// MarkerWidth is the number of cells the marker occupies.
	MarkerWidth = 1
	// screenFraction of the terminal height given to the strip.
	screenFraction = 16
)

const (
	GlyphOpen   = "ᗧ"
	GlyphClosed = "●"
	GlyphPill   = "•"
)

type Layout struct {
	Width  int
	Height int
}

func (l Layout) StripHeight() int {
	return max(1, l.Height/screenFraction)
}

// Row is the strip line the marker travels on.
func (l Layout) Row() int {
	return l.StripHeight() / 2
}

// MarkerX starts the marker at column 0 and ends it at Width, just past the
// right border.
func (l Layout) MarkerX(progress float64) int {
	progress = math.Min(1, math.Max(0, progress))
	return int(math.Round(progress * float64(l.Width)))
}

func (l Layout) LeadingEdge(x int) int {
	return x + MarkerWidth - 1
}

type Styles struct {
	Marker lipgloss.Style
	Pill   lipgloss.Style
}

func Glyph(mouthOpen bool) string {
	if mouthOpen {
		return GlyphOpen
	}
	return GlyphClosed
}

// Render draws the marker line. x < 0 hides the marker. track may be nil.
func (l Layout) Render(x int, mouthOpen bool, track *pills.Track, st Styles) string {
	if l.Width <= 0 {
		return ""
	}
	var b strings.Builder
	for col := 0; col < l.Width; col++ {
		switch {
		case x >= 0 && col >= x && col < x+MarkerWidth:
			b.WriteString(st.Marker.Render(Glyph(mouthOpen)))
		case track != nil && track.At(col):
			b.WriteString(st.Pill.Render(GlyphPill))
		default:
			b.WriteByte(' ')
		}
	}
	return ansi.Truncate(b.String(), l.Width, "")
}

// View renders the whole strip, blank rows around the marker line.
func (l Layout) View(x int, mouthOpen bool, track *pills.Track, st Styles) string {
	blank := strings.Repeat(" ", max(0, l.Width))
	rows := make([]string, l.StripHeight())
	for i := range rows {
		if i == l.Row() {
			rows[i] = l.Render(x, mouthOpen, track, st)
		} else {
			rows[i] = blank
		}
	}
	return strings.Join(rows, "\n")
}
