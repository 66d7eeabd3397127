// Package plain renders the countdown as a single progress bar line, for
// pipes, dumb terminals and --plain.
package plain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/ezchuang/GoPacTimer/internal/core"
	"github.com/ezchuang/GoPacTimer/internal/notify"
	"github.com/ezchuang/GoPacTimer/internal/pills"
	"github.com/ezchuang/GoPacTimer/internal/strip"
)

// DefaultWidth is the bar width when the terminal size is unknown.
const DefaultWidth = 64

type Options struct {
	Out         io.Writer
	Width       int
	Pills       bool
	PillSpacing int
	Notifier    notify.Notifier
	Logger      *slog.Logger
}

// Run blocks until the countdown finishes or ctx is cancelled.
func Run(ctx context.Context, driver *core.Driver, opts Options) error {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	layout := strip.Layout{Width: opts.Width}

	var track *pills.Track
	if opts.Pills {
		track = pills.NewTrack(opts.Width, opts.PillSpacing)
	}
	var left atomic.Int64
	if track != nil {
		left.Store(int64(track.Remaining()))
	}

	plan := driver.Plan()
	fmt.Fprintf(opts.Out, "counting down %s, the marker shows up for the last %s\n",
		plan.Total().Round(time.Second), plan.AnimationDuration().Round(time.Second))

	var (
		p   *mpb.Progress
		bar *mpb.Bar
	)
	total := int64(opts.Width)

	err := driver.Run(ctx, core.Hooks{
		OnMoving: func(core.State) {
			p = mpb.NewWithContext(ctx,
				mpb.WithOutput(opts.Out),
				mpb.WithWidth(opts.Width+2),
				mpb.WithRefreshRate(core.PollInterval))
			padding := " "
			if track != nil {
				padding = strip.GlyphPill
			}
			bar = p.New(total,
				mpb.BarStyle().Lbound("[").Filler(" ").Tip(strip.GlyphOpen).Padding(padding).Rbound("]"),
				mpb.PrependDecorators(
					decor.Any(func(decor.Statistics) string {
						return strip.Glyph(driver.State().MouthOpen)
					}, decor.WC{W: 2, C: decor.DindentRight}),
				),
				mpb.AppendDecorators(
					decor.Any(func(decor.Statistics) string {
						return driver.Remaining().Truncate(time.Second).String()
					}, decor.WC{W: 8}),
					decor.Any(func(decor.Statistics) string {
						if track == nil {
							return ""
						}
						return fmt.Sprintf(" %d pills", left.Load())
					}),
				),
			)
		},
		OnPoll: func(st core.State, progress float64) {
			x := layout.MarkerX(progress)
			if track != nil {
				if eaten := track.Consume(layout.LeadingEdge(x)); len(eaten) > 0 {
					opts.Logger.Debug("pills eaten", "positions", eaten, "remaining", track.Remaining())
				}
				if st.Phase == core.PhaseFinished {
					track.Drain()
				}
				left.Store(int64(track.Remaining()))
			}
			if bar != nil {
				bar.SetCurrent(min(int64(x), total))
			}
		},
		OnFinish: func(core.State) {
			if bar != nil {
				bar.SetCurrent(total)
			}
		},
	})
	if p != nil {
		if err != nil && bar != nil {
			bar.Abort(false)
		}
		p.Wait()
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(opts.Out, "Time is up!")
	if aerr := opts.Notifier.Alert("Time is up!", fmt.Sprintf("%s countdown finished", plan.Total().Round(time.Second))); aerr != nil {
		opts.Logger.Warn("notification failed", "error", aerr)
	}
	return nil
}
