package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ezchuang/GoPacTimer/internal/core"
	"github.com/ezchuang/GoPacTimer/internal/notify"
	"github.com/ezchuang/GoPacTimer/internal/pills"
	"github.com/ezchuang/GoPacTimer/internal/strip"
)

const (
	appTitle    = "GoPacTimer"
	finishTitle = "Time is up!"
)

type Options struct {
	Pills        bool
	PillSpacing  int
	Status       bool
	ExitOnFinish bool
	Theme        Theme
}

type Model struct {
	driver   *core.Driver
	notifier notify.Notifier
	logger   *slog.Logger
	opts     Options

	layout   strip.Layout
	track    *pills.Track
	progress progress.Model
	engulf   Engulf

	x    int
	done bool
	quit bool
	err  error
}

func NewModel(driver *core.Driver, notifier notify.Notifier, logger *slog.Logger, opts Options) (*Model, error) {
	if driver == nil {
		return nil, fmt.Errorf("nil driver")
	}
	if notifier == nil {
		notifier = notify.Nop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{
		driver:   driver,
		notifier: notifier,
		logger:   logger,
		opts:     opts,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		x:        -1,
	}
	// subscribe to phase changes for the log
	driver.SetOnAdvance(func(st core.State) {
		logger.Info("phase changed", "phase", st.Phase.String(), "ends_at", st.EndsAt)
	})
	return m, nil
}

// Run blocks until the user quits. It returns the error that stopped the
// countdown, if any.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.err
}

type (
	movingMsg    struct{}
	mouthMsg     struct{}
	pollMsg      struct{}
	engulfMsg    struct{}
	alertDoneMsg struct{ err error }
)

func delayCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return movingMsg{} })
}

func mouthCmd() tea.Cmd {
	return tea.Tick(core.MouthInterval, func(time.Time) tea.Msg { return mouthMsg{} })
}

func pollCmd() tea.Cmd {
	return tea.Tick(core.PollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

func engulfCmd() tea.Cmd {
	return tea.Tick(frameDuration(), func(time.Time) tea.Msg { return engulfMsg{} })
}

func (m *Model) notifyCmd(title, body string, alert bool) tea.Cmd {
	return func() tea.Msg {
		if alert {
			return alertDoneMsg{err: m.notifier.Alert(title, body)}
		}
		return alertDoneMsg{err: m.notifier.Notify(title, body)}
	}
}

func (m *Model) Init() tea.Cmd {
	delay, err := m.driver.Start()
	if err != nil {
		m.err = err
		return tea.Quit
	}
	plan := m.driver.Plan()
	m.logger.Info("countdown started",
		"total_minutes", plan.TotalMinutes,
		"animation_minutes", plan.AnimationMinutes,
		"start_delay_ms", plan.StartDelayMs)
	return delayCmd(delay)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if m.done {
			m.quit = true
			return m, tea.Quit
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case movingMsg:
		if err := m.driver.BeginMoving(); err != nil {
			m.logger.Error("begin moving", "error", err)
			return m, nil
		}
		m.x = 0
		left := m.driver.Plan().AnimationDuration().Round(time.Second)
		return m, tea.Batch(mouthCmd(), pollCmd(), m.notifyCmd(appTitle, fmt.Sprintf("%s left", left), false))

	case mouthMsg:
		if _, err := m.driver.ToggleMouth(); err != nil {
			// moving phase is over; stop re-arming
			return m, nil
		}
		return m, mouthCmd()

	case pollMsg:
		return m, m.poll()

	case engulfMsg:
		m.engulf = m.engulf.Step()
		if !m.engulf.Settled() {
			return m, engulfCmd()
		}
		m.done = true
		if m.opts.ExitOnFinish {
			return m, tea.Quit
		}

	case alertDoneMsg:
		if msg.err != nil {
			m.logger.Warn("notification failed", "error", msg.err)
		}
	}
	return m, nil
}

func (m *Model) poll() tea.Cmd {
	st := m.driver.Poll()
	m.x = m.layout.MarkerX(m.driver.Progress())
	if m.track != nil {
		if eaten := m.track.Consume(m.layout.LeadingEdge(m.x)); len(eaten) > 0 {
			m.logger.Debug("pills eaten", "positions", eaten, "remaining", m.track.Remaining())
		}
	}
	if st.Phase != core.PhaseFinished {
		return pollCmd()
	}

	if m.track != nil {
		m.track.Drain()
	}
	m.engulf = NewEngulf(m.layout.Width, m.layout.Height)
	total := m.driver.Plan().Total().Round(time.Second)
	m.logger.Info("countdown finished", "total", total)
	return tea.Batch(engulfCmd(), m.notifyCmd(finishTitle, fmt.Sprintf("%s countdown finished", total), true))
}

func (m *Model) resize(width, height int) {
	m.layout = strip.Layout{Width: width, Height: height}
	m.progress.Width = max(10, width-24)

	st := m.driver.State()
	if st.Phase == core.PhaseMoving || st.Phase == core.PhaseFinished {
		m.x = m.layout.MarkerX(m.driver.Progress())
	}
	if !m.opts.Pills {
		return
	}
	prev := m.track
	m.track = pills.NewTrack(width, m.opts.PillSpacing)
	if m.x >= 0 {
		m.track.Consume(m.layout.LeadingEdge(m.x))
	}
	if prev != nil {
		m.track.Trim(prev.Remaining())
	}
	if st.Phase == core.PhaseFinished {
		m.track.Drain()
	}
}

func (m *Model) View() string {
	if m.quit {
		return ""
	}
	st := m.driver.State()
	theme := m.opts.Theme

	if st.Phase == core.PhaseFinished {
		if !m.done {
			return m.engulf.View(theme.Engulf)
		}
		return lipgloss.Place(m.layout.Width, m.layout.Height, lipgloss.Center, lipgloss.Center,
			theme.Banner.Render(finishTitle+"\n\npress any key to exit"),
			lipgloss.WithWhitespaceChars(strip.GlyphClosed),
			lipgloss.WithWhitespaceForeground(theme.Engulf))
	}

	x := m.x
	if st.Phase != core.PhaseMoving {
		x = -1
	}
	view := m.layout.View(x, st.MouthOpen, m.track, theme.strip())
	if !m.opts.Status {
		return view
	}
	return view + "\n\n" + m.statusLine()
}

func (m *Model) statusLine() string {
	total := m.driver.Plan().Total()
	remain := m.driver.Remaining()
	var ratio float64
	if total > 0 {
		ratio = 1 - float64(remain)/float64(total)
	}
	if ratio < 0 {
		ratio = 0
	}
	info := fmt.Sprintf("%s  %s left", m.driver.State().Phase, remain.Truncate(time.Second))
	if m.track != nil {
		info += fmt.Sprintf("  %d/%d pills", m.track.Remaining(), m.track.Len())
	}
	help := m.opts.Theme.Status.Render("[q] quit")
	return strings.Join([]string{m.opts.Theme.Status.Render(info), m.progress.ViewAs(ratio), help}, "\n")
}
