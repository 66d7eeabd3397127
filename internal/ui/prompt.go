package ui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ezchuang/GoPacTimer/internal/config"
)

var ErrPromptCancelled = errors.New("duration prompt cancelled")

// Prompt asks for the countdown length when none was given on the command line.
type Prompt struct {
	input     textinput.Model
	fallback  float64
	minutes   float64
	err       error
	submitted bool
	cancelled bool
}

func NewPrompt(fallback float64) *Prompt {
	ti := textinput.New()
	ti.Placeholder = strconv.FormatFloat(fallback, 'f', -1, 64)
	ti.CharLimit = 12
	ti.Width = 12
	ti.Prompt = "minutes: "
	ti.Focus()
	return &Prompt{input: ti, fallback: fallback}
}

// RunPrompt shows the dialog inline and returns the chosen minutes.
func RunPrompt(fallback float64) (float64, error) {
	p := NewPrompt(fallback)
	if _, err := tea.NewProgram(p).Run(); err != nil {
		return 0, err
	}
	return p.Result()
}

func (p *Prompt) Result() (float64, error) {
	if p.cancelled {
		return 0, ErrPromptCancelled
	}
	return p.minutes, nil
}

func (p *Prompt) Init() tea.Cmd { return textinput.Blink }

func (p *Prompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit
		case tea.KeyEnter:
			raw := p.input.Value()
			if raw == "" {
				p.minutes = p.fallback
				p.submitted = true
				return p, tea.Quit
			}
			v, err := config.ParseMinutes(raw)
			if err != nil {
				p.err = err
				return p, nil
			}
			p.minutes = v
			p.submitted = true
			return p, tea.Quit
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Prompt) View() string {
	if p.submitted || p.cancelled {
		return ""
	}
	title := lipgloss.NewStyle().Bold(true).Render(appTitle)
	body := fmt.Sprintf("%s\n\nHow many minutes to count down?\n\n%s", title, p.input.View())
	if p.err != nil {
		body += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(p.err.Error())
	}
	body += "\n" + lipgloss.NewStyle().Faint(true).Render("[enter] start  [esc] cancel")
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2).Render(body) + "\n"
}
