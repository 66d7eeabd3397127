package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ezchuang/GoPacTimer/internal/strip"
)

type Theme struct {
	Marker lipgloss.Style
	Pill   lipgloss.Style
	Status lipgloss.Style
	Banner lipgloss.Style
	Engulf lipgloss.Color
}

func DefaultTheme() Theme {
	return Theme{
		Marker: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Pill:   lipgloss.NewStyle().Foreground(lipgloss.Color("223")),
		Status: lipgloss.NewStyle().Faint(true),
		Banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("11")).
			Padding(1, 4),
		Engulf: lipgloss.Color("11"),
	}
}

func (t Theme) strip() strip.Styles {
	return strip.Styles{Marker: t.Marker, Pill: t.Pill}
}
