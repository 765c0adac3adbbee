package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	ResultTitle   lipgloss.Style
	ResultIndex   lipgloss.Style
	ResultBody    lipgloss.Style
	ResultCursor  lipgloss.Style
	Link          lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(mainPadY, mainPadX),
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		ResultTitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226")),
		ResultIndex:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		ResultBody:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ResultCursor:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Link:          lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Underline(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}
