package autocomplete

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used to render the widget
type Styles struct {
	Prompt   lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Footer   lipgloss.Style
	Spinner  lipgloss.Style
}

// DefaultStyles returns the default widget styles
func DefaultStyles() Styles {
	return Styles{
		Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true),
		Item: lipgloss.NewStyle().
			Padding(0, 1).
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("252")),
		Selected: lipgloss.NewStyle().
			Padding(0, 1).
			Background(lipgloss.Color("60")).
			Foreground(lipgloss.Color("255")).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Padding(0, 1).
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("242")).
			Italic(true),
		Spinner: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
