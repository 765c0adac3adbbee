package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"suggestbox/internal/ui/autocomplete"
)

// KeyMap holds the application-level bindings. The search box bindings are
// folded in so the help line shows everything in one place.
type KeyMap struct {
	Box    autocomplete.KeyMap
	Submit key.Binding
	Pager  key.Binding
	Help   key.Binding
	Quit   key.Binding

	// Result list bindings, active after Results moves focus there
	Results    key.Binding
	ResultNext key.Binding
	ResultPrev key.Binding
	Back       key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap(box autocomplete.KeyMap) KeyMap {
	return KeyMap{
		Box: box,
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Pager: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open results"),
		),
		// "?" would collide with typing a title
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Results: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "browse results"),
		),
		ResultNext: key.NewBinding(
			key.WithKeys("down", "j", "ctrl+n"),
			key.WithHelp("↓/j", "next result"),
		),
		ResultPrev: key.NewBinding(
			key.WithKeys("up", "k", "ctrl+p"),
			key.WithHelp("↑/k", "prev result"),
		),
		Back: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "esc"),
			key.WithHelp("esc", "back to search"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Box.Next, k.Box.Prev, k.Submit, k.Results, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Box.Next, k.Box.Prev, k.Box.Dismiss},
		{k.Submit, k.Pager},
		{k.Results, k.ResultNext, k.ResultPrev, k.Back},
		{k.Help, k.Quit},
	}
}
