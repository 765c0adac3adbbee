package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"suggestbox/internal/domain"
)

const (
	mainPadY = 1
	mainPadX = 2
)

// StatusKind selects the style of the status line
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width     int
	Height    int
	Box       string
	BoxHeight int
	Title     string
	Results   []domain.Recommendation
	// SelectedResult is the highlighted result, -1 while the box has focus
	SelectedResult int
	Searching      bool
	StatusMessage  string
	StatusKind     StatusKind
	HelpView       string
}

// Renderer handles all view rendering
type Renderer struct {
	styles       *Styles
	resultRender *ResultRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:       styles,
		resultRender: NewResultRenderer(styles),
	}
}

// BoxOrigin returns the screen cell where the search box starts. It is
// derived from the header Render draws above the box.
func (r *Renderer) BoxOrigin() (x, y int) {
	return mainPadX, mainPadY + lipgloss.Height(r.renderHeader(ViewState{})) + 1
}

// renderHeader renders the title with the search indicator beside it
func (r *Renderer) renderHeader(state ViewState) string {
	logo := r.styles.Title.Render("suggestbox")
	if !state.Searching {
		return logo
	}

	right := r.styles.Dim.Render(fmt.Sprintf("Searching %q", state.Title))
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	gap := termWidth - 2*mainPadX - lipgloss.Width(logo) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, logo, strings.Repeat(" ", gap), right)
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	header := r.renderHeader(state)
	content.WriteString(header)
	content.WriteString("\n\n")

	content.WriteString(state.Box)
	content.WriteString("\n\n")

	// Lines left for results once the fixed rows are accounted for
	availableLines := state.Height - 2*mainPadY
	if availableLines <= 0 {
		availableLines = 22
	}
	helpLines := lipgloss.Height(state.HelpView)
	fixed := lipgloss.Height(header) + 1 + state.BoxHeight + 1 + 2 + helpLines
	resultLines := availableLines - fixed

	content.WriteString(r.renderResults(state, resultLines))

	if state.StatusMessage != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.Status.Render(r.statusStyle(state.StatusKind).Render(state.StatusMessage)))
	}

	// Push help to the bottom
	currentLines := strings.Count(content.String(), "\n") + 1
	if pad := availableLines - currentLines - helpLines; pad > 0 {
		content.WriteString(strings.Repeat("\n", pad))
	}
	content.WriteString("\n")
	content.WriteString(r.styles.Help.Render(state.HelpView))

	mainStyle := r.styles.Main.MaxHeight(state.Height)
	if state.Height <= 0 {
		mainStyle = r.styles.Main
	}
	return mainStyle.Render(content.String())
}

func (r *Renderer) statusStyle(kind StatusKind) lipgloss.Style {
	switch kind {
	case StatusLoading:
		return r.styles.StatusLoading
	case StatusSuccess:
		return r.styles.StatusSuccess
	case StatusError:
		return r.styles.StatusError
	default:
		return lipgloss.NewStyle()
	}
}

// renderResults renders as many results as fit in maxLines, starting late
// enough that the selected result is among them
func (r *Renderer) renderResults(state ViewState, maxLines int) string {
	if len(state.Results) == 0 {
		if state.Title != "" && !state.Searching {
			return r.styles.Dim.Render("No recommendations.")
		}
		return r.styles.Dim.Render("Pick a title and press enter for recommendations.")
	}

	width := state.Width - 2*mainPadX
	if width <= 0 {
		width = 76
	}

	lines, shown := r.resultWindow(state, 0, width, maxLines)
	if sel := state.SelectedResult; sel >= shown {
		lines, shown = r.resultWindow(state, sel, width, maxLines)
		shown += sel
	}

	if hidden := len(state.Results) - shown; hidden > 0 {
		lines = append(lines, r.styles.Scroll.Render(
			fmt.Sprintf("%d more, ctrl+o to page through all %d", hidden, len(state.Results))))
	}
	return strings.Join(lines, "\n")
}

// resultWindow renders results from start on and reports how many fit
func (r *Renderer) resultWindow(state ViewState, start, width, maxLines int) ([]string, int) {
	var lines []string
	shown := 0
	for i := start; i < len(state.Results); i++ {
		block := strings.Split(r.resultRender.RenderResult(i, state.Results[i], width, i == state.SelectedResult), "\n")
		need := len(block)
		if i < len(state.Results)-1 {
			need++ // overflow hint
		}
		if maxLines > 0 && shown > 0 && len(lines)+need > maxLines {
			break
		}
		lines = append(lines, block...)
		shown++
	}
	return lines, shown
}
