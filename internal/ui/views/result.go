package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"suggestbox/internal/domain"
)

// ResultRenderer handles rendering of recommendation entries
type ResultRenderer struct {
	styles *Styles
}

// NewResultRenderer creates a new result renderer
func NewResultRenderer(styles *Styles) *ResultRenderer {
	return &ResultRenderer{
		styles: styles,
	}
}

// RenderResult renders one recommendation as a title line, a one-line
// overview and the IMDb link when known. A selected result gets a cursor
// in front of its number.
func (r *ResultRenderer) RenderResult(index int, rec domain.Recommendation, width int, selected bool) string {
	var b strings.Builder

	prefix := fmt.Sprintf("  %2d. ", index+1)
	if selected {
		b.WriteString(r.styles.ResultCursor.Render("> "))
		b.WriteString(r.styles.ResultCursor.Render(prefix[2:]))
	} else {
		b.WriteString(r.styles.ResultIndex.Render(prefix))
	}
	b.WriteString(r.styles.ResultTitle.Render(runewidth.Truncate(rec.Title, width-len(prefix), "…")))

	indent := strings.Repeat(" ", len(prefix))
	bodyWidth := width - len(prefix)

	if rec.Overview != "" {
		b.WriteString("\n")
		b.WriteString(indent)
		b.WriteString(r.styles.ResultBody.Render(runewidth.Truncate(rec.Overview, bodyWidth, "…")))
	}
	if url := rec.IMDbURL(); url != "" {
		b.WriteString("\n")
		b.WriteString(indent)
		b.WriteString(r.styles.Link.Render(url))
	}
	return b.String()
}

// RenderResultsPlain renders the full result list for the pager, wrapping
// overviews instead of truncating them.
func (r *ResultRenderer) RenderResultsPlain(title string, results []domain.Recommendation, width int) string {
	if width <= 0 {
		width = 80
	}
	var b strings.Builder

	b.WriteString(r.styles.Title.Render(fmt.Sprintf("Because you searched %q", title)))
	b.WriteString("\n\n")

	wrap := lipgloss.NewStyle().Width(width - 4).PaddingLeft(4)
	for i, rec := range results {
		b.WriteString(r.styles.ResultIndex.Render(fmt.Sprintf("%2d. ", i+1)))
		b.WriteString(r.styles.ResultTitle.Render(rec.Title))
		b.WriteString("\n")
		if rec.Overview != "" {
			b.WriteString(wrap.Render(r.styles.ResultBody.Render(rec.Overview)))
			b.WriteString("\n")
		}
		if rec.Poster != "" {
			b.WriteString(wrap.Render("Poster: " + rec.Poster))
			b.WriteString("\n")
		}
		if url := rec.IMDbURL(); url != "" {
			b.WriteString(wrap.Render(r.styles.Link.Render(url)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ResultRenderer returns the renderer used for result entries
func (r *Renderer) ResultRenderer() *ResultRenderer {
	return r.resultRender
}
