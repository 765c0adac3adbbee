package autocomplete

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// View renders the input line followed by the dropdown rows
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.input.View())
	if m.inFlight {
		b.WriteString(" ")
		b.WriteString(m.spinner.View())
	}

	if len(m.items) == 0 {
		return b.String()
	}

	// Padding(0, 1) on the row styles takes two cells
	textWidth := m.opts.Width - 2
	end := m.offset + m.visibleCount()
	for i := m.offset; i < end; i++ {
		text := runewidth.FillRight(runewidth.Truncate(m.items[i], textWidth, "…"), textWidth)
		style := m.opts.Styles.Item
		if i == m.selected {
			style = m.opts.Styles.Selected
		}
		b.WriteString("\n")
		b.WriteString(style.Render(text))
	}

	if len(m.items) > m.opts.MaxVisible {
		footer := fmt.Sprintf("%d-%d of %d", m.offset+1, end, len(m.items))
		b.WriteString("\n")
		b.WriteString(m.opts.Styles.Footer.Render(runewidth.FillRight(footer, textWidth)))
	}

	return b.String()
}
