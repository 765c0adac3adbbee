// Package autocomplete implements a search box with a suggestion dropdown.
//
// Every change to the input value issues one request to a Suggester, after
// clearing the dropdown and cancelling the previous request. Responses are
// tagged with the token of the request that produced them and only the
// current token may touch the dropdown. Errors never reach the user: a failed
// or cancelled request simply leaves the dropdown empty.
package autocomplete

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"suggestbox/internal/eventbus"
)

// Suggester returns suggestions for a trimmed query
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]string, error)
}

// SuggesterFunc adapts a function to Suggester
type SuggesterFunc func(ctx context.Context, query string) ([]string, error)

// Suggest calls f
func (f SuggesterFunc) Suggest(ctx context.Context, query string) ([]string, error) {
	return f(ctx, query)
}

const (
	defaultMinQueryLength = 2
	defaultMaxVisible     = 8
	defaultWidth          = 60
	minWidth              = 12
	promptText            = "› "
)

// Options configures a Model
type Options struct {
	MinQueryLength int
	MaxVisible     int
	Width          int
	Placeholder    string
	KeyMap         KeyMap
	Styles         Styles
	Logger         *log.Logger
	Bus            eventbus.EventBus
}

// DefaultOptions returns options matching the default config
func DefaultOptions() Options {
	return Options{
		MinQueryLength: defaultMinQueryLength,
		MaxVisible:     defaultMaxVisible,
		Width:          defaultWidth,
		Placeholder:    "Type a movie title",
		KeyMap:         DefaultKeyMap(),
		Styles:         DefaultStyles(),
	}
}

// Model is the autocomplete controller. It is not safe for concurrent use;
// all calls must come from the Bubble Tea update loop.
type Model struct {
	opts      Options
	suggester Suggester
	logger    *log.Logger

	input   textinput.Model
	spinner spinner.Model

	query    string
	items    []string
	selected int
	offset   int

	token    uint64
	cancel   context.CancelFunc
	inFlight bool
	spinning bool

	originX int
	originY int
}

// New creates a widget bound to suggester
func New(suggester Suggester, opts Options) *Model {
	if opts.MinQueryLength < 1 {
		opts.MinQueryLength = defaultMinQueryLength
	}
	if opts.MaxVisible < 1 {
		opts.MaxVisible = defaultMaxVisible
	}
	if opts.Width < minWidth {
		opts.Width = defaultWidth
	}
	if opts.KeyMap.Next.Keys() == nil {
		opts.KeyMap = DefaultKeyMap()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ti := textinput.New()
	ti.Prompt = opts.Styles.Prompt.Render(promptText)
	ti.Placeholder = opts.Placeholder
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(opts.Styles.Spinner))

	m := &Model{
		opts:      opts,
		suggester: suggester,
		logger:    logger,
		input:     ti,
		spinner:   sp,
		selected:  -1,
	}
	m.SetWidth(opts.Width)
	return m
}

// Init starts the cursor blink
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key, mouse and response messages
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case suggestionsMsg:
		m.settle(msg)
		return nil

	case spinner.TickMsg:
		if !m.inFlight {
			m.spinning = false
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if len(m.items) > 0 {
		switch {
		case key.Matches(msg, m.opts.KeyMap.Next):
			m.move(1)
			return nil
		case key.Matches(msg, m.opts.KeyMap.Prev):
			m.move(-1)
			return nil
		case key.Matches(msg, m.opts.KeyMap.Accept):
			if m.selected >= 0 {
				return m.activate(m.selected)
			}
		case key.Matches(msg, m.opts.KeyMap.Dismiss):
			m.Dismiss()
			return nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, m.inputChanged())
}

// inputChanged runs on every change of the input value
func (m *Model) inputChanged() tea.Cmd {
	q := strings.TrimSpace(m.input.Value())
	m.query = q
	m.clearList()
	m.supersede()

	if utf8.RuneCountInString(q) < m.opts.MinQueryLength {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.inFlight = true
	token := m.token
	suggester := m.suggester

	m.logger.Debug("suggest request", "query", q, "token", token)
	if m.opts.Bus != nil {
		m.opts.Bus.Publish(eventbus.QueryIssuedEvent{Query: q})
	}

	fetch := func() tea.Msg {
		items, err := suggester.Suggest(ctx, q)
		return suggestionsMsg{token: token, query: q, items: items, err: err}
	}

	if m.spinning {
		return fetch
	}
	m.spinning = true
	return tea.Batch(fetch, m.spinner.Tick)
}

// settle applies a response if it belongs to the current request
func (m *Model) settle(msg suggestionsMsg) {
	if msg.token != m.token {
		m.logger.Debug("dropping stale suggestions", "query", msg.query, "token", msg.token, "current", m.token)
		return
	}

	m.inFlight = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			m.logger.Debug("suggest request cancelled", "query", msg.query)
		} else {
			m.logger.Debug("suggest request failed", "query", msg.query, "err", msg.err)
		}
		return
	}

	m.setItems(msg.items)
	if m.opts.Bus != nil && len(m.items) > 0 {
		m.opts.Bus.Publish(eventbus.SuggestionsShownEvent{Query: msg.query, Count: len(m.items)})
	}
}

// supersede cancels the in-flight request and invalidates its token
func (m *Model) supersede() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.token++
	m.inFlight = false
}

func (m *Model) setItems(items []string) {
	m.items = append([]string(nil), items...)
	m.selected = -1
	m.offset = 0
}

func (m *Model) clearList() {
	m.items = nil
	m.selected = -1
	m.offset = 0
}

// move steps the selection circularly. Up from no selection lands on the
// last item.
func (m *Model) move(delta int) {
	n := len(m.items)
	if n == 0 {
		return
	}
	switch {
	case m.selected < 0 && delta < 0:
		m.selected = n - 1
	case delta > 0:
		m.selected = (m.selected + 1) % n
	default:
		m.selected = (m.selected - 1 + n) % n
	}
	m.scrollToSelected()
}

// scrollToSelected keeps the selected row inside the visible window
func (m *Model) scrollToSelected() {
	if m.selected < 0 {
		return
	}
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+m.opts.MaxVisible {
		m.offset = m.selected - m.opts.MaxVisible + 1
	}
}

// activate fills the input with item i and asks the form to submit it
func (m *Model) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.items) {
		return nil
	}
	text := m.items[i]
	m.input.SetValue(text)
	m.input.CursorEnd()
	m.query = strings.TrimSpace(text)
	m.Dismiss()
	return func() tea.Msg { return SubmitMsg{Query: text} }
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	x := msg.X - m.originX
	y := msg.Y - m.originY
	inColumns := x >= 0 && x < m.opts.Width

	switch {
	case inColumns && y == 0:
		return nil
	case inColumns && y >= 1 && y <= m.visibleCount():
		return m.activate(m.offset + y - 1)
	case inColumns && y > 0 && y < m.Height():
		// footer row belongs to the list
		return nil
	default:
		m.Dismiss()
		return nil
	}
}

// Dismiss closes the dropdown and drops any pending request so it cannot
// reopen by itself.
func (m *Model) Dismiss() {
	m.clearList()
	m.supersede()
}

// Close releases the in-flight request. The widget must not be used after.
func (m *Model) Close() {
	m.supersede()
}

// SetSuggester swaps the suggestion backend; pending requests are dropped
func (m *Model) SetSuggester(s Suggester) {
	m.suggester = s
	m.Dismiss()
}

// SetOrigin records the screen cell of the widget's top-left corner
func (m *Model) SetOrigin(x, y int) {
	m.originX = x
	m.originY = y
}

// SetWidth sets the total width in cells
func (m *Model) SetWidth(w int) {
	if w < minWidth {
		w = minWidth
	}
	m.opts.Width = w
	m.input.Width = w - utf8.RuneCountInString(promptText) - 3
}

// SetMinQueryLength changes the request threshold
func (m *Model) SetMinQueryLength(n int) {
	if n < 1 {
		n = 1
	}
	m.opts.MinQueryLength = n
}

// SetMaxVisible changes the dropdown height
func (m *Model) SetMaxVisible(n int) {
	if n < 1 {
		n = 1
	}
	m.opts.MaxVisible = n
	m.offset = 0
	m.scrollToSelected()
}

// SetPlaceholder changes the placeholder text
func (m *Model) SetPlaceholder(s string) {
	m.input.Placeholder = s
}

// Focus focuses the input
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur blurs the input
func (m *Model) Blur() {
	m.input.Blur()
}

// Value returns the raw input value
func (m *Model) Value() string {
	return m.input.Value()
}

// SetValue replaces the input text without asking for suggestions. The
// dropdown is closed.
func (m *Model) SetValue(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
	m.query = strings.TrimSpace(s)
	m.Dismiss()
}

// Width returns the total width in cells
func (m *Model) Width() int {
	return m.opts.Width
}

// Focused reports whether the input takes keystrokes
func (m *Model) Focused() bool {
	return m.input.Focused()
}

// Query returns the trimmed value as of the last input change
func (m *Model) Query() string {
	return m.query
}

// Items returns a copy of the rendered suggestions
func (m *Model) Items() []string {
	return append([]string(nil), m.items...)
}

// Selected returns the selection index, -1 when nothing is selected
func (m *Model) Selected() int {
	return m.selected
}

// HasSelection reports whether Enter would activate an item
func (m *Model) HasSelection() bool {
	return m.selected >= 0 && m.selected < len(m.items)
}

// InFlight reports whether a suggestion request is outstanding
func (m *Model) InFlight() bool {
	return m.inFlight
}

// Offset returns the index of the first visible row
func (m *Model) Offset() int {
	return m.offset
}

// KeyMap returns the active bindings
func (m *Model) KeyMap() KeyMap {
	return m.opts.KeyMap
}

func (m *Model) visibleCount() int {
	return min(len(m.items)-m.offset, m.opts.MaxVisible)
}

// Height returns the number of rows View renders
func (m *Model) Height() int {
	h := 1 + m.visibleCount()
	if len(m.items) > m.opts.MaxVisible {
		h++
	}
	return h
}
