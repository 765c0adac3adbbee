package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"suggestbox/internal/config"
	"suggestbox/internal/domain"
	"suggestbox/internal/eventbus"
	"suggestbox/internal/search"
	"suggestbox/internal/ui/autocomplete"
	"suggestbox/internal/ui/views"
)

const statusTTL = 4 * time.Second

// Recommender fetches recommendations for a submitted title
type Recommender interface {
	Recommend(ctx context.Context, title string) ([]domain.Recommendation, error)
}

// ClientFactory builds the HTTP collaborators for a config. It is called
// again whenever the config file changes.
type ClientFactory func(cfg *config.Config) (autocomplete.Suggester, Recommender, error)

// Options wires the model's collaborators
type Options struct {
	Bus         eventbus.EventBus
	Logger      *log.Logger
	Suggester   autocomplete.Suggester
	Recommender Recommender
	NewClients  ClientFactory
}

// Model represents the UI state: the search box acting as a form, and the
// results of the last submission.
type Model struct {
	bus         eventbus.EventBus
	config      *config.Config
	logger      *log.Logger
	recommender Recommender
	newClients  ClientFactory

	box      *autocomplete.Model
	keys     KeyMap
	help     help.Model
	renderer *views.Renderer
	pager    *PagerOps

	width  int
	height int
	ready  bool

	title        string
	results      []domain.Recommendation
	searching    bool
	// focusResults moves keystrokes from the box to the result list
	focusResults bool
	resultCursor int
	searchToken  uint64
	searchCancel context.CancelFunc

	status      string
	statusKind  views.StatusKind
	statusToken uint64

	inPagerMode bool

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(cfg *config.Config, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	boxOpts := autocomplete.DefaultOptions()
	boxOpts.MinQueryLength = cfg.UI.MinQueryLength
	boxOpts.MaxVisible = cfg.UI.MaxVisible
	boxOpts.Width = cfg.UI.Width
	boxOpts.Placeholder = cfg.UI.Placeholder
	boxOpts.Logger = logger.WithPrefix("autocomplete")
	boxOpts.Bus = opts.Bus

	box := autocomplete.New(opts.Suggester, boxOpts)
	renderer := views.NewRenderer()
	box.SetOrigin(renderer.BoxOrigin())

	return &Model{
		bus:         opts.Bus,
		config:      cfg,
		logger:      logger,
		recommender: opts.Recommender,
		newClients:  opts.NewClients,
		box:         box,
		keys:        DefaultKeyMap(box.KeyMap()),
		help:        help.New(),
		renderer:    renderer,
		pager:       NewPagerOps(),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return m.box.Init()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeBox()
		if !m.ready {
			m.ready = true
			m.publish(eventbus.AppReadyEvent{})
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		if m.focusResults && msg.Action == tea.MouseActionPress {
			return m, tea.Batch(m.focusBox(), m.box.Update(msg))
		}
		return m, m.box.Update(msg)

	case autocomplete.SubmitMsg:
		return m, m.submit(msg.Query)

	case searchResultMsg:
		return m, m.settleSearch(msg)

	case ConfigReloadedMsg:
		return m, m.applyConfig(msg.Config)

	case pagerMsg:
		if msg.err != nil {
			m.logger.Warn("pager failed", "err", msg.err)
			return m, m.flash(views.StatusError, fmt.Sprintf("Pager failed: %v", msg.err))
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		if msg.token == m.statusToken {
			m.status = ""
		}
		return m, nil
	}

	// Cursor blink, spinner ticks and suggestion responses belong to the box
	return m, m.box.Update(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.Pager):
		return m.showResultsInPager()
	}

	if m.focusResults {
		return m.handleResultKey(msg)
	}
	if key.Matches(msg, m.keys.Results) && len(m.results) > 0 {
		m.focusResults = true
		m.resultCursor = 0
		m.box.Dismiss()
		m.box.Blur()
		return nil
	}

	// Enter with a highlighted suggestion is the box's; otherwise it submits
	// whatever was typed.
	if key.Matches(msg, m.keys.Submit) && !m.box.HasSelection() {
		m.box.Dismiss()
		return m.submit(m.box.Value())
	}

	return m.box.Update(msg)
}

// handleResultKey moves through the results. Enter searches for the
// highlighted title, the same way picking it in the box would.
func (m *Model) handleResultKey(msg tea.KeyMsg) tea.Cmd {
	if len(m.results) == 0 {
		return m.focusBox()
	}
	switch {
	case key.Matches(msg, m.keys.ResultNext):
		if m.resultCursor < len(m.results)-1 {
			m.resultCursor++
		}
	case key.Matches(msg, m.keys.ResultPrev):
		if m.resultCursor > 0 {
			m.resultCursor--
		}
	case key.Matches(msg, m.keys.Submit):
		title := m.results[m.resultCursor].Title
		m.logger.Debug("more like this", "title", title)
		m.box.SetValue(title)
		return m.submit(title)
	case key.Matches(msg, m.keys.Back):
		return m.focusBox()
	}
	return nil
}

// focusBox hands keystrokes back to the search box
func (m *Model) focusBox() tea.Cmd {
	if !m.focusResults {
		return nil
	}
	m.focusResults = false
	m.resultCursor = 0
	return m.box.Focus()
}

// submit runs a recommendation request for title, superseding any
// previous one
func (m *Model) submit(title string) tea.Cmd {
	title = strings.TrimSpace(title)
	m.cancelSearch()
	m.searchToken++

	if title == "" {
		m.publish(eventbus.SearchFailedEvent{Title: title, Err: search.ErrEmptyTitle})
		m.setStatus(views.StatusError, statusForError(search.ErrEmptyTitle))
		return nil
	}
	if m.recommender == nil {
		m.setStatus(views.StatusError, "No recommendation service configured")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.searchCancel = cancel
	m.searching = true
	m.title = title
	m.setStatus(views.StatusLoading, fmt.Sprintf("Searching for %q…", title))

	m.logger.Info("search submitted", "title", title)
	m.publish(eventbus.SearchSubmittedEvent{Title: title})

	token := m.searchToken
	recommender := m.recommender
	return func() tea.Msg {
		results, err := recommender.Recommend(ctx, title)
		return searchResultMsg{token: token, title: title, results: results, err: err}
	}
}

func (m *Model) settleSearch(msg searchResultMsg) tea.Cmd {
	if msg.token != m.searchToken {
		m.logger.Debug("dropping stale search result", "title", msg.title)
		return nil
	}
	m.searching = false
	if m.searchCancel != nil {
		m.searchCancel()
		m.searchCancel = nil
	}

	if msg.err != nil {
		m.logger.Error("search failed", "title", msg.title, "err", msg.err)
		m.publish(eventbus.SearchFailedEvent{Title: msg.title, Err: msg.err})
		m.results = nil
		m.setStatus(views.StatusError, statusForError(msg.err))
		return m.focusBox()
	}

	m.results = msg.results
	m.resultCursor = 0
	m.publish(eventbus.SearchCompletedEvent{Title: msg.title, Results: msg.results})
	if len(msg.results) == 0 {
		m.setStatus(views.StatusInfo, fmt.Sprintf("No recommendations for %q", msg.title))
		return m.focusBox()
	}
	m.setStatus(views.StatusSuccess, fmt.Sprintf("%d recommendations for %q", len(msg.results), msg.title))
	return nil
}

func (m *Model) cancelSearch() {
	if m.searchCancel != nil {
		m.searchCancel()
		m.searchCancel = nil
	}
	m.searching = false
}

func statusForError(err error) string {
	switch {
	case errors.Is(err, search.ErrEmptyTitle):
		return "Please enter a movie name"
	case errors.Is(err, search.ErrMalformedResponse):
		return "The server sent an unexpected response"
	default:
		return fmt.Sprintf("Search failed: %v", err)
	}
}

// applyConfig pushes a reloaded config into the box and rebuilds clients
func (m *Model) applyConfig(cfg *config.Config) tea.Cmd {
	if cfg == nil {
		return nil
	}

	if m.newClients != nil {
		suggester, recommender, err := m.newClients(cfg)
		if err != nil {
			m.logger.Warn("keeping previous clients", "err", err)
			return m.flash(views.StatusError, fmt.Sprintf("Config not applied: %v", err))
		}
		m.box.SetSuggester(suggester)
		m.cancelSearch()
		m.recommender = recommender
	}

	m.config = cfg
	m.box.SetMinQueryLength(cfg.UI.MinQueryLength)
	m.box.SetMaxVisible(cfg.UI.MaxVisible)
	m.box.SetPlaceholder(cfg.UI.Placeholder)
	m.resizeBox()

	m.logger.Info("config applied", "base_url", cfg.Server.BaseURL)
	return m.flash(views.StatusInfo, "Config reloaded")
}

func (m *Model) resizeBox() {
	w := m.config.UI.Width
	if w <= 0 {
		w = config.DefaultConfig().UI.Width
	}
	if m.width > 0 && w > m.width-4 {
		w = m.width - 4
	}
	m.box.SetWidth(w)
}

// showResultsInPager opens the full result list in ov
func (m *Model) showResultsInPager() tea.Cmd {
	if len(m.results) == 0 {
		return nil
	}
	if m.program == nil {
		return m.flash(views.StatusError, "Pager unavailable")
	}

	content := m.renderer.ResultRenderer().RenderResultsPlain(m.title, m.results, m.width)
	program := m.program
	pager := m.pager
	return func() tea.Msg {
		program.Send(pauseRenderingMsg{})
		err := pager.ShowInPager(content)
		program.Send(resumeRenderingMsg{})
		return pagerMsg{err: err}
	}
}

func (m *Model) setStatus(kind views.StatusKind, text string) {
	m.statusToken++
	m.status = text
	m.statusKind = kind
}

// flash sets a status that clears itself
func (m *Model) flash(kind views.StatusKind, text string) tea.Cmd {
	m.setStatus(kind, text)
	token := m.statusToken
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{token: token}
	})
}

func (m *Model) publish(e eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}

// shutdown cancels all outstanding requests
func (m *Model) shutdown() {
	m.box.Close()
	m.cancelSearch()
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	selected := -1
	if m.focusResults {
		selected = m.resultCursor
	}

	return m.renderer.Render(views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Box:            m.box.View(),
		BoxHeight:      m.box.Height(),
		Title:          m.title,
		Results:        m.results,
		SelectedResult: selected,
		Searching:      m.searching,
		StatusMessage:  m.status,
		StatusKind:     m.statusKind,
		HelpView:       m.help.View(m.keys),
	})
}

// Box exposes the search box
func (m *Model) Box() *autocomplete.Model {
	return m.box
}

// Results returns the last successful result list
func (m *Model) Results() []domain.Recommendation {
	return m.results
}

// SelectedResult returns the highlighted result, -1 while the box has focus
func (m *Model) SelectedResult() int {
	if !m.focusResults {
		return -1
	}
	return m.resultCursor
}

// Status returns the status line text
func (m *Model) Status() string {
	return m.status
}
