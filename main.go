package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"suggestbox/internal/config"
	"suggestbox/internal/eventbus"
	"suggestbox/internal/logger"
	"suggestbox/internal/monitor"
	"suggestbox/internal/search"
	"suggestbox/internal/suggest"
	"suggestbox/internal/ui"
	"suggestbox/internal/ui/autocomplete"
)

func main() {
	var (
		configPath string
		baseURL    string
		debug      bool
	)
	flag.StringVar(&configPath, "config", "", "Path to config file (default: user config dir)")
	flag.StringVar(&baseURL, "url", "", "Override the server base URL")
	flag.BoolVar(&debug, "debug", false, "Log at debug level")
	flag.Parse()

	// The log file is named by the config, so output is held until the
	// config is read
	logOut := logger.NewDeferred()
	appLog := logger.New(logOut, "suggestbox", log.DebugLevel)

	bus := eventbus.New(appLog)
	defer bus.Close()
	observe(bus, appLog)

	// Load configuration before the TUI takes over the terminal so problems
	// can still be printed
	configSvc := config.NewConfigServiceWithBus(configPath, bus)
	cfg, err := configSvc.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if baseURL != "" {
		cfg.Server.BaseURL = baseURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -url: %v\n", err)
			os.Exit(1)
		}
	}

	// Set up logging
	level := logger.ParseLevel(cfg.Log.Level)
	if debug {
		level = log.DebugLevel
	}
	appLog.SetLevel(level)
	logFile, logCloser, err := logger.OpenFile(logPath(cfg, configSvc.Path()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	if err := logOut.Attach(logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Could not write log file: %v\n", err)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	newClients := clientFactory(appLog.WithPrefix("clients"))
	suggester, recommender, err := newClients(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating clients: %v\n", err)
		os.Exit(1)
	}

	uiModel := ui.NewModel(cfg, ui.Options{
		Bus:         bus,
		Logger:      appLog,
		Suggester:   suggester,
		Recommender: recommender,
		NewClients:  newClients,
	})

	p := tea.NewProgram(uiModel,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	uiModel.SetProgram(p)

	watcher := monitor.NewConfigWatcher(configSvc, appLog.WithPrefix("config"), func(next *config.Config) {
		if baseURL != "" {
			next.Server.BaseURL = baseURL
		}
		bus.Publish(eventbus.ConfigReloadedEvent{Path: configSvc.Path()})
		p.Send(ui.ConfigReloadedMsg{Config: next})
	})
	go func() {
		if err := watcher.Run(ctx); err != nil {
			appLog.Warn("config watcher stopped", "err", err)
		}
	}()

	appLog.Info("starting UI")
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		appLog.Error("error running program", "err", err)
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	appLog.Info("UI exited normally")
}

// clientFactory builds the HTTP collaborators for a config
func clientFactory(l *log.Logger) ui.ClientFactory {
	return func(cfg *config.Config) (autocomplete.Suggester, ui.Recommender, error) {
		timeout, err := cfg.RequestTimeout()
		if err != nil {
			return nil, nil, err
		}
		sc := suggest.NewClient(cfg.SuggestURL(), timeout)
		rc := search.NewRecommender(cfg.RecommendURL(), timeout)
		l.Info("clients configured", "suggest", sc.Endpoint(), "recommend", rc.Endpoint(), "timeout", timeout)
		return sc, rc, nil
	}
}

// logPath resolves a relative log file against the config directory
func logPath(cfg *config.Config, configPath string) string {
	if cfg.Log.File == "" || filepath.IsAbs(cfg.Log.File) {
		return cfg.Log.File
	}
	return filepath.Join(filepath.Dir(configPath), cfg.Log.File)
}

// observe logs every domain event. The prefixed logger is derived per
// event so a later SetLevel on l still applies.
func observe(bus eventbus.EventBus, l *log.Logger) {
	events := func() *log.Logger { return l.WithPrefix("events") }

	bus.Subscribe(eventbus.EventQueryIssued, func(e eventbus.DomainEvent) {
		events().Debug("query issued", "query", e.(eventbus.QueryIssuedEvent).Query)
	})
	bus.Subscribe(eventbus.EventSuggestionsShown, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.SuggestionsShownEvent)
		events().Debug("suggestions shown", "query", ev.Query, "count", ev.Count)
	})
	bus.Subscribe(eventbus.EventSearchSubmitted, func(e eventbus.DomainEvent) {
		events().Info("search submitted", "title", e.(eventbus.SearchSubmittedEvent).Title)
	})
	bus.Subscribe(eventbus.EventSearchCompleted, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.SearchCompletedEvent)
		events().Info("search completed", "title", ev.Title, "results", len(ev.Results))
	})
	bus.Subscribe(eventbus.EventSearchFailed, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.SearchFailedEvent)
		events().Warn("search failed", "title", ev.Title, "err", ev.Err)
	})
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		ev := e.(eventbus.ConfigLoadedEvent)
		events().Info("config loaded", "path", ev.Path, "base_url", ev.BaseURL)
	})
	bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
		events().Info("config saved", "path", e.(eventbus.ConfigSavedEvent).Path)
	})
	bus.Subscribe(eventbus.EventConfigReloaded, func(e eventbus.DomainEvent) {
		events().Info("config reloaded", "path", e.(eventbus.ConfigReloadedEvent).Path)
	})
	bus.Subscribe(eventbus.EventAppReady, func(eventbus.DomainEvent) {
		events().Debug("ui ready")
	})
}
