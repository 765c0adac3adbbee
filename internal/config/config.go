package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"
	"github.com/pelletier/go-toml/v2"

	"suggestbox/internal/eventbus"
)

// FileName is the name of the config file inside the config directory
const FileName = "config.toml"

// Config represents the application configuration
type Config struct {
	Version int            `toml:"version"`
	Server  ServerSettings `toml:"server"`
	UI      UISettings     `toml:"ui"`
	Log     LogSettings    `toml:"log"`
}

// ServerSettings describes the movie server the client talks to
type ServerSettings struct {
	BaseURL       string `toml:"base_url"`
	SuggestPath   string `toml:"suggest_path"`
	RecommendPath string `toml:"recommend_path"`
	Timeout       string `toml:"timeout"` // Go duration, "0" or empty disables
}

// UISettings represents UI-related configuration
type UISettings struct {
	MinQueryLength int    `toml:"min_query_length"`
	MaxVisible     int    `toml:"max_visible"`
	Placeholder    string `toml:"placeholder"`
	Width          int    `toml:"width"`
}

// LogSettings controls the log file
type LogSettings struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service backed by path. An empty path
// selects <UserConfigDir>/suggestbox/config.toml.
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "suggestbox", FileName)
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, writing defaults if it is missing
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg = DefaultConfig()
		if err := cs.Save(cfg); err != nil {
			log.Warn("could not write default config", "path", cs.filePath, "err", err)
		}
	} else {
		cfg, err = cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:    cs.filePath,
			BaseURL: cfg.Server.BaseURL,
		})
	}

	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path. Keys absent from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports every problem with the config at once
func (c *Config) Validate() error {
	var result *multierror.Error

	u, err := url.Parse(c.Server.BaseURL)
	switch {
	case err != nil:
		result = multierror.Append(result, fmt.Errorf("server.base_url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		result = multierror.Append(result, fmt.Errorf("server.base_url: scheme must be http or https, got %q", u.Scheme))
	case u.Host == "":
		result = multierror.Append(result, errors.New("server.base_url: missing host"))
	}

	if !strings.HasPrefix(c.Server.SuggestPath, "/") {
		result = multierror.Append(result, fmt.Errorf("server.suggest_path: must start with /, got %q", c.Server.SuggestPath))
	}
	if !strings.HasPrefix(c.Server.RecommendPath, "/") {
		result = multierror.Append(result, fmt.Errorf("server.recommend_path: must start with /, got %q", c.Server.RecommendPath))
	}
	if _, err := c.RequestTimeout(); err != nil {
		result = multierror.Append(result, err)
	}

	if c.UI.MinQueryLength < 1 {
		result = multierror.Append(result, fmt.Errorf("ui.min_query_length: must be at least 1, got %d", c.UI.MinQueryLength))
	}
	if c.UI.MaxVisible < 1 {
		result = multierror.Append(result, fmt.Errorf("ui.max_visible: must be at least 1, got %d", c.UI.MaxVisible))
	}
	if c.UI.Width < 0 {
		result = multierror.Append(result, fmt.Errorf("ui.width: must not be negative, got %d", c.UI.Width))
	}

	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			result = multierror.Append(result, fmt.Errorf("log.level: %w", err))
		}
	}

	return result.ErrorOrNil()
}

// RequestTimeout parses server.timeout. Zero means no client timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if c.Server.Timeout == "" || c.Server.Timeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil {
		return 0, fmt.Errorf("server.timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("server.timeout: must not be negative, got %s", d)
	}
	return d, nil
}

// SuggestURL joins the base URL and the suggest path
func (c *Config) SuggestURL() string {
	return strings.TrimRight(c.Server.BaseURL, "/") + c.Server.SuggestPath
}

// RecommendURL joins the base URL and the recommend path
func (c *Config) RecommendURL() string {
	return strings.TrimRight(c.Server.BaseURL, "/") + c.Server.RecommendPath
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: ServerSettings{
			BaseURL:       "http://127.0.0.1:5000",
			SuggestPath:   "/api/suggest",
			RecommendPath: "/api/recommend",
			Timeout:       "0",
		},
		UI: UISettings{
			MinQueryLength: 2,
			MaxVisible:     8,
			Placeholder:    "Type a movie title",
			Width:          60,
		},
		Log: LogSettings{
			Level: "info",
			File:  "suggestbox.log",
		},
	}
}
