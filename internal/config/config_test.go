package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suggestbox/internal/eventbus"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2, cfg.UI.MinQueryLength)
	assert.Equal(t, "http://127.0.0.1:5000/api/suggest", cfg.SuggestURL())
	assert.Equal(t, "http://127.0.0.1:5000/api/recommend", cfg.RecommendURL())
}

func TestLoadWritesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	svc := NewConfigService(path)

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = os.Stat(path)
	assert.NoError(t, err, "defaults should be written to disk")
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	svc := NewConfigService(path)

	cfg := DefaultConfig()
	cfg.Server.BaseURL = "https://movies.example.com/"
	cfg.UI.MaxVisible = 3
	require.NoError(t, svc.Save(cfg))

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://movies.example.com/", loaded.Server.BaseURL)
	assert.Equal(t, 3, loaded.UI.MaxVisible)
	assert.Equal(t, "https://movies.example.com/api/suggest", loaded.SuggestURL())
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[ui]\nmax_visible = 4\n"), 0o644))

	cfg, err := NewConfigService(path).LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.UI.MaxVisible)
	assert.Equal(t, 2, cfg.UI.MinQueryLength)
	assert.Equal(t, "/api/suggest", cfg.Server.SuggestPath)
}

func TestLoadFromPathRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	body := `
[server]
base_url = "ftp://movies"
suggest_path = "api/suggest"
timeout = "soon"

[ui]
min_query_length = 0
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := NewConfigService(path).LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.base_url")
	assert.Contains(t, err.Error(), "server.suggest_path")
	assert.Contains(t, err.Error(), "server.timeout")
	assert.Contains(t, err.Error(), "ui.min_query_length")
}

func TestLoadFromPathRejectsBrokenTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[server\nbase_url ="), 0o644))

	_, err := NewConfigService(path).LoadFromPath(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, err := NewConfigService("").LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorContains(t, err, "config file not found")
}

func TestRequestTimeout(t *testing.T) {
	cfg := DefaultConfig()

	d, err := cfg.RequestTimeout()
	require.NoError(t, err)
	assert.Zero(t, d)

	cfg.Server.Timeout = "1500ms"
	d, err = cfg.RequestTimeout()
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	cfg.Server.Timeout = "-1s"
	_, err = cfg.RequestTimeout()
	assert.Error(t, err)
}

func TestLoadPublishesEvent(t *testing.T) {
	bus := eventbus.New(nil)
	defer bus.Close()

	got := make(chan eventbus.DomainEvent, 1)
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) { got <- e })

	path := filepath.Join(t.TempDir(), FileName)
	_, err := NewConfigServiceWithBus(path, bus).Load()
	require.NoError(t, err)

	select {
	case e := <-got:
		ev := e.(eventbus.ConfigLoadedEvent)
		assert.Equal(t, path, ev.Path)
	case <-time.After(time.Second):
		t.Fatal("ConfigLoaded not published")
	}
}
