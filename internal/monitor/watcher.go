package monitor

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"suggestbox/internal/config"
)

const debounce = 75 * time.Millisecond

// ConfigWatcher reloads the config file whenever it changes on disk.
// Editors often replace files instead of writing them, so the parent
// directory is watched and events are filtered by name.
type ConfigWatcher struct {
	svc      config.ConfigService
	path     string
	logger   *log.Logger
	onChange func(*config.Config)
}

// NewConfigWatcher creates a watcher for svc.Path(). onChange runs on the
// watcher goroutine for every successfully parsed and validated file.
func NewConfigWatcher(svc config.ConfigService, logger *log.Logger, onChange func(*config.Config)) *ConfigWatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &ConfigWatcher{
		svc:      svc,
		path:     filepath.Clean(svc.Path()),
		logger:   logger,
		onChange: onChange,
	}
}

// Run blocks until ctx is cancelled or the watcher fails to start.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.logger.Debug("watching config", "path", w.path)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)

		case <-timer.C:
			w.reload()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watch error", "err", err)
		}
	}
}

func (w *ConfigWatcher) reload() {
	cfg, err := w.svc.LoadFromPath(w.path)
	if err != nil {
		w.logger.Warn("ignoring config change", "path", w.path, "err", err)
		return
	}
	w.logger.Info("config reloaded", "path", w.path)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
