package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"cmdpal/internal/domain"
	"cmdpal/internal/eventbus"
	"cmdpal/internal/logging"
)

// Watch reloads the store whenever the settings file changes on disk and
// publishes ConfigLoadedEvent so the UI can pick up new limits. Editors
// often replace the file instead of writing in place, so the parent
// directory is watched rather than the file itself.
func Watch(ctx context.Context, store *Store, bus eventbus.EventBus) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dir := filepath.Dir(store.Path())
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		var last time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(store.Path()) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				// Editors fire bursts of events per save; collapse them.
				if time.Since(last) < 100*time.Millisecond {
					continue
				}
				last = time.Now()
				cfg, err := Load(store.Path())
				if err != nil {
					logging.L().Warn("config reload failed", zap.Error(err))
					bus.Publish(domain.ErrorEvent{Message: "config reload failed", Err: err})
					continue
				}
				store.Replace(cfg)
				logging.L().Info("config reloaded", zap.String("path", store.Path()))
				bus.Publish(domain.ConfigLoadedEvent{Path: store.Path()})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.L().Warn("config watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
