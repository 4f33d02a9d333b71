package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/felixgeelhaar/multistate/domain/config"
	"github.com/felixgeelhaar/multistate/infrastructure/logging"
)

// ReloadFunc is invoked with the freshly loaded definition after the
// watched file changes and parses successfully.
type ReloadFunc func(*config.Definition)

// Watcher reloads a model definition file when it changes on disk.
// Editors often replace files via rename, so the parent directory is
// watched and events are filtered by name.
type Watcher struct {
	path     string
	loader   *Loader
	onReload ReloadFunc
	debounce time.Duration
}

// NewWatcher creates a watcher for the given definition file.
func NewWatcher(path string, loader *Loader, onReload ReloadFunc) *Watcher {
	if loader == nil {
		loader = NewLoader()
	}
	return &Watcher{
		path:     filepath.Clean(path),
		loader:   loader,
		onReload: onReload,
		debounce: 100 * time.Millisecond,
	}
}

// Watch blocks until the context is canceled, invoking the reload
// callback on every successful reload. Parse failures are logged and
// the previous definition stays in effect.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Coalesce bursts of events from a single save.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logging.Warn().
				Add(logging.ErrorField(err)).
				Msg("definition watch error")

		case <-fire:
			def, err := w.loader.LoadFile(w.path)
			if err != nil {
				logging.Warn().
					Add(logging.ErrorField(err)).
					Msg("definition reload failed")
				continue
			}
			logging.Info().Msg("definition reloaded")
			if w.onReload != nil {
				w.onReload(def)
			}
		}
	}
}
