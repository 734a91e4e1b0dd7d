package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher monitors a settings file and swaps a fresh registry into the store
// when the file changes. A reload that fails validation keeps the previous
// snapshot in place.
type Watcher struct {
	path         string
	store        *Store
	watcher      *fsnotify.Watcher
	log          zerolog.Logger
	stopChan     chan struct{}
	reloadChan   chan struct{}
	debounceTime time.Duration
}

// NewWatcher creates a settings file watcher bound to a store
func NewWatcher(path string, store *Store, logger zerolog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Resolve absolute path for consistent watching
	absPath, err := filepath.Abs(path)
	if err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to resolve settings path: %w", err)
	}

	return &Watcher{
		path:         absPath,
		store:        store,
		watcher:      fsWatcher,
		log:          logger.With().Str("settings_file", absPath).Logger(),
		stopChan:     make(chan struct{}),
		reloadChan:   make(chan struct{}, 1),
		debounceTime: 500 * time.Millisecond,
	}, nil
}

// Start begins monitoring the settings file
func (w *Watcher) Start(ctx context.Context) error {
	// Watch the containing directory; editors replace files on save, which
	// drops a watch placed on the file itself.
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch settings directory %s: %w", dir, err)
	}

	w.log.Info().Msg("watching settings file")

	go w.watchLoop(ctx)
	go w.reloadLoop(ctx)

	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() {
	close(w.stopChan)
	if err := w.watcher.Close(); err != nil {
		w.log.Error().Err(err).Msg("error closing file watcher")
	}
}

func (w *Watcher) watchLoop(ctx context.Context) {
	fileName := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != fileName {
				continue
			}
			switch {
			case event.Op&fsnotify.Write == fsnotify.Write,
				event.Op&fsnotify.Create == fsnotify.Create,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				w.log.Debug().Str("op", event.Op.String()).Msg("settings file change detected")
				w.triggerReload()
			case event.Op&fsnotify.Remove == fsnotify.Remove:
				w.log.Warn().Msg("settings file removed")
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("settings watcher error")
		}
	}
}

func (w *Watcher) reloadLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-w.reloadChan:
			// Debounce rapid successive writes before reloading
			timer := time.NewTimer(w.debounceTime)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-w.stopChan:
				timer.Stop()
				return
			case <-timer.C:
			}
			w.reload()
		}
	}
}

func (w *Watcher) triggerReload() {
	select {
	case w.reloadChan <- struct{}{}:
	default:
		// Reload already pending
	}
}

func (w *Watcher) reload() {
	registry, err := LoadRegistry(w.path)
	if err != nil {
		w.log.Error().Err(err).Msg("settings reload failed, keeping previous snapshot")
		return
	}

	w.store.Swap(registry)
	w.log.Info().Int("servers", len(registry.Names())).Msg("settings reloaded")
}
