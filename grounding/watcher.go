package grounding

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures the guideline directory watcher.
type WatcherConfig struct {
	// Root is the guidelines directory to watch.
	Root string

	// DebounceDelay is how long to wait for more changes before
	// re-ingesting. Defaults to 500ms.
	DebounceDelay time.Duration

	// Logger for logging events.
	Logger *slog.Logger
}

// Watcher re-ingests guideline files into the store when they change on
// disk. Editors often produce bursts of writes, so changes are debounced
// before processing.
type Watcher struct {
	config   WatcherConfig
	store    Store
	ingester *Ingester
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]struct{} // paths with unprocessed changes
}

// NewWatcher creates a watcher over the guidelines directory.
func NewWatcher(config WatcherConfig, store Store, ingester *Ingester) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceDelay == 0 {
		config.DebounceDelay = 500 * time.Millisecond
	}

	return &Watcher{
		config:   config,
		store:    store,
		ingester: ingester,
		watcher:  fsw,
		logger:   logger,
		pending:  make(map[string]struct{}),
	}, nil
}

// Start begins watching. It returns once watches are registered; event
// processing runs until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.config.Root); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("Guideline watcher started",
		"root", w.config.Root,
		"debounce", w.config.DebounceDelay)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// addWatchesRecursive adds watches to all directories under root.
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(filepath.Base(path), ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// processEvents collects fsnotify events and re-ingests after the
// debounce window passes with no further changes.
func (w *Watcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !ingestible(event.Name) {
				continue
			}
			w.pendingMu.Lock()
			w.pending[event.Name] = struct{}{}
			w.pendingMu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", "error", err)

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// flush ingests all pending paths.
func (w *Watcher) flush(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	for _, path := range paths {
		if err := w.ingester.IngestFile(ctx, w.store, path); err != nil {
			w.logger.Warn("Failed to re-ingest guideline", "path", path, "error", err)
			continue
		}
		w.logger.Debug("Re-ingested guideline", "path", path)
	}
}

// ingestible reports whether a path looks like a guideline file.
func ingestible(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".txt", ".html", ".htm":
		return true
	}
	return false
}
