// Package watcher provides file system watching with debouncing for the
// workspace directory.
package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atelier-dev/atelier/internal/pubsub"
)

// Change describes a debounced file change inside the workspace.
type Change struct {
	// Path is the changed file path relative to the workspace root.
	Path string
}

// Watcher monitors the workspace directory for changes and publishes
// debounced change events on its broker.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	debounce  time.Duration
	broker    *pubsub.Broker[Change]
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	// Root is the workspace directory to watch.
	Root string

	// DebounceDur coalesces rapid writes to the same file into one event.
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(root string) Config {
	return Config{
		Root:        root,
		DebounceDur: 1 * time.Second,
	}
}

// New creates a new workspace watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		root:      cfg.Root,
		debounce:  cfg.DebounceDur,
		broker:    pubsub.NewBroker[Change](),
		done:      make(chan struct{}),
	}, nil
}

// Broker returns the broker change events are published on.
func (w *Watcher) Broker() *pubsub.Broker[Change] {
	return w.broker
}

// Start begins watching the workspace root.
func (w *Watcher) Start() error {
	if err := w.fsWatcher.Add(w.root); err != nil {
		return fmt.Errorf("watching directory %s: %w", w.root, err)
	}

	go w.loop()

	return nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.fsWatcher.Close()
	w.broker.Close()
	return err
}

// loop processes file system events, debouncing per path.
func (w *Watcher) loop() {
	timers := make(map[string]*time.Timer)
	fired := make(chan string, 16)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			rel, err := filepath.Rel(w.root, event.Name)
			if err != nil {
				rel = filepath.Base(event.Name)
			}

			if timer, exists := timers[rel]; exists {
				timer.Reset(w.debounce)
				continue
			}
			path := rel
			timers[path] = time.AfterFunc(w.debounce, func() {
				select {
				case fired <- path:
				case <-w.done:
				}
			})

		case path := <-fired:
			delete(timers, path)
			w.broker.Publish(pubsub.ChangedEvent, Change{Path: path})

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Keep watching on transient errors; callers see changes
			// only, not watcher internals.

		case <-w.done:
			for _, timer := range timers {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should be surfaced to subscribers.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}

	base := filepath.Base(event.Name)

	// Skip hidden files and the workspace store
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch filepath.Ext(base) {
	case ".db", ".db-wal", ".db-shm", ".bak":
		return false
	}
	return true
}
