// Package services provides the workspace service layer: document contents,
// sessions, and plugin settings backed by the sqlite store, with caching,
// file watching, and tracing around the lot.
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/atelier-dev/atelier/internal/cachemanager"
	"github.com/atelier-dev/atelier/internal/future"
	"github.com/atelier-dev/atelier/internal/log"
	"github.com/atelier-dev/atelier/internal/pubsub"
	"github.com/atelier-dev/atelier/internal/services/domain"
	"github.com/atelier-dev/atelier/internal/services/store"
	"github.com/atelier-dev/atelier/internal/services/tracing"
	"github.com/atelier-dev/atelier/internal/watcher"
)

// Document is the document entity handled by the contents service.
type Document = domain.Document

// NewDocument creates an unsaved in-memory document.
func NewDocument(path, content string) *Document {
	return domain.NewDocument(path, content)
}

// Session is the session entity handled by the sessions service.
type Session = domain.Session

// Session kinds accepted by the sessions service.
const (
	SessionKindDocument = domain.SessionKindDocument
	SessionKindConsole  = domain.SessionKindConsole
)

// Config holds service-manager configuration.
type Config struct {
	// WorkspaceDir is the directory holding workspace documents.
	WorkspaceDir string

	// DBPath is the sqlite store location. Defaults to
	// <WorkspaceDir>/.atelier/workspace.db.
	DBPath string

	// WatchEnabled starts the workspace file watcher.
	WatchEnabled bool

	// SkipCache bypasses the read-through caches (every read hits the store).
	SkipCache bool

	// CacheTTL is the time-to-live for cached reads.
	CacheTTL time.Duration

	// Tracing configures the otel provider for service spans.
	Tracing tracing.Config
}

// DefaultConfig returns service defaults rooted at the given workspace.
func DefaultConfig(workspaceDir string) Config {
	return Config{
		WorkspaceDir: workspaceDir,
		DBPath:       filepath.Join(workspaceDir, ".atelier", "workspace.db"),
		WatchEnabled: true,
		SkipCache:    false,
		CacheTTL:     cachemanager.DefaultExpiration,
		Tracing:      tracing.DefaultConfig(),
	}
}

// WorkspaceEvent signals a change to a workspace document observed on disk.
type WorkspaceEvent struct {
	// Path is the changed document path relative to the workspace root.
	Path string
}

// Manager composes the workspace services over a single store connection.
// Construct with NewManager; Close releases the watcher, caches, store and
// tracing provider.
type Manager struct {
	cfg      Config
	db       *store.DB
	tracing  *tracing.Provider
	watcher  *watcher.Watcher
	events   *pubsub.Broker[WorkspaceEvent]
	status   *ConnectionStatus
	ready    *future.Future[struct{}]
	contents *ContentsService
	sessions *SessionsService
	settings *SettingsService

	cancel    context.CancelFunc
	closeOnce sync.Once
	closeErr  error
}

// NewManager opens the workspace store, runs migrations, and wires the
// contents, sessions, and settings services over it.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.WorkspaceDir == "" {
		return nil, fmt.Errorf("workspace directory is required")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.WorkspaceDir, ".atelier", "workspace.db")
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = cachemanager.DefaultExpiration
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}

	ready := future.New[struct{}]()

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		ready.Reject(err)
		_ = provider.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to open workspace store: %w", err)
	}

	tracer := provider.Tracer()

	m := &Manager{
		cfg:     cfg,
		db:      db,
		tracing: provider,
		events:  pubsub.NewBroker[WorkspaceEvent](),
		status:  NewConnectionStatus(),
		ready:   ready,
	}
	m.contents = newContentsService(db.Documents(), tracer, cfg.SkipCache, cfg.CacheTTL)
	m.sessions = newSessionsService(db.Sessions(), tracer)
	m.settings = newSettingsService(db.Settings(), tracer, cfg.SkipCache, cfg.CacheTTL)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	if cfg.WatchEnabled {
		w, err := watcher.New(watcher.DefaultConfig(cfg.WorkspaceDir))
		if err != nil {
			cancel()
			_ = db.Close()
			_ = provider.Shutdown(context.Background())
			return nil, fmt.Errorf("failed to create workspace watcher: %w", err)
		}
		if err := w.Start(); err != nil {
			cancel()
			_ = db.Close()
			_ = provider.Shutdown(context.Background())
			return nil, fmt.Errorf("failed to start workspace watcher: %w", err)
		}
		m.watcher = w
		go m.forwardChanges(ctx)
	}

	m.status.Set(true)
	ready.Resolve(struct{}{})

	log.Info(log.CatServices, "workspace services ready",
		"workspace", cfg.WorkspaceDir, "db", cfg.DBPath)

	return m, nil
}

// Contents returns the document contents service.
func (m *Manager) Contents() *ContentsService { return m.contents }

// Sessions returns the sessions service.
func (m *Manager) Sessions() *SessionsService { return m.sessions }

// Settings returns the plugin settings service.
func (m *Manager) Settings() *SettingsService { return m.settings }

// Events returns the broker carrying workspace change events.
func (m *Manager) Events() *pubsub.Broker[WorkspaceEvent] { return m.events }

// Status returns the store connection status signal.
func (m *Manager) Status() *ConnectionStatus { return m.status }

// Ready settles once the store is open and migrations have run.
func (m *Manager) Ready() *future.Future[struct{}] { return m.ready }

// WorkspaceDir returns the workspace root this manager serves.
func (m *Manager) WorkspaceDir() string { return m.cfg.WorkspaceDir }

// forwardChanges turns debounced watcher changes into workspace events and
// invalidates cached document content for the changed path.
func (m *Manager) forwardChanges(ctx context.Context) {
	changes := m.watcher.Broker().Subscribe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			m.contents.invalidate(ctx, change.Payload.Path)
			m.events.Publish(pubsub.ChangedEvent, WorkspaceEvent{Path: change.Payload.Path})
			log.Debug(log.CatWatcher, "workspace change", "path", change.Payload.Path)
		}
	}
}

// Close releases the watcher, caches, store, and tracing provider.
// Safe to call more than once.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		m.cancel()
		if m.watcher != nil {
			if err := m.watcher.Stop(); err != nil {
				m.closeErr = fmt.Errorf("failed to stop watcher: %w", err)
			}
		}
		m.status.Set(false)
		m.status.Close()
		m.events.Close()
		if err := m.db.Close(); err != nil && m.closeErr == nil {
			m.closeErr = fmt.Errorf("failed to close store: %w", err)
		}
		if err := m.tracing.Shutdown(context.Background()); err != nil && m.closeErr == nil {
			m.closeErr = fmt.Errorf("failed to shut down tracing: %w", err)
		}
	})
	return m.closeErr
}
