// Package docregistry tracks the file types the client understands and the
// widget factories able to open them.
package docregistry

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/atelier-dev/atelier/internal/pubsub"
	"github.com/atelier-dev/atelier/internal/services"
	"github.com/atelier-dev/atelier/internal/shell"
)

// FileType describes a category of workspace files.
type FileType struct {
	// Name is the unique registry key, e.g. "markdown".
	Name string

	// DisplayName is shown in menus and pickers.
	DisplayName string

	// Extensions are matched against the file name, longest first.
	// Entries include the leading dot and may span multiple dots
	// (".tar.gz").
	Extensions []string

	// MimeTypes associated with the file type.
	MimeTypes []string

	// Icon is a single-rune marker for rails and pickers.
	Icon string
}

// WidgetFactory creates shell widgets for documents.
type WidgetFactory interface {
	// Name is the unique registry key for the factory.
	Name() string

	// FileTypes lists the file type names the factory can open.
	FileTypes() []string

	// DefaultFor lists the file type names the factory is preferred for.
	DefaultFor() []string

	// New creates a widget displaying the document.
	New(doc *services.Document) shell.Widget
}

// ChangeKind distinguishes what part of the registry changed.
type ChangeKind string

const (
	FileTypeChange ChangeKind = "filetype"
	FactoryChange  ChangeKind = "factory"
)

// Change is published on the registry broker when registrations change.
type Change struct {
	Kind ChangeKind
	Name string
}

// Disposer undoes a registration. Calling it more than once is safe.
type Disposer func()

// Registry is the document registry: file types plus widget factories.
// Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	fileTypes []FileType
	factories []WidgetFactory
	broker    *pubsub.Broker[Change]
}

// Option configures a new registry.
type Option func(*Registry)

// WithoutDefaults skips registration of the built-in file types.
func WithoutDefaults() Option {
	return func(r *Registry) { r.fileTypes = r.fileTypes[:0] }
}

// DefaultFileTypes returns the built-in file types.
func DefaultFileTypes() []FileType {
	return []FileType{
		{Name: "text", DisplayName: "Text", Extensions: []string{".txt"}, MimeTypes: []string{"text/plain"}, Icon: "≡"},
		{Name: "markdown", DisplayName: "Markdown", Extensions: []string{".md", ".markdown"}, MimeTypes: []string{"text/markdown"}, Icon: "M"},
		{Name: "json", DisplayName: "JSON", Extensions: []string{".json"}, MimeTypes: []string{"application/json"}, Icon: "{"},
		{Name: "yaml", DisplayName: "YAML", Extensions: []string{".yaml", ".yml"}, MimeTypes: []string{"application/x-yaml"}, Icon: "Y"},
		{Name: "unknown", DisplayName: "File", Icon: "?"},
	}
}

// NewRegistry creates a registry seeded with the built-in file types.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		fileTypes: DefaultFileTypes(),
		broker:    pubsub.NewBroker[Change](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddFileType registers a file type. Registering a duplicate name is an
// error. The returned disposer removes the registration.
func (r *Registry) AddFileType(ft FileType) (Disposer, error) {
	if ft.Name == "" {
		return nil, fmt.Errorf("file type name is required")
	}

	r.mu.Lock()
	for _, existing := range r.fileTypes {
		if existing.Name == ft.Name {
			r.mu.Unlock()
			return nil, fmt.Errorf("file type already registered: %s", ft.Name)
		}
	}
	r.fileTypes = append(r.fileTypes, ft)
	r.mu.Unlock()

	r.broker.Publish(pubsub.AddedEvent, Change{Kind: FileTypeChange, Name: ft.Name})

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			for i, existing := range r.fileTypes {
				if existing.Name == ft.Name {
					r.fileTypes = append(r.fileTypes[:i], r.fileTypes[i+1:]...)
					break
				}
			}
			r.mu.Unlock()
			r.broker.Publish(pubsub.RemovedEvent, Change{Kind: FileTypeChange, Name: ft.Name})
		})
	}, nil
}

// AddWidgetFactory registers a widget factory. Registering a duplicate name
// is an error. The returned disposer removes the registration.
func (r *Registry) AddWidgetFactory(f WidgetFactory) (Disposer, error) {
	if f == nil || f.Name() == "" {
		return nil, fmt.Errorf("widget factory with a name is required")
	}
	name := f.Name()

	r.mu.Lock()
	for _, existing := range r.factories {
		if existing.Name() == name {
			r.mu.Unlock()
			return nil, fmt.Errorf("widget factory already registered: %s", name)
		}
	}
	r.factories = append(r.factories, f)
	r.mu.Unlock()

	r.broker.Publish(pubsub.AddedEvent, Change{Kind: FactoryChange, Name: name})

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			for i, existing := range r.factories {
				if existing.Name() == name {
					r.factories = append(r.factories[:i], r.factories[i+1:]...)
					break
				}
			}
			r.mu.Unlock()
			r.broker.Publish(pubsub.RemovedEvent, Change{Kind: FactoryChange, Name: name})
		})
	}, nil
}

// FileTypeFor resolves the file type for a path by longest matching
// extension. Ties break toward the earlier registration. Paths matching no
// extension resolve to the "unknown" type when registered.
func (r *Registry) FileTypeFor(path string) (FileType, bool) {
	base := strings.ToLower(filepath.Base(path))

	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best    FileType
		bestLen int
		found   bool
	)
	for _, ft := range r.fileTypes {
		for _, ext := range ft.Extensions {
			if len(ext) > bestLen && strings.HasSuffix(base, strings.ToLower(ext)) {
				best = ft
				bestLen = len(ext)
				found = true
			}
		}
	}
	if found {
		return best, true
	}

	for _, ft := range r.fileTypes {
		if ft.Name == "unknown" {
			return ft, true
		}
	}
	return FileType{}, false
}

// PreferredFactories returns the factories able to open a path: factories
// that are default for its file type first, then the rest that merely
// support it, each group in registration order.
func (r *Registry) PreferredFactories(path string) []WidgetFactory {
	ft, ok := r.FileTypeFor(path)
	if !ok {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var defaults, rest []WidgetFactory
	for _, f := range r.factories {
		if containsName(f.DefaultFor(), ft.Name) {
			defaults = append(defaults, f)
		} else if containsName(f.FileTypes(), ft.Name) {
			rest = append(rest, f)
		}
	}
	return append(defaults, rest...)
}

// DefaultFactory returns the preferred factory for a path.
func (r *Registry) DefaultFactory(path string) (WidgetFactory, bool) {
	factories := r.PreferredFactories(path)
	if len(factories) == 0 {
		return nil, false
	}
	return factories[0], true
}

// FileTypes returns the registered file types in registration order.
func (r *Registry) FileTypes() []FileType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]FileType, len(r.fileTypes))
	copy(out, r.fileTypes)
	return out
}

// Factories returns the registered widget factories in registration order.
func (r *Registry) Factories() []WidgetFactory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]WidgetFactory, len(r.factories))
	copy(out, r.factories)
	return out
}

// Subscribe returns a channel of registry change events.
func (r *Registry) Subscribe(ctx context.Context) <-chan pubsub.Event[Change] {
	return r.broker.Subscribe(ctx)
}

// Close shuts down the change broker.
func (r *Registry) Close() {
	r.broker.Close()
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
