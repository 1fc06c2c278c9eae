// Package commands provides the application command registry and the linker
// that binds registered commands to click targets.
package commands

import (
	"context"
	"fmt"
	"sort"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atelier-dev/atelier/internal/log"
	"github.com/atelier-dev/atelier/internal/pubsub"
)

// Args carries the arguments for a single command invocation.
type Args map[string]any

// String returns the string value for key, or the empty string.
func (a Args) String(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

// Command describes an executable action registered under an id.
type Command struct {
	// Label is the display name shown in palettes and menus.
	Label string

	// Caption is an optional longer description.
	Caption string

	// IsEnabled reports whether the command can currently run.
	// A nil func means always enabled.
	IsEnabled func(Args) bool

	// Execute runs the command and may return a follow-up tea.Cmd.
	Execute func(Args) (tea.Cmd, error)
}

// Change describes a registry mutation.
type Change struct {
	ID string
}

// Disposer undoes a registration. Safe to call more than once.
type Disposer func()

// ErrNotFound is returned when executing an unregistered command id.
var ErrNotFound = fmt.Errorf("command not found")

// ErrDisabled is returned when executing a command whose IsEnabled
// check rejects the given arguments.
var ErrDisabled = fmt.Errorf("command disabled")

// Registry holds commands by id and notifies subscribers of changes.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	broker   *pubsub.Broker[Change]
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		broker:   pubsub.NewBroker[Change](),
	}
}

// Add registers a command under id. Registering an id twice is an error.
// The returned disposer removes the command again.
func (r *Registry) Add(id string, cmd Command) (Disposer, error) {
	if cmd.Execute == nil {
		return nil, fmt.Errorf("command %q: Execute is required", id)
	}

	r.mu.Lock()
	if _, exists := r.commands[id]; exists {
		r.mu.Unlock()
		return nil, fmt.Errorf("command %q already registered", id)
	}
	r.commands[id] = cmd
	r.mu.Unlock()

	log.Debug(log.CatCommands, "Command registered", "id", id)
	r.broker.Publish(pubsub.AddedEvent, Change{ID: id})

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.commands, id)
			r.mu.Unlock()
			r.broker.Publish(pubsub.RemovedEvent, Change{ID: id})
		})
	}, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.commands[id]
	return ok
}

// Execute runs the command registered under id with the given arguments.
func (r *Registry) Execute(id string, args Args) (tea.Cmd, error) {
	r.mu.RLock()
	cmd, ok := r.commands[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if cmd.IsEnabled != nil && !cmd.IsEnabled(args) {
		return nil, fmt.Errorf("%w: %s", ErrDisabled, id)
	}

	log.Debug(log.CatCommands, "Executing command", "id", id)
	return cmd.Execute(args)
}

// Label returns the display label for id, or the empty string.
func (r *Registry) Label(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commands[id].Label
}

// Caption returns the caption for id, or the empty string.
func (r *Registry) Caption(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commands[id].Caption
}

// IsEnabled reports whether the command can run with the given arguments.
// Unregistered ids are disabled.
func (r *Registry) IsEnabled(id string, args Args) bool {
	r.mu.RLock()
	cmd, ok := r.commands[id]
	r.mu.RUnlock()

	if !ok {
		return false
	}
	if cmd.IsEnabled == nil {
		return true
	}
	return cmd.IsEnabled(args)
}

// List returns all registered ids in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.commands))
	for id := range r.commands {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Subscribe returns a channel of registry changes bound to ctx.
func (r *Registry) Subscribe(ctx context.Context) <-chan pubsub.Event[Change] {
	return r.broker.Subscribe(ctx)
}

// Close shuts down the change broker.
func (r *Registry) Close() {
	r.broker.Close()
}
