package commands

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/atelier-dev/atelier/internal/log"
)

// binding associates a mouse zone with a command invocation.
type binding struct {
	command string
	args    Args
}

// Linker converts command id and argument pairs into invokable click
// handlers. Views mark their clickable regions with bubblezone ids; the
// linker resolves a mouse release inside a bound zone to the registered
// command.
type Linker struct {
	mu       sync.RWMutex
	registry *Registry
	bindings map[string]binding
	disposed bool
}

// NewLinker creates a linker bound to the given command registry.
func NewLinker(registry *Registry) *Linker {
	return &Linker{
		registry: registry,
		bindings: make(map[string]binding),
	}
}

// Registry returns the command registry this linker dispatches into.
func (l *Linker) Registry() *Registry {
	return l.registry
}

// Bind connects the zone id to a command invocation. Rebinding a zone
// replaces the previous binding.
func (l *Linker) Bind(zoneID, command string, args Args) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.disposed {
		return
	}
	l.bindings[zoneID] = binding{command: command, args: args}
}

// Disconnect removes the binding for the zone id, if any.
func (l *Linker) Disconnect(zoneID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.bindings, zoneID)
}

// Handle resolves a mouse message against the bound zones. On a left-button
// release inside a bound zone it executes the linked command and reports
// true. Messages outside any zone report false.
func (l *Linker) Handle(msg tea.MouseMsg) (tea.Cmd, bool) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return nil, false
	}

	l.mu.RLock()
	if l.disposed {
		l.mu.RUnlock()
		return nil, false
	}
	var hit *binding
	for zoneID, b := range l.bindings {
		info := zone.Get(zoneID)
		if info == nil || info.IsZero() {
			continue
		}
		if info.InBounds(msg) {
			b := b
			hit = &b
			break
		}
	}
	l.mu.RUnlock()

	if hit == nil {
		return nil, false
	}

	cmd, err := l.registry.Execute(hit.command, hit.args)
	if err != nil {
		log.Warn(log.CatCommands, "Linked command failed", "command", hit.command, "error", err)
		return nil, true
	}
	return cmd, true
}

// BoundCommands returns the command ids currently bound, keyed by zone id.
func (l *Linker) BoundCommands() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]string, len(l.bindings))
	for zoneID, b := range l.bindings {
		out[zoneID] = b.command
	}
	return out
}

// Dispose clears all bindings and disables the linker.
func (l *Linker) Dispose() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bindings = nil
	l.disposed = true
}

// Disposed reports whether Dispose has been called.
func (l *Linker) Disposed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.disposed
}
