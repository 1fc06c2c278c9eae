// Package app composes the client application: the command registry, the
// shell, the service collaborators and the root Bubble Tea model.
package app

import (
	"github.com/atelier-dev/atelier/internal/commands"
	"github.com/atelier-dev/atelier/internal/future"
	"github.com/atelier-dev/atelier/internal/log"
	"github.com/atelier-dev/atelier/internal/shell"
)

// ContextMenuEvent snapshots a right-click: the innermost node under the
// pointer and the click position in cells.
type ContextMenuEvent struct {
	Target shell.Node
	X      int
	Y      int
}

// Application is the base capability set the client builds on: the command
// registry, the shell, and the started lifecycle future.
type Application struct {
	registry *commands.Registry
	shell    shell.Shell
	started  *future.Future[struct{}]

	// Single-slot snapshot of the most recent right-click. Mutated only
	// from the update loop, so no lock.
	contextMenu *ContextMenuEvent
}

// NewApplication creates the base application over the given registry and
// shell.
func NewApplication(registry *commands.Registry, sh shell.Shell) *Application {
	return &Application{
		registry: registry,
		shell:    sh,
		started:  future.New[struct{}](),
	}
}

// Commands returns the command registry.
func (a *Application) Commands() *commands.Registry {
	return a.registry
}

// Shell returns the shell.
func (a *Application) Shell() shell.Shell {
	return a.shell
}

// Started returns the lifecycle future that settles once the shell has
// attached its initial widgets.
func (a *Application) Started() *future.Future[struct{}] {
	return a.started
}

// Start resolves the started future. Later calls are no-ops.
func (a *Application) Start() {
	if a.started.Resolve(struct{}{}) {
		log.Info(log.CatApp, "Application started")
	}
}

// FailStart rejects the started future. Later calls are no-ops.
func (a *Application) FailStart(err error) {
	if a.started.Reject(err) {
		log.Error(log.CatApp, "Application start failed", "error", err)
	}
}

// RecordContextMenu stores the right-click snapshot, fully replacing any
// earlier one.
func (a *Application) RecordContextMenu(ev ContextMenuEvent) {
	a.contextMenu = &ev
}

// LastContextMenu returns the most recent right-click snapshot. Reports
// false before the first right-click.
func (a *Application) LastContextMenu() (ContextMenuEvent, bool) {
	if a.contextMenu == nil {
		return ContextMenuEvent{}, false
	}
	return *a.contextMenu, true
}

// ContextMenuFirst walks the ancestor chain of the last right-click target,
// innermost-out, and returns the first node satisfying pred. Reports false
// when no right-click was recorded or no node matches.
func (a *Application) ContextMenuFirst(pred func(shell.Node) bool) (shell.Node, bool) {
	if a.contextMenu == nil || a.contextMenu.Target == nil {
		return nil, false
	}
	return shell.AncestorFirst(a.contextMenu.Target, pred)
}
