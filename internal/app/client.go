package app

import (
	"errors"

	"github.com/atelier-dev/atelier/internal/commands"
	"github.com/atelier-dev/atelier/internal/docregistry"
	"github.com/atelier-dev/atelier/internal/future"
	"github.com/atelier-dev/atelier/internal/services"
	"github.com/atelier-dev/atelier/internal/shell"
)

// Options configures a Client. Every collaborator is optional; absent ones
// are default-constructed by New and owned by the client. Supplied ones are
// used as-is and stay owned by the caller.
type Options struct {
	Commands    *commands.Registry
	Shell       shell.Shell
	Linker      *commands.Linker
	DocRegistry *docregistry.Registry
	Services    *services.Manager

	// Restored signals that a persisted shell layout has been applied.
	// When absent it is derived from the started future: once started
	// settles, either way, the default layout resolves one frame later.
	Restored *future.Future[shell.Layout]

	// WorkspaceDir seeds the default service manager when Services is
	// absent. Defaults to the current directory.
	WorkspaceDir string
}

// Client is the composition surface extensions are authored against: the
// base application plus the linker, the document registry, the service
// manager and the restored future. The collaborators are assigned once at
// construction and never replaced.
type Client struct {
	*Application

	linker      *commands.Linker
	docRegistry *docregistry.Registry
	services    *services.Manager
	restored    *future.Future[shell.Layout]

	ownsRegistry    bool
	ownsLinker      bool
	ownsDocRegistry bool
	ownsServices    bool
}

// New creates a client, default-constructing any collaborator absent from
// opts. A failure constructing the default service manager propagates
// unchanged.
func New(opts Options) (*Client, error) {
	registry := opts.Commands
	ownsRegistry := registry == nil
	if registry == nil {
		registry = commands.NewRegistry()
	}

	sh := opts.Shell
	if sh == nil {
		sh = shell.NewDock()
	}

	linker := opts.Linker
	ownsLinker := linker == nil
	if linker == nil {
		linker = commands.NewLinker(registry)
	}

	docRegistry := opts.DocRegistry
	ownsDocRegistry := docRegistry == nil
	if docRegistry == nil {
		docRegistry = docregistry.NewRegistry()
	}

	svcs := opts.Services
	ownsServices := svcs == nil
	if svcs == nil {
		dir := opts.WorkspaceDir
		if dir == "" {
			dir = "."
		}
		var err error
		svcs, err = services.NewManager(services.DefaultConfig(dir))
		if err != nil {
			return nil, err
		}
	}

	app := NewApplication(registry, sh)

	restored := opts.Restored
	if restored == nil {
		restored = future.Absorb(app.started, func() *future.Future[shell.Layout] {
			return future.NextFrame(shell.Layout{})
		})
	}

	return &Client{
		Application:     app,
		linker:          linker,
		docRegistry:     docRegistry,
		services:        svcs,
		restored:        restored,
		ownsRegistry:    ownsRegistry,
		ownsLinker:      ownsLinker,
		ownsDocRegistry: ownsDocRegistry,
		ownsServices:    ownsServices,
	}, nil
}

// Linker returns the command linker.
func (c *Client) Linker() *commands.Linker {
	return c.linker
}

// DocRegistry returns the document registry.
func (c *Client) DocRegistry() *docregistry.Registry {
	return c.docRegistry
}

// Services returns the service manager.
func (c *Client) Services() *services.Manager {
	return c.services
}

// Restored returns the layout restoration future. It never rejects when
// derived by default: a started failure is absorbed into the default
// layout value.
func (c *Client) Restored() *future.Future[shell.Layout] {
	return c.restored
}

// Close shuts down the collaborators the client default-constructed.
// Caller-supplied collaborators are left alone.
func (c *Client) Close() error {
	var errs []error
	if c.ownsLinker {
		c.linker.Dispose()
	}
	if c.ownsDocRegistry {
		c.docRegistry.Close()
	}
	if c.ownsServices {
		if err := c.services.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.ownsRegistry {
		c.registry.Close()
	}
	return errors.Join(errs...)
}
