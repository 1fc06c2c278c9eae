package app

import (
	"github.com/atelier-dev/atelier/internal/docregistry"
	"github.com/atelier-dev/atelier/internal/log"
	"github.com/atelier-dev/atelier/internal/services"
	"github.com/atelier-dev/atelier/internal/shell"
	"github.com/atelier-dev/atelier/internal/ui/editor"
	"github.com/atelier-dev/atelier/internal/ui/preview"
)

// editorFactory opens any text-like document in the textarea editor.
type editorFactory struct{}

var _ docregistry.WidgetFactory = editorFactory{}

func (editorFactory) Name() string { return "editor" }

func (editorFactory) FileTypes() []string {
	return []string{"text", "markdown", "json", "yaml", "unknown"}
}

func (editorFactory) DefaultFor() []string {
	return []string{"text", "markdown", "json", "yaml", "unknown"}
}

func (editorFactory) New(doc *services.Document) shell.Widget {
	return editor.New(doc)
}

// previewFactory renders markdown documents read-only. It supports the
// markdown type without being default for it, so the editor stays the
// preferred factory and the preview is offered as the alternate view.
type previewFactory struct{}

var _ docregistry.WidgetFactory = previewFactory{}

func (previewFactory) Name() string { return "preview" }

func (previewFactory) FileTypes() []string { return []string{"markdown"} }

func (previewFactory) DefaultFor() []string { return nil }

func (previewFactory) New(doc *services.Document) shell.Widget {
	return preview.New(doc)
}

// registerWidgetFactories installs the built-in factories, keeping existing
// registrations when the document registry is shared.
func registerWidgetFactories(client *Client) {
	for _, f := range []docregistry.WidgetFactory{editorFactory{}, previewFactory{}} {
		if _, err := client.DocRegistry().AddWidgetFactory(f); err != nil {
			log.Debug(log.CatApp, "Widget factory already registered", "name", f.Name(), "error", err)
		}
	}
}
