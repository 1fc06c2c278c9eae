package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/atelier-dev/atelier/internal/commands"
	"github.com/atelier-dev/atelier/internal/future"
	"github.com/atelier-dev/atelier/internal/keys"
	"github.com/atelier-dev/atelier/internal/log"
	"github.com/atelier-dev/atelier/internal/pubsub"
	"github.com/atelier-dev/atelier/internal/services"
	"github.com/atelier-dev/atelier/internal/shell"
	"github.com/atelier-dev/atelier/internal/ui/commandpalette"
	"github.com/atelier-dev/atelier/internal/ui/contextmenu"
	"github.com/atelier-dev/atelier/internal/ui/editor"
	"github.com/atelier-dev/atelier/internal/ui/logoverlay"
	"github.com/atelier-dev/atelier/internal/ui/statusbar"
)

// Built-in command ids.
const (
	CmdQuit       = "app:quit"
	CmdToggleLogs = "app:logs"
	CmdSaveDoc    = "docs:save"
	CmdNewDoc     = "docs:new"
	CmdPreviewDoc = "docs:preview"
	CmdActivate   = "shell:activate"
)

// Settings keys used by the workbench itself.
const (
	settingsPlugin      = "workbench"
	settingLastDocument = "last-document"
)

// Internal messages produced by built-in commands.
type (
	toggleLogsMsg  struct{}
	saveCurrentMsg struct{}
	newUntitledMsg struct{}
	previewMsg     struct{}

	activateWidgetMsg struct {
		id string
	}

	layoutRestoredMsg struct {
		layout shell.Layout
	}

	docOpenedMsg struct {
		doc     *services.Document
		session string
	}
	openFailedMsg struct {
		path string
		err  error
	}
	lastDocumentMsg struct {
		path string
	}
)

// Messages the service listeners translate broker events into.
type (
	workspaceChangedMsg struct {
		path string
	}
	connectionMsg struct {
		up bool
	}
)

// Model is the root Bubble Tea state.
type Model struct {
	client *Client
	dock   *shell.Dock
	keys   keys.KeyMap

	width  int
	height int

	palette *commandpalette.Model
	menu    *contextmenu.Model

	debugMode  bool
	logOverlay logoverlay.Model

	untitledSeq int

	// sessions tracks the workspace session backing each open document,
	// keyed by document path. Closed when the model shuts down.
	sessions map[string]string

	ctx            context.Context
	cancel         context.CancelFunc
	eventListener  *pubsub.Listener[services.WorkspaceEvent]
	statusListener *pubsub.Listener[bool]
	logListener    *log.LogListener
}

// NewModel creates the root model over a client whose shell is the dock.
// It registers the built-in commands, the editor widget factory, and the
// status bar widget.
func NewModel(client *Client, km keys.KeyMap, debugMode bool) (Model, error) {
	dock, ok := client.Shell().(*shell.Dock)
	if !ok {
		return Model{}, fmt.Errorf("app: model requires a dock shell, got %T", client.Shell())
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		client:     client,
		dock:       dock,
		keys:       km,
		debugMode:  debugMode,
		logOverlay: logoverlay.New(),
		sessions:   make(map[string]string),
		ctx:        ctx,
		cancel:     cancel,
		eventListener: pubsub.Listen(ctx, client.Services().Events(),
			func(ev pubsub.Event[services.WorkspaceEvent]) tea.Msg {
				return workspaceChangedMsg{path: ev.Payload.Path}
			}),
		statusListener: pubsub.Listen(ctx, client.Services().Status(),
			func(ev pubsub.Event[bool]) tea.Msg {
				return connectionMsg{up: ev.Payload}
			}),
		logListener: log.NewListener(ctx),
	}

	registerBuiltins(client)
	registerWidgetFactories(client)

	if err := dock.Add(statusbar.New(), shell.AreaStatus, shell.AddOptions{}); err != nil {
		cancel()
		client.FailStart(err)
		return Model{}, err
	}

	// Right-click on the main area offers document creation.
	client.Linker().Bind(shell.AreaZoneID(shell.AreaMain), CmdNewDoc, nil)

	return m, nil
}

// registerBuiltins installs the application-level commands. Ids already
// present, e.g. when a registry is shared, are kept as they are.
func registerBuiltins(client *Client) {
	add := func(id string, cmd commands.Command) {
		if client.Commands().Has(id) {
			return
		}
		if _, err := client.Commands().Add(id, cmd); err != nil {
			log.Warn(log.CatApp, "Built-in command not registered", "id", id, "error", err)
		}
	}

	add(CmdQuit, commands.Command{
		Label:   "Quit",
		Caption: "Exit the application",
		Execute: func(commands.Args) (tea.Cmd, error) {
			return tea.Quit, nil
		},
	})
	add(CmdToggleLogs, commands.Command{
		Label:   "Toggle Logs",
		Caption: "Show or hide the log overlay",
		Execute: func(commands.Args) (tea.Cmd, error) {
			return func() tea.Msg { return toggleLogsMsg{} }, nil
		},
	})
	add(CmdSaveDoc, commands.Command{
		Label:   "Save Document",
		Caption: "Persist the active document",
		Execute: func(commands.Args) (tea.Cmd, error) {
			return func() tea.Msg { return saveCurrentMsg{} }, nil
		},
	})
	add(CmdNewDoc, commands.Command{
		Label:   "New Document",
		Caption: "Create an untitled document",
		Execute: func(commands.Args) (tea.Cmd, error) {
			return func() tea.Msg { return newUntitledMsg{} }, nil
		},
	})
	add(CmdPreviewDoc, commands.Command{
		Label:   "Preview Document",
		Caption: "Open the active document in its alternate viewer",
		Execute: func(commands.Args) (tea.Cmd, error) {
			return func() tea.Msg { return previewMsg{} }, nil
		},
	})
	add(CmdActivate, commands.Command{
		Label:   "Activate Widget",
		Caption: "Bring the widget to the front",
		IsEnabled: func(args commands.Args) bool {
			return args.String("widget") != ""
		},
		Execute: func(args commands.Args) (tea.Cmd, error) {
			id := args.String("widget")
			return func() tea.Msg { return activateWidgetMsg{id: id} }, nil
		},
	})
}

// Init implements tea.Model: it resolves the started future and begins the
// event listeners.
func (m Model) Init() tea.Cmd {
	m.client.Start()

	cmds := []tea.Cmd{
		m.eventListener.Next(),
		m.statusListener.Next(),
		m.openLastDocument(),
		future.Cmd(m.client.Restored(), func(layout shell.Layout, _ error) tea.Msg {
			return layoutRestoredMsg{layout: layout}
		}),
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Next())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dock.SetSize(msg.Width, msg.Height)
		m.logOverlay.SetSize(msg.Width, msg.Height)
		if m.palette != nil {
			p := m.palette.SetSize(msg.Width, msg.Height)
			m.palette = &p
		}
		if m.menu != nil {
			menu := m.menu.SetSize(msg.Width, msg.Height)
			m.menu = &menu
		}
		return m, nil

	case log.LogEvent:
		m.logOverlay.Append(msg.Payload)
		if m.logListener != nil {
			return m, m.logListener.Next()
		}
		return m, nil

	case workspaceChangedMsg:
		log.Debug(log.CatApp, "Workspace changed", "path", msg.path)
		cmd := m.dock.Update(statusbar.InfoMsg{Text: "changed: " + msg.path})
		return m, tea.Batch(cmd, m.eventListener.Next())

	case connectionMsg:
		cmd := m.dock.Update(statusbar.ConnectionMsg{Up: msg.up})
		return m, tea.Batch(cmd, m.statusListener.Next())

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case commandpalette.SelectMsg:
		m.palette = nil
		return m, m.execute(msg.Item.ID, nil)

	case commandpalette.CancelMsg:
		m.palette = nil
		return m, nil

	case contextmenu.SelectMsg:
		m.menu = nil
		return m, m.execute(msg.Entry.CommandID, m.contextMenuArgs())

	case contextmenu.CancelMsg:
		m.menu = nil
		return m, nil

	case logoverlay.CloseMsg:
		m.logOverlay.Hide()
		return m, nil

	case toggleLogsMsg:
		m.logOverlay.Toggle()
		return m, nil

	case saveCurrentMsg:
		return m, m.saveCurrent()

	case newUntitledMsg:
		m.untitledSeq++
		path := fmt.Sprintf("untitled-%d.md", m.untitledSeq)
		return m, m.openDocument(path)

	case previewMsg:
		return m.openPreview()

	case lastDocumentMsg:
		return m, m.openDocument(msg.path)

	case docOpenedMsg:
		return m.attachDocument(msg)

	case openFailedMsg:
		log.ErrorErr(log.CatApp, "Open document failed", msg.err, "path", msg.path)
		return m, m.dock.Update(statusbar.InfoMsg{Text: "open failed: " + msg.path})

	case editor.SaveRequestMsg:
		return m, m.saveDocument(msg.Path, msg.Content)

	case activateWidgetMsg:
		if m.dock.ActivateByID(msg.id) {
			return m, m.syncStatus()
		}
		return m, nil

	case layoutRestoredMsg:
		if msg.layout.Empty() {
			return m, nil
		}
		m.dock.Restore(msg.layout)
		log.Info(log.CatApp, "Layout restored", "current", msg.layout.Current)
		return m, m.syncStatus()
	}

	return m, m.dock.Update(msg)
}

// updateKey routes keyboard input, giving open overlays precedence.
func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.debugMode && key.Matches(msg, m.keys.Logs) {
		m.logOverlay.Toggle()
		return m, nil
	}
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}
	if m.menu != nil {
		menu, cmd := m.menu.Update(msg)
		m.menu = &menu
		return m, cmd
	}
	if m.palette != nil {
		p, cmd := m.palette.Update(msg)
		m.palette = &p
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Palette):
		p := commandpalette.New(commandpalette.Config{
			Title: "Commands",
			Items: commandpalette.FromRegistry(m.client.Commands(), nil),
		}).SetSize(m.width, m.height)
		m.palette = &p
		return m, p.Init()

	case key.Matches(msg, m.keys.NewDocument):
		return m, m.execute(CmdNewDoc, nil)

	case key.Matches(msg, m.keys.NextWidget):
		return m.cycleWidget(1)

	case key.Matches(msg, m.keys.PrevWidget):
		return m.cycleWidget(-1)
	}

	return m, m.dock.Update(msg)
}

// updateMouse routes mouse input. A right-click records the snapshot and
// opens the context menu; left releases go through the linker first.
func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}
	if m.menu != nil {
		menu, cmd := m.menu.Update(msg)
		m.menu = &menu
		return m, cmd
	}
	if m.palette != nil {
		p, cmd := m.palette.Update(msg)
		m.palette = &p
		return m, cmd
	}

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonRight {
		node := m.dock.NodeAt(msg)
		m.client.RecordContextMenu(ContextMenuEvent{Target: node, X: msg.X, Y: msg.Y})
		menu := contextmenu.New(m.menuEntries(node), msg.X, msg.Y).SetSize(m.width, m.height)
		m.menu = &menu
		return m, nil
	}

	if cmd, handled := m.client.Linker().Handle(msg); handled {
		return m, cmd
	}

	return m, m.dock.Update(msg)
}

// menuEntries collects the commands bound to the node chain under the
// click, innermost target first, deduplicated by command id.
func (m Model) menuEntries(node shell.Node) []contextmenu.Entry {
	bound := m.client.Linker().BoundCommands()
	reg := m.client.Commands()

	var entries []contextmenu.Entry
	seen := make(map[string]bool)
	for n := node; n != nil; {
		if id, ok := bound[n.NodeID()]; ok && !seen[id] {
			seen[id] = true
			label := reg.Label(id)
			if label == "" {
				label = id
			}
			entries = append(entries, contextmenu.Entry{
				CommandID: id,
				Label:     label,
				Disabled:  !reg.IsEnabled(id, m.contextMenuArgs()),
			})
		}
		p := n.Parent()
		if p == nil || p == n {
			break
		}
		n = p
	}
	return entries
}

// contextMenuArgs derives command arguments from the recorded right-click.
func (m Model) contextMenuArgs() commands.Args {
	ev, ok := m.client.LastContextMenu()
	if !ok || ev.Target == nil {
		return nil
	}
	args := commands.Args{"node": ev.Target.NodeID()}
	if w, ok := shell.WidgetFromNode(ev.Target); ok {
		args["widget"] = w.ID()
	}
	return args
}

// execute runs a registry command, logging failures instead of crashing
// the update loop.
func (m Model) execute(id string, args commands.Args) tea.Cmd {
	cmd, err := m.client.Commands().Execute(id, args)
	if err != nil {
		log.Warn(log.CatApp, "Command failed", "id", id, "error", err)
		return m.dock.Update(statusbar.InfoMsg{Text: "command failed: " + id})
	}
	return cmd
}

// cycleWidget activates the next or previous main-area widget.
func (m Model) cycleWidget(dir int) (tea.Model, tea.Cmd) {
	var ids []string
	for w := range m.dock.Widgets(shell.AreaMain) {
		ids = append(ids, w.ID())
	}
	if len(ids) == 0 {
		return m, nil
	}

	cur := 0
	if current := m.dock.CurrentWidget(); current != nil {
		for i, id := range ids {
			if id == current.ID() {
				cur = i
				break
			}
		}
	}
	next := (cur + dir + len(ids)) % len(ids)
	m.dock.ActivateByID(ids[next])
	return m, m.syncStatus()
}

// openDocument loads or creates a workspace document off the update loop
// and starts the session tracking it.
func (m Model) openDocument(path string) tea.Cmd {
	contents := m.client.Services().Contents()
	sessions := m.client.Services().Sessions()
	ctx := m.ctx
	return func() tea.Msg {
		doc, err := contents.Get(ctx, path)
		if err != nil {
			doc, err = contents.Create(ctx, path, "")
		}
		if err != nil {
			return openFailedMsg{path: path, err: err}
		}

		guid := ""
		if session, err := sessions.Start(ctx, services.SessionKindDocument, path); err != nil {
			log.Warn(log.CatApp, "Session not started", "path", path, "error", err)
		} else {
			guid = session.GUID()
		}
		return docOpenedMsg{doc: doc, session: guid}
	}
}

// openLastDocument reads the remembered document path from settings.
// Nothing happens when no document was remembered.
func (m Model) openLastDocument() tea.Cmd {
	settings := m.client.Services().Settings()
	ctx := m.ctx
	return func() tea.Msg {
		raw, err := settings.Get(ctx, settingsPlugin, settingLastDocument)
		if err != nil {
			return nil
		}
		var path string
		if err := json.Unmarshal(raw, &path); err != nil || path == "" {
			return nil
		}
		return lastDocumentMsg{path: path}
	}
}

// rememberDocument persists the path as the workbench's last document.
func (m Model) rememberDocument(path string) tea.Cmd {
	settings := m.client.Services().Settings()
	ctx := m.ctx
	return func() tea.Msg {
		value, err := json.Marshal(path)
		if err != nil {
			return nil
		}
		if err := settings.Set(ctx, settingsPlugin, settingLastDocument, value); err != nil {
			log.Warn(log.CatApp, "Last document not recorded", "path", path, "error", err)
		}
		return nil
	}
}

// attachDocument builds a widget for the document via the registry's
// preferred factory and docks it, recording the backing session.
func (m Model) attachDocument(msg docOpenedMsg) (tea.Model, tea.Cmd) {
	doc := msg.doc
	if msg.session != "" {
		if prev, ok := m.sessions[doc.Path()]; ok && prev != msg.session {
			// Re-opened document: the fresh session supersedes the old one.
			m.closeSession(doc.Path(), prev)
		}
		m.sessions[doc.Path()] = msg.session
	}

	factory, ok := m.client.DocRegistry().DefaultFactory(doc.Path())
	if !ok {
		log.Warn(log.CatApp, "No widget factory for document", "path", doc.Path())
		return m, nil
	}

	w := factory.New(doc)
	if err := m.dock.Add(w, shell.AreaMain, shell.AddOptions{Activate: true}); err != nil {
		// Already docked: just bring it to the front.
		m.dock.ActivateByID(w.ID())
		return m, m.syncStatus()
	}
	m.client.Linker().Bind(shell.WidgetZoneID(w.ID()), CmdActivate,
		commands.Args{"widget": w.ID()})
	m.dock.SetSize(m.width, m.height)
	return m, tea.Batch(m.syncStatus(), m.rememberDocument(doc.Path()))
}

// openPreview docks the active document's alternate viewer: the first
// factory after the preferred one that can open the document's file type.
func (m Model) openPreview() (tea.Model, tea.Cmd) {
	ed, ok := m.dock.CurrentWidget().(editor.Model)
	if !ok {
		return m, nil
	}

	factories := m.client.DocRegistry().PreferredFactories(ed.Path())
	if len(factories) < 2 {
		return m, m.dock.Update(statusbar.InfoMsg{Text: "no preview for " + ed.Title()})
	}

	w := factories[1].New(services.NewDocument(ed.Path(), ed.Content()))
	if err := m.dock.Add(w, shell.AreaMain, shell.AddOptions{Activate: true}); err != nil {
		m.dock.ActivateByID(w.ID())
		return m, m.syncStatus()
	}
	m.client.Linker().Bind(shell.WidgetZoneID(w.ID()), CmdActivate,
		commands.Args{"widget": w.ID()})
	m.dock.SetSize(m.width, m.height)
	return m, m.syncStatus()
}

// saveCurrent persists the active editor widget, if any.
func (m Model) saveCurrent() tea.Cmd {
	ed, ok := m.dock.CurrentWidget().(editor.Model)
	if !ok {
		return nil
	}
	return m.saveDocument(ed.Path(), ed.Content())
}

// saveDocument writes content through the contents service and reports
// back to the editor and the status bar.
func (m Model) saveDocument(path, content string) tea.Cmd {
	contents := m.client.Services().Contents()
	ctx := m.ctx
	save := func() tea.Msg {
		doc, err := contents.Get(ctx, path)
		if err != nil {
			doc, err = contents.Create(ctx, path, content)
			if err != nil {
				return openFailedMsg{path: path, err: err}
			}
		}
		doc.SetContent(content)
		if err := contents.Save(ctx, doc); err != nil {
			return openFailedMsg{path: path, err: err}
		}
		return editor.SavedMsg{Path: path}
	}
	info := m.dock.Update(statusbar.InfoMsg{Text: "saving " + path})
	return tea.Batch(save, info)
}

// syncStatus pushes the active widget's title to the status bar.
func (m Model) syncStatus() tea.Cmd {
	current := m.dock.CurrentWidget()
	if current == nil {
		return nil
	}
	dirty := false
	if ed, ok := current.(editor.Model); ok {
		dirty = ed.Dirty()
	}
	return m.dock.Update(statusbar.ActiveWidgetMsg{Title: current.Title(), Dirty: dirty})
}

// View implements tea.Model. The final frame passes through zone.Scan so
// mouse positions can be resolved back to marked zones.
func (m Model) View() string {
	view := m.dock.View()
	if m.menu != nil {
		view = m.menu.Overlay(view)
	}
	if m.palette != nil {
		view = m.palette.Overlay(view)
	}
	view = m.logOverlay.Overlay(view)
	return zone.Scan(view)
}

// closeSession closes one document session, logging failures.
func (m Model) closeSession(path, guid string) {
	if err := m.client.Services().Sessions().Close(context.Background(), guid); err != nil {
		log.Warn(log.CatApp, "Session not closed", "path", path, "error", err)
	}
}

// Close ends the document sessions, stops the listeners, and shuts down
// owned collaborators.
func (m Model) Close() error {
	for path, guid := range m.sessions {
		m.closeSession(path, guid)
		delete(m.sessions, path)
	}
	m.cancel()
	return m.client.Close()
}
