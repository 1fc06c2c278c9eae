package shell

import (
	"fmt"
	"iter"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/atelier-dev/atelier/internal/log"
)

const (
	railWidth    = 26
	statusHeight = 1
)

// AreaZoneID returns the bubblezone id marking a dock area's surface.
func AreaZoneID(area Area) string {
	return "shell:area:" + string(area)
}

type dockEntry struct {
	node  *widgetNode
	area  Area
	rank  int
	order int
}

// Dock is the concrete Shell: a main region flanked by optional left and
// right rails, with a status strip at the bottom.
type Dock struct {
	root    *rootNode
	areas   map[Area]*areaNode
	entries map[string]*dockEntry
	current string

	width     int
	height    int
	nextOrder int
}

var _ Shell = (*Dock)(nil)

// NewDock creates an empty dock shell.
func NewDock() *Dock {
	root := &rootNode{}
	areas := make(map[Area]*areaNode, 4)
	for _, a := range []Area{AreaMain, AreaLeft, AreaRight, AreaStatus} {
		areas[a] = &areaNode{area: a, root: root}
	}
	return &Dock{
		root:    root,
		areas:   areas,
		entries: make(map[string]*dockEntry),
	}
}

// Add places a widget in an area.
func (d *Dock) Add(w Widget, area Area, opts AddOptions) error {
	if w == nil {
		return fmt.Errorf("shell: nil widget")
	}
	if !area.Valid() {
		return fmt.Errorf("shell: unknown area %q", area)
	}
	if _, exists := d.entries[w.ID()]; exists {
		return fmt.Errorf("shell: widget %q already added", w.ID())
	}

	d.entries[w.ID()] = &dockEntry{
		node:  &widgetNode{widget: w, area: d.areas[area]},
		area:  area,
		rank:  opts.Rank,
		order: d.nextOrder,
	}
	d.nextOrder++

	if area == AreaMain && (opts.Activate || d.current == "") {
		d.current = w.ID()
	}

	log.Debug(log.CatShell, "Widget added", "id", w.ID(), "area", area)
	d.resize()
	return nil
}

// ActivateByID makes the widget current. Widgets outside the main area
// exist but cannot become current; activating them still reports true.
func (d *Dock) ActivateByID(id string) bool {
	entry, ok := d.entries[id]
	if !ok {
		return false
	}
	if entry.area == AreaMain {
		d.current = id
	}
	return true
}

// CurrentWidget returns the active main-area widget, or nil.
func (d *Dock) CurrentWidget() Widget {
	if entry, ok := d.entries[d.current]; ok {
		return entry.node.widget
	}
	return nil
}

// Widgets iterates the widgets of an area ordered by rank, then insertion.
func (d *Dock) Widgets(area Area) iter.Seq[Widget] {
	entries := d.sortedEntries(area)
	return func(yield func(Widget) bool) {
		for _, e := range entries {
			if !yield(e.node.widget) {
				return
			}
		}
	}
}

func (d *Dock) sortedEntries(area Area) []*dockEntry {
	var entries []*dockEntry
	for _, e := range d.entries {
		if e.area == area {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].rank != entries[j].rank {
			return entries[i].rank < entries[j].rank
		}
		return entries[i].order < entries[j].order
	})
	return entries
}

// NodeAt resolves the innermost node under the mouse position.
func (d *Dock) NodeAt(msg tea.MouseMsg) Node {
	for _, e := range d.entries {
		if z := zone.Get(e.node.NodeID()); z != nil && !z.IsZero() && z.InBounds(msg) {
			return e.node
		}
	}
	for _, area := range []Area{AreaMain, AreaLeft, AreaRight, AreaStatus} {
		if z := zone.Get(AreaZoneID(area)); z != nil && !z.IsZero() && z.InBounds(msg) {
			return d.areas[area]
		}
	}
	return d.root
}

// Root returns the root node; the root is its own parent.
func (d *Dock) Root() Node {
	return d.root
}

// SetSize updates the dock dimensions and resizes all widgets.
func (d *Dock) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.resize()
}

func (d *Dock) resize() {
	if d.width == 0 || d.height == 0 {
		return
	}

	mainWidth := d.width
	if d.hasWidgets(AreaLeft) {
		mainWidth -= railWidth
	}
	if d.hasWidgets(AreaRight) {
		mainWidth -= railWidth
	}
	bodyHeight := d.height
	if d.hasWidgets(AreaStatus) {
		bodyHeight -= statusHeight
	}

	for _, e := range d.entries {
		switch e.area {
		case AreaMain:
			e.node.widget = e.node.widget.SetSize(mainWidth, bodyHeight)
		case AreaLeft, AreaRight:
			e.node.widget = e.node.widget.SetSize(railWidth, bodyHeight)
		case AreaStatus:
			e.node.widget = e.node.widget.SetSize(d.width, statusHeight)
		}
	}
}

func (d *Dock) hasWidgets(area Area) bool {
	for _, e := range d.entries {
		if e.area == area {
			return true
		}
	}
	return false
}

// Update routes a message to the current main widget and the status widgets.
func (d *Dock) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if entry, ok := d.entries[d.current]; ok {
		var cmd tea.Cmd
		entry.node.widget, cmd = entry.node.widget.Update(msg)
		cmds = append(cmds, cmd)
	}
	for _, e := range d.sortedEntries(AreaStatus) {
		var cmd tea.Cmd
		e.node.widget, cmd = e.node.widget.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// View renders the dock. Widget surfaces and areas are zone-marked so mouse
// positions can be resolved back to nodes. The caller is responsible for
// passing the final frame through zone.Scan.
func (d *Dock) View() string {
	var columns []string

	if left := d.renderRail(AreaLeft); left != "" {
		columns = append(columns, left)
	}
	columns = append(columns, d.renderMain())
	if right := d.renderRail(AreaRight); right != "" {
		columns = append(columns, right)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	if status := d.renderStatus(); status != "" {
		return lipgloss.JoinVertical(lipgloss.Left, body, status)
	}
	return body
}

func (d *Dock) renderMain() string {
	current := d.CurrentWidget()
	if current == nil {
		return zone.Mark(AreaZoneID(AreaMain), "")
	}
	view := zone.Mark(WidgetZoneID(current.ID()), current.View())
	return zone.Mark(AreaZoneID(AreaMain), view)
}

func (d *Dock) renderRail(area Area) string {
	entries := d.sortedEntries(area)
	if len(entries) == 0 {
		return ""
	}
	views := make([]string, 0, len(entries))
	for _, e := range entries {
		views = append(views, zone.Mark(e.node.NodeID(), e.node.widget.View()))
	}
	return zone.Mark(AreaZoneID(area), lipgloss.JoinVertical(lipgloss.Left, views...))
}

func (d *Dock) renderStatus() string {
	entries := d.sortedEntries(AreaStatus)
	if len(entries) == 0 {
		return ""
	}
	views := make([]string, 0, len(entries))
	for _, e := range entries {
		views = append(views, zone.Mark(e.node.NodeID(), e.node.widget.View()))
	}
	return zone.Mark(AreaZoneID(AreaStatus), lipgloss.JoinHorizontal(lipgloss.Top, views...))
}

// Layout snapshots the current dock arrangement.
func (d *Dock) Layout() Layout {
	areas := make(map[Area][]string)
	for _, area := range []Area{AreaMain, AreaLeft, AreaRight, AreaStatus} {
		for _, e := range d.sortedEntries(area) {
			areas[area] = append(areas[area], e.node.widget.ID())
		}
	}
	return Layout{Current: d.current, Areas: areas}
}

// Restore applies a layout snapshot. Widgets named in the snapshot but no
// longer present are skipped; widgets not named keep their placement.
func (d *Dock) Restore(layout Layout) {
	for area, ids := range layout.Areas {
		for rank, id := range ids {
			entry, ok := d.entries[id]
			if !ok {
				log.Warn(log.CatShell, "Layout names unknown widget", "id", id)
				continue
			}
			entry.area = area
			entry.node.area = d.areas[area]
			entry.rank = rank
		}
	}
	if layout.Current != "" {
		if entry, ok := d.entries[layout.Current]; ok && entry.area == AreaMain {
			d.current = layout.Current
		}
	}
	// The layout may have moved the active widget off the main area. Fall
	// back to the first remaining main widget so Update keeps routing to a
	// main-area widget.
	if entry, ok := d.entries[d.current]; ok && entry.area != AreaMain {
		d.current = ""
		if main := d.sortedEntries(AreaMain); len(main) > 0 {
			d.current = main[0].node.widget.ID()
		}
	}
	d.resize()
}
