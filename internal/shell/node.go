package shell

// Node is one element of the shell's containment tree. Widgets are parented
// to their area, areas to the root. The root is its own parent, which
// terminates ancestor walks.
type Node interface {
	NodeID() string
	Parent() Node
}

// AncestorFirst walks the ancestor chain starting at start and returns the
// first node satisfying pred, innermost-out. The walk stops after visiting a
// node with no parent or whose parent is itself; deeper cycles are not
// guarded against.
func AncestorFirst(start Node, pred func(Node) bool) (Node, bool) {
	for n := start; n != nil; {
		if pred(n) {
			return n, true
		}
		p := n.Parent()
		if p == nil || p == n {
			break
		}
		n = p
	}
	return nil, false
}

// rootNode is the top of the containment tree.
type rootNode struct{}

func (r *rootNode) NodeID() string { return "shell" }

// Parent returns the root itself; the root terminates ancestor walks.
func (r *rootNode) Parent() Node { return r }

// areaNode parents every widget added to one dock area.
type areaNode struct {
	area Area
	root *rootNode
}

func (a *areaNode) NodeID() string { return "shell:" + string(a.area) }
func (a *areaNode) Parent() Node   { return a.root }

// widgetNode wraps a widget with its position in the tree.
type widgetNode struct {
	widget Widget
	area   *areaNode
}

func (w *widgetNode) NodeID() string { return WidgetZoneID(w.widget.ID()) }
func (w *widgetNode) Parent() Node   { return w.area }

// Widget returns the widget this node wraps.
func (w *widgetNode) Widget() Widget { return w.widget }

// WidgetZoneID returns the bubblezone id marking a widget's rendered surface.
func WidgetZoneID(widgetID string) string {
	return "shell:widget:" + widgetID
}

// WidgetFromNode unwraps the widget carried by a node, if it is a widget node.
func WidgetFromNode(n Node) (Widget, bool) {
	if wn, ok := n.(*widgetNode); ok {
		return wn.widget, true
	}
	return nil, false
}

// AreaFromNode returns the dock area a node belongs to, walking up from
// widget nodes. Reports false for the root.
func AreaFromNode(n Node) (Area, bool) {
	switch t := n.(type) {
	case *areaNode:
		return t.area, true
	case *widgetNode:
		return t.area.area, true
	}
	return "", false
}
