package commands

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	m.Run()
}

// registerZone renders a marked region through the zone manager so that
// Get(id) has bounds. Zone registration is asynchronous via a channel worker
// in bubblezone, so registration is retried briefly.
func registerZone(t *testing.T, id, content string) *zone.ZoneInfo {
	t.Helper()

	var z *zone.ZoneInfo
	for retries := 0; retries < 10; retries++ {
		_ = zone.Scan(zone.Mark(id, content))
		z = zone.Get(id)
		if z != nil && !z.IsZero() {
			return z
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("zone %q not registered", id)
	return nil
}

func clickAt(x, y int) tea.MouseMsg {
	return tea.MouseMsg{
		X:      x,
		Y:      y,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionRelease,
	}
}

func TestLinker_HandleExecutesBoundCommand(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	executed := make(chan Args, 1)
	_, err := r.Add("docs:open", Command{
		Execute: func(args Args) (tea.Cmd, error) {
			executed <- args
			return func() tea.Msg { return "done" }, nil
		},
	})
	require.NoError(t, err)

	l := NewLinker(r)
	z := registerZone(t, "linker-open", "Open")
	l.Bind("linker-open", "docs:open", Args{"path": "notes.md"})

	cmd, handled := l.Handle(clickAt(z.StartX, z.StartY))
	require.True(t, handled)
	require.NotNil(t, cmd)
	require.Equal(t, "done", cmd())

	args := <-executed
	require.Equal(t, "notes.md", args.String("path"))
}

func TestLinker_HandleIgnoresNonRelease(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	l := NewLinker(r)
	z := registerZone(t, "linker-press", "Press")
	l.Bind("linker-press", "docs:open", nil)

	_, handled := l.Handle(tea.MouseMsg{
		X:      z.StartX,
		Y:      z.StartY,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionPress,
	})
	require.False(t, handled)

	_, handled = l.Handle(tea.MouseMsg{
		X:      z.StartX,
		Y:      z.StartY,
		Button: tea.MouseButtonRight,
		Action: tea.MouseActionRelease,
	})
	require.False(t, handled)
}

func TestLinker_HandleOutsideZones(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	l := NewLinker(r)
	_, handled := l.Handle(clickAt(500, 500))
	require.False(t, handled)
}

func TestLinker_Disconnect(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	l := NewLinker(r)
	z := registerZone(t, "linker-disc", "Disconnect")
	l.Bind("linker-disc", "docs:open", nil)
	l.Disconnect("linker-disc")

	_, handled := l.Handle(clickAt(z.StartX, z.StartY))
	require.False(t, handled)
}

func TestLinker_HandleReportsFailedCommand(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	l := NewLinker(r)
	z := registerZone(t, "linker-missing", "Missing")
	l.Bind("linker-missing", "not-registered", nil)

	// Click is consumed even though execution fails
	cmd, handled := l.Handle(clickAt(z.StartX, z.StartY))
	require.True(t, handled)
	require.Nil(t, cmd)
}

func TestLinker_Dispose(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	l := NewLinker(r)
	z := registerZone(t, "linker-dispose", "Dispose")
	l.Bind("linker-dispose", "docs:open", nil)

	require.False(t, l.Disposed())
	l.Dispose()
	require.True(t, l.Disposed())

	_, handled := l.Handle(clickAt(z.StartX, z.StartY))
	require.False(t, handled)

	// Bind after dispose is a no-op
	l.Bind("linker-dispose", "docs:open", nil)
	require.Empty(t, l.BoundCommands())
}

func TestLinker_BoundCommands(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	l := NewLinker(r)
	l.Bind("zone-a", "docs:open", nil)
	l.Bind("zone-b", "docs:save", nil)

	require.Equal(t, map[string]string{
		"zone-a": "docs:open",
		"zone-b": "docs:save",
	}, l.BoundCommands())
}
