package future

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Cmd bridges a future into the Bubble Tea update loop. The returned command
// blocks until the future settles, then produces the message built by wrap.
func Cmd[T any](f *Future[T], wrap func(T, error) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		<-f.Done()
		v, err, _ := f.Peek()
		return wrap(v, err)
	}
}
