package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Await returns a Bubble Tea command that delivers the next event on ch,
// translated by wrap into the caller's message type. A nil wrap delivers
// the raw Event[T]. The command yields nil when ctx is cancelled or the
// channel closes, which ends the listen loop.
func Await[T any](ctx context.Context, ch <-chan Event[T], wrap func(Event[T]) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			if wrap == nil {
				return event
			}
			return wrap(event)
		}
	}
}

// Listener carries one subscription across Bubble Tea update cycles. Each
// delivered message re-arms the listener by scheduling Next again from the
// update handler.
type Listener[T any] struct {
	ctx  context.Context
	ch   <-chan Event[T]
	wrap func(Event[T]) tea.Msg
}

// Listen subscribes to src for the lifetime of ctx. wrap turns each event
// into the message the update loop switches on; nil keeps the raw event.
func Listen[T any](ctx context.Context, src Subscriber[T], wrap func(Event[T]) tea.Msg) *Listener[T] {
	return &Listener[T]{
		ctx:  ctx,
		ch:   src.Subscribe(ctx),
		wrap: wrap,
	}
}

// Next returns the command awaiting the listener's next event.
func (l *Listener[T]) Next() tea.Cmd {
	return Await(l.ctx, l.ch, l.wrap)
}
