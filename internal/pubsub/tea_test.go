package pubsub

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type changedMsg struct {
	path string
}

func TestAwait_DeliversWrappedMessage(t *testing.T) {
	b := NewBroker[string]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := b.Subscribe(ctx)
	cmd := Await(ctx, ch, func(ev Event[string]) tea.Msg {
		return changedMsg{path: ev.Payload}
	})

	b.Publish(ChangedEvent, "doc.md")

	msg, ok := cmd().(changedMsg)
	require.True(t, ok, "expected the wrapped message type")
	require.Equal(t, "doc.md", msg.path)
}

func TestAwait_NilWrapDeliversRawEvent(t *testing.T) {
	b := NewBroker[string]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := b.Subscribe(ctx)
	b.Publish(ChangedEvent, "doc.md")

	event, ok := Await(ctx, ch, nil)().(Event[string])
	require.True(t, ok, "expected Event[string] message")
	require.Equal(t, "doc.md", event.Payload)
	require.False(t, event.Timestamp.IsZero())
}

func TestAwait_NilOnContextCancel(t *testing.T) {
	b := NewBroker[string]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)
	cmd := Await(ctx, ch, nil)

	cancel()

	done := make(chan struct{})
	go func() {
		require.Nil(t, cmd())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Await did not return after context cancel")
	}
}

func TestAwait_NilOnChannelClose(t *testing.T) {
	b := NewBroker[string]()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := b.Subscribe(ctx)
	cmd := Await(ctx, ch, nil)

	b.Close()

	done := make(chan struct{})
	go func() {
		require.Nil(t, cmd())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Await did not return after broker close")
	}
}

func TestListener_ReceivesSequence(t *testing.T) {
	b := NewBroker[int]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := Listen[int](ctx, b, nil)

	b.Publish(AddedEvent, 1)
	b.Publish(AddedEvent, 2)

	require.Equal(t, 1, l.Next()().(Event[int]).Payload)
	require.Equal(t, 2, l.Next()().(Event[int]).Payload)
}

func TestListener_WrapAppliesPerEvent(t *testing.T) {
	b := NewBroker[string]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := Listen(ctx, b, func(ev Event[string]) tea.Msg {
		return changedMsg{path: ev.Payload}
	})

	b.Publish(ChangedEvent, "a.md")
	b.Publish(ChangedEvent, "b.md")

	require.Equal(t, changedMsg{path: "a.md"}, l.Next()())
	require.Equal(t, changedMsg{path: "b.md"}, l.Next()())
}
