package future

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestFuture_ResolveSettlesOnce(t *testing.T) {
	f := New[int]()
	require.False(t, f.Settled())

	require.True(t, f.Resolve(7))
	require.False(t, f.Resolve(8), "second resolve should lose")
	require.False(t, f.Reject(errors.New("late")), "reject after resolve should lose")

	v, err, ok := f.Peek()
	require.True(t, ok)
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestFuture_RejectSettlesOnce(t *testing.T) {
	f := New[string]()
	boom := errors.New("boom")

	require.True(t, f.Reject(boom))
	require.False(t, f.Resolve("late"))

	v, err, ok := f.Peek()
	require.True(t, ok)
	require.ErrorIs(t, err, boom)
	require.Empty(t, v)
}

func TestFuture_DoneClosesOnSettle(t *testing.T) {
	f := New[int]()

	select {
	case <-f.Done():
		t.Fatal("done channel closed before settlement")
	default:
	}

	f.Resolve(1)

	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("done channel not closed after settlement")
	}
}

func TestFuture_WaitReturnsValue(t *testing.T) {
	f := New[int]()
	go f.Resolve(42)

	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestFuture_WaitHonorsContext(t *testing.T) {
	f := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFuture_OnSettle_BeforeSettlement(t *testing.T) {
	f := New[int]()
	got := make(chan int, 1)
	f.OnSettle(func(v int, err error) {
		require.NoError(t, err)
		got <- v
	})

	f.Resolve(9)

	select {
	case v := <-got:
		require.Equal(t, 9, v)
	case <-time.After(time.Second):
		t.Fatal("callback not invoked")
	}
}

func TestFuture_OnSettle_AfterSettlement(t *testing.T) {
	f := Resolved("ready")
	var got string
	f.OnSettle(func(v string, err error) { got = v })
	require.Equal(t, "ready", got, "already-settled future invokes callback inline")
}

func TestNextFrame_ResolvesAfterFrameInterval(t *testing.T) {
	f := NextFrame("layout")

	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, "layout", v)
}

func TestAbsorb_AdoptsFallbackOnResolve(t *testing.T) {
	started := New[struct{}]()
	restored := Absorb(started, func() *Future[string] {
		return NextFrame("default-layout")
	})

	started.Resolve(struct{}{})

	v, err := restored.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, "default-layout", v)
}

func TestAbsorb_SwallowsSourceFailure(t *testing.T) {
	started := New[struct{}]()
	restored := Absorb(started, func() *Future[string] {
		return NextFrame("default-layout")
	})

	started.Reject(errors.New("startup failed"))

	v, err := restored.Wait(context.Background())
	require.NoError(t, err, "restored must never reject")
	require.Equal(t, "default-layout", v)
}

func TestAbsorb_SwallowsFallbackFailure(t *testing.T) {
	started := Resolved(struct{}{})
	restored := Absorb(started, func() *Future[string] {
		return Failed[string](errors.New("no layout"))
	})

	v, err := restored.Wait(context.Background())
	require.NoError(t, err)
	require.Empty(t, v, "fallback failure collapses to the zero value")
}

func TestAbsorb_FallbackNotCalledBeforeSourceSettles(t *testing.T) {
	started := New[struct{}]()
	called := false
	Absorb(started, func() *Future[string] {
		called = true
		return Resolved("x")
	})
	require.False(t, called)
}

func TestCmd_ProducesWrappedMessage(t *testing.T) {
	type restoredMsg struct {
		layout string
		err    error
	}

	f := New[string]()
	cmd := Cmd(f, func(v string, err error) tea.Msg {
		return restoredMsg{layout: v, err: err}
	})

	go f.Resolve("main")

	msg := cmd()
	got, ok := msg.(restoredMsg)
	require.True(t, ok)
	require.NoError(t, got.err)
	require.Equal(t, "main", got.layout)
}
