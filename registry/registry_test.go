package registry_test

import (
	"testing"
	"time"

	"github.com/romshark/timerq"
	"github.com/romshark/timerq/registry"

	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*timerq.Handle, *registry.Registry) {
	t.Helper()

	h, w := timerq.New()
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run()
	}()

	r, err := registry.New(4, nil)
	require.NoError(t, err)

	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		r.Consume(w.Announcements())
	}()

	t.Cleanup(func() {
		h.Close()
		waitClosed(t, done, "worker")
		waitClosed(t, consumed, "consumer")
		r.Close()
	})
	return h, r
}

func TestSubscribeBeforeFire(t *testing.T) {
	h, r := setup(t)

	id := h.StartTimer(20 * timerq.Millisecond)
	waitClosed(t, r.Await(id), "readiness event")
}

func TestSubscribeAfterFire(t *testing.T) {
	h, r := setup(t)

	id := h.StartTimer(0)
	waitClosed(t, r.Await(id), "readiness event")

	// A late subscriber to an already-fired id is dispatched immediately.
	waitClosed(t, r.Await(id), "late readiness event")
}

func TestFanOut(t *testing.T) {
	h, r := setup(t)

	id := h.StartTimer(20 * timerq.Millisecond)
	first, second := r.Await(id), r.Await(id)
	waitClosed(t, first, "first subscriber")
	waitClosed(t, second, "second subscriber")
}

func TestUnsubscribe(t *testing.T) {
	h, r := setup(t)

	id := h.StartTimer(timerq.Hour)
	fired := make(chan struct{})
	token := r.Subscribe(id, func(timerq.TimerID) { close(fired) })

	require.True(t, r.Unsubscribe(id, token))
	require.False(t, r.Unsubscribe(id, token))

	select {
	case <-fired:
		t.Fatal("unsubscribed callback must not run")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribePassesID(t *testing.T) {
	h, r := setup(t)

	id := h.StartTimer(10 * timerq.Millisecond)
	got := make(chan timerq.TimerID, 1)
	r.Subscribe(id, func(fired timerq.TimerID) { got <- fired })

	select {
	case fired := <-got:
		require.Equal(t, id, fired)
	case <-time.After(2 * time.Second):
		t.Fatal("callback was never dispatched")
	}
}

func waitClosed(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}
