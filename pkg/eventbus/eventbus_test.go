package eventbus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type rosterChanged struct {
	Count int
}

func TestPublishDispatchesToMatchingHandler(t *testing.T) {
	bus := NewEventPublisher(nil)

	var got []rosterChanged
	bus.Subscribe(func(ev rosterChanged) {
		got = append(got, ev)
	})
	bus.Subscribe(func(s string) {
		t.Fatal("string handler must not receive rosterChanged")
	})

	bus.Publish(rosterChanged{Count: 5})

	require.Len(t, got, 1)
	require.Equal(t, 5, got[0].Count)
}

func TestPublishRecoversFromPanickingHandler(t *testing.T) {
	bus := NewEventPublisher(nil)

	called := false
	bus.Subscribe(func(ev rosterChanged) { panic("boom") })
	bus.Subscribe(func(ev rosterChanged) { called = true })

	require.NotPanics(t, func() { bus.Publish(rosterChanged{}) })
	require.True(t, called, "second handler should still run after the first panics")
}

func TestUnsubscribeRemovesHandler(t *testing.T) {
	bus := NewEventPublisher(nil)

	handler := func(ev rosterChanged) {}
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Unsubscribe(handler)
	require.Equal(t, 0, bus.SubscribersCount())
}

func TestMatchSignature(t *testing.T) {
	require.True(t, MatchSignature(func(rosterChanged) {}, []interface{}{rosterChanged{}}))
	require.False(t, MatchSignature(func(rosterChanged) {}, []interface{}{"nope"}))
	require.False(t, MatchSignature("not a func", []interface{}{rosterChanged{}}))
	require.False(t, MatchSignature(func(rosterChanged, int) {}, []interface{}{rosterChanged{}}))
}
