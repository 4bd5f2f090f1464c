package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/pkg/core/model"
)

func TestObserver_InitialRead(t *testing.T) {
	store, _ := newTestStore(NewMemoryKV())
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, Session{Token: "t1", UserID: "7", Username: "alice", Roles: []model.Role{model.RoleOrganizer}}))

	obs := NewObserver(ctx, store, zap.NewNop())

	state := obs.State()
	assert.True(t, state.LoggedIn)
	assert.Equal(t, "alice", state.Username)
	assert.Equal(t, model.RoleOrganizer, state.PrimaryRole())
}

func TestObserver_RederivesOnSignal(t *testing.T) {
	store, _ := newTestStore(NewMemoryKV())
	ctx := context.Background()

	obs := NewObserver(ctx, store, zap.NewNop())
	assert.False(t, obs.State().LoggedIn)

	changes := make(chan State, 4)
	obs.OnChange(func(s State) { changes <- s })

	stop, err := obs.Start(ctx)
	require.NoError(t, err)
	defer stop()

	require.NoError(t, store.Write(ctx, Session{Token: "t1", UserID: "7", Username: "alice", Roles: []model.Role{model.RoleOrganizer}}))
	require.NoError(t, store.Notify(ctx, ReasonLogin))

	select {
	case state := <-changes:
		assert.True(t, state.LoggedIn)
		assert.True(t, state.HasRole(model.RoleOrganizer))
	case <-time.After(2 * time.Second):
		t.Fatal("observer did not re-derive state after login signal")
	}

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Notify(ctx, ReasonLogout))

	select {
	case state := <-changes:
		assert.False(t, state.LoggedIn)
		assert.False(t, obs.State().LoggedIn)
	case <-time.After(2 * time.Second):
		t.Fatal("observer did not re-derive state after logout signal")
	}
}

func TestObserver_StopUnsubscribes(t *testing.T) {
	store, broker := newTestStore(NewMemoryKV())
	ctx := context.Background()

	obs := NewObserver(ctx, store, zap.NewNop())
	stop, err := obs.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, broker.Subscribers())

	stop()
	assert.Equal(t, 0, broker.Subscribers())
}

func TestLocalBroker_FansOut(t *testing.T) {
	broker := NewLocalBroker()
	ctx := context.Background()

	first, cancelFirst, err := broker.Subscribe(ctx)
	require.NoError(t, err)
	defer cancelFirst()
	second, cancelSecond, err := broker.Subscribe(ctx)
	require.NoError(t, err)
	defer cancelSecond()

	require.NoError(t, broker.Publish(ctx, Signal{Reason: ReasonLogin}))

	a := <-first
	b := <-second
	assert.Equal(t, ReasonLogin, a.Reason)
	assert.Equal(t, ReasonLogin, b.Reason)
	assert.False(t, a.At.IsZero())
}

func TestLocalBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	broker := NewLocalBroker()
	ctx := context.Background()

	_, cancel, err := broker.Subscribe(ctx)
	require.NoError(t, err)
	defer cancel()

	for i := 0; i < subscriberBuffer*2; i++ {
		require.NoError(t, broker.Publish(ctx, Signal{Reason: ReasonLogin}))
	}
}
