package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/backend/internal/infrastructure/trigger"
)

type recSink struct {
	name      string
	delivered []trigger.Trigger
	err       error
}

func (s *recSink) Name() string {
	if s.name == "" {
		return "rec"
	}
	return s.name
}

func (s *recSink) Deliver(_ context.Context, t trigger.Trigger) error {
	if s.err != nil {
		return s.err
	}
	s.delivered = append(s.delivered, t)
	return nil
}

func openTriggerStore(t *testing.T) *trigger.Store {
	t.Helper()
	store, err := trigger.Open(filepath.Join(t.TempDir(), "triggers.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDrainDeliversDueTriggersOnce(t *testing.T) {
	store := openTriggerStore(t)
	sink := &recSink{}
	td := NewTriggerDispatcher(store, nil, DispatcherConfig{Interval: time.Minute})
	td.AddSink(sink)

	require.NoError(t, store.Put(trigger.Trigger{ID: 1, UserID: "user-1", Body: "due", FireAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, store.Put(trigger.Trigger{ID: 2, UserID: "user-1", Body: "later", FireAt: time.Now().Add(time.Hour)}))

	require.NoError(t, td.Drain(context.Background()))
	require.Len(t, sink.delivered, 1)
	assert.Equal(t, 1, sink.delivered[0].ID)

	// A second drain must not redeliver; the future trigger stays pending.
	require.NoError(t, td.Drain(context.Background()))
	assert.Len(t, sink.delivered, 1)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}

func TestDrainFansOutToEverySink(t *testing.T) {
	store := openTriggerStore(t)
	failing := &recSink{name: "failing", err: errors.New("sink down")}
	healthy := &recSink{name: "healthy"}
	td := NewTriggerDispatcher(store, nil, DispatcherConfig{Interval: time.Minute})
	td.AddSink(failing)
	td.AddSink(healthy)

	require.NoError(t, store.Put(trigger.Trigger{ID: 3, UserID: "user-1", FireAt: time.Now().Add(-time.Second)}))

	require.NoError(t, td.Drain(context.Background()))
	assert.Len(t, healthy.delivered, 1)
}

func TestDrainRemovesTriggerOnSinkFailure(t *testing.T) {
	store := openTriggerStore(t)
	sink := &recSink{err: errors.New("sink down")}
	td := NewTriggerDispatcher(store, nil, DispatcherConfig{Interval: time.Minute})
	td.AddSink(sink)

	require.NoError(t, store.Put(trigger.Trigger{ID: 4, UserID: "user-1", FireAt: time.Now().Add(-time.Second)}))
	require.NoError(t, td.Drain(context.Background()))

	// At-most-once: the failed trigger is dropped, not retried.
	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 0, size)

	sink.err = nil
	require.NoError(t, td.Drain(context.Background()))
	assert.Empty(t, sink.delivered)
}

func TestDispatcherFloorsSubSecondInterval(t *testing.T) {
	store := openTriggerStore(t)
	td := NewTriggerDispatcher(store, nil, DispatcherConfig{Interval: 100 * time.Millisecond})

	assert.Equal(t, time.Second, td.cfg.Interval)
}

func TestNotifyBridgeScheduleThenDrain(t *testing.T) {
	store := openTriggerStore(t)
	bridge := NewNotifyBridge(store)
	sink := &recSink{}
	td := NewTriggerDispatcher(store, nil, DispatcherConfig{Interval: time.Minute})
	td.AddSink(sink)

	fireAt := time.Now().Add(-time.Second)
	require.NoError(t, bridge.Schedule(context.Background(), 42, "user-1", "Buy groceries", "Buy groceries has expired.", fireAt))

	require.NoError(t, td.Drain(context.Background()))
	require.Len(t, sink.delivered, 1)
	assert.Equal(t, 42, sink.delivered[0].ID)
	assert.Equal(t, "user-1", sink.delivered[0].UserID)
	assert.Equal(t, "Buy groceries has expired.", sink.delivered[0].Body)
}

func TestNotifyBridgeCancelBeforeDrain(t *testing.T) {
	store := openTriggerStore(t)
	bridge := NewNotifyBridge(store)
	sink := &recSink{}
	td := NewTriggerDispatcher(store, nil, DispatcherConfig{Interval: time.Minute})
	td.AddSink(sink)

	require.NoError(t, bridge.Schedule(context.Background(), 43, "user-1", "t", "b", time.Now().Add(-time.Second)))
	require.NoError(t, bridge.Cancel(context.Background(), 43))
	// Cancelling an id that was never scheduled is a no-op.
	require.NoError(t, bridge.Cancel(context.Background(), 999))

	require.NoError(t, td.Drain(context.Background()))
	assert.Empty(t, sink.delivered)
}
