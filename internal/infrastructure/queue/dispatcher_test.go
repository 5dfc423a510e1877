package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/useradmin/user-admin-dashboard/internal/core/ports"
)

type memoryStore struct {
	mu      sync.Mutex
	stamps  map[string][]time.Time
	failFor string
}

func (m *memoryStore) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	if id == m.failFor {
		return errors.New("write failed")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamps[id] = append(m.stamps[id], at)
	return nil
}

func TestDispatcher_DrainsOnClose(t *testing.T) {
	store := &memoryStore{stamps: make(map[string][]time.Time)}
	d := NewDispatcher(3, store, zerolog.Nop())
	d.Start()

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		d.Record(ports.LoginEvent{UserID: "u1", At: base.Add(time.Duration(i) * time.Minute)})
	}
	d.Record(ports.LoginEvent{UserID: "u2", At: base})

	require.NoError(t, d.Close(context.Background()))

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.stamps["u1"], 10)
	for i := 1; i < len(store.stamps["u1"]); i++ {
		assert.True(t, store.stamps["u1"][i].After(store.stamps["u1"][i-1]), "stamps for one user must stay ordered")
	}
	assert.Len(t, store.stamps["u2"], 1)
}

func TestDispatcher_StoreErrorDoesNotStopWorker(t *testing.T) {
	store := &memoryStore{stamps: make(map[string][]time.Time), failFor: "bad"}
	d := NewDispatcher(1, store, zerolog.Nop())
	d.Start()

	d.Record(ports.LoginEvent{UserID: "bad", At: time.Now()})
	d.Record(ports.LoginEvent{UserID: "good", At: time.Now()})
	require.NoError(t, d.Close(context.Background()))

	assert.Len(t, store.stamps["good"], 1)
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, &memoryStore{}, zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)
	assert.Equal(t, d.shardIndex("abc"), d.shardIndex("abc"))
}

func TestDispatcher_CloseTwice(t *testing.T) {
	d := NewDispatcher(2, &memoryStore{stamps: make(map[string][]time.Time)}, zerolog.Nop())
	d.Start()
	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_RecordAfterCloseIsIgnored(t *testing.T) {
	store := &memoryStore{stamps: make(map[string][]time.Time)}
	d := NewDispatcher(1, store, zerolog.Nop())
	d.Start()
	require.NoError(t, d.Close(context.Background()))

	d.Record(ports.LoginEvent{UserID: "late", At: time.Now()})
	assert.Empty(t, store.stamps["late"])
}
