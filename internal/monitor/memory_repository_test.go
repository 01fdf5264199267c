package monitor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficwarden/trafficwarden/internal/monitor"
)

func TestMemoryStore_UpsertAndGet(t *testing.T) {
	store := monitor.NewMemoryStore()
	ep := newEndpoint(3)

	store.Upsert(ep)

	got, err := store.Get(ep.URL)
	require.NoError(t, err)
	assert.Equal(t, ep.URL, got.URL)
	assert.Equal(t, monitor.StateInitializing, got.State)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	store := monitor.NewMemoryStore()

	_, err := store.Get("https://missing.example.com")

	assert.ErrorIs(t, err, monitor.ErrEndpointNotFound)
}

func TestMemoryStore_UpsertReplaces(t *testing.T) {
	store := monitor.NewMemoryStore()
	ep := newEndpoint(3)
	store.Upsert(ep)

	ep.State = monitor.StateHealthy
	ep.SuccessCount = 7
	store.Upsert(ep)

	got, err := store.Get(ep.URL)
	require.NoError(t, err)
	assert.Equal(t, monitor.StateHealthy, got.State)
	assert.Equal(t, uint64(7), got.SuccessCount)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_ListSortedSnapshot(t *testing.T) {
	store := monitor.NewMemoryStore()
	for _, url := range []string{"https://c.example.com", "https://a.example.com", "https://b.example.com"} {
		store.Upsert(monitor.Endpoint{URL: url, State: monitor.StateInitializing, CreatedAt: time.Now()})
	}

	list := store.List()

	require.Len(t, list, 3)
	assert.Equal(t, "https://a.example.com", list[0].URL)
	assert.Equal(t, "https://b.example.com", list[1].URL)
	assert.Equal(t, "https://c.example.com", list[2].URL)

	// Mutating the snapshot must not leak back into the store.
	list[0].State = monitor.StateUnhealthy
	got, err := store.Get("https://a.example.com")
	require.NoError(t, err)
	assert.Equal(t, monitor.StateInitializing, got.State)
}

func TestMemoryStore_Remove(t *testing.T) {
	store := monitor.NewMemoryStore()
	ep := newEndpoint(3)
	store.Upsert(ep)

	require.NoError(t, store.Remove(ep.URL))

	assert.Equal(t, 0, store.Len())
	assert.ErrorIs(t, store.Remove(ep.URL), monitor.ErrEndpointNotFound)
}

func TestMemoryStore_Reset(t *testing.T) {
	store := monitor.NewMemoryStore()
	store.Upsert(newEndpoint(3))
	store.Upsert(monitor.Endpoint{URL: "https://other.example.com"})

	store.Reset()

	assert.Equal(t, 0, store.Len())
	assert.Empty(t, store.List())
}
