package server

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/hunt/internal/progress"
)

func newTestHub() (*Hub, *progress.MemoryBackend) {
	backend := progress.NewMemoryBackend()
	return NewHub(backend, progress.Defaults{
		TotalLevels: 3,
		QuestIDs:    []string{"Quest 1"},
		Health:      100,
		Damage:      10,
		Speed:       5,
	}, log.New(io.Discard)), backend
}

func TestSessionsOfOnePlayerShareProgress(t *testing.T) {
	hub, _ := newTestHub()

	a, err := hub.Register("alice")
	require.NoError(t, err)
	b, err := hub.Register("alice")
	require.NoError(t, err)
	c, err := hub.Register("bob")
	require.NoError(t, err)

	assert.Same(t, a.Store, b.Store)
	assert.NotSame(t, a.Store, c.Store)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 3, hub.Sessions())

	require.NoError(t, a.Store.RecordCompletion(1, 3, 30))
	assert.True(t, b.Store.Unlocked(2))
	assert.False(t, c.Store.Unlocked(2))
}

func TestStoreReloadedAfterLastSessionLeaves(t *testing.T) {
	hub, _ := newTestHub()

	a, err := hub.Register("alice")
	require.NoError(t, err)
	require.NoError(t, a.Store.RecordCompletion(1, 2, 20))
	hub.Unregister(a.ID)
	hub.Unregister(a.ID)
	assert.Zero(t, hub.Sessions())

	again, err := hub.Register("alice")
	require.NoError(t, err)
	assert.NotSame(t, a.Store, again.Store)
	assert.Equal(t, 20, again.Store.Snapshot().TotalReward, "progress read back from the backend")
}

func TestShutdownNotifiesAndRefusesSessions(t *testing.T) {
	hub, _ := newTestHub()
	s, err := hub.Register("alice")
	require.NoError(t, err)

	go func() {
		ev := <-s.EventsCh
		if ev.Type == EventServerShutdown {
			hub.Unregister(s.ID)
		}
	}()

	assert.True(t, hub.Shutdown(2*time.Second))

	_, err = hub.Register("bob")
	assert.ErrorIs(t, err, ErrShuttingDown)
}

func TestShutdownTimesOut(t *testing.T) {
	hub, _ := newTestHub()
	_, err := hub.Register("alice")
	require.NoError(t, err)

	assert.False(t, hub.Shutdown(50*time.Millisecond))
}

func TestNewHubRequiresBackend(t *testing.T) {
	assert.Panics(t, func() { NewHub(nil, progress.Defaults{}, nil) })
}
