// internal/server/session_test.go
package server

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hauler-portal/internal/common/database"
	"hauler-portal/internal/common/logger"
	"hauler-portal/internal/draft"
	"hauler-portal/internal/models"
	"hauler-portal/internal/wizard"
)

func setupDraftStore(t *testing.T) *draft.Store {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return draft.NewStore(&database.RedisClient{Client: client}, logger.NewNoOpLogger(), 24*time.Hour)
}

func TestRegistryPutStopsReplacedSessionSaver(t *testing.T) {
	store := setupDraftStore(t)
	registry := NewRegistry(time.Hour)

	oldSaver := draft.NewSaver(store, logger.NewNoOpLogger(), "tab-one", 50*time.Millisecond)
	registry.Put(&Session{
		ID:      "tab-one",
		Machine: wizard.NewMachine(),
		Saver:   oldSaver,
	})

	// A write is pending when the session gets resumed from another tab.
	oldSaver.Offer(models.DraftSnapshot{
		Data:        models.NewApplicationDraft(),
		CurrentStep: 2,
		Timestamp:   time.Now().UTC(),
	})

	registry.Put(&Session{
		ID:      "tab-one",
		Machine: wizard.NewMachine(),
		Saver:   draft.NewSaver(store, logger.NewNoOpLogger(), "tab-one", 50*time.Millisecond),
	})

	// The replaced saver's debounce must never fire.
	time.Sleep(150 * time.Millisecond)
	snap, err := store.Load(context.Background(), "tab-one")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestRegistryEvictStaleStopsSavers(t *testing.T) {
	store := setupDraftStore(t)
	registry := NewRegistry(time.Nanosecond)

	saver := draft.NewSaver(store, logger.NewNoOpLogger(), "idle-session", 50*time.Millisecond)
	registry.Put(&Session{
		ID:      "idle-session",
		Machine: wizard.NewMachine(),
		Saver:   saver,
	})

	saver.Offer(models.DraftSnapshot{
		Data:        models.NewApplicationDraft(),
		CurrentStep: 1,
		Timestamp:   time.Now().UTC(),
	})

	time.Sleep(time.Millisecond)
	assert.Equal(t, 1, registry.EvictStale())

	_, ok := registry.Get("idle-session")
	assert.False(t, ok)

	time.Sleep(150 * time.Millisecond)
	snap, err := store.Load(context.Background(), "idle-session")
	require.NoError(t, err)
	assert.Nil(t, snap)
}
