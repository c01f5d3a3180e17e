package gameroom

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startManager(t *testing.T) *RoomManager {
	t.Helper()
	rm, err := NewRoomManager(ManagerConfig{
		Defaults:  testConfig(),
		Tick:      5 * time.Millisecond,
		CacheSize: 4,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go rm.Run(ctx)
	t.Cleanup(cancel)
	return rm
}

func TestCreateAndGetRoom(t *testing.T) {
	rm := startManager(t)
	ctx := context.Background()

	room, err := rm.CreateRoom(ctx, map[string]any{"roundTimeSeconds": 30})
	require.NoError(t, err)
	assert.Same(t, room, rm.GetRoom(ctx, room.ID))
	assert.Nil(t, rm.GetRoom(ctx, "missing"))
	assert.Len(t, rm.Rooms(ctx), 1)

	s, ok := rm.Summary(ctx, room.ID)
	require.True(t, ok)
	assert.Equal(t, 30, s.Config.RoundTimeSeconds)
	assert.Equal(t, PhaseLobby, s.Phase)
}

func TestCreateRoomRejectsBadOptions(t *testing.T) {
	rm := startManager(t)

	_, err := rm.CreateRoom(context.Background(), map[string]any{"minPlayers": 1})
	assert.Error(t, err)
	assert.Empty(t, rm.Rooms(context.Background()))
}

func TestCleanupKeepsFinishedSummary(t *testing.T) {
	rm := startManager(t)
	ctx := context.Background()

	room, err := rm.CreateRoom(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, room.Do(ctx, Join{PlayerID: "p1", Name: "Alice"}))
	require.NoError(t, room.Do(ctx, Leave{PlayerID: "p1"}))
	require.True(t, room.IsFinished())

	require.NoError(t, rm.Cleanup(ctx))
	assert.Nil(t, rm.GetRoom(ctx, room.ID))
	<-room.Done()

	s, ok := rm.Summary(ctx, room.ID)
	require.True(t, ok)
	assert.Equal(t, PhaseEnded, s.Phase)
	assert.Equal(t, room.ID, s.ID)

	_, ok = rm.Summary(ctx, "never-existed")
	assert.False(t, ok)
}
