package roster

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triggerhappy/internal/game/player"
)

func newPlayer(id string) *player.Player {
	return player.NewPlayer(id, "Player "+id, rand.New(rand.NewPCG(1, 2)))
}

func TestRegisterKeepsOrder(t *testing.T) {
	r := New()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.Register(newPlayer(id)))
	}

	assert.Equal(t, []string{"a", "b", "c"}, r.IDs())
	assert.Equal(t, 3, r.Len())
	assert.Len(t, r.Others("b"), 2)
}

func TestRegisterRejectsDuplicatesAndSentinel(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(newPlayer("a")))

	assert.ErrorIs(t, r.Register(newPlayer("a")), ErrDuplicateRegistration)
	assert.ErrorIs(t, r.Register(newPlayer(player.NoTarget)), ErrInvalidID)
	assert.ErrorIs(t, r.Register(nil), ErrInvalidID)
	assert.Equal(t, 1, r.Len())
}

func TestUnregister(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(newPlayer("a")))
	require.NoError(t, r.Register(newPlayer("b")))

	p, err := r.Unregister("a")
	require.NoError(t, err)
	assert.Equal(t, "a", p.ID())
	assert.False(t, r.Contains("a"))
	assert.Equal(t, []string{"b"}, r.IDs())

	_, err = r.Unregister("a")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Lookup("a")
	assert.ErrorIs(t, err, ErrNotFound)
}
