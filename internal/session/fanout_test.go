package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triggerhappy/internal/game/card"
	"triggerhappy/internal/game/player"
	"triggerhappy/internal/network"
	"triggerhappy/internal/session/message"
)

type fakeRecipient struct {
	id   string
	mu   sync.Mutex
	msgs []network.Message
}

func (r *fakeRecipient) ID() string { return r.id }

func (r *fakeRecipient) TrySend(msg network.Message) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return true
}

func (r *fakeRecipient) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.Type)
	}
	return out
}

func TestFanoutBroadcastsPublicEvents(t *testing.T) {
	f := NewFanout()
	a, b, other := &fakeRecipient{id: "a"}, &fakeRecipient{id: "b"}, &fakeRecipient{id: "x"}
	f.Attach("room-1", a)
	f.Attach("room-1", b)
	f.Attach("room-2", other)

	obs := f.ForRoom("room-1")
	obs.LogEvent("Alice reloaded")
	obs.PlayerStateChanged(player.State{ID: "a", Health: 3})

	assert.Equal(t, []string{message.LOG, message.PLAYER_STATE}, a.types())
	assert.Equal(t, []string{message.LOG, message.PLAYER_STATE}, b.types())
	assert.Empty(t, other.types())

	var logPayload message.LogPayload
	require.NoError(t, a.msgs[0].Decode(&logPayload))
	assert.Equal(t, "Alice reloaded", logPayload.Text)
}

func TestFanoutKeepsPrivateEventsPrivate(t *testing.T) {
	f := NewFanout()
	a, b := &fakeRecipient{id: "a"}, &fakeRecipient{id: "b"}
	f.Attach("room", a)
	f.Attach("room", b)

	obs := f.ForRoom("room")
	obs.HandChanged("a", []card.Action{card.Shoot, card.Reload})
	obs.DiscardPromptChanged("b", true, 5)
	obs.DeckChanged("a", []string{"Shoot x3"})

	assert.Equal(t, []string{message.HAND, message.DECK}, a.types())
	assert.Equal(t, []string{message.DISCARD_PROMPT}, b.types())

	var hand message.HandPayload
	require.NoError(t, a.msgs[0].Decode(&hand))
	assert.Equal(t, []card.Action{card.Shoot, card.Reload}, hand.Cards)
}

func TestFanoutDetach(t *testing.T) {
	f := NewFanout()
	a := &fakeRecipient{id: "a"}
	f.Attach("room", a)
	assert.Equal(t, 1, f.Members("room"))

	f.Detach("room", "a")
	assert.Zero(t, f.Members("room"))

	winner := "a"
	f.ForRoom("room").GameEnded(&winner)
	assert.Empty(t, a.types())
}
