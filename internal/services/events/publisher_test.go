package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triggerhappy/internal/game/card"
	"triggerhappy/internal/services/gameroom"
)

type published struct {
	subject string
	event   Event
}

type fakeConn struct {
	out []published
	err error
}

func (c *fakeConn) Publish(subj string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	c.out = append(c.out, published{subject: subj, event: e})
	return nil
}

func newTestPublisher(conn Conn) *Publisher {
	p := NewPublisher(conn, "triggerhappy.match", zerolog.Nop())
	p.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return p
}

func TestPublishesPublicEvents(t *testing.T) {
	conn := &fakeConn{}
	obs := newTestPublisher(conn).ForRoom("r1")

	obs.PhaseChanged(gameroom.PhaseSelecting, 2)
	obs.LogEvent("Alice shot Bob")
	obs.PlayerEliminated("bob")
	winner := "alice"
	obs.GameEnded(&winner)

	require.Len(t, conn.out, 4)
	assert.Equal(t, "triggerhappy.match.r1.phase", conn.out[0].subject)
	assert.Equal(t, "triggerhappy.match.r1.log", conn.out[1].subject)
	assert.Equal(t, "triggerhappy.match.r1.eliminated", conn.out[2].subject)
	assert.Equal(t, "triggerhappy.match.r1.ended", conn.out[3].subject)

	logEvent := conn.out[1].event
	assert.Equal(t, "r1", logEvent.Room)
	assert.Equal(t, KindLog, logEvent.Kind)
	assert.Equal(t, map[string]any{"text": "Alice shot Bob"}, logEvent.Payload)
	assert.Equal(t, 2026, logEvent.At.Year())

	assert.Equal(t, map[string]any{"phase": "selecting", "round": float64(2)}, conn.out[0].event.Payload)
}

func TestPrivateEventsAreNotPublished(t *testing.T) {
	conn := &fakeConn{}
	obs := newTestPublisher(conn).ForRoom("r1")

	obs.HandChanged("alice", []card.Action{card.Shoot})
	obs.DiscardPromptChanged("alice", true, 5)
	obs.DeckChanged("alice", []string{"Shoot x3"})
	obs.RoundTimerChanged(10)

	assert.Empty(t, conn.out)
}

func TestPublishErrorIsSwallowed(t *testing.T) {
	conn := &fakeConn{err: errors.New("nats: connection closed")}
	obs := newTestPublisher(conn).ForRoom("r1")

	assert.NotPanics(t, func() { obs.LogEvent("x") })
}
