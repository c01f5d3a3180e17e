// Package events mirrors the public side of every match onto NATS so other
// services (spectators, replays, stats) can follow along without a
// websocket.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"triggerhappy/internal/game/player"
	"triggerhappy/internal/services/gameroom"
)

// Conn is the subset of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subj string, data []byte) error
}

// Event is the body of every published message.
type Event struct {
	Room    string    `json:"room"`
	Kind    string    `json:"kind"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

const (
	KindLobby      = "lobby"
	KindPhase      = "phase"
	KindPlayer     = "player"
	KindLog        = "log"
	KindEliminated = "eliminated"
	KindEnded      = "ended"
)

// Connect dials NATS and keeps reconnecting for as long as the process runs.
func Connect(url, name string, log zerolog.Logger) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
}

type Publisher struct {
	conn   Conn
	prefix string
	now    func() time.Time
	log    zerolog.Logger
}

func NewPublisher(conn Conn, prefix string, log zerolog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		prefix: prefix,
		now:    time.Now,
		log:    log.With().Str("component", "events").Logger(),
	}
}

// Subject is <prefix>.<roomID>.<kind>.
func (p *Publisher) Subject(roomID, kind string) string {
	return fmt.Sprintf("%s.%s.%s", p.prefix, roomID, kind)
}

func (p *Publisher) publish(roomID, kind string, payload any) {
	data, err := json.Marshal(Event{Room: roomID, Kind: kind, At: p.now().UTC(), Payload: payload})
	if err != nil {
		p.log.Error().Err(err).Str("kind", kind).Msg("encode event")
		return
	}
	if err := p.conn.Publish(p.Subject(roomID, kind), data); err != nil {
		p.log.Warn().Err(err).Str("room", roomID).Str("kind", kind).Msg("publish failed")
	}
}

// ForRoom is a gameroom.ObserverFactory. Hands, decks and discard prompts
// are private to their owner and never published.
func (p *Publisher) ForRoom(roomID string) gameroom.Observer {
	return &roomEvents{p: p, room: roomID}
}

type roomEvents struct {
	gameroom.NopObserver
	p    *Publisher
	room string
}

func (e *roomEvents) LobbyChanged(l gameroom.Lobby) {
	e.p.publish(e.room, KindLobby, l)
}

func (e *roomEvents) PhaseChanged(phase gameroom.Phase, round int) {
	e.p.publish(e.room, KindPhase, map[string]any{"phase": phase, "round": round})
}

func (e *roomEvents) PlayerStateChanged(s player.State) {
	e.p.publish(e.room, KindPlayer, s)
}

func (e *roomEvents) LogEvent(text string) {
	e.p.publish(e.room, KindLog, map[string]string{"text": text})
}

func (e *roomEvents) PlayerEliminated(id string) {
	e.p.publish(e.room, KindEliminated, map[string]string{"playerId": id})
}

func (e *roomEvents) GameEnded(winner *string) {
	e.p.publish(e.room, KindEnded, map[string]*string{"winner": winner})
}
