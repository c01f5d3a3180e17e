package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"triggerhappy/internal/network"
	"triggerhappy/internal/services/gameroom"
	"triggerhappy/internal/session/message"
)

// CommandHandlerFunc is the signature of every protocol command handler.
type CommandHandlerFunc func(h *GameHandler, session *PlayerSession, payload json.RawMessage)

// RoomDirectory is the part of the room manager the handler needs.
type RoomDirectory interface {
	CreateRoom(ctx context.Context, options map[string]any) (*gameroom.GameRoom, error)
	GetRoom(ctx context.Context, roomID string) *gameroom.GameRoom
}

// GameHandler implements network.EventHandler. All of its state is owned by
// the hub goroutine.
type GameHandler struct {
	sessions map[*network.Client]*PlayerSession
	rooms    RoomDirectory
	fanout   *Fanout
	timeout  time.Duration
	log      zerolog.Logger

	// one router per session state
	idleRouter  map[string]CommandHandlerFunc
	matchRouter map[string]CommandHandlerFunc
}

func NewGameHandler(rooms RoomDirectory, fanout *Fanout, log zerolog.Logger) *GameHandler {
	h := &GameHandler{
		sessions:    make(map[*network.Client]*PlayerSession),
		rooms:       rooms,
		fanout:      fanout,
		timeout:     2 * time.Second,
		log:         log.With().Str("component", "session").Logger(),
		idleRouter:  make(map[string]CommandHandlerFunc),
		matchRouter: make(map[string]CommandHandlerFunc),
	}
	h.registerLobbyHandlers()
	h.registerMatchHandlers()
	return h
}

// --- network.EventHandler ---

func (h *GameHandler) OnConnect(c *network.Client) {
	session := NewPlayerSession(c)
	h.sessions[c] = session
	h.log.Info().Str("player", c.ID()).Str("addr", c.RemoteAddr()).Int("sessions", len(h.sessions)).Msg("session created")

	message.Send(session, message.WELCOME, message.WelcomePayload{PlayerID: c.ID()})
}

func (h *GameHandler) OnDisconnect(c *network.Client) {
	session, ok := h.sessions[c]
	if !ok {
		return
	}

	if session.State == state_IN_MATCH && session.Room != nil {
		h.leaveRoom(session)
	}

	delete(h.sessions, c)
	h.log.Info().Str("player", c.ID()).Int("sessions", len(h.sessions)).Msg("session removed")
}

// OnMessage dispatches to the router of the session's current state.
func (h *GameHandler) OnMessage(c *network.Client, msg network.Message) {
	session, ok := h.sessions[c]
	if !ok {
		return
	}

	var router map[string]CommandHandlerFunc
	switch session.State {
	case state_IDLE:
		router = h.idleRouter
	case state_IN_MATCH:
		router = h.matchRouter
	default:
		message.SendError(session, "invalid session state: %s", session.State)
		return
	}

	handler, found := router[msg.Type]
	if !found {
		message.SendError(session, "unknown or invalid command in state %s: %s", session.State, msg.Type)
		return
	}
	handler(h, session, msg.Payload)
}
