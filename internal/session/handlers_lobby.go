package session

import (
	"context"
	"encoding/json"
	"fmt"

	"triggerhappy/internal/services/gameroom"
	"triggerhappy/internal/session/message"
)

// handleJoin attaches the session to an existing match, or opens a new one
// when no match id is given. The room lookup and the join wait on other
// goroutines, so they run off the hub and the result is posted back.
func handleJoin(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	var req message.JoinPayload
	if !decode(session, payload, &req) {
		return
	}
	if session.joining {
		message.SendError(session, "a join is already in progress")
		return
	}
	session.joining = true

	go func() {
		room, err := h.join(session, req)
		if session.Client.Post(func() { h.finishJoin(session, room, err) }) {
			return
		}
		// Hub is gone, nobody will ever play this seat.
		if err == nil {
			room.Deliver(gameroom.Leave{PlayerID: session.ID()})
			h.fanout.Detach(room.ID, session.ID())
		}
	}()
}

// join runs off the hub goroutine. It only touches the room directory, the
// fanout and the room itself.
func (h *GameHandler) join(session *PlayerSession, req message.JoinPayload) (*gameroom.GameRoom, error) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	var room *gameroom.GameRoom
	if req.MatchID == "" {
		created, err := h.rooms.CreateRoom(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("could not create match: %w", err)
		}
		room = created
	} else {
		room = h.rooms.GetRoom(ctx, req.MatchID)
	}
	if room == nil {
		return nil, fmt.Errorf("match %s not found", req.MatchID)
	}

	// Attach first so the join broadcast reaches the new player too.
	h.fanout.Attach(room.ID, session)
	if err := room.Do(ctx, gameroom.Join{PlayerID: session.ID(), Name: req.Name}); err != nil {
		h.fanout.Detach(room.ID, session.ID())
		return nil, fmt.Errorf("could not join match: %w", err)
	}
	return room, nil
}

// finishJoin runs on the hub goroutine once join has returned.
func (h *GameHandler) finishJoin(session *PlayerSession, room *gameroom.GameRoom, err error) {
	session.joining = false

	if h.sessions[session.Client] != session {
		// disconnected while the join was in flight
		if err == nil {
			room.Deliver(gameroom.Leave{PlayerID: session.ID()})
			h.fanout.Detach(room.ID, session.ID())
		}
		return
	}
	if err != nil {
		message.SendError(session, "%v", err)
		return
	}

	session.Room = room
	session.State = state_IN_MATCH
	h.log.Info().Str("player", session.ID()).Str("room", room.ID).Msg("joined match")
	message.Send(session, message.JOINED, message.JoinedPayload{MatchID: room.ID, PlayerID: session.ID()})
}

func (h *GameHandler) registerLobbyHandlers() {
	h.idleRouter[message.JOIN] = handleJoin
}
