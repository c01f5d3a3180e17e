package session

import (
	"context"
	"encoding/json"
	"errors"

	"triggerhappy/internal/services/gameroom"
	"triggerhappy/internal/session/message"
)

func decode(session *PlayerSession, payload json.RawMessage, v any) bool {
	if len(payload) == 0 {
		return true
	}
	if err := json.Unmarshal(payload, v); err != nil {
		message.SendError(session, "invalid payload: %v", err)
		return false
	}
	return true
}

// do runs cmd on the session's room and reports any failure to the player.
func (h *GameHandler) do(session *PlayerSession, cmd gameroom.Command) bool {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := session.Room.Do(ctx, cmd); err != nil {
		if errors.Is(err, gameroom.ErrRoomClosed) {
			h.detach(session)
		}
		message.SendError(session, "%v", err)
		return false
	}
	return true
}

// leaveRoom must not lose the Leave, or a disconnected player's last
// selection would still resolve.
func (h *GameHandler) leaveRoom(session *PlayerSession) {
	session.Room.Deliver(gameroom.Leave{PlayerID: session.ID()})
	h.detach(session)
}

func (h *GameHandler) detach(session *PlayerSession) {
	if session.Room != nil {
		h.fanout.Detach(session.Room.ID, session.ID())
	}
	session.Room = nil
	session.State = state_IDLE
}
