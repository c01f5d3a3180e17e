//START OF FILE triggerhappy/internal/session/handlers_match.go
package session

import (
	"encoding/json"

	"triggerhappy/internal/services/gameroom"
	"triggerhappy/internal/session/message"
)

func handleLeave(h *GameHandler, session *PlayerSession, _ json.RawMessage) {
	roomID := session.Room.ID
	h.leaveRoom(session)
	message.Send(session, message.LEFT, message.JoinedPayload{MatchID: roomID, PlayerID: session.ID()})
}

// ---- Host and deck builder commands: failures are reported back ----

func handleConfigure(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	var req message.ConfigurePayload
	if !decode(session, payload, &req) {
		return
	}
	h.do(session, gameroom.Configure{PlayerID: session.ID(), Options: req.Options})
}

func handleAddCard(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	var req message.ActionPayload
	if !decode(session, payload, &req) {
		return
	}
	h.do(session, gameroom.AddCard{PlayerID: session.ID(), Action: req.Action})
}

func handleRemoveCard(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	var req message.ActionPayload
	if !decode(session, payload, &req) {
		return
	}
	h.do(session, gameroom.RemoveCard{PlayerID: session.ID(), Action: req.Action})
}

func handleStartGame(h *GameHandler, session *PlayerSession, _ json.RawMessage) {
	h.do(session, gameroom.Start{PlayerID: session.ID()})
}

func handleForceEndRound(h *GameHandler, session *PlayerSession, _ json.RawMessage) {
	h.do(session, gameroom.ForceEndRound{PlayerID: session.ID()})
}

func handleDiscard(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	var req message.DiscardPayload
	if !decode(session, payload, &req) {
		return
	}
	if req.Index == nil {
		message.SendError(session, "invalid payload: 'index' is required")
		return
	}
	h.do(session, gameroom.Discard{PlayerID: session.ID(), Index: *req.Index})
}

// ---- Selection window: fire and forget, late submissions are dropped ----

func handleSelectAction(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	var req message.ActionPayload
	if !decode(session, payload, &req) {
		return
	}
	session.Room.ForwardAction(gameroom.SelectAction{PlayerID: session.ID(), Action: req.Action})
}

func handleDeselectAction(h *GameHandler, session *PlayerSession, _ json.RawMessage) {
	session.Room.ForwardAction(gameroom.DeselectAction{PlayerID: session.ID()})
}

func handleSelectTarget(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	var req message.TargetPayload
	if !decode(session, payload, &req) {
		return
	}
	session.Room.ForwardAction(gameroom.SelectTarget{PlayerID: session.ID(), TargetID: req.TargetID})
}

func handleDeselectTarget(h *GameHandler, session *PlayerSession, _ json.RawMessage) {
	session.Room.ForwardAction(gameroom.DeselectTarget{PlayerID: session.ID()})
}

// registerMatchHandlers fills the router used once a session joined a room.
func (h *GameHandler) registerMatchHandlers() {
	h.matchRouter[message.LEAVE] = handleLeave
	h.matchRouter[message.CONFIGURE] = handleConfigure
	h.matchRouter[message.ADD_CARD] = handleAddCard
	h.matchRouter[message.REMOVE_CARD] = handleRemoveCard
	h.matchRouter[message.START_GAME] = handleStartGame
	h.matchRouter[message.FORCE_END_ROUND] = handleForceEndRound
	h.matchRouter[message.DISCARD] = handleDiscard
	h.matchRouter[message.SELECT_ACTION] = handleSelectAction
	h.matchRouter[message.DESELECT_ACTION] = handleDeselectAction
	h.matchRouter[message.SELECT_TARGET] = handleSelectTarget
	h.matchRouter[message.DESELECT_TARGET] = handleDeselectTarget
}

//END OF FILE triggerhappy/internal/session/handlers_match.go
