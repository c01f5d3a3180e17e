package message

import (
	"triggerhappy/internal/game/card"
)

// Client -> server
const (
	JOIN            = "JOIN"
	LEAVE           = "LEAVE"
	CONFIGURE       = "CONFIGURE"
	ADD_CARD        = "ADD_CARD"
	REMOVE_CARD     = "REMOVE_CARD"
	START_GAME      = "START_GAME"
	FORCE_END_ROUND = "FORCE_END_ROUND"
	SELECT_ACTION   = "SELECT_ACTION"
	DESELECT_ACTION = "DESELECT_ACTION"
	SELECT_TARGET   = "SELECT_TARGET"
	DESELECT_TARGET = "DESELECT_TARGET"
	DISCARD         = "DISCARD"
)

// Server -> client
const (
	WELCOME        = "WELCOME"
	JOINED         = "JOINED"
	LEFT           = "LEFT"
	PLAYER_LIST    = "PLAYER_LIST"
	DECK           = "DECK"
	PHASE          = "PHASE"
	TIMER          = "TIMER"
	PLAYER_STATE   = "PLAYER_STATE"
	LOG            = "LOG"
	HAND           = "HAND"
	DISCARD_PROMPT = "DISCARD_PROMPT"
	ELIMINATED     = "ELIMINATED"
	GAME_ENDED     = "GAME_ENDED"
	ERROR          = "ERROR"
)

// ---- Request payloads ----

type JoinPayload struct {
	// MatchID may be empty to open a new match.
	MatchID string `json:"matchId"`
	Name    string `json:"name"`
}

type ConfigurePayload struct {
	Options map[string]any `json:"options"`
}

type ActionPayload struct {
	Action card.Action `json:"action"`
}

type TargetPayload struct {
	TargetID string `json:"targetId"`
}

type DiscardPayload struct {
	Index *int `json:"index"`
}

// ---- Event payloads ----

type WelcomePayload struct {
	PlayerID string `json:"playerId"`
}

type JoinedPayload struct {
	MatchID  string `json:"matchId"`
	PlayerID string `json:"playerId"`
}

type DeckPayload struct {
	PlayerID string   `json:"playerId"`
	Cards    []string `json:"cards"`
}

type PhasePayload struct {
	Phase string `json:"phase"`
	Round int    `json:"round"`
}

type TimerPayload struct {
	Seconds int `json:"seconds"`
}

type LogPayload struct {
	Text string `json:"text"`
}

type HandPayload struct {
	Cards []card.Action `json:"cards"`
}

type DiscardPromptPayload struct {
	Active  bool `json:"active"`
	Seconds int  `json:"seconds"`
}

type EliminatedPayload struct {
	PlayerID string `json:"playerId"`
}

type GameEndedPayload struct {
	// Winner is null on a draw.
	Winner *string `json:"winner"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
