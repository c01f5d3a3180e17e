package session

import (
	"triggerhappy/internal/network"
	"triggerhappy/internal/services/gameroom"
)

const (
	state_IDLE     = "idle"     // connected, not in a match
	state_IN_MATCH = "in-match" // joined a room
)

// PlayerSession is one connected client.
type PlayerSession struct {
	Client *network.Client
	Room   *gameroom.GameRoom
	State  string

	joining bool // a JOIN is waiting on its room
}

func NewPlayerSession(client *network.Client) *PlayerSession {
	return &PlayerSession{
		Client: client,
		State:  state_IDLE,
	}
}

func (s *PlayerSession) ID() string { return s.Client.ID() }

func (s *PlayerSession) TrySend(msg network.Message) bool {
	return s.Client.TrySend(msg)
}
