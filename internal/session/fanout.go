package session

import (
	"sync"

	"triggerhappy/internal/game/card"
	"triggerhappy/internal/game/player"
	"triggerhappy/internal/network"
	"triggerhappy/internal/services/gameroom"
	"triggerhappy/internal/session/message"
)

// Recipient is a connected player that can receive events.
type Recipient interface {
	ID() string
	TrySend(msg network.Message) bool
}

// Fanout tracks which recipients are attached to which room and turns room
// events into protocol messages. Rooms call it from their own goroutine
// while the hub attaches and detaches from another, hence the lock.
type Fanout struct {
	mu    sync.RWMutex
	rooms map[string]map[string]Recipient
}

func NewFanout() *Fanout {
	return &Fanout{rooms: make(map[string]map[string]Recipient)}
}

func (f *Fanout) Attach(roomID string, r Recipient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	members, ok := f.rooms[roomID]
	if !ok {
		members = make(map[string]Recipient)
		f.rooms[roomID] = members
	}
	members[r.ID()] = r
}

func (f *Fanout) Detach(roomID, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	members := f.rooms[roomID]
	delete(members, id)
	if len(members) == 0 {
		delete(f.rooms, roomID)
	}
}

func (f *Fanout) Members(roomID string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.rooms[roomID])
}

func (f *Fanout) broadcast(roomID string, msg network.Message) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, r := range f.rooms[roomID] {
		r.TrySend(msg)
	}
}

func (f *Fanout) sendTo(roomID, id string, msg network.Message) {
	f.mu.RLock()
	r, ok := f.rooms[roomID][id]
	f.mu.RUnlock()
	if ok {
		r.TrySend(msg)
	}
}

// ForRoom is a gameroom.ObserverFactory.
func (f *Fanout) ForRoom(roomID string) gameroom.Observer {
	return &roomBroadcaster{f: f, roomID: roomID}
}

type roomBroadcaster struct {
	f      *Fanout
	roomID string
}

func (b *roomBroadcaster) all(msgType string, payload any) {
	b.f.broadcast(b.roomID, message.Create(msgType, payload))
}

func (b *roomBroadcaster) one(id, msgType string, payload any) {
	b.f.sendTo(b.roomID, id, message.Create(msgType, payload))
}

func (b *roomBroadcaster) LobbyChanged(l gameroom.Lobby) {
	b.all(message.PLAYER_LIST, l)
}

func (b *roomBroadcaster) DeckChanged(id string, labels []string) {
	b.one(id, message.DECK, message.DeckPayload{PlayerID: id, Cards: labels})
}

func (b *roomBroadcaster) PhaseChanged(p gameroom.Phase, round int) {
	b.all(message.PHASE, message.PhasePayload{Phase: string(p), Round: round})
}

func (b *roomBroadcaster) RoundTimerChanged(seconds int) {
	b.all(message.TIMER, message.TimerPayload{Seconds: seconds})
}

func (b *roomBroadcaster) PlayerStateChanged(s player.State) {
	b.all(message.PLAYER_STATE, s)
}

func (b *roomBroadcaster) HandChanged(id string, hand []card.Action) {
	b.one(id, message.HAND, message.HandPayload{Cards: hand})
}

func (b *roomBroadcaster) LogEvent(text string) {
	b.all(message.LOG, message.LogPayload{Text: text})
}

func (b *roomBroadcaster) PlayerEliminated(id string) {
	b.all(message.ELIMINATED, message.EliminatedPayload{PlayerID: id})
}

func (b *roomBroadcaster) DiscardPromptChanged(id string, active bool, seconds int) {
	b.one(id, message.DISCARD_PROMPT, message.DiscardPromptPayload{Active: active, Seconds: seconds})
}

func (b *roomBroadcaster) GameEnded(winner *string) {
	b.all(message.GAME_ENDED, message.GameEndedPayload{Winner: winner})
}
