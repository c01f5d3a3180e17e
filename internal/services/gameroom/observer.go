package gameroom

import (
	"time"

	"triggerhappy/internal/config"
	"triggerhappy/internal/game/card"
	"triggerhappy/internal/game/player"
)

// Lobby is the pre-game view of a match.
type Lobby struct {
	HostID  string            `json:"hostId"`
	Players []player.State    `json:"players"`
	Config  config.GameConfig `json:"config"`
}

// Observer receives every outward-facing change of a match. Calls happen on
// the room goroutine, in order, and must not block.
type Observer interface {
	LobbyChanged(lobby Lobby)
	DeckChanged(playerID string, labels []string)
	PhaseChanged(phase Phase, round int)
	RoundTimerChanged(seconds int)
	PlayerStateChanged(state player.State)
	HandChanged(playerID string, hand []card.Action)
	LogEvent(text string)
	PlayerEliminated(playerID string)
	DiscardPromptChanged(playerID string, active bool, seconds int)
	GameEnded(winner *string)
}

// ObserverFactory builds the observer attached to a new room.
type ObserverFactory func(roomID string) Observer

// NopObserver ignores everything. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) LobbyChanged(Lobby) {}
func (NopObserver) DeckChanged(string, []string) {}
func (NopObserver) PhaseChanged(Phase, int) {}
func (NopObserver) RoundTimerChanged(int) {}
func (NopObserver) PlayerStateChanged(player.State) {}
func (NopObserver) HandChanged(string, []card.Action) {}
func (NopObserver) LogEvent(string) {}
func (NopObserver) PlayerEliminated(string) {}
func (NopObserver) DiscardPromptChanged(string, bool, int) {}
func (NopObserver) GameEnded(*string) {}

// Observers fans every call out to each member in order.
type Observers []Observer

func (all Observers) LobbyChanged(l Lobby) {
	for _, o := range all {
		o.LobbyChanged(l)
	}
}

func (all Observers) DeckChanged(id string, labels []string) {
	for _, o := range all {
		o.DeckChanged(id, labels)
	}
}

func (all Observers) PhaseChanged(p Phase, round int) {
	for _, o := range all {
		o.PhaseChanged(p, round)
	}
}

func (all Observers) RoundTimerChanged(seconds int) {
	for _, o := range all {
		o.RoundTimerChanged(seconds)
	}
}

func (all Observers) PlayerStateChanged(s player.State) {
	for _, o := range all {
		o.PlayerStateChanged(s)
	}
}

func (all Observers) HandChanged(id string, hand []card.Action) {
	for _, o := range all {
		o.HandChanged(id, hand)
	}
}

func (all Observers) LogEvent(text string) {
	for _, o := range all {
		o.LogEvent(text)
	}
}

func (all Observers) PlayerEliminated(id string) {
	for _, o := range all {
		o.PlayerEliminated(id)
	}
}

func (all Observers) DiscardPromptChanged(id string, active bool, seconds int) {
	for _, o := range all {
		o.DiscardPromptChanged(id, active, seconds)
	}
}

func (all Observers) GameEnded(winner *string) {
	for _, o := range all {
		o.GameEnded(winner)
	}
}

// CombineFactories builds one factory out of several.
func CombineFactories(factories ...ObserverFactory) ObserverFactory {
	return func(roomID string) Observer {
		out := make(Observers, 0, len(factories))
		for _, f := range factories {
			if f != nil {
				out = append(out, f(roomID))
			}
		}
		return out
	}
}

// Metrics is the subset of go-metrics used by rooms.
type Metrics interface {
	IncrCounter(key []string, val float32)
	SetGauge(key []string, val float32)
	MeasureSince(key []string, start time.Time)
}

type nopMetrics struct{}

func (nopMetrics) IncrCounter([]string, float32) {}
func (nopMetrics) SetGauge([]string, float32) {}
func (nopMetrics) MeasureSince([]string, time.Time) {}
