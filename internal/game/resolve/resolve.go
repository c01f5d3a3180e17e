// Package resolve turns the batch of actions captured when a selection
// window closes into the next player states and a round log.
package resolve

import (
	"math/rand/v2"

	"triggerhappy/internal/game/card"
	"triggerhappy/internal/game/player"
	"triggerhappy/internal/game/roster"
)

// Intent is what one player committed to when the window closed. A None
// action resolves as Mulligan.
type Intent struct {
	PlayerID string
	Action   card.Action
	Target   string
}

// Batch holds intents in registration order.
type Batch []Intent

// Capture reads every registered player's selection. Disconnected players
// contribute no action.
func Capture(r *roster.Roster) Batch {
	players := r.Players()
	b := make(Batch, 0, len(players))
	for _, p := range players {
		in := Intent{PlayerID: p.ID(), Action: p.SelectedAction(), Target: p.Target()}
		if !p.Connected() {
			in.Action = card.None
			in.Target = player.NoTarget
		}
		b = append(b, in)
	}
	return b
}

// Rules are the per-game numbers a Resolver needs. They are copied from the
// room config when the game starts.
type Rules struct {
	DrawAmount     int
	MaxAmmo        int
	StartingHealth int
}

// Result is everything a round produced. States holds survivors first, then
// the players eliminated this round.
type Result struct {
	// Log has one line per resolved intent, in resolution order.
	Log []string
	// Eliminated lists players removed from the roster, in elimination order.
	Eliminated []string
	// DiscardPrompts lists players that mulliganed into a non-empty hand.
	DiscardPrompts []string
	// Resolved counts intents per effective action.
	Resolved map[card.Action]int
	States   []player.State
}

// Resolver is stateless between rounds apart from its random source, which
// only SplitShot draws from.
type Resolver struct {
	rules Rules
	rng   *rand.Rand
}

// New returns a Resolver. Pass a seeded r to make SplitShot targets
// reproducible.
func New(rules Rules, r *rand.Rand) *Resolver {
	return &Resolver{rules: rules, rng: r}
}

// Resolve applies batch to the players in reg. Action groups run in
// card.ResolutionOrder; players at zero health are eliminated and
// unregistered after each group, so later groups cannot target them.
func (r *Resolver) Resolve(reg *roster.Roster, batch Batch) Result {
	rc := newRoundContext(r, reg)

	for _, action := range card.ResolutionOrder {
		// 1. every intent of this action, in batch order
		for _, in := range batch {
			if effective(in.Action) != action {
				continue
			}
			actor, err := reg.Lookup(in.PlayerID)
			if err != nil {
				continue
			}
			rc.resolved[action]++
			rc.apply(action, actor, in.Target)
		}
		// 2. then remove whoever went down
		rc.eliminate()
	}

	// 3. discard played cards and clamp ammo
	rc.finish()
	return rc.result()
}

func effective(a card.Action) card.Action {
	if !a.Playable() {
		return card.Mulligan
	}
	return a
}
