package main

import (
	"math/rand/v2"

	"triggerhappy/internal/game/card"
	"triggerhappy/internal/game/player"
)

// Style picks how a bot chooses among the cards in its hand.
type Style string

const (
	StyleRandom     Style = "random"
	StyleAggressive Style = "aggressive"
)

type choice struct {
	Action card.Action
	Target string
}

// choose never returns a card outside hand. An empty hand yields None.
func choose(style Style, hand []card.Action, me player.State, others []player.State, r *rand.Rand) choice {
	if len(hand) == 0 {
		return choice{Action: card.None}
	}

	var a card.Action
	if style == StyleAggressive {
		a = aggressivePick(hand, me, r)
	} else {
		a = randomPick(hand, me, r)
	}

	c := choice{Action: a}
	if card.NeedsTarget(a) {
		c.Target = pickTarget(a, others, r)
	}
	return c
}

// randomPick never fires an empty gun unless the hand holds nothing else.
func randomPick(hand []card.Action, me player.State, r *rand.Rand) card.Action {
	usable := hand
	if me.Ammo < 1 {
		usable = make([]card.Action, 0, len(hand))
		for _, a := range hand {
			if !card.CostsAmmo(a) {
				usable = append(usable, a)
			}
		}
		if len(usable) == 0 {
			usable = hand
		}
	}
	return usable[r.IntN(len(usable))]
}

func aggressivePick(hand []card.Action, me player.State, r *rand.Rand) card.Action {
	var preferred []card.Action
	if me.Ammo > 0 {
		preferred = []card.Action{card.SplitShot, card.Shoot}
	} else {
		preferred = []card.Action{card.Steal, card.Reload}
	}
	for _, want := range preferred {
		for _, a := range hand {
			if a == want {
				return a
			}
		}
	}
	return hand[r.IntN(len(hand))]
}

// pickTarget prefers living opponents. Steal goes for whoever holds the
// most ammo.
func pickTarget(a card.Action, others []player.State, r *rand.Rand) string {
	alive := make([]player.State, 0, len(others))
	for _, o := range others {
		if !o.Eliminated {
			alive = append(alive, o)
		}
	}
	if len(alive) == 0 {
		return player.NoTarget
	}
	if a == card.Steal {
		best := alive[0]
		for _, o := range alive[1:] {
			if o.Ammo > best.Ammo {
				best = o
			}
		}
		return best.ID
	}
	return alive[r.IntN(len(alive))].ID
}
