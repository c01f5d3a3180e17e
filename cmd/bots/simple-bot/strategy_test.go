package main

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"triggerhappy/internal/game/card"
	"triggerhappy/internal/game/player"
)

func TestChooseStaysInHand(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	hand := []card.Action{card.Reload, card.Deflect, card.Mulligan}
	others := []player.State{{ID: "b"}, {ID: "c", Eliminated: true}}

	for range 50 {
		c := choose(StyleRandom, hand, player.State{ID: "a"}, others, r)
		assert.Contains(t, hand, c.Action)
		if card.NeedsTarget(c.Action) {
			assert.Equal(t, "b", c.Target)
		} else {
			assert.Empty(t, c.Target)
		}
	}
}

func TestRandomStyleSkipsShotsWithoutAmmo(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	hand := []card.Action{card.Shoot, card.SplitShot, card.Reload}

	for range 20 {
		c := choose(StyleRandom, hand, player.State{ID: "a"}, nil, r)
		assert.Equal(t, card.Reload, c.Action)
	}

	only := choose(StyleRandom, []card.Action{card.Shoot}, player.State{ID: "a"}, nil, r)
	assert.Equal(t, choice{Action: card.Shoot, Target: player.NoTarget}, only)
}

func TestChooseEmptyHand(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	assert.Equal(t, choice{Action: card.None}, choose(StyleAggressive, nil, player.State{}, nil, r))
}

func TestAggressiveStyle(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	hand := []card.Action{card.Reload, card.Shoot, card.Steal}
	others := []player.State{{ID: "b", Ammo: 0}, {ID: "c", Ammo: 2}}

	armed := choose(StyleAggressive, hand, player.State{ID: "a", Ammo: 1}, others, r)
	assert.Equal(t, card.Shoot, armed.Action)
	assert.NotEmpty(t, armed.Target)

	empty := choose(StyleAggressive, hand, player.State{ID: "a"}, others, r)
	assert.Equal(t, choice{Action: card.Steal, Target: "c"}, empty)
}
