package deck

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triggerhappy/internal/game/card"
)

func newTestDeck(t *testing.T, counts map[card.Action]int) *Deck {
	t.Helper()
	d := NewDeck("p1", rand.New(rand.NewPCG(7, 11)))
	require.NoError(t, d.Build(counts))
	return d
}

func TestBuildAndLabels(t *testing.T) {
	d := newTestDeck(t, map[card.Action]int{card.Shoot: 3, card.Reload: 2})

	assert.Equal(t, 5, d.Size(DECK))
	assert.Equal(t, []string{"Reload x2", "Shoot x3"}, d.Labels())

	require.NoError(t, d.RemoveCard(card.Shoot))
	assert.Equal(t, []string{"Reload x2", "Shoot x2"}, d.Labels())
	assert.ErrorIs(t, d.RemoveCard(card.Deflect), ErrCardNotFound)
}

func TestDrawReshufflesDiscard(t *testing.T) {
	d := newTestDeck(t, map[card.Action]int{card.Shoot: 3})

	assert.Equal(t, 3, d.Draw(3))
	assert.Equal(t, 3, d.DiscardHand())
	assert.Equal(t, 0, d.Size(DECK))
	assert.Equal(t, 3, d.Size(DISCARD))

	assert.Equal(t, 2, d.Draw(2))
	assert.Equal(t, 0, d.Size(DISCARD))
	assert.Equal(t, 1, d.Size(DECK))
	assert.Equal(t, 2, d.Size(HAND))
}

func TestDrawStopsWhenEverythingIsInHand(t *testing.T) {
	d := newTestDeck(t, map[card.Action]int{card.Reload: 2})

	assert.Equal(t, 2, d.Draw(5))
	assert.ErrorIs(t, d.DrawToHand(), ErrEmptyResources)
	assert.Equal(t, 2, d.Total())
}

func TestDiscardVariants(t *testing.T) {
	d := newTestDeck(t, map[card.Action]int{card.Steal: 1, card.Deflect: 1, card.Shoot: 1})
	d.Draw(3)

	steal := d.FindInHand(card.Steal)
	require.NotNil(t, steal)
	require.NoError(t, d.Discard(steal))
	assert.ErrorIs(t, d.Discard(steal), ErrNotInHand)

	c, err := d.DiscardAt(0)
	require.NoError(t, err)
	assert.False(t, d.InHand(c))

	_, err = d.DiscardAt(5)
	assert.Error(t, err)

	_, err = d.DiscardRandom()
	require.NoError(t, err)
	_, err = d.DiscardRandom()
	assert.ErrorIs(t, err, ErrNotInHand)

	assert.Equal(t, 3, d.Size(DISCARD))
}

func TestResetToDeckConservesCards(t *testing.T) {
	d := newTestDeck(t, map[card.Action]int{card.Shoot: 2, card.Reload: 2, card.Mulligan: 1})
	d.Draw(3)
	d.DiscardAt(0)

	d.ResetToDeck()
	assert.Equal(t, 5, d.Size(DECK))
	assert.Equal(t, 0, d.Size(HAND))
	assert.Equal(t, 0, d.Size(DISCARD))
	assert.Equal(t, map[card.Action]int{card.Shoot: 2, card.Reload: 2, card.Mulligan: 1}, d.Counts())
}

func TestShuffleOnlyTouchesDeckZone(t *testing.T) {
	d := newTestDeck(t, map[card.Action]int{card.Shoot: 2, card.Reload: 2, card.Deflect: 2})
	d.Draw(2)
	hand := d.HandActions()

	d.Shuffle()

	assert.Equal(t, 4, d.Size(DECK))
	assert.Equal(t, hand, d.HandActions())
	assert.Equal(t, map[card.Action]int{card.Shoot: 2, card.Reload: 2, card.Deflect: 2}, d.Counts())
}
