package player

import (
	"triggerhappy/internal/game/card"
)

// AddCardToDeck adds one copy of a to the player's deck and returns the
// updated deck builder label.
func (p *Player) AddCardToDeck(a card.Action) (string, error) {
	if _, err := p.deck.AddCard(a); err != nil {
		return "", err
	}
	return card.CountLabel(a, p.deck.Counts()[a]), nil
}

func (p *Player) RemoveCardFromDeck(a card.Action) (string, error) {
	if err := p.deck.RemoveCard(a); err != nil {
		return "", err
	}
	return card.CountLabel(a, p.deck.Counts()[a]), nil
}

// BuildDeck replaces the deck with the given counts.
func (p *Player) BuildDeck(counts map[card.Action]int) error {
	return p.deck.Build(counts)
}

func (p *Player) DeckLabels() []string {
	return p.deck.Labels()
}
