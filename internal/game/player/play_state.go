package player

import (
	"fmt"

	"triggerhappy/internal/game/card"
	"triggerhappy/internal/game/deck"
)

// SelectAction picks the card of action a from the hand for this round.
// Selecting again replaces the previous choice.
func (p *Player) SelectAction(a card.Action) error {
	if !a.Playable() {
		return fmt.Errorf("cannot select %s", a)
	}
	c := p.deck.FindInHand(a)
	if c == nil {
		return fmt.Errorf("%w: %s", deck.ErrNotInHand, a)
	}
	p.selected = a
	p.played = c
	return nil
}

func (p *Player) DeselectAction() {
	p.selected = card.None
	p.played = nil
}

func (p *Player) SelectTarget(id string) error {
	if id == NoTarget {
		return ErrInvalidTarget
	}
	if id == p.id {
		return ErrSelfTarget
	}
	p.target = id
	return nil
}

func (p *Player) DeselectTarget() { p.target = NoTarget }

func (p *Player) SelectedAction() card.Action { return p.selected }
func (p *Player) Target() string              { return p.target }
func (p *Player) ShotCounter() int            { return p.shotCounter }

// RegisterHit bumps the shot counter and returns the new value.
func (p *Player) RegisterHit() int {
	p.shotCounter++
	return p.shotCounter
}

// ForgetPlayedCard drops the reference to the selected card without moving
// it. Used when the card already left the hand during resolution.
func (p *Player) ForgetPlayedCard() { p.played = nil }

// FinishRound discards the played card if it is still in hand and clears
// every per-round field.
func (p *Player) FinishRound() {
	if p.played != nil && p.deck.InHand(p.played) {
		_ = p.deck.Discard(p.played)
	}
	p.ClearSelection()
}

func (p *Player) ClearSelection() {
	p.selected = card.None
	p.played = nil
	p.target = NoTarget
	p.shotCounter = 0
}
