package player

import (
	"errors"
	"math/rand/v2"

	"triggerhappy/internal/game/card"
	"triggerhappy/internal/game/deck"
)

// NoTarget is the sentinel id for "no target selected". It never matches a
// registered player.
const NoTarget = ""

var (
	ErrInvalidTarget = errors.New("invalid target")
	ErrSelfTarget    = errors.New("a player cannot target themselves")
)

type Player struct {
	id   string
	name string

	health int
	ammo   int
	deck   *deck.Deck

	// per-round selection
	selected    card.Action
	played      *card.Card
	target      string
	shotCounter int

	eliminated bool
	connected  bool
}

func NewPlayer(id, name string, r *rand.Rand) *Player {
	return &Player{
		id:        id,
		name:      name,
		deck:      deck.NewDeck(id, r),
		target:    NoTarget,
		connected: true,
	}
}

func (p *Player) ID() string          { return p.id }
func (p *Player) Name() string        { return p.name }
func (p *Player) Health() int         { return p.health }
func (p *Player) Ammo() int           { return p.ammo }
func (p *Player) Deck() *deck.Deck    { return p.deck }
func (p *Player) Eliminated() bool    { return p.eliminated }
func (p *Player) Connected() bool     { return p.connected }
func (p *Player) SetName(name string) { p.name = name }

func (p *Player) SetConnected(connected bool) { p.connected = connected }

// Reset prepares the player for a new game: full health, no ammo, the whole
// deck shuffled and a fresh hand of drawAmount cards.
func (p *Player) Reset(startingHealth, drawAmount int) {
	p.health = startingHealth
	p.ammo = 0
	p.eliminated = false
	p.ClearSelection()
	p.deck.ResetToDeck()
	p.deck.Draw(drawAmount)
}

// AddAmmo is unclamped; ClampAmmo applies the bounds once resolution is done.
func (p *Player) AddAmmo(n int) { p.ammo += n }

// SpendAmmo consumes one ammo if the player has any.
func (p *Player) SpendAmmo() bool {
	if p.ammo < 1 {
		return false
	}
	p.ammo--
	return true
}

func (p *Player) ClampAmmo(max int) {
	if p.ammo < 0 {
		p.ammo = 0
	}
	if p.ammo > max {
		p.ammo = max
	}
}

// Damage lowers health, never below zero.
func (p *Player) Damage(n int) {
	p.health -= n
	if p.health < 0 {
		p.health = 0
	}
}

// Heal raises health, never above max. A player at 0 stays down.
func (p *Player) Heal(n, max int) {
	if p.health <= 0 {
		return
	}
	p.health += n
	if p.health > max {
		p.health = max
	}
}

func (p *Player) Alive() bool { return p.health > 0 }

func (p *Player) Eliminate() {
	p.eliminated = true
	p.ClearSelection()
}

// State is the public snapshot of a player.
type State struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Health      int    `json:"health"`
	Ammo        int    `json:"ammo"`
	Eliminated  bool   `json:"eliminated"`
	Connected   bool   `json:"connected"`
	HandSize    int    `json:"handSize"`
	DeckSize    int    `json:"deckSize"`
	DiscardSize int    `json:"discardSize"`
}

func (p *Player) State() State {
	return State{
		ID:          p.id,
		Name:        p.name,
		Health:      p.health,
		Ammo:        p.ammo,
		Eliminated:  p.eliminated,
		Connected:   p.connected,
		HandSize:    p.deck.Size(deck.HAND),
		DeckSize:    p.deck.Size(deck.DECK),
		DiscardSize: p.deck.Size(deck.DISCARD),
	}
}
