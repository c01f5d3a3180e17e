package deck

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"triggerhappy/internal/game/card"
)

const (
	DECK    = "deck"
	HAND    = "hand"
	DISCARD = "discard"
)

var zoneOrder = []string{DECK, HAND, DISCARD}

var (
	// ErrEmptyResources is returned when a draw finds both deck and discard empty.
	ErrEmptyResources = errors.New("deck and discard are empty")
	ErrCardNotFound   = errors.New("card not found")
	ErrNotInHand      = errors.New("card is not in hand")
)

// Deck owns every card of one player, split across the deck, hand and
// discard zones. A card is always in exactly one zone.
type Deck struct {
	owner string
	rng   *rand.Rand
	zones map[string]*card.Pile
}

// NewDeck initializes all zones empty.
func NewDeck(owner string, r *rand.Rand) *Deck {
	return &Deck{
		owner: owner,
		rng:   r,
		zones: map[string]*card.Pile{
			DECK:    new(card.Pile),
			HAND:    new(card.Pile),
			DISCARD: new(card.Pile),
		},
	}
}

func (d *Deck) Size(zoneName string) int {
	return d.zones[zoneName].Size()
}

// Total counts the cards across every zone.
func (d *Deck) Total() int {
	n := 0
	for _, pile := range d.zones {
		n += pile.Size()
	}
	return n
}

// AddCard creates a new copy of action in the deck zone.
func (d *Deck) AddCard(action card.Action) (*card.Card, error) {
	c, err := card.New(action, d.owner)
	if err != nil {
		return nil, err
	}
	d.zones[DECK].AddCard(c)
	return c, nil
}

// RemoveCard removes one copy of action from the deck zone.
func (d *Deck) RemoveCard(action card.Action) error {
	pile := d.zones[DECK]
	c := pile.FindAction(action)
	if c == nil {
		return fmt.Errorf("%w: no %s in deck", ErrCardNotFound, action)
	}
	return pile.RemoveCard(c)
}

// Build replaces the whole deck with counts copies of each action.
func (d *Deck) Build(counts map[card.Action]int) error {
	for _, pile := range d.zones {
		pile.TakeAll()
	}
	for _, a := range card.SortedActions(counts) {
		for i := 0; i < counts[a]; i++ {
			if _, err := d.AddCard(a); err != nil {
				return err
			}
		}
	}
	return nil
}

// Shuffle reorders the deck zone only. Hand and discard keep their order.
func (d *Deck) Shuffle() {
	d.zones[DECK].Shuffle(d.rng)
}

// DrawToHand moves the top card of the deck to the hand. An empty deck is
// refilled from the discard pile and shuffled first.
func (d *Deck) DrawToHand() error {
	deck := d.zones[DECK]
	if deck.Size() == 0 {
		d.reshuffleDiscard()
	}

	c, err := deck.DrawTop()
	if err != nil {
		return ErrEmptyResources
	}
	d.zones[HAND].AddCard(c)
	return nil
}

// Draw draws up to n cards and returns how many were actually drawn.
func (d *Deck) Draw(n int) int {
	drawn := 0
	for ; drawn < n; drawn++ {
		if err := d.DrawToHand(); err != nil {
			break
		}
	}
	return drawn
}

func (d *Deck) reshuffleDiscard() {
	discard := d.zones[DISCARD]
	if discard.Size() == 0 {
		return
	}
	deck := d.zones[DECK]
	for _, c := range discard.TakeAll() {
		deck.AddCard(c)
	}
	d.Shuffle()
}

// Discard moves c from the hand to the discard pile.
func (d *Deck) Discard(c *card.Card) error {
	hand := d.zones[HAND]
	if c == nil || !hand.Contains(c) {
		return ErrNotInHand
	}
	if err := hand.RemoveCard(c); err != nil {
		return err
	}
	d.zones[DISCARD].AddCard(c)
	return nil
}

// DiscardAt moves the card at index of the hand to the discard pile.
func (d *Deck) DiscardAt(index int) (*card.Card, error) {
	c, err := d.zones[HAND].RemoveCardByIndex(index)
	if err != nil {
		return nil, err
	}
	d.zones[DISCARD].AddCard(c)
	return c, nil
}

// DiscardRandom discards a uniformly chosen card from the hand.
func (d *Deck) DiscardRandom() (*card.Card, error) {
	c, err := d.zones[HAND].DrawRandom(d.rng)
	if err != nil {
		return nil, ErrNotInHand
	}
	d.zones[DISCARD].AddCard(c)
	return c, nil
}

// DiscardHand moves the whole hand to the discard pile.
func (d *Deck) DiscardHand() int {
	cards := d.zones[HAND].TakeAll()
	discard := d.zones[DISCARD]
	for _, c := range cards {
		discard.AddCard(c)
	}
	return len(cards)
}

// ResetToDeck moves every card back to the deck zone and shuffles it.
func (d *Deck) ResetToDeck() {
	deck := d.zones[DECK]
	for _, zoneName := range zoneOrder {
		if zoneName == DECK {
			continue
		}
		for _, c := range d.zones[zoneName].TakeAll() {
			deck.AddCard(c)
		}
	}
	d.Shuffle()
}

func (d *Deck) Hand() []*card.Card {
	return d.zones[HAND].Cards()
}

func (d *Deck) HandActions() []card.Action {
	return d.zones[HAND].Actions()
}

func (d *Deck) FindInHand(a card.Action) *card.Card {
	return d.zones[HAND].FindAction(a)
}

func (d *Deck) InHand(c *card.Card) bool {
	return d.zones[HAND].Contains(c)
}

// Counts groups every owned card by action, regardless of zone.
func (d *Deck) Counts() map[card.Action]int {
	counts := make(map[card.Action]int)
	for _, pile := range d.zones {
		for a, n := range card.Count(pile.Cards()) {
			counts[a] += n
		}
	}
	return counts
}

// Labels renders the deck builder list ("Shoot x3", ...) in resolution order.
func (d *Deck) Labels() []string {
	counts := d.Counts()
	out := make([]string, 0, len(counts))
	for _, a := range card.SortedActions(counts) {
		out = append(out, card.CountLabel(a, counts[a]))
	}
	return out
}

func (d *Deck) String() string {
	var sb strings.Builder
	for _, zoneName := range zoneOrder {
		sb.WriteString(fmt.Sprintf("--- Zone: %s ---\n", zoneName))
		sb.WriteString(d.zones[zoneName].String())
		sb.WriteString("\n")
	}
	return sb.String()
}
