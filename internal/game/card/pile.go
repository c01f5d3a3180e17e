package card

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

var (
	ErrEmptyPile    = errors.New("pile is empty")
	ErrNotInPile    = errors.New("card not in pile")
	ErrBadPileIndex = errors.New("pile index out of range")
)

// Pile is an ordered stack of cards; index 0 is the top.
type Pile []*Card

// Size is safe on a nil pointer.
func (p *Pile) Size() int {
	if p == nil {
		return 0
	}
	return len(*p)
}

func (p *Pile) Shuffle(r *rand.Rand) {
	if p.Size() < 2 {
		return
	}
	cards := *p
	r.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}

func (p *Pile) GetCard(index int) (*Card, error) {
	if err := p.checkIndex(index); err != nil {
		return nil, err
	}
	return (*p)[index], nil
}

// DrawRandom removes and returns a uniformly chosen card.
func (p *Pile) DrawRandom(r *rand.Rand) (*Card, error) {
	if p.Size() == 0 {
		return nil, ErrEmptyPile
	}
	return p.RemoveCardByIndex(r.IntN(p.Size()))
}

func (p *Pile) DrawTop() (*Card, error) {
	if p.Size() == 0 {
		return nil, ErrEmptyPile
	}
	return p.RemoveCardByIndex(0)
}

func (p *Pile) AddCard(c *Card) {
	*p = append(*p, c)
}

func (p *Pile) Contains(c *Card) bool {
	return p.indexOf(c) >= 0
}

// RemoveCard matches by identity, not by action.
func (p *Pile) RemoveCard(c *Card) error {
	i := p.indexOf(c)
	if i < 0 {
		return ErrNotInPile
	}
	_, err := p.RemoveCardByIndex(i)
	return err
}

func (p *Pile) RemoveCardByIndex(index int) (*Card, error) {
	if err := p.checkIndex(index); err != nil {
		return nil, err
	}
	c := (*p)[index]
	*p = append((*p)[:index], (*p)[index+1:]...)
	return c, nil
}

// FindAction returns the first card carrying action a, or nil.
func (p *Pile) FindAction(a Action) *Card {
	if p == nil {
		return nil
	}
	for _, c := range *p {
		if c != nil && c.action == a {
			return c
		}
	}
	return nil
}

// TakeAll empties the pile and returns what it held.
func (p *Pile) TakeAll() []*Card {
	if p.Size() == 0 {
		return nil
	}
	out := *p
	*p = nil
	return out
}

// Cards returns a copy of the pile's contents.
func (p *Pile) Cards() []*Card {
	if p.Size() == 0 {
		return nil
	}
	return append([]*Card(nil), *p...)
}

func (p *Pile) Actions() []Action {
	out := make([]Action, 0, p.Size())
	if p == nil {
		return out
	}
	for _, c := range *p {
		out = append(out, c.action)
	}
	return out
}

func (p *Pile) checkIndex(index int) error {
	if index < 0 || index >= p.Size() {
		return fmt.Errorf("%w: %d of %d", ErrBadPileIndex, index, p.Size())
	}
	return nil
}

func (p *Pile) indexOf(c *Card) int {
	if p == nil {
		return -1
	}
	for i, held := range *p {
		if held == c {
			return i
		}
	}
	return -1
}

// String lists the pile top first, e.g. "[0] shoot [1] reload".
func (p *Pile) String() string {
	if p.Size() == 0 {
		return "(empty)"
	}
	parts := make([]string, 0, p.Size())
	for i, c := range *p {
		if c == nil {
			parts = append(parts, fmt.Sprintf("[%d] <nil>", i))
			continue
		}
		parts = append(parts, fmt.Sprintf("[%d] %s", i, c.action))
	}
	return strings.Join(parts, " ")
}
