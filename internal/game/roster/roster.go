// Package roster keeps the authoritative list of players taking part in a
// match, keyed by their connection id and ordered by registration.
package roster

import (
	"errors"
	"fmt"

	"triggerhappy/internal/game/player"
)

var (
	ErrDuplicateRegistration = errors.New("player already registered")
	ErrNotFound              = errors.New("player not registered")
	ErrInvalidID             = errors.New("invalid player id")
)

type Roster struct {
	order []*player.Player
	byID  map[string]*player.Player
}

func New() *Roster {
	return &Roster{byID: make(map[string]*player.Player)}
}

// Register appends p at the end of the registration order.
func (r *Roster) Register(p *player.Player) error {
	if p == nil || p.ID() == player.NoTarget {
		return ErrInvalidID
	}
	if _, ok := r.byID[p.ID()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRegistration, p.ID())
	}
	r.byID[p.ID()] = p
	r.order = append(r.order, p)
	return nil
}

func (r *Roster) Unregister(id string) (*player.Player, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.byID, id)
	for i, q := range r.order {
		if q == p {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return p, nil
}

func (r *Roster) Lookup(id string) (*player.Player, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

func (r *Roster) Contains(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Players returns the registered players in registration order. The slice
// is a copy; the players are not.
func (r *Roster) Players() []*player.Player {
	out := make([]*player.Player, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Roster) IDs() []string {
	out := make([]string, len(r.order))
	for i, p := range r.order {
		out[i] = p.ID()
	}
	return out
}

func (r *Roster) Len() int { return len(r.order) }

// Others returns every registered player except id, in registration order.
func (r *Roster) Others(id string) []*player.Player {
	out := make([]*player.Player, 0, len(r.order))
	for _, p := range r.order {
		if p.ID() != id {
			out = append(out, p)
		}
	}
	return out
}
