package gameroom

import (
	"triggerhappy/internal/game/card"
)

// Command is a player or host request queued on a room. It only ever runs
// on the room goroutine.
type Command interface {
	apply(c *Coordinator) error
}

type Join struct {
	PlayerID string
	Name     string
}

type Leave struct{ PlayerID string }

type Configure struct {
	PlayerID string
	Options  map[string]any
}

type AddCard struct {
	PlayerID string
	Action   card.Action
}

type RemoveCard struct {
	PlayerID string
	Action   card.Action
}

type Start struct{ PlayerID string }

type ForceEndRound struct{ PlayerID string }

type SelectAction struct {
	PlayerID string
	Action   card.Action
}

type DeselectAction struct{ PlayerID string }

type SelectTarget struct {
	PlayerID string
	TargetID string
}

type DeselectTarget struct{ PlayerID string }

type Discard struct {
	PlayerID string
	Index    int
}

type snapshot struct{ out chan Summary }

func (j Join) apply(c *Coordinator) error           { return c.Join(j.PlayerID, j.Name) }
func (l Leave) apply(c *Coordinator) error          { return c.Leave(l.PlayerID) }
func (s Start) apply(c *Coordinator) error          { return c.Start(s.PlayerID) }
func (f ForceEndRound) apply(c *Coordinator) error  { return c.ForceEndRound(f.PlayerID) }
func (d DeselectAction) apply(c *Coordinator) error { return c.DeselectAction(d.PlayerID) }
func (d DeselectTarget) apply(c *Coordinator) error { return c.DeselectTarget(d.PlayerID) }
func (d Discard) apply(c *Coordinator) error        { return c.Discard(d.PlayerID, d.Index) }

func (cf Configure) apply(c *Coordinator) error {
	return c.Configure(cf.PlayerID, cf.Options)
}

func (a AddCard) apply(c *Coordinator) error {
	return c.AddCard(a.PlayerID, a.Action)
}

func (r RemoveCard) apply(c *Coordinator) error {
	return c.RemoveCard(r.PlayerID, r.Action)
}

func (s SelectAction) apply(c *Coordinator) error {
	return c.SelectAction(s.PlayerID, s.Action)
}

func (s SelectTarget) apply(c *Coordinator) error {
	return c.SelectTarget(s.PlayerID, s.TargetID)
}

func (s snapshot) apply(c *Coordinator) error {
	s.out <- c.Summary()
	return nil
}
