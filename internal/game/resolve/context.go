package resolve

import (
	"triggerhappy/internal/game/card"
	"triggerhappy/internal/game/player"
	"triggerhappy/internal/game/roster"
)

// --- Round context and helpers ----------------------------------------
type roundContext struct {
	r        *Resolver
	reg      *roster.Roster
	summary  []string
	dead     []*player.Player
	prompts  []string
	resolved map[card.Action]int

	// players that reached 0 health during the current action group
	downed map[string]bool
}

func newRoundContext(r *Resolver, reg *roster.Roster) *roundContext {
	return &roundContext{
		r:        r,
		reg:      reg,
		summary:  make([]string, 0, reg.Len()),
		resolved: make(map[card.Action]int),
		downed:   make(map[string]bool),
	}
}

func (rc *roundContext) add(msg string) { rc.summary = append(rc.summary, msg) }

// target returns the registered player behind id, or nil when the id is the
// sentinel or the player is already gone.
func (rc *roundContext) target(id string) *player.Player {
	if id == player.NoTarget {
		return nil
	}
	p, err := rc.reg.Lookup(id)
	if err != nil {
		return nil
	}
	return p
}

// hit registers one incoming shot. Only the first shot of the round deals
// damage; the rest just raise the counter.
func (rc *roundContext) hit(p *player.Player) {
	if p.RegisterHit() == 1 {
		p.Damage(1)
	}
	if !p.Alive() {
		rc.downed[p.ID()] = true
	}
}

// eliminate removes everyone downed during the group that just finished.
// A downed player stays downed even if a later action in the same group
// touched their health.
func (rc *roundContext) eliminate() {
	for _, p := range rc.reg.Players() {
		if p.Alive() && !rc.downed[p.ID()] {
			continue
		}
		p.Eliminate()
		if _, err := rc.reg.Unregister(p.ID()); err == nil {
			rc.dead = append(rc.dead, p)
		}
	}
	clear(rc.downed)
}

// finish discards played cards and clears round state for survivors.
func (rc *roundContext) finish() {
	for _, p := range rc.reg.Players() {
		p.FinishRound()
		p.ClampAmmo(rc.r.rules.MaxAmmo)
	}
	for _, p := range rc.dead {
		p.ClampAmmo(rc.r.rules.MaxAmmo)
	}
}

func (rc *roundContext) result() Result {
	res := Result{
		Log:            rc.summary,
		DiscardPrompts: rc.prompts,
		Resolved:       rc.resolved,
	}
	for _, p := range rc.dead {
		res.Eliminated = append(res.Eliminated, p.ID())
	}
	for _, p := range rc.reg.Players() {
		res.States = append(res.States, p.State())
	}
	for _, p := range rc.dead {
		res.States = append(res.States, p.State())
	}
	return res
}
