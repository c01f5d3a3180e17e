package resolve

import (
	"fmt"

	"triggerhappy/internal/game/card"
	"triggerhappy/internal/game/player"
)

// apply resolves a single intent and writes exactly one log line.
func (rc *roundContext) apply(a card.Action, actor *player.Player, targetID string) {
	switch a {
	case card.Mulligan:
		rc.mulligan(actor)
	case card.Reload:
		rc.reload(actor)
	case card.Steal:
		rc.steal(actor, targetID)
	case card.Shoot:
		rc.shoot(actor, targetID)
	case card.SplitShot:
		rc.splitShot(actor)
	case card.Deflect:
		rc.deflect(actor, targetID)
	}
}

func (rc *roundContext) mulligan(p *player.Player) {
	p.ForgetPlayedCard()
	d := p.Deck()
	d.DiscardHand()
	drawn := d.Draw(rc.r.rules.DrawAmount)
	if drawn == 0 {
		rc.add(fmt.Sprintf("%s mulliganed but had no cards to draw", p.Name()))
		return
	}
	rc.prompts = append(rc.prompts, p.ID())
	rc.add(fmt.Sprintf("%s mulliganed and drew %d", p.Name(), drawn))
}

func (rc *roundContext) reload(p *player.Player) {
	p.AddAmmo(1)
	rc.add(fmt.Sprintf("%s reloaded", p.Name()))
}

func (rc *roundContext) steal(p *player.Player, targetID string) {
	t := rc.target(targetID)
	if t == nil || t.Ammo() < 1 {
		rc.add(fmt.Sprintf("%s stole nothing", p.Name()))
		return
	}
	t.AddAmmo(-1)
	p.AddAmmo(1)
	rc.add(fmt.Sprintf("%s stole 1 ammo from %s", p.Name(), t.Name()))
}

func (rc *roundContext) shoot(p *player.Player, targetID string) {
	if p.Ammo() < 1 {
		rc.add(fmt.Sprintf("%s shot with no ammo", p.Name()))
		return
	}
	t := rc.target(targetID)
	if t == nil {
		rc.add(fmt.Sprintf("%s had no one to shoot", p.Name()))
		return
	}
	p.SpendAmmo()
	rc.hit(t)
	rc.add(fmt.Sprintf("%s shot %s", p.Name(), t.Name()))
}

// splitShot spends one ammo and hits up to two distinct random opponents.
func (rc *roundContext) splitShot(p *player.Player) {
	if p.Ammo() < 1 {
		rc.add(fmt.Sprintf("%s split shot with no ammo", p.Name()))
		return
	}
	p.SpendAmmo()

	candidates := rc.reg.Others(p.ID())
	k := min(2, len(candidates))
	hits := make([]*player.Player, 0, k)
	for _, i := range rc.r.rng.Perm(len(candidates))[:k] {
		hits = append(hits, candidates[i])
	}

	for _, t := range hits {
		rc.hit(t)
	}

	switch len(hits) {
	case 0:
		rc.add(fmt.Sprintf("%s split shot at nobody", p.Name()))
	case 1:
		rc.add(fmt.Sprintf("%s split shot %s", p.Name(), hits[0].Name()))
	default:
		rc.add(fmt.Sprintf("%s split shot %s and %s", p.Name(), hits[0].Name(), hits[1].Name()))
	}
}

// deflect redirects exactly one incoming shot. Two or more break it.
func (rc *roundContext) deflect(p *player.Player, targetID string) {
	switch n := p.ShotCounter(); {
	case n == 0:
		rc.add(fmt.Sprintf("%s deflected nothing", p.Name()))
	case n >= 2:
		rc.add(fmt.Sprintf("%s's deflect broke", p.Name()))
	default:
		t := rc.target(targetID)
		if t == nil {
			rc.add(fmt.Sprintf("%s deflected nothing", p.Name()))
			return
		}
		if !rc.downed[p.ID()] {
			p.Heal(1, rc.r.rules.StartingHealth)
		}
		rc.hit(t)
		rc.add(fmt.Sprintf("%s deflected a shot at %s", p.Name(), t.Name()))
	}
}
