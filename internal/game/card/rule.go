package card

// ResolutionOrder is the fixed order in which action groups resolve.
// Within a group, intents resolve in registration order.
var ResolutionOrder = []Action{
	Mulligan,
	Reload,
	Steal,
	Shoot,
	SplitShot,
	Deflect,
}

// Priority returns the position of a in ResolutionOrder, or len(ResolutionOrder)
// for actions that never resolve.
func Priority(a Action) int {
	for i, o := range ResolutionOrder {
		if o == a {
			return i
		}
	}
	return len(ResolutionOrder)
}

// NeedsTarget reports whether the action reads the player's selected target.
func NeedsTarget(a Action) bool {
	switch a {
	case Shoot, Steal, Deflect:
		return true
	}
	return false
}

// CostsAmmo reports whether the action spends one ammo when it fires.
func CostsAmmo(a Action) bool {
	return a == Shoot || a == SplitShot
}
