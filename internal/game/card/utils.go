package card

import (
	"fmt"
	"sort"
	"strings"
)

type cardValidator func(*Card) error

func validateAction(c *Card) error {
	if !c.action.Playable() {
		return fmt.Errorf("invalid card action: %s", c.action)
	}
	return nil
}

func validateOwner(c *Card) error {
	if c.owner == "" {
		return fmt.Errorf("card has no owner")
	}
	return nil
}

// CountLabel renders the deck builder label, e.g. "Shoot x3".
func CountLabel(a Action, count int) string {
	name := a.String()
	if name == "splitshot" {
		name = "SplitShot"
	} else if len(name) > 0 {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("%s x%d", name, count)
}

// Count groups cards by action.
func Count(cards []*Card) map[Action]int {
	counts := make(map[Action]int)
	for _, c := range cards {
		if c != nil {
			counts[c.action]++
		}
	}
	return counts
}

// SortedActions returns the keys of counts in resolution order.
func SortedActions(counts map[Action]int) []Action {
	out := make([]Action, 0, len(counts))
	for a := range counts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return Priority(out[i]) < Priority(out[j]) })
	return out
}
