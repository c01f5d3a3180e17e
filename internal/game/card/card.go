//START OF FILE triggerhappy/internal/game/card/card.go
package card

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Action is the effect printed on a card. The zero value means "no action".
type Action uint8

const (
	None Action = iota
	Mulligan
	Reload
	Shoot
	Deflect
	Steal
	SplitShot
)

var actionNames = map[Action]string{
	None:      "none",
	Mulligan:  "mulligan",
	Reload:    "reload",
	Shoot:     "shoot",
	Deflect:   "deflect",
	Steal:     "steal",
	SplitShot: "splitshot",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// Playable reports whether a can be put in a deck and selected in a round.
func (a Action) Playable() bool {
	return a != None && a <= SplitShot
}

// ParseAction accepts the lower-case names used on the wire. Matching is
// case-insensitive so "SplitShot" and "splitshot" are the same action.
func ParseAction(name string) (Action, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if n == key {
			return a, nil
		}
	}
	return None, fmt.Errorf("unknown action: %q", name)
}

// Actions lists every playable action in resolution order.
func Actions() []Action {
	out := make([]Action, len(ResolutionOrder))
	copy(out, ResolutionOrder)
	return out
}

func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseAction(name)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Card is a single copy of an action owned by one player. Cards are compared
// by pointer, two copies of Shoot are different cards.
type Card struct {
	action Action
	owner  string
}

func (c *Card) Action() Action { return c.action }
func (c *Card) Owner() string  { return c.owner }

// ---- Constructor ----

func New(action Action, owner string) (*Card, error) {
	c := &Card{action: action, owner: owner}

	validators := []cardValidator{
		validateAction,
		validateOwner,
	}

	for _, v := range validators {
		if err := v(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Card) String() string {
	return c.action.String()
}

//END OF FILE triggerhappy/internal/game/card/card.go
