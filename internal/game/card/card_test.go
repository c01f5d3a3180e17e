package card

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Action
		wantErr bool
	}{
		{name: "lower case", input: "shoot", want: Shoot},
		{name: "mixed case", input: "SplitShot", want: SplitShot},
		{name: "padded", input: "  reload ", want: Reload},
		{name: "unknown", input: "dodge", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAction(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestActionJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Action Action `json:"action"`
	}{Action: Deflect})
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"deflect"}`, string(data))

	var a Action
	require.Error(t, json.Unmarshal([]byte(`"teleport"`), &a))
}

func TestNewRejectsInvalidCards(t *testing.T) {
	_, err := New(None, "p1")
	assert.Error(t, err)

	_, err = New(Shoot, "")
	assert.Error(t, err)

	c, err := New(Steal, "p1")
	require.NoError(t, err)
	assert.Equal(t, Steal, c.Action())
	assert.Equal(t, "p1", c.Owner())
}

func TestResolutionOrder(t *testing.T) {
	assert.Equal(t, []Action{Mulligan, Reload, Steal, Shoot, SplitShot, Deflect}, Actions())
	assert.Less(t, Priority(Steal), Priority(Shoot))
	assert.Equal(t, len(ResolutionOrder), Priority(None))
}

func TestActionRules(t *testing.T) {
	for _, a := range Actions() {
		assert.Equal(t, a == Shoot || a == SplitShot, CostsAmmo(a), a.String())
		assert.Equal(t, a == Shoot || a == Steal || a == Deflect, NeedsTarget(a), a.String())
	}
}

func TestCountLabel(t *testing.T) {
	assert.Equal(t, "Shoot x3", CountLabel(Shoot, 3))
	assert.Equal(t, "SplitShot x1", CountLabel(SplitShot, 1))
}

func TestPileOperations(t *testing.T) {
	var p Pile
	shoot, _ := New(Shoot, "p1")
	reload, _ := New(Reload, "p1")
	steal, _ := New(Steal, "p1")
	p.AddCard(shoot)
	p.AddCard(reload)
	p.AddCard(steal)

	assert.Equal(t, 3, p.Size())
	assert.Same(t, reload, p.FindAction(Reload))
	assert.Nil(t, p.FindAction(Deflect))

	require.NoError(t, p.RemoveCard(reload))
	assert.False(t, p.Contains(reload))
	assert.ErrorIs(t, p.RemoveCard(reload), ErrNotInPile)
	assert.Equal(t, "[0] shoot [1] steal", p.String())

	_, err := p.GetCard(2)
	assert.ErrorIs(t, err, ErrBadPileIndex)

	top, err := p.DrawTop()
	require.NoError(t, err)
	assert.Same(t, shoot, top)

	taken := p.TakeAll()
	assert.Len(t, taken, 1)
	assert.Equal(t, 0, p.Size())

	_, err = p.DrawTop()
	assert.ErrorIs(t, err, ErrEmptyPile)
	assert.Equal(t, "(empty)", p.String())
}

func TestPileShuffleKeepsCards(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	var p Pile
	for i := 0; i < 10; i++ {
		c, _ := New(Shoot, "p1")
		p.AddCard(c)
	}
	before := p.Cards()
	p.Shuffle(r)

	assert.ElementsMatch(t, before, p.Cards())
}
