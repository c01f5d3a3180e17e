package config

import (
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triggerhappy/internal/game/card"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := DefaultGame()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 15*time.Second, cfg.RoundTime())
	assert.Equal(t, 3, cfg.Deck()[card.Shoot])
}

func TestValidateCollectsEveryError(t *testing.T) {
	cfg := DefaultGame()
	cfg.MinPlayers = 1
	cfg.DrawAmount = 0
	cfg.StarterDeck = map[string]int{"teleport": 2}

	err := cfg.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 4)
}

func TestApplyDecodesWeaklyTypedOptions(t *testing.T) {
	cfg := DefaultGame()

	err := cfg.Apply(map[string]any{
		"roundTimeSeconds": "20",
		"maxAmmo":          5,
		"starterDeck":      map[string]any{"shoot": 4, "reload": "4"},
	})
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.RoundTimeSeconds)
	assert.Equal(t, 5, cfg.MaxAmmo)
	assert.Equal(t, map[string]int{"shoot": 4, "reload": 4}, cfg.StarterDeck)
}

func TestApplyLeavesConfigUntouchedOnError(t *testing.T) {
	cfg := DefaultGame()

	assert.Error(t, cfg.Apply(map[string]any{"roundTime": 20}))
	assert.Error(t, cfg.Apply(map[string]any{"minPlayers": 0}))
	assert.Equal(t, DefaultGame(), cfg)
}

func TestLoadGameReadsEnv(t *testing.T) {
	t.Setenv("TH_ROUND_TIME_SECONDS", "30")
	t.Setenv("TH_MAX_AMMO", "not-a-number")

	cfg := LoadGame()
	assert.Equal(t, 30, cfg.RoundTimeSeconds)
	assert.Equal(t, DefaultGame().MaxAmmo, cfg.MaxAmmo)
}

func TestLoadServer(t *testing.T) {
	t.Setenv("TH_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("TH_TICK_MS", "50")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval)

	t.Setenv("TH_TICK_MS", "0")
	_, err = Load()
	assert.Error(t, err)
}
