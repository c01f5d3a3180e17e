package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionListFollowsResolutionOrder(t *testing.T) {
	assert.Equal(t, "mulligan, reload, steal, shoot, splitshot, deflect", actionList())
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"maxAmmo=5", "mode=fast"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"maxAmmo": 5, "mode": "fast"}, opts)

	_, err = parseOptions([]string{"=3"})
	assert.Error(t, err)
	_, err = parseOptions(nil)
	assert.Error(t, err)
}
