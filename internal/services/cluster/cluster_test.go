package cluster

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	consul "github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthAggregator(t *testing.T) {
	h := NewHealthAggregator()
	assert.Empty(t, h.Run())

	h.AddCheck("rooms", func() error { return nil })
	h.AddCheck("nats", func() error { return errors.New("disconnected") })

	assert.Equal(t, map[string]string{"nats": "disconnected"}, h.Run())
	assert.Equal(t, []string{"nats", "rooms"}, h.Names())
}

func entry(addr, nodeAddr string, port int) *consul.ServiceEntry {
	return &consul.ServiceEntry{
		Node:    &consul.Node{Address: nodeAddr},
		Service: &consul.AgentService{Address: addr, Port: port},
	}
}

func TestPick(t *testing.T) {
	entries := []*consul.ServiceEntry{
		entry("game-1", "10.0.0.1", 8080),
		entry("", "10.0.0.2", 8081),
	}
	first := func(int) int { return 0 }
	last := func(n int) int { return n - 1 }

	addr, err := pick(entries, "game", DiscoveryOptions{}, first)
	require.NoError(t, err)
	assert.Equal(t, "game-1:8080", addr)

	// falls back to the node address
	addr, err = pick(entries, "game", DiscoveryOptions{}, last)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2:8081", addr)

	addr, err = pick(entries, "game", DiscoveryOptions{Mode: ModeSpecific, SpecificHost: "10.0.0.2"}, first)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2:8081", addr)

	_, err = pick(entries, "game", DiscoveryOptions{Mode: ModeSpecific, SpecificHost: "elsewhere"}, first)
	assert.ErrorIs(t, err, ErrNoHealthyInstance)

	_, err = pick(entries, "game", DiscoveryOptions{Mode: ModeSpecific}, first)
	assert.Error(t, err)

	_, err = pick(nil, "game", DiscoveryOptions{}, first)
	assert.ErrorIs(t, err, ErrNoHealthyInstance)
}

func TestServiceCache(t *testing.T) {
	var calls atomic.Int32
	fail := atomic.Bool{}
	sc := NewServiceCache(time.Minute, func(name string) (string, error) {
		calls.Add(1)
		if fail.Load() {
			return "", ErrNoHealthyInstance
		}
		return name + ":8080", nil
	})
	defer sc.Close()

	now := time.Now()
	sc.now = func() time.Time { return now }

	addr, err := sc.Discover("game")
	require.NoError(t, err)
	assert.Equal(t, "game:8080", addr)

	_, _ = sc.Discover("game")
	assert.EqualValues(t, 1, calls.Load(), "second lookup is served from cache")

	sc.Invalidate("game")
	fail.Store(true)
	_, err = sc.Discover("game")
	assert.ErrorIs(t, err, ErrNoHealthyInstance)
	assert.EqualValues(t, 2, calls.Load())

	fail.Store(false)
	now = now.Add(2 * time.Minute)
	_, err = sc.Discover("game")
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
}

func TestRegistrationDefaults(t *testing.T) {
	reg := Registration{ServiceName: "triggerhappy", Host: "game-1", Port: 8080}.withDefaults()
	asr := reg.agentRegistration()

	assert.Equal(t, "triggerhappy-game-1-8080", asr.ID)
	assert.Equal(t, "http://game-1:8080/health", asr.Check.HTTP)
	assert.Equal(t, "1m", asr.Check.DeregisterCriticalServiceAfter)
}
