//START OF FILE triggerhappy/internal/services/cluster/discovery.go
package cluster

import (
	"errors"
	"fmt"
	"math/rand/v2"

	consul "github.com/hashicorp/consul/api"
)

var ErrNoHealthyInstance = errors.New("no healthy instance")

type DiscoveryMode int

const (
	ModeAnyHealthy DiscoveryMode = iota
	ModeSpecific
)

type DiscoveryOptions struct {
	Mode DiscoveryMode
	// SpecificHost selects the instance advertised on this host.
	SpecificHost string
}

// Discover returns host:port of a passing instance of serviceName.
func Discover(client *consul.Client, serviceName string, opts DiscoveryOptions) (string, error) {
	entries, _, err := client.Health().Service(serviceName, "", true, nil)
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", serviceName, err)
	}
	return pick(entries, serviceName, opts, rand.IntN)
}

func pick(entries []*consul.ServiceEntry, serviceName string, opts DiscoveryOptions, intn func(int) int) (string, error) {
	if opts.Mode == ModeSpecific && opts.SpecificHost == "" {
		return "", errors.New("specific discovery needs a host")
	}

	candidates := make([]string, 0, len(entries))
	for _, e := range entries {
		addr := e.Service.Address
		if addr == "" && e.Node != nil {
			addr = e.Node.Address
		}
		if opts.Mode == ModeSpecific && addr != opts.SpecificHost {
			continue
		}
		candidates = append(candidates, fmt.Sprintf("%s:%d", addr, e.Service.Port))
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w of %s", ErrNoHealthyInstance, serviceName)
	}
	return candidates[intn(len(candidates))], nil
}

//END OF FILE triggerhappy/internal/services/cluster/discovery.go
