//START OF FILE triggerhappy/internal/services/cluster/client.go
package cluster

import (
	"fmt"
	"strings"

	consul "github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"
)

// NewConsulClient tries each comma separated agent address in turn and
// returns a client for the first one that reports a raft leader.
func NewConsulClient(addrs string, log zerolog.Logger) (*consul.Client, error) {
	for _, node := range strings.Split(addrs, ",") {
		node = strings.TrimSpace(node)
		if node == "" {
			continue
		}
		cfg := consul.DefaultConfig()
		cfg.Address = node

		client, err := consul.NewClient(cfg)
		if err != nil {
			log.Warn().Err(err).Str("agent", node).Msg("consul client rejected address")
			continue
		}

		if _, err := client.Status().Leader(); err != nil {
			log.Warn().Err(err).Str("agent", node).Msg("consul agent unreachable")
			continue
		}

		log.Info().Str("agent", node).Msg("connected to consul")
		return client, nil
	}

	return nil, fmt.Errorf("no consul agent available in %q", addrs)
}

//END OF FILE triggerhappy/internal/services/cluster/client.go
