package cluster

import (
	"fmt"
	"os"

	consul "github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"
)

// Registration describes how the game server announces itself.
type Registration struct {
	ServiceName string
	// Host is the address other services reach us on. Defaults to the
	// container hostname.
	Host string
	Port int
	// HealthPath is polled over HTTP on Host:Port.
	HealthPath string
	Tags       []string
}

func (r Registration) serviceID() string {
	return fmt.Sprintf("%s-%s-%d", r.ServiceName, r.Host, r.Port)
}

func (r Registration) withDefaults() Registration {
	if r.Host == "" {
		r.Host = os.Getenv("HOSTNAME")
	}
	if r.Host == "" {
		r.Host, _ = os.Hostname()
	}
	if r.HealthPath == "" {
		r.HealthPath = "/health"
	}
	return r
}

func (r Registration) agentRegistration() *consul.AgentServiceRegistration {
	return &consul.AgentServiceRegistration{
		ID:      r.serviceID(),
		Name:    r.ServiceName,
		Address: r.Host,
		Port:    r.Port,
		Tags:    r.Tags,
		Check: &consul.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%d%s", r.Host, r.Port, r.HealthPath),
			Timeout:  "5s",
			Interval: "10s",
			// services stuck in critical for a minute are removed by the agent
			DeregisterCriticalServiceAfter: "1m",
		},
	}
}

// Register adds the service to the local agent. The returned func removes it
// again and is meant to be called on shutdown.
func Register(client *consul.Client, reg Registration, log zerolog.Logger) (func() error, error) {
	reg = reg.withDefaults()
	asr := reg.agentRegistration()

	if err := client.Agent().ServiceRegister(asr); err != nil {
		return nil, fmt.Errorf("register %s: %w", reg.ServiceName, err)
	}
	log.Info().Str("service", reg.ServiceName).Str("id", asr.ID).Msg("registered in consul")

	return func() error {
		if err := client.Agent().ServiceDeregister(asr.ID); err != nil {
			return fmt.Errorf("deregister %s: %w", asr.ID, err)
		}
		log.Info().Str("id", asr.ID).Msg("deregistered from consul")
		return nil
	}, nil
}
