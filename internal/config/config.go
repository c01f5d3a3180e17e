package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-multierror"

	"triggerhappy/internal/game/card"
)

// GameConfig holds the per-match options. The host may change them while
// the match is still in the lobby.
type GameConfig struct {
	RoundTimeSeconds       int            `json:"roundTimeSeconds"`
	ResolveCooldownSeconds int            `json:"resolveCooldownSeconds"`
	MinPlayers             int            `json:"minPlayers"`
	MaxAmmo                int            `json:"maxAmmo"`
	StartingHealth         int            `json:"startingHealth"`
	DrawAmount             int            `json:"drawAmount"`
	DiscardTimeoutSeconds  int            `json:"discardTimeoutSeconds"`
	StarterDeck            map[string]int `json:"starterDeck"`
}

func DefaultGame() GameConfig {
	return GameConfig{
		RoundTimeSeconds:       15,
		ResolveCooldownSeconds: 3,
		MinPlayers:             2,
		MaxAmmo:                3,
		StartingHealth:         3,
		DrawAmount:             3,
		DiscardTimeoutSeconds:  5,
		StarterDeck: map[string]int{
			"mulligan":  1,
			"reload":    3,
			"steal":     2,
			"shoot":     3,
			"splitshot": 1,
			"deflect":   2,
		},
	}
}

func (c GameConfig) RoundTime() time.Duration {
	return time.Duration(c.RoundTimeSeconds) * time.Second
}

func (c GameConfig) ResolveCooldown() time.Duration {
	return time.Duration(c.ResolveCooldownSeconds) * time.Second
}

func (c GameConfig) DiscardTimeout() time.Duration {
	return time.Duration(c.DiscardTimeoutSeconds) * time.Second
}

// Deck converts StarterDeck into card counts. Call Validate first.
func (c GameConfig) Deck() map[card.Action]int {
	out := make(map[card.Action]int, len(c.StarterDeck))
	for name, n := range c.StarterDeck {
		if a, err := card.ParseAction(name); err == nil && n > 0 {
			out[a] += n
		}
	}
	return out
}

// Clone copies the config, including the starter deck map.
func (c GameConfig) Clone() GameConfig {
	out := c
	out.StarterDeck = make(map[string]int, len(c.StarterDeck))
	for k, v := range c.StarterDeck {
		out.StarterDeck[k] = v
	}
	return out
}

// Validate reports every invalid field at once.
func (c GameConfig) Validate() error {
	var result *multierror.Error

	atLeast := func(name string, v, min int) {
		if v < min {
			result = multierror.Append(result, fmt.Errorf("%s must be >= %d, got %d", name, min, v))
		}
	}
	atLeast("roundTimeSeconds", c.RoundTimeSeconds, 1)
	atLeast("resolveCooldownSeconds", c.ResolveCooldownSeconds, 0)
	atLeast("minPlayers", c.MinPlayers, 2)
	atLeast("maxAmmo", c.MaxAmmo, 1)
	atLeast("startingHealth", c.StartingHealth, 1)
	atLeast("drawAmount", c.DrawAmount, 1)
	atLeast("discardTimeoutSeconds", c.DiscardTimeoutSeconds, 1)

	total := 0
	for name, n := range c.StarterDeck {
		a, err := card.ParseAction(name)
		if err != nil || !a.Playable() {
			result = multierror.Append(result, fmt.Errorf("starterDeck: unknown action %q", name))
			continue
		}
		if n < 0 {
			result = multierror.Append(result, fmt.Errorf("starterDeck: negative count for %s", name))
			continue
		}
		total += n
	}
	if total == 0 {
		result = multierror.Append(result, fmt.Errorf("starterDeck must hold at least one card"))
	}

	return result.ErrorOrNil()
}

// Apply decodes an option map sent by the host on top of c. Values may be
// strings ("15") or numbers; unknown keys are rejected. c is left untouched
// when decoding or validation fails.
func (c *GameConfig) Apply(options map[string]any) error {
	next := c.Clone()
	if _, ok := options["starterDeck"]; ok {
		next.StarterDeck = nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &next,
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(options); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*c = next
	return nil
}

// ServerConfig is everything cmd/server reads from the environment.
type ServerConfig struct {
	ListenAddr        string
	AllowedOrigins    []string
	ConsulAddr        string
	AdvertisedHost    string
	ServiceName       string
	NatsURL           string
	NatsSubjectPrefix string
	LogLevel          string
	LogFormat         string
	TickInterval      time.Duration
	ClientRateLimit   float64
	ClientRateBurst   int
	MatchCacheSize    int
	Game              GameConfig
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// LoadGame reads the default match options, overridden from TH_* variables.
func LoadGame() GameConfig {
	def := DefaultGame()
	cfg := def.Clone()
	cfg.RoundTimeSeconds = getenvInt("TH_ROUND_TIME_SECONDS", def.RoundTimeSeconds)
	cfg.ResolveCooldownSeconds = getenvInt("TH_RESOLVE_COOLDOWN_SECONDS", def.ResolveCooldownSeconds)
	cfg.MinPlayers = getenvInt("TH_MIN_PLAYERS", def.MinPlayers)
	cfg.MaxAmmo = getenvInt("TH_MAX_AMMO", def.MaxAmmo)
	cfg.StartingHealth = getenvInt("TH_STARTING_HEALTH", def.StartingHealth)
	cfg.DrawAmount = getenvInt("TH_DRAW_AMOUNT", def.DrawAmount)
	cfg.DiscardTimeoutSeconds = getenvInt("TH_DISCARD_TIMEOUT_SECONDS", def.DiscardTimeoutSeconds)
	return cfg
}

func Load() (ServerConfig, error) {
	host, _ := os.Hostname()

	cfg := ServerConfig{
		ListenAddr:        getenv("TH_LISTEN_ADDR", ":8080"),
		ConsulAddr:        os.Getenv("CONSUL_HTTP_ADDR"),
		AdvertisedHost:    getenv("SERVICE_ADVERTISED_HOSTNAME", host),
		ServiceName:       getenv("SERVICE_NAME", "triggerhappy-server"),
		NatsURL:           os.Getenv("NATS_URL"),
		NatsSubjectPrefix: getenv("TH_NATS_SUBJECT_PREFIX", "triggerhappy.match"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		LogFormat:         getenv("LOG_FORMAT", "console"),
		TickInterval:      time.Duration(getenvInt("TH_TICK_MS", 100)) * time.Millisecond,
		ClientRateLimit:   getenvFloat("TH_CLIENT_RATE", 20),
		ClientRateBurst:   getenvInt("TH_CLIENT_BURST", 40),
		MatchCacheSize:    getenvInt("TH_MATCH_CACHE_SIZE", 128),
		Game:              LoadGame(),
	}
	if origins := os.Getenv("TH_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	var result *multierror.Error
	if cfg.TickInterval <= 0 {
		result = multierror.Append(result, fmt.Errorf("TH_TICK_MS must be positive"))
	}
	if cfg.MatchCacheSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("TH_MATCH_CACHE_SIZE must be positive"))
	}
	if err := cfg.Game.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	return cfg, result.ErrorOrNil()
}
