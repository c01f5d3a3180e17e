// triggerhappy/cmd/bots/simple-bot/main.go
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"triggerhappy/internal/game/card"
	"triggerhappy/internal/game/player"
	"triggerhappy/internal/logger"
	"triggerhappy/internal/network"
	"triggerhappy/internal/services/cluster"
	"triggerhappy/internal/services/gameroom"
	"triggerhappy/internal/session/message"
)

type bot struct {
	conn    *network.Conn
	log     zerolog.Logger
	rng     *rand.Rand
	style   Style
	host    bool
	minSeat int

	me      string
	hostID  string
	players map[string]player.State
	hand    []card.Action
	started bool
}

func main() {
	log := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	addr, err := serverAddress(log)
	if err != nil {
		log.Fatal().Err(err).Msg("no game server found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	conn, err := network.Dial(ctx, fmt.Sprintf("ws://%s/ws", addr))
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("could not connect")
	}
	defer conn.Close()

	minSeat, _ := strconv.Atoi(os.Getenv("BOT_MIN_PLAYERS"))
	if minSeat < 2 {
		minSeat = 2
	}
	b := &bot{
		conn:    conn,
		log:     log,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid()))),
		style:   Style(os.Getenv("BOT_STYLE")),
		host:    os.Getenv("BOT_HOST") == "true",
		minSeat: minSeat,
		players: make(map[string]player.State),
	}
	if b.style == "" {
		b.style = StyleRandom
	}

	name := os.Getenv("BOT_NAME")
	if name == "" {
		name = fmt.Sprintf("bot-%04d", b.rng.IntN(10000))
	}
	if err := conn.Send(message.JOIN, message.JoinPayload{MatchID: os.Getenv("TH_MATCH"), Name: name}); err != nil {
		log.Fatal().Err(err).Msg("join failed")
	}

	if err := b.loop(); err != nil {
		log.Error().Err(err).Msg("bot stopped")
		os.Exit(1)
	}
}

// serverAddress asks Consul when CONSUL_HTTP_ADDR is set and falls back to
// TH_SERVER otherwise.
func serverAddress(log zerolog.Logger) (string, error) {
	consulAddr := os.Getenv("CONSUL_HTTP_ADDR")
	if consulAddr == "" {
		if addr := os.Getenv("TH_SERVER"); addr != "" {
			return addr, nil
		}
		return "localhost:8080", nil
	}

	client, err := cluster.NewConsulClient(consulAddr, log)
	if err != nil {
		return "", err
	}
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "triggerhappy-server"
	}
	cache := cluster.NewServiceCache(30*time.Second, func(name string) (string, error) {
		return cluster.Discover(client, name, cluster.DiscoveryOptions{Mode: cluster.ModeAnyHealthy})
	})
	defer cache.Close()

	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		addr, err := cache.Discover(service)
		if err == nil {
			return addr, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("discovery failed, retrying")
		time.Sleep(2 * time.Second)
	}
	return "", lastErr
}

func (b *bot) loop() error {
	for {
		msg, err := b.conn.Read()
		if err != nil {
			return err
		}

		switch msg.Type {
		case message.WELCOME:
			var p message.WelcomePayload
			_ = msg.Decode(&p)
			b.me = p.PlayerID

		case message.JOINED:
			var p message.JoinedPayload
			_ = msg.Decode(&p)
			b.log.Info().Str("match", p.MatchID).Msg("joined")

		case message.PLAYER_LIST:
			var l gameroom.Lobby
			_ = msg.Decode(&l)
			b.hostID = l.HostID
			for _, s := range l.Players {
				b.players[s.ID] = s
			}
			b.maybeStart(len(l.Players))

		case message.PLAYER_STATE:
			var s player.State
			_ = msg.Decode(&s)
			b.players[s.ID] = s

		case message.HAND:
			var p message.HandPayload
			_ = msg.Decode(&p)
			b.hand = p.Cards

		case message.PHASE:
			var p message.PhasePayload
			_ = msg.Decode(&p)
			if p.Phase == string(gameroom.PhaseSelecting) {
				b.play()
			}

		case message.DISCARD_PROMPT:
			var p message.DiscardPromptPayload
			_ = msg.Decode(&p)
			if p.Active && len(b.hand) > 0 {
				i := b.rng.IntN(len(b.hand))
				if err := b.conn.Send(message.DISCARD, message.DiscardPayload{Index: &i}); err != nil {
					return err
				}
			}

		case message.LOG:
			var p message.LogPayload
			_ = msg.Decode(&p)
			b.log.Debug().Msg(p.Text)

		case message.GAME_ENDED:
			var p message.GameEndedPayload
			_ = msg.Decode(&p)
			won := p.Winner != nil && *p.Winner == b.me
			b.log.Info().Bool("won", won).Msg("game over")
			return nil

		case message.ERROR:
			var p message.ErrorPayload
			_ = msg.Decode(&p)
			b.log.Warn().Str("error", p.Error).Msg("server refused")
		}
	}
}

func (b *bot) maybeStart(seated int) {
	if !b.host || b.started || b.hostID != b.me || seated < b.minSeat {
		return
	}
	b.started = true
	if err := b.conn.Send(message.START_GAME, nil); err != nil {
		b.log.Error().Err(err).Msg("start failed")
	}
}

func (b *bot) play() {
	me := b.players[b.me]
	if me.Eliminated {
		return
	}
	others := make([]player.State, 0, len(b.players))
	for id, s := range b.players {
		if id != b.me {
			others = append(others, s)
		}
	}

	c := choose(b.style, b.hand, me, others, b.rng)
	if c.Action == card.None {
		return
	}
	// think for a moment before committing
	time.Sleep(time.Duration(200+b.rng.IntN(800)) * time.Millisecond)

	if err := b.conn.Send(message.SELECT_ACTION, message.ActionPayload{Action: c.Action}); err != nil {
		b.log.Error().Err(err).Msg("select failed")
		return
	}
	if c.Target != player.NoTarget {
		if err := b.conn.Send(message.SELECT_TARGET, message.TargetPayload{TargetID: c.Target}); err != nil {
			b.log.Error().Err(err).Msg("target failed")
		}
	}
	b.log.Debug().Str("action", c.Action.String()).Str("target", c.Target).Msg("played")
}
