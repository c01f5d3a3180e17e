package gameroom

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"triggerhappy/internal/config"
	"triggerhappy/internal/game/card"
	"triggerhappy/internal/game/deck"
	"triggerhappy/internal/game/player"
	"triggerhappy/internal/game/resolve"
	"triggerhappy/internal/game/roster"
)

// Phase is where a match is in its round cycle. The value goes out on the
// wire and in the HTTP summary, so clients outside this package compare
// against these constants.
type Phase string

const (
	PhaseLobby     Phase = "lobby"     // joining and deck building
	PhaseSetup     Phase = "setup"     // dealing starting hands
	PhaseSelecting Phase = "selecting" // the only window that accepts plays
	PhaseResolving Phase = "resolving"
	PhaseCooldown  Phase = "cooldown" // results shown, discard prompts open
	PhaseEnded     Phase = "ended"
)

const historySize = 100

var (
	ErrOutOfWindow      = errors.New("submission outside the selection window")
	ErrGameStarted      = errors.New("game already started")
	ErrGameEnded        = errors.New("game has ended")
	ErrNotHost          = errors.New("only the host can do that")
	ErrTooFewPlayers    = errors.New("not enough players to start")
	ErrNoDiscardPending = errors.New("no discard pending")
)

type countdown struct {
	active    bool
	remaining int
	carry     time.Duration
}

type discardTimer struct {
	remaining time.Duration
	shown     int
}

// Coordinator is the round state machine of one match. It is not safe for
// concurrent use; GameRoom serializes every call onto its own goroutine.
type Coordinator struct {
	cfg      config.GameConfig
	rng      *rand.Rand
	obs      Observer
	metrics  Metrics
	log      zerolog.Logger
	resolver *resolve.Resolver

	roster   *roster.Roster
	everyone []*player.Player
	hostID   string
	joined   int

	phase        Phase
	round        int
	roundTimer   countdown
	roundStarted time.Time
	cooldown     time.Duration
	discards     map[string]*discardTimer

	winner  *string
	history []string
}

type Option func(*Coordinator)

func WithRand(r *rand.Rand) Option {
	return func(c *Coordinator) { c.rng = r }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

func WithMetrics(m Metrics) Option {
	return func(c *Coordinator) {
		if m != nil {
			c.metrics = m
		}
	}
}

func NewCoordinator(cfg config.GameConfig, obs Observer, opts ...Option) *Coordinator {
	if obs == nil {
		obs = NopObserver{}
	}
	c := &Coordinator{
		cfg:      cfg.Clone(),
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 1)),
		obs:      obs,
		metrics:  nopMetrics{},
		log:      zerolog.Nop(),
		roster:   roster.New(),
		phase:    PhaseLobby,
		discards: make(map[string]*discardTimer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) Phase() Phase   { return c.phase }
func (c *Coordinator) Round() int     { return c.round }
func (c *Coordinator) HostID() string { return c.hostID }

// ============================================================================
// Lobby
// ============================================================================

// Join registers a new player. An empty name becomes "Player N".
func (c *Coordinator) Join(id, name string) error {
	if err := c.lobbyOnly(); err != nil {
		return err
	}
	if name == "" {
		name = fmt.Sprintf("Player %d", c.joined+1)
	}

	p := player.NewPlayer(id, name, c.rng)
	if err := c.roster.Register(p); err != nil {
		return err
	}
	if err := p.BuildDeck(c.cfg.Deck()); err != nil {
		c.roster.Unregister(id)
		return err
	}

	c.joined++
	c.everyone = append(c.everyone, p)
	if c.hostID == "" {
		c.hostID = id
	}
	c.log.Info().Str("player", id).Str("name", name).Msg("player joined")

	c.obs.LobbyChanged(c.lobby())
	c.obs.DeckChanged(id, p.DeckLabels())
	return nil
}

// Leave handles a disconnect. In the lobby the player is dropped; once the
// game runs the player stays registered and plays no action from now on.
func (c *Coordinator) Leave(id string) error {
	p := c.find(id)
	if p == nil {
		return fmt.Errorf("%w: %s", roster.ErrNotFound, id)
	}

	switch c.phase {
	case PhaseLobby:
		c.roster.Unregister(id)
		c.forget(p)
		if c.hostID == id {
			c.hostID = ""
			if ids := c.roster.IDs(); len(ids) > 0 {
				c.hostID = ids[0]
			}
		}
		c.log.Info().Str("player", id).Msg("player left the lobby")
		if c.roster.Len() == 0 {
			c.end()
			return nil
		}
		c.obs.LobbyChanged(c.lobby())
		return nil

	case PhaseEnded:
		p.SetConnected(false)
		return nil
	}

	p.SetConnected(false)
	p.DeselectAction()
	p.DeselectTarget()
	c.log.Info().Str("player", id).Msg("player disconnected mid-game")
	c.obs.PlayerStateChanged(p.State())

	if c.connected() == 0 {
		c.log.Warn().Msg("every player disconnected, ending match")
		c.end()
	}
	return nil
}

// Configure applies host options. Only valid before the game starts.
func (c *Coordinator) Configure(actorID string, options map[string]any) error {
	if err := c.hostInLobby(actorID); err != nil {
		return err
	}
	if err := c.cfg.Apply(options); err != nil {
		return err
	}

	if _, ok := options["starterDeck"]; ok {
		for _, p := range c.roster.Players() {
			if err := p.BuildDeck(c.cfg.Deck()); err != nil {
				return err
			}
			c.obs.DeckChanged(p.ID(), p.DeckLabels())
		}
	}
	c.obs.LobbyChanged(c.lobby())
	return nil
}

func (c *Coordinator) AddCard(playerID string, a card.Action) error {
	return c.editDeck(playerID, func(p *player.Player) (string, error) {
		return p.AddCardToDeck(a)
	})
}

func (c *Coordinator) RemoveCard(playerID string, a card.Action) error {
	return c.editDeck(playerID, func(p *player.Player) (string, error) {
		return p.RemoveCardFromDeck(a)
	})
}

func (c *Coordinator) editDeck(playerID string, edit func(*player.Player) (string, error)) error {
	if err := c.lobbyOnly(); err != nil {
		return err
	}
	p, err := c.roster.Lookup(playerID)
	if err != nil {
		return err
	}
	if _, err := edit(p); err != nil {
		return err
	}
	c.obs.DeckChanged(playerID, p.DeckLabels())
	return nil
}

// Start runs Setup and opens the first selection window.
func (c *Coordinator) Start(actorID string) error {
	if err := c.hostInLobby(actorID); err != nil {
		return err
	}
	if c.roster.Len() < c.cfg.MinPlayers {
		return fmt.Errorf("%w: have %d, need %d", ErrTooFewPlayers, c.roster.Len(), c.cfg.MinPlayers)
	}

	c.resolver = resolve.New(resolve.Rules{
		DrawAmount:     c.cfg.DrawAmount,
		MaxAmmo:        c.cfg.MaxAmmo,
		StartingHealth: c.cfg.StartingHealth,
	}, c.rng)

	c.setPhase(PhaseSetup)
	for _, p := range c.roster.Players() {
		p.Reset(c.cfg.StartingHealth, c.cfg.DrawAmount)
		c.obs.HandChanged(p.ID(), p.Deck().HandActions())
		c.obs.PlayerStateChanged(p.State())
	}
	c.metrics.IncrCounter([]string{"game", "started"}, 1)
	c.metrics.SetGauge([]string{"game", "players"}, float32(c.roster.Len()))
	c.log.Info().Int("players", c.roster.Len()).Msg("match started")

	c.beginRound()
	return nil
}

// lobbyOnly refuses lobby requests once the match has left the lobby. A
// finished match says so instead of claiming it is running.
func (c *Coordinator) lobbyOnly() error {
	switch c.phase {
	case PhaseLobby:
		return nil
	case PhaseEnded:
		return ErrGameEnded
	}
	return ErrGameStarted
}

func (c *Coordinator) hostInLobby(actorID string) error {
	if err := c.lobbyOnly(); err != nil {
		return err
	}
	if actorID != c.hostID {
		return ErrNotHost
	}
	return nil
}

// ============================================================================
// Selection window
// ============================================================================

func (c *Coordinator) SelectAction(playerID string, a card.Action) error {
	p, err := c.selecting(playerID)
	if err != nil {
		return err
	}
	return p.SelectAction(a)
}

func (c *Coordinator) DeselectAction(playerID string) error {
	p, err := c.selecting(playerID)
	if err != nil {
		return err
	}
	p.DeselectAction()
	return nil
}

func (c *Coordinator) SelectTarget(playerID, targetID string) error {
	p, err := c.selecting(playerID)
	if err != nil {
		return err
	}
	if !c.roster.Contains(targetID) {
		return player.ErrInvalidTarget
	}
	return p.SelectTarget(targetID)
}

func (c *Coordinator) DeselectTarget(playerID string) error {
	p, err := c.selecting(playerID)
	if err != nil {
		return err
	}
	p.DeselectTarget()
	return nil
}

// ForceEndRound closes the current window immediately.
func (c *Coordinator) ForceEndRound(actorID string) error {
	if actorID != c.hostID {
		return ErrNotHost
	}
	if c.phase != PhaseSelecting {
		return ErrOutOfWindow
	}
	c.resolveRound()
	return nil
}

func (c *Coordinator) selecting(playerID string) (*player.Player, error) {
	if c.phase != PhaseSelecting {
		return nil, ErrOutOfWindow
	}
	return c.roster.Lookup(playerID)
}

// Discard answers an open mulligan prompt.
func (c *Coordinator) Discard(playerID string, index int) error {
	if _, ok := c.discards[playerID]; !ok {
		return ErrNoDiscardPending
	}
	p, err := c.roster.Lookup(playerID)
	if err != nil {
		return err
	}
	if _, err := p.Deck().DiscardAt(index); err != nil {
		return err
	}
	c.closeDiscard(p)
	c.maybeFinishCooldown()
	return nil
}

// ============================================================================
// Time
// ============================================================================

// Advance moves every running timer forward by dt. The round countdown
// ticks in whole seconds; discard prompts and the cooldown are continuous.
func (c *Coordinator) Advance(dt time.Duration) {
	switch c.phase {
	case PhaseSelecting:
		if !c.roundTimer.active {
			return
		}
		c.roundTimer.carry += dt
		for c.roundTimer.carry >= time.Second {
			c.roundTimer.carry -= time.Second
			c.roundTimer.remaining--
			c.obs.RoundTimerChanged(c.roundTimer.remaining)
			if c.roundTimer.remaining <= 0 {
				c.resolveRound()
				return
			}
		}

	case PhaseCooldown:
		c.cooldown -= dt
		c.tickDiscards(dt)
		c.maybeFinishCooldown()
	}
}

func (c *Coordinator) tickDiscards(dt time.Duration) {
	for _, p := range c.roster.Players() {
		t, ok := c.discards[p.ID()]
		if !ok {
			continue
		}
		t.remaining -= dt
		if t.remaining <= 0 {
			if discarded, err := p.Deck().DiscardRandom(); err == nil {
				c.log.Debug().Str("player", p.ID()).Str("card", discarded.String()).Msg("discard timed out, discarded at random")
			}
			c.metrics.IncrCounter([]string{"discard", "timeout"}, 1)
			c.closeDiscard(p)
			continue
		}
		if secs := ceilSeconds(t.remaining); secs != t.shown {
			t.shown = secs
			c.obs.DiscardPromptChanged(p.ID(), true, secs)
		}
	}
}

func ceilSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}

// ============================================================================
// Round flow
// ============================================================================

func (c *Coordinator) beginRound() {
	c.round++
	for _, p := range c.roster.Players() {
		p.ClearSelection()
	}
	c.roundTimer = countdown{active: true, remaining: c.cfg.RoundTimeSeconds}
	c.roundStarted = time.Now()
	c.setPhase(PhaseSelecting)
	c.obs.RoundTimerChanged(c.roundTimer.remaining)
}

func (c *Coordinator) resolveRound() {
	c.roundTimer.active = false
	c.setPhase(PhaseResolving)

	res := c.resolver.Resolve(c.roster, resolve.Capture(c.roster))

	for _, line := range res.Log {
		c.record(line)
		c.obs.LogEvent(line)
	}
	for _, id := range res.Eliminated {
		c.log.Info().Str("player", id).Int("round", c.round).Msg("player eliminated")
		c.obs.PlayerEliminated(id)
	}
	for _, s := range res.States {
		c.obs.PlayerStateChanged(s)
	}
	for _, p := range c.roster.Players() {
		c.obs.HandChanged(p.ID(), p.Deck().HandActions())
	}
	for _, id := range res.DiscardPrompts {
		p, err := c.roster.Lookup(id)
		if err != nil || p.Deck().Size(deck.HAND) == 0 {
			continue
		}
		c.discards[id] = &discardTimer{
			remaining: c.cfg.DiscardTimeout(),
			shown:     c.cfg.DiscardTimeoutSeconds,
		}
		c.obs.DiscardPromptChanged(id, true, c.cfg.DiscardTimeoutSeconds)
	}

	c.metrics.IncrCounter([]string{"round", "resolved"}, 1)
	c.metrics.MeasureSince([]string{"round", "duration"}, c.roundStarted)
	for a, n := range res.Resolved {
		c.metrics.IncrCounter([]string{"action", a.String()}, float32(n))
	}
	if len(res.Eliminated) > 0 {
		c.metrics.IncrCounter([]string{"player", "eliminated"}, float32(len(res.Eliminated)))
	}
	c.log.Debug().Int("round", c.round).Int("lines", len(res.Log)).Int("active", c.roster.Len()).Msg("round resolved")

	c.cooldown = c.cfg.ResolveCooldown()
	c.setPhase(PhaseCooldown)
	c.maybeFinishCooldown()
}

// maybeFinishCooldown ends the match when at most one player is left, or
// opens the next round once the delay is over and every prompt is answered.
func (c *Coordinator) maybeFinishCooldown() {
	if c.phase != PhaseCooldown || c.cooldown > 0 {
		return
	}
	if c.roster.Len() <= 1 {
		c.end()
		return
	}
	if len(c.discards) > 0 {
		return
	}
	c.beginRound()
}

func (c *Coordinator) closeDiscard(p *player.Player) {
	delete(c.discards, p.ID())
	c.obs.DiscardPromptChanged(p.ID(), false, 0)
	c.obs.HandChanged(p.ID(), p.Deck().HandActions())
}

func (c *Coordinator) end() {
	if c.phase == PhaseEnded {
		return
	}
	c.roundTimer.active = false
	for _, p := range c.roster.Players() {
		if _, ok := c.discards[p.ID()]; ok {
			c.closeDiscard(p)
		}
	}
	c.discards = make(map[string]*discardTimer)

	if ids := c.roster.IDs(); len(ids) == 1 && c.round > 0 {
		winner := ids[0]
		c.winner = &winner
	}
	c.setPhase(PhaseEnded)
	c.obs.GameEnded(c.winner)
	c.metrics.IncrCounter([]string{"game", "ended"}, 1)

	ev := c.log.Info().Int("round", c.round)
	if c.winner != nil {
		ev = ev.Str("winner", *c.winner)
	}
	ev.Msg("match ended")
}

func (c *Coordinator) setPhase(p Phase) {
	c.phase = p
	c.obs.PhaseChanged(p, c.round)
}

func (c *Coordinator) record(line string) {
	c.history = append(c.history, line)
	if len(c.history) > historySize {
		c.history = c.history[len(c.history)-historySize:]
	}
}

// ============================================================================
// Helpers
// ============================================================================

func (c *Coordinator) find(id string) *player.Player {
	for _, p := range c.everyone {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

func (c *Coordinator) forget(p *player.Player) {
	for i, q := range c.everyone {
		if q == p {
			c.everyone = append(c.everyone[:i], c.everyone[i+1:]...)
			return
		}
	}
}

func (c *Coordinator) connected() int {
	n := 0
	for _, p := range c.roster.Players() {
		if p.Connected() {
			n++
		}
	}
	return n
}

func (c *Coordinator) lobby() Lobby {
	l := Lobby{HostID: c.hostID, Config: c.cfg.Clone()}
	for _, p := range c.everyone {
		l.Players = append(l.Players, p.State())
	}
	return l
}

// Summary is a read-only snapshot of a match.
type Summary struct {
	ID      string            `json:"id"`
	Phase   Phase             `json:"phase"`
	Round   int               `json:"round"`
	HostID  string            `json:"hostId"`
	Players []player.State    `json:"players"`
	Winner  *string           `json:"winner,omitempty"`
	Config  config.GameConfig `json:"config"`
	Log     []string          `json:"log"`
}

func (c *Coordinator) Summary() Summary {
	s := Summary{
		Phase:  c.phase,
		Round:  c.round,
		HostID: c.hostID,
		Winner: c.winner,
		Config: c.cfg.Clone(),
		Log:    append([]string(nil), c.history...),
	}
	for _, p := range c.everyone {
		s.Players = append(s.Players, p.State())
	}
	return s
}
