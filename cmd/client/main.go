// triggerhappy/cmd/client/main.go
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"triggerhappy/internal/game/card"
	"triggerhappy/internal/game/player"
	"triggerhappy/internal/network"
	"triggerhappy/internal/services/gameroom"
	"triggerhappy/internal/session/message"
)

const (
	StateIdle    = "idle"
	StateInMatch = "in-match"
)

var (
	info    = color.New(color.FgCyan).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
	bad     = color.New(color.FgRed, color.Bold).SprintFunc()
	good    = color.New(color.FgGreen, color.Bold).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	heading = color.New(color.FgMagenta, color.Bold).SprintFunc()
)

// view is everything the client remembers about the match it is in.
type view struct {
	mu       sync.Mutex
	state    string
	me       string
	matchID  string
	phase    string
	round    int
	players  map[string]player.State
	hand     []card.Action
	deck     []string
	discard  bool
	selected card.Action
}

func (v *view) nameOf(id string) string {
	if p, ok := v.players[id]; ok && p.Name != "" {
		return p.Name
	}
	return id
}

// resolveTarget accepts a player id or a case-insensitive name.
func (v *view) resolveTarget(s string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.players[s]; ok {
		return s, true
	}
	for id, p := range v.players {
		if strings.EqualFold(p.Name, s) {
			return id, true
		}
	}
	return "", false
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	addrs := []string{"localhost:8080"}
	if env := os.Getenv("TH_SERVERS"); env != "" {
		addrs = strings.Split(env, ",")
	}

	var conn *network.Conn
	for _, addr := range addrs {
		url := fmt.Sprintf("ws://%s/ws", strings.TrimSpace(addr))
		fmt.Println(faint("connecting to " + url))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		c, err := network.Dial(ctx, url)
		cancel()
		if err == nil {
			conn = c
			break
		}
		fmt.Println(warn(fmt.Sprintf("could not reach %s: %v", addr, err)))
	}
	if conn == nil {
		fmt.Println(bad("no server reachable, giving up"))
		os.Exit(1)
	}
	defer conn.Close()

	v := &view{state: StateIdle, players: make(map[string]player.State)}

	done := make(chan struct{})
	go readLoop(conn, v, done)

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			handleUserInput(conn, v, strings.TrimSpace(scanner.Text()))
		}
	}()

	select {
	case <-done:
		fmt.Println(warn("disconnected from server"))
	case <-interrupt:
		fmt.Println(faint("closing connection"))
	}
}

func readLoop(conn *network.Conn, v *view, done chan struct{}) {
	defer close(done)
	for {
		msg, err := conn.Read()
		if err != nil {
			return
		}
		printServerMessage(v, msg)
	}
}

func send(conn *network.Conn, msgType string, payload any) {
	if err := conn.Send(msgType, payload); err != nil {
		fmt.Println(bad("send failed: " + err.Error()))
	}
}

func handleUserInput(conn *network.Conn, v *view, line string) {
	if line == "" {
		printPrompt(v)
		return
	}
	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	v.mu.Lock()
	state := v.state
	v.mu.Unlock()

	switch state {
	case StateIdle:
		handleIdleInput(conn, v, cmd, args)
	case StateInMatch:
		handleInMatchInput(conn, v, cmd, args)
	}
}

func handleIdleInput(conn *network.Conn, v *view, cmd string, args []string) {
	switch cmd {
	case "new":
		send(conn, message.JOIN, message.JoinPayload{Name: strings.Join(args, " ")})
	case "join":
		if len(args) == 0 {
			fmt.Println(warn("usage: join <match id> [name]"))
			return
		}
		send(conn, message.JOIN, message.JoinPayload{MatchID: args[0], Name: strings.Join(args[1:], " ")})
	case "help":
		printPrompt(v)
	default:
		fmt.Println(warn("unknown command, type help"))
	}
}

func handleInMatchInput(conn *network.Conn, v *view, cmd string, args []string) {
	switch cmd {
	case "play", "p":
		a, ok := parseActionArg(args)
		if !ok {
			return
		}
		send(conn, message.SELECT_ACTION, message.ActionPayload{Action: a})
		v.mu.Lock()
		v.selected = a
		v.mu.Unlock()
	case "unplay":
		send(conn, message.DESELECT_ACTION, nil)
	case "target", "t":
		if len(args) == 0 {
			fmt.Println(warn("usage: target <name|id>"))
			return
		}
		id, ok := v.resolveTarget(strings.Join(args, " "))
		if !ok {
			fmt.Println(warn("no such player"))
			return
		}
		send(conn, message.SELECT_TARGET, message.TargetPayload{TargetID: id})
	case "untarget":
		send(conn, message.DESELECT_TARGET, nil)
	case "discard", "d":
		if len(args) == 0 {
			fmt.Println(warn("usage: discard <hand index>"))
			return
		}
		i, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println(warn("index must be a number"))
			return
		}
		send(conn, message.DISCARD, message.DiscardPayload{Index: &i})
	case "add", "remove":
		a, ok := parseActionArg(args)
		if !ok {
			return
		}
		msgType := message.ADD_CARD
		if cmd == "remove" {
			msgType = message.REMOVE_CARD
		}
		send(conn, msgType, message.ActionPayload{Action: a})
	case "set":
		opts, err := parseOptions(args)
		if err != nil {
			fmt.Println(warn(err.Error()))
			return
		}
		send(conn, message.CONFIGURE, message.ConfigurePayload{Options: opts})
	case "start":
		send(conn, message.START_GAME, nil)
	case "end":
		send(conn, message.FORCE_END_ROUND, nil)
	case "leave":
		send(conn, message.LEAVE, nil)
	case "status":
		printStatus(v)
	case "help":
		printPrompt(v)
	default:
		fmt.Println(warn("unknown command, type help"))
	}
}

// actionList names every playable action in the order they resolve.
func actionList() string {
	actions := card.Actions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.String()
	}
	return strings.Join(names, ", ")
}

func parseActionArg(args []string) (card.Action, bool) {
	if len(args) == 0 {
		fmt.Println(warn("missing action"))
		return card.None, false
	}
	a, err := card.ParseAction(args[0])
	if err != nil {
		fmt.Println(warn(err.Error()))
		return card.None, false
	}
	return a, true
}

// parseOptions turns key=value pairs into match options. Numbers are sent
// as numbers.
func parseOptions(args []string) (map[string]any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("usage: set key=value ...")
	}
	opts := make(map[string]any, len(args))
	for _, kv := range args {
		k, val, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("bad option %q", kv)
		}
		if n, err := strconv.Atoi(val); err == nil {
			opts[k] = n
		} else {
			opts[k] = val
		}
	}
	return opts, nil
}

func printServerMessage(v *view, msg network.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch msg.Type {
	case message.WELCOME:
		var p message.WelcomePayload
		_ = msg.Decode(&p)
		v.me = p.PlayerID
		fmt.Println(heading("Trigger Happy"), faint("you are "+p.PlayerID))
		printPromptLocked(v)

	case message.JOINED:
		var p message.JoinedPayload
		_ = msg.Decode(&p)
		v.state, v.matchID = StateInMatch, p.MatchID
		fmt.Println(good("joined match " + p.MatchID))

	case message.LEFT:
		v.state, v.matchID = StateIdle, ""
		v.players = make(map[string]player.State)
		v.hand = nil
		fmt.Println(info("left the match"))
		printPromptLocked(v)

	case message.PLAYER_LIST:
		var l gameroom.Lobby
		_ = msg.Decode(&l)
		v.players = make(map[string]player.State, len(l.Players))
		names := make([]string, 0, len(l.Players))
		for _, p := range l.Players {
			v.players[p.ID] = p
			name := p.Name
			if p.ID == l.HostID {
				name += " (host)"
			}
			names = append(names, name)
		}
		fmt.Println(info("lobby: " + strings.Join(names, ", ")))

	case message.DECK:
		var p message.DeckPayload
		_ = msg.Decode(&p)
		v.deck = p.Cards
		fmt.Println(info("deck: " + strings.Join(p.Cards, ", ")))

	case message.PHASE:
		var p message.PhasePayload
		_ = msg.Decode(&p)
		v.phase, v.round = p.Phase, p.Round
		if p.Phase == string(gameroom.PhaseSelecting) {
			v.selected = card.None
			fmt.Println(heading(fmt.Sprintf("--- round %d ---", p.Round)))
			printStatusLocked(v)
		} else {
			fmt.Println(faint("phase: " + p.Phase))
		}

	case message.TIMER:
		var p message.TimerPayload
		_ = msg.Decode(&p)
		if p.Seconds <= 5 || p.Seconds%5 == 0 {
			fmt.Println(faint(fmt.Sprintf("%ds left", p.Seconds)))
		}

	case message.PLAYER_STATE:
		var s player.State
		_ = msg.Decode(&s)
		v.players[s.ID] = s

	case message.HAND:
		var p message.HandPayload
		_ = msg.Decode(&p)
		v.hand = p.Cards

	case message.LOG:
		var p message.LogPayload
		_ = msg.Decode(&p)
		fmt.Println("  " + p.Text)

	case message.ELIMINATED:
		var p message.EliminatedPayload
		_ = msg.Decode(&p)
		if p.PlayerID == v.me {
			fmt.Println(bad("you were eliminated"))
		} else {
			fmt.Println(warn(v.nameOf(p.PlayerID) + " was eliminated"))
		}

	case message.DISCARD_PROMPT:
		var p message.DiscardPromptPayload
		_ = msg.Decode(&p)
		v.discard = p.Active
		if p.Active {
			fmt.Println(warn(fmt.Sprintf("discard a card within %ds: discard <index>", p.Seconds)))
			printHandLocked(v)
		}

	case message.GAME_ENDED:
		var p message.GameEndedPayload
		_ = msg.Decode(&p)
		switch {
		case p.Winner == nil:
			fmt.Println(heading("game over, nobody survived"))
		case *p.Winner == v.me:
			fmt.Println(good("you win!"))
		default:
			fmt.Println(heading(v.nameOf(*p.Winner) + " wins"))
		}
		fmt.Println(faint("type leave to return"))

	case message.ERROR:
		var p message.ErrorPayload
		_ = msg.Decode(&p)
		fmt.Println(bad("error: " + p.Error))

	default:
		raw, _ := json.Marshal(msg.Payload)
		fmt.Println(faint(fmt.Sprintf("(%s) %s", msg.Type, raw)))
	}
}

func printStatus(v *view) {
	v.mu.Lock()
	defer v.mu.Unlock()
	printStatusLocked(v)
}

func printStatusLocked(v *view) {
	if v.phase != "" {
		fmt.Println(faint(fmt.Sprintf("round %d, %s", v.round, v.phase)))
	}
	ids := make([]string, 0, len(v.players))
	for id := range v.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := v.players[id]
		line := fmt.Sprintf("  %-12s hp %d  ammo %d", p.Name, p.Health, p.Ammo)
		switch {
		case p.Eliminated:
			line = faint(line + "  out")
		case !p.Connected:
			line = faint(line + "  offline")
		case id == v.me:
			line = good(line + "  (you)")
		}
		fmt.Println(line)
	}
	if v.discard {
		fmt.Println(warn("discard pending"))
	}
	if v.selected != card.None {
		fmt.Println(info("selected: " + v.selected.String()))
	}
	printHandLocked(v)
}

func printHandLocked(v *view) {
	labels := make([]string, len(v.hand))
	for i, a := range v.hand {
		labels[i] = fmt.Sprintf("[%d] %s", i, a)
	}
	fmt.Println(info("hand: " + strings.Join(labels, "  ")))
}

func printPrompt(v *view) {
	v.mu.Lock()
	defer v.mu.Unlock()
	printPromptLocked(v)
}

func printPromptLocked(v *view) {
	switch v.state {
	case StateIdle:
		fmt.Print(`
  new [name]              open a new match
  join <match id> [name]  join an existing match
`)
	case StateInMatch:
		fmt.Printf(`
  play <action>     select a card (%s)
  target <name>     select a target
  unplay, untarget  clear the selection
  discard <index>   answer a discard prompt
  add|remove <action>, set key=value, start, end   lobby and host commands
  status, leave
`, actionList())
	}
}
