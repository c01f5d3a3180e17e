// START OF FILE triggerhappy/internal/services/gameroom/room.go
package gameroom

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var ErrRoomClosed = errors.New("room is closed")

const incomingBuffer = 64

type envelope struct {
	cmd   Command
	reply chan error
}

// GameRoom owns one Coordinator and is the only goroutine that touches it.
// Commands arrive through incoming; a ticker drives the timers.
type GameRoom struct {
	ID       string
	coord    *Coordinator
	incoming chan envelope
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	tick     time.Duration
	log      zerolog.Logger

	gameState atomic.Value
}

func NewGameRoom(id string, coord *Coordinator, tick time.Duration, log zerolog.Logger) *GameRoom {
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}
	gr := &GameRoom{
		ID:       id,
		coord:    coord,
		incoming: make(chan envelope, incomingBuffer),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		tick:     tick,
		log:      log.With().Str("room", id).Logger(),
	}
	gr.gameState.Store(coord.Phase())
	return gr
}

func (gr *GameRoom) Run() {
	gr.log.Info().Msg("room goroutine starting")
	ticker := time.NewTicker(gr.tick)
	defer func() {
		ticker.Stop()
		close(gr.done)
		gr.log.Info().Msg("room goroutine stopped")
	}()

	last := time.Now()
	for {
		select {
		case env := <-gr.incoming:
			err := env.cmd.apply(gr.coord)
			gr.setGameState(gr.coord.Phase())
			if env.reply != nil {
				env.reply <- err
			} else if err != nil {
				gr.log.Debug().Err(err).Msgf("%T dropped", env.cmd)
			}

		case now := <-ticker.C:
			gr.coord.Advance(now.Sub(last))
			last = now
			gr.setGameState(gr.coord.Phase())

		case <-gr.quit:
			return
		}
	}
}

// Stop ends the room goroutine. Safe to call more than once.
func (gr *GameRoom) Stop() {
	gr.stopOnce.Do(func() { close(gr.quit) })
}

// Done is closed once Run has returned.
func (gr *GameRoom) Done() <-chan struct{} { return gr.done }

// --- Methods for external interaction ---

// ForwardAction queues cmd without waiting. Commands that arrive while the
// queue is full are dropped.
func (gr *GameRoom) ForwardAction(cmd Command) {
	if gr.IsFinished() {
		gr.log.Debug().Msgf("%T received after game over, ignoring", cmd)
		return
	}
	select {
	case gr.incoming <- envelope{cmd: cmd}:
	default:
		gr.log.Warn().Msgf("incoming queue is busy, %T discarded", cmd)
	}
}

// Deliver queues cmd without waiting for its answer and never drops it.
// When the queue is full a goroutine holds cmd until there is room or the
// room stops. Use it for commands that must land, such as Leave.
func (gr *GameRoom) Deliver(cmd Command) {
	env := envelope{cmd: cmd}
	select {
	case gr.incoming <- env:
		return
	case <-gr.quit:
		return
	default:
	}

	gr.log.Debug().Msgf("incoming queue is busy, %T waiting", cmd)
	go func() {
		select {
		case gr.incoming <- env:
		case <-gr.quit:
		}
	}()
}

// Do queues cmd and waits for the coordinator's answer.
func (gr *GameRoom) Do(ctx context.Context, cmd Command) error {
	reply := make(chan error, 1)
	select {
	case gr.incoming <- envelope{cmd: cmd, reply: reply}:
	case <-gr.quit:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-gr.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot asks the room goroutine for a Summary.
func (gr *GameRoom) Snapshot(ctx context.Context) (Summary, error) {
	out := make(chan Summary, 1)
	if err := gr.Do(ctx, snapshot{out: out}); err != nil {
		return Summary{}, err
	}
	s := <-out
	s.ID = gr.ID
	return s, nil
}

func (gr *GameRoom) IsFinished() bool {
	return gr.getGameState() == PhaseEnded
}

func (gr *GameRoom) Phase() Phase { return gr.getGameState() }

func (gr *GameRoom) getGameState() Phase {
	return gr.gameState.Load().(Phase)
}

func (gr *GameRoom) setGameState(p Phase) {
	gr.gameState.Store(p)
}

//END OF FILE triggerhappy/internal/services/gameroom/room.go
