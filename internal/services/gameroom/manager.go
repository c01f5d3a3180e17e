//START OF FILE triggerhappy/internal/services/gameroom/manager.go
package gameroom

import (
	"context"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog"

	"triggerhappy/internal/config"
)

type ManagerConfig struct {
	Defaults        config.GameConfig
	Tick            time.Duration
	CleanupInterval time.Duration
	CacheSize       int
	Observers       ObserverFactory
	Metrics         Metrics
	Logger          zerolog.Logger
}

// RoomManager (the actor) owns the lifecycle of every live room. Finished
// rooms are stopped on cleanup and their final Summary kept in an LRU.
type RoomManager struct {
	cfg       ManagerConfig
	rooms     map[string]*GameRoom
	finished  *lru.Cache
	requestCh chan interface{}
	log       zerolog.Logger
}

func NewRoomManager(cfg ManagerConfig) (*RoomManager, error) {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 128
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}
	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &RoomManager{
		cfg:       cfg,
		rooms:     make(map[string]*GameRoom),
		finished:  cache,
		requestCh: make(chan interface{}),
		log:       cfg.Logger.With().Str("component", "room-manager").Logger(),
	}, nil
}

// --- Messages for the RoomManager actor ---
type createRoomRequest struct {
	options map[string]any
	reply   chan createRoomReply
}
type createRoomReply struct {
	room *GameRoom
	err  error
}
type getRoomRequest struct {
	roomID string
	reply  chan *GameRoom
}
type listRoomsRequest struct {
	reply chan []*GameRoom
}
type cleanupFinishedRooms struct{}

// --- Public API of the actor ---

// CreateRoom starts a new room using the default options overridden by
// options (may be nil).
func (rm *RoomManager) CreateRoom(ctx context.Context, options map[string]any) (*GameRoom, error) {
	reply := make(chan createRoomReply, 1)
	if err := rm.send(ctx, createRoomRequest{options: options, reply: reply}); err != nil {
		return nil, err
	}
	select {
	case r := <-reply:
		return r.room, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetRoom returns the live room with roomID, or nil.
func (rm *RoomManager) GetRoom(ctx context.Context, roomID string) *GameRoom {
	reply := make(chan *GameRoom, 1)
	if err := rm.send(ctx, getRoomRequest{roomID: roomID, reply: reply}); err != nil {
		return nil
	}
	select {
	case room := <-reply:
		return room
	case <-ctx.Done():
		return nil
	}
}

func (rm *RoomManager) Rooms(ctx context.Context) []*GameRoom {
	reply := make(chan []*GameRoom, 1)
	if err := rm.send(ctx, listRoomsRequest{reply: reply}); err != nil {
		return nil
	}
	select {
	case rooms := <-reply:
		return rooms
	case <-ctx.Done():
		return nil
	}
}

// Summary answers for live rooms first and falls back to the cache of
// cleaned up ones.
func (rm *RoomManager) Summary(ctx context.Context, roomID string) (Summary, bool) {
	if room := rm.GetRoom(ctx, roomID); room != nil {
		s, err := room.Snapshot(ctx)
		if err == nil {
			return s, true
		}
	}
	if v, ok := rm.finished.Get(roomID); ok {
		return v.(Summary), true
	}
	return Summary{}, false
}

// Cleanup asks the actor to sweep finished rooms now.
func (rm *RoomManager) Cleanup(ctx context.Context) error {
	return rm.send(ctx, cleanupFinishedRooms{})
}

func (rm *RoomManager) send(ctx context.Context, msg interface{}) error {
	select {
	case rm.requestCh <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run is the main loop of the RoomManager actor. It stops every room when
// ctx is cancelled.
func (rm *RoomManager) Run(ctx context.Context) {
	rm.log.Info().Msg("actor started")
	cleanupTicker := time.NewTicker(rm.cfg.CleanupInterval)
	defer func() {
		cleanupTicker.Stop()
		for id, room := range rm.rooms {
			room.Stop()
			delete(rm.rooms, id)
		}
		rm.log.Info().Msg("actor stopped")
	}()

	for {
		select {
		case msg := <-rm.requestCh:
			switch req := msg.(type) {
			case createRoomRequest:
				room, err := rm.newRoom(req.options)
				req.reply <- createRoomReply{room: room, err: err}

			case getRoomRequest:
				req.reply <- rm.rooms[req.roomID]

			case listRoomsRequest:
				out := make([]*GameRoom, 0, len(rm.rooms))
				for _, room := range rm.rooms {
					out = append(out, room)
				}
				req.reply <- out

			case cleanupFinishedRooms:
				rm.cleanup(ctx)
			}

		case <-cleanupTicker.C:
			rm.cleanup(ctx)

		case <-ctx.Done():
			return
		}
	}
}

func (rm *RoomManager) newRoom(options map[string]any) (*GameRoom, error) {
	cfg := rm.cfg.Defaults.Clone()
	if len(options) > 0 {
		if err := cfg.Apply(options); err != nil {
			return nil, err
		}
	}

	roomID := uuid.NewString()
	var obs Observer = NopObserver{}
	if rm.cfg.Observers != nil {
		obs = rm.cfg.Observers(roomID)
	}
	coord := NewCoordinator(cfg, obs,
		WithLogger(rm.cfg.Logger.With().Str("room", roomID).Logger()),
		WithMetrics(rm.cfg.Metrics),
	)
	room := NewGameRoom(roomID, coord, rm.cfg.Tick, rm.cfg.Logger)
	rm.rooms[roomID] = room
	go room.Run()

	rm.cfg.Metrics.IncrCounter([]string{"room", "created"}, 1)
	rm.cfg.Metrics.SetGauge([]string{"room", "live"}, float32(len(rm.rooms)))
	rm.log.Info().Str("room", roomID).Msg("room created")
	return room, nil
}

func (rm *RoomManager) cleanup(ctx context.Context) {
	for id, room := range rm.rooms {
		if !room.IsFinished() {
			continue
		}
		snapCtx, cancel := context.WithTimeout(ctx, time.Second)
		if s, err := room.Snapshot(snapCtx); err == nil {
			rm.finished.Add(id, s)
		}
		cancel()
		room.Stop()
		delete(rm.rooms, id)
		rm.log.Info().Str("room", id).Msg("cleaned up finished room")
	}
	rm.cfg.Metrics.SetGauge([]string{"room", "live"}, float32(len(rm.rooms)))
}

//END OF FILE triggerhappy/internal/services/gameroom/manager.go
