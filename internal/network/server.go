//START OF FILE triggerhappy/internal/network/server.go
package network

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type ServerOptions struct {
	// RateLimit is the sustained number of messages per second accepted
	// from one client. Zero disables limiting.
	RateLimit float64
	Burst     int
	// AllowedOrigins restricts the websocket handshake. Empty allows any.
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// Server upgrades HTTP requests to websocket clients and hands them to its Hub.
type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader
	opts     ServerOptions
	log      zerolog.Logger
}

func NewServer(handler EventHandler, opts ServerOptions) *Server {
	s := &Server{
		hub:  NewHub(handler, opts.Logger),
		opts: opts,
		log:  opts.Logger.With().Str("component", "ws").Logger(),
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin:     s.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.opts.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.opts.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

// Run drives the hub until ctx is cancelled.
func (s *Server) Run(ctx context.Context) { s.hub.Run(ctx) }

func (s *Server) Clients() int { return s.hub.Len() }

// HandleWS is the entry point for client connections.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("upgrade failed")
		return
	}

	var limiter *rate.Limiter
	if s.opts.RateLimit > 0 {
		burst := s.opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(s.opts.RateLimit), burst)
	}

	client := newClient(uuid.NewString(), conn, s.hub, limiter, s.opts.Logger)

	select {
	case s.hub.register <- client:
	case <-s.hub.done:
		conn.Close()
		return
	}

	go client.writeLoop()
	go client.readLoop()
}

//END OF FILE triggerhappy/internal/network/server.go
