package network

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
)

type clientMessage struct {
	client *Client
	msg    Message
}

// Hub keeps the set of active clients and routes their events to the
// handler. clients is only touched by the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	incoming   chan clientMessage
	tasks      chan func()
	done       chan struct{}
	count      atomic.Int64

	handler EventHandler
	log     zerolog.Logger
}

func NewHub(handler EventHandler, log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan clientMessage),
		tasks:      make(chan func()),
		done:       make(chan struct{}),
		handler:    handler,
		log:        log.With().Str("component", "hub").Logger(),
	}
}

// Len returns the number of registered clients. Safe from any goroutine.
func (h *Hub) Len() int { return int(h.count.Load()) }

func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for client := range h.clients {
			client.close()
			h.handler.OnDisconnect(client)
		}
		h.log.Info().Msg("hub stopped")
	}()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.count.Add(1)
			h.handler.OnConnect(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.count.Add(-1)
				// Closing send is what stops the client's writeLoop.
				client.close()
				h.handler.OnDisconnect(client)
			}

		case clientMsg := <-h.incoming:
			h.handler.OnMessage(clientMsg.client, clientMsg.msg)

		case fn := <-h.tasks:
			fn()

		case <-ctx.Done():
			return
		}
	}
}

// post runs fn on the Run goroutine. It reports false once the hub has
// stopped, in which case fn never runs.
func (h *Hub) post(fn func()) bool {
	select {
	case h.tasks <- fn:
		return true
	case <-h.done:
		return false
	}
}
