// Package realtime fans lifecycle events out to connected front-desk
// clients over websockets. Delivery is best-effort: there is no backlog,
// no replay for late joiners, and no acknowledgment. Clients that cannot
// keep up are disconnected rather than allowed to block the publisher, and
// a failed or absent broadcast never affects the store mutation that
// triggered it.
package realtime

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Event names emitted by the lifecycle service. "child:deleted" is kept
// for historical reasons; semantically the child was archived, not removed.
const (
	EventChildCreated  = "child:created"
	EventChildDeleted  = "child:deleted"
	EventActionCreated = "action:created"
)

// Envelope is the wire shape of one broadcast frame.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub tracks connected clients and fans broadcast frames out to them.
// All client bookkeeping happens on the Run goroutine; the exported
// methods only move messages through channels and never block.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub constructs a Hub. Call Run on its own goroutine before serving
// websocket upgrades.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns the client set until ctx is cancelled. On shutdown every
// remaining client's send channel is closed, which ends its write pump.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			log.Debug().Int("clients", len(h.clients)).Msg("observer connected")
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				log.Debug().Int("clients", len(h.clients)).Msg("observer disconnected")
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer: drop it instead of stalling the hub.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Publish serializes an event envelope and queues it for fan-out. It is
// called synchronously after the corresponding store mutation commits and
// must never fail the caller: marshal errors and a saturated queue are
// logged and otherwise swallowed.
func (h *Hub) Publish(event string, data any) {
	msg, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("broadcast encode failed")
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Warn().Str("event", event).Msg("broadcast queue full; event dropped")
	}
}
