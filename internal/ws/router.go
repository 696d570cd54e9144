// Package ws carries the WebSocket transport: per-connection read/write
// pumps and the router that dispatches decoded frames into the session
// layer.
package ws

import (
	"context"
	"log"

	"reliefline/internal/protocol"
	"reliefline/internal/registry"
	"reliefline/internal/session"
)

// Router dispatches inbound frames by event type. A frame that fails to
// decode or dispatch is answered with an error frame on the originating
// connection only; the connection itself is never closed over a bad
// frame, and one connection's failure never affects another.
type Router struct {
	registry *registry.Registry
	sessions *session.Manager
}

// NewRouter wires the dispatcher to its registry and session manager.
func NewRouter(reg *registry.Registry, sessions *session.Manager) *Router {
	return &Router{registry: reg, sessions: sessions}
}

// HandleFrame decodes and dispatches one inbound frame from c.
func (r *Router) HandleFrame(ctx context.Context, c *Client, raw []byte) {
	ev, err := protocol.Decode(raw)
	if err != nil {
		log.Printf("ROUTER: Rejecting frame from connection %s: %v", c.ID(), err)
		c.Enqueue(protocol.ErrorEvent(err.Error()))
		return
	}

	switch ev := ev.(type) {
	case protocol.Identify:
		r.registry.Identify(c, ev.UserID)

	case protocol.StartChat:
		if _, err := r.sessions.StartChat(ctx, ev.RelieverID, ev.UserAlias, ev.Status); err != nil {
			log.Printf("ROUTER: start_chat from connection %s failed: %v", c.ID(), err)
			c.Enqueue(protocol.ErrorEvent(err.Error()))
		}

	case protocol.SendMessage:
		if _, err := r.sessions.PostMessage(ctx, ev.ChatID, ev.Sender, ev.Content); err != nil {
			log.Printf("ROUTER: send_message from connection %s failed: %v", c.ID(), err)
			c.Enqueue(protocol.ErrorEvent(err.Error()))
		}

	case protocol.Ignored:
		// Unknown types are dropped without a reply. Permissive by contract.
		log.Printf("ROUTER: Ignoring frame with unknown type '%s' from connection %s.", ev.Type, c.ID())
	}
}
