// Package registry tracks which user identity is reachable on which live
// connection and provides best-effort delivery of outbound events.
package registry

import (
	"context"
	"log"
	"sync"

	"reliefline/internal/protocol"
	"reliefline/internal/store"
)

// Conn is the transport half the registry needs from a live connection.
// *ws.Client implements it; tests substitute fakes.
type Conn interface {
	// ID returns a process-unique identifier for this connection, stable
	// for its lifetime. Used to tell a stale connection apart from the one
	// currently on record for a user.
	ID() string
	// Enqueue hands an outbound event to the connection's writer. It must
	// not block; it reports false when the event was dropped (buffer full
	// or writer gone).
	Enqueue(evt protocol.Event) bool
}

// Registry maps user ids to their single live connection. It is shared by
// every connection goroutine, so all access to the tables goes through
// one mutex. The registry is plain state owned by the composition root;
// it is always passed in explicitly, never reached as a singleton.
type Registry struct {
	mu     sync.RWMutex
	byUser map[int64]Conn   // user id -> connection currently on record
	owners map[string]int64 // connection id -> user id it registered under

	store store.Store
}

// New creates an empty registry backed by the given store. The store is
// needed only to flip a user's online flag off when their connection goes
// away.
func New(st store.Store) *Registry {
	return &Registry{
		byUser: make(map[int64]Conn),
		owners: make(map[string]int64),
		store:  st,
	}
}

// Identify registers conn as the connection for userID, replacing any
// prior connection. Last writer wins: the prior connection stays open but
// is no longer addressable until it closes or re-identifies. A connection
// re-identifying under a new id releases its old registration.
func (r *Registry) Identify(conn Conn, userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prior, ok := r.byUser[userID]; ok && prior.ID() != conn.ID() {
		delete(r.owners, prior.ID())
		log.Printf("REGISTRY: User %d re-identified on connection %s; previous connection %s is now dangling.", userID, conn.ID(), prior.ID())
	}
	if oldID, ok := r.owners[conn.ID()]; ok && oldID != userID {
		delete(r.byUser, oldID)
	}
	r.byUser[userID] = conn
	r.owners[conn.ID()] = userID
	log.Printf("REGISTRY: Connection %s identified as user %d.", conn.ID(), userID)
}

// Send delivers evt to the connection registered for userID. Delivery is
// best-effort: no registered connection, or a full outbound buffer, is a
// silent no-op by design, never an error.
func (r *Registry) Send(userID int64, evt protocol.Event) {
	r.mu.RLock()
	conn, ok := r.byUser[userID]
	r.mu.RUnlock()
	if !ok {
		return
	}
	if !conn.Enqueue(evt) {
		log.Printf("REGISTRY: Dropped event '%s' for user %d: connection %s cannot accept writes.", evt.Type, userID, conn.ID())
	}
}

// Unregister removes conn's registration on connection close. If a newer
// connection has since taken over the identity, the mapping is left
// alone. The owning user is marked offline in the store; a store failure
// is logged and swallowed so teardown is never blocked by storage.
func (r *Registry) Unregister(ctx context.Context, conn Conn) {
	r.mu.Lock()
	userID, ok := r.owners[conn.ID()]
	if ok {
		delete(r.owners, conn.ID())
		if current, found := r.byUser[userID]; found && current.ID() == conn.ID() {
			delete(r.byUser, userID)
		}
	}
	r.mu.Unlock()

	if !ok {
		return // connection never identified
	}

	log.Printf("REGISTRY: Connection %s for user %d unregistered.", conn.ID(), userID)
	offline := false
	if _, err := r.store.UpdateUser(ctx, userID, store.UserPatch{Online: &offline}); err != nil {
		log.Printf("REGISTRY_ERROR: Marking user %d offline after disconnect: %v", userID, err)
	}
}
