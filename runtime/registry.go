// Package runtime owns the live connection table and the broadcast engine.
// It propagates messages without containing business logic or domain rules.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"sort"
	"sync"

	"github.com/google/uuid"

	apperrors "chat-relay/errors"
)

type entry struct {
	seq      uint64
	identity domain.Identity
	conn     contract.Conn
}

// Registry is the process-wide table of currently live, authenticated
// connections. Every entry carries a verified identity: unauthenticated
// connections never enter the table.
type Registry struct {
	mu      sync.RWMutex
	nextSeq uint64
	conns   map[uuid.UUID]entry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[uuid.UUID]entry)}
}

// Register adds a fully-constructed entry. A colliding connection id is an
// internal invariant violation and is rejected with ErrDuplicateConnection.
func (r *Registry) Register(id uuid.UUID, identity domain.Identity, conn contract.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[id]; ok {
		return apperrors.ErrDuplicateConnection
	}
	r.conns[id] = entry{seq: r.nextSeq, identity: identity, conn: conn}
	r.nextSeq++
	return nil
}

// Deregister removes an entry. Removing an absent id is a no-op, which makes
// teardown safe against double-close.
func (r *Registry) Deregister(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
}

// Snapshot returns a consistent point-in-time copy of the table, ordered by
// registration sequence. Sorting happens outside the lock to keep the
// critical section bounded.
func (r *Registry) Snapshot() []contract.Entry {
	type seqEntry struct {
		seq uint64
		e   contract.Entry
	}

	r.mu.RLock()
	copied := make([]seqEntry, 0, len(r.conns))
	for id, e := range r.conns {
		copied = append(copied, seqEntry{
			seq: e.seq,
			e:   contract.Entry{ID: id, Identity: e.identity, Conn: e.conn},
		})
	}
	r.mu.RUnlock()

	sort.Slice(copied, func(i, j int) bool { return copied[i].seq < copied[j].seq })

	entries := make([]contract.Entry, len(copied))
	for i, se := range copied {
		entries[i] = se.e
	}
	return entries
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
