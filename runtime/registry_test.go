package runtime

import (
	"errors"
	"sync"
	"testing"

	"chat-relay/domain"
	apperrors "chat-relay/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register_One_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	id := uuid.New()
	identity := domain.Identity{UserID: "user-1", Username: "alice"}
	conn := &fakeConn{}

	// Given an empty registry
	req.Zero(registry.Len())
	req.Empty(registry.Snapshot())

	// When a connection registers
	err := registry.Register(id, identity, conn)

	// Then it appears in the snapshot with its identity
	req.NoError(err)
	req.Equal(1, registry.Len())

	snapshot := registry.Snapshot()
	req.Len(snapshot, 1)
	req.Equal(id, snapshot[0].ID)
	req.Equal(identity, snapshot[0].Identity)
}

func TestRegistry_Register_Duplicate_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	id := uuid.New()

	req.NoError(registry.Register(id, domain.Identity{Username: "alice"}, &fakeConn{}))

	// A colliding connection id is rejected and the table is unchanged
	err := registry.Register(id, domain.Identity{Username: "bob"}, &fakeConn{})
	req.True(errors.Is(err, apperrors.ErrDuplicateConnection))
	req.Equal(1, registry.Len())
	req.Equal("alice", registry.Snapshot()[0].Identity.Username)
}

func TestRegistry_Deregister_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	id := uuid.New()

	req.NoError(registry.Register(id, domain.Identity{Username: "alice"}, &fakeConn{}))

	// Removing twice leaves the same state as removing once
	registry.Deregister(id)
	registry.Deregister(id)
	req.Zero(registry.Len())

	// Removing an id that never registered is a no-op as well
	registry.Deregister(uuid.New())
	req.Zero(registry.Len())
}

func TestRegistry_Snapshot_Is_Ordered_By_Registration(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for i, id := range ids {
		req.NoError(registry.Register(id, domain.Identity{UserID: string(rune('a' + i))}, &fakeConn{}))
	}

	snapshot := registry.Snapshot()
	req.Len(snapshot, len(ids))
	for i, id := range ids {
		req.Equal(id, snapshot[i].ID)
	}
}

func TestRegistry_Concurrent_Access(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := uuid.New()
			_ = registry.Register(id, domain.Identity{Username: "user"}, &fakeConn{})
			_ = registry.Snapshot()
			registry.Deregister(id)
		}()
	}
	wg.Wait()

	req.Zero(registry.Len())
}
