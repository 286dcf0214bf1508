//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"context"
	"reflect"

	"github.com/google/uuid"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Conn is the delivery half of a live connection. Push enqueues a message
// for delivery and must never block the caller; it fails when the peer is
// gone or cannot keep up. Both methods are safe for concurrent use.
type Conn interface {
	Push(msg domain.ChatMessage) error
	Close() error
}

// Entry is one live, authenticated connection as seen in a registry snapshot.
type Entry struct {
	ID       uuid.UUID
	Identity domain.Identity
	Conn     Conn
}

type IRegistry interface {
	Register(id uuid.UUID, identity domain.Identity, conn Conn) error
	Deregister(id uuid.UUID)
	Snapshot() []Entry
	Len() int
}

// TokenVerifier gates connection admission. Implementations must be safe to
// call concurrently from many sessions.
type TokenVerifier interface {
	Verify(credential string) (domain.Identity, error)
}

// Relay is the surface a connection session drives: admission with backlog
// replay, serialized message submission, and teardown.
type Relay interface {
	Attach(ctx context.Context, id uuid.UUID, identity domain.Identity, conn Conn) ([]domain.ChatMessage, error)
	Submit(ctx context.Context, identity domain.Identity, rawContent string) error
	Detach(id uuid.UUID)
}
