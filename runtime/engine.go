package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"chat-relay/contract"
	"chat-relay/domain"
	apperrors "chat-relay/errors"
	"chat-relay/observability"
	"chat-relay/repositories"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type submitCmd struct {
	identity domain.Identity
	content  string
	reply    chan error
}

type attachCmd struct {
	id       uuid.UUID
	identity domain.Identity
	conn     contract.Conn
	reply    chan attachResult
}

type attachResult struct {
	backlog []domain.ChatMessage
	err     error
}

// Engine serializes the persist-then-broadcast pair for every message.
// A single supervised goroutine drains the command channel, which is the one
// serialization point: all observers see new messages in a global order
// matching persistence order, and a joining connection can neither miss nor
// double-receive a live message relative to its backlog.
type Engine struct {
	log      *slog.Logger
	registry contract.IRegistry
	messages repositories.IMessageRepository
	monitor  *observability.Monitor
	commands chan any
}

func NewEngine(log *slog.Logger, registry contract.IRegistry,
	messages repositories.IMessageRepository, monitor *observability.Monitor,
	bufferSize int) *Engine {
	return &Engine{
		log:      log,
		registry: registry,
		messages: messages,
		monitor:  monitor,
		commands: make(chan any, bufferSize),
	}
}

// Run drains the command channel until the context is canceled.
// It implements contract.Worker and runs under the supervisor.
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			e.log.Debug("Context done, stopping broadcast engine")
			return nil
		case cmd := <-e.commands:
			switch c := cmd.(type) {
			case submitCmd:
				c.reply <- e.handleSubmit(c)
			case attachCmd:
				c.reply <- e.handleAttach(c)
			}
		}
	}
}

// Submit validates, persists and broadcasts one message. It blocks until the
// engine has fully processed the submission, so each session's inbound frames
// are handled strictly in order. An error concerns the submitting session
// only; delivery failures to other connections never surface here.
func (e *Engine) Submit(ctx context.Context, identity domain.Identity, rawContent string) error {
	reply := make(chan error, 1)
	select {
	case e.commands <- submitCmd{identity: identity, content: rawContent, reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Attach registers a connection and returns the backlog it must replay.
// Backlog fetch and registration happen inside the serialized loop, so no
// broadcast can slip between them. On ErrBacklogUnavailable the connection IS
// registered: history delivery is best-effort and the session degrades to
// live-only.
func (e *Engine) Attach(ctx context.Context, id uuid.UUID, identity domain.Identity,
	conn contract.Conn) ([]domain.ChatMessage, error) {
	reply := make(chan attachResult, 1)
	select {
	case e.commands <- attachCmd{id: id, identity: identity, conn: conn, reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.backlog, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Detach removes a connection from the registry. Safe to call more than once.
func (e *Engine) Detach(id uuid.UUID) {
	e.registry.Deregister(id)
}

func (e *Engine) handleSubmit(c submitCmd) error {
	content := strings.TrimSpace(c.content)
	if content == "" {
		// Client no-op, not an error.
		e.monitor.MessageDropped()
		return nil
	}

	stored, err := e.messages.CreateMessage(c.identity.UserID, c.identity.Username, content)
	if err != nil {
		e.log.Error("Message persistence failed, nothing broadcast",
			"user", c.identity.Username, "error", err)
		return fmt.Errorf("%w: %v", apperrors.ErrPersistFailure, err)
	}

	e.broadcast(toChatMessage(stored))
	return nil
}

// broadcast pushes one persisted message to every live connection, the author
// included. A failing destination is dropped from the registry and closed;
// it never aborts delivery to the remaining connections.
func (e *Engine) broadcast(msg domain.ChatMessage) {
	for _, entry := range e.registry.Snapshot() {
		if err := entry.Conn.Push(msg); err != nil {
			e.log.Warn("Dropping unreachable connection",
				"connection_id", entry.ID, "user", entry.Identity.Username, "error", err)
			e.registry.Deregister(entry.ID)
			_ = entry.Conn.Close()
			e.monitor.DeliveryFailure()
		}
	}
	e.monitor.MessageBroadcast()
}

func (e *Engine) handleAttach(c attachCmd) attachResult {
	disk, backlogErr := e.messages.ListMessages()

	if err := e.registry.Register(c.id, c.identity, c.conn); err != nil {
		e.log.Error("Connection registration rejected", "connection_id", c.id, "error", err)
		return attachResult{err: err}
	}
	e.monitor.ConnectionOpened()

	if backlogErr != nil {
		return attachResult{err: fmt.Errorf("%w: %v", apperrors.ErrBacklogUnavailable, backlogErr)}
	}
	return attachResult{backlog: fromDiskMessages(disk)}
}

func fromDiskMessages(messages []repositories.DiskMessage) []domain.ChatMessage {
	return lo.Map(messages, func(item repositories.DiskMessage, _ int) domain.ChatMessage {
		return toChatMessage(item)
	})
}

func toChatMessage(item repositories.DiskMessage) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        item.ID,
		AuthorID:  item.AuthorID,
		Author:    item.Author,
		Content:   item.Content,
		CreatedAt: item.At,
	}
}
