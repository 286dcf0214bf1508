package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"chat-relay/contract"
	"chat-relay/domain"
	apperrors "chat-relay/errors"
	"chat-relay/observability"

	"github.com/google/uuid"
)

// State is the lifecycle of one connection, from transport handshake to
// teardown. Closed is terminal.
type State int

const (
	StateConnecting State = iota
	StateAuthenticating
	StateReplaying
	StateActive
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateReplaying:
		return "replaying"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session drives one connection: admission, backlog replay, receive loop,
// teardown. It owns no shared state; everything cross-connection goes through
// the relay.
type Session struct {
	id         uuid.UUID
	log        *slog.Logger
	verifier   contract.TokenVerifier
	relay      contract.Relay
	monitor    *observability.Monitor
	conn       *wsConn
	identity   domain.Identity
	state      State
	registered bool
}

func newSession(log *slog.Logger, verifier contract.TokenVerifier, relay contract.Relay,
	monitor *observability.Monitor, conn *wsConn) *Session {
	id := uuid.New()
	return &Session{
		id:       id,
		log:      log.With("connection_id", id),
		verifier: verifier,
		relay:    relay,
		monitor:  monitor,
		conn:     conn,
		state:    StateConnecting,
	}
}

// run executes the whole lifecycle on the caller's goroutine and returns when
// the connection is closed. The credential was extracted from the connection
// request; verification failure closes the transport before anything is
// registered or sent.
func (s *Session) run(ctx context.Context, credential string) {
	defer s.teardown()

	s.transition(StateAuthenticating)
	identity, err := s.verifier.Verify(credential)
	if err != nil {
		s.log.Warn("Rejecting connection", "error", err)
		return
	}
	s.identity = identity
	s.log = s.log.With("user", identity.Username)

	s.transition(StateReplaying)
	backlog, err := s.relay.Attach(ctx, s.id, identity, s.conn)
	if err != nil && !errors.Is(err, apperrors.ErrBacklogUnavailable) {
		s.log.Error("Admission failed", "error", err)
		return
	}
	s.registered = true
	if err != nil {
		// Admitted anyway: history is best-effort, live delivery continues.
		s.log.Warn("Backlog unavailable, continuing live-only", "error", err)
	}

	for _, msg := range backlog {
		if writeErr := s.conn.writeJSON(toOutboundFrame(msg)); writeErr != nil {
			s.log.Debug("Backlog replay interrupted", "error", writeErr)
			return
		}
	}

	// Live messages queued during replay are delivered only from here on,
	// so a client never sees a broadcast before the end of its backlog.
	go s.conn.writePump()

	s.transition(StateActive)
	s.readLoop(ctx)
}

// readLoop processes inbound frames one at a time, in arrival order, until
// the transport closes. Malformed frames and rejected submissions are
// acknowledged with an error frame; neither closes the connection.
func (s *Session) readLoop(ctx context.Context) {
	for {
		payload, err := s.conn.readFrame()
		if err != nil {
			s.log.Debug("Transport closed", "error", err)
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(payload, &frame); err != nil || frame.Content == nil {
			s.ackError("message frame must be a JSON object with a content field")
			continue
		}

		if err := s.relay.Submit(ctx, s.identity, *frame.Content); err != nil {
			s.log.Warn("Submission rejected", "error", err)
			s.ackError("message was not accepted, try again")
		}
	}
}

func (s *Session) ackError(reason string) {
	if err := s.conn.writeJSON(errorFrame{Error: reason}); err != nil {
		s.log.Debug("Failed to send error acknowledgment", "error", err)
	}
}

// teardown deregisters exactly once and releases the transport. Safe
// whatever state the session died in: deregistering an absent id is a no-op.
func (s *Session) teardown() {
	s.transition(StateClosing)
	if s.registered {
		s.relay.Detach(s.id)
		s.monitor.ConnectionClosed()
	}
	_ = s.conn.Close()
	s.transition(StateClosed)
}

func (s *Session) transition(next State) {
	s.state = next
	s.log.Debug("Session state", "state", next.String())
}
