package ws

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"chat-relay/contract"
	"chat-relay/observability"

	"github.com/gorilla/websocket"
)

// Server upgrades HTTP requests into relay sessions. One session per
// connection, run synchronously on the handler goroutine: the handler IS the
// connection's task and returns when the connection dies.
type Server struct {
	log                  *slog.Logger
	verifier             contract.TokenVerifier
	relay                contract.Relay
	monitor              *observability.Monitor
	upgrader             websocket.Upgrader
	connectionBufferSize int
	writeTimeout         time.Duration
	maxFrameBytes        int64
}

func NewServer(log *slog.Logger, verifier contract.TokenVerifier, relay contract.Relay,
	monitor *observability.Monitor, connectionBufferSize int,
	writeTimeout time.Duration, maxFrameBytes int64) *Server {
	return &Server{
		log:      log,
		verifier: verifier,
		relay:    relay,
		monitor:  monitor,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		connectionBufferSize: connectionBufferSize,
		writeTimeout:         writeTimeout,
		maxFrameBytes:        maxFrameBytes,
	}
}

// ServeHTTP accepts one connection upgrade. The credential is taken from the
// `token` query parameter, falling back to the Authorization header; its
// verification happens inside the session so a rejected credential closes the
// websocket, not the upgrade.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	credential := r.URL.Query().Get("token")
	if credential == "" {
		credential = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}

	sock, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	sock.SetReadLimit(s.maxFrameBytes)

	conn := newConn(s.log, sock, s.connectionBufferSize, s.writeTimeout)
	session := newSession(s.log, s.verifier, s.relay, s.monitor, conn)
	session.run(r.Context(), credential)
}
