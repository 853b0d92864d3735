package sim

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/spheroedu/bridge/pkg/streaming"
)

const writeWait = 10 * time.Second

// Server exposes a Simulator to websocket clients. It consumes the
// simulator's event stream and broadcasts every event to all connected clients.
type Server struct {
	sim      *Simulator
	secret   string
	upgrader ws.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[*serverConn]struct{}
	done    chan struct{}
}

type serverConn struct {
	conn   *ws.Conn
	sendMu sync.Mutex
}

func (c *serverConn) write(data []byte) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(ws.TextMessage, data)
}

// NewServer wraps sim. An empty secret accepts every client.
func NewServer(sim *Simulator, secret string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		sim:      sim,
		secret:   secret,
		upgrader: ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		logger:   logger,
		clients:  make(map[*serverConn]struct{}),
		done:     make(chan struct{}),
	}
	go s.broadcastEvents()
	return s
}

// ServeHTTP upgrades the request, sends the hello message and serves commands
// until the client disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.secret != "" && subtle.ConstantTimeCompare([]byte(r.URL.Query().Get("secret")), []byte(s.secret)) != 1 {
		http.Error(w, "invalid secret", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &serverConn{conn: conn}

	hello, _ := s.sim.Hello(r.Context())
	data, err := streaming.Marshal(streaming.TypeHello, 0, hello)
	if err == nil {
		err = c.write(data)
	}
	if err != nil {
		s.logger.Warn("sending hello failed", "error", err)
		_ = conn.Close()
		return
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.logger.Info("client connected", "remote", r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		_ = conn.Close()
		s.logger.Info("client disconnected", "remote", r.RemoteAddr)
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var env streaming.Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			s.logger.Debug("malformed message", "raw", string(message))
			continue
		}
		if env.Type != streaming.TypeCommand {
			continue
		}
		var cmd streaming.CommandPayload
		if err := json.Unmarshal(env.Payload, &cmd); err != nil {
			s.logger.Debug("malformed command", "id", env.ID, "error", err)
			continue
		}

		// Timed commands must not hold up the read loop; stopRoll supersedes roll.
		go func(id uint64, cmd streaming.CommandPayload) {
			res := s.sim.Execute(cmd.Name, cmd.Args)
			data, err := streaming.Marshal(streaming.TypeResult, id, res)
			if err != nil {
				s.logger.Error("encoding result failed", "command", cmd.Name, "error", err)
				return
			}
			if err := c.write(data); err != nil {
				s.logger.Warn("writing result failed", "command", cmd.Name, "error", err)
			}
		}(env.ID, cmd)
	}
}

func (s *Server) broadcastEvents() {
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.sim.Events():
			if !ok {
				return
			}
			data, err := streaming.Marshal(streaming.TypeEvent, 0, ev)
			if err != nil {
				s.logger.Error("encoding event failed", "event", ev.Event.String(), "error", err)
				continue
			}
			s.mu.Lock()
			clients := make([]*serverConn, 0, len(s.clients))
			for c := range s.clients {
				clients = append(clients, c)
			}
			s.mu.Unlock()
			for _, c := range clients {
				if err := c.write(data); err != nil {
					s.logger.Warn("writing event failed", "error", err)
				}
			}
		}
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// DisconnectAll closes every client connection. Clients may connect again.
func (s *Server) DisconnectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		_ = c.conn.WriteControl(ws.CloseMessage,
			ws.FormatCloseMessage(ws.CloseGoingAway, ""), time.Now().Add(writeWait))
		_ = c.conn.Close()
		delete(s.clients, c)
	}
}

// Close disconnects every client and stops event broadcasting. The simulator
// itself stays open.
func (s *Server) Close() error {
	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		return nil
	default:
	}
	close(s.done)
	s.mu.Unlock()

	s.DisconnectAll()
	return nil
}
