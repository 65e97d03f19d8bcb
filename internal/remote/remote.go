// Package remote serves a browser control page whose key and mode inputs
// are forwarded to the viewer over a websocket.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/taigrr/teapot/pkg/camera"
	"github.com/taigrr/teapot/pkg/render"
)

// EventKind distinguishes remote inputs.
type EventKind int

const (
	KeyEvent EventKind = iota
	ModeEvent
	ResetEvent
)

// Event is one input received from a remote client.
type Event struct {
	Kind    EventKind
	Dir     camera.Direction
	Pressed bool
	Mode    render.EffectMode
}

// Message is the JSON wire format in both directions.
type Message struct {
	Type    string  `json:"type"`
	Key     string  `json:"key,omitempty"`
	Pressed bool    `json:"pressed,omitempty"`
	Mode    string  `json:"mode,omitempty"`
	Error   string  `json:"error,omitempty"`
	Mesh    string  `json:"mesh,omitempty"`
	Yaw     float64 `json:"yaw,omitempty"`
	Pitch   float64 `json:"pitch,omitempty"`
	Faces   int     `json:"faces,omitempty"`
}

// Status is the viewer state pushed to connected clients.
type Status struct {
	Mode  render.EffectMode
	Mesh  string
	Yaw   float64
	Pitch float64
	Faces int
}

// Server bridges websocket clients to an event channel.
type Server struct {
	log      *zap.Logger
	upgrader websocket.Upgrader
	events   chan Event
	done     chan struct{}
	once     sync.Once

	mu      sync.Mutex
	clients map[*websocket.Conn]*client
	last    []byte
}

// client is one connected socket. mu serializes writes; status holds at
// most the newest status not yet written.
type client struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	status chan []byte
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, status: make(chan []byte, 1)}
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(time.Second))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// offer replaces any unwritten status with data. Callers hold Server.mu,
// so the send below always finds room.
func (c *client) offer(data []byte) {
	select {
	case <-c.status:
	default:
	}
	c.status <- data
}

// NewServer creates a server whose events are buffered up to buffer.
func NewServer(log *zap.Logger, buffer int) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		events:  make(chan Event, buffer),
		done:    make(chan struct{}),
		clients: make(map[*websocket.Conn]*client),
	}
}

// Events delivers inputs in arrival order.
func (s *Server) Events() <-chan Event {
	return s.events
}

// Handler returns the HTTP routes: the control page at / and the socket at
// /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveHome)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("remote: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	s.log.Info("remote control listening", zap.String("addr", ln.Addr().String()))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.Close()
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("remote: %w", err)
	}
	return nil
}

// Close disconnects every client. Pending sends are abandoned.
func (s *Server) Close() {
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		for c := range s.clients {
			c.Close()
		}
		s.mu.Unlock()
	})
}

// Broadcast queues st for every client without waiting on the network.
// A client that falls behind only gets the newest status; one whose write
// fails is disconnected. New clients receive the latest status on connect.
func (s *Server) Broadcast(st Status) {
	data, err := json.Marshal(Message{
		Type:  "status",
		Mode:  st.Mode.String(),
		Mesh:  st.Mesh,
		Yaw:   st.Yaw,
		Pitch: st.Pitch,
		Faces: st.Faces,
	})
	if err != nil {
		s.log.Error("marshal status", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = data
	for _, c := range s.clients {
		c.offer(data)
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// pushStatus writes queued statuses to c until quit is closed.
func (s *Server) pushStatus(c *client, quit <-chan struct{}) {
	for {
		select {
		case data := <-c.status:
			if err := c.write(data); err != nil {
				s.log.Debug("remote write failed", zap.Error(err))
				c.conn.Close()
				return
			}
		case <-quit:
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := newClient(conn)

	s.mu.Lock()
	s.clients[conn] = c
	if s.last != nil {
		c.offer(s.last)
	}
	s.mu.Unlock()
	s.log.Info("remote client connected", zap.String("addr", r.RemoteAddr))

	quit := make(chan struct{})
	go s.pushStatus(c, quit)

	// Keys still held when a client drops are released so the viewer does
	// not see a stuck key.
	var held [4]bool
	defer func() {
		close(quit)
		for d, down := range held {
			if down {
				s.send(Event{Kind: KeyEvent, Dir: camera.Direction(d)})
			}
		}
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
		s.log.Info("remote client disconnected", zap.String("addr", r.RemoteAddr))
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		ev, err := Decode(data)
		if err != nil {
			s.log.Debug("bad remote message", zap.ByteString("data", data), zap.Error(err))
			reply, _ := json.Marshal(Message{Type: "error", Error: err.Error()})
			if c.write(reply) != nil {
				return
			}
			continue
		}
		if ev.Kind == KeyEvent && int(ev.Dir) < len(held) {
			held[ev.Dir] = ev.Pressed
		}
		if !s.send(ev) {
			return
		}
	}
}

func (s *Server) send(ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

// Decode parses one client message.
func Decode(data []byte) (Event, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Event{}, fmt.Errorf("malformed message: %w", err)
	}
	switch m.Type {
	case "key":
		d, ok := camera.ParseDirection(m.Key)
		if !ok {
			return Event{}, fmt.Errorf("unknown key %q", m.Key)
		}
		return Event{Kind: KeyEvent, Dir: d, Pressed: m.Pressed}, nil
	case "mode":
		mode, err := render.ParseEffectMode(m.Mode)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: ModeEvent, Mode: mode}, nil
	case "reset":
		return Event{Kind: ResetEvent}, nil
	default:
		return Event{}, fmt.Errorf("unknown message type %q", m.Type)
	}
}

func (s *Server) serveHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(homePage))
}
