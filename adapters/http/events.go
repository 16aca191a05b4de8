package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/artpar/wizide/adapters/metrics"
	"github.com/artpar/wizide/adapters/notify"
	"github.com/artpar/wizide/core/session"
	"github.com/artpar/wizide/ports"
)

const (
	writeDeadline = 5 * time.Second
	pingInterval  = 30 * time.Second
	pongDeadline  = 60 * time.Second

	// DefaultEventBuffer is the per-client queue length when none is set.
	DefaultEventBuffer = 64
)

// Event types sent on the stream.
const (
	EventOpened    = "opened"
	EventClosed    = "closed"
	EventActivated = "activated"
	EventChanged   = "changed"
	EventPreview   = "preview"
	EventNotice    = "notice"
)

// StreamEvent is one message on the event stream.
type StreamEvent struct {
	Type   string         `json:"type" example:"opened"`
	Editor *EditorRef     `json:"editor,omitempty"`
	URI    string         `json:"uri,omitempty"`
	Notice *notify.Notice `json:"notice,omitempty"`
	At     time.Time      `json:"at"`
}

// EditorRef identifies an editor in stream events.
type EditorRef struct {
	ID          string `json:"id"`
	ComponentID string `json:"component_id"`
	Path        string `json:"path"`
	Title       string `json:"title"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HubConfig configures a Hub.
type HubConfig struct {
	Logger  zerolog.Logger
	Clock   clockwork.Clock
	Metrics *metrics.Collector
	// Buffer is the per-client queue length. Events for a client whose
	// queue is full are dropped.
	Buffer int
}

// Hub fans session activity out to websocket clients. It observes the
// session manager, acts as the preview collaborator and forwards
// notifications.
type Hub struct {
	logger  zerolog.Logger
	clock   clockwork.Clock
	metrics *metrics.Collector
	buffer  int

	mu      sync.Mutex
	clients map[string]*client
	closed  bool
}

// NewHub creates a hub with no clients.
func NewHub(cfg HubConfig) *Hub {
	h := &Hub{
		logger:  cfg.Logger.With().Str("component", "events").Logger(),
		clock:   cfg.Clock,
		metrics: cfg.Metrics,
		buffer:  cfg.Buffer,
		clients: make(map[string]*client),
	}
	if h.clock == nil {
		h.clock = clockwork.NewRealClock()
	}
	if h.buffer <= 0 {
		h.buffer = DefaultEventBuffer
	}
	return h
}

// ServeHTTP upgrades the request and streams events until the client
// disconnects.
//
//	@Summary		Session event stream
//	@Description	Websocket stream of editor lifecycle, preview and notification events
//	@Tags			Events
//	@Success		101	{object}	StreamEvent	"Switching protocols"
//	@Failure		401	{object}	ErrorResponseBody
//	@Security		BearerAuth
//	@Router			/api/events [get]
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := h.register(conn)
	if c == nil {
		_ = conn.Close()
		return
	}

	// read pump, blocks until the connection closes
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(c)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues ev for every client.
func (h *Hub) Broadcast(ev StreamEvent) {
	if ev.At.IsZero() {
		ev.At = h.clock.Now()
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error().Err(err).Str("type", ev.Type).Msg("encode event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			if h.metrics != nil {
				h.metrics.StreamDropped.Inc()
			}
			h.logger.Warn().Str("client", c.id).Str("type", ev.Type).Msg("client queue full, event dropped")
		}
	}
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for id, c := range h.clients {
		clients = append(clients, c)
		delete(h.clients, id)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.stopGraceful("server shutting down")
		if h.metrics != nil {
			h.metrics.StreamClients.Dec()
		}
	}
}

func (h *Hub) register(conn *websocket.Conn) *client {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}

	c := newClient(uuid.NewString(), conn, h.clock, h.buffer)
	h.clients[c.id] = c
	if h.metrics != nil {
		h.metrics.StreamClients.Inc()
	}
	h.logger.Debug().Str("client", c.id).Msg("client connected")
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()

	if !ok {
		return
	}
	c.stop()
	if h.metrics != nil {
		h.metrics.StreamClients.Dec()
	}
	h.logger.Debug().Str("client", c.id).Msg("client disconnected")
}

func (h *Hub) editorEvent(kind string, e *session.Editor) {
	h.Broadcast(StreamEvent{
		Type: kind,
		Editor: &EditorRef{
			ID:          e.ID(),
			ComponentID: e.ComponentID(),
			Path:        e.Path(),
			Title:       e.Title(),
		},
	})
}

// EditorOpened implements session.Observer.
func (h *Hub) EditorOpened(e *session.Editor) { h.editorEvent(EventOpened, e) }

// EditorClosed implements session.Observer.
func (h *Hub) EditorClosed(e *session.Editor) { h.editorEvent(EventClosed, e) }

// EditorActivated implements session.Observer.
func (h *Hub) EditorActivated(e *session.Editor) { h.editorEvent(EventActivated, e) }

// EditorChanged implements session.Observer.
func (h *Hub) EditorChanged(e *session.Editor) { h.editorEvent(EventChanged, e) }

// BindingInvoked implements session.Observer.
func (h *Hub) BindingInvoked(session.Event, time.Duration, error) {}

// Move implements ports.Previewer by telling clients to navigate their
// preview to uri.
func (h *Hub) Move(ctx context.Context, uri string) error {
	h.Broadcast(StreamEvent{Type: EventPreview, URI: uri})
	return nil
}

// Notice forwards a notification. It has the notify.Listener shape.
func (h *Hub) Notice(n notify.Notice) {
	h.Broadcast(StreamEvent{Type: EventNotice, Notice: &n})
}

var (
	_ session.Observer = (*Hub)(nil)
	_ ports.Previewer  = (*Hub)(nil)
)

// client owns one websocket connection. Only run writes to the
// connection until it exits.
type client struct {
	id       string
	conn     *websocket.Conn
	clock    clockwork.Clock
	send     chan []byte
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func newClient(id string, conn *websocket.Conn, clock clockwork.Clock, buffer int) *client {
	c := &client{
		id:    id,
		conn:  conn,
		clock: clock,
		send:  make(chan []byte, buffer),
		done:  make(chan struct{}),
	}
	c.updateReadDeadline()
	conn.SetPongHandler(func(string) error {
		c.updateReadDeadline()
		return nil
	})
	c.wg.Add(1)
	go c.run()
	return c
}

func (c *client) run() {
	ticker := c.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer c.wg.Done()

	for {
		select {
		case msg := <-c.send:
			c.updateWriteDeadline()
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.Chan():
			c.updateWriteDeadline()
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *client) stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
	c.wg.Wait()
}

// stopGraceful sends a close frame with reason before closing.
func (c *client) stopGraceful(reason string) {
	c.stopOnce.Do(func() {
		close(c.done)
		// run must exit before the close frame is written
		c.wg.Wait()

		c.updateWriteDeadline()
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
		_ = c.conn.Close()
	})
}

func (c *client) updateWriteDeadline() {
	_ = c.conn.SetWriteDeadline(c.clock.Now().Add(writeDeadline))
}

func (c *client) updateReadDeadline() {
	_ = c.conn.SetReadDeadline(c.clock.Now().Add(pongDeadline))
}
