package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/landing/internal/landing"
	"github.com/conneroisu/landing/internal/logging"
	"github.com/conneroisu/landing/internal/view"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peer with this period.
	pingPeriod = 30 * time.Second

	// The browser never sends data frames.
	maxMessageSize = 512

	sendBuffer = 32
)

const (
	MessageSection = "section"
	MessageReload  = "reload"
)

// UpdateMessage represents a message sent to the browser.
type UpdateMessage struct {
	Type      string    `json:"type"`
	Target    string    `json:"target,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Client is one live page connection.
type Client struct {
	conn   *websocket.Conn
	page   *landing.Page
	send   chan []byte
	logger logging.Logger

	// pushMu keeps render and enqueue of a section atomic so a stale render
	// never overtakes a newer one.
	pushMu sync.Mutex
	closed bool
}

func newClient(conn *websocket.Conn, page *landing.Page, logger logging.Logger) *Client {
	return &Client{
		conn:   conn,
		page:   page,
		send:   make(chan []byte, sendBuffer),
		logger: logger,
	}
}

// pushSection renders the named section as it is now and queues it.
func (c *Client) pushSection(ctx context.Context, name string) {
	c.pushMu.Lock()
	defer c.pushMu.Unlock()
	if c.closed {
		return
	}

	component, err := view.Section(name, c.page.Data())
	if err != nil {
		c.logger.Error(ctx, err, "Unknown section", "section", name)
		return
	}

	var content strings.Builder
	if err := component.Render(ctx, &content); err != nil {
		c.logger.Error(ctx, err, "Failed to render section", "section", name)
		return
	}

	c.enqueue(ctx, UpdateMessage{
		Type:      MessageSection,
		Target:    name,
		Content:   content.String(),
		Timestamp: time.Now().UTC(),
	})
}

func (c *Client) pushReload(ctx context.Context) {
	c.pushMu.Lock()
	defer c.pushMu.Unlock()
	if c.closed {
		return
	}
	c.enqueue(ctx, UpdateMessage{Type: MessageReload, Timestamp: time.Now().UTC()})
}

// enqueue must be called with pushMu held.
func (c *Client) enqueue(ctx context.Context, msg UpdateMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error(ctx, err, "Failed to encode live message", "type", msg.Type)
		return
	}

	select {
	case c.send <- data:
	default:
		c.logger.Warn(ctx, nil, "Live message dropped, client is not reading", "type", msg.Type, "target", msg.Target)
	}
}

func (c *Client) close() {
	c.pushMu.Lock()
	defer c.pushMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump drains the connection so control frames are handled. It returns
// when the peer goes away.
func (c *Client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMessageSize)

	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				c.logger.Debug(ctx, "WebSocket read ended", "error", err.Error())
			}
			return
		}
	}
}

// writePump writes queued messages and pings until the send channel closes
// or a write fails.
func (c *Client) writePump(ctx context.Context, cancel context.CancelFunc) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case message, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, writeCancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			writeCancel()
			if err != nil {
				c.logger.Debug(ctx, "WebSocket write failed", "error", err.Error())
				return
			}

		case <-ticker.C:
			pingCtx, pingCancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			pingCancel()
			if err != nil {
				return
			}
		}
	}
}

// hub tracks live clients for broadcasts and shutdown.
type hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*Client]struct{})}
}

func (h *hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *hub) unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) broadcastReload(ctx context.Context) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.pushReload(ctx)
	}
	return len(h.clients)
}

func (h *hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.close()
		c.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

// handleWebSocket attaches a browser to the page it was served. The current
// state of every section is replayed, then each transition is pushed.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	page, ok := s.sessions.claim(id)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	defer s.sessions.release(id)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.config.Server.AllowedOrigins,
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "WebSocket upgrade failed", "session", id)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	logger := s.logger.With("session", id)
	client := newClient(conn, page, logger)
	s.hub.register(client)
	defer s.hub.unregister(client)

	page.OnChange(func(name string) { client.pushSection(ctx, name) })
	for _, name := range view.SectionNames() {
		client.pushSection(ctx, name)
	}

	logger.Debug(ctx, "Live session attached", "clients", s.hub.count())

	go client.writePump(ctx, cancel)
	client.readPump(ctx)
}
