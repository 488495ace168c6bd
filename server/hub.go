package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer = 32
	writeWait  = 5 * time.Second
)

var upgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

// client is one websocket subscriber.
type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan resultBody
}

// hub fans results out to subscribers. A subscriber that falls behind by
// sendBuffer results is disconnected.
type hub struct {
	log     *slog.Logger
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

func newHub(log *slog.Logger) *hub {
	return &hub{log: log, clients: make(map[*client]struct{})}
}

func (h *hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

// remove closes c's queue once.
func (h *hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *hub) broadcast(b resultBody) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.log.Warn("server: dropping slow subscriber", slog.String("subscriber", c.id.String()))
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// results subscribes before upgrading so no result published after the
// handshake is missed.
func (s *Server) results(c *gin.Context) {
	cl := &client{id: uuid.New(), send: make(chan resultBody, sendBuffer)}
	if !s.hub.add(cl) {
		c.JSON(http.StatusServiceUnavailable, errorBody{Error: "shutting down"})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.hub.remove(cl)
		s.log.Debug("server: upgrade failed", slog.Any("err", err))
		return
	}
	cl.conn = conn
	s.log.Debug("server: subscriber joined", slog.String("subscriber", cl.id.String()))
	go cl.writer()
	go cl.reader(s.hub)
}

func (c *client) writer() {
	defer c.conn.Close()
	for b := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(b); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// reader discards client messages and unsubscribes on disconnect.
func (c *client) reader(h *hub) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
