package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"CapTrades/internal/domain/models"
	"CapTrades/internal/usecase"
	xlogger "CapTrades/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	clientBacklog  = 8
	maxMessageSize = 512
)

// Hub broadcasts each recomputed analysis snapshot to connected WebSocket
// clients. Slow clients are disconnected rather than allowed to block the
// broadcast path.
type Hub struct {
	logger   *xlogger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte // most recent frame, replayed to new clients
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// streamFrame is the wire format pushed to WebSocket clients.
type streamFrame struct {
	Trades      []models.AnalyzedTrade `json:"trades"`
	Preferences models.Preferences     `json:"preferences"`
	GeneratedAt time.Time              `json:"generatedAt"`
}

// NewHub creates a broadcast hub.
func NewHub(logger *xlogger.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Listener adapts Broadcast to the analyzer's listener signature.
func (h *Hub) Listener() usecase.BatchListener {
	return func(ctx context.Context, batch []models.AnalyzedTrade, prefs models.Preferences) {
		h.Broadcast(batch, prefs)
	}
}

// Broadcast marshals the snapshot once and fans it out to every client.
func (h *Hub) Broadcast(batch []models.AnalyzedTrade, prefs models.Preferences) {
	frame, err := json.Marshal(streamFrame{
		Trades:      batch,
		Preferences: prefs,
		GeneratedAt: time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("marshaling stream frame", xlogger.Error(err))
		return
	}

	h.mu.Lock()
	h.last = frame
	for cl := range h.clients {
		select {
		case cl.send <- frame:
		default:
			// client cannot keep up
			delete(h.clients, cl)
			close(cl.send)
		}
	}
	h.mu.Unlock()
}

// Serve upgrades the request and streams snapshots until the client leaves.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{conn: conn, send: make(chan []byte, clientBacklog)}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	if h.last != nil {
		cl.send <- h.last
	}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("websocket client connected", xlogger.Int("clients", n))

	go h.writeLoop(cl)
	h.readLoop(cl)
	return nil
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		delete(h.clients, cl)
		close(cl.send)
	}
}

func (h *Hub) writeLoop(cl *client) {
	defer cl.conn.Close()
	for frame := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
	_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readLoop discards inbound frames; its job is detecting disconnects.
func (h *Hub) readLoop(cl *client) {
	cl.conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("websocket client disconnected", xlogger.Int("clients", n))
}
