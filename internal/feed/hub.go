package feed

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gw2watch/spider/internal/model"
)

const (
	// writeWait is the deadline for a single WebSocket write.
	writeWait = 10 * time.Second

	// outboxCapacity is the initial per-subscriber backlog capacity.
	outboxCapacity = 64
)

// ItemUpdate is the wire format pushed to feed subscribers after each
// completed poll cycle.
type ItemUpdate struct {
	ItemID        int       `json:"item_id"`
	MinSalePrice  int       `json:"min_sale_price"`
	MaxOfferPrice int       `json:"max_offer_price"`
	SaleTrend     float64   `json:"sale_trend"`
	OfferTrend    float64   `json:"offer_trend"`
	PolledAt      time.Time `json:"polled_at"`
}

// Hub fans out item updates to WebSocket subscribers. Each subscriber gets
// its own outbox, so one slow peer cannot stall the dispatcher or the other
// subscribers.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	// Stats
	published atomic.Int64
}

// NewHub creates a Hub. logger may be nil.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request to a WebSocket and registers the peer as a
// feed subscriber until it disconnects or the hub closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := &client{
		conn:   conn,
		outbox: NewOutbox[ItemUpdate](outboxCapacity),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("feed subscriber connected", "remote", r.RemoteAddr)

	go c.readPump(h)
	c.writePump(h)
}

// PublishItem queues an update for every connected subscriber.
func (h *Hub) PublishItem(item *model.Item, at time.Time) {
	update := ItemUpdate{
		ItemID:        item.ID,
		MinSalePrice:  item.MinSalePrice,
		MaxOfferPrice: item.MaxOfferPrice,
		SaleTrend:     item.SaleTrend,
		OfferTrend:    item.OfferTrend,
		PolledAt:      at,
	}

	h.mu.Lock()
	for c := range h.clients {
		c.outbox.Send(update)
	}
	h.mu.Unlock()

	h.published.Add(1)
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Published returns the number of updates published so far.
func (h *Hub) Published() int64 {
	return h.published.Load()
}

// Close disconnects all subscribers and rejects new connections.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.outbox.Close()
	}
}

// remove unregisters a subscriber. Safe to call more than once.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// client is one connected feed subscriber.
type client struct {
	conn   *websocket.Conn
	outbox *Outbox[ItemUpdate]
}

// writePump drains the outbox onto the connection. Runs until the outbox is
// closed or a write fails.
func (c *client) writePump(h *Hub) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	for {
		update, ok := c.outbox.Receive()
		if !ok {
			// Hub closed; tell the peer before dropping the connection.
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return
		}

		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(update); err != nil {
			h.logger.Debug("feed subscriber write failed", "err", err)
			return
		}
	}
}

// readPump discards inbound frames. The feed is one-way; reading is only
// needed to notice the peer going away.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.remove(c)
		c.outbox.Close()
	}()

	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
