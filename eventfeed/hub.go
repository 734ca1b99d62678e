package eventfeed

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

// Message is the JSON frame pushed to feed subscribers.
type Message struct {
	Type        types.EventType    `json:"type"`
	Transfer    types.Transfer     `json:"transfer"`
	Transaction *types.Transaction `json:"transaction,omitempty"`
	Error       string             `json:"error,omitempty"`
	At          time.Time          `json:"at"`
}

// NewMessage converts an engine event into a feed frame.
func NewMessage(event types.Event) Message {
	msg := Message{
		Type:        event.Type,
		Transfer:    event.Transfer,
		Transaction: event.Transaction,
		At:          event.At,
	}
	if event.Err != nil {
		msg.Error = event.Err.Error()
	}
	return msg
}

// Hub fans transfer events out to websocket subscribers.
// Subscribers may narrow the feed with ?chain=<id>, matching either end of the route.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *logrus.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates an empty hub.
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and registers the connection as a subscriber.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Debug("websocket upgrade failed")
		return
	}

	c := &client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		chain: types.ChainID(strings.ToLower(r.URL.Query().Get("chain"))),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()
	go c.readPump()
}

// Handle broadcasts the event to every matching subscriber. Slow subscribers
// whose buffers are full are dropped. It is registered as an engine event listener.
func (h *Hub) Handle(event types.Event) {
	data, err := json.Marshal(NewMessage(event))
	if err != nil {
		h.logger.WithError(err).Error("failed to encode feed message")
		return
	}

	h.mu.RLock()
	var slow []*client
	for c := range h.clients {
		if !c.matches(&event.Transfer) {
			continue
		}
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.WithField("remote", c.conn.RemoteAddr().String()).Warn("feed subscriber too slow, disconnecting")
		h.remove(c)
	}
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects all subscribers and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.remove(c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()
}

type client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	chain types.ChainID
}

func (c *client) matches(t *types.Transfer) bool {
	return c.chain == "" || t.SourceChainID == c.chain || t.TargetChainID == c.chain
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.logger.WithError(err).Debug("feed write failed")
				c.hub.remove(c)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.remove(c)
				return
			}
		}
	}
}

// readPump discards inbound frames and detects disconnects.
func (c *client) readPump() {
	defer c.hub.remove(c)

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.WithError(err).Debug("feed subscriber closed unexpectedly")
			}
			return
		}
	}
}
