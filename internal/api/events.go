package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event types pushed to dashboard clients
const (
	EventMovementRecorded = "movement.recorded"
	EventWasteLogged      = "waste.logged"
	EventAuditFinalized   = "audit.finalized"
	EventRecipeSaved      = "recipe.saved"
	EventCatalogChanged   = "catalog.changed"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 4 * 1024
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Event is a change notification sent to every connected client
type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data"`
	Time time.Time `json:"time"`
}

// EventHub fans out dashboard events to websocket clients
type EventHub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
	log     logrus.FieldLogger
}

// wsClient maintains one websocket connection
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	hub  *EventHub
}

// NewEventHub creates a hub with no clients
func NewEventHub(log logrus.FieldLogger) *EventHub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &EventHub{
		clients: make(map[*wsClient]struct{}),
		log:     log,
	}
}

// Clients returns the number of connected clients
func (h *EventHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish sends an event to every client. Slow clients drop the event.
func (h *EventHub) Publish(eventType string, data any) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data, Time: time.Now()})
	if err != nil {
		h.log.WithError(err).WithField("event", eventType).Error("failed to encode event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.log.WithField("event", eventType).Warn("client send buffer full, dropping event")
		}
	}
}

// Close disconnects every client
func (h *EventHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// ServeWS upgrades the request and registers the connection
func (h *EventHub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("failed to upgrade connection")
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	h.log.WithField("remote", conn.RemoteAddr().String()).Debug("websocket client connected")

	go client.writePump()
	go client.readPump()
}

func (h *EventHub) unregister(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump drains client messages so control frames are processed
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).Warn("websocket read error")
			}
			return
		}
	}
}

// writePump pumps events from the hub to the websocket connection
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
