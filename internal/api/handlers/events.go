package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/finhealth/internal/queue"
	"github.com/wonny/finhealth/pkg/logger"
	"github.com/wonny/finhealth/pkg/redis"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventHub pushes queue events to connected websocket clients
// ⭐ SSOT: 웹소켓 브로드캐스트는 여기서만
type EventHub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
	logger  *logger.Logger
}

// NewEventHub creates an empty hub
func NewEventHub(log *logger.Logger) *EventHub {
	return &EventHub{
		clients: make(map[*websocket.Conn]*sync.Mutex),
		logger:  log,
	}
}

// ServeWS upgrades the connection and keeps it until the client leaves.
// Clients may filter by business with ?business_id=.
// GET /ws/events
func (h *EventHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to upgrade websocket connection")
		return
	}

	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.WithField("clients", count).Debug("Websocket client connected")

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		count := len(h.clients)
		h.mu.Unlock()
		conn.Close()
		h.logger.WithField("clients", count).Debug("Websocket client disconnected")
	}()

	// Drain client frames so close and ping are handled
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).Warn("Websocket read error")
			}
			return
		}
	}
}

// Clients returns the number of connected clients
func (h *EventHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish broadcasts an event to every client; it implements queue.Publisher
func (h *EventHub) Publish(_ context.Context, e queue.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	h.broadcast(data)
	return nil
}

func (h *EventHub) broadcast(data []byte) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	locks := make([]*sync.Mutex, 0, len(h.clients))
	for conn, mu := range h.clients {
		conns = append(conns, conn)
		locks = append(locks, mu)
	}
	h.mu.RUnlock()

	for i, conn := range conns {
		locks[i].Lock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := conn.WriteMessage(websocket.TextMessage, data)
		locks[i].Unlock()
		if err != nil {
			h.logger.WithError(err).Warn("Failed to send event to client")
		}
	}
}

// Relay forwards events published by worker processes over Redis
// until ctx is done
func (h *EventHub) Relay(ctx context.Context, client *redis.Client) error {
	return client.Subscribe(ctx, queue.EventsChannel, func(payload []byte) {
		var e queue.Event
		if err := json.Unmarshal(payload, &e); err != nil {
			h.logger.WithError(err).Warn("Dropping malformed event")
			return
		}
		h.broadcast(payload)
	})
}
