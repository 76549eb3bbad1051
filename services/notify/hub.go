// Package notify fans visitor notifications out to their open pages.
package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"streamhub/models"
)

const sendBuffer = 16

// Hub keeps the connected clients of each visitor namespace.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*Client]struct{}
	logger  *zap.Logger
	now     func() time.Time
}

// Client is one subscription. Messages are JSON encoded notifications.
type Client struct {
	namespace string
	send      chan []byte
}

// Messages returns the channel notifications are delivered on. It is closed on unsubscribe.
func (c *Client) Messages() <-chan []byte {
	return c.send
}

// NewHub returns an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		logger:  logger,
		now:     time.Now,
	}
}

// Subscribe registers a client for namespace.
func (h *Hub) Subscribe(namespace string) *Client {
	c := &Client{namespace: namespace, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[namespace]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[namespace] = set
	}
	set[c] = struct{}{}
	return c
}

// Unsubscribe removes c and closes its channel. It is safe to call twice.
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	set, ok := h.clients[c.namespace]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.namespace)
	}
}

// Count returns the number of clients subscribed to namespace.
func (h *Hub) Count(namespace string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[namespace])
}

// Stats returns the number of namespaces with at least one client and the total client count.
func (h *Hub) Stats() (namespaces, clients int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		clients += len(set)
	}
	return len(h.clients), clients
}

// Notify builds a notification and publishes it to namespace.
func (h *Hub) Notify(namespace, message string, kind models.NotificationKind) models.Notification {
	n := models.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		CreatedAt: h.now().UTC(),
	}
	h.Publish(namespace, n)
	return n
}

// Publish delivers n to every client of namespace. Clients whose buffer is
// full are dropped instead of blocking the publisher.
func (h *Hub) Publish(namespace string, n models.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("marshal notification", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[namespace] {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("notification buffer full, dropping client", zap.String("namespace", namespace))
			h.removeLocked(c)
		}
	}
}
