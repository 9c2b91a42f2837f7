package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// MessageTypeState is the only message type the relay forwards.
const MessageTypeState = "state"

// envelope is the part of a message the relay inspects.
type envelope struct {
	Type string `json:"type"`
}

// Hub keeps the set of open connections and the last state message.
// A single goroutine (Run) owns the connection set.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	inbound    chan []byte
	done       chan struct{}

	mu        sync.RWMutex
	lastState []byte
	count     int

	metrics *Metrics
	logger  *slog.Logger
}

// NewHub creates a hub. Run must be called for it to do anything.
func NewHub(metrics *Metrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics("relmap")
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client, 100),
		unregister: make(chan *Client, 100),
		inbound:    make(chan []byte, 256),
		done:       make(chan struct{}),
		metrics:    metrics,
		logger:     logger,
	}
}

// Run is the hub's event loop. It returns when ctx is canceled, after
// closing every connection.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("hub shutting down", "clients", len(h.clients))
			for c := range h.clients {
				h.remove(c)
			}
			return nil

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.setCount(len(h.clients))
			h.logger.Info("client connected", "conn_id", c.id, "remote", c.remote, "clients", len(h.clients))
			if state := h.LastState(); state != nil {
				h.deliver(c, state)
			}

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.remove(c)
				h.logger.Info("client disconnected", "conn_id", c.id, "clients", len(h.clients))
			}

		case msg := <-h.inbound:
			h.mu.Lock()
			h.lastState = msg
			h.mu.Unlock()
			h.metrics.MessagesRelayed.Inc()
			for c := range h.clients {
				h.deliver(c, msg)
			}
		}
	}
}

// deliver queues msg for c, dropping the client if its buffer is full.
func (h *Hub) deliver(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.metrics.MessagesDropped.Inc()
		h.logger.Warn("client too slow, disconnecting", "conn_id", c.id)
		h.remove(c)
	}
}

func (h *Hub) remove(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.setCount(len(h.clients))
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
	h.metrics.ConnectedClients.Set(float64(n))
}

// Receive handles a message read from a client. Valid state messages are
// stored and rebroadcast to every client, the sender included; anything else
// is ignored.
func (h *Hub) Receive(msg []byte) bool {
	var env envelope
	if err := json.Unmarshal(msg, &env); err != nil || env.Type != MessageTypeState {
		h.metrics.MessagesIgnored.Inc()
		h.logger.Debug("ignoring message", "type", env.Type, "bytes", len(msg))
		return false
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, msg); err != nil {
		h.metrics.MessagesIgnored.Inc()
		return false
	}

	select {
	case h.inbound <- buf.Bytes():
		return true
	case <-h.done:
		return false
	}
}

// LastState returns the most recent state message, or nil.
func (h *Hub) LastState() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastState
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
