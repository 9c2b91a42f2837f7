// Package client publishes analysis state to the WebSocket relay.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/raphaelgruber/relmap/internal/analysis"
	"github.com/raphaelgruber/relmap/internal/graph"
)

// DefaultURL is the relay address used when none is configured.
const DefaultURL = "ws://localhost:8081"

const writeWait = 10 * time.Second

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("publisher closed")

// State is the payload viewers render.
type State struct {
	Version   int                   `json:"version"`
	Session   string                `json:"session"`
	Counts    map[string]int        `json:"counts"`
	CloudData []analysis.CloudDatum `json:"cloudData"`
	Graph     *graph.Snapshot       `json:"graph,omitempty"`
}

// Message is the relay envelope.
type Message struct {
	Type    string `json:"type"`
	Payload State  `json:"payload"`
}

// Publisher sends versioned state messages to the relay. The connection is
// dialed lazily and redialed once if a write fails. It is safe for
// concurrent use.
type Publisher struct {
	endpoint string
	dialer   websocket.Dialer
	session  string
	logger   *slog.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	version int
	closed  bool
}

// NewPublisher creates a publisher for a relay URL. http(s) URLs are
// converted to ws(s); an empty endpoint uses DefaultURL.
func NewPublisher(endpoint string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if endpoint == "" {
		endpoint = DefaultURL
	}
	endpoint = strings.Replace(endpoint, "http://", "ws://", 1)
	endpoint = strings.Replace(endpoint, "https://", "wss://", 1)

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse relay url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("relay url %q: scheme must be ws or wss", endpoint)
	}

	session := uuid.NewString()
	return &Publisher{
		endpoint: u.String(),
		dialer:   websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		session:  session,
		logger:   logger.With("session", session),
	}, nil
}

// Session returns the publisher's session ID, shared by all its messages.
func (p *Publisher) Session() string {
	return p.session
}

// Version returns the version of the last published state.
func (p *Publisher) Version() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}

// Publish sends res as the next state version and returns that version.
func (p *Publisher) Publish(ctx context.Context, res analysis.Result) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, ErrClosed
	}

	snap := res.Graph
	msg := Message{
		Type: "state",
		Payload: State{
			Version:   p.version + 1,
			Session:   p.session,
			Counts:    res.Counts,
			CloudData: res.Cloud,
			Graph:     &snap,
		},
	}
	if msg.Payload.Counts == nil {
		msg.Payload.Counts = map[string]int{}
	}
	if msg.Payload.CloudData == nil {
		msg.Payload.CloudData = []analysis.CloudDatum{}
	}

	var err error
	for attempt := 0; attempt < 2; attempt++ {
		if err = p.connect(ctx); err != nil {
			return 0, err
		}
		if err = p.write(msg); err == nil {
			p.version++
			p.logger.Debug("published state", "version", p.version)
			return p.version, nil
		}
		p.logger.Warn("publish failed, redialing", "error", err)
		p.drop()
	}
	return 0, fmt.Errorf("publish state: %w", err)
}

// Close sends a close frame and closes the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.conn == nil {
		return nil
	}
	_ = p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := p.conn.Close()
	p.conn = nil
	return err
}

// connect dials the relay if there is no live connection. Caller holds mu.
func (p *Publisher) connect(ctx context.Context) error {
	if p.conn != nil {
		return nil
	}
	conn, _, err := p.dialer.DialContext(ctx, p.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket connect: %w", err)
	}
	p.conn = conn
	p.logger.Info("connected to relay", "url", p.endpoint)
	go p.discard(conn)
	return nil
}

func (p *Publisher) write(msg Message) error {
	if err := p.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return p.conn.WriteJSON(msg)
}

// drop closes the current connection. Caller holds mu.
func (p *Publisher) drop() {
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}

// discard reads and drops the relay's echoes so control frames (pings,
// close) are processed. It exits when the connection fails.
func (p *Publisher) discard(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			p.mu.Lock()
			if p.conn == conn {
				p.conn = nil
				conn.Close()
			}
			p.mu.Unlock()
			return
		}
	}
}
