package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// ChangeEvent is one row-level change delivered over the feed. Events carry
// no payload diff; they are invalidation signals keyed for filtering.
type ChangeEvent struct {
	Table  string `json:"table"`
	Event  string `json:"event"`
	ID     uint   `json:"id,omitempty"`
	UserID uint   `json:"user_id,omitempty"`
	PostID uint   `json:"post_id,omitempty"`
}

type changeEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Listener consumes the server's change feed over a websocket. Each
// connection is single-use; there is no retry or resubscribe, callers
// reconnect by dialing again with a fresh ticket.
type Listener struct {
	conn *websocket.Conn

	mu     sync.Mutex
	tables map[string]struct{}
}

// Connect trades the session for a single-use ticket and dials /api/ws.
func (c *Client) Connect(ctx context.Context) (*Listener, error) {
	ticket, err := c.WSTicket(ctx)
	if err != nil {
		return nil, err
	}

	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/api/ws?ticket=" + ticket
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, &APIError{Status: resp.StatusCode, Message: "websocket handshake rejected"}
		}
		return nil, err
	}

	return &Listener{conn: conn}, nil
}

// Filter restricts Next to events from the given tables. No filter means
// every event is delivered.
func (l *Listener) Filter(tables ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tables == nil {
		l.tables = make(map[string]struct{}, len(tables))
	}
	for _, t := range tables {
		l.tables[t] = struct{}{}
	}
}

func (l *Listener) wants(table string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tables) == 0 {
		return true
	}
	_, ok := l.tables[table]
	return ok
}

// Next blocks for the next matching change event. Non-change frames (drop
// notices, shutdown) are skipped. The connection is dead once Next errors.
func (l *Listener) Next() (*ChangeEvent, error) {
	for {
		_, raw, err := l.conn.ReadMessage()
		if err != nil {
			return nil, err
		}

		var env changeEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			continue
		}
		if env.Type != "db_change" {
			continue
		}

		var event ChangeEvent
		if err := json.Unmarshal(env.Payload, &event); err != nil {
			continue
		}
		if l.wants(event.Table) {
			return &event, nil
		}
	}
}

// Run pumps matching events into the handler until the connection drops.
func (l *Listener) Run(handler func(ChangeEvent)) error {
	for {
		event, err := l.Next()
		if err != nil {
			return err
		}
		handler(*event)
	}
}

// Close tears down the connection.
func (l *Listener) Close() error {
	return l.conn.Close()
}
