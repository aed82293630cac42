// Package notifications delivers database change events to websocket clients.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/observability"

	"github.com/redis/go-redis/v9"
)

// ChangeEvent announces that a row changed. It carries only identifiers;
// clients re-fetch whatever they care about instead of patching from the
// event payload.
type ChangeEvent struct {
	Table  string `json:"table"`
	Event  string `json:"event"` // "INSERT", "UPDATE", "DELETE"
	ID     uint   `json:"id,omitempty"`
	UserID uint   `json:"user_id,omitempty"`
	PostID uint   `json:"post_id,omitempty"`
}

// Notifier publishes change events into Redis channels so every API instance
// can fan them out to its own websocket clients.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishChange broadcasts a change event to all subscribers of its table.
func (n *Notifier) PublishChange(ctx context.Context, event ChangeEvent) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(map[string]any{
		"type":    "db_change",
		"payload": event,
	})
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	observability.RealtimeEventsTotal.WithLabelValues(event.Table, event.Event).Inc()
	return n.rdb.Publish(ctx, TableChannel(event.Table), payload).Err()
}

// PublishUser sends a payload to one user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// StartPatternSubscriber subscribes to the change and user channels and calls
// onMessage for each incoming message.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "changes:*", "notify:user:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in PatternSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// TableChannel derives the Redis channel name for a table's change feed.
func TableChannel(table string) string {
	return "changes:" + table
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notify:user:" + strconv.FormatUint(uint64(userID), 10)
}
