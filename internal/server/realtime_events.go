package server

import (
	"context"
	"encoding/json"
	"log"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/notifications"
)

// Table and event name constants prevent typos in change events.
const (
	TablePosts      = "posts"
	TableComments   = "comments"
	TableSavedPosts = "saved_posts"
	TableUsers      = "users"

	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// publishChange fans out an invalidation signal for a changed row. Clients
// receive only identifiers and re-fetch what they care about. Redis pub/sub
// carries the event to every instance's hub; without Redis the local hub is
// the only audience.
func (s *Server) publishChange(table, event string, id, userID, postID uint) {
	ev := notifications.ChangeEvent{
		Table:  table,
		Event:  event,
		ID:     id,
		UserID: userID,
		PostID: postID,
	}

	if s.notifier != nil {
		if err := s.notifier.PublishChange(context.Background(), ev); err != nil {
			log.Printf("failed to publish %s %s event: %v", table, event, err)
		}
		return
	}

	if s.hub != nil {
		payload, err := json.Marshal(map[string]any{
			"type":    "db_change",
			"payload": ev,
		})
		if err != nil {
			log.Printf("failed to marshal %s %s event: %v", table, event, err)
			return
		}
		s.hub.BroadcastAll(string(payload))
	}
}
