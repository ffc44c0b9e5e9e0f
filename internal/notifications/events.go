package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"skillswap/internal/middleware"
	"skillswap/internal/models"
)

// Event types exchanged over the chat socket.
const (
	EventMessage     = "message"
	EventMessageSent = "message_sent"
	EventMatchStatus = "match_status"
	EventPing        = "ping"
	EventPong        = "pong"
	EventError       = "error"
)

// InboundEvent is a frame sent by a client.
type InboundEvent struct {
	Type        string             `json:"type"`
	MatchID     uint               `json:"matchId"`
	ID          uint               `json:"id,omitempty"`
	Content     string             `json:"content"`
	MessageType models.MessageType `json:"messageType"`
	MediaURL    string             `json:"mediaUrl"`
}

// OutboundEvent is a frame sent to a client. Only the fields relevant to
// Type are set.
type OutboundEvent struct {
	Type    string          `json:"type"`
	MatchID uint            `json:"matchId,omitempty"`
	Message *models.Message `json:"message,omitempty"`
	Match   *models.Match   `json:"match,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Dispatcher routes events to users. With a Notifier every instance sees the
// event through Redis; without one the local Hub delivers directly.
type Dispatcher struct {
	hub      *Hub
	notifier *Notifier
}

// NewDispatcher creates a Dispatcher. notifier may be nil.
func NewDispatcher(hub *Hub, notifier *Notifier) *Dispatcher {
	return &Dispatcher{hub: hub, notifier: notifier}
}

// SendToUser encodes event and delivers it to every connection of userID.
// A failed Redis publish falls back to local delivery.
func (d *Dispatcher) SendToUser(ctx context.Context, userID uint, event OutboundEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	if d.notifier != nil {
		err := d.notifier.PublishUser(ctx, userID, string(payload))
		if err == nil {
			return nil
		}
		middleware.Logger.WarnContext(ctx, "redis publish failed, delivering locally",
			slog.String("event", event.Type),
			slog.Uint64("user_id", uint64(userID)),
			slog.String("error", err.Error()))
	}

	if d.hub != nil {
		d.hub.Deliver(userID, payload)
	}
	return nil
}
