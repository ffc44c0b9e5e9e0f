package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/notifications"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	wsMessageLimit  = 30
	wsMessageWindow = time.Minute
)

// ChatWebSocketHandler upgrades an authenticated request to the chat relay.
// Authentication is handled by route middleware and userID is read from
// connection locals.
func (s *Server) ChatWebSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		userID, ok := conn.Locals("userID").(uint)
		if !ok || userID == 0 {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"error","error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("websocket register failed",
				slog.Uint64("user_id", uint64(userID)), slog.String("error", err.Error()))
			payload, _ := json.Marshal(notifications.OutboundEvent{Type: notifications.EventError, Error: err.Error()})
			_ = conn.WriteMessage(websocket.TextMessage, payload)
			_ = conn.Close()
			return
		}
		middleware.Logger.Info("websocket connected", slog.Uint64("user_id", uint64(userID)))

		ctx := middleware.WithUser(context.Background(), userID)
		client.OnEvent = func(c *notifications.Client, ev notifications.InboundEvent) {
			s.handleChatEvent(ctx, c, ev)
		}

		go client.WritePump()
		client.ReadPump()

		middleware.Logger.Info("websocket disconnected", slog.Uint64("user_id", uint64(userID)))
	})
}

// handleChatEvent answers one inbound event. Errors go back to the sender
// only; the connection stays open.
func (s *Server) handleChatEvent(ctx context.Context, c *notifications.Client, ev notifications.InboundEvent) {
	switch ev.Type {
	case notifications.EventPing:
		c.Reply(notifications.OutboundEvent{Type: notifications.EventPong})

	case notifications.EventMessage:
		id := fmt.Sprintf("user:%d", c.UserID)
		allowed, err := middleware.CheckRateLimit(ctx, s.redis, "ws_message", id, wsMessageLimit, wsMessageWindow)
		if err == nil && !allowed {
			c.Reply(notifications.OutboundEvent{
				Type: notifications.EventError, MatchID: ev.MatchID, Error: "rate limit exceeded",
			})
			return
		}

		msg, m, err := s.messageService.ResolveRelay(ctx, service.SendMessageInput{
			SenderID:    c.UserID,
			MatchID:     ev.MatchID,
			Content:     ev.Content,
			MessageType: ev.MessageType,
			MediaURL:    ev.MediaURL,
		}, ev.ID)
		if err != nil {
			c.Reply(notifications.OutboundEvent{
				Type: notifications.EventError, MatchID: ev.MatchID, Error: clientMessage(err),
			})
			return
		}
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = time.Now().UTC()
		}

		s.relayMessage(ctx, m, msg)
		c.Reply(notifications.OutboundEvent{Type: notifications.EventMessageSent, MatchID: m.ID})

	default:
		c.Reply(notifications.OutboundEvent{
			Type: notifications.EventError, Error: "unknown event type: " + ev.Type,
		})
	}
}

// clientMessage is the text of an AppError, or a generic message for
// anything else.
func clientMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code != models.CodeInternal {
		return appErr.Message
	}
	return "internal error"
}
