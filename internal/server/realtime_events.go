package server

import (
	"context"
	"log/slog"

	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/notifications"
)

func (s *Server) publishUserEvent(ctx context.Context, userID uint, event notifications.OutboundEvent) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.SendToUser(ctx, userID, event); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish event",
			slog.String("event", event.Type),
			slog.Uint64("user_id", uint64(userID)),
			slog.String("error", err.Error()))
	}
}

// notifyMatchStatus tells the other participant that actorID changed the match.
func (s *Server) notifyMatchStatus(ctx context.Context, actorID uint, m *models.Match) {
	s.publishUserEvent(ctx, m.OtherUserID(actorID), notifications.OutboundEvent{
		Type:    notifications.EventMatchStatus,
		MatchID: m.ID,
		Match:   m,
	})
}

// relayMessage forwards msg to the counterpart of its sender on match m.
func (s *Server) relayMessage(ctx context.Context, m *models.Match, msg *models.Message) {
	s.publishUserEvent(ctx, m.OtherUserID(msg.SenderID), notifications.OutboundEvent{
		Type:    notifications.EventMessage,
		MatchID: m.ID,
		Message: msg,
	})
}
