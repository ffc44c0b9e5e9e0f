package service

import (
	"context"
	"strings"

	"skillswap/internal/featureflags"
	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"
)

const maxMessageLength = 4000

type MessageService struct {
	matchRepo   repository.MatchRepository
	messageRepo repository.MessageRepository
	flags       *featureflags.Manager
}

type SendMessageInput struct {
	SenderID    uint
	MatchID     uint
	Content     string
	MessageType models.MessageType
	MediaURL    string
}

func NewMessageService(
	matchRepo repository.MatchRepository,
	messageRepo repository.MessageRepository,
	flags *featureflags.Manager,
) *MessageService {
	return &MessageService{matchRepo: matchRepo, messageRepo: messageRepo, flags: flags}
}

// ListMessages returns the conversation of a match, oldest first.
func (s *MessageService) ListMessages(ctx context.Context, userID, matchID uint) ([]models.Message, error) {
	if _, err := participantMatch(ctx, s.matchRepo, userID, matchID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListByMatch(ctx, matchID)
}

// SendMessage validates and stores a message. The returned match lets the
// caller notify the counterpart.
func (s *MessageService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, *models.Match, error) {
	m, err := s.AuthorizeSender(ctx, in.SenderID, in.MatchID)
	if err != nil {
		return nil, nil, err
	}
	msg, err := s.buildMessage(in)
	if err != nil {
		return nil, nil, err
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, nil, err
	}
	observability.ChatMessages.WithLabelValues("stored", string(msg.MessageType)).Inc()

	stored, err := s.messageRepo.GetByID(ctx, msg.ID)
	if err != nil {
		return nil, nil, err
	}
	return stored, m, nil
}

// AuthorizeSender returns the match when userID may post to it: a participant
// of a match that is not rejected.
func (s *MessageService) AuthorizeSender(ctx context.Context, userID, matchID uint) (*models.Match, error) {
	m, err := participantMatch(ctx, s.matchRepo, userID, matchID)
	if err != nil {
		return nil, err
	}
	if m.Status == models.MatchStatusRejected {
		return nil, models.NewForbiddenError("This match was rejected")
	}
	return m, nil
}

// ResolveRelay picks what the chat relay forwards for a realtime message
// event. When messageID names a stored message of that match written by
// senderID the stored record wins; otherwise the payload is validated and
// relayed unsaved.
func (s *MessageService) ResolveRelay(ctx context.Context, in SendMessageInput, messageID uint) (*models.Message, *models.Match, error) {
	m, err := s.AuthorizeSender(ctx, in.SenderID, in.MatchID)
	if err != nil {
		return nil, nil, err
	}

	if messageID != 0 {
		stored, err := s.messageRepo.GetByID(ctx, messageID)
		if err != nil && !models.IsNotFound(err) {
			return nil, nil, err
		}
		if stored != nil && stored.MatchID == in.MatchID && stored.SenderID == in.SenderID {
			return stored, m, nil
		}
	}

	msg, err := s.buildMessage(in)
	if err != nil {
		return nil, nil, err
	}
	observability.ChatMessages.WithLabelValues("relayed", string(msg.MessageType)).Inc()
	return msg, m, nil
}

func (s *MessageService) buildMessage(in SendMessageInput) (*models.Message, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Message content is required")
	}
	if len(content) > maxMessageLength {
		return nil, models.NewValidationError("Message too long (max 4000 characters)")
	}

	msgType := in.MessageType
	if msgType == "" {
		msgType = models.MessageTypeText
	}
	if !msgType.Valid() {
		return nil, models.NewValidationError("messageType must be text, image or voice")
	}

	mediaURL := strings.TrimSpace(in.MediaURL)
	if msgType != models.MessageTypeText {
		if !s.flags.AllowsMessageType(msgType, in.SenderID) {
			return nil, models.NewForbiddenError(string(msgType) + " messages are not enabled")
		}
		if mediaURL == "" {
			return nil, models.NewValidationError("mediaUrl is required for " + string(msgType) + " messages")
		}
	}

	return &models.Message{
		MatchID:     in.MatchID,
		SenderID:    in.SenderID,
		Content:     content,
		MessageType: msgType,
		MediaURL:    mediaURL,
	}, nil
}
