package server

import (
	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListMessages handles GET /api/matches/:id/messages
// @Summary Conversation of a match
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Match ID"
// @Success 200 {array} models.Message
// @Failure 403 {object} models.ErrorResponse
// @Router /matches/{id}/messages [get]
func (s *Server) ListMessages(c *fiber.Ctx) error {
	matchID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	messages, err := s.messageService.ListMessages(c.UserContext(), currentUserID(c), matchID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(messages)
}

// SendMessage handles POST /api/matches/:id/messages. The stored message is
// the source of truth; clients then announce it over the chat socket.
// @Summary Send a message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Match ID"
// @Param request body object{content=string,messageType=string,mediaUrl=string} true "Message"
// @Success 201 {object} models.Message
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /matches/{id}/messages [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	matchID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Content     string             `json:"content"`
		MessageType models.MessageType `json:"messageType"`
		MediaURL    string             `json:"mediaUrl"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	msg, _, err := s.messageService.SendMessage(c.UserContext(), service.SendMessageInput{
		SenderID:    currentUserID(c),
		MatchID:     matchID,
		Content:     req.Content,
		MessageType: req.MessageType,
		MediaURL:    req.MediaURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
