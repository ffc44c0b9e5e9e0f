package server

import (
	"time"

	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListSessions handles GET /api/sessions
// @Summary All sessions on my matches
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SessionDetail
// @Router /sessions [get]
func (s *Server) ListSessions(c *fiber.Ctx) error {
	sessions, err := s.sessionService.ListSessions(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sessions)
}

// UpcomingSessions handles GET /api/sessions/upcoming
// @Summary Scheduled sessions that have not started
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SessionDetail
// @Router /sessions/upcoming [get]
func (s *Server) UpcomingSessions(c *fiber.Ctx) error {
	sessions, err := s.sessionService.UpcomingSessions(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sessions)
}

// CreateSession handles POST /api/sessions
// @Summary Schedule a session on an accepted match
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{matchId=int,title=string,description=string,startTime=string,endTime=string,status=string} true "Session"
// @Success 201 {object} models.Session
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /sessions [post]
func (s *Server) CreateSession(c *fiber.Ctx) error {
	var req struct {
		MatchID     uint                 `json:"matchId"`
		Title       string               `json:"title"`
		Description string               `json:"description"`
		StartTime   time.Time            `json:"startTime"`
		EndTime     time.Time            `json:"endTime"`
		Status      models.SessionStatus `json:"status"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.MatchID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("matchId is required"))
	}

	sess, err := s.sessionService.CreateSession(c.UserContext(), service.CreateSessionInput{
		UserID:      currentUserID(c),
		MatchID:     req.MatchID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      req.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sess)
}

// UpdateSession handles PUT /api/sessions/:id. Omitted fields are unchanged.
// @Summary Edit a session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param request body object{title=string,description=string,startTime=string,endTime=string,status=string} true "Fields to change"
// @Success 200 {object} models.Session
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /sessions/{id} [put]
func (s *Server) UpdateSession(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Title       *string               `json:"title"`
		Description *string               `json:"description"`
		StartTime   *time.Time            `json:"startTime"`
		EndTime     *time.Time            `json:"endTime"`
		Status      *models.SessionStatus `json:"status"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	sess, err := s.sessionService.UpdateSession(c.UserContext(), service.UpdateSessionInput{
		UserID:      currentUserID(c),
		SessionID:   id,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      req.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sess)
}
