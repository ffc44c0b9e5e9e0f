package server

import (
	"skillswap/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPotentialMatches handles GET /api/matches/potential. Discovery creates
// pending matches for new complementary pairs as a side effect.
// @Summary Discover potential matches
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.MatchWithUser
// @Router /matches/potential [get]
func (s *Server) GetPotentialMatches(c *fiber.Ctx) error {
	matches, err := s.matchService.DiscoverOrGetPotentialMatches(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(matches)
}

// ListMatches handles GET /api/matches
// @Summary My matches
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.MatchWithUser
// @Router /matches [get]
func (s *Server) ListMatches(c *fiber.Ctx) error {
	matches, err := s.matchService.ListMatches(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(matches)
}

// GetMatch handles GET /api/matches/:id
// @Summary Match detail
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Param id path int true "Match ID"
// @Success 200 {object} models.MatchWithUser
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /matches/{id} [get]
func (s *Server) GetMatch(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	m, err := s.matchService.GetMatch(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(m)
}

// UpdateMatchStatus handles PUT /api/matches/:id/status
// @Summary Accept or reject a match
// @Tags matches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Match ID"
// @Param request body object{status=string} true "pending, accepted or rejected"
// @Success 200 {object} models.Match
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /matches/{id}/status [put]
func (s *Server) UpdateMatchStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Status models.MatchStatus `json:"status"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	userID := currentUserID(c)
	m, err := s.matchService.UpdateMatchStatus(c.UserContext(), userID, id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	s.notifyMatchStatus(c.UserContext(), userID, m)
	return c.JSON(m)
}
