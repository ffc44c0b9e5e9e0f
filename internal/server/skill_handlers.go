package server

import (
	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListSkills handles GET /api/skills
// @Summary Skill catalog
// @Tags skills
// @Produce json
// @Success 200 {array} models.Skill
// @Router /skills [get]
func (s *Server) ListSkills(c *fiber.Ctx) error {
	skills, err := s.skillService.ListSkills(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(skills)
}

// GetSkill handles GET /api/skills/:id
// @Summary Skill detail
// @Tags skills
// @Produce json
// @Param id path int true "Skill ID"
// @Success 200 {object} models.Skill
// @Failure 404 {object} models.ErrorResponse
// @Router /skills/{id} [get]
func (s *Server) GetSkill(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	skill, err := s.skillService.GetSkill(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(skill)
}

// ListSkillQuizzes handles GET /api/skills/:id/quizzes
// @Summary Verification quizzes of a skill
// @Tags skills
// @Produce json
// @Param id path int true "Skill ID"
// @Success 200 {array} models.Quiz
// @Router /skills/{id}/quizzes [get]
func (s *Server) ListSkillQuizzes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	quizzes, err := s.skillService.ListSkillQuizzes(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quizzes)
}

// ListMySkills handles GET /api/user/skills
// @Summary My skills, both directions
// @Tags user-skills
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserSkill
// @Router /user/skills [get]
func (s *Server) ListMySkills(c *fiber.Ctx) error {
	return s.listUserSkills(c, nil)
}

// ListTeachingSkills handles GET /api/user/skills/teaching
func (s *Server) ListTeachingSkills(c *fiber.Ctx) error {
	teaching := true
	return s.listUserSkills(c, &teaching)
}

// ListLearningSkills handles GET /api/user/skills/learning
func (s *Server) ListLearningSkills(c *fiber.Ctx) error {
	teaching := false
	return s.listUserSkills(c, &teaching)
}

func (s *Server) listUserSkills(c *fiber.Ctx, teaching *bool) error {
	skills, err := s.skillService.ListUserSkills(c.UserContext(), currentUserID(c), teaching)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(skills)
}

// AddUserSkill handles POST /api/user/skills
// @Summary Declare a skill to teach or learn
// @Tags user-skills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{skillId=int,proficiency=string,isTeaching=bool} true "User skill"
// @Success 201 {object} models.UserSkill
// @Failure 400 {object} models.ErrorResponse
// @Router /user/skills [post]
func (s *Server) AddUserSkill(c *fiber.Ctx) error {
	var req struct {
		SkillID     uint               `json:"skillId"`
		Proficiency models.Proficiency `json:"proficiency"`
		IsTeaching  bool               `json:"isTeaching"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	us, err := s.skillService.AddUserSkill(c.UserContext(), service.AddUserSkillInput{
		UserID:      currentUserID(c),
		SkillID:     req.SkillID,
		Proficiency: req.Proficiency,
		IsTeaching:  req.IsTeaching,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(us)
}

// UpdateUserSkill handles PUT /api/user/skills/:id
// @Summary Change proficiency
// @Tags user-skills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User skill ID"
// @Param request body object{proficiency=string} true "Proficiency"
// @Success 200 {object} models.UserSkill
// @Failure 403 {object} models.ErrorResponse
// @Router /user/skills/{id} [put]
func (s *Server) UpdateUserSkill(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Proficiency models.Proficiency `json:"proficiency"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	us, err := s.skillService.UpdateUserSkill(c.UserContext(), service.UpdateUserSkillInput{
		UserID:      currentUserID(c),
		UserSkillID: id,
		Proficiency: req.Proficiency,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(us)
}

// RemoveUserSkill handles DELETE /api/user/skills/:id
// @Summary Remove a declared skill
// @Tags user-skills
// @Security BearerAuth
// @Param id path int true "User skill ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Router /user/skills/{id} [delete]
func (s *Server) RemoveUserSkill(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.skillService.RemoveUserSkill(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
