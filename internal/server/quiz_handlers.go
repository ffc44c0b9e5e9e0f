package server

import (
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetQuiz handles GET /api/quizzes/:id
// @Summary Quiz metadata
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} models.Quiz
// @Failure 404 {object} models.ErrorResponse
// @Router /quizzes/{id} [get]
func (s *Server) GetQuiz(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	quiz, err := s.quizService.GetQuiz(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quiz)
}

// GetQuizQuestions handles GET /api/quizzes/:id/questions. Correct answers
// are never serialized.
// @Summary Quiz questions
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {array} models.QuizQuestion
// @Failure 404 {object} models.ErrorResponse
// @Router /quizzes/{id}/questions [get]
func (s *Server) GetQuizQuestions(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	questions, err := s.quizService.Questions(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(questions)
}

// SubmitQuizAttempt handles POST /api/quizzes/:id/attempt
// @Summary Submit a quiz attempt
// @Description Send answers to be graded, or a precomputed score from 0 to 10. A pass verifies the matching teaching skill.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param request body object{answers=[]int,score=int} true "Attempt"
// @Success 201 {object} service.AttemptResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /quizzes/{id}/attempt [post]
func (s *Server) SubmitQuizAttempt(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Answers []int `json:"answers"`
		Score   *int  `json:"score"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	result, err := s.quizService.SubmitAttempt(c.UserContext(), service.SubmitAttemptInput{
		UserID:  currentUserID(c),
		QuizID:  id,
		Answers: req.Answers,
		Score:   req.Score,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// ListQuizAttempts handles GET /api/quizzes/attempts
// @Summary My quiz attempts, newest first
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.QuizAttempt
// @Router /quizzes/attempts [get]
func (s *Server) ListQuizAttempts(c *fiber.Ctx) error {
	attempts, err := s.quizService.ListAttempts(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(attempts)
}
