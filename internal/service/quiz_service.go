package service

import (
	"context"
	"math"

	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"
)

// MaxQuizScore is the top of the 0..10 quiz scale.
const MaxQuizScore = 10

type QuizService struct {
	quizRepo      repository.QuizRepository
	userSkillRepo repository.UserSkillRepository
}

// SubmitAttemptInput carries either Answers, graded against the stored
// correct indices, or a precomputed Score. Answers win when both are set.
type SubmitAttemptInput struct {
	UserID  uint
	QuizID  uint
	Answers []int
	Score   *int
}

type AttemptResult struct {
	Attempt      *models.QuizAttempt `json:"attempt"`
	Correct      int                 `json:"correct,omitempty"`
	Total        int                 `json:"total"`
	PassingScore int                 `json:"passingScore"`
}

func NewQuizService(quizRepo repository.QuizRepository, userSkillRepo repository.UserSkillRepository) *QuizService {
	return &QuizService{quizRepo: quizRepo, userSkillRepo: userSkillRepo}
}

func (s *QuizService) GetQuiz(ctx context.Context, quizID uint) (*models.Quiz, error) {
	return s.quizRepo.GetByID(ctx, quizID)
}

// Questions returns the questions of a quiz without their answers.
func (s *QuizService) Questions(ctx context.Context, quizID uint) ([]models.QuizQuestion, error) {
	if _, err := s.quizRepo.GetByID(ctx, quizID); err != nil {
		return nil, err
	}
	return s.quizRepo.ListQuestions(ctx, quizID)
}

func (s *QuizService) ListAttempts(ctx context.Context, userID uint) ([]models.QuizAttempt, error) {
	return s.quizRepo.ListAttemptsByUser(ctx, userID)
}

// GradeQuiz scores answers on the 0..10 scale: round(correct/total*10).
// Missing answers count as wrong. It also returns the number correct.
func GradeQuiz(questions []models.QuizQuestion, answers []int) (score, correct int) {
	if len(questions) == 0 {
		return 0, 0
	}
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectAnswerIndex {
			correct++
		}
	}
	score = int(math.Round(float64(correct) / float64(len(questions)) * MaxQuizScore))
	return score, correct
}

// SubmitAttempt grades or accepts a score, decides pass or fail from the
// quiz's passing score and records the attempt.
func (s *QuizService) SubmitAttempt(ctx context.Context, in SubmitAttemptInput) (*AttemptResult, error) {
	quiz, err := s.quizRepo.GetByID(ctx, in.QuizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.quizRepo.ListQuestions(ctx, in.QuizID)
	if err != nil {
		return nil, err
	}

	result := &AttemptResult{Total: len(questions), PassingScore: quiz.PassingScore}
	var score int
	switch {
	case in.Answers != nil:
		if len(in.Answers) > len(questions) {
			return nil, models.NewValidationError("More answers than questions")
		}
		score, result.Correct = GradeQuiz(questions, in.Answers)
	case in.Score != nil:
		score = *in.Score
		if score < 0 || score > MaxQuizScore {
			return nil, models.NewValidationError("score must be between 0 and 10")
		}
	default:
		return nil, models.NewValidationError("answers or score is required")
	}

	attempt, err := s.RecordQuizAttempt(ctx, in.UserID, in.QuizID, score, score >= quiz.PassingScore)
	if err != nil {
		return nil, err
	}
	result.Attempt = attempt
	return result, nil
}

// RecordQuizAttempt stores the attempt. A passing attempt also verifies the
// user's teaching entry for the quiz's skill; when the quiz or that entry is
// missing nothing else changes.
func (s *QuizService) RecordQuizAttempt(ctx context.Context, userID, quizID uint, score int, passed bool) (*models.QuizAttempt, error) {
	attempt := &models.QuizAttempt{UserID: userID, QuizID: quizID, Score: score, Passed: passed}
	if err := s.quizRepo.RecordAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	result := "failed"
	if passed {
		result = "passed"
	}
	observability.QuizAttempts.WithLabelValues(result).Inc()

	if !passed {
		return attempt, nil
	}

	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		if models.IsNotFound(err) {
			return attempt, nil
		}
		return nil, err
	}
	us, err := s.userSkillRepo.FindTeaching(ctx, userID, quiz.SkillID)
	if err != nil {
		return nil, err
	}
	if us == nil || us.IsVerified {
		return attempt, nil
	}

	us.IsVerified = true
	if err := s.userSkillRepo.Update(ctx, us); err != nil {
		return nil, err
	}
	observability.SkillVerifications.Inc()
	middleware.Logger.InfoContext(ctx, "teaching skill verified",
		"user_id", userID, "skill_id", quiz.SkillID, "quiz_id", quizID)
	return attempt, nil
}
