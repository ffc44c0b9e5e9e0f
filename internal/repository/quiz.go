package repository

import (
	"context"
	"errors"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// QuizRepository defines persistence operations for quizzes, their questions
// and user attempts.
type QuizRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	ListBySkill(ctx context.Context, skillID uint) ([]models.Quiz, error)
	ListQuestions(ctx context.Context, quizID uint) ([]models.QuizQuestion, error)
	CreateQuiz(ctx context.Context, q *models.Quiz) error
	CreateQuestion(ctx context.Context, q *models.QuizQuestion) error
	RecordAttempt(ctx context.Context, a *models.QuizAttempt) error
	// ListAttemptsByUser returns the user's attempts, newest first.
	ListAttemptsByUser(ctx context.Context, userID uint) ([]models.QuizAttempt, error)
}

type quizRepository struct {
	db *gorm.DB
}

// NewQuizRepository returns a new QuizRepository implementation.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var q models.Quiz
	if err := r.db.WithContext(ctx).First(&q, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Quiz", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &q, nil
}

func (r *quizRepository) ListBySkill(ctx context.Context, skillID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := r.db.WithContext(ctx).Where("skill_id = ?", skillID).Order("id ASC").Find(&quizzes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return quizzes, nil
}

func (r *quizRepository) ListQuestions(ctx context.Context, quizID uint) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	if err := r.db.WithContext(ctx).Where("quiz_id = ?", quizID).Order("id ASC").Find(&questions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return questions, nil
}

func (r *quizRepository) CreateQuiz(ctx context.Context, q *models.Quiz) error {
	if err := r.db.WithContext(ctx).Create(q).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *quizRepository) CreateQuestion(ctx context.Context, q *models.QuizQuestion) error {
	if err := r.db.WithContext(ctx).Create(q).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *quizRepository) RecordAttempt(ctx context.Context, a *models.QuizAttempt) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *quizRepository) ListAttemptsByUser(ctx context.Context, userID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("attempted_at DESC, id DESC").
		Find(&attempts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return attempts, nil
}
