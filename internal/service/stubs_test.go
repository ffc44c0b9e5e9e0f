package service

import (
	"context"

	"skillswap/internal/models"
)

type quizRepoStub struct {
	getByIDFn       func(ctx context.Context, id uint) (*models.Quiz, error)
	recordAttemptFn func(ctx context.Context, a *models.QuizAttempt) error
}

func (s *quizRepoStub) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("Quiz", id)
}

func (s *quizRepoStub) ListBySkill(context.Context, uint) ([]models.Quiz, error) {
	return nil, nil
}

func (s *quizRepoStub) ListQuestions(context.Context, uint) ([]models.QuizQuestion, error) {
	return nil, nil
}

func (s *quizRepoStub) CreateQuiz(context.Context, *models.Quiz) error { return nil }

func (s *quizRepoStub) CreateQuestion(context.Context, *models.QuizQuestion) error { return nil }

func (s *quizRepoStub) RecordAttempt(ctx context.Context, a *models.QuizAttempt) error {
	if s.recordAttemptFn != nil {
		return s.recordAttemptFn(ctx, a)
	}
	return nil
}

func (s *quizRepoStub) ListAttemptsByUser(context.Context, uint) ([]models.QuizAttempt, error) {
	return nil, nil
}

type userRepoStub struct {
	getByIDFn    func(ctx context.Context, id uint) (*models.User, error)
	getByEmailFn func(ctx context.Context, email string) (*models.User, error)
	createFn     func(ctx context.Context, u *models.User) error
	updateFn     func(ctx context.Context, u *models.User) error
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{}
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("User", id)
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, u)
	}
	return nil
}

func (s *userRepoStub) Update(ctx context.Context, u *models.User) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, u)
	}
	return nil
}

func (s *userRepoStub) List(context.Context) ([]models.User, error) {
	return nil, nil
}
