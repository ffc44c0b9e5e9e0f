// Package service holds the business rules behind the HTTP and WebSocket
// handlers. Services depend on repository interfaces only.
package service

import (
	"context"
	"time"

	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo      repository.UserRepository
	userSkillRepo repository.UserSkillRepository
	matchRepo     repository.MatchRepository
	sessionRepo   repository.SessionRepository
	now           func() time.Time
}

type RegisterInput struct {
	Email          string
	Username       string
	Password       string
	ProfilePicture string
}

// UpdateProfileInput lists the only profile fields a user may change.
// Empty values leave the stored field untouched.
type UpdateProfileInput struct {
	UserID         uint
	Username       string
	ProfilePicture string
}

func NewUserService(
	userRepo repository.UserRepository,
	userSkillRepo repository.UserSkillRepository,
	matchRepo repository.MatchRepository,
	sessionRepo repository.SessionRepository,
) *UserService {
	return &UserService{
		userRepo:      userRepo,
		userSkillRepo: userSkillRepo,
		matchRepo:     matchRepo,
		sessionRepo:   sessionRepo,
		now:           time.Now,
	}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := validation.NormalizeEmail(in.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:          email,
		Username:       in.Username,
		Password:       string(hash),
		ProfilePicture: in.ProfilePicture,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user owning email when password matches. Unknown
// emails and wrong passwords produce the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = in.Username
	}
	if in.ProfilePicture != "" {
		user.ProfilePicture = in.ProfilePicture
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return models.NewUnauthorizedError("Current password is incorrect")
	}
	if err := validation.ValidatePassword(next); err != nil {
		return models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hash)
	return s.userRepo.Update(ctx, user)
}

// Stats counts accepted matches, skills per direction and upcoming scheduled
// sessions for the dashboard.
func (s *UserService) Stats(ctx context.Context, userID uint) (*models.UserStats, error) {
	skills, err := s.userSkillRepo.ListByUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &models.UserStats{}
	for _, us := range skills {
		if us.IsTeaching {
			stats.TeachingCount++
		} else {
			stats.LearningCount++
		}
	}

	matchIDs := make([]uint, 0, len(matches))
	for _, m := range matches {
		matchIDs = append(matchIDs, m.ID)
		if m.Status == models.MatchStatusAccepted {
			stats.MatchesCount++
		}
	}

	sessions, err := s.sessionRepo.ListByMatches(ctx, matchIDs)
	if err != nil {
		return nil, err
	}
	stats.SessionsCount = len(upcoming(sessions, s.now()))
	return stats, nil
}
