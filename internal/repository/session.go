package repository

import (
	"context"
	"errors"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// SessionRepository defines persistence operations for scheduled sessions.
type SessionRepository interface {
	// ListByMatches returns sessions of the given matches ordered by start time.
	ListByMatches(ctx context.Context, matchIDs []uint) ([]models.Session, error)
	GetByID(ctx context.Context, id uint) (*models.Session, error)
	Create(ctx context.Context, s *models.Session) error
	// Update persists the schedule fields; MatchID and CreatedAt are immutable.
	Update(ctx context.Context, s *models.Session) error
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository returns a new SessionRepository implementation.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) ListByMatches(ctx context.Context, matchIDs []uint) ([]models.Session, error) {
	if len(matchIDs) == 0 {
		return []models.Session{}, nil
	}
	var sessions []models.Session
	if err := r.db.WithContext(ctx).
		Where("match_id IN ?", matchIDs).
		Order("start_time ASC, id ASC").
		Find(&sessions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return sessions, nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id uint) (*models.Session, error) {
	var s models.Session
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Session", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &s, nil
}

func (r *sessionRepository) Create(ctx context.Context, s *models.Session) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *sessionRepository) Update(ctx context.Context, s *models.Session) error {
	res := r.db.WithContext(ctx).
		Model(&models.Session{ID: s.ID}).
		Updates(map[string]any{
			"title":       s.Title,
			"description": s.Description,
			"start_time":  s.StartTime,
			"end_time":    s.EndTime,
			"status":      s.Status,
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Session", s.ID)
	}
	return nil
}
