package repository

import (
	"context"
	"errors"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// MatchRepository defines persistence operations for matches.
type MatchRepository interface {
	// ListByUser returns every match the user takes part in, ascending by id.
	ListByUser(ctx context.Context, userID uint) ([]models.Match, error)
	GetByID(ctx context.Context, id uint) (*models.Match, error)
	// FindBetween looks the pair up in either order; nil, nil when unmatched.
	FindBetween(ctx context.Context, userA, userB uint) (*models.Match, error)
	Create(ctx context.Context, m *models.Match) error
	UpdateStatus(ctx context.Context, id uint, status models.MatchStatus) (*models.Match, error)
}

type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository returns a new MatchRepository implementation.
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) ListByUser(ctx context.Context, userID uint) ([]models.Match, error) {
	var matches []models.Match
	if err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("id ASC").
		Find(&matches).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return matches, nil
}

func (r *matchRepository) GetByID(ctx context.Context, id uint) (*models.Match, error) {
	var m models.Match
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Match", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &m, nil
}

func (r *matchRepository) FindBetween(ctx context.Context, userA, userB uint) (*models.Match, error) {
	var m models.Match
	err := r.db.WithContext(ctx).
		Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)",
			userA, userB, userB, userA).
		Order("id ASC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &m, nil
}

func (r *matchRepository) Create(ctx context.Context, m *models.Match) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *matchRepository) UpdateStatus(ctx context.Context, id uint, status models.MatchStatus) (*models.Match, error) {
	res := r.db.WithContext(ctx).Model(&models.Match{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Match", id)
	}
	return r.GetByID(ctx, id)
}
