package repository

import (
	"context"
	"errors"

	"skillswap/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserSkillRepository defines persistence operations for a user's declared skills.
type UserSkillRepository interface {
	// ListByUser returns the user's skills joined with the catalog entry.
	// A nil teaching filter returns both directions.
	ListByUser(ctx context.Context, userID uint, teaching *bool) ([]models.UserSkill, error)
	GetByID(ctx context.Context, id uint) (*models.UserSkill, error)
	// FindTeaching returns nil, nil when the user does not teach the skill.
	FindTeaching(ctx context.Context, userID, skillID uint) (*models.UserSkill, error)
	Create(ctx context.Context, us *models.UserSkill) error
	// Update persists proficiency and verification; ownership and direction are immutable.
	Update(ctx context.Context, us *models.UserSkill) error
	Delete(ctx context.Context, id uint) error
}

type userSkillRepository struct {
	db *gorm.DB
}

// NewUserSkillRepository returns a new UserSkillRepository implementation.
func NewUserSkillRepository(db *gorm.DB) UserSkillRepository {
	return &userSkillRepository{db: db}
}

func (r *userSkillRepository) ListByUser(ctx context.Context, userID uint, teaching *bool) ([]models.UserSkill, error) {
	q := r.db.WithContext(ctx).Preload("Skill").Where("user_id = ?", userID)
	if teaching != nil {
		q = q.Where("is_teaching = ?", *teaching)
	}
	var out []models.UserSkill
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *userSkillRepository) GetByID(ctx context.Context, id uint) (*models.UserSkill, error) {
	var us models.UserSkill
	if err := r.db.WithContext(ctx).Preload("Skill").First(&us, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("UserSkill", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &us, nil
}

func (r *userSkillRepository) FindTeaching(ctx context.Context, userID, skillID uint) (*models.UserSkill, error) {
	var us models.UserSkill
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND skill_id = ? AND is_teaching = ?", userID, skillID, true).
		First(&us).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &us, nil
}

func (r *userSkillRepository) Create(ctx context.Context, us *models.UserSkill) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(us).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Skill already added in this direction")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userSkillRepository) Update(ctx context.Context, us *models.UserSkill) error {
	res := r.db.WithContext(ctx).
		Model(&models.UserSkill{ID: us.ID}).
		Updates(map[string]any{
			"proficiency": us.Proficiency,
			"is_verified": us.IsVerified,
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("UserSkill", us.ID)
	}
	return nil
}

func (r *userSkillRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.UserSkill{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("UserSkill", id)
	}
	return nil
}
