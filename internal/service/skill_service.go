package service

import (
	"context"

	"skillswap/internal/models"
	"skillswap/internal/repository"
)

type SkillService struct {
	skillRepo     repository.SkillRepository
	userSkillRepo repository.UserSkillRepository
	quizRepo      repository.QuizRepository
}

type AddUserSkillInput struct {
	UserID      uint
	SkillID     uint
	Proficiency models.Proficiency
	IsTeaching  bool
}

// UpdateUserSkillInput carries the one field owners may edit. Verification
// only changes through quiz attempts.
type UpdateUserSkillInput struct {
	UserID      uint
	UserSkillID uint
	Proficiency models.Proficiency
}

func NewSkillService(
	skillRepo repository.SkillRepository,
	userSkillRepo repository.UserSkillRepository,
	quizRepo repository.QuizRepository,
) *SkillService {
	return &SkillService{skillRepo: skillRepo, userSkillRepo: userSkillRepo, quizRepo: quizRepo}
}

func (s *SkillService) ListSkills(ctx context.Context) ([]models.Skill, error) {
	return s.skillRepo.List(ctx)
}

func (s *SkillService) GetSkill(ctx context.Context, id uint) (*models.Skill, error) {
	return s.skillRepo.GetByID(ctx, id)
}

// ListSkillQuizzes returns the verification quizzes of a catalog skill.
func (s *SkillService) ListSkillQuizzes(ctx context.Context, skillID uint) ([]models.Quiz, error) {
	if _, err := s.skillRepo.GetByID(ctx, skillID); err != nil {
		return nil, err
	}
	return s.quizRepo.ListBySkill(ctx, skillID)
}

// ListUserSkills returns the user's skills; a nil teaching filter returns both directions.
func (s *SkillService) ListUserSkills(ctx context.Context, userID uint, teaching *bool) ([]models.UserSkill, error) {
	return s.userSkillRepo.ListByUser(ctx, userID, teaching)
}

func (s *SkillService) AddUserSkill(ctx context.Context, in AddUserSkillInput) (*models.UserSkill, error) {
	if in.SkillID == 0 {
		return nil, models.NewValidationError("skillId is required")
	}
	if !in.Proficiency.Valid() {
		return nil, models.NewValidationError("proficiency must be beginner, intermediate or advanced")
	}

	skill, err := s.skillRepo.GetByID(ctx, in.SkillID)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewValidationError("Unknown skill")
		}
		return nil, err
	}

	us := &models.UserSkill{
		UserID:      in.UserID,
		SkillID:     in.SkillID,
		Proficiency: in.Proficiency,
		IsTeaching:  in.IsTeaching,
	}
	if err := s.userSkillRepo.Create(ctx, us); err != nil {
		return nil, err
	}
	us.Skill = skill
	return us, nil
}

func (s *SkillService) UpdateUserSkill(ctx context.Context, in UpdateUserSkillInput) (*models.UserSkill, error) {
	if !in.Proficiency.Valid() {
		return nil, models.NewValidationError("proficiency must be beginner, intermediate or advanced")
	}
	us, err := s.ownedUserSkill(ctx, in.UserID, in.UserSkillID)
	if err != nil {
		return nil, err
	}
	us.Proficiency = in.Proficiency
	if err := s.userSkillRepo.Update(ctx, us); err != nil {
		return nil, err
	}
	return us, nil
}

func (s *SkillService) RemoveUserSkill(ctx context.Context, userID, userSkillID uint) error {
	if _, err := s.ownedUserSkill(ctx, userID, userSkillID); err != nil {
		return err
	}
	return s.userSkillRepo.Delete(ctx, userSkillID)
}

func (s *SkillService) ownedUserSkill(ctx context.Context, userID, id uint) (*models.UserSkill, error) {
	us, err := s.userSkillRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if us.UserID != userID {
		return nil, models.NewForbiddenError("You can only modify your own skills")
	}
	return us, nil
}
