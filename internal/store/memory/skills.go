package memory

import (
	"context"

	"skillswap/internal/models"
)

type skillRepo struct{ s *Store }

func (r *skillRepo) List(_ context.Context) ([]models.Skill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Skill, 0, len(r.s.skills))
	for _, id := range sortedKeys(r.s.skills) {
		out = append(out, r.s.skills[id])
	}
	return out, nil
}

func (r *skillRepo) GetByID(_ context.Context, id uint) (*models.Skill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sk, ok := r.s.skills[id]
	if !ok {
		return nil, models.NewNotFoundError("Skill", id)
	}
	return &sk, nil
}

func (r *skillRepo) Create(_ context.Context, skill *models.Skill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sk := range r.s.skills {
		if sk.Name == skill.Name {
			return models.NewConflictError("Skill already exists")
		}
	}
	skill.ID = r.s.nextID("skills")
	r.s.skills[skill.ID] = *skill
	return nil
}

type userSkillRepo struct{ s *Store }

// withSkill must be called with mu held.
func (r *userSkillRepo) withSkill(us models.UserSkill) models.UserSkill {
	if sk, ok := r.s.skills[us.SkillID]; ok {
		us.Skill = &sk
	}
	return us
}

func (r *userSkillRepo) ListByUser(_ context.Context, userID uint, teaching *bool) ([]models.UserSkill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.UserSkill{}
	for _, id := range sortedKeys(r.s.userSkills) {
		us := r.s.userSkills[id]
		if us.UserID != userID {
			continue
		}
		if teaching != nil && us.IsTeaching != *teaching {
			continue
		}
		out = append(out, r.withSkill(us))
	}
	return out, nil
}

func (r *userSkillRepo) GetByID(_ context.Context, id uint) (*models.UserSkill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	us, ok := r.s.userSkills[id]
	if !ok {
		return nil, models.NewNotFoundError("UserSkill", id)
	}
	us = r.withSkill(us)
	return &us, nil
}

func (r *userSkillRepo) FindTeaching(_ context.Context, userID, skillID uint) (*models.UserSkill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, id := range sortedKeys(r.s.userSkills) {
		us := r.s.userSkills[id]
		if us.UserID == userID && us.SkillID == skillID && us.IsTeaching {
			return &us, nil
		}
	}
	return nil, nil
}

func (r *userSkillRepo) Create(_ context.Context, us *models.UserSkill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.userSkills {
		if cur.UserID == us.UserID && cur.SkillID == us.SkillID && cur.IsTeaching == us.IsTeaching {
			return models.NewValidationError("Skill already added in this direction")
		}
	}
	us.ID = r.s.nextID("user_skills")
	stored := *us
	stored.Skill = nil
	r.s.userSkills[us.ID] = stored
	return nil
}

func (r *userSkillRepo) Update(_ context.Context, us *models.UserSkill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.userSkills[us.ID]
	if !ok {
		return models.NewNotFoundError("UserSkill", us.ID)
	}
	cur.Proficiency = us.Proficiency
	cur.IsVerified = us.IsVerified
	r.s.userSkills[us.ID] = cur
	return nil
}

func (r *userSkillRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.userSkills[id]; !ok {
		return models.NewNotFoundError("UserSkill", id)
	}
	delete(r.s.userSkills, id)
	return nil
}
