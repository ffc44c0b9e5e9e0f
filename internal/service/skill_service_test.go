package service

import (
	"context"
	"testing"

	"skillswap/internal/models"
	"skillswap/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillService_AddUserSkill(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").skills
	ctx := context.Background()
	u := f.User("alice")
	sk := f.Skill("Go")

	us, err := svc.AddUserSkill(ctx, AddUserSkillInput{UserID: u.ID, SkillID: sk.ID, Proficiency: models.ProficiencyAdvanced, IsTeaching: true})
	require.NoError(t, err)
	require.NotNil(t, us.Skill)
	assert.Equal(t, "Go", us.Skill.Name)
	assert.False(t, us.IsVerified)

	// Same skill, other direction is fine; same direction twice is not.
	_, err = svc.AddUserSkill(ctx, AddUserSkillInput{UserID: u.ID, SkillID: sk.ID, Proficiency: models.ProficiencyBeginner})
	require.NoError(t, err)
	_, err = svc.AddUserSkill(ctx, AddUserSkillInput{UserID: u.ID, SkillID: sk.ID, Proficiency: models.ProficiencyBeginner, IsTeaching: true})
	assertValidationError(t, err)

	_, err = svc.AddUserSkill(ctx, AddUserSkillInput{UserID: u.ID, SkillID: 999, Proficiency: models.ProficiencyBeginner})
	assertValidationError(t, err)

	_, err = svc.AddUserSkill(ctx, AddUserSkillInput{UserID: u.ID, SkillID: sk.ID, Proficiency: "guru"})
	assertValidationError(t, err)

	teaching := true
	list, err := svc.ListUserSkills(ctx, u.ID, &teaching)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSkillService_OwnershipRules(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").skills
	ctx := context.Background()
	owner, other := f.User("alice"), f.User("bob")
	us := f.Teach(owner, f.Skill("Go"))

	_, err := svc.UpdateUserSkill(ctx, UpdateUserSkillInput{UserID: other.ID, UserSkillID: us.ID, Proficiency: models.ProficiencyAdvanced})
	assertAppErrorCode(t, err, models.CodeForbidden)
	assertAppErrorCode(t, svc.RemoveUserSkill(ctx, other.ID, us.ID), models.CodeForbidden)

	updated, err := svc.UpdateUserSkill(ctx, UpdateUserSkillInput{UserID: owner.ID, UserSkillID: us.ID, Proficiency: models.ProficiencyAdvanced})
	require.NoError(t, err)
	assert.Equal(t, models.ProficiencyAdvanced, updated.Proficiency)

	require.NoError(t, svc.RemoveUserSkill(ctx, owner.ID, us.ID))
	assertAppErrorCode(t, svc.RemoveUserSkill(ctx, owner.ID, us.ID), models.CodeNotFound)
}

func TestSkillService_ListSkillQuizzes(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").skills
	ctx := context.Background()
	sk := f.Skill("Go")
	f.Quiz(sk, 2)

	quizzes, err := svc.ListSkillQuizzes(ctx, sk.ID)
	require.NoError(t, err)
	assert.Len(t, quizzes, 1)

	_, err = svc.ListSkillQuizzes(ctx, 999)
	assert.True(t, models.IsNotFound(err))
}
