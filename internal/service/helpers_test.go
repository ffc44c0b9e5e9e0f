package service

import (
	"errors"
	"testing"

	"skillswap/internal/featureflags"
	"skillswap/internal/models"
	"skillswap/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

type services struct {
	users    *UserService
	skills   *SkillService
	matches  *MatchService
	messages *MessageService
	sessions *SessionService
	quizzes  *QuizService
}

func newServices(f *testutil.Fixture, flags string) services {
	r := f.Repos
	return services{
		users:    NewUserService(r.Users, r.UserSkills, r.Matches, r.Sessions),
		skills:   NewSkillService(r.Skills, r.UserSkills, r.Quizzes),
		matches:  NewMatchService(r.Users, r.UserSkills, r.Matches),
		messages: NewMessageService(r.Matches, r.Messages, featureflags.NewManager(flags)),
		sessions: NewSessionService(r.Users, r.Matches, r.Sessions),
		quizzes:  NewQuizService(r.Quizzes, r.UserSkills),
	}
}
