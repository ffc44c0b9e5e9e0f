package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"skillswap/internal/models"
	"skillswap/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").users
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "  Ada@Example.com ", Username: "ada", Password: "secret12"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "secret12", u.Password)

	_, err = svc.Register(ctx, RegisterInput{Email: "ada@example.com", Username: "ada2", Password: "secret12"})
	assertAppErrorCode(t, err, models.CodeConflict)

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"bad email", RegisterInput{Email: "nope", Username: "valid", Password: "secret12"}},
		{"short username", RegisterInput{Email: "x@example.com", Username: "ab", Password: "secret12"}},
		{"short password", RegisterInput{Email: "x@example.com", Username: "valid", Password: "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			assertValidationError(t, err)
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").users
	ctx := context.Background()
	u := f.User("alice")

	got, err := svc.Authenticate(ctx, "ALICE@example.com", testutil.Password)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong-password")
	assertAppErrorCode(t, err, models.CodeUnauthorized)

	_, err = svc.Authenticate(ctx, "nobody@example.com", testutil.Password)
	assertAppErrorCode(t, err, models.CodeUnauthorized)
}

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "original"}, nil
	}
	svc := NewUserService(repo, nil, nil, nil)
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:   1,
		Username: strings.Repeat("x", 31),
	})
	assertValidationError(t, err)
}

func TestUserService_UpdateProfile_OnlyWhitelistedFields(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Email: "a@example.com", Username: "old", Password: "hash", CreatedAt: created}, nil
	}
	var saved *models.User
	repo.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}
	svc := NewUserService(repo, nil, nil, nil)

	user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, ProfilePicture: "/uploads/a.webp"})
	require.NoError(t, err)
	assert.Equal(t, "old", user.Username, "username unchanged when not provided")
	require.NotNil(t, saved)
	assert.Equal(t, "/uploads/a.webp", saved.ProfilePicture)
	assert.Equal(t, "a@example.com", saved.Email)
	assert.Equal(t, "hash", saved.Password)
	assert.Equal(t, created, saved.CreatedAt)
}

func TestUserService_UpdateProfile_RepoError(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("db connection error")
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
		return nil, repoErr
	}
	svc := NewUserService(repo, nil, nil, nil)
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Username: "valid"})
	assert.ErrorIs(t, err, repoErr)
}

func TestUserService_ChangePassword(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").users
	ctx := context.Background()
	u := f.User("alice")

	err := svc.ChangePassword(ctx, u.ID, "wrong", "newsecret")
	assertAppErrorCode(t, err, models.CodeUnauthorized)

	err = svc.ChangePassword(ctx, u.ID, testutil.Password, "123")
	assertValidationError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, u.ID, testutil.Password, "newsecret"))
	_, err = svc.Authenticate(ctx, u.Email, "newsecret")
	assert.NoError(t, err)
}

func TestUserService_Stats(t *testing.T) {
	f := testutil.NewFixture(t)
	s := newServices(f, "")
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.users.now = func() time.Time { return now }

	a, b, c := f.User("alice"), f.User("bob"), f.User("carol")
	x, y := f.Skill("X"), f.Skill("Y")
	f.Teach(a, x)
	f.Teach(a, y)
	f.Learn(a, y)

	accepted := f.Match(a, b, models.MatchStatusAccepted)
	f.Match(c, a, models.MatchStatusPending)

	for _, sess := range []models.Session{
		{MatchID: accepted.ID, Title: "future", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), Status: models.SessionStatusScheduled},
		{MatchID: accepted.ID, Title: "past", StartTime: now.Add(-2 * time.Hour), EndTime: now.Add(-time.Hour), Status: models.SessionStatusScheduled},
		{MatchID: accepted.ID, Title: "cancelled", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), Status: models.SessionStatusCancelled},
	} {
		sess := sess
		require.NoError(t, f.Repos.Sessions.Create(ctx, &sess))
	}

	stats, err := s.users.Stats(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.UserStats{MatchesCount: 1, TeachingCount: 2, LearningCount: 1, SessionsCount: 1}, stats)
}
