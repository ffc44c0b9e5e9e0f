package service

import (
	"context"
	"testing"
	"time"

	"skillswap/internal/models"
	"skillswap/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_Create(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").sessions
	ctx := context.Background()
	a, b, eve := f.User("alice"), f.User("bob"), f.User("eve")
	accepted := f.Match(a, b, models.MatchStatusAccepted)
	pending := f.Match(a, eve, models.MatchStatusPending)

	start := time.Now().Add(24 * time.Hour)
	in := CreateSessionInput{UserID: a.ID, MatchID: accepted.ID, Title: "Intro to Go", StartTime: start, EndTime: start.Add(time.Hour)}

	sess, err := svc.CreateSession(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusScheduled, sess.Status)
	assert.NotZero(t, sess.ID)

	bad := in
	bad.EndTime = start.Add(-time.Minute)
	_, err = svc.CreateSession(ctx, bad)
	assertValidationError(t, err)

	bad = in
	bad.MatchID = pending.ID
	_, err = svc.CreateSession(ctx, bad)
	assertValidationError(t, err)

	bad = in
	bad.UserID = eve.ID
	_, err = svc.CreateSession(ctx, bad)
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func TestSessionService_UpdateWhitelistedFields(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").sessions
	ctx := context.Background()
	a, b, eve := f.User("alice"), f.User("bob"), f.User("eve")
	m := f.Match(a, b, models.MatchStatusAccepted)

	start := time.Now().Add(time.Hour)
	sess, err := svc.CreateSession(ctx, CreateSessionInput{UserID: a.ID, MatchID: m.ID, Title: "t", StartTime: start, EndTime: start.Add(time.Hour)})
	require.NoError(t, err)

	done := models.SessionStatusCompleted
	title := "Renamed"
	got, err := svc.UpdateSession(ctx, UpdateSessionInput{UserID: b.ID, SessionID: sess.ID, Title: &title, Status: &done})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, done, got.Status)
	assert.Equal(t, m.ID, got.MatchID)

	early := start.Add(-2 * time.Hour)
	_, err = svc.UpdateSession(ctx, UpdateSessionInput{UserID: a.ID, SessionID: sess.ID, EndTime: &early})
	assertValidationError(t, err)

	bogus := models.SessionStatus("postponed")
	_, err = svc.UpdateSession(ctx, UpdateSessionInput{UserID: a.ID, SessionID: sess.ID, Status: &bogus})
	assertValidationError(t, err)

	_, err = svc.UpdateSession(ctx, UpdateSessionInput{UserID: eve.ID, SessionID: sess.ID, Title: &title})
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func TestSessionService_ListAndUpcoming(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").sessions
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a, b := f.User("alice"), f.User("bob")
	m := f.Match(a, b, models.MatchStatusAccepted)
	for _, s := range []models.Session{
		{MatchID: m.ID, Title: "later", StartTime: now.Add(48 * time.Hour), EndTime: now.Add(49 * time.Hour)},
		{MatchID: m.ID, Title: "past", StartTime: now.Add(-48 * time.Hour), EndTime: now.Add(-47 * time.Hour)},
		{MatchID: m.ID, Title: "soon", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)},
	} {
		s := s
		require.NoError(t, f.Repos.Sessions.Create(ctx, &s))
	}

	all, err := svc.ListSessions(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	up, err := svc.UpcomingSessions(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, up, 2)
	assert.Equal(t, "soon", up[0].Title)
	assert.Equal(t, "later", up[1].Title)
	require.NotNil(t, up[0].Match)
	require.NotNil(t, up[0].Match.User)
	assert.Equal(t, a.ID, up[0].Match.User.ID)
}
