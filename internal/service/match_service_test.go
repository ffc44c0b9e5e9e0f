package service

import (
	"context"
	"sync"
	"testing"

	"skillswap/internal/models"
	"skillswap/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchIDs(list []models.MatchWithUser) []uint {
	ids := make([]uint, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestDiscover_ReciprocalPairScoresFull(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").matches
	js, py := f.Skill("JavaScript"), f.Skill("Python")

	a, b := f.User("alice"), f.User("bob")
	f.Teach(a, js)
	f.Learn(a, py)
	f.Teach(b, py)
	f.Learn(b, js)

	got, err := svc.DiscoverOrGetPotentialMatches(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].User.ID)
	assert.Equal(t, 100, got[0].MatchScore)
	assert.Equal(t, models.MatchStatusPending, got[0].Status)
	assert.Equal(t, a.ID, got[0].User1ID)
	assert.Equal(t, b.ID, got[0].User2ID)
}

func TestDiscover_SingleOverlapScoreIsRelativeToRequester(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").matches
	x, y, z := f.Skill("X"), f.Skill("Y"), f.Skill("Z")

	a, b := f.User("alice"), f.User("bob")
	f.Teach(a, x)
	f.Learn(a, y)
	f.Learn(a, z)
	f.Learn(b, x)

	got, err := svc.DiscoverOrGetPotentialMatches(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 33, got[0].MatchScore) // round(1/3*100)
}

func TestDiscover_NoOverlapNeverIncluded(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").matches
	x, y := f.Skill("X"), f.Skill("Y")

	a, b := f.User("alice"), f.User("bob")
	f.Teach(a, x)
	f.Teach(b, x) // both teach, nobody learns
	f.Learn(b, y)

	got, err := svc.DiscoverOrGetPotentialMatches(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	matches, err := f.Repos.Matches.ListByUser(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Empty(t, matches, "no match should be stored without overlap")
}

func TestDiscover_SkilllessAndUnknownUsersGetEmptyList(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").matches
	x := f.Skill("X")

	a, b := f.User("alice"), f.User("bob")
	f.Teach(b, x)
	f.Learn(b, x)

	got, err := svc.DiscoverOrGetPotentialMatches(context.Background(), a.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = svc.DiscoverOrGetPotentialMatches(context.Background(), 999)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiscover_IdempotentAndKeepsStoredScore(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").matches
	ctx := context.Background()
	x, y := f.Skill("X"), f.Skill("Y")

	a, b, c := f.User("alice"), f.User("bob"), f.User("carol")
	f.Teach(a, x)
	f.Learn(b, x)
	f.Learn(c, x)

	first, err := svc.DiscoverOrGetPotentialMatches(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 100, first[0].MatchScore)

	// Growing the requester's skill set would lower a fresh score; the stored one stays.
	f.Learn(a, y)

	second, err := svc.DiscoverOrGetPotentialMatches(ctx, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, matchIDs(first), matchIDs(second))
	for _, m := range second {
		assert.Equal(t, 100, m.MatchScore)
	}
}

func TestDiscover_SortedByScoreStableOnTies(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").matches
	x, y := f.Skill("X"), f.Skill("Y")

	a := f.User("alice")
	f.Teach(a, x)
	f.Learn(a, y)

	low1 := f.User("low1")
	f.Learn(low1, x)
	high := f.User("high")
	f.Learn(high, x)
	f.Teach(high, y)
	low2 := f.User("low2")
	f.Teach(low2, y)

	got, err := svc.DiscoverOrGetPotentialMatches(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, high.ID, got[0].User.ID)
	assert.Equal(t, 100, got[0].MatchScore)
	assert.Equal(t, low1.ID, got[1].User.ID)
	assert.Equal(t, low2.ID, got[2].User.ID)
	assert.Equal(t, 50, got[1].MatchScore)
}

func TestDiscover_DecidedMatchesNeverReappear(t *testing.T) {
	for _, status := range []models.MatchStatus{models.MatchStatusAccepted, models.MatchStatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			f := testutil.NewFixture(t)
			svc := newServices(f, "").matches
			ctx := context.Background()
			x := f.Skill("X")

			a, b := f.User("alice"), f.User("bob")
			f.Teach(a, x)
			f.Learn(a, x)
			f.Teach(b, x)
			f.Learn(b, x)

			got, err := svc.DiscoverOrGetPotentialMatches(ctx, a.ID)
			require.NoError(t, err)
			require.Len(t, got, 1)

			_, err = svc.UpdateMatchStatus(ctx, b.ID, got[0].ID, status)
			require.NoError(t, err)

			for _, next := range []models.MatchStatus{models.MatchStatusPending, models.MatchStatusAccepted, models.MatchStatusRejected} {
				if next == status {
					continue
				}
				_, err = svc.UpdateMatchStatus(ctx, a.ID, got[0].ID, next)
				require.Error(t, err, "moving %s to %s", status, next)
				assert.Equal(t, 400, models.StatusCode(err))
			}

			for _, uid := range []uint{a.ID, b.ID} {
				again, err := svc.DiscoverOrGetPotentialMatches(ctx, uid)
				require.NoError(t, err)
				assert.Empty(t, again)
			}
		})
	}
}

func TestDiscover_ReverseDirectionReusesPendingMatch(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").matches
	ctx := context.Background()
	x := f.Skill("X")

	a, b := f.User("alice"), f.User("bob")
	f.Teach(a, x)
	f.Learn(b, x)

	fromA, err := svc.DiscoverOrGetPotentialMatches(ctx, a.ID)
	require.NoError(t, err)
	fromB, err := svc.DiscoverOrGetPotentialMatches(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, fromB, 1)
	assert.Equal(t, fromA[0].ID, fromB[0].ID)
	assert.Equal(t, a.ID, fromB[0].User.ID)
}

func TestDiscover_ConcurrentCallsCreateOneMatchPerPair(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").matches
	ctx := context.Background()
	x := f.Skill("X")

	a, b := f.User("alice"), f.User("bob")
	f.Teach(a, x)
	f.Learn(a, x)
	f.Teach(b, x)
	f.Learn(b, x)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(uid uint) {
			defer wg.Done()
			_, _ = svc.DiscoverOrGetPotentialMatches(ctx, uid)
		}([]uint{a.ID, b.ID}[i%2])
	}
	wg.Wait()

	matches, err := f.Repos.Matches.ListByUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestMatchService_ParticipantRules(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newServices(f, "").matches
	ctx := context.Background()

	a, b, outsider := f.User("alice"), f.User("bob"), f.User("eve")
	m := f.Match(a, b, models.MatchStatusPending)

	got, err := svc.GetMatch(ctx, b.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.User.ID)

	_, err = svc.GetMatch(ctx, outsider.ID, m.ID)
	assertAppErrorCode(t, err, models.CodeForbidden)

	_, err = svc.UpdateMatchStatus(ctx, outsider.ID, m.ID, models.MatchStatusAccepted)
	assertAppErrorCode(t, err, models.CodeForbidden)

	_, err = svc.UpdateMatchStatus(ctx, a.ID, m.ID, "maybe")
	assertValidationError(t, err)

	_, err = svc.GetMatch(ctx, a.ID, 999)
	assertAppErrorCode(t, err, models.CodeNotFound)

	list, err := svc.ListMatches(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].User.ID)
}
