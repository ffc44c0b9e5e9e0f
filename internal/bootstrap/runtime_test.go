package bootstrap

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"skillswap/internal/config"
	"skillswap/internal/repository"
	"skillswap/internal/seed"
	"skillswap/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_Memory(t *testing.T) {
	repos, db, err := OpenStore(&config.Config{StoreDriver: config.StoreMemory})
	require.NoError(t, err)
	assert.Nil(t, db)
	assert.NotNil(t, repos.Users)
	assert.NotNil(t, repos.Quizzes)
}

func TestInitRuntime_SeedsCatalogWithoutRedis(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.StoreMemory}
	rt, err := InitRuntime(context.Background(), cfg, Options{SeedCatalog: true, DemoUsers: 3})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	assert.Nil(t, rt.Redis)
	skills, err := rt.Repos.Skills.List(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, skills)

	users, err := rt.Repos.Users.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

// discoverAll runs discovery for every user and renders each result as
// "requester->counterpart:score" so runs on different stores can be compared.
func discoverAll(t *testing.T, repos repository.Set) []string {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, seed.Catalog(ctx, repos))
	_, err := seed.DemoUsers(ctx, repos, seed.DemoOptions{Count: 12, Seed: 42})
	require.NoError(t, err)

	svc := service.NewMatchService(repos.Users, repos.UserSkills, repos.Matches)
	users, err := repos.Users.List(ctx)
	require.NoError(t, err)

	var out []string
	for _, u := range users {
		list, err := svc.DiscoverOrGetPotentialMatches(ctx, u.ID)
		require.NoError(t, err)
		for _, m := range list {
			out = append(out, fmt.Sprintf("%s->%s:%d", u.Username, m.User.Username, m.MatchScore))
		}
	}
	sort.Strings(out)
	return out
}

func TestDiscovery_SameResultsOnMemoryAndSQLite(t *testing.T) {
	memRepos, _, err := OpenStore(&config.Config{StoreDriver: config.StoreMemory})
	require.NoError(t, err)

	sqlRepos, db, err := OpenStore(&config.Config{
		StoreDriver: config.StoreSQLite,
		SQLitePath:  ":memory:",
		Env:         "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	fromMemory := discoverAll(t, memRepos)
	fromSQLite := discoverAll(t, sqlRepos)
	require.NotEmpty(t, fromMemory)
	assert.Equal(t, fromMemory, fromSQLite)
}
