package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password of every generated demo user.
const DemoPassword = "password123"

var proficiencies = []models.Proficiency{
	models.ProficiencyBeginner,
	models.ProficiencyIntermediate,
	models.ProficiencyAdvanced,
}

// DemoOptions tunes DemoUsers.
type DemoOptions struct {
	Count int
	// Seed makes the generated users reproducible; zero uses the clock.
	Seed int64
}

// DemoUsers creates opts.Count users, each teaching and learning one or two
// random catalog skills. Skills must already be seeded.
func DemoUsers(ctx context.Context, repos repository.Set, opts DemoOptions) ([]models.User, error) {
	if opts.Count <= 0 {
		return nil, nil
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(seed)
	r := rand.New(rand.NewSource(seed))

	skills, err := repos.Skills.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	if len(skills) < 2 {
		return nil, fmt.Errorf("demo users need at least 2 catalog skills, found %d", len(skills))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	existing, err := repos.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	offset := len(existing)

	users := make([]models.User, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		username := fmt.Sprintf("%s_%d", strings.ToLower(faker.FirstName()), offset+i+1)
		u := &models.User{
			Email:          username + "@demo.skillswap.local",
			Username:       username,
			Password:       string(hash),
			ProfilePicture: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", faker.UUID()),
		}
		if err := repos.Users.Create(ctx, u); err != nil {
			return users, fmt.Errorf("create demo user %s: %w", username, err)
		}

		// Teaching and learning sets are disjoint picks from one shuffle.
		perm := r.Perm(len(skills))
		nTeach := 1 + r.Intn(2)
		nLearn := 1 + r.Intn(2)
		if nTeach+nLearn > len(perm) {
			nTeach, nLearn = 1, 1
		}
		for j := 0; j < nTeach+nLearn; j++ {
			us := &models.UserSkill{
				UserID:      u.ID,
				SkillID:     skills[perm[j]].ID,
				Proficiency: proficiencies[r.Intn(len(proficiencies))],
				IsTeaching:  j < nTeach,
			}
			if err := repos.UserSkills.Create(ctx, us); err != nil {
				return users, fmt.Errorf("add skill for %s: %w", username, err)
			}
		}
		users = append(users, *u)
	}

	middleware.Logger.Info("seeded demo users", "count", len(users), "password", DemoPassword)
	return users, nil
}
