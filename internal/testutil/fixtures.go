// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/store/memory"

	"golang.org/x/crypto/bcrypt"
)

// Password is the plain-text password of every fixture user.
const Password = "password123"

// Fixture builds records in a fresh in-memory store.
type Fixture struct {
	t     testing.TB
	Repos repository.Set
	hash  string
}

// NewFixture returns a fixture backed by a new memory store.
func NewFixture(t testing.TB) *Fixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &Fixture{t: t, Repos: memory.New().Set(), hash: string(hash)}
}

// User creates a user named name with email name@example.com.
func (f *Fixture) User(name string) *models.User {
	f.t.Helper()
	u := &models.User{
		Email:    strings.ToLower(name) + "@example.com",
		Username: name,
		Password: f.hash,
	}
	if err := f.Repos.Users.Create(context.Background(), u); err != nil {
		f.t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

// Skill adds a catalog skill.
func (f *Fixture) Skill(name string) *models.Skill {
	f.t.Helper()
	s := &models.Skill{Name: name, Description: name + " skills", Category: "General"}
	if err := f.Repos.Skills.Create(context.Background(), s); err != nil {
		f.t.Fatalf("create skill %s: %v", name, err)
	}
	return s
}

// Teach records that u teaches s.
func (f *Fixture) Teach(u *models.User, s *models.Skill) *models.UserSkill {
	return f.userSkill(u, s, true)
}

// Learn records that u wants to learn s.
func (f *Fixture) Learn(u *models.User, s *models.Skill) *models.UserSkill {
	return f.userSkill(u, s, false)
}

func (f *Fixture) userSkill(u *models.User, s *models.Skill, teaching bool) *models.UserSkill {
	f.t.Helper()
	us := &models.UserSkill{UserID: u.ID, SkillID: s.ID, Proficiency: models.ProficiencyIntermediate, IsTeaching: teaching}
	if err := f.Repos.UserSkills.Create(context.Background(), us); err != nil {
		f.t.Fatalf("add user skill: %v", err)
	}
	return us
}

// Match stores a match between a and b with the given status.
func (f *Fixture) Match(a, b *models.User, status models.MatchStatus) *models.Match {
	f.t.Helper()
	m := &models.Match{User1ID: a.ID, User2ID: b.ID, MatchScore: 50, Status: status}
	if err := f.Repos.Matches.Create(context.Background(), m); err != nil {
		f.t.Fatalf("create match: %v", err)
	}
	return m
}

// Quiz adds a quiz for s whose correct answer is always option 0.
func (f *Fixture) Quiz(s *models.Skill, questions int) *models.Quiz {
	f.t.Helper()
	ctx := context.Background()
	q := &models.Quiz{SkillID: s.ID, Title: s.Name + " Verification", PassingScore: 7}
	if err := f.Repos.Quizzes.CreateQuiz(ctx, q); err != nil {
		f.t.Fatalf("create quiz: %v", err)
	}
	for i := 0; i < questions; i++ {
		qq := &models.QuizQuestion{
			QuizID:             q.ID,
			QuestionText:       "Question",
			Options:            []string{"right", "wrong", "wrong", "wrong"},
			CorrectAnswerIndex: 0,
		}
		if err := f.Repos.Quizzes.CreateQuestion(ctx, qq); err != nil {
			f.t.Fatalf("create question: %v", err)
		}
	}
	return q
}

// TinyPNG returns an in-memory PNG byte slice with the requested dimensions.
func TinyPNG(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%max(h, 1), color.RGBA{R: uint8(x), G: 80, B: 160, A: 255})
	}
	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
