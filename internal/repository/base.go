// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Set bundles every repository the services depend on, so a store driver
// can be swapped in one place.
type Set struct {
	Users      UserRepository
	Skills     SkillRepository
	UserSkills UserSkillRepository
	Matches    MatchRepository
	Messages   MessageRepository
	Sessions   SessionRepository
	Quizzes    QuizRepository
}

// NewGormSet builds the SQL-backed repositories on db.
func NewGormSet(db *gorm.DB) Set {
	return Set{
		Users:      NewUserRepository(db),
		Skills:     NewSkillRepository(db),
		UserSkills: NewUserSkillRepository(db),
		Matches:    NewMatchRepository(db),
		Messages:   NewMessageRepository(db),
		Sessions:   NewSessionRepository(db),
		Quizzes:    NewQuizRepository(db),
	}
}

const pgUniqueViolation = "23505"

// isUniqueConstraintError detects unique violations from postgres (via pgx)
// and sqlite.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
