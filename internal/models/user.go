// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered SkillSwap member.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Username       string    `gorm:"not null" json:"username"`
	Password       string    `gorm:"not null" json:"-"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// UserStats summarizes a user's activity for the dashboard.
type UserStats struct {
	MatchesCount  int `json:"matchesCount"`
	TeachingCount int `json:"teachingCount"`
	LearningCount int `json:"learningCount"`
	SessionsCount int `json:"sessionsCount"`
}
