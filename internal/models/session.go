package models

import (
	"time"
)

// SessionStatus tracks whether a scheduled session took place.
type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// Valid reports whether s is a known session status.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusScheduled, SessionStatusCompleted, SessionStatusCancelled:
		return true
	}
	return false
}

// Session is a teaching session scheduled between the two users of a match.
type Session struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	MatchID     uint          `gorm:"not null;index" json:"matchId"`
	Title       string        `gorm:"not null" json:"title"`
	Description string        `json:"description,omitempty"`
	StartTime   time.Time     `gorm:"not null;index" json:"startTime"`
	EndTime     time.Time     `gorm:"not null" json:"endTime"`
	Status      SessionStatus `gorm:"type:varchar(20);default:'scheduled'" json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// TableName specifies the table name for GORM
func (Session) TableName() string {
	return "sessions"
}

// SessionDetail is a session joined with its match and the counterpart user.
type SessionDetail struct {
	Session
	Match *MatchWithUser `json:"match"`
}
