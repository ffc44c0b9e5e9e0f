package models

import (
	"time"
)

// MatchStatus represents the lifecycle state of a match.
type MatchStatus string

const (
	// MatchStatusPending is assigned when discovery first pairs two users.
	MatchStatusPending MatchStatus = "pending"
	// MatchStatusAccepted marks a match both users are working with.
	MatchStatusAccepted MatchStatus = "accepted"
	// MatchStatusRejected hides the pair from future discovery.
	MatchStatusRejected MatchStatus = "rejected"
)

// Valid reports whether s is a known match status.
func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusPending, MatchStatusAccepted, MatchStatusRejected:
		return true
	}
	return false
}

// Match pairs two users. The stored order of User1ID and User2ID is the
// discovery direction; at most one Match exists per unordered pair.
type Match struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	User1ID    uint        `gorm:"not null;index" json:"user1Id"`
	User2ID    uint        `gorm:"not null;index" json:"user2Id"`
	MatchScore int         `gorm:"not null" json:"matchScore"`
	Status     MatchStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// TableName specifies the table name for GORM
func (Match) TableName() string {
	return "matches"
}

// HasUser reports whether userID is one of the two participants.
func (m *Match) HasUser(userID uint) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// OtherUserID returns the participant that is not userID.
func (m *Match) OtherUserID(userID uint) uint {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// MatchWithUser is a match joined with the counterpart of the requesting user.
type MatchWithUser struct {
	Match
	User *User `json:"user"`
}
