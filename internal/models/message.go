package models

import (
	"time"
)

// MessageType is the kind of content a chat message carries.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeVoice MessageType = "voice"
)

// Valid reports whether t is a known message type.
func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeVoice:
		return true
	}
	return false
}

// Message is a chat line exchanged inside a match.
type Message struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	MatchID     uint        `gorm:"not null;index:idx_messages_match_created" json:"matchId"`
	SenderID    uint        `gorm:"not null" json:"senderId"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	MessageType MessageType `gorm:"type:varchar(10);default:'text'" json:"messageType"`
	MediaURL    string      `json:"mediaUrl,omitempty"`
	CreatedAt   time.Time   `gorm:"index:idx_messages_match_created" json:"createdAt"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

// TableName specifies the table name for GORM
func (Message) TableName() string {
	return "messages"
}
