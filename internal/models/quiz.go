package models

import (
	"time"
)

// Quiz verifies a teaching skill. A score of PassingScore or more out of 10 passes.
type Quiz struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	SkillID      uint   `gorm:"not null;index" json:"skillId"`
	Title        string `gorm:"not null" json:"title"`
	PassingScore int    `gorm:"not null;default:7" json:"passingScore"`
}

// TableName specifies the table name for GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion is a multiple-choice question. The correct index is never
// serialized to clients.
type QuizQuestion struct {
	ID                 uint     `gorm:"primaryKey" json:"id"`
	QuizID             uint     `gorm:"not null;index" json:"quizId"`
	QuestionText       string   `gorm:"type:text;not null" json:"questionText"`
	Options            []string `gorm:"serializer:json" json:"options"`
	CorrectAnswerIndex int      `gorm:"not null" json:"-"`
}

// TableName specifies the table name for GORM
func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizAttempt records one user's score on a quiz.
type QuizAttempt struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	QuizID      uint      `gorm:"not null;index" json:"quizId"`
	Score       int       `gorm:"not null" json:"score"`
	Passed      bool      `gorm:"not null" json:"passed"`
	AttemptedAt time.Time `gorm:"autoCreateTime" json:"attemptedAt"`
}

// TableName specifies the table name for GORM
func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
