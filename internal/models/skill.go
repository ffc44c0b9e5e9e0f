package models

// Proficiency describes how well a user knows a skill.
type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
)

// Valid reports whether p is one of the known proficiency levels.
func (p Proficiency) Valid() bool {
	switch p {
	case ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced:
		return true
	}
	return false
}

// Skill is an entry in the static skill catalog.
type Skill struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
	Category    string `gorm:"index" json:"category"`
}

// TableName specifies the table name for GORM
func (Skill) TableName() string {
	return "skills"
}

// UserSkill links a user to a skill they either teach or want to learn.
// IsVerified only flips through a passing quiz attempt.
type UserSkill struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"not null;uniqueIndex:idx_user_skill_direction" json:"userId"`
	SkillID     uint        `gorm:"not null;uniqueIndex:idx_user_skill_direction" json:"skillId"`
	Proficiency Proficiency `gorm:"type:varchar(20);not null" json:"proficiency"`
	IsTeaching  bool        `gorm:"not null;uniqueIndex:idx_user_skill_direction" json:"isTeaching"`
	IsVerified  bool        `gorm:"not null;default:false" json:"isVerified"`

	Skill *Skill `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
}

// TableName specifies the table name for GORM
func (UserSkill) TableName() string {
	return "user_skills"
}
