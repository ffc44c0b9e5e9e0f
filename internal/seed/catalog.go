// Package seed loads the built-in skill catalog and optional demo users into
// a repository set.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/repository"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// CatalogFile is the shape of catalog.yaml.
type CatalogFile struct {
	Skills []CatalogSkill `yaml:"skills"`
}

// CatalogSkill is one skill with its verification quiz.
type CatalogSkill struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Category    string       `yaml:"category"`
	Quiz        *CatalogQuiz `yaml:"quiz"`
}

// CatalogQuiz describes a quiz and its questions.
type CatalogQuiz struct {
	Title        string            `yaml:"title"`
	PassingScore int               `yaml:"passingScore"`
	Questions    []CatalogQuestion `yaml:"questions"`
}

// CatalogQuestion is a multiple-choice question; Correct indexes Options.
type CatalogQuestion struct {
	Text    string   `yaml:"text"`
	Options []string `yaml:"options"`
	Correct int      `yaml:"correct"`
}

// ParseCatalog decodes and checks a catalog document.
func ParseCatalog(data []byte) (*CatalogFile, error) {
	var f CatalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for _, s := range f.Skills {
		if s.Name == "" {
			return nil, fmt.Errorf("parse catalog: skill without a name")
		}
		if s.Quiz == nil {
			continue
		}
		for i, q := range s.Quiz.Questions {
			if q.Correct < 0 || q.Correct >= len(q.Options) {
				return nil, fmt.Errorf("parse catalog: %s question %d: correct index %d out of range", s.Name, i+1, q.Correct)
			}
		}
	}
	return &f, nil
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*CatalogFile, error) {
	return ParseCatalog(catalogYAML)
}

// Catalog inserts the embedded skills and quizzes. It does nothing when the
// store already holds skills, so it is safe to run on every start.
func Catalog(ctx context.Context, repos repository.Set) error {
	f, err := DefaultCatalog()
	if err != nil {
		return err
	}
	return LoadCatalog(ctx, repos, f)
}

// LoadCatalog inserts f unless skills already exist.
func LoadCatalog(ctx context.Context, repos repository.Set, f *CatalogFile) error {
	existing, err := repos.Skills.List(ctx)
	if err != nil {
		return fmt.Errorf("list skills: %w", err)
	}
	if len(existing) > 0 {
		middleware.Logger.Debug("skill catalog already present", "skills", len(existing))
		return nil
	}

	questions := 0
	for _, cs := range f.Skills {
		skill := &models.Skill{Name: cs.Name, Description: cs.Description, Category: cs.Category}
		if err := repos.Skills.Create(ctx, skill); err != nil {
			return fmt.Errorf("create skill %q: %w", cs.Name, err)
		}
		if cs.Quiz == nil {
			continue
		}

		passing := cs.Quiz.PassingScore
		if passing == 0 {
			passing = 7
		}
		quiz := &models.Quiz{SkillID: skill.ID, Title: cs.Quiz.Title, PassingScore: passing}
		if err := repos.Quizzes.CreateQuiz(ctx, quiz); err != nil {
			return fmt.Errorf("create quiz for %q: %w", cs.Name, err)
		}
		for _, cq := range cs.Quiz.Questions {
			q := &models.QuizQuestion{
				QuizID:             quiz.ID,
				QuestionText:       cq.Text,
				Options:            cq.Options,
				CorrectAnswerIndex: cq.Correct,
			}
			if err := repos.Quizzes.CreateQuestion(ctx, q); err != nil {
				return fmt.Errorf("create question for %q: %w", cs.Name, err)
			}
			questions++
		}
	}

	middleware.Logger.Info("seeded skill catalog", "skills", len(f.Skills), "questions", questions)
	return nil
}
