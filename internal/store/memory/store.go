// Package memory provides a process-local implementation of the repository
// interfaces. It is the default store: data lives as long as the process.
package memory

import (
	"sort"
	"sync"
	"time"

	"skillswap/internal/models"
	"skillswap/internal/repository"
)

// Store holds every record kind behind one lock. Records are stored by value
// and copied on the way in and out, so callers never share memory with the
// store.
type Store struct {
	mu sync.RWMutex

	users      map[uint]models.User
	skills     map[uint]models.Skill
	userSkills map[uint]models.UserSkill
	matches    map[uint]models.Match
	messages   map[uint]models.Message
	sessions   map[uint]models.Session
	quizzes    map[uint]models.Quiz
	questions  map[uint]models.QuizQuestion
	attempts   map[uint]models.QuizAttempt

	seq map[string]uint

	now func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:      make(map[uint]models.User),
		skills:     make(map[uint]models.Skill),
		userSkills: make(map[uint]models.UserSkill),
		matches:    make(map[uint]models.Match),
		messages:   make(map[uint]models.Message),
		sessions:   make(map[uint]models.Session),
		quizzes:    make(map[uint]models.Quiz),
		questions:  make(map[uint]models.QuizQuestion),
		attempts:   make(map[uint]models.QuizAttempt),
		seq:        make(map[string]uint),
		now:        time.Now,
	}
}

// Set exposes the store through the repository interfaces.
func (s *Store) Set() repository.Set {
	return repository.Set{
		Users:      &userRepo{s},
		Skills:     &skillRepo{s},
		UserSkills: &userSkillRepo{s},
		Matches:    &matchRepo{s},
		Messages:   &messageRepo{s},
		Sessions:   &sessionRepo{s},
		Quizzes:    &quizRepo{s},
	}
}

// nextID must be called with mu held for writing. IDs start at 1 per kind.
func (s *Store) nextID(kind string) uint {
	s.seq[kind]++
	return s.seq[kind]
}

// sortedKeys returns the ids of m in ascending order.
func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
