package memory

import (
	"context"
	"sort"

	"skillswap/internal/models"
)

type sessionRepo struct{ s *Store }

func (r *sessionRepo) ListByMatches(_ context.Context, matchIDs []uint) ([]models.Session, error) {
	want := make(map[uint]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		want[id] = struct{}{}
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Session{}
	for _, id := range sortedKeys(r.s.sessions) {
		sess := r.s.sessions[id]
		if _, ok := want[sess.MatchID]; ok {
			out = append(out, sess)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *sessionRepo) GetByID(_ context.Context, id uint) (*models.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, models.NewNotFoundError("Session", id)
	}
	return &sess, nil
}

func (r *sessionRepo) Create(_ context.Context, sess *models.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess.ID = r.s.nextID("sessions")
	if sess.Status == "" {
		sess.Status = models.SessionStatusScheduled
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = r.s.now()
	}
	r.s.sessions[sess.ID] = *sess
	return nil
}

func (r *sessionRepo) Update(_ context.Context, sess *models.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.sessions[sess.ID]
	if !ok {
		return models.NewNotFoundError("Session", sess.ID)
	}
	cur.Title = sess.Title
	cur.Description = sess.Description
	cur.StartTime = sess.StartTime
	cur.EndTime = sess.EndTime
	cur.Status = sess.Status
	r.s.sessions[sess.ID] = cur
	return nil
}

type quizRepo struct{ s *Store }

func (r *quizRepo) GetByID(_ context.Context, id uint) (*models.Quiz, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q, ok := r.s.quizzes[id]
	if !ok {
		return nil, models.NewNotFoundError("Quiz", id)
	}
	return &q, nil
}

func (r *quizRepo) ListBySkill(_ context.Context, skillID uint) ([]models.Quiz, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Quiz{}
	for _, id := range sortedKeys(r.s.quizzes) {
		if q := r.s.quizzes[id]; q.SkillID == skillID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *quizRepo) ListQuestions(_ context.Context, quizID uint) ([]models.QuizQuestion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.QuizQuestion{}
	for _, id := range sortedKeys(r.s.questions) {
		if q := r.s.questions[id]; q.QuizID == quizID {
			q.Options = append([]string(nil), q.Options...)
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *quizRepo) CreateQuiz(_ context.Context, q *models.Quiz) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q.ID = r.s.nextID("quizzes")
	if q.PassingScore == 0 {
		q.PassingScore = 7
	}
	r.s.quizzes[q.ID] = *q
	return nil
}

func (r *quizRepo) CreateQuestion(_ context.Context, q *models.QuizQuestion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q.ID = r.s.nextID("quiz_questions")
	stored := *q
	stored.Options = append([]string(nil), q.Options...)
	r.s.questions[q.ID] = stored
	return nil
}

func (r *quizRepo) RecordAttempt(_ context.Context, a *models.QuizAttempt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a.ID = r.s.nextID("quiz_attempts")
	if a.AttemptedAt.IsZero() {
		a.AttemptedAt = r.s.now()
	}
	r.s.attempts[a.ID] = *a
	return nil
}

func (r *quizRepo) ListAttemptsByUser(_ context.Context, userID uint) ([]models.QuizAttempt, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.QuizAttempt{}
	ids := sortedKeys(r.s.attempts)
	for i := len(ids) - 1; i >= 0; i-- {
		if a := r.s.attempts[ids[i]]; a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}
