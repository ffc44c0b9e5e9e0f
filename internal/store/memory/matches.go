package memory

import (
	"context"
	"sort"

	"skillswap/internal/models"
)

type matchRepo struct{ s *Store }

func (r *matchRepo) ListByUser(_ context.Context, userID uint) ([]models.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Match{}
	for _, id := range sortedKeys(r.s.matches) {
		if m := r.s.matches[id]; m.HasUser(userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *matchRepo) GetByID(_ context.Context, id uint) (*models.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.matches[id]
	if !ok {
		return nil, models.NewNotFoundError("Match", id)
	}
	return &m, nil
}

func (r *matchRepo) FindBetween(_ context.Context, userA, userB uint) (*models.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, id := range sortedKeys(r.s.matches) {
		m := r.s.matches[id]
		if (m.User1ID == userA && m.User2ID == userB) || (m.User1ID == userB && m.User2ID == userA) {
			return &m, nil
		}
	}
	return nil, nil
}

func (r *matchRepo) Create(_ context.Context, m *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = r.s.nextID("matches")
	if m.Status == "" {
		m.Status = models.MatchStatusPending
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.s.now()
	}
	r.s.matches[m.ID] = *m
	return nil
}

func (r *matchRepo) UpdateStatus(_ context.Context, id uint, status models.MatchStatus) (*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok {
		return nil, models.NewNotFoundError("Match", id)
	}
	m.Status = status
	r.s.matches[id] = m
	return &m, nil
}

type messageRepo struct{ s *Store }

// withSender must be called with mu held.
func (r *messageRepo) withSender(msg models.Message) models.Message {
	if u, ok := r.s.users[msg.SenderID]; ok {
		msg.Sender = &u
	}
	return msg
}

func (r *messageRepo) ListByMatch(_ context.Context, matchID uint) ([]models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Message{}
	for _, id := range sortedKeys(r.s.messages) {
		if msg := r.s.messages[id]; msg.MatchID == matchID {
			out = append(out, r.withSender(msg))
		}
	}
	// Ordered by (CreatedAt, ID) like the SQL store; the id scan breaks ties.
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *messageRepo) GetByID(_ context.Context, id uint) (*models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	msg, ok := r.s.messages[id]
	if !ok {
		return nil, models.NewNotFoundError("Message", id)
	}
	msg = r.withSender(msg)
	return &msg, nil
}

func (r *messageRepo) Create(_ context.Context, msg *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	msg.ID = r.s.nextID("messages")
	if msg.MessageType == "" {
		msg.MessageType = models.MessageTypeText
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = r.s.now()
	}
	stored := *msg
	stored.Sender = nil
	r.s.messages[msg.ID] = stored
	return nil
}
