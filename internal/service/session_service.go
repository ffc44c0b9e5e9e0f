package service

import (
	"context"
	"strings"
	"time"

	"skillswap/internal/models"
	"skillswap/internal/repository"
)

type SessionService struct {
	userRepo    repository.UserRepository
	matchRepo   repository.MatchRepository
	sessionRepo repository.SessionRepository
	now         func() time.Time
}

type CreateSessionInput struct {
	UserID      uint
	MatchID     uint
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Status      models.SessionStatus
}

// UpdateSessionInput lists the editable session fields; nil leaves a field as is.
type UpdateSessionInput struct {
	UserID      uint
	SessionID   uint
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Status      *models.SessionStatus
}

func NewSessionService(
	userRepo repository.UserRepository,
	matchRepo repository.MatchRepository,
	sessionRepo repository.SessionRepository,
) *SessionService {
	return &SessionService{userRepo: userRepo, matchRepo: matchRepo, sessionRepo: sessionRepo, now: time.Now}
}

// ListSessions returns all sessions on the user's matches, by start time.
func (s *SessionService) ListSessions(ctx context.Context, userID uint) ([]models.SessionDetail, error) {
	sessions, byID, err := s.userSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, userID, sessions, byID)
}

// UpcomingSessions returns scheduled sessions that have not started yet.
func (s *SessionService) UpcomingSessions(ctx context.Context, userID uint) ([]models.SessionDetail, error) {
	sessions, byID, err := s.userSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, userID, upcoming(sessions, s.now()), byID)
}

func (s *SessionService) CreateSession(ctx context.Context, in CreateSessionInput) (*models.Session, error) {
	m, err := participantMatch(ctx, s.matchRepo, in.UserID, in.MatchID)
	if err != nil {
		return nil, err
	}
	if m.Status != models.MatchStatusAccepted {
		return nil, models.NewValidationError("Sessions can only be scheduled on accepted matches")
	}

	status := in.Status
	if status == "" {
		status = models.SessionStatusScheduled
	}
	sess := &models.Session{
		MatchID:     in.MatchID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Status:      status,
	}
	if err := validateSession(sess); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SessionService) UpdateSession(ctx context.Context, in UpdateSessionInput) (*models.Session, error) {
	sess, err := s.sessionRepo.GetByID(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if _, err := participantMatch(ctx, s.matchRepo, in.UserID, sess.MatchID); err != nil {
		return nil, err
	}

	if in.Title != nil {
		sess.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		sess.Description = strings.TrimSpace(*in.Description)
	}
	if in.StartTime != nil {
		sess.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		sess.EndTime = *in.EndTime
	}
	if in.Status != nil {
		sess.Status = *in.Status
	}
	if err := validateSession(sess); err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Update(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SessionService) userSessions(ctx context.Context, userID uint) ([]models.Session, map[uint]models.Match, error) {
	matches, err := s.matchRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uint]models.Match, len(matches))
	ids := make([]uint, 0, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
		ids = append(ids, m.ID)
	}
	sessions, err := s.sessionRepo.ListByMatches(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return sessions, byID, nil
}

func (s *SessionService) details(ctx context.Context, userID uint, sessions []models.Session, matches map[uint]models.Match) ([]models.SessionDetail, error) {
	joined := make(map[uint]*models.MatchWithUser, len(matches))
	out := make([]models.SessionDetail, 0, len(sessions))
	for _, sess := range sessions {
		mw, ok := joined[sess.MatchID]
		if !ok {
			var err error
			if mw, err = joinCounterpart(ctx, s.userRepo, matches[sess.MatchID], userID); err != nil {
				return nil, err
			}
			joined[sess.MatchID] = mw
		}
		out = append(out, models.SessionDetail{Session: sess, Match: mw})
	}
	return out, nil
}

func validateSession(sess *models.Session) error {
	if sess.Title == "" {
		return models.NewValidationError("title is required")
	}
	if sess.StartTime.IsZero() || sess.EndTime.IsZero() {
		return models.NewValidationError("startTime and endTime are required")
	}
	if !sess.EndTime.After(sess.StartTime) {
		return models.NewValidationError("endTime must be after startTime")
	}
	if !sess.Status.Valid() {
		return models.NewValidationError("status must be scheduled, completed or cancelled")
	}
	return nil
}

// upcoming keeps scheduled sessions starting after now, soonest first.
// The input is expected in start time order.
func upcoming(sessions []models.Session, now time.Time) []models.Session {
	out := make([]models.Session, 0, len(sessions))
	for _, sess := range sessions {
		if sess.Status == models.SessionStatusScheduled && sess.StartTime.After(now) {
			out = append(out, sess)
		}
	}
	return out
}
