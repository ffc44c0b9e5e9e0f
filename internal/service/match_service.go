package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"skillswap/internal/matching"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type MatchService struct {
	userRepo      repository.UserRepository
	userSkillRepo repository.UserSkillRepository
	matchRepo     repository.MatchRepository

	// discoverMu makes the find-or-create on each pair atomic within the process.
	discoverMu sync.Mutex
}

func NewMatchService(
	userRepo repository.UserRepository,
	userSkillRepo repository.UserSkillRepository,
	matchRepo repository.MatchRepository,
) *MatchService {
	return &MatchService{userRepo: userRepo, userSkillRepo: userSkillRepo, matchRepo: matchRepo}
}

// DiscoverOrGetPotentialMatches scores every other user against userID and
// returns the pending matches, highest score first. It is not read-only: a
// candidate with overlapping skills and no match yet gets a new pending Match
// stored with the computed score. Candidates already pending keep their
// stored score; accepted or rejected pairs are left out. An unknown user gets
// an empty list.
func (s *MatchService) DiscoverOrGetPotentialMatches(ctx context.Context, userID uint) ([]models.MatchWithUser, error) {
	span, ctx := observability.NewSpan(ctx, "match.discover", attribute.Int("user.id", int(userID)))
	defer span.End()

	s.discoverMu.Lock()
	defer s.discoverMu.Unlock()

	out := []models.MatchWithUser{}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if models.IsNotFound(err) {
			return out, nil
		}
		span.SetError(err)
		return nil, err
	}

	own, err := s.userSkillRepo.ListByUser(ctx, userID, nil)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	requester := matching.NewSkillSet(own)
	if requester.Size() == 0 {
		return out, nil
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	created := 0
	for i := range users {
		candidate := users[i]
		if candidate.ID == userID {
			continue
		}

		theirs, err := s.userSkillRepo.ListByUser(ctx, candidate.ID, nil)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		cs := matching.NewSkillSet(theirs)
		if matching.Overlap(requester, cs) == 0 {
			continue
		}

		existing, err := s.matchRepo.FindBetween(ctx, userID, candidate.ID)
		if err != nil {
			span.SetError(err)
			return nil, err
		}

		var m models.Match
		switch {
		case existing == nil:
			m = models.Match{
				User1ID:    userID,
				User2ID:    candidate.ID,
				MatchScore: matching.Score(requester, cs),
				Status:     models.MatchStatusPending,
			}
			if err := s.matchRepo.Create(ctx, &m); err != nil {
				span.SetError(err)
				return nil, err
			}
			created++
			observability.MatchDiscovery.WithLabelValues("created").Inc()
		case existing.Status == models.MatchStatusPending:
			m = *existing
			observability.MatchDiscovery.WithLabelValues("existing").Inc()
		default:
			continue
		}

		out = append(out, models.MatchWithUser{Match: m, User: &candidate})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})

	span.AddAttributes(
		attribute.Int("match.candidates", len(out)),
		attribute.Int("match.created", created),
	)
	middleware.Logger.DebugContext(ctx, "match discovery finished",
		"user_id", userID, "candidates", len(out), "created", created)
	return out, nil
}

// ListMatches returns every match the user takes part in, joined with the
// counterpart user.
func (s *MatchService) ListMatches(ctx context.Context, userID uint) ([]models.MatchWithUser, error) {
	matches, err := s.matchRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.MatchWithUser, 0, len(matches))
	for _, m := range matches {
		joined, err := s.withCounterpart(ctx, m, userID)
		if err != nil {
			return nil, err
		}
		out = append(out, *joined)
	}
	return out, nil
}

// GetMatch returns a match the user takes part in.
func (s *MatchService) GetMatch(ctx context.Context, userID, matchID uint) (*models.MatchWithUser, error) {
	m, err := s.participantMatch(ctx, userID, matchID)
	if err != nil {
		return nil, err
	}
	return s.withCounterpart(ctx, *m, userID)
}

// UpdateMatchStatus moves a match to status on behalf of one of its users.
// Only a pending match can change; setting a decided match to its own status
// is a no-op write.
func (s *MatchService) UpdateMatchStatus(ctx context.Context, userID, matchID uint, status models.MatchStatus) (*models.Match, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("status must be pending, accepted or rejected")
	}
	m, err := s.participantMatch(ctx, userID, matchID)
	if err != nil {
		return nil, err
	}
	if m.Status != models.MatchStatusPending && m.Status != status {
		return nil, models.NewValidationError(fmt.Sprintf("match is already %s", m.Status))
	}
	return s.matchRepo.UpdateStatus(ctx, matchID, status)
}

func (s *MatchService) participantMatch(ctx context.Context, userID, matchID uint) (*models.Match, error) {
	return participantMatch(ctx, s.matchRepo, userID, matchID)
}

func (s *MatchService) withCounterpart(ctx context.Context, m models.Match, userID uint) (*models.MatchWithUser, error) {
	return joinCounterpart(ctx, s.userRepo, m, userID)
}

// participantMatch loads a match and checks userID is one of its two users.
func participantMatch(ctx context.Context, repo repository.MatchRepository, userID, matchID uint) (*models.Match, error) {
	m, err := repo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !m.HasUser(userID) {
		return nil, models.NewForbiddenError("You are not part of this match")
	}
	return m, nil
}

// joinCounterpart attaches the other participant. A counterpart that no
// longer resolves leaves User nil.
func joinCounterpart(ctx context.Context, repo repository.UserRepository, m models.Match, userID uint) (*models.MatchWithUser, error) {
	other, err := repo.GetByID(ctx, m.OtherUserID(userID))
	if err != nil && !models.IsNotFound(err) {
		return nil, err
	}
	return &models.MatchWithUser{Match: m, User: other}, nil
}
