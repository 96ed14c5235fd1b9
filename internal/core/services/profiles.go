package services

import (
	"context"
	"errors"
	"log/slog"
	"revere/internal/core/contracts"
	"revere/internal/core/domain"
	"time"

	"golang.org/x/sync/singleflight"
)

// ProfileService resolves display snapshots for thread creation. Lookups
// never fail: a missing or unreachable profile degrades to the fallback.
type ProfileService struct {
	repo  domain.ProfileRepository
	cache contracts.ProfileCache
	ttl   time.Duration
	group singleflight.Group
	log   *slog.Logger
}

func NewProfileService(
	log *slog.Logger,
	repo domain.ProfileRepository,
	cache contracts.ProfileCache,
	ttl time.Duration,
) *ProfileService {
	return &ProfileService{
		log:   log,
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

func (s *ProfileService) Lookup(ctx context.Context, participantID string) domain.Profile {
	if s.cache != nil {
		p, ok, err := s.cache.GetProfile(ctx, participantID)
		if err != nil {
			s.log.WarnContext(ctx, "profiles - lookup - cache read failed", "participant_id", participantID, "err", err)
		} else if ok {
			return *p
		}
	}
	v, err, _ := s.group.Do(participantID, func() (any, error) {
		p, err := s.repo.GetProfile(ctx, participantID)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetProfile(ctx, *p, s.ttl); err != nil {
				s.log.WarnContext(ctx, "profiles - lookup - cache write failed", "participant_id", participantID, "err", err)
			}
		}
		return *p, nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			s.log.ErrorContext(ctx, "profiles - lookup - source failed", "participant_id", participantID, "err", err)
		}
		return domain.FallbackProfile(participantID)
	}
	p := v.(domain.Profile)
	if p.DisplayName == "" {
		p.DisplayName = domain.DefaultDisplayName
	}
	return p
}

// Hints resolves every id into the map shape EnsureThread expects.
func (s *ProfileService) Hints(ctx context.Context, ids ...string) map[string]domain.Profile {
	out := make(map[string]domain.Profile, len(ids))
	for _, id := range ids {
		out[id] = s.Lookup(ctx, id)
	}
	return out
}
