package contracts

import (
	"context"
	"revere/internal/core/domain"
	"time"
)

// ProfileCache keeps denormalized profiles; staleness up to ttl is acceptable.
type ProfileCache interface {
	// GetProfile returns (nil, false, nil) on a miss.
	GetProfile(ctx context.Context, participantID string) (*domain.Profile, bool, error)
	SetProfile(ctx context.Context, p domain.Profile, ttl time.Duration) error
}
