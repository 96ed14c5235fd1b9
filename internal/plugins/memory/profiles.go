package memory

import (
	"context"
	"revere/internal/core/domain"
	"sync"
	"time"
)

// Profiles is both a profile source and a TTL cache.
type Profiles struct {
	mu      sync.RWMutex
	entries map[string]profileEntry
	now     func() time.Time
}

type profileEntry struct {
	profile   domain.Profile
	expiresAt time.Time // zero means no expiry
}

func NewProfiles() *Profiles {
	return &Profiles{entries: make(map[string]profileEntry), now: time.Now}
}

// Put stores a profile without expiry.
func (p *Profiles) Put(profile domain.Profile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[profile.ParticipantID] = profileEntry{profile: profile}
}

func (p *Profiles) GetProfile(ctx context.Context, participantID string) (*domain.Profile, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.entries[participantID]
	if !ok || (!e.expiresAt.IsZero() && p.now().After(e.expiresAt)) {
		return nil, false, nil
	}
	profile := e.profile
	return &profile, true, nil
}

// SetProfile caches profile for ttl. An entry stored with Put keeps no
// expiry, so one Profiles can serve as both source and cache.
func (p *Profiles) SetProfile(ctx context.Context, profile domain.Profile, ttl time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	e := profileEntry{profile: profile}
	if old, ok := p.entries[profile.ParticipantID]; ok && old.expiresAt.IsZero() {
		ttl = 0
	}
	if ttl > 0 {
		e.expiresAt = p.now().Add(ttl)
	}
	p.entries[profile.ParticipantID] = e
	return nil
}

// ProfileSource adapts Profiles to domain.ProfileRepository.
type ProfileSource struct {
	*Profiles
}

func (s ProfileSource) GetProfile(ctx context.Context, participantID string) (*domain.Profile, error) {
	p, ok, _ := s.Profiles.GetProfile(ctx, participantID)
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}
