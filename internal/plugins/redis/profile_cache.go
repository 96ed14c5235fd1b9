package redis

import (
	"context"
	"revere/internal/core/domain"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProfileCache keeps profile snapshots in one hash per participant,
// expiring with the configured ttl.
type ProfileCache struct {
	rdb *redis.Client
}

func NewProfileCache(rdb *redis.Client) *ProfileCache {
	return &ProfileCache{
		rdb: rdb,
	}
}

func profileKey(participantID string) string {
	return "profile:" + participantID
}

func (c *ProfileCache) GetProfile(ctx context.Context, participantID string) (*domain.Profile, bool, error) {
	fields, err := c.rdb.HGetAll(ctx, profileKey(participantID)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(fields) == 0 {
		return nil, false, nil
	}
	return &domain.Profile{
		ParticipantID: participantID,
		DisplayName:   fields["display_name"],
		AvatarURL:     fields["avatar_url"],
	}, true, nil
}

func (c *ProfileCache) SetProfile(ctx context.Context, p domain.Profile, ttl time.Duration) error {
	key := profileKey(p.ParticipantID)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "display_name", p.DisplayName, "avatar_url", p.AvatarURL)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}
