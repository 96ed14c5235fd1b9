package postgres

import (
	"context"
	"database/sql"
	"revere/internal/core/domain"

	"github.com/pkg/errors"
)

// UserRepo reads display profiles from the users table.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetProfile(ctx context.Context, participantID string) (*domain.Profile, error) {
	if err := domain.ValidateParticipantID(participantID); err != nil {
		return nil, err
	}
	p := &domain.Profile{ParticipantID: participantID}
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
		SELECT display_name, avatar_url FROM users WHERE id = $1
	`, participantID).Scan(&p.DisplayName, &p.AvatarURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrProfileNotFound
		}
		return nil, errors.Wrap(err, "userRepo.GetProfile.Scan")
	}
	return p, nil
}

// UpsertProfile creates or refreshes a user's display profile.
func (r *UserRepo) UpsertProfile(ctx context.Context, p domain.Profile) error {
	if err := domain.ValidateParticipantID(p.ParticipantID); err != nil {
		return err
	}
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
		INSERT INTO users (id, display_name, avatar_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			avatar_url   = EXCLUDED.avatar_url
	`, p.ParticipantID, p.DisplayName, p.AvatarURL)
	return errors.Wrap(err, "userRepo.UpsertProfile.Exec")
}
