package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id           TEXT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		avatar_url   TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS threads (
		id                   TEXT PRIMARY KEY,
		member_a             TEXT NOT NULL,
		member_b             TEXT NOT NULL,
		last_message_preview TEXT NOT NULL DEFAULT '',
		updated_at           TIMESTAMPTZ NOT NULL,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (member_a < member_b)
	)`,
	`CREATE TABLE IF NOT EXISTS thread_members (
		thread_id      TEXT NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
		participant_id TEXT NOT NULL,
		display_name   TEXT NOT NULL DEFAULT 'user',
		avatar_url     TEXT NOT NULL DEFAULT '',
		unread_count   BIGINT NOT NULL DEFAULT 0 CHECK (unread_count >= 0),
		PRIMARY KEY (thread_id, participant_id)
	)`,
	`CREATE INDEX IF NOT EXISTS thread_members_participant_idx ON thread_members (participant_id)`,
	`CREATE TABLE IF NOT EXISTS thread_messages (
		seq               BIGSERIAL PRIMARY KEY,
		id                TEXT NOT NULL UNIQUE,
		thread_id         TEXT NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
		sender_id         TEXT NOT NULL,
		recipient_id      TEXT NOT NULL,
		body              TEXT NOT NULL,
		client_created_at BIGINT NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS thread_messages_order_idx ON thread_messages (thread_id, client_created_at, seq)`,
}

// Migrate creates the messaging tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "postgres.Migrate.Begin")
	}
	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "postgres.Migrate.Exec")
		}
	}
	return errors.Wrap(tx.Commit(), "postgres.Migrate.Commit")
}
