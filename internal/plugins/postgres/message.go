package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"revere/internal/core/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

const foreignKeyViolation = "23503"

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{
		db: db,
	}
}

func (r *MessageRepo) AppendMessage(ctx context.Context, msg *domain.Message) error {
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
		INSERT INTO thread_messages (
			id, thread_id, sender_id, recipient_id, body, client_created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`,
		msg.ID,
		msg.ThreadID,
		msg.SenderID,
		msg.RecipientID,
		msg.Body,
		msg.ClientCreatedAt,
	).Scan(&msg.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return domain.ErrThreadNotFound
		}
		return errors.Wrap(err, "messageRepo.AppendMessage.Insert")
	}
	return nil
}

func (r *MessageRepo) ListMessages(ctx context.Context, threadID string) ([]domain.Message, error) {
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT id, thread_id, sender_id, recipient_id, body, client_created_at, created_at
		FROM thread_messages
		WHERE thread_id = $1
		ORDER BY client_created_at ASC, seq ASC
	`, threadID)
	if err != nil {
		return nil, errors.Wrap(err, "messageRepo.ListMessages.Query")
	}
	defer rows.Close()
	msgs := make([]domain.Message, 0)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(
			&m.ID,
			&m.ThreadID,
			&m.SenderID,
			&m.RecipientID,
			&m.Body,
			&m.ClientCreatedAt,
			&m.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "messageRepo.ListMessages.Scan")
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "messageRepo.ListMessages.Rows")
	}
	return msgs, nil
}

func (r *MessageRepo) DeleteMessages(ctx context.Context, threadID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	exec := GetExecutor(ctx, r.db)
	res, err := exec.ExecContext(ctx, `
		DELETE FROM thread_messages WHERE thread_id = $1 AND id = ANY($2)
	`, threadID, ids)
	if err != nil {
		return 0, errors.Wrap(err, "messageRepo.DeleteMessages.Delete")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "messageRepo.DeleteMessages.RowsAffected")
	}
	return int(n), nil
}
