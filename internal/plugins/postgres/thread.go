package postgres

import (
	"context"
	"database/sql"
	"revere/internal/core/contracts"
	"revere/internal/core/domain"
	"time"

	"github.com/pkg/errors"
)

type ThreadRepo struct {
	db *sql.DB
	tx contracts.TxManager
}

func NewThreadRepo(db *sql.DB, tx contracts.TxManager) *ThreadRepo {
	return &ThreadRepo{db: db, tx: tx}
}

const threadColumns = `
	t.id, t.member_a, t.member_b, t.last_message_preview, t.updated_at,
	m.participant_id, m.display_name, m.avatar_url, m.unread_count`

func (r *ThreadRepo) GetThread(ctx context.Context, threadID string) (*domain.Thread, error) {
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT`+threadColumns+`
		FROM threads t
		JOIN thread_members m ON m.thread_id = t.id
		WHERE t.id = $1
	`, threadID)
	if err != nil {
		return nil, errors.Wrap(err, "threadRepo.GetThread.Query")
	}
	threads, err := scanThreads(rows)
	if err != nil {
		return nil, errors.Wrap(err, "threadRepo.GetThread.Scan")
	}
	if len(threads) == 0 {
		return nil, domain.ErrThreadNotFound
	}
	return &threads[0], nil
}

func (r *ThreadRepo) CreateThreadIfAbsent(ctx context.Context, t *domain.Thread) (bool, error) {
	var created bool
	err := r.tx.WithTx(ctx, func(txCtx context.Context) error {
		exec := GetExecutor(txCtx, r.db)
		var id string
		err := exec.QueryRowContext(txCtx, `
			INSERT INTO threads (id, member_a, member_b, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING
			RETURNING id
		`, t.ID, t.Members[0], t.Members[1], t.UpdatedAt).Scan(&id)
		switch {
		case err == nil:
			created = true
		case err == sql.ErrNoRows:
			created = false
		default:
			return errors.Wrap(err, "threadRepo.CreateThreadIfAbsent.InsertThread")
		}
		for _, member := range t.Members {
			name, avatar := t.MemberDisplayNames[member], t.MemberAvatars[member]
			if name == "" {
				name = domain.DefaultDisplayName
			}
			// Existing rows only pick up a real name or avatar; counters stay.
			if _, err := exec.ExecContext(txCtx, `
				INSERT INTO thread_members (thread_id, participant_id, display_name, avatar_url)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (thread_id, participant_id) DO UPDATE SET
					display_name = CASE WHEN EXCLUDED.display_name <> $5 THEN EXCLUDED.display_name ELSE thread_members.display_name END,
					avatar_url   = CASE WHEN EXCLUDED.avatar_url <> '' THEN EXCLUDED.avatar_url ELSE thread_members.avatar_url END
			`, t.ID, member, name, avatar, domain.DefaultDisplayName); err != nil {
				return errors.Wrap(err, "threadRepo.CreateThreadIfAbsent.UpsertMember")
			}
		}
		return nil
	})
	return created, err
}

func (r *ThreadRepo) TouchOnSend(
	ctx context.Context,
	threadID, senderID, recipientID, preview string,
	at time.Time,
) error {
	return r.tx.WithTx(ctx, func(txCtx context.Context) error {
		exec := GetExecutor(txCtx, r.db)
		res, err := exec.ExecContext(txCtx, `
			UPDATE threads SET last_message_preview = $2, updated_at = $3
			WHERE id = $1
		`, threadID, preview, at)
		if err != nil {
			return errors.Wrap(err, "threadRepo.TouchOnSend.UpdateThread")
		}
		if n, err := res.RowsAffected(); err != nil {
			return errors.Wrap(err, "threadRepo.TouchOnSend.RowsAffected")
		} else if n == 0 {
			return domain.ErrThreadNotFound
		}
		// Field-level increment; concurrent senders serialize on the row lock.
		res, err = exec.ExecContext(txCtx, `
			UPDATE thread_members SET unread_count =
				CASE WHEN participant_id = $2 THEN 0 ELSE unread_count + 1 END
			WHERE thread_id = $1 AND participant_id IN ($2, $3)
		`, threadID, senderID, recipientID)
		if err != nil {
			return errors.Wrap(err, "threadRepo.TouchOnSend.UpdateUnread")
		}
		if n, err := res.RowsAffected(); err != nil {
			return errors.Wrap(err, "threadRepo.TouchOnSend.RowsAffected")
		} else if n != 2 {
			return domain.ErrNotThreadMember
		}
		return nil
	})
}

func (r *ThreadRepo) ResetUnread(ctx context.Context, threadID, participantID string) error {
	exec := GetExecutor(ctx, r.db)
	res, err := exec.ExecContext(ctx, `
		UPDATE thread_members SET unread_count = 0
		WHERE thread_id = $1 AND participant_id = $2
	`, threadID, participantID)
	if err != nil {
		return errors.Wrap(err, "threadRepo.ResetUnread.Update")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "threadRepo.ResetUnread.RowsAffected")
	}
	if n > 0 {
		return nil
	}
	var exists bool
	if err := exec.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM threads WHERE id = $1)`, threadID).Scan(&exists); err != nil {
		return errors.Wrap(err, "threadRepo.ResetUnread.Exists")
	}
	if !exists {
		return domain.ErrThreadNotFound
	}
	return domain.ErrNotThreadMember
}

func (r *ThreadRepo) ListThreadsForMember(ctx context.Context, participantID string) ([]domain.Thread, error) {
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT`+threadColumns+`
		FROM threads t
		JOIN thread_members me ON me.thread_id = t.id AND me.participant_id = $1
		JOIN thread_members m ON m.thread_id = t.id
		ORDER BY t.updated_at DESC, t.id ASC
	`, participantID)
	if err != nil {
		return nil, errors.Wrap(err, "threadRepo.ListThreadsForMember.Query")
	}
	threads, err := scanThreads(rows)
	if err != nil {
		return nil, errors.Wrap(err, "threadRepo.ListThreadsForMember.Scan")
	}
	return threads, nil
}

// scanThreads folds one row per member into threads, keeping row order.
func scanThreads(rows *sql.Rows) ([]domain.Thread, error) {
	defer rows.Close()
	var out []domain.Thread
	index := make(map[string]int)
	for rows.Next() {
		var (
			t                         domain.Thread
			participant, name, avatar string
			unread                    int64
		)
		if err := rows.Scan(
			&t.ID, &t.Members[0], &t.Members[1], &t.LastMessagePreview, &t.UpdatedAt,
			&participant, &name, &avatar, &unread,
		); err != nil {
			return nil, err
		}
		i, ok := index[t.ID]
		if !ok {
			t.MemberDisplayNames = make(map[string]string, 2)
			t.MemberAvatars = make(map[string]string, 2)
			t.UnreadCount = make(map[string]int64, 2)
			out = append(out, t)
			i = len(out) - 1
			index[t.ID] = i
		}
		out[i].MemberDisplayNames[participant] = name
		out[i].MemberAvatars[participant] = avatar
		out[i].UnreadCount[participant] = unread
	}
	return out, rows.Err()
}
