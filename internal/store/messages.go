package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"jobsift-engine/internal/domain"
)

// AddRawMessage stores one ingested blob. A (source, message_id) pair that
// already exists is ignored, so re-fetching a mailbox is harmless.
func AddRawMessage(ctx context.Context, db *sql.DB, source string, messageID int64, text string) (added bool, err error) {
	_, err = db.ExecContext(ctx, `
INSERT OR IGNORE INTO raw_messages (message_id, source, message_text, status, created_at)
VALUES (?, ?, ?, 'pending', ?);`,
		messageID, source, text, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("insert raw message: %w", err)
	}

	var changes int
	if e := db.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); e == nil {
		return changes > 0, nil
	}
	return true, nil
}

// ClaimPending flips up to limit pending messages to processing and returns
// them. Single-writer sqlite makes the select-then-update safe here.
func ClaimPending(ctx context.Context, db *sql.DB, limit int) ([]domain.SourceMessage, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := db.QueryContext(ctx, `
SELECT id, message_id, source, message_text
FROM raw_messages
WHERE status = 'pending'
ORDER BY id
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SourceMessage
	for rows.Next() {
		var m domain.SourceMessage
		if err := rows.Scan(&m.ID, &m.MsgID, &m.Source, &m.Text); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	ids := make([]string, len(out))
	args := make([]any, len(out))
	for i, m := range out {
		ids[i] = "?"
		args[i] = m.ID
	}
	_, err = db.ExecContext(ctx, fmt.Sprintf(`
UPDATE raw_messages SET status = 'processing'
WHERE id IN (%s);`, strings.Join(ids, ",")), args...)
	if err != nil {
		return nil, fmt.Errorf("claim messages: %w", err)
	}
	return out, nil
}

// MarkMessageProcessed finishes a message's lifecycle.
func MarkMessageProcessed(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `UPDATE raw_messages SET status = 'processed', error = '' WHERE id = ?;`, id)
	return err
}

// MarkMessageFailed records the failure note for later inspection.
func MarkMessageFailed(ctx context.Context, db *sql.DB, id int64, cause string) error {
	_, err := db.ExecContext(ctx, `UPDATE raw_messages SET status = 'failed', error = ? WHERE id = ?;`, cause, id)
	return err
}

// CountMessagesByStatus returns status -> count for the dashboard.
func CountMessagesByStatus(ctx context.Context, db *sql.DB) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT status, COUNT(*) FROM raw_messages GROUP BY status;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}
