package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hospitalcms/internal/adapters/storage"
	domain "hospitalcms/internal/domain/session"
)

// SQLiteStore implements Store using SQLite. The token key is sealed at rest
// when a Sealer is configured.
type SQLiteStore struct {
	db     storage.SQLDB
	sealer *Sealer
	now    func() time.Time
}

// NewSQLiteStore creates a new session store. sealer may be nil.
func NewSQLiteStore(db storage.SQLDB, sealer *Sealer) *SQLiteStore {
	return &SQLiteStore{db: db, sealer: sealer, now: time.Now}
}

// Get returns the value stored under key for the session.
// PRE: sid and key are non-empty
// POST: ok is false when no value is stored; a token that cannot be unsealed reads as absent
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) Get(ctx context.Context, sid, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM session_value WHERE session_id = ? AND key = ?`, sid, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get session value: %w", err)
	}
	if key == domain.KeyToken && s.sealer != nil {
		plain, err := s.sealer.Open(value)
		if err != nil {
			slog.Warn("session_event", "event", "token_unseal_failed", "session_id", sid)
			return "", false, nil
		}
		value = plain
	}
	return value, true, nil
}

// Set upserts a value for the session.
// PRE: sid and key are non-empty
// POST: The value is persisted and updated_at is refreshed
// INVARIANT: Other keys of the session are not modified
func (s *SQLiteStore) Set(ctx context.Context, sid, key, value string) error {
	if key == domain.KeyToken && s.sealer != nil {
		sealed, err := s.sealer.Seal(value)
		if err != nil {
			return err
		}
		value = sealed
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_value (session_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`, sid, key, value, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set session value: %w", err)
	}
	return nil
}

// Remove deletes one key of the session.
// PRE: sid and key are non-empty
// POST: The key is absent; removing an absent key is not an error
func (s *SQLiteStore) Remove(ctx context.Context, sid, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM session_value WHERE session_id = ? AND key = ?`, sid, key)
	if err != nil {
		return fmt.Errorf("remove session value: %w", err)
	}
	return nil
}

// Clear deletes every key of the session.
// POST: The session holds no values
func (s *SQLiteStore) Clear(ctx context.Context, sid string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_value WHERE session_id = ?`, sid)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Touch marks every value of the session as used now.
// POST: updated_at of the session's rows is refreshed; values are unchanged
func (s *SQLiteStore) Touch(ctx context.Context, sid string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE session_value SET updated_at = ? WHERE session_id = ?`, s.now().UTC().Format(time.RFC3339), sid)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// PurgeOlderThan deletes values not written or touched since cutoff.
// POST: Returns the number of rows deleted
func (s *SQLiteStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM session_value WHERE updated_at < ?`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.RowsAffected()
}
