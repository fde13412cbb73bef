package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetCheckpoint returns the timestamp after which the monitor considers
// messages new for this mailbox, or nil when no poll ever completed.
func (s *SQLiteStorage) GetCheckpoint(ctx context.Context, email string) (*time.Time, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(email, "email"); err != nil {
		return nil, err
	}

	var checkedAt time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT checked_at FROM monitor_checkpoints WHERE email = ?
	`, email).Scan(&checkedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checkpoint: %w", err)
	}

	return &checkedAt, nil
}

// SaveCheckpoint advances the monitor checkpoint for a mailbox.
func (s *SQLiteStorage) SaveCheckpoint(ctx context.Context, email string, at time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(email, "email"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO monitor_checkpoints (email, checked_at, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(email) DO UPDATE SET
			checked_at = excluded.checked_at,
			updated_at = CURRENT_TIMESTAMP
	`, email, at)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	return nil
}
