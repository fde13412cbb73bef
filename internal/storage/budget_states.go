package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rupeeflow/rupeeflow/internal/model"
)

// SaveBudgetState inserts or replaces the budget state for a user.
func (s *SQLiteStorage) SaveBudgetState(ctx context.Context, state *model.BudgetState) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if state == nil {
		return fmt.Errorf("state must not be nil")
	}
	if err := state.Validate(); err != nil {
		return fmt.Errorf("invalid budget state: %w", err)
	}

	vendors, err := json.Marshal(state.Vendors)
	if err != nil {
		return fmt.Errorf("failed to encode vendors: %w", err)
	}

	if state.LastUpdated.IsZero() {
		state.LastUpdated = time.Now()
	}

	var lastAlert any
	if state.LastAlert != nil {
		lastAlert = *state.LastAlert
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO budget_states (email, budget, vendors, spent_this_period, last_updated, last_alert)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			budget = excluded.budget,
			vendors = excluded.vendors,
			spent_this_period = excluded.spent_this_period,
			last_updated = excluded.last_updated,
			last_alert = excluded.last_alert
	`, state.Email, state.Budget, string(vendors), state.SpentThisPeriod, state.LastUpdated, lastAlert)
	if err != nil {
		return fmt.Errorf("failed to save budget state: %w", err)
	}

	return nil
}

// GetBudgetState retrieves the budget state for a user, or ErrNotFound.
func (s *SQLiteStorage) GetBudgetState(ctx context.Context, email string) (*model.BudgetState, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(email, "email"); err != nil {
		return nil, err
	}

	var (
		state     model.BudgetState
		vendors   string
		lastAlert sql.NullTime
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT email, budget, vendors, spent_this_period, last_updated, last_alert
		FROM budget_states
		WHERE email = ?
	`, email).Scan(
		&state.Email,
		&state.Budget,
		&vendors,
		&state.SpentThisPeriod,
		&state.LastUpdated,
		&lastAlert,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget state: %w", err)
	}

	if err := json.Unmarshal([]byte(vendors), &state.Vendors); err != nil {
		return nil, fmt.Errorf("failed to decode vendors: %w", err)
	}
	if lastAlert.Valid {
		t := lastAlert.Time
		state.LastAlert = &t
	}

	return &state, nil
}
