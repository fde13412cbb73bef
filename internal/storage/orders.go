package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rupeeflow/rupeeflow/internal/model"
)

// SaveOrders appends order records, skipping duplicates by hash. The
// monitor re-fetches overlapping windows, so re-seeing an order is normal.
func (s *SQLiteStorage) SaveOrders(ctx context.Context, orders []model.OrderRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(orders) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO orders (hash, date, raw_date, subject, sender, vendor, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range orders {
		order := &orders[i]
		if err := order.Validate(); err != nil {
			return fmt.Errorf("invalid order record: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			order.GenerateHash(),
			order.Date,
			order.RawDate,
			order.Subject,
			order.Sender,
			order.Vendor,
			order.Amount,
		); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrdersByPeriod returns orders with start <= date < end, oldest first.
func (s *SQLiteStorage) GetOrdersByPeriod(ctx context.Context, start, end time.Time) ([]model.OrderRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, raw_date, subject, sender, vendor, amount
		FROM orders
		WHERE date >= ? AND date < ?
		ORDER BY date ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanOrders(rows)
}

// GetAllOrders returns every stored order, oldest first.
func (s *SQLiteStorage) GetAllOrders(ctx context.Context) ([]model.OrderRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, raw_date, subject, sender, vendor, amount
		FROM orders
		ORDER BY date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanOrders(rows)
}

func scanOrders(rows *sql.Rows) ([]model.OrderRecord, error) {
	var orders []model.OrderRecord
	for rows.Next() {
		var order model.OrderRecord
		if err := rows.Scan(
			&order.Date,
			&order.RawDate,
			&order.Subject,
			&order.Sender,
			&order.Vendor,
			&order.Amount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	return orders, nil
}
