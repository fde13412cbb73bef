// Package service defines the interfaces wiring the application together.
package service

import (
	"context"
	"time"

	"github.com/rupeeflow/rupeeflow/internal/imap"
	"github.com/rupeeflow/rupeeflow/internal/model"
)

// MailSource fetches raw messages from a mailbox. Implemented by the IMAP
// client; faked in tests.
type MailSource interface {
	Fetch(ctx context.Context, query imap.FetchQuery) ([]model.RawMessage, error)
	CheckLogin(ctx context.Context) error
}

// Extractor recovers a single monetary amount from normalized text.
type Extractor interface {
	Extract(body, sender string) (float64, bool)
}

// Storage is the persistence contract for budget state, discovered orders,
// and the monitor checkpoint.
type Storage interface {
	// Budget state operations
	SaveBudgetState(ctx context.Context, state *model.BudgetState) error
	GetBudgetState(ctx context.Context, email string) (*model.BudgetState, error)

	// Order operations
	SaveOrders(ctx context.Context, orders []model.OrderRecord) error
	GetOrdersByPeriod(ctx context.Context, start, end time.Time) ([]model.OrderRecord, error)
	GetAllOrders(ctx context.Context) ([]model.OrderRecord, error)

	// Monitor checkpoint operations
	GetCheckpoint(ctx context.Context, email string) (*time.Time, error)
	SaveCheckpoint(ctx context.Context, email string, at time.Time) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
