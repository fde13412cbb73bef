// Package monitor runs a long-lived polling loop that periodically
// re-queries the mailbox for messages newer than the last checkpoint.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rupeeflow/rupeeflow/internal/model"
	"github.com/rupeeflow/rupeeflow/internal/scan"
)

// OrderScanner runs one pass of the fetch→extract pipeline.
type OrderScanner interface {
	Scan(ctx context.Context, query scan.Query) ([]model.OrderRecord, error)
}

// Store is the slice of persistence the monitor needs.
type Store interface {
	SaveOrders(ctx context.Context, orders []model.OrderRecord) error
	GetCheckpoint(ctx context.Context, email string) (*time.Time, error)
	SaveCheckpoint(ctx context.Context, email string, at time.Time) error
}

// Monitor polls the mailbox on a fixed interval and appends newly
// discovered orders to a shared buffer. One Monitor per mailbox.
type Monitor struct {
	scanner OrderScanner
	store   Store
	buffer  *Buffer
	logger  *slog.Logger

	email   string
	vendors []string
	folder  string

	// OnCycle, if set, is called after every successful iteration with
	// the orders discovered in that cycle (possibly none).
	OnCycle func(ctx context.Context, discovered []model.OrderRecord)

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New creates a Monitor for one mailbox.
func New(scanner OrderScanner, store Store, email string, vendors []string, folder string, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		scanner: scanner,
		store:   store,
		buffer:  &Buffer{},
		logger:  logger,
		email:   email,
		vendors: vendors,
		folder:  folder,
	}
}

// Buffer exposes the shared append-only order log for foreground readers.
func (m *Monitor) Buffer() *Buffer {
	return m.buffer
}

// Running reports whether the polling loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Start begins the polling loop on a dedicated goroutine. Calling Start
// while the loop is already running is a no-op.
func (m *Monitor) Start(interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.stop = make(chan struct{})
	m.done = make(chan struct{})

	go m.loop(interval)
}

// Stop requests a cooperative shutdown and blocks until the current loop
// iteration observes it and exits.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	stop, done := m.stop, m.done
	m.mu.Unlock()

	close(stop)
	<-done

	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}

func (m *Monitor) loop(interval time.Duration) {
	defer close(m.done)

	ctx := context.Background()

	checkpoint, err := m.store.GetCheckpoint(ctx, m.email)
	if err != nil {
		m.logger.Warn("failed to load checkpoint, starting from scratch", "err", err)
	}

	for {
		m.runOnce(ctx, &checkpoint)

		select {
		case <-m.stop:
			return
		case <-time.After(interval):
		}
	}
}

// runOnce performs one poll. Any error is logged and swallowed: the loop
// never dies, it just skips this round and retries on the next interval.
func (m *Monitor) runOnce(ctx context.Context, checkpoint **time.Time) {
	now := time.Now()

	query := scan.Query{Vendors: m.vendors, Folder: m.folder}
	if *checkpoint != nil {
		query.Since = **checkpoint
	}

	orders, err := m.scanner.Scan(ctx, query)
	if err != nil {
		m.logger.Warn("monitor scan failed, retrying next interval", "err", err)
		return
	}

	m.buffer.Append(orders...)

	if len(orders) > 0 {
		if err := m.store.SaveOrders(ctx, orders); err != nil {
			m.logger.Warn("failed to persist orders", "err", err)
		}
	}

	if err := m.store.SaveCheckpoint(ctx, m.email, now); err != nil {
		m.logger.Warn("failed to persist checkpoint", "err", err)
	}
	*checkpoint = &now

	m.logger.Debug("monitor cycle complete", "discovered", len(orders), "buffered", m.buffer.Len())

	if m.OnCycle != nil {
		m.OnCycle(ctx, orders)
	}
}
