package monitor

import (
	"sync"

	"github.com/rupeeflow/rupeeflow/internal/model"
)

// Buffer is the append-only order log shared between the monitor loop and
// foreground readers. Records are appended as whole values, so a reader
// observes a clean prefix of the log: at-least-once visibility, no torn
// records.
type Buffer struct {
	mu     sync.RWMutex
	orders []model.OrderRecord
}

// Append adds fully-constructed records to the log.
func (b *Buffer) Append(orders ...model.OrderRecord) {
	if len(orders) == 0 {
		return
	}
	b.mu.Lock()
	b.orders = append(b.orders, orders...)
	b.mu.Unlock()
}

// Snapshot returns a copy of the log contents at this moment.
func (b *Buffer) Snapshot() []model.OrderRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.OrderRecord, len(b.orders))
	copy(out, b.orders)
	return out
}

// Len returns the number of records appended so far.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.orders)
}
