package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// RawMessage is a protocol-level message handle plus the header fields we
// care about. It exists only between fetch and normalization.
type RawMessage struct {
	Date    time.Time
	UID     uint32
	Subject string
	Sender  string
	RawDate string // original Date header text, kept when parsing fails
	Raw     []byte
}

// OrderRecord is the canonical unit of output: one order confirmation that
// passed the filter and yielded an amount. Immutable after creation.
type OrderRecord struct {
	Date    time.Time
	Subject string
	Sender  string
	RawDate string
	Vendor  string
	Amount  float64
}

// GenerateHash creates a unique hash for duplicate detection. The monitor
// re-fetches overlapping windows after a restart, so the same confirmation
// can be seen more than once.
func (o *OrderRecord) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		o.Date.Format("2006-01-02"),
		o.Amount,
		o.Vendor,
		o.Subject)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Validate checks that an order record is aggregatable.
func (o *OrderRecord) Validate() error {
	if o.Date.IsZero() {
		return fmt.Errorf("order date is required")
	}
	if o.Amount <= 0 {
		return fmt.Errorf("order amount must be positive")
	}
	if o.Vendor == "" {
		return fmt.Errorf("order vendor is required")
	}
	return nil
}
