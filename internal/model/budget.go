package model

import (
	"fmt"
	"time"
)

// AlertCooldown is the minimum gap between two budget alerts for the same
// user. The monitor re-aggregates every few minutes; without this gap a user
// over threshold would be mailed on every cycle.
const AlertCooldown = 24 * time.Hour

// AlertThreshold is the spend-to-budget percentage at which an alert is due.
const AlertThreshold = 80.0

// BudgetState is the durable per-user budget record.
type BudgetState struct {
	LastUpdated     time.Time
	LastAlert       *time.Time
	Email           string
	Vendors         []string
	Budget          float64
	SpentThisPeriod float64
}

// Validate checks that a budget state can be persisted.
func (b *BudgetState) Validate() error {
	if b.Email == "" {
		return fmt.Errorf("email is required")
	}
	if b.Budget <= 0 {
		return fmt.Errorf("budget must be positive")
	}
	if len(b.Vendors) == 0 {
		return fmt.Errorf("at least one tracked vendor is required")
	}
	return nil
}

// BudgetStatus is the result of evaluating spend against a budget.
type BudgetStatus struct {
	Budget     float64
	Spent      float64
	Remaining  float64
	Percentage float64
}

// ApproachingLimit reports whether spend has crossed the alert threshold.
func (s BudgetStatus) ApproachingLimit() bool {
	return s.Percentage >= AlertThreshold
}
