package aggregate

import (
	"time"

	"github.com/rupeeflow/rupeeflow/internal/model"
)

// EvaluateBudget compares spend for the current period against a budget.
// A zero or negative budget yields a zero percentage rather than an error.
func EvaluateBudget(spent, budget float64) model.BudgetStatus {
	status := model.BudgetStatus{
		Budget: budget,
		Spent:  spent,
	}

	remaining := budget - spent
	if remaining < 0 {
		remaining = 0
	}
	status.Remaining = remaining

	if budget > 0 {
		status.Percentage = spent / budget * 100
	}

	return status
}

// AlertDue decides whether a budget alert should be sent now. An alert is
// due when spend has crossed the threshold and either no alert was ever
// recorded or at least a full day has elapsed since the last one. The
// monitor re-aggregates every few minutes; the cooldown debounces repeat
// alerts within the same day.
func AlertDue(status model.BudgetStatus, lastAlert *time.Time, now time.Time) bool {
	if !status.ApproachingLimit() {
		return false
	}
	if lastAlert == nil {
		return true
	}
	return now.Sub(*lastAlert) >= model.AlertCooldown
}
