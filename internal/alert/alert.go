// Package alert delivers budget-threshold notifications. Delivery is
// best-effort: a failed send never aborts the aggregation cycle that
// triggered it.
package alert

import (
	"context"
	"fmt"

	"github.com/rupeeflow/rupeeflow/internal/model"
)

// Sender is the interface alert delivery backends implement.
type Sender interface {
	// Send delivers one budget alert. It returns an error if the
	// delivery fails.
	Send(ctx context.Context, a Alert) error

	// Name returns the human-readable name of this backend.
	Name() string
}

// Alert is one outbound budget notification.
type Alert struct {
	To     string
	Status model.BudgetStatus
}

// Subject renders the alert subject line.
func (a Alert) Subject() string {
	return fmt.Sprintf("Budget Alert: %.1f%% of Monthly Budget Used", a.Status.Percentage)
}

// Body renders the alert body, including the approaching-limit or
// within-budget indicator.
func (a Alert) Body() string {
	indicator := "✅ You are within budget."
	if a.Status.ApproachingLimit() {
		indicator = "⚠️ You are approaching your budget limit!"
	}

	return fmt.Sprintf(`Budget Alert!

Your monthly budget: ₹%.2f
Amount spent this month: ₹%.2f
Percentage used: %.1f%%

%s
`, a.Status.Budget, a.Status.Spent, a.Status.Percentage, indicator)
}
