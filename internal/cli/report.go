package cli

import (
	"fmt"
	"strings"

	"github.com/rupeeflow/rupeeflow/internal/model"
)

// RenderReport formats an aggregated spend report for the terminal.
func RenderReport(report model.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Total spent:   ₹%.2f\n", report.TotalSpent))
	b.WriteString(fmt.Sprintf("Orders:        %d\n", report.OrderCount))
	b.WriteString(fmt.Sprintf("Average order: ₹%.2f\n", report.AverageOrder))
	if report.Dropped > 0 {
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("(%d records dropped: unparseable date or amount)", report.Dropped)))
		b.WriteString("\n")
	}

	if len(report.MonthlyTotals) > 0 {
		b.WriteString("\n")
		b.WriteString(TableHeaderStyle.Render("Monthly spending"))
		b.WriteString("\n")
		for _, mt := range report.MonthlyTotals {
			b.WriteString(fmt.Sprintf("  %s  ₹%.2f\n", mt.Month, mt.Amount))
		}
	}

	if len(report.VendorTotals) > 0 {
		b.WriteString("\n")
		b.WriteString(TableHeaderStyle.Render("Spending by vendor"))
		b.WriteString("\n")
		for _, vt := range report.VendorTotals {
			b.WriteString(fmt.Sprintf("  %-12s ₹%.2f\n", vt.Vendor, vt.Amount))
		}
	}

	return RenderBox("Order Spend Report", strings.TrimRight(b.String(), "\n"))
}

// RenderBudgetStatus formats a budget evaluation for the terminal.
func RenderBudgetStatus(status model.BudgetStatus) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Budget:     ₹%.2f\n", status.Budget))
	b.WriteString(fmt.Sprintf("Spent:      ₹%.2f\n", status.Spent))
	b.WriteString(fmt.Sprintf("Remaining:  ₹%.2f\n", status.Remaining))
	b.WriteString(fmt.Sprintf("Used:       %.1f%%\n", status.Percentage))

	if status.ApproachingLimit() {
		b.WriteString(WarningStyle.Render("You are approaching your budget limit!"))
	} else {
		b.WriteString(SuccessStyle.Render("You are within budget."))
	}

	return RenderBox("Budget Status", b.String())
}
