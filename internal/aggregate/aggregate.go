// Package aggregate groups extracted orders into spend summaries and
// evaluates budget-threshold alert conditions.
package aggregate

import (
	"math"
	"sort"

	"github.com/rupeeflow/rupeeflow/internal/model"
	"github.com/rupeeflow/rupeeflow/internal/vendor"
)

// Aggregate computes monthly and per-vendor totals from a set of order
// records. Records with an unparseable date or non-positive amount are
// excluded from all totals and counted in Report.Dropped.
func Aggregate(orders []model.OrderRecord) model.Report {
	report := model.Report{
		MonthlyTotals: []model.MonthTotal{},
		VendorTotals:  []model.VendorTotal{},
		Orders:        []model.OrderRecord{},
	}

	monthly := make(map[string]float64)
	byVendor := make(map[string]float64)

	for _, order := range orders {
		// Only an unparseable date or amount disqualifies a record. A
		// missing vendor label is recoverable from the sender below.
		if order.Date.IsZero() || order.Amount <= 0 {
			report.Dropped++
			continue
		}

		label := order.Vendor
		if label == "" || vendor.Normalize(label) == vendor.Unknown {
			// Raw sender strings must collapse onto the closed vendor set.
			label = vendor.Normalize(order.Sender)
		}
		order.Vendor = label

		month := order.Date.Format("2006-01")
		monthly[month] += order.Amount
		byVendor[label] += order.Amount
		report.TotalSpent += order.Amount
		report.Orders = append(report.Orders, order)
	}

	report.OrderCount = len(report.Orders)
	if report.OrderCount > 0 {
		report.AverageOrder = round2(report.TotalSpent / float64(report.OrderCount))
	}
	report.TotalSpent = round2(report.TotalSpent)

	for month, amount := range monthly {
		report.MonthlyTotals = append(report.MonthlyTotals, model.MonthTotal{Month: month, Amount: round2(amount)})
	}
	sort.Slice(report.MonthlyTotals, func(i, j int) bool {
		return report.MonthlyTotals[i].Month < report.MonthlyTotals[j].Month
	})

	for label, amount := range byVendor {
		report.VendorTotals = append(report.VendorTotals, model.VendorTotal{Vendor: label, Amount: round2(amount)})
	}
	sort.Slice(report.VendorTotals, func(i, j int) bool {
		if report.VendorTotals[i].Amount != report.VendorTotals[j].Amount {
			return report.VendorTotals[i].Amount > report.VendorTotals[j].Amount
		}
		return report.VendorTotals[i].Vendor < report.VendorTotals[j].Vendor
	})

	return report
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
