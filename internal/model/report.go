package model

// MonthTotal is the spend for one calendar month, keyed YYYY-MM.
type MonthTotal struct {
	Month  string
	Amount float64
}

// VendorTotal is the spend attributed to one canonical vendor.
type VendorTotal struct {
	Vendor string
	Amount float64
}

// Report is the aggregation output consumed by the CLI and alerting.
// MonthlyTotals are ordered by month ascending; VendorTotals descending by
// amount. Dropped counts records excluded for unparseable date or amount.
type Report struct {
	MonthlyTotals []MonthTotal
	VendorTotals  []VendorTotal
	Orders        []OrderRecord
	TotalSpent    float64
	AverageOrder  float64
	OrderCount    int
	Dropped       int
}
