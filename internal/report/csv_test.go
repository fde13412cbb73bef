package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rupeeflow/rupeeflow/internal/aggregate"
	"github.com/rupeeflow/rupeeflow/internal/model"
)

func TestOrdersCSV_RoundTrip(t *testing.T) {
	orders := []model.OrderRecord{
		{
			Date:    time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
			Subject: "Your Swiggy order, with a comma",
			Sender:  "noreply@swiggy.in",
			Vendor:  "Swiggy",
			Amount:  250.00,
		},
		{
			Date:    time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			Subject: "Shipped: 2 items",
			Sender:  "auto-confirm@amazon.in",
			Vendor:  "Amazon",
			Amount:  1200.55,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOrdersCSV(&buf, orders))

	parsed, err := ReadOrdersCSV(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	// Re-parsed records must reproduce the same total to two decimals.
	original := aggregate.Aggregate(orders)
	reparsed := aggregate.Aggregate(parsed)
	assert.InDelta(t, original.TotalSpent, reparsed.TotalSpent, 0.005)
	assert.Equal(t, original.OrderCount, reparsed.OrderCount)
}

func TestReadOrdersCSV_SkipsBadRows(t *testing.T) {
	input := strings.Join([]string{
		"date,subject,sender,vendor,amount",
		"2025-03-02,ok,noreply@swiggy.in,Swiggy,250.00",
		"not-a-date,bad,noreply@swiggy.in,Swiggy,100.00",
		"2025-03-03,bad-amount,noreply@swiggy.in,Swiggy,oops",
	}, "\n")

	orders, err := ReadOrdersCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.InDelta(t, 250.00, orders[0].Amount, 0.001)
}

func TestReadOrdersCSV_BadHeader(t *testing.T) {
	_, err := ReadOrdersCSV(strings.NewReader("just,three,columns\n"))
	assert.Error(t, err)
}
