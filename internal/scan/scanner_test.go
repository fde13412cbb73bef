package scan

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rupeeflow/rupeeflow/internal/aggregate"
	"github.com/rupeeflow/rupeeflow/internal/extract"
	"github.com/rupeeflow/rupeeflow/internal/filter"
	"github.com/rupeeflow/rupeeflow/internal/imap"
	"github.com/rupeeflow/rupeeflow/internal/model"
	"github.com/rupeeflow/rupeeflow/internal/vendor"
)

type fakeSource struct {
	messages map[string][]model.RawMessage
	err      error
	fetches  int
}

func (f *fakeSource) Fetch(_ context.Context, query imap.FetchQuery) ([]model.RawMessage, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.messages[query.Sender], nil
}

func (f *fakeSource) CheckLogin(context.Context) error { return f.err }

func rawMessage(sender, subject, body string) model.RawMessage {
	raw := strings.Join([]string{
		"From: " + sender,
		"Subject: " + subject,
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
		"",
	}, "\r\n")
	return model.RawMessage{
		Date:    time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
		Subject: subject,
		Sender:  sender,
		Raw:     []byte(raw),
	}
}

func newTestScanner(t *testing.T, source *fakeSource) *Scanner {
	t.Helper()
	engine, err := extract.NewEngine(extract.DefaultRuleSets())
	require.NoError(t, err)
	return NewScanner(source, engine, filter.New(nil), vendor.DefaultMap(), nil)
}

func TestScanner_EndToEnd(t *testing.T) {
	source := &fakeSource{
		messages: map[string][]model.RawMessage{
			"noreply@swiggy.in": {
				rawMessage("noreply@swiggy.in", "Order delivered", "Order Total: ₹250.00"),
				rawMessage("noreply@swiggy.in", "Order update", "This order was cancelled"),
				{
					Date:    time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
					Subject: "Garbage",
					Sender:  "noreply@swiggy.in",
					Raw:     []byte("\x00\x01 unparseable"),
				},
			},
		},
	}

	scanner := newTestScanner(t, source)
	orders, err := scanner.Scan(context.Background(), Query{Vendors: []string{vendor.Swiggy}})
	require.NoError(t, err)

	require.Len(t, orders, 1)
	assert.InDelta(t, 250.00, orders[0].Amount, 0.001)
	assert.Equal(t, vendor.Swiggy, orders[0].Vendor)

	report := aggregate.Aggregate(orders)
	assert.Equal(t, 1, report.OrderCount)
	assert.InDelta(t, 250.00, report.TotalSpent, 0.001)
}

func TestScanner_NoAmountMessagesSkipped(t *testing.T) {
	source := &fakeSource{
		messages: map[string][]model.RawMessage{
			"noreply@zomato.com": {
				rawMessage("noreply@zomato.com", "We miss you!", "Come back for more biryani."),
			},
		},
	}

	scanner := newTestScanner(t, source)
	orders, err := scanner.Scan(context.Background(), Query{Vendors: []string{vendor.Zomato}})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestScanner_AllFetchesFailed(t *testing.T) {
	source := &fakeSource{err: imap.ErrConnection}

	scanner := newTestScanner(t, source)
	_, err := scanner.Scan(context.Background(), Query{Vendors: []string{vendor.Swiggy}})
	require.Error(t, err)
	assert.ErrorIs(t, err, imap.ErrConnection)
}

func TestScanner_UnknownVendorSkipped(t *testing.T) {
	source := &fakeSource{}

	scanner := newTestScanner(t, source)
	orders, err := scanner.Scan(context.Background(), Query{Vendors: []string{"NotAVendor"}})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Zero(t, source.fetches)
}

func TestScanner_CheckLogin(t *testing.T) {
	require.NoError(t, newTestScanner(t, &fakeSource{}).CheckLogin(context.Background()))

	failing := newTestScanner(t, &fakeSource{err: imap.ErrConnection})
	assert.ErrorIs(t, failing.CheckLogin(context.Background()), imap.ErrConnection)
}

func TestScanner_ProgressCallback(t *testing.T) {
	source := &fakeSource{}
	scanner := newTestScanner(t, source)

	calls := 0
	scanner.Progress = func() { calls++ }

	query := Query{Vendors: []string{vendor.Swiggy, vendor.Amazon}}
	_, err := scanner.Scan(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, scanner.AddressCount(query), calls)
}
