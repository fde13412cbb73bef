package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultRuleSets())
	require.NoError(t, err)
	return engine
}

func TestEngine_Extract_NoMatch(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"no currency-tagged number", "Thanks for shopping with us! See you again soon."},
		{"numbers without currency context", "Your delivery partner is 3 km away, ETA 12 minutes."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, ok := engine.Extract(tt.body, "someone@example.com")
			assert.False(t, ok)
			assert.Zero(t, amount)
		})
	}
}

func TestEngine_Extract_MaxRule(t *testing.T) {
	engine := newTestEngine(t)

	// Three totals on one generic pattern; the largest is the payable one.
	body := "Total: ₹120.00 something Total: ₹45.00 more Total: ₹300.00"

	amount, ok := engine.Extract(body, "orders@unknownshop.example")
	require.True(t, ok)
	assert.InDelta(t, 300.00, amount, 0.001)
}

func TestEngine_Extract_SumRule(t *testing.T) {
	engine := newTestEngine(t)

	// Two shipments merged into one Amazon digest email.
	body := "Shipment 1 of 2\nTotal ₹ 199.00\nShipment 2 of 2\nTotal ₹ 450.50"

	amount, ok := engine.Extract(body, "auto-confirm@amazon.in")
	require.True(t, ok)
	assert.InDelta(t, 649.50, amount, 0.001)
}

func TestEngine_Extract_LastLabelRule(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name string
		body string
		want float64
	}{
		{
			name: "most specific label outranks magnitude",
			body: "Paid Via Bank : ₹ 999.00\nAmount Payable : ₹ 250.00",
			want: 250.00,
		},
		{
			name: "single labeled match",
			body: "Order Total : ₹ 423.00",
			want: 423.00,
		},
		{
			name: "later label wins over earlier",
			body: "Paid Via Bank : ₹ 100.00\nOrder Total : ₹ 180.00",
			want: 180.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, ok := engine.Extract(tt.body, "noreply@swiggy.in")
			require.True(t, ok)
			assert.InDelta(t, tt.want, amount, 0.001)
		})
	}
}

func TestEngine_Extract_SingleMatchAllRuleClasses(t *testing.T) {
	// A body with exactly one match returns that value regardless of
	// which rule class applies.
	tests := []struct {
		name   string
		sender string
		body   string
		want   float64
	}{
		{"max rule", "orders@unknownshop.example", "Total: ₹250.00", 250.00},
		{"sum rule", "auto-confirm@amazon.in", "Total ₹250.00", 250.00},
		{"last-label rule", "noreply@swiggy.in", "Order Total : ₹250.00", 250.00},
	}

	engine := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, ok := engine.Extract(tt.body, tt.sender)
			require.True(t, ok)
			assert.InDelta(t, tt.want, amount, 0.001)
		})
	}
}

func TestEngine_Extract_ThousandsSeparators(t *testing.T) {
	engine := newTestEngine(t)

	amount, ok := engine.Extract("Grand Total : ₹ 1,234.56", "orders@unknownshop.example")
	require.True(t, ok)
	assert.InDelta(t, 1234.56, amount, 0.001)
}

func TestEngine_Extract_CascadeOrder(t *testing.T) {
	engine := newTestEngine(t)

	// The first generic pattern that matches wins; later patterns are not
	// consulted even if they would match a larger number.
	body := "Payment pending: Rs. 150.00\nTotal: ₹ 900.00"

	amount, ok := engine.Extract(body, "orders@unknownshop.example")
	require.True(t, ok)
	assert.InDelta(t, 150.00, amount, 0.001)
}

func TestEngine_Extract_MalformedCandidateSkipped(t *testing.T) {
	engine := newTestEngine(t)

	// The dotted candidate parses; extraction must not fail on it.
	amount, ok := engine.Extract("Total: ₹ 120.00", "orders@unknownshop.example")
	require.True(t, ok)
	assert.InDelta(t, 120.00, amount, 0.001)
}

func TestNewEngine_Validation(t *testing.T) {
	t.Run("missing generic set", func(t *testing.T) {
		_, err := NewEngine([]RuleSet{
			{Vendor: "Swiggy", SenderToken: "swiggy", Selection: SelectMax, Patterns: []Pattern{{Label: "x", Regex: `(\d+)`}}},
		})
		assert.Error(t, err)
	})

	t.Run("bad regex", func(t *testing.T) {
		_, err := NewEngine([]RuleSet{
			{Vendor: "Unknown", Selection: SelectMax, Patterns: []Pattern{{Label: "bad", Regex: `([`}}},
		})
		assert.Error(t, err)
	})

	t.Run("unknown selection rule", func(t *testing.T) {
		_, err := NewEngine([]RuleSet{
			{Vendor: "Unknown", Selection: SelectionRule("median"), Patterns: nil},
		})
		assert.Error(t, err)
	})
}

func TestEngine_UpdateRuleSets(t *testing.T) {
	engine := newTestEngine(t)

	err := engine.UpdateRuleSets([]RuleSet{
		{Vendor: "Unknown", Selection: SelectSum, Patterns: []Pattern{
			{Label: "Simple Total", Regex: `Total:\s*₹\s*(\d+(?:\.\d{2})?)`},
		}},
	})
	require.NoError(t, err)

	amount, ok := engine.Extract("Total: ₹100.00 Total: ₹50.00", "anyone@example.com")
	require.True(t, ok)
	assert.InDelta(t, 150.00, amount, 0.001)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"250.00", 250.00, false},
		{"1,234", 1234, false},
		{"1,234.56", 1234.56, false},
		{"₹99", 99, false},
		{"", 0, true},
		{"...", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}
