package extract

import (
	"errors"

	"github.com/rupeeflow/rupeeflow/internal/vendor"
)

var errNoGenericRuleSet = errors.New("a generic rule set (empty sender token) is required")

// DefaultRuleSets returns the built-in extraction configuration. The exact
// pattern list and selection rule per vendor are product configuration,
// tuned against observed vendor formats; config can override the selection
// rule per vendor.
func DefaultRuleSets() []RuleSet {
	return []RuleSet{
		{
			Vendor:      vendor.Swiggy,
			SenderToken: "swiggy",
			// Labels ordered least to most specific; the last label that
			// matches wins regardless of magnitude.
			Selection: SelectLastLabel,
			Patterns: []Pattern{
				{Label: "Paid Via Bank", Regex: `Paid Via Bank\s*:\s*₹\s*([\d,]+(?:\.\d+)?)`},
				{Label: "Order Total", Regex: `Order Total\s*:\s*₹\s*([\d,]+(?:\.\d+)?)`},
				{Label: "Amount Payable", Regex: `Amount Payable\s*:\s*₹\s*([\d,]+(?:\.\d+)?)`},
			},
		},
		{
			Vendor:      vendor.Amazon,
			SenderToken: "amazon",
			// Amazon merges several shipments into one digest email with
			// an independent Total line per shipment.
			Selection: SelectSum,
			Patterns: []Pattern{
				{Label: "Shipment Total", Regex: `Total\s*₹\s*([\d,]+(?:\.\d+)?)`},
			},
		},
		{
			// Generic fallback: tried only when no vendor token matched.
			Vendor:    vendor.Unknown,
			Selection: SelectMax,
			Patterns: []Pattern{
				{Label: "Flipkart Delivery", Regex: `Amount Payable on Delivery\s*₹\.?\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`},
				{Label: "Payment Pending", Regex: `Payment pending:\s*Rs\.\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`},
				{Label: "Flipkart Items", Regex: `Item\(s\) total\s*₹\.?\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`},
				{Label: "Generic Total", Regex: `(?:Total|Grand Total)\s*:\s*₹\.?\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`},
				{Label: "Contextual Amount", Regex: `₹\.?\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)\s*(?:on delivery|payable)`},
				{Label: "Order Total", Regex: `Order Total:\s*₹\s*(\d+(?:\.\d{2})?)`},
				{Label: "Cash Payment", Regex: `Paid Via Cash:\s*₹\s*(\d+(?:\.\d{2})?)`},
				{Label: "Simple Total", Regex: `Total:\s*₹\s*(\d+(?:\.\d{2})?)`},
				{Label: "RS Format", Regex: `RS\.\s*(?:RS\.|₹)\s*(\d{1,3}(?:[,\s]\d{3})*(?:\.\d{1,2})?)`},
				{Label: "INR Format", Regex: `INR\s*(\d+(?:\.\d{2})?)`},
			},
		},
	}
}
