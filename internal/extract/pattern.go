// Package extract recovers a single monetary amount from normalized email
// text using an ordered cascade of vendor-aware patterns.
package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is one labeled amount-matching rule. The regex must capture the
// numeric amount in its first submatch group.
type Pattern struct {
	Label string
	Regex string
}

// SelectionRule reduces multiple numeric matches from a cascade to one
// amount.
type SelectionRule string

const (
	// SelectMax picks the numerically largest match. Across observed
	// formats the final payable total is typically the largest figure
	// present, exceeding item-level subtotals.
	SelectMax SelectionRule = "max"
	// SelectSum adds all matches. Used for vendors that merge several
	// shipments into one digest email with independent "Total" lines.
	SelectSum SelectionRule = "sum"
	// SelectLastLabel picks the match from the last pattern in the list
	// that produced any result. Label specificity outranks magnitude.
	SelectLastLabel SelectionRule = "last-label"
)

// RuleSet binds an ordered pattern list and a selection rule to a vendor.
// A message whose sender contains SenderToken dispatches to this set;
// an empty token marks the generic fallback set.
type RuleSet struct {
	Vendor      string
	SenderToken string
	Selection   SelectionRule
	Patterns    []Pattern
}

type compiledPattern struct {
	regex *regexp.Regexp
	Pattern
}

type compiledRuleSet struct {
	RuleSet
	patterns []compiledPattern
}

func compileRuleSet(rs RuleSet) (compiledRuleSet, error) {
	switch rs.Selection {
	case SelectMax, SelectSum, SelectLastLabel:
	default:
		return compiledRuleSet{}, fmt.Errorf("rule set %s: unknown selection rule %q", rs.Vendor, rs.Selection)
	}

	compiled := make([]compiledPattern, 0, len(rs.Patterns))
	for _, p := range rs.Patterns {
		regexStr := p.Regex
		if !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr // Make case-insensitive by default
		}

		regex, err := regexp.Compile(regexStr)
		if err != nil {
			return compiledRuleSet{}, fmt.Errorf("failed to compile pattern %s: %w", p.Label, err)
		}

		compiled = append(compiled, compiledPattern{
			Pattern: p,
			regex:   regex,
		})
	}

	return compiledRuleSet{RuleSet: rs, patterns: compiled}, nil
}
