package extract

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Engine applies vendor-aware pattern cascades to normalized email text.
type Engine struct {
	generic  compiledRuleSet
	ruleSets []compiledRuleSet
	mu       sync.RWMutex
}

// NewEngine creates an engine from vendor rule sets plus one generic
// fallback set (SenderToken == ""). Exactly one generic set is required.
func NewEngine(ruleSets []RuleSet) (*Engine, error) {
	e := &Engine{}
	if err := e.load(ruleSets); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateRuleSets replaces the engine's configuration. The pattern list and
// selection rule per vendor are product configuration, not constants.
func (e *Engine) UpdateRuleSets(ruleSets []RuleSet) error {
	return e.load(ruleSets)
}

func (e *Engine) load(ruleSets []RuleSet) error {
	var generic *compiledRuleSet
	compiled := make([]compiledRuleSet, 0, len(ruleSets))

	for _, rs := range ruleSets {
		crs, err := compileRuleSet(rs)
		if err != nil {
			return err
		}
		if rs.SenderToken == "" {
			g := crs
			generic = &g
			continue
		}
		compiled = append(compiled, crs)
	}

	if generic == nil {
		return errNoGenericRuleSet
	}

	e.mu.Lock()
	e.generic = *generic
	e.ruleSets = compiled
	e.mu.Unlock()
	return nil
}

// Extract returns the single intended payable amount found in body, or
// false when no pattern in the cascade matches. It never fails on
// malformed input; unparseable candidates are skipped and the cascade
// continues.
func (e *Engine) Extract(body, sender string) (float64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rs := e.dispatch(sender)
	return rs.apply(body)
}

// Vendors returns the vendor label and selection rule of every configured
// vendor-specific rule set, in cascade order.
func (e *Engine) Vendors() []RuleSet {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]RuleSet, 0, len(e.ruleSets))
	for _, rs := range e.ruleSets {
		out = append(out, rs.RuleSet)
	}
	return out
}

// dispatch picks the rule set whose sender token appears in the sender
// address; the generic set is the last resort because its patterns are
// prone to matching unrelated numbers.
func (e *Engine) dispatch(sender string) compiledRuleSet {
	s := strings.ToLower(sender)
	for _, rs := range e.ruleSets {
		if strings.Contains(s, rs.SenderToken) {
			return rs
		}
	}
	return e.generic
}

// apply runs the cascade in strict priority order and reduces matches per
// the rule set's selection rule.
func (rs compiledRuleSet) apply(body string) (float64, bool) {
	if rs.Selection == SelectLastLabel {
		return rs.applyLastLabel(body)
	}

	for _, p := range rs.patterns {
		amounts := matchAmounts(p.regex, body)
		if len(amounts) == 0 {
			continue
		}
		switch rs.Selection {
		case SelectSum:
			total := 0.0
			for _, a := range amounts {
				total += a
			}
			return total, true
		default: // SelectMax
			largest := amounts[0]
			for _, a := range amounts[1:] {
				if a > largest {
					largest = a
				}
			}
			return largest, true
		}
	}
	return 0, false
}

// applyLastLabel collects matches from every pattern and keeps the result
// of the last pattern that matched anything, preferring its final match.
func (rs compiledRuleSet) applyLastLabel(body string) (float64, bool) {
	var (
		selected float64
		found    bool
	)
	for _, p := range rs.patterns {
		amounts := matchAmounts(p.regex, body)
		if len(amounts) > 0 {
			selected = amounts[len(amounts)-1]
			found = true
		}
	}
	return selected, found
}

func matchAmounts(re *regexp.Regexp, body string) []float64 {
	matches := re.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}

	amounts := make([]float64, 0, len(matches))
	for _, m := range matches {
		if len(m) < 2 {
			continue
		}
		amount, err := parseAmount(m[1])
		if err != nil {
			continue
		}
		amounts = append(amounts, amount)
	}
	return amounts
}

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// parseAmount turns a matched amount string into a float. Comma is always
// a thousands separator and dot the decimal point; this is a fixed
// assumption, not locale-aware.
func parseAmount(s string) (float64, error) {
	cleaned := nonNumeric.ReplaceAllString(strings.ReplaceAll(s, ",", ""), "")
	return strconv.ParseFloat(cleaned, 64)
}
