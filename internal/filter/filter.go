// Package filter excludes messages whose text indicates a cancelled,
// refunded, returned, or failed order before extraction runs.
//
// The check is a plain substring scan over the concatenated subject and
// body. It is a cheap heuristic, not a parser of vendor order-status
// fields: a promotional line such as "no cancellation fee" will trip it.
package filter

import "strings"

// ExclusionVocabulary lists the substrings that mark a message as money
// that was never actually spent.
var ExclusionVocabulary = []string{
	"cancel",
	"refunded",
	"returned",
	"failed",
	"declined",
}

// Filter scans message text against an exclusion vocabulary.
type Filter struct {
	vocabulary []string
}

// New creates a Filter with the given vocabulary. An empty vocabulary
// falls back to the default exclusion set.
func New(vocabulary []string) *Filter {
	if len(vocabulary) == 0 {
		vocabulary = ExclusionVocabulary
	}
	lowered := make([]string, len(vocabulary))
	for i, word := range vocabulary {
		lowered[i] = strings.ToLower(word)
	}
	return &Filter{vocabulary: lowered}
}

// ShouldSkip reports whether a message must be excluded before the
// extraction cascade runs.
func (f *Filter) ShouldSkip(subject, body string) bool {
	text := strings.ToLower(subject + " " + body)
	for _, word := range f.vocabulary {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
