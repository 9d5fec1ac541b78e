package suggest

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/teranos/kin/vocab"
)

// DidYouMean returns up to limit indexed phrases resembling term, closest
// first. Phrases containing term's letters in order rank by edit distance;
// typo matches from the vocabulary fill any remaining slots.
func (s *Suggester) DidYouMean(term string, limit int) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	ranks := fuzzy.RankFindNormalizedFold(term, s.phrases)
	sort.Sort(ranks)

	seen := make(map[string]bool)
	var out []string
	for _, r := range ranks {
		if len(out) == limit {
			return out
		}
		seen[r.Target] = true
		out = append(out, r.Target)
	}
	for _, c := range vocab.Closest(term, limit) {
		if len(out) == limit {
			break
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
