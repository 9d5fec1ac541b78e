package vocab

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxEditDistance bounds the typo fallback in Closest.
const maxEditDistance = 2

// Closest returns up to limit synonyms that look like word: first the terms
// containing its letters in order ("grndpa" -> "grandpa"), then terms within
// a small edit distance ("cousn" -> "cousin").
func Closest(word string, limit int) []string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" || limit <= 0 {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	add := func(s string) bool {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
		return len(out) >= limit
	}

	ranks := fuzzy.RankFindNormalizedFold(word, terms)
	sort.Sort(ranks)
	for _, r := range ranks {
		if add(r.Target) {
			return out
		}
	}

	type scored struct {
		term     string
		distance int
	}
	var near []scored
	for _, t := range terms {
		if d := fuzzy.LevenshteinDistance(word, t); d <= maxEditDistance {
			near = append(near, scored{t, d})
		}
	}
	sort.SliceStable(near, func(i, j int) bool {
		if near[i].distance != near[j].distance {
			return near[i].distance < near[j].distance
		}
		return near[i].term < near[j].term
	})
	for _, n := range near {
		if add(n.term) {
			break
		}
	}
	return out
}
