package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/teranos/kin/vocab"
)

// Submatch groups of relativePattern.
const (
	groupPossessive = 1
	groupGreats     = 2
	groupHalf       = 3
	groupTerm       = 4
	groupRemoved    = 5
)

const (
	possessiveExpr = `(?:'|’)s\s+`
	greatsExpr     = `(?:great[ -]?)*`
	halfExpr       = `(?:half[ -]?)?`
	removedExpr    = `(?:once|twice|thrice|(?:one|two|three|four|five|six|seven|eight|nine|[1-9])[ -]?times)[ -]?removed`
)

// Compiled at init from the vocabulary.
var (
	termAlternation = buildTermAlternation()

	relativePattern = regexp.MustCompile(`(?i)(` + possessiveExpr + `)?(` + greatsExpr + `)(` + halfExpr + `)(` +
		termAlternation + `)(?:[ ,]+(` + removedExpr + `))?`)

	stepPattern = regexp.MustCompile(`(?i)\bstep[ -]?` + greatsExpr + `(?:` + termAlternation + `)|(?:` +
		termAlternation + `)s?[ -]in[ -]laws?\b`)

	twinPattern = regexp.MustCompile(`(?i)(?:\b(fraternal|identical)[ -]?)?\btwin\b`)

	wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)
)

// buildTermAlternation joins every synonym longest-first. A space inside a
// term may be written as nothing or a hyphen ("grand dad", "granddad", "grand-dad").
func buildTermAlternation() string {
	terms := vocab.Terms()
	alts := make([]string, len(terms))
	for i, t := range terms {
		alts[i] = strings.ReplaceAll(regexp.QuoteMeta(t), " ", "[ -]?")
	}
	return strings.Join(alts, "|")
}

var removedCounts = map[string]int{
	"once":   1,
	"twice":  2,
	"thrice": 3,
	"one":    1,
	"two":    2,
	"three":  3,
	"four":   4,
	"five":   5,
	"six":    6,
	"seven":  7,
	"eight":  8,
	"nine":   9,
}

// timesRemoved reads the count from a qualifier such as "twice removed" or
// "3 times removed". It returns 0 if the qualifier is not understood.
func timesRemoved(qualifier string) int {
	q := strings.ToLower(strings.TrimSpace(qualifier))
	word := strings.TrimSuffix(q, "removed")
	word = strings.TrimRight(word, " -")
	word = strings.TrimSuffix(word, "times")
	word = strings.TrimRight(word, " -")

	if n, ok := removedCounts[word]; ok {
		return n
	}
	if n, err := strconv.Atoi(word); err == nil && n >= 1 && n <= vocab.MaxRemoved {
		return n
	}
	return 0
}

// countGreats counts "great" occurrences in the modifier prefix.
func countGreats(prefix string) int {
	return strings.Count(strings.ToLower(prefix), vocab.Great)
}

// hasRelevantText reports whether s contains letters or digits, i.e. text the
// scanner would otherwise skip silently.
func hasRelevantText(s string) bool {
	return wordPattern.MatchString(s)
}

// firstWord returns the first run of letters or digits in s, skipping the
// "s" of a possessive.
func firstWord(s string) string {
	for _, w := range wordPattern.FindAllString(s, -1) {
		if w != "s" && w != "S" {
			return w
		}
	}
	return ""
}
