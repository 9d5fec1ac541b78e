package parser

import (
	"github.com/teranos/kin/calc"
	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/relation"
	"github.com/teranos/kin/vocab"
)

// Result is a resolved relation or an ambiguity, never both.
type Result struct {
	Phrase    string             `json:"phrase"`
	Relation  *relation.Relation `json:"relation,omitempty"`
	Ambiguity *ParseError        `json:"ambiguity,omitempty"`
}

// IsAmbiguous reports whether the caller must choose between candidates.
func (r *Result) IsAmbiguous() bool {
	return r != nil && r.Ambiguity != nil
}

// Candidates lists the fully expanded phrases of an ambiguity.
func (r *Result) Candidates() []string {
	if !r.IsAmbiguous() {
		return nil
	}
	return append([]string(nil), r.Ambiguity.Suggestions...)
}

// Resolved returns the relation, or ErrAmbiguity if there is none.
func (r *Result) Resolved() (relation.Relation, error) {
	if r == nil || r.Relation == nil {
		if r.IsAmbiguous() {
			return relation.Relation{}, r.Ambiguity
		}
		return relation.Relation{}, errors.ErrAmbiguity
	}
	return *r.Relation, nil
}

// Relatedness computes the coefficient of the resolved relation.
func (r *Result) Relatedness() (calc.Relatedness, bool) {
	if r == nil || r.Relation == nil {
		return calc.Relatedness{}, false
	}
	return calc.Calculate(*r.Relation), true
}

// twinAmbiguity offers fraternal and identical readings for the first bare
// "twin" in phrase, or returns nil if every twin is already qualified.
func twinAmbiguity(phrase string) *ParseError {
	for _, m := range twinPattern.FindAllStringSubmatchIndex(phrase, -1) {
		if m[2] >= 0 {
			continue
		}
		start, end := m[0], m[1]
		var candidates []string
		for _, kind := range []vocab.Kind{vocab.FraternalTwin, vocab.IdenticalTwin} {
			candidates = append(candidates, phrase[:start]+vocab.Synonyms(kind)[0]+phrase[end:])
		}
		return NewParseError(ErrorKindAmbiguity, "twins may be fraternal or identical").
			WithSeverity(SeverityWarning).
			WithPhrase(phrase).
			WithRange(rangeOf(phrase, start, end)).
			WithSuggestions(candidates...).
			WithUnderlying(errors.ErrAmbiguity)
	}
	return nil
}
