// Package parser turns English kinship phrases ("father's second cousin's
// daughter") into relations.
//
// A phrase is a possessive chain of relation terms. Each term may carry
// "great" and "half" modifiers and a trailing "N times removed" qualifier.
// The chain must follow the relation type progression: going up, then across,
// then down. Phrases with more than one reading come back as an ambiguity
// listing fully expanded phrases the caller can re-submit.
package parser

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/logger"
	"github.com/teranos/kin/relation"
	"github.com/teranos/kin/vocab"
)

// DefaultSuggestionLimit caps the "did you mean" hints on unknown terms.
const DefaultSuggestionLimit = 3

// SourceLabel names the first person of every phrase.
const SourceLabel = "You"

// EdgeRecorder receives every resolved chain element, labelled by the phrase
// consumed so far. The graph renderer implements it.
type EdgeRecorder interface {
	AddRelation(source, target string, r relation.Relation)
}

// Parser resolves phrases. The zero value is not usable; call New.
// A Parser holds no per-phrase state and is safe for concurrent use as long as
// its recorder is.
type Parser struct {
	logger          *zap.SugaredLogger
	recorder        EdgeRecorder
	maxRemoved      int
	suggestionLimit int
}

// Option configures a Parser.
type Option func(*Parser)

// WithRecorder reports resolved chain elements to r.
func WithRecorder(r EdgeRecorder) Option {
	return func(p *Parser) { p.recorder = r }
}

// WithLogger replaces the component logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Parser) { p.logger = l }
}

// WithMaxRemoved lowers the deepest accepted "times removed" qualifier.
// Values outside 1..vocab.MaxRemoved are ignored.
func WithMaxRemoved(n int) Option {
	return func(p *Parser) {
		if n >= 1 && n <= vocab.MaxRemoved {
			p.maxRemoved = n
		}
	}
}

// WithSuggestionLimit sets how many "did you mean" hints unknown terms get.
func WithSuggestionLimit(n int) Option {
	return func(p *Parser) {
		if n >= 0 {
			p.suggestionLimit = n
		}
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		logger:          logger.ComponentLogger("parser"),
		maxRemoved:      vocab.MaxRemoved,
		suggestionLimit: DefaultSuggestionLimit,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse resolves phrase with a default Parser.
func Parse(phrase string) (*Result, error) {
	return New().Parse(phrase)
}

// chain is the state of one Parse call.
type chain struct {
	phrase   string
	relation relation.Relation
	prevType relation.Type
	started  bool
	lastEnd  int
}

// Parse resolves phrase into a relation, or into an ambiguity listing the
// readings. A returned error is always a *ParseError of kind unknown_relation
// or step_relation, and no relation accompanies it.
func (p *Parser) Parse(phrase string) (*Result, error) {
	phrase = strings.TrimSpace(phrase)
	log := p.logger.With(logger.FieldPhrase, phrase)

	if loc := stepPattern.FindStringIndex(phrase); loc != nil {
		perr := NewParseError(ErrorKindStepRelation,
			fmt.Sprintf("%q is a relation through marriage, which has no common ancestors to count", phrase[loc[0]:loc[1]])).
			WithPhrase(phrase).
			WithRange(rangeOf(phrase, loc[0], loc[1])).
			WithUnderlying(errors.ErrStepRelation)
		log.Debugw("rejected step relation", logger.FieldErrorKind, perr.Kind)
		return nil, perr
	}

	if amb := twinAmbiguity(phrase); amb != nil {
		log.Debugw("ambiguous twin", logger.FieldCandidates, amb.Suggestions)
		return &Result{Phrase: phrase, Ambiguity: amb}, nil
	}

	c := &chain{phrase: phrase}
	for _, m := range relativePattern.FindAllStringSubmatchIndex(phrase, -1) {
		res, err := p.step(c, m)
		if err != nil {
			log.Debugw("parse failed", logger.FieldErrorKind, err.Kind, logger.FieldError, err.Message)
			return nil, err
		}
		if res != nil {
			log.Debugw("ambiguous relation", logger.FieldCandidates, res.Ambiguity.Suggestions)
			return res, nil
		}
	}

	if !c.started {
		perr := p.unknown(phrase, 0, len(phrase), "no relation found in %q", phrase)
		log.Debugw("parse failed", logger.FieldErrorKind, perr.Kind)
		return nil, perr
	}
	if rest := phrase[c.lastEnd:]; hasRelevantText(rest) {
		perr := p.unknown(phrase, c.lastEnd, len(phrase), "unrecognised text %q after the last relation", strings.TrimSpace(rest))
		log.Debugw("parse failed", logger.FieldErrorKind, perr.Kind)
		return nil, perr
	}

	r := c.relation
	log.Debugw("resolved", logger.FieldRelation, r.String(), logger.FieldType, r.Type().String())
	return &Result{Phrase: phrase, Relation: &r}, nil
}

// step consumes one match. It returns a non-nil Result only for an ambiguity.
func (p *Parser) step(c *chain, m []int) (*Result, *ParseError) {
	phrase := c.phrase
	start, end := m[0], m[1]
	group := func(g int) string {
		if m[2*g] < 0 {
			return ""
		}
		return phrase[m[2*g]:m[2*g+1]]
	}
	termStart := m[2*groupGreats]
	termEnd := m[2*groupTerm+1]
	hasPossessive := m[2*groupPossessive] >= 0

	if interim := phrase[c.lastEnd:start]; hasRelevantText(interim) {
		return nil, p.unknown(phrase, c.lastEnd, start, "unrecognised text %q", strings.TrimSpace(interim))
	}
	if !c.started && hasPossessive {
		return nil, NewParseError(ErrorKindUnknownRelation, "a phrase cannot start with a possessive").
			WithPhrase(phrase).
			WithRange(rangeOf(phrase, m[2*groupPossessive], m[2*groupPossessive+1])).
			WithUnderlying(errors.ErrUnknownRelation)
	}
	if c.started && !hasPossessive {
		return nil, NewParseError(ErrorKindUnknownRelation,
			fmt.Sprintf("%q must be joined to the previous relation with \"'s\"", phrase[termStart:termEnd])).
			WithPhrase(phrase).
			WithRange(rangeOf(phrase, termStart, termEnd)).
			WithSuggestion(strings.TrimSpace(phrase[:start]) + "'s " + phrase[termStart:end]).
			WithUnderlying(errors.ErrUnknownRelation)
	}

	term := group(groupTerm)
	kind, ok := vocab.Lookup(term)
	if !ok {
		return nil, p.unknown(phrase, m[2*groupTerm], termEnd, "unknown relation %q", term)
	}

	r := kind.Relation()
	greats := countGreats(group(groupGreats))
	half := group(groupHalf) != ""

	if greats > 0 {
		if !vocab.Greatable(kind) {
			return nil, NewParseError(ErrorKindUnknownRelation, fmt.Sprintf("%q cannot take \"great\"", term)).
				WithPhrase(phrase).
				WithRange(rangeOf(phrase, termStart, termEnd)).
				WithContext("kind", kind.String()).
				WithUnderlying(errors.ErrUnknownRelation)
		}
		r = r.Great(greats)
	}
	if half {
		if !vocab.Halfable(kind) {
			return nil, NewParseError(ErrorKindUnknownRelation, fmt.Sprintf("%q cannot take \"half\"", term)).
				WithPhrase(phrase).
				WithRange(rangeOf(phrase, termStart, termEnd)).
				WithContext("kind", kind.String()).
				WithUnderlying(errors.ErrUnknownRelation)
		}
		r = r.Half()
	}

	typ := r.Type()
	if c.started && !relation.IsValidProgression(c.prevType, typ) {
		return nil, NewParseError(ErrorKindUnknownRelation,
			fmt.Sprintf("%q cannot follow %q: a %s relation cannot be followed by a %s one",
				phrase[termStart:termEnd], strings.TrimSpace(phrase[:start]), c.prevType, typ)).
			WithPhrase(phrase).
			WithRange(rangeOf(phrase, termStart, termEnd)).
			WithContext("previous_type", c.prevType.String()).
			WithContext("type", typ.String()).
			WithUnderlying(errors.ErrUnknownRelation)
	}

	p.logger.Debugw("accepted relation term",
		logger.FieldTerm, term,
		logger.FieldKind, kind.String(),
		logger.FieldGreats, greats,
		logger.FieldHalf, half,
		logger.FieldType, typ.String())

	if m[2*groupRemoved] >= 0 {
		return p.removedAmbiguity(c, m)
	}

	if !c.started {
		c.relation = r
	} else {
		composed, err := relation.Compose(c.relation, r)
		if err != nil {
			return nil, NewParseError(ErrorKindUnknownRelation,
				fmt.Sprintf("%q cannot be applied to %q: both have more than one common ancestor",
					phrase[termStart:termEnd], strings.TrimSpace(phrase[:start]))).
				WithPhrase(phrase).
				WithRange(rangeOf(phrase, termStart, termEnd)).
				WithUnderlying(errors.Wrap(errors.ErrUnknownRelation, err.Error()))
		}
		c.relation = composed
	}

	if p.recorder != nil {
		source := SourceLabel
		if c.started {
			source = "Your " + strings.ToLower(strings.TrimSpace(phrase[:start]))
		}
		target := "Your " + strings.ToLower(strings.TrimSpace(phrase[:end]))
		p.recorder.AddRelation(source, target, r)
	}

	c.started = true
	c.prevType = typ
	c.lastEnd = end
	return nil, nil
}

// removedAmbiguity expands "X N times removed" into "X's <Nth descendant>" and
// "<Nth ancestor>'s X", keeping the rest of the phrase around it.
func (p *Parser) removedAmbiguity(c *chain, m []int) (*Result, *ParseError) {
	phrase := c.phrase
	qualifier := phrase[m[2*groupRemoved]:m[2*groupRemoved+1]]
	n := timesRemoved(qualifier)
	if n < 1 || n > p.maxRemoved {
		return nil, NewParseError(ErrorKindUnknownRelation, fmt.Sprintf("unsupported qualifier %q", qualifier)).
			WithPhrase(phrase).
			WithRange(rangeOf(phrase, m[2*groupRemoved], m[2*groupRemoved+1])).
			WithContext("max_removed", p.maxRemoved).
			WithUnderlying(errors.ErrUnknownRelation)
	}

	before := phrase[:m[0]]
	possessive := ""
	if m[2*groupPossessive] >= 0 {
		possessive = phrase[m[2*groupPossessive]:m[2*groupPossessive+1]]
	}
	term := phrase[m[2*groupGreats]:m[2*groupTerm+1]]
	after := phrase[m[1]:]

	descendant := before + possessive + term + vocab.Possessive + " " + vocab.DescendingName(n) + after
	ancestor := before + possessive + vocab.AscendingName(n) + vocab.Possessive + " " + term + after

	amb := NewParseError(ErrorKindAmbiguity,
		fmt.Sprintf("%q can be counted up or down the family tree", term+" "+qualifier)).
		WithSeverity(SeverityWarning).
		WithPhrase(phrase).
		WithRange(rangeOf(phrase, m[2*groupGreats], m[1])).
		WithSuggestions(descendant, ancestor).
		WithContext("times_removed", n).
		WithUnderlying(errors.ErrAmbiguity)
	return &Result{Phrase: phrase, Ambiguity: amb}, nil
}

// unknown builds an unknown-relation error for phrase[start:end] with "did you
// mean" hints for the first word in that span.
func (p *Parser) unknown(phrase string, start, end int, format string, args ...interface{}) *ParseError {
	perr := NewParseError(ErrorKindUnknownRelation, fmt.Sprintf(format, args...)).
		WithPhrase(phrase).
		WithRange(rangeOf(phrase, start, end)).
		WithUnderlying(errors.ErrUnknownRelation)
	if word := firstWord(phrase[start:end]); word != "" {
		perr.WithSuggestions(vocab.Closest(word, p.suggestionLimit)...)
	}
	return perr
}
