// Package report shapes parse outcomes for JSON and YAML consumers: the
// HTTP API, the websocket, MCP tools and the CLI's structured output.
package report

import (
	"github.com/teranos/kin/calc"
	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/parser"
	"github.com/teranos/kin/relation"
)

// Outcome summarises how a phrase fared, for metrics labels and batch summaries.
type Outcome string

const (
	OutcomeResolved  Outcome = "resolved"
	OutcomeAmbiguous Outcome = "ambiguous"
	OutcomeUnknown   Outcome = "unknown_relation"
	OutcomeStep      Outcome = "step_relation"
	OutcomeInvalid   Outcome = "invalid"
)

// Report is the serialisable result of parsing one phrase.
type Report struct {
	Phrase      string            `json:"phrase" yaml:"phrase"`
	Outcome     Outcome           `json:"outcome" yaml:"outcome"`
	Relation    *Relation         `json:"relation,omitempty" yaml:"relation,omitempty"`
	Relatedness *calc.Relatedness `json:"relatedness,omitempty" yaml:"relatedness,omitempty"`
	Candidates  []string          `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Error       *Error            `json:"error,omitempty" yaml:"error,omitempty"`
}

// Relation is a resolved relation with its classification.
type Relation struct {
	Ancestors []relation.CommonAncestor `json:"ancestors" yaml:"ancestors"`
	Factor    int                       `json:"factor" yaml:"factor"`
	Type      relation.Type             `json:"type" yaml:"type"`
	Notation  string                    `json:"notation" yaml:"notation"`
}

// Error describes a failure or an ambiguity.
type Error struct {
	Kind        parser.ErrorKind `json:"kind" yaml:"kind"`
	Message     string           `json:"message" yaml:"message"`
	Suggestions []string         `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Range       *parser.Range    `json:"range,omitempty" yaml:"range,omitempty"`
}

// New builds a Report from the return values of parser.Parse.
func New(phrase string, res *parser.Result, err error) Report {
	rep := Report{Phrase: phrase}

	if err != nil {
		var perr *parser.ParseError
		if !errors.As(err, &perr) {
			rep.Outcome = OutcomeInvalid
			rep.Error = &Error{Message: err.Error()}
			return rep
		}
		rep.Outcome = OutcomeUnknown
		if perr.Kind == parser.ErrorKindStepRelation {
			rep.Outcome = OutcomeStep
		}
		rep.Error = fromParseError(perr)
		return rep
	}

	if res.IsAmbiguous() {
		rep.Outcome = OutcomeAmbiguous
		rep.Candidates = res.Candidates()
		rep.Error = fromParseError(res.Ambiguity)
		return rep
	}

	r := *res.Relation
	rel := calc.Calculate(r)
	rep.Outcome = OutcomeResolved
	rep.Relation = &Relation{
		Ancestors: append([]relation.CommonAncestor{}, r.Ancestors...),
		Factor:    r.Factor,
		Type:      r.Type(),
		Notation:  r.String(),
	}
	rep.Relatedness = &rel
	return rep
}

// Parse runs p on phrase and reports the outcome.
func Parse(p *parser.Parser, phrase string) Report {
	res, err := p.Parse(phrase)
	return New(phrase, res, err)
}

func fromParseError(perr *parser.ParseError) *Error {
	return &Error{
		Kind:        perr.Kind,
		Message:     perr.Message,
		Suggestions: append([]string(nil), perr.Suggestions...),
		Range:       perr.Range,
	}
}
