package parser

import (
	"fmt"

	"github.com/teranos/kin/vocab"
)

// SemanticTokenType classifies spans of a phrase by grammatical role
type SemanticTokenType string

const (
	SemanticPossessive SemanticTokenType = "possessive" // 's
	SemanticModifier   SemanticTokenType = "modifier"   // great, half
	SemanticTerm       SemanticTokenType = "term"       // father, second cousin
	SemanticQualifier  SemanticTokenType = "qualifier"  // twice removed
	SemanticUnknown    SemanticTokenType = "unknown"    // Unrecognised text
)

// SemanticToken is a classified span of a phrase, for highlighting as the
// user types. Hover describes the term's kind and canonical relation.
type SemanticToken struct {
	Text  string            `json:"text"`
	Type  SemanticTokenType `json:"semantic_type"`
	Range Range             `json:"range"`
	Hover string            `json:"hover,omitempty"`
}

// Tokens classifies every span the scanner would see in phrase. Unlike Parse
// it never fails: unrecognised text becomes SemanticUnknown tokens.
func Tokens(phrase string) []SemanticToken {
	var tokens []SemanticToken
	add := func(typ SemanticTokenType, start, end int, hover string) {
		if start < 0 || end <= start {
			return
		}
		tokens = append(tokens, SemanticToken{
			Text:  phrase[start:end],
			Type:  typ,
			Range: rangeOf(phrase, start, end),
			Hover: hover,
		})
	}
	unknownWords := func(from, to int) {
		for _, w := range wordPattern.FindAllStringIndex(phrase[from:to], -1) {
			add(SemanticUnknown, from+w[0], from+w[1], "")
		}
	}

	last := 0
	for _, m := range relativePattern.FindAllStringSubmatchIndex(phrase, -1) {
		unknownWords(last, m[0])

		add(SemanticPossessive, m[2*groupPossessive], m[2*groupPossessive+1], "")
		add(SemanticModifier, m[2*groupGreats], m[2*groupGreats+1], "")
		add(SemanticModifier, m[2*groupHalf], m[2*groupHalf+1], "")

		term := phrase[m[2*groupTerm]:m[2*groupTerm+1]]
		hover := ""
		if kind, ok := vocab.Lookup(term); ok {
			hover = fmt.Sprintf("%s %s", kind, kind.Relation())
		}
		add(SemanticTerm, m[2*groupTerm], m[2*groupTerm+1], hover)
		add(SemanticQualifier, m[2*groupRemoved], m[2*groupRemoved+1], "")

		last = m[1]
	}
	unknownWords(last, len(phrase))

	return tokens
}
