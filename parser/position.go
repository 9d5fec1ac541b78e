package parser

import "unicode/utf8"

// Position is a point in a phrase.
// Character counts runes, Offset counts bytes; both are 0-based.
type Position struct {
	Character int `json:"character"`
	Offset    int `json:"offset"`
}

// Range is a span of a phrase from Start (inclusive) to End (exclusive)
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// positionAt converts a byte offset in source into a Position
func positionAt(source string, offset int) Position {
	if offset > len(source) {
		offset = len(source)
	}
	if offset < 0 {
		offset = 0
	}
	return Position{
		Character: utf8.RuneCountInString(source[:offset]),
		Offset:    offset,
	}
}

// rangeOf builds the Range for source[start:end]
func rangeOf(source string, start, end int) Range {
	return Range{Start: positionAt(source, start), End: positionAt(source, end)}
}

// Text returns the slice of source covered by r
func (r Range) Text(source string) string {
	if r.Start.Offset < 0 || r.End.Offset > len(source) || r.Start.Offset > r.End.Offset {
		return ""
	}
	return source[r.Start.Offset:r.End.Offset]
}
