// Package sym defines the glyphs kin prints next to relations and CLI
// markers. They are stable across CLI, web and MCP output.
package sym

import "github.com/teranos/kin/relation"

// Relation type glyphs, as seen from the first person.
const (
	Ascending  = "↑"
	Descending = "↓"
	Arcing     = "⌒"
)

// Markers used in CLI and server output.
const (
	Self      = "⍟" // the speaker, "You"
	Relation  = "⋈" // a resolved relation
	Ambiguous = "⁇" // more than one reading
	Unknown   = "✗" // not a relation
	Step      = "⊘" // step or in-law, not blood
	Config    = "≡" // am configuration
	Serve     = "꩜" // server lifecycle
)

// entry binds a relation type to its glyph and command-line name.
type entry struct {
	typ         relation.Type
	glyph       string
	description string
}

var registry = []entry{
	{relation.Descending, Descending, "Descendant: the common ancestor is the first person"},
	{relation.Ascending, Ascending, "Ancestor: the common ancestor is the second person"},
	{relation.Arcing, Arcing, "Collateral: both people descend from the common ancestors"},
}

var (
	typeToGlyph = make(map[relation.Type]string, len(registry))
	glyphToType = make(map[string]relation.Type, len(registry))
)

func init() {
	for _, e := range registry {
		typeToGlyph[e.typ] = e.glyph
		glyphToType[e.glyph] = e.typ
	}
}

// Glyph returns the glyph for a relation type, or "?" for an unknown one.
func Glyph(t relation.Type) string {
	if g, ok := typeToGlyph[t]; ok {
		return g
	}
	return "?"
}

// FromGlyph returns the relation type a glyph stands for.
func FromGlyph(glyph string) (relation.Type, bool) {
	t, ok := glyphToType[glyph]
	return t, ok
}

// Describe returns a one-line explanation of a relation type for tooltips.
func Describe(t relation.Type) string {
	for _, e := range registry {
		if e.typ == t {
			return e.description
		}
	}
	return ""
}

// Label renders a relation type with its glyph, e.g. "⌒ arcing".
func Label(t relation.Type) string {
	return Glyph(t) + " " + t.String()
}
