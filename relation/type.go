package relation

import (
	"github.com/teranos/kin/errors"
)

// Type classifies a relation by where the common ancestor sits relative to
// the first person.
type Type int

const (
	// Descending relations lead down from the first person (child, grandchild).
	Descending Type = iota
	// Ascending relations lead straight up (parent, grandparent).
	Ascending
	// Arcing relations go up to an ancestor and back down (sibling, cousin).
	Arcing
)

var typeNames = map[Type]string{
	Descending: "descending",
	Ascending:  "ascending",
	Arcing:     "arcing",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the type by name in JSON and YAML.
func (t Type) MarshalText() ([]byte, error) {
	if _, ok := typeNames[t]; !ok {
		return nil, errors.Newf("unknown relation type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText parses a type name.
func (t *Type) UnmarshalText(text []byte) error {
	for typ, name := range typeNames {
		if name == string(text) {
			*t = typ
			return nil
		}
	}
	return errors.Newf("unknown relation type %q", string(text))
}

// Classify inspects the first common ancestor. Self, with both distances
// zero, classifies as Descending.
func Classify(r Relation) Type {
	if len(r.Ancestors) == 0 {
		return Descending
	}
	a := r.Ancestors[0]
	switch {
	case a.DistanceFromFirst == 0:
		return Descending
	case a.DistanceFromSecond == 0:
		return Ascending
	default:
		return Arcing
	}
}

// Type is shorthand for Classify(r).
func (r Relation) Type() Type {
	return Classify(r)
}

// progressions lists which type may follow which in a possessive chain.
var progressions = map[Type][]Type{
	Ascending:  {Ascending, Arcing},
	Arcing:     {Descending},
	Descending: {Descending},
}

// IsValidProgression reports whether a relation of type next may be applied
// to one of type prev ("prev's next").
func IsValidProgression(prev, next Type) bool {
	for _, allowed := range progressions[prev] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedAfter returns the types that may follow prev.
func AllowedAfter(prev Type) []Type {
	return append([]Type(nil), progressions[prev]...)
}
