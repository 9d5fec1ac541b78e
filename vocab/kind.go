// Package vocab holds the closed set of named relation kinds, their canonical
// relations, and the English words that name them.
//
// Everything here is built at package initialisation and never mutated, so it
// is safe to share across goroutines. Accessors hand out copies.
package vocab

import (
	"github.com/teranos/kin/relation"
)

// Kind is a named relation with exactly one canonical Relation.
type Kind int

const (
	Self Kind = iota
	Parent
	Child
	Sibling
	HalfSibling
	Cousin
	SecondCousin
	ThirdCousin
	FourthCousin
	FifthCousin
	SixthCousin
	SeventhCousin
	EighthCousin
	Grandparent
	Grandchild
	AuntOrUncle
	NieceOrNephew
	GreatGrandparent
	GreatGrandchild
	GreatAuntOrUncle
	GreatNieceOrNephew
	DoubleFirstCousin
	FraternalTwin
	IdenticalTwin

	kindCount
)

type entry struct {
	name      string
	canonical relation.Relation
	greatable bool
	halfable  bool
	synonyms  []string
}

func ca(d1, d2 int) relation.CommonAncestor {
	return relation.CommonAncestor{DistanceFromFirst: d1, DistanceFromSecond: d2}
}

// pair is the two-parent shape shared by siblings, cousins, aunts and uncles.
func pair(d1, d2 int) relation.Relation {
	return relation.New(relation.Repeat(ca(d1, d2), 2)...)
}

func nthCousin(name string, n int, ordinal, abbrev string) entry {
	return entry{
		name:      name,
		canonical: pair(n+1, n+1),
		halfable:  true,
		synonyms:  []string{ordinal + " cousin", abbrev + " cousin"},
	}
}

var table = func() [kindCount]entry {
	var t [kindCount]entry

	t[Self] = entry{name: "Self", canonical: relation.New(ca(0, 0)),
		synonyms: []string{"self", "myself"}}
	t[Parent] = entry{name: "Parent", canonical: relation.New(ca(1, 0)),
		synonyms: []string{"parent", "father", "mother", "dad", "mom", "mum", "pop", "daddy", "mommy", "mama", "mamma", "pops"}}
	t[Child] = entry{name: "Child", canonical: relation.New(ca(0, 1)),
		synonyms: []string{"son", "daughter", "child", "kid"}}
	t[Sibling] = entry{name: "Sibling", canonical: pair(1, 1), halfable: true,
		synonyms: []string{"sibling", "brother", "sister", "sis", "bro"}}
	t[HalfSibling] = entry{name: "HalfSibling", canonical: relation.New(ca(1, 1))}
	t[Cousin] = entry{name: "Cousin", canonical: pair(2, 2), halfable: true,
		synonyms: []string{"cousin", "first cousin", "1st cousin"}}

	t[SecondCousin] = nthCousin("SecondCousin", 2, "second", "2nd")
	t[ThirdCousin] = nthCousin("ThirdCousin", 3, "third", "3rd")
	t[FourthCousin] = nthCousin("FourthCousin", 4, "fourth", "4th")
	t[FifthCousin] = nthCousin("FifthCousin", 5, "fifth", "5th")
	t[SixthCousin] = nthCousin("SixthCousin", 6, "sixth", "6th")
	t[SeventhCousin] = nthCousin("SeventhCousin", 7, "seventh", "7th")
	t[EighthCousin] = nthCousin("EighthCousin", 8, "eighth", "8th")

	t[Grandparent] = entry{name: "Grandparent", canonical: relation.New(ca(2, 0)), greatable: true,
		synonyms: []string{"grandpa", "grandma", "grandparent", "grammy", "grampy", "gramps", "gramma",
			"grandfather", "grandmother", "granddad", "granddaddy", "grand dad", "grand daddy", "granpa", "grampa"}}
	t[Grandchild] = entry{name: "Grandchild", canonical: relation.New(ca(0, 2)), greatable: true,
		synonyms: []string{"grandchild", "grandson", "granddaughter"}}
	t[AuntOrUncle] = entry{name: "AuntOrUncle", canonical: pair(2, 1), greatable: true, halfable: true,
		synonyms: []string{"aunt", "uncle", "auntie", "unkie"}}
	t[NieceOrNephew] = entry{name: "NieceOrNephew", canonical: pair(1, 2), greatable: true, halfable: true,
		synonyms: []string{"niece", "nephew"}}
	t[GreatGrandparent] = entry{name: "GreatGrandparent", canonical: relation.New(ca(3, 0))}
	t[GreatGrandchild] = entry{name: "GreatGrandchild", canonical: relation.New(ca(0, 3))}
	t[GreatAuntOrUncle] = entry{name: "GreatAuntOrUncle", canonical: pair(3, 1)}
	t[GreatNieceOrNephew] = entry{name: "GreatNieceOrNephew", canonical: pair(1, 3)}
	t[DoubleFirstCousin] = entry{name: "DoubleFirstCousin", canonical: relation.New(relation.Repeat(ca(2, 2), 4)...),
		synonyms: []string{"double cousin", "double first cousin"}}
	t[FraternalTwin] = entry{name: "FraternalTwin", canonical: pair(1, 1),
		synonyms: []string{"fraternal twin"}}
	t[IdenticalTwin] = entry{name: "IdenticalTwin", canonical: relation.NewWithFactor(2, relation.Repeat(ca(1, 1), 2)...),
		synonyms: []string{"identical twin"}}

	return t
}()

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

func (k Kind) String() string {
	if !k.Valid() {
		return "Unknown"
	}
	return table[k].name
}

// Relation returns a copy of the canonical relation for k.
func (k Kind) Relation() relation.Relation {
	if !k.Valid() {
		return relation.Relation{}
	}
	return table[k].canonical.Clone()
}

// Greatable reports whether "great" may prefix k.
func Greatable(k Kind) bool {
	return k.Valid() && table[k].greatable
}

// Halfable reports whether "half" may prefix k.
func Halfable(k Kind) bool {
	return k.Valid() && table[k].halfable
}

// Synonyms returns the ordered English names for k. The first names are the
// most common and are favoured by autosuggest.
func Synonyms(k Kind) []string {
	if !k.Valid() {
		return nil
	}
	return append([]string(nil), table[k].synonyms...)
}

// ParseKind resolves a kind by its String name.
func ParseKind(name string) (Kind, bool) {
	for k := Kind(0); k < kindCount; k++ {
		if table[k].name == name {
			return k, true
		}
	}
	return 0, false
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
