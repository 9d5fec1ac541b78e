package suggest

import (
	"strings"

	"github.com/teranos/kin/vocab"
)

// Suggestion is a completion and its ranking weight.
type Suggestion struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

// prioritized is how many leading synonyms of a kind rank at full weight.
// Kinds not listed get one.
var prioritized = map[vocab.Kind]int{
	vocab.Parent:        3,
	vocab.Child:         3,
	vocab.Grandparent:   3,
	vocab.Grandchild:    3,
	vocab.AuntOrUncle:   2,
	vocab.NieceOrNephew: 2,
}

// deprioritized scales down kinds people rarely mean when typing.
var deprioritized = map[vocab.Kind]float64{
	vocab.Self:              1.0 / 2,
	vocab.DoubleFirstCousin: 1.0 / 2,
	vocab.ThirdCousin:       1.0 / 2,
	vocab.FraternalTwin:     1.0 / 2,
	vocab.IdenticalTwin:     1.0 / 2,
	vocab.FourthCousin:      1.0 / 3,
	vocab.FifthCousin:       1.0 / 4,
	vocab.SixthCousin:       1.0 / 5,
	vocab.SeventhCousin:     1.0 / 6,
	vocab.EighthCousin:      1.0 / 7,
}

const secondaryWeight = 0.5

// buildIndex weights every synonym, plus "great-" and "half-" forms of the
// leading synonyms of kinds that accept them.
func buildIndex(maxGreats int) *trie {
	t := newTrie()
	for _, kind := range vocab.Kinds() {
		synonyms := vocab.Synonyms(kind)
		if len(synonyms) == 0 {
			continue
		}

		multiplier := 1.0
		if m, ok := deprioritized[kind]; ok {
			multiplier = m
		}
		top, ok := prioritized[kind]
		if !ok {
			top = 1
		}

		for i, name := range synonyms {
			weight := multiplier
			if i >= top {
				t.insert(name, weight*secondaryWeight)
				continue
			}
			t.insert(name, weight)

			if vocab.Greatable(kind) {
				w := weight
				for n := 1; n <= maxGreats; n++ {
					w /= 2
					t.insert(strings.Repeat(vocab.Great+"-", n)+name, w)
				}
			}
			if vocab.Halfable(kind) {
				t.insert(vocab.Half+"-"+name, weight)
			}
		}
	}
	return t
}
