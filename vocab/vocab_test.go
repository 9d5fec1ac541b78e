package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kin/relation"
)

func TestCanonicalRelations(t *testing.T) {
	tests := []struct {
		kind Kind
		want relation.Relation
	}{
		{Self, relation.New(ca(0, 0))},
		{Parent, relation.New(ca(1, 0))},
		{Child, relation.New(ca(0, 1))},
		{Sibling, pair(1, 1)},
		{HalfSibling, relation.New(ca(1, 1))},
		{Cousin, pair(2, 2)},
		{SecondCousin, pair(3, 3)},
		{EighthCousin, pair(9, 9)},
		{Grandparent, relation.New(ca(2, 0))},
		{Grandchild, relation.New(ca(0, 2))},
		{AuntOrUncle, pair(2, 1)},
		{NieceOrNephew, pair(1, 2)},
		{GreatGrandparent, relation.New(ca(3, 0))},
		{GreatGrandchild, relation.New(ca(0, 3))},
		{GreatAuntOrUncle, pair(3, 1)},
		{GreatNieceOrNephew, pair(1, 3)},
		{DoubleFirstCousin, relation.New(ca(2, 2), ca(2, 2), ca(2, 2), ca(2, 2))},
		{FraternalTwin, pair(1, 1)},
		{IdenticalTwin, relation.NewWithFactor(2, ca(1, 1), ca(1, 1))},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got := tt.kind.Relation()
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			assert.NoError(t, got.Validate())
		})
	}
}

func TestRelationReturnsCopy(t *testing.T) {
	r := AuntOrUncle.Relation()
	r.Ancestors[0].DistanceFromFirst = 40

	assert.Equal(t, 2, AuntOrUncle.Relation().Ancestors[0].DistanceFromFirst)
}

func TestModifierSets(t *testing.T) {
	greatable := []Kind{Grandparent, Grandchild, AuntOrUncle, NieceOrNephew}
	halfable := []Kind{Sibling, Cousin, SecondCousin, ThirdCousin, FourthCousin, FifthCousin,
		SixthCousin, SeventhCousin, EighthCousin, AuntOrUncle, NieceOrNephew}

	for _, k := range Kinds() {
		assert.Equal(t, contains(greatable, k), Greatable(k), "greatable %s", k)
		assert.Equal(t, contains(halfable, k), Halfable(k), "halfable %s", k)
	}
	assert.False(t, Greatable(Kind(-1)))
	assert.False(t, Halfable(kindCount))
}

func contains(kinds []Kind, k Kind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}

func TestLookup(t *testing.T) {
	tests := []struct {
		term string
		want Kind
	}{
		{"dad", Parent},
		{"Mother", Parent},
		{"grand dad", Grandparent},
		{"grand-dad", Grandparent},
		{"granddad", Grandparent},
		{"1st cousin", Cousin},
		{"first-cousin", Cousin},
		{"7th cousin", SeventhCousin},
		{"double first cousin", DoubleFirstCousin},
		{"identical twin", IdenticalTwin},
		{"myself", Self},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, ok := Lookup(tt.term)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Lookup("stepmother")
	assert.False(t, ok)
}

func TestEverySynonymLooksUpToItsKind(t *testing.T) {
	for _, k := range Kinds() {
		for _, s := range Synonyms(k) {
			got, ok := Lookup(s)
			require.True(t, ok, s)
			assert.Equal(t, k, got, s)
		}
	}
}

func TestTermsLongestFirst(t *testing.T) {
	ts := Terms()
	require.NotEmpty(t, ts)
	for i := 1; i < len(ts); i++ {
		assert.GreaterOrEqual(t, len(ts[i-1]), len(ts[i]), "%q before %q", ts[i-1], ts[i])
	}
	assert.Contains(t, ts, "grand daddy")

	ts[0] = "mutated"
	assert.NotEqual(t, "mutated", Terms()[0])
}

func TestGenerationNames(t *testing.T) {
	assert.Equal(t, "parent", AscendingName(1))
	assert.Equal(t, "grandparent", AscendingName(2))
	assert.Equal(t, "great grandparent", AscendingName(3))
	assert.Equal(t, "great great great great great great great grandparent", AscendingName(9))
	assert.Equal(t, "child", DescendingName(1))
	assert.Equal(t, "great great grandchild", DescendingName(4))
	assert.Empty(t, AscendingName(0))
	assert.Empty(t, DescendingName(MaxRemoved+1))
}

func TestKindNames(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	assert.Equal(t, "Unknown", Kind(99).String())
	assert.Len(t, Kinds(), int(kindCount))
}
