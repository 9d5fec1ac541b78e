package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kin/errors"
)

func ca(d1, d2 int) CommonAncestor {
	return CommonAncestor{DistanceFromFirst: d1, DistanceFromSecond: d2}
}

func TestNewDefaultsFactor(t *testing.T) {
	r := New(ca(1, 0))
	assert.Equal(t, 1, r.Factor)
	assert.Equal(t, []CommonAncestor{ca(1, 0)}, r.Ancestors)
}

func TestCloneIsIndependent(t *testing.T) {
	original := NewWithFactor(2, ca(1, 1), ca(1, 1))
	clone := original.Clone()

	require.True(t, original.Equal(clone))
	clone.Ancestors[0].DistanceFromFirst = 9

	assert.Equal(t, 1, original.Ancestors[0].DistanceFromFirst)
	assert.Equal(t, 2, clone.Factor)
}

func TestGreat(t *testing.T) {
	tests := []struct {
		name string
		in   Relation
		n    int
		want Relation
	}{
		{"grandparent", New(ca(2, 0)), 1, New(ca(3, 0))},
		{"grandchild", New(ca(0, 2)), 2, New(ca(0, 4))},
		{"aunt or uncle", New(ca(2, 1), ca(2, 1)), 1, New(ca(3, 1), ca(3, 1))},
		{"niece or nephew", New(ca(1, 2), ca(1, 2)), 3, New(ca(1, 5), ca(1, 5))},
		{"tie goes to second", New(ca(1, 1)), 1, New(ca(1, 2))},
		{"zero is identity", New(ca(2, 0)), 0, New(ca(2, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.in.Clone()
			got := tt.in.Great(tt.n)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			assert.True(t, before.Equal(tt.in), "receiver mutated")
		})
	}
}

func TestGreatIsAdditive(t *testing.T) {
	for _, r := range []Relation{New(ca(2, 0)), New(ca(0, 2)), New(ca(2, 1), ca(2, 1)), New(ca(1, 2), ca(1, 2))} {
		for n := 0; n < 4; n++ {
			for m := 0; m < 4; m++ {
				assert.True(t, r.Great(n).Great(m).Equal(r.Clone().Great(n+m)), "%s n=%d m=%d", r, n, m)
			}
		}
	}
}

func TestHalf(t *testing.T) {
	sibling := New(ca(1, 1), ca(1, 1))
	half := sibling.Half()

	assert.True(t, New(ca(1, 1)).Equal(half))
	assert.Len(t, sibling.Ancestors, 2)
	assert.Empty(t, New().Half().Ancestors)
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name string
		a, b Relation
		want Relation
	}{
		{"dad's brother", New(ca(1, 0)), New(ca(1, 1), ca(1, 1)), New(ca(2, 1), ca(2, 1))},
		{"sister's son", New(ca(1, 1), ca(1, 1)), New(ca(0, 1)), New(ca(1, 2), ca(1, 2))},
		{"parent's parent", New(ca(1, 0)), New(ca(1, 0)), New(ca(2, 0))},
		{"factor multiplies", NewWithFactor(2, ca(1, 1), ca(1, 1)), New(ca(0, 1)), NewWithFactor(2, ca(1, 2), ca(1, 2))},
		{"single with single", New(ca(2, 0)), New(ca(2, 2)), New(ca(4, 2))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compose(tt.a, tt.b)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestComposeDoubleIndeterminate(t *testing.T) {
	cousin := New(ca(2, 2), ca(2, 2))
	_, err := Compose(cousin, cousin)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDoubleIndeterminate))
}

func TestComposeDoesNotAlias(t *testing.T) {
	a := New(ca(1, 0))
	b := New(ca(1, 1), ca(1, 1))
	got, err := Compose(a, b)
	require.NoError(t, err)

	got.Ancestors[0].DistanceFromFirst = 7
	assert.Equal(t, 1, a.Ancestors[0].DistanceFromFirst)
	assert.Equal(t, 1, b.Ancestors[0].DistanceFromFirst)
}

func TestEqual(t *testing.T) {
	assert.True(t, New(ca(2, 1), ca(1, 2)).Equal(New(ca(2, 1), ca(1, 2))))
	assert.False(t, New(ca(2, 1), ca(1, 2)).Equal(New(ca(1, 2), ca(2, 1))), "order matters")
	assert.False(t, New(ca(1, 1)).Equal(NewWithFactor(2, ca(1, 1))), "factor matters")
	assert.False(t, New(ca(1, 1)).Equal(New(ca(1, 1), ca(1, 1))))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, New(ca(0, 0)).Validate())
	assert.Error(t, New().Validate())
	assert.Error(t, New(ca(-1, 0)).Validate())
	assert.Error(t, NewWithFactor(0, ca(1, 0)).Validate())
}

func TestString(t *testing.T) {
	assert.Equal(t, "(2,1)(2,1)x1", New(Repeat(ca(2, 1), 2)...).String())
	assert.Equal(t, "(1,1)(1,1)x2", NewWithFactor(2, Repeat(ca(1, 1), 2)...).String())
}
