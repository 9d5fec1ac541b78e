// Package relation models a pairwise kinship as the set of common ancestors two
// people share, each recorded as the generational distance from both people.
//
// Relations are values. The modifiers (Great, Half) and Compose never mutate
// their receivers or arguments; they return new relations with their own
// ancestor slices, so canonical table entries can be shared freely.
package relation

import (
	"fmt"
	"strings"

	"github.com/teranos/kin/errors"
)

// CommonAncestor is one shared ancestor, as generation counts up from each person.
type CommonAncestor struct {
	DistanceFromFirst  int `json:"distance_from_first" yaml:"distance_from_first"`
	DistanceFromSecond int `json:"distance_from_second" yaml:"distance_from_second"`
}

// Degree is the number of parent-child links on the path between the two
// people through this ancestor.
func (a CommonAncestor) Degree() int {
	return a.DistanceFromFirst + a.DistanceFromSecond
}

func (a CommonAncestor) String() string {
	return fmt.Sprintf("(%d,%d)", a.DistanceFromFirst, a.DistanceFromSecond)
}

// Relation is an ordered list of common ancestors plus a relatedness factor.
// The factor is 1 except where shared genetics exceed what shared ancestry
// implies (identical twins).
type Relation struct {
	Ancestors []CommonAncestor `json:"ancestors" yaml:"ancestors"`
	Factor    int              `json:"factor" yaml:"factor"`
}

// New builds a relation with the default factor of 1.
func New(ancestors ...CommonAncestor) Relation {
	return NewWithFactor(1, ancestors...)
}

// NewWithFactor builds a relation with an explicit relatedness factor.
func NewWithFactor(factor int, ancestors ...CommonAncestor) Relation {
	return Relation{
		Ancestors: append([]CommonAncestor(nil), ancestors...),
		Factor:    factor,
	}
}

// Repeat returns count copies of the same ancestor, for the symmetric
// two-parent shapes (siblings, cousins, aunts and uncles).
func Repeat(a CommonAncestor, count int) []CommonAncestor {
	out := make([]CommonAncestor, count)
	for i := range out {
		out[i] = a
	}
	return out
}

// Clone returns an independent copy with the same factor.
func (r Relation) Clone() Relation {
	return NewWithFactor(r.Factor, r.Ancestors...)
}

// Great extends the generational gap by n on every ancestor, adding to the
// larger of the two distances (ties go to the second distance).
func (r Relation) Great(n int) Relation {
	out := r.Clone()
	for i := range out.Ancestors {
		a := &out.Ancestors[i]
		if a.DistanceFromFirst > a.DistanceFromSecond {
			a.DistanceFromFirst += n
		} else {
			a.DistanceFromSecond += n
		}
	}
	return out
}

// Half drops the first common ancestor, so only one member of the ancestral
// couple is shared.
func (r Relation) Half() Relation {
	out := r.Clone()
	if len(out.Ancestors) > 0 {
		out.Ancestors = out.Ancestors[1:]
	}
	return out
}

// Compose relates the first person of a to the second person of b, where b is
// expressed relative to the second person of a ("a's b"). At most one side may
// carry more than one common ancestor.
func Compose(a, b Relation) (Relation, error) {
	if len(a.Ancestors) > 1 && len(b.Ancestors) > 1 {
		return Relation{}, errors.Wrapf(errors.ErrDoubleIndeterminate, "compose %s with %s", a, b)
	}

	ancestors := make([]CommonAncestor, 0, len(a.Ancestors)*len(b.Ancestors))
	for _, x := range a.Ancestors {
		for _, y := range b.Ancestors {
			ancestors = append(ancestors, CommonAncestor{
				DistanceFromFirst:  x.DistanceFromFirst + y.DistanceFromFirst,
				DistanceFromSecond: x.DistanceFromSecond + y.DistanceFromSecond,
			})
		}
	}

	return Relation{Ancestors: ancestors, Factor: a.Factor * b.Factor}, nil
}

// Equal reports order-sensitive ancestor equality plus factor equality.
func (r Relation) Equal(other Relation) bool {
	if r.Factor != other.Factor || len(r.Ancestors) != len(other.Ancestors) {
		return false
	}
	for i := range r.Ancestors {
		if r.Ancestors[i] != other.Ancestors[i] {
			return false
		}
	}
	return true
}

// Validate rejects relations that cannot describe a kinship.
func (r Relation) Validate() error {
	if len(r.Ancestors) == 0 {
		return errors.New("relation has no common ancestors")
	}
	if r.Factor < 1 {
		return errors.Newf("relatedness factor must be at least 1, got %d", r.Factor)
	}
	for i, a := range r.Ancestors {
		if a.DistanceFromFirst < 0 || a.DistanceFromSecond < 0 {
			return errors.Newf("common ancestor %d has negative distance %s", i, a)
		}
	}
	return nil
}

// String renders the relation as "(2,1)(2,1)x1".
func (r Relation) String() string {
	var sb strings.Builder
	for _, a := range r.Ancestors {
		sb.WriteString(a.String())
	}
	fmt.Fprintf(&sb, "x%d", r.Factor)
	return sb.String()
}
