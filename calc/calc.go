// Package calc computes how closely two people are related from their
// common ancestors.
package calc

import (
	"math"

	"github.com/teranos/kin/relation"
)

// Relatedness is the average degree of separation and the coefficient of
// relationship (expected fraction of shared genetic material).
type Relatedness struct {
	AverageDegree float64 `json:"average_degree" yaml:"average_degree"`
	Coefficient   float64 `json:"coefficient" yaml:"coefficient"`
}

// Calculate sums 0.5^degree over every common ancestor, scaled by the
// relation's factor. An empty relation yields the zero value.
func Calculate(r relation.Relation) Relatedness {
	if len(r.Ancestors) == 0 {
		return Relatedness{}
	}

	factor := r.Factor
	if factor < 1 {
		factor = 1
	}

	var degrees, coefficient float64
	for _, a := range r.Ancestors {
		d := float64(a.Degree())
		degrees += d
		coefficient += math.Pow(0.5, d)
	}

	return Relatedness{
		AverageDegree: degrees / float64(len(r.Ancestors)),
		Coefficient:   coefficient * float64(factor),
	}
}

// Percent is the coefficient as a percentage.
func (r Relatedness) Percent() float64 {
	return r.Coefficient * 100
}
