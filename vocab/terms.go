package vocab

import (
	"sort"
	"strings"
)

// Modifier words and the possessive marker that glues a chain together.
const (
	Great      = "great"
	Half       = "half"
	Possessive = "'s"
)

// MaxRemoved is the deepest "N times removed" the ambiguity expansion can name.
const MaxRemoved = 9

var (
	lookup     = buildLookup()
	terms      = buildTerms()
	ascending  = fillNames("parent", "grandparent", MaxRemoved)
	descending = fillNames("child", "grandchild", MaxRemoved)
)

// Normalize folds case and drops the spaces and hyphens a writer may or may
// not put inside a term ("Grand-Dad", "grand dad", "granddad").
func Normalize(term string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(term) {
		if r == ' ' || r == '-' {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func buildLookup() map[string]Kind {
	m := make(map[string]Kind)
	for k := Kind(0); k < kindCount; k++ {
		for _, s := range table[k].synonyms {
			m[Normalize(s)] = k
		}
	}
	return m
}

func buildTerms() []string {
	var out []string
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, table[k].synonyms...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// Lookup resolves a matched term to its kind.
func Lookup(term string) (Kind, bool) {
	k, ok := lookup[Normalize(term)]
	return k, ok
}

// Terms returns every synonym, longest first, so a matcher built from them in
// order never lets a short term pre-empt a longer one sharing its prefix.
func Terms() []string {
	return append([]string(nil), terms...)
}

// fillNames builds "parent", "grandparent", "great grandparent", ... to depth.
func fillNames(first, second string, depth int) []string {
	names := []string{first, second}
	for prefix := Great + " "; len(names) < depth; prefix += Great + " " {
		names = append(names, prefix+second)
	}
	return names[:depth]
}

// AscendingName names the nth generation up: 1 is "parent", 2 "grandparent".
// It returns "" outside 1..MaxRemoved.
func AscendingName(n int) string {
	if n < 1 || n > len(ascending) {
		return ""
	}
	return ascending[n-1]
}

// DescendingName names the nth generation down: 1 is "child", 2 "grandchild".
// It returns "" outside 1..MaxRemoved.
func DescendingName(n int) string {
	if n < 1 || n > len(descending) {
		return ""
	}
	return descending[n-1]
}
