package parser

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/relation"
	"github.com/teranos/kin/vocab"
)

func ca(d1, d2 int) relation.CommonAncestor {
	return relation.CommonAncestor{DistanceFromFirst: d1, DistanceFromSecond: d2}
}

func mustResolve(t *testing.T, phrase string) relation.Relation {
	t.Helper()
	res, err := Parse(phrase)
	require.NoError(t, err, phrase)
	require.False(t, res.IsAmbiguous(), "%q unexpectedly ambiguous: %v", phrase, res.Candidates())
	r, err := res.Resolved()
	require.NoError(t, err)
	return r
}

func requireKind(t *testing.T, err error, kind ErrorKind) *ParseError {
	t.Helper()
	require.Error(t, err)
	var perr *ParseError
	require.True(t, errors.As(err, &perr), "not a ParseError: %v", err)
	assert.Equal(t, kind, perr.Kind, perr.Message)
	return perr
}

func TestEverySynonymParsesToItsCanonicalRelation(t *testing.T) {
	for _, kind := range vocab.Kinds() {
		for _, name := range vocab.Synonyms(kind) {
			t.Run(name, func(t *testing.T) {
				got := mustResolve(t, name)
				assert.True(t, kind.Relation().Equal(got), "%s: got %s want %s", name, got, kind.Relation())
			})
		}
	}
}

func TestParseResolves(t *testing.T) {
	tests := []struct {
		phrase string
		want   relation.Relation
	}{
		{"dad's brother", vocab.AuntOrUncle.Relation()},
		{"DAD'S BROTHER", vocab.AuntOrUncle.Relation()},
		{"  mom's sister  ", vocab.AuntOrUncle.Relation()},
		{"sister's son", vocab.NieceOrNephew.Relation()},
		{"gramma's cousin's daughter", relation.New(ca(4, 3), ca(4, 3))},
		{"half-sister's son", relation.New(ca(1, 2))},
		{"half sister's grandson", relation.New(ca(1, 3))},
		{"great-great-grandma", relation.New(ca(4, 0))},
		{"greatgrandpa", vocab.GreatGrandparent.Relation()},
		{"great grandson", vocab.GreatGrandchild.Relation()},
		{"great uncle", vocab.GreatAuntOrUncle.Relation()},
		{"great-niece", vocab.GreatNieceOrNephew.Relation()},
		{"half-uncle", relation.New(ca(2, 1))},
		{"half brother", vocab.HalfSibling.Relation()},
		{"grand-dad's half-brother", relation.New(ca(3, 1))},
		{"father's cousin's daughter", relation.New(ca(3, 3), ca(3, 3))},
		{"mom's mom's mom", relation.New(ca(3, 0))},
		{"son's son", relation.New(ca(0, 2))},
		{"2nd cousin's kid", relation.New(ca(3, 4), ca(3, 4))},
		{"father’s brother", vocab.AuntOrUncle.Relation()},
		{"identical twin", vocab.IdenticalTwin.Relation()},
		{"identical twin's son", relation.NewWithFactor(2, ca(1, 2), ca(1, 2))},
		{"fraternal-twin's daughter", relation.New(ca(1, 2), ca(1, 2))},
		{"self", relation.New(ca(0, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			got := mustResolve(t, tt.phrase)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestParseRelatedness(t *testing.T) {
	tests := []struct {
		phrase      string
		degree      float64
		coefficient float64
	}{
		{"identical twin", 2, 1.0},
		{"identical twin's son", 3, 0.5},
		{"fraternal twin", 2, 0.5},
		{"fraternal twin's daughter", 3, 0.25},
		{"double cousin", 4, 0.25},
		{"father's brother", 3, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			res, err := Parse(tt.phrase)
			require.NoError(t, err)
			got, ok := res.Relatedness()
			require.True(t, ok)
			assert.InDelta(t, tt.degree, got.AverageDegree, 1e-9)
			assert.InDelta(t, tt.coefficient, got.Coefficient, 1e-9)
		})
	}
}

func TestParseAmbiguity(t *testing.T) {
	tests := []struct {
		phrase string
		want   []string
	}{
		{"cousin once removed", []string{"cousin's child", "parent's cousin"}},
		{"second cousin, 2 times removed", []string{"second cousin's grandchild", "grandparent's second cousin"}},
		{"second cousin once removed's daughter", []string{"second cousin's child's daughter", "parent's second cousin's daughter"}},
		{"father's second cousin twice removed", []string{"father's second cousin's grandchild", "father's grandparent's second cousin"}},
		{"third cousin thrice removed", []string{"third cousin's great grandchild", "great grandparent's third cousin"}},
		{"cousin nine times removed", []string{"cousin's " + vocab.DescendingName(9), vocab.AscendingName(9) + "'s cousin"}},
		{"twin", []string{"fraternal twin", "identical twin"}},
		{"twin's daughter", []string{"fraternal twin's daughter", "identical twin's daughter"}},
		{"father's twin", []string{"father's fraternal twin", "father's identical twin"}},
		{"identical twin's twin", []string{"identical twin's fraternal twin", "identical twin's identical twin"}},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			res, err := Parse(tt.phrase)
			require.NoError(t, err)
			require.True(t, res.IsAmbiguous())
			assert.Nil(t, res.Relation, "ambiguity must not carry a relation")
			assert.Equal(t, tt.want, res.Candidates())
			assert.Equal(t, ErrorKindAmbiguity, res.Ambiguity.Kind)
			assert.Equal(t, SeverityWarning, res.Ambiguity.Severity)
			assert.True(t, errors.Is(res.Ambiguity, errors.ErrAmbiguity))

			_, err = res.Resolved()
			assert.Error(t, err)
		})
	}
}

func TestAmbiguityCandidatesResolve(t *testing.T) {
	for _, phrase := range []string{"cousin once removed", "father's second cousin twice removed", "twin's daughter"} {
		res, err := Parse(phrase)
		require.NoError(t, err)
		for _, candidate := range res.Candidates() {
			mustResolve(t, candidate)
		}
	}
}

func TestParseInvalidProgression(t *testing.T) {
	phrases := []string{
		"mom's daughter",
		"son's dad",
		"sister's brother",
		"cousin's brother",
		"uncle's brother",
		"grandma's daughter",
		"double cousin's double cousin",
		"grandson's father",
		"cousin's cousin",
		"half-brother's sister",
		"sister's cousin once removed",
	}

	for _, phrase := range phrases {
		t.Run(phrase, func(t *testing.T) {
			res, err := Parse(phrase)
			assert.Nil(t, res)
			perr := requireKind(t, err, ErrorKindUnknownRelation)
			assert.Contains(t, perr.Context, "previous_type")
			assert.True(t, errors.Is(err, errors.ErrUnknownRelation))
		})
	}
}

func TestParseUnknownRelation(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
	}{
		{"great on child", "great son"},
		{"great on cousin", "great cousin"},
		{"half on parent", "half-dad"},
		{"half on grandparent", "half grandma"},
		{"leading possessive", "'s dad"},
		{"missing possessive", "dad brother"},
		{"leading text", "my dad"},
		{"interim text", "dad's best friend's son"},
		{"trailing text", "dad's brother please"},
		{"trailing possessive", "dad's"},
		{"no relation", "frobnitz"},
		{"empty", ""},
		{"plural", "twins"},
		{"unsplit chain", "dadbrother"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.phrase)
			assert.Nil(t, res)
			perr := requireKind(t, err, ErrorKindUnknownRelation)
			assert.True(t, errors.IsUnknownRelationError(err))
			assert.Equal(t, SeverityError, perr.Severity)
		})
	}
}

func TestParseStepRelation(t *testing.T) {
	for _, phrase := range []string{"stepmother", "step-brother's son", "Step Sister", "mother-in-law", "dad's brother in law", "step great grandpa"} {
		t.Run(phrase, func(t *testing.T) {
			res, err := Parse(phrase)
			assert.Nil(t, res)
			requireKind(t, err, ErrorKindStepRelation)
			assert.True(t, errors.IsStepRelationError(err))
			assert.False(t, errors.IsUnknownRelationError(err))
		})
	}
}

func TestUnknownTermSuggestions(t *testing.T) {
	_, err := Parse("dad's cousn")
	perr := requireKind(t, err, ErrorKindUnknownRelation)
	require.NotEmpty(t, perr.Suggestions)
	assert.Equal(t, "cousin", perr.Suggestions[0])
	require.NotNil(t, perr.Range)
	assert.Equal(t, "'s cousn", perr.Range.Text(perr.Phrase))
}

func TestMissingPossessiveSuggestsFix(t *testing.T) {
	_, err := Parse("dad brother")
	perr := requireKind(t, err, ErrorKindUnknownRelation)
	assert.Equal(t, []string{"dad's brother"}, perr.Suggestions)
}

func TestWithMaxRemoved(t *testing.T) {
	p := New(WithMaxRemoved(2))

	res, err := p.Parse("cousin twice removed")
	require.NoError(t, err)
	assert.True(t, res.IsAmbiguous())

	_, err = p.Parse("cousin thrice removed")
	requireKind(t, err, ErrorKindUnknownRelation)
}

type recordedEdge struct {
	source, target string
	relation       relation.Relation
}

type fakeRecorder struct {
	edges []recordedEdge
}

func (f *fakeRecorder) AddRelation(source, target string, r relation.Relation) {
	f.edges = append(f.edges, recordedEdge{source, target, r})
}

func TestRecorderReceivesChain(t *testing.T) {
	rec := &fakeRecorder{}
	_, err := New(WithRecorder(rec)).Parse("Father's cousin's daughter")
	require.NoError(t, err)

	require.Len(t, rec.edges, 3)
	assert.Equal(t, "You", rec.edges[0].source)
	assert.Equal(t, "Your father", rec.edges[0].target)
	assert.True(t, vocab.Parent.Relation().Equal(rec.edges[0].relation))
	assert.Equal(t, "Your father", rec.edges[1].source)
	assert.Equal(t, "Your father's cousin", rec.edges[1].target)
	assert.True(t, vocab.Cousin.Relation().Equal(rec.edges[1].relation))
	assert.Equal(t, "Your father's cousin", rec.edges[2].source)
	assert.Equal(t, "Your father's cousin's daughter", rec.edges[2].target)
}

func TestRecorderDoesNotChangeOutcome(t *testing.T) {
	for _, phrase := range []string{"uncle's son", "cousin once removed", "sister's brother"} {
		plainRes, plainErr := Parse(phrase)
		recRes, recErr := New(WithRecorder(&fakeRecorder{})).Parse(phrase)

		assert.Equal(t, plainErr == nil, recErr == nil, phrase)
		if plainErr == nil {
			assert.Equal(t, plainRes.Candidates(), recRes.Candidates(), phrase)
			if plainRes.Relation != nil {
				assert.True(t, plainRes.Relation.Equal(*recRes.Relation), phrase)
			}
		}
	}
}

func TestParseDoesNotCorruptVocabulary(t *testing.T) {
	mustResolve(t, "great-great-uncle")
	mustResolve(t, "half-sister")
	assert.True(t, relation.New(ca(2, 1), ca(2, 1)).Equal(vocab.AuntOrUncle.Relation()))
	assert.True(t, relation.New(ca(1, 1), ca(1, 1)).Equal(vocab.Sibling.Relation()))
}

func TestParseConcurrent(t *testing.T) {
	p := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				res, err := p.Parse("grandma's cousin's daughter")
				if assert.NoError(t, err) {
					assert.True(t, relation.New(ca(4, 3), ca(4, 3)).Equal(*res.Relation))
				}
			}
		}()
	}
	wg.Wait()
}

func TestTimesRemoved(t *testing.T) {
	tests := map[string]int{
		"once removed":        1,
		"twice removed":       2,
		"thrice removed":      3,
		"four times removed":  4,
		"9 times removed":     9,
		"Seven-times-removed": 7,
		"removed":             0,
	}
	for qualifier, want := range tests {
		assert.Equal(t, want, timesRemoved(qualifier), qualifier)
	}
}
