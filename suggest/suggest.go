// Package suggest completes partly typed kinship phrases.
package suggest

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/teranos/kin/logger"
	"github.com/teranos/kin/parser"
	"github.com/teranos/kin/vocab"
)

const (
	// DefaultLimit is used when a non-positive limit is requested.
	DefaultLimit = 10
	// DefaultMaxGreats is the deepest "great-" prefix offered.
	DefaultMaxGreats = 5
	// DefaultCacheSize bounds the compound validation cache.
	DefaultCacheSize = 4096
)

// A possessive splits what the user has finished from what they are typing.
var possessiveTail = regexp.MustCompile(`(?i)^(.*\S)(?:'|’)s(?:\s+(.*))?$`)

// Suggester ranks completions. It is safe for concurrent use.
type Suggester struct {
	index     *trie
	phrases   []string
	maxGreats int
	parser    *parser.Parser
	accepted  *lru.Cache
	logger    *zap.SugaredLogger
}

// Option configures a Suggester.
type Option func(*Suggester)

// WithMaxGreats sets the deepest "great-" prefix offered.
func WithMaxGreats(n int) Option {
	return func(s *Suggester) {
		if n >= 0 {
			s.maxGreats = n
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Suggester) { s.logger = l }
}

// New builds a Suggester over the full vocabulary.
func New(opts ...Option) *Suggester {
	s := &Suggester{
		maxGreats: DefaultMaxGreats,
		parser:    parser.New(),
		logger:    logger.ComponentLogger("suggest"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.index = buildIndex(s.maxGreats)
	for _, sg := range s.index.collect("") {
		s.phrases = append(s.phrases, sg.Text)
	}
	sort.Strings(s.phrases)

	// Only fails for a non-positive size.
	s.accepted, _ = lru.New(DefaultCacheSize)

	s.logger.Debugw("suggestion index built", logger.FieldCount, s.index.size)
	return s
}

var (
	defaultOnce      sync.Once
	defaultSuggester *Suggester
)

// Default returns a shared Suggester with default options.
func Default() *Suggester {
	defaultOnce.Do(func() { defaultSuggester = New() })
	return defaultSuggester
}

// Suggest completes prefix using the shared Suggester.
func Suggest(prefix string, limit int) []string {
	return Default().Suggest(prefix, limit)
}

// DidYouMean finds near misses using the shared Suggester.
func DidYouMean(term string, limit int) []string {
	return Default().DidYouMean(term, limit)
}

// Suggest returns up to limit completions of prefix, best first. After a
// possessive ("dad's co") only completions that make a valid chain are
// offered, each repeating the text already typed.
func (s *Suggester) Suggest(prefix string, limit int) []string {
	ranked := s.Rank(prefix, limit)
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Text
	}
	return out
}

// Rank is Suggest with weights.
func (s *Suggester) Rank(prefix string, limit int) []Suggestion {
	if limit <= 0 {
		limit = DefaultLimit
	}

	head, tail, compound := splitPossessive(prefix)
	candidates := s.index.collect(strings.ToLower(tail))
	sortSuggestions(candidates)

	if !compound {
		if len(candidates) > limit {
			candidates = candidates[:limit]
		}
		return candidates
	}

	out := make([]Suggestion, 0, limit)
	for _, c := range candidates {
		phrase := head + vocab.Possessive + " " + c.Text
		if !s.valid(phrase) {
			continue
		}
		out = append(out, Suggestion{Text: phrase, Weight: c.Weight})
		if len(out) == limit {
			break
		}
	}
	return out
}

// valid reports whether phrase resolves or is merely ambiguous.
func (s *Suggester) valid(phrase string) bool {
	key := strings.ToLower(phrase)
	if v, ok := s.accepted.Get(key); ok {
		return v.(bool)
	}
	_, err := s.parser.Parse(phrase)
	ok := err == nil
	s.accepted.Add(key, ok)
	return ok
}

func splitPossessive(prefix string) (head, tail string, compound bool) {
	m := possessiveTail.FindStringSubmatch(prefix)
	if m == nil {
		return "", strings.TrimLeft(prefix, " "), false
	}
	return strings.TrimSpace(m[1]), m[2], true
}

func sortSuggestions(s []Suggestion) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Weight != s[j].Weight {
			return s[i].Weight > s[j].Weight
		}
		return s[i].Text < s[j].Text
	})
}
