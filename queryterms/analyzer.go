package queryterms

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/poiesic/rankgate/core"
)

const (
	maxPhrases      = 5
	maxTokens       = 10
	minTokenLength  = 3
	coocBonusWeight = 0.5
	wordLengthBonus = 0.1
)

// Result holds the analyzer output: phrase candidates and informative
// single tokens, both ordered best-first.
type Result struct {
	Phrases []string
	Tokens  []string
}

// Analyzer extracts ranked core terms from raw query text using corpus
// IDF and co-occurrence statistics.
type Analyzer struct {
	stats  core.CorpusStats
	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAnalyzer creates a new analyzer over the given corpus statistics.
// The statistics are shared by reference and never mutated.
func NewAnalyzer(stats core.CorpusStats, opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		stats:  stats,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

type scoredText struct {
	text  string
	score float64
}

// Analyze extracts phrase candidates and informative tokens from the query.
// An empty or whitespace query yields an empty result; Analyze never fails.
func (a *Analyzer) Analyze(query string) Result {
	words := splitWords(query)
	if len(words) == 0 {
		return Result{Phrases: []string{}, Tokens: []string{}}
	}

	phrases := a.topPhrases(words)
	tokens := a.topTokens(words)

	a.logger.Debug("query analyzed",
		"query", query, "phrases", len(phrases), "tokens", len(tokens))

	return Result{Phrases: phrases, Tokens: tokens}
}

// topPhrases collects phrase candidates from capitalized runs and 2-3 word
// sliding windows, scores them, and keeps the best maxPhrases.
func (a *Analyzer) topPhrases(words []string) []string {
	candidates := phraseCandidates(words)
	scored := make([]scoredText, 0, len(candidates))
	for _, candidate := range candidates {
		scored = append(scored, scoredText{
			text:  candidate,
			score: a.scorePhrase(candidate),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > maxPhrases {
		scored = scored[:maxPhrases]
	}
	phrases := make([]string, 0, len(scored))
	for _, s := range scored {
		phrases = append(phrases, s.text)
	}
	return phrases
}

// topTokens scores the single tokens by IDF and keeps the best maxTokens.
// Stop words, short tokens, and duplicates are skipped. Tokens that also
// appear inside a selected phrase are kept: the extraction is recall-biased
// and downstream weighting discounts the redundancy.
func (a *Analyzer) topTokens(words []string) []string {
	seen := make(map[string]bool)
	scored := make([]scoredText, 0, len(words))
	for _, word := range words {
		lower := strings.ToLower(word)
		if len(lower) < minTokenLength || stopWords[lower] || seen[lower] {
			continue
		}
		seen[lower] = true
		scored = append(scored, scoredText{
			text:  lower,
			score: a.stats.IDF(lower),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > maxTokens {
		scored = scored[:maxTokens]
	}
	tokens := make([]string, 0, len(scored))
	for _, s := range scored {
		tokens = append(tokens, s.text)
	}
	return tokens
}

// phraseCandidates extracts candidate phrases from the word sequence:
// consecutive capitalized-word runs of length >= 2, and 2-3 word sliding
// windows that do not begin with a stop word. Candidates are deduplicated
// case-insensitively, preserving first-occurrence order.
func phraseCandidates(words []string) []string {
	var candidates []string
	seen := make(map[string]bool)

	add := func(phrase string) {
		key := strings.ToLower(phrase)
		if seen[key] {
			return
		}
		seen[key] = true
		candidates = append(candidates, phrase)
	}

	// Capitalized runs
	runStart := -1
	for i := 0; i <= len(words); i++ {
		if i < len(words) && isCapitalized(words[i]) && !isStopWord(words[i]) {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 && i-runStart >= 2 {
			add(strings.Join(words[runStart:i], " "))
		}
		runStart = -1
	}

	// Sliding windows
	for size := 2; size <= 3; size++ {
		for i := 0; i+size <= len(words); i++ {
			if isStopWord(words[i]) {
				continue
			}
			window := make([]string, 0, size)
			for _, w := range words[i : i+size] {
				window = append(window, strings.ToLower(w))
			}
			add(strings.Join(window, " "))
		}
	}

	return candidates
}

// scorePhrase scores a candidate phrase as the sum of log(1+idf) over its
// words, a co-occurrence bonus for bigrams, and a small per-word bonus
// favoring longer phrases.
func (a *Analyzer) scorePhrase(phrase string) float64 {
	words := strings.Fields(strings.ToLower(phrase))
	var score float64
	for _, w := range words {
		score += math.Log1p(a.stats.IDF(w))
	}
	if len(words) == 2 {
		score += coocBonusWeight * math.Log1p(a.stats.Cooccurrence(words[0], words[1]))
	}
	score += wordLengthBonus * float64(len(words))
	return score
}

// Terms converts an analysis result into ranked, weighted terms. Phrases
// come first, then tokens, each ranked 1-based in result order. Weights
// are derived from IDF: a token's weight is log(1+idf), a phrase's the
// mean of its words' values.
func (a *Analyzer) Terms(result Result) []core.Term {
	terms := make([]core.Term, 0, len(result.Phrases)+len(result.Tokens))
	rank := 1
	for _, phrase := range result.Phrases {
		terms = append(terms, core.Term{
			Text:   phrase,
			Rank:   rank,
			Weight: a.phraseWeight(phrase),
			Phrase: true,
		})
		rank++
	}
	for _, token := range result.Tokens {
		terms = append(terms, core.Term{
			Text:   token,
			Rank:   rank,
			Weight: math.Log1p(a.stats.IDF(token)),
		})
		rank++
	}
	return terms
}

func (a *Analyzer) phraseWeight(phrase string) float64 {
	words := strings.Fields(strings.ToLower(phrase))
	if len(words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range words {
		sum += math.Log1p(a.stats.IDF(w))
	}
	return sum / float64(len(words))
}

// Groups builds one term group per extracted term, deduplicated
// case-insensitively. Each group starts with the term itself as its only
// member; callers with a synonym source append additional members before
// feature extraction.
func Groups(result Result) []core.TermGroup {
	groups := make([]core.TermGroup, 0, len(result.Phrases)+len(result.Tokens))
	seen := make(map[string]bool)
	for _, text := range result.Phrases {
		lower := strings.ToLower(text)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		groups = append(groups, core.TermGroup{Members: []string{lower}})
	}
	for _, text := range result.Tokens {
		lower := strings.ToLower(text)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		groups = append(groups, core.TermGroup{Members: []string{lower}})
	}
	return groups
}
