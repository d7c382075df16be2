package queryterms

import (
	"strings"
	"testing"

	"github.com/poiesic/rankgate/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T, idf map[string]float64, cooc map[string]map[string]float64) *Analyzer {
	t.Helper()
	analyzer, err := NewAnalyzer(core.NewCorpusStats(idf, cooc))
	require.NoError(t, err)
	return analyzer
}

func TestAnalyzeEmptyQuery(t *testing.T) {
	analyzer := newTestAnalyzer(t, nil, nil)

	for _, query := range []string{"", "   ", "\t\n", "?!..."} {
		result := analyzer.Analyze(query)
		assert.Empty(t, result.Phrases, "query %q", query)
		assert.Empty(t, result.Tokens, "query %q", query)
	}
}

func TestAnalyzeStopwordsAndShortTokens(t *testing.T) {
	analyzer := newTestAnalyzer(t, map[string]float64{"pressure": 3.0}, nil)

	result := analyzer.Analyze("what is the pressure of it")
	assert.NotContains(t, result.Tokens, "the")
	assert.NotContains(t, result.Tokens, "of")
	assert.NotContains(t, result.Tokens, "it")
	assert.Contains(t, result.Tokens, "pressure")
}

func TestAnalyzeCapitalizedRun(t *testing.T) {
	analyzer := newTestAnalyzer(t, map[string]float64{
		"reactor": 4.0,
		"coolant": 3.5,
		"system":  1.2,
	}, nil)

	result := analyzer.Analyze("inspect the Reactor Coolant System today")
	require.NotEmpty(t, result.Phrases)
	assert.Contains(t, result.Phrases, "Reactor Coolant System")
}

func TestAnalyzeWindowsSkipStopwordStarts(t *testing.T) {
	analyzer := newTestAnalyzer(t, map[string]float64{
		"turbine": 4.0,
		"blade":   3.0,
	}, nil)

	result := analyzer.Analyze("the turbine blade cracked")
	for _, phrase := range result.Phrases {
		first := strings.Fields(phrase)[0]
		assert.False(t, isStopWord(first), "phrase %q begins with a stop word", phrase)
	}
	assert.Contains(t, result.Phrases, "turbine blade")
}

func TestAnalyzeCooccurrenceBonus(t *testing.T) {
	// Equal IDF everywhere; only co-occurrence separates the bigrams.
	idf := map[string]float64{"alpha": 2.0, "beta": 2.0, "gamma": 2.0, "delta": 2.0}
	cooc := map[string]map[string]float64{
		"gamma": {"delta": 50},
	}
	analyzer := newTestAnalyzer(t, idf, cooc)

	withBonus := analyzer.scorePhrase("gamma delta")
	withoutBonus := analyzer.scorePhrase("alpha beta")
	assert.Greater(t, withBonus, withoutBonus)
}

func TestAnalyzeLimits(t *testing.T) {
	idf := make(map[string]float64)
	words := make([]string, 0, 30)
	for _, w := range []string{
		"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf",
		"hotel", "india", "juliett", "kilo", "lima", "mike", "november",
		"oscar", "papa", "quebec", "romeo", "sierra", "tango",
	} {
		idf[w] = 2.0
		words = append(words, w)
	}
	analyzer := newTestAnalyzer(t, idf, nil)

	result := analyzer.Analyze(strings.Join(words, " "))
	assert.LessOrEqual(t, len(result.Phrases), maxPhrases)
	assert.LessOrEqual(t, len(result.Tokens), maxTokens)
}

func TestAnalyzeTokensOrderedByIDF(t *testing.T) {
	analyzer := newTestAnalyzer(t, map[string]float64{
		"rare":   6.0,
		"common": 0.5,
	}, nil)

	result := analyzer.Analyze("common rare")
	require.Len(t, result.Tokens, 2)
	assert.Equal(t, "rare", result.Tokens[0])
	assert.Equal(t, "common", result.Tokens[1])
}

func TestTerms(t *testing.T) {
	analyzer := newTestAnalyzer(t, map[string]float64{
		"reactor": 4.0,
		"coolant": 3.0,
		"leak":    5.0,
	}, nil)

	result := Result{
		Phrases: []string{"reactor coolant"},
		Tokens:  []string{"leak"},
	}
	terms := analyzer.Terms(result)
	require.Len(t, terms, 2)

	assert.Equal(t, "reactor coolant", terms[0].Text)
	assert.Equal(t, 1, terms[0].Rank)
	assert.True(t, terms[0].Phrase)
	assert.Greater(t, terms[0].Weight, 0.0)

	assert.Equal(t, "leak", terms[1].Text)
	assert.Equal(t, 2, terms[1].Rank)
	assert.False(t, terms[1].Phrase)

	for _, term := range terms {
		assert.NoError(t, core.ValidateTerm(term))
	}
}

func TestGroups(t *testing.T) {
	result := Result{
		Phrases: []string{"Reactor Coolant"},
		Tokens:  []string{"leak", "Leak", "valve"},
	}
	groups := Groups(result)
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"reactor coolant"}, groups[0].Members)
	assert.Equal(t, []string{"leak"}, groups[1].Members)
	assert.Equal(t, []string{"valve"}, groups[2].Members)
}
