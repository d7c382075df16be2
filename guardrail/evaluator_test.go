// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package guardrail

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu      sync.Mutex
	records []AuditRecord
}

func (c *captureSink) Record(rec AuditRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
}

func newModerateEvaluator(t *testing.T, opts ...Option) *Evaluator {
	t.Helper()
	eval, err := NewEvaluator(ModerateProfile(), DefaultAlgorithmWeights(), opts...)
	require.NoError(t, err)
	return eval
}

func TestNewEvaluatorRejectsInvalidProfile(t *testing.T) {
	bad := ModerateProfile()
	bad.MinConfidence = 1.5

	_, err := NewEvaluator(bad, DefaultAlgorithmWeights())
	assert.Error(t, err)
}

func TestNewEvaluatorRejectsInvalidWeights(t *testing.T) {
	_, err := NewEvaluator(ModerateProfile(), AlgorithmWeights{Statistical: -1})
	assert.Error(t, err)
}

func TestEvaluateStrongResultSetIsAnswerable(t *testing.T) {
	eval := newModerateEvaluator(t)

	decision := eval.Evaluate(Query{
		Text:   "how do I rotate api keys",
		Tenant: "acme",
		Scores: []float64{0.91, 0.85, 0.82, 0.78, 0.71},
	})

	assert.True(t, decision.Answerable)
	assert.Nil(t, decision.Refusal)
	assert.False(t, decision.Bypassed)
	assert.GreaterOrEqual(t, decision.Confidence, ModerateProfile().MinConfidence)
	assert.Contains(t, decision.Rationale, "satisfied")
}

// A weak, spread-out result set must refuse with LOW_CONFIDENCE under
// the moderate tier.
func TestEvaluateWeakResultSetRefusesLowConfidence(t *testing.T) {
	eval := newModerateEvaluator(t)

	decision := eval.Evaluate(Query{
		Text:   "what is the warp core made of",
		Tenant: "acme",
		Scores: []float64{0.42, 0.3, 0.02, 0.01, 0.0},
	})

	require.False(t, decision.Answerable)
	require.NotNil(t, decision.Refusal)
	assert.Equal(t, ReasonLowConfidence, decision.Refusal.Reason)
	assert.NotEmpty(t, decision.Refusal.Message)
	assert.Less(t, decision.Confidence, ModerateProfile().MinConfidence)
	assert.InDelta(t, 0.15, decision.Statistics.Mean, 1e-9)
	assert.InDelta(t, 0.42, decision.Statistics.Max, 1e-9)
}

func TestEvaluateEmptyResultSetRefusesNoRelevantDocs(t *testing.T) {
	eval := newModerateEvaluator(t)

	decision := eval.Evaluate(Query{Text: "anything", Tenant: "acme"})

	require.False(t, decision.Answerable)
	require.NotNil(t, decision.Refusal)
	assert.Equal(t, ReasonNoRelevantDocs, decision.Refusal.Reason)
	assert.Equal(t, 0, decision.Statistics.Count)
}

// A single excellent score clears every scalar gate but fails the
// result-count condition. One violation is enough to refuse.
func TestEvaluateConjunctiveGateRefusesOnCountAlone(t *testing.T) {
	eval := newModerateEvaluator(t)

	decision := eval.Evaluate(Query{
		Text:   "single strong hit",
		Tenant: "acme",
		Scores: []float64{0.95},
	})

	require.False(t, decision.Answerable)
	require.NotNil(t, decision.Refusal)
	assert.Equal(t, ReasonBelowThreshold, decision.Refusal.Reason)
	assert.GreaterOrEqual(t, decision.Confidence, ModerateProfile().MinConfidence)
	assert.Contains(t, decision.Rationale, "result count")
}

func TestEvaluateBypassOverridesRefusal(t *testing.T) {
	sink := &captureSink{}
	eval := newModerateEvaluator(t, WithBypass(true), WithAuditSink(sink))

	decision := eval.Evaluate(Query{Text: "anything", Tenant: "acme"})

	assert.True(t, decision.Answerable)
	assert.True(t, decision.Bypassed)
	assert.Nil(t, decision.Refusal)
	require.Len(t, sink.records, 1)
	assert.True(t, sink.records[0].Bypassed)
}

func TestEvaluateEmitsAuditRecordOnBothPaths(t *testing.T) {
	sink := &captureSink{}
	eval := newModerateEvaluator(t, WithAuditSink(sink))

	eval.Evaluate(Query{Text: "strong", Tenant: "acme", Scores: []float64{0.9, 0.85, 0.8}})
	eval.Evaluate(Query{Text: "weak", Tenant: "acme", Scores: []float64{0.1, 0.05}})

	require.Len(t, sink.records, 2)
	assert.True(t, sink.records[0].Answerable)
	assert.False(t, sink.records[1].Answerable)
	assert.Equal(t, "weak", sink.records[1].Query)
	assert.Equal(t, 2, sink.records[1].ResultCount)
	assert.NotEmpty(t, sink.records[1].Rationale)
}

// Shifting every score upward, holding the spread fixed, must never
// lower confidence.
func TestConfidenceMonotoneInScoreLevel(t *testing.T) {
	eval := newModerateEvaluator(t)
	base := []float64{0.5, 0.5, 0.5, 0.5, 0.9}

	shifted := make([]float64, len(base))
	for i, s := range base {
		shifted[i] = s + 0.05
	}

	low := eval.Evaluate(Query{Text: "q", Scores: base})
	high := eval.Evaluate(Query{Text: "q", Scores: shifted})

	assert.GreaterOrEqual(t, high.Confidence, low.Confidence)
}

// Widening the spread while holding mean and max fixed must never raise
// confidence.
func TestConfidenceMonotoneInSpread(t *testing.T) {
	eval := newModerateEvaluator(t)

	tight := eval.Evaluate(Query{Text: "q", Scores: []float64{0.5, 0.5, 0.5, 0.5, 0.9}})
	wide := eval.Evaluate(Query{Text: "q", Scores: []float64{0.3, 0.5, 0.5, 0.7, 0.9}})

	assert.InDelta(t, tight.Statistics.Mean, wide.Statistics.Mean, 1e-9)
	assert.InDelta(t, tight.Statistics.Max, wide.Statistics.Max, 1e-9)
	assert.LessOrEqual(t, wide.Confidence, tight.Confidence)
}

func TestRerankerTopScoreFeedsConfidence(t *testing.T) {
	eval := newModerateEvaluator(t)
	scores := []float64{0.8, 0.75, 0.7}

	confident := eval.Evaluate(Query{Text: "q", Scores: scores, RerankerRan: true, RerankerTop: 0.95})
	doubtful := eval.Evaluate(Query{Text: "q", Scores: scores, RerankerRan: true, RerankerTop: 0.05})

	assert.Greater(t, confident.Confidence, doubtful.Confidence)
	assert.InDelta(t, 0.95, confident.SubScores.RerankerConfidence, 1e-9)
}

// Without the reranker the remaining weights are renormalized, so a
// skipped reranker is not an automatic confidence penalty.
func TestConfidenceComparableWithoutReranker(t *testing.T) {
	eval := newModerateEvaluator(t)
	scores := []float64{0.9, 0.85, 0.8}

	skipped := eval.Evaluate(Query{Text: "q", Scores: scores})

	assert.Equal(t, 0.0, skipped.SubScores.RerankerConfidence)
	assert.GreaterOrEqual(t, skipped.Confidence, ModerateProfile().MinConfidence)
}

func TestEvaluateDeterministic(t *testing.T) {
	eval := newModerateEvaluator(t)
	query := Query{Text: "q", Tenant: "acme", Scores: []float64{0.6, 0.4, 0.55, 0.7}}

	first := eval.Evaluate(query)
	second := eval.Evaluate(query)

	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.Answerable, second.Answerable)
	assert.Equal(t, first.SubScores, second.SubScores)
}

func TestPermissiveAnswersWhereStrictRefuses(t *testing.T) {
	scores := []float64{0.55, 0.45, 0.4}

	strict, err := NewEvaluator(StrictProfile(), DefaultAlgorithmWeights())
	require.NoError(t, err)
	permissive, err := NewEvaluator(PermissiveProfile(), DefaultAlgorithmWeights())
	require.NoError(t, err)

	assert.False(t, strict.Evaluate(Query{Text: "q", Scores: scores}).Answerable)
	assert.True(t, permissive.Evaluate(Query{Text: "q", Scores: scores}).Answerable)
}

func TestBuildRefusalRespectsFallbackConfig(t *testing.T) {
	disabled := buildRefusal(ReasonLowConfidence, FallbackConfig{Enabled: false})
	assert.Empty(t, disabled.Suggestions)

	capped := buildRefusal(ReasonLowConfidence, FallbackConfig{
		Enabled:        true,
		MaxSuggestions: 1,
		Suggestions:    []string{"one", "two", "three"},
	})
	assert.Equal(t, []string{"one"}, capped.Suggestions)
}

func TestParseTier(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  Tier
	}{
		{"strict", TierStrict},
		{"moderate", TierModerate},
		{"permissive", TierPermissive},
		{"custom", TierCustom},
	} {
		got, err := ParseTier(tc.input)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, tc.input, got.String())
	}

	_, err := ParseTier("lenient")
	assert.Error(t, err)
}

func TestProfileForTier(t *testing.T) {
	p, err := ProfileForTier(TierModerate)
	require.NoError(t, err)
	assert.Equal(t, ModerateProfile(), p)

	_, err = ProfileForTier(TierCustom)
	assert.Error(t, err)
}
