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
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Query carries everything the evaluator needs to judge one question.
// Scores are the final ranked scores, best first or not; order does not
// matter. RerankerTop is only consulted when RerankerRan is set.
type Query struct {
	Text        string
	Tenant      string
	Scores      []float64
	RerankerRan bool
	RerankerTop float64
}

// SubScores are the four ensemble components behind the confidence.
type SubScores struct {
	Statistical        float64
	Threshold          float64
	MLFeatures         float64
	RerankerConfidence float64
}

// Decision is the complete guardrail verdict. Refusal is nil exactly
// when Answerable is true.
type Decision struct {
	Answerable bool
	Bypassed   bool
	Confidence float64
	SubScores  SubScores
	Statistics ScoreStatistics
	Profile    ThresholdProfile
	Rationale  string
	Refusal    *Refusal
}

// Evaluator applies a threshold profile to score distributions. Safe for
// concurrent use.
type Evaluator struct {
	profile  ThresholdProfile
	weights  AlgorithmWeights
	fallback FallbackConfig
	bypass   bool
	sink     AuditSink
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator) error

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		e.logger = logger
		return nil
	}
}

// WithAuditSink routes audit records to the given sink.
func WithAuditSink(sink AuditSink) Option {
	return func(e *Evaluator) error {
		if sink == nil {
			return fmt.Errorf("audit sink cannot be nil")
		}
		e.sink = sink
		return nil
	}
}

// WithFallback overrides the refusal fallback configuration.
func WithFallback(cfg FallbackConfig) Option {
	return func(e *Evaluator) error {
		e.fallback = cfg
		return nil
	}
}

// WithBypass disables the gate for a tenant. Evaluation still runs and
// the audit record marks the verdict as bypassed.
func WithBypass(enabled bool) Option {
	return func(e *Evaluator) error {
		e.bypass = enabled
		return nil
	}
}

// NewEvaluator builds an evaluator for the given profile and ensemble
// weights.
func NewEvaluator(profile ThresholdProfile, weights AlgorithmWeights, opts ...Option) (*Evaluator, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid threshold profile: %w", err)
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid algorithm weights: %w", err)
	}
	e := &Evaluator{
		profile:  profile,
		weights:  weights,
		fallback: DefaultFallbackConfig(),
		sink:     NoopAuditSink{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply evaluator option: %w", err)
		}
	}
	return e, nil
}

// Evaluate judges one query's result set and emits an audit record.
func (e *Evaluator) Evaluate(query Query) Decision {
	start := e.now()

	stats := ComputeStatistics(query.Scores)
	subs := e.subScores(query, stats)
	confidence := e.combine(query, subs)

	failures := e.gate(stats, confidence)
	answerable := len(failures) == 0
	rationale := rationaleFor(answerable, confidence, failures)

	decision := Decision{
		Answerable: answerable,
		Confidence: confidence,
		SubScores:  subs,
		Statistics: stats,
		Profile:    e.profile,
		Rationale:  rationale,
	}

	if !answerable {
		if e.bypass {
			decision.Answerable = true
			decision.Bypassed = true
			decision.Rationale = "bypass enabled; gate failures ignored: " + rationale
		} else {
			decision.Refusal = buildRefusal(e.refusalReason(stats, confidence), e.fallback)
		}
	}

	e.sink.Record(AuditRecord{
		Timestamp:   start,
		Tenant:      query.Tenant,
		Query:       query.Text,
		ResultCount: stats.Count,
		Answerable:  decision.Answerable,
		Bypassed:    decision.Bypassed,
		Confidence:  confidence,
		Statistics:  stats,
		Rationale:   decision.Rationale,
		Latency:     e.now().Sub(start),
	})
	e.logger.Debug("evaluated answerability",
		"tenant", query.Tenant,
		"answerable", decision.Answerable,
		"confidence", confidence,
		"result_count", stats.Count)

	return decision
}

// subScores computes the four ensemble components, each in [0,1].
func (e *Evaluator) subScores(query Query, stats ScoreStatistics) SubScores {
	spread := 1 - min1(2*stats.StdDev)

	subs := SubScores{
		Statistical: clamp01(0.6*stats.Mean + 0.4*spread),
		Threshold:   0.5*ratioScore(stats.Max, e.profile.MinTopScore) + 0.5*ratioScore(stats.Mean, e.profile.MinMeanScore),
		MLFeatures:  clamp01(0.4*stats.P90 + 0.3*stats.P50 + 0.3*spread),
	}
	if query.RerankerRan {
		subs.RerankerConfidence = clamp01(query.RerankerTop)
	}
	return subs
}

// combine folds the sub-scores into one confidence. When the reranker
// did not run, its weight is dropped and the remaining weights are
// renormalized so confidence stays comparable across both paths.
func (e *Evaluator) combine(query Query, subs SubScores) float64 {
	sum := e.weights.Statistical*subs.Statistical +
		e.weights.Threshold*subs.Threshold +
		e.weights.MLFeatures*subs.MLFeatures
	total := e.weights.Statistical + e.weights.Threshold + e.weights.MLFeatures
	if query.RerankerRan {
		sum += e.weights.RerankerConfidence * subs.RerankerConfidence
		total += e.weights.RerankerConfidence
	}
	if total <= 0 {
		return 0
	}
	return clamp01(sum / total)
}

// gate checks the five conjunctive conditions and names every violation.
func (e *Evaluator) gate(stats ScoreStatistics, confidence float64) []string {
	var failures []string
	if confidence < e.profile.MinConfidence {
		failures = append(failures, fmt.Sprintf("confidence %.3f below %.3f", confidence, e.profile.MinConfidence))
	}
	if stats.Max < e.profile.MinTopScore {
		failures = append(failures, fmt.Sprintf("top score %.3f below %.3f", stats.Max, e.profile.MinTopScore))
	}
	if stats.Mean < e.profile.MinMeanScore {
		failures = append(failures, fmt.Sprintf("mean score %.3f below %.3f", stats.Mean, e.profile.MinMeanScore))
	}
	if stats.StdDev > e.profile.MaxStdDev {
		failures = append(failures, fmt.Sprintf("std dev %.3f above %.3f", stats.StdDev, e.profile.MaxStdDev))
	}
	if stats.Count < e.profile.MinResultCount {
		failures = append(failures, fmt.Sprintf("result count %d below %d", stats.Count, e.profile.MinResultCount))
	}
	return failures
}

// refusalReason picks the most specific reason for the failing gate.
func (e *Evaluator) refusalReason(stats ScoreStatistics, confidence float64) RefusalReason {
	switch {
	case stats.Count == 0:
		return ReasonNoRelevantDocs
	case confidence < e.profile.MinConfidence:
		return ReasonLowConfidence
	default:
		return ReasonBelowThreshold
	}
}

func rationaleFor(answerable bool, confidence float64, failures []string) string {
	if answerable {
		return fmt.Sprintf("all gate conditions satisfied at confidence %.3f", confidence)
	}
	return strings.Join(failures, "; ")
}

// ratioScore rewards clearing a threshold and degrades linearly below
// it. A non-positive threshold is trivially cleared.
func ratioScore(value, threshold float64) float64 {
	if threshold <= 0 {
		return 1
	}
	return min1(clamp01(value) / threshold)
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
