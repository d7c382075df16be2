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


// Package rankgate ranks retrieval candidates for document QA and
// decides whether the evidence is strong enough to answer at all.
//
// Engine is the facade: it wires query analysis, per-candidate feature
// extraction, keyword scoring, score fusion and the answerability
// guardrail for one tenant. Candidates arrive with vector scores and
// per-term hits already attached; the engine ranks them and returns the
// guardrail verdict alongside the ordered results.
package rankgate

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/rankgate/config"
	"github.com/poiesic/rankgate/core"
	"github.com/poiesic/rankgate/fusion"
	"github.com/poiesic/rankgate/guardrail"
	"github.com/poiesic/rankgate/keyword"
	"github.com/poiesic/rankgate/match"
	"github.com/poiesic/rankgate/queryterms"
)

// RankedResult is one candidate's final position with its full scoring
// trail.
type RankedResult struct {
	Rank       int
	Candidate  *core.Candidate
	Features   core.MatchFeatures
	Components core.ScoreComponents
	Breakdown  keyword.Breakdown
}

// Response is the outcome of ranking one query.
type Response struct {
	Terms    []core.Term
	Results  []RankedResult
	Decision guardrail.Decision
}

// Engine ranks candidates for a single tenant. Safe for concurrent use;
// construct once per tenant and share.
type Engine struct {
	tenant    string
	analyzer  *queryterms.Analyzer
	extractor *match.Extractor
	scorer    *keyword.Scorer
	fuser     *fusion.Fuser
	evaluator *guardrail.Evaluator
	pool      *ants.Pool
	monitor   RankMonitor
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*engineOptions) error

type engineOptions struct {
	poolSize    int
	logger      *slog.Logger
	monitor     RankMonitor
	sink        guardrail.AuditSink
	exclusivity keyword.ExclusivityFunc
}

// WithPoolSize sets the worker pool size for per-candidate feature
// extraction. Default is half the CPU count, minimum one.
func WithPoolSize(size int) Option {
	return func(o *engineOptions) error {
		if size < 1 {
			return fmt.Errorf("%w: pool size must be positive, got %d", core.ErrInvalidConfig, size)
		}
		o.poolSize = size
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithMonitor installs a ranking observer.
func WithMonitor(monitor RankMonitor) Option {
	return func(o *engineOptions) error {
		if monitor == nil {
			return fmt.Errorf("monitor cannot be nil")
		}
		o.monitor = monitor
		return nil
	}
}

// WithAuditSink routes guardrail audit records to the given sink.
func WithAuditSink(sink guardrail.AuditSink) Option {
	return func(o *engineOptions) error {
		if sink == nil {
			return fmt.Errorf("audit sink cannot be nil")
		}
		o.sink = sink
		return nil
	}
}

// WithExclusivityFunc installs the tenant's exclusivity scoring
// function for the keyword scorer.
func WithExclusivityFunc(fn keyword.ExclusivityFunc) Option {
	return func(o *engineOptions) error {
		o.exclusivity = fn
		return nil
	}
}

// NewEngine builds an engine from a validated tenant configuration and
// an immutable corpus statistics snapshot.
func NewEngine(tenant *config.Tenant, corpus core.CorpusStats, opts ...Option) (*Engine, error) {
	if tenant == nil {
		return nil, fmt.Errorf("%w: tenant configuration is required", core.ErrInvalidConfig)
	}
	if err := tenant.Validate(); err != nil {
		return nil, err
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	options := &engineOptions{
		poolSize: poolSize,
		logger:   slog.Default(),
		monitor:  &noopMonitor{},
		sink:     guardrail.NoopAuditSink{},
	}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, fmt.Errorf("failed to apply engine option: %w", err)
		}
	}

	analyzer, err := queryterms.NewAnalyzer(corpus, queryterms.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}
	extractor, err := match.NewExtractor(tenant.MatchConfig())
	if err != nil {
		return nil, err
	}
	scorerOpts := []keyword.Option{keyword.WithLogger(options.logger)}
	if options.exclusivity != nil {
		scorerOpts = append(scorerOpts, keyword.WithExclusivityFunc(options.exclusivity))
	}
	scorer, err := keyword.NewScorer(tenant.KeywordConfig(), scorerOpts...)
	if err != nil {
		return nil, err
	}
	fuserConfig, err := tenant.FusionConfig()
	if err != nil {
		return nil, err
	}
	fuser, err := fusion.NewFuser(fuserConfig)
	if err != nil {
		return nil, err
	}
	profile, err := tenant.GuardrailProfile()
	if err != nil {
		return nil, err
	}
	evaluator, err := guardrail.NewEvaluator(profile, tenant.AlgorithmWeights(),
		guardrail.WithLogger(options.logger),
		guardrail.WithFallback(tenant.FallbackConfig()),
		guardrail.WithBypass(tenant.Guardrail.Bypass),
		guardrail.WithAuditSink(options.sink),
	)
	if err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(options.poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return &Engine{
		tenant:    tenant.Name,
		analyzer:  analyzer,
		extractor: extractor,
		scorer:    scorer,
		fuser:     fuser,
		evaluator: evaluator,
		pool:      pool,
		monitor:   options.monitor,
		logger:    options.logger,
	}, nil
}

// Close releases the worker pool.
func (e *Engine) Close() error {
	e.pool.Release()
	return nil
}

// Rank scores and orders candidates for a query, then evaluates
// answerability over the final score distribution. Candidates are never
// mutated; an empty candidate list is a valid query that yields no
// results and a refusal-bearing decision.
func (e *Engine) Rank(ctx context.Context, query string, candidates []*core.Candidate) (*Response, error) {
	for _, cand := range candidates {
		if err := core.ValidateCandidate(cand); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.monitor.Start(query)

	analysis := e.analyzer.Analyze(query)
	terms := e.analyzer.Terms(analysis)
	groups := queryterms.Groups(analysis)
	e.monitor.AfterQueryAnalysis(terms)

	features, err := e.extractFeatures(ctx, candidates, groups)
	if err != nil {
		return nil, err
	}
	e.monitor.AfterFeatureExtraction(features)

	// First keyword pass with a zero fused input isolates the raw
	// points, which feed fusion as the keyword signal.
	inputs := make([]keyword.Input, len(candidates))
	for i, cand := range candidates {
		inputs[i] = keyword.Input{ID: cand.ID, Hits: cand.Hits}
	}
	rawByID := make(map[string]float64, len(candidates))
	for _, res := range e.scorer.Score(terms, inputs) {
		rawByID[res.ID] = res.Components.RawKeyword
	}

	signals := make([]fusion.Signal, len(candidates))
	for i, cand := range candidates {
		signals[i] = fusion.Signal{
			ID:           cand.ID,
			VectorScore:  cand.VectorScore,
			KeywordScore: rawByID[cand.ID],
		}
	}
	fused := e.fuser.Fuse(signals)
	e.monitor.AfterFusion(fused)

	fusedByID := make(map[string]float64, len(fused))
	for _, f := range fused {
		fusedByID[f.ID] = f.Fused
	}
	for i := range inputs {
		inputs[i].FusedScore = fusedByID[inputs[i].ID]
	}
	scored := e.scorer.Score(terms, inputs)
	e.monitor.AfterKeywordScoring(scored)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byID := make(map[string]*core.Candidate, len(candidates))
	for _, cand := range candidates {
		byID[cand.ID] = cand
	}
	results := make([]RankedResult, len(scored))
	finalScores := make([]float64, len(scored))
	for i, res := range scored {
		results[i] = RankedResult{
			Candidate:  byID[res.ID],
			Features:   features[res.ID],
			Components: res.Components,
			Breakdown:  res.Breakdown,
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Components.Fused != results[j].Components.Fused {
			return results[i].Components.Fused > results[j].Components.Fused
		}
		return results[i].Candidate.ID < results[j].Candidate.ID
	})
	for i := range results {
		results[i].Rank = i + 1
		finalScores[i] = results[i].Components.Fused
	}

	decision := e.evaluator.Evaluate(guardrail.Query{
		Text:   query,
		Tenant: e.tenant,
		Scores: finalScores,
	})

	response := &Response{
		Terms:    terms,
		Results:  results,
		Decision: decision,
	}
	e.monitor.Finish(results, decision)
	e.logger.Debug("ranking complete",
		"tenant", e.tenant,
		"terms", len(terms),
		"candidates", len(candidates),
		"answerable", decision.Answerable)

	return response, nil
}

// extractFeatures fans per-candidate feature extraction out on the
// worker pool and joins before returning. Each worker writes only its
// own slot.
func (e *Engine) extractFeatures(ctx context.Context, candidates []*core.Candidate, groups []core.TermGroup) (map[string]core.MatchFeatures, error) {
	extracted := make([]core.MatchFeatures, len(candidates))
	var wg sync.WaitGroup

	for i, cand := range candidates {
		i, cand := i, cand
		wg.Add(1)
		task := func() {
			defer wg.Done()
			extracted[i] = e.extractor.Features(cand, groups)
		}
		if err := e.pool.Submit(task); err != nil {
			// Pool released or saturated; do the work inline.
			task()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	features := make(map[string]core.MatchFeatures, len(candidates))
	for i, cand := range candidates {
		features[cand.ID] = extracted[i]
	}
	return features, nil
}
