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


package rankgate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/rankgate/config"
	"github.com/poiesic/rankgate/core"
	"github.com/poiesic/rankgate/fusion"
	"github.com/poiesic/rankgate/guardrail"
	"github.com/poiesic/rankgate/keyword"
)

func testCorpus() core.CorpusStats {
	return core.NewCorpusStats(map[string]float64{
		"database":    2.0,
		"replication": 3.0,
		"lag":         2.5,
	}, map[string]map[string]float64{
		"database": {"replication": 0.6},
	})
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	engine, err := NewEngine(config.Default(), testCorpus(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

func matchedCandidate(id string, vector float64) *core.Candidate {
	content := "replication lag grows when the database falls behind on the replication stream"
	return &core.Candidate{
		ID:          id,
		Content:     content,
		Title:       "Database replication lag",
		VectorScore: vector,
		Hits: map[string][]core.TermHit{
			"database": {
				{Field: core.FieldBody, Strength: core.MatchExact, Positions: []int{5}},
				{Field: core.FieldTitle, Strength: core.MatchExact},
			},
			"replication": {
				{Field: core.FieldBody, Strength: core.MatchExact, Positions: []int{0, 10}},
			},
			"lag": {
				{Field: core.FieldBody, Strength: core.MatchExact, Positions: []int{1}},
			},
		},
	}
}

func unmatchedCandidate(id string, vector float64) *core.Candidate {
	return &core.Candidate{
		ID:          id,
		Content:     "entirely unrelated text about cooking pasta at altitude",
		VectorScore: vector,
	}
}

func TestNewEngineRequiresTenant(t *testing.T) {
	_, err := NewEngine(nil, testCorpus())
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestNewEngineRejectsInvalidTenant(t *testing.T) {
	tenant := config.Default()
	tenant.Fusion.Strategy = "psychic"

	_, err := NewEngine(tenant, testCorpus())
	assert.Error(t, err)
}

func TestNewEngineRejectsBadPoolSize(t *testing.T) {
	_, err := NewEngine(config.Default(), testCorpus(), WithPoolSize(0))
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestRankOrdersKeywordEvidenceFirst(t *testing.T) {
	engine := newTestEngine(t)

	resp, err := engine.Rank(context.Background(), "database replication lag", []*core.Candidate{
		unmatchedCandidate("pasta", 0.8),
		matchedCandidate("replication-doc", 0.8),
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 2)
	assert.NotEmpty(t, resp.Terms)
	assert.Equal(t, "replication-doc", resp.Results[0].Candidate.ID)
	assert.Equal(t, 1, resp.Results[0].Rank)
	assert.Equal(t, 2, resp.Results[1].Rank)
	assert.Greater(t, resp.Results[0].Components.Fused, resp.Results[1].Components.Fused)
	assert.Greater(t, resp.Results[0].Components.RawKeyword, 0.0)
	assert.Equal(t, 0.0, resp.Results[1].Components.RawKeyword)
}

func TestRankReportsMatchFeatures(t *testing.T) {
	engine := newTestEngine(t)

	resp, err := engine.Rank(context.Background(), "database replication lag", []*core.Candidate{
		matchedCandidate("doc", 0.8),
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	features := resp.Results[0].Features
	assert.Greater(t, features.Coverage, 0.0)
	assert.Greater(t, features.Proximity, 0.0)
}

func TestRankEmptyCandidateList(t *testing.T) {
	engine := newTestEngine(t)

	resp, err := engine.Rank(context.Background(), "database replication lag", nil)
	require.NoError(t, err)

	assert.Empty(t, resp.Results)
	require.False(t, resp.Decision.Answerable)
	require.NotNil(t, resp.Decision.Refusal)
	assert.Equal(t, guardrail.ReasonNoRelevantDocs, resp.Decision.Refusal.Reason)
}

func TestRankRejectsInvalidCandidate(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Rank(context.Background(), "query", []*core.Candidate{
		{ID: "", Content: "missing id"},
	})
	assert.ErrorIs(t, err, core.ErrEmptyCandidateID)
}

func TestRankCancelledContext(t *testing.T) {
	engine := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Rank(ctx, "query", []*core.Candidate{matchedCandidate("doc", 0.5)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRankDeterministicAcrossRuns(t *testing.T) {
	engine := newTestEngine(t, WithPoolSize(4))

	candidates := func() []*core.Candidate {
		return []*core.Candidate{
			matchedCandidate("a", 0.62),
			matchedCandidate("b", 0.71),
			unmatchedCandidate("c", 0.9),
			matchedCandidate("d", 0.55),
			unmatchedCandidate("e", 0.3),
		}
	}

	first, err := engine.Rank(context.Background(), "database replication lag", candidates())
	require.NoError(t, err)
	second, err := engine.Rank(context.Background(), "database replication lag", candidates())
	require.NoError(t, err)

	require.Equal(t, len(first.Results), len(second.Results))
	for i := range first.Results {
		assert.Equal(t, first.Results[i].Candidate.ID, second.Results[i].Candidate.ID)
		assert.Equal(t, first.Results[i].Components, second.Results[i].Components)
	}
}

func TestRankDoesNotMutateCandidates(t *testing.T) {
	engine := newTestEngine(t)
	cand := matchedCandidate("doc", 0.8)
	originalVector := cand.VectorScore
	originalHits := len(cand.Hits["replication"])

	_, err := engine.Rank(context.Background(), "database replication lag", []*core.Candidate{cand})
	require.NoError(t, err)

	assert.Equal(t, originalVector, cand.VectorScore)
	assert.Len(t, cand.Hits["replication"], originalHits)
}

type stageMonitor struct {
	stages []string
}

func (m *stageMonitor) Start(string)                                   { m.stages = append(m.stages, "start") }
func (m *stageMonitor) AfterQueryAnalysis([]core.Term)                 { m.stages = append(m.stages, "analysis") }
func (m *stageMonitor) AfterFeatureExtraction(map[string]core.MatchFeatures) {
	m.stages = append(m.stages, "features")
}
func (m *stageMonitor) AfterFusion([]fusion.Result)          { m.stages = append(m.stages, "fusion") }
func (m *stageMonitor) AfterKeywordScoring([]keyword.Result) { m.stages = append(m.stages, "keyword") }
func (m *stageMonitor) Finish([]RankedResult, guardrail.Decision) {
	m.stages = append(m.stages, "finish")
}

func TestMonitorObservesEveryStage(t *testing.T) {
	monitor := &stageMonitor{}
	engine := newTestEngine(t, WithMonitor(monitor))

	_, err := engine.Rank(context.Background(), "database replication lag", []*core.Candidate{
		matchedCandidate("doc", 0.8),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"start", "analysis", "features", "fusion", "keyword", "finish"}, monitor.stages)
}

func TestRankUsesGuardrailAuditSink(t *testing.T) {
	sink := &recordingSink{}
	engine := newTestEngine(t, WithAuditSink(sink))

	_, err := engine.Rank(context.Background(), "database replication lag", []*core.Candidate{
		matchedCandidate("doc", 0.8),
	})
	require.NoError(t, err)

	require.Len(t, sink.records, 1)
	assert.Equal(t, "default", sink.records[0].Tenant)
	assert.Equal(t, 1, sink.records[0].ResultCount)
}

type recordingSink struct {
	records []guardrail.AuditRecord
}

func (s *recordingSink) Record(rec guardrail.AuditRecord) {
	s.records = append(s.records, rec)
}
