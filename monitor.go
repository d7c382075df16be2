package rankgate

import (
	"github.com/poiesic/rankgate/core"
	"github.com/poiesic/rankgate/fusion"
	"github.com/poiesic/rankgate/guardrail"
	"github.com/poiesic/rankgate/keyword"
)

// RankMonitor provides hooks to observe the ranking process.
// Implement this interface to track intermediate stages and results
// during ranking.
type RankMonitor interface {
	Start(query string)
	AfterQueryAnalysis(terms []core.Term)
	AfterFeatureExtraction(features map[string]core.MatchFeatures)
	AfterFusion(results []fusion.Result)
	AfterKeywordScoring(results []keyword.Result)
	Finish(results []RankedResult, decision guardrail.Decision)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                      {}
func (n *noopMonitor) AfterQueryAnalysis(_ []core.Term)                    {}
func (n *noopMonitor) AfterFeatureExtraction(_ map[string]core.MatchFeatures) {}
func (n *noopMonitor) AfterFusion(_ []fusion.Result)                       {}
func (n *noopMonitor) AfterKeywordScoring(_ []keyword.Result)              {}
func (n *noopMonitor) Finish(_ []RankedResult, _ guardrail.Decision)       {}
