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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStatisticsEmpty(t *testing.T) {
	stats := ComputeStatistics(nil)
	assert.Equal(t, ScoreStatistics{}, stats)
}

func TestComputeStatisticsSingle(t *testing.T) {
	stats := ComputeStatistics([]float64{0.7})

	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, 0.7, stats.Mean)
	assert.Equal(t, 0.7, stats.Max)
	assert.Equal(t, 0.7, stats.Min)
	assert.Equal(t, 0.0, stats.StdDev)
	assert.Equal(t, 0.7, stats.P90)
}

func TestComputeStatisticsDistribution(t *testing.T) {
	stats := ComputeStatistics([]float64{0.42, 0.3, 0.02, 0.01, 0.0})

	assert.Equal(t, 5, stats.Count)
	assert.InDelta(t, 0.15, stats.Mean, 1e-9)
	assert.InDelta(t, 0.42, stats.Max, 1e-9)
	assert.InDelta(t, 0.0, stats.Min, 1e-9)
	assert.InDelta(t, 0.17573, stats.StdDev, 1e-4)
	assert.InDelta(t, 0.01, stats.P25, 1e-9)
	assert.InDelta(t, 0.02, stats.P50, 1e-9)
	assert.InDelta(t, 0.3, stats.P75, 1e-9)
	assert.InDelta(t, 0.42, stats.P90, 1e-9)
}

func TestComputeStatisticsDoesNotMutateInput(t *testing.T) {
	scores := []float64{0.9, 0.1, 0.5}
	ComputeStatistics(scores)
	assert.Equal(t, []float64{0.9, 0.1, 0.5}, scores)
}

func TestPercentileNearestRank(t *testing.T) {
	sorted := []float64{0.1, 0.2, 0.3, 0.4}

	assert.Equal(t, 0.1, percentile(sorted, 0.25))
	assert.Equal(t, 0.2, percentile(sorted, 0.5))
	assert.Equal(t, 0.3, percentile(sorted, 0.75))
	assert.Equal(t, 0.4, percentile(sorted, 0.9))
}
