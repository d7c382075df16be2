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
	"math"
	"sort"
)

// ScoreStatistics summarizes the distribution of the final ranked scores
// for one query. StdDev is the population standard deviation.
type ScoreStatistics struct {
	Count  int
	Mean   float64
	Max    float64
	Min    float64
	StdDev float64
	P25    float64
	P50    float64
	P75    float64
	P90    float64
}

// ComputeStatistics builds score statistics over a result set. An empty
// set yields the zero value, which the evaluator treats as the strongest
// possible refusal signal.
func ComputeStatistics(scores []float64) ScoreStatistics {
	n := len(scores)
	if n == 0 {
		return ScoreStatistics{}
	}

	sorted := make([]float64, n)
	copy(sorted, scores)
	sort.Float64s(sorted)

	var sum float64
	for _, s := range sorted {
		sum += s
	}
	mean := sum / float64(n)

	var variance float64
	for _, s := range sorted {
		d := s - mean
		variance += d * d
	}
	variance /= float64(n)

	return ScoreStatistics{
		Count:  n,
		Mean:   mean,
		Max:    sorted[n-1],
		Min:    sorted[0],
		StdDev: math.Sqrt(variance),
		P25:    percentile(sorted, 0.25),
		P50:    percentile(sorted, 0.5),
		P75:    percentile(sorted, 0.75),
		P90:    percentile(sorted, 0.9),
	}
}

// percentile uses the nearest-rank method over an ascending slice.
func percentile(sorted []float64, q float64) float64 {
	idx := int(math.Ceil(q*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
