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

	"github.com/poiesic/rankgate/core"
)

// Tier names a bundled threshold profile. Custom marks a profile whose
// thresholds were supplied by the caller rather than picked from a tier.
type Tier int

const (
	TierStrict Tier = iota + 1
	TierModerate
	TierPermissive
	TierCustom
)

func (t Tier) String() string {
	switch t {
	case TierStrict:
		return "strict"
	case TierModerate:
		return "moderate"
	case TierPermissive:
		return "permissive"
	case TierCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParseTier maps a configuration string to a Tier.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "strict":
		return TierStrict, nil
	case "moderate":
		return TierModerate, nil
	case "permissive":
		return TierPermissive, nil
	case "custom":
		return TierCustom, nil
	default:
		return 0, fmt.Errorf("%w: unknown tier %q", core.ErrInvalidConfig, s)
	}
}

// ThresholdProfile holds the five conjunctive gate thresholds. All five
// must be satisfied for an answerable verdict.
type ThresholdProfile struct {
	Tier           Tier
	MinConfidence  float64
	MinTopScore    float64
	MinMeanScore   float64
	MaxStdDev      float64
	MinResultCount int
}

// StrictProfile suits tenants where a wrong answer is worse than a
// refusal.
func StrictProfile() ThresholdProfile {
	return ThresholdProfile{
		Tier:           TierStrict,
		MinConfidence:  0.75,
		MinTopScore:    0.65,
		MinMeanScore:   0.45,
		MaxStdDev:      0.25,
		MinResultCount: 3,
	}
}

// ModerateProfile is the default tier.
func ModerateProfile() ThresholdProfile {
	return ThresholdProfile{
		Tier:           TierModerate,
		MinConfidence:  0.6,
		MinTopScore:    0.5,
		MinMeanScore:   0.3,
		MaxStdDev:      0.35,
		MinResultCount: 2,
	}
}

// PermissiveProfile suits exploratory tenants that prefer a weak answer
// over a refusal.
func PermissiveProfile() ThresholdProfile {
	return ThresholdProfile{
		Tier:           TierPermissive,
		MinConfidence:  0.45,
		MinTopScore:    0.35,
		MinMeanScore:   0.2,
		MaxStdDev:      0.5,
		MinResultCount: 1,
	}
}

// ProfileForTier returns the bundled profile for a named tier. TierCustom
// has no bundled thresholds and is rejected.
func ProfileForTier(t Tier) (ThresholdProfile, error) {
	switch t {
	case TierStrict:
		return StrictProfile(), nil
	case TierModerate:
		return ModerateProfile(), nil
	case TierPermissive:
		return PermissiveProfile(), nil
	default:
		return ThresholdProfile{}, fmt.Errorf("%w: no bundled profile for tier %q", core.ErrInvalidConfig, t)
	}
}

// Validate checks threshold ranges.
func (p ThresholdProfile) Validate() error {
	if p.Tier < TierStrict || p.Tier > TierCustom {
		return fmt.Errorf("%w: tier %d out of range", core.ErrInvalidConfig, p.Tier)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"min confidence", p.MinConfidence},
		{"min top score", p.MinTopScore},
		{"min mean score", p.MinMeanScore},
	} {
		if f.v < 0 || f.v > 1 {
			return fmt.Errorf("%w: %s %.3f outside [0,1]", core.ErrInvalidConfig, f.name, f.v)
		}
	}
	if p.MaxStdDev < 0 {
		return fmt.Errorf("%w: max std dev must be non-negative, got %.3f", core.ErrInvalidConfig, p.MaxStdDev)
	}
	if p.MinResultCount < 0 {
		return fmt.Errorf("%w: min result count must be non-negative, got %d", core.ErrInvalidConfig, p.MinResultCount)
	}
	return nil
}

// AlgorithmWeights sets the contribution of each confidence sub-score.
// When the reranker did not run its weight is redistributed across the
// remaining three, so the weights only need a positive sum, not a sum of
// exactly one.
type AlgorithmWeights struct {
	Statistical        float64
	Threshold          float64
	MLFeatures         float64
	RerankerConfidence float64
}

// DefaultAlgorithmWeights returns the stock ensemble weighting.
func DefaultAlgorithmWeights() AlgorithmWeights {
	return AlgorithmWeights{
		Statistical:        0.35,
		Threshold:          0.3,
		MLFeatures:         0.15,
		RerankerConfidence: 0.2,
	}
}

// Validate checks that weights are non-negative with a positive sum.
func (w AlgorithmWeights) Validate() error {
	if w.Statistical < 0 || w.Threshold < 0 || w.MLFeatures < 0 || w.RerankerConfidence < 0 {
		return fmt.Errorf("%w: algorithm weights must be non-negative", core.ErrInvalidConfig)
	}
	if w.Statistical+w.Threshold+w.MLFeatures+w.RerankerConfidence <= 0 {
		return fmt.Errorf("%w: algorithm weights must have a positive sum", core.ErrInvalidConfig)
	}
	return nil
}
