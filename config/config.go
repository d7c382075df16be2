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


package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/rankgate/core"
	"github.com/poiesic/rankgate/fusion"
	"github.com/poiesic/rankgate/guardrail"
	"github.com/poiesic/rankgate/keyword"
	"github.com/poiesic/rankgate/match"
)

// Tenant is the per-tenant ranking configuration.
type Tenant struct {
	// Name identifies the tenant in logs and audit records.
	Name string `yaml:"name"`

	Fusion    Fusion    `yaml:"fusion"`
	Keyword   Keyword   `yaml:"keyword"`
	Match     Match     `yaml:"match"`
	Guardrail Guardrail `yaml:"guardrail"`
}

// Fusion selects the score fusion strategy and its weights.
type Fusion struct {
	Strategy      string  `yaml:"strategy"`
	Normalization string  `yaml:"normalization"`
	VectorWeight  float64 `yaml:"vector_weight"`
	KeywordWeight float64 `yaml:"keyword_weight"`
	KParam        int     `yaml:"k_param"`
}

// Keyword carries the keyword scoring constants.
type Keyword struct {
	BodyWeight       float64 `yaml:"body_weight"`
	TitleWeight      float64 `yaml:"title_weight"`
	HeaderWeight     float64 `yaml:"header_weight"`
	SectionWeight    float64 `yaml:"section_weight"`
	IDFGamma         float64 `yaml:"idf_gamma"`
	RankDecay        float64 `yaml:"rank_decay"`
	BodySaturation   float64 `yaml:"body_saturation"`
	EarlyPosWindow   int     `yaml:"early_pos_window"`
	EarlyPosNudge    float64 `yaml:"early_pos_nudge"`
	ProximityWindow  int     `yaml:"proximity_window"`
	ProximityBeta    float64 `yaml:"proximity_beta"`
	CoverageAlpha    float64 `yaml:"coverage_alpha"`
	TopKCoverage     int     `yaml:"top_k_coverage"`
	ExclusivityGamma float64 `yaml:"exclusivity_gamma"`
	BlendLambda      float64 `yaml:"blend_lambda"`
	NormClamp        float64 `yaml:"norm_clamp"`
}

// Match carries the feature extraction constants.
type Match struct {
	ProximityWindow int     `yaml:"proximity_window"`
	TitleWeight     float64 `yaml:"title_weight"`
	HeaderWeight    float64 `yaml:"header_weight"`
	SectionWeight   float64 `yaml:"section_weight"`
}

// Guardrail selects the answerability tier and ensemble weights. The
// thresholds section is only consulted when tier is "custom".
type Guardrail struct {
	Tier       string     `yaml:"tier"`
	Thresholds Thresholds `yaml:"thresholds"`
	Weights    Weights    `yaml:"weights"`
	Fallback   Fallback   `yaml:"fallback"`
	Bypass     bool       `yaml:"bypass"`
}

// Thresholds are the five conjunctive gate values for a custom tier.
type Thresholds struct {
	MinConfidence  float64 `yaml:"min_confidence"`
	MinTopScore    float64 `yaml:"min_top_score"`
	MinMeanScore   float64 `yaml:"min_mean_score"`
	MaxStdDev      float64 `yaml:"max_std_dev"`
	MinResultCount int     `yaml:"min_result_count"`
}

// Weights are the confidence ensemble weights.
type Weights struct {
	Statistical        float64 `yaml:"statistical"`
	Threshold          float64 `yaml:"threshold"`
	MLFeatures         float64 `yaml:"ml_features"`
	RerankerConfidence float64 `yaml:"reranker_confidence"`
}

// Fallback configures refusal suggestions.
type Fallback struct {
	Enabled        bool     `yaml:"enabled"`
	MaxSuggestions int      `yaml:"max_suggestions"`
	Suggestions    []string `yaml:"suggestions"`
}

// Default returns a tenant carrying every documented default: moderate
// guardrail tier, weighted-average fusion with min-max normalization,
// and the stock scoring constants.
func Default() *Tenant {
	fc := fusion.DefaultConfig()
	kc := keyword.DefaultConfig()
	mc := match.DefaultConfig()
	fb := guardrail.DefaultFallbackConfig()
	w := guardrail.DefaultAlgorithmWeights()

	return &Tenant{
		Name: "default",
		Fusion: Fusion{
			Strategy:      fc.Strategy.String(),
			Normalization: fc.Normalization.String(),
			VectorWeight:  fc.VectorWeight,
			KeywordWeight: fc.KeywordWeight,
			KParam:        fc.KParam,
		},
		Keyword: Keyword{
			BodyWeight:       kc.FieldWeights[core.FieldBody],
			TitleWeight:      kc.FieldWeights[core.FieldTitle],
			HeaderWeight:     kc.FieldWeights[core.FieldHeader],
			SectionWeight:    kc.FieldWeights[core.FieldSection],
			IDFGamma:         kc.IDFGamma,
			RankDecay:        kc.RankDecay,
			BodySaturation:   kc.BodySaturation,
			EarlyPosWindow:   kc.EarlyPosWindow,
			EarlyPosNudge:    kc.EarlyPosNudge,
			ProximityWindow:  kc.ProximityWindow,
			ProximityBeta:    kc.ProximityBeta,
			CoverageAlpha:    kc.CoverageAlpha,
			TopKCoverage:     kc.TopKCoverage,
			ExclusivityGamma: kc.ExclusivityGamma,
			BlendLambda:      kc.BlendLambda,
			NormClamp:        kc.NormClamp,
		},
		Match: Match{
			ProximityWindow: mc.ProximityWindow,
			TitleWeight:     mc.TitleWeight,
			HeaderWeight:    mc.HeaderWeight,
			SectionWeight:   mc.SectionWeight,
		},
		Guardrail: Guardrail{
			Tier: guardrail.TierModerate.String(),
			Weights: Weights{
				Statistical:        w.Statistical,
				Threshold:          w.Threshold,
				MLFeatures:         w.MLFeatures,
				RerankerConfidence: w.RerankerConfidence,
			},
			Fallback: Fallback{
				Enabled:        fb.Enabled,
				MaxSuggestions: fb.MaxSuggestions,
				Suggestions:    fb.Suggestions,
			},
		},
	}
}

// LoadFile reads a tenant YAML file over the defaults and validates the
// result. An empty file yields the default tenant.
func LoadFile(path string) (*Tenant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tenant config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals tenant YAML over the defaults and validates it.
func Parse(data []byte) (*Tenant, error) {
	tenant := Default()
	if err := yaml.Unmarshal(data, tenant); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidConfig, err)
	}
	if err := tenant.Validate(); err != nil {
		return nil, err
	}
	return tenant, nil
}

// Validate builds every typed config once and surfaces the first error.
func (t *Tenant) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: tenant name is required", core.ErrInvalidConfig)
	}
	if _, err := t.FusionConfig(); err != nil {
		return err
	}
	if err := t.KeywordConfig().Validate(); err != nil {
		return err
	}
	if err := t.MatchConfig().Validate(); err != nil {
		return err
	}
	profile, err := t.GuardrailProfile()
	if err != nil {
		return err
	}
	if err := profile.Validate(); err != nil {
		return err
	}
	if err := t.AlgorithmWeights().Validate(); err != nil {
		return err
	}
	return nil
}

// FusionConfig converts the fusion section to a validated fusion.Config.
func (t *Tenant) FusionConfig() (fusion.Config, error) {
	strategy, err := fusion.ParseStrategy(t.Fusion.Strategy)
	if err != nil {
		return fusion.Config{}, err
	}
	norm, err := fusion.ParseNormalization(t.Fusion.Normalization)
	if err != nil {
		return fusion.Config{}, err
	}
	cfg := fusion.Config{
		Strategy:      strategy,
		Normalization: norm,
		VectorWeight:  t.Fusion.VectorWeight,
		KeywordWeight: t.Fusion.KeywordWeight,
		KParam:        t.Fusion.KParam,
	}
	if err := cfg.Validate(); err != nil {
		return fusion.Config{}, err
	}
	return cfg, nil
}

// KeywordConfig converts the keyword section to a keyword.Config.
func (t *Tenant) KeywordConfig() keyword.Config {
	return keyword.Config{
		FieldWeights: map[core.Field]float64{
			core.FieldBody:    t.Keyword.BodyWeight,
			core.FieldTitle:   t.Keyword.TitleWeight,
			core.FieldHeader:  t.Keyword.HeaderWeight,
			core.FieldSection: t.Keyword.SectionWeight,
		},
		IDFGamma:         t.Keyword.IDFGamma,
		RankDecay:        t.Keyword.RankDecay,
		BodySaturation:   t.Keyword.BodySaturation,
		EarlyPosWindow:   t.Keyword.EarlyPosWindow,
		EarlyPosNudge:    t.Keyword.EarlyPosNudge,
		ProximityWindow:  t.Keyword.ProximityWindow,
		ProximityBeta:    t.Keyword.ProximityBeta,
		CoverageAlpha:    t.Keyword.CoverageAlpha,
		TopKCoverage:     t.Keyword.TopKCoverage,
		ExclusivityGamma: t.Keyword.ExclusivityGamma,
		BlendLambda:      t.Keyword.BlendLambda,
		NormClamp:        t.Keyword.NormClamp,
		Epsilon:          keyword.DefaultEpsilon,
	}
}

// MatchConfig converts the match section to a match.Config.
func (t *Tenant) MatchConfig() match.Config {
	return match.Config{
		ProximityWindow: t.Match.ProximityWindow,
		TitleWeight:     t.Match.TitleWeight,
		HeaderWeight:    t.Match.HeaderWeight,
		SectionWeight:   t.Match.SectionWeight,
	}
}

// GuardrailProfile resolves the configured tier. A custom tier takes
// its thresholds from the thresholds section; any other tier uses the
// bundled values and ignores it.
func (t *Tenant) GuardrailProfile() (guardrail.ThresholdProfile, error) {
	tier, err := guardrail.ParseTier(t.Guardrail.Tier)
	if err != nil {
		return guardrail.ThresholdProfile{}, err
	}
	if tier != guardrail.TierCustom {
		return guardrail.ProfileForTier(tier)
	}
	return guardrail.ThresholdProfile{
		Tier:           guardrail.TierCustom,
		MinConfidence:  t.Guardrail.Thresholds.MinConfidence,
		MinTopScore:    t.Guardrail.Thresholds.MinTopScore,
		MinMeanScore:   t.Guardrail.Thresholds.MinMeanScore,
		MaxStdDev:      t.Guardrail.Thresholds.MaxStdDev,
		MinResultCount: t.Guardrail.Thresholds.MinResultCount,
	}, nil
}

// AlgorithmWeights converts the weights section.
func (t *Tenant) AlgorithmWeights() guardrail.AlgorithmWeights {
	return guardrail.AlgorithmWeights{
		Statistical:        t.Guardrail.Weights.Statistical,
		Threshold:          t.Guardrail.Weights.Threshold,
		MLFeatures:         t.Guardrail.Weights.MLFeatures,
		RerankerConfidence: t.Guardrail.Weights.RerankerConfidence,
	}
}

// FallbackConfig converts the fallback section.
func (t *Tenant) FallbackConfig() guardrail.FallbackConfig {
	return guardrail.FallbackConfig{
		Enabled:        t.Guardrail.Fallback.Enabled,
		MaxSuggestions: t.Guardrail.Fallback.MaxSuggestions,
		Suggestions:    t.Guardrail.Fallback.Suggestions,
	}
}
