package keyword

import (
	"fmt"

	"github.com/poiesic/rankgate/core"
)

// Default scoring constants. Every default lives here; there are no
// inline fallbacks inside the scoring loops.
const (
	DefaultBodyWeight    = 1.0
	DefaultTitleWeight   = 1.5
	DefaultHeaderWeight  = 1.25
	DefaultSectionWeight = 1.1

	DefaultIDFGamma         = 1.0
	DefaultRankDecay        = 0.85
	DefaultBodySaturation   = 0.6
	DefaultEarlyPosWindow   = 50
	DefaultEarlyPosNudge    = 1.1
	DefaultProximityWindow  = 40
	DefaultProximityBeta    = 0.25
	DefaultCoverageAlpha    = 0.15
	DefaultTopKCoverage     = 3
	DefaultExclusivityGamma = 0.3
	DefaultBlendLambda      = 0.3
	DefaultNormClamp        = 2.0
	DefaultEpsilon          = 1e-6
)

// Config holds every keyword scoring constant.
type Config struct {
	// FieldWeights scale a term's points by the field its best hit
	// landed in. A field absent from the map weighs 1.0.
	FieldWeights map[core.Field]float64

	// IDFGamma is the exponent applied to a term's IDF-derived weight.
	IDFGamma float64

	// RankDecay decays a term's contribution by decay^(rank-1), so
	// lower-importance query terms contribute less. Must be in (0,1].
	RankDecay float64

	// BodySaturation is the C in the occurrence saturation 1-e^(-C*hits).
	BodySaturation float64

	// EarlyPosWindow and EarlyPosNudge boost terms whose earliest body
	// occurrence falls within the first EarlyPosWindow tokens.
	EarlyPosWindow int
	EarlyPosNudge  float64

	// ProximityWindow and ProximityBeta shape the cross-term proximity
	// bonus 1 + beta*max(0, 1-span/window).
	ProximityWindow int
	ProximityBeta   float64

	// CoverageAlpha is the bonus multiplier (1+alpha) granted when at
	// least TopKCoverage distinct terms were supplied.
	CoverageAlpha float64
	TopKCoverage  int

	// ExclusivityGamma scales the caller-supplied exclusivity penalty
	// into the multiplier 1 - gamma*penalty.
	ExclusivityGamma float64

	// BlendLambda bounds how far keyword evidence can move the fused
	// vector ranking: final = fused + lambda*kwNorm.
	BlendLambda float64

	// NormClamp is the ceiling on the median-normalized keyword score.
	NormClamp float64

	// Epsilon guards the median division.
	Epsilon float64
}

// DefaultConfig returns the default scoring constants.
func DefaultConfig() Config {
	return Config{
		FieldWeights: map[core.Field]float64{
			core.FieldBody:    DefaultBodyWeight,
			core.FieldTitle:   DefaultTitleWeight,
			core.FieldHeader:  DefaultHeaderWeight,
			core.FieldSection: DefaultSectionWeight,
		},
		IDFGamma:         DefaultIDFGamma,
		RankDecay:        DefaultRankDecay,
		BodySaturation:   DefaultBodySaturation,
		EarlyPosWindow:   DefaultEarlyPosWindow,
		EarlyPosNudge:    DefaultEarlyPosNudge,
		ProximityWindow:  DefaultProximityWindow,
		ProximityBeta:    DefaultProximityBeta,
		CoverageAlpha:    DefaultCoverageAlpha,
		TopKCoverage:     DefaultTopKCoverage,
		ExclusivityGamma: DefaultExclusivityGamma,
		BlendLambda:      DefaultBlendLambda,
		NormClamp:        DefaultNormClamp,
		Epsilon:          DefaultEpsilon,
	}
}

// Validate rejects malformed configuration at construction time.
func (c Config) Validate() error {
	for field, w := range c.FieldWeights {
		if err := core.ValidateField(field); err != nil {
			return fmt.Errorf("%w: %w", core.ErrInvalidConfig, err)
		}
		if w < 0 {
			return fmt.Errorf("%w: field weight cannot be negative", core.ErrInvalidConfig)
		}
	}
	if c.IDFGamma < 0 {
		return fmt.Errorf("%w: idf gamma cannot be negative", core.ErrInvalidConfig)
	}
	if c.RankDecay <= 0 || c.RankDecay > 1 {
		return fmt.Errorf("%w: rank decay must be in (0,1]", core.ErrInvalidConfig)
	}
	if c.BodySaturation <= 0 {
		return fmt.Errorf("%w: body saturation constant must be positive", core.ErrInvalidConfig)
	}
	if c.EarlyPosWindow < 0 {
		return fmt.Errorf("%w: early position window cannot be negative", core.ErrInvalidConfig)
	}
	if c.EarlyPosNudge < 1 {
		return fmt.Errorf("%w: early position nudge must be >= 1", core.ErrInvalidConfig)
	}
	if c.ProximityWindow <= 0 {
		return fmt.Errorf("%w: proximity window must be positive", core.ErrInvalidConfig)
	}
	if c.ProximityBeta < 0 {
		return fmt.Errorf("%w: proximity beta cannot be negative", core.ErrInvalidConfig)
	}
	if c.CoverageAlpha < 0 {
		return fmt.Errorf("%w: coverage alpha cannot be negative", core.ErrInvalidConfig)
	}
	if c.TopKCoverage < 1 {
		return fmt.Errorf("%w: top-k coverage must be >= 1", core.ErrInvalidConfig)
	}
	if c.ExclusivityGamma < 0 || c.ExclusivityGamma > 1 {
		return fmt.Errorf("%w: exclusivity gamma must be in [0,1]", core.ErrInvalidConfig)
	}
	if c.BlendLambda < 0 {
		return fmt.Errorf("%w: blend lambda cannot be negative", core.ErrInvalidConfig)
	}
	if c.NormClamp <= 0 {
		return fmt.Errorf("%w: normalization clamp must be positive", core.ErrInvalidConfig)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("%w: epsilon must be positive", core.ErrInvalidConfig)
	}
	return nil
}
