package keyword

import (
	"log/slog"
	"math"
	"sort"

	"github.com/poiesic/rankgate/core"
)

// termWeightFloor keeps terms unknown to the corpus (IDF-derived weight 0)
// contributing a small amount instead of vanishing entirely.
const termWeightFloor = 0.1

// Input couples a candidate with its fused vector-based score entering the
// blend and its pre-resolved per-term hits.
type Input struct {
	ID         string
	FusedScore float64
	Hits       map[string][]core.TermHit
}

// Breakdown retains the per-candidate scoring trail for observability.
// It is debugging output, not authoritative for ranking.
type Breakdown struct {
	TermPoints            map[string]float64
	ProximityBonus        float64 // query-global multiplier
	CoverageBonus         float64 // query-global multiplier
	ExclusivityMultiplier float64 // query-global multiplier
	Median                float64 // normalization divisor basis
}

// Result is the scored outcome for one candidate.
type Result struct {
	ID         string
	Components core.ScoreComponents
	Breakdown  Breakdown
}

// ExclusivityFunc compares a candidate's matched terms against the top-K
// query terms and returns a penalty in [0,1]; higher means the candidate's
// matches stray further from the query's core terms.
type ExclusivityFunc func(matchedTerms, topTerms []string) float64

// Scorer accumulates keyword evidence per candidate and normalizes it per
// query.
type Scorer struct {
	config      Config
	exclusivity ExclusivityFunc
	logger      *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithExclusivityFunc installs the caller-supplied exclusivity scoring
// function. Without one, no exclusivity penalty is applied.
func WithExclusivityFunc(fn ExclusivityFunc) Option {
	return func(s *Scorer) error {
		s.exclusivity = fn
		return nil
	}
}

// NewScorer creates a scorer, validating the configuration.
func NewScorer(config Config, opts ...Option) (*Scorer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	s := &Scorer{
		config: config,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Score computes the normalized keyword contribution for every candidate
// and blends it into the fused input score.
//
// With an empty term list the scorer short-circuits: no keyword evidence
// means no adjustment, and every candidate passes through with its fused
// input score unchanged.
func (s *Scorer) Score(terms []core.Term, inputs []Input) []Result {
	results := make([]Result, len(inputs))

	if len(terms) == 0 {
		for i, input := range inputs {
			results[i] = Result{
				ID: input.ID,
				Components: core.ScoreComponents{
					VectorScore: input.FusedScore,
					Fused:       input.FusedScore,
				},
			}
		}
		return results
	}

	raws := make([]float64, len(inputs))
	termPoints := make([]map[string]float64, len(inputs))
	for i, input := range inputs {
		raws[i], termPoints[i] = s.accumulate(terms, input)
	}

	// Query-level folds over the whole candidate set. The proximity bonus
	// and exclusivity multiplier are deliberately query-global: a single
	// candidate's favorable value applies to every candidate.
	proximityBonus := s.proximityBonus(terms, inputs)
	coverageBonus := s.coverageBonus(terms)
	exclusivityMult := s.exclusivityMultiplier(terms, inputs)

	multiplier := proximityBonus * coverageBonus * exclusivityMult
	for i := range raws {
		raws[i] *= multiplier
	}

	median := medianOf(raws)

	for i, input := range inputs {
		norm := raws[i] / (median + s.config.Epsilon)
		if norm > s.config.NormClamp {
			norm = s.config.NormClamp
		}
		final := input.FusedScore + s.config.BlendLambda*norm
		results[i] = Result{
			ID: input.ID,
			Components: core.ScoreComponents{
				VectorScore: input.FusedScore,
				RawKeyword:  raws[i],
				KeywordNorm: norm,
				Fused:       final,
			},
			Breakdown: Breakdown{
				TermPoints:            termPoints[i],
				ProximityBonus:        proximityBonus,
				CoverageBonus:         coverageBonus,
				ExclusivityMultiplier: exclusivityMult,
				Median:                median,
			},
		}
	}

	s.logger.Debug("keyword scoring complete",
		"terms", len(terms), "candidates", len(inputs),
		"median", median, "proximityBonus", proximityBonus)

	return results
}

// accumulate computes a candidate's raw keyword points across all terms.
func (s *Scorer) accumulate(terms []core.Term, input Input) (float64, map[string]float64) {
	points := make(map[string]float64, len(terms))
	var raw float64
	for _, term := range terms {
		hits := input.Hits[term.Text]
		if len(hits) == 0 {
			continue
		}

		best := bestHit(hits)
		fieldWeight, ok := s.config.FieldWeights[best.Field]
		if !ok {
			fieldWeight = 1.0
		}

		saturation := 1 - math.Exp(-s.config.BodySaturation*float64(occurrences(hits)))

		early := 1.0
		if pos, ok := earliestBodyPosition(hits); ok && pos < s.config.EarlyPosWindow {
			early = s.config.EarlyPosNudge
		}

		decay := math.Pow(s.config.RankDecay, float64(term.Rank-1))

		weight := term.Weight
		if weight < termWeightFloor {
			weight = termWeightFloor
		}
		importance := math.Pow(weight, s.config.IDFGamma)

		p := importance * best.Strength.Value() * fieldWeight * saturation * early * decay
		points[term.Text] = p
		raw += p
	}
	return raw, points
}

// proximityBonus folds the cross-term proximity bonus over the candidate
// set, keeping the maximum. Requires at least two terms; among the top
// three terms, positions for at least two must be known for a candidate
// to contribute.
func (s *Scorer) proximityBonus(terms []core.Term, inputs []Input) float64 {
	if len(terms) < 2 {
		return 1.0
	}
	top := terms
	if len(top) > 3 {
		top = top[:3]
	}

	best := 1.0
	for _, input := range inputs {
		var positions []int
		for _, term := range top {
			if pos, ok := earliestBodyPosition(input.Hits[term.Text]); ok {
				positions = append(positions, pos)
			}
		}
		if len(positions) < 2 {
			continue
		}
		span := spanOf(positions)
		closeness := 1 - float64(span)/float64(s.config.ProximityWindow)
		if closeness < 0 {
			closeness = 0
		}
		bonus := 1 + s.config.ProximityBeta*closeness
		if bonus > best {
			best = bonus
		}
	}
	return best
}

// coverageBonus rewards queries where enough distinct terms were found.
func (s *Scorer) coverageBonus(terms []core.Term) float64 {
	if len(terms) >= s.config.TopKCoverage {
		return 1 + s.config.CoverageAlpha
	}
	return 1.0
}

// exclusivityMultiplier folds the exclusivity penalty over the candidate
// set, keeping the minimum multiplier as a global dampening factor.
func (s *Scorer) exclusivityMultiplier(terms []core.Term, inputs []Input) float64 {
	if s.exclusivity == nil || len(inputs) == 0 {
		return 1.0
	}

	top := terms
	if len(top) > s.config.TopKCoverage {
		top = top[:s.config.TopKCoverage]
	}
	topTexts := make([]string, 0, len(top))
	for _, term := range top {
		topTexts = append(topTexts, term.Text)
	}

	lowest := 1.0
	for _, input := range inputs {
		var matched []string
		for _, term := range terms {
			if len(input.Hits[term.Text]) > 0 {
				matched = append(matched, term.Text)
			}
		}
		penalty := s.exclusivity(matched, topTexts)
		if penalty < 0 {
			penalty = 0
		}
		if penalty > 1 {
			penalty = 1
		}
		mult := 1 - s.config.ExclusivityGamma*penalty
		if mult < lowest {
			lowest = mult
		}
	}
	if lowest < 0 {
		lowest = 0
	}
	return lowest
}

// bestHit selects the strongest hit; ties keep the first encountered.
func bestHit(hits []core.TermHit) core.TermHit {
	best := hits[0]
	for _, hit := range hits[1:] {
		if hit.Strength.Value() > best.Strength.Value() {
			best = hit
		}
	}
	return best
}

// occurrences counts total term occurrences across hits. A hit without
// positions counts as a single occurrence.
func occurrences(hits []core.TermHit) int {
	total := 0
	for _, hit := range hits {
		if len(hit.Positions) > 0 {
			total += len(hit.Positions)
		} else {
			total++
		}
	}
	return total
}

// earliestBodyPosition returns the smallest body-field position among the
// hits, if any hit carries positions.
func earliestBodyPosition(hits []core.TermHit) (int, bool) {
	earliest := -1
	for _, hit := range hits {
		if hit.Field != core.FieldBody || len(hit.Positions) == 0 {
			continue
		}
		if earliest < 0 || hit.Positions[0] < earliest {
			earliest = hit.Positions[0]
		}
	}
	if earliest < 0 {
		return 0, false
	}
	return earliest, true
}

func spanOf(positions []int) int {
	min, max := positions[0], positions[0]
	for _, p := range positions[1:] {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return max - min
}

// medianOf returns the median of the values; 0 for an empty slice.
func medianOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
