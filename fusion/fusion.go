package fusion

import (
	"fmt"
	"sort"

	"github.com/poiesic/rankgate/core"
)

// Strategy selects the fusion algorithm. The strategy set is closed and
// dispatched exhaustively.
type Strategy int

const (
	// StrategyWeightedAverage combines normalized raw scores weighted by
	// signal.
	StrategyWeightedAverage Strategy = iota + 1
	// StrategyBordaRank combines reciprocal rank positions, ignoring
	// score magnitude.
	StrategyBordaRank
)

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyWeightedAverage:
		return "weighted_average"
	case StrategyBordaRank:
		return "borda_rank"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy converts a configuration name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "weighted_average":
		return StrategyWeightedAverage, nil
	case "borda_rank":
		return StrategyBordaRank, nil
	default:
		return 0, fmt.Errorf("%w: unknown fusion strategy %q", core.ErrInvalidConfig, name)
	}
}

// Normalization selects the per-signal score normalization policy for the
// weighted average strategy.
type Normalization int

const (
	// NormNone uses raw scores as supplied.
	NormNone Normalization = iota + 1
	// NormMinMax rescales each signal to [0,1] over the candidate set.
	NormMinMax
)

// String returns the configuration name of the normalization policy.
func (n Normalization) String() string {
	switch n {
	case NormNone:
		return "none"
	case NormMinMax:
		return "minmax"
	default:
		return fmt.Sprintf("normalization(%d)", int(n))
	}
}

// ParseNormalization converts a configuration name into a Normalization.
func ParseNormalization(name string) (Normalization, error) {
	switch name {
	case "none":
		return NormNone, nil
	case "minmax":
		return NormMinMax, nil
	default:
		return 0, fmt.Errorf("%w: unknown normalization %q", core.ErrInvalidConfig, name)
	}
}

// DefaultKParam is the reciprocal-rank smoothing constant, empirically
// validated across retrieval systems.
const DefaultKParam = 60

// Default signal weights.
const (
	DefaultVectorWeight  = 0.7
	DefaultKeywordWeight = 0.3
)

// Config holds the fusion strategy and its parameters.
type Config struct {
	Strategy      Strategy
	VectorWeight  float64
	KeywordWeight float64
	KParam        int // reciprocal-rank smoothing constant
	Normalization Normalization
}

// DefaultConfig returns weighted-average fusion with min-max
// normalization and the standard weights.
func DefaultConfig() Config {
	return Config{
		Strategy:      StrategyWeightedAverage,
		VectorWeight:  DefaultVectorWeight,
		KeywordWeight: DefaultKeywordWeight,
		KParam:        DefaultKParam,
		Normalization: NormMinMax,
	}
}

// Validate rejects malformed configuration at construction time.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyWeightedAverage, StrategyBordaRank:
	default:
		return fmt.Errorf("%w: unknown fusion strategy", core.ErrInvalidConfig)
	}
	if c.VectorWeight < 0 || c.KeywordWeight < 0 {
		return fmt.Errorf("%w: fusion weights cannot be negative", core.ErrInvalidConfig)
	}
	if c.VectorWeight+c.KeywordWeight == 0 {
		return fmt.Errorf("%w: fusion weights cannot both be zero", core.ErrInvalidConfig)
	}
	if c.KParam <= 0 {
		return fmt.Errorf("%w: k parameter must be positive", core.ErrInvalidConfig)
	}
	switch c.Normalization {
	case NormNone, NormMinMax:
	default:
		return fmt.Errorf("%w: unknown normalization", core.ErrInvalidConfig)
	}
	return nil
}

// Signal carries one candidate's independently computed relevance scores.
type Signal struct {
	ID           string
	VectorScore  float64
	KeywordScore float64
}

// Result is one candidate's fused score with the rank positions each
// signal assigned it (1-based).
type Result struct {
	ID          string
	VectorRank  int
	KeywordRank int
	Fused       float64
}

// Fuser merges signal pairs under a fixed configuration.
type Fuser struct {
	config Config
}

// NewFuser creates a fuser, validating the configuration.
func NewFuser(config Config) (*Fuser, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Fuser{config: config}, nil
}

// Fuse merges the candidates' vector and keyword signals into one ranking,
// ordered best-first. Ties are broken by candidate id, so identical inputs
// always produce identical output.
func (f *Fuser) Fuse(signals []Signal) []Result {
	if len(signals) == 0 {
		return []Result{}
	}

	vectorRanks := rankBy(signals, func(s Signal) float64 { return s.VectorScore })
	keywordRanks := rankBy(signals, func(s Signal) float64 { return s.KeywordScore })

	results := make([]Result, len(signals))
	for i, signal := range signals {
		result := Result{
			ID:          signal.ID,
			VectorRank:  vectorRanks[signal.ID],
			KeywordRank: keywordRanks[signal.ID],
		}
		switch f.config.Strategy {
		case StrategyWeightedAverage:
			vNorm := f.normalize(signal.VectorScore, signals, func(s Signal) float64 { return s.VectorScore })
			kNorm := f.normalize(signal.KeywordScore, signals, func(s Signal) float64 { return s.KeywordScore })
			result.Fused = f.config.VectorWeight*vNorm + f.config.KeywordWeight*kNorm
		case StrategyBordaRank:
			k := float64(f.config.KParam)
			result.Fused = f.config.VectorWeight/(k+float64(result.VectorRank)) +
				f.config.KeywordWeight/(k+float64(result.KeywordRank))
		}
		results[i] = result
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Fused != results[j].Fused {
			return results[i].Fused > results[j].Fused
		}
		return results[i].ID < results[j].ID
	})
	return results
}

// normalize applies the configured normalization policy to one score over
// the candidate set.
func (f *Fuser) normalize(score float64, signals []Signal, value func(Signal) float64) float64 {
	if f.config.Normalization == NormNone {
		return score
	}
	min, max := value(signals[0]), value(signals[0])
	for _, s := range signals[1:] {
		v := value(s)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		// All candidates tied: everyone sits at the maximum.
		return 1.0
	}
	return (score - min) / (max - min)
}

// rankBy assigns 1-based rank positions by descending score, ties broken
// by candidate id for determinism.
func rankBy(signals []Signal, value func(Signal) float64) map[string]int {
	ordered := make([]Signal, len(signals))
	copy(ordered, signals)
	sort.SliceStable(ordered, func(i, j int) bool {
		vi, vj := value(ordered[i]), value(ordered[j])
		if vi != vj {
			return vi > vj
		}
		return ordered[i].ID < ordered[j].ID
	})
	ranks := make(map[string]int, len(ordered))
	for i, s := range ordered {
		ranks[s.ID] = i + 1
	}
	return ranks
}
