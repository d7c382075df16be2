package match

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/poiesic/rankgate/core"
)

const (
	// DefaultProximityWindow is the span, in tokens, at which the
	// proximity score halves.
	DefaultProximityWindow = 40

	// Default field boost weights.
	DefaultTitleWeight   = 0.4
	DefaultHeaderWeight  = 0.3
	DefaultSectionWeight = 0.2
)

// Config holds the feature extraction constants.
type Config struct {
	// ProximityWindow converts a token span into a proximity score via
	// 1 / (1 + span/ProximityWindow). Must be positive.
	ProximityWindow int

	// TitleWeight, HeaderWeight and SectionWeight scale per-field group
	// coverage into the field boost. Each must lie in [0,1].
	TitleWeight   float64
	HeaderWeight  float64
	SectionWeight float64
}

// DefaultConfig returns the default extraction constants.
func DefaultConfig() Config {
	return Config{
		ProximityWindow: DefaultProximityWindow,
		TitleWeight:     DefaultTitleWeight,
		HeaderWeight:    DefaultHeaderWeight,
		SectionWeight:   DefaultSectionWeight,
	}
}

// Validate rejects malformed configuration at construction time.
func (c Config) Validate() error {
	if c.ProximityWindow <= 0 {
		return fmt.Errorf("%w: proximity window must be positive", core.ErrInvalidConfig)
	}
	for name, w := range map[string]float64{
		"title":   c.TitleWeight,
		"header":  c.HeaderWeight,
		"section": c.SectionWeight,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%w: %s weight must be in [0,1]", core.ErrInvalidConfig, name)
		}
	}
	return nil
}

// Extractor computes MatchFeatures for (candidate, term groups) pairs.
type Extractor struct {
	config Config
}

// NewExtractor creates an extractor, validating the configuration.
func NewExtractor(config Config) (*Extractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{config: config}, nil
}

// Features computes coverage, proximity, and field boost for one candidate.
//
// With no groups, coverage and proximity default to 1.0 (nothing to
// satisfy) and the field boost to 0 (no boost evidence).
func (e *Extractor) Features(candidate *core.Candidate, groups []core.TermGroup) core.MatchFeatures {
	if len(groups) == 0 {
		return core.MatchFeatures{Coverage: 1.0, Proximity: 1.0}
	}

	bodyTokens := tokenize(candidate.Content)

	return core.MatchFeatures{
		Coverage:   e.coverage(candidate, bodyTokens, groups),
		Proximity:  e.proximity(candidate, bodyTokens, groups),
		FieldBoost: e.fieldBoost(candidate, groups),
	}
}

// coverage is the fraction of groups with at least one member present in
// the candidate's body or metadata fields.
func (e *Extractor) coverage(candidate *core.Candidate, bodyTokens []string, groups []core.TermGroup) float64 {
	fields := [][]string{
		bodyTokens,
		tokenize(candidate.Title),
		tokenize(candidate.Header),
		tokenize(candidate.SectionPath),
	}

	matched := 0
	for _, group := range groups {
		if groupInAnyField(group, fields) {
			matched++
		}
	}
	return float64(matched) / float64(len(groups))
}

// proximity scores the minimal token span covering one member of every
// group. Zero whenever any group is entirely absent from the body;
// trivially 1.0 with a single group.
func (e *Extractor) proximity(candidate *core.Candidate, bodyTokens []string, groups []core.TermGroup) float64 {
	if len(groups) == 1 {
		return 1.0
	}

	occurrences := make([][]int, len(groups))
	for i, group := range groups {
		offsets := groupOffsets(group, candidate.TokenPositions, bodyTokens)
		if len(offsets) == 0 {
			return 0
		}
		occurrences[i] = offsets
	}

	span, ok := minimalSpan(occurrences)
	if !ok {
		return 0
	}
	return 1.0 / (1.0 + float64(span)/float64(e.config.ProximityWindow))
}

// fieldBoost sums weight x (groups matched in field / total groups) over
// the title, header, and section path fields, clamped to 1.0.
func (e *Extractor) fieldBoost(candidate *core.Candidate, groups []core.TermGroup) float64 {
	total := float64(len(groups))
	boost := 0.0
	for _, field := range []struct {
		text   string
		weight float64
	}{
		{candidate.Title, e.config.TitleWeight},
		{candidate.Header, e.config.HeaderWeight},
		{candidate.SectionPath, e.config.SectionWeight},
	} {
		if field.weight == 0 || field.text == "" {
			continue
		}
		tokens := tokenize(field.text)
		matched := 0
		for _, group := range groups {
			if groupInField(group, tokens) {
				matched++
			}
		}
		boost += field.weight * float64(matched) / total
	}
	if boost > 1.0 {
		boost = 1.0
	}
	return boost
}

// groupOffsets collects the sorted start offsets of a group's members in
// the candidate body, preferring precomputed token positions when present.
func groupOffsets(group core.TermGroup, positions map[string][]int, bodyTokens []string) []int {
	var offsets []int
	for _, member := range group.Members {
		if positions != nil {
			if pre, ok := positions[member]; ok {
				offsets = append(offsets, pre...)
				continue
			}
		}
		offsets = append(offsets, phraseOffsets(bodyTokens, member)...)
	}
	sort.Ints(offsets)
	return offsets
}

// minimalSpan runs the pivot scan: every occurrence of every group serves
// as a pivot, the nearest at-or-after occurrence of each other group is
// located, and the span is the maximum offset reached minus the pivot.
// Returns the smallest span found and whether any pivot covered all groups.
func minimalSpan(occurrences [][]int) (int, bool) {
	best := -1
	for pivotGroup, offsets := range occurrences {
		for _, pivot := range offsets {
			maxEnd := pivot
			covered := true
			for otherGroup, others := range occurrences {
				if otherGroup == pivotGroup {
					continue
				}
				idx := sort.SearchInts(others, pivot)
				if idx == len(others) {
					covered = false
					break
				}
				if others[idx] > maxEnd {
					maxEnd = others[idx]
				}
			}
			if !covered {
				continue
			}
			span := maxEnd - pivot
			if best < 0 || span < best {
				best = span
			}
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// groupInAnyField reports whether any member of the group occurs in any of
// the tokenized fields.
func groupInAnyField(group core.TermGroup, fields [][]string) bool {
	for _, tokens := range fields {
		if groupInField(group, tokens) {
			return true
		}
	}
	return false
}

// groupInField reports whether any member of the group occurs in the
// tokenized field text.
func groupInField(group core.TermGroup, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, member := range group.Members {
		if len(phraseOffsets(tokens, member)) > 0 {
			return true
		}
	}
	return false
}

// phraseOffsets returns the start offsets of the (possibly multi-word)
// member within the token sequence. Matching is case-insensitive and
// contiguous for multi-word members.
func phraseOffsets(tokens []string, member string) []int {
	memberTokens := tokenize(member)
	if len(memberTokens) == 0 || len(tokens) < len(memberTokens) {
		return nil
	}
	var offsets []int
	for i := 0; i+len(memberTokens) <= len(tokens); i++ {
		match := true
		for j, mt := range memberTokens {
			if tokens[i+j] != mt {
				match = false
				break
			}
		}
		if match {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

// tokenize splits text into lowercase alphanumeric tokens.
func tokenize(text string) []string {
	if text == "" {
		return nil
	}
	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	return strings.Fields(builder.String())
}
