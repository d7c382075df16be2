package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b
// hashing. Identical content always produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// MatchStrength classifies how a term matched within a field.
type MatchStrength int

const (
	// MatchExact represents a verbatim term match.
	MatchExact MatchStrength = iota + 1
	// MatchLemma represents a match after lemmatization.
	MatchLemma
	// MatchFuzzy represents an approximate (edit-distance) match.
	MatchFuzzy
)

// Value returns the scoring weight for the match strength class.
// Exact matches outrank lemma matches, which outrank fuzzy matches.
func (m MatchStrength) Value() float64 {
	switch m {
	case MatchExact:
		return 1.0
	case MatchLemma:
		return 0.7
	case MatchFuzzy:
		return 0.4
	default:
		return 0
	}
}

// Field identifies the structural location of a term hit within a candidate.
type Field int

const (
	// FieldBody is the candidate's raw content.
	FieldBody Field = iota + 1
	// FieldTitle is the candidate's title.
	FieldTitle
	// FieldHeader is the nearest heading above the candidate's content.
	FieldHeader
	// FieldSection is the candidate's section path.
	FieldSection
)

// Term is a salient query term extracted by the analyzer.
// Immutable once extracted.
type Term struct {
	Text   string
	Rank   int     // 1-based position in the ranked term list
	Weight float64 // importance derived from IDF
	Phrase bool    // true when the term is a multi-word phrase
}

// TermGroup is an ordered set of term strings treated as interchangeable
// for coverage and proximity purposes.
type TermGroup struct {
	Members []string
}

// CorpusStats holds precomputed, read-only corpus statistics: per-term
// inverse document frequency and pairwise co-occurrence counts.
// The zero value is a valid empty table. Construct with NewCorpusStats;
// the maps are copied so callers cannot mutate a shared instance.
type CorpusStats struct {
	idf  map[string]float64
	cooc map[string]map[string]float64
}

// NewCorpusStats builds an immutable statistics table from the supplied
// IDF and co-occurrence maps. Both maps are deep-copied.
func NewCorpusStats(idf map[string]float64, cooc map[string]map[string]float64) CorpusStats {
	s := CorpusStats{
		idf:  make(map[string]float64, len(idf)),
		cooc: make(map[string]map[string]float64, len(cooc)),
	}
	for term, v := range idf {
		s.idf[term] = v
	}
	for a, row := range cooc {
		copied := make(map[string]float64, len(row))
		for b, v := range row {
			copied[b] = v
		}
		s.cooc[a] = copied
	}
	return s
}

// IDF returns the inverse document frequency for a term, or 0 when the
// term is unknown to the corpus.
func (s CorpusStats) IDF(term string) float64 {
	return s.idf[term]
}

// Cooccurrence returns the co-occurrence count for a pair of terms.
// The lookup is symmetric.
func (s CorpusStats) Cooccurrence(a, b string) float64 {
	if row, ok := s.cooc[a]; ok {
		if v, ok := row[b]; ok {
			return v
		}
	}
	if row, ok := s.cooc[b]; ok {
		return row[a]
	}
	return 0
}

// TermCount returns the number of terms with a recorded IDF.
func (s CorpusStats) TermCount() int {
	return len(s.idf)
}

// Snapshot returns deep copies of the underlying tables, for serialization.
func (s CorpusStats) Snapshot() (map[string]float64, map[string]map[string]float64) {
	idf := make(map[string]float64, len(s.idf))
	for term, v := range s.idf {
		idf[term] = v
	}
	cooc := make(map[string]map[string]float64, len(s.cooc))
	for a, row := range s.cooc {
		copied := make(map[string]float64, len(row))
		for b, v := range row {
			copied[b] = v
		}
		cooc[a] = copied
	}
	return idf, cooc
}

// TermHit records where and how strongly a query term matched a candidate.
type TermHit struct {
	Field     Field
	Strength  MatchStrength
	Positions []int // token offsets within the field, ascending; may be nil
}

// Candidate is a retrieval result under evaluation for one query.
// Content and the structured fields are optional. TokenPositions, when
// supplied, maps a term to its ordered token offsets within the body and
// lets the feature extractor skip tokenization. Hits carry the
// pre-resolved term matches from the keyword index.
type Candidate struct {
	ID             string
	Content        string
	Title          string
	Header         string
	SectionPath    string
	DocumentID     string
	TokenPositions map[string][]int
	VectorScore    float64
	Hits           map[string][]TermHit
}

// MatchFeatures are the structural match signals for one (query, candidate)
// pair. Derived and ephemeral; recomputed per query.
type MatchFeatures struct {
	Coverage   float64 // fraction of term groups present, in [0,1]
	Proximity  float64 // inverse minimal-span score, in [0,1]
	FieldBoost float64 // weighted per-field coverage, in [0,1]
}

// ScoreComponents are the scoring signals for one (query, candidate) pair.
// Never persisted.
type ScoreComponents struct {
	VectorScore float64 // external vector-index score
	RawKeyword  float64 // unbounded accumulated keyword points
	KeywordNorm float64 // median-normalized keyword score, clamped
	Fused       float64 // final blended ranking score
}
