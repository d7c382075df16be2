package stats

import (
	"context"

	"github.com/poiesic/rankgate/core"
)

// TermStats is the stored statistics entry for one corpus term.
// Cooccurrence maps neighbor terms to a strength in [0,1]; the dump is
// expected to carry each pair on at least one side, lookup checks both.
type TermStats struct {
	Term         string
	IDF          float64
	Cooccurrence map[string]float64
}

// Repository serves corpus statistics to the ranking pipeline.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// IDF returns the inverse document frequency for a term.
	// Returns ErrNotFound if the term has no stored statistics.
	IDF(ctx context.Context, term string) (float64, error)

	// Cooccurrence returns the co-occurrence strength for a term pair.
	// The pair is symmetric: either side may carry the entry. A pair
	// with no stored entry is a defined zero, not an error.
	Cooccurrence(ctx context.Context, a, b string) (float64, error)

	// LoadAll reads the whole statistics table into an immutable
	// core.CorpusStats for in-process use by the query analyzer.
	LoadAll(ctx context.Context) (core.CorpusStats, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// Writer ingests externally produced statistics entries. The seeder is
// the only intended caller; the ranking engine never writes.
type Writer interface {
	// PutTermStats stores one or more term entries, replacing any
	// previous entry for the same term.
	PutTermStats(ctx context.Context, entries ...*TermStats) error
}
