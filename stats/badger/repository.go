package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/rankgate/core"
	"github.com/poiesic/rankgate/stats"
)

// Repository implements stats.Repository and stats.Writer for BadgerDB.
type Repository struct {
	backend *Backend
}

var (
	_ stats.Repository = (*Repository)(nil)
	_ stats.Writer     = (*Repository)(nil)
)

// NewRepository creates a new statistics repository over a backend.
func NewRepository(backend *Backend) (*Repository, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend cannot be nil")
	}
	return &Repository{backend: backend}, nil
}

// Close releases resources. The backend is shared and closed separately.
func (r *Repository) Close() error {
	return nil
}

// IDF returns the stored inverse document frequency for a term.
func (r *Repository) IDF(ctx context.Context, term string) (float64, error) {
	entry, err := r.getTermStats(term)
	if err != nil {
		return 0, err
	}
	return entry.IDF, nil
}

// Cooccurrence returns the co-occurrence strength for a term pair,
// checking both sides of the pair. An unknown pair is a defined zero.
func (r *Repository) Cooccurrence(ctx context.Context, a, b string) (float64, error) {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	entry, err := r.getTermStats(a)
	if err == nil {
		if strength, ok := entry.Cooccurrence[b]; ok {
			return strength, nil
		}
	} else if !errors.Is(err, stats.ErrNotFound) {
		return 0, err
	}

	entry, err = r.getTermStats(b)
	if err == nil {
		return entry.Cooccurrence[a], nil
	}
	if errors.Is(err, stats.ErrNotFound) {
		return 0, nil
	}
	return 0, err
}

// LoadAll reads the whole statistics table into an immutable snapshot.
func (r *Repository) LoadAll(ctx context.Context) (core.CorpusStats, error) {
	idf := make(map[string]float64)
	cooc := make(map[string]map[string]float64)

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(termStatsPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var entry *stats.TermStats
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = stats.UnmarshalTermStats(val)
				return err
			})
			if err != nil {
				return err
			}
			idf[entry.Term] = entry.IDF
			if len(entry.Cooccurrence) > 0 {
				cooc[entry.Term] = entry.Cooccurrence
			}
		}
		return nil
	}, false)
	if err != nil {
		return core.CorpusStats{}, fmt.Errorf("failed to load statistics table: %w", err)
	}

	return core.NewCorpusStats(idf, cooc), nil
}

// PutTermStats stores one or more term entries, replacing any previous
// entry for the same term.
func (r *Repository) PutTermStats(ctx context.Context, entries ...*stats.TermStats) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			if entry == nil || entry.Term == "" {
				return fmt.Errorf("%w: entry with empty term", stats.ErrInvalidDump)
			}
			key := makeTermStatsKey(strings.ToLower(entry.Term))
			if err := tx.Set(key, stats.MarshalTermStats(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

func (r *Repository) getTermStats(term string) (*stats.TermStats, error) {
	var entry *stats.TermStats
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTermStatsKey(strings.ToLower(term)))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %q", stats.ErrNotFound, term)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			entry, err = stats.UnmarshalTermStats(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return entry, nil
}
