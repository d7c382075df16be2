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


package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const seedBatchSize = 256

// Dump is the JSON interchange format produced by the offline indexing
// job.
type Dump struct {
	Terms []DumpEntry `json:"terms"`
}

// DumpEntry is one term's statistics in a dump.
type DumpEntry struct {
	Term         string             `json:"term"`
	IDF          float64            `json:"idf"`
	Cooccurrence map[string]float64 `json:"cooccurrence,omitempty"`
}

// Seed reads a JSON statistics dump and stores its entries in batches.
// Terms are lowercased on ingest so lookups are case-insensitive.
// Returns the number of entries stored. A malformed or invalid dump
// aborts with ErrInvalidDump; entries already stored stay stored.
func Seed(ctx context.Context, w Writer, r io.Reader) (int, error) {
	var dump Dump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDump, err)
	}

	stored := 0
	batch := make([]*TermStats, 0, seedBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := w.PutTermStats(ctx, batch...); err != nil {
			return fmt.Errorf("failed to store statistics batch: %w", err)
		}
		stored += len(batch)
		batch = batch[:0]
		return nil
	}

	for i, entry := range dump.Terms {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		term := strings.ToLower(strings.TrimSpace(entry.Term))
		if term == "" {
			return stored, fmt.Errorf("%w: entry %d has an empty term", ErrInvalidDump, i)
		}
		if entry.IDF < 0 {
			return stored, fmt.Errorf("%w: term %q has negative idf %.3f", ErrInvalidDump, term, entry.IDF)
		}
		cooc := make(map[string]float64, len(entry.Cooccurrence))
		for neighbor, strength := range entry.Cooccurrence {
			if strength < 0 || strength > 1 {
				return stored, fmt.Errorf("%w: term %q co-occurrence with %q is %.3f, outside [0,1]", ErrInvalidDump, term, neighbor, strength)
			}
			cooc[strings.ToLower(strings.TrimSpace(neighbor))] = strength
		}
		batch = append(batch, &TermStats{Term: term, IDF: entry.IDF, Cooccurrence: cooc})
		if len(batch) == seedBatchSize {
			if err := flush(); err != nil {
				return stored, err
			}
		}
	}
	if err := flush(); err != nil {
		return stored, err
	}
	return stored, nil
}
