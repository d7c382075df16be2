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
	"fmt"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
)

// TermStatsMUS is the MUS serializer for TermStats entries.
var TermStatsMUS = termStatsSer{}

var _ mus.Serializer[TermStats] = termStatsSer{}

var cooccurrenceMUS = ord.NewMapSer[string, float64](ord.String, raw.Float64)

type termStatsSer struct{}

func (termStatsSer) Marshal(ts TermStats, bs []byte) (n int) {
	n = ord.String.Marshal(ts.Term, bs)
	n += raw.Float64.Marshal(ts.IDF, bs[n:])
	n += cooccurrenceMUS.Marshal(ts.Cooccurrence, bs[n:])
	return n
}

func (termStatsSer) Unmarshal(bs []byte) (ts TermStats, n int, err error) {
	ts.Term, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	ts.IDF, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	ts.Cooccurrence, n1, err = cooccurrenceMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (termStatsSer) Size(ts TermStats) (size int) {
	size = ord.String.Size(ts.Term)
	size += raw.Float64.Size(ts.IDF)
	size += cooccurrenceMUS.Size(ts.Cooccurrence)
	return size
}

func (termStatsSer) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = raw.Float64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = cooccurrenceMUS.Skip(bs[n:])
	n += n1
	return
}

// MarshalTermStats serializes a TermStats entry to bytes.
func MarshalTermStats(ts *TermStats) []byte {
	buf := make([]byte, TermStatsMUS.Size(*ts))
	TermStatsMUS.Marshal(*ts, buf)
	return buf
}

// UnmarshalTermStats deserializes a TermStats entry from bytes.
func UnmarshalTermStats(data []byte) (*TermStats, error) {
	ts, _, err := TermStatsMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &ts, nil
}
