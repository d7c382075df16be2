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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermStatsRoundTrip(t *testing.T) {
	entry := &TermStats{
		Term: "kubernetes",
		IDF:  4.21,
		Cooccurrence: map[string]float64{
			"cluster":    0.82,
			"deployment": 0.64,
		},
	}

	data := MarshalTermStats(entry)
	got, err := UnmarshalTermStats(data)
	require.NoError(t, err)

	assert.Equal(t, entry, got)
}

func TestTermStatsRoundTripEmptyCooccurrence(t *testing.T) {
	entry := &TermStats{Term: "singleton", IDF: 1.5}

	got, err := UnmarshalTermStats(MarshalTermStats(entry))
	require.NoError(t, err)

	assert.Equal(t, "singleton", got.Term)
	assert.Equal(t, 1.5, got.IDF)
	assert.Empty(t, got.Cooccurrence)
}

func TestUnmarshalTermStatsTruncated(t *testing.T) {
	data := MarshalTermStats(&TermStats{Term: "truncate", IDF: 2.0})

	_, err := UnmarshalTermStats(data[:3])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestTermStatsSkip(t *testing.T) {
	entry := TermStats{Term: "skip", IDF: 3.0, Cooccurrence: map[string]float64{"over": 0.5}}
	data := MarshalTermStats(&entry)

	n, err := TermStatsMUS.Skip(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, len(data), TermStatsMUS.Size(entry))
}
