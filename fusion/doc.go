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


// Package fusion merges a candidate's vector and keyword relevance
// signals into one ranking score.
//
// Two strategies are supported as a closed set: weighted averaging of the
// (optionally min-max normalized) raw scores, and reciprocal-rank fusion
// over each signal's rank position. Rank fusion is insensitive to score
// scale mismatches between the two subsystems at the cost of discarding
// magnitude information.
//
// Fusion is deterministic for identical inputs; tied scores are broken by
// candidate id.
package fusion
