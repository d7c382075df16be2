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


// Package keyword converts per-term hits into a normalized keyword score
// per candidate and blends it into the candidate's fused ranking score.
//
// Per-candidate points multiply match strength, field weight, occurrence
// saturation, an early-position nudge, rank decay, and the term's
// IDF-derived importance. Three query-level adjustments follow: a
// proximity bonus and an exclusivity penalty, both computed as folds over
// the whole candidate set (query-global by design, not per-candidate),
// and a coverage bonus for result sets where enough distinct terms were
// found at all.
//
// Normalization divides by the median raw score across the query's
// candidates rather than the maximum, so a single outlier cannot distort
// every other candidate's relative score. The normalized score is clamped
// and added as a bounded nudge: final = fused + lambda*kwNorm.
package keyword
