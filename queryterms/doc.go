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


// Package queryterms extracts salient terms from raw query text.
//
// The Analyzer type turns a query into ranked phrase candidates and
// informative single tokens using precomputed corpus statistics:
//   - phrases from capitalized-word runs and short sliding windows,
//     scored by summed IDF plus a co-occurrence bonus for bigrams
//   - single tokens scored by IDF alone
//
// Extraction is deliberately recall-biased: beyond the stopword list and a
// minimum token length nothing is filtered, and downstream scoring
// discounts noisy terms via weighting. An empty or whitespace query yields
// an empty result; the analyzer never fails.
package queryterms
