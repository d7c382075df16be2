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


// Package stats supplies precomputed corpus term statistics to the
// ranking pipeline.
//
// The statistics table (per-term inverse document frequency plus
// pairwise co-occurrence strengths) is built offline by an external
// indexing job. This package only stores and serves it: the Repository
// interface reads individual terms or loads the whole table into an
// immutable core.CorpusStats, and Seed ingests a JSON dump produced by
// the indexer. Nothing the ranking engine computes is ever written back.
package stats
