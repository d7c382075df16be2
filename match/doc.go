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


// Package match computes structural match features for a candidate
// against a query's term groups: group coverage, positional proximity of
// the minimal span covering all groups, and boosts for matches in
// structurally important fields.
//
// The extractor is pure and side-effect free. Candidates are read-only
// inputs, so feature extraction is safe to fan out across candidates in
// parallel.
package match
