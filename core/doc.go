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


// Package core defines the shared domain model for the ranking engine:
// query terms and term groups, corpus statistics, retrieval candidates,
// per-term hits, and the derived match features and score components that
// flow between the scoring stages.
//
// Everything in this package is plain data. CorpusStats is immutable after
// construction and safe to share by reference across concurrent queries.
package core
