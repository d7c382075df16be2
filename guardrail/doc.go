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


// Package guardrail decides whether a query's retrieval evidence is
// strong enough to answer at all.
//
// The evaluator computes distribution statistics over the final ranked
// scores, derives an ensemble confidence from four algorithm sub-scores,
// and gates the verdict on five conjunctive threshold conditions: any
// single violation forces a refusal. The conjunctive gate, rather than a
// single confidence cutoff, catches result sets where one outlier high
// score masks otherwise weak evidence.
//
// On refusal the evaluator selects an "I don't know" response matched to
// the most specific failing reason and, when fallback is enabled,
// attaches clarification suggestions. An audit record is emitted on both
// the answerable and refusal paths; the worst outcome of any internal
// inconsistency is an overly conservative refusal, the intended safe
// failure mode for a QA guardrail.
package guardrail
