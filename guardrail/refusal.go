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


package guardrail

// RefusalReason classifies why a query was judged not answerable. The
// most specific applicable reason wins: an empty result set reports
// NoRelevantDocs even though low confidence also holds.
type RefusalReason string

const (
	ReasonNoRelevantDocs RefusalReason = "NO_RELEVANT_DOCS"
	ReasonLowConfidence  RefusalReason = "LOW_CONFIDENCE"
	ReasonBelowThreshold RefusalReason = "BELOW_THRESHOLD"
)

// Refusal is the structured "I don't know" response returned instead of
// an answer.
type Refusal struct {
	Reason      RefusalReason
	Message     string
	Suggestions []string
}

// FallbackConfig controls the clarification suggestions attached to a
// refusal.
type FallbackConfig struct {
	Enabled        bool
	MaxSuggestions int
	Suggestions    []string
}

// DefaultFallbackConfig enables fallback with the stock suggestion set.
func DefaultFallbackConfig() FallbackConfig {
	return FallbackConfig{
		Enabled:        true,
		MaxSuggestions: 3,
		Suggestions: []string{
			"Try rephrasing the question with more specific terms.",
			"Break a multi-part question into separate questions.",
			"Check whether the topic is covered by the documents available to you.",
		},
	}
}

var refusalMessages = map[RefusalReason]string{
	ReasonNoRelevantDocs: "I couldn't find any documents related to your question.",
	ReasonLowConfidence:  "I found some potentially related documents, but not with enough confidence to give a reliable answer.",
	ReasonBelowThreshold: "The documents I found don't meet the quality bar needed to answer your question reliably.",
}

// buildRefusal selects the template for a reason and attaches fallback
// suggestions when enabled.
func buildRefusal(reason RefusalReason, fallback FallbackConfig) *Refusal {
	ref := &Refusal{
		Reason:  reason,
		Message: refusalMessages[reason],
	}
	if !fallback.Enabled {
		return ref
	}
	limit := fallback.MaxSuggestions
	if limit <= 0 || limit > len(fallback.Suggestions) {
		limit = len(fallback.Suggestions)
	}
	ref.Suggestions = append(ref.Suggestions, fallback.Suggestions[:limit]...)
	return ref
}
