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


package core

import "fmt"

// ValidateTerm validates a Term according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Rank must be >= 1
//   - Weight must not be negative
func ValidateTerm(term Term) error {
	if term.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTerm, ErrEmptyTermText)
	}
	if term.Rank < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidTerm, ErrInvalidRank)
	}
	if term.Weight < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTerm, ErrNegativeWeight)
	}
	return nil
}

// ValidateCandidate validates a Candidate according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - every TermHit must carry a valid field and match strength
//
// NOT validated (optional upstream data, degrade gracefully):
//   - Content and structured fields (missing content skips keyword scoring)
//   - VectorScore (missing score is treated as 0 by the scorer)
//   - TokenPositions (absence triggers tokenization in the extractor)
func ValidateCandidate(candidate *Candidate) error {
	if candidate == nil {
		return fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}
	if candidate.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrEmptyCandidateID)
	}
	for term, hits := range candidate.Hits {
		for _, hit := range hits {
			if err := ValidateField(hit.Field); err != nil {
				return fmt.Errorf("%w: term %q: %w", ErrInvalidCandidate, term, err)
			}
			if err := ValidateMatchStrength(hit.Strength); err != nil {
				return fmt.Errorf("%w: term %q: %w", ErrInvalidCandidate, term, err)
			}
		}
	}
	return nil
}

// ValidateMatchStrength checks that a MatchStrength is a known class.
func ValidateMatchStrength(strength MatchStrength) error {
	switch strength {
	case MatchExact, MatchLemma, MatchFuzzy:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidMatchStrength, strength)
	}
}

// ValidateField checks that a Field is a known structural location.
func ValidateField(field Field) error {
	switch field {
	case FieldBody, FieldTitle, FieldHeader, FieldSection:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidField, field)
	}
}
