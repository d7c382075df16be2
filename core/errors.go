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

import "errors"

// Domain validation errors
var (
	// ErrInvalidTerm indicates a Term failed validation.
	ErrInvalidTerm = errors.New("invalid term")

	// ErrEmptyTermText indicates the term Text field is empty.
	ErrEmptyTermText = errors.New("term text cannot be empty")

	// ErrInvalidRank indicates a term rank is not 1-based.
	ErrInvalidRank = errors.New("term rank must be >= 1")

	// ErrNegativeWeight indicates a negative weight was supplied.
	ErrNegativeWeight = errors.New("weight cannot be negative")

	// ErrInvalidCandidate indicates a Candidate failed validation.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrEmptyCandidateID indicates the candidate ID field is empty.
	ErrEmptyCandidateID = errors.New("candidate id cannot be empty")

	// ErrInvalidMatchStrength indicates an invalid MatchStrength value.
	ErrInvalidMatchStrength = errors.New("invalid match strength")

	// ErrInvalidField indicates an invalid Field value.
	ErrInvalidField = errors.New("invalid field")

	// ErrInvalidConfig indicates a configuration struct failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)
