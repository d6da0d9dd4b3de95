// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

// Outcome of a token validation shown on the landing page.
type Outcome string

// Validation outcomes.
const (
	OutcomeSuccess  Outcome = "success"
	OutcomeExpired  Outcome = "expired"
	OutcomeNotFound Outcome = "not_found"
	OutcomeMissing  Outcome = "missing"
)

var outcomeMessages = map[Outcome]string{
	OutcomeSuccess:  "validation_success",
	OutcomeExpired:  "validation_expired",
	OutcomeNotFound: "validation_not_found",
	OutcomeMissing:  "validation_missing_token",
}
