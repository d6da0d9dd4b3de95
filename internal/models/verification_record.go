// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

// VerificationRecord is a passport token bound to a hashed personal identifier.
// At most one record per HashedIdentifier is live; a new write supersedes it.
type VerificationRecord struct { //nolint:govet // fieldalignment: readability over optimization
	ID                 int64  `db:"id" json:"-"`
	DoseCount          int    `db:"dose_count" json:"dose_number_positive_int"`
	LastOccurrenceDate string `db:"last_occurrence_date" json:"last_occurrence_date"`
	HashedIdentifier   string `db:"hashed_identifier" json:"hashed_identifier_number"`
	IssuedAt           int64  `db:"issued_at" json:"created_token_date_time"` // Unix seconds
	Token              string `db:"token" json:"token"`
}
