// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// FHIRServer is the configured backend endpoint. Only the latest row counts.
type FHIRServer struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64     `db:"id" json:"-"`
	Server    string    `db:"server" json:"fhir_server"`
	Token     *string   `db:"token" json:"fhir_token"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// HasToken reports whether requests to the server need a bearer token.
func (s *FHIRServer) HasToken() bool {
	return s.Token != nil && *s.Token != ""
}
