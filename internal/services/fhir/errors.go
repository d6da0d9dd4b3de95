// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package fhir

import "errors"

var (
	// ErrNotConfigured is returned when no FHIR server has been saved yet.
	ErrNotConfigured = errors.New("FHIR server setting is not found")
	// ErrInvalidServer is returned when a server address cannot be reached.
	ErrInvalidServer = errors.New("fhir_server field value is invalid")
	// ErrBackendUnavailable wraps transport failures talking to the FHIR server.
	ErrBackendUnavailable = errors.New("FHIR server is unavailable")
	// ErrInvalidPayload is returned for payloads that are not base64 encoded JSON.
	ErrInvalidPayload = errors.New("json_payload field value is invalid")
	// ErrInvalidQuery is returned for search parameters that cannot be decoded.
	ErrInvalidQuery = errors.New("search_params field value is invalid")
)
