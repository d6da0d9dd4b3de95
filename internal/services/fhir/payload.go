// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package fhir

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// DecodePayload base64-decodes a resource body and checks that it is JSON.
func DecodePayload(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if !json.Valid(raw) {
		return nil, ErrInvalidPayload
	}
	return raw, nil
}
