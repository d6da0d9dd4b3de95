// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package passport

import "errors"

var (
	// ErrNotFound is returned when no record exists for an identifier or token.
	ErrNotFound = errors.New("passport record not found")
	// ErrExpired is returned when a token exists but is past the validity window.
	ErrExpired = errors.New("passport token expired")
	// ErrInvalidDoseCount is returned when a dose count is below one.
	ErrInvalidDoseCount = errors.New("dose_number_positive_int must be a positive integer")
	// ErrEncoderFailed wraps failures of the QR code encoder.
	ErrEncoderFailed = errors.New("qr code encoder failed")
)
