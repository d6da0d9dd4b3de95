// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package fhir

// SetMaxResponseSize lowers the response cap for the duration of a test.
func SetMaxResponseSize(n int64) (restore func()) {
	prev := maxResponseSize
	maxResponseSize = n
	return func() { maxResponseSize = prev }
}
