// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package passport

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// DigestLength is the length of a hex digest produced by HashIdentifier.
const DigestLength = 96

// HashIdentifier maps a raw personal identifier to its SHA3-384 lowercase hex digest.
func HashIdentifier(raw string) string {
	sum := sha3.Sum384([]byte(raw))
	return hex.EncodeToString(sum[:])
}
