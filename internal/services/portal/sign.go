// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package portal

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// IdentifyNo signs plain as hex(SHA-256(UTF-16LE(plain))).
func IdentifyNo(plain string) (string, error) {
	encoded, err := utf16le.NewEncoder().String(plain)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(encoded))
	return hex.EncodeToString(sum[:]), nil
}
