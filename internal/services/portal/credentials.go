// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package portal

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

// DefaultCredentialsFile is where portal credentials are read from by default.
const DefaultCredentialsFile = "./portal.toml"

// Credentials identify this business to the portal.
type Credentials struct {
	BusinessNo string `toml:"business_no"`
	HashKey    string `toml:"hash_key"`
	HashKeyNo  string `toml:"hash_key_no"`
}

// LoadCredentials reads a TOML credentials file.
func LoadCredentials(path string) (*Credentials, error) {
	var c Credentials
	if _, err := toml.DecodeFile(path, &c); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigMissing, path)
		}
		return nil, fmt.Errorf("parse portal credentials: %w", err)
	}
	if c.BusinessNo == "" || c.HashKey == "" || c.HashKeyNo == "" {
		return nil, fmt.Errorf("%w: %s is incomplete", ErrConfigMissing, path)
	}
	return &c, nil
}
