// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package hospital serves the list of known hospitals from a CSV file.
package hospital

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultPath is the CSV read when no path is configured.
const DefaultPath = "./hospital.csv"

// List holds hospitals as two parallel columns.
type List struct {
	Names   []string `json:"hospital_name"`
	Numbers []string `json:"hospital_number"`
}

// Directory reads the hospital CSV on demand, so edits apply without a restart.
type Directory struct {
	path string
}

// NewDirectory creates a Directory for path.
func NewDirectory(path string) *Directory {
	if path == "" {
		path = DefaultPath
	}
	return &Directory{path: path}
}

// List loads the current hospital list.
func (d *Directory) List() (*List, error) {
	return Load(d.path)
}

// Load reads a CSV with a header row followed by "number,name" rows.
func Load(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hospital list: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Parse(f)
}

// Parse reads hospital rows from r. A byte order mark selects UTF-8 or UTF-16.
func Parse(r io.Reader) (*List, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.FieldsPerRecord = -1

	list := &List{Names: []string{}, Numbers: []string{}}
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return list, nil
		}
		return nil, fmt.Errorf("read hospital list header: %w", err)
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return list, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read hospital list: %w", err)
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("read hospital list: line %d has %d fields", len(list.Numbers)+2, len(record))
		}
		list.Numbers = append(list.Numbers, strings.TrimSpace(record[0]))
		list.Names = append(list.Names, strings.TrimSpace(record[1]))
	}
}
