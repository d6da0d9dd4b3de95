// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/vinovest/sqlx"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/models"
)

// SaveFHIRServer replaces the configured FHIR server. token may be nil.
func (r *Repository) SaveFHIRServer(ctx context.Context, server string, token *string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM fhir_server`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO fhir_server (server, token) VALUES (?, ?)`,
			server, token)
		return err
	})
}

// GetFHIRServer returns the most recently saved FHIR server.
func (r *Repository) GetFHIRServer(ctx context.Context) (*models.FHIRServer, error) {
	var s models.FHIRServer
	err := r.db.GetContext(ctx, &s,
		`SELECT id, server, token, created_at FROM fhir_server ORDER BY id DESC LIMIT 1`)
	if err != nil {
		return nil, wrapError(err)
	}
	return &s, nil
}
