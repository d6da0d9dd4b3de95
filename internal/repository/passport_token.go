// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/vinovest/sqlx"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/models"
)

const verificationRecordColumns = `id, dose_count, last_occurrence_date, hashed_identifier, issued_at, token`

// UpsertVerificationRecord supersedes any record for rec.HashedIdentifier with rec.
// Delete and insert share one transaction, so readers never see zero or two rows.
func (r *Repository) UpsertVerificationRecord(ctx context.Context, rec *models.VerificationRecord) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM passport_token WHERE hashed_identifier = ?`,
			rec.HashedIdentifier); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO passport_token (dose_count, last_occurrence_date, hashed_identifier, issued_at, token)
			 VALUES (?, ?, ?, ?, ?)`,
			rec.DoseCount, rec.LastOccurrenceDate, rec.HashedIdentifier, rec.IssuedAt, rec.Token)
		if err != nil {
			return err
		}

		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		rec.ID = id
		return nil
	})
}

// GetVerificationRecordByIdentifier returns the newest record for a hashed identifier.
func (r *Repository) GetVerificationRecordByIdentifier(ctx context.Context, hashedIdentifier string) (*models.VerificationRecord, error) {
	var rec models.VerificationRecord
	err := r.db.GetContext(ctx, &rec,
		`SELECT `+verificationRecordColumns+` FROM passport_token
		 WHERE hashed_identifier = ? ORDER BY id DESC LIMIT 1`,
		hashedIdentifier)
	if err != nil {
		return nil, wrapError(err)
	}
	return &rec, nil
}

// GetVerificationRecordByToken returns the newest record bearing token.
func (r *Repository) GetVerificationRecordByToken(ctx context.Context, token string) (*models.VerificationRecord, error) {
	var rec models.VerificationRecord
	err := r.db.GetContext(ctx, &rec,
		`SELECT `+verificationRecordColumns+` FROM passport_token
		 WHERE token = ? ORDER BY id DESC LIMIT 1`,
		token)
	if err != nil {
		return nil, wrapError(err)
	}
	return &rec, nil
}

// CountVerificationRecords returns the number of rows stored for a hashed identifier.
func (r *Repository) CountVerificationRecords(ctx context.Context, hashedIdentifier string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM passport_token WHERE hashed_identifier = ?`, hashedIdentifier)
	return count, err
}
