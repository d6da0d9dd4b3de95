// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/vinovest/sqlx"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/models"
)

// GetVaccineRegistration retrieves a registration by hashed identity number.
func (r *Repository) GetVaccineRegistration(ctx context.Context, hashedIdentityNumber string) (*models.VaccineRegistration, error) {
	var reg models.VaccineRegistration
	err := r.db.GetContext(ctx, &reg,
		`SELECT * FROM vaccine_register WHERE hashed_identity_number = ?`, hashedIdentityNumber)
	if err != nil {
		return nil, wrapError(err)
	}
	return &reg, nil
}

// RegisterVaccineDoses stores doses for reg. If a registration with the same
// hashed identity number already exists, its dose list id is reused and only
// the doses are appended. reg.DoseListID is updated to the id in effect.
func (r *Repository) RegisterVaccineDoses(ctx context.Context, reg *models.VaccineRegistration, doses []models.VaccineDose) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		var existing string
		err := tx.GetContext(ctx, &existing,
			`SELECT dose_list_id FROM vaccine_register WHERE hashed_identity_number = ?`,
			reg.HashedIdentityNumber)
		switch wrapError(err) {
		case nil:
			reg.DoseListID = existing
		case ErrNotFound:
			res, insErr := tx.ExecContext(ctx,
				`INSERT INTO vaccine_register
				 (person_name, en_first_name, en_last_name, country_name, hashed_identity_number, dose_list_id)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				reg.PersonName, reg.EnFirstName, reg.EnLastName, reg.CountryName,
				reg.HashedIdentityNumber, reg.DoseListID)
			if insErr != nil {
				return insErr
			}
			if reg.ID, insErr = res.LastInsertId(); insErr != nil {
				return insErr
			}
		default:
			return err
		}

		for i := range doses {
			doses[i].DoseListID = reg.DoseListID
			res, insErr := tx.ExecContext(ctx,
				`INSERT INTO vaccine_dose_lists (manufacture_name, dose_number, vaccinate_date, dose_list_id)
				 VALUES (?, ?, ?, ?)`,
				doses[i].ManufactureName, doses[i].DoseNumber, doses[i].VaccinateDate, doses[i].DoseListID)
			if insErr != nil {
				return insErr
			}
			if doses[i].ID, insErr = res.LastInsertId(); insErr != nil {
				return insErr
			}
		}
		return nil
	})
}

// ListVaccineDoses returns the doses of a dose list in insertion order.
func (r *Repository) ListVaccineDoses(ctx context.Context, doseListID string) ([]models.VaccineDose, error) {
	var doses []models.VaccineDose
	err := r.db.SelectContext(ctx, &doses,
		`SELECT * FROM vaccine_dose_lists WHERE dose_list_id = ? ORDER BY id`, doseListID)
	if err != nil {
		return nil, err
	}
	return doses, nil
}
