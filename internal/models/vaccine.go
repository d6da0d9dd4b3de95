// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// VaccineRegistration is a registered person. Doses hang off DoseListID.
type VaccineRegistration struct { //nolint:govet // fieldalignment: readability over optimization
	ID                   int64     `db:"id" json:"id"`
	PersonName           string    `db:"person_name" json:"vaccine_person_name"`
	EnFirstName          *string   `db:"en_first_name" json:"vaccine_person_en_first_name,omitempty"`
	EnLastName           *string   `db:"en_last_name" json:"vaccine_person_en_last_name,omitempty"`
	CountryName          *string   `db:"country_name" json:"country_name,omitempty"`
	HashedIdentityNumber string    `db:"hashed_identity_number" json:"-"`
	DoseListID           string    `db:"dose_list_id" json:"dose_list_id"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// VaccineDose is one administered dose.
type VaccineDose struct {
	ID              int64  `db:"id" json:"id"`
	ManufactureName string `db:"manufacture_name" json:"dose_manufacture_name"`
	DoseNumber      int    `db:"dose_number" json:"dose_number"`
	VaccinateDate   string `db:"vaccinate_date" json:"vaccinate_date"`
	DoseListID      string `db:"dose_list_id" json:"dose_list_id"`
}
