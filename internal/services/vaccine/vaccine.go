// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package vaccine registers vaccinated persons and their doses.
package vaccine

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/models"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/passport"
)

// ErrInvalidDoseList is returned when the dose list is not base64 encoded JSON.
var ErrInvalidDoseList = errors.New("doseInputList field value is invalid")

// Store persists registrations.
type Store interface {
	RegisterVaccineDoses(ctx context.Context, reg *models.VaccineRegistration, doses []models.VaccineDose) error
}

// RegisterInput is a registration request. DoseInputList is base64 encoded JSON.
type RegisterInput struct {
	PersonName     string
	EnFirstName    *string
	EnLastName     *string
	CountryName    *string
	IdentityNumber string
	DoseInputList  string
}

// doseInput is one entry of the decoded dose list.
type doseInput struct {
	ManufactureName string `json:"doseManufactureName"`
	DoseNumber      int    `json:"doseNumber"`
	VaccinateDate   string `json:"vaccinateDateStr"`
}

// Service handles vaccine registrations.
type Service struct {
	store Store
}

// NewService creates a new vaccine service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register stores the doses in in. A person already on file keeps their
// dose list and the new doses are appended to it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.VaccineRegistration, error) {
	doses, err := DecodeDoseList(in.DoseInputList)
	if err != nil {
		return nil, err
	}

	reg := &models.VaccineRegistration{
		PersonName:           in.PersonName,
		EnFirstName:          in.EnFirstName,
		EnLastName:           in.EnLastName,
		CountryName:          in.CountryName,
		HashedIdentityNumber: passport.HashIdentifier(in.IdentityNumber),
		DoseListID:           uuid.NewString(),
	}
	if err := s.store.RegisterVaccineDoses(ctx, reg, doses); err != nil {
		return nil, fmt.Errorf("register vaccine doses: %w", err)
	}

	slog.InfoContext(ctx, "vaccine doses registered", "dose_list_id", reg.DoseListID, "doses", len(doses))
	return reg, nil
}

// DecodeDoseList decodes a base64 encoded JSON array of doses.
func DecodeDoseList(encoded string) ([]models.VaccineDose, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDoseList, err)
	}

	var inputs []doseInput
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDoseList, err)
	}

	doses := make([]models.VaccineDose, 0, len(inputs))
	for _, d := range inputs {
		doses = append(doses, models.VaccineDose{
			ManufactureName: d.ManufactureName,
			DoseNumber:      d.DoseNumber,
			VaccinateDate:   d.VaccinateDate,
		})
	}
	return doses, nil
}
