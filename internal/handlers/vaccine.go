// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/vaccine"
)

// VaccineRegisterRequest registers a person and their doses.
type VaccineRegisterRequest struct {
	PersonName     string  `json:"vaccinePersonName"`
	EnFirstName    *string `json:"vaccinePersonEnFirstName"`
	EnLastName     *string `json:"vaccinePersonEnLastName"`
	CountryName    *string `json:"countryName"`
	IdentityNumber string  `json:"identityNumber"`
	DoseInputList  string  `json:"doseInputList"`
}

// RegisterVaccine stores a vaccine registration.
func (h *Handlers) RegisterVaccine(c echo.Context) error {
	var req VaccineRegisterRequest
	if err := bind(c, &req); err != nil {
		return errorResponse(c, err)
	}

	switch {
	case req.PersonName == "":
		return errorResponse(c, missingField("vaccinePersonName"))
	case req.IdentityNumber == "":
		return errorResponse(c, missingField("identityNumber"))
	case req.DoseInputList == "":
		return errorResponse(c, missingField("doseInputList"))
	}

	reg, err := h.vaccine.Register(c.Request().Context(), vaccine.RegisterInput{
		PersonName:     req.PersonName,
		EnFirstName:    req.EnFirstName,
		EnLastName:     req.EnLastName,
		CountryName:    req.CountryName,
		IdentityNumber: req.IdentityNumber,
		DoseInputList:  req.DoseInputList,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	body := result(c, "vaccine_registered")
	body["dose_list_id"] = reg.DoseListID
	return c.JSON(http.StatusOK, body)
}
