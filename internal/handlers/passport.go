// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/passport"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/templates"
)

// RecordRequest identifies a subject and the address QR codes should point at.
type RecordRequest struct {
	IdentifierNumber string `json:"identifier_number"`
	IPAddress        string `json:"ip_address"`
}

// InsertRecordRequest registers a new verification record.
type InsertRecordRequest struct {
	DoseCount          *int        `json:"dose_number_positive_int"`
	LastOccurrenceDate *dateString `json:"last_occurrence_date"`
	IdentifierNumber   string      `json:"identifier_number"`
	ImmunizationID     string      `json:"immunization_id"`
}

// TokenRequest carries a token to validate.
type TokenRequest struct {
	Token string `json:"token"`
}

// DatabaseRecordResponse is the GetDatabaseRecord reply. Its keys differ
// from the other passport routes and existing clients depend on them.
type DatabaseRecordResponse struct {
	DoseCount          int    `json:"DoseNumberPositiveInt"`
	LastOccurrenceDate string `json:"lastOccurrenceDate"`
	HashedIdentifier   string `json:"hashedIdentifierNumber"`
	IssuedAt           int64  `json:"createdTokenDateTime"`
	Token              string `json:"Token"`
	Image              string `json:"base64EncodedImage"`
}

// dateString accepts a JSON string or number.
type dateString string

func (d *dateString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = dateString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("last_occurrence_date must be a string or number: %w", err)
	}
	*d = dateString(n.String())
	return nil
}

// GetDatabaseRecord returns the subject's record and QR code, rotating an
// expired token first.
func (h *Handlers) GetDatabaseRecord(c echo.Context) error {
	req, address, err := h.bindRecordRequest(c)
	if err != nil {
		return errorResponse(c, err)
	}

	issued, err := h.passport.FetchOrRefresh(c.Request().Context(), req.IdentifierNumber, address)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, DatabaseRecordResponse{
		DoseCount:          issued.DoseCount,
		LastOccurrenceDate: issued.LastOccurrenceDate,
		HashedIdentifier:   issued.HashedIdentifier,
		IssuedAt:           issued.IssuedAt,
		Token:              issued.Token,
		Image:              issued.Image,
	})
}

// GenerateQRCode renders the stored token without rotating it.
func (h *Handlers) GenerateQRCode(c echo.Context) error {
	req, address, err := h.bindRecordRequest(c)
	if err != nil {
		return errorResponse(c, err)
	}

	issued, err := h.passport.IssueQR(c.Request().Context(), req.IdentifierNumber, address)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, issued)
}

// InsertDatabaseRecord registers a subject with a freshly minted token.
func (h *Handlers) InsertDatabaseRecord(c echo.Context) error {
	var req InsertRecordRequest
	if err := bind(c, &req); err != nil {
		return errorResponse(c, err)
	}

	switch {
	case req.DoseCount == nil:
		return errorResponse(c, missingField("dose_number_positive_int"))
	case req.LastOccurrenceDate == nil:
		return errorResponse(c, missingField("last_occurrence_date"))
	case req.IdentifierNumber == "":
		return errorResponse(c, missingField("identifier_number"))
	case req.ImmunizationID == "":
		return errorResponse(c, missingField("immunization_id"))
	}

	rec, err := h.passport.Register(c.Request().Context(), passport.RegisterInput{
		DoseCount:          *req.DoseCount,
		LastOccurrenceDate: string(*req.LastOccurrenceDate),
		RawIdentifier:      req.IdentifierNumber,
		RecordSourceID:     req.ImmunizationID,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	body := result(c, "record_inserted")
	body["token"] = rec.Token
	body["created_token_date_time"] = rec.IssuedAt
	return c.JSON(http.StatusOK, body)
}

// ValidateQRCode checks a token without side effects.
func (h *Handlers) ValidateQRCode(c echo.Context) error {
	var req TokenRequest
	if err := bind(c, &req); err != nil {
		return errorResponse(c, err)
	}
	if req.Token == "" {
		return errorResponse(c, missingField("token"))
	}

	if err := h.passport.Validate(c.Request().Context(), req.Token); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"validation_result": "Success"})
}

// ValidatePage is the HTML page a scanned QR code opens.
func (h *Handlers) ValidatePage(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return Render(c, http.StatusBadRequest, templates.Validation(templates.OutcomeMissing, nil))
	}

	rec, err := h.passport.Lifecycle().Validate(c.Request().Context(), token)
	switch {
	case err == nil:
		return Render(c, http.StatusOK, templates.Validation(templates.OutcomeSuccess, rec))
	case errors.Is(err, passport.ErrExpired):
		return Render(c, http.StatusGone, templates.Validation(templates.OutcomeExpired, rec))
	case errors.Is(err, passport.ErrNotFound):
		return Render(c, http.StatusGone, templates.Validation(templates.OutcomeNotFound, nil))
	default:
		return errorResponse(c, err)
	}
}

func (h *Handlers) bindRecordRequest(c echo.Context) (*RecordRequest, string, error) {
	var req RecordRequest
	if err := bind(c, &req); err != nil {
		return nil, "", err
	}
	if req.IdentifierNumber == "" {
		return nil, "", missingField("identifier_number")
	}

	address := req.IPAddress
	if address == "" {
		address = h.baseURL
	}
	if address == "" {
		return nil, "", missingField("ip_address")
	}
	return &req, address, nil
}
