// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/i18n"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/fhir"
)

// FHIRServerRequest configures the backend.
type FHIRServerRequest struct {
	Server string  `json:"fhir_server"`
	Token  *string `json:"fhir_token"`
}

// SearchRequest carries a raw FHIR search query.
type SearchRequest struct {
	SearchParams string `json:"search_params"`
}

// PayloadRequest carries a base64 encoded resource.
type PayloadRequest struct {
	JSONPayload string `json:"json_payload"`
	PatientID   string `json:"patient_id"`
}

// SetFHIRServer probes and saves the backend setting.
func (h *Handlers) SetFHIRServer(c echo.Context) error {
	var req FHIRServerRequest
	if err := bind(c, &req); err != nil {
		return errorResponse(c, err)
	}
	if req.Server == "" {
		return errorResponse(c, missingField("fhir_server"))
	}

	if err := h.fhir.Configure(c.Request().Context(), req.Server, req.Token); err != nil {
		return errorResponse(c, err)
	}

	body := result(c, "fhir_server_saved")
	body["fhir_server"] = req.Server
	if req.Token != nil {
		body["fhir_token"] = *req.Token
	}
	return c.JSON(http.StatusOK, body)
}

// GetFHIRServer returns the current backend setting.
func (h *Handlers) GetFHIRServer(c echo.Context) error {
	s, err := h.fhir.Setting(c.Request().Context())
	if errors.Is(err, fhir.ErrNotConfigured) {
		return c.JSON(http.StatusGone, ErrorResponse{Error: err.Error(), Kind: KindNotConfigured})
	}
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"result":      i18n.T(c.Request().Context(), "fhir_server_loaded"),
		"fhir_server": s.Server,
		"fhir_token":  s.Token,
	})
}

// ReadResource forwards a read of resourceType by the :id path parameter.
func (h *Handlers) ReadResource(resourceType string) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp, err := h.fhir.Read(c.Request().Context(), resourceType, c.Param("id"))
		if err != nil {
			return errorResponse(c, err)
		}
		return relay(c, resp)
	}
}

// SearchResource forwards a search over resourceType.
func (h *Handlers) SearchResource(resourceType string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req SearchRequest
		if err := bind(c, &req); err != nil {
			return errorResponse(c, err)
		}
		if req.SearchParams == "" {
			return errorResponse(c, missingField("search_params"))
		}

		resp, err := h.fhir.Search(c.Request().Context(), resourceType, req.SearchParams)
		if err != nil {
			return errorResponse(c, err)
		}
		return relay(c, resp)
	}
}

// ListResource forwards an unfiltered search over resourceType.
func (h *Handlers) ListResource(resourceType string) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp, err := h.fhir.List(c.Request().Context(), resourceType)
		if err != nil {
			return errorResponse(c, err)
		}
		return relay(c, resp)
	}
}

// CreateResource forwards a new resource of resourceType.
func (h *Handlers) CreateResource(resourceType string) echo.HandlerFunc {
	return func(c echo.Context) error {
		payload, err := decodePayload(c)
		if err != nil {
			return errorResponse(c, err)
		}

		resp, err := h.fhir.Create(c.Request().Context(), resourceType, payload.raw)
		if err != nil {
			return errorResponse(c, err)
		}
		return relay(c, resp)
	}
}

// UpdatePatient replaces the patient named by patient_id.
func (h *Handlers) UpdatePatient(c echo.Context) error {
	payload, err := decodePayload(c)
	if err != nil {
		return errorResponse(c, err)
	}
	if payload.req.PatientID == "" {
		return errorResponse(c, missingField("patient_id"))
	}

	resp, err := h.fhir.Update(c.Request().Context(), fhir.Patient, payload.req.PatientID, payload.raw)
	if err != nil {
		return errorResponse(c, err)
	}
	return relay(c, resp)
}

// DeletePatient deletes the patient named by :id.
func (h *Handlers) DeletePatient(c echo.Context) error {
	resp, err := h.fhir.Delete(c.Request().Context(), fhir.Patient, c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return relay(c, resp)
}

// CreateBundle forwards a bundle named by :bundle_name.
func (h *Handlers) CreateBundle(c echo.Context) error {
	payload, err := decodePayload(c)
	if err != nil {
		return errorResponse(c, err)
	}

	resp, err := h.fhir.CreateBundle(c.Request().Context(), c.Param("bundle_name"), payload.raw)
	if err != nil {
		return errorResponse(c, err)
	}
	return relay(c, resp)
}

type decodedPayload struct {
	req PayloadRequest
	raw []byte
}

func decodePayload(c echo.Context) (*decodedPayload, error) {
	var req PayloadRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	if req.JSONPayload == "" {
		return nil, missingField("json_payload")
	}

	raw, err := fhir.DecodePayload(req.JSONPayload)
	if err != nil {
		return nil, err
	}
	return &decodedPayload{req: req, raw: raw}, nil
}
