// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/fhir"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/hospital"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/passport"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/portal"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/vaccine"
)

// SystemName and Version are reported by the root endpoint.
const (
	SystemName = "hospital-system-server"
	Version    = "1.0"
)

// Services bundles the collaborators the handlers dispatch to.
type Services struct {
	Passport  *passport.Service
	FHIR      *fhir.Gateway
	Vaccine   *vaccine.Service
	Portal    *portal.Client
	Hospitals *hospital.Directory
	// BaseURL is the QR target used when a request carries no ip_address.
	BaseURL string
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	passport  *passport.Service
	fhir      *fhir.Gateway
	vaccine   *vaccine.Service
	portal    *portal.Client
	hospitals *hospital.Directory
	baseURL   string
}

// New creates a new Handlers instance.
func New(svc Services) *Handlers {
	return &Handlers{
		passport:  svc.Passport,
		fhir:      svc.FHIR,
		vaccine:   svc.Vaccine,
		portal:    svc.Portal,
		hospitals: svc.Hospitals,
		baseURL:   svc.BaseURL,
	}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Version reports the system name and API version.
func (h *Handlers) Version(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"system":  SystemName,
		"version": Version,
	})
}
