// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/fhir"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/passport"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/portal"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/vaccine"
)

var (
	// ErrMissingField is returned when a required request field is absent.
	ErrMissingField = errors.New("field is missed")
	// ErrInvalidBody is returned when the request body cannot be decoded.
	ErrInvalidBody = errors.New("invalid request body")
)

// Error kinds reported in the "kind" member of error bodies.
const (
	KindMissingField       = "missing_field"
	KindInvalidPayload     = "invalid_payload"
	KindNotFound           = "not_found"
	KindExpired            = "expired"
	KindBackendUnavailable = "backend_unavailable"
	KindNotConfigured      = "not_configured"
	KindInvalidRequest     = "invalid_request"
	KindInternal           = "internal"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func missingField(name string) error {
	return fmt.Errorf("%s %w", name, ErrMissingField)
}

// classify maps an error to its HTTP status and kind.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMissingField):
		return http.StatusBadRequest, KindMissingField
	case errors.Is(err, fhir.ErrInvalidPayload),
		errors.Is(err, fhir.ErrInvalidQuery),
		errors.Is(err, vaccine.ErrInvalidDoseList),
		errors.Is(err, passport.ErrInvalidDoseCount):
		return http.StatusUnprocessableEntity, KindInvalidPayload
	case errors.Is(err, passport.ErrExpired):
		return http.StatusGone, KindExpired
	case errors.Is(err, passport.ErrNotFound):
		return http.StatusGone, KindNotFound
	case errors.Is(err, fhir.ErrNotConfigured), errors.Is(err, portal.ErrConfigMissing):
		return http.StatusBadRequest, KindNotConfigured
	case errors.Is(err, ErrInvalidBody), errors.Is(err, fhir.ErrInvalidServer):
		return http.StatusBadRequest, KindInvalidRequest
	case errors.Is(err, fhir.ErrBackendUnavailable),
		errors.Is(err, portal.ErrPortalUnavailable),
		errors.Is(err, passport.ErrEncoderFailed):
		return http.StatusBadGateway, KindBackendUnavailable
	default:
		return http.StatusInternalServerError, KindInternal
	}
}

// errorResponse writes err as a JSON error body.
func errorResponse(c echo.Context, err error) error {
	code, kind := classify(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "request failed", "error", err, "path", c.Path())
		msg = http.StatusText(code)
	}
	return c.JSON(code, ErrorResponse{Error: msg, Kind: kind})
}

// HTTPErrorHandler renders errors escaping handlers, such as unknown routes or
// oversized bodies, in the same JSON shape.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		kind := KindInvalidRequest
		switch {
		case he.Code == http.StatusNotFound:
			kind = KindNotFound
		case he.Code >= http.StatusInternalServerError:
			kind = KindInternal
		}
		_ = c.JSON(he.Code, ErrorResponse{Error: fmt.Sprint(he.Message), Kind: kind})
		return
	}

	_ = errorResponse(c, err)
}
