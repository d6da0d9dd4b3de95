// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"fmt"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/i18n"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/fhir"
)

// Render renders a templ component with the given status code.
func Render(c echo.Context, statusCode int, component templ.Component) error {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := component.Render(c.Request().Context(), buf); err != nil {
		return err
	}

	return c.HTML(statusCode, buf.String())
}

// relay writes a FHIR backend reply with its original status and body.
func relay(c echo.Context, resp *fhir.Response) error {
	contentType := resp.ContentType
	if contentType == "" {
		contentType = fhir.MIMEFHIRJSON
	}
	if len(resp.Body) == 0 {
		return c.NoContent(resp.StatusCode)
	}
	return c.Blob(resp.StatusCode, contentType, resp.Body)
}

// bind decodes the request body into v.
func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return nil
}

// result builds a localized {"result": ...} body.
func result(c echo.Context, messageID string) map[string]any {
	return map[string]any{"result": i18n.T(c.Request().Context(), messageID)}
}
