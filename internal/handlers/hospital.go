// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetHospitalLists returns the hospital directory.
func (h *Handlers) GetHospitalLists(c echo.Context) error {
	list, err := h.hospitals.List()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
