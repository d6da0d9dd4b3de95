// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/portal"
)

// LoginTWIDPortal starts a portal login for a member.
func (h *Handlers) LoginTWIDPortal(c echo.Context) error {
	var req portal.LoginInput
	if err := bind(c, &req); err != nil {
		return errorResponse(c, err)
	}
	if req.MemberNo == "" {
		return errorResponse(c, missingField("member_no"))
	}

	reply, err := h.portal.Login(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, reply)
}

// VerifyResult echoes the portal's verification callback as JSON.
func (h *Handlers) VerifyResult(c echo.Context) error {
	var res portal.VerifyResult
	if err := bind(c, &res); err != nil {
		return errorResponse(c, err)
	}

	switch {
	case res.VerifyNo == "":
		return errorResponse(c, missingField("VerifyNo"))
	case res.ReturnCode == "":
		return errorResponse(c, missingField("ReturnCode"))
	case res.IdentifyNo == "":
		return errorResponse(c, missingField("IdentifyNo"))
	}
	return c.JSON(http.StatusOK, res)
}
