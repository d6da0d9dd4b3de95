// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"github.com/labstack/echo/v4"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/handlers"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/fhir"
)

func setupRoutes(e *echo.Echo, h *handlers.Handlers) {
	e.GET("/", h.Version)
	e.GET("/health", h.Health)
	e.GET("/validate", h.ValidatePage)

	api := e.Group("/api")

	// FHIR backend setting
	api.POST("/fhir_server", h.SetFHIRServer)
	api.GET("/fhir_server", h.GetFHIRServer)

	// Patient
	api.GET("/QueryPatient/:id", h.ReadResource(fhir.Patient))
	api.POST("/SearchPatient", h.SearchResource(fhir.Patient))
	api.POST("/CreatePatient", h.CreateResource(fhir.Patient))
	api.PUT("/UpdatePatient", h.UpdatePatient)
	api.DELETE("/DeletePatient/:id", h.DeletePatient)
	api.GET("/PatientList", h.ListResource(fhir.Patient))

	// Other resources
	api.POST("/CreateOrganization", h.CreateResource(fhir.Organization))
	api.GET("/GetOrganization/:id", h.ReadResource(fhir.Organization))
	api.POST("/CreateImmunization", h.CreateResource(fhir.Immunization))
	api.GET("/GetImmunization/:id", h.ReadResource(fhir.Immunization))
	api.POST("/SearchImmunization", h.SearchResource(fhir.Immunization))
	api.GET("/GetComposition/:id", h.ReadResource(fhir.Composition))
	api.POST("/CreateComposition", h.CreateResource(fhir.Composition))
	api.GET("/GetObservationBundle/:id", h.ReadResource(fhir.Bundle))
	api.GET("/GetObservation/:id", h.ReadResource(fhir.Observation))
	api.POST("/CreateObservation", h.CreateResource(fhir.Observation))
	api.POST("/CreateBundle/:bundle_name", h.CreateBundle)

	api.GET("/GetHospitalLists", h.GetHospitalLists)

	// Verification passport
	api.POST("/GetDatabaseRecord", h.GetDatabaseRecord)
	api.POST("/InsertDatabaseRecord", h.InsertDatabaseRecord)
	api.POST("/GenerateQRCode", h.GenerateQRCode)
	api.POST("/ValidateQRCode", h.ValidateQRCode)

	api.POST("/RegisterVaccine", h.RegisterVaccine)

	// Identity portal
	api.POST("/VerifyResult", h.VerifyResult)
	api.POST("/LoginTWIDPortal", h.LoginTWIDPortal)
}
