// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/database"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/models"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/repository"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	return openTestDB(t, ":memory:")
}

// NewFileTestDB creates a file-backed SQLite database in a temp dir.
// Use it when a test needs more than one connection, e.g. concurrent writers.
func NewFileTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	return openTestDB(t, filepath.Join(t.TempDir(), "test.db"))
}

func openTestDB(t *testing.T, dsn string) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, repository.New(db)
}

// NewTestRecord stores a verification record and returns it.
func NewTestRecord(t *testing.T, repo *repository.Repository, hashedIdentifier, token string, issuedAt int64) *models.VerificationRecord {
	t.Helper()
	rec := &models.VerificationRecord{
		DoseCount:          2,
		LastOccurrenceDate: "2021-09-01",
		HashedIdentifier:   hashedIdentifier,
		IssuedAt:           issuedAt,
		Token:              token,
	}
	require.NoError(t, repo.UpsertVerificationRecord(context.Background(), rec))
	return rec
}

// NewTestFHIRServer configures the FHIR server setting.
func NewTestFHIRServer(t *testing.T, repo *repository.Repository, server string, token *string) {
	t.Helper()
	require.NoError(t, repo.SaveFHIRServer(context.Background(), server, token))
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}
