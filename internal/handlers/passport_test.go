// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/handlers"
)

const insertBody = `{"dose_number_positive_int":2,"last_occurrence_date":"2021-09-01",` +
	`"identifier_number":"A123456789","immunization_id":"imm-001"}`

func (f *fixture) insert(t *testing.T) string {
	t.Helper()
	rec := f.do(http.MethodPost, "/api/InsertDatabaseRecord", insertBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, ok := decode(t, rec)["token"].(string)
	require.True(t, ok)
	return token
}

func TestInsertDatabaseRecord(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/InsertDatabaseRecord", insertBody)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "inserting immunization record is done!", body["result"])
	assert.NotEmpty(t, body["token"])
	assert.InDelta(t, float64(start), body["created_token_date_time"], 0)
}

func TestInsertDatabaseRecord_NumericDate(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/InsertDatabaseRecord",
		`{"dose_number_positive_int":1,"last_occurrence_date":20210901,"identifier_number":"B1","immunization_id":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, "/api/GetDatabaseRecord", `{"identifier_number":"B1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "20210901", decode(t, rec)["lastOccurrenceDate"])
}

func TestInsertDatabaseRecord_MissingFields(t *testing.T) {
	f := newFixture(t)

	tests := map[string]string{
		"dose count":  `{"last_occurrence_date":"2021-09-01","identifier_number":"A1","immunization_id":"x"}`,
		"date":        `{"dose_number_positive_int":2,"identifier_number":"A1","immunization_id":"x"}`,
		"identifier":  `{"dose_number_positive_int":2,"last_occurrence_date":"2021-09-01","immunization_id":"x"}`,
		"source":      `{"dose_number_positive_int":2,"last_occurrence_date":"2021-09-01","identifier_number":"A1"}`,
		"bad date":    `{"dose_number_positive_int":2,"last_occurrence_date":true,"identifier_number":"A1","immunization_id":"x"}`,
		"empty":       `{}`,
		"wrong types": `{"dose_number_positive_int":"two"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/api/InsertDatabaseRecord", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestInsertDatabaseRecord_NonPositiveDoseCount(t *testing.T) {
	f := newFixture(t)

	for _, count := range []int{0, -3} {
		t.Run(fmt.Sprint(count), func(t *testing.T) {
			rec := f.do(http.MethodPost, "/api/InsertDatabaseRecord", fmt.Sprintf(
				`{"dose_number_positive_int":%d,"last_occurrence_date":"2021-09-01","identifier_number":"C1","immunization_id":"x"}`, count))

			assertError(t, rec, http.StatusUnprocessableEntity, handlers.KindInvalidPayload)
			assert.NotContains(t, rec.Body.String(), "token")
		})
	}

	rec := f.do(http.MethodPost, "/api/GetDatabaseRecord", `{"identifier_number":"C1"}`)
	assertError(t, rec, http.StatusGone, handlers.KindNotFound)
}

func TestGetDatabaseRecord(t *testing.T) {
	f := newFixture(t)
	token := f.insert(t)

	rec := f.do(http.MethodPost, "/api/GetDatabaseRecord",
		`{"identifier_number":"A123456789","ip_address":"http://10.0.0.5:8000"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, token, body["Token"])
	assert.Equal(t, "cG5n", body["base64EncodedImage"])
	assert.Len(t, body["hashedIdentifierNumber"], 96)
	assert.InDelta(t, float64(2), body["DoseNumberPositiveInt"], 0)
	assert.Equal(t, "2021-09-01", body["lastOccurrenceDate"])
	assert.InDelta(t, float64(start), body["createdTokenDateTime"], 0)
	assert.Len(t, body, 6)
	assert.Equal(t, "http://10.0.0.5:8000/validate?token="+token, f.encoder.last())
}

func TestGetDatabaseRecord_DefaultsToBaseURL(t *testing.T) {
	f := newFixture(t)
	token := f.insert(t)

	rec := f.do(http.MethodPost, "/api/GetDatabaseRecord", `{"identifier_number":"A123456789"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://gateway.example/validate?token="+token, f.encoder.last())
}

func TestGetDatabaseRecord_RefreshesExpiredToken(t *testing.T) {
	f := newFixture(t)
	old := f.insert(t)
	f.now = start + 181

	rec := f.do(http.MethodPost, "/api/GetDatabaseRecord", `{"identifier_number":"A123456789"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.NotEqual(t, old, body["Token"])
	assert.InDelta(t, float64(start+181), body["createdTokenDateTime"], 0)
}

func TestGetDatabaseRecord_NotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/GetDatabaseRecord", `{"identifier_number":"nobody"}`)

	assertError(t, rec, http.StatusGone, handlers.KindNotFound)
}

func TestGetDatabaseRecord_MissingIdentifier(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/GetDatabaseRecord", `{"ip_address":"http://10.0.0.5"}`)

	assertError(t, rec, http.StatusBadRequest, handlers.KindMissingField)
}

func TestGetDatabaseRecord_EncoderFailure(t *testing.T) {
	f := newFixture(t)
	f.insert(t)
	f.encoder.err = errors.New("too long")

	rec := f.do(http.MethodPost, "/api/GetDatabaseRecord", `{"identifier_number":"A123456789"}`)

	assertError(t, rec, http.StatusBadGateway, handlers.KindBackendUnavailable)
}

func TestGenerateQRCode_DoesNotRefresh(t *testing.T) {
	f := newFixture(t)
	token := f.insert(t)
	f.now = start + 600

	rec := f.do(http.MethodPost, "/api/GenerateQRCode", `{"identifier_number":"A123456789"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, token, body["token"])
	assert.Equal(t, "cG5n", body["base64_encoded_image"])
	assert.Contains(t, body, "dose_number_positive_int")
}

func TestValidateQRCode(t *testing.T) {
	f := newFixture(t)
	token := f.insert(t)

	t.Run("success", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/ValidateQRCode", fmt.Sprintf(`{"token":%q}`, token))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"validation_result":"Success"}`, rec.Body.String())
	})

	t.Run("unknown", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/ValidateQRCode", `{"token":"deadbeef"}`)

		assertError(t, rec, http.StatusGone, handlers.KindNotFound)
	})

	t.Run("missing", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/ValidateQRCode", `{}`)

		assertError(t, rec, http.StatusBadRequest, handlers.KindMissingField)
	})

	t.Run("expired", func(t *testing.T) {
		f.now = start + 181

		rec := f.do(http.MethodPost, "/api/ValidateQRCode", fmt.Sprintf(`{"token":%q}`, token))

		assertError(t, rec, http.StatusGone, handlers.KindExpired)
	})
}

func TestValidatePage(t *testing.T) {
	f := newFixture(t)
	token := f.insert(t)

	t.Run("success", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/validate?token="+token, "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<!doctype html>")
		assert.Contains(t, rec.Body.String(), "2 doses received")
		assert.Contains(t, rec.Body.String(), "Last dose on 2021-09-01")
	})

	t.Run("missing token", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/validate", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "No token was supplied.")
	})

	t.Run("unknown token", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/validate?token=deadbeef", "")

		assert.Equal(t, http.StatusGone, rec.Code)
		assert.Contains(t, rec.Body.String(), "No record found for this token.")
	})

	t.Run("expired", func(t *testing.T) {
		f.now = start + 181

		rec := f.do(http.MethodGet, "/validate?token="+token, "")

		assert.Equal(t, http.StatusGone, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token is expired.")
		assert.NotContains(t, rec.Body.String(), "doses received")
	})
}
