// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/i18n"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/models"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/templates"
	"golang.org/x/text/language"
)

func render(t *testing.T, ctx context.Context, outcome templates.Outcome, rec *models.VerificationRecord) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, templates.Validation(outcome, rec).Render(ctx, &buf))
	return buf.String()
}

func TestValidation_Success(t *testing.T) {
	require.NoError(t, i18n.Init())
	ctx := i18n.WithLocale(context.Background(), language.English)
	rec := &models.VerificationRecord{DoseCount: 2, LastOccurrenceDate: "2021-09-01"}

	html := render(t, ctx, templates.OutcomeSuccess, rec)

	assert.Contains(t, html, "<!doctype html>")
	assert.Contains(t, html, `lang="en"`)
	assert.Contains(t, html, `<p class="result result-success">Success</p>`)
	assert.Contains(t, html, "2 doses received")
	assert.Contains(t, html, "Last dose on 2021-09-01")
}

func TestValidation_Expired(t *testing.T) {
	require.NoError(t, i18n.Init())
	ctx := i18n.WithLocale(context.Background(), i18n.TraditionalChinese)
	rec := &models.VerificationRecord{DoseCount: 2, LastOccurrenceDate: "2021-09-01"}

	html := render(t, ctx, templates.OutcomeExpired, rec)

	assert.Contains(t, html, `lang="zh-TW"`)
	assert.Contains(t, html, "憑證已過期。")
	assert.NotContains(t, html, "2021-09-01")
}

func TestValidation_EscapesRecordFields(t *testing.T) {
	require.NoError(t, i18n.Init())
	ctx := i18n.WithLocale(context.Background(), language.English)
	rec := &models.VerificationRecord{DoseCount: 1, LastOccurrenceDate: "<script>"}

	html := render(t, ctx, templates.OutcomeSuccess, rec)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestValidation_MissingToken(t *testing.T) {
	require.NoError(t, i18n.Init())
	ctx := i18n.WithLocale(context.Background(), language.English)

	html := render(t, ctx, templates.OutcomeMissing, nil)

	assert.Contains(t, html, `<p class="result result-missing">No token was supplied.</p>`)
	assert.NotContains(t, html, "<ul>")
}

func TestValidation_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := templates.Validation(templates.OutcomeSuccess, nil).Render(ctx, &buf)

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}
