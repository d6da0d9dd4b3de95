// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package i18n_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/i18n"
	"golang.org/x/text/language"
)

func TestInit(t *testing.T) {
	err := i18n.Init()
	require.NoError(t, err)
}

func TestT(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	assert.Equal(t, "Success", i18n.T(ctx, "validation_success"))
}

func TestT_TraditionalChinese(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), i18n.TraditionalChinese)

	assert.Equal(t, "成功註冊疫苗紀錄！", i18n.T(ctx, "vaccine_registered"))
}

func TestT_UnknownKey(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	// Should return the key itself for unknown messages
	result := i18n.T(ctx, "unknown_key_that_does_not_exist")
	assert.Equal(t, "unknown_key_that_does_not_exist", result)
}

func TestT_NoLocaleContext(t *testing.T) {
	require.NoError(t, i18n.Init())

	assert.Equal(t, "Token is expired.", i18n.T(context.Background(), "validation_expired"))
}

func TestTData(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	result := i18n.TData(ctx, "validation_last_dose", map[string]any{"Date": "2021-09-01"})
	assert.Equal(t, "Last dose on 2021-09-01", result)
}

func TestTPlural(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	assert.Equal(t, "1 dose received", i18n.TPlural(ctx, "validation_doses", 1))
	assert.Equal(t, "2 doses received", i18n.TPlural(ctx, "validation_doses", 2))

	ctx = i18n.WithLocale(context.Background(), i18n.TraditionalChinese)
	assert.Equal(t, "已接種 2 劑", i18n.TPlural(ctx, "validation_doses", 2))
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		expected       language.Tag
		acceptLanguage string
	}{
		{language.English, "en"},
		{language.English, "en-US"},
		{i18n.TraditionalChinese, "zh-TW"},
		{i18n.TraditionalChinese, "zh-Hant"},
		{i18n.TraditionalChinese, "zh-TW,zh;q=0.9,en-US;q=0.8"},
		{language.English, "fr"}, // fallback to English
		{language.English, ""},   // empty defaults to English
		{language.English, "en, zh-TW;q=0.9"},
		{language.English, ";;;garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.acceptLanguage, func(t *testing.T) {
			assert.Equal(t, tt.expected, i18n.MatchLanguage(tt.acceptLanguage))
		})
	}
}

func TestWithLocale(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), i18n.TraditionalChinese)

	assert.Equal(t, "zh-TW", i18n.GetLocale(ctx))
}

func TestGetLocale_Default(t *testing.T) {
	ctx := context.Background()

	// Without WithLocale, should return "en"
	assert.Equal(t, "en", i18n.GetLocale(ctx))
}
