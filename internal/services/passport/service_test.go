// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package passport_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/repository"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/passport"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/testutil"
)

func newTestService(t *testing.T) (*passport.Service, *repository.Repository, *fakeClock, *recordingEncoder) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	clock := newFakeClock(start)
	enc := &recordingEncoder{out: []byte("png")}
	svc := passport.NewService(
		passport.NewLifecycle(repo, passport.WithClock(clock.Now)),
		passport.NewQRIssuer(enc),
	)
	return svc, repo, clock, enc
}

func TestService_EndToEnd(t *testing.T) {
	svc, repo, clock, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Register(ctx, passport.RegisterInput{
		DoseCount:          2,
		LastOccurrenceDate: "2021-09-01",
		RawIdentifier:      "A123456789",
		RecordSourceID:     "imm-001",
	})
	require.NoError(t, err)

	found, err := repo.GetVerificationRecordByIdentifier(ctx, passport.HashIdentifier("A123456789"))
	require.NoError(t, err)
	assert.Equal(t, 2, found.DoseCount)

	oldToken := rec.Token
	require.NoError(t, svc.Validate(ctx, oldToken))

	clock.Advance(181 * time.Second)
	assert.ErrorIs(t, svc.Validate(ctx, oldToken), passport.ErrExpired)

	issued, err := svc.FetchOrRefresh(ctx, "A123456789", "http://10.0.0.5")
	require.NoError(t, err)
	assert.NotEqual(t, oldToken, issued.Token)

	assert.NoError(t, svc.Validate(ctx, issued.Token))
	assert.ErrorIs(t, svc.Validate(ctx, oldToken), passport.ErrNotFound)
}

func TestService_FetchOrRefresh_RendersCurrentToken(t *testing.T) {
	svc, repo, _, enc := newTestService(t)
	ctx := context.Background()
	rec := testutil.NewTestRecord(t, repo, passport.HashIdentifier("A123456789"), "token-1", start)

	issued, err := svc.FetchOrRefresh(ctx, "A123456789", "http://10.0.0.5")

	require.NoError(t, err)
	assert.Equal(t, rec.Token, issued.Token)
	assert.Equal(t, "cG5n", issued.Image) // base64("png")
	assert.Equal(t, "http://10.0.0.5/validate?token=token-1", enc.content)
}

func TestService_FetchOrRefresh_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.FetchOrRefresh(context.Background(), "nobody", "http://10.0.0.5")

	assert.ErrorIs(t, err, passport.ErrNotFound)
}

func TestService_IssueQR_DoesNotRefresh(t *testing.T) {
	svc, repo, clock, enc := newTestService(t)
	ctx := context.Background()
	digest := passport.HashIdentifier("A123456789")
	rec := testutil.NewTestRecord(t, repo, digest, "token-1", start)

	clock.Advance(time.Hour)
	issued, err := svc.IssueQR(ctx, "A123456789", "http://10.0.0.5")

	require.NoError(t, err)
	assert.Equal(t, rec.Token, issued.Token)
	assert.Equal(t, rec.IssuedAt, issued.IssuedAt)
	assert.Contains(t, enc.content, "token-1")

	stored, err := repo.GetVerificationRecordByIdentifier(ctx, digest)
	require.NoError(t, err)
	assert.Equal(t, rec, stored)
}

func TestService_IssueQR_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.IssueQR(context.Background(), "nobody", "http://10.0.0.5")

	assert.ErrorIs(t, err, passport.ErrNotFound)
}
