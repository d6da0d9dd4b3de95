// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package passport_test

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/passport"
)

// recordingEncoder captures the content it was asked to encode.
type recordingEncoder struct {
	content string
	out     []byte
	err     error
}

func (e *recordingEncoder) Encode(content string) ([]byte, error) {
	e.content = content
	return e.out, e.err
}

func TestValidationURL(t *testing.T) {
	assert.Equal(t,
		"http://10.0.0.5:8080/validate?token=abc123",
		passport.ValidationURL("http://10.0.0.5:8080", "abc123"))
}

func TestQRIssuer_Issue(t *testing.T) {
	enc := &recordingEncoder{out: []byte("image-bytes")}
	q := passport.NewQRIssuer(enc)

	img, err := q.Issue("http://10.0.0.5", "abc123")

	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5/validate?token=abc123", enc.content)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("image-bytes")), img)
}

func TestQRIssuer_MalformedAddressPassedThrough(t *testing.T) {
	enc := &recordingEncoder{out: []byte("x")}
	q := passport.NewQRIssuer(enc)

	_, err := q.Issue("not a url", "t")

	require.NoError(t, err)
	assert.Equal(t, "not a url/validate?token=t", enc.content)
}

func TestQRIssuer_EncoderFailure(t *testing.T) {
	cause := errors.New("content too long")
	q := passport.NewQRIssuer(&recordingEncoder{err: cause})

	_, err := q.Issue("http://10.0.0.5", "abc123")

	assert.ErrorIs(t, err, passport.ErrEncoderFailed)
	assert.ErrorIs(t, err, cause)
}

func TestPNGEncoder_Encode(t *testing.T) {
	enc := passport.NewPNGEncoder(0)

	data, err := enc.Encode("http://10.0.0.5/validate?token=abc123")

	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, passport.DefaultQRSize, cfg.Width)
	assert.Equal(t, passport.DefaultQRSize, cfg.Height)
}
