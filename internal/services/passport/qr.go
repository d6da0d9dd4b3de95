// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package passport

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// ValidatePath is appended to the caller's address to build the QR target.
const ValidatePath = "/validate?token="

// DefaultQRSize is the PNG edge length in pixels.
const DefaultQRSize = 256

// QRCodeEncoder renders content into an image.
type QRCodeEncoder interface {
	Encode(content string) ([]byte, error)
}

// PNGEncoder renders QR codes as PNG images.
type PNGEncoder struct {
	Size  int
	Level qrcode.RecoveryLevel
}

// NewPNGEncoder creates a PNGEncoder with medium error recovery.
func NewPNGEncoder(size int) *PNGEncoder {
	if size <= 0 {
		size = DefaultQRSize
	}
	return &PNGEncoder{Size: size, Level: qrcode.Medium}
}

// Encode implements QRCodeEncoder.
func (e *PNGEncoder) Encode(content string) ([]byte, error) {
	return qrcode.Encode(content, e.Level, e.Size)
}

// QRIssuer turns tokens into base64-encoded QR images.
type QRIssuer struct {
	encoder QRCodeEncoder
}

// NewQRIssuer creates a QRIssuer.
func NewQRIssuer(encoder QRCodeEncoder) *QRIssuer {
	return &QRIssuer{encoder: encoder}
}

// ValidationURL builds the URL a QR code points at. baseAddress is not validated.
func ValidationURL(baseAddress, token string) string {
	return baseAddress + ValidatePath + token
}

// Issue renders the validation URL for token and returns the image as base64 text.
func (q *QRIssuer) Issue(baseAddress, token string) (string, error) {
	img, err := q.encoder.Encode(ValidationURL(baseAddress, token))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncoderFailed, err)
	}
	return base64.StdEncoding.EncodeToString(img), nil
}
