// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package passport

import (
	"context"

	"gitlab.com/iii-api-platform/hospital-gateway/internal/models"
)

// Issued is a record together with its rendered QR code.
type Issued struct {
	models.VerificationRecord
	Image string `json:"base64_encoded_image"`
}

// Service exposes the passport operations used by the HTTP layer.
type Service struct {
	lifecycle *Lifecycle
	qr        *QRIssuer
}

// NewService creates a new passport service.
func NewService(lifecycle *Lifecycle, qr *QRIssuer) *Service {
	return &Service{lifecycle: lifecycle, qr: qr}
}

// Lifecycle returns the underlying lifecycle policy.
func (s *Service) Lifecycle() *Lifecycle {
	return s.lifecycle
}

// FetchOrRefresh returns the record for rawIdentifier, rotating an expired token,
// and renders a QR code addressed at callerAddress.
func (s *Service) FetchOrRefresh(ctx context.Context, rawIdentifier, callerAddress string) (*Issued, error) {
	rec, err := s.lifecycle.GetOrRefresh(ctx, HashIdentifier(rawIdentifier))
	if err != nil {
		return nil, err
	}
	return s.render(rec, callerAddress)
}

// IssueQR renders a QR code for the stored record without refreshing it.
func (s *Service) IssueQR(ctx context.Context, rawIdentifier, callerAddress string) (*Issued, error) {
	rec, err := s.lifecycle.Lookup(ctx, HashIdentifier(rawIdentifier))
	if err != nil {
		return nil, err
	}
	return s.render(rec, callerAddress)
}

// Validate checks whether token is live. See Lifecycle.Validate.
func (s *Service) Validate(ctx context.Context, token string) error {
	_, err := s.lifecycle.Validate(ctx, token)
	return err
}

// Register creates the record for a subject.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.VerificationRecord, error) {
	return s.lifecycle.Register(ctx, in)
}

func (s *Service) render(rec *models.VerificationRecord, callerAddress string) (*Issued, error) {
	img, err := s.qr.Issue(callerAddress, rec.Token)
	if err != nil {
		return nil, err
	}
	return &Issued{VerificationRecord: *rec, Image: img}, nil
}
