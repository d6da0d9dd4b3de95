// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package passport

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"gitlab.com/iii-api-platform/hospital-gateway/internal/models"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/repository"
)

const (
	// DefaultWindow is how long a token stays valid after it is minted.
	DefaultWindow = 180 * time.Second
	// entropyBytes is the number of random bytes mixed into every token.
	entropyBytes = 32
)

// TokenStore persists verification records.
type TokenStore interface {
	UpsertVerificationRecord(ctx context.Context, rec *models.VerificationRecord) error
	GetVerificationRecordByIdentifier(ctx context.Context, hashedIdentifier string) (*models.VerificationRecord, error)
	GetVerificationRecordByToken(ctx context.Context, token string) (*models.VerificationRecord, error)
}

// RegisterInput holds the fields needed to create a record.
type RegisterInput struct {
	DoseCount          int
	LastOccurrenceDate string
	RawIdentifier      string
	RecordSourceID     string
}

// Lifecycle decides when tokens expire and mints replacements.
type Lifecycle struct {
	store   TokenStore
	window  int64
	now     func() time.Time
	entropy io.Reader
}

// Option configures a Lifecycle.
type Option func(*Lifecycle)

// WithWindow overrides DefaultWindow. Sub-second precision is dropped.
func WithWindow(d time.Duration) Option {
	return func(l *Lifecycle) {
		if d > 0 {
			l.window = int64(d / time.Second)
		}
	}
}

// WithClock sets the time source used for both minting and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(l *Lifecycle) {
		l.now = now
	}
}

// WithEntropy sets the random source used when minting tokens.
func WithEntropy(r io.Reader) Option {
	return func(l *Lifecycle) {
		l.entropy = r
	}
}

// NewLifecycle creates a Lifecycle backed by store.
func NewLifecycle(store TokenStore, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		store:   store,
		window:  int64(DefaultWindow / time.Second),
		now:     time.Now,
		entropy: rand.Reader,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Window returns the validity window.
func (l *Lifecycle) Window() time.Duration {
	return time.Duration(l.window) * time.Second
}

// IsExpired reports whether a token issued at issuedAt is stale at now.
// The boundary itself is still valid.
func (l *Lifecycle) IsExpired(issuedAt, now int64) bool {
	return now-issuedAt > l.window
}

// GetOrRefresh returns the record for digest, re-minting its token first if it has expired.
func (l *Lifecycle) GetOrRefresh(ctx context.Context, digest string) (*models.VerificationRecord, error) {
	rec, err := l.lookup(ctx, digest)
	if err != nil {
		return nil, err
	}

	now := l.now().Unix()
	if !l.IsExpired(rec.IssuedAt, now) {
		return rec, nil
	}

	token, err := l.mint(strconv.FormatInt(now, 10))
	if err != nil {
		return nil, err
	}

	refreshed := *rec
	refreshed.IssuedAt = now
	refreshed.Token = token
	if err := l.store.UpsertVerificationRecord(ctx, &refreshed); err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	slog.DebugContext(ctx, "passport token rotated", "previous_issued_at", rec.IssuedAt, "issued_at", now)
	return &refreshed, nil
}

// Lookup returns the current record for digest without refreshing it.
func (l *Lifecycle) Lookup(ctx context.Context, digest string) (*models.VerificationRecord, error) {
	return l.lookup(ctx, digest)
}

// Validate checks a token. It never refreshes or otherwise mutates the record.
func (l *Lifecycle) Validate(ctx context.Context, token string) (*models.VerificationRecord, error) {
	rec, err := l.store.GetVerificationRecordByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find record by token: %w", err)
	}

	if l.IsExpired(rec.IssuedAt, l.now().Unix()) {
		return rec, ErrExpired
	}
	return rec, nil
}

// Register creates (or supersedes) the record for in.RawIdentifier with a fresh token.
func (l *Lifecycle) Register(ctx context.Context, in RegisterInput) (*models.VerificationRecord, error) {
	if in.DoseCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDoseCount, in.DoseCount)
	}
	now := l.now().Unix()

	token, err := l.mint(in.RecordSourceID + strconv.FormatInt(now, 10))
	if err != nil {
		return nil, err
	}

	rec := &models.VerificationRecord{
		DoseCount:          in.DoseCount,
		LastOccurrenceDate: in.LastOccurrenceDate,
		HashedIdentifier:   HashIdentifier(in.RawIdentifier),
		IssuedAt:           now,
		Token:              token,
	}
	if err := l.store.UpsertVerificationRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("store record: %w", err)
	}
	return rec, nil
}

func (l *Lifecycle) lookup(ctx context.Context, digest string) (*models.VerificationRecord, error) {
	rec, err := l.store.GetVerificationRecordByIdentifier(ctx, digest)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find record by identifier: %w", err)
	}
	return rec, nil
}

// mint hashes fresh entropy together with salt into a new token.
func (l *Lifecycle) mint(salt string) (string, error) {
	buf := make([]byte, entropyBytes)
	if _, err := io.ReadFull(l.entropy, buf); err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	return HashIdentifier(hex.EncodeToString(buf) + salt), nil
}
