// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package fhir

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"gitlab.com/iii-api-platform/hospital-gateway/internal/models"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/repository"
)

// Resource types forwarded by the gateway.
const (
	Patient      = "Patient"
	Organization = "Organization"
	Immunization = "Immunization"
	Composition  = "Composition"
	Observation  = "Observation"
	Bundle       = "Bundle"
)

// bundleKinds are the accepted CreateBundle kinds.
var bundleKinds = map[string]bool{
	"immunization": true,
	"observation":  true,
}

// SettingsStore persists the FHIR server setting.
type SettingsStore interface {
	SaveFHIRServer(ctx context.Context, server string, token *string) error
	GetFHIRServer(ctx context.Context) (*models.FHIRServer, error)
}

// Gateway resolves the configured server and forwards resource operations to it.
type Gateway struct {
	store SettingsStore
	http  *http.Client
}

// NewGateway creates a Gateway. httpClient may be nil.
func NewGateway(store SettingsStore, httpClient *http.Client) *Gateway {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Gateway{store: store, http: httpClient}
}

// Setting returns the current server setting.
func (g *Gateway) Setting(ctx context.Context) (*models.FHIRServer, error) {
	s, err := g.store.GetFHIRServer(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("load FHIR server setting: %w", err)
	}
	return s, nil
}

// Configure probes server and, when it answers, replaces the saved setting.
func (g *Gateway) Configure(ctx context.Context, server string, token *string) error {
	u, err := url.Parse(server)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidServer
	}

	if err := NewClient(server, "", g.http).Ping(ctx); err != nil {
		slog.WarnContext(ctx, "FHIR server probe failed", "server", server, "error", err)
		return fmt.Errorf("%w: %w", ErrInvalidServer, err)
	}

	if err := g.store.SaveFHIRServer(ctx, server, token); err != nil {
		return fmt.Errorf("save FHIR server setting: %w", err)
	}
	slog.InfoContext(ctx, "FHIR server configured", "server", server, "auth", token != nil)
	return nil
}

// Read fetches resourceType/id.
func (g *Gateway) Read(ctx context.Context, resourceType, id string) (*Response, error) {
	return g.do(ctx, Request{Method: http.MethodGet, Path: resourcePath(resourceType, id)})
}

// Search runs a search with a raw query string such as "family=Chen&gender=female".
func (g *Gateway) Search(ctx context.Context, resourceType, params string) (*Response, error) {
	return g.do(ctx, Request{
		Method:   http.MethodGet,
		Path:     resourcePath(resourceType, ""),
		RawQuery: strings.TrimPrefix(params, "?"),
	})
}

// List returns the default search set for resourceType.
func (g *Gateway) List(ctx context.Context, resourceType string) (*Response, error) {
	return g.Search(ctx, resourceType, "")
}

// Create posts a new resource.
func (g *Gateway) Create(ctx context.Context, resourceType string, payload []byte) (*Response, error) {
	return g.do(ctx, Request{Method: http.MethodPost, Path: resourcePath(resourceType, ""), Body: payload})
}

// Update replaces resourceType/id.
func (g *Gateway) Update(ctx context.Context, resourceType, id string, payload []byte) (*Response, error) {
	return g.do(ctx, Request{Method: http.MethodPut, Path: resourcePath(resourceType, id), Body: payload})
}

// Delete removes resourceType/id.
func (g *Gateway) Delete(ctx context.Context, resourceType, id string) (*Response, error) {
	return g.do(ctx, Request{Method: http.MethodDelete, Path: resourcePath(resourceType, id)})
}

// CreateBundle posts an immunization or observation bundle.
func (g *Gateway) CreateBundle(ctx context.Context, kind string, payload []byte) (*Response, error) {
	if !bundleKinds[strings.ToLower(kind)] {
		return nil, fmt.Errorf("%w: unknown bundle %q", ErrInvalidPayload, kind)
	}
	return g.Create(ctx, Bundle, payload)
}

func (g *Gateway) do(ctx context.Context, req Request) (*Response, error) {
	s, err := g.Setting(ctx)
	if err != nil {
		return nil, err
	}

	var token string
	if s.HasToken() {
		token = *s.Token
	}

	resp, err := NewClient(s.Server, token, g.http).Do(ctx, req)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "FHIR request forwarded",
		"method", req.Method, "path", req.Path, "status", resp.StatusCode)
	return resp, nil
}

func resourcePath(resourceType, id string) string {
	if id == "" {
		return "/" + resourceType
	}
	return "/" + resourceType + "/" + url.PathEscape(id)
}
