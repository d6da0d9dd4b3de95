// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package fhir forwards resource operations to the configured FHIR server.
package fhir

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MIMEFHIRJSON is the media type for FHIR resources in JSON.
const MIMEFHIRJSON = "application/fhir+json"

// DefaultTimeout bounds a single round trip to the FHIR server.
const DefaultTimeout = 30 * time.Second

// maxResponseSize caps how much of a backend response is buffered.
// Larger replies are rejected rather than relayed truncated.
var maxResponseSize int64 = 32 << 20

// Request describes one call against the FHIR REST API.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Body     []byte
}

// Response is the backend reply, relayed to callers unchanged.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client talks to a single FHIR server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a Client for baseURL. An empty token disables the
// Authorization header. A nil httpClient gets DefaultTimeout.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// Do sends req and returns the backend reply whatever its status code.
// A reply over the buffering cap is an error, as is any transport failure.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	target := c.baseURL + req.Path
	if req.RawQuery != "" {
		query, err := encodeQuery(req.RawQuery)
		if err != nil {
			return nil, err
		}
		target += "?" + query
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	httpReq.Header.Set("Accept", MIMEFHIRJSON)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", MIMEFHIRJSON)
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrBackendUnavailable, err)
	}
	if int64(len(data)) > maxResponseSize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrBackendUnavailable, maxResponseSize)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

// Ping issues a plain GET against the server root.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Do(ctx, Request{Method: http.MethodGet})
	return err
}

// encodeQuery percent-encodes every key and value of a raw query string.
// Pair order and repeated keys are kept, and already escaped input is not
// escaped twice.
func encodeQuery(raw string) (string, error) {
	pairs := strings.Split(raw, "&")
	encoded := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key, value, hasValue := strings.Cut(pair, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidQuery, err)
		}
		if !hasValue {
			encoded = append(encoded, url.QueryEscape(k))
			continue
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidQuery, err)
		}
		encoded = append(encoded, url.QueryEscape(k)+"="+url.QueryEscape(v))
	}
	return strings.Join(encoded, "&"), nil
}
