// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package portal logs users in through the TWCA identity portal.
package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultURL is the portal login endpoint.
const DefaultURL = "https://midonlinetest.twca.com.tw/IDPortal/Login"

// APIVersion is the portal protocol version.
const APIVersion = "1.0"

var (
	// ErrConfigMissing is returned when the credentials file is absent or incomplete.
	ErrConfigMissing = errors.New("portal credentials file is not found")
	// ErrPortalUnavailable wraps transport and decoding failures.
	ErrPortalUnavailable = errors.New("identity portal is unavailable")
)

// LoginInput carries the member data for a login request.
type LoginInput struct {
	MemberNo           string `json:"member_no"`
	Action             string `json:"action"`
	PlainText          string `json:"plain_text"`
	CAType             string `json:"ca_type"`
	AssignCertPassword string `json:"assign_cert_password"`
	Operator           string `json:"operator"`
	Msisdn             string `json:"msisdn"`
	Birthday           string `json:"birthday"`
	ReturnURL          string `json:"return_url"`
}

// inputParams is serialized into the InputParams form field. Field order is
// part of the signature.
type inputParams struct {
	MemberNo           string         `json:"MemberNo"`
	Action             string         `json:"Action"`
	Plaintext          string         `json:"Plaintext"`
	CAType             string         `json:"CAType"`
	AssignCertPassword string         `json:"AssignCertPassword"`
	MIDInputParams     midInputParams `json:"MIDInputParams"`
}

type midInputParams struct {
	Platform        string          `json:"Platform"`
	MIDwInputParams midwInputParams `json:"MIDwInputParams"`
}

type midwInputParams struct {
	Operator string `json:"Operator"`
	Msisdn   string `json:"Msisdn"`
	Birthday string `json:"Birthday"`
}

// VerifyResult is the callback the portal posts back after verification.
type VerifyResult struct {
	BusinessNo      string `form:"BusinessNo" json:"BusinessNo"`
	ApiVersion      string `form:"ApiVersion" json:"ApiVersion"` //nolint:revive // portal field name
	HashKeyNo       string `form:"HashKeyNo" json:"HashKeyNo"`
	VerifyNo        string `form:"VerifyNo" json:"VerifyNo"`
	MemberNoMapping string `form:"MemberNoMapping" json:"MemberNoMapping"`
	Token           string `form:"Token" json:"Token"`
	CAType          string `form:"CAType" json:"CAType"`
	ResultCode      string `form:"ResultCode" json:"ResultCode"`
	ReturnCode      string `form:"ReturnCode" json:"ReturnCode"`
	ReturnCodeDesc  string `form:"ReturnCodeDesc" json:"ReturnCodeDesc"`
	IdentifyNo      string `form:"IdentifyNo" json:"IdentifyNo"`
}

// Client posts login requests to the portal.
type Client struct {
	url             string
	credentialsFile string
	http            *http.Client
	newVerifyNo     func() string
}

// NewClient creates a portal client. Empty arguments fall back to the defaults.
func NewClient(portalURL, credentialsFile string, httpClient *http.Client) *Client {
	if portalURL == "" {
		portalURL = DefaultURL
	}
	if credentialsFile == "" {
		credentialsFile = DefaultCredentialsFile
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		url:             portalURL,
		credentialsFile: credentialsFile,
		http:            httpClient,
		newVerifyNo:     uuid.NewString,
	}
}

// Login submits a signed login request. Replies with a ReturnCode other than
// "0" are returned untouched. On success IdentifyNo is re-signed over the
// issued token.
func (c *Client) Login(ctx context.Context, in LoginInput) (map[string]any, error) {
	creds, err := LoadCredentials(c.credentialsFile)
	if err != nil {
		return nil, err
	}

	params, err := json.Marshal(inputParams{
		MemberNo:           in.MemberNo,
		Action:             in.Action,
		Plaintext:          in.MemberNo,
		CAType:             in.CAType,
		AssignCertPassword: in.AssignCertPassword,
		MIDInputParams: midInputParams{
			Platform: "2",
			MIDwInputParams: midwInputParams{
				Operator: in.Operator,
				Msisdn:   in.Msisdn,
				Birthday: in.Birthday,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	verifyNo := c.newVerifyNo()
	returnParams := ""
	identifyNo, err := IdentifyNo(creds.BusinessNo + APIVersion + creds.HashKeyNo + verifyNo + returnParams + string(params) + creds.HashKey)
	if err != nil {
		return nil, err
	}

	form := url.Values{
		"BusinessNo":   {creds.BusinessNo},
		"ApiVersion":   {APIVersion},
		"HashKeyNo":    {creds.HashKeyNo},
		"VerifyNo":     {verifyNo},
		"ReturnURL":    {in.ReturnURL},
		"ReturnParams": {returnParams},
		"IdentifyNo":   {identifyNo},
		"InputParams":  {string(params)},
	}

	reply, err := c.post(ctx, form)
	if err != nil {
		return nil, err
	}

	if code := fmt.Sprint(reply["ReturnCode"]); code != "0" {
		slog.WarnContext(ctx, "portal login rejected", "verify_no", verifyNo, "return_code", code)
		return reply, nil
	}

	token, err := outputToken(reply)
	if err != nil {
		return nil, err
	}
	reply["IdentifyNo"], err = IdentifyNo(creds.BusinessNo + APIVersion + creds.HashKeyNo + verifyNo + token + creds.HashKey)
	if err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *Client) post(ctx context.Context, form url.Values) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPortalUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPortalUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPortalUnavailable, err)
	}

	var reply map[string]any
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("%w: decode reply (status %d): %w", ErrPortalUnavailable, resp.StatusCode, err)
	}
	return reply, nil
}

// outputToken extracts Token from the JSON-encoded OutputParams field.
func outputToken(reply map[string]any) (string, error) {
	raw, _ := reply["OutputParams"].(string)
	var out struct {
		Token string `json:"Token"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return "", fmt.Errorf("%w: decode OutputParams: %w", ErrPortalUnavailable, err)
	}
	return out.Token, nil
}
