// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package portal_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/portal"
)

const credentialsTOML = `
business_no = "12345678"
hash_key = "hash-key"
hash_key_no = "7"
`

func writeCredentials(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portal.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func sign(t *testing.T, plain string) string {
	t.Helper()
	s, err := portal.IdentifyNo(plain)
	require.NoError(t, err)
	return s
}

var loginInput = portal.LoginInput{
	MemberNo:  "A123456789",
	Action:    "Login",
	CAType:    "MID",
	Operator:  "CHT",
	Msisdn:    "0912345678",
	Birthday:  "19900101",
	ReturnURL: "http://10.0.0.5/api/VerifyResult",
}

func newPortal(t *testing.T, reply func(form url.Values) any) (*portal.Client, *url.Values) {
	t.Helper()
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		got = r.PostForm
		_ = json.NewEncoder(w).Encode(reply(r.PostForm))
	}))
	t.Cleanup(srv.Close)

	c := portal.NewClient(srv.URL, writeCredentials(t, credentialsTOML), srv.Client())
	c.SetVerifyNo(func() string { return "verify-1" })
	return c, &got
}

func TestLoadCredentials(t *testing.T) {
	creds, err := portal.LoadCredentials(writeCredentials(t, credentialsTOML))

	require.NoError(t, err)
	assert.Equal(t, "12345678", creds.BusinessNo)
	assert.Equal(t, "hash-key", creds.HashKey)
	assert.Equal(t, "7", creds.HashKeyNo)
}

func TestLoadCredentials_Missing(t *testing.T) {
	_, err := portal.LoadCredentials(filepath.Join(t.TempDir(), "nope.toml"))

	assert.ErrorIs(t, err, portal.ErrConfigMissing)
}

func TestLoadCredentials_Incomplete(t *testing.T) {
	_, err := portal.LoadCredentials(writeCredentials(t, `business_no = "1"`))

	assert.ErrorIs(t, err, portal.ErrConfigMissing)
}

func TestLogin_SignsRequest(t *testing.T) {
	c, got := newPortal(t, func(url.Values) any {
		return map[string]any{"ReturnCode": "9001", "ReturnCodeDesc": "denied"}
	})

	reply, err := c.Login(context.Background(), loginInput)
	require.NoError(t, err)

	form := *got
	assert.Equal(t, "12345678", form.Get("BusinessNo"))
	assert.Equal(t, portal.APIVersion, form.Get("ApiVersion"))
	assert.Equal(t, "7", form.Get("HashKeyNo"))
	assert.Equal(t, "verify-1", form.Get("VerifyNo"))
	assert.Equal(t, loginInput.ReturnURL, form.Get("ReturnURL"))
	assert.Empty(t, form.Get("ReturnParams"))

	var params map[string]any
	require.NoError(t, json.Unmarshal([]byte(form.Get("InputParams")), &params))
	assert.Equal(t, "A123456789", params["Plaintext"])
	mid := params["MIDInputParams"].(map[string]any)
	assert.Equal(t, "2", mid["Platform"])

	want := sign(t, "12345678"+portal.APIVersion+"7"+"verify-1"+""+form.Get("InputParams")+"hash-key")
	assert.Equal(t, want, form.Get("IdentifyNo"))

	// rejections pass through untouched
	assert.Equal(t, "9001", reply["ReturnCode"])
	assert.Equal(t, "denied", reply["ReturnCodeDesc"])
	assert.NotContains(t, reply, "IdentifyNo")
}

func TestLogin_ResignsToken(t *testing.T) {
	c, _ := newPortal(t, func(url.Values) any {
		return map[string]any{
			"ReturnCode":   "0",
			"OutputParams": `{"Token":"tok-42"}`,
			"IdentifyNo":   "from-portal",
		}
	})

	reply, err := c.Login(context.Background(), loginInput)

	require.NoError(t, err)
	assert.Equal(t, sign(t, "12345678"+portal.APIVersion+"7"+"verify-1"+"tok-42"+"hash-key"), reply["IdentifyNo"])
}

func TestLogin_BadOutputParams(t *testing.T) {
	c, _ := newPortal(t, func(url.Values) any {
		return map[string]any{"ReturnCode": "0", "OutputParams": "not json"}
	})

	_, err := c.Login(context.Background(), loginInput)

	assert.ErrorIs(t, err, portal.ErrPortalUnavailable)
}

func TestLogin_MissingCredentials(t *testing.T) {
	c := portal.NewClient("http://127.0.0.1:1", filepath.Join(t.TempDir(), "none.toml"), nil)

	_, err := c.Login(context.Background(), loginInput)

	assert.ErrorIs(t, err, portal.ErrConfigMissing)
}

func TestLogin_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := portal.NewClient(srv.URL, writeCredentials(t, credentialsTOML), nil)

	_, err := c.Login(context.Background(), loginInput)

	assert.ErrorIs(t, err, portal.ErrPortalUnavailable)
}
