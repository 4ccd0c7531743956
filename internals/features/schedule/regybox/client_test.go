package regybox

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centrotreino_backend/internals/configs"
)

var testCreds = configs.RegyBoxCredentials{BoxID: "42", Email: "coach@example.com", Password: "secret"}

func newTestClient(t *testing.T, h http.HandlerFunc, creds configs.RegyBoxCredentials) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL, Credentials: creds, HTTPClient: srv.Client()}), &calls
}

func TestLoginMissingCredentialsMakesNoRequest(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, configs.RegyBoxCredentials{BoxID: "42"})

	_, err := c.Login(context.Background())

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.ElementsMatch(t, []string{"REGYBOX_EMAIL", "REGYBOX_PASSWORD"}, cfgErr.Missing)
	assert.EqualValues(t, 0, atomic.LoadInt32(calls))
	assert.False(t, c.Configured())
}

func TestLoginSendsFormAndExtractsCookie(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, loginPath, r.URL.Path)
		assert.Equal(t, "pt", r.URL.Query().Get("lang"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "42", r.PostForm.Get("id_box"))
		assert.Equal(t, "coach@example.com", r.PostForm.Get("login"))
		assert.Equal(t, "secret", r.PostForm.Get("password"))

		w.Header().Add("Set-Cookie", "PHPSESSID=zzz; path=/")
		w.Header().Add("Set-Cookie", "regybox_user_cookie=tok-123; path=/; HttpOnly")
	}, testCreds)

	token, err := c.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	assert.True(t, c.Configured())
}

func TestLoginRejectedStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, testCreds)

	_, err := c.Login(context.Background())

	var authErr *UpstreamAuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusForbidden, authErr.Status)
	assert.Contains(t, err.Error(), "403")
}

func TestLoginWithoutCookie(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, testCreds)

	_, err := c.Login(context.Background())

	var authErr *UpstreamAuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "no session issued", authErr.Reason)
}

func TestLoginTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	c := NewClient(Options{BaseURL: srv.URL, Credentials: testCreds})

	_, err := c.Login(context.Background())

	var authErr *UpstreamAuthError
	require.ErrorAs(t, err, &authErr)
	assert.Zero(t, authErr.Status)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestSessionTokenFallsBackToRawHeader(t *testing.T) {
	assert.Equal(t, "abc", SessionToken("regybox_user_cookie=abc; path=/"))
	assert.Equal(t, "other=1; path=/", SessionToken("other=1; path=/"))
}

func TestFetchDayListing(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, listingPath, r.URL.Path)
		assert.Equal(t, "regybox_user_cookie=tok", r.Header.Get("Cookie"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "2026-10-12", r.PostForm.Get("date"))
		assert.Equal(t, "pt", r.PostForm.Get("lang"))
		_, _ = w.Write([]byte("<div>listing</div>"))
	}, testCreds)

	body, err := c.FetchDayListing(context.Background(), "2026-10-12", "tok")
	require.NoError(t, err)
	assert.Equal(t, "<div>listing</div>", body)
}

func TestFetchDayListingStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, testCreds)

	_, err := c.FetchDayListing(context.Background(), "2026-10-12", "tok")

	var fetchErr *UpstreamFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusBadGateway, fetchErr.Status)
}
