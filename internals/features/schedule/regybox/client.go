// file: internals/features/schedule/regybox/client.go
package regybox

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"centrotreino_backend/internals/configs"
)

const (
	SessionCookieName = "regybox_user_cookie"

	loginPath   = "/login/scripts/verifica_acesso.php"
	listingPath = "/boxs/scripts/aulas_box/lista_aulas_box_by_day.php"

	userAgent = "Mozilla/5.0 (compatible; centrotreino-schedule/1.0)"
)

var sessionCookieRe = regexp.MustCompile(SessionCookieName + `=([^;]+)`)

type Options struct {
	BaseURL     string
	Lang        string
	Credentials configs.RegyBoxCredentials
	HTTPClient  *http.Client
}

// Client talks to the RegyBox web app. It keeps no session between calls:
// callers log in and pass the token to FetchDayListing themselves.
type Client struct {
	baseURL string
	lang    string
	creds   configs.RegyBoxCredentials
	http    *http.Client
}

func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = configs.DefaultRegyBoxBaseURL
	}
	lang := opts.Lang
	if lang == "" {
		lang = "pt"
	}
	return &Client{baseURL: base, lang: lang, creds: opts.Credentials, http: hc}
}

// Configured reports whether all three credentials are present.
func (c *Client) Configured() bool {
	return len(c.creds.Missing()) == 0
}

// Login exchanges the configured credentials for a session token.
func (c *Client) Login(ctx context.Context) (string, error) {
	if missing := c.creds.Missing(); len(missing) > 0 {
		return "", &ConfigurationError{Missing: missing}
	}

	form := url.Values{
		"id_box":   {c.creds.BoxID},
		"login":    {c.creds.Email},
		"password": {c.creds.Password},
	}
	endpoint := c.baseURL + loginPath + "?lang=" + url.QueryEscape(c.lang)

	resp, err := c.postForm(ctx, endpoint, form, "")
	if err != nil {
		return "", &UpstreamAuthError{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamAuthError{Status: resp.StatusCode}
	}

	setCookie := strings.Join(resp.Header.Values("Set-Cookie"), ", ")
	if setCookie == "" {
		return "", &UpstreamAuthError{Status: resp.StatusCode, Reason: "no session issued"}
	}
	return SessionToken(setCookie), nil
}

// SessionToken pulls the session cookie value out of a Set-Cookie header.
// Headers in an unexpected shape are returned verbatim.
func SessionToken(setCookie string) string {
	if m := sessionCookieRe.FindStringSubmatch(setCookie); m != nil {
		return m[1]
	}
	return setCookie
}

// FetchDayListing returns the raw markup of the class listing for date (YYYY-MM-DD).
func (c *Client) FetchDayListing(ctx context.Context, date, token string) (string, error) {
	form := url.Values{
		"date": {date},
		"lang": {c.lang},
	}

	resp, err := c.postForm(ctx, c.baseURL+listingPath, form, SessionCookieName+"="+token)
	if err != nil {
		return "", &UpstreamFetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &UpstreamFetchError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamFetchError{Status: resp.StatusCode, Err: err}
	}
	return string(body), nil
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, cookie string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	return c.http.Do(req)
}
