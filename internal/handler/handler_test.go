package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"garrison/internal/config"
	"garrison/internal/migrate"
	"garrison/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func newServer(t *testing.T, tweak ...func(*config.Config)) *httptest.Server {
	t.Helper()
	db := testutil.OpenDB(t)
	_, err := migrate.Run(context.Background(), db)
	require.NoError(t, err)

	cfg := config.Default()
	for _, f := range tweak {
		f(cfg)
	}
	r, err := NewRouter(cfg, db)
	require.NoError(t, err)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// client is a browser-like session: it keeps cookies and reports redirects
// instead of following them.
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: srv.URL, http: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (c *client) do(method, path, contentType string, body io.Reader, header ...string) (*http.Response, []byte) {
	c.t.Helper()
	req, err := http.NewRequest(method, c.base+path, body)
	require.NoError(c.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, data
}

func (c *client) get(path string) (*http.Response, []byte) {
	return c.do(http.MethodGet, path, "", nil)
}

func (c *client) json(method, path string, v any) (*http.Response, map[string]any) {
	c.t.Helper()
	var body io.Reader
	if v != nil {
		b, err := json.Marshal(v)
		require.NoError(c.t, err)
		body = bytes.NewReader(b)
	}
	resp, data := c.do(method, path, "application/json", body)
	out := map[string]any{}
	_ = json.Unmarshal(data, &out)
	return resp, out
}

func (c *client) form(path string, values url.Values) *http.Response {
	c.t.Helper()
	resp, _ := c.do(http.MethodPost, path, "application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
	return resp
}

func (c *client) loginAdmin() {
	c.t.Helper()
	resp := c.form("/admin/login", url.Values{"username": {"admin"}, "password": {"admin123"}})
	require.Equal(c.t, http.StatusFound, resp.StatusCode)
	require.Equal(c.t, "/admin", resp.Header.Get("Location"))
}

func (c *client) loginMember(username, password string) {
	c.t.Helper()
	resp := c.form("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(c.t, http.StatusFound, resp.StatusCode)
	require.Equal(c.t, "/user", resp.Header.Get("Location"))
}

func recruit(username string) map[string]any {
	return map[string]any{
		"last_name":                   "Петров",
		"first_name":                  "Пётр",
		"birth_date":                  "02.02.2002",
		"r_age":                       18,
		"time_on_project":             "2 месяца",
		"previous_faction_experience": "нет",
		"shooting_skills":             "4",
		"knowledge_of_law":            "4",
		"phone":                       "+70000000001",
		"username":                    username,
		"password":                    "secret1",
	}
}

func (c *client) submit(username string) int {
	c.t.Helper()
	resp, out := c.json(http.MethodPost, "/recruitment/submit", recruit(username))
	require.Equal(c.t, http.StatusOK, resp.StatusCode, out)
	require.Equal(c.t, true, out["success"])
	return int(out["id"].(float64))
}
