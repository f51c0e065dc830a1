package ui

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/stoich/config"
)

func newTestServer(t *testing.T, configure func(*config.Config)) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Server.RateLimit.Enabled = false
	if configure != nil {
		configure(cfg)
	}
	s, err := NewServer(cfg)
	require.NoError(t, err)
	return s
}

func postJSON(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/balance", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, s *Server, values url.Values, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/balance", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestBalanceJSON(t *testing.T) {
	s := newTestServer(t, nil)

	rec := postJSON(t, s, `{"equation": "CH4 + O2 -> CO2 + H2O"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got struct {
		Success          bool     `json:"success"`
		BalancedEquation string   `json:"balanced_equation"`
		Coefficients     []int    `json:"coefficients"`
		Elements         []string `json:"elements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Success)
	assert.Equal(t, "CH4 + 2O2 -> CO2 + 2H2O", got.BalancedEquation)
	assert.Equal(t, []int{1, 2, 1, 2}, got.Coefficients)
	assert.Equal(t, []string{"C", "H", "O"}, got.Elements)
}

func TestBalanceErrors(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name     string
		body     string
		status   int
		kind     string
		fragment string
	}{
		{"unparseable compound", `{"equation": "xyz -> H2O"}`, http.StatusUnprocessableEntity, "UnparseableCompound", "xyz"},
		{"missing arrow", `{"equation": "H2 + O2"}`, http.StatusUnprocessableEntity, "MalformedEquation", "H2+O2"},
		{"ambiguous", `{"equation": "H2 + O2 -> H2O + H2O2"}`, http.StatusUnprocessableEntity, "AmbiguousBalance", ""},
		{"non-positive", `{"equation": "NaCl -> Na + Cl2 + O2"}`, http.StatusUnprocessableEntity, "NonPositiveCoefficient", "O2"},
		{"invalid json", `{"equation":`, http.StatusBadRequest, "", ""},
		{"missing equation", `{}`, http.StatusBadRequest, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, s, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			var got struct {
				Success  bool   `json:"success"`
				Error    string `json:"error"`
				Kind     string `json:"kind"`
				Fragment string `json:"fragment"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.False(t, got.Success)
			assert.NotEmpty(t, got.Error)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.fragment, got.Fragment)
		})
	}
}

func TestBalanceFormLocale(t *testing.T) {
	s := newTestServer(t, nil)

	rec := postForm(t, s, url.Values{"equation": {"H2 -> O2"}, "locale": {"th"}}, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "ไม่สามารถดุลสมการได้")

	rec = postForm(t, s, url.Values{"equation": {"H2 -> O2"}, "locale": {"xx"}}, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot be balanced")
}

func TestBalanceHTML(t *testing.T) {
	s := newTestServer(t, nil)

	rec := postForm(t, s, url.Values{"equation": {"CH4 + O2 -> CO2 + H2O"}}, "text/html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "2H2O")
	assert.Contains(t, body, "Coefficients: 1, 2, 1, 2")
	assert.Contains(t, body, "<td>O</td>")

	rec = postForm(t, s, url.Values{"equation": {"xyz -> H2O"}}, "text/html")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-kind="UnparseableCompound"`)
}

func TestBalanceBadRequestHTML(t *testing.T) {
	s := newTestServer(t, nil)

	rec := postForm(t, s, url.Values{"equation": {"  "}}, "text/html")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, `<section class="error"`)
	assert.Contains(t, body, "equation is required")

	rec = postForm(t, s, url.Values{"equation": {"  "}}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?equation=Fe", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<form method="post" action="/balance">`)
	assert.Contains(t, rec.Body.String(), `value="Fe"`)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTemplateOverlay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(`custom index for {{.Equation}}`), 0644))

	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.TemplatesDir = dir
	})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?equation=Fe", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "custom index for Fe", rec.Body.String())

	rec = postForm(t, s, url.Values{"equation": {"Fe + O2 -> Fe2O3"}}, "text/html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Coefficients: 4, 3, 2")
}

func TestTemplateOverlayMissingDir(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.TemplatesDir = filepath.Join(t.TempDir(), "missing")
	_, err := NewServer(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	file := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	cfg.Server.TemplatesDir = file
	_, err = NewServer(cfg)
	assert.ErrorContains(t, err, "not a directory")
}

func TestOverlayReadDir(t *testing.T) {
	embedded := fstest.MapFS{
		"index.html":  {Data: []byte("embedded")},
		"result.html": {Data: []byte("embedded")},
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("custom"), 0644))

	entries, err := fs.ReadDir(overlayFS(dir, embedded), ".")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"index.html", "result.html"}, names)

	data, err := fs.ReadFile(overlayFS(dir, embedded), "index.html")
	require.NoError(t, err)
	assert.Equal(t, "custom", string(data))

	_, err = fs.ReadDir(overlayFS(filepath.Join(dir, "missing"), embedded), "partials")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t, nil)
	postJSON(t, s, `{"equation": "H2 + O2 -> H2O"}`)
	postJSON(t, s, `{"equation": "xyz -> H2O"}`)
	postJSON(t, s, `not json`)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `stoich_balance_requests_total{outcome="success"} 1`)
	assert.Contains(t, body, `stoich_balance_requests_total{outcome="UnparseableCompound"} 1`)
	assert.Contains(t, body, `stoich_balance_requests_total{outcome="bad_request"} 1`)
	assert.Contains(t, body, "stoich_balance_duration_seconds_count 2")
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	})

	first := postJSON(t, s, `{"equation": "H2 + O2 -> H2O"}`)
	assert.Equal(t, http.StatusOK, first.Code)

	second := postJSON(t, s, `{"equation": "H2 + O2 -> H2O"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))

	// other routes are not limited
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	assert.NoError(t, err, "generated request ID should be a UUID")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRateLimiterEviction(t *testing.T) {
	l := newRateLimiter(1, 1, time.Minute)
	now := time.Now()

	assert.True(t, l.allow("a", now))
	assert.False(t, l.allow("a", now))
	assert.True(t, l.allow("b", now))
	assert.Equal(t, 2, l.size())

	later := now.Add(2 * time.Minute)
	l.mu.Lock()
	l.evictLocked(later)
	l.mu.Unlock()
	assert.Equal(t, 0, l.size())

	var nilLimiter *rateLimiter
	assert.True(t, nilLimiter.allow("a", now))
	assert.Nil(t, newRateLimiter(0, 1, time.Minute))
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.0.2.1:1234", "192.0.2.1"},
		{"[2001:db8::1]:80", "2001:db8::1"},
		{"no-port", "no-port"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = tt.remote
		assert.Equal(t, tt.want, clientKey(r), tt.remote)
	}
}
