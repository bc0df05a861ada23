package server

// Notes:
// - Logs go to a buffer through a JSON slog handler so tests can assert
//   on request logging without touching stdout.
// - The io.ReadAll failure branch other than MaxBytesError is not tested;
//   httptest request bodies do not fail mid-read.

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-kiwimark"
	"github.com/alnah/go-kiwimark/internal/assets"
)

// syncBuffer guards a bytes.Buffer shared by concurrent handlers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestServer(t *testing.T, opts Options) (*Server, *syncBuffer) {
	t.Helper()

	logs := &syncBuffer{}
	log := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(log, opts), logs
}

func defaultOptions() Options {
	return Options{EscapeHTML: true, Normalize: true, Version: "test"}
}

func do(t *testing.T, s *Server, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// ---------------------------------------------------------------------------
// TestHealth / TestVersion
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	t.Parallel()

	s, logs := newTestServer(t, defaultOptions())
	rec := do(t, s, http.MethodGet, "/health", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"ok"}` {
		t.Errorf("body = %q", got)
	}
	if !strings.Contains(logs.String(), `"path":"/health"`) {
		t.Errorf("request not logged: %s", logs.String())
	}
	if !strings.Contains(logs.String(), `"request_id"`) {
		t.Errorf("request id not logged: %s", logs.String())
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, defaultOptions())
	rec := do(t, s, http.MethodGet, "/v1/version", "", nil)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["version"] != "test" {
		t.Errorf("version = %q, want test", body["version"])
	}
}

// ---------------------------------------------------------------------------
// TestConvert - POST /v1/convert
// ---------------------------------------------------------------------------

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       func(o *Options)
		target     string
		body       string
		wantStatus int
		wantBody   string
		wantOrg    string
	}{
		{
			name:       "fragment",
			target:     "/v1/convert",
			body:       "Hello **world** & co",
			wantStatus: http.StatusOK,
			wantBody:   "<p>\nHello <b>world</b> &amp; co\n</p>\n",
			wantOrg:    "false",
		},
		{
			name:       "org mode forced on",
			target:     "/v1/convert?org_mode=on",
			body:       "* Title\n**raw**",
			wantStatus: http.StatusOK,
			wantBody:   "<h1>Title</h1>\n<p>\n**raw**\n</p>\n",
			wantOrg:    "true",
		},
		{
			name:       "org mode detected",
			target:     "/v1/convert",
			body:       "-*- mode: org -*-\n* Top",
			wantStatus: http.StatusOK,
			wantOrg:    "true",
		},
		{
			name:       "escape disabled per request",
			target:     "/v1/convert?escape_html=false",
			body:       "<em>x</em>",
			wantStatus: http.StatusOK,
			wantBody:   "<p>\n<em>x</em>\n</p>\n",
		},
		{
			name:       "escape disabled by default option",
			opts:       func(o *Options) { o.EscapeHTML = false },
			target:     "/v1/convert",
			body:       "<em>x</em>",
			wantStatus: http.StatusOK,
			wantBody:   "<p>\n<em>x</em>\n</p>\n",
		},
		{
			name:       "escape forced on over raw default",
			opts:       func(o *Options) { o.EscapeHTML = false },
			target:     "/v1/convert?escape_html=true",
			body:       "<em>x</em>",
			wantStatus: http.StatusOK,
			wantBody:   "<p>\n&lt;em&gt;x&lt;/em&gt;\n</p>\n",
		},
		{
			name:       "empty body",
			target:     "/v1/convert",
			body:       "",
			wantStatus: http.StatusOK,
			wantBody:   "",
		},
		{
			name:       "invalid org mode",
			target:     "/v1/convert?org_mode=sometimes",
			body:       "x",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid escape flag",
			target:     "/v1/convert?escape_html=maybe",
			body:       "x",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid standalone flag",
			target:     "/v1/convert?standalone=perhaps",
			body:       "x",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid base url",
			target:     "/v1/convert?base_url=mailto:a@b.c",
			body:       "[link](x)",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "body too large",
			opts:       func(o *Options) { o.MaxBodyBytes = 8 },
			target:     "/v1/convert",
			body:       "this body is longer than eight bytes",
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := defaultOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}
			s, _ := newTestServer(t, opts)

			rec := do(t, s, http.MethodPost, tt.target, tt.body, nil)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %q)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
					t.Errorf("error Content-Type = %q, want application/json", ct)
				}
				return
			}
			if tt.wantBody != "" || tt.body == "" {
				if got := rec.Body.String(); got != tt.wantBody {
					t.Errorf("body = %q, want %q", got, tt.wantBody)
				}
			}
			if tt.wantOrg != "" {
				if got := rec.Header().Get("X-Kiwimark-Org-Mode"); got != tt.wantOrg {
					t.Errorf("X-Kiwimark-Org-Mode = %q, want %q", got, tt.wantOrg)
				}
			}
		})
	}
}

func TestConvert_Standalone(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, defaultOptions())
	rec := do(t, s, http.MethodPost, "/v1/convert?title=Notes&base_url=https://example.com/docs/", "[guide](guide.html)", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Notes</title>",
		`href="https://example.com/docs/guide.html"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestConvert_JSON(t *testing.T) {
	t.Parallel()

	s, logs := newTestServer(t, defaultOptions())
	header := http.Header{"Accept": []string{"application/json"}}
	rec := do(t, s, http.MethodPost, "/v1/convert", "# Intro\n\ncode:sh\necho", header)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp convertResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Title != "Intro" {
		t.Errorf("Title = %q, want Intro", resp.Title)
	}
	if !strings.HasPrefix(resp.HTML, "<h1>Intro</h1>\n") {
		t.Errorf("HTML = %q", resp.HTML)
	}
	if len(resp.Warnings) != 1 || !strings.Contains(resp.Warnings[0], "line 3") {
		t.Errorf("Warnings = %v, want one unterminated code warning on line 3", resp.Warnings)
	}
	if !strings.Contains(logs.String(), "conversion warning") {
		t.Errorf("warning not logged: %s", logs.String())
	}
}

// brokenStyles fails every load with an I/O error.
type brokenStyles struct{}

func (brokenStyles) LoadStyle(string) (string, error) {
	return "", errors.New("disk on fire")
}

func (brokenStyles) Names() ([]string, error) {
	return nil, errors.New("disk on fire")
}

func TestConvert_Style(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		target   string
		styles   assets.StyleLoader
		wantCode int
		want     string
	}{
		{"named style", "/v1/convert?style=technical", nil, http.StatusOK, "border-radius: 6px"},
		{"empty name is default", "/v1/convert?style=", nil, http.StatusOK, "<style>"},
		{"unknown style", "/v1/convert?style=nope", nil, http.StatusBadRequest, "style not found"},
		{"invalid name", "/v1/convert?style=..%2Fx", nil, http.StatusBadRequest, "invalid style name"},
		{"loader failure", "/v1/convert?style=technical", brokenStyles{}, http.StatusBadRequest, "style unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := defaultOptions()
			opts.Styles = tt.styles
			s, logs := newTestServer(t, opts)
			rec := do(t, s, http.MethodPost, tt.target, "Hello\n=====", nil)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body missing %q:\n%s", tt.want, rec.Body.String())
			}
			if tt.wantCode == http.StatusOK && !strings.Contains(rec.Body.String(), "<title>Hello</title>") {
				t.Errorf("style should imply a standalone page:\n%s", rec.Body.String())
			}
			if tt.styles != nil && !strings.Contains(logs.String(), "disk on fire") {
				t.Errorf("loader failure not logged: %s", logs.String())
			}
		})
	}
}

func TestStyles(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, defaultOptions())
	rec := do(t, s, http.MethodGet, "/v1/styles", "", nil)

	var body map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(body["styles"]) == 0 || body["styles"][0] != "default" {
		t.Errorf("styles = %v", body["styles"])
	}
}

func TestStyles_CustomDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "styles"), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "styles", "house.css"), []byte("h1 { color: green; }"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	styles, err := assets.NewStyleResolver(dir)
	if err != nil {
		t.Fatalf("NewStyleResolver() error = %v", err)
	}
	t.Cleanup(func() { _ = styles.Close() })

	opts := defaultOptions()
	opts.Styles = styles
	s, _ := newTestServer(t, opts)

	rec := do(t, s, http.MethodGet, "/v1/styles", "", nil)
	var body map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if !slices.Contains(body["styles"], "house") || !slices.Contains(body["styles"], "technical") {
		t.Errorf("styles = %v, want custom and built-in names", body["styles"])
	}

	rec = do(t, s, http.MethodPost, "/v1/convert?style=house", "Hello", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "color: green") {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestStyles_ListFailure(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.Styles = brokenStyles{}
	s, logs := newTestServer(t, opts)

	rec := do(t, s, http.MethodGet, "/v1/styles", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(logs.String(), "listing styles") {
		t.Errorf("logs missing listing error:\n%s", logs.String())
	}
}

func TestConvert_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, defaultOptions())
	rec := do(t, s, http.MethodGet, "/v1/convert", "", nil)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestNew_DefaultBodyLimit(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, Options{})
	if s.opts.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Errorf("MaxBodyBytes = %d, want %d", s.opts.MaxBodyBytes, DefaultMaxBodyBytes)
	}
	if s.opts.OrgMode != kiwimark.OrgModeUnset {
		t.Errorf("OrgMode = %v, want unset", s.opts.OrgMode)
	}
}

// ---------------------------------------------------------------------------
// TestStatusWriter
// ---------------------------------------------------------------------------

func TestStatusWriter(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}

	sw.WriteHeader(http.StatusTeapot)
	n, err := sw.Write([]byte("short and stout"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if sw.status != http.StatusTeapot || rec.Code != http.StatusTeapot {
		t.Errorf("status = %d / %d, want 418", sw.status, rec.Code)
	}
	if sw.bytes != n || n != len("short and stout") {
		t.Errorf("bytes = %d, want %d", sw.bytes, n)
	}
}
