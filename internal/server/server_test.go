package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bgpfig/bgpfig/pkg/errors"
	"github.com/bgpfig/bgpfig/pkg/observability"
	"github.com/bgpfig/bgpfig/pkg/pipeline"
	"github.com/bgpfig/bgpfig/pkg/share"
)

const sampleSnapshot = `{
  "routers": [
    {"id": 0, "name": "atlanta", "position": {"x": 1, "y": 2}},
    {"id": 1, "name": "boston", "position": {"x": 3, "y": 4}},
    {"id": 2, "name": "upstream", "external": true, "position": {"x": 5, "y": 6}}
  ],
  "links": [
    {"a": 0, "b": 1, "weight": 100},
    {"a": 1, "b": 2, "weight": 10}
  ],
  "sessions": [
    {"from": 0, "to": 1, "kind": "ibgp-peer"},
    {"from": 1, "to": 2, "kind": "ebgp"}
  ],
  "prefixes": ["10.0.0.0/8"],
  "next_hops": [{"prefix": "10.0.0.0/8", "router": 0, "via": [1]}],
  "propagations": [{"prefix": "10.0.0.0/8", "from": 2, "to": 1}]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	return New(DefaultConfig(), runner, share.NewMemoryStore(), logger)
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body errorResponse
	decodeBody(t, resp, &body)
	return body.Error.Code
}

func TestHandleExport(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	req := `{"snapshot": ` + sampleSnapshot + `, "formats": ["tex", "json"]}`
	resp := postJSON(t, ts.URL+"/api/v1/export", req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}

	var body exportResponse
	decodeBody(t, resp, &body)

	if body.SnapshotHash == "" {
		t.Error("expected non-empty snapshot hash")
	}
	if body.RouterCount != 3 {
		t.Errorf("expected 3 routers, got %d", body.RouterCount)
	}
	if body.LinkCount != 2 {
		t.Errorf("expected 2 links, got %d", body.LinkCount)
	}
	if len(body.Artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(body.Artifacts))
	}

	tex := string(body.Artifacts["tex"])
	if !strings.Contains(tex, `\documentclass`) {
		t.Error("tex artifact missing preamble")
	}
	if !strings.Contains(tex, `(r0) {}; % atlanta`) {
		t.Errorf("tex artifact missing router node:\n%s", tex)
	}
	if !strings.Contains(string(body.Artifacts["json"]), "atlanta") {
		t.Error("json artifact missing router name")
	}
}

func TestHandleExport_DefaultFormat(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/v1/export", `{"snapshot": `+sampleSnapshot+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var body exportResponse
	decodeBody(t, resp, &body)
	if len(body.Artifacts) != 1 {
		t.Fatalf("expected 1 artifact, got %d", len(body.Artifacts))
	}
	if _, ok := body.Artifacts["tex"]; !ok {
		t.Error("expected tex artifact by default")
	}
}

func TestHandleExport_Overlays(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	req := `{"snapshot": ` + sampleSnapshot + `, "overlays": ["next-hops"], "prefix": "10.0.0.0/8"}`
	resp := postJSON(t, ts.URL+"/api/v1/export", req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var body exportResponse
	decodeBody(t, resp, &body)
	tex := string(body.Artifacts["tex"])
	if !strings.Contains(tex, "\n\\def\\showNextHop{1}\n") {
		t.Error("next-hop toggle not activated")
	}
	if !strings.Contains(tex, `\def\prefix10_0_0_0_8{1}`) {
		t.Error("prefix selection not activated")
	}
}

func TestHandleExport_Errors(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed body",
			body:       `{"snapshot": no`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "missing snapshot",
			body:       `{"formats": ["tex"]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "unknown format",
			body:       `{"snapshot": ` + sampleSnapshot + `, "formats": ["png"]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_FORMAT",
		},
		{
			name:       "unknown overlay",
			body:       `{"snapshot": ` + sampleSnapshot + `, "overlays": ["ospf"]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_OVERLAY",
		},
		{
			name:       "unknown prefix",
			body:       `{"snapshot": ` + sampleSnapshot + `, "prefix": "192.168.0.0/16"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_PREFIX",
		},
		{
			name:       "bad snapshot",
			body:       `{"snapshot": {"routers": [{"id": 7}]}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_SNAPSHOT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/v1/export", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if code := errorCode(t, resp); code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, code)
			}
		})
	}
}

func TestShareLifecycle(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	// Create.
	req := `{"name": "lab topology", "snapshot": ` + sampleSnapshot + `}`
	resp := postJSON(t, ts.URL+"/api/v1/shares", req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.StatusCode)
	}

	var created shareResponse
	decodeBody(t, resp, &created)
	if created.ID == "" {
		t.Fatal("expected generated share id")
	}
	if created.Name != "lab topology" {
		t.Errorf("expected name to round-trip, got %q", created.Name)
	}
	if len(created.Snapshot) != 0 || created.Document != "" {
		t.Error("create response should not include share contents")
	}
	if !created.ExpiresAt.After(created.CreatedAt) {
		t.Error("expected expiry after creation time")
	}

	// Fetch.
	resp, err := http.Get(ts.URL + "/api/v1/shares/" + created.ID)
	if err != nil {
		t.Fatalf("GET share failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var fetched shareResponse
	decodeBody(t, resp, &fetched)
	if fetched.ID != created.ID {
		t.Errorf("expected id %s, got %s", created.ID, fetched.ID)
	}
	if !strings.Contains(string(fetched.Snapshot), "atlanta") {
		t.Error("fetched share missing snapshot contents")
	}
	if !strings.Contains(fetched.Document, `\documentclass`) {
		t.Error("fetched share missing rendered document")
	}

	// Delete.
	del, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/shares/"+created.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err = http.DefaultClient.Do(del)
	if err != nil {
		t.Fatalf("DELETE share failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.StatusCode)
	}

	// Fetch after delete.
	resp, err = http.Get(ts.URL + "/api/v1/shares/" + created.ID)
	if err != nil {
		t.Fatalf("GET share failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "SHARE_NOT_FOUND" {
		t.Errorf("expected code SHARE_NOT_FOUND, got %s", code)
	}
}

func TestHandleCreateShare_BadName(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	req := `{"name": "line\nbreak", "snapshot": ` + sampleSnapshot + `}`
	resp := postJSON(t, ts.URL+"/api/v1/shares", req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "INVALID_SHARE" {
		t.Errorf("expected code INVALID_SHARE, got %s", code)
	}
}

func TestHandleGetShare_Missing(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/shares/no-such-id")
	if err != nil {
		t.Fatalf("GET share failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "SHARE_NOT_FOUND" {
		t.Errorf("expected code SHARE_NOT_FOUND, got %s", code)
	}
}

func TestHandleHealthz(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	decodeBody(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.metrics.Register()
	t.Cleanup(observability.Reset)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	// Generate some traffic so counters have series to expose.
	resp := postJSON(t, ts.URL+"/api/v1/export", `{"snapshot": `+sampleSnapshot+`}`)
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, metric := range []string{
		"bgpfig_http_requests_total",
		"bgpfig_snapshot_loads_total",
		"bgpfig_renders_total",
	} {
		if !strings.Contains(text, metric) {
			t.Errorf("metrics output missing %s", metric)
		}
	}
	if !strings.Contains(text, `path="/api/v1/export"`) {
		t.Error("expected route pattern as path label")
	}
}

func TestGracefulShutdown(t *testing.T) {
	s := newTestServer(t)
	s.cfg.Addr = "127.0.0.1:0"
	t.Cleanup(observability.Reset)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	// Give the listener a moment to start, then stop it.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeInvalidSnapshot, http.StatusBadRequest},
		{errors.ErrCodeInvalidPrefix, http.StatusBadRequest},
		{errors.ErrCodeShareNotFound, http.StatusNotFound},
		{errors.ErrCodeFileNotFound, http.StatusNotFound},
		{errors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeStore, http.StatusInternalServerError},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
