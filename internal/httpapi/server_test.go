package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"llamamcp/pkg/types"
)

type fakeService struct {
	pid       int
	running   bool
	health    *types.Health
	healthErr error
}

func (f *fakeService) Running() (int, bool) { return f.pid, f.running }

func (f *fakeService) Health(ctx context.Context) (*types.Health, error) {
	return f.health, f.healthErr
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	mux := NewMux(&fakeService{}, Options{})
	rec := get(t, mux, "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
}

func TestReadyzUpstreamOK(t *testing.T) {
	mux := NewMux(&fakeService{health: &types.Health{Status: types.HealthOK}}, Options{})
	if rec := get(t, mux, "/readyz"); rec.Code != http.StatusOK {
		t.Fatalf("readyz: %d", rec.Code)
	}
}

func TestReadyzUpstreamLoading(t *testing.T) {
	mux := NewMux(&fakeService{health: &types.Health{Status: types.HealthLoading}}, Options{})
	if rec := get(t, mux, "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz while loading: %d", rec.Code)
	}
}

func TestReadyzUpstreamDown(t *testing.T) {
	mux := NewMux(&fakeService{healthErr: errors.New("connection refused")}, Options{})
	if rec := get(t, mux, "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz while down: %d", rec.Code)
	}
}

func TestStatusSnapshot(t *testing.T) {
	svc := &fakeService{pid: 4321, running: true, health: &types.Health{Status: types.HealthOK, SlotsIdle: 2}}
	rec := get(t, NewMux(svc, Options{}), "/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.ProcessRunning || resp.ProcessPID != 4321 {
		t.Fatalf("process state: %+v", resp)
	}
	if resp.Upstream == nil || resp.Upstream.SlotsIdle != 2 {
		t.Fatalf("upstream state: %+v", resp)
	}
}

func TestStatusUpstreamError(t *testing.T) {
	svc := &fakeService{healthErr: errors.New("dial tcp: connection refused")}
	rec := get(t, NewMux(svc, Options{}), "/status")
	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ProcessRunning || resp.Upstream != nil || !strings.Contains(resp.UpstreamError, "refused") {
		t.Fatalf("unexpected snapshot: %+v", resp)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mux := NewMux(&fakeService{}, Options{})
	rec := get(t, mux, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "llamamcp_http_requests_total") {
		t.Fatalf("metrics body missing counter")
	}
}

func TestCORSHeaders(t *testing.T) {
	mux := NewMux(&fakeService{}, Options{CORSEnabled: true, CORSOrigins: []string{"https://admin.example"}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://admin.example")
	mux.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}
