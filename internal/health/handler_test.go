// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/esimphony/internal/storage"
)

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadiness(t *testing.T) {
	failing := CheckerFunc(func(context.Context) error { return errors.New("down") })

	tests := []struct {
		name       string
		deps       []Dependency
		wantStatus int
		wantBody   string
	}{
		{
			name:       "memory backend",
			deps:       []Dependency{{Name: "storage", Checker: storage.NewMemoryBackend()}},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name: "one dependency down",
			deps: []Dependency{
				{Name: "storage", Checker: storage.NewMemoryBackend()},
				{Name: "redis", Checker: failing},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "degraded",
		},
		{
			name:       "unconfigured",
			deps:       []Dependency{{Name: "redis"}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "degraded",
		},
		{
			name:       "no dependencies",
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(tt.deps...), "/readyz")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body ReadinessResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Status != tt.wantBody {
				t.Errorf("body status = %s, want %s", body.Status, tt.wantBody)
			}
			if len(body.Checks) != len(tt.deps) {
				t.Errorf("checks = %d, want %d", len(body.Checks), len(tt.deps))
			}
		})
	}
}

func TestShutdownFlipsProbes(t *testing.T) {
	h := NewHandler()

	if rec := serve(h, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("liveness = %d", rec.Code)
	}

	h.SetReady(false)
	if rec := serve(h, "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("not ready readiness = %d", rec.Code)
	}

	h.SetShutdown(true)
	for _, path := range []string{"/healthz", "/livez", "/readyz"} {
		if rec := serve(h, path); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s during shutdown = %d", path, rec.Code)
		}
	}
}
