// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/esimphony/internal/core"
	"github.com/carterperez-dev/esimphony/internal/session"
	"github.com/carterperez-dev/esimphony/internal/storage"
)

type fakeVerifier struct {
	verifyFn func(token string) (*DeviceClaims, error)
}

func (f *fakeVerifier) VerifyDeviceToken(_ context.Context, token string) (*DeviceClaims, error) {
	return f.verifyFn(token)
}

func acceptAll() *fakeVerifier {
	return &fakeVerifier{verifyFn: func(token string) (*DeviceClaims, error) {
		if token == "expired" {
			return nil, fmt.Errorf("verify: %w", core.ErrTokenExpired)
		}
		return &DeviceClaims{DeviceID: "device-" + token}, nil
	}}
}

func newManager() *session.Manager {
	return session.NewManager(
		storage.NewMemoryBackend(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) core.ErrorBody {
	t.Helper()
	var resp core.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == nil {
		t.Fatal("response carries no error body")
	}
	return *resp.Error
}

func TestDevice(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"missing token", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"expired token", "Bearer expired", http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"valid token", "Bearer abc", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotDevice string
			var gotStore *session.Store
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotDevice = GetDeviceID(r.Context())
				gotStore = GetStore(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			Device(acceptAll(), newManager())(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if body := decodeError(t, rec); body.Code != tt.wantCode {
					t.Errorf("code = %s, want %s", body.Code, tt.wantCode)
				}
				return
			}
			if gotDevice != "device-abc" {
				t.Errorf("device = %q", gotDevice)
			}
			if gotStore == nil || gotStore.KV().Scope() != "device-abc" {
				t.Error("store not scoped to the device")
			}
		})
	}
}

func TestGate(t *testing.T) {
	manager := newManager()
	called := false
	var seen *session.User

	handler := Device(acceptAll(), manager)(Gate(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			seen = GetUser(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	))

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("view ran without a session")
	}
	body := decodeError(t, rec)
	if body.Code != "LOGIN_REQUIRED" || body.Redirect != LoginPath {
		t.Errorf("error body = %+v", body)
	}
	if loc := rec.Header().Get("Location"); loc != LoginPath {
		t.Errorf("Location = %q", loc)
	}

	user := &session.User{
		FirstName:   "Sarah",
		Email:       "exist-topup@esim.demo",
		Balance:     decimal.NewFromInt(25),
		AccountType: session.AccountHasBalance,
	}
	if err := manager.For("device-abc").Authenticate(context.Background(), user); err != nil {
		t.Fatal(err)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !called {
		t.Fatalf("status = %d, called = %v", rec.Code, called)
	}
	if seen == nil || seen.Email != user.Email {
		t.Errorf("user in context = %+v", seen)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("request id = %q, header = %q", seen, rec.Header().Get(RequestIDHeader))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if len(seen) != 36 {
		t.Errorf("generated request id = %q", seen)
	}
}
