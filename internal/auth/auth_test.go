// AngelaMos | 2026
// auth_test.go

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/esimphony/internal/config"
	"github.com/carterperez-dev/esimphony/internal/core"
	"github.com/carterperez-dev/esimphony/internal/middleware"
	"github.com/carterperez-dev/esimphony/internal/session"
	"github.com/carterperez-dev/esimphony/internal/storage"
)

func testDeviceConfig(t *testing.T) config.DeviceConfig {
	t.Helper()
	dir := t.TempDir()
	return config.DeviceConfig{
		PrivateKeyPath: filepath.Join(dir, "keys", "private.pem"),
		PublicKeyPath:  filepath.Join(dir, "keys", "public.pem"),
		GenerateKeys:   true,
		TokenExpire:    time.Hour,
		Issuer:         "esimphony-test",
		Audience:       "esimphony-test-views",
	}
}

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	cfg := testDeviceConfig(t)
	if err := EnsureKeyPair(cfg); err != nil {
		t.Fatalf("EnsureKeyPair() error = %v", err)
	}
	m, err := NewJWTManager(cfg)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDeviceTokenRoundTrip(t *testing.T) {
	m := newTestManager(t)

	issued, err := m.CreateDeviceToken()
	if err != nil {
		t.Fatalf("CreateDeviceToken() error = %v", err)
	}

	claims, err := m.VerifyDeviceToken(context.Background(), issued.DeviceToken)
	if err != nil {
		t.Fatalf("VerifyDeviceToken() error = %v", err)
	}
	if claims.DeviceID != issued.DeviceID {
		t.Errorf("device = %s, want %s", claims.DeviceID, issued.DeviceID)
	}
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	m := newTestManager(t)
	other := newTestManager(t)

	issued, err := other.CreateDeviceToken()
	if err != nil {
		t.Fatal(err)
	}

	tests := map[string]string{
		"garbage":     "not-a-token",
		"foreign key": issued.DeviceToken,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := m.VerifyDeviceToken(context.Background(), token)
			if !errors.Is(err, core.ErrTokenInvalid) {
				t.Errorf("error = %v, want ErrTokenInvalid", err)
			}
		})
	}
}

func TestEnsureKeyPairWithoutGeneration(t *testing.T) {
	cfg := testDeviceConfig(t)
	cfg.GenerateKeys = false

	if err := EnsureKeyPair(cfg); err == nil {
		t.Error("expected error for missing key with generation disabled")
	}
}

func newStore() *session.Store {
	return session.NewManager(storage.NewMemoryBackend(), quietLogger()).For("device-1")
}

func TestServiceLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil, quietLogger())

	store := newStore()
	if _, err := svc.Login(ctx, store, LoginRequest{Email: "exist-plan@esim.demo", Password: "bad"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := store.Gate(ctx); !errors.Is(err, session.ErrUnauthenticated) {
		t.Error("failed login opened the gate")
	}

	resp, err := svc.Login(ctx, store, LoginRequest{Email: "exist-plan@esim.demo", Password: "123456"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.Redirect != "/dashboard" {
		t.Errorf("redirect = %s", resp.Redirect)
	}

	u, err := store.Gate(ctx)
	if err != nil {
		t.Fatalf("Gate() error = %v", err)
	}
	if u.ActivePlan == nil || u.ActivePlan.Name != "Euro Data Pass" {
		t.Errorf("seeded plan = %+v", u.ActivePlan)
	}
}

func TestServiceRegister(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil, quietLogger())

	tests := []struct {
		name     string
		req      RegisterRequest
		wantErr  error
		wantName string
	}{
		{
			name:    "mismatch",
			req:     RegisterRequest{FirstName: "Ana", Email: "ana@x.io", Password: "secret1", ConfirmPassword: "secret2"},
			wantErr: ErrPasswordMismatch,
		},
		{
			name:    "too short",
			req:     RegisterRequest{FirstName: "Ana", Email: "ana@x.io", Password: "abc", ConfirmPassword: "abc"},
			wantErr: ErrPasswordTooShort,
		},
		{
			name:     "valid",
			req:      RegisterRequest{FirstName: " Ana ", Email: "Ana@X.io", Password: "secret1", ConfirmPassword: "secret1"},
			wantName: "Ana",
		},
		{
			name:     "punctuation kept",
			req:      RegisterRequest{FirstName: "O'Brien & Co", Email: "ana@x.io", Password: "secret1", ConfirmPassword: "secret1"},
			wantName: "O'Brien & Co",
		},
		{
			name:     "markup stripped",
			req:      RegisterRequest{FirstName: "<b>Ana</b>", Email: "ana@x.io", Password: "secret1", ConfirmPassword: "secret1"},
			wantName: "Ana",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore()
			resp, err := svc.Register(ctx, store, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Register() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}

			u := resp.User
			if u.FirstName != tt.wantName || u.Email != "ana@x.io" {
				t.Errorf("user = %+v", u)
			}
			stored, _ := store.Load(ctx)
			if stored.FirstName != tt.wantName {
				t.Errorf("stored first name = %q, want %q", stored.FirstName, tt.wantName)
			}
			if !u.Balance.IsZero() || u.ActivePlan != nil || u.AccountType != session.AccountNew {
				t.Errorf("new user not blank: %+v", u)
			}
			if _, err := store.Gate(ctx); err != nil {
				t.Errorf("Gate() after register error = %v", err)
			}
		})
	}
}

func TestHandlerFlow(t *testing.T) {
	m := newTestManager(t)
	manager := session.NewManager(storage.NewMemoryBackend(), quietLogger())
	h := NewHandler(NewService(m, quietLogger()))

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		h.RegisterRoutes(r, middleware.Device(m, manager))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/devices", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("issue device status = %d", rec.Code)
	}

	var issued struct {
		Data DeviceTokenResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&issued); err != nil {
		t.Fatal(err)
	}
	bearer := "Bearer " + issued.Data.DeviceToken

	post := func(path string, body any) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
		req.Header.Set("Authorization", bearer)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	if rec := post("/v1/auth/logout", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("logout before login status = %d, want 401", rec.Code)
	}

	if rec := post("/v1/auth/login", LoginRequest{Email: "nobalance@esim.demo", Password: "nope"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", rec.Code)
	}

	if rec := post("/v1/auth/login", LoginRequest{Email: "not-an-email", Password: "123456"}); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed email status = %d, want 400", rec.Code)
	}

	if rec := post("/v1/auth/login", LoginRequest{Email: "nobalance@esim.demo", Password: "123456"}); rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}

	if rec := post("/v1/auth/logout", nil); rec.Code != http.StatusOK {
		t.Errorf("logout status = %d", rec.Code)
	}

	if _, ok := manager.For(issued.Data.DeviceID).Load(context.Background()); ok {
		t.Error("session record survived logout")
	}
}
