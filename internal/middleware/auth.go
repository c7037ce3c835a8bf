// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/carterperez-dev/esimphony/internal/core"
	"github.com/carterperez-dev/esimphony/internal/session"
)

const (
	DeviceIDKey contextKey = "device_id"
	ClaimsKey   contextKey = "device_claims"
	StoreKey    contextKey = "session_store"
	UserKey     contextKey = "session_user"

	LoginPath = "/login"
)

type TokenVerifier interface {
	VerifyDeviceToken(ctx context.Context, token string) (*DeviceClaims, error)
}

type DeviceClaims struct {
	DeviceID string
	TokenID  string
}

// Device resolves the bearer device token into the storage scope of
// that device and attaches its session store to the request.
func Device(
	verifier TokenVerifier,
	sessions *session.Manager,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing device token"),
				)
				return
			}

			claims, err := verifier.VerifyDeviceToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, DeviceIDKey, claims.DeviceID)
			ctx = context.WithValue(ctx, ClaimsKey, claims)
			ctx = context.WithValue(ctx, StoreKey, sessions.For(claims.DeviceID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func LoginRequiredError() *core.AppError {
	return core.NewAppError(
		session.ErrUnauthenticated,
		"login required",
		http.StatusUnauthorized,
		"LOGIN_REQUIRED",
	).WithRedirect(LoginPath)
}

// Gate admits a protected view only for an authenticated session. The
// check runs once per request and the loaded record travels in the
// request context.
func Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := GetStore(r.Context())
		if store == nil {
			core.JSONError(w, core.UnauthorizedError("missing device token"))
			return
		}

		user, err := store.Gate(r.Context())
		if err != nil {
			core.JSONError(w, LoginRequiredError())
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetDeviceID(ctx context.Context) string {
	if id, ok := ctx.Value(DeviceIDKey).(string); ok {
		return id
	}
	return ""
}

func GetClaims(ctx context.Context) *DeviceClaims {
	if claims, ok := ctx.Value(ClaimsKey).(*DeviceClaims); ok {
		return claims
	}
	return nil
}

func GetStore(ctx context.Context) *session.Store {
	if store, ok := ctx.Value(StoreKey).(*session.Store); ok {
		return store
	}
	return nil
}

// GetUser returns the record loaded by Gate. Views own this copy and
// may mutate it before saving.
func GetUser(ctx context.Context) *session.User {
	if u, ok := ctx.Value(UserKey).(*session.User); ok {
		return u
	}
	return nil
}

// WithSession attaches a store and, when non-nil, a gated user. Used
// where a request reaches a view without the HTTP middleware chain.
func WithSession(
	ctx context.Context,
	store *session.Store,
	user *session.User,
) context.Context {
	ctx = context.WithValue(ctx, StoreKey, store)
	if user != nil {
		ctx = context.WithValue(ctx, UserKey, user)
	}
	return ctx
}
