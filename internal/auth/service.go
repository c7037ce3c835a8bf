// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/esimphony/internal/fixtures"
	"github.com/carterperez-dev/esimphony/internal/middleware"
	"github.com/carterperez-dev/esimphony/internal/session"
)

const (
	minPasswordLength = 6
	dashboardPath     = "/dashboard"
	homePath          = "/"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password too short")
)

type TokenIssuer interface {
	CreateDeviceToken() (*DeviceTokenResponse, error)
}

type Service struct {
	issuer TokenIssuer
	logger *slog.Logger
}

func NewService(issuer TokenIssuer, logger *slog.Logger) *Service {
	return &Service{issuer: issuer, logger: logger}
}

// IssueDevice creates the identity of a new client and with it an
// empty storage scope.
func (s *Service) IssueDevice(ctx context.Context) (*DeviceTokenResponse, error) {
	token, err := s.issuer.CreateDeviceToken()
	if err != nil {
		return nil, fmt.Errorf("issue device token: %w", err)
	}

	s.logger.InfoContext(ctx, "device issued", "device_id", token.DeviceID)
	return token, nil
}

// Login seeds the session record of the device from a demo identity.
func (s *Service) Login(
	ctx context.Context,
	store *session.Store,
	req LoginRequest,
) (*SessionResponse, error) {
	user, err := fixtures.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, fixtures.ErrUnknownAccount) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate demo account: %w", err)
	}

	if err := store.Authenticate(ctx, user); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.logger.InfoContext(ctx, "demo login",
		"scope", store.KV().Scope(),
		"email", user.Email,
	)

	return &SessionResponse{User: user, Redirect: dashboardPath}, nil
}

// Register creates a fresh record with no balance and no plan. The
// password only gates the form and is never stored.
func (s *Service) Register(
	ctx context.Context,
	store *session.Store,
	req RegisterRequest,
) (*SessionResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	user := &session.User{
		FirstName:   strings.TrimSpace(middleware.SanitizeText(req.FirstName)),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Balance:     decimal.Zero,
		AccountType: session.AccountNew,
	}

	if err := store.Authenticate(ctx, user); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &SessionResponse{User: user, Redirect: dashboardPath}, nil
}

func (s *Service) Logout(ctx context.Context, store *session.Store) *LogoutResponse {
	store.Logout(ctx)
	return &LogoutResponse{Redirect: homePath}
}
