// AngelaMos | 2026
// service.go

package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/esimphony/internal/fixtures"
	"github.com/carterperez-dev/esimphony/internal/session"
	"github.com/carterperez-dev/esimphony/internal/simulate"
)

var ErrUnknownAccount = errors.New("unknown demo account")

const (
	DashboardPath = "/dashboard"
	HomePath      = "/"
)

type AccountSummary struct {
	Email       string              `json:"email"`
	Password    string              `json:"password"`
	Description string              `json:"description"`
	FirstName   string              `json:"firstName"`
	Balance     string              `json:"balance"`
	AccountType session.AccountType `json:"accountType"`
	ESIMStatus  session.ESIMStatus  `json:"esimStatus"`
	HasPlan     bool                `json:"hasPlan"`
}

type LoginResult struct {
	User     *session.User `json:"user"`
	Message  string        `json:"message"`
	Redirect string        `json:"redirect"`
}

type ResetResult struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

type Config struct {
	LoginLatency time.Duration
	ResetLatency time.Duration
}

type Service struct {
	exec   *simulate.Executor
	cfg    Config
	logger *slog.Logger
}

func NewService(exec *simulate.Executor, cfg Config, logger *slog.Logger) *Service {
	return &Service{exec: exec, cfg: cfg, logger: logger}
}

func (s *Service) Accounts() []AccountSummary {
	accounts := fixtures.Accounts()
	out := make([]AccountSummary, 0, len(accounts))

	for _, a := range accounts {
		out = append(out, AccountSummary{
			Email:       a.Email,
			Password:    fixtures.DemoPassword,
			Description: a.Description,
			FirstName:   a.Profile.FirstName,
			Balance:     a.Profile.Balance.StringFixed(2),
			AccountType: a.Profile.AccountType,
			ESIMStatus:  a.Profile.Status(),
			HasPlan:     a.Profile.ActivePlan != nil,
		})
	}

	return out
}

// LoginAs wipes the scope and seeds it with a demo identity without a
// password. The record is written before the simulated delay.
func (s *Service) LoginAs(ctx context.Context, store *session.Store, email string) (*LoginResult, error) {
	account, ok := fixtures.AccountByEmail(email)
	if !ok {
		return nil, ErrUnknownAccount
	}

	store.Reset(ctx)
	if err := store.Authenticate(ctx, account.Profile); err != nil {
		return nil, fmt.Errorf("seed demo account: %w", err)
	}

	if err := s.exec.Delay(ctx, "demo.login", s.cfg.LoginLatency); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "demo login as",
		"scope", store.KV().Scope(),
		"email", account.Email,
	)

	return &LoginResult{
		User:     account.Profile,
		Message:  loginMessage(account.Profile),
		Redirect: DashboardPath,
	}, nil
}

func loginMessage(u *session.User) string {
	msg := fmt.Sprintf("Logged in as %s! Balance: $%s", u.FirstName, u.Balance.StringFixed(2))
	if u.ActivePlan != nil {
		msg += ", Active plan: " + u.ActivePlan.Name
	}
	if u.ESIMStatus != "" {
		msg += ", eSIM: " + string(u.ESIMStatus)
	}
	return msg
}

// Reset waits, then clears every key of the scope.
func (s *Service) Reset(ctx context.Context, store *session.Store) (*ResetResult, error) {
	if err := s.exec.Delay(ctx, "demo.reset", s.cfg.ResetLatency); err != nil {
		return nil, err
	}

	store.Reset(ctx)
	s.logger.InfoContext(ctx, "demo data reset", "scope", store.KV().Scope())

	return &ResetResult{
		Message:  "Demo data has been reset.",
		Redirect: HomePath,
	}, nil
}
