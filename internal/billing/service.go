// AngelaMos | 2026
// service.go

package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/esimphony/internal/config"
	"github.com/carterperez-dev/esimphony/internal/fixtures"
	"github.com/carterperez-dev/esimphony/internal/session"
	"github.com/carterperez-dev/esimphony/internal/simulate"
)

// Top-up origins recorded before the client is sent to the top-up view.
const (
	SourcePlansBalance       = "tariff-details-balance"
	SourceDashboard          = "home-dashboard"
	SourceDashboardRecommend = "home-dashboard-recommendation"

	PlansPath     = "/plans"
	DashboardPath = "/dashboard"
	TopUpPath     = "/top-up"
)

var presetAmounts = []int{10, 25, 50, 100}

type Config struct {
	TopUpLatency       time.Duration
	CardLatency        time.Duration
	WalletLatency      time.Duration
	PurchaseLatency    time.Duration
	AutoRenewLatency   time.Duration
	CardFailureRate    float64
	WalletFailureRate  float64
	MinTopUp           decimal.Decimal
	MaxTopUp           decimal.Decimal
	DefaultRenewAmount decimal.Decimal
	Source             simulate.Source
}

func ConfigFrom(sim config.SimulationConfig) Config {
	return Config{
		TopUpLatency:       sim.TopUpLatency,
		CardLatency:        sim.CardLatency,
		WalletLatency:      sim.WalletLatency,
		PurchaseLatency:    sim.PurchaseLatency,
		AutoRenewLatency:   sim.AutoRenewLatency,
		CardFailureRate:    sim.CardFailureRate,
		WalletFailureRate:  sim.WalletFailureRate,
		MinTopUp:           decimal.NewFromFloat(sim.MinTopUp),
		MaxTopUp:           decimal.NewFromFloat(sim.MaxTopUp),
		DefaultRenewAmount: decimal.NewFromFloat(sim.DefaultRenewAmount),
	}
}

// Notifier receives a notice after a balance changing action.
type Notifier interface {
	Push(ctx context.Context, store *session.Store, n fixtures.Notification)
}

type Service struct {
	exec     *simulate.Executor
	cfg      Config
	notifier Notifier
	logger   *slog.Logger
}

func NewService(
	exec *simulate.Executor,
	cfg Config,
	notifier Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		exec:     exec,
		cfg:      cfg,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *Service) validAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() ||
		amount.LessThan(s.cfg.MinTopUp) ||
		amount.GreaterThan(s.cfg.MaxTopUp) {
		return fmt.Errorf(
			"%w: %s outside [%s, %s]",
			ErrInvalidAmount,
			amount,
			s.cfg.MinTopUp,
			s.cfg.MaxTopUp,
		)
	}
	return nil
}

func (s *Service) View(ctx context.Context, store *session.Store, user *session.User) *TopUpView {
	view := &TopUpView{
		Balance:       user.Balance,
		PresetAmounts: presetAmounts,
		MinAmount:     s.cfg.MinTopUp,
		MaxAmount:     s.cfg.MaxTopUp,
	}

	if amount, ok := store.RecommendedAmount(ctx); ok {
		view.RecommendedAmount = &amount
	}
	if source, ok := store.TopUpSource(ctx); ok {
		view.Source = source
	}
	if plan, ok := store.PlanChange(ctx); ok {
		view.PendingPlan = plan
	}
	if card, ok := store.LastCard(ctx); ok {
		view.SavedCard = card
	}

	return view
}

// TopUp is the base top-up flow. It always succeeds once the amount is
// accepted.
func (s *Service) TopUp(
	ctx context.Context,
	store *session.Store,
	user *session.User,
	amount decimal.Decimal,
) (*TopUpResult, error) {
	if err := s.validAmount(amount); err != nil {
		return nil, err
	}

	return s.credit(ctx, store, user, amount, "", simulate.Action{
		Name:    "topup",
		Latency: s.cfg.TopUpLatency,
		Policy:  simulate.AlwaysSucceed{},
	})
}

// Pay is the top-up routed through a payment method. Declines leave the
// record untouched.
func (s *Service) Pay(
	ctx context.Context,
	store *session.Store,
	user *session.User,
	req PayRequest,
) (*TopUpResult, error) {
	if err := s.validAmount(req.Amount); err != nil {
		return nil, err
	}

	switch req.Method {
	case MethodApple, MethodGoogle:
		return s.credit(ctx, store, user, req.Amount, req.Method, simulate.Action{
			Name:    "payment." + string(req.Method),
			Latency: s.cfg.WalletLatency,
			Policy:  simulate.FailureRate(s.cfg.WalletFailureRate, s.cfg.Source),
			Failure: &PaymentError{
				Method:  req.Method,
				Message: req.Method.label() + " payment failed. Please try again.",
			},
		})

	case MethodCard:
		var newCard *CardDetails
		if req.UseSavedCard {
			if _, ok := store.LastCard(ctx); !ok {
				return nil, ErrNoSavedCard
			}
		} else {
			if req.Card == nil {
				return nil, &CardError{Message: "Please enter cardholder name"}
			}
			if err := req.Card.Validate(); err != nil {
				return nil, err
			}
			newCard = req.Card
		}

		return s.credit(ctx, store, user, req.Amount, MethodCard, simulate.Action{
			Name:    "payment.card",
			Latency: s.cfg.CardLatency,
			Policy:  simulate.FailureRate(s.cfg.CardFailureRate, s.cfg.Source),
			Failure: &PaymentError{
				Method:  MethodCard,
				Message: "Payment failed. Please check your card details and try again.",
			},
			Apply: func(ctx context.Context) error {
				if newCard != nil {
					store.SetLastCard(ctx, newCard.Summary())
				}
				return nil
			},
		})

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, req.Method)
	}
}

// credit runs action and, on success, adds amount to the balance and
// settles the pending top-up origin.
func (s *Service) credit(
	ctx context.Context,
	store *session.Store,
	user *session.User,
	amount decimal.Decimal,
	method PaymentMethod,
	action simulate.Action,
) (*TopUpResult, error) {
	updated := user.Clone()
	extra := action.Apply

	action.Apply = func(ctx context.Context) error {
		if extra != nil {
			if err := extra(ctx); err != nil {
				return err
			}
		}
		updated.Balance = updated.Balance.Add(amount)
		return store.Save(ctx, updated)
	}

	if _, err := s.exec.Run(ctx, action); err != nil {
		return nil, err
	}

	result := &TopUpResult{
		User:     updated,
		Amount:   amount,
		Method:   method,
		Redirect: DashboardPath,
	}

	source, ok := store.TakeTopUpSource(ctx)
	if ok {
		result.Source = source
		if source == SourcePlansBalance {
			result.Redirect = PlansPath
		}
	}
	if plan, ok := store.PlanChange(ctx); ok {
		result.PendingPlan = plan
	}
	store.ClearRecommendedAmount(ctx)

	if s.notifier != nil {
		s.notifier.Push(ctx, store, fixtures.Notification{
			Title:   "Payment Successful",
			Message: fmt.Sprintf("Your top-up of $%s has been processed successfully.", amount.StringFixed(2)),
			Type:    fixtures.NotificationSuccess,
		})
	}

	s.logger.InfoContext(ctx, "balance topped up",
		"scope", store.KV().Scope(),
		"amount", amount.StringFixed(2),
		"method", method,
		"balance", updated.Balance.StringFixed(2),
	)

	return result, nil
}

// Purchase buys a plan option. An unaffordable plan is staged for after
// a top-up and nothing else changes.
func (s *Service) Purchase(
	ctx context.Context,
	store *session.Store,
	user *session.User,
	req PurchaseRequest,
) (*PurchaseResult, error) {
	option, ok := fixtures.OptionByID(req.PlanID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlan, req.PlanID)
	}

	region := req.Destination
	if dest, ok := fixtures.DestinationByID(req.Destination); ok {
		region = dest.Name
	}
	plan := option.ToPlan(region, req.AutoRenew)

	if !user.CanAfford(plan.Price) {
		source := SourcePlansBalance
		if req.Origin == "dashboard" {
			source = SourceDashboard
		}
		store.StagePlanChange(ctx, plan)
		store.SetTopUpSource(ctx, source)

		return nil, &InsufficientBalanceError{Price: plan.Price, Balance: user.Balance}
	}

	updated := user.Clone()
	_, err := s.exec.Run(ctx, simulate.Action{
		Name:    "purchase",
		Latency: s.cfg.PurchaseLatency,
		Policy:  simulate.AlwaysSucceed{},
		Apply: func(ctx context.Context) error {
			updated.Balance = updated.Balance.Sub(plan.Price)
			updated.ActivePlan = plan
			updated.AccountType = session.AccountHasPlan
			return store.Save(ctx, updated)
		},
	})
	if err != nil {
		return nil, err
	}

	store.ClearPlanChange(ctx)

	s.logger.InfoContext(ctx, "plan purchased",
		"scope", store.KV().Scope(),
		"plan", plan.ID,
		"price", plan.Price.StringFixed(2),
	)

	return &PurchaseResult{User: updated, Plan: plan, Redirect: DashboardPath}, nil
}

func (s *Service) renewalAmount(user *session.User) decimal.Decimal {
	if user.ActivePlan != nil && user.ActivePlan.Type == session.PlanSubscription {
		return user.ActivePlan.Price
	}
	return s.cfg.DefaultRenewAmount
}

// ToggleAutoRenew flips auto renewal. Enabling schedules a renewal one
// month out; disabling drops the schedule but keeps the preferred
// amount.
func (s *Service) ToggleAutoRenew(
	ctx context.Context,
	store *session.Store,
	user *session.User,
) (*AutoRenewResult, error) {
	updated := user.Clone()

	_, err := s.exec.Run(ctx, simulate.Action{
		Name:    "autorenew.toggle",
		Latency: s.cfg.AutoRenewLatency,
		Policy:  simulate.AlwaysSucceed{},
		Apply: func(ctx context.Context) error {
			renewal := &session.AutoRenewal{}
			if updated.AutoRenewal != nil {
				*renewal = *updated.AutoRenewal
			}

			renewal.Enabled = !renewal.Enabled
			if renewal.Enabled {
				date := s.exec.Clock().Now().AddDate(0, 1, 0)
				amount := s.renewalAmount(updated)
				renewal.RenewalDate = &date
				renewal.RenewalAmount = &amount
			} else {
				renewal.RenewalDate = nil
				renewal.RenewalAmount = nil
			}

			updated.AutoRenewal = renewal
			return store.Save(ctx, updated)
		},
	})
	if err != nil {
		return nil, err
	}

	hasSubscription := updated.ActivePlan != nil &&
		updated.ActivePlan.Type == session.PlanSubscription
	result := &AutoRenewResult{
		User:               updated,
		ShowAmountSelector: updated.AutoRenewal.Enabled && !hasSubscription,
	}
	if result.ShowAmountSelector {
		result.PresetAmounts = presetAmounts
	}

	return result, nil
}

// SetPreferredTopUp enables auto renewal with a weekly top-up amount.
func (s *Service) SetPreferredTopUp(
	ctx context.Context,
	store *session.Store,
	user *session.User,
	amount decimal.Decimal,
) (*AutoRenewResult, error) {
	if err := s.validAmount(amount); err != nil {
		return nil, err
	}

	updated := user.Clone()
	renewal := &session.AutoRenewal{}
	if updated.AutoRenewal != nil {
		*renewal = *updated.AutoRenewal
	}

	date := s.exec.Clock().Now().AddDate(0, 0, 7)
	renewal.Enabled = true
	renewal.PreferredTopUpAmount = &amount
	renewal.RenewalDate = &date
	updated.AutoRenewal = renewal

	if err := store.Save(ctx, updated); err != nil {
		return nil, err
	}

	return &AutoRenewResult{User: updated}, nil
}
