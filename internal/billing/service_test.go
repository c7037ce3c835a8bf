// AngelaMos | 2026
// service_test.go

package billing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/esimphony/internal/fixtures"
	"github.com/carterperez-dev/esimphony/internal/session"
	"github.com/carterperez-dev/esimphony/internal/simulate"
	"github.com/carterperez-dev/esimphony/internal/storage"
)

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

type recordingNotifier struct {
	pushed []fixtures.Notification
}

func (n *recordingNotifier) Push(_ context.Context, _ *session.Store, note fixtures.Notification) {
	n.pushed = append(n.pushed, note)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

// newTestService runs every action instantly. draw decides the
// probabilistic outcomes: 0 always succeeds, 1 always fails.
func newTestService(draw float64) (*Service, *recordingNotifier) {
	notifier := &recordingNotifier{}
	exec := simulate.NewExecutor(clockwork.NewFakeClockAt(testNow), quietLogger())
	cfg := Config{
		CardFailureRate:    0.10,
		WalletFailureRate:  0.05,
		MinTopUp:           decimal.NewFromInt(1),
		MaxTopUp:           decimal.NewFromInt(500),
		DefaultRenewAmount: decimal.NewFromInt(25),
		Source:             fixedSource(draw),
	}
	return NewService(exec, cfg, notifier, quietLogger()), notifier
}

func seededStore(t *testing.T, email string) (*session.Store, *session.User) {
	t.Helper()
	account, ok := fixtures.AccountByEmail(email)
	if !ok {
		t.Fatalf("no demo account %s", email)
	}
	store := session.NewManager(storage.NewMemoryBackend(), quietLogger()).For("device-1")
	if err := store.Authenticate(context.Background(), account.Profile); err != nil {
		t.Fatal(err)
	}
	return store, account.Profile
}

func mustLoad(t *testing.T, store *session.Store) *session.User {
	t.Helper()
	u, ok := store.Load(context.Background())
	if !ok {
		t.Fatal("record missing")
	}
	return u
}

func TestPurchaseWithoutFundsStagesPlan(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(0)
	store, user := seededStore(t, "nobalance@esim.demo")

	_, err := svc.Purchase(ctx, store, user, PurchaseRequest{PlanID: "prepaid-10gb", Destination: "us"})

	var balanceErr *InsufficientBalanceError
	if !errors.As(err, &balanceErr) {
		t.Fatalf("Purchase() error = %v, want InsufficientBalanceError", err)
	}
	if !balanceErr.Shortfall().Equal(decimal.NewFromInt(15)) {
		t.Errorf("shortfall = %s, want 15", balanceErr.Shortfall())
	}

	stored := mustLoad(t, store)
	if !stored.Balance.IsZero() || stored.ActivePlan != nil {
		t.Errorf("record changed: %+v", stored)
	}

	staged, ok := store.PlanChange(ctx)
	if !ok || staged.ID != "prepaid-10gb" || staged.Region != "United States" {
		t.Errorf("staged plan = %+v", staged)
	}
	if source, _ := store.TopUpSource(ctx); source != SourcePlansBalance {
		t.Errorf("top-up source = %q", source)
	}
}

func TestPurchaseFromDashboardRecordsOrigin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(0)
	store, user := seededStore(t, "nobalance@esim.demo")

	_, err := svc.Purchase(ctx, store, user, PurchaseRequest{PlanID: "us-popular", Origin: "dashboard"})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("Purchase() error = %v", err)
	}
	if source, _ := store.TopUpSource(ctx); source != SourceDashboard {
		t.Errorf("top-up source = %q, want %q", source, SourceDashboard)
	}
}

func TestPurchaseDeductsPrice(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(0)
	store, user := seededStore(t, "exist-plan@esim.demo")
	store.StagePlanChange(ctx, &session.Plan{ID: "stale"})

	result, err := svc.Purchase(ctx, store, user, PurchaseRequest{PlanID: "prepaid-25gb", Destination: "eu"})
	if err != nil {
		t.Fatalf("Purchase() error = %v", err)
	}

	stored := mustLoad(t, store)
	if !stored.Balance.Equal(decimal.NewFromInt(20)) {
		t.Errorf("balance = %s, want 20", stored.Balance)
	}
	if stored.ActivePlan == nil || stored.ActivePlan.ID != "prepaid-25gb" || stored.ActivePlan.DataUsed != 0 {
		t.Errorf("active plan = %+v", stored.ActivePlan)
	}
	if stored.AccountType != session.AccountHasPlan {
		t.Errorf("account type = %s", stored.AccountType)
	}
	if result.Redirect != DashboardPath {
		t.Errorf("redirect = %s", result.Redirect)
	}
	if _, ok := store.PlanChange(ctx); ok {
		t.Error("pending plan survived the purchase")
	}
	if !user.Balance.Equal(decimal.NewFromInt(45)) {
		t.Error("caller's record was mutated in place")
	}
}

func TestPurchaseUnknownPlan(t *testing.T) {
	svc, _ := newTestService(0)
	store, user := seededStore(t, "exist-plan@esim.demo")

	_, err := svc.Purchase(context.Background(), store, user, PurchaseRequest{PlanID: "nope"})
	if !errors.Is(err, ErrUnknownPlan) {
		t.Errorf("error = %v, want ErrUnknownPlan", err)
	}
}

func TestTopUpAddsAmountAndRoutesBySource(t *testing.T) {
	tests := []struct {
		name         string
		source       string
		wantRedirect string
	}{
		{name: "plans balance", source: SourcePlansBalance, wantRedirect: PlansPath},
		{name: "dashboard", source: SourceDashboard, wantRedirect: DashboardPath},
		{name: "no source", wantRedirect: DashboardPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, notifier := newTestService(0)
			store, user := seededStore(t, "exist-plan@esim.demo")

			user.Balance = decimal.NewFromInt(20)
			if err := store.Save(ctx, user); err != nil {
				t.Fatal(err)
			}
			if tt.source != "" {
				store.SetTopUpSource(ctx, tt.source)
			}
			store.SetRecommendedAmount(ctx, decimal.NewFromInt(25))

			result, err := svc.TopUp(ctx, store, user, decimal.NewFromInt(25))
			if err != nil {
				t.Fatalf("TopUp() error = %v", err)
			}

			if got := mustLoad(t, store).Balance; !got.Equal(decimal.NewFromInt(45)) {
				t.Errorf("balance = %s, want 45", got)
			}
			if result.Redirect != tt.wantRedirect {
				t.Errorf("redirect = %s, want %s", result.Redirect, tt.wantRedirect)
			}
			if _, ok := store.TopUpSource(ctx); ok {
				t.Error("top-up source not consumed")
			}
			if _, ok := store.RecommendedAmount(ctx); ok {
				t.Error("recommended amount not cleared")
			}
			if len(notifier.pushed) != 1 || notifier.pushed[0].Title != "Payment Successful" {
				t.Errorf("notifications = %+v", notifier.pushed)
			}
		})
	}
}

func TestTopUpRejectsAmounts(t *testing.T) {
	svc, _ := newTestService(0)
	store, user := seededStore(t, "exist-plan@esim.demo")

	for _, amount := range []string{"0", "-5", "0.5", "501"} {
		_, err := svc.TopUp(context.Background(), store, user, decimal.RequireFromString(amount))
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("TopUp(%s) error = %v, want ErrInvalidAmount", amount, err)
		}
	}
	if got := mustLoad(t, store).Balance; !got.Equal(decimal.NewFromInt(45)) {
		t.Errorf("balance = %s", got)
	}
}

func validCard() *CardDetails {
	return &CardDetails{
		CardholderName: "Michael Rodriguez",
		CardNumber:     "4242 4242 4242 4242",
		ExpiryDate:     "12/28",
		CVV:            "123",
	}
}

func TestPayDeclineLeavesRecord(t *testing.T) {
	tests := []struct {
		name    string
		req     PayRequest
		message string
	}{
		{
			name:    "card",
			req:     PayRequest{Amount: decimal.NewFromInt(25), Method: MethodCard, Card: validCard()},
			message: "Payment failed. Please check your card details and try again.",
		},
		{
			name:    "apple",
			req:     PayRequest{Amount: decimal.NewFromInt(25), Method: MethodApple},
			message: "Apple Pay payment failed. Please try again.",
		},
		{
			name:    "google",
			req:     PayRequest{Amount: decimal.NewFromInt(25), Method: MethodGoogle},
			message: "Google Pay payment failed. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, notifier := newTestService(0.999)
			store, user := seededStore(t, "exist-plan@esim.demo")
			store.SetTopUpSource(ctx, SourcePlansBalance)

			_, err := svc.Pay(ctx, store, user, tt.req)

			var payErr *PaymentError
			if !errors.As(err, &payErr) || payErr.Message != tt.message {
				t.Fatalf("Pay() error = %v, want %q", err, tt.message)
			}
			if got := mustLoad(t, store).Balance; !got.Equal(decimal.NewFromInt(45)) {
				t.Errorf("balance = %s, want 45", got)
			}
			if _, ok := store.LastCard(ctx); ok {
				t.Error("declined card was remembered")
			}
			if _, ok := store.TopUpSource(ctx); !ok {
				t.Error("top-up source consumed by a decline")
			}
			if len(notifier.pushed) != 0 {
				t.Error("decline produced a notification")
			}
		})
	}
}

func TestPayByCardRemembersCard(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(0)
	store, user := seededStore(t, "exist-plan@esim.demo")

	result, err := svc.Pay(ctx, store, user, PayRequest{
		Amount: decimal.NewFromInt(10),
		Method: MethodCard,
		Card:   validCard(),
	})
	if err != nil {
		t.Fatalf("Pay() error = %v", err)
	}
	if !result.User.Balance.Equal(decimal.NewFromInt(55)) {
		t.Errorf("balance = %s", result.User.Balance)
	}

	card, ok := store.LastCard(ctx)
	if !ok || card.Last4 != "4242" || card.CardType != "visa" {
		t.Fatalf("saved card = %+v", card)
	}

	if _, err := svc.Pay(ctx, store, result.User, PayRequest{
		Amount:       decimal.NewFromInt(10),
		Method:       MethodCard,
		UseSavedCard: true,
	}); err != nil {
		t.Fatalf("Pay() with saved card error = %v", err)
	}
	if got := mustLoad(t, store).Balance; !got.Equal(decimal.NewFromInt(65)) {
		t.Errorf("balance = %s, want 65", got)
	}
}

func TestPayCardValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *CardDetails)
		message string
	}{
		{name: "holder", mutate: func(c *CardDetails) { c.CardholderName = " " }, message: "Please enter cardholder name"},
		{name: "number", mutate: func(c *CardDetails) { c.CardNumber = "4242 4242" }, message: "Please enter a valid card number"},
		{name: "expiry", mutate: func(c *CardDetails) { c.ExpiryDate = "1/2" }, message: "Please enter a valid expiry date"},
		{name: "cvv", mutate: func(c *CardDetails) { c.CVV = "12" }, message: "Please enter a valid CVV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(0)
			store, user := seededStore(t, "exist-plan@esim.demo")
			card := validCard()
			tt.mutate(card)

			_, err := svc.Pay(context.Background(), store, user, PayRequest{
				Amount: decimal.NewFromInt(10),
				Method: MethodCard,
				Card:   card,
			})

			var cardErr *CardError
			if !errors.As(err, &cardErr) || cardErr.Message != tt.message {
				t.Errorf("Pay() error = %v, want %q", err, tt.message)
			}
		})
	}
}

func TestPaySavedCardMissing(t *testing.T) {
	svc, _ := newTestService(0)
	store, user := seededStore(t, "exist-plan@esim.demo")

	_, err := svc.Pay(context.Background(), store, user, PayRequest{
		Amount:       decimal.NewFromInt(10),
		Method:       MethodCard,
		UseSavedCard: true,
	})
	if !errors.Is(err, ErrNoSavedCard) {
		t.Errorf("error = %v, want ErrNoSavedCard", err)
	}
}

func TestToggleAutoRenew(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(0)
	store, user := seededStore(t, "nobalance@esim.demo")

	on, err := svc.ToggleAutoRenew(ctx, store, user)
	if err != nil {
		t.Fatalf("ToggleAutoRenew() error = %v", err)
	}
	renewal := on.User.AutoRenewal
	if !renewal.Enabled || renewal.RenewalDate == nil || !renewal.RenewalDate.Equal(testNow.AddDate(0, 1, 0)) {
		t.Errorf("enabled renewal = %+v", renewal)
	}
	if renewal.RenewalAmount == nil || !renewal.RenewalAmount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("renewal amount = %v", renewal.RenewalAmount)
	}
	if !on.ShowAmountSelector || len(on.PresetAmounts) == 0 {
		t.Error("amount selector hidden for a non-subscription user")
	}

	off, err := svc.ToggleAutoRenew(ctx, store, on.User)
	if err != nil {
		t.Fatal(err)
	}
	if off.User.AutoRenewal.Enabled || off.User.AutoRenewal.RenewalDate != nil || off.ShowAmountSelector {
		t.Errorf("disabled renewal = %+v", off.User.AutoRenewal)
	}
	if stored := mustLoad(t, store); stored.AutoRenewal.Enabled {
		t.Error("stored renewal still enabled")
	}
}

func TestToggleAutoRenewSubscriptionUsesPlanPrice(t *testing.T) {
	svc, _ := newTestService(0)
	store, user := seededStore(t, "exist-plan@esim.demo")
	user.ActivePlan = &session.Plan{ID: "sub", Name: "Global", Type: session.PlanSubscription, Price: decimal.NewFromInt(60)}
	user.AutoRenewal = nil

	result, err := svc.ToggleAutoRenew(context.Background(), store, user)
	if err != nil {
		t.Fatal(err)
	}
	if !result.User.AutoRenewal.RenewalAmount.Equal(decimal.NewFromInt(60)) {
		t.Errorf("renewal amount = %s", result.User.AutoRenewal.RenewalAmount)
	}
	if result.ShowAmountSelector {
		t.Error("subscription should not offer an amount selector")
	}
}

func TestSetPreferredTopUp(t *testing.T) {
	svc, _ := newTestService(0)
	store, user := seededStore(t, "nobalance@esim.demo")

	result, err := svc.SetPreferredTopUp(context.Background(), store, user, decimal.NewFromInt(50))
	if err != nil {
		t.Fatal(err)
	}
	renewal := mustLoad(t, store).AutoRenewal
	if !renewal.Enabled || !renewal.PreferredTopUpAmount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("renewal = %+v", renewal)
	}
	if !renewal.RenewalDate.Equal(testNow.AddDate(0, 0, 7)) {
		t.Errorf("renewal date = %s", renewal.RenewalDate)
	}
	if result.User.AutoRenewal == nil {
		t.Error("result lacks renewal")
	}
}

func TestRecommendations(t *testing.T) {
	svc, _ := newTestService(0)

	tests := []struct {
		name        string
		plan        *session.Plan
		visible     bool
		urgent      bool
		quick       int64
		wantMessage bool
	}{
		{name: "no plan"},
		{name: "payg", plan: &session.Plan{Type: session.PlanPayg, DaysLeft: 3}},
		{
			name:    "prepaid relaxed",
			plan:    &session.Plan{Type: session.PlanPrepaid, DaysLeft: 18, DataTotal: 20, DataUsed: 8.5},
			visible: true,
			quick:   25,
		},
		{
			name:    "prepaid heavy usage",
			plan:    &session.Plan{Type: session.PlanPrepaid, DaysLeft: 18, DataTotal: 10, DataUsed: 8},
			visible: true,
			urgent:  true,
			quick:   25,
		},
		{
			name:        "subscription expiring",
			plan:        &session.Plan{Name: "Global", Type: session.PlanSubscription, DaysLeft: 1, Price: decimal.NewFromInt(60)},
			visible:     true,
			urgent:      true,
			quick:       60,
			wantMessage: true,
		},
		{
			name:        "subscription without price",
			plan:        &session.Plan{Type: session.PlanSubscription, DaysLeft: 5},
			visible:     true,
			urgent:      true,
			quick:       35,
			wantMessage: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := svc.Recommendations(&session.User{ActivePlan: tt.plan})
			if view.Visible != tt.visible {
				t.Fatalf("visible = %v, want %v", view.Visible, tt.visible)
			}
			if !tt.visible {
				return
			}
			if view.Urgent != tt.urgent {
				t.Errorf("urgent = %v, want %v", view.Urgent, tt.urgent)
			}
			if !view.QuickTopUp.Equal(decimal.NewFromInt(tt.quick)) {
				t.Errorf("quick top-up = %s, want %d", view.QuickTopUp, tt.quick)
			}
			if (view.Message != "") != tt.wantMessage {
				t.Errorf("message = %q", view.Message)
			}
			if len(view.Recommendations) != 3 {
				t.Errorf("recommendations = %d", len(view.Recommendations))
			}
		})
	}
}

func TestRecommendationMessagePlural(t *testing.T) {
	svc, _ := newTestService(0)

	view := svc.Recommendations(&session.User{ActivePlan: &session.Plan{Type: session.PlanPrepaid, DaysLeft: 1}})
	want := "Your current plan expires in 1 day. Top up to purchase a new plan."
	if view.Message != want {
		t.Errorf("message = %q, want %q", view.Message, want)
	}
}

func TestSelectRecommendation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(0)
	store, _ := seededStore(t, "exist-plan@esim.demo")

	result, err := svc.SelectRecommendation(ctx, store, decimal.NewFromInt(50))
	if err != nil {
		t.Fatal(err)
	}
	if result.Redirect != TopUpPath {
		t.Errorf("redirect = %s", result.Redirect)
	}

	view := svc.View(ctx, store, mustLoad(t, store))
	if view.RecommendedAmount == nil || !view.RecommendedAmount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("recommended amount = %v", view.RecommendedAmount)
	}
	if view.Source != SourceDashboardRecommend {
		t.Errorf("source = %s", view.Source)
	}
}

func TestPlansViewConsumesHint(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(0)
	store, user := seededStore(t, "exist-plan@esim.demo")
	store.KV().Set(ctx, storage.KeyShowUpdatePlan, true)

	first := svc.Plans(ctx, store, user)
	if !first.ShowUpdatePlan {
		t.Error("hint not surfaced")
	}
	if second := svc.Plans(ctx, store, user); second.ShowUpdatePlan {
		t.Error("hint surfaced twice")
	}
	if len(first.Options[session.PlanPrepaid]) != 4 || first.Balance != "45.00" {
		t.Errorf("view = %+v", first)
	}
}
