// AngelaMos | 2026
// service_test.go

package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/esimphony/internal/billing"
	"github.com/carterperez-dev/esimphony/internal/esim"
	"github.com/carterperez-dev/esimphony/internal/fixtures"
	"github.com/carterperez-dev/esimphony/internal/middleware"
	"github.com/carterperez-dev/esimphony/internal/session"
	"github.com/carterperez-dev/esimphony/internal/storage"
)

type fakeRecommender struct {
	viewFn func(u *session.User) *billing.RecommendationsView
}

func (f *fakeRecommender) Recommendations(u *session.User) *billing.RecommendationsView {
	if f.viewFn != nil {
		return f.viewFn(u)
	}
	return &billing.RecommendationsView{}
}

type fakeESIM struct{}

func (fakeESIM) Status(u *session.User) *esim.StatusView {
	return &esim.StatusView{State: esim.StateOf(u), ESIMStatus: u.Status()}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService() *Service {
	return NewService(&fakeRecommender{}, fakeESIM{}, quietLogger())
}

func account(t *testing.T, email string) *session.User {
	t.Helper()
	a, ok := fixtures.AccountByEmail(email)
	if !ok {
		t.Fatalf("no account %s", email)
	}
	return a.Profile
}

func TestDashboard(t *testing.T) {
	svc := newService()

	tests := []struct {
		name           string
		email          string
		wantNeedsTopUp bool
		wantCurrent    string
		wantAffordable int
	}{
		{name: "no balance", email: "nobalance@esim.demo", wantNeedsTopUp: true},
		{name: "euro plan", email: "exist-plan@esim.demo", wantCurrent: "eu-popular", wantAffordable: 4},
		{name: "us plan", email: "esim-active@esim.demo", wantCurrent: "us-popular", wantAffordable: 4},
		{name: "balance only", email: "exist-topup@esim.demo", wantAffordable: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := svc.Dashboard(account(t, tt.email))

			if d.NeedsTopUp != tt.wantNeedsTopUp {
				t.Errorf("needsTopUp = %v", d.NeedsTopUp)
			}
			if len(d.PopularPlans) != 4 {
				t.Fatalf("popular plans = %d", len(d.PopularPlans))
			}

			affordable := 0
			current := ""
			for _, p := range d.PopularPlans {
				if p.Affordable {
					affordable++
				}
				if p.IsCurrent {
					current = p.ID
				}
			}
			if affordable != tt.wantAffordable {
				t.Errorf("affordable = %d, want %d", affordable, tt.wantAffordable)
			}
			if current != tt.wantCurrent {
				t.Errorf("current = %q, want %q", current, tt.wantCurrent)
			}
			if len(d.Promotions) == 0 || d.ESIM == nil || d.Recommendations == nil {
				t.Errorf("dashboard sections missing: %+v", d)
			}
		})
	}
}

func TestUsageSummary(t *testing.T) {
	tests := []struct {
		name      string
		plan      *session.Plan
		percent   float64
		remaining float64
		level     string
	}{
		{name: "light", plan: &session.Plan{DataUsed: 2, DataTotal: 10}, percent: 20, remaining: 8, level: LevelNormal},
		{name: "warning", plan: &session.Plan{DataUsed: 8, DataTotal: 10}, percent: 80, remaining: 2, level: LevelWarning},
		{name: "critical", plan: &session.Plan{DataUsed: 9.5, DataTotal: 10}, percent: 95, remaining: 0.5, level: LevelCritical},
		{name: "over allowance", plan: &session.Plan{DataUsed: 12, DataTotal: 10}, percent: 120, remaining: -2, level: LevelCritical},
		{name: "unlimited", plan: &session.Plan{DataUsed: 3}, percent: 0, remaining: -3, level: LevelNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := summarize(tt.plan)
			if sum.Percent != tt.percent || sum.Remaining != tt.remaining || sum.Level != tt.level {
				t.Errorf("summary = %+v", sum)
			}
		})
	}

	if summarize(nil) != nil {
		t.Error("summary without plan")
	}
}

func TestUsageCountryFilter(t *testing.T) {
	svc := newService()
	user := account(t, "esim-active@esim.demo")

	all := svc.Usage(user, "")
	if len(all.Records) != 5 || len(all.Countries) != 3 {
		t.Errorf("all = %d records, %d countries", len(all.Records), len(all.Countries))
	}
	if us := svc.Usage(user, "United States"); len(us.Records) != 3 {
		t.Errorf("united states = %d records", len(us.Records))
	}
	if none := svc.Usage(user, "Atlantis"); len(none.Records) != 0 {
		t.Errorf("unknown country = %d records", len(none.Records))
	}
}

func TestHistoryFilters(t *testing.T) {
	svc := newService()

	tests := []struct {
		name       string
		filter     HistoryFilter
		months     int
		count      int
		totalTopUp int64
	}{
		{name: "all", filter: HistoryFilter{}, months: 2, count: 9, totalTopUp: 125},
		{name: "current", filter: HistoryFilter{Period: "current"}, months: 1, count: 4, totalTopUp: 50},
		{name: "last", filter: HistoryFilter{Period: "last"}, months: 1, count: 5, totalTopUp: 75},
		{name: "failed", filter: HistoryFilter{Status: "failed"}, months: 1, count: 1, totalTopUp: 75},
		{name: "pending", filter: HistoryFilter{Status: "pending"}, months: 0, count: 0, totalTopUp: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := svc.History(tt.filter)
			if len(v.Months) != tt.months || v.TransactionCount != tt.count {
				t.Errorf("months = %d, count = %d", len(v.Months), v.TransactionCount)
			}
			if !v.TotalTopUp.Equal(decimal.NewFromInt(tt.totalTopUp)) {
				t.Errorf("total top-up = %s, want %d", v.TotalTopUp, tt.totalTopUp)
			}
		})
	}

	if again := svc.History(HistoryFilter{}); again.TransactionCount != 9 {
		t.Error("filtering mutated the fixture history")
	}
}

func TestUpdateProfileHandler(t *testing.T) {
	ctx := context.Background()
	store := session.NewManager(storage.NewMemoryBackend(), quietLogger()).For("device-1")
	if err := store.Authenticate(ctx, account(t, "exist-topup@esim.demo")); err != nil {
		t.Fatal(err)
	}

	device := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithSession(r.Context(), store, nil)))
		})
	}
	r := chi.NewRouter()
	NewHandler(newService()).RegisterRoutes(r, device)

	put := func(body any) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/profile", bytes.NewReader(raw)))
		return rec
	}

	if rec := put(map[string]string{"email": "not-an-email"}); rec.Code != http.StatusBadRequest {
		t.Errorf("bad email = %d, want 400", rec.Code)
	}

	if rec := put(map[string]string{"firstName": "<i>Sally</i>", "email": "Sally@Esim.Demo"}); rec.Code != http.StatusOK {
		t.Fatalf("update = %d: %s", rec.Code, rec.Body)
	}

	stored, _ := store.Load(ctx)
	if stored.FirstName != "Sally" || stored.Email != "sally@esim.demo" {
		t.Errorf("stored = %+v", stored)
	}
	if stored.LastName != "Johnson" || !stored.Balance.Equal(decimal.NewFromInt(25)) {
		t.Error("update touched unrelated fields")
	}

	for range 2 {
		if rec := put(map[string]string{"firstName": "Seán O'Brien & Co"}); rec.Code != http.StatusOK {
			t.Fatalf("update = %d: %s", rec.Code, rec.Body)
		}
		stored, _ = store.Load(ctx)
		if stored.FirstName != "Seán O'Brien & Co" {
			t.Fatalf("stored first name = %q", stored.FirstName)
		}
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history?period=yesterday", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad period = %d, want 400", rec.Code)
	}
}
