// AngelaMos | 2026
// service.go

package profile

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/esimphony/internal/billing"
	"github.com/carterperez-dev/esimphony/internal/esim"
	"github.com/carterperez-dev/esimphony/internal/fixtures"
	"github.com/carterperez-dev/esimphony/internal/middleware"
	"github.com/carterperez-dev/esimphony/internal/session"
)

const (
	LevelNormal   = "normal"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

type Recommender interface {
	Recommendations(user *session.User) *billing.RecommendationsView
}

type ESIMReporter interface {
	Status(user *session.User) *esim.StatusView
}

type Service struct {
	recommender Recommender
	esim        ESIMReporter
	logger      *slog.Logger
}

func NewService(recommender Recommender, esim ESIMReporter, logger *slog.Logger) *Service {
	return &Service{
		recommender: recommender,
		esim:        esim,
		logger:      logger,
	}
}

func (s *Service) GetProfile(user *session.User) ProfileResponse {
	return ToProfileResponse(user)
}

// UpdateProfile edits the first name and email. Absent fields are left
// as they are.
func (s *Service) UpdateProfile(
	ctx context.Context,
	store *session.Store,
	user *session.User,
	req UpdateProfileRequest,
) (*session.User, error) {
	updated := user.Clone()

	if req.FirstName != nil {
		name := strings.TrimSpace(middleware.SanitizeText(*req.FirstName))
		if name != "" {
			updated.FirstName = name
		}
	}
	if req.Email != nil {
		updated.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	if err := store.Save(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "profile updated", "scope", store.KV().Scope())
	return updated, nil
}

func summarize(plan *session.Plan) *UsageSummary {
	if plan == nil {
		return nil
	}

	sum := &UsageSummary{
		DataUsed:  plan.DataUsed,
		DataTotal: plan.DataTotal,
		Remaining: plan.DataTotal - plan.DataUsed,
		DaysLeft:  plan.DaysLeft,
		Level:     LevelNormal,
	}
	if plan.DataUsed > 0 && plan.DataTotal > 0 {
		sum.Percent = plan.DataUsed / plan.DataTotal * 100
	}

	switch {
	case sum.Percent > 90:
		sum.Level = LevelCritical
	case sum.Percent > 75:
		sum.Level = LevelWarning
	}

	return sum
}

func (s *Service) Dashboard(user *session.User) *Dashboard {
	name := user.FirstName
	if name == "" {
		name = "User"
	}

	d := &Dashboard{
		Greeting:        "Hello, " + name + "!",
		Balance:         user.Balance,
		NeedsTopUp:      user.AccountType == session.AccountNoBalance || user.Balance.IsZero(),
		ActivePlan:      user.ActivePlan,
		Usage:           summarize(user.ActivePlan),
		ESIM:            s.esim.Status(user),
		Promotions:      fixtures.ActivePromotions(),
		AutoRenewal:     user.AutoRenewal,
		Recommendations: s.recommender.Recommendations(user),
	}

	for _, opt := range fixtures.PopularPlans() {
		d.PopularPlans = append(d.PopularPlans, PopularPlan{
			PlanOption: opt,
			Affordable: user.CanAfford(opt.Price),
			IsCurrent:  user.ActivePlan != nil && user.ActivePlan.Country == opt.Country,
		})
	}

	return d
}

// Usage lists consumption records, optionally for one country.
func (s *Service) Usage(user *session.User, country string) *UsageView {
	v := &UsageView{
		Plan:    user.ActivePlan,
		Summary: summarize(user.ActivePlan),
		Records: []fixtures.UsageRecord{},
	}

	seen := make(map[string]bool)
	for _, r := range fixtures.UsageRecords() {
		if !seen[r.Country] {
			seen[r.Country] = true
			v.Countries = append(v.Countries, r.Country)
		}
		if country == "" || country == "all" || r.Country == country {
			v.Records = append(v.Records, r)
		}
	}

	return v
}

// History filters the demo top-up history. Months left without
// transactions by the status filter are dropped.
func (s *Service) History(f HistoryFilter) *HistoryView {
	months := fixtures.History()

	switch f.Period {
	case "current":
		months = months[:1]
	case "last":
		months = months[1:2]
	}

	v := &HistoryView{
		Months:     []fixtures.Month{},
		TotalTopUp: decimal.Zero,
		TotalSpent: decimal.Zero,
	}

	for _, m := range months {
		if f.Status != "" && f.Status != "all" {
			kept := m.Transactions[:0]
			for _, t := range m.Transactions {
				if string(t.Status) == f.Status {
					kept = append(kept, t)
				}
			}
			m.Transactions = kept
			if len(kept) == 0 {
				continue
			}
		}

		v.Months = append(v.Months, m)
		v.TotalTopUp = v.TotalTopUp.Add(m.TotalTopUp)
		v.TotalSpent = v.TotalSpent.Add(m.TotalSpent)
		v.TransactionCount += len(m.Transactions)
	}

	return v
}
