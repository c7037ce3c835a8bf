// AngelaMos | 2026
// dto.go

package profile

import (
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/esimphony/internal/billing"
	"github.com/carterperez-dev/esimphony/internal/esim"
	"github.com/carterperez-dev/esimphony/internal/fixtures"
	"github.com/carterperez-dev/esimphony/internal/session"
)

type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email,omitempty"     validate:"omitempty,email,max=255"`
}

type ProfileResponse struct {
	FirstName   string              `json:"firstName"`
	LastName    string              `json:"lastName,omitempty"`
	DisplayName string              `json:"displayName"`
	Email       string              `json:"email"`
	AccountType session.AccountType `json:"accountType"`
	Balance     decimal.Decimal     `json:"balance"`
}

func ToProfileResponse(u *session.User) ProfileResponse {
	return ProfileResponse{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName(),
		Email:       u.Email,
		AccountType: u.AccountType,
		Balance:     u.Balance,
	}
}

type PopularPlan struct {
	fixtures.PlanOption
	Affordable bool `json:"affordable"`
	IsCurrent  bool `json:"isCurrent"`
}

type Dashboard struct {
	Greeting        string                       `json:"greeting"`
	Balance         decimal.Decimal              `json:"balance"`
	NeedsTopUp      bool                         `json:"needsTopUp"`
	ActivePlan      *session.Plan                `json:"activePlan"`
	Usage           *UsageSummary                `json:"usage,omitempty"`
	ESIM            *esim.StatusView             `json:"esim"`
	Promotions      []fixtures.Promotion         `json:"promotions"`
	PopularPlans    []PopularPlan                `json:"popularPlans"`
	AutoRenewal     *session.AutoRenewal         `json:"autoRenewal,omitempty"`
	Recommendations *billing.RecommendationsView `json:"recommendations"`
}

// UsageSummary is the data bar of the active plan.
type UsageSummary struct {
	DataUsed  float64 `json:"dataUsed"`
	DataTotal float64 `json:"dataTotal"`
	Remaining float64 `json:"remaining"`
	Percent   float64 `json:"percent"`
	DaysLeft  int     `json:"daysLeft"`
	Level     string  `json:"level"`
}

type UsageView struct {
	Plan      *session.Plan          `json:"activePlan"`
	Summary   *UsageSummary          `json:"summary,omitempty"`
	Records   []fixtures.UsageRecord `json:"records"`
	Countries []string               `json:"countries"`
}

type HistoryFilter struct {
	Period string `validate:"omitempty,oneof=all current last"`
	Status string `validate:"omitempty,oneof=all success failed pending"`
}

type HistoryView struct {
	Months           []fixtures.Month `json:"months"`
	TotalTopUp       decimal.Decimal  `json:"totalTopUp"`
	TotalSpent       decimal.Decimal  `json:"totalSpent"`
	TransactionCount int              `json:"transactionCount"`
}
