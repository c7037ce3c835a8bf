// AngelaMos | 2026
// dto.go

package billing

import (
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/esimphony/internal/fixtures"
	"github.com/carterperez-dev/esimphony/internal/session"
)

type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type PayRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	Method       PaymentMethod   `json:"method"       validate:"required,oneof=card apple google"`
	UseSavedCard bool            `json:"useSavedCard"`
	Card         *CardDetails    `json:"card"`
}

type PurchaseRequest struct {
	PlanID      string `json:"planId"      validate:"required,max=64"`
	Destination string `json:"destination" validate:"max=64"`
	AutoRenew   bool   `json:"autoRenew"`
	Origin      string `json:"origin"      validate:"omitempty,oneof=plans dashboard"`
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type TopUpResult struct {
	User        *session.User   `json:"user"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method,omitempty"`
	Source      string          `json:"source,omitempty"`
	PendingPlan *session.Plan   `json:"pendingPlan,omitempty"`
	Redirect    string          `json:"redirect"`
}

type PurchaseResult struct {
	User     *session.User `json:"user"`
	Plan     *session.Plan `json:"plan"`
	Redirect string        `json:"redirect"`
}

type AutoRenewResult struct {
	User               *session.User `json:"user"`
	ShowAmountSelector bool          `json:"showAmountSelector"`
	PresetAmounts      []int         `json:"presetAmounts,omitempty"`
}

// TopUpView is what the top-up screen renders on mount.
type TopUpView struct {
	Balance           decimal.Decimal      `json:"balance"`
	PresetAmounts     []int                `json:"presetAmounts"`
	MinAmount         decimal.Decimal      `json:"minAmount"`
	MaxAmount         decimal.Decimal      `json:"maxAmount"`
	RecommendedAmount *decimal.Decimal     `json:"recommendedAmount,omitempty"`
	Source            string               `json:"source,omitempty"`
	PendingPlan       *session.Plan        `json:"pendingPlan,omitempty"`
	SavedCard         *session.CardSummary `json:"savedCard,omitempty"`
}

type Recommendation struct {
	Amount      decimal.Decimal `json:"amount"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	Popular     bool            `json:"popular,omitempty"`
}

type RecommendationsView struct {
	Visible         bool             `json:"visible"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Urgent          bool             `json:"urgent"`
	DaysLeft        int              `json:"daysLeft"`
	UsagePercent    float64          `json:"usagePercent"`
	Message         string           `json:"message,omitempty"`
	QuickTopUp      decimal.Decimal  `json:"quickTopUp"`
}

type SelectResult struct {
	Source   string          `json:"source"`
	Amount   decimal.Decimal `json:"amount"`
	Redirect string          `json:"redirect"`
}

// Catalog is the plan listing shown before login.
type Catalog struct {
	Plans     []session.Plan                             `json:"plans"`
	Options   map[session.PlanType][]fixtures.PlanOption `json:"options"`
	Popular   []fixtures.PlanOption                      `json:"popular"`
	Countries []fixtures.Destination                     `json:"countries"`
	Regions   []fixtures.Destination                     `json:"regions"`
}
