// AngelaMos | 2026
// recommendations.go

package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/esimphony/internal/session"
)

const (
	urgentDays         = 7
	urgentUsagePercent = 80
)

var fallbackSubscriptionPrice = decimal.NewFromInt(35)

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// Recommendations suggests top-up amounts for prepaid and subscription
// plans. Other records get an invisible view.
func (s *Service) Recommendations(user *session.User) *RecommendationsView {
	plan := user.ActivePlan
	if plan == nil || (plan.Type != session.PlanPrepaid && plan.Type != session.PlanSubscription) {
		return &RecommendationsView{}
	}

	view := &RecommendationsView{
		Visible:  true,
		DaysLeft: plan.DaysLeft,
	}
	if plan.DataTotal > 0 && plan.DataUsed > 0 {
		view.UsagePercent = plan.DataUsed / plan.DataTotal * 100
	}
	view.Urgent = view.DaysLeft <= urgentDays || view.UsagePercent >= urgentUsagePercent

	if plan.Type == session.PlanSubscription {
		price := plan.Price
		if price.IsZero() {
			price = fallbackSubscriptionPrice
		}
		view.Recommendations = []Recommendation{
			{Amount: price, Label: "Next Billing", Description: fmt.Sprintf("Cover your next %s renewal", plan.Name), Popular: true},
			{Amount: price.Mul(decimal.NewFromInt(2)), Label: "2 Months", Description: "Cover next 2 billing cycles"},
			{Amount: price.Mul(decimal.NewFromInt(3)), Label: "3 Months", Description: "Quarterly prepayment"},
		}
		if view.DaysLeft <= urgentDays {
			view.Message = fmt.Sprintf(
				"Your subscription renews in %d day%s. Ensure sufficient balance to avoid service interruption.",
				view.DaysLeft, plural(view.DaysLeft),
			)
		}
	} else {
		view.Recommendations = []Recommendation{
			{Amount: decimal.NewFromInt(25), Label: "Standard", Description: "Good for 1-2 additional plans", Popular: true},
			{Amount: decimal.NewFromInt(50), Label: "Value Pack", Description: "Cover multiple trips"},
			{Amount: decimal.NewFromInt(100), Label: "Premium", Description: "Extended travel coverage"},
		}
		if view.DaysLeft <= urgentDays {
			view.Message = fmt.Sprintf(
				"Your current plan expires in %d day%s. Top up to purchase a new plan.",
				view.DaysLeft, plural(view.DaysLeft),
			)
		}
	}

	view.QuickTopUp = decimal.NewFromInt(25)
	for _, r := range view.Recommendations {
		if r.Popular {
			view.QuickTopUp = r.Amount
			break
		}
	}

	return view
}

// SelectRecommendation stages a recommended amount for the top-up view.
func (s *Service) SelectRecommendation(
	ctx context.Context,
	store *session.Store,
	amount decimal.Decimal,
) (*SelectResult, error) {
	if err := s.validAmount(amount); err != nil {
		return nil, err
	}

	store.SetTopUpSource(ctx, SourceDashboardRecommend)
	store.SetRecommendedAmount(ctx, amount)

	return &SelectResult{
		Source:   SourceDashboardRecommend,
		Amount:   amount,
		Redirect: TopUpPath,
	}, nil
}
