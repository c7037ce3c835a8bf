// AngelaMos | 2026
// catalog.go

package billing

import (
	"context"

	"github.com/carterperez-dev/esimphony/internal/fixtures"
	"github.com/carterperez-dev/esimphony/internal/session"
)

func PlanCatalog() *Catalog {
	return &Catalog{
		Plans: fixtures.Plans(),
		Options: map[session.PlanType][]fixtures.PlanOption{
			session.PlanPrepaid:      fixtures.PlanOptions(session.PlanPrepaid),
			session.PlanSubscription: fixtures.PlanOptions(session.PlanSubscription),
			session.PlanPayg:         fixtures.PlanOptions(session.PlanPayg),
		},
		Popular:   fixtures.PopularPlans(),
		Countries: fixtures.Countries(),
		Regions:   fixtures.Regions(),
	}
}

type PlansView struct {
	Catalog
	Balance        string        `json:"balance"`
	ActivePlan     *session.Plan `json:"activePlan"`
	PendingPlan    *session.Plan `json:"pendingPlan,omitempty"`
	ShowUpdatePlan bool          `json:"showUpdatePlan"`
}

// Plans renders the plans screen. The update-plan hint is consumed.
func (s *Service) Plans(ctx context.Context, store *session.Store, user *session.User) *PlansView {
	view := &PlansView{
		Catalog:        *PlanCatalog(),
		Balance:        user.Balance.StringFixed(2),
		ActivePlan:     user.ActivePlan,
		ShowUpdatePlan: store.TakeUpdatePlanHint(ctx),
	}
	if plan, ok := store.PlanChange(ctx); ok {
		view.PendingPlan = plan
	}
	return view
}
