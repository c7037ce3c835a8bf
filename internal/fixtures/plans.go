// AngelaMos | 2026
// plans.go

package fixtures

import (
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/esimphony/internal/session"
)

var demoPlans = []session.Plan{
	{
		ID:          "1",
		Name:        "Euro Data Pass",
		Country:     "Europe",
		Region:      "European Union",
		Data:        "20GB",
		Validity:    "30 days",
		Price:       decimal.NewFromInt(25),
		Description: "Perfect for European travel",
		Features:    []string{"High-speed 5G", "EU-wide coverage", "Hotspot included"},
		Type:        session.PlanPrepaid,
		DataUsed:    8.5,
		DataTotal:   20,
		DaysLeft:    18,
	},
	{
		ID:          "2",
		Name:        "Global Traveler",
		Country:     "Worldwide",
		Region:      "Global",
		Data:        "10GB",
		Validity:    "15 days",
		Price:       decimal.NewFromInt(35),
		Description: "Worldwide connectivity",
		Features:    []string{"Global coverage", "5G where available", "Data rollover"},
		Type:        session.PlanPrepaid,
		DataTotal:   10,
	},
	{
		ID:          "3",
		Name:        "Asia Pacific",
		Country:     "Asia",
		Region:      "APAC",
		Data:        "15GB",
		Validity:    "21 days",
		Price:       decimal.NewFromInt(20),
		Description: "Asian countries coverage",
		Features:    []string{"High-speed data", "Multi-country", "Instant activation"},
		Type:        session.PlanPrepaid,
		DataTotal:   15,
	},
	{
		ID:          "4",
		Name:        "US Prepaid 10GB",
		Country:     "United States",
		Region:      "North America",
		Data:        "10GB",
		Validity:    "30 days",
		Price:       decimal.NewFromInt(15),
		Description: "USA domestic coverage",
		Features:    []string{"5G network", "Unlimited texts", "Voice included"},
		Type:        session.PlanPrepaid,
		DataUsed:    2.3,
		DataTotal:   10,
		DaysLeft:    23,
	},
}

func Plans() []session.Plan {
	out := make([]session.Plan, len(demoPlans))
	for i := range demoPlans {
		out[i] = *demoPlans[i].Clone()
	}
	return out
}

func PlanByID(id string) (*session.Plan, bool) {
	for i := range demoPlans {
		if demoPlans[i].ID == id {
			return demoPlans[i].Clone(), true
		}
	}
	return nil, false
}
