// AngelaMos | 2026
// catalog.go

package fixtures

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/esimphony/internal/session"
)

// PlanOption is a purchasable plan shown on the plans view before it
// becomes a user's active plan.
type PlanOption struct {
	ID       string           `json:"id"`
	Data     string           `json:"data"`
	Price    decimal.Decimal  `json:"price"`
	Duration string           `json:"duration"`
	Features []string         `json:"features"`
	Type     session.PlanType `json:"type"`
	Country  string           `json:"country,omitempty"`
	Popular  bool             `json:"popular,omitempty"`
}

type Destination struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Region    string `json:"region"`
	PlanCount int    `json:"planCount"`
}

var planOptions = map[session.PlanType][]PlanOption{
	session.PlanPrepaid: {
		{ID: "prepaid-5gb", Data: "5 GB", Price: decimal.NewFromInt(10), Duration: "7 Days",
			Features: []string{"High-speed data", "No activation fee", "Instant activation"}},
		{ID: "prepaid-10gb", Data: "10 GB", Price: decimal.NewFromInt(15), Duration: "30 Days",
			Features: []string{"High-speed data", "No activation fee", "Instant activation", "24/7 support"}},
		{ID: "prepaid-25gb", Data: "25 GB", Price: decimal.NewFromInt(25), Duration: "30 Days",
			Features: []string{"High-speed data", "No activation fee", "Instant activation", "24/7 support", "Data rollover"}},
		{ID: "prepaid-50gb", Data: "50 GB", Price: decimal.NewFromInt(40), Duration: "30 Days",
			Features: []string{"High-speed data", "No activation fee", "Instant activation", "24/7 support", "Data rollover", "Premium speeds"}},
	},
	session.PlanSubscription: {
		{ID: "sub-unlimited", Data: "Unlimited", Price: decimal.NewFromInt(60), Duration: "Monthly",
			Features: []string{"Unlimited data", "No throttling", "5G speeds", "International roaming", "24/7 priority support"}},
		{ID: "sub-100gb", Data: "100 GB", Price: decimal.NewFromInt(45), Duration: "Monthly",
			Features: []string{"High-speed data", "5G speeds", "International roaming", "24/7 support", "Data rollover"}},
		{ID: "sub-50gb", Data: "50 GB", Price: decimal.NewFromInt(35), Duration: "Monthly",
			Features: []string{"High-speed data", "5G speeds", "24/7 support", "Data rollover"}},
	},
	session.PlanPayg: {
		{ID: "payg-1gb", Data: "1 GB", Price: decimal.NewFromInt(3), Duration: "Pay as you go",
			Features: []string{"High-speed data", "No expiry", "Pay only for what you use"}},
		{ID: "payg-5gb", Data: "5 GB", Price: decimal.NewFromInt(12), Duration: "Pay as you go",
			Features: []string{"High-speed data", "No expiry", "Pay only for what you use", "Better value"}},
	},
}

var popularPlans = []PlanOption{
	{ID: "us-popular", Data: "10GB", Price: decimal.NewFromInt(15), Duration: "30 days",
		Country: "United States", Type: session.PlanPrepaid, Popular: true},
	{ID: "eu-popular", Data: "20GB", Price: decimal.NewFromInt(25), Duration: "30 days",
		Country: "Europe", Type: session.PlanPrepaid, Popular: true},
	{ID: "asia-popular", Data: "15GB", Price: decimal.NewFromInt(20), Duration: "21 days",
		Country: "Asia Pacific", Type: session.PlanPrepaid},
	{ID: "payg-popular", Data: "5GB", Price: decimal.NewFromInt(12), Duration: "Pay as you go",
		Country: "Global", Type: session.PlanPayg},
}

var countries = []Destination{
	{"us", "United States", "North America", 8},
	{"gb", "United Kingdom", "Europe", 6},
	{"de", "Germany", "Europe", 7},
	{"fr", "France", "Europe", 6},
	{"jp", "Japan", "Asia Pacific", 5},
	{"au", "Australia", "Asia Pacific", 4},
	{"ca", "Canada", "North America", 6},
	{"es", "Spain", "Europe", 5},
	{"it", "Italy", "Europe", 6},
	{"mx", "Mexico", "Latin America", 4},
	{"br", "Brazil", "Latin America", 3},
	{"sg", "Singapore", "Asia Pacific", 5},
	{"th", "Thailand", "Asia Pacific", 4},
	{"vn", "Vietnam", "Asia Pacific", 4},
	{"kr", "South Korea", "Asia Pacific", 5},
	{"my", "Malaysia", "Asia Pacific", 4},
	{"ph", "Philippines", "Asia Pacific", 3},
	{"id", "Indonesia", "Asia Pacific", 3},
	{"nl", "Netherlands", "Europe", 6},
}

var regions = []Destination{
	{"europe", "Europe", "30+ Countries", 12},
	{"asia", "Asia Pacific", "25+ Countries", 10},
	{"americas", "Americas", "15+ Countries", 8},
	{"global", "Global", "100+ Countries", 15},
	{"middle-east", "Middle East", "10+ Countries", 6},
	{"africa", "Africa", "20+ Countries", 7},
}

func cloneOption(o PlanOption) PlanOption {
	o.Features = append([]string(nil), o.Features...)
	return o
}

// PlanOptions lists the options of one plan type; nil for unknown types.
func PlanOptions(t session.PlanType) []PlanOption {
	opts, ok := planOptions[t]
	if !ok {
		return nil
	}

	out := make([]PlanOption, len(opts))
	for i, o := range opts {
		out[i] = cloneOption(o)
		out[i].Type = t
	}
	return out
}

func PopularPlans() []PlanOption {
	out := make([]PlanOption, len(popularPlans))
	for i, o := range popularPlans {
		out[i] = cloneOption(o)
	}
	return out
}

// OptionByID searches the plan options and the popular plans.
func OptionByID(id string) (PlanOption, bool) {
	for t, opts := range planOptions {
		for _, o := range opts {
			if o.ID == id {
				o = cloneOption(o)
				o.Type = t
				return o, true
			}
		}
	}

	for _, o := range popularPlans {
		if o.ID == id {
			return cloneOption(o), true
		}
	}

	return PlanOption{}, false
}

func Countries() []Destination {
	return append([]Destination(nil), countries...)
}

func Regions() []Destination {
	return append([]Destination(nil), regions...)
}

func DestinationByID(id string) (Destination, bool) {
	for _, d := range countries {
		if d.ID == id {
			return d, true
		}
	}
	for _, d := range regions {
		if d.ID == id {
			return d, true
		}
	}
	return Destination{}, false
}

var nonDigits = regexp.MustCompile(`\D`)

// DataTotal extracts the gigabytes of a display string such as "5 GB".
// Allowances without a number, like "Unlimited", report zero.
func DataTotal(data string) float64 {
	n, err := strconv.Atoi(nonDigits.ReplaceAllString(data, ""))
	if err != nil {
		return 0
	}
	return float64(n)
}

// DaysLeft maps a duration label onto the days a new plan starts with.
func DaysLeft(duration string) int {
	if strings.Contains(duration, "7") && !strings.Contains(duration, "30") {
		return 7
	}
	return 30
}

// ToPlan turns an option into the active plan written to a record.
func (o PlanOption) ToPlan(region string, autoRenew bool) *session.Plan {
	if region == "" {
		region = o.Country
	}
	if region == "" {
		region = "Unknown"
	}

	return &session.Plan{
		ID:        o.ID,
		Name:      o.Data + " " + string(o.Type) + " Plan",
		Country:   o.Country,
		Region:    region,
		Data:      o.Data,
		DataTotal: DataTotal(o.Data),
		Validity:  o.Duration,
		Price:     o.Price,
		Features:  append([]string(nil), o.Features...),
		Type:      o.Type,
		DataUsed:  0,
		DaysLeft:  DaysLeft(o.Duration),
		AutoRenew: autoRenew,
		Popular:   o.Popular,
	}
}
