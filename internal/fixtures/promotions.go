// AngelaMos | 2026
// promotions.go

package fixtures

type PromotionType string

const (
	PromotionReferral PromotionType = "referral"
	PromotionSeasonal PromotionType = "seasonal"
	PromotionRegional PromotionType = "regional"
)

type Promotion struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Subtitle     string        `json:"subtitle,omitempty"`
	Description  string        `json:"description"`
	ButtonText   string        `json:"buttonText"`
	ButtonAction string        `json:"buttonAction"`
	Type         PromotionType `json:"type"`
	IsActive     bool          `json:"isActive"`
	ValidUntil   string        `json:"validUntil,omitempty"`
}

var promotions = []Promotion{
	{
		ID:           "referral-bonus",
		Title:        "Invite a friend, get $10",
		Subtitle:     "Referral program",
		Description:  "Share your referral code and both of you receive $10 credit after their first top-up.",
		ButtonText:   "Invite Friends",
		ButtonAction: "referral",
		Type:         PromotionReferral,
		IsActive:     true,
	},
	{
		ID:           "weekend-global",
		Title:        "Special Offer: 20% Off",
		Subtitle:     "This weekend only",
		Description:  "Get 20% off on Global Traveler plans this weekend only!",
		ButtonText:   "View Plans",
		ButtonAction: "plans",
		Type:         PromotionSeasonal,
		IsActive:     true,
		ValidUntil:   "2026-12-31",
	},
	{
		ID:           "europe-bonus-data",
		Title:        "Europe bonus data",
		Subtitle:     "Regional promotion",
		Description:  "Top up $50 or more and get 5GB extra on European plans.",
		ButtonText:   "Top Up",
		ButtonAction: "top-up",
		Type:         PromotionRegional,
		IsActive:     true,
	},
	{
		ID:           "summer-roaming",
		Title:        "Summer roaming",
		Description:  "Double data on Asia Pacific plans.",
		ButtonText:   "View Plans",
		ButtonAction: "plans",
		Type:         PromotionSeasonal,
		IsActive:     false,
	},
}

// ActivePromotions returns the promotions currently on offer.
func ActivePromotions() []Promotion {
	out := make([]Promotion, 0, len(promotions))
	for _, p := range promotions {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out
}
