// AngelaMos | 2026
// help.go

package fixtures

type HelpTopic struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Articles    []string `json:"articles"`
}

var helpTopics = []HelpTopic{
	{
		ID:          "activation",
		Title:       "eSIM Activation",
		Description: "Issues with eSIM installation and setup",
		Articles: []string{
			"How to install eSIM on iPhone",
			"eSIM activation troubleshooting",
			"QR code scanning problems",
		},
	},
	{
		ID:          "billing",
		Title:       "Billing & Payments",
		Description: "Questions about charges and payment methods",
		Articles: []string{
			"Understanding your bill",
			"Payment method issues",
			"Refund policy",
		},
	},
	{
		ID:          "plans",
		Title:       "Plans & Coverage",
		Description: "Plan features, coverage areas, and data usage",
		Articles: []string{
			"Available countries and regions",
			"Data usage monitoring",
			"Plan change options",
		},
	},
	{
		ID:          "technical",
		Title:       "Technical Support",
		Description: "Connection issues and technical problems",
		Articles: []string{
			"No internet connection",
			"Slow data speeds",
			"Device compatibility",
		},
	},
}

func HelpTopics() []HelpTopic {
	out := make([]HelpTopic, len(helpTopics))
	for i, h := range helpTopics {
		h.Articles = append([]string(nil), h.Articles...)
		out[i] = h
	}
	return out
}

func HelpTopicByID(id string) (HelpTopic, bool) {
	for _, h := range HelpTopics() {
		if h.ID == id {
			return h, true
		}
	}
	return HelpTopic{}, false
}
