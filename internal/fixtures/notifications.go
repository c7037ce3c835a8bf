// AngelaMos | 2026
// notifications.go

package fixtures

import "time"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationSuccess NotificationType = "success"
	NotificationPromo   NotificationType = "promo"
	NotificationError   NotificationType = "error"
)

type Notification struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Date       time.Time        `json:"date"`
	Read       bool             `json:"read"`
	Type       NotificationType `json:"type"`
	Actionable bool             `json:"actionable,omitempty"`
	ActionURL  string           `json:"actionUrl,omitempty"`
}

func at(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

var seedNotifications = []Notification{
	{
		ID:         "1",
		Title:      "Data Usage Alert",
		Message:    "You've used 85% of your data allowance. Consider topping up or changing plans.",
		Date:       at("2024-08-09T10:30:00Z"),
		Type:       NotificationWarning,
		Actionable: true,
		ActionURL:  "/plans",
	},
	{
		ID:      "2",
		Title:   "Payment Successful",
		Message: "Your top-up of $25.00 has been processed successfully.",
		Date:    at("2024-08-08T15:45:00Z"),
		Type:    NotificationSuccess,
	},
	{
		ID:         "3",
		Title:      "Plan Expiring Soon",
		Message:    "Your Euro Data Pass will expire in 3 days. Renew now to avoid service interruption.",
		Date:       at("2024-08-07T09:15:00Z"),
		Read:       true,
		Type:       NotificationInfo,
		Actionable: true,
		ActionURL:  "/plans",
	},
	{
		ID:         "4",
		Title:      "Special Offer: 20% Off",
		Message:    "Get 20% off on Global Traveler plans this weekend only!",
		Date:       at("2024-08-06T08:00:00Z"),
		Read:       true,
		Type:       NotificationPromo,
		Actionable: true,
		ActionURL:  "/plans",
	},
	{
		ID:      "5",
		Title:   "Welcome to eSimphony",
		Message: "Thank you for joining eSimphony! Your account has been created successfully.",
		Date:    at("2024-08-05T14:20:00Z"),
		Read:    true,
		Type:    NotificationSuccess,
	},
}

// SeedNotifications is shown whenever a scope has no notification list.
func SeedNotifications() []Notification {
	return append([]Notification(nil), seedNotifications...)
}
