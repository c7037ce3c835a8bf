// AngelaMos | 2026
// keys.go

package storage

// Well-known keys of a device scope. The names match the keys the
// demo screens have always used so exported scopes stay readable.
const (
	KeyUserProfile       = "userProfile"
	KeyIsAuthenticated   = "isAuthenticated"
	KeyNotifications     = "notifications"
	KeyChatMessages      = "chatMessages"
	KeyLastCardPayment   = "lastCardPayment"
	KeyTopUpSource       = "topUpSource"
	KeyPlanChangeData    = "planChangeData"
	KeyShowUpdatePlan    = "showUpdatePlanView"
	KeyRecommendedAmount = "recommendedAmount"
)
