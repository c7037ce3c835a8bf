// AngelaMos | 2026
// history.go

package fixtures

import "github.com/shopspring/decimal"

type TransactionStatus string

const (
	TransactionSuccess TransactionStatus = "success"
	TransactionFailed  TransactionStatus = "failed"
	TransactionPending TransactionStatus = "pending"
)

type Transaction struct {
	ID            string            `json:"id"`
	Date          string            `json:"date"`
	Amount        decimal.Decimal   `json:"amount"`
	Description   string            `json:"description"`
	PaymentMethod string            `json:"paymentMethod"`
	Status        TransactionStatus `json:"status"`
	Type          string            `json:"type"`
}

// Month groups the demo top-up history by calendar month.
type Month struct {
	Key            string          `json:"key"`
	Name           string          `json:"name"`
	TotalTopUp     decimal.Decimal `json:"totalTopUp"`
	TotalSpent     decimal.Decimal `json:"totalSpent"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Transactions   []Transaction   `json:"transactions"`
}

func usd(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

var history = []Month{
	{
		Key:            "2024-12",
		Name:           "December 2024",
		TotalTopUp:     usd("50"),
		TotalSpent:     usd("25"),
		ClosingBalance: usd("45"),
		Transactions: []Transaction{
			{"1", "2024-12-10", usd("25"), "Top-Up via Credit Card", "Visa ****1234", TransactionSuccess, "topup"},
			{"2", "2024-12-08", usd("-15"), "Euro Data Pass Purchase", "Account Balance", TransactionSuccess, "purchase"},
			{"3", "2024-12-05", usd("25"), "Top-Up via PayPal", "PayPal", TransactionSuccess, "topup"},
			{"4", "2024-12-03", usd("-10"), "US Travel Plan Purchase", "Account Balance", TransactionSuccess, "purchase"},
		},
	},
	{
		Key:            "2024-11",
		Name:           "November 2024",
		TotalTopUp:     usd("75"),
		TotalSpent:     usd("55"),
		ClosingBalance: usd("20"),
		Transactions: []Transaction{
			{"5", "2024-11-28", usd("50"), "Top-Up via Credit Card", "Mastercard ****5678", TransactionSuccess, "topup"},
			{"6", "2024-11-25", usd("-30"), "Global Roaming Plan", "Account Balance", TransactionSuccess, "purchase"},
			{"7", "2024-11-20", usd("25"), "Top-Up via Apple Pay", "Apple Pay", TransactionSuccess, "topup"},
			{"8", "2024-11-15", usd("-25"), "Europe Travel Plan", "Account Balance", TransactionSuccess, "purchase"},
			{"9", "2024-11-10", usd("15"), "Failed Top-Up (Refunded)", "Visa ****1234", TransactionFailed, "topup"},
		},
	},
}

// History returns the demo months, newest first.
func History() []Month {
	out := make([]Month, len(history))
	for i, m := range history {
		m.Transactions = append([]Transaction(nil), m.Transactions...)
		out[i] = m
	}
	return out
}

type UsageRecord struct {
	ID      string          `json:"id"`
	Date    string          `json:"date"`
	Type    string          `json:"type"`
	Volume  string          `json:"volume"`
	Country string          `json:"country"`
	Cost    decimal.Decimal `json:"cost"`
}

var usageRecords = []UsageRecord{
	{"1", "2024-08-09", "Data", "1.2GB", "United States", decimal.Zero},
	{"2", "2024-08-08", "Data", "2.1GB", "United States", decimal.Zero},
	{"3", "2024-08-07", "Data", "1.8GB", "Canada", decimal.Zero},
	{"4", "2024-08-06", "Data", "0.9GB", "United States", decimal.Zero},
	{"5", "2024-08-05", "Data", "2.5GB", "Mexico", decimal.Zero},
}

func UsageRecords() []UsageRecord {
	return append([]UsageRecord(nil), usageRecords...)
}
