// AngelaMos | 2026
// accounts.go

package fixtures

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/esimphony/internal/core"
	"github.com/carterperez-dev/esimphony/internal/session"
)

const DemoPassword = "123456"

var ErrUnknownAccount = errors.New("unknown demo account")

// Account is a built-in identity used to seed a session record.
type Account struct {
	Email       string        `json:"email"`
	Description string        `json:"description"`
	Profile     *session.User `json:"profile"`
}

func (a Account) clone() Account {
	a.Profile = a.Profile.Clone()
	return a
}

func planRef(id string) *session.Plan {
	p, ok := PlanByID(id)
	if !ok {
		panic(fmt.Sprintf("fixtures: demo plan %q missing", id))
	}
	return p
}

var demoAccounts = []Account{
	{
		Email:       "nobalance@esim.demo",
		Description: "New user with no balance and no active plans. Perfect for testing first-time user flows and top-up processes.",
		Profile: &session.User{
			FirstName:   "Alex",
			LastName:    "Chen",
			Email:       "nobalance@esim.demo",
			Balance:     decimal.Zero,
			AccountType: session.AccountNoBalance,
		},
	},
	{
		Email:       "exist-topup@esim.demo",
		Description: "User with existing balance but no active plans. Ideal for testing plan purchase flows without needing to top up first.",
		Profile: &session.User{
			FirstName:   "Sarah",
			LastName:    "Johnson",
			Email:       "exist-topup@esim.demo",
			Balance:     decimal.NewFromInt(25),
			AccountType: session.AccountHasBalance,
		},
	},
	{
		Email:       "exist-plan@esim.demo",
		Description: "User with balance and an active plan. Perfect for testing plan management, plan changes, and renewal flows.",
		Profile: &session.User{
			FirstName:   "Michael",
			LastName:    "Rodriguez",
			Email:       "exist-plan@esim.demo",
			Balance:     decimal.NewFromInt(45),
			ActivePlan:  planRef("1"),
			AccountType: session.AccountHasPlan,
		},
	},
	{
		Email:       "esim-available@esim.demo",
		Description: "User with eSIM ready for activation. Shows the activation section on the dashboard.",
		Profile: &session.User{
			FirstName:   "Emma",
			LastName:    "Thompson",
			Email:       "esim-available@esim.demo",
			Balance:     decimal.NewFromInt(35),
			AccountType: session.AccountHasBalance,
			ESIMStatus:  session.ESIMAvailable,
		},
	},
	{
		Email:       "esim-active@esim.demo",
		Description: "User with active eSIM and data usage. Displays usage statistics, data consumption, and expiration information.",
		Profile: &session.User{
			FirstName:   "David",
			LastName:    "Kim",
			Email:       "esim-active@esim.demo",
			Balance:     decimal.NewFromInt(52),
			ActivePlan:  planRef("4"),
			AccountType: session.AccountHasPlan,
			ESIMStatus:  session.ESIMActive,
			UsageData: &session.UsageData{
				PlanName:       "US Prepaid Plan",
				DataUsed:       2.3,
				DataTotal:      10,
				ExpirationDays: 23,
			},
		},
	},
	{
		Email:       "esim-fail@esim.demo",
		Description: "Test account that always fails automatic eSIM activation, forcing the manual setup flow.",
		Profile: &session.User{
			FirstName:          "Lisa",
			LastName:           "Martinez",
			Email:              "esim-fail@esim.demo",
			Balance:            decimal.NewFromInt(30),
			AccountType:        session.AccountHasBalance,
			ESIMStatus:         session.ESIMAvailable,
			ActivationBehavior: session.BehaviorFail,
		},
	},
	{
		Email:       "esim-success@esim.demo",
		Description: "Test account that always succeeds in automatic eSIM activation.",
		Profile: &session.User{
			FirstName:          "Ryan",
			LastName:           "Chang",
			Email:              "esim-success@esim.demo",
			Balance:            decimal.NewFromInt(40),
			AccountType:        session.AccountHasBalance,
			ESIMStatus:         session.ESIMAvailable,
			ActivationBehavior: session.BehaviorSuccess,
		},
	},
}

var (
	hashesOnce sync.Once
	hashes     map[string]string
	hashErr    error
)

func accountHashes() (map[string]string, error) {
	hashesOnce.Do(func() {
		shared, err := core.HashPassword(DemoPassword)
		if err != nil {
			hashErr = fmt.Errorf("hash demo password: %w", err)
			return
		}

		hashes = make(map[string]string, len(demoAccounts))
		for _, a := range demoAccounts {
			hashes[a.Email] = shared
		}
	})
	return hashes, hashErr
}

// Accounts returns copies of every demo identity.
func Accounts() []Account {
	out := make([]Account, len(demoAccounts))
	for i, a := range demoAccounts {
		out[i] = a.clone()
	}
	return out
}

func AccountByEmail(email string) (Account, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range demoAccounts {
		if a.Email == email {
			return a.clone(), true
		}
	}
	return Account{}, false
}

// Authenticate matches an email and password against the demo
// identities and returns a fresh copy of the seed profile.
func Authenticate(email, password string) (*session.User, error) {
	known, err := accountHashes()
	if err != nil {
		return nil, err
	}

	account, found := AccountByEmail(email)

	var hash *string
	if found {
		h := known[account.Email]
		hash = &h
	}

	ok, err := core.VerifyPasswordTimingSafe(password, hash)
	if err != nil {
		return nil, fmt.Errorf("verify demo password: %w", err)
	}
	if !found || !ok {
		return nil, ErrUnknownAccount
	}

	return account.Profile, nil
}
