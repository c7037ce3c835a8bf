// AngelaMos | 2026
// user.go

package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidRecord = errors.New("invalid session record")

type AccountType string

const (
	AccountNoBalance  AccountType = "no-balance"
	AccountHasBalance AccountType = "has-balance"
	AccountHasPlan    AccountType = "has-plan"
	AccountNew        AccountType = "new"
	AccountRegular    AccountType = "regular"
)

type ESIMStatus string

const (
	ESIMNone      ESIMStatus = "none"
	ESIMAvailable ESIMStatus = "available"
	ESIMInstalled ESIMStatus = "installed"
	ESIMActive    ESIMStatus = "active"
)

type ActivationBehavior string

const (
	BehaviorUnset   ActivationBehavior = ""
	BehaviorSuccess ActivationBehavior = "success"
	BehaviorFail    ActivationBehavior = "fail"
)

type PlanType string

const (
	PlanPrepaid      PlanType = "prepaid"
	PlanSubscription PlanType = "subscription"
	PlanPayg         PlanType = "payg"
)

type Plan struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Country     string          `json:"country,omitempty"`
	Region      string          `json:"region,omitempty"`
	Data        string          `json:"data"`
	DataTotal   float64         `json:"dataTotal"`
	Validity    string          `json:"validity,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Features    []string        `json:"features,omitempty"`
	Type        PlanType        `json:"type"`
	DataUsed    float64         `json:"dataUsed"`
	DaysLeft    int             `json:"daysLeft,omitempty"`
	AutoRenew   bool            `json:"autoRenew,omitempty"`
	Popular     bool            `json:"popular,omitempty"`
}

func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	out := *p
	out.Features = append([]string(nil), p.Features...)
	return &out
}

type UsageData struct {
	PlanName       string  `json:"planName"`
	DataUsed       float64 `json:"dataUsed"`
	DataTotal      float64 `json:"dataTotal"`
	ExpirationDays int     `json:"expirationDays"`
}

type AutoRenewal struct {
	Enabled              bool             `json:"enabled"`
	RenewalDate          *time.Time       `json:"renewalDate,omitempty"`
	RenewalAmount        *decimal.Decimal `json:"renewalAmount,omitempty"`
	PreferredTopUpAmount *decimal.Decimal `json:"preferredTopUpAmount,omitempty"`
}

type Promotions struct {
	HasReferralBonus   bool     `json:"hasReferralBonus,omitempty"`
	SeasonalOffers     []string `json:"seasonalOffers,omitempty"`
	RegionalPromotions []string `json:"regionalPromotions,omitempty"`
}

// User is the session record every view reads on mount and writes back
// whole after an action.
type User struct {
	FirstName          string             `json:"firstName"`
	LastName           string             `json:"lastName,omitempty"`
	Email              string             `json:"email"`
	Balance            decimal.Decimal    `json:"balance"`
	ActivePlan         *Plan              `json:"activePlan"`
	AccountType        AccountType        `json:"accountType"`
	ESIMStatus         ESIMStatus         `json:"esimStatus,omitempty"`
	ActivationBehavior ActivationBehavior `json:"activationBehavior,omitempty"`
	UsageData          *UsageData         `json:"usageData,omitempty"`
	AutoRenewal        *AutoRenewal       `json:"autoRenewal,omitempty"`
	Promotions         *Promotions        `json:"promotions,omitempty"`
}

// Status treats a missing eSIM status as none.
func (u *User) Status() ESIMStatus {
	if u.ESIMStatus == "" {
		return ESIMNone
	}
	return u.ESIMStatus
}

func (u *User) CanAfford(price decimal.Decimal) bool {
	return u.Balance.GreaterThanOrEqual(price)
}

func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Validate checks the record invariants. Data usage above the plan
// allowance is accepted as stored.
func (u *User) Validate() error {
	if u.Balance.IsNegative() {
		return fmt.Errorf("%w: balance %s is negative", ErrInvalidRecord, u.Balance)
	}

	if u.Status() == ESIMActive && u.UsageData == nil {
		return fmt.Errorf("%w: active eSIM without usage data", ErrInvalidRecord)
	}

	return nil
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}

	out := *u
	out.ActivePlan = u.ActivePlan.Clone()

	if u.UsageData != nil {
		usage := *u.UsageData
		out.UsageData = &usage
	}

	if u.AutoRenewal != nil {
		renewal := *u.AutoRenewal
		if u.AutoRenewal.RenewalDate != nil {
			date := *u.AutoRenewal.RenewalDate
			renewal.RenewalDate = &date
		}
		if u.AutoRenewal.RenewalAmount != nil {
			amount := *u.AutoRenewal.RenewalAmount
			renewal.RenewalAmount = &amount
		}
		if u.AutoRenewal.PreferredTopUpAmount != nil {
			amount := *u.AutoRenewal.PreferredTopUpAmount
			renewal.PreferredTopUpAmount = &amount
		}
		out.AutoRenewal = &renewal
	}

	if u.Promotions != nil {
		promos := *u.Promotions
		promos.SeasonalOffers = append([]string(nil), u.Promotions.SeasonalOffers...)
		promos.RegionalPromotions = append([]string(nil), u.Promotions.RegionalPromotions...)
		out.Promotions = &promos
	}

	return &out
}

// CardSummary is the masked card remembered after a successful card
// payment.
type CardSummary struct {
	Last4          string `json:"last4"`
	CardType       string `json:"cardType"`
	CardholderName string `json:"cardholderName"`
	ExpiryDate     string `json:"expiryDate"`
}
