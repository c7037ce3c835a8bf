// AngelaMos | 2026
// errors.go

package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPaymentFailed       = errors.New("payment failed")
	ErrInvalidAmount       = errors.New("invalid top-up amount")
	ErrInvalidCard         = errors.New("invalid card details")
	ErrNoSavedCard         = errors.New("no saved card")
	ErrUnknownPlan         = errors.New("unknown plan")
	ErrUnsupportedMethod   = errors.New("unsupported payment method")
)

// InsufficientBalanceError carries the amounts of a rejected purchase.
type InsufficientBalanceError struct {
	Price   decimal.Decimal
	Balance decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf(
		"insufficient balance: price %s exceeds balance %s",
		e.Price.StringFixed(2),
		e.Balance.StringFixed(2),
	)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

func (e *InsufficientBalanceError) Shortfall() decimal.Decimal {
	return e.Price.Sub(e.Balance)
}

// PaymentError is a declined simulated payment. Message is shown to the
// user as is.
type PaymentError struct {
	Method  PaymentMethod
	Message string
}

func (e *PaymentError) Error() string {
	return e.Message
}

func (e *PaymentError) Unwrap() error {
	return ErrPaymentFailed
}

type CardError struct {
	Message string
}

func (e *CardError) Error() string {
	return e.Message
}

func (e *CardError) Unwrap() error {
	return ErrInvalidCard
}
