// AngelaMos | 2026
// card.go

package billing

import (
	"regexp"
	"strings"

	"github.com/carterperez-dev/esimphony/internal/session"
)

type PaymentMethod string

const (
	MethodCard   PaymentMethod = "card"
	MethodApple  PaymentMethod = "apple"
	MethodGoogle PaymentMethod = "google"
)

func (m PaymentMethod) label() string {
	switch m {
	case MethodApple:
		return "Apple Pay"
	case MethodGoogle:
		return "Google Pay"
	default:
		return "Card"
	}
}

type CardDetails struct {
	CardholderName string `json:"cardholderName" validate:"max=100"`
	CardNumber     string `json:"cardNumber"     validate:"max=23"`
	ExpiryDate     string `json:"expiryDate"     validate:"max=5"`
	CVV            string `json:"cvv"            validate:"max=4"`
}

var cardTypes = []struct {
	pattern *regexp.Regexp
	name    string
}{
	{regexp.MustCompile(`^4`), "visa"},
	{regexp.MustCompile(`^5[1-5]`), "mastercard"},
	{regexp.MustCompile(`^3[47]`), "amex"},
	{regexp.MustCompile(`^6`), "discover"},
}

func CardType(number string) string {
	for _, t := range cardTypes {
		if t.pattern.MatchString(number) {
			return t.name
		}
	}
	return "card"
}

func (c CardDetails) number() string {
	return strings.ReplaceAll(strings.TrimSpace(c.CardNumber), " ", "")
}

// Validate applies the checks of the payment form in order and reports
// the first failing field.
func (c CardDetails) Validate() error {
	switch {
	case strings.TrimSpace(c.CardholderName) == "":
		return &CardError{Message: "Please enter cardholder name"}
	case len(c.number()) < 16:
		return &CardError{Message: "Please enter a valid card number"}
	case len(c.ExpiryDate) < 5:
		return &CardError{Message: "Please enter a valid expiry date"}
	case len(c.CVV) < 3:
		return &CardError{Message: "Please enter a valid CVV"}
	}
	return nil
}

func (c CardDetails) Summary() session.CardSummary {
	number := c.number()
	return session.CardSummary{
		Last4:          number[len(number)-4:],
		CardType:       CardType(number),
		CardholderName: strings.TrimSpace(c.CardholderName),
		ExpiryDate:     c.ExpiryDate,
	}
}
