package wizard

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PaymentMethod is a simulated payment option.
type PaymentMethod struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// PaymentMethods lists the options offered at checkout.
var PaymentMethods = []PaymentMethod{
	{ID: "paypal", Label: "PayPal"},
	{ID: "cashapp", Label: "CashApp"},
	{ID: "venmo", Label: "Venmo"},
	{ID: "card", Label: "Credit Card"},
	{ID: "apple", Label: "Apple Pay"},
}

// LookupPaymentMethod returns the method with id.
func LookupPaymentMethod(id string) (PaymentMethod, bool) {
	for _, m := range PaymentMethods {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

// CompletionMessage is shown once the simulated payment is confirmed.
const CompletionMessage = "Commission Logged."

// Pricing is the commission quote.
type Pricing struct {
	Cents    int64
	Currency string
	LeadTime string
}

// FormatPrice renders cents in the currency's symbol with two decimals,
// e.g. "$185.00". Unknown currency codes fall back to the code itself.
func FormatPrice(cents int64, code string) string {
	printer := message.NewPrinter(language.AmericanEnglish)
	amount := printer.Sprintf("%.2f", float64(cents)/100)
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return fmt.Sprintf("%s %s", strings.ToUpper(code), amount)
	}
	return printer.Sprint(currency.NarrowSymbol(unit)) + amount
}

// CheckoutState is the Fulfillment sub-state.
type CheckoutState struct {
	Price    string `json:"price"`
	LeadTime string `json:"leadTime"`
	Method   string `json:"method,omitempty"`
	Complete bool   `json:"complete"`
	Message  string `json:"message,omitempty"`
}
