package assistant

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"CNY": "¥",
	"AUD": "A$",
	"CAD": "CA$",
}

var defaultUnit = currency.MustParseISO("INR")

type formatter struct {
	prefix string
}

// newFormatter falls back to INR when code is empty or not an ISO 4217 code.
func newFormatter(code string) formatter {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		unit = defaultUnit
	}
	if sym, ok := symbols[unit.String()]; ok {
		return formatter{prefix: sym}
	}
	return formatter{prefix: unit.String() + " "}
}

func (f formatter) format(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	return sign + f.prefix + humanize.FormatFloat("#,###.##", amount.Round(2).InexactFloat64())
}

// FormatAmount renders amount in the given ISO 4217 currency, e.g. "$1,234.50".
func FormatAmount(amount decimal.Decimal, code string) string {
	return newFormatter(code).format(amount)
}
