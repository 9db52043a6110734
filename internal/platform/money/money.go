// Package money computes exact order totals and renders them per locale.
package money

import (
	"fmt"

	"github.com/louisbranch/storefront/internal/platform/i18n"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/message"
)

// Line is one priced cart or order line.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Total returns UnitPrice × Quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Sum returns the exact sum of every line total. No rounding is applied.
func Sum(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Total())
	}
	return total
}

// Money pairs an amount with the currency it is displayed in.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// In tags amount with the display currency of loc.
func In(amount decimal.Decimal, loc i18n.Locale) Money {
	return Money{Amount: amount, Currency: loc.Currency()}
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Amount.String())
}

// Format renders amount with the currency symbol and number conventions of
// loc. Rounding to the currency's minor unit happens here and only here.
func Format(loc i18n.Locale, amount decimal.Decimal) string {
	if !loc.Valid() {
		loc = i18n.Default
	}
	m := In(amount, loc)
	// Display only; the decimal stays authoritative for order requests.
	f, _ := m.Amount.Float64()
	p := message.NewPrinter(loc.Tag())
	return p.Sprint(currency.Symbol(m.Currency.Amount(f)))
}

// Formatter binds Format to one locale for templates.
type Formatter struct {
	Locale i18n.Locale
}

// Format renders amount in the formatter's locale.
func (f Formatter) Format(amount decimal.Decimal) string {
	return Format(f.Locale, amount)
}
