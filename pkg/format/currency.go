// Package format renders amounts and ratios for display using locale-aware
// number formatting.
package format

import (
	"github.com/iwvelando/ads-advisor/pkg/constants"
	"github.com/iwvelando/ads-advisor/pkg/mathutil"
	"github.com/iwvelando/ads-advisor/pkg/metrics"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NotApplicable is shown for absent values.
const NotApplicable = "-"

// Formatter formats numbers for one locale.
type Formatter struct {
	printer *message.Printer
}

// New returns a formatter for tag.
func New(tag language.Tag) Formatter {
	return Formatter{printer: message.NewPrinter(tag)}
}

// Romanian returns the formatter used by the dashboard (ro-RO).
func Romanian() Formatter {
	return New(language.Romanian)
}

// Number formats v with a fixed number of decimals.
func (f Formatter) Number(v float64, decimals int) string {
	return f.printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals),
	))
}

// Currency formats an amount with two decimals and the currency symbol, e.g. "499,90 lei".
func (f Formatter) Currency(amount float64) string {
	return f.Number(amount, constants.CurrencyDecimals) + " " + constants.CurrencySymbol
}

// OptionalCurrency formats a possibly absent amount.
func (f Formatter) OptionalCurrency(v metrics.Optional) string {
	amount, ok := v.Get()
	if !ok {
		return NotApplicable
	}
	return f.Currency(amount)
}

// CurrencyPtr formats an amount that may be missing, such as a competitor price.
func (f Formatter) CurrencyPtr(v *float64) string {
	if v == nil {
		return NotApplicable
	}
	return f.Currency(*v)
}

// Percent formats a fraction as a percentage with two decimals, e.g. "4,26%".
func (f Formatter) Percent(fraction float64) string {
	return f.Number(mathutil.ToPercent(fraction), 2) + "%"
}

// Multiple formats a ratio such as ROAS with one decimal, e.g. "11,2x".
func (f Formatter) Multiple(ratio float64) string {
	return f.Number(ratio, 1) + "x"
}
