// internal/report/format.go
package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Separator is the horizontal rule between report sections.
const Separator = "─────────────────────────────────────"

var printer = message.NewPrinter(language.English)

// Money renders an amount in dirhams with thousands grouping and two
// decimals, e.g. "AED 12,345.67".
func Money(v float64) string {
	return printer.Sprintf("AED %v", number.Decimal(v,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}
