package diagnostic

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var colombianSpanish = language.MustParse("es-CO")

// FormatCOP renders an amount in Colombian pesos with local digit grouping.
func FormatCOP(amount float64) string {
	return message.NewPrinter(colombianSpanish).Sprintf("$%.0f COP", amount)
}

// FormatKwh renders an energy quantity with local digit grouping.
func FormatKwh(kwh float64) string {
	return message.NewPrinter(colombianSpanish).Sprintf("%.0f kWh", kwh)
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(pct float64) string {
	return message.NewPrinter(colombianSpanish).Sprintf("%.1f%%", pct)
}
