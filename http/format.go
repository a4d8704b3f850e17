package http

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Casers and printers keep state between calls, so each call gets its own.

// formatValue renders a feature value with two decimals, like the input widgets.
func formatValue(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.2f", v)
}

// displayCrop turns a label such as "kidneybeans" or "pigeon peas" into a title.
func displayCrop(label string) string {
	return cases.Title(language.English).String(label)
}

func formatPercent(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.0f%%", v*100)
}
