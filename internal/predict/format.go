package predict

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PredictionPrefix precedes the formatted price in form output
const PredictionPrefix = "Predicted House Price: "

var printer = message.NewPrinter(language.English)

// FormatPrice renders p as dollars with two decimals and thousands separators,
// e.g. 1234567.8 -> "$1,234,567.80"
func FormatPrice(p float64) string {
	return "$" + printer.Sprintf("%.2f", p)
}

// FormatPrediction renders the form output line for p
func FormatPrediction(p float64) string {
	return PredictionPrefix + FormatPrice(p)
}
