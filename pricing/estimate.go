// Package pricing holds the client-side approximate price. It mirrors the
// backend rate but is display-only: the amount actually charged always comes
// from the gateway's price endpoint.
package pricing

import (
	"fmt"
	"math"

	"github.com/pedrops164/ShortsCreator/domain/models"
	"github.com/pedrops164/ShortsCreator/templates"
)

// Pricing model: 7 cents per 1000 narrated characters, rounded up.
const CentsPerThousandChars = 7.0

// AIAssistSurchargeCents - ค่าธรรมเนียมคงที่ของ template ที่มี AI assist
const AIAssistSurchargeCents = 1

// EstimateCents converts a narrated character count into cents.
func EstimateCents(charCount int) int {
	if charCount == 0 {
		return 0
	}
	return int(math.Ceil(float64(charCount) / 1000.0 * CentsPerThousandChars))
}

// EstimateForParams is the estimate shown while editing: the linear rate
// over the params' narration length, plus the flat surcharge when the
// template carries the AI assist affordance. Zero narrated characters stay
// a zero estimate.
func EstimateForParams(params models.TemplateParams) int {
	chars := params.NarrationLength()
	if chars == 0 {
		return 0
	}
	cents := EstimateCents(chars)
	if d, ok := templates.ByID(params.TemplateID()); ok && d.AIAssist {
		cents += AIAssistSurchargeCents
	}
	return cents
}

// FormatCents renders cents for display, e.g. 150 -> "$1.50".
func FormatCents(cents int, currency string) string {
	symbol := currency + " "
	switch currency {
	case "", "USD":
		symbol = "$"
	case "EUR":
		symbol = "€"
	case "GBP":
		symbol = "£"
	}
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, symbol, cents/100, cents%100)
}
