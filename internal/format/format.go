// Package format renders prices and counts for templates.
package format

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var symbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// Money formats amount in major units. Whole amounts drop the fraction; others use
// the currency's standard number of decimals.
// Example: Money(1299.5, "INR", "en") => "₹1,299.50"
func Money(amount float64, code, lang string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.INR
		code = "INR"
	}
	scale, _ := currency.Standard.Rounding(unit)
	if amount == math.Trunc(amount) {
		scale = 0
	}
	p := message.NewPrinter(parseLang(lang))
	digits := p.Sprintf("%v", number.Decimal(amount, number.Scale(scale)))

	symbol, ok := symbols[code]
	if !ok {
		return code + " " + digits
	}
	if strings.HasPrefix(digits, "-") {
		return "-" + symbol + strings.TrimPrefix(digits, "-")
	}
	return symbol + digits
}

// Percent renders a discount percentage such as "20%".
func Percent(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f%%", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}

// Count renders a grouped integer, e.g. 12,345.
func Count(n int, lang string) string {
	return message.NewPrinter(parseLang(lang)).Sprintf("%d", n)
}

// Stars splits a 0..5 rating into full, half and empty star counts.
func Stars(rating float64) (full, half, empty int) {
	rating = math.Min(math.Max(rating, 0), 5)
	full = int(rating)
	if rating-float64(full) >= 0.5 {
		half = 1
	}
	empty = 5 - full - half
	return full, half, empty
}

func parseLang(lang string) language.Tag {
	tag, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	return tag
}
