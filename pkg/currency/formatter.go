package currency

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

var symbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"PLN": "zł",
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
}

// Symbol falls back to the ISO code for currencies without a known sign.
func Symbol(code string) string {
	code = strings.ToUpper(code)
	if s, ok := symbols[code]; ok {
		return s
	}
	return code
}

// Format renders amount with thousands separators and at most two decimals,
// dropping them entirely for whole amounts: "€1,234", "€19.99".
func Format(amount float64, code string) string {
	rounded := math.Round(amount*100) / 100

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	var formatted string
	if rounded == math.Trunc(rounded) {
		formatted = humanize.FormatFloat("#,###.", rounded)
	} else {
		formatted = humanize.FormatFloat("#,###.##", rounded)
	}

	result := Symbol(code) + formatted
	if negative {
		result = "-" + result
	}

	return result
}
