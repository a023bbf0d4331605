package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hazyhaar/seatwatch/seat"
)

// currencyRe matches one currency amount: a symbol followed by digits,
// optional thousands separators and up to two decimals.
var currencyRe = regexp.MustCompile(`[£$€]\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

// parsePrices extracts every currency amount in document order. The
// first match is the nominal price; the maximum is the range ceiling
// when the listing shows a price range. The currency comes from the
// first symbol seen.
func parsePrices(text string) (prices []float64, cur seat.Currency) {
	matches := currencyRe.FindAllStringSubmatch(text, -1)
	for i, m := range matches {
		if i == 0 {
			cur = symbolCurrency(m[0])
		}
		raw := strings.ReplaceAll(m[1], ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		prices = append(prices, v)
	}
	return prices, cur
}

func symbolCurrency(match string) seat.Currency {
	switch {
	case strings.HasPrefix(match, "£"):
		return seat.CurrencyGBP
	case strings.HasPrefix(match, "$"):
		return seat.CurrencyUSD
	case strings.HasPrefix(match, "€"):
		return seat.CurrencyEUR
	}
	return seat.CurrencyGBP
}

func maxOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
