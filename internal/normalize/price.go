// Package normalize converts raw extracted strings into the typed values of a
// canonical product record: locale-aware prices, tri-state stock, plausible
// identifiers, validated breadcrumbs, and the canonical name.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	priceCharset  = regexp.MustCompile(`[^\d,.\-]`)
	dotThousands  = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	commaGrouping = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
)

// ParsePrice parses European and plain decimal price text.
// "€ 1.234,56" -> 1234.56, "49,-" -> 49, "59.99" -> 59.99, "1,234.56" -> 1234.56.
// When both separators appear, the right-most one is the decimal separator.
func ParsePrice(text string) (float64, bool) {
	cleaned := priceCharset.ReplaceAllString(text, "")
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		return 0, false
	}

	// "49,-" / "49.-" style: the dash marks zero cents and was trimmed above,
	// leaving a trailing separator.
	cleaned = strings.TrimRight(cleaned, ",.")
	if cleaned == "" {
		return 0, false
	}

	comma := strings.LastIndex(cleaned, ",")
	dot := strings.LastIndex(cleaned, ".")

	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case comma >= 0:
		if commaGrouping.MatchString(cleaned) {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		}
	case dot >= 0:
		if dotThousands.MatchString(cleaned) {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	}

	// Multiple decimal points survive only in garbage input.
	if strings.Count(cleaned, ".") > 1 {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

// Discount derives the discount pair from a base/current price couple.
// A base below the current price is a mis-detected secondary price and yields
// no discount.
func Discount(base, current float64) (amount, percent float64, ok bool) {
	if base < current || base <= 0 {
		return 0, 0, false
	}
	amount = round2(base - current)
	percent = round2(amount / base * 100)
	return amount, percent, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
