// Package formatting provides parsing and display helpers for the
// currency-formatted strings that flow between document extraction, the tax
// estimator, and stamp rendering.
package formatting

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned when a string cannot be read as a currency amount.
var ErrInvalidAmount = errors.New("invalid currency amount")

// DateLayout is the presentation layout for effective and expiration dates.
const DateLayout = "01/02/2006"

// ParseAmount reads a currency fragment such as "1,234.56", "US$500.00" or
// "($35.00)". Thousands separators and currency markers are stripped;
// parenthesized amounts are negative.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	for _, marker := range []string{"US$", "USD", "$"} {
		cleaned = strings.ReplaceAll(cleaned, marker, "")
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = strings.Trim(cleaned, "()")
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if negative {
		v = -math.Abs(v)
	}
	return v, nil
}

// Currency renders v with thousands separators and two decimals: "1,234.56".
func Currency(v float64) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i := range len(whole) {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(whole[i])
	}
	out := b.String() + "." + frac
	if v < 0 {
		out = "-" + out
	}
	return out
}

// NormalizeCurrency reparses a scraped currency string into the canonical
// display form: "$1,234.56" stays "1,234.56", "(500.00)" becomes "-500.00".
func NormalizeCurrency(s string) (string, error) {
	v, err := ParseAmount(s)
	if err != nil {
		return "", err
	}
	return Currency(v), nil
}
