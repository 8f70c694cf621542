package exporter

import (
	"fmt"
	"math"
	"strings"

	"adpulse/pkg/contracts/domain"
)

// CurrencySymbol prefixes money values in text output
const CurrencySymbol = "₹"

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatNumber renders an absent Number as an empty cell
func formatNumber(n domain.Number) string {
	if !n.Valid {
		return ""
	}
	return formatFloat(n.Value)
}

// formatCurrency renders v as ₹1,234.50
func formatCurrency(v float64) string {
	return CurrencySymbol + groupThousands(fmt.Sprintf("%.2f", v))
}

// formatCount renders v rounded to a whole number with thousands separators
func formatCount(v float64) string {
	return groupThousands(fmt.Sprintf("%.0f", math.Round(v)))
}

// formatTotal renders whole sums as counts and fractional sums with two
// decimals
func formatTotal(v float64) string {
	if v == math.Trunc(v) {
		return formatCount(v)
	}
	return groupThousands(fmt.Sprintf("%.2f", v))
}

// formatRatio renders a ratio with two decimals, or n/a when undefined
func formatRatio(n domain.Number) string {
	if !n.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", n.Value)
}

// groupThousands inserts commas into the integer part of a formatted number.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}
