package common

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders a dollar amount with thousands separators, e.g. $1,234,567.89
func FormatMoney(v decimal.Decimal) string {
	neg := v.IsNegative()
	s := groupThousands(v.Abs().StringFixed(2))
	if neg {
		return "-$" + s
	}
	return "$" + s
}

// FormatSignedMoney is FormatMoney with an explicit leading sign for positive values
func FormatSignedMoney(v decimal.Decimal) string {
	if v.IsPositive() {
		return "+" + FormatMoney(v)
	}
	return FormatMoney(v)
}

// FormatCompactMoney renders large dollar amounts as $1.2B / $345.6M / $12.3K
func FormatCompactMoney(v decimal.Decimal) string {
	abs := v.Abs()
	sign := ""
	if v.IsNegative() {
		sign = "-"
	}

	billion := decimal.New(1, 9)
	million := decimal.New(1, 6)
	thousand := decimal.New(1, 3)

	switch {
	case abs.GreaterThanOrEqual(billion):
		return fmt.Sprintf("%s$%sB", sign, abs.Div(billion).StringFixed(2))
	case abs.GreaterThanOrEqual(million):
		return fmt.Sprintf("%s$%sM", sign, abs.Div(million).StringFixed(2))
	case abs.GreaterThanOrEqual(thousand):
		return fmt.Sprintf("%s$%sK", sign, abs.Div(thousand).StringFixed(1))
	default:
		return sign + "$" + abs.StringFixed(2)
	}
}

// FormatSignedPct renders a percentage with an explicit sign, e.g. +12.3%
func FormatSignedPct(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.1f%%", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}

// FormatShares renders a share count with thousands separators
func FormatShares(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := groupThousands(fmt.Sprintf("%d", n))
	if neg {
		return "-" + s
	}
	return s
}

// groupThousands inserts commas into the integer part of a plain numeric string.
func groupThousands(s string) string {
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	n := len(intPart)
	if n <= 3 {
		return intPart + fracPart
	}

	var sb strings.Builder
	lead := n % 3
	if lead > 0 {
		sb.WriteString(intPart[:lead])
	}
	for i := lead; i < n; i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(intPart[i : i+3])
	}
	return sb.String() + fracPart
}
