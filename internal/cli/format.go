// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney formats a rupee amount with the Indian digit grouping.
// e.g., 1234567.50 -> "₹12,34,567.50", 175 -> "₹175"
func FormatMoney(amount decimal.Decimal) string {
	neg := amount.Sign() < 0
	abs := amount.Abs()

	s := abs.StringFixed(2)
	s = strings.TrimSuffix(s, ".00")

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	grouped := groupIndian(intPart)
	if neg {
		return "-₹" + grouped + fracPart
	}
	return "₹" + grouped + fracPart
}

// groupIndian inserts separators in the Indian style: the last three digits
// form one group, everything before that groups in pairs.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}

// FormatDate renders a date as "10 May 2025".
func FormatDate(d time.Time) string {
	return d.Format("2 Jan 2006")
}

// FormatDateShort renders a date as "10 May".
func FormatDateShort(d time.Time) string {
	return d.Format("2 Jan")
}

// FormatDayOfWeek returns a 3-letter day abbreviation.
func FormatDayOfWeek(d time.Time) string {
	return d.Format("Mon")
}

// FormatDays renders a day count as "12 days" / "1 day".
func FormatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// FormatSigned formats a rupee amount with an explicit sign, for deltas and
// wiggle room.
func FormatSigned(amount decimal.Decimal) string {
	if amount.Sign() >= 0 {
		return "+" + FormatMoney(amount)
	}
	return FormatMoney(amount)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}
