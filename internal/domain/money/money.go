// Package money implements fixed-point currency arithmetic in integer minor
// units (cents). All sums and differences are exact; decimal strings only
// appear at the boundary, when parsing user or adapter input and when
// formatting for display.
package money

import (
	"fmt"
	"strings"
)

// Money is an amount in minor currency units. Line item prices are never
// negative; differences (change owed to the customer, or a shortfall) may be.
type Money int64

// ParseError indicates a decimal string that cannot be converted to Money.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid amount %q: %s", e.Input, e.Reason)
}

// Parse converts a non-negative decimal string with at most two fractional
// digits into Money. A single fractional digit is padded, so "12.5" parses to
// 1250 minor units. Negative amounts, more than two fractional digits, and
// anything that is not a plain decimal number are rejected.
func Parse(s string) (Money, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, &ParseError{Input: s, Reason: "empty amount"}
	}
	if strings.HasPrefix(trimmed, "-") {
		return 0, &ParseError{Input: s, Reason: "amount cannot be negative"}
	}
	if strings.HasPrefix(trimmed, "+") {
		trimmed = trimmed[1:]
	}

	whole, frac := trimmed, ""
	if i := strings.IndexByte(trimmed, '.'); i >= 0 {
		whole, frac = trimmed[:i], trimmed[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, &ParseError{Input: s, Reason: "no digits"}
	}
	if len(frac) > 2 {
		return 0, &ParseError{Input: s, Reason: "more than two fractional digits"}
	}
	// Pad "12.5" to "12.50" and "12." to "12.00".
	for len(frac) < 2 {
		frac += "0"
	}

	var minor int64
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return 0, &ParseError{Input: s, Reason: "not a decimal number"}
		}
		digit := int64(r - '0')
		if minor > (1<<62)/10 {
			return 0, &ParseError{Input: s, Reason: "amount too large"}
		}
		minor = minor*10 + digit
	}

	return Money(minor), nil
}

// Add returns the exact sum of m and other.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns m minus other. The result may be negative.
func (m Money) Sub(other Money) Money {
	return m - other
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// Abs returns the magnitude of the amount. Display-only; callers must keep
// exposing the sign separately.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// String formats the amount as "major.minor" with exactly two fractional
// digits, preserving the sign.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
