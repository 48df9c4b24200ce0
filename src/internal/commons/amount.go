package commons

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fraction digits kept for every monetary value.
const AmountScale = 2

// maxAmountLength bounds the literal before any decimal arithmetic runs.
const maxAmountLength = 32

// Exponent window a literal may carry; checked before rescaling.
const (
	minAmountExponent = -maxAmountLength
	maxAmountExponent = 14
)

// MaxAmount is the largest amount or balance a store column can hold.
var MaxAmount = decimal.RequireFromString("999999999999.99")

// WithinLimit reports whether value fits the storable balance range.
func WithinLimit(value decimal.Decimal) bool {
	return !value.GreaterThan(MaxAmount)
}

// ParseAmount parses a strictly positive monetary amount with at most two
// fraction digits.
func ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := parseFixed(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

// ParseBalance parses a non-negative balance. An empty value means zero.
func ParseBalance(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	balance, err := parseFixed(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if balance.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return balance, nil
}

func parseFixed(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || len(trimmed) > maxAmountLength {
		return decimal.Zero, ErrInvalidAmount
	}

	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if exp := value.Exponent(); exp < minAmountExponent || exp > maxAmountExponent {
		return decimal.Zero, ErrInvalidAmount
	}
	// scientific notation and extra digits are accepted only if they collapse to cents
	if !value.Equal(value.Truncate(AmountScale)) {
		return decimal.Zero, ErrInvalidAmount
	}
	value = value.Truncate(AmountScale)
	if !WithinLimit(value) {
		return decimal.Zero, ErrInvalidAmount
	}
	return value, nil
}

// FormatAmount renders an amount with exactly two fraction digits.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(AmountScale)
}
