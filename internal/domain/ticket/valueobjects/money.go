package valueobjects

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in cents. Arithmetic stays in integers so repeated
// aggregation never drifts.
type Money int64

// NewMoneyFromCents wraps a cent amount.
func NewMoneyFromCents(cents int64) Money {
	return Money(cents)
}

// ParseMoney parses a decimal amount with at most two fraction digits,
// such as "150", "150.5" or "150.00".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	if s[0] == '-' {
		negative = true
		s = s[1:]
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || (hasFrac && (frac == "" || len(frac) > 2)) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	var cents int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
	}

	total := units*100 + cents
	if negative {
		total = -total
	}
	return Money(total), nil
}

func (m Money) Cents() int64 {
	return int64(m)
}

func (m Money) IsZero() bool {
	return m == 0
}

func (m Money) Add(other Money) Money {
	return m + other
}

// String formats the amount with exactly two fraction digits.
func (m Money) String() string {
	cents := int64(m)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
