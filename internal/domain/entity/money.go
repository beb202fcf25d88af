package entity

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is a decimal amount with two fractional digits, held as integer cents
type Money int64

// maxWholeUnits keeps whole*100 + 99 inside int64
const maxWholeUnits = (math.MaxInt64 - 99) / 100

// ErrMoneyOverflow is returned when an amount does not fit in int64 cents
var ErrMoneyOverflow = errors.New("amount out of range")

// Cents builds a Money value from minor units
func Cents(c int64) Money {
	return Money(c)
}

// ParseMoney parses a decimal string such as "1000", "800.5" or "0.01".
// More than two fractional digits is rejected rather than rounded.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	if s[0] == '-' || s[0] == '+' {
		negative = s[0] == '-'
		s = s[1:]
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && (!hasFrac || frac == "") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}

	var units int64
	if whole != "" {
		w, err := strconv.ParseUint(whole, 10, 64)
		if errors.Is(err, strconv.ErrRange) || (err == nil && w > maxWholeUnits) {
			return 0, fmt.Errorf("amount %q: %w", s, ErrMoneyOverflow)
		}
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
		units = int64(w) * 100
	}
	if frac != "" {
		for len(frac) < 2 {
			frac += "0"
		}
		f, err := strconv.ParseUint(frac, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
		units += int64(f)
	}

	if negative {
		units = -units
	}
	return Money(units), nil
}

// MustParseMoney is ParseMoney for constants and tests; it panics on bad input
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Cents returns the amount in minor units
func (m Money) Cents() int64 {
	return int64(m)
}

// IsPositive returns true if the amount is strictly greater than zero
func (m Money) IsPositive() bool {
	return m > 0
}

// Sub returns m - other
func (m Money) Sub(other Money) Money {
	return m - other
}

// Times multiplies the amount by an integer quantity
func (m Money) Times(qty int) (Money, error) {
	q := int64(qty)
	if m == 0 || q == 0 {
		return 0, nil
	}
	product := int64(m) * q
	if product/q != int64(m) || (q == -1 && m == math.MinInt64) {
		return 0, fmt.Errorf("%s x %d: %w", m, qty, ErrMoneyOverflow)
	}
	return Money(product), nil
}

// Ptr returns a pointer to a copy of m
func (m Money) Ptr() *Money {
	return &m
}

// String formats the amount with exactly two decimals
func (m Money) String() string {
	sign := ""
	v := uint64(m)
	if m < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a JSON number with two decimals
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) >= 2 && data[0] == '"' {
		unquoted, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		data = []byte(unquoted)
	}

	parsed, err := ParseMoney(string(data))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
