package domain

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Money is an amount in cents.
type Money int64

// Dollars builds a Money from whole dollars and cents.
func Dollars(d, c int64) Money {
	return Money(d*100 + c)
}

// ParseMoney parses a decimal amount such as "299.99".
func ParseMoney(s string) (Money, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse money %q: %w", s, err)
	}
	return Money(math.Round(f * 100)), nil
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Float returns the amount in dollars.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// MarshalJSON writes the amount as a two-decimal number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both a JSON number and a decimal string, since the
// backend serialises decimals as strings.
func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*m = 0
		return nil
	}
	v, err := ParseMoney(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
