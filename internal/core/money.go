// Package core provides the billing domain model and money handling.
//
// Money is stored as integer cents to avoid floating-point drift in the
// aggregation paths; on the wire it is a plain decimal number of pesos, the
// representation the original contract uses.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount of pesos stored as cents.
type Money struct {
	Cents int64
}

// Pesos builds a Money from a whole-peso amount.
func Pesos(n int64) Money {
	return Money{Cents: n * 100}
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// Percent returns the given integer percentage of m, rounded down.
func (m Money) Percent(p int64) Money {
	return Money{Cents: m.Cents * p / 100}
}

// Pretty renders the amount with a thousands separator for user-facing
// messages ($1.234,56 style without the currency sign).
func (m Money) Pretty() string {
	neg := m.Cents < 0
	c := m.Cents
	if neg {
		c = -c
	}
	whole := strconv.FormatInt(c/100, 10)
	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(whole[i : i+3])
	}
	s := b.String()
	if rem := c % 100; rem != 0 {
		s += "," + strconv.FormatInt(rem/10, 10) + strconv.FormatInt(rem%10, 10)
	}
	if neg {
		return "-" + s
	}
	return s
}

// Decimal renders the amount as a plain decimal number of pesos, the same
// form the wire contract uses.
func (m Money) Decimal() string {
	b, _ := m.MarshalJSON()
	return string(b)
}

// MarshalJSON emits the amount as a decimal number of pesos.
func (m Money) MarshalJSON() ([]byte, error) {
	if m.Cents%100 == 0 {
		return []byte(strconv.FormatInt(m.Cents/100, 10)), nil
	}
	neg := ""
	c := m.Cents
	if c < 0 {
		neg = "-"
		c = -c
	}
	return []byte(neg + strconv.FormatInt(c/100, 10) + "." + pad2(c%100)), nil
}

// UnmarshalJSON accepts a JSON number (or numeric string) of pesos.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "null" || s == "" {
		m.Cents = 0
		return nil
	}
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both dot and comma separators are
// accepted. Negative values are rejected; zero is allowed (amount bounds are
// enforced by the callers that require positive amounts).
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}
