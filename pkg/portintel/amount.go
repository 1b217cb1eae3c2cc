package portintel

import (
	"database/sql/driver"
	"strconv"

	"github.com/shopspring/decimal"
)

// Amount wraps decimal.Decimal for monetary values.
// JSON marshaling outputs a float64 number (compatible with frontends),
// while internal arithmetic uses precise decimal operations.
type Amount struct {
	decimal.Decimal
}

// NewAmount creates an Amount from a float64.
func NewAmount(f float64) Amount {
	return Amount{decimal.NewFromFloat(f)}
}

// NewAmountFromInt creates an Amount from an int64.
func NewAmountFromInt(i int64) Amount {
	return Amount{decimal.NewFromInt(i)}
}

// ParseAmount creates an Amount from its string form.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{d}, nil
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{a.Decimal.Add(b.Decimal)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{a.Decimal.Sub(b.Decimal)}
}

// MulInt returns a * n.
func (a Amount) MulInt(n int64) Amount {
	return Amount{a.Decimal.Mul(decimal.NewFromInt(n))}
}

// DivInt returns a / n. n must be non-zero.
func (a Amount) DivInt(n int64) Amount {
	return Amount{a.Decimal.Div(decimal.NewFromInt(n))}
}

// Float64 returns the float64 form, rounded to 4 decimal places.
func (a Amount) Float64() float64 {
	f, _ := a.Decimal.Round(4).Float64()
	return f
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a.Decimal.IsNegative()
}

// IsZero reports whether the amount equals zero.
func (a Amount) IsZero() bool {
	return a.Decimal.IsZero()
}

// MarshalJSON outputs as a JSON number (not a string).
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(a.Float64(), 'f', -1, 64)), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

// Scan implements sql.Scanner, reading from SQLite REAL columns.
func (a *Amount) Scan(src any) error {
	if src == nil {
		a.Decimal = decimal.Zero
		return nil
	}
	switch v := src.(type) {
	case float64:
		a.Decimal = decimal.NewFromFloat(v)
		return nil
	case int64:
		a.Decimal = decimal.NewFromInt(v)
		return nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return err
		}
		a.Decimal = d
		return nil
	}
	return a.Decimal.Scan(src)
}

// Value implements driver.Valuer for database writes.
func (a Amount) Value() (driver.Value, error) {
	return a.Float64(), nil
}
