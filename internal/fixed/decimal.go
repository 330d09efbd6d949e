// Package fixed provides an exact base-10 decimal type for prices,
// quantities, rates and fees. Values are never carried as binary floats,
// and the scale of the source text (including trailing zeros) survives a
// JSON round trip.
package fixed

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// InvalidDecimalError reports a malformed base-10 numeric literal.
type InvalidDecimalError struct {
	Value string
}

func (e *InvalidDecimalError) Error() string {
	return fmt.Sprintf("invalid decimal %q", e.Value)
}

// Decimal is an arbitrary-precision fixed-point decimal. The zero value is 0.
type Decimal struct {
	d decimal.Decimal
}

// Parse parses a base-10 numeric literal. The scale of the input is kept:
// "0.0100" parses to a value with scale 4, not 2.
func Parse(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, &InvalidDecimalError{Value: s}
	}
	return Decimal{d: d}, nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromInt returns the decimal representation of n with scale 0.
func FromInt(n int64) Decimal {
	return Decimal{d: decimal.NewFromInt(n)}
}

// Scale returns the number of digits right of the decimal point.
func (d Decimal) Scale() int32 {
	if exp := d.d.Exponent(); exp < 0 {
		return -exp
	}
	return 0
}

// String renders the exact textual form, preserving trailing zeros up to
// the value's scale.
func (d Decimal) String() string {
	if exp := d.d.Exponent(); exp < 0 {
		return d.d.StringFixed(-exp)
	}
	return d.d.String()
}

// Add returns d + o exactly.
func (d Decimal) Add(o Decimal) Decimal {
	return Decimal{d: d.d.Add(o.d)}
}

// Sub returns d - o exactly.
func (d Decimal) Sub(o Decimal) Decimal {
	return Decimal{d: d.d.Sub(o.d)}
}

// Cmp compares numeric values: -1 if d < o, 0 if equal, +1 if d > o.
func (d Decimal) Cmp(o Decimal) int {
	return d.d.Cmp(o.d)
}

// Equal reports numeric equality; "1.0" equals "1.00".
func (d Decimal) Equal(o Decimal) bool {
	return d.d.Equal(o.d)
}

// IsZero reports whether the value is numerically zero.
func (d Decimal) IsZero() bool {
	return d.d.IsZero()
}

// Sign returns -1, 0 or +1.
func (d Decimal) Sign() int {
	return d.d.Sign()
}

// MarshalJSON encodes the value as a JSON string in its exact textual form.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON string or a bare numeric token.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" || strings.ContainsAny(s, `"\`) {
		return &InvalidDecimalError{Value: string(data)}
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
