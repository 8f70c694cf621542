package domain

import (
	"encoding/json"
	"math"
)

// Number is a numeric spreadsheet cell after coercion. A Number with Valid
// false is absent: the cell was blank, non-numeric or the result of an
// undefined ratio.
type Number struct {
	Value float64
	Valid bool
}

// Present returns a valid Number holding v.
func Present(v float64) Number {
	return Number{Value: v, Valid: true}
}

// Absent returns the absent Number.
func Absent() Number {
	return Number{}
}

// OrZero returns the value, or 0 when absent.
func (n Number) OrZero() float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}

// Div divides n by d. The result is absent when either operand is absent or
// d is zero.
func (n Number) Div(d Number) Number {
	if !n.Valid || !d.Valid || d.Value == 0 {
		return Absent()
	}
	q := n.Value / d.Value
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return Absent()
	}
	return Present(q)
}

// MarshalJSON encodes absent numbers as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON accepts a number or null.
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Absent()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Present(v)
	return nil
}
