package model

import "github.com/shopspring/decimal"

// Difference returns the percentage gap between a target price and the last
// traded price: (target - last) / last * 100, rounded to two decimal places.
//
// Returns nil when either operand is missing or the last price is zero
// (division undefined). Rounding goes through decimal to avoid float
// artifacts like 19.999999999999996 in stored rows.
func Difference(target, last *float64) *float64 {
	if target == nil || last == nil || *last == 0 {
		return nil
	}

	d := decimal.NewFromFloat(*target).
		Sub(decimal.NewFromFloat(*last)).
		Div(decimal.NewFromFloat(*last)).
		Mul(decimal.NewFromInt(100)).
		Round(2)

	f, _ := d.Float64()
	return &f
}
