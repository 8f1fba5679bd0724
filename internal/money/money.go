// Package money holds rounding helpers shared by the reports.
package money

import "github.com/shopspring/decimal"

// Round2 rounds v half away from zero to two decimals.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Percent returns p percent of the absolute value of v, rounded to cents.
func Percent(v float64, p int64) float64 {
	f, _ := decimal.NewFromFloat(v).Abs().Mul(decimal.NewFromInt(p)).Div(decimal.NewFromInt(100)).Round(2).Float64()
	return f
}
