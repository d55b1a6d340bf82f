// Package money holds currency arithmetic helpers for the ledger.
package money

import "github.com/shopspring/decimal"

// Round2 rounds a monetary amount to two decimal places using exact decimal
// arithmetic, avoiding float accumulation drift in running totals.
func Round2(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}
