package utils

import "math"

// Round2 rounds a money amount to two decimal places. Line subtotals and
// totals are always stored rounded so they survive a decimal(10,2) column
// unchanged.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
