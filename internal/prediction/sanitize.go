package prediction

import "math"

// defaultMinStockAlert mirrors the CRUD layer's default reorder threshold.
const defaultMinStockAlert = 5

// coerceFloat normalizes NaN/Inf coming from the data layer to an explicit
// default before it can enter any formula.
func coerceFloat(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// coerceMinStock replaces a missing or nonsensical reorder threshold with the
// catalog default.
func coerceMinStock(v int) int {
	if v <= 0 {
		return defaultMinStockAlert
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(v)
	}

	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
