package numeric

import "math"

// Round rounds x half away from zero to the given number of decimal places
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// Percentage returns part/total as a percentage rounded to 2 decimals, or 0 when total is 0
func Percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return Round(part/total*100, 2)
}
