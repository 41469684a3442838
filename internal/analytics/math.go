package analytics

import "math"

// Round2 - округление до 2 знаков, половина от нуля
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Percentage = count/total*100, 0 при total == 0
func Percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(count) / float64(total) * 100)
}

// Trend = (current-previous)/previous*100, 0 при previous == 0
func Trend(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return Round2((current - previous) / previous * 100)
}
