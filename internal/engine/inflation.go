package engine

import "github.com/mamadbah2/costeo/internal/domain/models"

// MonthsBetween lists the months strictly after base up to and including
// target, in chronological order. It is empty when target does not follow base.
func MonthsBetween(base, target models.Month) []models.Month {
	n := base.MonthsUntil(target)
	if n <= 0 {
		return nil
	}

	months := make([]models.Month, 0, n)
	for i := 1; i <= n; i++ {
		months = append(months, base.Add(i))
	}
	return months
}

// CompoundFactor multiplies (1 + rate/100) over every month after base up to
// target. Months without a rate contribute 0%. When a month appears more than
// once in rates, the first entry wins. A non-nil override replaces every
// month's rate.
func CompoundFactor(base, target models.Month, rates []models.InflationRate, override *float64) float64 {
	factor := 1.0
	for _, month := range MonthsBetween(base, target) {
		pct := 0.0
		if override != nil {
			pct = *override
		} else if rate, ok := findRate(rates, month); ok {
			pct = rate
		}
		factor *= 1 + pct/100
	}
	return factor
}

// AccumulatedPercent converts a compounded factor into a percentage change.
func AccumulatedPercent(factor float64) float64 {
	return (factor - 1) * 100
}

func findRate(rates []models.InflationRate, month models.Month) (float64, bool) {
	for _, r := range rates {
		if r.Month == month {
			return r.Percent, true
		}
	}
	return 0, false
}
