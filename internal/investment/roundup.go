package investment

import (
	"github.com/shopspring/decimal"
)

// RoundUp returns the gap between amount and the next multiple of limit,
// rounded to two decimals. Amounts that are already a multiple give 0, and so
// do non-positive amounts.
func RoundUp(amount float64, limit int) float64 {
	if amount <= 0 || limit <= 0 {
		return 0
	}

	gap := roundUpGap(decimal.NewFromFloat(amount), decimal.NewFromInt(int64(limit)))
	f, _ := gap.Float64()
	return f
}

func roundUpGap(amount, limit decimal.Decimal) decimal.Decimal {
	rem := amount.Mod(limit)
	if rem.IsZero() {
		return decimal.Zero
	}
	return limit.Sub(rem).Round(2)
}

// TotalInvestment sums the round-up gaps of every expense in records.
// Deposits, zero amounts and records whose amount cannot be parsed are skipped.
// A non-positive limit yields 0.
func (c *Calculator) TotalInvestment(records []Record, limit int) float64 {
	log := c.sink("calculate_investment")
	roundLog := c.sink("round_amount")

	if limit <= 0 {
		log.WithField("limit", limit).Error("limit must be positive")
		return 0
	}

	step := decimal.NewFromInt(int64(limit))
	total := decimal.Zero

	for i, r := range records {
		amount, err := ParseAmount(r.Amount)
		if err != nil {
			log.WithError(err).
				WithField("index", i).
				WithField("amount", r.Amount.String()).
				Warn("could not convert transaction amount")
			continue
		}

		if amount >= 0 {
			continue
		}

		spent := decimal.NewFromFloat(amount).Abs()
		gap := roundUpGap(spent, step)
		total = total.Add(gap)

		roundLog.WithField("index", i).
			Debugf("spent %s, rounded to %s, to piggy bank %s", spent, spent.Add(gap), gap)
	}

	result, _ := total.Round(2).Float64()
	log.Infof("total for the piggy bank: %.2f %s", result, Currency)
	return result
}
