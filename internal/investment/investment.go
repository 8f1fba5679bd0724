// Package investment implements the round-up savings calculator: every
// expense of a month is rounded up to the next multiple of a limit and the
// differences are put aside.
package investment

import (
	"fmt"
	"time"

	"github.com/Dan9191/bank-analytics/internal/logging"
	"github.com/sirupsen/logrus"
)

// Calculator runs round-up calculations. It holds no state between calls.
type Calculator struct {
	log logrus.FieldLogger
	now func() time.Time
}

// NewCalculator creates a calculator reporting diagnostics to log.
func NewCalculator(log logrus.FieldLogger) *Calculator {
	if log == nil {
		log = logging.Discard()
	}
	return &Calculator{log: log, now: time.Now}
}

// WithClock returns a copy of the calculator that stamps results using now.
func (c *Calculator) WithClock(now func() time.Time) *Calculator {
	cp := *c
	cp.now = now
	return &cp
}

func (c *Calculator) sink(name string) logrus.FieldLogger {
	return logging.Component(c.log, name)
}

// InvestmentBank computes how much the round-up savings would have collected
// in month. Validation failures come back as an error Result, never as a
// panic or error value.
func (c *Calculator) InvestmentBank(month string, records []Record, limit interface{}) Result {
	log := c.sink("investment_bank")
	log.WithField("month", month).WithField("limit", limit).Info("investment calculation started")

	if !c.ValidateMonth(month) {
		log.WithField("month", month).Error("invalid month format")
		res := c.ErrorResult(fmt.Sprintf("Неверный формат месяца: %s. Ожидается 'YYYY-MM'", month))
		res.err = ErrInvalidMonthFormat
		return res
	}

	step, ok := c.ValidateLimit(limit)
	if !ok {
		log.WithField("limit", limit).Error("invalid limit")
		res := c.ErrorResult(fmt.Sprintf("Неверный лимит: %v. Лимит должен быть положительным и кратным 10", limit))
		res.err = ErrInvalidLimit
		return res
	}

	filtered := c.FilterByMonth(records, month)
	if len(filtered) == 0 {
		log.WithField("month", month).Warn("no transactions for the month")
		return c.SuccessResult(month, 0, step)
	}

	total := c.TotalInvestment(filtered, step)
	log.Infof("calculation finished, piggy bank total: %.2f %s", total, Currency)

	return c.SuccessResult(month, total, step)
}

// Example is the worked single-purchase example of the round-up rule.
type Example struct {
	OriginalAmount float64 `json:"original_amount"`
	Limit          int     `json:"limit"`
	RoundedAmount  float64 `json:"rounded_amount"`
	Investment     float64 `json:"investment"`
	Explanation    string  `json:"explanation"`
}

// ExampleInvestment explains the rule on a 1712 ₽ purchase with a limit of 50.
func ExampleInvestment() Example {
	const (
		amount = 1712.0
		limit  = 50
	)

	gap := RoundUp(amount, limit)
	rounded := amount + gap

	return Example{
		OriginalAmount: amount,
		Limit:          limit,
		RoundedAmount:  rounded,
		Investment:     gap,
		Explanation: fmt.Sprintf("Покупка на %g ₽ округляется до %g ₽, в копилку уходит %g ₽",
			amount, rounded, gap),
	}
}

// ExampleRecords are the sample transactions used by the summary command.
func ExampleRecords() []Record {
	return []Record{
		{Date: "2024-01-15", Amount: NumberAmount(-1712)},
		{Date: "2024-01-20", Amount: NumberAmount(-1245)},
		{Date: "2024-02-01", Amount: NumberAmount(-500)},
	}
}
