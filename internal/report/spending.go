// Package report builds the spending-by-category report and exports it to xlsx.
package report

import (
	"math"
	"time"

	"github.com/Dan9191/bank-analytics/internal/logging"
	"github.com/Dan9191/bank-analytics/internal/models"
	"github.com/Dan9191/bank-analytics/internal/money"
	"github.com/sirupsen/logrus"
)

// Window is the length of the report period in calendar months.
const Window = 3

var referenceLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	models.OperationDateLayout,
	"02.01.2006",
}

// Query selects the expenses of one category up to a reference date.
// An empty or unparsable Date means today.
type Query struct {
	Operations []models.Operation
	Category   string
	Date       string
}

// SpendingTable is the report result in export column order.
type SpendingTable []models.CategorySpending

func (t SpendingTable) Columns() []string {
	return models.CategorySpendingColumns
}

func (t SpendingTable) Rows() [][]interface{} {
	rows := make([][]interface{}, 0, len(t))
	for _, r := range t {
		rows = append(rows, r.Values())
	}
	return rows
}

type Generator struct {
	log logrus.FieldLogger
	now func() time.Time
}

func NewGenerator(log logrus.FieldLogger) *Generator {
	return &Generator{log: logging.Component(log, "reports"), now: time.Now}
}

// SpendingByCategory returns the expenses of q.Category made during the three
// calendar months up to the reference date, inclusive.
func (g *Generator) SpendingByCategory(q Query) SpendingTable {
	g.log.Info("filtering dates and dropping empty categories")

	ref := g.referenceDate(q.Date)
	from := subtractMonths(ref, Window)

	g.log.WithField("from", from.Format("2006-01-02")).
		WithField("to", ref.Format("2006-01-02")).
		Info("selecting report rows")

	table := make(SpendingTable, 0)
	for _, op := range q.Operations {
		if !op.HasDate() || op.Category == "" {
			continue
		}

		day := truncateDay(op.OperationDate)
		if day.Before(from) || day.After(ref) {
			continue
		}
		if op.Amount >= 0 || op.Category != q.Category {
			continue
		}

		table = append(table, spendingRow(op))
	}

	g.log.WithField("category", q.Category).Infof("%d rows selected", len(table))
	return table
}

func (g *Generator) referenceDate(date string) time.Time {
	if date != "" {
		for _, layout := range referenceLayouts {
			if t, err := time.Parse(layout, date); err == nil {
				return truncateDay(t)
			}
		}
		g.log.WithField("date", date).Warn("could not parse report date, using today")
	}

	now := g.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func spendingRow(op models.Operation) models.CategorySpending {
	onePercent := money.Percent(op.Amount, 1)

	cashback := onePercent
	if op.Cashback != nil && !math.IsNaN(*op.Cashback) {
		cashback = finite(*op.Cashback)
	}

	bonuses := onePercent
	if op.Bonuses != nil && !math.IsNaN(*op.Bonuses) {
		bonuses = 0
		if !math.IsInf(*op.Bonuses, 0) {
			bonuses = money.Round2(*op.Bonuses + math.Abs(op.Amount)/100)
		}
	}

	return models.CategorySpending{
		PaymentDate:    op.PaymentDate,
		CardNumber:     stripStars(op.CardNumber),
		Status:         op.Status,
		Amount:         op.Amount,
		Cashback:       cashback,
		MCC:            optional(op.MCC),
		Category:       op.Category,
		Description:    op.Description,
		InvestRounding: optional(op.InvestRounding),
		Bonuses:        bonuses,
	}
}

func stripStars(card string) string {
	out := make([]rune, 0, len(card))
	for _, r := range card {
		if r != '*' {
			out = append(out, r)
		}
	}
	return string(out)
}

// optional maps empty cells, NaN and infinities to zero.
func optional(v *float64) float64 {
	if v == nil {
		return 0
	}
	return finite(*v)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// subtractMonths moves back n calendar months, clamping the day to the end
// of the target month (May 31 minus 3 months is Feb 28 or 29).
func subtractMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()-time.Month(n), 1, 0, 0, 0, 0, t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(t.Day(), lastDay)-1)
}
