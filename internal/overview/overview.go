// Package overview builds the month-to-date dashboard: greeting, card
// totals, largest operations and market quotes.
package overview

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Dan9191/bank-analytics/internal/models"
)

// DateTimeLayout is the layout of the overview reference date.
const DateTimeLayout = "2006-01-02 15:04:05"

var ErrInvalidDateTime = errors.New("invalid date time")

// Greeting picks the salutation for the hour of t.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "Доброе утро"
	case h >= 12 && h < 18:
		return "Добрый день"
	case h >= 18 && h < 22:
		return "Добрый вечер"
	default:
		return "Доброй ночи"
	}
}

// DatePeriod returns the window from the first day of the month of dateTime
// (same clock time) up to dateTime itself.
func DatePeriod(dateTime string) (time.Time, time.Time, error) {
	end, err := time.Parse(DateTimeLayout, dateTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w %q, expected YYYY-MM-DD HH:MM:SS: %v", ErrInvalidDateTime, dateTime, err)
	}
	start := time.Date(end.Year(), end.Month(), 1, end.Hour(), end.Minute(), end.Second(), 0, end.Location())
	return start, end, nil
}

// InPeriod returns the dated operations within [start, end], oldest first.
func InPeriod(ops []models.Operation, start, end time.Time) []models.Operation {
	selected := make([]models.Operation, 0, len(ops))
	for _, op := range ops {
		if !op.HasDate() {
			continue
		}
		if op.OperationDate.Before(start) || op.OperationDate.After(end) {
			continue
		}
		selected = append(selected, op)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].OperationDate.Before(selected[j].OperationDate)
	})
	return selected
}

// Cards totals the rounded spending per card in order of first appearance.
// Only the whole-rouble part of each operation counts; cashback is 1% of the total.
func Cards(ops []models.Operation) []models.CardSummary {
	index := make(map[string]int)
	cards := make([]models.CardSummary, 0)

	for _, op := range ops {
		i, ok := index[op.CardNumber]
		if !ok {
			i = len(cards)
			index[op.CardNumber] = i
			cards = append(cards, models.CardSummary{
				LastDigits: strings.ReplaceAll(op.CardNumber, "*", ""),
			})
		}

		cards[i].TotalSpent += int64(op.RoundedAmount)
		cards[i].Cashback = float64(cards[i].TotalSpent) / 100
	}
	return cards
}

// TopTransactions returns the n operations with the largest rounded amount.
func TopTransactions(ops []models.Operation, n int) []models.TopTransaction {
	sorted := make([]models.Operation, len(ops))
	copy(sorted, ops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RoundedAmount > sorted[j].RoundedAmount
	})

	if n < len(sorted) {
		sorted = sorted[:max(n, 0)]
	}

	top := make([]models.TopTransaction, 0, len(sorted))
	for _, op := range sorted {
		top = append(top, models.TopTransaction{
			Date:        op.PaymentDate,
			Amount:      op.RoundedAmount,
			Category:    op.Category,
			Description: op.Description,
		})
	}
	return top
}
