package overview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dan9191/bank-analytics/internal/config"
	"github.com/Dan9191/bank-analytics/internal/logging"
	"github.com/Dan9191/bank-analytics/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func op(date string, card string, rounded float64, category string) models.Operation {
	t, err := time.Parse(models.OperationDateLayout, date)
	if err != nil {
		panic(err)
	}
	return models.Operation{
		OperationDate: t,
		PaymentDate:   t.Format("02.01.2006"),
		CardNumber:    card,
		Amount:        -rounded,
		RoundedAmount: rounded,
		Category:      category,
		Description:   category + " purchase",
	}
}

func sampleOperations() []models.Operation {
	return []models.Operation{
		op("20.05.2020 14:00:00", "*1234", 500.7, "Фастфуд"),
		op("03.05.2020 10:00:00", "*1234", 1000, "Супермаркеты"),
		op("01.05.2020 09:00:00", "*5678", 300, "Такси"),
		op("10.05.2020 12:00:00", "*5678", 2500.9, "Одежда"),
		op("28.04.2020 12:00:00", "*1234", 9000, "Авиабилеты"),
		{CardNumber: "*0000", RoundedAmount: 10},
	}
}

func TestGreeting(t *testing.T) {
	cases := map[int]string{
		0: "Доброй ночи", 4: "Доброй ночи", 5: "Доброе утро", 11: "Доброе утро",
		12: "Добрый день", 17: "Добрый день", 18: "Добрый вечер", 21: "Добрый вечер", 22: "Доброй ночи",
	}
	for hour, want := range cases {
		assert.Equal(t, want, Greeting(time.Date(2024, 1, 1, hour, 30, 0, 0, time.UTC)), "hour %d", hour)
	}
}

func TestDatePeriod(t *testing.T) {
	start, end, err := DatePeriod("2020-05-20 15:30:22")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2020, 5, 1, 15, 30, 22, 0, time.UTC), start)
	assert.Equal(t, time.Date(2020, 5, 20, 15, 30, 22, 0, time.UTC), end)

	_, _, err = DatePeriod("20.05.2020")
	assert.ErrorIs(t, err, ErrInvalidDateTime)
}

func TestInPeriod(t *testing.T) {
	start, end, err := DatePeriod("2020-05-20 15:30:22")
	require.NoError(t, err)

	got := InPeriod(sampleOperations(), start, end)

	require.Len(t, got, 3)
	assert.Equal(t, "Супермаркеты", got[0].Category)
	assert.Equal(t, "Одежда", got[1].Category)
	assert.Equal(t, "Фастфуд", got[2].Category)
}

func TestCards(t *testing.T) {
	ops := []models.Operation{
		{CardNumber: "**1234", RoundedAmount: 1000},
		{CardNumber: "5678", RoundedAmount: 2000},
		{CardNumber: "**1234", RoundedAmount: 1500.99},
	}

	assert.Equal(t, []models.CardSummary{
		{LastDigits: "1234", TotalSpent: 2500, Cashback: 25},
		{LastDigits: "5678", TotalSpent: 2000, Cashback: 20},
	}, Cards(ops))

	assert.Empty(t, Cards(nil))
}

func TestTopTransactions(t *testing.T) {
	ops := sampleOperations()[:5]

	top := TopTransactions(ops, 2)

	assert.Equal(t, []models.TopTransaction{
		{Date: "28.04.2020", Amount: 9000, Category: "Авиабилеты", Description: "Авиабилеты purchase"},
		{Date: "10.05.2020", Amount: 2500.9, Category: "Одежда", Description: "Одежда purchase"},
	}, top)
	assert.Len(t, TopTransactions(ops, 10), 5)
	assert.Equal(t, "Фастфуд", ops[0].Category, "input must not be reordered")
}

type fakeRates struct {
	rates []models.CurrencyRate
	err   error
}

func (f fakeRates) Rates(_ context.Context, _ []string) ([]models.CurrencyRate, error) {
	return f.rates, f.err
}

type fakeStocks struct {
	prices []models.StockPrice
	err    error
}

func (f fakeStocks) Prices(_ context.Context, _ []string) ([]models.StockPrice, error) {
	return f.prices, f.err
}

func TestBuild(t *testing.T) {
	rates := fakeRates{rates: []models.CurrencyRate{{Currency: "USD", Rate: 73.21}}}
	stocks := fakeStocks{prices: []models.StockPrice{{Stock: "AAPL", Price: 150.12}}}
	b := NewBuilder(rates, stocks, 5, logging.Discard())
	b.now = func() time.Time { return time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC) }

	got, err := b.Build(t.Context(), "2020-05-20 15:30:22", sampleOperations(), config.DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, "Добрый день", got.Greeting)
	assert.Equal(t, []models.CardSummary{
		{LastDigits: "1234", TotalSpent: 1500, Cashback: 15},
		{LastDigits: "5678", TotalSpent: 2500, Cashback: 25},
	}, got.Cards)
	assert.Len(t, got.TopTransactions, 3)
	assert.Equal(t, rates.rates, got.CurrencyRates)
	assert.Equal(t, stocks.prices, got.StockPrices)
}

func TestBuildQuoteFailures(t *testing.T) {
	b := NewBuilder(fakeRates{err: errors.New("down")}, fakeStocks{err: errors.New("down")}, 5, logging.Discard())

	got, err := b.Build(t.Context(), "2020-05-20 15:30:22", sampleOperations(), config.DefaultSettings())
	require.NoError(t, err)

	assert.NotNil(t, got.CurrencyRates)
	assert.Empty(t, got.CurrencyRates)
	assert.Empty(t, got.StockPrices)
}

func TestBuildInvalidDate(t *testing.T) {
	b := NewBuilder(fakeRates{}, fakeStocks{}, 5, logging.Discard())

	_, err := b.Build(t.Context(), "yesterday", nil, config.DefaultSettings())
	assert.Error(t, err)
}
