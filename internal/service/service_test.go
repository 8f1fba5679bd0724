package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Dan9191/bank-analytics/internal/config"
	"github.com/Dan9191/bank-analytics/internal/investment"
	"github.com/Dan9191/bank-analytics/internal/logging"
	"github.com/Dan9191/bank-analytics/internal/models"
	"github.com/Dan9191/bank-analytics/internal/overview"
	"github.com/Dan9191/bank-analytics/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	ops []models.Operation
	err error
}

func (f fakeStore) Operations() ([]models.Operation, error) {
	return f.ops, f.err
}

type fakeQuotes struct{}

func (fakeQuotes) Rates(_ context.Context, currencies []string) ([]models.CurrencyRate, error) {
	out := make([]models.CurrencyRate, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, models.CurrencyRate{Currency: c, Rate: 90})
	}
	return out, nil
}

func (fakeQuotes) Prices(_ context.Context, tickers []string) ([]models.StockPrice, error) {
	return nil, errors.New("quota exceeded")
}

type fakeKeyRate float64

func (f fakeKeyRate) KeyRate(context.Context) (float64, error) {
	return float64(f), nil
}

type recordingExporter struct {
	path  string
	table report.Table
}

func (r *recordingExporter) Export(path string, t report.Table) error {
	r.path, r.table = path, t
	return nil
}

func operation(date string, amount float64, category string) models.Operation {
	t, err := time.Parse(models.OperationDateLayout, date)
	if err != nil {
		panic(err)
	}
	rounded := amount
	if rounded < 0 {
		rounded = -rounded
	}
	return models.Operation{
		OperationDate: t,
		PaymentDate:   t.Format("02.01.2006"),
		CardNumber:    "*7197",
		Amount:        amount,
		AmountParsed:  true,
		RoundedAmount: rounded,
		Category:      category,
	}
}

func newTestService(store OperationStore, exporter report.TableWriter) *Service {
	return NewService(Options{
		Config:   &config.Config{TopTransactions: 3, ReportFile: "out/result.xlsx"},
		Settings: config.UserSettings{UserCurrencies: []string{"USD"}, UserStocks: []string{"AAPL"}},
		Store:    store,
		Rates:    fakeQuotes{},
		Stocks:   fakeQuotes{},
		KeyRates: fakeKeyRate(21),
		Exporter: exporter,
	}, logging.Discard())
}

func sampleStore() fakeStore {
	return fakeStore{ops: []models.Operation{
		operation("03.05.2020 10:00:00", -1712, "Супермаркеты"),
		operation("10.05.2020 12:00:00", -160.89, "Такси"),
		operation("28.04.2020 12:00:00", -95, "Такси"),
	}}
}

func TestInvestment(t *testing.T) {
	svc := newTestService(sampleStore(), &recordingExporter{})

	res, err := svc.Investment("2020-05", 50)
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.Equal(t, 38+39.11, res.TotalInvestment)

	res, err = svc.Investment("05-2020", 50)
	require.NoError(t, err)
	assert.ErrorIs(t, res.Err(), investment.ErrInvalidMonthFormat)

	_, err = newTestService(fakeStore{err: errors.New("no file")}, nil).Investment("2020-05", 50)
	assert.ErrorContains(t, err, "no file")
}

func TestInvestmentFor(t *testing.T) {
	svc := newTestService(sampleStore(), nil)

	res := svc.InvestmentFor("2024-03", investment.ExampleRecords(), json.Number("50"))
	require.True(t, res.OK())
	assert.Equal(t, 50, res.Limit)
}

func TestOverview(t *testing.T) {
	svc := newTestService(sampleStore(), nil)

	ov, err := svc.Overview(context.Background(), "2020-05-20 15:30:22")
	require.NoError(t, err)
	assert.Len(t, ov.TopTransactions, 2)
	assert.Equal(t, []models.CurrencyRate{{Currency: "USD", Rate: 90}}, ov.CurrencyRates)
	assert.Empty(t, ov.StockPrices)

	_, err = svc.Overview(context.Background(), "yesterday")
	assert.ErrorIs(t, err, overview.ErrInvalidDateTime)
}

func TestCategoryReport(t *testing.T) {
	exporter := &recordingExporter{}
	svc := newTestService(sampleStore(), exporter)

	table, err := svc.CategoryReport("Такси", "2020-05-20")
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "7197", table[0].CardNumber)

	assert.Equal(t, "out/result.xlsx", exporter.path)
	assert.Equal(t, table, exporter.table)
}

func TestKeyRate(t *testing.T) {
	rate, err := newTestService(sampleStore(), nil).KeyRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 21.0, rate)

	svc := NewService(Options{Config: &config.Config{TopTransactions: 1}, Store: sampleStore()}, logging.Discard())
	_, err = svc.KeyRate(context.Background())
	assert.ErrorIs(t, err, ErrKeyRateUnavailable)
}
