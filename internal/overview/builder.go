package overview

import (
	"context"
	"time"

	"github.com/Dan9191/bank-analytics/internal/config"
	"github.com/Dan9191/bank-analytics/internal/logging"
	"github.com/Dan9191/bank-analytics/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// RatesProvider quotes currencies in roubles.
type RatesProvider interface {
	Rates(ctx context.Context, currencies []string) ([]models.CurrencyRate, error)
}

// StockProvider quotes stock tickers.
type StockProvider interface {
	Prices(ctx context.Context, tickers []string) ([]models.StockPrice, error)
}

type Builder struct {
	rates  RatesProvider
	stocks StockProvider
	top    int
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewBuilder(rates RatesProvider, stocks StockProvider, top int, log logrus.FieldLogger) *Builder {
	return &Builder{
		rates:  rates,
		stocks: stocks,
		top:    top,
		log:    logging.Component(log, "overview"),
		now:    time.Now,
	}
}

// Build assembles the overview for the month up to dateTime. Quote failures
// are logged and leave the corresponding list empty.
func (b *Builder) Build(ctx context.Context, dateTime string, ops []models.Operation, settings config.UserSettings) (*models.Overview, error) {
	start, end, err := DatePeriod(dateTime)
	if err != nil {
		return nil, err
	}

	period := InPeriod(ops, start, end)
	b.log.WithField("from", start).WithField("to", end).Infof("%d operations in period", len(period))

	overview := &models.Overview{
		Greeting:        Greeting(b.now()),
		Cards:           Cards(period),
		TopTransactions: TopTransactions(period, b.top),
		CurrencyRates:   []models.CurrencyRate{},
		StockPrices:     []models.StockPrice{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rates, err := b.rates.Rates(gctx, settings.UserCurrencies)
		if err != nil {
			b.log.WithError(err).Warn("currency rates unavailable")
			return nil
		}
		overview.CurrencyRates = rates
		return nil
	})
	g.Go(func() error {
		prices, err := b.stocks.Prices(gctx, settings.UserStocks)
		if err != nil {
			b.log.WithError(err).Warn("stock prices unavailable")
			return nil
		}
		overview.StockPrices = prices
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return overview, nil
}
