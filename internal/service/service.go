package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/bank-analytics/internal/config"
	"github.com/Dan9191/bank-analytics/internal/investment"
	"github.com/Dan9191/bank-analytics/internal/logging"
	"github.com/Dan9191/bank-analytics/internal/models"
	"github.com/Dan9191/bank-analytics/internal/operations"
	"github.com/Dan9191/bank-analytics/internal/overview"
	"github.com/Dan9191/bank-analytics/internal/report"
	"github.com/sirupsen/logrus"
)

var ErrKeyRateUnavailable = errors.New("key rate source is not configured")

// OperationStore provides the rows of the bank operations report.
type OperationStore interface {
	Operations() ([]models.Operation, error)
}

// KeyRateSource quotes the central bank key rate.
type KeyRateSource interface {
	KeyRate(ctx context.Context) (float64, error)
}

// Service ties the analytics components to the configured data sources
type Service struct {
	cfg      *config.Config
	settings config.UserSettings
	store    OperationStore
	keyRates KeyRateSource
	log      logrus.FieldLogger

	calc     *investment.Calculator
	overview *overview.Builder
	reports  *report.Generator
	exporter report.TableWriter
}

type Options struct {
	Config   *config.Config
	Settings config.UserSettings
	Store    OperationStore
	Rates    overview.RatesProvider
	Stocks   overview.StockProvider
	KeyRates KeyRateSource
	Exporter report.TableWriter
}

// NewService initializes a new service
func NewService(opts Options, log logrus.FieldLogger) *Service {
	exporter := opts.Exporter
	if exporter == nil {
		exporter = report.NewExporter()
	}

	return &Service{
		cfg:      opts.Config,
		settings: opts.Settings,
		store:    opts.Store,
		keyRates: opts.KeyRates,
		log:      logging.Component(log, "service"),
		calc:     investment.NewCalculator(log),
		overview: overview.NewBuilder(opts.Rates, opts.Stocks, opts.Config.TopTransactions, log),
		reports:  report.NewGenerator(log),
		exporter: exporter,
	}
}

// Investment runs the round-up calculation over the operations report.
func (s *Service) Investment(month string, limit interface{}) (investment.Result, error) {
	ops, err := s.store.Operations()
	if err != nil {
		return investment.Result{}, fmt.Errorf("failed to load operations: %w", err)
	}

	return s.calc.InvestmentBank(month, operations.Records(ops), limit), nil
}

// InvestmentFor runs the round-up calculation over caller supplied records.
func (s *Service) InvestmentFor(month string, records []investment.Record, limit interface{}) investment.Result {
	return s.calc.InvestmentBank(month, records, limit)
}

// Overview builds the month-to-date dashboard ending at dateTime.
func (s *Service) Overview(ctx context.Context, dateTime string) (*models.Overview, error) {
	if _, _, err := overview.DatePeriod(dateTime); err != nil {
		return nil, err
	}

	ops, err := s.store.Operations()
	if err != nil {
		return nil, fmt.Errorf("failed to load operations: %w", err)
	}

	return s.overview.Build(ctx, dateTime, ops, s.settings)
}

// CategoryReport selects the category expenses and exports them to the
// configured report file.
func (s *Service) CategoryReport(category, date string) (report.SpendingTable, error) {
	ops, err := s.store.Operations()
	if err != nil {
		return nil, fmt.Errorf("failed to load operations: %w", err)
	}

	spending := report.SaveToFile(s.exporter, s.cfg.ReportFile, s.log, s.reports.SpendingByCategory)
	table := spending(report.Query{Operations: ops, Category: category, Date: date})

	s.log.WithField("category", category).Infof("category report built with %d rows", len(table))
	return table, nil
}

// ReportFile is where CategoryReport exports its table.
func (s *Service) ReportFile() string {
	return s.cfg.ReportFile
}

// KeyRate returns the current central bank key rate.
func (s *Service) KeyRate(ctx context.Context) (float64, error) {
	if s.keyRates == nil {
		return 0, ErrKeyRateUnavailable
	}
	return s.keyRates.KeyRate(ctx)
}
