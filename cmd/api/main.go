package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/bank-analytics/internal/config"
	"github.com/Dan9191/bank-analytics/internal/handler"
	"github.com/Dan9191/bank-analytics/internal/integrations/cbr"
	"github.com/Dan9191/bank-analytics/internal/integrations/fixer"
	"github.com/Dan9191/bank-analytics/internal/integrations/stocks"
	"github.com/Dan9191/bank-analytics/internal/logging"
	"github.com/Dan9191/bank-analytics/internal/notify"
	"github.com/Dan9191/bank-analytics/internal/operations"
	"github.com/Dan9191/bank-analytics/internal/overview"
	"github.com/Dan9191/bank-analytics/internal/repository"
	"github.com/Dan9191/bank-analytics/internal/scheduler"
	"github.com/Dan9191/bank-analytics/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logging.New(os.Getenv("LOG_LEVEL"), os.Stdout)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger = logging.New(cfg.LogLevel, os.Stdout)

	if err := run(cfg, logger); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
}

const shutdownTimeout = 10 * time.Second

func run(cfg *config.Config, logger *logrus.Logger) error {
	settings, err := config.LoadSettings(cfg.SettingsFile)
	if err != nil {
		return fmt.Errorf("failed to load user settings: %w", err)
	}

	// Initialize layers
	cbrClient := cbr.NewCBRClient(cfg, logger)
	var rates overview.RatesProvider = fixer.NewClient(cfg, logger)
	if cfg.RatesSource == config.RatesSourceCBR {
		rates = cbrClient
	}

	repo := repository.NewRepository(operations.NewLoader(logger), cfg.OperationsFile, cfg.OperationsSheet)
	svc := service.NewService(service.Options{
		Config:   cfg,
		Settings: *settings,
		Store:    repo,
		Rates:    rates,
		Stocks:   stocks.NewClient(cfg, logger),
		KeyRates: cbrClient,
	}, logger)
	h := handler.NewHandler(svc, logger)

	var sched *scheduler.Scheduler
	if cfg.ReportCron != "" {
		var mailer scheduler.Mailer
		if cfg.MailEnabled() {
			mailer = notify.NewSender(cfg, logger)
		}
		sched, err = scheduler.New(cfg, svc, mailer, logger)
		if err != nil {
			return fmt.Errorf("failed to schedule reports: %w", err)
		}
		sched.Start()
		logger.Infof("Category report scheduled: %s", cfg.ReportCron)
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      h.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 10*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			stopScheduler(sched, logger)
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	stopScheduler(sched, logger)
	return nil
}

// stopScheduler waits for a running report job, at most shutdownTimeout.
func stopScheduler(sched *scheduler.Scheduler, logger logrus.FieldLogger) {
	if sched == nil {
		return
	}
	select {
	case <-sched.Stop().Done():
	case <-time.After(shutdownTimeout):
		logger.Warn("Scheduled report still running at shutdown")
	}
}
