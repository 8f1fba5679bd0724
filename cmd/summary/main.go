package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Dan9191/bank-analytics/internal/config"
	"github.com/Dan9191/bank-analytics/internal/integrations/cbr"
	"github.com/Dan9191/bank-analytics/internal/integrations/fixer"
	"github.com/Dan9191/bank-analytics/internal/integrations/stocks"
	"github.com/Dan9191/bank-analytics/internal/investment"
	"github.com/Dan9191/bank-analytics/internal/logging"
	"github.com/Dan9191/bank-analytics/internal/operations"
	"github.com/Dan9191/bank-analytics/internal/overview"
	"github.com/Dan9191/bank-analytics/internal/repository"
	"github.com/Dan9191/bank-analytics/internal/service"
)

func main() {
	dateTime := flag.String("date-time", time.Now().Format(overview.DateTimeLayout), "overview reference time, YYYY-MM-DD HH:MM:SS")
	category := flag.String("category", "Супермаркеты", "category for the spending report")
	reportDate := flag.String("report-date", "", "spending report reference date, YYYY-MM-DD (default today)")
	month := flag.String("month", "", "round-up month, YYYY-MM (empty runs the built-in example)")
	limit := flag.Int("limit", 50, "round-up limit in roubles")
	help := flag.Bool("help", false, "show command help")

	flag.Parse()

	if *help {
		fmt.Println("bank analytics summary")
		fmt.Println("summary [options]")
		flag.PrintDefaults()
		return
	}

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)

	settings, err := config.LoadSettings(cfg.SettingsFile)
	if err != nil {
		logger.Fatalf("Failed to load user settings: %v", err)
	}

	var rates overview.RatesProvider = fixer.NewClient(cfg, logger)
	if cfg.RatesSource == config.RatesSourceCBR {
		rates = cbr.NewCBRClient(cfg, logger)
	}

	svc := service.NewService(service.Options{
		Config:   cfg,
		Settings: *settings,
		Store:    repository.NewRepository(operations.NewLoader(logger), cfg.OperationsFile, cfg.OperationsSheet),
		Rates:    rates,
		Stocks:   stocks.NewClient(cfg, logger),
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.HTTPTimeout)
	defer cancel()

	ov, err := svc.Overview(ctx, *dateTime)
	if err != nil {
		logger.Errorf("Failed to build overview: %v", err)
	} else {
		printJSON(ov)
	}

	table, err := svc.CategoryReport(*category, *reportDate)
	if err != nil {
		logger.Errorf("Failed to build category report: %v", err)
	} else {
		fmt.Printf("%d operations in category %q written to %s\n", len(table), *category, svc.ReportFile())
	}

	var res investment.Result
	if *month == "" {
		printJSON(investment.ExampleInvestment())
		res = svc.InvestmentFor("2024-01", investment.ExampleRecords(), *limit)
	} else {
		res, err = svc.Investment(*month, *limit)
		if err != nil {
			logger.Fatalf("Failed to calculate investment: %v", err)
		}
	}

	out, err := res.JSON()
	if err != nil {
		logger.Fatalf("Failed to encode investment result: %v", err)
	}
	fmt.Println(out)

	if !res.OK() {
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(string(raw))
}
