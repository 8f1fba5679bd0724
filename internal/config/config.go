package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	RatesSourceFixer = "fixer"
	RatesSourceCBR   = "cbr"
)

// Config holds application configuration
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	OperationsFile  string `env:"OPERATIONS_FILE" envDefault:"data/operations.xlsx"`
	OperationsSheet string `env:"OPERATIONS_SHEET" envDefault:"Отчет по операциям"`
	SettingsFile    string `env:"SETTINGS_FILE" envDefault:"user_settings.json"`
	ReportFile      string `env:"REPORT_FILE" envDefault:"data/result.xlsx"`
	TopTransactions int    `env:"TOP_TRANSACTIONS" envDefault:"5"`

	RatesSource      string        `env:"RATES_SOURCE" envDefault:"fixer"`
	FixerURL         string        `env:"FIXER_URL" envDefault:"https://api.apilayer.com/fixer"`
	FixerAPIKey      string        `env:"API_KEY"`
	StocksURL        string        `env:"STOCKS_URL" envDefault:"https://api.massive.com"`
	StocksAPIKey     string        `env:"API_KEY_STOCKS"`
	CBRURL           string        `env:"CBR_URL" envDefault:"https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"`
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	QuoteConcurrency int           `env:"QUOTE_CONCURRENCY" envDefault:"4"`

	ReportCron     string `env:"REPORT_CRON"`
	ReportCategory string `env:"REPORT_CATEGORY"`

	SMTPHost        string `env:"SMTP_HOST"`
	SMTPPort        string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername    string `env:"SMTP_USERNAME"`
	SMTPPassword    string `env:"SMTP_PASSWORD"`
	SenderEmail     string `env:"SENDER_EMAIL"`
	ReportRecipient string `env:"REPORT_RECIPIENT"`
}

// NewConfig loads configuration from an optional .env file and environment variables
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and combinations
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid PORT %q", c.Port))
	}
	if c.OperationsFile == "" {
		problems = append(problems, "OPERATIONS_FILE is required")
	}
	if c.OperationsSheet == "" {
		problems = append(problems, "OPERATIONS_SHEET is required")
	}
	if c.RatesSource != RatesSourceFixer && c.RatesSource != RatesSourceCBR {
		problems = append(problems, fmt.Sprintf("invalid RATES_SOURCE %q: must be %q or %q", c.RatesSource, RatesSourceFixer, RatesSourceCBR))
	}
	if c.TopTransactions < 1 {
		problems = append(problems, "TOP_TRANSACTIONS must be at least 1")
	}
	if c.QuoteConcurrency < 1 {
		problems = append(problems, "QUOTE_CONCURRENCY must be at least 1")
	}
	if c.HTTPTimeout <= 0 {
		problems = append(problems, "HTTP_TIMEOUT must be positive")
	}
	if c.ReportCron != "" && c.ReportCategory == "" {
		problems = append(problems, "REPORT_CATEGORY is required when REPORT_CRON is set")
	}
	if c.ReportRecipient != "" && (c.SMTPHost == "" || c.SenderEmail == "") {
		problems = append(problems, "SMTP_HOST and SENDER_EMAIL are required when REPORT_RECIPIENT is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// MailEnabled reports whether exported reports should be e-mailed
func (c *Config) MailEnabled() bool {
	return c.ReportRecipient != "" && c.SMTPHost != "" && c.SenderEmail != ""
}
