// Package fixer converts currencies to roubles through the apilayer fixer API.
package fixer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Dan9191/bank-analytics/internal/config"
	"github.com/Dan9191/bank-analytics/internal/logging"
	"github.com/Dan9191/bank-analytics/internal/models"
	"github.com/Dan9191/bank-analytics/internal/money"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Target is the currency every rate is expressed in.
const Target = "RUB"

// {"success":true,"query":{"from":"USD","to":"RUB","amount":1},"result":89.6883}
type convertResponse struct {
	Success bool    `json:"success"`
	Result  float64 `json:"result"`
	Error   *struct {
		Code int    `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

type Client struct {
	baseURL     string
	apiKey      string
	client      *http.Client
	concurrency int
	log         logrus.FieldLogger
}

func NewClient(cfg *config.Config, log logrus.FieldLogger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.FixerURL, "/"),
		apiKey:      cfg.FixerAPIKey,
		client:      &http.Client{Timeout: cfg.HTTPTimeout},
		concurrency: max(cfg.QuoteConcurrency, 1),
		log:         logging.Component(log, "fixer"),
	}
}

// Rate returns the price of one unit of currency in roubles.
func (c *Client) Rate(ctx context.Context, currency string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/convert", nil)
	if err != nil {
		return 0, err
	}

	q := url.Values{}
	q.Set("to", Target)
	q.Set("from", currency)
	q.Set("amount", "1")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error getting currency conversion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("currency conversion for %s: unexpected status code %d", currency, resp.StatusCode)
	}

	var body convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("error parsing currency conversion response: %w", err)
	}
	if !body.Success {
		if body.Error != nil {
			return 0, fmt.Errorf("currency conversion for %s failed: %s", currency, body.Error.Info)
		}
		return 0, fmt.Errorf("currency conversion for %s failed", currency)
	}

	return money.Round2(body.Result), nil
}

// Rates converts every currency concurrently. Failed lookups are logged and
// left out; the order of currencies is kept.
func (c *Client) Rates(ctx context.Context, currencies []string) ([]models.CurrencyRate, error) {
	results := make([]*models.CurrencyRate, len(currencies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, cur := range currencies {
		g.Go(func() error {
			rate, err := c.Rate(gctx, cur)
			if err != nil {
				c.log.WithError(err).WithField("currency", cur).Warn("failed to get currency rate")
				return nil
			}
			results[i] = &models.CurrencyRate{Currency: cur, Rate: rate}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rates := make([]models.CurrencyRate, 0, len(currencies))
	for _, r := range results {
		if r != nil {
			rates = append(rates, *r)
		}
	}
	return rates, nil
}
