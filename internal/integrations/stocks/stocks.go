// Package stocks reads daily close prices from the aggregates API.
package stocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Dan9191/bank-analytics/internal/config"
	"github.com/Dan9191/bank-analytics/internal/logging"
	"github.com/Dan9191/bank-analytics/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrNoPriceData = errors.New("no price data")

type aggregatesResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Close float64 `json:"c"`
	} `json:"results"`
}

type Client struct {
	baseURL     string
	apiKey      string
	client      *http.Client
	concurrency int
	log         logrus.FieldLogger
	now         func() time.Time
}

func NewClient(cfg *config.Config, log logrus.FieldLogger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.StocksURL, "/"),
		apiKey:      cfg.StocksAPIKey,
		client:      &http.Client{Timeout: cfg.HTTPTimeout},
		concurrency: max(cfg.QuoteConcurrency, 1),
		log:         logging.Component(log, "stocks"),
		now:         time.Now,
	}
}

// Price returns the close of the most recent daily bar between yesterday and today.
func (c *Client) Price(ctx context.Context, ticker string) (float64, error) {
	today := c.now()
	yesterday := today.AddDate(0, 0, -1)

	endpoint := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s",
		c.baseURL, url.PathEscape(ticker), yesterday.Format("2006-01-02"), today.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	q := url.Values{}
	q.Set("adjusted", "true")
	q.Set("sort", "asc")
	q.Set("limit", "120")
	q.Set("apiKey", c.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error getting %s price: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%s price: unexpected status code %d", ticker, resp.StatusCode)
	}

	var body aggregatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("error parsing %s price response: %w", ticker, err)
	}
	if len(body.Results) == 0 {
		return 0, fmt.Errorf("%w for %s", ErrNoPriceData, ticker)
	}

	return body.Results[len(body.Results)-1].Close, nil
}

// Prices looks up every ticker concurrently. Failed lookups are logged and
// left out; the order of tickers is kept.
func (c *Client) Prices(ctx context.Context, tickers []string) ([]models.StockPrice, error) {
	results := make([]*models.StockPrice, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, ticker := range tickers {
		g.Go(func() error {
			price, err := c.Price(gctx, ticker)
			if err != nil {
				c.log.WithError(err).WithField("stock", ticker).Warn("failed to get stock price")
				return nil
			}
			results[i] = &models.StockPrice{Stock: ticker, Price: price}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prices := make([]models.StockPrice, 0, len(tickers))
	for _, p := range results {
		if p != nil {
			prices = append(prices, *p)
		}
	}
	return prices, nil
}
