package models

// TopTransaction is one of the largest operations of a period
type TopTransaction struct {
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// CurrencyRate is the price of one unit of Currency in roubles
type CurrencyRate struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
}

// StockPrice is the latest close price of a ticker
type StockPrice struct {
	Stock string  `json:"stock"`
	Price float64 `json:"price"`
}

// Overview is the dashboard for a month-to-date period
type Overview struct {
	Greeting        string           `json:"greeting"`
	Cards           []CardSummary    `json:"cards"`
	TopTransactions []TopTransaction `json:"top_transactions"`
	CurrencyRates   []CurrencyRate   `json:"currency_rates"`
	StockPrices     []StockPrice     `json:"stock_prices"`
}
