package models

// CardSummary aggregates the spending of one card
type CardSummary struct {
	LastDigits string  `json:"last_digits"`
	TotalSpent int64   `json:"total_spent"`
	Cashback   float64 `json:"cashback"`
}
