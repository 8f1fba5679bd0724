package models

import "time"

// OperationDateLayout is the layout of the "Дата операции" column.
const OperationDateLayout = "02.01.2006 15:04:05"

// Operation is one row of the bank operations report. Optional numeric
// columns are nil when the cell is empty.
type Operation struct {
	OperationDate    time.Time `json:"operation_date"`
	RawOperationDate string    `json:"-"`
	PaymentDate      string    `json:"payment_date"`
	CardNumber       string    `json:"card_number"`
	Status           string    `json:"status"`
	Amount           float64   `json:"amount"`
	RawAmount        string    `json:"-"`
	AmountParsed     bool      `json:"-"`
	Currency         string    `json:"currency"`
	PaymentAmount    *float64  `json:"payment_amount,omitempty"`
	PaymentCurrency  string    `json:"payment_currency"`
	Cashback         *float64  `json:"cashback,omitempty"`
	Category         string    `json:"category"`
	MCC              *float64  `json:"mcc,omitempty"`
	Description      string    `json:"description"`
	Bonuses          *float64  `json:"bonuses,omitempty"`
	InvestRounding   *float64  `json:"invest_rounding,omitempty"`
	RoundedAmount    float64   `json:"rounded_amount"`
}

// HasDate reports whether the operation date was parsed.
func (o Operation) HasDate() bool {
	return !o.OperationDate.IsZero()
}
